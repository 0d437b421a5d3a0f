// Package overlay keeps transient UI elements (speech bubbles) pinned to
// moving entities. Overlays live in screen space and are recomputed from the
// owning entity's world position every render tick.
package overlay

import (
	"sort"
	"time"

	"github.com/noleforte/DRAW-sub001/internal/camera"
	"github.com/noleforte/DRAW-sub001/internal/geom"
	"github.com/noleforte/DRAW-sub001/internal/world"
	"github.com/noleforte/DRAW-sub001/logging"
)

// DefaultTTL is how long a bubble stays up unless replaced.
const DefaultTTL = 4 * time.Second

// Overlay is one transient element bound to an entity.
type Overlay struct {
	EntityID  string
	Content   string
	ScreenPos geom.Vec2
	expiresAt time.Time
}

// Tracker owns the live overlay set, at most one per entity id.
type Tracker struct {
	clock   logging.Clock
	entries map[string]*Overlay
}

// New constructs a tracker reading time from the given clock.
func New(clock logging.Clock) *Tracker {
	if clock == nil {
		clock = logging.SystemClock{}
	}
	return &Tracker{
		clock:   clock,
		entries: make(map[string]*Overlay),
	}
}

// Attach binds content to an entity for the given ttl, replacing any overlay
// already bound to that id. A non-positive ttl uses the default.
func (t *Tracker) Attach(entityID, content string, ttl time.Duration) {
	if entityID == "" {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	t.entries[entityID] = &Overlay{
		EntityID:  entityID,
		Content:   content,
		expiresAt: t.clock.Now().Add(ttl),
	}
}

// Tick expires stale overlays, tears down overlays whose entity vanished, and
// repins the survivors to their entity's current screen position.
func (t *Tracker) Tick(w *world.World, cam *camera.Controller) {
	now := t.clock.Now()
	for id, entry := range t.entries {
		entity, ok := w.FindByID(id)
		if !ok {
			// Entity gone: tear down immediately regardless of remaining ttl.
			delete(t.entries, id)
			continue
		}
		if !now.Before(entry.expiresAt) {
			delete(t.entries, id)
			continue
		}
		entry.ScreenPos = cam.WorldToScreen(entity.Pos)
	}
}

// Active returns the live overlays sorted by entity id for stable rendering.
func (t *Tracker) Active() []Overlay {
	overlays := make([]Overlay, 0, len(t.entries))
	for _, entry := range t.entries {
		overlays = append(overlays, *entry)
	}
	sort.Slice(overlays, func(i, j int) bool {
		return overlays[i].EntityID < overlays[j].EntityID
	})
	return overlays
}

// Reset drops every overlay, used on match reset.
func (t *Tracker) Reset() {
	t.entries = make(map[string]*Overlay)
}
