package world

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/noleforte/DRAW-sub001/internal/geom"
)

// RNGFactory builds subsystem RNGs from a root seed and label.
type RNGFactory func(rootSeed, label string) *rand.Rand

// Deps carries the injectable collaborators for a world.
type Deps struct {
	RNG RNGFactory
}

// World owns the player, bot, and coin collections. Other components receive
// read access and request mutations through the collision and churn paths only.
type World struct {
	cfg Config
	rng *rand.Rand

	players []*Entity
	bots    []*Entity
	coins   []Coin

	localID     string
	cachedLocal *Entity
	localMissed bool
	rngFactory  RNGFactory
}

// New constructs a world with normalized config and a deterministic RNG.
func New(cfg Config, deps Deps) *World {
	normalized := cfg.normalized()
	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}
	w := &World{
		cfg:        normalized,
		rng:        factory(normalized.Seed, "world"),
		players:    make([]*Entity, 0),
		bots:       make([]*Entity, 0),
		coins:      make([]Coin, 0),
		rngFactory: factory,
	}
	return w
}

// Config returns the normalized configuration.
func (w *World) Config() Config {
	return w.cfg
}

// SubsystemRNG derives a decorrelated RNG for the given label.
func (w *World) SubsystemRNG(label string) *rand.Rand {
	return w.rngFactory(w.cfg.Seed, label)
}

// Bounds returns the half extent of the world; valid positions lie within
// [-half, half] on both axes.
func (w *World) Bounds() float64 {
	return w.cfg.Size / 2
}

// Resize adopts an authoritative world size, as delivered with a snapshot.
// Non-positive sizes are ignored so a frame that omits the field keeps the
// current bounds.
func (w *World) Resize(size float64) {
	if size <= 0 {
		return
	}
	w.cfg.Size = size
}

// Integrate advances an entity by its velocity and clamps it to world bounds.
func (w *World) Integrate(e *Entity, dt float64) {
	if e == nil || dt <= 0 {
		return
	}
	e.Pos = e.Pos.Add(e.Vel.Scale(dt))
	half := w.Bounds()
	e.Pos.X = geom.Clamp(e.Pos.X, -half, half)
	e.Pos.Y = geom.Clamp(e.Pos.Y, -half, half)
}

// IntegrateAll advances every entity for one tick.
func (w *World) IntegrateAll(dt float64) {
	for _, e := range w.players {
		w.Integrate(e, dt)
	}
	for _, e := range w.bots {
		w.Integrate(e, dt)
	}
}

// FindByID returns the entity with the given id, players before bots.
func (w *World) FindByID(id string) (*Entity, bool) {
	if id == "" {
		return nil, false
	}
	for _, e := range w.players {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range w.bots {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// SetLocalID records which entity the client controls. The entity is resolved
// lazily on the next Local call or snapshot replace.
func (w *World) SetLocalID(id string) {
	w.localID = id
	w.cachedLocal = nil
	w.localMissed = false
	w.resolveLocal()
}

// LocalID returns the controlled entity id, which may not be resolved yet.
func (w *World) LocalID() string {
	return w.localID
}

// Local returns the locally controlled entity. After a snapshot that omitted
// the id it returns the previously cached reference for exactly one frame;
// after that the player is treated as not yet joined.
func (w *World) Local() (*Entity, bool) {
	if w.cachedLocal == nil {
		return nil, false
	}
	return w.cachedLocal, true
}

// ReplaceAll swaps in an authoritative snapshot of the full population and
// re-resolves the locally controlled entity by identity.
func (w *World) ReplaceAll(players, bots []*Entity, coins []Coin) {
	if players == nil {
		players = make([]*Entity, 0)
	}
	if bots == nil {
		bots = make([]*Entity, 0)
	}
	if coins == nil {
		coins = make([]Coin, 0)
	}
	w.players = players
	w.bots = bots
	w.coins = coins
	w.resolveLocal()
}

func (w *World) resolveLocal() {
	if w.localID == "" {
		w.cachedLocal = nil
		w.localMissed = false
		return
	}
	if found, ok := w.FindByID(w.localID); ok {
		found.Kind = KindHuman
		if found.Human == nil {
			found.Human = &HumanTraits{}
		}
		found.Human.ControlledLocally = true
		w.cachedLocal = found
		w.localMissed = false
		return
	}
	// Tolerate exactly one missed frame before declaring the player gone.
	if w.cachedLocal != nil && !w.localMissed {
		w.localMissed = true
		return
	}
	w.cachedLocal = nil
	w.localMissed = false
}

// AddPlayer appends a human entity.
func (w *World) AddPlayer(e *Entity) {
	if e == nil {
		return
	}
	w.players = append(w.players, e)
	if e.ID == w.localID {
		w.resolveLocal()
	}
}

// AddBot appends a bot entity; only the churn scheduler calls this.
func (w *World) AddBot(e *Entity) {
	if e == nil {
		return
	}
	w.bots = append(w.bots, e)
}

// RemoveBot deletes the bot at the given index, preserving spawn order.
func (w *World) RemoveBot(index int) (*Entity, bool) {
	if index < 0 || index >= len(w.bots) {
		return nil, false
	}
	removed := w.bots[index]
	w.bots = append(w.bots[:index], w.bots[index+1:]...)
	return removed, true
}

// Players returns the player slice in join order. Callers must not mutate it.
func (w *World) Players() []*Entity {
	return w.players
}

// Bots returns the bot slice in spawn order. Callers must not mutate it.
func (w *World) Bots() []*Entity {
	return w.bots
}

// Entities returns players then bots, the stable iteration order used for
// collision tie-breaks.
func (w *World) Entities() []*Entity {
	entities := make([]*Entity, 0, len(w.players)+len(w.bots))
	entities = append(entities, w.players...)
	entities = append(entities, w.bots...)
	return entities
}

// SpawnBot mints a bot at a random position with a random speed variation.
func (w *World) SpawnBot(name, color string) *Entity {
	variation := 0.8 + w.rng.Float64()*0.4
	bot := NewBot("bot-"+uuid.NewString(), name, color, w.RandomPosition(), DefaultEntitySize, variation)
	w.AddBot(bot)
	return bot
}
