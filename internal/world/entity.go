package world

import (
	"time"

	"github.com/noleforte/DRAW-sub001/internal/geom"
)

// Kind tags the entity variant. AI-only state lives on the Bot arm, wallet and
// local-control state on the Human arm.
type Kind string

const (
	KindHuman Kind = "human"
	KindBot   Kind = "bot"
)

// Entity is any scorable, positionable actor in the arena. Exactly one of the
// Human/Bot trait arms is non-nil, matching Kind.
type Entity struct {
	ID    string
	Name  string
	Pos   geom.Vec2
	Vel   geom.Vec2
	Size  float64
	Score int
	Color string
	Kind  Kind

	Human *HumanTraits
	Bot   *BotTraits
}

// HumanTraits carries state only human-controlled entities have.
type HumanTraits struct {
	Wallet            string
	ControlledLocally bool
}

// BotTraits carries AI-only state.
type BotTraits struct {
	// SpeedVariation multiplies the shared base speed, in [0.8, 1.2].
	SpeedVariation float64
	// LastMessageAt rate-limits bot chatter.
	LastMessageAt time.Time
}

// Position implements the camera target capability.
func (e *Entity) Position() geom.Vec2 {
	if e == nil {
		return geom.Vec2{}
	}
	return e.Pos
}

// Velocity implements the camera target capability.
func (e *Entity) Velocity() geom.Vec2 {
	if e == nil {
		return geom.Vec2{}
	}
	return e.Vel
}

// IsBot reports whether the entity is AI controlled.
func (e *Entity) IsBot() bool {
	return e != nil && e.Kind == KindBot
}

// ControlledLocally reports whether this is the locally driven human entity.
func (e *Entity) ControlledLocally() bool {
	return e != nil && e.Human != nil && e.Human.ControlledLocally
}

// NewHuman constructs a human-variant entity.
func NewHuman(id, name, wallet, color string, pos geom.Vec2, size float64) *Entity {
	return &Entity{
		ID:    id,
		Name:  name,
		Pos:   pos,
		Size:  size,
		Color: color,
		Kind:  KindHuman,
		Human: &HumanTraits{Wallet: wallet},
	}
}

// NewBot constructs a bot-variant entity.
func NewBot(id, name, color string, pos geom.Vec2, size, speedVariation float64) *Entity {
	return &Entity{
		ID:    id,
		Name:  name,
		Pos:   pos,
		Size:  size,
		Color: color,
		Kind:  KindBot,
		Bot:   &BotTraits{SpeedVariation: speedVariation},
	}
}
