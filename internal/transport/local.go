package transport

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/noleforte/DRAW-sub001/internal/matchclock"
	"github.com/noleforte/DRAW-sub001/internal/net/proto"
	"github.com/noleforte/DRAW-sub001/internal/world"
	"github.com/noleforte/DRAW-sub001/logging"
)

// localBuffer sizes the event channel; local play generates few events.
const localBuffer = 16

// Local is an in-process transport for offline play. It answers joinGame with
// a synthetic snapshot and match timer, then stays quiet: movement, bots and
// pickups all run in the local simulation.
type Local struct {
	clock logging.Clock
	cfg   world.Config

	mu         sync.Mutex
	closed     bool
	playerID   string
	playerName string
	events     chan proto.ServerEvent
}

// NewLocal constructs an offline transport seeding worlds from cfg.
func NewLocal(clock logging.Clock, cfg world.Config) *Local {
	if clock == nil {
		clock = logging.SystemClock{}
	}
	return &Local{
		clock:  clock,
		cfg:    cfg,
		events: make(chan proto.ServerEvent, localBuffer),
	}
}

// Events yields the synthetic inbound stream.
func (l *Local) Events() <-chan proto.ServerEvent {
	return l.events
}

// Send accepts an outbound frame. joinGame triggers the synthetic snapshot;
// chat echoes back; movement needs no reply because the local world is
// authoritative.
func (l *Local) Send(payload []byte) error {
	var frame struct {
		Type     string  `json:"type"`
		Name     string  `json:"name"`
		Wallet   string  `json:"wallet"`
		Color    string  `json:"color"`
		PlayerID string  `json:"playerId"`
		Message  string  `json:"message"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
	}
	if err := json.Unmarshal(payload, &frame); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return errors.New("local transport closed")
	}

	switch frame.Type {
	case proto.TypeJoinGame:
		// Remember who joined; outbound chat frames carry only the message,
		// so the echo needs the identity stamped back on.
		l.playerID = frame.PlayerID
		if l.playerID == "" {
			l.playerID = "local-player"
		}
		l.playerName = frame.Name
		l.emitLocked(l.snapshotFor(l.playerID, frame.Name, frame.Wallet, frame.Color))
		l.emitLocked(proto.ServerEvent{
			Type:       proto.TypeMatchStarted,
			TimeLeft:   float64(matchclock.SecondsUntilDayEnd(l.clock.Now())),
			ServerTime: l.clock.Now().UnixMilli(),
		})
	case proto.TypeChatSend:
		l.emitLocked(proto.ServerEvent{
			Type:       proto.TypeChatMessage,
			PlayerID:   l.playerID,
			PlayerName: l.playerName,
			Message:    frame.Message,
			Timestamp:  l.clock.Now().UnixMilli(),
		})
	case proto.TypePlayerMove:
		// Local world already holds the position.
	}
	return nil
}

// Close shuts the synthetic stream down.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.events)
	return nil
}

func (l *Local) emitLocked(event proto.ServerEvent) {
	select {
	case l.events <- event:
	default:
		// Drop rather than block; the consumer is the engine's tick loop.
	}
}

// snapshotFor builds a gameState with the joining player at the origin and a
// deterministically seeded coin field. Bots are left to the local population
// scheduler.
func (l *Local) snapshotFor(playerID, name, wallet, color string) proto.ServerEvent {
	w := world.New(l.cfg, world.Deps{})
	w.SeedCoins()

	coins := w.Coins()
	wireCoins := make([]proto.CoinWire, 0, len(coins))
	for _, c := range coins {
		wireCoins = append(wireCoins, proto.CoinWire{ID: c.ID, X: c.Pos.X, Y: c.Pos.Y, Value: c.Value})
	}

	return proto.ServerEvent{
		Type:      proto.TypeGameState,
		PlayerID:  playerID,
		WorldSize: w.Config().Size,
		Players: []proto.PlayerWire{{
			ID:     playerID,
			Name:   name,
			Size:   world.DefaultEntitySize,
			Color:  color,
			Wallet: wallet,
		}},
		Coins: wireCoins,
	}
}
