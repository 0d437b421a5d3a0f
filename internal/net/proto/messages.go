// Package proto defines the JSON wire protocol. Inbound events use
// full-replace semantics: every gameState/gameUpdate carries the complete
// population, and the newest message wins.
package proto

import (
	"encoding/json"
	"fmt"

	"github.com/noleforte/DRAW-sub001/internal/geom"
	"github.com/noleforte/DRAW-sub001/internal/world"
)

// Version tracks the wire-protocol revision expected by the server.
const Version = 1

// Inbound event type identifiers.
const (
	TypeGameState    = "gameState"
	TypeGameUpdate   = "gameUpdate"
	TypeMatchStarted = "matchStarted"
	TypeMatchTimer   = "matchTimer"
	TypeChatMessage  = "chatMessage"
	TypeGameEnded    = "gameEnded"
)

// Outbound message type identifiers.
const (
	TypeJoinGame   = "joinGame"
	TypePlayerMove = "playerMove"
	TypeChatSend   = "chatMessage"
)

// PlayerWire is the snapshot shape of a human entity.
type PlayerWire struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Size   float64 `json:"size"`
	Score  int     `json:"score"`
	Color  string  `json:"color"`
	Wallet string  `json:"wallet,omitempty"`
}

// BotWire is the snapshot shape of an AI entity.
type BotWire struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	VX             float64 `json:"vx"`
	VY             float64 `json:"vy"`
	Size           float64 `json:"size"`
	Score          int     `json:"score"`
	Color          string  `json:"color"`
	SpeedVariation float64 `json:"speedVariation,omitempty"`
}

// CoinWire is the snapshot shape of a coin.
type CoinWire struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value int     `json:"value"`
}

// FinalResult is one row of the end-of-match scoreboard.
type FinalResult struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Score    int    `json:"score"`
}

// ServerEvent is the decoded union of every inbound message. Type selects
// which fields are meaningful.
type ServerEvent struct {
	Type string `json:"type"`

	// gameState / gameUpdate
	Players   []PlayerWire `json:"players,omitempty"`
	Bots      []BotWire    `json:"bots,omitempty"`
	Coins     []CoinWire   `json:"coins,omitempty"`
	WorldSize float64      `json:"worldSize,omitempty"`
	PlayerID  string       `json:"playerId,omitempty"`

	// matchStarted / matchTimer
	TimeLeft    float64 `json:"timeLeft,omitempty"`
	ServerTime  int64   `json:"serverTime,omitempty"`
	EndOfDayGMT string  `json:"endOfDayGMT,omitempty"`

	// chatMessage
	PlayerName string `json:"playerName,omitempty"`
	Message    string `json:"message,omitempty"`
	Timestamp  int64  `json:"timestamp,omitempty"`
	IsSystem   bool   `json:"isSystem,omitempty"`

	// gameEnded
	FinalResults []FinalResult `json:"finalResults,omitempty"`
}

// DecodeServerEvent converts a raw transport payload into a structured event.
func DecodeServerEvent(payload []byte) (ServerEvent, error) {
	var event ServerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("decode server event: %w", err)
	}
	if event.Type == "" {
		return event, fmt.Errorf("server event missing type")
	}
	return event, nil
}

// IsSnapshot reports whether the event replaces the world population.
func (e ServerEvent) IsSnapshot() bool {
	return e.Type == TypeGameState || e.Type == TypeGameUpdate
}

// Entities converts the wire arrays into world entities and coins, preserving
// the wire order, which doubles as the collision iteration order.
func (e ServerEvent) Entities() (players, bots []*world.Entity, coins []world.Coin) {
	players = make([]*world.Entity, 0, len(e.Players))
	for _, p := range e.Players {
		entity := world.NewHuman(p.ID, p.Name, p.Wallet, p.Color, geom.Vec2{X: p.X, Y: p.Y}, sizeOrDefault(p.Size))
		entity.Vel = geom.Vec2{X: p.VX, Y: p.VY}
		entity.Score = p.Score
		players = append(players, entity)
	}
	bots = make([]*world.Entity, 0, len(e.Bots))
	for _, b := range e.Bots {
		entity := world.NewBot(b.ID, b.Name, b.Color, geom.Vec2{X: b.X, Y: b.Y}, sizeOrDefault(b.Size), b.SpeedVariation)
		entity.Vel = geom.Vec2{X: b.VX, Y: b.VY}
		entity.Score = b.Score
		bots = append(bots, entity)
	}
	coins = make([]world.Coin, 0, len(e.Coins))
	for _, c := range e.Coins {
		value := c.Value
		if value <= 0 {
			value = world.CoinValue
		}
		coins = append(coins, world.Coin{ID: c.ID, Pos: geom.Vec2{X: c.X, Y: c.Y}, Value: value})
	}
	return players, bots, coins
}

func sizeOrDefault(size float64) float64 {
	if size <= 0 {
		return world.DefaultEntitySize
	}
	return size
}

// JoinGame announces the local player to the server.
type JoinGame struct {
	Name     string `json:"name"`
	Wallet   string `json:"wallet,omitempty"`
	Color    string `json:"color"`
	PlayerID string `json:"playerId,omitempty"`
}

// EncodeJoinGame renders the join payload.
func EncodeJoinGame(msg JoinGame) ([]byte, error) {
	frame := struct {
		Ver  int    `json:"ver"`
		Type string `json:"type"`
		JoinGame
	}{Ver: Version, Type: TypeJoinGame, JoinGame: msg}
	return json.Marshal(frame)
}

// PlayerMove carries the local position intent, throttled by the engine.
type PlayerMove struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// EncodePlayerMove renders the movement payload.
func EncodePlayerMove(msg PlayerMove) ([]byte, error) {
	frame := struct {
		Ver  int    `json:"ver"`
		Type string `json:"type"`
		PlayerMove
	}{Ver: Version, Type: TypePlayerMove, PlayerMove: msg}
	return json.Marshal(frame)
}

// ChatSend carries an outbound chat line.
type ChatSend struct {
	Message string `json:"message"`
}

// EncodeChatSend renders the chat payload.
func EncodeChatSend(msg ChatSend) ([]byte, error) {
	frame := struct {
		Ver  int    `json:"ver"`
		Type string `json:"type"`
		ChatSend
	}{Ver: Version, Type: TypeChatSend, ChatSend: msg}
	return json.Marshal(frame)
}
