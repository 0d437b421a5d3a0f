package gameplay

import (
	"context"

	"github.com/noleforte/DRAW-sub001/logging"
)

const (
	// EventCoinPickup is emitted when an entity collects a coin.
	EventCoinPickup logging.EventType = "gameplay.coin_pickup"
	// EventChatReceived is emitted when a chat line enters the log.
	EventChatReceived logging.EventType = "gameplay.chat_received"
)

// PickupPayload captures one resolved coin collection.
type PickupPayload struct {
	CoinID    string `json:"coinId"`
	NewCoinID string `json:"newCoinId"`
	Value     int    `json:"value"`
	Score     int    `json:"score"`
}

// CoinPickup publishes a debug event for a resolved pickup.
func CoinPickup(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PickupPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCoinPickup,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// ChatReceived publishes a debug event for an inbound chat line.
func ChatReceived(ctx context.Context, pub logging.Publisher, tick uint64, playerID string, system bool) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventChatReceived,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: playerID, Kind: logging.EntityKindPlayer},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Extra:    map[string]any{"system": system},
	})
}
