package population

import (
	"context"

	"github.com/noleforte/DRAW-sub001/logging"
)

const (
	// EventBotSpawned is emitted when churn adds a bot.
	EventBotSpawned logging.EventType = "population.bot_spawned"
	// EventBotRemoved is emitted when churn removes a bot.
	EventBotRemoved logging.EventType = "population.bot_removed"
)

// ChurnPayload captures the population count after a churn event.
type ChurnPayload struct {
	Bots int `json:"bots"`
}

// BotSpawned publishes a churn spawn event.
func BotSpawned(ctx context.Context, pub logging.Publisher, tick uint64, botID string, payload ChurnPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBotSpawned,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: botID, Kind: logging.EntityKindBot},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// BotRemoved publishes a churn removal event.
func BotRemoved(ctx context.Context, pub logging.Publisher, tick uint64, botID string, payload ChurnPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBotRemoved,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: botID, Kind: logging.EntityKindBot},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}
