package match

import (
	"context"

	"github.com/noleforte/DRAW-sub001/logging"
)

const (
	// EventStarted is emitted when the match clock leaves idle.
	EventStarted logging.EventType = "match.started"
	// EventTimerReconciled is emitted when an authoritative timer message is adopted.
	EventTimerReconciled logging.EventType = "match.timer_reconciled"
	// EventEnded is emitted when the match reaches its terminal state.
	EventEnded logging.EventType = "match.ended"
)

// TimerPayload captures a clock reconciliation.
type TimerPayload struct {
	TimeLeft     int64 `json:"timeLeft"`
	ServerOffset int64 `json:"serverOffsetMillis"`
}

// Started publishes a match start event.
func Started(ctx context.Context, pub logging.Publisher, tick uint64, timeLeft int64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStarted,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMatch},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  TimerPayload{TimeLeft: timeLeft},
	})
}

// TimerReconciled publishes a debug event for an authoritative timer update.
func TimerReconciled(ctx context.Context, pub logging.Publisher, tick uint64, payload TimerPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventTimerReconciled,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMatch},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// Ended publishes the terminal match event.
func Ended(ctx context.Context, pub logging.Publisher, tick uint64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventEnded,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindMatch},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
	})
}
