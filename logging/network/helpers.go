package network

import (
	"context"

	"github.com/noleforte/DRAW-sub001/logging"
)

const (
	// EventSnapshotApplied is emitted when an inbound snapshot replaces world state.
	EventSnapshotApplied logging.EventType = "network.snapshot_applied"
	// EventDisconnected is emitted when the transport connection drops.
	EventDisconnected logging.EventType = "network.disconnected"
	// EventReconnectScheduled is emitted when the single-shot reconnect is armed.
	EventReconnectScheduled logging.EventType = "network.reconnect_scheduled"
)

// SnapshotPayload captures population counts carried by a snapshot.
type SnapshotPayload struct {
	Players int `json:"players"`
	Bots    int `json:"bots"`
	Coins   int `json:"coins"`
}

// SnapshotApplied publishes a debug event for an applied snapshot.
func SnapshotApplied(ctx context.Context, pub logging.Publisher, tick uint64, payload SnapshotPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSnapshotApplied,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryNetwork,
		Payload:  payload,
	})
}

// Disconnected publishes a warning when the transport drops.
func Disconnected(ctx context.Context, pub logging.Publisher, tick uint64, reason string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDisconnected,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryNetwork,
		Extra:    map[string]any{"reason": reason},
	})
}

// ReconnectScheduled publishes an info event when a reconnect attempt is armed.
func ReconnectScheduled(ctx context.Context, pub logging.Publisher, tick uint64, delayMillis int64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReconnectScheduled,
		Tick:     tick,
		Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryNetwork,
		Extra:    map[string]any{"delayMillis": delayMillis},
	})
}
