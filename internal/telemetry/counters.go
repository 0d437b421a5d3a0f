package telemetry

import (
	"sync/atomic"
	"time"
)

// Counters tracks engine activity for the diagnostics endpoint. All fields are
// safe for concurrent access.
type Counters struct {
	framesRendered     atomic.Uint64
	snapshotsApplied   atomic.Uint64
	snapshotsDropped   atomic.Uint64
	movesSent          atomic.Uint64
	movesThrottled     atomic.Uint64
	pickups            atomic.Uint64
	botsSpawned        atomic.Uint64
	botsRemoved        atomic.Uint64
	tickDurationMillis atomic.Int64
}

// Snapshot is the JSON shape served by /diagnostics.
type Snapshot struct {
	FramesRendered     uint64 `json:"framesRendered"`
	SnapshotsApplied   uint64 `json:"snapshotsApplied"`
	SnapshotsDropped   uint64 `json:"snapshotsDropped"`
	MovesSent          uint64 `json:"movesSent"`
	MovesThrottled     uint64 `json:"movesThrottled"`
	Pickups            uint64 `json:"pickups"`
	BotsSpawned        uint64 `json:"botsSpawned"`
	BotsRemoved        uint64 `json:"botsRemoved"`
	TickDurationMillis int64  `json:"tickDurationMillis"`
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) RecordFrame()           { c.framesRendered.Add(1) }
func (c *Counters) RecordSnapshotApplied() { c.snapshotsApplied.Add(1) }
func (c *Counters) RecordSnapshotDropped() { c.snapshotsDropped.Add(1) }
func (c *Counters) RecordMoveSent()        { c.movesSent.Add(1) }
func (c *Counters) RecordMoveThrottled()   { c.movesThrottled.Add(1) }
func (c *Counters) RecordPickup()          { c.pickups.Add(1) }
func (c *Counters) RecordBotSpawn()        { c.botsSpawned.Add(1) }
func (c *Counters) RecordBotRemoval()      { c.botsRemoved.Add(1) }

// RecordTickDuration stores the latest tick cost.
func (c *Counters) RecordTickDuration(duration time.Duration) {
	millis := duration.Milliseconds()
	if millis < 0 {
		millis = 0
	}
	c.tickDurationMillis.Store(millis)
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		FramesRendered:     c.framesRendered.Load(),
		SnapshotsApplied:   c.snapshotsApplied.Load(),
		SnapshotsDropped:   c.snapshotsDropped.Load(),
		MovesSent:          c.movesSent.Load(),
		MovesThrottled:     c.movesThrottled.Load(),
		Pickups:            c.pickups.Load(),
		BotsSpawned:        c.botsSpawned.Load(),
		BotsRemoved:        c.botsRemoved.Load(),
		TickDurationMillis: c.tickDurationMillis.Load(),
	}
}
