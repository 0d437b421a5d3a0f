package telemetry

import (
	"sync"
	"testing"
	"time"
)

func TestCountersSnapshotReflectsRecordedActivity(t *testing.T) {
	counters := NewCounters()
	counters.RecordFrame()
	counters.RecordFrame()
	counters.RecordSnapshotApplied()
	counters.RecordSnapshotDropped()
	counters.RecordMoveSent()
	counters.RecordMoveThrottled()
	counters.RecordPickup()
	counters.RecordBotSpawn()
	counters.RecordBotRemoval()
	counters.RecordTickDuration(7 * time.Millisecond)

	snapshot := counters.Snapshot()
	if snapshot.FramesRendered != 2 {
		t.Fatalf("frames: %d", snapshot.FramesRendered)
	}
	if snapshot.SnapshotsApplied != 1 || snapshot.SnapshotsDropped != 1 {
		t.Fatalf("snapshots: %+v", snapshot)
	}
	if snapshot.MovesSent != 1 || snapshot.MovesThrottled != 1 {
		t.Fatalf("moves: %+v", snapshot)
	}
	if snapshot.Pickups != 1 || snapshot.BotsSpawned != 1 || snapshot.BotsRemoved != 1 {
		t.Fatalf("gameplay counters: %+v", snapshot)
	}
	if snapshot.TickDurationMillis != 7 {
		t.Fatalf("tick duration: %d", snapshot.TickDurationMillis)
	}
}

func TestCountersNegativeTickDurationClampsToZero(t *testing.T) {
	counters := NewCounters()
	counters.RecordTickDuration(-time.Second)
	if got := counters.Snapshot().TickDurationMillis; got != 0 {
		t.Fatalf("negative duration must clamp: %d", got)
	}
}

func TestCountersAreSafeForConcurrentUse(t *testing.T) {
	counters := NewCounters()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				counters.RecordFrame()
				counters.RecordPickup()
			}
		}()
	}
	wg.Wait()

	snapshot := counters.Snapshot()
	if snapshot.FramesRendered != 8000 || snapshot.Pickups != 8000 {
		t.Fatalf("lost updates: %+v", snapshot)
	}
}
