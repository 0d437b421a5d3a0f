package world

import (
	"math"
	"math/rand"
	"testing"

	"github.com/noleforte/DRAW-sub001/internal/geom"
)

func TestNewNormalizesConfigAndSeedsRNG(t *testing.T) {
	w := New(Config{}, Deps{})
	if w == nil {
		t.Fatalf("New returned nil world")
	}

	normalized := (Config{}).normalized()
	if got := w.Config(); got != normalized {
		t.Fatalf("Config not normalized: got %+v want %+v", got, normalized)
	}

	first := New(Config{}, Deps{}).RandomPosition()
	second := New(Config{}, Deps{}).RandomPosition()
	if first != second {
		t.Fatalf("world RNG not deterministic: %+v vs %+v", first, second)
	}
}

func TestNewUsesInjectedRNGFactory(t *testing.T) {
	calls := 0
	factory := func(rootSeed, label string) *rand.Rand {
		calls++
		return rand.New(rand.NewSource(123))
	}

	w := New(Config{Seed: "custom"}, Deps{RNG: factory})
	if calls != 1 {
		t.Fatalf("expected factory to be invoked once for world RNG, got %d", calls)
	}

	_ = w.SubsystemRNG("bots")
	if calls != 2 {
		t.Fatalf("expected factory to be reused for subsystem RNG, got %d calls", calls)
	}
}

func TestIntegrateAdvancesByVelocity(t *testing.T) {
	w := New(Config{}, Deps{})
	e := NewHuman("player-1", "tester", "", "#fff", geom.Vec2{X: 10, Y: -20}, DefaultEntitySize)
	e.Vel = geom.Vec2{X: 100, Y: 50}

	w.Integrate(e, 0.5)

	if e.Pos.X != 60 || e.Pos.Y != 5 {
		t.Fatalf("unexpected position after integrate: %+v", e.Pos)
	}
}

func TestIntegrateClampsToBounds(t *testing.T) {
	w := New(Config{Size: 1000}, Deps{})
	half := w.Bounds()

	e := NewHuman("player-1", "tester", "", "#fff", geom.Vec2{X: half - 1, Y: -half + 1}, DefaultEntitySize)
	e.Vel = geom.Vec2{X: 5000, Y: -5000}

	w.Integrate(e, 1.0)

	if e.Pos.X != half || e.Pos.Y != -half {
		t.Fatalf("position not clamped: %+v (half=%f)", e.Pos, half)
	}
}

func TestResizeWidensBoundsForIntegration(t *testing.T) {
	w := New(Config{Size: 1000}, Deps{})

	w.Resize(8000)
	if got := w.Bounds(); got != 4000 {
		t.Fatalf("bounds after resize: %v", got)
	}

	e := NewHuman("player-1", "tester", "", "#fff", geom.Vec2{X: 3000}, DefaultEntitySize)
	w.Integrate(e, 1.0/30)
	if e.Pos.X != 3000 {
		t.Fatalf("position inside the new bounds was clamped: %+v", e.Pos)
	}
}

func TestResizeIgnoresNonPositiveSizes(t *testing.T) {
	w := New(Config{Size: 1000}, Deps{})
	w.Resize(0)
	w.Resize(-200)
	if got := w.Bounds(); got != 500 {
		t.Fatalf("bounds changed by invalid resize: %v", got)
	}
}

func TestIntegrateAllKeepsEveryEntityInBounds(t *testing.T) {
	w := New(Config{Size: 500}, Deps{})
	rng := w.SubsystemRNG("test")
	for i := 0; i < 25; i++ {
		bot := w.SpawnBot("bot", "#0f0")
		bot.Vel = geom.Vec2{X: rng.Float64()*4000 - 2000, Y: rng.Float64()*4000 - 2000}
	}

	for tick := 0; tick < 50; tick++ {
		w.IntegrateAll(1.0 / 60.0)
	}

	half := w.Bounds()
	for _, e := range w.Entities() {
		if math.Abs(e.Pos.X) > half || math.Abs(e.Pos.Y) > half {
			t.Fatalf("entity %s escaped bounds: %+v", e.ID, e.Pos)
		}
	}
}

func TestFindByIDSearchesPlayersThenBots(t *testing.T) {
	w := New(Config{}, Deps{})
	w.AddPlayer(NewHuman("player-1", "a", "", "", geom.Vec2{}, DefaultEntitySize))
	bot := w.SpawnBot("b", "")

	if found, ok := w.FindByID("player-1"); !ok || found.ID != "player-1" {
		t.Fatalf("player lookup failed: %v %v", found, ok)
	}
	if found, ok := w.FindByID(bot.ID); !ok || found.ID != bot.ID {
		t.Fatalf("bot lookup failed: %v %v", found, ok)
	}
	if _, ok := w.FindByID("missing"); ok {
		t.Fatalf("expected lookup miss for unknown id")
	}
}

func TestReplaceAllResolvesLocalByIdentity(t *testing.T) {
	w := New(Config{}, Deps{})
	w.SetLocalID("player-7")

	if _, ok := w.Local(); ok {
		t.Fatalf("local entity should not resolve before it joins")
	}

	players := []*Entity{
		NewHuman("player-1", "other", "", "", geom.Vec2{}, DefaultEntitySize),
		NewHuman("player-7", "me", "", "", geom.Vec2{X: 3}, DefaultEntitySize),
	}
	w.ReplaceAll(players, nil, nil)

	local, ok := w.Local()
	if !ok {
		t.Fatalf("local entity not resolved after snapshot")
	}
	if local.ID != "player-7" {
		t.Fatalf("resolved wrong entity: %s", local.ID)
	}
	if !local.ControlledLocally() {
		t.Fatalf("resolved entity not flagged as locally controlled")
	}
}

func TestReplaceAllFallsBackToCachedLocalForOneFrame(t *testing.T) {
	w := New(Config{}, Deps{})
	w.SetLocalID("player-7")
	w.ReplaceAll([]*Entity{NewHuman("player-7", "me", "", "", geom.Vec2{X: 42}, DefaultEntitySize)}, nil, nil)

	cached, ok := w.Local()
	if !ok {
		t.Fatalf("local entity not resolved")
	}

	// First snapshot omitting the id keeps the cached reference alive.
	w.ReplaceAll([]*Entity{NewHuman("player-1", "other", "", "", geom.Vec2{}, DefaultEntitySize)}, nil, nil)
	fallback, ok := w.Local()
	if !ok {
		t.Fatalf("expected cached fallback after one missed snapshot")
	}
	if fallback != cached {
		t.Fatalf("fallback returned a different reference")
	}

	// A second miss means the player is gone.
	w.ReplaceAll([]*Entity{NewHuman("player-1", "other", "", "", geom.Vec2{}, DefaultEntitySize)}, nil, nil)
	if _, ok := w.Local(); ok {
		t.Fatalf("local entity should be treated as not joined after two misses")
	}
}

func TestReplaceAllRecoversAfterMissedFrame(t *testing.T) {
	w := New(Config{}, Deps{})
	w.SetLocalID("player-7")
	w.ReplaceAll([]*Entity{NewHuman("player-7", "me", "", "", geom.Vec2{}, DefaultEntitySize)}, nil, nil)
	w.ReplaceAll(nil, nil, nil)

	// The id reappears before the fallback expires.
	w.ReplaceAll([]*Entity{NewHuman("player-7", "me", "", "", geom.Vec2{X: 9}, DefaultEntitySize)}, nil, nil)
	local, ok := w.Local()
	if !ok {
		t.Fatalf("local entity not re-resolved")
	}
	if local.Pos.X != 9 {
		t.Fatalf("stale reference retained after re-resolve: %+v", local.Pos)
	}
}

func TestRemoveBotPreservesSpawnOrder(t *testing.T) {
	w := New(Config{}, Deps{})
	first := w.SpawnBot("first", "")
	w.SpawnBot("second", "")
	third := w.SpawnBot("third", "")

	removed, ok := w.RemoveBot(1)
	if !ok {
		t.Fatalf("RemoveBot failed")
	}
	if removed.Name != "second" {
		t.Fatalf("removed wrong bot: %s", removed.Name)
	}

	bots := w.Bots()
	if len(bots) != 2 || bots[0] != first || bots[1] != third {
		t.Fatalf("spawn order not preserved after removal")
	}
}
