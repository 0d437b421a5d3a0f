// Package bots drives the AI population: per-tick steering toward coins and
// the churn scheduler that fakes organic joins and leaves without a central
// authority.
package bots

import (
	"context"
	"math/rand"
	"time"

	"github.com/noleforte/DRAW-sub001/internal/sched"
	"github.com/noleforte/DRAW-sub001/internal/telemetry"
	"github.com/noleforte/DRAW-sub001/internal/world"
	"github.com/noleforte/DRAW-sub001/logging"
	"github.com/noleforte/DRAW-sub001/logging/population"
)

const (
	DefaultMinBots = 5
	DefaultMaxBots = 15

	churnDelayMin  = 20 * time.Second
	churnDelayMax  = 180 * time.Second
	warmupDelayMin = 5 * time.Second
	warmupDelayMax = 30 * time.Second
)

var botNames = []string{
	"Nova", "Pixel", "Rogue", "Comet", "Dash",
	"Echo", "Blaze", "Frost", "Lumen", "Quark",
	"Vega", "Zephyr", "Onyx", "Ember", "Drift",
}

var botColors = []string{
	"#e74c3c", "#3498db", "#2ecc71", "#f1c40f", "#9b59b6",
	"#1abc9c", "#e67e22", "#fd79a8",
}

// Config tunes population bounds.
type Config struct {
	MinBots int
	MaxBots int
}

func (cfg Config) normalized() Config {
	normalized := cfg
	if normalized.MinBots <= 0 {
		normalized.MinBots = DefaultMinBots
	}
	if normalized.MaxBots <= 0 {
		normalized.MaxBots = DefaultMaxBots
	}
	if normalized.MaxBots < normalized.MinBots {
		normalized.MaxBots = normalized.MinBots
	}
	return normalized
}

// Deps carries the injectable collaborators so churn timing and coin flips
// are reproducible under test.
type Deps struct {
	RNG       *rand.Rand
	Publisher logging.Publisher
	Counters  *telemetry.Counters
	// Chat receives bot chat lines. Nil disables chatter.
	Chat func(botID, name, text string)
}

// Scheduler owns bot steering and population churn. Mutations flow through
// the world's AddBot/RemoveBot only.
type Scheduler struct {
	world    *world.World
	cfg      Config
	rng      *rand.Rand
	pub      logging.Publisher
	counters *telemetry.Counters

	chat func(botID, name, text string)

	queue   *sched.Queue
	churn   *sched.Timer
	chatter *sched.Timer
	tick    uint64
}

// New constructs a scheduler. The timer queue is shared with the engine so
// churn fires on the cooperative tick like everything else.
func New(w *world.World, queue *sched.Queue, cfg Config, deps Deps) *Scheduler {
	rng := deps.RNG
	if rng == nil {
		rng = w.SubsystemRNG("bots")
	}
	pub := deps.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	return &Scheduler{
		world:    w,
		cfg:      cfg.normalized(),
		rng:      rng,
		pub:      pub,
		counters: deps.Counters,
		chat:     deps.Chat,
		queue:    queue,
	}
}

// SetTick records the engine tick used for event attribution.
func (s *Scheduler) SetTick(tick uint64) {
	s.tick = tick
}

// SeedPopulation spawns the minimum population immediately, used by the local
// transport so an offline match is not empty at the start.
func (s *Scheduler) SeedPopulation() {
	for len(s.world.Bots()) < s.cfg.MinBots {
		s.spawn()
	}
}

// StartChurn arms the first churn event with the shorter warm-up delay.
func (s *Scheduler) StartChurn() {
	s.scheduleChurn(s.randomDelay(warmupDelayMin, warmupDelayMax))
}

// StopChurn cancels the pending churn event, used on match reset.
func (s *Scheduler) StopChurn() {
	if s.churn != nil {
		s.queue.Cancel(s.churn)
		s.churn = nil
	}
}

func (s *Scheduler) scheduleChurn(delay time.Duration) {
	s.churn = s.queue.Schedule(delay, func(now time.Time) {
		s.churnOnce()
		s.scheduleChurn(s.randomDelay(churnDelayMin, churnDelayMax))
	})
}

// churnOnce flips a fair coin: heads spawns (below the cap), tails removes
// (above the floor). A flip that cannot be honored is a no-op, but the next
// event is scheduled either way.
func (s *Scheduler) churnOnce() {
	if s.rng.Intn(2) == 0 {
		if len(s.world.Bots()) < s.cfg.MaxBots {
			s.spawn()
		}
		return
	}
	if len(s.world.Bots()) > s.cfg.MinBots {
		s.removeRandom()
	}
}

func (s *Scheduler) spawn() {
	name := botNames[s.rng.Intn(len(botNames))]
	color := botColors[s.rng.Intn(len(botColors))]
	bot := s.world.SpawnBot(name, color)
	if s.counters != nil {
		s.counters.RecordBotSpawn()
	}
	population.BotSpawned(context.Background(), s.pub, s.tick, bot.ID,
		population.ChurnPayload{Bots: len(s.world.Bots())})
}

func (s *Scheduler) removeRandom() {
	index := s.rng.Intn(len(s.world.Bots()))
	removed, ok := s.world.RemoveBot(index)
	if !ok {
		return
	}
	if s.counters != nil {
		s.counters.RecordBotRemoval()
	}
	population.BotRemoved(context.Background(), s.pub, s.tick, removed.ID,
		population.ChurnPayload{Bots: len(s.world.Bots())})
}

func (s *Scheduler) randomDelay(min, max time.Duration) time.Duration {
	span := max - min
	if span <= 0 {
		return min
	}
	return min + time.Duration(s.rng.Int63n(int64(span)))
}
