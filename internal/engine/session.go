// Package engine runs the match session: one fixed-timestep loop that drains
// the transport, advances the simulation, and composes a frame. The same
// pipeline serves online and offline play; the transport decides who is
// authoritative.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/noleforte/DRAW-sub001/internal/bots"
	"github.com/noleforte/DRAW-sub001/internal/camera"
	"github.com/noleforte/DRAW-sub001/internal/geom"
	"github.com/noleforte/DRAW-sub001/internal/matchclock"
	"github.com/noleforte/DRAW-sub001/internal/net/proto"
	"github.com/noleforte/DRAW-sub001/internal/overlay"
	"github.com/noleforte/DRAW-sub001/internal/render"
	"github.com/noleforte/DRAW-sub001/internal/sched"
	"github.com/noleforte/DRAW-sub001/internal/stats"
	"github.com/noleforte/DRAW-sub001/internal/telemetry"
	"github.com/noleforte/DRAW-sub001/internal/transport"
	"github.com/noleforte/DRAW-sub001/internal/world"
	"github.com/noleforte/DRAW-sub001/logging"
	logginggameplay "github.com/noleforte/DRAW-sub001/logging/gameplay"
	loggingmatch "github.com/noleforte/DRAW-sub001/logging/match"
	loggingnetwork "github.com/noleforte/DRAW-sub001/logging/network"
)

const (
	// DefaultTickRate is the simulation frequency in ticks per second.
	DefaultTickRate = 30

	// moveInterval caps outbound position reports at 30 per second.
	moveInterval = time.Second / 30

	// chatLogCap bounds the in-memory chat history.
	chatLogCap = 100

	// maxTickDelta clamps dt after a stall so entities do not teleport.
	maxTickDelta = 0.25

	// backupSaveInterval drives the periodic best-score write while a match
	// is running.
	backupSaveInterval = 60 * time.Second
)

// Config tunes a session.
type Config struct {
	TickRate       int
	ViewportWidth  float64
	ViewportHeight float64

	PlayerID   string
	PlayerName string
	Wallet     string
	Color      string

	World world.Config
	Bots  bots.Config

	// LocalAuthority marks the session as the source of truth: bots are
	// steered, churned, and pickups resolved locally. Online sessions leave
	// this false and adopt the server's snapshots instead.
	LocalAuthority bool
}

func (cfg Config) normalized() Config {
	normalized := cfg
	if normalized.TickRate <= 0 {
		normalized.TickRate = DefaultTickRate
	}
	if normalized.ViewportWidth <= 0 {
		normalized.ViewportWidth = 800
	}
	if normalized.ViewportHeight <= 0 {
		normalized.ViewportHeight = 600
	}
	return normalized
}

// Deps carries the session collaborators.
type Deps struct {
	Transport transport.Transport
	Clock     logging.Clock
	Publisher logging.Publisher
	Logger    telemetry.Logger
	Counters  *telemetry.Counters
	Stats     *stats.Client
}

// ChatMessage is one line of the session chat log.
type ChatMessage struct {
	PlayerID   string
	PlayerName string
	Text       string
	System     bool
	ReceivedAt time.Time
}

// Session owns all match state. Step is the only mutation path; accessors
// take the same lock so callers can read from other goroutines.
type Session struct {
	cfg       Config
	clock     logging.Clock
	pub       logging.Publisher
	logger    telemetry.Logger
	counters  *telemetry.Counters
	stats     *stats.Client
	transport transport.Transport

	mu         sync.Mutex
	world      *world.World
	queue      *sched.Queue
	bots       *bots.Scheduler
	cam        *camera.Controller
	match      *matchclock.Clock
	overlays   *overlay.Tracker
	renderer   *render.Renderer
	events     <-chan proto.ServerEvent
	tick       uint64
	input      geom.Vec2
	frame      render.Frame
	chat       []ChatMessage
	results    []proto.FinalResult
	lastMoveAt time.Time
	lastMove   geom.Vec2
	moveSent   bool
	camSnapped bool
	endedSeen  bool
	backup     *sched.Timer
	secondTick *sched.Timer
}

// NewSession wires a session from its collaborators.
func NewSession(cfg Config, deps Deps) *Session {
	cfg = cfg.normalized()
	clock := deps.Clock
	if clock == nil {
		clock = logging.SystemClock{}
	}
	pub := deps.Publisher
	if pub == nil {
		pub = logging.NopPublisher()
	}
	logger := deps.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}

	w := world.New(cfg.World, world.Deps{})
	queue := sched.New(clock)
	s := &Session{
		cfg:       cfg,
		clock:     clock,
		pub:       pub,
		logger:    logger,
		counters:  deps.Counters,
		stats:     deps.Stats,
		transport: deps.Transport,
		world:     w,
		queue:     queue,
		cam:       camera.New(cfg.ViewportWidth, cfg.ViewportHeight),
		match:     matchclock.New(clock),
		overlays:  overlay.New(clock),
		renderer:  render.New(render.Options{}),
	}
	s.bots = bots.New(w, queue, cfg.Bots, bots.Deps{
		Publisher: pub,
		Counters:  deps.Counters,
		// Chatter fires from queue.Poll inside Step, so the session lock is
		// already held here.
		Chat: func(botID, name, text string) {
			s.receiveChat(context.Background(), proto.ServerEvent{
				PlayerID:   botID,
				PlayerName: name,
				Message:    text,
			})
		},
	})
	if deps.Transport != nil {
		s.events = deps.Transport.Events()
	}
	if cfg.PlayerID != "" {
		w.SetLocalID(cfg.PlayerID)
	}
	return s
}

// Join announces the local player over the transport.
func (s *Session) Join() error {
	if s.transport == nil {
		return nil
	}
	payload, err := proto.EncodeJoinGame(proto.JoinGame{
		Name:     s.cfg.PlayerName,
		Wallet:   s.cfg.Wallet,
		Color:    s.cfg.Color,
		PlayerID: s.cfg.PlayerID,
	})
	if err != nil {
		return err
	}
	return s.transport.Send(payload)
}

// SetInput records the movement direction. The vector is normalized, so only
// direction matters; a zero vector stops the player.
func (s *Session) SetInput(dir geom.Vec2) {
	s.mu.Lock()
	s.input = dir
	s.mu.Unlock()
}

// SendChat transmits a chat line over the transport.
func (s *Session) SendChat(text string) error {
	if s.transport == nil || text == "" {
		return nil
	}
	payload, err := proto.EncodeChatSend(proto.ChatSend{Message: text})
	if err != nil {
		return err
	}
	return s.transport.Send(payload)
}

// Run drives the fixed-rate tick loop until the context is canceled.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.TickRate))
	defer ticker.Stop()

	last := s.clock.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := s.clock.Now()
			dt := now.Sub(last).Seconds()
			if dt <= 0 || dt > maxTickDelta {
				dt = 1.0 / float64(s.cfg.TickRate)
			}
			last = now
			s.Step(ctx, now, dt)
		}
	}
}

// Step advances the session by one tick: drain inbound events, fire due
// timers, apply input, steer, integrate, resolve pickups, follow the camera,
// repin overlays, compose the frame, and report the local position.
func (s *Session) Step(ctx context.Context, now time.Time, dt float64) {
	started := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++
	s.bots.SetTick(s.tick)

	s.drainEvents(ctx)
	s.queue.Poll(now)
	s.checkMatchEnd(ctx)

	s.applyInput()
	if s.cfg.LocalAuthority && !s.match.Ended() {
		s.bots.Steer()
	}
	s.world.IntegrateAll(dt)
	s.resolvePickups(ctx)
	s.followLocal()
	s.overlays.Tick(s.world, s.cam)

	s.frame = s.renderer.ComposeFrame(s.world, s.cam, s.overlays.Active())
	if s.counters != nil {
		s.counters.RecordFrame()
		s.counters.RecordTickDuration(s.clock.Now().Sub(started))
	}

	s.reportPosition(now)
}

// Frame returns the draw list composed by the latest tick.
func (s *Session) Frame() render.Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Chat returns a copy of the chat log, oldest first.
func (s *Session) Chat() []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// FinalResults returns the scoreboard delivered with gameEnded, nil while the
// match is still running.
func (s *Session) FinalResults() []proto.FinalResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.results == nil {
		return nil
	}
	out := make([]proto.FinalResult, len(s.results))
	copy(out, s.results)
	return out
}

// Countdown returns the formatted match countdown and its display tier.
func (s *Session) Countdown() (string, matchclock.Severity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Countdown(), s.match.Severity()
}

// MatchState returns the match lifecycle state.
func (s *Session) MatchState() matchclock.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.State()
}

// Population returns the current entity counts for diagnostics.
func (s *Session) Population() (players, botCount, coins int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.world.Players()), len(s.world.Bots()), len(s.world.Coins())
}

// Close stops timers and tears down the transport.
func (s *Session) Close() error {
	s.mu.Lock()
	s.bots.StopChurn()
	s.bots.StopChatter()
	s.queue.Reset()
	s.mu.Unlock()
	if s.transport != nil {
		return s.transport.Close()
	}
	return nil
}

func (s *Session) drainEvents(ctx context.Context) {
	for {
		select {
		case event, ok := <-s.events:
			if !ok {
				// Transport gone for good; a nil channel blocks forever so the
				// select falls through to default from now on.
				s.events = nil
				return
			}
			s.handleEvent(ctx, event)
		default:
			return
		}
	}
}

func (s *Session) handleEvent(ctx context.Context, event proto.ServerEvent) {
	switch event.Type {
	case proto.TypeGameState, proto.TypeGameUpdate:
		s.applySnapshot(ctx, event)
	case proto.TypeMatchStarted:
		s.startMatch(ctx, event)
	case proto.TypeMatchTimer:
		s.match.ApplyTimer(event.TimeLeft, event.ServerTime)
		loggingmatch.TimerReconciled(ctx, s.pub, s.tick, loggingmatch.TimerPayload{
			TimeLeft:     s.match.TimeLeft(),
			ServerOffset: s.match.ServerOffset(),
		})
	case proto.TypeChatMessage:
		s.receiveChat(ctx, event)
	case proto.TypeGameEnded:
		s.results = event.FinalResults
		s.match.End()
	default:
		s.logger.Printf("ignoring unknown event type %q", event.Type)
	}
}

func (s *Session) applySnapshot(ctx context.Context, event proto.ServerEvent) {
	if s.match.Ended() {
		if s.counters != nil {
			s.counters.RecordSnapshotDropped()
		}
		return
	}
	if event.PlayerID != "" && s.world.LocalID() == "" {
		s.world.SetLocalID(event.PlayerID)
	}
	// The server's bounds win over the locally configured size, otherwise
	// integration would clamp server-valid positions.
	s.world.Resize(event.WorldSize)
	players, botEntities, coins := event.Entities()
	s.world.ReplaceAll(players, botEntities, coins)
	if s.counters != nil {
		s.counters.RecordSnapshotApplied()
	}
	loggingnetwork.SnapshotApplied(ctx, s.pub, s.tick, loggingnetwork.SnapshotPayload{
		Players: len(players),
		Bots:    len(botEntities),
		Coins:   len(coins),
	})

	if s.cfg.LocalAuthority {
		s.bots.SeedPopulation()
	}
}

// startMatch handles matchStarted for both a fresh match and a reset of a
// running one: pending timers are canceled so nothing from the previous match
// leaks in, then the standing timers are re-armed.
func (s *Session) startMatch(ctx context.Context, event proto.ServerEvent) {
	s.bots.StopChurn()
	s.bots.StopChatter()
	s.queue.Reset()
	s.overlays.Reset()
	s.results = nil
	s.endedSeen = false

	s.match.Start()
	if event.TimeLeft > 0 {
		s.match.ApplyTimer(event.TimeLeft, event.ServerTime)
	}
	loggingmatch.Started(ctx, s.pub, s.tick, s.match.TimeLeft())

	s.scheduleSecondTick()
	s.scheduleBackupSave(ctx)
	if s.cfg.LocalAuthority {
		s.bots.SeedPopulation()
		s.bots.StartChurn()
		s.bots.StartChatter()
	}
}

func (s *Session) receiveChat(ctx context.Context, event proto.ServerEvent) {
	s.chat = append(s.chat, ChatMessage{
		PlayerID:   event.PlayerID,
		PlayerName: event.PlayerName,
		Text:       event.Message,
		System:     event.IsSystem,
		ReceivedAt: s.clock.Now(),
	})
	if len(s.chat) > chatLogCap {
		s.chat = s.chat[len(s.chat)-chatLogCap:]
	}
	logginggameplay.ChatReceived(ctx, s.pub, s.tick, event.PlayerID, event.IsSystem)

	// System lines have no owning entity and never get a bubble.
	if !event.IsSystem && event.PlayerID != "" {
		s.overlays.Attach(event.PlayerID, event.Message, 0)
	}
}

func (s *Session) applyInput() {
	local, ok := s.world.Local()
	if !ok || s.match.Ended() {
		return
	}
	local.Vel = s.input.Normalized().Scale(s.world.Config().BaseSpeed)
}

func (s *Session) resolvePickups(ctx context.Context) {
	if s.match.Ended() {
		return
	}
	for _, pickup := range s.world.ResolvePickups() {
		if s.counters != nil {
			s.counters.RecordPickup()
		}
		entity, ok := s.world.FindByID(pickup.EntityID)
		if !ok {
			continue
		}
		kind := logging.EntityKindPlayer
		if entity.IsBot() {
			kind = logging.EntityKindBot
		}
		logginggameplay.CoinPickup(ctx, s.pub, s.tick, logging.EntityRef{ID: entity.ID, Kind: kind},
			logginggameplay.PickupPayload{
				CoinID:    pickup.CoinID,
				NewCoinID: pickup.NewCoinID,
				Value:     pickup.Value,
				Score:     entity.Score,
			})
	}
}

func (s *Session) followLocal() {
	local, ok := s.world.Local()
	if !ok {
		return
	}
	if !s.camSnapped {
		s.cam.SnapTo(local.Pos)
		s.camSnapped = true
	}
	s.cam.Follow(local)
}

// reportPosition sends playerMove at most once per interval and only when the
// position actually changed since the last report.
func (s *Session) reportPosition(now time.Time) {
	if s.transport == nil || s.match.Ended() {
		return
	}
	local, ok := s.world.Local()
	if !ok {
		return
	}
	if s.moveSent && local.Pos == s.lastMove {
		return
	}
	if s.moveSent && now.Sub(s.lastMoveAt) < moveInterval {
		if s.counters != nil {
			s.counters.RecordMoveThrottled()
		}
		return
	}
	payload, err := proto.EncodePlayerMove(proto.PlayerMove{X: local.Pos.X, Y: local.Pos.Y})
	if err != nil {
		return
	}
	if err := s.transport.Send(payload); err != nil {
		s.logger.Printf("move report failed: %v", err)
		return
	}
	s.lastMoveAt = now
	s.lastMove = local.Pos
	s.moveSent = true
	if s.counters != nil {
		s.counters.RecordMoveSent()
	}
}

// checkMatchEnd runs the terminal transition exactly once, whether the end
// came from the server or from the local countdown reaching zero.
func (s *Session) checkMatchEnd(ctx context.Context) {
	if !s.match.Ended() || s.endedSeen {
		return
	}
	s.endedSeen = true
	loggingmatch.Ended(ctx, s.pub, s.tick)
	s.bots.StopChurn()
	s.bots.StopChatter()
	if s.backup != nil {
		s.queue.Cancel(s.backup)
		s.backup = nil
	}
	s.persistResult(ctx)
}

func (s *Session) persistResult(ctx context.Context) {
	if s.stats == nil || !s.stats.Enabled() {
		return
	}
	local, ok := s.world.Local()
	if !ok {
		return
	}
	if record := s.stats.GetPlayerStats(ctx, local.ID); record != nil && local.Score > record.BestScore {
		s.logger.Printf("%s finished above their stored best: %d > %d", local.ID, local.Score, record.BestScore)
	}
	s.stats.SaveGameSession(ctx, local.ID, stats.SessionResult{
		Score:         local.Score,
		PlayerName:    local.Name,
		WalletAddress: s.cfg.Wallet,
	})
	s.stats.UpdateBestScore(ctx, local.ID, local.Score)
}

// scheduleSecondTick re-arms the one-second local countdown fallback.
func (s *Session) scheduleSecondTick() {
	s.secondTick = s.queue.Schedule(time.Second, func(time.Time) {
		s.match.TickLocal()
		if !s.match.Ended() {
			s.scheduleSecondTick()
		}
	})
}

// scheduleBackupSave periodically pushes the running score so a crash does
// not lose the whole session.
func (s *Session) scheduleBackupSave(ctx context.Context) {
	s.backup = s.queue.Schedule(backupSaveInterval, func(time.Time) {
		if local, ok := s.world.Local(); ok && s.stats != nil && s.stats.Enabled() {
			s.stats.UpdateBestScore(ctx, local.ID, local.Score)
		}
		if !s.match.Ended() {
			s.scheduleBackupSave(ctx)
		}
	})
}
