// Package app wires the session, transport, logging router, and diagnostics
// server into a runnable process.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/noleforte/DRAW-sub001/internal/bots"
	"github.com/noleforte/DRAW-sub001/internal/engine"
	"github.com/noleforte/DRAW-sub001/internal/net/ws"
	"github.com/noleforte/DRAW-sub001/internal/stats"
	"github.com/noleforte/DRAW-sub001/internal/telemetry"
	"github.com/noleforte/DRAW-sub001/internal/transport"
	"github.com/noleforte/DRAW-sub001/internal/world"
	"github.com/noleforte/DRAW-sub001/logging"
	loggingsinks "github.com/noleforte/DRAW-sub001/logging/sinks"
)

// Config is the process configuration, normally read from the environment.
type Config struct {
	Addr     string
	ServerWS string
	Offline  bool
	StatsURL string

	PlayerID   string
	PlayerName string
	Wallet     string
	Color      string

	World world.Config
	Bots  bots.Config

	LogSinks   []string
	LogFile    string
	LogVerbose bool

	Logger telemetry.Logger
}

// ConfigFromEnv assembles a config from ARENA_* environment variables.
func ConfigFromEnv() Config {
	cfg := Config{
		Addr:       envOr("ARENA_ADDR", ":8080"),
		ServerWS:   os.Getenv("ARENA_SERVER_WS"),
		StatsURL:   os.Getenv("ARENA_STATS_URL"),
		PlayerID:   os.Getenv("ARENA_PLAYER_ID"),
		PlayerName: envOr("ARENA_PLAYER_NAME", "Anonymous"),
		Wallet:     os.Getenv("ARENA_WALLET"),
		Color:      envOr("ARENA_COLOR", "#4ecdc4"),
		LogFile:    os.Getenv("ARENA_LOG_FILE"),
	}
	cfg.Offline = cfg.ServerWS == "" || envBool("ARENA_OFFLINE")
	cfg.LogVerbose = envBool("ARENA_LOG_VERBOSE")
	if raw := os.Getenv("ARENA_LOG_SINKS"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				cfg.LogSinks = append(cfg.LogSinks, trimmed)
			}
		}
	}
	cfg.World = world.Config{
		Size:      envFloat("ARENA_WORLD_SIZE"),
		CoinCount: envInt("ARENA_COIN_COUNT"),
		Seed:      os.Getenv("ARENA_SEED"),
	}
	cfg.Bots = bots.Config{
		MinBots: envInt("ARENA_MIN_BOTS"),
		MaxBots: envInt("ARENA_MAX_BOTS"),
	}
	return cfg
}

// Run starts the session loop and the diagnostics server, blocking until the
// context is canceled.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	router, closeRouter, err := buildLogRouter(cfg)
	if err != nil {
		return fmt.Errorf("build logging router: %w", err)
	}
	defer closeRouter()

	counters := telemetry.NewCounters()
	statsClient := stats.New(cfg.StatsURL, logger)

	link, authority, err := buildTransport(ctx, cfg, router, logger)
	if err != nil {
		return fmt.Errorf("build transport: %w", err)
	}

	session := engine.NewSession(engine.Config{
		PlayerID:       cfg.PlayerID,
		PlayerName:     cfg.PlayerName,
		Wallet:         cfg.Wallet,
		Color:          cfg.Color,
		World:          cfg.World,
		Bots:           cfg.Bots,
		LocalAuthority: authority,
	}, engine.Deps{
		Transport: link,
		Publisher: router,
		Logger:    logger,
		Counters:  counters,
		Stats:     statsClient,
	})
	defer session.Close()

	if err := session.Join(); err != nil {
		return fmt.Errorf("join match: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go session.Run(runCtx)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: diagnosticsHandler(session, counters, router),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("diagnostics listening on %s (offline=%v)", cfg.Addr, authority)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("diagnostics server failed: %w", err)
	}
	return nil
}

func buildLogRouter(cfg Config) (*logging.Router, func(), error) {
	logCfg := logging.DefaultConfig()
	if len(cfg.LogSinks) > 0 {
		logCfg.EnabledSinks = cfg.LogSinks
	}
	if cfg.LogVerbose {
		logCfg.MinimumSeverity = logging.SeverityDebug
	}

	var namedSinks []logging.NamedSink
	var cleanup []func()
	if logCfg.HasSink("console") {
		namedSinks = append(namedSinks, logging.NamedSink{Name: "console", Sink: loggingsinks.NewConsole(os.Stdout)})
	}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		cleanup = append(cleanup, func() { file.Close() })
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSON(file, logCfg.JSON.FlushInterval)})
	}

	router, err := logging.NewRouter(logging.SystemClock{}, logCfg, namedSinks)
	if err != nil {
		for _, fn := range cleanup {
			fn()
		}
		return nil, nil, err
	}
	closeAll := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		router.Close(closeCtx)
		for _, fn := range cleanup {
			fn()
		}
	}
	return router, closeAll, nil
}

func buildTransport(ctx context.Context, cfg Config, pub logging.Publisher, logger telemetry.Logger) (transport.Transport, bool, error) {
	if cfg.Offline {
		return transport.NewLocal(logging.SystemClock{}, cfg.World), true, nil
	}
	remote, err := ws.Dial(ctx, cfg.ServerWS, ws.Options{Publisher: pub, Logger: logger})
	if err != nil {
		return nil, false, err
	}
	return remote, false, nil
}

func diagnosticsHandler(session *engine.Session, counters *telemetry.Counters, router *logging.Router) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		players, botCount, coins := session.Population()
		countdown, severity := session.Countdown()
		logStats := router.Stats()
		payload := struct {
			Counters  telemetry.Snapshot `json:"counters"`
			Players   int                `json:"players"`
			Bots      int                `json:"bots"`
			Coins     int                `json:"coins"`
			Match     string             `json:"match"`
			Countdown string             `json:"countdown"`
			Severity  int                `json:"countdownSeverity"`
			LogEvents uint64             `json:"logEvents"`
			LogDrops  uint64             `json:"logDrops"`
		}{
			Counters:  counters.Snapshot(),
			Players:   players,
			Bots:      botCount,
			Coins:     coins,
			Match:     session.MatchState().String(),
			Countdown: countdown,
			Severity:  int(severity),
			LogEvents: logStats.EventsTotal,
			LogDrops:  logStats.DroppedTotal,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	})

	return r
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}

func envInt(key string) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return value
}

func envFloat(key string) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return 0
	}
	return value
}
