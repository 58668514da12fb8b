package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/cricksim/config"
	_ "github.com/DhavalSuthar-24/cricksim/docs"
	"github.com/DhavalSuthar-24/cricksim/internal/commentary"
	"github.com/DhavalSuthar-24/cricksim/internal/live"
	"github.com/DhavalSuthar-24/cricksim/internal/match"
	"github.com/DhavalSuthar-24/cricksim/internal/simulation"
	"github.com/DhavalSuthar-24/cricksim/internal/team"
	"github.com/DhavalSuthar-24/cricksim/internal/venue"
	"github.com/DhavalSuthar-24/cricksim/pkg/cache"
	"github.com/DhavalSuthar-24/cricksim/pkg/logging"
	"github.com/DhavalSuthar-24/cricksim/pkg/random"
	"github.com/DhavalSuthar-24/cricksim/pkg/telemetry"
	"github.com/DhavalSuthar-24/cricksim/routes"
)

const serviceName = "cricksim"

// @title CrickSim REST API
// @version 1.0
// @description Cricket match simulation with live scoring and commentary.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	logger := logging.SetupLogger(cfg.App.Env, cfg.Log.Level, serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, serviceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	err = config.DB.AutoMigrate(
		&team.Team{}, &team.Player{},
		&venue.Venue{},
		&match.Match{}, &match.Innings{}, &match.Ball{},
		&match.PlayerMatchStats{}, &match.Partnership{}, &match.FallOfWicket{},
		&match.CommentaryEntry{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	log.Println("AutoMigrate successful")

	seed, err := random.ResolveSeed(cfg.Simulation.Seed)
	if err != nil {
		log.Fatalf("Failed to draw simulation seed: %v", err)
	}

	liveCache := newCache(cfg, logger)
	defer liveCache.Close()

	hub := live.NewHub(logger.With("component", "websocket"))
	go hub.Run(ctx)

	broadcasters := live.Multi{hub}
	if cfg.Broadcast.AMQPURL != "" {
		amqpOut, err := live.NewAMQPBroadcaster(cfg.Broadcast.AMQPURL, cfg.Broadcast.Exchange)
		if err != nil {
			logger.Warn("AMQP broadcast disabled", "error", err)
		} else {
			defer amqpOut.Close()
			broadcasters = append(broadcasters, amqpOut)
			logger.Info("AMQP broadcast enabled", "exchange", cfg.Broadcast.Exchange)
		}
	}

	matchRepo := match.NewGormMatchRepository(config.DB)
	teamRepo := team.NewTeamRepository(config.DB)

	publisher := live.NewPublisher(liveCache, live.NewBuilder(matchRepo, teamRepo), live.PublisherOptions{
		LiveTTL:       cfg.Cache.LiveTTL,
		ScoreboardTTL: cfg.Cache.ScoreboardTTL,
		Broadcaster:   broadcasters,
		Logger:        logger.With("component", "live"),
	})

	outcomes := simulation.DefaultOutcomeTable()
	if path := cfg.Simulation.OutcomeTablePath; path != "" {
		if outcomes, err = simulation.LoadOutcomeTable(path); err != nil {
			log.Fatalf("Failed to load outcome table: %v", err)
		}
		log.Printf("Loaded outcome table from %s", path)
	}

	engine := simulation.NewEngine(matchRepo, teamRepo, simulation.Options{
		Outcomes:   simulation.NewTableSource(outcomes, seed),
		Seed:       seed,
		Commentary: newCommentary(cfg, seed, logger),
		Publisher:  publisher,
		Logger:     logger.With("component", "simulation"),
	})
	runner := simulation.NewRunner(ctx, engine, logger.With("component", "auto"))

	r := routes.SetupRoutes(cfg, config.DB, routes.Services{
		Engine:    engine,
		Runner:    runner,
		Publisher: publisher,
		Hub:       hub,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("Starting server on port %s in %s mode (seed %d)\n", cfg.App.Port, cfg.App.Env, seed)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	runner.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}

func newCache(cfg *config.Config, logger *slog.Logger) cache.Cache {
	if cfg.Cache.Driver == "redis" {
		rc, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err == nil {
			logger.Info("live cache on redis", "addr", cfg.Cache.RedisAddr)
			return rc
		}
		logger.Warn("redis unavailable, falling back to memory cache", "addr", cfg.Cache.RedisAddr, "error", err)
	}
	return cache.NewMemoryCache(time.Minute)
}

// newCommentary orders the tiers best first. The AI tier only joins when a key is configured.
func newCommentary(cfg *config.Config, seed int64, logger *slog.Logger) *commentary.Pipeline {
	var tiers []commentary.Generator
	if cfg.AI.APIKey != "" {
		tiers = append(tiers, commentary.NewAIGenerator(commentary.AIConfig{
			URL:     cfg.AI.URL,
			APIKey:  cfg.AI.APIKey,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		}, commentary.NewQuota(cfg.AI.DailyLimit, cfg.AI.PerMinuteLimit), logger))
	}
	tiers = append(tiers,
		commentary.NewHybridGenerator(commentary.DefaultTemplates(), seed),
		commentary.NewMarkovGenerator("", seed),
		commentary.StaticGenerator{},
	)
	return commentary.NewPipeline(logger, tiers...)
}
