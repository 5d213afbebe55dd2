package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/vidforge/vidforge-agent/internal/api"
	"github.com/vidforge/vidforge-agent/internal/assemble"
	"github.com/vidforge/vidforge-agent/internal/batch"
	"github.com/vidforge/vidforge-agent/internal/catalog"
	"github.com/vidforge/vidforge-agent/internal/config"
	"github.com/vidforge/vidforge-agent/internal/inference"
	"github.com/vidforge/vidforge-agent/internal/logging"
	"github.com/vidforge/vidforge-agent/internal/media"
	"github.com/vidforge/vidforge-agent/internal/metrics"
	"github.com/vidforge/vidforge-agent/internal/script"
	"github.com/vidforge/vidforge-agent/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.Server.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Media.StorageDir, 0755); err != nil {
		return fmt.Errorf("failed to create storage dir: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.LogLevel)
	logger.Info("starting vidforge agent",
		"version", config.Version,
		"data_dir", cfg.Server.DataDir,
		"daily_target", cfg.Production.DailyTarget,
	)

	database, err := store.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	var sink metrics.Sink
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			logger.Warn("redis unavailable, metrics disabled", "addr", cfg.Redis.Addr, "error", err)
			sink = metrics.NewStubSink(logger)
		} else {
			logger.Info("redis metrics enabled", "addr", cfg.Redis.Addr)
			sink = metrics.NewRedisSink(client, logger)
			defer client.Close()
		}
	} else {
		sink = metrics.NewStubSink(logger)
	}

	cat, err := catalog.Load(cfg.Production.CatalogPath)
	if err != nil {
		return fmt.Errorf("failed to load content catalog: %w", err)
	}

	stats := inference.NewStats()
	options := inference.DefaultOptions()
	options.Temperature = cfg.Inference.Temperature
	options.TopP = cfg.Inference.TopP
	options.MaxTokens = cfg.Inference.MaxTokens
	client := inference.NewClient(cfg.Inference.BalancerURL, cfg.Inference.Timeout, options, stats, logger)

	composer := script.NewComposer(client, cat, cfg.Inference.Model, logging.WithComponent(logger, "composer"))

	toolset, err := media.NewToolset(media.Config{
		FFmpegPath:  cfg.Media.FFmpegPath,
		EspeakPath:  cfg.Media.EspeakPath,
		ConvertPath: cfg.Media.ConvertPath,
		ToolTimeout: cfg.Media.ToolTimeout,
		Logger:      logging.WithComponent(logger, "media"),
	})
	if err != nil {
		logger.Warn("media tools unavailable, using stub toolset", "error", err)
		toolset = media.StubToolset(logging.WithComponent(logger, "media"))
	}

	assembler := assemble.NewAssembler(toolset, assemble.Config{
		StorageDir:    cfg.Media.StorageDir,
		WorkDir:       cfg.Media.WorkDir,
		MaxVoiceWords: cfg.Media.MaxVoiceWords,
		Stages: assemble.Stages{
			Voice:      cfg.Stages.Voice,
			Background: cfg.Stages.Background,
			Subtitles:  cfg.Stages.Subtitles,
			Overlays:   cfg.Stages.Overlays,
			Thumbnail:  cfg.Stages.Thumbnail,
		},
		Logger: logging.WithComponent(logger, "assembler"),
	})

	orch := batch.NewOrchestrator(composer, assembler, database, sink, batch.Config{
		GateSize: cfg.Production.GateSize,
		Logger:   logging.WithComponent(logger, "orchestrator"),
	})
	runner := batch.NewDailyRunner(orch, batch.NewRequestSource(cat), batch.RunnerConfig{
		DailyTarget: cfg.Production.DailyTarget,
		BatchSize:   cfg.Production.BatchSize,
		Pause:       cfg.Production.BatchPause,
		Logger:      logging.WithComponent(logger, "runner"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var apiServer *api.Server
	if cfg.Server.Enabled {
		apiServer = api.NewServer(api.ServerConfig{
			Port:        cfg.Server.Port,
			Version:     config.Version,
			DailyTarget: cfg.Production.DailyTarget,
			Repository:  database,
			Stats:       stats,
			Logger:      logging.WithComponent(logger, "api"),
			StartTime:   startTime,
		})
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error("HTTP server error", "error", err)
			}
		}()
	}

	report, runErr := runner.Run(ctx)

	logger.Info("production report",
		"date", report.Date,
		"target", report.Target,
		"produced", report.Produced,
		"failed", report.Failed,
		"batches", report.Batches,
		"duration_s", int(report.Elapsed.Seconds()),
	)
	fmt.Println(report.Summary())

	if apiServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown HTTP server", "error", err)
		}
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("daily run aborted: %w", runErr)
	}

	logger.Info("shutdown complete")
	return nil
}
