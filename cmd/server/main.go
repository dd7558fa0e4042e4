package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cardforge/rules-engine/internal/config"
	"github.com/cardforge/rules-engine/internal/game/effects"
	"github.com/cardforge/rules-engine/internal/repository"
	"github.com/cardforge/rules-engine/internal/server"
	"github.com/cardforge/rules-engine/internal/telemetry"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting rules engine server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Journaling is optional; without a database URL resolutions are only
	// logged.
	var journal *repository.EventJournal
	if cfg.Database.URL != "" {
		db, err := repository.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		journal = repository.NewEventJournal(db, logger.Named("journal"))
		if err := journal.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare event journal", zap.Error(err))
		}
		logger.Info("event journal initialized")
	} else {
		logger.Info("no database configured, event journaling disabled")
	}

	pipelineOpts := []effects.Option{
		effects.WithMaxIterations(cfg.Engine.MaxIterations),
	}
	if cfg.Engine.Metrics {
		pipelineOpts = append(pipelineOpts, effects.WithMetrics(telemetry.NewRecorder()))
		logger.Info("pipeline metrics enabled")
	}

	hub := server.NewHub(logger.Named("hub"), journal, pipelineOpts...)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		server.ServeWS(hub, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: mux,
	}

	go func() {
		logger.Info("starting WebSocket server", zap.String("address", cfg.Server.Addr))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("WebSocket server error", zap.Error(serveErr))
		}
	}()

	logger.Info("rules engine server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Addr),
		zap.Int("max_iterations", cfg.Engine.MaxIterations),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("forced shutdown", zap.Error(err))
	}

	logger.Info("rules engine server stopped")
}

// initLogger builds the zap logger from configuration. Unknown levels fall
// back to info rather than failing startup.
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
