package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/taskfoo/taskfoo-bot/internal/action"
	"github.com/taskfoo/taskfoo-bot/internal/audit"
	"github.com/taskfoo/taskfoo-bot/internal/config"
	"github.com/taskfoo/taskfoo-bot/internal/database"
	"github.com/taskfoo/taskfoo-bot/internal/navigate"
	"github.com/taskfoo/taskfoo-bot/internal/server"
	"github.com/taskfoo/taskfoo-bot/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting action server",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"instance_id", cfg.Instance.ID,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("action server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("action server stopped")
}

func loadConfig(path string) (*config.ServerConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadAndValidate(path)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func run(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) error {
	table, err := navigate.FromConfig(cfg.Navigation)
	if err != nil {
		return fmt.Errorf("build route table: %w", err)
	}
	if table.Strategy() == navigate.StrategyFirst {
		for _, sh := range table.Shadowed() {
			logger.Warn("route phrase unreachable under first-match",
				"phrase", sh.Entry.Phrase,
				"route", sh.Entry.Route,
				"shadowed_by", sh.ByPhrase,
			)
		}
	}
	logger.Info("route table loaded",
		"entries", len(table.Entries()),
		"match", table.Strategy(),
	)

	navOpts := []navigate.Option{
		navigate.WithLogger(logger),
		navigate.WithMessages(cfg.Navigation.Messages.Navigate, cfg.Navigation.Messages.Clarify),
	}
	var srvOpts []server.Option

	var writer *audit.Writer
	if cfg.Audit.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		logger.Info("database connected")

		writer = audit.NewWriter(audit.WriterConfig{
			BatchSize:     cfg.Audit.BatchSize,
			FlushInterval: cfg.Audit.FlushInterval,
			QueueSize:     cfg.Audit.QueueSize,
		}, pool, logger)
		if err := writer.Start(ctx); err != nil {
			return fmt.Errorf("start audit writer: %w", err)
		}

		navOpts = append(navOpts, navigate.WithRecorder(writer))
		srvOpts = append(srvOpts,
			server.WithStore(pool),
			server.WithAuditStats(func() any { return writer.Stats() }),
		)
	}

	registry, err := action.NewRegistry(navigate.NewActionNavigatePage(table, navOpts...))
	if err != nil {
		return fmt.Errorf("register actions: %w", err)
	}
	executor := action.NewExecutor(registry, logger)

	srv := server.New(server.Config{
		AuthToken:    cfg.Server.AuthToken,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		PingInterval: cfg.Server.PingInterval,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, executor, logger, srvOpts...)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening",
			"addr", httpServer.Addr,
			"actions", registry.Names(),
			"auth", cfg.Server.AuthToken != "",
			"audit", cfg.Audit.Enabled,
		)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http shutdown incomplete", "error", err)
		}
		if writer != nil {
			writer.Stop(shutdownCtx)
		}

		st := srv.Stats()
		logger.Info("final stats",
			"calls", st.Calls,
			"failures", st.Failures,
			"socket_frames", st.SocketFrames,
			"unauthorized", st.Unauthorized,
		)
		return nil
	})

	return g.Wait()
}
