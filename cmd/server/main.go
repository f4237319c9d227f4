package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hotseatgames/millionaire/internal/config"
	"github.com/hotseatgames/millionaire/internal/database"
	"github.com/hotseatgames/millionaire/internal/migrations"
	"github.com/hotseatgames/millionaire/internal/millionaire"
	"github.com/hotseatgames/millionaire/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Game engine ---
	rules := millionaire.Rules{
		Prizes:    millionaire.DefaultPrizeTable(),
		TimeLimit: cfg.TimeLimit,
	}
	store := server.NewSQLiteStore(db, rules)

	if err := server.SeedQuestions(ctx, logger, store); err != nil {
		return fmt.Errorf("seeding questions: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	factory := millionaire.NewFactory(store, store, rules, rng, nil, nil)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, db, store, factory, cfg.SPADir)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
