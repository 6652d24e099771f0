package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/content"
	"bookgen/internal/export"
	"bookgen/internal/httpx"
	"bookgen/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	loadEnvFiles()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := httpx.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(cfg config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen := book.NewGenerator(content.NewRegistry())
	s := &server{
		cfg:     cfg,
		logger:  logger,
		gen:     gen,
		limiter: httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
	}
	s.registry = session.NewRegistry(gen, cfg.SessionTTL, logger, s.sessionOptions()...)

	if cfg.DSN != "" {
		pool, err := openDB(ctx, cfg.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("database connection OK", zap.String("dsn", redactDSN(cfg.DSN)))

		s.db = pool
		s.exports = export.NewService(gen, export.NewPostgresRepo(pool, 30*time.Second), logger,
			session.WithWorkers(cfg.Workers))
	} else {
		logger.Info("DB_DSN not set, export endpoint disabled")
	}

	go s.registry.Run(ctx)
	go s.limiter.Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}
