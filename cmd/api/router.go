package main

import (
	"context"
	"net/http"
	"time"

	"bookgen/internal/book"
	"bookgen/internal/export"
	"bookgen/internal/httpx"
	"bookgen/internal/session"

	"go.uber.org/zap"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type server struct {
	cfg      config
	logger   *zap.Logger
	gen      *book.Generator
	registry *session.Registry
	limiter  *httpx.RateLimitMiddleware
	// db and exports are nil when no database is configured.
	db      pinger
	exports *export.Service
}

func (s *server) sessionOptions() []session.Option {
	return []session.Option{
		session.WithLogger(s.logger),
		session.WithCacheSize(s.cfg.CacheSize),
		session.WithWorkers(s.cfg.Workers),
		session.WithMaxPageSize(s.cfg.MaxPageSize),
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
			defer cancel()
			if err := s.db.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	session.NewHTTPHandler(s.registry, s.gen, s.logger, s.sessionOptions()...).Register(mux)
	if s.exports != nil {
		export.NewHTTPHandler(s.exports, s.cfg.InternalSecret).Register(mux)
	}

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(s.logger),
		httpx.RecoveryMiddleware(s.logger),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(s.cfg.CORSOrigins),
		s.limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(s.cfg.MaxBodyBytes),
	)
}
