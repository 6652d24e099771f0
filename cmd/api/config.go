package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type config struct {
	Addr           string
	DSN            string
	InternalSecret string
	LogLevel       string
	LogFormat      string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	SessionTTL     time.Duration
	CacheSize      int
	Workers        int
	MaxPageSize    int
	MaxBodyBytes   int64
}

func loadEnvFiles() {
	// Do not override environment provided by the runtime (e.g. Docker).
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		DSN:            os.Getenv("DB_DSN"),
		InternalSecret: os.Getenv("INTERNAL_SECRET"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		CORSOrigins:    splitList(os.Getenv("CORS_ORIGINS")),
	}

	var errs []error
	parse := func(key, def string, fn func(string) error) {
		if err := fn(getEnv(key, def)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	parse("RATE_LIMIT_RPS", "20", func(s string) (err error) {
		cfg.RateLimitRPS, err = strconv.ParseFloat(s, 64)
		return err
	})
	parse("RATE_LIMIT_BURST", "40", func(s string) (err error) {
		cfg.RateLimitBurst, err = strconv.Atoi(s)
		return err
	})
	parse("SESSION_TTL", "30m", func(s string) (err error) {
		cfg.SessionTTL, err = time.ParseDuration(s)
		return err
	})
	parse("SESSION_CACHE_SIZE", "10000", func(s string) (err error) {
		cfg.CacheSize, err = strconv.Atoi(s)
		return err
	})
	parse("SESSION_WORKERS", "0", func(s string) (err error) {
		cfg.Workers, err = strconv.Atoi(s)
		return err
	})
	parse("MAX_PAGE_SIZE", "100", func(s string) (err error) {
		cfg.MaxPageSize, err = strconv.Atoi(s)
		return err
	})
	parse("MAX_BODY_BYTES", "1048576", func(s string) (err error) {
		cfg.MaxBodyBytes, err = strconv.ParseInt(s, 10, 64)
		return err
	})

	if cfg.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL: must be positive"))
	}
	if cfg.DSN != "" && cfg.InternalSecret == "" {
		errs = append(errs, errors.New("INTERNAL_SECRET: required when DB_DSN is set"))
	}
	return cfg, errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
