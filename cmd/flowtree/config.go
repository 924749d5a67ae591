package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/rendis/flowtree/internal/logging"
)

// Config holds flowtree CLI configuration.
// Priority: flags > env vars > defaults.
type Config struct {
	LogLevel    string
	LogFormat   string
	StrictJoins bool
}

func defaultConfig() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func loadConfig() Config {
	cfg := defaultConfig()

	if v := os.Getenv("FLOWTREE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FLOWTREE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("FLOWTREE_STRICT_JOINS"); v != "" {
		cfg.StrictJoins = v == "true" || v == "1"
	}

	return cfg
}

// newLogger builds the process logger from config. Correlation ids placed on
// the context (process id, node id) are emitted on every record.
func newLogger(cfg Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var inner slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		inner = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		inner = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(logging.NewCorrelationHandler(inner))
}
