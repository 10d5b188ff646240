package main

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdconv/internal/config"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "MDCONV_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDCONV_CONFIG: config file name or path
	LogLevel   string        // MDCONV_LOG_LEVEL: debug, info, warn, error
	Timeout    time.Duration // MDCONV_TIMEOUT: PDF generation timeout
	Workers    int           // MDCONV_WORKERS: parallel workers
	PageSize   string        // MDCONV_PAGE_SIZE: letter, a4, legal
	Style      string        // MDCONV_STYLE: export stylesheet name
	Format     string        // MDCONV_FORMAT: html or pdf
}

// knownEnvVars lists valid MDCONV_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDCONV_CONFIG":    true,
	"MDCONV_LOG_LEVEL": true,
	"MDCONV_TIMEOUT":   true,
	"MDCONV_WORKERS":   true,
	"MDCONV_PAGE_SIZE": true,
	"MDCONV_STYLE":     true,
	"MDCONV_FORMAT":    true,
	// Read by doctor and the container hints.
	"MDCONV_CONTAINER": true,
}

// loadEnvConfig reads configuration from environment variables. Malformed
// durations and counts are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDCONV_CONFIG"),
		LogLevel:   os.Getenv("MDCONV_LOG_LEVEL"),
		PageSize:   os.Getenv("MDCONV_PAGE_SIZE"),
		Style:      os.Getenv("MDCONV_STYLE"),
		Format:     os.Getenv("MDCONV_FORMAT"),
	}

	if timeout := os.Getenv("MDCONV_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDCONV_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// unknownEnvVars returns the MDCONV_* names that are not recognized.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// warnUnknownEnvVars logs a warning per unrecognized MDCONV_* variable, to
// catch typos like MDCONV_TIMOUT.
func warnUnknownEnvVars(logger *slog.Logger, environ []string) {
	for _, name := range unknownEnvVars(environ) {
		logger.Warn("unknown environment variable (typo?)", "name", name)
	}
}

// applyEnvConfig overrides config file values with set variables.
// Priority: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by each command).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.Timeout > 0 {
		cfg.Export.Timeout = env.Timeout
	}
	if env.PageSize != "" {
		cfg.Export.Page.Size = env.PageSize
	}
	if env.Style != "" {
		cfg.Export.Style = env.Style
	}
	if env.Format != "" {
		cfg.Export.Format = env.Format
	}
}
