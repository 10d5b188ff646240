package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alnah/go-mdconv/internal/config"
	"github.com/alnah/go-mdconv/internal/hints"
)

// session is what every command needs after flags are parsed.
type session struct {
	cfg     *config.Config
	env     *envConfig
	logger  *slog.Logger
	verbose bool
	quiet   bool
}

// setup loads the config named by --config or MDCONV_CONFIG, applies
// environment overrides and builds the logger. It stores both on env.
func setup(common commonFlags, env *Environment) (*session, error) {
	envCfg := loadEnvConfig()

	cfg := config.DefaultConfig()
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}
	applyEnvConfig(envCfg, cfg)

	level, err := config.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case common.verbose:
		level = slog.LevelDebug
	case common.quiet:
		level = slog.LevelError
	}

	isTTY := env.StderrIsTerminal != nil && env.StderrIsTerminal()
	logger := newLogger(env.Stderr, level, cfg.Log.Format, isTTY)
	warnUnknownEnvVars(logger, os.Environ())
	if env.SetMaxProcs != nil {
		env.SetMaxProcs(logger)
	}

	env.Config = cfg
	env.Logger = logger
	return &session{
		cfg:     cfg,
		env:     envCfg,
		logger:  logger,
		verbose: common.verbose,
		quiet:   common.quiet,
	}, nil
}

// newLogger writes text records on a terminal and JSON otherwise, unless
// format forces one.
func newLogger(w io.Writer, level slog.Level, format string, isTTY bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		if isTTY {
			handler = slog.NewTextHandler(w, opts)
		} else {
			handler = slog.NewJSONHandler(w, opts)
		}
	}
	return slog.New(handler)
}
