package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/term"

	"github.com/alnah/go-mdconv/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StderrIsTerminal selects the text log handler.
	StderrIsTerminal func() bool
	// TerminalWidth reports the stdout width, or 0 when it is not a terminal.
	TerminalWidth func() int
	// SetMaxProcs adjusts GOMAXPROCS to the container quota. Nil skips it.
	SetMaxProcs func(logger *slog.Logger)
	// NewPool builds the exporter pool for the export command.
	NewPool poolFactory

	// Set by setup for the running command.
	Config *config.Config
	Logger *slog.Logger
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		StderrIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd()))
		},
		TerminalWidth: func() int {
			w, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				return 0
			}
			return w
		},
		SetMaxProcs: func(logger *slog.Logger) {
			// maxprocs.Set only fails on an invalid GOMAXPROCS value, in which
			// case the runtime default stays.
			_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
				logger.Debug(fmt.Sprintf(format, args...))
			}))
		},
		NewPool: newExporterPool,
		Config:  config.DefaultConfig(),
		Logger:  slog.New(slog.DiscardHandler),
	}
}
