package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	mdconv "github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/hints"
)

// ErrUnknownCommand is returned for an unrecognized subcommand.
var ErrUnknownCommand = errors.New("unknown command")

type commandFunc func(ctx context.Context, args []string, env *Environment) error

var commandTable = map[string]commandFunc{
	"md2html": runMD2HTML,
	"html2md": runHTML2MD,
	"paste":   runPaste,
	"export":  runExport,
	"preview": runPreview,
	"config":  runConfig,
}

// run dispatches args (without the program name) and returns the exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	name, rest := args[0], args[1:]
	switch name {
	case "help", "-h", "--help":
		return runHelp(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "mdconv %s\n", Version)
		return ExitSuccess
	case "doctor":
		return runDoctorCmd(rest, env)
	}

	cmd, ok := commandTable[name]
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		fmt.Fprintln(env.Stderr, "error:", err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	err := cmd(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor adds hints that depend on the error class. Config and style hints
// are attached where those errors are created.
func hintFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, mdconv.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	default:
		return ""
	}
}
