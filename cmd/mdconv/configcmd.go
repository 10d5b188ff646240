package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-mdconv/internal/config"
)

// runConfig prints the effective configuration as YAML, or the search
// paths with --paths.
func runConfig(_ context.Context, args []string, env *Environment) error {
	f, rest, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if f.paths {
		name := "mdconv"
		if len(rest) > 0 {
			name = rest[0]
		}
		for _, p := range config.SearchPaths(name) {
			fmt.Fprintln(env.Stdout, p)
		}
		return nil
	}

	s, err := setup(f.common, env)
	if err != nil {
		return err
	}
	data, err := s.cfg.Marshal()
	if err != nil {
		return fmt.Errorf("rendering config: %w", err)
	}
	if _, err := env.Stdout.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
