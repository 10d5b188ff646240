package main

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	mdconv "github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/hints"
)

// runPreview renders a Markdown file (or stdin) for the terminal.
func runPreview(_ context.Context, args []string, env *Environment) error {
	f, fs, inputs, err := parsePreviewFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := setup(f.common, env)
	if err != nil {
		return err
	}
	if len(inputs) > 1 {
		return fmt.Errorf("%w: preview takes one input", ErrUsage)
	}

	var data []byte
	if len(inputs) == 0 || inputs[0] == stdioArg {
		data, err = readAll(env.Stdin)
	} else {
		data, err = os.ReadFile(inputs[0]) // #nosec G304 -- user-provided path
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrReadInput, err)
		}
	}
	if err != nil {
		return err
	}

	width, style := previewSettings(f, fs, s, env)
	out, err := mdconv.RenderTerminal(string(data), width, style)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(mdconv.PreviewStyles()))
	}
	if _, err := io.WriteString(env.Stdout, out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// previewSettings resolves width and style: flags, then config, then the
// terminal width.
func previewSettings(f *previewFlags, fs *flag.FlagSet, s *session, env *Environment) (int, string) {
	width := s.cfg.Preview.Width
	if fs.Changed("width") {
		width = f.width
	}
	if width <= 0 && env.TerminalWidth != nil {
		width = env.TerminalWidth()
	}

	style := s.cfg.Preview.Style
	if fs.Changed("style") {
		style = f.style
	}
	return width, style
}
