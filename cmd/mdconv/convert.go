package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	mdconv "github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/hints"
)

// stdioArg selects stdin and stdout instead of files.
const stdioArg = "-"

// newConverter builds a Converter from config and md2html flags.
func newConverter(s *session, f *convertFlags) (*mdconv.Converter, error) {
	languages := s.cfg.Convert.HighlightLanguages
	if len(f.languages) > 0 {
		languages = f.languages
	}
	return mdconv.NewConverter(
		mdconv.WithHighlighting(s.cfg.Convert.Highlight && !f.noHighlight),
		mdconv.WithHighlightLanguages(languages...),
		mdconv.WithSanitize(s.cfg.Convert.Sanitize || f.sanitize),
		mdconv.WithLogger(s.logger),
	)
}

// runMD2HTML converts Markdown files to editor HTML fragments.
func runMD2HTML(ctx context.Context, args []string, env *Environment) error {
	f, _, inputs, err := parseConvertFlags("md2html", args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := setup(f.common, env)
	if err != nil {
		return err
	}
	conv, err := newConverter(s, f)
	if err != nil {
		return err
	}

	transform := func(_ context.Context, _ FileToConvert, content []byte) ([]byte, error) {
		return []byte(conv.MarkdownToHTML(string(content))), nil
	}
	return runBatch(ctx, s, env, f.batch, inputs, markdownExtensions, ".html", transform)
}

// runHTML2MD converts HTML files to Markdown, with the structural or the
// clipboard rules.
func runHTML2MD(ctx context.Context, args []string, env *Environment) error {
	f, _, inputs, err := parseConvertFlags("html2md", args, env.Stderr)
	if err != nil {
		return err
	}
	s, err := setup(f.common, env)
	if err != nil {
		return err
	}
	conv, err := newConverter(s, f)
	if err != nil {
		return err
	}

	toMarkdown := conv.HTMLToMarkdown
	if f.paste {
		toMarkdown = conv.PasteToMarkdown
	}
	transform := func(_ context.Context, _ FileToConvert, content []byte) ([]byte, error) {
		return []byte(toMarkdown(string(content))), nil
	}
	return runBatch(ctx, s, env, f.batch, inputs, htmlExtensions, ".md", transform)
}

// runPaste reads clipboard HTML from stdin and writes Markdown.
func runPaste(_ context.Context, args []string, env *Environment) error {
	var common commonFlags
	var output string
	fs := newFlagSet("paste", env.Stderr, func(w io.Writer) { printCommandUsage(w, "paste") })
	addCommonFlags(fs, &common)
	fs.StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	if _, err := parseFlagSet(fs, args); err != nil {
		return err
	}

	s, err := setup(common, env)
	if err != nil {
		return err
	}
	conv, err := newConverter(s, &convertFlags{})
	if err != nil {
		return err
	}

	data, err := readAll(env.Stdin)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: stdin is empty%s", ErrNoInput, hints.ForPasteInput())
	}

	md := conv.PasteToMarkdown(string(data))
	return emit(env.Stdout, output, []byte(md+"\n"))
}

// runBatch handles the shared part of md2html and html2md: stdin mode,
// discovery, parallel conversion and reporting.
func runBatch(ctx context.Context, s *session, env *Environment, b batchFlags, inputs []string, exts []string, outExt string, transform transformFunc) error {
	if err := validateWorkers(b.workers); err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	if len(inputs) == 1 && inputs[0] == stdioArg {
		data, err := readAll(env.Stdin)
		if err != nil {
			return err
		}
		out, err := transform(ctx, FileToConvert{InputPath: stdioArg}, data)
		if err != nil {
			return err
		}
		return emit(env.Stdout, b.output, out)
	}

	files, err := discoverFiles(inputs, b.output, exts, outExt)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %v files found", ErrNoInput, exts)
	}

	workers := resolveWorkers(b.workers, s.env)
	s.logger.Debug("converting", "files", len(files), "workers", workers)
	results := convertBatch(ctx, files, workers, transform)
	return printResults(results, s, env.Stdout, env.Stderr)
}

// readAll reads r fully, wrapping failures in ErrReadInput.
func readAll(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: no stdin", ErrReadInput)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return data, nil
}

// emit writes data to path, or to stdout when path is empty or "-".
func emit(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == stdioArg {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}
	return writeOutput(path, data)
}

// readOptionalFile returns the content of path, or "" for an empty path.
func readOptionalFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(data), nil
}
