package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	mdconv "github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/assets"
	"github.com/alnah/go-mdconv/internal/hints"
)

// ErrInvalidTimeout is returned for an unparsable or non-positive --timeout.
var ErrInvalidTimeout = errors.New("invalid timeout")

// runExport exports Markdown files as styled HTML documents or PDFs.
func runExport(ctx context.Context, args []string, env *Environment) error {
	f, fs, inputs, err := parseExportFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if err := validateWorkers(f.batch.workers); err != nil {
		return err
	}
	s, err := setup(f.common, env)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return ErrNoInput
	}

	mergeExportFlags(f, fs, s)

	format, err := mdconv.ParseFormat(s.cfg.Export.Format)
	if err != nil {
		return err
	}
	page, err := buildPageSettings(s)
	if err != nil {
		return err
	}
	css, err := readOptionalFile(s.cfg.Export.CSS)
	if err != nil {
		return fmt.Errorf("reading CSS: %w", err)
	}
	opts, err := buildExportOptions(f, s)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputs, f.batch.output, markdownExtensions, format.Extension())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found", ErrNoInput)
	}

	// HTML exports never start a browser, so one exporter per worker is cheap.
	workers := resolveWorkers(f.batch.workers, s.env)
	pool := env.NewPool(workers, opts...)
	defer func() { _ = pool.Close() }()

	if err := checkExporter(pool); err != nil {
		return err
	}

	s.logger.Debug("exporting", "files", len(files), "format", format, "workers", pool.Size())
	transform := func(ctx context.Context, file FileToConvert, content []byte) ([]byte, error) {
		exporter, err := pool.Acquire()
		if err != nil {
			return nil, err
		}
		defer pool.Release(exporter)

		res, err := exporter.Export(ctx, format, mdconv.ExportInput{
			Markdown:  string(content),
			Title:     resolveTitle(f.title, string(content), file.InputPath),
			CSS:       css,
			SourceDir: filepath.Dir(file.InputPath),
			Page:      page,
		})
		if err != nil {
			return nil, err
		}
		if format == mdconv.FormatPDF {
			return res.PDF, nil
		}
		return res.HTML, nil
	}

	results := convertBatch(ctx, files, pool.Size(), transform)
	return printResults(results, s, env.Stdout, env.Stderr)
}

// checkExporter builds the first exporter up front so a bad style or code
// theme fails once, not per file.
func checkExporter(pool Pool) error {
	exporter, err := pool.Acquire()
	if err != nil {
		if errors.Is(err, mdconv.ErrStyleNotFound) {
			return fmt.Errorf("%w%s", err, hints.ForStyleNotFound(assets.NewEmbeddedLoader().Names()))
		}
		return err
	}
	pool.Release(exporter)
	return nil
}

// mergeExportFlags applies explicitly set flags over config and environment.
func mergeExportFlags(f *exportFlags, fs *flag.FlagSet, s *session) {
	cfg := &s.cfg.Export
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("css") {
		cfg.CSS = f.css
	}
	if fs.Changed("style") {
		cfg.Style = f.style
	}
	if fs.Changed("style-dir") {
		cfg.StyleDir = f.styleDir
	}
	if fs.Changed("code-theme") {
		cfg.CodeTheme = f.codeTheme
	}
	if fs.Changed("page-size") {
		cfg.Page.Size = f.page.size
	}
	if fs.Changed("orientation") {
		cfg.Page.Orientation = f.page.orientation
	}
	if fs.Changed("margin") {
		cfg.Page.Margin = f.page.margin
	}
	if f.noHighlight {
		s.cfg.Convert.Highlight = false
	}
}

// buildPageSettings validates the merged page settings.
func buildPageSettings(s *session) (*mdconv.PageSettings, error) {
	p := s.cfg.Export.Page
	page := mdconv.DefaultPageSettings()
	if p.Size != "" {
		page.Size = strings.ToLower(p.Size)
	}
	if p.Orientation != "" {
		page.Orientation = strings.ToLower(p.Orientation)
	}
	if p.Margin != 0 {
		page.Margin = p.Margin
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return page, nil
}

// buildExportOptions turns config into exporter options.
func buildExportOptions(f *exportFlags, s *session) ([]mdconv.ExportOption, error) {
	timeout, err := resolveTimeout(f.timeout, s.cfg.Export.Timeout)
	if err != nil {
		return nil, err
	}

	opts := []mdconv.ExportOption{
		mdconv.WithExportHighlighting(s.cfg.Convert.Highlight),
		mdconv.WithExportLogger(s.logger),
		mdconv.WithStyle(s.cfg.Export.Style),
	}
	if timeout > 0 {
		opts = append(opts, mdconv.WithTimeout(timeout))
	}
	if s.cfg.Export.StyleDir != "" {
		opts = append(opts, mdconv.WithStyleDir(s.cfg.Export.StyleDir))
	}
	if s.cfg.Export.CodeTheme != "" {
		opts = append(opts, mdconv.WithCodeTheme(s.cfg.Export.CodeTheme))
	}
	return opts, nil
}

// resolveTimeout prefers the flag. Zero means the library default.
func resolveTimeout(flagValue string, cfgValue time.Duration) (time.Duration, error) {
	if flagValue == "" {
		return cfgValue, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}

var firstHeadingPattern = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)

// resolveTitle picks the explicit title, then the first level-one heading,
// then the file name.
func resolveTitle(explicit, markdown, path string) string {
	if explicit != "" {
		return explicit
	}
	if m := firstHeadingPattern.FindStringSubmatch(markdown); m != nil {
		return strings.TrimSpace(m[1])
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
