package mdconv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-mdconv/internal/assets"
	"github.com/alnah/go-mdconv/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
)

// Exporter turns Markdown into standalone HTML documents and PDFs. The
// browser used for PDFs is launched on the first ExportPDF call and released
// by Close. An Exporter is safe for concurrent use; PDF renders share one
// browser.
type Exporter struct {
	cfg          exporterConfig
	logger       *slog.Logger
	preprocessor pipeline.MarkdownPreprocessor
	htmlConv     pipeline.HTMLConverter
	cssInjector  pipeline.CSSInjector
	pdfConv      pdfConverter
	stylesheet   string
}

type exporterConfig struct {
	timeout        time.Duration
	style          string
	styleDir       string
	highlightStyle string
	highlight      bool
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// defaultTimeout bounds a single export when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-export timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) ExportOption {
	if d <= 0 {
		panic("mdconv: WithTimeout duration must be positive")
	}
	return func(e *Exporter) {
		e.cfg.timeout = d
	}
}

// WithStyle selects the document stylesheet by name. Built-in names are
// "editor" (the default) and "print". An empty name exports without one.
func WithStyle(name string) ExportOption {
	return func(e *Exporter) {
		e.cfg.style = name
	}
}

// WithStyleDir adds a directory of NAME.css files searched before the
// built-in styles.
func WithStyleDir(dir string) ExportOption {
	return func(e *Exporter) {
		e.cfg.styleDir = dir
	}
}

// WithCodeTheme sets the chroma style for code blocks.
func WithCodeTheme(name string) ExportOption {
	return func(e *Exporter) {
		e.cfg.highlightStyle = name
	}
}

// WithExportHighlighting enables or disables code highlighting in exports.
func WithExportHighlighting(enabled bool) ExportOption {
	return func(e *Exporter) {
		e.cfg.highlight = enabled
	}
}

// WithExportLogger sets the logger for export records.
func WithExportLogger(l *slog.Logger) ExportOption {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExporter creates an Exporter. It fails when the style cannot be
// resolved.
func NewExporter(opts ...ExportOption) (*Exporter, error) {
	e := &Exporter{
		cfg: exporterConfig{
			timeout:        defaultTimeout,
			style:          assets.DefaultStyleName,
			highlightStyle: pipeline.DefaultHighlightStyle,
			highlight:      true,
		},
		logger:       slog.New(slog.DiscardHandler),
		preprocessor: &pipeline.CommonMarkPreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.htmlConv = pipeline.NewGoldmarkConverter(pipeline.WithCodeHighlighting(e.cfg.highlight))

	stylesheet, err := e.resolveStylesheet()
	if err != nil {
		return nil, err
	}
	e.stylesheet = stylesheet

	if e.pdfConv == nil {
		e.pdfConv = newRodConverter(e.cfg.timeout)
	}
	return e, nil
}

// resolveStylesheet combines the document style and the code theme.
func (e *Exporter) resolveStylesheet() (string, error) {
	var parts []string

	if e.cfg.style != "" {
		resolver, err := assets.NewResolver(e.cfg.styleDir)
		if err != nil {
			return "", fmt.Errorf("loading styles: %w", err)
		}
		css, err := resolver.LoadStyle(e.cfg.style)
		if err != nil {
			return "", fmt.Errorf("loading style %q: %w", e.cfg.style, err)
		}
		parts = append(parts, css)
	}

	if e.cfg.highlight {
		css, err := pipeline.HighlightCSS(e.cfg.highlightStyle)
		if err != nil {
			return "", err
		}
		parts = append(parts, css)
	}
	return strings.Join(parts, "\n"), nil
}

// ExportHTML renders input as a standalone HTML document.
func (e *Exporter) ExportHTML(ctx context.Context, input ExportInput) (*ExportResult, error) {
	doc, err := e.render(ctx, input)
	if err != nil {
		return nil, err
	}
	return &ExportResult{HTML: []byte(doc)}, nil
}

// ExportPDF renders input as a document and prints it with headless Chrome.
func (e *Exporter) ExportPDF(ctx context.Context, input ExportInput) (result *ExportResult, err error) {
	if err := input.Page.Validate(); err != nil {
		return nil, err
	}

	doc, err := e.render(ctx, input)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrPDFGeneration, r)
		}
	}()

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	pdf, err := e.pdfConv.ToPDF(ctx, doc, input.Page)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	e.logger.Debug("pdf rendered", "bytes", len(pdf), "duration", time.Since(start))

	return &ExportResult{HTML: []byte(doc), PDF: pdf}, nil
}

// Export dispatches on format.
func (e *Exporter) Export(ctx context.Context, format Format, input ExportInput) (*ExportResult, error) {
	switch format {
	case FormatHTML:
		return e.ExportHTML(ctx, input)
	case FormatPDF:
		return e.ExportPDF(ctx, input)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

// render runs the document pipeline: preprocess, goldmark, highlights,
// relative URLs, stylesheet.
func (e *Exporter) render(ctx context.Context, input ExportInput) (doc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: internal error: %v", ErrHTMLConversion, r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return "", ErrEmptyMarkdown
	}

	md := e.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	doc, err = e.htmlConv.ToDocument(ctx, input.Title, md)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %w", err)
	}
	doc = pipeline.ConvertMarkPlaceholders(doc)

	if input.SourceDir != "" {
		doc, err = pipeline.ResolveRelativeURLs(doc, input.SourceDir)
		if err != nil {
			return "", fmt.Errorf("resolving relative URLs: %w", err)
		}
	}

	css := e.stylesheet
	if input.CSS != "" {
		css += "\n" + input.CSS
	}
	doc = e.cssInjector.InjectCSS(ctx, doc, css)
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e.logger.Debug("document rendered", "markdownBytes", len(input.Markdown), "htmlBytes", len(doc))
	return doc, nil
}

func (e *Exporter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.timeout)
}

// Close releases the browser, if one was launched.
func (e *Exporter) Close() error {
	if e.pdfConv != nil {
		return e.pdfConv.Close()
	}
	return nil
}
