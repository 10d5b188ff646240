package mdconv

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2/lexers"
	"golang.org/x/net/html"

	"github.com/alnah/go-mdconv/internal/convert"
	"github.com/alnah/go-mdconv/internal/paste"
	"github.com/alnah/go-mdconv/internal/sanitize"
)

// PasteRule renders one clipboard element as Markdown. Render receives the
// element and the Markdown of its children; returning false leaves the
// element to the built-in renderers. A rule replaces any rule for the same
// tag.
type PasteRule struct {
	Tag    string
	Render func(n *html.Node, content string) (string, bool)
}

// Converter converts between editor Markdown and editor HTML. It is immutable
// after NewConverter returns and safe for concurrent use.
type Converter struct {
	cfg    converterConfig
	logger *slog.Logger
	paste  *paste.Converter
}

type converterConfig struct {
	highlight  bool
	languages  []string
	sanitize   bool
	pasteRules []PasteRule
}

// Option configures a Converter.
type Option func(*Converter)

// WithHighlighting enables or disables syntax highlighting of fenced code in
// MarkdownToHTML. It is on by default.
func WithHighlighting(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.highlight = enabled
	}
}

// WithHighlightLanguages replaces the fence languages that get highlighted.
// NewConverter fails if chroma has no lexer for one of them.
func WithHighlightLanguages(langs ...string) Option {
	return func(c *Converter) {
		c.cfg.languages = append([]string(nil), langs...)
	}
}

// WithSanitize runs MarkdownToHTML output through the editor allow-list.
func WithSanitize(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.sanitize = enabled
	}
}

// WithLogger sets the logger for timing and fallback records. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPasteRules adds rules to the clipboard conversion registry.
func WithPasteRules(rules ...PasteRule) Option {
	return func(c *Converter) {
		c.cfg.pasteRules = append(c.cfg.pasteRules, rules...)
	}
}

// NewConverter creates a Converter.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			highlight: true,
			languages: convert.DefaultHighlightLanguages,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, lang := range c.cfg.languages {
		lang = strings.TrimSpace(lang)
		if lang != "" && lexers.Get(lang) == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
		}
	}

	registry := paste.DefaultRegistry()
	for _, rule := range c.cfg.pasteRules {
		registry.Register(paste.Rule{Tag: rule.Tag, Render: rule.Render})
	}
	c.paste = paste.New(
		paste.WithRegistry(registry),
		paste.WithLogger(c.logger),
	)

	return c, nil
}

// MarkdownToHTML converts editor Markdown into an HTML fragment for the
// editing surface.
func (c *Converter) MarkdownToHTML(markdown string) string {
	start := time.Now()
	out := convert.MarkdownToHTML(markdown,
		convert.WithHighlighting(c.cfg.highlight),
		convert.WithHighlightLanguages(c.cfg.languages...),
	)
	if c.cfg.sanitize {
		out = sanitize.HTML(out)
	}
	c.logger.Debug("markdown converted",
		"inputBytes", len(markdown),
		"outputBytes", len(out),
		"sanitized", c.cfg.sanitize,
		"duration", time.Since(start))
	return out
}

// HTMLToMarkdown converts editing-surface HTML back into Markdown.
func (c *Converter) HTMLToMarkdown(htmlContent string) string {
	start := time.Now()
	out := convert.HTMLToMarkdown(htmlContent)
	c.logger.Debug("html converted",
		"inputBytes", len(htmlContent),
		"outputBytes", len(out),
		"duration", time.Since(start))
	return out
}

// PasteToMarkdown converts clipboard HTML into Markdown with the rule-based
// path. It never fails; broken input falls back to HTMLToMarkdown.
func (c *Converter) PasteToMarkdown(htmlContent string) string {
	return c.paste.Convert(htmlContent)
}

// Sanitize applies the editor allow-list to htmlContent.
func (c *Converter) Sanitize(htmlContent string) string {
	return sanitize.HTML(htmlContent)
}

// PasteRules returns the tags with a clipboard rule.
func (c *Converter) PasteRules() []string {
	return c.paste.Rules()
}
