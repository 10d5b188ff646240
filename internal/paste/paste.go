// Package paste converts clipboard HTML to Markdown.
//
// It is the second HTML to Markdown path, independent of the regex pipeline
// in package convert: the input is normalized with goquery, sanitized, and
// then rendered by html-to-markdown with a per-tag rule registry on top. Both
// paths map bold to **, italic to *, strikethrough to ~~, code to backticks,
// and underline to bold.
package paste

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/alnah/go-mdconv/internal/convert"
)

// Converter converts clipboard HTML to Markdown. It is safe for concurrent
// use.
type Converter struct {
	logger *slog.Logger
	rules  *Registry
	render func(html string) (string, error)
}

// Option configures a Converter.
type Option func(*Converter)

// WithRegistry sets the rule registry. The default is DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(c *Converter) {
		if r != nil {
			c.rules = r
		}
	}
}

// WithLogger sets the logger for fallback warnings and timing records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		logger: slog.New(slog.DiscardHandler),
		rules:  DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	conv := converter.NewConverter(
		converter.WithEscapeMode(converter.EscapeModeSmart),
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithEmDelimiter("*"),
				commonmark.WithStrongDelimiter("**"),
				commonmark.WithBulletListMarker("*"),
				commonmark.WithHorizontalRule("---"),
			),
			strikethrough.NewStrikethroughPlugin(),
			table.NewTablePlugin(),
			&rulesPlugin{rules: c.rules.snapshot()},
		),
	)
	c.render = func(html string) (string, error) {
		return conv.ConvertString(html)
	}
	return c
}

// Convert returns the Markdown for clipboard HTML. It never fails: when
// normalization or rendering fails, the regex converter is used instead.
func (c *Converter) Convert(html string) (md string) {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("paste conversion panicked, using regex converter", "panic", fmt.Sprint(r))
			md = strings.TrimSpace(convert.HTMLToMarkdown(html))
		}
	}()

	normalized, err := Normalize(html)
	if err != nil {
		c.logger.Warn("paste normalization failed, using regex converter", "error", err)
		return strings.TrimSpace(convert.HTMLToMarkdown(html))
	}

	out, err := c.render(normalized)
	if err != nil {
		c.logger.Warn("paste rendering failed, using regex converter", "error", err)
		return strings.TrimSpace(convert.HTMLToMarkdown(normalized))
	}

	c.logger.Debug("paste converted",
		"inputBytes", len(html),
		"outputBytes", len(out),
		"duration", time.Since(start))
	return strings.TrimSpace(out)
}

// Rules returns the registered rule tags.
func (c *Converter) Rules() []string {
	return c.rules.Tags()
}
