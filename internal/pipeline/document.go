package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates goldmark failed to render the document.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DefaultTitle is the <title> of documents rendered without one.
const DefaultTitle = "Document"

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// HTMLConverter renders Markdown as a standalone HTML document.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
	ToDocument(ctx context.Context, title, content string) (string, error)
}

// GoldmarkConverter renders Markdown with goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// GoldmarkOption configures a GoldmarkConverter.
type GoldmarkOption func(*goldmarkConfig)

type goldmarkConfig struct {
	highlight bool
}

// WithCodeHighlighting toggles chroma highlighting of fenced code blocks.
// It is on by default.
func WithCodeHighlighting(enabled bool) GoldmarkOption {
	return func(c *goldmarkConfig) {
		c.highlight = enabled
	}
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes and
// heading IDs.
func NewGoldmarkConverter(opts ...GoldmarkOption) *GoldmarkConverter {
	cfg := goldmarkConfig{highlight: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	extensions := []goldmark.Extender{
		extension.GFM,
		extension.Footnote,
	}
	if cfg.highlight {
		extensions = append(extensions, highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		))
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
			// Raw HTML stays escaped; highlights go through placeholders.
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML renders content as a document titled DefaultTitle.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	return c.ToDocument(ctx, DefaultTitle, content)
}

// ToDocument renders content as a standalone HTML5 document. goldmark has no
// context support, so rendering runs in a goroutine and ctx is raced against
// it.
func (c *GoldmarkConverter) ToDocument(ctx context.Context, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(documentTemplate, html.EscapeString(title), buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
