package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultHighlightStyle is the chroma style used for exported code blocks.
const DefaultHighlightStyle = "github"

// CSSInjector inserts a stylesheet into an HTML document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, after <body>, or in
// front of the content, whichever is found first.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if strings.TrimSpace(cssContent) == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + escapeStyleText(cssContent) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.Index(htmlContent[idx:], ">"); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + styleBlock + htmlContent[pos:]
		}
	}
	return styleBlock + htmlContent
}

// escapeStyleText keeps stylesheet text from closing the <style> element.
func escapeStyleText(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// HighlightCSS returns the stylesheet for chroma's class-based output in the
// named style. Unknown names fall back to chroma's default style.
func HighlightCSS(name string) (string, error) {
	if name == "" {
		name = DefaultHighlightStyle
	}
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}
	return writeCSS(style)
}

func writeCSS(style *chroma.Style) (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, style); err != nil {
		return "", fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	return b.String(), nil
}
