package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Highlight placeholders are private-use characters. goldmark passes them
// through as text, so highlights survive rendering without raw HTML support.
const (
	MarkStartPlaceholder = "\uE000"
	MarkEndPlaceholder   = "\uE001"
)

// Precompiled regex patterns for performance.
var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	highlightPattern   = regexp.MustCompile(`==([^=\n]+)==`)

	// Fenced blocks and code spans keep ==x== literal.
	codeRegion = regexp.MustCompile("(?ms)^```[^\n]*\n.*?^```[ \t]*$|`[^`\n]+`")
)

// placeholderStripper removes placeholder characters already present in the
// source so they cannot turn into marks.
var placeholderStripper = strings.NewReplacer(MarkStartPlaceholder, "", MarkEndPlaceholder, "")

// MarkdownPreprocessor prepares Markdown before rendering.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor normalizes editor Markdown for goldmark.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown normalizes line endings, turns ==text== into
// placeholders outside code, and compresses runs of blank lines.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = crlfOrCR.ReplaceAllString(content, "\n")
	content = placeholderStripper.Replace(content)
	content = convertHighlights(content)
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// convertHighlights replaces highlights in the prose between code regions.
func convertHighlights(content string) string {
	var b strings.Builder
	last := 0
	for _, loc := range codeRegion.FindAllStringIndex(content, -1) {
		b.WriteString(markPlaceholders(content[last:loc[0]]))
		b.WriteString(content[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(markPlaceholders(content[last:]))
	return b.String()
}

func markPlaceholders(prose string) string {
	return highlightPattern.ReplaceAllString(prose, MarkStartPlaceholder+"$1"+MarkEndPlaceholder)
}

// ConvertMarkPlaceholders turns placeholders into <mark> elements once the
// HTML has been rendered.
func ConvertMarkPlaceholders(content string) string {
	return strings.NewReplacer(
		MarkStartPlaceholder, "<mark>",
		MarkEndPlaceholder, "</mark>",
	).Replace(content)
}
