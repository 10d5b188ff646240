package convert

import (
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// codeFormatter emits class-based spans so the editor stylesheet controls
// colors. The surrounding <pre> is written by renderCodeBlock.
var codeFormatter = chromahtml.New(
	chromahtml.WithClasses(true),
	chromahtml.PreventSurroundingPre(true),
)

// highlightCode returns chroma-highlighted HTML for code. The second result
// is false when lang has no lexer or highlighting fails; callers then fall
// back to plain escaped text.
func highlightCode(lang, code string) (string, bool) {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", false
	}

	var b strings.Builder
	if err := codeFormatter.Format(&b, styles.Fallback, iterator); err != nil {
		return "", false
	}
	return b.String(), true
}

// renderCodeBlock renders a fenced block as <pre><code>.
func renderCodeBlock(lang, code string, opts options) string {
	var b strings.Builder
	b.WriteString("<pre><code")
	if lang != "" {
		b.WriteString(` class="language-`)
		b.WriteString(html.EscapeString(lang))
		b.WriteString(`"`)
	}
	b.WriteString(">")

	body := ""
	highlighted := false
	if lang != "" && opts.shouldHighlight(lang) {
		body, highlighted = highlightCode(lang, code)
	}
	if !highlighted {
		body = html.EscapeString(code)
	}
	b.WriteString(body)
	b.WriteString("</code></pre>")
	return b.String()
}
