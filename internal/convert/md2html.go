package convert

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Fenced block: opening fence with optional info string, lazy body,
	// closing fence on its own line.
	fencedBlock = regexp.MustCompile("(?ms)^```([^\n`]*)\n(.*?)^```[ \t]*$")

	// "\`" escapes are protected before code spans are located.
	escapedBacktick = regexp.MustCompile("\\\\`")

	// Single-backtick code span on one line.
	codeSpan = regexp.MustCompile("`([^`\n]+)`")

	// Raw HTML comments and tags written in the Markdown source.
	rawHTML = regexp.MustCompile(`(?s)<!--.*?-->|</?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>]*)?/?>`)

	// Task list item, checked or not.
	taskItem = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+\[([ xX])\][ \t]+(.*)$`)

	// ATX headings, index 0 is level 1. Exact hash counts.
	headingPatterns = compileHeadingPatterns()

	// Thematic break: three or more of the same marker.
	horizontalRule = regexp.MustCompile(`(?m)^[ \t]*(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)

	// Blockquote line and the seam between consecutive quote lines.
	quoteLine = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?(.*)$`)
	quoteSeam = regexp.MustCompile(`</blockquote>\n<blockquote>`)

	// List items.
	bulletItem  = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+(.+)$`)
	orderedItem = regexp.MustCompile(`(?m)^[ \t]*[0-9]+\.[ \t]+(.+)$`)

	// Emphasis, strongest first. Markers must hug non-space content.
	boldItalicMarkers = regexp.MustCompile(`\*\*\*([^\s*](?:.*?[^\s*])?)\*\*\*`)
	boldMarkers       = regexp.MustCompile(`\*\*([^\s*](?:.*?[^\s])?)\*\*`)
	italicMarkers     = regexp.MustCompile(`\*([^\s*](?:[^*\n]*?[^\s*])?)\*`)

	// Strikethrough ~~text~~ and highlight ==text==.
	strikeMarkers    = regexp.MustCompile(`~~([^\s~](?:.*?[^\s~])?)~~`)
	highlightPattern = regexp.MustCompile(`==([^\s=](?:[^=\n]*?[^\s=])?)==`)

	// Images and links with an optional quoted title.
	imageSyntax = regexp.MustCompile(`!\[([^\]\n]*)\]\(\s*([^\s)]+)(?:\s+"([^"\n]*)")?\s*\)`)
	linkTarget  = regexp.MustCompile(`\]\(\s*([^\s)]+)(?:\s+"([^"\n]*)")?\s*\)`)
	linkSyntax  = regexp.MustCompile(`\[([^\]\n]+)\]\(\s*([^\s)]+)(?:\s+"([^"\n]*)")?\s*\)`)

	// Lines that open or close a block-level element are never wrapped in <p>.
	blockTag = regexp.MustCompile(`(?i)^[ \t]*</?(?:h[1-6]|ul|ol|li|table|thead|tbody|tr|th|td|blockquote|pre|hr|div|p)\b`)
)

// Characters a backslash can escape.
const escapable = "\\`*_{}[]()#+-.!|~<>="

// orderedItemOpen marks ordered items until their list is wrapped.
const orderedItemOpen = `<li class="ol-item">`

// markdownStages is the Markdown to HTML pipeline. Order is significant:
// every stage relies on the ones before it having claimed their syntax.
var markdownStages = []stage{
	{"normalizeInput", normalizeInput},   // line endings, sentinel characters
	{"protectSource", protectSource},     // escapes and raw HTML, outside code
	{"fencedCode", fencedCode},           // before code spans: fences contain backticks
	{"inlineCode", inlineCode},           // before anything that reads * | # and friends
	{"taskItems", taskItems},             // before bullets: a task is a special bullet
	{"tables", tables},                   // before paragraphs
	{"headings", headings},               // before paragraphs
	{"horizontalRules", horizontalRules}, // before bullets: "- - -" is a rule
	{"blockquotes", blockquotes},         // line anchored
	{"bulletLists", bulletLists},         // before ordered lists
	{"orderedLists", orderedLists},       // strips the temporary class
	{"emphasis", emphasis},               // *** before ** before *
	{"strikethrough", strikethrough},     // also ==highlight==
	{"images", images},                   // before links: ![x](y) contains [x](y)
	{"links", links},                     // last inline syntax
	{"paragraphs", paragraphs},           // wraps whatever is not a block
	{"restore", restoreTokens},           // code and HTML, then escapes, then breaks
}

// MarkdownToHTML converts Markdown to an HTML fragment for the editor
// surface. Empty or blank input yields an empty string.
func MarkdownToHTML(markdown string, opts ...Option) string {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}
	s := newState(markdown, buildOptions(opts))
	runStages(s, markdownStages)
	return s.text
}

func compileHeadingPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 6)
	for level := 1; level <= 6; level++ {
		patterns[level-1] = regexp.MustCompile(fmt.Sprintf(`(?m)^#{%d}[ \t]+(.+?)[ \t]*$`, level))
	}
	return patterns
}

// normalizeInput converts line endings and protects any private use
// sentinels in the source. Prose renders them as character references, code
// restores them before escaping.
func normalizeInput(s *state) {
	s.text = crlfOrCR.ReplaceAllString(s.text, "\n")
	s.text = s.table.protectSentinels(s.text)
}

// protectSource hides backslash escapes and raw HTML behind tokens. Fenced
// blocks and code spans are left untouched so their content stays literal.
func protectSource(s *state) {
	text := s.text
	fences := fencedBlock.FindAllStringIndex(text, -1)

	var b strings.Builder
	last := 0
	for _, loc := range fences {
		b.WriteString(s.protectProse(text[last:loc[0]], true))
		b.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(s.protectProse(text[last:], false))
	s.text = b.String()
}

// protectProse protects a segment that lies outside fenced blocks.
// beforeFence reports whether a fence follows the segment.
func (s *state) protectProse(seg string, beforeFence bool) string {
	if seg == "" {
		return seg
	}
	seg = escapedBacktick.ReplaceAllStringFunc(seg, func(string) string {
		return s.table.protect(kindEscape, "`")
	})

	spans := codeSpan.FindAllStringIndex(seg, -1)
	var b strings.Builder
	last := 0
	for _, loc := range spans {
		b.WriteString(s.protectText(seg[last:loc[0]], true))
		b.WriteString(seg[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(s.protectText(seg[last:], !beforeFence))
	return b.String()
}

// protectText protects escapes, then raw HTML, in plain text. A backslash
// right before a newline becomes a hard break joining the two lines, except
// at the end of a segment that precedes a fence (the fence must stay at the
// start of its line).
func (s *state) protectText(text string, joinAtEnd bool) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '\\' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}
		next := text[i+1]
		switch {
		case next == '\n' && (joinAtEnd || i+2 < len(text)):
			b.WriteString(s.table.protect(kindBreak, "<br>"))
			i++
		case next != '\n' && strings.IndexByte(escapable, next) >= 0:
			b.WriteString(s.table.protect(kindEscape, string(next)))
			i++
		default:
			b.WriteByte(c)
		}
	}
	text = s.protectDestinations(b.String())
	return rawHTML.ReplaceAllStringFunc(text, func(tag string) string {
		return s.table.protect(kindHTML, tag)
	})
}

// protectDestinations hides link and image destinations and titles so inline
// syntax stages cannot rewrite them.
func (s *state) protectDestinations(text string) string {
	matches := linkTarget.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		for g := 2; g+1 < len(m); g += 2 {
			if m[g] < 0 || m[g] == m[g+1] {
				continue
			}
			b.WriteString(text[last:m[g]])
			b.WriteString(s.table.protect(kindURL, text[m[g]:m[g+1]]))
			last = m[g+1]
		}
	}
	b.WriteString(text[last:])
	return b.String()
}

// fencedCode renders fenced blocks and protects the result.
func fencedCode(s *state) {
	s.text = fencedBlock.ReplaceAllStringFunc(s.text, func(block string) string {
		m := fencedBlock.FindStringSubmatch(block)
		if m == nil {
			return block
		}
		lang := fenceLanguage(s.table.codeText(m[1]))
		code := s.table.codeText(strings.TrimSuffix(m[2], "\n"))
		return s.table.protect(kindCode, sentinelRefs.Replace(renderCodeBlock(lang, code, s.opts)))
	})
}

// fenceLanguage returns the first word of a fence info string.
func fenceLanguage(info string) string {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// inlineCode renders code spans and protects the result.
func inlineCode(s *state) {
	s.text = codeSpan.ReplaceAllStringFunc(s.text, func(span string) string {
		content := s.table.codeText(span[1 : len(span)-1])
		return s.table.protect(kindCode, "<code>"+sentinelRefs.Replace(html.EscapeString(content))+"</code>")
	})
}

// taskItems converts "- [ ] x" and "- [x] x" to checkbox list items.
func taskItems(s *state) {
	s.text = taskItem.ReplaceAllStringFunc(s.text, func(line string) string {
		m := taskItem.FindStringSubmatch(line)
		checked := ""
		if m[1] != " " {
			checked = " checked"
		}
		return `<li class="task-list-item"><input type="checkbox" disabled` + checked + `> <label>` + m[2] + `</label></li>`
	})
}

// headings converts ATX headings.
func headings(s *state) {
	for i, re := range headingPatterns {
		tag := fmt.Sprintf("h%d", i+1)
		s.text = re.ReplaceAllString(s.text, "<"+tag+">$1</"+tag+">")
	}
}

// horizontalRules converts thematic breaks.
func horizontalRules(s *state) {
	s.text = horizontalRule.ReplaceAllString(s.text, "<hr>")
}

// blockquotes converts quote lines and merges consecutive ones.
func blockquotes(s *state) {
	s.text = quoteLine.ReplaceAllString(s.text, "<blockquote>$1</blockquote>")
	s.text = quoteSeam.ReplaceAllString(s.text, "<br>")
}

// bulletLists converts bullet items and wraps runs of items in <ul>.
// Task items produced earlier join the same run.
func bulletLists(s *state) {
	s.text = bulletItem.ReplaceAllString(s.text, "<li>$1</li>")
	s.text = wrapRuns(s.text, func(line string) bool {
		return strings.HasPrefix(line, "<li>") || strings.HasPrefix(line, `<li class="task-list-item">`)
	}, "<ul>", "</ul>")
}

// orderedLists converts numbered items, wraps runs in <ol>, and drops the
// marker class.
func orderedLists(s *state) {
	s.text = orderedItem.ReplaceAllString(s.text, orderedItemOpen+"$1</li>")
	s.text = wrapRuns(s.text, func(line string) bool {
		return strings.HasPrefix(line, orderedItemOpen)
	}, "<ol>", "</ol>")
	s.text = strings.ReplaceAll(s.text, orderedItemOpen, "<li>")
}

// wrapRuns surrounds each run of consecutive lines matching isItem with the
// open and close lines.
func wrapRuns(text string, isItem func(string) bool, open, close string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+2)
	inRun := false
	for _, line := range lines {
		item := isItem(line)
		if item && !inRun {
			out = append(out, open)
		}
		if !item && inRun {
			out = append(out, close)
		}
		inRun = item
		out = append(out, line)
	}
	if inRun {
		out = append(out, close)
	}
	return strings.Join(out, "\n")
}

// emphasis converts bold-italic, bold, then italic markers.
func emphasis(s *state) {
	s.text = boldItalicMarkers.ReplaceAllString(s.text, "<strong><em>$1</em></strong>")
	s.text = boldMarkers.ReplaceAllString(s.text, "<strong>$1</strong>")
	s.text = italicMarkers.ReplaceAllString(s.text, "<em>$1</em>")
}

// strikethrough converts ~~text~~ and ==text==.
func strikethrough(s *state) {
	s.text = strikeMarkers.ReplaceAllString(s.text, "<del>$1</del>")
	s.text = highlightPattern.ReplaceAllString(s.text, "<mark>$1</mark>")
}

// images converts ![alt](src "title").
func images(s *state) {
	s.text = imageSyntax.ReplaceAllStringFunc(s.text, func(match string) string {
		m := imageSyntax.FindStringSubmatch(match)
		src, title := s.destination(m[2]), s.destination(m[3])
		return `<img src="` + html.EscapeString(src) + `" alt="` + html.EscapeString(m[1]) + `"` + titleAttr(title) + `>`
	})
}

// links converts [text](href "title").
func links(s *state) {
	s.text = linkSyntax.ReplaceAllStringFunc(s.text, func(match string) string {
		m := linkSyntax.FindStringSubmatch(match)
		href, title := s.destination(m[2]), s.destination(m[3])
		return `<a href="` + html.EscapeString(href) + `"` + titleAttr(title) + `>` + m[1] + `</a>`
	})
}

// destination restores a protected destination or title.
func (s *state) destination(v string) string {
	return s.table.restore(v, nil, kindURL)
}

func titleAttr(title string) string {
	if title == "" {
		return ""
	}
	return ` title="` + html.EscapeString(title) + `"`
}

// paragraphs groups consecutive non-block lines into <p> elements, joining
// their lines with <br>. Blank lines end a paragraph.
func paragraphs(s *state) {
	lines := strings.Split(s.text, "\n")
	out := make([]string, 0, len(lines))
	var pending []string

	flush := func() {
		if len(pending) > 0 {
			out = append(out, "<p>"+strings.Join(pending, "<br>")+"</p>")
			pending = pending[:0]
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flush()
		case s.isBlockLine(line):
			flush()
			out = append(out, trimmed)
		default:
			pending = append(pending, trimmed)
		}
	}
	flush()
	s.text = strings.Join(out, "\n")
}

// isBlockLine reports whether line starts with a block-level tag, either
// literally or through a protected token.
func (s *state) isBlockLine(line string) bool {
	if blockTag.MatchString(line) {
		return true
	}
	if e, ok := s.table.leading(line); ok {
		return blockTag.MatchString(e.original)
	}
	return false
}

// restoreTokens puts protected content back: code, raw HTML and unused
// destinations first, then escaped characters, then hard breaks, then the
// source's private use characters as references.
func restoreTokens(s *state) {
	s.text = s.table.restore(s.text, nil, kindCode, kindHTML, kindURL)
	s.text = s.table.restore(s.text, html.EscapeString, kindEscape)
	s.text = s.table.restore(s.text, nil, kindBreak)
	s.text = s.table.restore(s.text, sentinelRefs.Replace, kindInput)
}
