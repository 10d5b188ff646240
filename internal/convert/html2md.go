package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Code
	preCodeBlock = regexp.MustCompile(`(?is)<pre[^>]*>\s*<code([^>]*)>(.*?)</code>\s*</pre>`)
	preBlock     = regexp.MustCompile(`(?is)<pre[^>]*>(.*?)</pre>`)
	codeElement  = regexp.MustCompile(`(?is)<code[^>]*>(.*?)</code>`)
	languageAttr = regexp.MustCompile(`language-([A-Za-z0-9_+#.-]+)`)

	// Headings, index 0 is h1.
	headingElements = compileHeadingElements()

	// Emphasis, both nestings of bold-italic first.
	strongEm  = regexp.MustCompile(`(?is)<(?:strong|b)(?:\s[^>]*)?>\s*<(?:em|i)(?:\s[^>]*)?>(.+?)</(?:em|i)>\s*</(?:strong|b)>`)
	emStrong  = regexp.MustCompile(`(?is)<(?:em|i)(?:\s[^>]*)?>\s*<(?:strong|b)(?:\s[^>]*)?>(.+?)</(?:strong|b)>\s*</(?:em|i)>`)
	boldTags  = regexp.MustCompile(`(?is)<(?:strong|b|u)(?:\s[^>]*)?>(.+?)</(?:strong|b|u)>`)
	italicTag = regexp.MustCompile(`(?is)<(?:em|i)(?:\s[^>]*)?>(.+?)</(?:em|i)>`)
	strikeTag = regexp.MustCompile(`(?is)<(?:del|s|strike)(?:\s[^>]*)?>(.+?)</(?:del|s|strike)>`)
	markTag   = regexp.MustCompile(`(?is)<mark(?:\s[^>]*)?>(.+?)</mark>`)

	// Links, then images in either attribute order, then src only.
	anchorTag = regexp.MustCompile(`(?is)<a\s[^>]*?href="([^"]*)"[^>]*>(.*?)</a>`)
	imgAltSrc = regexp.MustCompile(`(?is)<img\s[^>]*?alt="([^"]*)"[^>]*?src="([^"]*)"[^>]*>`)
	imgSrcAlt = regexp.MustCompile(`(?is)<img\s[^>]*?src="([^"]*)"[^>]*?alt="([^"]*)"[^>]*>`)
	imgSrc    = regexp.MustCompile(`(?is)<img\s[^>]*?src="([^"]*)"[^>]*>`)

	// Lists. The block patterns match innermost lists only: the body holds
	// no <ul or <ol.
	ulBlock       = regexp.MustCompile(`(?is)<ul(?:\s[^>]*)?>((?:[^<]|<[^uoUO]|<[uoUO][^lL])*?)</ul>`)
	olBlock       = regexp.MustCompile(`(?is)<ol((?:\s[^>]*)?)>((?:[^<]|<[^uoUO]|<[uoUO][^lL])*?)</ol>`)
	listItem      = regexp.MustCompile(`(?is)<li(?:\s[^>]*)?>(.*?)</li>`)
	olStart       = regexp.MustCompile(`(?i)\bstart="?(\d+)"?`)
	checkboxInput = regexp.MustCompile(`(?is)<input[^>]*type="checkbox"[^>]*>`)
	checkedAttr   = regexp.MustCompile(`(?i)\schecked\b`)
	paragraphTags = regexp.MustCompile(`(?i)</?p(?:\s[^>]*)?>`)

	// Tables
	tableBlock = regexp.MustCompile(`(?is)<table[^>]*>(.*?)</table>`)
	tableRow   = regexp.MustCompile(`(?is)<tr(?:\s[^>]*)?>(.*?)</tr>`)
	tableCell  = regexp.MustCompile(`(?is)<t[hd]((?:\s[^>]*)?)>(.*?)</t[hd]>`)
	alignStyle = regexp.MustCompile(`(?i)text-align:\s*(left|center|right)`)
	alignAttr  = regexp.MustCompile(`(?i)\balign="(left|center|right)"`)

	// Blocks and breaks
	blockquoteBlock = regexp.MustCompile(`(?is)<blockquote[^>]*>(.*?)</blockquote>`)
	paragraphSeam   = regexp.MustCompile(`(?i)</p>\s*<p(?:\s[^>]*)?>`)
	hrTag           = regexp.MustCompile(`(?i)<hr(?:\s[^>]*)?/?>`)
	paragraphTag    = regexp.MustCompile(`(?is)<p(?:\s[^>]*)?>(.*?)</p>`)
	divClose        = regexp.MustCompile(`(?i)</div>`)
	brTag           = regexp.MustCompile(`(?i)<br\s*/?>`)

	// Cleanup
	anyTag        = regexp.MustCompile(`(?s)<[^>]+>`)
	extraNewlines = regexp.MustCompile(`\n{3,}`)
)

// entityDecoder decodes the entities the editor surface produces. A single
// pass keeps "&amp;lt;" as the text "&lt;".
var entityDecoder = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
	"&amp;", "&",
)

// htmlStages is the HTML to Markdown pipeline. Tag stripping must stay after
// every semantic stage.
var htmlStages = []stage{
	{"dropSentinels", dropSentinels},       // tokens cannot collide with input
	{"codeBlocks", codeBlocks},             // before code spans: <pre> holds <code>
	{"codeSpans", codeSpans},               // protected from every later stage
	{"headingTags", headingTags},           // tag specific, any order
	{"emphasisTags", emphasisTags},         // bold-italic, bold, italic
	{"strikeTags", strikeTags},             // also <mark>
	{"linkTags", linkTags},                 // before images
	{"imageTags", imageTags},               // alt/src, src/alt, src only
	{"listBlocks", listBlocks},             // each list numbers from its start
	{"tableBlocks", tableBlocks},           // after inline tags are converted
	{"blockquoteBlocks", blockquoteBlocks}, // after lists and tables
	{"breakTags", breakTags},               // rules, paragraphs, divs, <br>
	{"stripTags", stripTags},               // terminal tag pass
	{"collapseNewlines", collapseNewlines}, // three or more become two
	{"restoreCode", restoreCode},           // after collapsing: code keeps its blank lines
	{"decodeEntities", decodeEntities},     // last: decoded text is never markup
}

// HTMLToMarkdown converts an HTML fragment from the editor surface back to
// Markdown. Underline becomes bold, since Markdown has no underline.
func HTMLToMarkdown(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	s := newState(html, defaultOptions())
	runStages(s, htmlStages)
	return s.text
}

func compileHeadingElements() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 6)
	for level := 1; level <= 6; level++ {
		patterns[level-1] = regexp.MustCompile(fmt.Sprintf(`(?is)<h%d(?:\s[^>]*)?>(.*?)</h%d>`, level, level))
	}
	return patterns
}

func dropSentinels(s *state) {
	s.text = strings.NewReplacer(tokenOpen, "", tokenClose, "").Replace(s.text)
}

// codeBlocks turns <pre><code> and bare <pre> into protected fences.
// Highlighting spans are dropped; entities stay encoded until the end.
func codeBlocks(s *state) {
	s.text = preCodeBlock.ReplaceAllStringFunc(s.text, func(block string) string {
		m := preCodeBlock.FindStringSubmatch(block)
		lang := ""
		if lm := languageAttr.FindStringSubmatch(m[1]); lm != nil {
			lang = lm[1]
		}
		return s.fence(lang, m[2])
	})
	s.text = preBlock.ReplaceAllStringFunc(s.text, func(block string) string {
		m := preBlock.FindStringSubmatch(block)
		return s.fence("", m[1])
	})
}

func (s *state) fence(lang, content string) string {
	content = brTag.ReplaceAllString(content, "\n")
	content = anyTag.ReplaceAllString(content, "")
	content = strings.Trim(content, "\n")
	return "\n" + s.table.protect(kindCode, "```"+lang+"\n"+content+"\n```") + "\n\n"
}

// codeSpans turns <code> into protected backtick spans.
func codeSpans(s *state) {
	s.text = codeElement.ReplaceAllStringFunc(s.text, func(span string) string {
		m := codeElement.FindStringSubmatch(span)
		return s.table.protect(kindCode, "`"+anyTag.ReplaceAllString(m[1], "")+"`")
	})
}

func headingTags(s *state) {
	for i, re := range headingElements {
		prefix := strings.Repeat("#", i+1)
		s.text = re.ReplaceAllStringFunc(s.text, func(h string) string {
			m := re.FindStringSubmatch(h)
			return "\n" + prefix + " " + strings.TrimSpace(m[1]) + "\n\n"
		})
	}
}

func emphasisTags(s *state) {
	s.text = strongEm.ReplaceAllString(s.text, "***$1***")
	s.text = emStrong.ReplaceAllString(s.text, "***$1***")
	s.text = boldTags.ReplaceAllString(s.text, "**$1**")
	s.text = italicTag.ReplaceAllString(s.text, "*$1*")
}

func strikeTags(s *state) {
	s.text = strikeTag.ReplaceAllString(s.text, "~~$1~~")
	s.text = markTag.ReplaceAllString(s.text, "==$1==")
}

func linkTags(s *state) {
	s.text = anchorTag.ReplaceAllString(s.text, "[$2]($1)")
}

func imageTags(s *state) {
	s.text = imgAltSrc.ReplaceAllString(s.text, "![$1]($2)")
	s.text = imgSrcAlt.ReplaceAllString(s.text, "![$2]($1)")
	s.text = imgSrc.ReplaceAllString(s.text, "![]($1)")
}

// listBlocks expands <ul> and <ol> blocks into Markdown items. Task list
// checkboxes become "[ ]" or "[x]".
func listBlocks(s *state) {
	for ulBlock.MatchString(s.text) || olBlock.MatchString(s.text) {
		s.text = ulBlock.ReplaceAllStringFunc(s.text, func(block string) string {
			m := ulBlock.FindStringSubmatch(block)
			return expandItems(m[1], func(int) string { return "* " })
		})
		s.text = olBlock.ReplaceAllStringFunc(s.text, func(block string) string {
			m := olBlock.FindStringSubmatch(block)
			start := 1
			if sm := olStart.FindStringSubmatch(m[1]); sm != nil {
				if n, err := strconv.Atoi(sm[1]); err == nil {
					start = n
				}
			}
			return expandItems(m[2], func(i int) string { return strconv.Itoa(start+i) + ". " })
		})
	}
}

// expandItems renders the <li> elements of one list. Lines after the first
// in an item, including already expanded nested lists, are indented under
// the marker.
func expandItems(body string, marker func(int) string) string {
	items := listItem.FindAllStringSubmatch(body, -1)
	if len(items) == 0 {
		return body
	}
	var b strings.Builder
	b.WriteString("\n")
	for i, item := range items {
		text := item[1]
		task := ""
		if box := checkboxInput.FindString(text); box != "" {
			task = "[ ] "
			if checkedAttr.MatchString(box) {
				task = "[x] "
			}
			text = strings.Replace(text, box, "", 1)
		}
		text = paragraphTags.ReplaceAllString(text, "")
		text = brTag.ReplaceAllString(text, " ")
		text = anyTag.ReplaceAllString(text, "")

		prefix := marker(i)
		indent := strings.Repeat(" ", len(prefix))
		first := true
		for line := range strings.SplitSeq(text, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if first {
				b.WriteString(prefix)
				b.WriteString(task)
				first = false
			} else {
				b.WriteString(indent)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		if first {
			b.WriteString(prefix)
			b.WriteString(task)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// tableBlocks converts tables to GFM pipe tables. The first row is the
// header and its cells carry the column alignment.
func tableBlocks(s *state) {
	s.text = tableBlock.ReplaceAllStringFunc(s.text, func(block string) string {
		m := tableBlock.FindStringSubmatch(block)
		rows := tableRow.FindAllStringSubmatch(m[1], -1)
		if len(rows) == 0 {
			return block
		}

		var b strings.Builder
		b.WriteString("\n")
		for r, row := range rows {
			cells := tableCell.FindAllStringSubmatch(row[1], -1)
			texts := make([]string, len(cells))
			for i, c := range cells {
				texts[i] = cellText(c[2])
			}
			b.WriteString("| " + strings.Join(texts, " | ") + " |\n")
			if r == 0 {
				seps := make([]string, len(cells))
				for i, c := range cells {
					seps[i] = separatorFor(cellAlignment(c[1]))
				}
				b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
			}
		}
		b.WriteString("\n")
		return b.String()
	})
}

func cellText(content string) string {
	content = brTag.ReplaceAllString(content, " ")
	content = anyTag.ReplaceAllString(content, "")
	content = strings.Join(strings.Fields(content), " ")
	return strings.ReplaceAll(content, "|", `\|`)
}

func cellAlignment(attrs string) Alignment {
	if m := alignStyle.FindStringSubmatch(attrs); m != nil {
		return Alignment(strings.ToLower(m[1]))
	}
	if m := alignAttr.FindStringSubmatch(attrs); m != nil {
		return Alignment(strings.ToLower(m[1]))
	}
	return AlignLeft
}

func separatorFor(a Alignment) string {
	switch a {
	case AlignCenter:
		return ":---:"
	case AlignRight:
		return "---:"
	default:
		return "---"
	}
}

// blockquoteBlocks prefixes every line of a quote with "> ".
func blockquoteBlocks(s *state) {
	s.text = blockquoteBlock.ReplaceAllStringFunc(s.text, func(block string) string {
		m := blockquoteBlock.FindStringSubmatch(block)
		inner := brTag.ReplaceAllString(m[1], "\n")
		inner = paragraphSeam.ReplaceAllString(inner, "\n")
		inner = paragraphTags.ReplaceAllString(inner, "")
		inner = strings.TrimSpace(inner)

		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight("> "+strings.TrimSpace(line), " ")
		}
		return "\n" + strings.Join(lines, "\n") + "\n\n"
	})
}

func breakTags(s *state) {
	s.text = hrTag.ReplaceAllString(s.text, "\n---\n\n")
	s.text = paragraphTag.ReplaceAllString(s.text, "$1\n\n")
	s.text = divClose.ReplaceAllString(s.text, "\n")
	s.text = brTag.ReplaceAllString(s.text, "\n")
}

func stripTags(s *state) {
	s.text = anyTag.ReplaceAllString(s.text, "")
}

func collapseNewlines(s *state) {
	s.text = extraNewlines.ReplaceAllString(s.text, "\n\n")
	s.text = strings.TrimLeft(s.text, "\n")
}

func restoreCode(s *state) {
	s.text = s.table.restore(s.text, nil, kindCode)
}

func decodeEntities(s *state) {
	s.text = entityDecoder.Replace(s.text)
}
