package paste

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mdconv/internal/sanitize"
)

var (
	// nbspPattern matches both the HTML entity &nbsp; (case insensitive) and
	// the actual unicode non-breaking space character (U+00A0).
	nbspPattern = regexp.MustCompile("(?i)&nbsp;|\xc2\xa0")

	// spaceRun matches runs of spaces and tabs inside text nodes.
	spaceRun = regexp.MustCompile(`[ \t]{2,}`)
)

// Task markers replace checkbox inputs so the rule registry can render them.
const (
	taskCheckedClass = "task-checked"
	taskOpenClass    = "task-open"
)

var (
	inlineElements = []string{
		"a", "abbr", "b", "cite", "code", "del", "em", "i", "mark", "q", "s",
		"small", "span", "strike", "strong", "sub", "sup", "u",
	}
	inlineSelector = strings.Join(inlineElements, ", ")

	blockElements = []string{
		"address", "article", "aside", "blockquote", "div", "footer",
		"header", "main", "nav", "p", "section",
	}
	blockSelector = strings.Join(blockElements, ", ")

	// structuralElements keep a <div> from being turned into a paragraph.
	structuralElements = strings.Join(append([]string{
		"h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li", "pre", "table", "hr",
	}, blockElements...), ", ")
)

// normalizeSteps run in order over the <body> of the pasted document.
var normalizeSteps = []func(*goquery.Selection){
	renameLegacyTags,
	applyInlineStyles,
	unwrapBareSpans,
	removeEmptyInlineElements,
	removeSpacerBlocks,
	divsToParagraphs,
	collapseWhitespace,
	markTasks,
}

// Normalize cleans clipboard HTML produced by word processors and
// content-editable surfaces: it keeps the <body> content, turns inline styles
// into semantic tags, drops spacing artifacts, and sanitizes the result.
func Normalize(input string) (string, error) {
	input = nbspPattern.ReplaceAllString(input, " ")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", fmt.Errorf("failed to parse clipboard HTML: %w", err)
	}
	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	for _, step := range normalizeSteps {
		step(body)
	}

	out, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render normalized HTML: %w", err)
	}
	return sanitize.HTML(out), nil
}

// legacyTags map presentational tags to the semantic tags the sanitizer and
// the Markdown rules know.
var legacyTags = map[string]atom.Atom{
	"b":      atom.Strong,
	"i":      atom.Em,
	"strike": atom.Del,
}

// renameLegacyTags rewrites <b>, <i> and <strike> in place, keeping their
// attributes for the style pass.
func renameLegacyTags(sel *goquery.Selection) {
	sel.Find("b, i, strike").Each(func(_ int, el *goquery.Selection) {
		node := el.Get(0)
		a := legacyTags[node.Data]
		node.Data = a.String()
		node.DataAtom = a
	})
}

// inlineStyle is what a style attribute means in Markdown terms.
type inlineStyle struct {
	bold, notBold bool
	italic        bool
	underline     bool
	strike        bool
}

// parseInlineStyle reads the declarations of a style attribute. Unparseable
// styles mean nothing.
func parseInlineStyle(style string) inlineStyle {
	var s inlineStyle
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return s
	}
	for _, d := range decls {
		value := strings.ToLower(strings.TrimSpace(d.Value))
		switch strings.ToLower(d.Property) {
		case "font-weight":
			s.bold, s.notBold = fontWeight(value)
		case "font-style":
			s.italic = value == "italic" || value == "oblique"
		case "text-decoration", "text-decoration-line":
			s.underline = strings.Contains(value, "underline")
			s.strike = strings.Contains(value, "line-through")
		}
	}
	return s
}

// fontWeight classifies a font-weight value as bold or explicitly normal.
func fontWeight(value string) (bold, normal bool) {
	switch value {
	case "bold", "bolder":
		return true, false
	case "normal", "lighter":
		return false, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return false, false
	}
	return n >= 600, n < 600
}

// applyInlineStyles replaces style attributes with semantic wrappers. A bold
// element styled font-weight normal (the Google Docs document wrapper) is
// unwrapped instead.
func applyInlineStyles(sel *goquery.Selection) {
	sel.Find("[style]").Each(func(_ int, el *goquery.Selection) {
		style := parseInlineStyle(el.AttrOr("style", ""))
		el.RemoveAttr("style")

		if style.notBold && el.Is("strong") {
			unwrap(el)
			return
		}

		var tags []string
		if style.bold && !el.Is("strong") {
			tags = append(tags, "strong")
		}
		if style.italic && !el.Is("em") {
			tags = append(tags, "em")
		}
		if style.underline && !el.Is("u") {
			tags = append(tags, "u")
		}
		if style.strike && !el.Is("s, del") {
			tags = append(tags, "del")
		}
		wrapChildren(el.Get(0), tags)
	})
}

// wrapChildren moves the children of n into nested elements, the first tag
// outermost.
func wrapChildren(n *html.Node, tags []string) {
	if len(tags) == 0 || n.FirstChild == nil {
		return
	}
	outer := newElement(tags[0])
	inner := outer
	for _, tag := range tags[1:] {
		child := newElement(tag)
		inner.AppendChild(child)
		inner = child
	}
	for child := n.FirstChild; child != nil; {
		next := child.NextSibling
		n.RemoveChild(child)
		inner.AppendChild(child)
		child = next
	}
	n.AppendChild(outer)
}

func newElement(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// unwrapBareSpans replaces attribute-less spans with their content.
func unwrapBareSpans(sel *goquery.Selection) {
	sel.Find("span").Each(func(_ int, el *goquery.Selection) {
		if node := el.Get(0); node != nil && len(node.Attr) == 0 {
			unwrap(el)
		}
	})
}

// unwrap replaces el with its children, or removes it when it has none.
func unwrap(el *goquery.Selection) {
	if contents := el.Contents(); contents.Length() > 0 {
		el.ReplaceWithSelection(contents)
		return
	}
	el.Remove()
}

// removeEmptyInlineElements removes inline elements that have no text content
// and no meaningful children.
func removeEmptyInlineElements(sel *goquery.Selection) {
	// Removing an element may leave its parent empty.
	for {
		removed := false
		sel.Find(inlineSelector).Each(func(_ int, el *goquery.Selection) {
			if isEffectivelyEmpty(el) {
				el.Remove()
				removed = true
			}
		})
		if !removed {
			break
		}
	}
}

// removeSpacerBlocks removes block elements that contain only <br> elements
// and whitespace, such as <p><br></p> left by content-editable surfaces.
func removeSpacerBlocks(sel *goquery.Selection) {
	sel.Find(blockSelector).Each(func(_ int, el *goquery.Selection) {
		if isSpacerBlock(el) {
			el.Remove()
		}
	})
}

// isSpacerBlock reports whether the element holds only <br> elements and
// whitespace text.
func isSpacerBlock(selection *goquery.Selection) bool {
	node := selection.Get(0)
	if node == nil {
		return false
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				return false
			}
		case html.ElementNode:
			if child.Data != "br" {
				return false
			}
		default:
			return false
		}
	}
	return selection.Find("br").Length() > 0
}

func isEffectivelyEmpty(el *goquery.Selection) bool {
	return strings.TrimSpace(el.Text()) == "" && el.Children().Length() == 0
}

// divsToParagraphs renames divs without block children to <p>. Editors wrap
// every line in a div.
func divsToParagraphs(sel *goquery.Selection) {
	sel.Find("div").Each(func(_ int, el *goquery.Selection) {
		if el.Find(structuralElements).Length() > 0 {
			return
		}
		node := el.Get(0)
		node.Data = "p"
		node.DataAtom = atom.P
		node.Attr = nil
	})
}

// collapseWhitespace squeezes runs of spaces and tabs in text nodes, leaving
// preformatted content alone.
func collapseWhitespace(sel *goquery.Selection) {
	for _, node := range sel.Nodes {
		collapseText(node)
	}
}

func collapseText(n *html.Node) {
	if n.Type == html.ElementNode && (n.DataAtom == atom.Pre || n.DataAtom == atom.Code || n.DataAtom == atom.Textarea) {
		return
	}
	if n.Type == html.TextNode {
		n.Data = spaceRun.ReplaceAllString(n.Data, " ")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collapseText(c)
	}
}

// markTasks replaces checkbox inputs with task marker spans.
func markTasks(sel *goquery.Selection) {
	sel.Find(`input[type="checkbox"]`).Each(func(_ int, el *goquery.Selection) {
		if _, checked := el.Attr("checked"); checked {
			el.ReplaceWithHtml(`<span class="` + taskCheckedClass + `">[x]</span>`)
			return
		}
		el.ReplaceWithHtml(`<span class="` + taskOpenClass + `">[ ]</span>`)
	})
}
