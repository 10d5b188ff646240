// Package sanitize holds the allow-list policy for HTML shown on the editor
// surface.
package sanitize

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// languageClass matches fence language classes.
	languageClass = regexp.MustCompile(`^language-[A-Za-z0-9_+#.-]+$`)

	// highlightClass matches chroma token classes and the task item class.
	highlightClass = regexp.MustCompile(`^[A-Za-z0-9 _-]+$`)

	// checkboxType is the only input type the editor produces.
	checkboxType = regexp.MustCompile(`(?i)^checkbox$`)

	// cellAlignment matches text-align values produced for table cells.
	cellAlignment = regexp.MustCompile(`(?i)^(left|center|right)$`)
)

// surfaceElements is the tag subset the conversion engine reads and writes.
var surfaceElements = []string{
	"a",
	"blockquote",
	"br",
	"code",
	"del",
	"div",
	"em",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"hr",
	"img",
	"input",
	"label",
	"li",
	"mark",
	"ol",
	"p",
	"pre",
	"s",
	"span",
	"strong",
	"table", "thead", "tbody", "tr", "th", "td",
	"u",
	"ul",
}

// policy is built once. A bluemonday policy is safe for concurrent use once
// it is no longer modified.
var policy = Policy()

// Policy returns a new policy allowing the editor's tag subset.
// Differences from [bluemonday.UGCPolicy]:
//
//   - No attributes beyond what the converters emit
//   - Checkbox inputs for task lists
//   - Alignment styles on table cells only
func Policy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowStandardURLs()
	p.AllowElements(surfaceElements...)
	p.AllowNoAttrs().OnElements("label", "mark", "u", "s", "del", "em", "strong", "span")

	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("src", "alt", "title").OnElements("img")

	p.AllowAttrs("class").Matching(languageClass).OnElements("code", "pre")
	p.AllowAttrs("class").Matching(highlightClass).OnElements("span", "li")

	p.AllowAttrs("type").Matching(checkboxType).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")

	p.AllowAttrs("start").Matching(bluemonday.Integer).OnElements("ol")

	p.AllowStyles("text-align").Matching(cellAlignment).OnElements("th", "td")

	return p
}

// HTML sanitizes s with the shared policy.
func HTML(s string) string {
	return policy.Sanitize(s)
}
