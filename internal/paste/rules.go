package paste

import (
	"bytes"
	"maps"
	"slices"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"golang.org/x/net/html"
)

// Rule renders one element as Markdown. Render receives the element and the
// Markdown of its children. Returning false hands the element back to the
// default renderers.
type Rule struct {
	Tag    string
	Render func(n *html.Node, content string) (string, bool)
}

// Registry maps tag names to rules. Registering a rule for a tag replaces the
// previous one. A Registry is not safe for concurrent registration; a
// Converter copies the rules it is built with.
type Registry struct {
	rules map[string]Rule
}

// NewRegistry returns a registry holding rules.
func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// DefaultRegistry returns the rules the editor relies on: underline as bold,
// highlights as ==x==, and task list markers.
func DefaultRegistry() *Registry {
	return NewRegistry(underlineRule, markRule, taskMarkerRule)
}

// Register adds rule, replacing any rule for the same tag. Rules without a
// tag or renderer are ignored.
func (r *Registry) Register(rule Rule) {
	tag := strings.ToLower(strings.TrimSpace(rule.Tag))
	if tag == "" || rule.Render == nil {
		return
	}
	rule.Tag = tag
	r.rules[tag] = rule
}

// Lookup returns the rule for tag.
func (r *Registry) Lookup(tag string) (Rule, bool) {
	rule, ok := r.rules[strings.ToLower(tag)]
	return rule, ok
}

// Tags returns the registered tag names in sorted order.
func (r *Registry) Tags() []string {
	return slices.Sorted(maps.Keys(r.rules))
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.rules)
}

func (r *Registry) snapshot() []Rule {
	rules := make([]Rule, 0, len(r.rules))
	for _, tag := range r.Tags() {
		rules = append(rules, r.rules[tag])
	}
	return rules
}

// ---------------------------------------------------------------------------
// Default rules
// ---------------------------------------------------------------------------

// underlineRule maps <u> to bold. Markdown has no underline, and the regex
// path makes the same choice.
var underlineRule = Rule{
	Tag: "u",
	Render: func(_ *html.Node, content string) (string, bool) {
		return wrapContent(content, "**"), true
	},
}

var markRule = Rule{
	Tag: "mark",
	Render: func(_ *html.Node, content string) (string, bool) {
		return wrapContent(content, "=="), true
	},
}

// taskMarkerRule renders the spans that normalization puts in place of
// checkbox inputs.
var taskMarkerRule = Rule{
	Tag: "span",
	Render: func(n *html.Node, _ string) (string, bool) {
		var marker string
		switch attr(n, "class") {
		case taskCheckedClass:
			marker = "[x]"
		case taskOpenClass:
			marker = "[ ]"
		default:
			return "", false
		}
		if next := n.NextSibling; next == nil || next.Type != html.TextNode || !strings.HasPrefix(next.Data, " ") {
			marker += " "
		}
		return marker, true
	},
}

// wrapContent puts delimiter around content, keeping surrounding spaces
// outside the delimiters. Empty content renders nothing.
func wrapContent(content, delimiter string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return content
	}
	start := strings.Index(content, trimmed)
	return content[:start] + delimiter + trimmed + delimiter + content[start+len(trimmed):]
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// html-to-markdown plugin
// ---------------------------------------------------------------------------

// rulesPlugin installs registry rules as early renderers.
type rulesPlugin struct {
	rules []Rule
}

func (p *rulesPlugin) Name() string {
	return "mdconv-rules"
}

func (p *rulesPlugin) Init(conv *converter.Converter) error {
	for _, rule := range p.rules {
		conv.Register.RendererFor(rule.Tag, converter.TagTypeInline, renderRule(rule), converter.PriorityEarly)
	}
	return nil
}

func renderRule(rule Rule) func(converter.Context, converter.Writer, *html.Node) converter.RenderStatus {
	return func(ctx converter.Context, w converter.Writer, n *html.Node) converter.RenderStatus {
		var buf bytes.Buffer
		ctx.RenderChildNodes(ctx, &buf, n)

		out, ok := rule.Render(n, buf.String())
		if !ok {
			return converter.RenderTryNext
		}
		if _, err := w.WriteString(out); err != nil {
			return converter.RenderTryNext
		}
		return converter.RenderSuccess
	}
}
