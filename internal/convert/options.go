package convert

import "strings"

// DefaultHighlightLanguages lists the fence languages highlighted by default.
var DefaultHighlightLanguages = []string{"js", "javascript", "ts", "typescript"}

// options configures MarkdownToHTML.
type options struct {
	highlight bool
	languages map[string]bool
}

// Option configures MarkdownToHTML.
type Option func(*options)

// WithHighlighting enables or disables syntax highlighting of fenced code.
func WithHighlighting(enabled bool) Option {
	return func(o *options) {
		o.highlight = enabled
	}
}

// WithHighlightLanguages replaces the set of fence languages that get
// highlighted. Names are matched case-insensitively.
func WithHighlightLanguages(langs ...string) Option {
	return func(o *options) {
		o.languages = languageSet(langs)
	}
}

func defaultOptions() options {
	return options{
		highlight: true,
		languages: languageSet(DefaultHighlightLanguages),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func languageSet(langs []string) map[string]bool {
	set := make(map[string]bool, len(langs))
	for _, l := range langs {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			set[l] = true
		}
	}
	return set
}

// shouldHighlight reports whether code fenced with lang gets highlighted.
func (o options) shouldHighlight(lang string) bool {
	return o.highlight && o.languages[strings.ToLower(lang)]
}
