package convert

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Placeholder delimiters use Unicode Private Use Area characters, like the
// highlight placeholders in the export pipeline. Input occurrences are
// protected as tokens of their own before any other token is issued.
const (
	tokenOpen  = "\uE000"
	tokenClose = "\uE001"
)

// tokenKind classifies protected content. The kind decides restore order.
type tokenKind byte

const (
	kindCode   tokenKind = 'C' // rendered code spans and blocks
	kindHTML   tokenKind = 'H' // raw tags and comments from the source
	kindEscape tokenKind = 'E' // backslash-escaped characters
	kindBreak  tokenKind = 'B' // backslash hard line breaks
	kindURL    tokenKind = 'U' // link and image destinations and titles
	kindInput  tokenKind = 'S' // private use characters from the source
)

// sentinelRefs writes private use characters as character references.
var sentinelRefs = strings.NewReplacer(tokenOpen, "&#xE000;", tokenClose, "&#xE001;")

// leadingToken matches a token at the start of a line.
var leadingToken = regexp.MustCompile(`^[ \t]*(` + tokenOpen + `[A-Z][0-9]+` + tokenClose + `)`)

// entry is one protected substring.
type entry struct {
	kind     tokenKind
	token    string
	original string
}

// protectionTable maps placeholder tokens to the text they stand for.
// It lives for a single conversion call.
type protectionTable struct {
	entries []entry
	byToken map[string]int
}

func newProtectionTable() *protectionTable {
	return &protectionTable{byToken: make(map[string]int)}
}

// protect stores original and returns the token that replaces it.
func (t *protectionTable) protect(kind tokenKind, original string) string {
	token := tokenOpen + string(rune(kind)) + strconv.Itoa(len(t.entries)) + tokenClose
	t.byToken[token] = len(t.entries)
	t.entries = append(t.entries, entry{kind: kind, token: token, original: original})
	return token
}

// lookup returns the entry for token.
func (t *protectionTable) lookup(token string) (entry, bool) {
	i, ok := t.byToken[token]
	if !ok {
		return entry{}, false
	}
	return t.entries[i], true
}

// leading returns the entry of a token that opens line, if any.
func (t *protectionTable) leading(line string) (entry, bool) {
	m := leadingToken.FindStringSubmatch(line)
	if m == nil {
		return entry{}, false
	}
	return t.lookup(m[1])
}

// restore replaces every token of the given kinds in s with render(original).
// A nil render restores the original text unchanged. Replacement is one
// pass, so restored text is not scanned again for the same kinds.
func (t *protectionTable) restore(s string, render func(string) string, kinds ...tokenKind) string {
	if len(t.entries) == 0 || !strings.Contains(s, tokenOpen) {
		return s
	}
	var pairs []string
	for _, e := range t.entries {
		if !hasKind(kinds, e.kind) {
			continue
		}
		value := e.original
		if render != nil {
			value = render(value)
		}
		pairs = append(pairs, e.token, value)
	}
	if len(pairs) == 0 {
		return s
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// protectSentinels replaces every private use delimiter in s with a token
// whose original is that character.
func (t *protectionTable) protectSentinels(s string) string {
	if !strings.ContainsAny(s, tokenOpen+tokenClose) {
		return s
	}
	var b strings.Builder
	last := 0
	for i, r := range s {
		if r != '\uE000' && r != '\uE001' {
			continue
		}
		b.WriteString(s[last:i])
		b.WriteString(t.protect(kindInput, string(r)))
		last = i + utf8.RuneLen(r)
	}
	b.WriteString(s[last:])
	return b.String()
}

// codeText restores the source's private use characters in code before it is
// escaped and highlighted.
func (t *protectionTable) codeText(code string) string {
	return t.restore(code, nil, kindInput)
}

// len returns the number of issued tokens.
func (t *protectionTable) len() int {
	return len(t.entries)
}

func hasKind(kinds []tokenKind, k tokenKind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// state is the value threaded through pipeline stages: the working text and
// the table of everything protected so far.
type state struct {
	text  string
	table *protectionTable
	opts  options
}

func newState(text string, opts options) *state {
	return &state{text: text, table: newProtectionTable(), opts: opts}
}

// stage is one named step of a conversion pipeline.
type stage struct {
	name string
	run  func(*state)
}

// runStages applies stages to s in order.
func runStages(s *state, stages []stage) {
	for _, st := range stages {
		st.run(s)
	}
}
