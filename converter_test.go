package mdconv

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"golang.org/x/net/html"
)

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "defaults"},
		{name: "known languages", opts: []Option{WithHighlightLanguages("go", "python")}},
		{name: "blank language ignored", opts: []Option{WithHighlightLanguages(" ")}},
		{name: "unknown language", opts: []Option{WithHighlightLanguages("no-such-lang")}, wantErr: ErrUnknownLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv, err := NewConverter(tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if conv == nil {
				t.Fatal("NewConverter() returned nil")
			}
		})
	}
}

func TestConverter_MarkdownToHTML(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter()
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}

	got := conv.MarkdownToHTML("# Title\n\n**bold** and *italic*\n\n- a\n- b")
	for _, want := range []string{"<h1>Title</h1>", "<strong>bold</strong>", "<em>italic</em>", "<ul>"} {
		if !strings.Contains(got, want) {
			t.Errorf("MarkdownToHTML() = %q, missing %q", got, want)
		}
	}
	if n := strings.Count(got, "<li>"); n != 2 {
		t.Errorf("got %d list items, want 2", n)
	}
}

func TestConverter_Highlighting(t *testing.T) {
	t.Parallel()

	src := "```js\nconst a = 1;\n```"

	on, _ := NewConverter()
	if got := on.MarkdownToHTML(src); !strings.Contains(got, "<span") {
		t.Errorf("highlighted output has no spans: %q", got)
	}

	off, _ := NewConverter(WithHighlighting(false))
	if got := off.MarkdownToHTML(src); strings.Contains(got, "<span") {
		t.Errorf("unhighlighted output has spans: %q", got)
	}

	goOnly, _ := NewConverter(WithHighlightLanguages("go"))
	if got := goOnly.MarkdownToHTML(src); strings.Contains(got, "<span") {
		t.Errorf("js highlighted with go-only languages: %q", got)
	}
}

func TestConverter_Sanitize(t *testing.T) {
	t.Parallel()

	src := `<a href="javascript:alert(1)">x</a> <img src="a.png" onerror="alert(1)">`

	plain, _ := NewConverter()
	if got := plain.MarkdownToHTML(src); !strings.Contains(got, "onerror") {
		t.Errorf("raw HTML changed without sanitizing: %q", got)
	}

	safe, _ := NewConverter(WithSanitize(true))
	got := safe.MarkdownToHTML(src)
	for _, unwanted := range []string{"javascript:", "onerror"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("sanitized output contains %q: %q", unwanted, got)
		}
	}

	if got := plain.Sanitize(`<p onclick="x()">a</p>`); got != "<p>a</p>" {
		t.Errorf("Sanitize() = %q", got)
	}
}

func TestConverter_HTMLToMarkdown(t *testing.T) {
	t.Parallel()

	conv, _ := NewConverter()
	got := conv.HTMLToMarkdown("<h2>Sub</h2><p>Hello <code>x</code></p>")
	if got != "## Sub\n\nHello `x`\n\n" {
		t.Errorf("HTMLToMarkdown() = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Paste
// ---------------------------------------------------------------------------

func TestConverter_PasteToMarkdown(t *testing.T) {
	t.Parallel()

	conv, _ := NewConverter()
	got := conv.PasteToMarkdown(`<p><span style="font-weight:700">b</span> <u>u</u></p>`)
	for _, want := range []string{"**b**", "**u**"} {
		if !strings.Contains(got, want) {
			t.Errorf("PasteToMarkdown() = %q, missing %q", got, want)
		}
	}
}

func TestConverter_WithPasteRules(t *testing.T) {
	t.Parallel()

	conv, err := NewConverter(WithPasteRules(PasteRule{
		Tag: "kbd",
		Render: func(_ *html.Node, content string) (string, bool) {
			return "<kbd>" + content + "</kbd>", true
		},
	}))
	if err != nil {
		t.Fatalf("NewConverter() error: %v", err)
	}

	found := false
	for _, tag := range conv.PasteRules() {
		if tag == "kbd" {
			found = true
		}
	}
	if !found {
		t.Errorf("PasteRules() = %v, missing kbd", conv.PasteRules())
	}
}

// ---------------------------------------------------------------------------
// Logging and concurrency
// ---------------------------------------------------------------------------

func TestConverter_WithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	conv, _ := NewConverter(WithLogger(logger))
	conv.MarkdownToHTML("x")
	conv.HTMLToMarkdown("<p>x</p>")

	out := buf.String()
	for _, want := range []string{"markdown converted", "html converted"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestConverter_Concurrent(t *testing.T) {
	t.Parallel()

	conv, _ := NewConverter()
	want := conv.MarkdownToHTML("**a** `b` ==c==")

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if got := conv.MarkdownToHTML("**a** `b` ==c=="); got != want {
				t.Errorf("concurrent result %q, want %q", got, want)
			}
		})
	}
	wg.Wait()
}
