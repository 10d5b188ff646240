package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestResolveRelativeURLs(t *testing.T) {
	t.Parallel()

	baseDir := "/docs"
	if runtime.GOOS == "windows" {
		baseDir = `C:\docs`
	}

	wrap := func(body string) string {
		return "<!DOCTYPE html><html><head></head><body>" + body + "</body></html>"
	}

	tests := []struct {
		name         string
		body         string
		wantContains []string
	}{
		{
			name:         "relative image",
			body:         `<img src="img/a.png">`,
			wantContains: []string{`src="file://`, `img/a.png"`},
		},
		{
			name:         "relative link",
			body:         `<a href="./notes.md">n</a>`,
			wantContains: []string{`href="file://`, `notes.md"`},
		},
		{
			name:         "web URL unchanged",
			body:         `<img src="https://x.io/a.png">`,
			wantContains: []string{`src="https://x.io/a.png"`},
		},
		{
			name:         "data URI unchanged",
			body:         `<img src="data:image/png;base64,AA"/>`,
			wantContains: []string{`src="data:image/png;base64,AA"`},
		},
		{
			name:         "fragment unchanged",
			body:         `<a href="#top">t</a>`,
			wantContains: []string{`href="#top"`},
		},
		{
			name:         "mailto unchanged",
			body:         `<a href="mailto:a@b.c">m</a>`,
			wantContains: []string{`href="mailto:a@b.c"`},
		},
		{
			name:         "traversal unchanged",
			body:         `<img src="../../etc/passwd">`,
			wantContains: []string{`src="../../etc/passwd"`},
		},
		{
			name:         "absolute path unchanged",
			body:         `<img src="/abs/a.png">`,
			wantContains: []string{`src="/abs/a.png"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveRelativeURLs(wrap(tt.body), baseDir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestResolveRelativeURLs_EmptyBaseDir(t *testing.T) {
	t.Parallel()

	input := `<img src="a.png">`
	got, err := ResolveRelativeURLs(input, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != input {
		t.Errorf("ResolveRelativeURLs() = %q, want input unchanged", got)
	}
}

func TestWithin(t *testing.T) {
	t.Parallel()

	root := filepath.FromSlash("/docs")

	tests := []struct {
		path string
		want bool
	}{
		{filepath.FromSlash("/docs/a.png"), true},
		{filepath.FromSlash("/docs/sub/a.png"), true},
		{filepath.FromSlash("/docs/..hidden"), true},
		{filepath.FromSlash("/etc/passwd"), false},
		{filepath.FromSlash("/docsx/a.png"), false},
	}

	for _, tt := range tests {
		if got := within(tt.path, root); got != tt.want {
			t.Errorf("within(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
