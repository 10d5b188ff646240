package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mdconv "github.com/alnah/go-mdconv"
)

// ---------------------------------------------------------------------------
// runExport - with a mock pool
// ---------------------------------------------------------------------------

func TestExport_PDFWithMockPool(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"report.md": "# Quarterly Report\n\nBody.",
		"notes.md":  "no heading here",
	})
	env := newTestEnv("")
	pool := &mockPool{exporter: &mockExporter{}}
	useMockPool(env, pool)

	args := []string{"export", "-f", "pdf", "-p", "a4", "--orientation", "landscape", "--margin", "1", "-w", "2", dir}
	if code := run(context.Background(), args, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
	}

	if got := readFile(t, filepath.Join(dir, "report.pdf")); got != "%PDF-1.4 Quarterly Report" {
		t.Errorf("report.pdf = %q", got)
	}
	if got := readFile(t, filepath.Join(dir, "notes.pdf")); got != "%PDF-1.4 notes" {
		t.Errorf("notes.pdf = %q, want title from file name", got)
	}

	inputs := pool.exporter.seen()
	if len(inputs) != 2 {
		t.Fatalf("exported %d documents, want 2", len(inputs))
	}
	for _, in := range inputs {
		if in.Page == nil || in.Page.Size != mdconv.PageSizeA4 || in.Page.Orientation != mdconv.OrientationLandscape || in.Page.Margin != 1 {
			t.Errorf("page = %+v", in.Page)
		}
		if in.SourceDir != dir {
			t.Errorf("SourceDir = %q, want %q", in.SourceDir, dir)
		}
	}
	if pool.size != 2 {
		t.Errorf("pool size = %d, want 2", pool.size)
	}
	if !pool.closed {
		t.Error("pool not closed")
	}
	if pool.acquired != pool.released {
		t.Errorf("acquired %d, released %d", pool.acquired, pool.released)
	}
}

func TestExport_TitleAndCSS(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"doc.md":    "# Heading",
		"extra.css": "body { color: red; }",
	})
	out := filepath.Join(dir, "out", "final.html")
	env := newTestEnv("")
	pool := &mockPool{exporter: &mockExporter{}}
	useMockPool(env, pool)

	args := []string{"export", "--title", "Custom", "--css", filepath.Join(dir, "extra.css"), "-o", out, filepath.Join(dir, "doc.md")}
	if code := run(context.Background(), args, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
	}

	if got := readFile(t, out); got != "<html>Custom</html>" {
		t.Errorf("output = %q", got)
	}
	in := pool.exporter.seen()[0]
	if in.CSS != "body { color: red; }" {
		t.Errorf("CSS = %q", in.CSS)
	}
}

func TestExport_Errors(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"doc.md": "# Doc"})
	doc := filepath.Join(dir, "doc.md")

	tests := []struct {
		name       string
		args       []string
		exportErr  error
		acquireErr error
		wantCode   int
		wantStderr string
	}{
		{name: "no input", args: []string{"export"}, wantCode: ExitIO},
		{name: "bad format", args: []string{"export", "-f", "docx", doc}, wantCode: ExitUsage},
		{name: "bad page size", args: []string{"export", "-p", "tabloid", doc}, wantCode: ExitUsage},
		{name: "bad margin", args: []string{"export", "--margin", "9", doc}, wantCode: ExitUsage},
		{name: "bad timeout", args: []string{"export", "-t", "soon", doc}, wantCode: ExitUsage},
		{name: "missing css", args: []string{"export", "--css", filepath.Join(dir, "nope.css"), doc}, wantCode: ExitIO},
		{
			name:       "style not found",
			args:       []string{"export", "--style", "fancy", doc},
			acquireErr: fmt.Errorf("resolving style: %w", mdconv.ErrStyleNotFound),
			wantCode:   ExitUsage,
			wantStderr: "available: editor, print",
		},
		{
			name:       "browser failure",
			args:       []string{"export", "-f", "pdf", doc},
			exportErr:  fmt.Errorf("converting to PDF: %w", mdconv.ErrBrowserConnect),
			wantCode:   ExitBrowser,
			wantStderr: "failed to connect to browser",
		},
		{
			name:       "timeout",
			args:       []string{"export", "-f", "pdf", doc},
			exportErr:  fmt.Errorf("converting to PDF: %w", context.DeadlineExceeded),
			wantCode:   ExitGeneral,
			wantStderr: "--timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv("")
			useMockPool(env, &mockPool{exporter: &mockExporter{err: tt.exportErr}, acquireErr: tt.acquireErr})

			code := run(context.Background(), tt.args, env.Environment)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tt.wantCode, env.stderr)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", env.stderr, tt.wantStderr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// runExport - real exporter, HTML only (no browser)
// ---------------------------------------------------------------------------

func TestExport_HTMLEndToEnd(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{
		"guide.md": "# Guide\n\n![logo](img/logo.png)\n\n```go\nfunc main() {}\n```\n\nSome ==key== text.",
	})
	env := newTestEnv("")

	if code := run(context.Background(), []string{"export", filepath.Join(dir, "guide.md")}, env.Environment); code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", code, env.stderr)
	}

	got := readFile(t, filepath.Join(dir, "guide.html"))
	for _, want := range []string{"<title>Guide</title>", "<style>", "<mark>key</mark>", "file://"} {
		if !strings.Contains(got, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func TestResolveTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		explicit string
		markdown string
		path     string
		want     string
	}{
		{"explicit wins", "Given", "# Heading", "a.md", "Given"},
		{"first h1", "", "intro\n\n# Heading  \n\n# Second", "a.md", "Heading"},
		{"h2 ignored", "", "## Sub", "dir/notes.markdown", "notes"},
		{"file name", "", "text", "/tmp/report.md", "report"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := resolveTitle(tt.explicit, tt.markdown, tt.path); got != tt.want {
				t.Errorf("resolveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		flag    string
		cfg     time.Duration
		want    time.Duration
		wantErr bool
	}{
		{"config value", "", 45 * time.Second, 45 * time.Second, false},
		{"flag wins", "2m", 45 * time.Second, 2 * time.Minute, false},
		{"unparsable", "soon", 0, 0, true},
		{"zero", "0s", 0, 0, true},
		{"negative", "-1s", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTimeout) {
					t.Errorf("error = %v, want ErrInvalidTimeout", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
