package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPreview(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"doc.md": "# Heading\n\nSome *text*."})

	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "file",
			args:       []string{"preview", "--style", "notty", filepath.Join(dir, "doc.md")},
			wantCode:   ExitSuccess,
			wantStdout: "Heading",
		},
		{
			name:       "stdin",
			stdin:      "# From stdin",
			args:       []string{"preview", "--style", "notty", "--width", "40"},
			wantCode:   ExitSuccess,
			wantStdout: "From stdin",
		},
		{
			name:       "unknown style",
			stdin:      "x",
			args:       []string{"preview", "--style", "neon"},
			wantCode:   ExitUsage,
			wantStderr: "hint:",
		},
		{
			name:       "missing file",
			args:       []string{"preview", filepath.Join(dir, "absent.md")},
			wantCode:   ExitIO,
			wantStderr: "failed to read input",
		},
		{
			name:     "two inputs",
			args:     []string{"preview", "a.md", "b.md"},
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.stdin)
			code := run(t.Context(), tt.args, env.Environment)

			if code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d; stderr: %s", code, tt.wantCode, env.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want substring %q", env.stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want substring %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestPreviewSettings_TerminalWidthFallback(t *testing.T) {
	t.Parallel()

	env := newTestEnv("")
	env.TerminalWidth = func() int { return 120 }

	f, fs, _, err := parsePreviewFlags([]string{"--width", "0"}, env.Stderr)
	if err != nil {
		t.Fatalf("parsePreviewFlags() error: %v", err)
	}
	s, err := setup(f.common, env.Environment)
	if err != nil {
		t.Fatalf("setup() error: %v", err)
	}

	width, style := previewSettings(f, fs, s, env.Environment)
	if width != 120 {
		t.Errorf("width = %d, want 120", width)
	}
	if style != s.cfg.Preview.Style {
		t.Errorf("style = %q, want config style %q", style, s.cfg.Preview.Style)
	}
}
