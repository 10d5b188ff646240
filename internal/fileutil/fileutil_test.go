package fileutil_test

// Notes:
// - TestWriteTempFile_CreateTempError sets TMPDIR with t.Setenv and cannot
//   run in parallel with other tests.
// - The WriteString and Close error branches in WriteTempFile are not tested:
//   triggering disk write failures is platform-specific.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-mdconv/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateExtension - Extension validation
// ---------------------------------------------------------------------------

func TestValidateExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		extension string
		wantErr   error
	}{
		{"html", "html", nil},
		{"md", "md", nil},
		{"empty", "", fileutil.ErrExtensionEmpty},
		{"forward slash", "../etc/passwd", fileutil.ErrExtensionPathTraversal},
		{"backslash", "..\\windows", fileutil.ErrExtensionPathTraversal},
		{"null byte", "html\x00exe", fileutil.ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateExtension(tt.extension)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.extension, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteTempFile - Temporary file creation
// ---------------------------------------------------------------------------

func TestWriteTempFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		content   string
		extension string
	}{
		{"html document", "<html><body><h1>Report</h1></body></html>", "html"},
		{"empty content", "", "html"},
		{"large content", strings.Repeat("x", 1<<20), "txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, cleanup, err := fileutil.WriteTempFile(tt.content, tt.extension)
			if err != nil {
				t.Fatalf("WriteTempFile() error = %v", err)
			}
			defer cleanup()

			if !strings.HasPrefix(filepath.Base(path), fileutil.TempPrefix) {
				t.Errorf("path %q does not start with %q", path, fileutil.TempPrefix)
			}
			if !strings.HasSuffix(path, "."+tt.extension) {
				t.Errorf("path %q does not have extension .%s", path, tt.extension)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read temp file: %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content length = %d, want %d", len(data), len(tt.content))
			}
		})
	}
}

func TestWriteTempFile_Cleanup(t *testing.T) {
	t.Parallel()

	path, cleanup, err := fileutil.WriteTempFile("<p>x</p>", "html")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	if !fileutil.FileExists(path) {
		t.Fatalf("temp file does not exist at %s", path)
	}

	cleanup()

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after cleanup at %s", path)
	}
}

func TestWriteTempFile_InvalidExtension(t *testing.T) {
	t.Parallel()

	_, cleanup, err := fileutil.WriteTempFile("content", "../foo")
	if cleanup != nil {
		defer cleanup()
	}
	if !errors.Is(err, fileutil.ErrExtensionPathTraversal) {
		t.Errorf("WriteTempFile() error = %v, want ErrExtensionPathTraversal", err)
	}
}

// NOTE: This test modifies TMPDIR and cannot run in parallel.
func TestWriteTempFile_CreateTempError(t *testing.T) {
	t.Setenv("TMPDIR", "/nonexistent/path/that/does/not/exist")

	_, cleanup, err := fileutil.WriteTempFile("content", "html")
	if cleanup != nil {
		defer cleanup()
	}
	if err == nil {
		t.Fatal("WriteTempFile() expected error when TMPDIR is invalid, got nil")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("WriteTempFile() error = %q, want error containing 'creating temp file'", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	testFile := filepath.Join(tempDir, "notes.md")
	if err := os.WriteFile(testFile, []byte("# notes"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	testDir := filepath.Join(tempDir, "docs")
	if err := os.Mkdir(testDir, 0o755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"existing file", testFile, true},
		{"directory", testDir, false},
		{"missing", filepath.Join(tempDir, "missing"), false},
		{"empty path", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - Path or name detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"work", false},
		{"my-config", false},
		{"./work.yaml", true},
		{"../shared/work.yaml", true},
		{"/etc/mdconv.yaml", true},
		{`C:\config\mdconv.yaml`, true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.IsFilePath(tt.input); got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHasExtension / TestReplaceExtension - Extension helpers
// ---------------------------------------------------------------------------

func TestHasExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		exts []string
		want bool
	}{
		{"notes.md", []string{".md", ".markdown"}, true},
		{"NOTES.MD", []string{".md"}, true},
		{"page.htm", []string{".html", ".htm"}, true},
		{"notes.txt", []string{".md"}, false},
		{"Makefile", []string{".md"}, false},
		{"notes.md", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.HasExtension(tt.path, tt.exts...); got != tt.want {
				t.Errorf("HasExtension(%q, %v) = %v, want %v", tt.path, tt.exts, got, tt.want)
			}
		})
	}
}

func TestReplaceExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		ext  string
		want string
	}{
		{"notes.md", ".html", "notes.html"},
		{"dir/page.htm", ".md", "dir/page.md"},
		{"archive.tar.gz", ".pdf", "archive.tar.pdf"},
		{"README", ".html", "README.html"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.ReplaceExtension(tt.path, tt.ext); got != tt.want {
				t.Errorf("ReplaceExtension(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
			}
		})
	}
}
