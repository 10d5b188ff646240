package assets

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestValidateStyleName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
	}{
		{"editor", false},
		{"my-style_2", false},
		{"", true},
		{"../etc", true},
		{"a/b", true},
		{`a\b`, true},
		{"x.css", true},
	}

	for _, tt := range tests {
		err := ValidateStyleName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyleName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidStyleName) {
			t.Errorf("ValidateStyleName(%q) error = %v, want ErrInvalidStyleName", tt.name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// EmbeddedLoader
// ---------------------------------------------------------------------------

func TestEmbeddedLoader(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	t.Run("built-in styles", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{DefaultStyleName, PrintStyleName} {
			css, err := loader.LoadStyle(name)
			if err != nil {
				t.Fatalf("LoadStyle(%q) error: %v", name, err)
			}
			if !strings.Contains(css, "body") {
				t.Errorf("LoadStyle(%q) returned unexpected content", name)
			}
		}
	})

	t.Run("names", func(t *testing.T) {
		t.Parallel()

		want := []string{"editor", "print"}
		if got := loader.Names(); !reflect.DeepEqual(got, want) {
			t.Errorf("Names() = %v, want %v", got, want)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		_, err := loader.LoadStyle("nope")
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("error = %v, want ErrStyleNotFound", err)
		}
	})
}

// ---------------------------------------------------------------------------
// FilesystemLoader
// ---------------------------------------------------------------------------

func TestNewFilesystemLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"directory", dir, false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "missing"), true},
		{"file", file, true},
	}

	for _, tt := range tests {
		_, err := NewFilesystemLoader(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("%s: error = %v, want ErrInvalidBasePath", tt.name, err)
		}
	}
}

func TestFilesystemLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "house.css"), []byte("p { color: red }"), 0o644); err != nil {
		t.Fatalf("writing style: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}

	css, err := loader.LoadStyle("house")
	if err != nil {
		t.Fatalf("LoadStyle() error: %v", err)
	}
	if css != "p { color: red }" {
		t.Errorf("LoadStyle() = %q", css)
	}

	if _, err := loader.LoadStyle("absent"); !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("missing style error = %v, want ErrStyleNotFound", err)
	}
}

func TestFilesystemLoader_SymlinkEscape(t *testing.T) {
	t.Parallel()

	outside := t.TempDir()
	target := filepath.Join(outside, "secret.css")
	if err := os.WriteFile(target, []byte("secret"), 0o644); err != nil {
		t.Fatalf("writing target: %v", err)
	}

	dir := t.TempDir()
	if err := os.Symlink(target, filepath.Join(dir, "link.css")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	loader, err := NewFilesystemLoader(dir)
	if err != nil {
		t.Fatalf("NewFilesystemLoader() error: %v", err)
	}
	if _, err := loader.LoadStyle("link"); !errors.Is(err, ErrPathTraversal) {
		t.Errorf("error = %v, want ErrPathTraversal", err)
	}
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

func TestResolver(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "print.css"), []byte("custom"), 0o644); err != nil {
		t.Fatalf("writing style: %v", err)
	}

	r, err := NewResolver(dir)
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}
	if !r.HasCustomDir() {
		t.Error("HasCustomDir() = false, want true")
	}

	if css, _ := r.LoadStyle("print"); css != "custom" {
		t.Errorf("custom style not preferred: %q", css)
	}
	if css, err := r.LoadStyle("editor"); err != nil || css == "" {
		t.Errorf("fallback failed: %q, %v", css, err)
	}
	if _, err := r.LoadStyle("../x"); !errors.Is(err, ErrInvalidStyleName) {
		t.Errorf("error = %v, want ErrInvalidStyleName", err)
	}
}

func TestResolver_EmbeddedOnly(t *testing.T) {
	t.Parallel()

	r, err := NewResolver("")
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}
	if r.HasCustomDir() {
		t.Error("HasCustomDir() = true, want false")
	}
	if _, err := r.LoadStyle(DefaultStyleName); err != nil {
		t.Errorf("LoadStyle() error: %v", err)
	}
}
