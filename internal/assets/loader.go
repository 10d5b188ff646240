package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Built-in style names.
const (
	DefaultStyleName = "editor"
	PrintStyleName   = "print"
)

// StyleLoader loads a stylesheet by name, without the .css extension.
type StyleLoader interface {
	LoadStyle(name string) (string, error)
}

// Compile-time interface checks.
var (
	_ StyleLoader = (*EmbeddedLoader)(nil)
	_ StyleLoader = (*FilesystemLoader)(nil)
	_ StyleLoader = (*Resolver)(nil)
)

// ValidateStyleName rejects empty names and names that could address a
// different file.
func ValidateStyleName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Embedded
// ---------------------------------------------------------------------------

//go:embed styles/*.css
var embedded embed.FS

// EmbeddedLoader loads the built-in styles.
type EmbeddedLoader struct{}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

// LoadStyle returns the built-in style called name.
func (e *EmbeddedLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}
	content, err := embedded.ReadFile(path.Join("styles", name+".css"))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// Names lists the built-in styles.
func (e *EmbeddedLoader) Names() []string {
	entries, err := fs.ReadDir(embedded, "styles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), ".css"))
	}
	slices.Sort(names)
	return names
}

// ---------------------------------------------------------------------------
// Filesystem
// ---------------------------------------------------------------------------

// FilesystemLoader loads {dir}/{name}.css.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a loader for dir, which must be a readable
// directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, abs)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, abs)
	}

	return &FilesystemLoader{dir: abs}, nil
}

// LoadStyle reads name.css from the loader's directory.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	file := filepath.Join(f.dir, name+".css")
	if err := f.contains(file); err != nil {
		return "", err
	}

	content, err := os.ReadFile(file) // #nosec G304 -- name validated, containment checked
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	return string(content), nil
}

// contains checks that file, after resolving symlinks, is inside f.dir.
func (f *FilesystemLoader) contains(file string) error {
	if real, err := filepath.EvalSymlinks(file); err == nil {
		file = real
	}
	if !strings.HasPrefix(file, f.dir+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes style directory", ErrPathTraversal)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Resolver
// ---------------------------------------------------------------------------

// Resolver tries a user directory first and falls back to the built-in
// styles when the user directory does not have the style.
type Resolver struct {
	custom   StyleLoader
	embedded StyleLoader
}

// NewResolver creates a Resolver. An empty dir uses built-in styles only.
func NewResolver(dir string) (*Resolver, error) {
	r := &Resolver{embedded: NewEmbeddedLoader()}
	if dir != "" {
		custom, err := NewFilesystemLoader(dir)
		if err != nil {
			return nil, err
		}
		r.custom = custom
	}
	return r, nil
}

// LoadStyle loads name from the user directory, then from the built-ins.
// Validation and read errors from the user directory are returned as is.
func (r *Resolver) LoadStyle(name string) (string, error) {
	if r.custom != nil {
		css, err := r.custom.LoadStyle(name)
		if err == nil || !errors.Is(err, ErrStyleNotFound) {
			return css, err
		}
	}
	return r.embedded.LoadStyle(name)
}

// HasCustomDir reports whether a user directory is configured.
func (r *Resolver) HasCustomDir() bool {
	return r.custom != nil
}
