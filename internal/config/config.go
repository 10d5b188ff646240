// Package config loads the YAML configuration of the mdconv CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdconv/internal/fileutil"
	"github.com/alnah/go-mdconv/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidConfig   = errors.New("invalid config value")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// AppDirName is the directory searched under the user config dir.
const AppDirName = "go-mdconv"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxNameLength        = 64
	MaxLanguages         = 64
	MaxPageSizeLength    = 10
	MaxOrientationLength = 10
)

// Config holds all CLI configuration.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Export  ExportConfig  `yaml:"export"`
	Preview PreviewConfig `yaml:"preview"`
	Log     LogConfig     `yaml:"log"`
}

// ConvertConfig controls md2html, html2md and paste.
type ConvertConfig struct {
	Highlight          bool     `yaml:"highlight"`
	HighlightLanguages []string `yaml:"highlightLanguages"`
	Sanitize           bool     `yaml:"sanitize"`
}

// ExportConfig controls document export.
type ExportConfig struct {
	Format    string        `yaml:"format"`    // "html" or "pdf"
	Style     string        `yaml:"style"`     // built-in or styleDir style name
	StyleDir  string        `yaml:"styleDir"`  // directory of NAME.css files
	CSS       string        `yaml:"css"`       // extra CSS file
	CodeTheme string        `yaml:"codeTheme"` // chroma style
	Timeout   time.Duration `yaml:"timeout"`
	Page      PageConfig    `yaml:"page"`
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// PreviewConfig controls terminal rendering.
type PreviewConfig struct {
	Width int    `yaml:"width"`
	Style string `yaml:"style"`
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // auto, text, json
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			Highlight:          true,
			HighlightLanguages: []string{"js", "javascript", "ts", "typescript"},
		},
		Export: ExportConfig{
			Format:    "html",
			Style:     "editor",
			CodeTheme: "github",
			Timeout:   30 * time.Second,
			Page:      PageConfig{Size: "letter", Orientation: "portrait", Margin: 0.5},
		},
		Preview: PreviewConfig{Width: 80, Style: "dark"},
		Log:     LogConfig{Level: "info", Format: "auto"},
	}
}

// Validate checks values that can be checked without the library. Page
// settings are validated again by mdconv.PageSettings.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "auto", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be auto, text, or json)", ErrInvalidConfig, c.Log.Format)
	}

	switch strings.ToLower(c.Export.Format) {
	case "", "html", "pdf":
	default:
		return fmt.Errorf("%w: export.format %q (must be html or pdf)", ErrInvalidConfig, c.Export.Format)
	}
	if c.Export.Timeout < 0 {
		return fmt.Errorf("%w: export.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Preview.Width < 0 {
		return fmt.Errorf("%w: preview.width must not be negative", ErrInvalidConfig)
	}
	if len(c.Convert.HighlightLanguages) > MaxLanguages {
		return fmt.Errorf("%w: convert.highlightLanguages (%d entries, max %d)", ErrFieldTooLong, len(c.Convert.HighlightLanguages), MaxLanguages)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"export.style", c.Export.Style, MaxNameLength},
		{"export.styleDir", c.Export.StyleDir, MaxPathLength},
		{"export.css", c.Export.CSS, MaxPathLength},
		{"export.codeTheme", c.Export.CodeTheme, MaxNameLength},
		{"export.page.size", c.Export.Page.Size, MaxPageSizeLength},
		{"export.page.orientation", c.Export.Page.Orientation, MaxOrientationLength},
		{"preview.style", c.Preview.Style, MaxNameLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or a config name. Values
// missing from the file keep their defaults. A name is searched as
// ./NAME.yaml, ./NAME.yml, then in the user config directory.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		path, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	if err := yamlutil.ReadStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}

// Marshal renders cfg as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yamlutil.Marshal(c)
}
