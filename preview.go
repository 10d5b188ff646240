package mdconv

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// Preview defaults.
const (
	DefaultPreviewWidth = 80
	DefaultPreviewStyle = styles.DarkStyle

	// AutoPreviewStyle picks dark or light from the terminal background.
	AutoPreviewStyle = "auto"
)

// PreviewStyles lists the accepted style names.
func PreviewStyles() []string {
	names := make([]string, 0, len(styles.DefaultStyles)+1)
	for name := range styles.DefaultStyles {
		names = append(names, name)
	}
	names = append(names, AutoPreviewStyle)
	slices.Sort(names)
	return names
}

// RenderTerminal renders markdown for a terminal of the given width with a
// glamour style. Zero width and empty style use the defaults.
func RenderTerminal(markdown string, width int, style string) (string, error) {
	if width <= 0 {
		width = DefaultPreviewWidth
	}
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" {
		style = DefaultPreviewStyle
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch _, known := styles.DefaultStyles[style]; {
	case style == AutoPreviewStyle:
		opts = append(opts, glamour.WithAutoStyle())
	case known:
		opts = append(opts, glamour.WithStandardStyle(style))
	default:
		return "", fmt.Errorf("%w: unknown style %q (available: %s)", ErrPreviewRender, style, strings.Join(PreviewStyles(), ", "))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPreviewRender, err)
	}
	return out, nil
}
