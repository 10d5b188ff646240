package mdconv

import (
	"fmt"
	"strings"
)

// Page size constants.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// paperSizes maps page sizes to portrait width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeLetter: {8.5, 11},
	PageSizeA4:     {8.27, 11.69},
	PageSizeLegal:  {8.5, 14},
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size        string  // "letter", "a4", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns letter, portrait, half-inch margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeLetter,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks page settings. A nil receiver is valid and means defaults.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q (must be letter, a4, or legal)", ErrInvalidPageSize, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// dimensions returns the paper width and height in inches for the
// orientation. Callers validate first.
func (p *PageSettings) dimensions() (width, height float64) {
	size := paperSizes[strings.ToLower(p.Size)]
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return size[1], size[0]
	}
	return size[0], size[1]
}

// Format is an export output format.
type Format string

// Export formats.
const (
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses an export format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatHTML, FormatPDF:
		return f, nil
	case "":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q (must be html or pdf)", ErrInvalidFormat, s)
	}
}

// Extension returns the output file extension, with a leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ExportInput describes a document to export.
type ExportInput struct {
	Markdown  string        // Markdown content (required)
	Title     string        // Document title (optional, default "Document")
	CSS       string        // Extra CSS applied after the style (optional)
	SourceDir string        // Directory relative links resolve against (optional)
	Page      *PageSettings // PDF page settings (optional, nil = defaults)
}

// ExportResult holds an exported document. PDF is nil for HTML exports.
type ExportResult struct {
	HTML []byte
	PDF  []byte
}
