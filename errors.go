package mdconv

import (
	"errors"

	"github.com/alnah/go-mdconv/internal/assets"
	"github.com/alnah/go-mdconv/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPreviewRender  = errors.New("terminal preview rendering failed")

	// Page settings validation errors.
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")

	// Export validation errors.
	ErrInvalidFormat   = errors.New("invalid export format")
	ErrStyleNotFound   = assets.ErrStyleNotFound
	ErrInvalidStyleDir = assets.ErrInvalidBasePath

	// Converter option errors.
	ErrUnknownLanguage = errors.New("unknown highlight language")
)
