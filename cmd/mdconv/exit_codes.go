package main

import (
	"errors"
	"os"

	mdconv "github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/config"
)

// Exit codes for the mdconv CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdconv.ErrBrowserConnect) ||
		errors.Is(err, mdconv.ErrPageCreate) ||
		errors.Is(err, mdconv.ErrPageLoad) ||
		errors.Is(err, mdconv.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidTimeout) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidLogLevel) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, mdconv.ErrEmptyMarkdown) ||
		errors.Is(err, mdconv.ErrInvalidPageSize) ||
		errors.Is(err, mdconv.ErrInvalidOrientation) ||
		errors.Is(err, mdconv.ErrInvalidMargin) ||
		errors.Is(err, mdconv.ErrInvalidFormat) ||
		errors.Is(err, mdconv.ErrStyleNotFound) ||
		errors.Is(err, mdconv.ErrInvalidStyleDir) ||
		errors.Is(err, mdconv.ErrUnknownLanguage) ||
		errors.Is(err, mdconv.ErrPreviewRender) {
		return ExitUsage
	}

	return ExitGeneral
}
