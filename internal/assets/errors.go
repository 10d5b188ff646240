package assets

import "errors"

// Sentinel errors for style loading.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidStyleName = errors.New("invalid style name")
	ErrInvalidBasePath  = errors.New("invalid style directory")
	ErrStyleRead        = errors.New("failed to read style")
	ErrPathTraversal    = errors.New("path traversal detected")
)
