// Package assets provides the stylesheets applied to exported documents.
//
// Styles are looked up by name:
//
//	StyleLoader (interface)
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - {dir}/{name}.css from a user directory
//	    └── Resolver          - user directory first, embedded as fallback
//
// Names are plain identifiers. Separators and dots are rejected before any
// file is touched, and the filesystem loader also checks that the resolved
// path, symlinks included, stays inside its directory.
package assets
