// Package pipeline renders Markdown into standalone HTML documents for export.
//
// The stages are:
//   - Markdown preprocessing (line endings, ==highlight== placeholders)
//   - Markdown to HTML via goldmark (GFM, footnotes, chroma highlighting)
//   - finishing: highlight marks, relative URL resolution, CSS injection
//
// The editor surface uses the regex engine in package convert. This package
// is only used when a document leaves the editor, as an HTML file or as the
// input of PDF rendering in the root mdconv package.
package pipeline
