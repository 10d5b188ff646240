// Package convert implements the editor's Markdown and HTML conversion engine.
//
// Both directions are explicit pipelines of named stages that run in a fixed
// order over a shared state value:
//
//   - MarkdownToHTML: protect escapes and raw HTML, fenced code, inline code,
//     task items, tables, headings, rules and quotes, lists, emphasis,
//     strikethrough and highlights, images then links, paragraph wrapping,
//     and finally placeholder restoration.
//   - HTMLToMarkdown: code blocks and code spans, headings, emphasis,
//     strikethrough, links then images, lists, tables, quotes, rules,
//     paragraphs and breaks, tag stripping, newline collapsing, and entity
//     decoding.
//
// Content that later stages must not rewrite is swapped for a placeholder
// token held in a call-local table. Tokens are delimited by Unicode private
// use characters that are removed or neutralized in the input beforehand, so
// user text can never collide with a token and every token is restored.
//
// Conversions are total: they accept any string, never panic, and pass
// unrecognized syntax through as text. No state is shared between calls, so
// the functions are safe for concurrent use.
package convert
