// Package mdconv converts between the Markdown an editor stores and the HTML
// its WYSIWYG surface edits, and exports documents as HTML, PDF, or terminal
// output.
//
// # Quick Start
//
// Create a converter and convert in either direction:
//
//	conv, err := mdconv.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	html := conv.MarkdownToHTML("# Title\n\nSome **bold** text")
//	md := conv.HTMLToMarkdown(html)
//
// Both directions are total: any input string produces output and nothing
// panics. Markdown goes through a fixed sequence of regex stages. Code, raw
// HTML and escapes are swapped for placeholder tokens before the prose stages
// run, so emphasis rules never reach inside them.
//
// # Clipboard
//
// PasteToMarkdown is a second HTML to Markdown path for pasted content. The
// clipboard HTML is normalized first: inline styles become elements, spacer
// paragraphs and wrappers are dropped, and the result is sanitized. A
// per-tag rule registry then renders it. Extra rules are added with
// WithPasteRules.
//
// # Export
//
// Exporter renders Markdown as a standalone document with goldmark, using GFM,
// footnotes and chroma highlighting. Documents are styled with a built-in
// or user stylesheet and can be printed to PDF with headless Chrome:
//
//	exp, err := mdconv.NewExporter(mdconv.WithStyle("print"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	res, err := exp.ExportPDF(ctx, mdconv.ExportInput{
//	    Markdown: "# Report",
//	    Page:     &mdconv.PageSettings{Size: mdconv.PageSizeA4, Orientation: "portrait", Margin: 1},
//	})
//
// ExporterPool bounds the number of browsers for parallel exports.
//
// # Errors
//
// Conversions do not return errors. Export and preview errors wrap the
// sentinels in this package and can be checked with errors.Is:
//
//	if errors.Is(err, mdconv.ErrBrowserConnect) {
//	    // Chrome is missing or cannot start
//	}
package mdconv
