package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing errors.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// batchFlags holds the I/O flags of the batch commands.
type batchFlags struct {
	output  string
	workers int
}

// convertFlags holds flags for md2html and html2md.
type convertFlags struct {
	common      commonFlags
	batch       batchFlags
	sanitize    bool
	noHighlight bool
	languages   []string
	paste       bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common      commonFlags
	batch       batchFlags
	format      string
	title       string
	css         string
	style       string
	styleDir    string
	codeTheme   string
	timeout     string
	noHighlight bool
	page        pageFlags
}

// previewFlags holds flags for the preview command.
type previewFlags struct {
	common commonFlags
	width  int
	style  string
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
	paths  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addBatchFlags adds output and worker flags to a FlagSet.
func addBatchFlags(fs *flag.FlagSet, f *batchFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

func newFlagSet(name string, stderr io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }
	return fs
}

// parseFlagSet parses args. Help requests pass through as flag.ErrHelp;
// other failures wrap ErrUsage.
func parseFlagSet(fs *flag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return fs.Args(), nil
}

// parseConvertFlags parses md2html or html2md flags. Only html2md takes
// --paste; only md2html takes the highlighting and sanitize flags.
func parseConvertFlags(name string, args []string, stderr io.Writer) (*convertFlags, *flag.FlagSet, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet(name, stderr, func(w io.Writer) { printCommandUsage(w, name) })

	addCommonFlags(fs, &f.common)
	addBatchFlags(fs, &f.batch)
	switch name {
	case "md2html":
		fs.BoolVar(&f.sanitize, "sanitize", false, "sanitize the generated HTML")
		fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code block highlighting")
		fs.StringSliceVar(&f.languages, "highlight-lang", nil, "languages to highlight (repeatable)")
	case "html2md":
		fs.BoolVar(&f.paste, "paste", false, "use the clipboard paste rules")
	}

	rest, err := parseFlagSet(fs, args)
	return f, fs, rest, err
}

// parseExportFlags parses export flags.
func parseExportFlags(args []string, stderr io.Writer) (*exportFlags, *flag.FlagSet, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", stderr, func(w io.Writer) { printCommandUsage(w, "export") })

	addCommonFlags(fs, &f.common)
	addBatchFlags(fs, &f.batch)
	addPageFlags(fs, &f.page)
	fs.StringVarP(&f.format, "format", "f", "", "output format: html, pdf")
	fs.StringVar(&f.title, "title", "", "document title (default: first heading)")
	fs.StringVar(&f.css, "css", "", "extra CSS file")
	fs.StringVar(&f.style, "style", "", "stylesheet name (editor, print, or from --style-dir)")
	fs.StringVar(&f.styleDir, "style-dir", "", "directory of NAME.css stylesheets")
	fs.StringVar(&f.codeTheme, "code-theme", "", "chroma style for code blocks")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.noHighlight, "no-highlight", false, "disable code block highlighting")

	rest, err := parseFlagSet(fs, args)
	return f, fs, rest, err
}

// parsePreviewFlags parses preview flags.
func parsePreviewFlags(args []string, stderr io.Writer) (*previewFlags, *flag.FlagSet, []string, error) {
	f := &previewFlags{}
	fs := newFlagSet("preview", stderr, func(w io.Writer) { printCommandUsage(w, "preview") })

	addCommonFlags(fs, &f.common)
	fs.IntVar(&f.width, "width", 0, "wrap width (0 = terminal width)")
	fs.StringVar(&f.style, "style", "", "glamour style: dark, light, notty, auto, ...")

	rest, err := parseFlagSet(fs, args)
	return f, fs, rest, err
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, stderr io.Writer) (*configFlags, []string, error) {
	f := &configFlags{}
	fs := newFlagSet("config", stderr, func(w io.Writer) { printCommandUsage(w, "config") })

	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.paths, "paths", false, "list the files searched for --config")

	rest, err := parseFlagSet(fs, args)
	return f, rest, err
}
