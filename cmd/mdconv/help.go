package main

import (
	"fmt"
	"io"
)

// commands lists the subcommands in help order.
var commands = []struct {
	name string
	desc string
}{
	{"md2html", "Convert Markdown files to editor HTML"},
	{"html2md", "Convert HTML files to Markdown"},
	{"paste", "Convert clipboard HTML from stdin to Markdown"},
	{"export", "Export Markdown as a styled HTML document or PDF"},
	{"preview", "Render Markdown in the terminal"},
	{"config", "Print the effective configuration"},
	{"doctor", "Check that PDF export can run here"},
	{"version", "Show version information"},
	{"help", "Show help for a command"},
}

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdconv <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.desc)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdconv help <command>' for details on a specific command.")
}

func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
}

func printBatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
}

// printCommandUsage prints usage for one command. It reports whether the
// command exists.
func printCommandUsage(w io.Writer, name string) bool {
	switch name {
	case "md2html":
		fmt.Fprintln(w, "Usage: mdconv md2html <input>... [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Convert .md/.markdown files or directories to HTML fragments.")
		fmt.Fprintln(w, "Use - to read stdin and write stdout.")
		fmt.Fprintln(w)
		printBatchUsage(w)
		fmt.Fprintln(w, "Conversion:")
		fmt.Fprintln(w, "      --sanitize            Sanitize the generated HTML")
		fmt.Fprintln(w, "      --no-highlight        Disable code block highlighting")
		fmt.Fprintln(w, "      --highlight-lang <s>  Language to highlight (repeatable)")
		fmt.Fprintln(w)
		printCommonUsage(w)
	case "html2md":
		fmt.Fprintln(w, "Usage: mdconv html2md <input>... [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Convert .html/.htm files or directories to Markdown.")
		fmt.Fprintln(w, "Use - to read stdin and write stdout.")
		fmt.Fprintln(w)
		printBatchUsage(w)
		fmt.Fprintln(w, "Conversion:")
		fmt.Fprintln(w, "      --paste               Use the clipboard paste rules")
		fmt.Fprintln(w)
		printCommonUsage(w)
	case "paste":
		fmt.Fprintln(w, "Usage: mdconv paste [flags] < clipboard.html")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Read clipboard HTML from stdin and write Markdown.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
		fmt.Fprintln(w)
		printCommonUsage(w)
	case "export":
		fmt.Fprintln(w, "Usage: mdconv export <input>... [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Export Markdown files as standalone HTML documents or PDFs.")
		fmt.Fprintln(w)
		printBatchUsage(w)
		fmt.Fprintln(w, "Document:")
		fmt.Fprintln(w, "  -f, --format <s>          Output format: html, pdf")
		fmt.Fprintln(w, "      --title <s>           Title (default: first heading)")
		fmt.Fprintln(w, "      --style <name>        Stylesheet: editor, print, or from --style-dir")
		fmt.Fprintln(w, "      --style-dir <dir>     Directory of NAME.css stylesheets")
		fmt.Fprintln(w, "      --css <path>          Extra CSS file")
		fmt.Fprintln(w, "      --code-theme <name>   Chroma style for code blocks")
		fmt.Fprintln(w, "      --no-highlight        Disable code block highlighting")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Page (PDF):")
		fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
		fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
		fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
		fmt.Fprintln(w, "  -t, --timeout <d>         PDF generation timeout (e.g., 30s, 2m)")
		fmt.Fprintln(w)
		printCommonUsage(w)
	case "preview":
		fmt.Fprintln(w, "Usage: mdconv preview [input] [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Render a Markdown file, or stdin, for the terminal.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "      --width <n>           Wrap width (0 = terminal width)")
		fmt.Fprintln(w, "      --style <name>        Style: dark, light, notty, auto, ...")
		fmt.Fprintln(w)
		printCommonUsage(w)
	case "config":
		fmt.Fprintln(w, "Usage: mdconv config [flags] [name]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Print the effective configuration as YAML.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "      --paths               List the files searched for a config name")
		fmt.Fprintln(w)
		printCommonUsage(w)
	case "doctor":
		fmt.Fprintln(w, "Usage: mdconv doctor [--json]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check Chrome, sandbox and temp directory for PDF export.")
	case "version":
		fmt.Fprintln(w, "Usage: mdconv version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
	case "help":
		fmt.Fprintln(w, "Usage: mdconv help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
	default:
		return false
	}
	return true
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	if !printCommandUsage(env.Stdout, args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
