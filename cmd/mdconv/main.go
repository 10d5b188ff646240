// Command mdconv converts between Markdown and HTML, normalizes clipboard
// HTML, exports styled documents and PDFs, and previews Markdown in the
// terminal.
package main

import (
	"context"
	"os"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], DefaultEnv())
	stop()
	os.Exit(code)
}
