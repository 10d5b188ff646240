// Package hints builds the "\n  hint: ..." suffixes the CLI appends to
// errors a user can fix.
package hints

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdconv/internal/fileutil"
)

// ciVars are set by the CI systems we know about.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsInContainer reports whether the process runs in a container.
var IsInContainer = func() bool {
	found, _ := DetectContainer()
	return found
}

// DetectContainer checks the usual container signals and names the one that
// matched.
func DetectContainer() (bool, string) {
	if os.Getenv("MDCONV_CONTAINER") == "1" {
		return true, "MDCONV_CONTAINER=1"
	}
	if fileutil.FileExists("/.dockerenv") {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// InCI reports whether a known CI variable is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod variables that are missing for PDF
// export to start Chrome here. It returns "" when both are already set.
func ForBrowserConnect() string {
	var parts []string
	sandboxed := os.Getenv("ROD_NO_SANDBOX") != "1"
	if sandboxed && (InCI() || IsInContainer()) {
		parts = append(parts, "Chrome cannot sandbox in containers or CI, set ROD_NO_SANDBOX=1")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "point ROD_BROWSER_BIN at an installed Chrome; run mdconv doctor")
	}
	return formatHints(parts)
}

// ForTimeout suggests raising the PDF timeout.
func ForTimeout() string {
	return format("raise the PDF timeout with --timeout 2m or MDCONV_TIMEOUT")
}

// ForConfigNotFound suggests --config and, when one was searched, a user
// config file to create.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	marker := string(filepath.Separator) + "go-mdconv" + string(filepath.Separator)
	for _, p := range searchedPaths {
		if strings.Contains(p, marker) || strings.Contains(p, "/go-mdconv/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

func ForOutputDirectory() string {
	return format("-o must name a writable directory, or a file when converting one input")
}

// ForStyleNotFound lists the styles that do exist.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForPasteInput reminds that paste reads from stdin.
func ForPasteInput() string {
	return format("pipe clipboard HTML into stdin, e.g. wl-paste -t text/html | mdconv paste")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(parts []string) string {
	return format(strings.Join(parts, "; "))
}
