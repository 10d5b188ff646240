package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdconv/internal/fileutil"
	"github.com/alnah/go-mdconv/internal/hints"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// lookBrowser finds a Chrome binary; tests replace it.
var lookBrowser = launcher.LookPath

// browserVersion runs the binary with --version; tests replace it.
var browserVersion = func(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output() // #nosec G204 -- path comes from rod or ROD_BROWSER_BIN
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd reports whether PDF export can run on this machine. Warnings
// still exit 0.
func runDoctorCmd(args []string, env *Environment) int {
	result := runDoctor()

	if slices.Contains(args, "--json") {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor() *doctorResult {
	r := &doctorResult{
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	for _, check := range []func(*doctorResult){checkChrome, checkEnvironment, checkSystem} {
		check(r)
	}

	switch {
	case len(r.Errors) > 0:
		r.Status = statusErrors
	case len(r.Warnings) > 0:
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

// checkChrome resolves the browser the same way the exporter's launcher
// does: ROD_BROWSER_BIN first, then rod's lookup.
func checkChrome(r *doctorResult) {
	path := r.Env.BrowserBin
	if path == "" {
		var ok bool
		if path, ok = lookBrowser(); !ok {
			r.Warnings = append(r.Warnings,
				"no Chrome/Chromium installed; the first PDF export downloads one (set ROD_BROWSER_BIN to skip)")
			return
		}
	}

	if _, err := os.Stat(path); err != nil {
		r.Errors = append(r.Errors, "browser binary missing: "+path)
		return
	}

	r.Chrome = chromeInfo{Found: true, Path: path, Sandbox: r.Env.NoSandbox != "1"}
	v, err := browserVersion(path)
	if err != nil {
		r.Warnings = append(r.Warnings, fmt.Sprintf("%s --version failed: %v", path, err))
		return
	}
	r.Chrome.Version = v
}

func checkEnvironment(r *doctorResult) {
	r.Env.Container, r.Env.ContainerHint = hints.DetectContainer()
	r.Env.CI = hints.InCI()

	if (r.Env.Container || r.Env.CI) && r.Env.NoSandbox != "1" {
		r.Warnings = append(r.Warnings, "running in a container or CI with the Chrome sandbox on; set ROD_NO_SANDBOX=1")
	}
}

// checkSystem writes the kind of temp file PDF export renders from.
func checkSystem(r *doctorResult) {
	_, cleanup, err := fileutil.WriteTempFile("<p>doctor</p>", "html")
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("cannot write to temp directory %s: %v", os.TempDir(), err))
		return
	}
	cleanup()
	r.System.TempWritable = true
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	line := func(tag, format string, args ...any) {
		fmt.Fprintf(w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
	}

	fmt.Fprintf(w, "mdconv doctor (%s/%s)\n\nBrowser\n", r.Env.OS, r.Env.Arch)
	if r.Chrome.Found {
		line("OK", "Found at %s", r.Chrome.Path)
		if r.Chrome.Version != "" {
			line("OK", "Version: %s", r.Chrome.Version)
		}
		sandbox := "enabled"
		if !r.Chrome.Sandbox {
			sandbox = "disabled (ROD_NO_SANDBOX=1)"
		}
		line("OK", "Sandbox: %s", sandbox)
	} else {
		line("WARN", "Not found")
	}

	fmt.Fprintln(w, "\nEnvironment")
	if r.Env.Container {
		line("OK", "Container: detected (%s)", r.Env.ContainerHint)
	}
	if r.Env.CI {
		line("OK", "CI: detected")
	}
	if !r.Env.Container && !r.Env.CI {
		line("OK", "Desktop")
	}

	fmt.Fprintln(w, "\nSystem")
	if r.System.TempWritable {
		line("OK", "Temp directory: writable")
	} else {
		line("ERROR", "Temp directory: not writable")
	}

	for _, group := range []struct {
		title string
		tag   string
		items []string
	}{{"Warnings", "WARN", r.Warnings}, {"Errors", "ERROR", r.Errors}} {
		if len(group.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", group.title)
		for _, item := range group.items {
			line(group.tag, "%s", item)
		}
	}

	status := map[string]string{
		statusReady:    "Ready to export PDF",
		statusWarnings: "Ready with warnings",
		statusErrors:   "Not ready (see errors above)",
	}[r.Status]
	fmt.Fprintf(w, "\nStatus: %s\n", status)
}
