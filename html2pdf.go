package mdconv

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdconv/internal/fileutil"
	"github.com/alnah/go-mdconv/internal/process"
)

// pdfConverter turns an HTML document into PDF bytes.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error)
	Close() error
}

// pdfRenderer renders an HTML file, so tests can run without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, page *PageSettings) ([]byte, error)
	Close() error
}

// Compile-time interface checks.
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// rodRenderer renders pages in headless Chrome. The browser is launched on
// first use; rod downloads Chromium when no binary is found.
type rodRenderer struct {
	timeout time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// newLauncher configures the Chrome launcher from the environment.
func newLauncher() *launcher.Launcher {
	l := launcher.New()

	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin != "" {
		l = l.Bin(bin)
	}
	// Containers and CI runners usually cannot use the sandbox.
	if bin != "" || os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}
	return l
}

func (r *rodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := newLauncher()
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Close shuts the browser down and kills its process tree.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile loads filePath in a new tab and prints it.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, page *PageSettings) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	target := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	tab, err := browser.Page(proto.TargetCreateTarget{URL: target.String()})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = tab.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}
	tab = tab.Context(ctx).Timeout(timeout)

	if err := tab.WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	stream, err := tab.PDF(buildPDFOptions(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return data, nil
}

// buildPDFOptions maps page settings to Chrome print options. Nil settings
// use DefaultPageSettings.
func buildPDFOptions(page *PageSettings) *proto.PagePrintToPDF {
	if page == nil {
		page = DefaultPageSettings()
	}
	width, height := page.dimensions()

	return &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(page.Margin),
		MarginBottom:    floatPtr(page.Margin),
		MarginLeft:      floatPtr(page.Margin),
		MarginRight:     floatPtr(page.Margin),
		PrintBackground: true,
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter writes the document to a temporary file and renders it.
type rodConverter struct {
	renderer pdfRenderer
}

func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

// ToPDF renders htmlContent with the given page settings.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, page *PageSettings) ([]byte, error) {
	path, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, path, page)
}

// Close releases the browser.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
