package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	mdconv "github.com/alnah/go-mdconv"
)

// testEnv is an Environment with captured output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// lockedBuffer serializes writes from batch workers.
type lockedBuffer struct {
	mu  sync.Mutex
	buf *bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func newTestEnv(stdin string) *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Stdin:            strings.NewReader(stdin),
		Stdout:           &lockedBuffer{buf: stdout},
		Stderr:           &lockedBuffer{buf: stderr},
		StderrIsTerminal: func() bool { return false },
		TerminalWidth:    func() int { return 0 },
		NewPool:          newExporterPool,
		Logger:           slog.New(slog.DiscardHandler),
	}
	return &testEnv{Environment: env, stdout: stdout, stderr: stderr}
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// mock exporter pool
// ---------------------------------------------------------------------------

type mockExporter struct {
	mu     sync.Mutex
	inputs []mdconv.ExportInput
	err    error
}

func (m *mockExporter) Export(_ context.Context, format mdconv.Format, input mdconv.ExportInput) (*mdconv.ExportResult, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	res := &mdconv.ExportResult{HTML: []byte("<html>" + input.Title + "</html>")}
	if format == mdconv.FormatPDF {
		res.PDF = []byte("%PDF-1.4 " + input.Title)
	}
	return res, nil
}

func (m *mockExporter) seen() []mdconv.ExportInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdconv.ExportInput(nil), m.inputs...)
}

type mockPool struct {
	exporter   *mockExporter
	acquireErr error
	size       int
	opts       int

	mu       sync.Mutex
	acquired int
	released int
	closed   bool
}

func (p *mockPool) Acquire() (Exporter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	p.acquired++
	return p.exporter, nil
}

func (p *mockPool) Release(Exporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// useMockPool installs a pool factory returning pool and records the size
// and option count it was built with.
func useMockPool(env *testEnv, pool *mockPool) {
	env.NewPool = func(size int, opts ...mdconv.ExportOption) Pool {
		pool.size = size
		pool.opts = len(opts)
		return pool
	}
}
