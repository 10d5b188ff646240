package mdconv

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ExporterPool hands out up to size Exporters, each with its own browser, so
// PDF exports can run in parallel. Exporters are created on demand.
type ExporterPool struct {
	size    int
	factory func() (*Exporter, error)

	mu        sync.Mutex
	exporters []*Exporter
	idle      chan *Exporter
	created   int
	closed    bool
}

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("exporter pool is closed")

// NewExporterPool creates a pool of n exporters built with opts. n below 1
// is treated as 1.
func NewExporterPool(n int, opts ...ExportOption) *ExporterPool {
	if n < 1 {
		n = 1
	}
	return &ExporterPool{
		size:      n,
		factory:   func() (*Exporter, error) { return NewExporter(opts...) },
		exporters: make([]*Exporter, 0, n),
		idle:      make(chan *Exporter, n),
	}
}

// Acquire returns an idle exporter, creates one while under capacity, or
// blocks until one is released.
func (p *ExporterPool) Acquire() (*Exporter, error) {
	select {
	case e, ok := <-p.idle:
		if !ok {
			return nil, ErrPoolClosed
		}
		return e, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		e, err := p.factory()
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.exporters = append(p.exporters, e)
		p.mu.Unlock()
		return e, nil
	}
	p.mu.Unlock()

	e, ok := <-p.idle
	if !ok {
		return nil, ErrPoolClosed
	}
	return e, nil
}

// Release returns e to the pool. Releasing after Close is a no-op.
func (p *ExporterPool) Release(e *Exporter) {
	if e == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.idle <- e
}

// Close releases every browser the pool created.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	exporters := p.exporters
	p.mu.Unlock()

	var errs []error
	for _, e := range exporters {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers if positive, otherwise half of GOMAXPROCS
// clamped to MinPoolSize..MaxPoolSize.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return min(max(n, MinPoolSize), MaxPoolSize)
}
