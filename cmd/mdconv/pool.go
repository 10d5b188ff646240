package main

import (
	"context"

	mdconv "github.com/alnah/go-mdconv"
)

// Exporter renders one document.
type Exporter interface {
	Export(ctx context.Context, format mdconv.Format, input mdconv.ExportInput) (*mdconv.ExportResult, error)
}

// Compile-time interface implementation check.
var _ Exporter = (*mdconv.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() (Exporter, error)
	Release(Exporter)
	Size() int
	Close() error
}

type poolFactory func(size int, opts ...mdconv.ExportOption) Pool

// exporterPool adapts mdconv.ExporterPool to Pool.
type exporterPool struct {
	pool *mdconv.ExporterPool
}

// Compile-time check that exporterPool implements Pool.
var _ Pool = (*exporterPool)(nil)

func newExporterPool(size int, opts ...mdconv.ExportOption) Pool {
	return &exporterPool{pool: mdconv.NewExporterPool(size, opts...)}
}

func (p *exporterPool) Acquire() (Exporter, error) {
	e, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *exporterPool) Release(e Exporter) {
	if ex, ok := e.(*mdconv.Exporter); ok {
		p.pool.Release(ex)
	}
}

func (p *exporterPool) Size() int    { return p.pool.Size() }
func (p *exporterPool) Close() error { return p.pool.Close() }
