package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mdconv/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput     = errors.New("no input specified")
	ErrReadInput   = errors.New("failed to read input")
	ErrWriteOutput = errors.New("failed to write output")
)

// transformFunc converts the content of one file.
type transformFunc func(ctx context.Context, f FileToConvert, content []byte) ([]byte, error)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch runs transform over files with at most workers in flight.
// A failed file does not stop the others; a canceled ctx marks the files
// not yet started as failed.
func convertBatch(ctx context.Context, files []FileToConvert, workers int, transform transformFunc) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))
	var g errgroup.Group
	g.SetLimit(max(1, min(workers, len(files))))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, Err: err}
				return nil
			}
			results[i] = convertFile(ctx, f, transform)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// convertFile reads, transforms and writes a single file.
func convertFile(ctx context.Context, f FileToConvert, transform transformFunc) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadInput, err)
		result.Duration = time.Since(start)
		return result
	}

	out, err := transform(ctx, f, content)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if err := writeOutput(f.OutputPath, out); err != nil {
		result.Err = err
	}
	result.Duration = time.Since(start)
	return result
}

// writeOutput creates the parent directory and writes data.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	// #nosec G306 -- converted documents are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports each result and returns an error wrapping the first
// failure, so the exit code follows its cause.
func printResults(results []ConversionResult, s *session, stdout, stderr io.Writer) error {
	summary := countResults(results)

	var first error
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			if first == nil {
				first = r.Err
			}
			continue
		}

		if s.quiet {
			continue
		}

		if s.verbose {
			fmt.Fprintf(stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !s.quiet && len(results) > 1 {
		fmt.Fprintf(stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	if first != nil {
		return fmt.Errorf("%d of %d conversions failed: %w", summary.Failed, len(results), first)
	}
	return nil
}
