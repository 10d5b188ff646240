package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdconv "github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("unsupported file extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// Input extensions per source format.
var (
	markdownExtensions = []string{".md", ".markdown"}
	htmlExtensions     = []string{".html", ".htm"}
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles expands inputs (files or directories) into conversion jobs.
// Directories are walked for files with one of exts; a file given directly
// must have one too. Output paths get outExt.
func discoverFiles(inputs []string, outputDir string, exts []string, outExt string) ([]FileToConvert, error) {
	var files []FileToConvert
	single := len(inputs) == 1

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}

		if !info.IsDir() {
			if !fileutil.HasExtension(input, exts...) {
				return nil, fmt.Errorf("%w: %q (want %s)", ErrInvalidExtension, input, strings.Join(exts, ", "))
			}
			out := resolveOutputPath(input, outputDir, "", outExt, single)
			files = append(files, FileToConvert{InputPath: input, OutputPath: out})
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() || !fileutil.HasExtension(path, exts...) {
				return nil
			}
			out := resolveOutputPath(path, outputDir, input, outExt, false)
			files = append(files, FileToConvert{InputPath: path, OutputPath: out})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// resolveOutputPath determines where the converted form of inputPath goes.
// Without outputDir it sits next to the input. An outputDir ending in outExt
// names the file itself when converting a single file. Files found under
// baseInputDir keep their relative directory.
func resolveOutputPath(inputPath, outputDir, baseInputDir, outExt string, single bool) string {
	base := fileutil.ReplaceExtension(filepath.Base(inputPath), outExt)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if single && strings.EqualFold(filepath.Ext(outputDir), outExt) {
		return outputDir
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdconv.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdconv.MaxPoolSize)
	}
	return nil
}

// resolveWorkers picks the flag value, then MDCONV_WORKERS, then the
// GOMAXPROCS-based default.
func resolveWorkers(flagWorkers int, env *envConfig) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if env != nil && env.Workers > 0 {
		return min(env.Workers, mdconv.MaxPoolSize)
	}
	return mdconv.ResolvePoolSize(0)
}
