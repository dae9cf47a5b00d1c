package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-mdmath"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string // "" when the document went to stdout
	Report     mdmath.Report
	Err        error
	Duration   time.Duration
}

// convertBatch processes jobs concurrently using the converter pool.
// Results keep the order of jobs.
func convertBatch(ctx context.Context, pool Pool, jobs []renderJob, params *renderParams) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]ConversionResult, len(jobs))
	queue := make(chan int, len(jobs))

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				// Drain the queue so every job gets a result.
				for idx := range queue {
					results[idx] = ConversionResult{InputPath: jobs[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{InputPath: jobs[idx].InputPath, Err: err}
					continue
				}
				results[idx] = convertFile(ctx, conv, jobs[idx], params)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// convertFile renders one job and writes its outputs.
func convertFile(ctx context.Context, conv CLIConverter, job renderJob, params *renderParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: job.InputPath, OutputPath: job.OutputPath}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := readInput(job.InputPath, params.stdin)
	if err != nil {
		return fail(err)
	}

	res, err := conv.Convert(ctx, mdmath.Input{
		Text:     string(content),
		Title:    params.title,
		CSS:      params.css,
		Page:     params.page,
		HTMLOnly: params.htmlOnly,
		BaseDir:  baseDir(job.InputPath),
	})
	if err != nil {
		return fail(err)
	}
	result.Report = res.Report

	primary := res.PDF
	if params.htmlOnly {
		primary = res.HTML
	}

	if job.OutputPath == "" {
		if _, err := params.stdout.Write(primary); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		result.Duration = time.Since(start)
		return result
	}

	if err := writeOutput(job.OutputPath, primary); err != nil {
		return fail(err)
	}
	if params.sidecar {
		if err := writeOutput(sidecarPath(job.OutputPath), res.HTML); err != nil {
			return fail(err)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// readInput reads a file, or r when path is stdinName.
func readInput(path string, r io.Reader) ([]byte, error) {
	if path == stdinName {
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %v", ErrReadInput, err)
		}
		return content, nil
	}

	content, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}
	return content, nil
}

// writeOutput creates the parent directory and writes data to path.
func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err)
	}
	// #nosec G306 -- rendered documents are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
