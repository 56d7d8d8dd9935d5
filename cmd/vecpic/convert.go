package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/logging"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput   = errors.New("no input specified")
	ErrReadImage = errors.New("failed to read image file")
	ErrWriteSVG  = errors.New("failed to write SVG file")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input vecpic.Input) (*vecpic.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*vecpic.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// poolAdapter exposes a *vecpic.ConverterPool as a Pool.
type poolAdapter struct {
	pool *vecpic.ConverterPool
}

func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when given a converter the pool did not hand out.
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*vecpic.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int { return a.pool.Size() }

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	InputSize  int
	OutputSize int
	Err        error
	Duration   time.Duration
}

// runConvert converts the images named on the command line.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) == 0 {
		return fmt.Errorf("%w: convert needs at least one file or directory", ErrNoInput)
	}

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	mergeConversionFlags(flags.conversion, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	files, err := discoverFiles(positional, flags.output)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no png or jpeg files found", ErrNoInput)
	}

	log := zap.NewNop()
	if flags.common.verbose {
		if log, err = logging.New("debug", "console"); err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
	}

	pool := vecpic.NewConverterPool(vecpic.ResolvePoolSize(workers), converterOptions(cfg, log)...)
	defer pool.Close()

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Converting %d file(s) with %d worker(s)\n", len(files), pool.Size())
	}

	results := convertBatch(ctx, &poolAdapter{pool: pool}, files, flags.colorMode)
	if failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env); failed > 0 {
		return fmt.Errorf("%d of %d conversions failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, colorMode string) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire(ctx)
			if err != nil {
				// No converter for this worker: fail the jobs it would have taken.
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("acquiring converter: %w", err),
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], colorMode)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, colorMode string) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	image, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadImage, err))
	}
	result.InputSize = len(image)

	out, err := conv.Convert(ctx, vecpic.Input{
		Image:     image,
		Filename:  filepath.Base(f.InputPath),
		ColorMode: colorMode,
	})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteSVG, err))
	}
	// #nosec G306 -- SVGs are meant to be readable
	if err := os.WriteFile(f.OutputPath, out.SVG, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteSVG, err))
	}
	result.OutputSize = len(out.SVG)

	result.Duration = time.Since(start)
	return result
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

// firstError returns the first failure in results, or nil.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResultsWithWriter outputs conversion results and returns the number
// of failures.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s (%s) -> %s (%s) in %v\n",
				r.InputPath, humanize.Bytes(uint64(r.InputSize)),
				r.OutputPath, humanize.Bytes(uint64(r.OutputSize)),
				r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%s)\n", r.OutputPath, humanize.Bytes(uint64(r.OutputSize)))
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
