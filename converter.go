package vecpic

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alnah/go-vecpic/internal/fileutil"
)

// Compile-time interface implementation checks.
var (
	_ tracer        = (*vtracerCLI)(nil)
	_ commandRunner = execRunner{}
)

// Converter runs the raster-to-SVG pipeline.
// A Converter holds no per-conversion state and is safe for concurrent use.
type Converter struct {
	cfg    converterConfig
	params Params
	log    *zap.Logger
	tracer tracer
	newID  func() string
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithWorkDir, WithTracerBinary).
// Returns ErrWorkDir if the work directory cannot be created or written.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:      defaultTimeout,
			workDir:      DefaultWorkDir(),
			tracerBinary: DefaultTracerBinary,
		},
		params: DefaultParams(),
		log:    zap.NewNop(),
		newID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.tracerBinary == "" {
		c.cfg.tracerBinary = DefaultTracerBinary
	}

	// Create tracer if not injected (e.g., by tests)
	if c.tracer == nil {
		c.tracer = newVTracer(c.cfg.tracerBinary)
	}

	if err := fileutil.EnsureWritableDir(c.cfg.workDir); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrWorkDir, c.cfg.workDir, err)
	}

	return c, nil
}

// DefaultWorkDir returns the work directory used when none is configured.
func DefaultWorkDir() string {
	return filepath.Join(os.TempDir(), "vecpic")
}

// WorkDir returns the parent directory of job directories.
func (c *Converter) WorkDir() string {
	return c.cfg.workDir
}

// Convert validates the input, traces it and returns the SVG.
// The context cancels the tracer; the configured timeout applies on top of it.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	jobID := c.newID()
	log := c.log.With(zap.String("job_id", jobID))

	jobDir, err := c.createJobDir(jobID)
	if err != nil {
		return nil, err
	}
	if c.cfg.keepFiles {
		log.Debug("keeping job directory", zap.String("dir", jobDir))
	} else {
		defer func() {
			if rmErr := os.RemoveAll(jobDir); rmErr != nil {
				log.Warn("removing job directory", zap.String("dir", jobDir), zap.Error(rmErr))
			}
		}()
	}

	inputName, outputName := input.stagedNames()
	inputPath := filepath.Join(jobDir, inputName)
	outputPath := filepath.Join(jobDir, outputName)

	if err := fileutil.WriteNewFile(inputPath, input.Image); err != nil {
		return nil, fmt.Errorf("staging input: %w", err)
	}

	traceCtx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	log.Debug("tracing",
		zap.String("input", inputName),
		zap.String("color_mode", input.ColorMode),
		zap.Int("bytes", len(input.Image)))

	if err := c.tracer.Trace(traceCtx, traceRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		ColorMode:  input.ColorMode,
		Params:     c.params,
	}); err != nil {
		return nil, err
	}

	svg, err := os.ReadFile(outputPath) // #nosec G304 -- path built inside job dir
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s missing", ErrEmptyOutput, outputName)
		}
		return nil, fmt.Errorf("reading output: %w", err)
	}

	if err := validateSVG(svg); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	log.Debug("traced",
		zap.String("output", outputName),
		zap.Int("svg_bytes", len(svg)),
		zap.Duration("duration", elapsed))

	return &Result{
		SVG:      svg,
		Filename: outputName,
		JobID:    jobID,
		Duration: elapsed,
	}, nil
}

// createJobDir makes <workDir>/<jobID>. The work directory is recreated if
// it disappeared since NewConverter (e.g., a tmp cleaner ran).
func (c *Converter) createJobDir(jobID string) (string, error) {
	if err := os.MkdirAll(c.cfg.workDir, 0o750); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkDir, err)
	}
	dir := filepath.Join(c.cfg.workDir, jobID)
	if err := os.Mkdir(dir, 0o700); err != nil {
		return "", fmt.Errorf("%w: creating job directory: %v", ErrWorkDir, err)
	}
	return dir, nil
}
