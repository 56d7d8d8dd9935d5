package vecpic

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alnah/go-vecpic/internal/process"
)

// maxStderrBytes caps the tracer diagnostics kept for error messages.
const maxStderrBytes = 4 << 10

// tracer converts a staged raster file into an SVG file.
type tracer interface {
	Trace(ctx context.Context, req traceRequest) error
}

// traceRequest describes one tracer run.
type traceRequest struct {
	InputPath  string
	OutputPath string
	ColorMode  string
	Params     Params
}

// commandRunner abstracts command execution to enable testing without real subprocesses.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// execRunner implements commandRunner using os/exec.
// The command runs in its own process group so cancellation also stops
// any children it spawned.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary from trusted config
	process.Isolate(cmd)

	stdout := &cappedBuffer{limit: maxStderrBytes}
	stderr := &cappedBuffer{limit: maxStderrBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// cappedBuffer keeps the first limit bytes written and drops the rest.
// Writes never fail, so a chatty subprocess cannot block on a full pipe.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}

var _ io.Writer = (*cappedBuffer)(nil)

// vtracerCLI runs the vtracer command-line tool.
type vtracerCLI struct {
	binary string
	runner commandRunner
}

func newVTracer(binary string) *vtracerCLI {
	return &vtracerCLI{binary: binary, runner: execRunner{}}
}

// Trace runs vtracer and maps its failure modes to sentinel errors.
func (v *vtracerCLI) Trace(ctx context.Context, req traceRequest) error {
	_, stderr, err := v.runner.Run(ctx, v.binary, traceArgs(req)...)
	if err == nil {
		return nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrTracerNotFound, v.binary)
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTraceTimeout, ctx.Err())
	case ctx.Err() != nil:
		return fmt.Errorf("tracing canceled: %w", ctx.Err())
	}

	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%w: %v: %s", ErrTraceFailed, err, msg)
	}
	return fmt.Errorf("%w: %v", ErrTraceFailed, err)
}

// traceArgs builds the vtracer command line.
// vtracer has no flag for the fitting iteration count; its built-in value
// equals DefaultParams().MaxIterations.
func traceArgs(req traceRequest) []string {
	p := req.Params
	args := []string{"--input", req.InputPath, "--output", req.OutputPath}
	if mode := cliColorMode(req.ColorMode); mode != "" {
		args = append(args, "--colormode", mode)
	}
	return append(args,
		"--hierarchical", p.Hierarchical,
		"--mode", p.Mode,
		"--filter_speckle", strconv.Itoa(p.FilterSpeckle),
		"--color_precision", strconv.Itoa(p.ColorPrecision),
		"--gradient_step", strconv.Itoa(p.LayerDifference),
		"--corner_threshold", strconv.Itoa(p.CornerThreshold),
		"--segment_length", strconv.FormatFloat(p.LengthThreshold, 'f', -1, 64),
		"--splice_threshold", strconv.Itoa(p.SpliceThreshold),
		"--path_precision", strconv.Itoa(p.PathPrecision),
	)
}

// cliColorMode translates the library spelling "binary" to the CLI's "bw".
func cliColorMode(mode string) string {
	if mode == ColorModeBinary {
		return "bw"
	}
	return mode
}

// LookupTracer resolves the tracer binary to an absolute path.
func LookupTracer(binary string) (string, error) {
	if binary == "" {
		binary = DefaultTracerBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTracerNotFound, err)
	}
	return path, nil
}

// TracerVersion returns the first line printed by "<binary> --version".
func TracerVersion(ctx context.Context, binary string) (string, error) {
	return tracerVersion(ctx, execRunner{}, binary)
}

func tracerVersion(ctx context.Context, runner commandRunner, binary string) (string, error) {
	stdout, stderr, err := runner.Run(ctx, binary, "--version")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTracerNotFound, binary)
		}
		return "", fmt.Errorf("running %s --version: %w", binary, err)
	}

	out := strings.TrimSpace(stdout)
	if out == "" {
		out = strings.TrimSpace(stderr)
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line), nil
}
