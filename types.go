package vecpic

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-vecpic/internal/fileutil"
)

// Color mode constants accepted by the tracer.
// Any other value is passed to vtracer unchanged.
const (
	ColorModeColor  = "color"
	ColorModeBinary = "binary"
)

// Hierarchical clustering and curve fitting modes.
const (
	HierarchicalStacked = "stacked"
	HierarchicalCutout  = "cutout"

	ModeSpline  = "spline"
	ModePolygon = "polygon"
	ModePixel   = "pixel"
)

// DefaultTracerBinary is the tracer looked up on PATH when none is configured.
const DefaultTracerBinary = "vtracer"

// AllowedExtensions lists the accepted image extensions.
// Matching is case-sensitive: "PNG" is rejected.
var AllowedExtensions = []string{"png", "jpg", "jpeg"}

// Params holds the tracing parameters passed to vtracer.
type Params struct {
	Hierarchical    string  // "stacked" or "cutout"
	Mode            string  // "spline", "polygon" or "pixel"
	FilterSpeckle   int     // discard patches smaller than N x N pixels
	ColorPrecision  int     // significant bits per RGB channel
	LayerDifference int     // color difference between gradient layers
	CornerThreshold int     // minimum angle (degrees) to be a corner
	LengthThreshold float64 // minimum segment length
	MaxIterations   int     // curve fitting iterations
	SpliceThreshold int     // minimum angle displacement (degrees) to splice a spline
	PathPrecision   int     // decimal places in path coordinates
}

// DefaultParams returns the fixed parameters used for every conversion.
func DefaultParams() Params {
	return Params{
		Hierarchical:    HierarchicalStacked,
		Mode:            ModeSpline,
		FilterSpeckle:   4,
		ColorPrecision:  6,
		LayerDifference: 16,
		CornerThreshold: 60,
		LengthThreshold: 4.0,
		MaxIterations:   10,
		SpliceThreshold: 45,
		PathPrecision:   3,
	}
}

// Input contains conversion parameters.
type Input struct {
	Image      []byte // raw PNG or JPEG bytes (required)
	Filename   string // uploaded filename, decides the accepted extension (required)
	ColorMode  string // "color", "binary" or empty for the tracer default
	OutputName string // overrides Filename when naming the output
}

// Validate checks the filename first, then the image content.
func (in Input) Validate() error {
	if err := ValidateFilename(in.Filename); err != nil {
		return err
	}
	if len(in.Image) == 0 {
		return ErrEmptyImage
	}
	return nil
}

// ValidateFilename checks that name is non-empty and carries an allowed
// extension. The extension is the text after the last dot, or the whole
// name when there is no dot.
func ValidateFilename(name string) error {
	if name == "" {
		return ErrEmptyFilename
	}
	ext := fileutil.Extension(name)
	if !slices.Contains(AllowedExtensions, ext) {
		return fmt.Errorf("%w: %q", ErrInvalidFileType, ext)
	}
	return nil
}

// stagedNames returns the file names used inside the job directory.
// The output stem comes from the sanitized OutputName (or Filename); the
// staged input keeps the upload's extension so the tracer can decode it.
func (in Input) stagedNames() (inputName, outputName string) {
	name := in.OutputName
	if name == "" {
		name = in.Filename
	}

	stem := fileutil.Stem(fileutil.SecureFilename(name))
	if stem == "" {
		stem = "image"
	}

	return "input_" + stem + "." + fileutil.Extension(in.Filename), stem + ".svg"
}

// Result contains the output of a conversion.
type Result struct {
	SVG      []byte        // SVG document, UTF-8
	Filename string        // suggested output name ("<stem>.svg")
	JobID    string        // job directory name, for log correlation
	Duration time.Duration // wall time spent in Convert
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout      time.Duration
	workDir      string
	tracerBinary string
	keepFiles    bool
}

// defaultTimeout bounds a single tracer run.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the per-conversion tracer timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("vecpic: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithWorkDir sets the parent directory of per-job staging directories.
// It is created if missing.
func WithWorkDir(dir string) Option {
	return func(c *Converter) {
		c.cfg.workDir = dir
	}
}

// WithTracerBinary sets the vtracer executable name or path.
func WithTracerBinary(name string) Option {
	return func(c *Converter) {
		c.cfg.tracerBinary = name
	}
}

// WithKeepFiles keeps job directories after conversion, for debugging.
func WithKeepFiles(keep bool) Option {
	return func(c *Converter) {
		c.cfg.keepFiles = keep
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(log *zap.Logger) Option {
	return func(c *Converter) {
		if log == nil {
			log = zap.NewNop()
		}
		c.log = log
	}
}
