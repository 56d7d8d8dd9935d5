package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/config"
)

// ErrUsage wraps flag parsing failures and bad positional arguments.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// conversionFlags override the conversion section of the config.
// Zero values leave the config untouched.
type conversionFlags struct {
	workDir   string
	timeout   time.Duration
	tracer    string
	keepFiles bool
}

// logFlags override the log section of the config.
type logFlags struct {
	level  string
	format string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common     commonFlags
	conversion conversionFlags
	log        logFlags
	addr       string
	maxUpload  string
}

// convertFlags holds flags for the convert command.
type convertFlags struct {
	common     commonFlags
	conversion conversionFlags
	output     string
	workers    int
	colorMode  string
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	common commonFlags
	json   bool
}

// configFlags holds flags for the config command.
type configFlags struct {
	common     commonFlags
	conversion conversionFlags
	log        logFlags
	addr       string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

func addConversionFlags(fs *flag.FlagSet, f *conversionFlags) {
	fs.StringVar(&f.workDir, "work-dir", "", "parent directory for job files")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-image tracing timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.tracer, "tracer", "", "vtracer binary name or path")
	fs.BoolVar(&f.keepFiles, "keep-files", false, "keep job directories after conversion")
}

func addLogFlags(fs *flag.FlagSet, f *logFlags) {
	fs.StringVar(&f.level, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.format, "log-format", "", "log format: json, console")
}

// newFlagSet creates a flag set that reports errors instead of exiting.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseFlags runs fs.Parse, wrapping failures in ErrUsage.
// A help request is returned as flag.ErrHelp.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	fs.StringVar(&f.maxUpload, "max-upload", "", "maximum upload size (e.g., 32MiB, 0 = unlimited)")
	addCommonFlags(fs, &f.common)
	addConversionFlags(fs, &f.conversion)
	addLogFlags(fs, &f.log)

	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := newFlagSet("convert", w, printConvertUsage)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVar(&f.colorMode, "colormode", "", "color mode: color, binary (empty = tracer default)")
	addCommonFlags(fs, &f.common)
	addConversionFlags(fs, &f.conversion)

	if err := parseFlags(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string, w io.Writer) (*doctorFlags, error) {
	f := &doctorFlags{}
	fs := newFlagSet("doctor", w, printDoctorUsage)

	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	addCommonFlags(fs, &f.common)

	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string, w io.Writer) (*configFlags, error) {
	f := &configFlags{}
	fs := newFlagSet("config", w, printConfigUsage)

	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (host:port)")
	addCommonFlags(fs, &f.common)
	addConversionFlags(fs, &f.conversion)
	addLogFlags(fs, &f.log)

	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return f, nil
}

// mergeConversionFlags applies set conversion flags to cfg (CLI wins).
func mergeConversionFlags(f conversionFlags, cfg *config.Config) {
	if f.workDir != "" {
		cfg.Conversion.WorkDir = f.workDir
	}
	if f.timeout > 0 {
		cfg.Conversion.Timeout = f.timeout
	}
	if f.tracer != "" {
		cfg.Conversion.TracerBinary = f.tracer
	}
	if f.keepFiles {
		cfg.Conversion.KeepFiles = true
	}
}

// mergeLogFlags applies set log flags to cfg (CLI wins).
func mergeLogFlags(f logFlags, cfg *config.Config) {
	if f.level != "" {
		cfg.Log.Level = f.level
	}
	if f.format != "" {
		cfg.Log.Format = f.format
	}
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > vecpic.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, vecpic.MaxPoolSize)
	}
	return nil
}
