package main

import (
	"errors"
	"os"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/config"
	"github.com/alnah/go-vecpic/internal/hints"
	"github.com/alnah/go-vecpic/internal/logging"
)

// Exit codes for the vecpic CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, environment, or input file
	ExitIO      = 3 // File not found, permission denied, work dir unusable
	ExitTracer  = 4 // vtracer missing, failed, timed out, or produced bad output
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Tracer errors (exit 4)
	if errors.Is(err, vecpic.ErrTracerNotFound) ||
		errors.Is(err, vecpic.ErrTraceFailed) ||
		errors.Is(err, vecpic.ErrTraceTimeout) ||
		errors.Is(err, vecpic.ErrEmptyOutput) ||
		errors.Is(err, vecpic.ErrInvalidSVG) {
		return ExitTracer
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, logging.ErrUnknownFormat) ||
		errors.Is(err, vecpic.ErrEmptyFilename) ||
		errors.Is(err, vecpic.ErrInvalidFileType) ||
		errors.Is(err, vecpic.ErrEmptyImage) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidEnv) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrOutputCollision) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, vecpic.ErrWorkDir) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadImage) ||
		errors.Is(err, ErrWriteSVG) {
		return ExitIO
	}

	return ExitGeneral
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, vecpic.ErrTracerNotFound):
		return hints.ForTracerNotFound()
	case errors.Is(err, vecpic.ErrTraceTimeout):
		return hints.ForTimeout()
	case errors.Is(err, vecpic.ErrWorkDir):
		return hints.ForWorkDir()
	case errors.Is(err, vecpic.ErrInvalidFileType):
		return hints.ForInvalidFileType(vecpic.AllowedExtensions)
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	}
	return ""
}
