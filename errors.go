package vecpic

import "errors"

// Sentinel errors for library operations.
var (
	// Input validation errors.
	ErrEmptyFilename   = errors.New("filename cannot be empty")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrEmptyImage      = errors.New("image content cannot be empty")

	// Environment errors.
	ErrWorkDir        = errors.New("work directory unavailable")
	ErrTracerNotFound = errors.New("tracer binary not found")

	// Tracing errors.
	ErrTraceFailed  = errors.New("tracing failed")
	ErrTraceTimeout = errors.New("tracing timed out")
	ErrEmptyOutput  = errors.New("tracer produced no output")
	ErrInvalidSVG   = errors.New("tracer output is not a well-formed SVG document")

	// Pool errors.
	ErrPoolClosed = errors.New("converter pool is closed")
)
