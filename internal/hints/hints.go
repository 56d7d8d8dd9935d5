// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-vecpic/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForTracerNotFound returns hints for a missing vtracer binary.
func ForTracerNotFound() string {
	var hints []string

	if IsInContainer() {
		hints = append(hints, "add vtracer to the container image")
	} else {
		hints = append(hints, "install vtracer with 'cargo install vtracer'")
	}

	if os.Getenv("VECPIC_TRACER_BINARY") == "" {
		hints = append(hints, "set VECPIC_TRACER_BINARY to use a custom path")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow conversions.
func ForTimeout() string {
	return format("for large or detailed images, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-vecpic/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-vecpic") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForWorkDir returns hints for work directory errors.
func ForWorkDir() string {
	return format("check the work directory is writable or set VECPIC_WORK_DIR")
}

// ForInvalidFileType returns hints for rejected input extensions.
func ForInvalidFileType(allowed []string) string {
	if len(allowed) == 0 {
		return ""
	}
	return format("supported extensions (case-sensitive): " + strings.Join(allowed, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
