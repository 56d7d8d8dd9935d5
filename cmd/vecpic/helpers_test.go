package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment and fake tracer
// ---------------------------------------------------------------------------

// testEnv returns an Environment with captured output and a fixed set of
// environment variables.
func testEnv(vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := DefaultEnv()
	env.Stdout = &stdout
	env.Stderr = &stderr
	env.Getenv = func(k string) string { return vars[k] }
	env.Environ = func() []string {
		out := make([]string, 0, len(vars))
		for k, v := range vars {
			out = append(out, k+"="+v)
		}
		sort.Strings(out)
		return out
	}
	return env, &stdout, &stderr
}

// fakeTracerScript mimics the vtracer CLI: it prints a version or writes a
// small SVG to the --output path.
const fakeTracerScript = `#!/bin/sh
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    --version) echo "vtracer 0.6.4"; exit 0 ;;
    --output) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
printf '<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><path d="M0 0h10v10H0z" fill="red"/></svg>' > "$out"
`

// failingTracerScript exits non-zero with a message on stderr.
const failingTracerScript = `#!/bin/sh
echo "decode error" >&2
exit 3
`

// writeTracer installs script as an executable and returns its path.
// Tests using it must not call t.Parallel: writing an executable while
// other goroutines fork can make exec fail with ETXTBSY.
func writeTracer(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tracer requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "vtracer")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { // #nosec G306 -- test executable
		t.Fatalf("writing fake tracer: %v", err)
	}
	return path
}

// writeImage creates a file with placeholder image bytes. The fake tracer
// never decodes it.
func writeImage(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, 0o600); err != nil {
		t.Fatal(err)
	}
}
