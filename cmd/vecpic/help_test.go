package main

// Notes:
// - runHelp: we test routing to the correct help topic and the exit code
//   for unknown topics. Usage text content is checked loosely.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Help routing
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitSuccess, "Usage: vecpic [command]", ""},
		{"serve", []string{"serve"}, ExitSuccess, "Usage: vecpic serve", ""},
		{"convert", []string{"convert"}, ExitSuccess, "Usage: vecpic convert", ""},
		{"doctor", []string{"doctor"}, ExitSuccess, "Usage: vecpic doctor", ""},
		{"config", []string{"config"}, ExitSuccess, "Usage: vecpic config", ""},
		{"version", []string{"version"}, ExitSuccess, "Usage: vecpic version", ""},
		{"help", []string{"help"}, ExitSuccess, "Usage: vecpic help", ""},
		{"unknown", []string{"trace"}, ExitUsage, "", "Unknown command: trace"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv(nil)
			code := runHelp(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runHelp(%v) = %d, want %d", tt.args, code, tt.wantCode)
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestPrintServeUsage_ListsFlags(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(nil)
	runHelp([]string{"serve"}, env)

	for _, flag := range []string{"--addr", "--max-upload", "--timeout", "--tracer", "--work-dir", "--log-level", "--config"} {
		if !strings.Contains(stdout.String(), flag) {
			t.Errorf("serve usage missing %s", flag)
		}
	}
}
