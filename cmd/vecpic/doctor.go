package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/goccy/go-json"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/config"
	"github.com/alnah/go-vecpic/internal/fileutil"
	"github.com/alnah/go-vecpic/internal/hints"
)

// versionTimeout bounds "vtracer --version".
const versionTimeout = 10 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Tracer   tracerInfo `json:"tracer"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// tracerInfo holds vtracer detection results.
type tracerInfo struct {
	Binary  string `json:"binary"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
}

// systemInfo holds system check results.
type systemInfo struct {
	WorkDir         string `json:"work_dir"`
	WorkDirWritable bool   `json:"work_dir_writable"`
	GOMAXPROCS      int    `json:"gomaxprocs"`
	PoolSize        int    `json:"pool_size"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags or config.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, err := parseDoctorFlags(args, env.Stderr)
	if err != nil {
		return exitWith(env, err)
	}

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return exitWith(env, err)
	}
	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return exitWith(env, err)
	}

	result := runDoctor(ctx, cfg, env.Getenv)

	if flags.json {
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return exitWith(env, fmt.Errorf("encoding result: %w", err))
		}
		fmt.Fprintln(env.Stdout, string(out))
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, cfg *config.Config, getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkTracer(ctx, result, cfg.Conversion.TracerBinary)
	checkEnvironment(result, getenv)
	checkSystem(result, cfg.Conversion.WorkDir)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkTracer locates vtracer and reads its version.
func checkTracer(ctx context.Context, result *doctorResult, binary string) {
	result.Tracer.Binary = binary

	path, err := vecpic.LookupTracer(binary)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("vtracer not found (%s). Install it with 'cargo install vtracer' or set VECPIC_TRACER_BINARY", binary))
		return
	}
	result.Tracer.Found = true
	result.Tracer.Path = path

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	version, err := vecpic.TracerVersion(ctx, path)
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get vtracer version: %v", err))
	case version == "":
		result.Warnings = append(result.Warnings, "vtracer printed no version")
	default:
		result.Tracer.Version = version
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	// Explicit override (highest priority)
	if getenv("VECPIC_CONTAINER") == "1" {
		return true, "VECPIC_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the work directory and reports parallelism.
func checkSystem(result *doctorResult, workDir string) {
	result.System.WorkDir = workDir
	result.System.GOMAXPROCS = runtime.GOMAXPROCS(0)
	result.System.PoolSize = vecpic.ResolvePoolSize(0)

	if err := fileutil.EnsureWritableDir(workDir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Work directory not writable: %s (%v)", workDir, err))
		return
	}
	result.System.WorkDirWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "vecpic doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Tracer")
	if r.Tracer.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Tracer.Path)
		if r.Tracer.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Tracer.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] Not found: %s\n", r.Tracer.Binary)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.WorkDirWritable {
		fmt.Fprintf(w, "  [OK] Work directory: %s (writable)\n", r.System.WorkDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Work directory: %s (not writable)\n", r.System.WorkDir)
	}
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d (convert workers: %d)\n", r.System.GOMAXPROCS, r.System.PoolSize)
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
