package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-vecpic/internal/config"
)

// ErrInvalidEnv is returned when a VECPIC_* variable holds a malformed value.
var ErrInvalidEnv = errors.New("invalid environment variable")

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
// Zero values mean "not set".
type envConfig struct {
	// Server
	ConfigPath     string   // VECPIC_CONFIG: config file name or path
	Addr           string   // VECPIC_ADDR: listen address
	MaxUploadSize  string   // VECPIC_MAX_UPLOAD_SIZE: "32MiB", "0" disables
	AllowedOrigins []string // VECPIC_ALLOWED_ORIGINS: comma-separated CORS origins
	Compress       *bool    // VECPIC_COMPRESS: gzip responses

	// Conversion
	WorkDir      string        // VECPIC_WORK_DIR: parent of job directories
	Timeout      time.Duration // VECPIC_TIMEOUT: per-conversion timeout
	TracerBinary string        // VECPIC_TRACER_BINARY: vtracer name or path
	KeepFiles    *bool         // VECPIC_KEEP_FILES: keep job directories
	Workers      int           // VECPIC_WORKERS: parallel workers for convert

	// Logging
	LogLevel  string // VECPIC_LOG_LEVEL: debug, info, warn, error
	LogFormat string // VECPIC_LOG_FORMAT: json, console
}

// knownEnvVars lists valid VECPIC_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"VECPIC_CONFIG":          true,
	"VECPIC_ADDR":            true,
	"VECPIC_MAX_UPLOAD_SIZE": true,
	"VECPIC_ALLOWED_ORIGINS": true,
	"VECPIC_COMPRESS":        true,
	"VECPIC_WORK_DIR":        true,
	"VECPIC_TIMEOUT":         true,
	"VECPIC_TRACER_BINARY":   true,
	"VECPIC_KEEP_FILES":      true,
	"VECPIC_WORKERS":         true,
	"VECPIC_LOG_LEVEL":       true,
	"VECPIC_LOG_FORMAT":      true,
	"VECPIC_CONTAINER":       true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed booleans, durations, and counts return ErrInvalidEnv.
func loadEnvConfig(getenv func(string) string) (*envConfig, error) {
	cfg := &envConfig{
		ConfigPath:    getenv("VECPIC_CONFIG"),
		Addr:          getenv("VECPIC_ADDR"),
		MaxUploadSize: getenv("VECPIC_MAX_UPLOAD_SIZE"),
		WorkDir:       getenv("VECPIC_WORK_DIR"),
		TracerBinary:  getenv("VECPIC_TRACER_BINARY"),
		LogLevel:      getenv("VECPIC_LOG_LEVEL"),
		LogFormat:     getenv("VECPIC_LOG_FORMAT"),
	}

	if origins := getenv("VECPIC_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	if cfg.Compress, err = envBool(getenv, "VECPIC_COMPRESS"); err != nil {
		return nil, err
	}
	if cfg.KeepFiles, err = envBool(getenv, "VECPIC_KEEP_FILES"); err != nil {
		return nil, err
	}

	if v := getenv("VECPIC_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: VECPIC_TIMEOUT=%q (want a positive duration like 30s or 2m)", ErrInvalidEnv, v)
		}
		cfg.Timeout = d
	}

	if v := getenv("VECPIC_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: VECPIC_WORKERS=%q (want a non-negative integer)", ErrInvalidEnv, v)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

func envBool(getenv func(string) string, name string) (*bool, error) {
	v := getenv(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q (want true or false)", ErrInvalidEnv, name, v)
	}
	return &b, nil
}

// warnUnknownEnvVars logs warnings for unrecognized VECPIC_* variables.
// Helps catch typos like VECPIC_WORKDIR instead of VECPIC_WORK_DIR.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, "VECPIC_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies set environment variables on top of the config
// file values. Flags are merged afterwards, so the precedence is:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.MaxUploadSize != "" {
		cfg.Server.MaxUploadSize = env.MaxUploadSize
	}
	if len(env.AllowedOrigins) > 0 {
		cfg.Server.AllowedOrigins = env.AllowedOrigins
	}
	if env.Compress != nil {
		cfg.Server.Compress = *env.Compress
	}

	if env.WorkDir != "" {
		cfg.Conversion.WorkDir = env.WorkDir
	}
	if env.Timeout > 0 {
		cfg.Conversion.Timeout = env.Timeout
	}
	if env.TracerBinary != "" {
		cfg.Conversion.TracerBinary = env.TracerBinary
	}
	if env.KeepFiles != nil {
		cfg.Conversion.KeepFiles = *env.KeepFiles
	}

	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
	if env.LogFormat != "" {
		cfg.Log.Format = env.LogFormat
	}
}
