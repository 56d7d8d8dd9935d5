package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/alnah/go-vecpic/internal/fileutil"
	"github.com/alnah/go-vecpic/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// appDirName is the directory under os.UserConfigDir searched for configs.
const appDirName = "go-vecpic"

// Log levels and formats accepted by LogConfig.
var (
	validLogLevels  = []string{"debug", "info", "warn", "error"}
	validLogFormats = []string{"json", "console"}
)

// Config holds all runtime configuration. It is built once at startup and
// passed explicitly to the components that need it.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Conversion ConversionConfig `yaml:"conversion"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig defines HTTP listener options.
type ServerConfig struct {
	Addr              string        `yaml:"addr"`              // host:port
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"` // slowloris guard
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`   // graceful drain on SIGTERM
	MaxUploadSize     string        `yaml:"maxUploadSize"`     // "32MiB", "10MB"; "0" disables
	AllowedOrigins    []string      `yaml:"allowedOrigins"`    // CORS origins
	Compress          bool          `yaml:"compress"`          // gzip responses
}

// ConversionConfig defines tracer invocation options.
type ConversionConfig struct {
	WorkDir      string        `yaml:"workDir"`      // parent of per-job staging dirs
	Timeout      time.Duration `yaml:"timeout"`      // per conversion
	TracerBinary string        `yaml:"tracerBinary"` // name on PATH or absolute path
	KeepFiles    bool          `yaml:"keepFiles"`    // keep job dirs for debugging
}

// LogConfig defines logger options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              "127.0.0.1:5000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
			MaxUploadSize:     "32MiB",
			AllowedOrigins:    []string{"*"},
			Compress:          true,
		},
		Conversion: ConversionConfig{
			WorkDir:      filepath.Join(os.TempDir(), "vecpic"),
			Timeout:      2 * time.Minute,
			TracerBinary: "vtracer",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// MaxUploadBytes parses MaxUploadSize. Zero means unlimited.
func (s ServerConfig) MaxUploadBytes() (int64, error) {
	if s.MaxUploadSize == "" || s.MaxUploadSize == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s.MaxUploadSize)
	if err != nil {
		return 0, fmt.Errorf("%w: server.maxUploadSize %q: %v", ErrInvalidConfig, s.MaxUploadSize, err)
	}
	if n > uint64(1<<62) {
		return 0, fmt.Errorf("%w: server.maxUploadSize %q is too large", ErrInvalidConfig, s.MaxUploadSize)
	}
	return int64(n), nil
}

// Validate checks that every field holds a usable value.
// Called automatically by LoadConfig, and again after env/flag overrides.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if c.Server.ReadHeaderTimeout < 0 {
		return fmt.Errorf("%w: server.readHeaderTimeout must not be negative", ErrInvalidConfig)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdownTimeout must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Server.MaxUploadBytes(); err != nil {
		return err
	}
	for i, origin := range c.Server.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			return fmt.Errorf("%w: server.allowedOrigins[%d] is empty", ErrInvalidConfig, i)
		}
	}

	if strings.TrimSpace(c.Conversion.WorkDir) == "" {
		return fmt.Errorf("%w: conversion.workDir is required", ErrInvalidConfig)
	}
	if c.Conversion.Timeout <= 0 {
		return fmt.Errorf("%w: conversion.timeout must be positive, got %v", ErrInvalidConfig, c.Conversion.Timeout)
	}
	if strings.TrimSpace(c.Conversion.TracerBinary) == "" {
		return fmt.Errorf("%w: conversion.tracerBinary is required", ErrInvalidConfig)
	}

	if !oneOf(c.Log.Level, validLogLevels) {
		return fmt.Errorf("%w: log.level %q (must be one of %s)", ErrInvalidConfig, c.Log.Level, strings.Join(validLogLevels, ", "))
	}
	if !oneOf(c.Log.Format, validLogFormats) {
		return fmt.Errorf("%w: log.format %q (must be one of %s)", ErrInvalidConfig, c.Log.Format, strings.Join(validLogFormats, ", "))
	}

	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the candidate files for a config name, in lookup order:
// current directory first, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
