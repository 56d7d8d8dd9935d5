package main

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/config"
	"github.com/alnah/go-vecpic/internal/logging"
	"github.com/alnah/go-vecpic/internal/server"
)

// runServe starts the HTTP service and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveServeConfig(flags, env)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	conv, err := vecpic.NewConverter(converterOptions(cfg, log)...)
	if err != nil {
		return err
	}

	// A missing tracer is reported but not fatal: the health check stays up
	// and conversions fail with 500 until vtracer is installed.
	if path, err := vecpic.LookupTracer(cfg.Conversion.TracerBinary); err != nil {
		log.Warn("tracer not found",
			zap.String("tracer", cfg.Conversion.TracerBinary),
			zap.Error(err))
	} else {
		log.Info("tracer found", zap.String("path", path))
	}

	srv, err := server.New(cfg.Server, conv, log)
	if err != nil {
		return err
	}

	log.Info("starting",
		zap.String("version", Version),
		zap.Int("gomaxprocs", runtime.GOMAXPROCS(0)),
		zap.String("work_dir", conv.WorkDir()),
		zap.Duration("timeout", cfg.Conversion.Timeout))

	return srv.Run(ctx)
}

// resolveServeConfig merges defaults, config file, env, and flags.
func resolveServeConfig(flags *serveFlags, env *Environment) (*config.Config, error) {
	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return nil, err
	}

	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.maxUpload != "" {
		cfg.Server.MaxUploadSize = flags.maxUpload
	}
	mergeConversionFlags(flags.conversion, cfg)
	mergeLogFlags(flags.log, cfg)
	if flags.common.verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// converterOptions maps the conversion config to converter options.
func converterOptions(cfg *config.Config, log *zap.Logger) []vecpic.Option {
	return []vecpic.Option{
		vecpic.WithWorkDir(cfg.Conversion.WorkDir),
		vecpic.WithTimeout(cfg.Conversion.Timeout),
		vecpic.WithTracerBinary(cfg.Conversion.TracerBinary),
		vecpic.WithKeepFiles(cfg.Conversion.KeepFiles),
		vecpic.WithLogger(log),
	}
}
