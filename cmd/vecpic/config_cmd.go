package main

import (
	"fmt"

	"github.com/alnah/go-vecpic/internal/config"
	"github.com/alnah/go-vecpic/internal/fileutil"
	"github.com/alnah/go-vecpic/internal/yamlutil"
)

// defaultConfigName is looked up in SearchPaths when no config is given.
const defaultConfigName = "vecpic"

// loadConfig builds the configuration before flags are merged:
// defaults, then the config file, then VECPIC_* variables.
// The file is --config, else VECPIC_CONFIG, else the first existing
// "vecpic.yaml" in the search paths. A missing default file is not an error.
func loadConfig(common commonFlags, envCfg *envConfig) (*config.Config, error) {
	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		name = findDefaultConfig()
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	return cfg, nil
}

// findDefaultConfig returns defaultConfigName when one of its search paths
// exists, or "" so the defaults apply.
func findDefaultConfig() string {
	for _, p := range config.SearchPaths(defaultConfigName) {
		if fileutil.FileExists(p) {
			return defaultConfigName
		}
	}
	return ""
}

// runConfigCmd prints the effective configuration as YAML.
func runConfigCmd(args []string, env *Environment) error {
	flags, err := parseConfigFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	envCfg, err := loadEnvConfig(env.Getenv)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(flags.common, envCfg)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	mergeConversionFlags(flags.conversion, cfg)
	mergeLogFlags(flags.log, cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
