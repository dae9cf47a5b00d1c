package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/hints"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // MDMATH_CONFIG: config file name or path
	Style      string        // MDMATH_STYLE: CSS style name or path
	Timeout    time.Duration // MDMATH_TIMEOUT: PDF export timeout
	Workers    int           // MDMATH_WORKERS: parallel workers
	OutputDir  string        // MDMATH_OUTPUT_DIR: default output directory
	Validator  string        // MDMATH_VALIDATOR: balanced, strict, none
	MathEngine string        // MDMATH_MATH_ENGINE: katex, none
	PageSize   string        // MDMATH_PAGE_SIZE: letter, a4, legal
	Assets     string        // MDMATH_ASSETS: custom asset directory
	Addr       string        // MDMATH_ADDR: preview server address
}

// knownEnvVars lists valid MDMATH_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MDMATH_CONFIG":      true,
	"MDMATH_STYLE":       true,
	"MDMATH_TIMEOUT":     true,
	"MDMATH_WORKERS":     true,
	"MDMATH_OUTPUT_DIR":  true,
	"MDMATH_VALIDATOR":   true,
	"MDMATH_MATH_ENGINE": true,
	"MDMATH_PAGE_SIZE":   true,
	"MDMATH_ASSETS":      true,
	"MDMATH_ADDR":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparseable durations and counts are ignored.
func loadEnvConfig(env *Environment) *envConfig {
	cfg := &envConfig{
		ConfigPath: env.Getenv("MDMATH_CONFIG"),
		Style:      env.Getenv("MDMATH_STYLE"),
		OutputDir:  env.Getenv("MDMATH_OUTPUT_DIR"),
		Validator:  env.Getenv("MDMATH_VALIDATOR"),
		MathEngine: env.Getenv("MDMATH_MATH_ENGINE"),
		PageSize:   env.Getenv("MDMATH_PAGE_SIZE"),
		Assets:     env.Getenv("MDMATH_ASSETS"),
		Addr:       env.Getenv("MDMATH_ADDR"),
	}

	if timeout := env.Getenv("MDMATH_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := env.Getenv("MDMATH_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars prints a warning for each unrecognized MDMATH_*
// variable, to catch typos like MDMATH_VALIDATER.
func warnUnknownEnvVars(env *Environment) {
	if env.Environ == nil {
		return
	}
	for _, kv := range env.Environ() {
		if !strings.HasPrefix(kv, "MDMATH_") {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays environment values on cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards).
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	if e.Style != "" {
		cfg.CSS.Style = e.Style
	}
	if e.OutputDir != "" {
		cfg.Output.DefaultDir = e.OutputDir
	}
	if e.Validator != "" {
		cfg.Math.Validator = e.Validator
	}
	if e.MathEngine != "" {
		cfg.Math.Engine = e.MathEngine
	}
	if e.PageSize != "" {
		cfg.Page.Size = e.PageSize
	}
	if e.Assets != "" {
		cfg.Assets.BasePath = e.Assets
	}
	if e.Addr != "" {
		cfg.Server.Addr = e.Addr
	}
}

// loadConfig loads the named config file, or the defaults when neither
// the flag nor MDMATH_CONFIG names one, then applies the environment.
func loadConfig(flagName string, e *envConfig) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = e.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		if cfg, err = config.LoadConfig(name); err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(e, cfg)
	return cfg, nil
}

// resolveTimeout picks the flag value, then MDMATH_TIMEOUT, then the
// library default (zero).
func resolveTimeout(flagValue string, e *envConfig) (time.Duration, error) {
	if flagValue == "" {
		return e.Timeout, nil
	}
	d, err := time.ParseDuration(flagValue)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flagValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, flagValue)
	}
	return d, nil
}
