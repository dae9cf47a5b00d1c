package main

import (
	"context"
	"time"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/server"
)

// runServeCmd starts the preview server and blocks until ctx is done.
func runServeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args, env)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig(env)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.common, true)
	pool := mdmath.NewConverterPool(mdmath.ResolvePoolSize(workers), converterOptions(cfg, 0, logger)...)
	defer func() { _ = pool.Close() }()

	// Surface option errors before listening.
	first, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	pool.Release(first)

	srv := server.New(pool, server.Options{
		Addr:         cfg.Server.Addr,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Logger:       logger,
	})
	logger.Info("listening", "addr", srv.Addr(), "workers", pool.Size())
	start := time.Now()
	err = srv.Run(ctx)
	logger.Info("stopped", "uptime", time.Since(start).Round(time.Second))
	return err
}

// mergeServeFlags merges serve flags into config. CLI values override config values.
func mergeServeFlags(f *serveFlags, cfg *config.Config) {
	if f.math.engine != "" {
		cfg.Math.Engine = f.math.engine
	}
	if f.math.validator != "" {
		cfg.Math.Validator = f.math.validator
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.maxBodyBytes != 0 {
		cfg.Server.MaxBodyBytes = f.maxBodyBytes
	}
	if f.style != "" {
		cfg.CSS.Style = f.style
	}
	if f.assets != "" {
		cfg.Assets.BasePath = f.assets
	}
	if f.allowHTML {
		cfg.Markup.AllowHTML = true
	}
}
