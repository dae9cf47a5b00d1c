package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-mdmath"
	"github.com/alnah/go-mdmath/internal/config"
	"github.com/alnah/go-mdmath/internal/hints"
)

// Output extensions.
const (
	extPDF  = "pdf"
	extHTML = "html"
)

// renderParams groups the per-file settings shared by a batch.
type renderParams struct {
	title    string
	css      string
	page     *mdmath.PageSettings
	htmlOnly bool
	sidecar  bool // write HTML next to the PDF
	stdin    io.Reader
	stdout   io.Writer
}

// runRenderCmd parses flags, builds a converter pool and renders every
// input.
func runRenderCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env)
	if err != nil {
		return err
	}

	envCfg := loadEnvConfig(env)
	cfg, err := loadConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}
	mergeRenderFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.timeout, envCfg)
	if err != nil {
		return err
	}
	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	params, err := buildRenderParams(flags, cfg, env)
	if err != nil {
		return err
	}

	ext := extPDF
	if params.htmlOnly {
		ext = extHTML
	}
	output := flags.output.path
	if output == "" {
		output = cfg.Output.DefaultDir
	}
	jobs, err := discoverJobs(positional, output, ext)
	if err != nil {
		return err
	}
	if params.sidecar && len(jobs) == 1 && jobs[0].OutputPath == "" {
		return fmt.Errorf("%w: --html needs --output when reading stdin", ErrUsage)
	}

	logger := newLogger(env.Stderr, flags.common, false)
	size := min(mdmath.ResolvePoolSize(workers), len(jobs))
	logger.Debug("rendering", "files", len(jobs), "workers", size)

	converters := mdmath.NewConverterPool(size, converterOptions(cfg, timeout, logger)...)
	defer func() { _ = converters.Close() }()
	pool := &poolAdapter{pool: converters}

	// Surface option errors once instead of once per file.
	first, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	pool.Release(first)

	results := convertBatch(ctx, pool, jobs, params)
	return summarize(results, flags.common, env)
}

// mergeRenderFlags merges CLI flags into config. CLI values override config values.
func mergeRenderFlags(f *renderFlags, cfg *config.Config) {
	if f.math.engine != "" {
		cfg.Math.Engine = f.math.engine
	}
	if f.math.validator != "" {
		cfg.Math.Validator = f.math.validator
	}
	if f.style != "" {
		cfg.CSS.Style = f.style
	}
	if f.noStyle {
		cfg.CSS.Style = ""
	}
	if f.assets != "" {
		cfg.Assets.BasePath = f.assets
	}
	if f.allowHTML {
		cfg.Markup.AllowHTML = true
	}
	if f.page.size != "" {
		cfg.Page.Size = f.page.size
	}
	if f.page.orientation != "" {
		cfg.Page.Orientation = f.page.orientation
	}
	if f.page.margin != 0 {
		cfg.Page.Margin = f.page.margin
	}
}

// buildRenderParams resolves the settings shared by every file.
func buildRenderParams(f *renderFlags, cfg *config.Config, env *Environment) (*renderParams, error) {
	params := &renderParams{
		title:    f.title,
		htmlOnly: f.output.htmlOnly,
		sidecar:  f.output.html && !f.output.htmlOnly,
		stdin:    env.Stdin,
		stdout:   env.Stdout,
		page: &mdmath.PageSettings{
			Size:        cfg.Page.Size,
			Orientation: cfg.Page.Orientation,
			Margin:      cfg.Page.Margin,
		},
	}
	if err := params.page.Validate(); err != nil {
		return nil, err
	}

	if f.css != "" {
		content, err := os.ReadFile(f.css) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSS: %w", ErrReadInput, err)
		}
		params.css = string(content)
	}
	return params, nil
}

// converterOptions maps the resolved configuration to converter options.
func converterOptions(cfg *config.Config, timeout time.Duration, logger *slog.Logger) []mdmath.Option {
	opts := []mdmath.Option{
		mdmath.WithLogger(logger),
		mdmath.WithValidator(cfg.Math.Validator),
		mdmath.WithMathEngine(cfg.Math.Engine),
		mdmath.WithStyle(cfg.CSS.Style),
		mdmath.WithAllowHTML(cfg.Markup.AllowHTML),
		mdmath.WithMathAssets(mdmath.MathAssets{
			StylesheetURL: cfg.Math.KaTeXCSS,
			ScriptURL:     cfg.Math.KaTeXJS,
			AutoRenderURL: cfg.Math.KaTeXAutoRender,
		}),
	}
	if cfg.Assets.BasePath != "" {
		opts = append(opts, mdmath.WithAssetPath(cfg.Assets.BasePath))
	}
	if timeout > 0 {
		opts = append(opts, mdmath.WithTimeout(timeout))
	}
	return opts
}

// summarize prints per-file outcomes and returns an error wrapping the
// first failure, so the exit code reflects its cause.
func summarize(results []ConversionResult, flags commonFlags, env *Environment) error {
	var (
		failed   int
		firstErr error
	)

	for _, r := range results {
		if r.Err != nil {
			failed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", displayName(r.InputPath), r.Err)
			continue
		}

		if n := len(r.Report.Failures); n > 0 && !flags.quiet {
			fmt.Fprintf(env.Stderr, "WARN %s: %d block render failure(s), %d formula(s) shown as code%s\n",
				displayName(r.InputPath), n, r.Report.Fallbacks, hints.ForRenderFailures())
		}

		if flags.quiet || r.OutputPath == "" {
			continue
		}
		if flags.verbose {
			fmt.Fprintf(env.Stderr, "%s -> %s (%v)\n", displayName(r.InputPath), r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stderr, "Created %s\n", r.OutputPath)
		}
	}

	if !flags.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stderr, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}

	switch {
	case failed == 0:
		return nil
	case len(results) == 1:
		return firstErr
	default:
		return fmt.Errorf("%d of %d conversion(s) failed: %w", failed, len(results), firstErr)
	}
}

func displayName(path string) string {
	if path == stdinName {
		return "<stdin>"
	}
	return path
}

// baseDir returns the directory relative references in path resolve
// against; stdin uses the working directory.
func baseDir(path string) string {
	if path == stdinName {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Dir(path)
	}
	return filepath.Dir(abs)
}
