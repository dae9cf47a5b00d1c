package mdmath

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds the settings collected from options.
type converterConfig struct {
	timeout       time.Duration
	logger        *slog.Logger
	validatorName string
	styleInput    string
	resolvedStyle string
	mathEngine    string
	mathAssets    MathAssets
	allowHTML     bool
	assetPath     string
}

// defaultTimeout bounds PDF export when the context has no deadline.
const defaultTimeout = 30 * time.Second

func defaultConfig() converterConfig {
	return converterConfig{
		timeout:    defaultTimeout,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		styleInput: "default",
		mathEngine: MathEngineKaTeX,
	}
}

// WithTimeout sets the PDF export timeout.
// Panics if d <= 0, like time.NewTicker.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdmath: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger routes recovered block failures and export progress to
// logger. A nil logger keeps the discarding default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.cfg.logger = logger
		}
	}
}

// WithValidator selects the formula validator by name: "balanced"
// (default), "strict" or "none".
func WithValidator(name string) Option {
	return func(c *Converter) {
		c.cfg.validatorName = name
	}
}

// WithStyle selects the document CSS: a built-in or custom asset name,
// a path to a .css file, or "" for no style.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = nameOrPath
	}
}

// WithMathEngine selects the client-side math engine: "katex" (default)
// or "none", which leaves formulas as \(...\) and \[...\] text.
func WithMathEngine(engine string) Option {
	return func(c *Converter) {
		c.cfg.mathEngine = engine
	}
}

// WithMathAssets overrides where the math engine is loaded from. Empty
// fields keep the built-in CDN locations; local paths are allowed.
func WithMathAssets(a MathAssets) Option {
	return func(c *Converter) {
		c.cfg.mathAssets = a
	}
}

// WithAllowHTML passes raw HTML in text blocks through unescaped.
func WithAllowHTML(allow bool) Option {
	return func(c *Converter) {
		c.cfg.allowHTML = allow
	}
}

// WithAssetPath sets a directory whose styles/ and templates/ override the
// built-in assets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}
