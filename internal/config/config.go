// Package config loads and validates the YAML configuration shared by the
// mdmath CLI and its preview server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/pipeline"
	"github.com/alnah/go-mdmath/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength   = 2048
	MaxPathLength  = 4096
	MaxStyleLength = 255
	MaxAddrLength  = 255
	MaxEnumLength  = 16
)

// Math engines.
const (
	EngineKaTeX = "katex"
	EngineNone  = "none"
)

// Default KaTeX distribution.
const (
	DefaultKaTeXCSS        = assets.KaTeXStylesheetURL
	DefaultKaTeXJS         = assets.KaTeXScriptURL
	DefaultKaTeXAutoRender = assets.KaTeXAutoRenderURL
)

// Server defaults.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultMaxBodyBytes = 1 << 20
	maxServerBodyBytes  = 64 << 20
)

// Page bounds, in inches.
const (
	MinMargin     = 0.25
	DefaultMargin = 0.5
	MaxMargin     = 3.0
)

// Config holds every configurable setting.
type Config struct {
	Math   MathConfig   `yaml:"math"`
	Markup MarkupConfig `yaml:"markup"`
	CSS    CSSConfig    `yaml:"css"`
	Page   PageConfig   `yaml:"page"`
	Output OutputConfig `yaml:"output"`
	Server ServerConfig `yaml:"server"`
	Assets AssetsConfig `yaml:"assets"`
}

// MathConfig selects how formulas are checked and typeset.
type MathConfig struct {
	Engine          string `yaml:"engine"`    // "katex" or "none"
	Validator       string `yaml:"validator"` // "balanced", "strict" or "none"
	KaTeXCSS        string `yaml:"katexCSS"`
	KaTeXJS         string `yaml:"katexJS"`
	KaTeXAutoRender string `yaml:"katexAutoRender"`
}

// MarkupConfig controls prose rendering.
type MarkupConfig struct {
	AllowHTML bool `yaml:"allowHTML"` // pass raw HTML in the input through
}

// CSSConfig selects the document style.
type CSSConfig struct {
	Style string `yaml:"style"` // asset name or path to a .css file
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4" or "legal"
	Orientation string  `yaml:"orientation"` // "portrait" or "landscape"
	Margin      float64 `yaml:"margin"`      // inches
}

// OutputConfig defines where rendered files go.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty writes next to the input
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
}

// AssetsConfig points at a directory overriding the embedded assets.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty uses the embedded assets only
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Math: MathConfig{
			Engine:          EngineKaTeX,
			Validator:       pipeline.ValidatorBalanced,
			KaTeXCSS:        DefaultKaTeXCSS,
			KaTeXJS:         DefaultKaTeXJS,
			KaTeXAutoRender: DefaultKaTeXAutoRender,
		},
		CSS:  CSSConfig{Style: "default"},
		Page: PageConfig{Size: "letter", Orientation: "portrait", Margin: DefaultMargin},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// Validate checks enums, ranges and field lengths. LoadConfig calls it;
// callers building a Config by hand should too.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Math.Engine) {
	case "", EngineKaTeX, EngineNone:
	default:
		return fmt.Errorf("%w: math.engine %q (must be %s or %s)", ErrInvalidValue, c.Math.Engine, EngineKaTeX, EngineNone)
	}
	if _, err := pipeline.NewValidator(c.Math.Validator); err != nil {
		return fmt.Errorf("%w: math.validator: %v", ErrInvalidValue, err)
	}
	for _, f := range []struct{ field, value string }{
		{"math.katexCSS", c.Math.KaTeXCSS},
		{"math.katexJS", c.Math.KaTeXJS},
		{"math.katexAutoRender", c.Math.KaTeXAutoRender},
	} {
		field, value := f.field, f.value
		if err := validateFieldLength(field, value, MaxURLLength); err != nil {
			return err
		}
		if value != "" && !fileutil.IsURL(value) && !fileutil.IsFilePath(value) {
			return fmt.Errorf("%w: %s %q (must be an http(s) URL or a path)", ErrInvalidValue, field, value)
		}
	}

	if err := validateFieldLength("css.style", c.CSS.Style, MaxStyleLength); err != nil {
		return err
	}

	if err := c.Page.validate(); err != nil {
		return err
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("assets.basePath", c.Assets.BasePath, MaxPathLength); err != nil {
		return err
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes < 0 || c.Server.MaxBodyBytes > maxServerBodyBytes {
		return fmt.Errorf("%w: server.maxBodyBytes must be between 0 and %d, got %d",
			ErrInvalidValue, maxServerBodyBytes, c.Server.MaxBodyBytes)
	}

	return nil
}

func (p PageConfig) validate() error {
	if err := validateFieldLength("page.size", p.Size, MaxEnumLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", p.Orientation, MaxEnumLength); err != nil {
		return err
	}
	switch strings.ToLower(p.Size) {
	case "", "letter", "a4", "legal":
	default:
		return fmt.Errorf("%w: page.size %q (must be letter, a4 or legal)", ErrInvalidValue, p.Size)
	}
	switch strings.ToLower(p.Orientation) {
	case "", "portrait", "landscape":
	default:
		return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidValue, p.Orientation)
	}
	if p.Margin != 0 && (p.Margin < MinMargin || p.Margin > MaxMargin) {
		return fmt.Errorf("%w: page.margin must be between %.2f and %.2f inches, got %.2f",
			ErrInvalidValue, MinMargin, MaxMargin, p.Margin)
	}
	return nil
}

// MathEnabled reports whether formulas are typeset in the browser.
func (c *Config) MathEnabled() bool {
	return !strings.EqualFold(c.Math.Engine, EngineNone)
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads a configuration by file path or by name. A value
// containing a path separator is read as-is; a bare name is looked up
// with SearchPaths. Fields the file omits keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if path, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists, in lookup order, the files tried for a config name:
// the current directory first, then the user config directory, each with
// .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, 2*len(extensions))

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, "go-mdmath", name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
