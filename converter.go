package mdmath

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mdmath/internal/assets"
	"github.com/alnah/go-mdmath/internal/fileutil"
	"github.com/alnah/go-mdmath/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkupConverter    = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.CSSInjector        = (*pipeline.CSSInjection)(nil)
	_ pipeline.MathAssetsInjector = (*pipeline.MathAssetsInjection)(nil)
	_ Surface                     = (*HTMLSurface)(nil)
	_ pdfConverter                = (*rodConverter)(nil)
)

// Converter turns mixed prose-and-math text into blocks, HTML and PDF.
// Create it with NewConverter and Close it when done. A Converter owns one
// browser and is not safe for concurrent Convert calls; use ConverterPool
// for parallel work.
type Converter struct {
	cfg          converterConfig
	assetLoader  assets.AssetLoader
	validator    pipeline.FormulaValidator
	markup       pipeline.MarkupConverter
	emitter      *pipeline.Emitter
	cssInjector  pipeline.CSSInjector
	mathInjector pipeline.MathAssetsInjector
	pdfConverter pdfConverter
}

// NewConverter creates a Converter. It fails when an option names an
// unknown validator or math engine, or when a style or asset directory
// cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:         defaultConfig(),
		assetLoader: assets.NewEmbeddedLoader(),
		cssInjector: &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(c.cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAssetPath, err)
		}
		c.assetLoader = resolver
	}

	validator, err := pipeline.NewValidator(c.cfg.validatorName)
	if err != nil {
		return nil, err
	}
	c.validator = validator

	if err := c.resolveMathEngine(); err != nil {
		return nil, err
	}
	if err := c.resolveStyle(); err != nil {
		return nil, err
	}

	c.markup = pipeline.NewGoldmarkConverter(pipeline.WithRawHTML(c.cfg.allowHTML))
	c.emitter = pipeline.NewEmitter(c.cfg.logger)

	if c.mathEnabled() {
		tmpl, err := c.assetLoader.LoadTemplate(assets.MathHeadTemplate)
		if err != nil {
			return nil, fmt.Errorf("loading math head template: %w", err)
		}
		if c.mathInjector, err = pipeline.NewMathAssetsInjection(tmpl); err != nil {
			return nil, fmt.Errorf("initializing math assets injector: %w", err)
		}
	}

	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg.timeout, c.cfg.logger)
	}

	return c, nil
}

// Blocks classifies text into an ordered sequence of text and math blocks.
// It never fails; text without content yields no blocks.
func (c *Converter) Blocks(text string) []Block {
	return pipeline.Blocks(text)
}

// Render classifies text and emits every block on s, in order. Failures on
// the surface are recorded in the Report and never stop later blocks.
func (c *Converter) Render(text string, s Surface) Report {
	return c.Emit(pipeline.Blocks(text), s)
}

// Emit renders already classified blocks on s, in order.
func (c *Converter) Emit(blocks []Block, s Surface) Report {
	return c.emitter.Emit(blocks, s)
}

// NewSurface returns an HTMLSurface bound to ctx that renders with this
// converter's markup settings and validator. Relative image and link paths
// resolve against baseDir when it is set.
func (c *Converter) NewSurface(ctx context.Context, baseDir string) *HTMLSurface {
	return newHTMLSurface(ctx, c.markup, c.validator, baseDir)
}

// Convert renders input to a complete HTML document and, unless
// input.HTMLOnly is set, prints it to PDF. Block failures do not fail the
// conversion; they are listed in the result's Report. Recovers from
// internal panics so they never reach the caller.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := input.Page.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blocks := pipeline.Blocks(input.Text)
	surface := c.NewSurface(ctx, input.BaseDir)
	report := c.Emit(blocks, surface)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlContent := pipeline.NewDocument(documentTitle(input), surface.HTML())

	cssContent := c.cfg.resolvedStyle
	if input.CSS != "" {
		cssContent += "\n" + input.CSS
	}
	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, cssContent)

	if c.mathEnabled() {
		htmlContent, err = c.mathInjector.InjectMathAssets(ctx, htmlContent, &c.cfg.mathAssets)
		if err != nil {
			return nil, fmt.Errorf("injecting math assets: %w", err)
		}
	}

	c.cfg.logger.Debug("document assembled",
		"blocks", report.Blocks,
		"retried", report.Retried,
		"fallbacks", report.Fallbacks,
		"failures", len(report.Failures),
	)

	res := &ConvertResult{HTML: []byte(htmlContent), Blocks: blocks, Report: report}
	if input.HTMLOnly {
		return res, nil
	}

	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent, &pdfOptions{
		Page:        page,
		WaitForMath: c.mathEnabled(),
	})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases the headless browser, if one was started.
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

func (c *Converter) mathEnabled() bool {
	return c.cfg.mathEngine != MathEngineNone
}

// resolveMathEngine normalizes the engine name and fills in the asset
// locations the caller left empty.
func (c *Converter) resolveMathEngine() error {
	engine := strings.ToLower(strings.TrimSpace(c.cfg.mathEngine))
	switch engine {
	case "", MathEngineKaTeX:
		c.cfg.mathEngine = MathEngineKaTeX
	case MathEngineNone:
		c.cfg.mathEngine = MathEngineNone
		return nil
	default:
		return fmt.Errorf("%w: %q (expected %s or %s)", ErrUnknownMathEngine, c.cfg.mathEngine, MathEngineKaTeX, MathEngineNone)
	}

	a := &c.cfg.mathAssets
	for _, f := range []struct {
		field    *string
		fallback string
	}{
		{&a.StylesheetURL, assets.KaTeXStylesheetURL},
		{&a.ScriptURL, assets.KaTeXScriptURL},
		{&a.AutoRenderURL, assets.KaTeXAutoRenderURL},
	} {
		if *f.field == "" {
			*f.field = f.fallback
			continue
		}
		located, err := assetURL(*f.field)
		if err != nil {
			return err
		}
		*f.field = located
	}
	return nil
}

// assetURL turns a local path into an absolute file:// URL. The document
// is printed from a temporary file, so relative paths would not resolve.
func assetURL(loc string) (string, error) {
	if fileutil.IsURL(loc) || strings.HasPrefix(loc, "file://") {
		return loc, nil
	}
	abs, err := filepath.Abs(loc)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidMathAsset, loc, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

// resolveStyle loads the style named by WithStyle: a path to a CSS file or
// an asset name. An empty input means no style.
func (c *Converter) resolveStyle() error {
	input := c.cfg.styleInput
	if input == "" {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		c.cfg.resolvedStyle = string(content)
		return nil
	}

	css, err := c.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, err)
	}
	c.cfg.resolvedStyle = css
	return nil
}

// documentTitle picks the explicit title, else the first ATX heading.
func documentTitle(input Input) string {
	if t := strings.TrimSpace(input.Title); t != "" {
		return t
	}
	for _, line := range strings.Split(input.Text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		text := strings.TrimLeft(line, "#")
		if level := len(line) - len(text); level > 6 || !strings.HasPrefix(text, " ") {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	}
	return pipeline.DefaultTitle
}
