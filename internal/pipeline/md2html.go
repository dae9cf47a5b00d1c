package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates markup to HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// MarkupConverter turns the markup of one text block into an HTML fragment.
type MarkupConverter interface {
	ToFragment(ctx context.Context, markup string) (string, error)
}

var _ MarkupConverter = (*GoldmarkConverter)(nil)

// GoldmarkConverter converts Markdown text blocks to HTML using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// GoldmarkOption configures a GoldmarkConverter.
type GoldmarkOption func(*goldmarkConfig)

type goldmarkConfig struct {
	allowHTML bool
}

// WithRawHTML lets raw HTML in the markup through to the output.
// Off by default: producer output is not trusted.
func WithRawHTML(allow bool) GoldmarkOption {
	return func(c *goldmarkConfig) {
		c.allowHTML = allow
	}
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM, footnotes,
// syntax highlighting and inline math.
func NewGoldmarkConverter(opts ...GoldmarkOption) *GoldmarkConverter {
	var cfg goldmarkConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rendererOpts := []renderer.Option{
		html.WithHardWraps(),
		html.WithXHTML(),
	}
	if cfg.allowHTML {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			MathExtension,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &GoldmarkConverter{md: md}
}

// ToFragment converts the markup of one text block to an HTML fragment.
// Goldmark has no context support, so conversion runs in a goroutine and
// the caller stops waiting once ctx is done.
func (c *GoldmarkConverter) ToFragment(ctx context.Context, markup string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(markup), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
