package mdmath

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/alnah/go-mdmath/internal/pipeline"
)

// HTMLSurface renders blocks into an HTML fragment. Markup goes through
// goldmark with inline math support; display formulas are validated and
// written as \[...\] elements for the client-side math engine.
//
// A surface is bound to the context it was created with: once that context
// is done, every call fails with its error. It is not safe for concurrent
// use; create one per invocation with Converter.NewSurface.
type HTMLSurface struct {
	ctx       context.Context
	markup    pipeline.MarkupConverter
	validator pipeline.FormulaValidator
	baseDir   string
	buf       strings.Builder
}

func newHTMLSurface(ctx context.Context, markup pipeline.MarkupConverter, validator pipeline.FormulaValidator, baseDir string) *HTMLSurface {
	return &HTMLSurface{
		ctx:       ctx,
		markup:    markup,
		validator: validator,
		baseDir:   baseDir,
	}
}

// RenderMarkup converts markup to HTML and appends it.
func (s *HTMLSurface) RenderMarkup(markup string) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	fragment, err := s.markup.ToFragment(s.ctx, markup)
	if err != nil {
		return err
	}
	if s.baseDir != "" {
		if fragment, err = pipeline.ResolveLocalPaths(fragment, s.baseDir); err != nil {
			return fmt.Errorf("%w: resolving local paths: %v", ErrHTMLConversion, err)
		}
	}

	s.buf.WriteString(fragment)
	if !strings.HasSuffix(fragment, "\n") {
		s.buf.WriteByte('\n')
	}
	return nil
}

// RenderMath validates formula and appends it as a display element.
// A rejected formula leaves the fragment untouched.
func (s *HTMLSurface) RenderMath(formula string) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if err := s.validator.Validate(formula); err != nil {
		return err
	}

	s.buf.WriteString(`<div class="math math-display">\[`)
	s.buf.WriteString(html.EscapeString(formula))
	s.buf.WriteString("\\]</div>\n")
	return nil
}

// HTML returns the fragment rendered so far.
func (s *HTMLSurface) HTML() string {
	return s.buf.String()
}

// Reset discards the rendered fragment.
func (s *HTMLSurface) Reset() {
	s.buf.Reset()
}
