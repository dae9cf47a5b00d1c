package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMathInline is the node kind of an inline formula.
var KindMathInline = ast.NewNodeKind("MathInline")

// MathInline is an inline formula found inside a text block.
type MathInline struct {
	ast.BaseInline
	Formula []byte
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind {
	return KindMathInline
}

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Formula": string(n.Formula)}, nil)
}

// mathInlineParser recognises $...$ and \(...\) on a single line.
// Parsing formulas before emphasis keeps _ and * inside them literal.
type mathInlineParser struct{}

var _ parser.InlineParser = (*mathInlineParser)(nil)

func (p *mathInlineParser) Trigger() []byte {
	return []byte{'$', '\\'}
}

func (p *mathInlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()

	var open, closing []byte
	switch {
	case len(line) > 1 && line[0] == '$' && line[1] != '$':
		open, closing = []byte("$"), []byte("$")
	case len(line) > 1 && line[0] == '\\' && line[1] == '(':
		open, closing = []byte(`\(`), []byte(`\)`)
	default:
		return nil
	}

	body := line[len(open):]
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 {
		body = body[:nl]
	}

	end := indexCloser(body, closing)
	if end < 0 {
		return nil
	}
	formula := bytes.TrimSpace(body[:end])
	if len(formula) == 0 {
		return nil
	}

	block.Advance(len(open) + end + len(closing))
	return &MathInline{Formula: append([]byte(nil), formula...)}
}

// indexCloser returns the offset of the first closing delimiter in body,
// skipping dollars escaped with a backslash.
func indexCloser(body, closing []byte) int {
	if closing[0] != '$' {
		return bytes.Index(body, closing)
	}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '$':
			return i
		}
	}
	return -1
}

// mathInlineRenderer writes inline formulas as \(...\) spans for the
// client-side math engine.
type mathInlineRenderer struct{}

var _ renderer.NodeRenderer = (*mathInlineRenderer)(nil)

func (r *mathInlineRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMathInline, r.renderMathInline)
}

func (r *mathInlineRenderer) renderMathInline(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	node := n.(*MathInline)
	_, _ = w.WriteString(`<span class="math math-inline">\(`)
	_, _ = w.Write(util.EscapeHTML(node.Formula))
	_, _ = w.WriteString(`\)</span>`)
	return ast.WalkSkipChildren, nil
}

type mathExtension struct{}

// MathExtension teaches goldmark the inline formula syntax of text blocks.
var MathExtension goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathInlineParser{}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathInlineRenderer{}, 500),
	))
}
