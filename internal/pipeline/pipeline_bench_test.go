//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// generateMixedText builds n sections of prose with inline and display math
// in every dialect.
func generateMixedText(n int) string {
	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "## Step %d\n\n", i+1)
		fmt.Fprintf(&sb, "Let $x_%d = \\frac{a}{b}$ and \\(y_%d^2 \\ge 0\\).\n\n", i, i)
		fmt.Fprintf(&sb, "$$\n\\sum_{k=0}^{%d} k = \\frac{%d(%d+1)}{2}\n$$\n\n", i, i, i)
		fmt.Fprintf(&sb, "\\[ \\int_0^{%d} t\\,dt \\]\n\n", i)
		sb.WriteString("<div> </div><br>Costs \\$5, not math.\n\n")
	}
	return sb.String()
}

// BenchmarkBlocks measures the full classification pipeline.
func BenchmarkBlocks(b *testing.B) {
	for _, size := range []int{1, 10, 100, 1000} {
		text := generateMixedText(size)
		b.Run(fmt.Sprintf("sections_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for b.Loop() {
				_ = Blocks(text)
			}
		})
	}
}

// BenchmarkScan isolates delimiter scanning, the only stage that looks at
// every byte more than once.
func BenchmarkScan(b *testing.B) {
	text := Normalize(generateMixedText(100))
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for b.Loop() {
		_ = Resolve(Scan(text))
	}
}

// BenchmarkEmit measures emitting blocks through the goldmark converter.
func BenchmarkEmit(b *testing.B) {
	conv := NewGoldmarkConverter()
	blocks := Blocks(generateMixedText(20))
	emitter := NewEmitter(nil)

	b.ReportAllocs()
	for b.Loop() {
		emitter.Emit(blocks, &fragmentSurface{conv: conv})
	}
}

// fragmentSurface renders markup with conv and validates math with the
// balanced validator.
type fragmentSurface struct {
	conv *GoldmarkConverter
	buf  strings.Builder
}

func (s *fragmentSurface) RenderMarkup(markup string) error {
	html, err := s.conv.ToFragment(context.Background(), markup)
	if err != nil {
		return err
	}
	s.buf.WriteString(html)
	return nil
}

func (s *fragmentSurface) RenderMath(formula string) error {
	if err := (BalancedValidator{}).Validate(formula); err != nil {
		return err
	}
	s.buf.WriteString(formula)
	return nil
}
