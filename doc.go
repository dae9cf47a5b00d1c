// Package mdmath renders free-form text mixing prose and LaTeX math to
// HTML and PDF.
//
// Producers of such text (people, OCR, language models) mix four math
// dialects: $...$ and \(...\) inline, $$...$$ and \[...\] display. mdmath
// splits the text into an ordered sequence of blocks, each either prose
// Markdown (with inline math kept in place) or a single display formula,
// and hands every block to a rendering Surface. A block that fails to
// render never stops the ones after it.
//
// # Quick Start
//
//	conv, err := mdmath.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mdmath.Input{
//	    Text: "The roots are $$x = \\frac{-b \\pm \\sqrt{b^2-4ac}}{2a}$$ when $a \\neq 0$.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("roots.pdf", result.PDF, 0o644)
//
// Set Input.HTMLOnly to skip the browser and keep only result.HTML.
//
// # Pipeline
//
//  1. Normalization: line endings, and \\( \\) \\[ \\] written by
//     over-escaping producers collapse to single-backslash delimiters.
//  2. Classification: every delimiter pair is matched, overlaps are
//     resolved by precedence ($$ then \[ then \( then $), and spans with no
//     content are dropped.
//  3. Merging: prose and inline math merge into text blocks; display math
//     becomes a math block; empty decorative markup is stripped.
//  4. Emission: each block goes to the Surface. A rejected formula is
//     retried once with \\ collapsed to \, then shown as literal code.
//
// Converter.Blocks exposes steps 1 to 3 alone; Converter.Render runs them
// against any Surface.
//
// # Configuration
//
//	conv, err := mdmath.NewConverter(
//	    mdmath.WithValidator(mdmath.ValidatorStrict),
//	    mdmath.WithStyle("plain"),
//	    mdmath.WithMathAssets(mdmath.MathAssets{ScriptURL: "./vendor/katex.min.js"}),
//	    mdmath.WithLogger(slog.Default()),
//	)
//
// # Parallel Processing
//
// A Converter drives one browser and handles one Convert at a time. For
// batches, use a ConverterPool:
//
//	pool := mdmath.NewConverterPool(mdmath.ResolvePoolSize(0))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx)
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
package mdmath
