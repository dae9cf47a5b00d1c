// Package pipeline implements the mixed-notation text pipeline.
//
// Text produced by extraction or generation collaborators interleaves prose
// with LaTeX formulas written in four delimiter dialects. The stages are:
//   - Normalize: undo doubled escaping of bracket delimiters, per line
//   - Scan: collect candidate spans per delimiter family, in precedence order
//   - Resolve: keep a non-overlapping, precedence-respecting subset
//   - Split: split the text into plain text, inline and display formulas
//   - Merge: fold prose and inline formulas into text blocks, isolate
//     display formulas as math blocks
//   - Sanitize: strip decorative empty markup from text blocks
//   - Emit: hand each block to a Surface, isolating math render failures
//
// The package also carries the HTML side of rendering: Goldmark conversion
// with an inline math extension, formula validators, and document
// injection (CSS, math assets, title), plus resolution of relative
// image and link paths for documents printed from a temporary file.
//
// Every stage is a pure function of its input except Emit, whose only
// effect is calls into the injected Surface. Nothing is cached between
// calls, so concurrent use is safe as long as each call owns its Surface.
package pipeline
