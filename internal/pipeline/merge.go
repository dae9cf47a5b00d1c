package pipeline

import "strings"

// blockSeparator joins text runs that end up in the same text block
// without a formula between them.
const blockSeparator = "\n\n"

// Blocks runs the whole pipeline on raw text and returns the render blocks.
// Empty or whitespace-only input yields no blocks.
func Blocks(text string) []Block {
	normalized := Normalize(text)
	spans := Resolve(Scan(normalized))

	// No formula anywhere: the text is one sanitized block, no merge needed.
	if len(spans) == 0 {
		markup := strings.TrimSpace(Sanitize(strings.TrimSpace(normalized)))
		if !HasContent(markup) {
			return nil
		}
		return []Block{TextBlock{Markup: markup}}
	}

	return Merge(split(normalized, spans))
}

// bufferPart is one run accumulated into a pending text block.
type bufferPart struct {
	text    string
	formula bool
}

// Merge folds segments into render blocks.
//
// PlainText and InlineMath accumulate, in source order, into one buffer.
// A BlockMath flushes the buffer as a TextBlock (when it has content) and
// is emitted as its own MathBlock. Prose parts of a flushed buffer are
// sanitized; inline formulas are serialized back into the markup as
// $...$ and are never sanitized.
func Merge(segs []Segment) []Block {
	var (
		blocks []Block
		buf    []bufferPart
	)

	flush := func() {
		if tb, ok := newTextBlock(buf); ok {
			blocks = append(blocks, tb)
		}
		buf = buf[:0]
	}

	for _, seg := range segs {
		switch s := seg.(type) {
		case PlainText:
			buf = append(buf, bufferPart{text: s.Text})
		case InlineMath:
			if HasContent(s.Formula) {
				buf = append(buf, bufferPart{text: strings.TrimSpace(s.Formula), formula: true})
			}
		case BlockMath:
			flush()
			if HasContent(s.Formula) {
				blocks = append(blocks, MathBlock{Formula: strings.TrimSpace(s.Formula)})
			}
		}
	}
	flush()

	return coalesceText(blocks)
}

// newTextBlock renders buffered parts into a TextBlock. It reports false
// when nothing visible is left after sanitizing.
func newTextBlock(parts []bufferPart) (TextBlock, bool) {
	joined := make([]bufferPart, len(parts))
	for i, p := range parts {
		if !p.formula {
			p.text = Sanitize(p.text)
		}
		joined[i] = p
	}

	markup := strings.TrimSpace(serializeParts(joined))
	if !HasContent(markup) {
		return TextBlock{}, false
	}
	return TextBlock{Markup: markup}, true
}

// serializeParts concatenates parts, writing inline formulas as $...$.
// The \(...\) form is used instead whenever dollars would fuse with a
// neighbour, and for every formula of the block once one of them holds a
// dollar itself, so the markup scans back to the same formulas. A formula
// ending in a backslash gets a space before its closer.
func serializeParts(parts []bufferPart) string {
	parenOnly := false
	for _, p := range parts {
		if p.formula && strings.Contains(p.text, "$") {
			parenOnly = true
			break
		}
	}

	var b strings.Builder
	for i, p := range parts {
		if !p.formula {
			b.WriteString(p.text)
			continue
		}

		// A preceding $ would fuse and a preceding backslash would escape
		// a dollar opener.
		written := b.String()
		prevDollar := strings.HasSuffix(written, "$") || strings.HasSuffix(written, `\`)
		nextDollar := i+1 < len(parts) &&
			(parts[i+1].formula || strings.HasPrefix(parts[i+1].text, "$"))

		pad := closerPad(p.text)
		if parenOnly || prevDollar || nextDollar {
			b.WriteString(`\(` + p.text + pad + `\)`)
		} else {
			b.WriteString("$" + p.text + pad + "$")
		}
	}
	return b.String()
}

// coalesceText joins runs of adjacent TextBlocks with a blank line.
// Blocks separated by a MathBlock stay distinct.
func coalesceText(blocks []Block) []Block {
	out := blocks[:0]
	for _, blk := range blocks {
		tb, isText := blk.(TextBlock)
		if isText && len(out) > 0 {
			if prev, ok := out[len(out)-1].(TextBlock); ok {
				out[len(out)-1] = TextBlock{Markup: prev.Markup + blockSeparator + tb.Markup}
				continue
			}
		}
		out = append(out, blk)
	}
	return out
}
