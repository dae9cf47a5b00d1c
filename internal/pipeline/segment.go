package pipeline

import "strings"

// Split normalizes text and partitions it into ordered segments.
//
// Text between formulas becomes PlainText, kept verbatim (surrounding
// whitespace included) when it has content. Each resolved span becomes
// InlineMath or BlockMath with its trimmed content; vacuous spans vanish
// together with their delimiters. An inline span whose whole content is a
// nested $...$, as in \( $x$ \), becomes BlockMath. When no span resolves
// at all, the whole text is returned as a single PlainText.
func Split(text string) []Segment {
	normalized := Normalize(text)
	return split(normalized, Resolve(Scan(normalized)))
}

// split walks normalized text along resolved spans.
func split(text string, spans []Span) []Segment {
	if len(spans) == 0 {
		if HasContent(text) {
			return []Segment{PlainText{Text: text}}
		}
		return nil
	}

	segs := make([]Segment, 0, 2*len(spans)+1)
	last := 0
	for _, s := range spans {
		if gap := text[last:s.Start]; HasContent(gap) {
			segs = append(segs, PlainText{Text: gap})
		}
		last = s.End

		if s.Vacuous() {
			continue
		}
		if s.Display() || wrapsDollarFormula(text, s) {
			segs = append(segs, BlockMath{Formula: s.Content})
		} else {
			segs = append(segs, InlineMath{Formula: s.Content})
		}
	}
	if tail := text[last:]; HasContent(tail) {
		segs = append(segs, PlainText{Text: tail})
	}
	return segs
}

// wrapsDollarFormula reports whether s is a \(...\) span whose trimmed
// inner text is a single $...$ formula that unwrapFormula stripped.
func wrapsDollarFormula(text string, s Span) bool {
	if s.Family != FamilyInlineParen {
		return false
	}
	inner := strings.TrimSpace(text[s.Start+2 : s.End-2])
	return len(inner) > 2 &&
		strings.HasPrefix(inner, "$") && strings.HasSuffix(inner, "$") &&
		inner != s.Content
}
