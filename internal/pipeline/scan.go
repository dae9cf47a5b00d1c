package pipeline

import (
	"sort"
	"strings"
)

// Scan collects formula candidates from normalized text.
//
// Families are scanned in precedence order. A candidate whose opening
// delimiter falls inside a span accepted from an earlier family is dropped,
// so a \(...\) inside $$...$$ never surfaces on its own. Candidates from
// different families may still overlap partially; Resolve settles those.
//
// The result is grouped by family (1 to 4) and sorted by Start within each
// group. Each scanner is a single forward pass over the bytes of the text:
// every delimiter is ASCII, so byte offsets never split a UTF-8 sequence.
func Scan(text string) []Span {
	spans := scanDisplayDollar(text)
	spans = appendOutside(spans, scanDisplayBracket(text))
	spans = appendOutside(spans, scanInlineDollar(text))
	spans = appendOutside(spans, scanInlineParen(text))
	return spans
}

// appendOutside appends every candidate whose start is not covered by a
// span already in accepted.
func appendOutside(accepted, candidates []Span) []Span {
	if len(candidates) == 0 {
		return accepted
	}
	if len(accepted) == 0 {
		return append(accepted, candidates...)
	}

	covering := make([]Span, len(accepted))
	copy(covering, accepted)
	sort.SliceStable(covering, func(a, b int) bool { return covering[a].Start < covering[b].Start })

	// Both lists are ordered by Start, so one pointer tracks the furthest
	// End among covering spans that open at or before the candidate.
	k, maxEnd := 0, -1
	for _, c := range candidates {
		for k < len(covering) && covering[k].Start <= c.Start {
			if covering[k].End > maxEnd {
				maxEnd = covering[k].End
			}
			k++
		}
		if maxEnd > c.Start {
			continue
		}
		accepted = append(accepted, c)
	}
	return accepted
}

func newSpan(start, end int, family Family, inner string) Span {
	return Span{
		Start:   start,
		End:     end,
		Family:  family,
		Content: unwrapFormula(strings.TrimSpace(inner)),
	}
}

// redundantPairs are delimiter pairs that may wrap a whole formula a
// second time, as in \( $x$ \).
var redundantPairs = [...][2]string{
	{"$$", "$$"},
	{`\[`, `\]`},
	{`\(`, `\)`},
	{"$", "$"},
}

// unwrapFormula strips delimiter pairs enclosing the entire content.
// A pair is only stripped when neither delimiter reappears inside, so
// $a$ + $b$ is kept whole.
func unwrapFormula(content string) string {
	for {
		unwrapped := content
		for _, pair := range redundantPairs {
			open, closing := pair[0], pair[1]
			if len(content) < len(open)+len(closing) ||
				!strings.HasPrefix(content, open) || !strings.HasSuffix(content, closing) {
				continue
			}
			inner := content[len(open) : len(content)-len(closing)]
			if strings.Contains(inner, open) || strings.Contains(inner, closing) {
				continue
			}
			unwrapped = strings.TrimSpace(inner)
			break
		}
		if unwrapped == content {
			return content
		}
		content = unwrapped
	}
}

// scanDisplayDollar finds $$...$$ spans. Content may cross lines, must be
// at least one byte long and ends at the first following $$.
func scanDisplayDollar(text string) []Span {
	var spans []Span
	for i := 0; i+1 < len(text); {
		if !isDoubleDollar(text, i) {
			i++
			continue
		}
		closeAt := indexDoubleDollar(text, i+2)
		if closeAt < 0 {
			break
		}
		if closeAt == i+2 {
			// "$$$$": the inner text would start with the closing delimiter.
			i++
			continue
		}
		spans = append(spans, newSpan(i, closeAt+2, FamilyDisplayDollar, text[i+2:closeAt]))
		i = closeAt + 2
	}
	return spans
}

// scanDisplayBracket finds \[...\] spans. Content may cross lines and ends
// at the first following \].
func scanDisplayBracket(text string) []Span {
	var spans []Span
	for i := 0; i+1 < len(text); {
		if text[i] != '\\' || text[i+1] != '[' {
			i++
			continue
		}
		rel := strings.Index(text[i+2:], `\]`)
		if rel < 0 {
			break
		}
		if rel == 0 {
			i++
			continue
		}
		closeAt := i + 2 + rel
		spans = append(spans, newSpan(i, closeAt+2, FamilyDisplayBracket, text[i+2:closeAt]))
		i = closeAt + 2
	}
	return spans
}

// scanInlineDollar finds $...$ spans on a single line. The opening $ must
// not touch another $, the closing $ must not be followed by one, and the
// content holds no unescaped $.
func scanInlineDollar(text string) []Span {
	var spans []Span
	for i := 0; i < len(text); i++ {
		if !isInlineDollarOpener(text, i) {
			continue
		}

		j := i + 1
		for j < len(text) && text[j] != '\n' && (text[j] != '$' || isEscaped(text, j)) {
			j++
		}
		if j >= len(text) {
			break
		}
		if text[j] == '\n' {
			i = j
			continue
		}
		if j+1 < len(text) && text[j+1] == '$' {
			// Closing $ glued to another $: the content would have to
			// swallow a delimiter.
			i = j
			continue
		}

		spans = append(spans, newSpan(i, j+1, FamilyInlineDollar, text[i+1:j]))
		i = j
	}
	return spans
}

// scanInlineParen finds \(...\) spans on a single line, ending at the
// first following \).
func scanInlineParen(text string) []Span {
	var spans []Span
	for i := 0; i+1 < len(text); {
		if text[i] != '\\' || text[i+1] != '(' {
			i++
			continue
		}

		lineEnd := len(text)
		if nl := strings.IndexByte(text[i+2:], '\n'); nl >= 0 {
			lineEnd = i + 2 + nl
		}
		rel := strings.Index(text[i+2:lineEnd], `\)`)
		if rel < 0 {
			// No closer on this line for this or any later opener on it.
			i = lineEnd
			continue
		}
		if rel == 0 {
			i++
			continue
		}
		closeAt := i + 2 + rel
		spans = append(spans, newSpan(i, closeAt+2, FamilyInlineParen, text[i+2:closeAt]))
		i = closeAt + 2
	}
	return spans
}

// isEscaped reports whether the byte at i follows an odd run of backslashes.
func isEscaped(text string, i int) bool {
	n := 0
	for k := i - 1; k >= 0 && text[k] == '\\'; k-- {
		n++
	}
	return n%2 == 1
}

func isDoubleDollar(text string, i int) bool {
	return i+1 < len(text) && text[i] == '$' && text[i+1] == '$' && !isEscaped(text, i)
}

// indexDoubleDollar returns the offset of the first unescaped $$ at or
// after from, or -1.
func indexDoubleDollar(text string, from int) int {
	for i := from; i+1 < len(text); i++ {
		if isDoubleDollar(text, i) {
			return i
		}
	}
	return -1
}

func isInlineDollarOpener(text string, i int) bool {
	if text[i] != '$' || isEscaped(text, i) {
		return false
	}
	if i > 0 && text[i-1] == '$' {
		return false
	}
	return i+1 < len(text) && text[i+1] != '$'
}
