package pipeline

import "strings"

// Reconstruct serializes blocks back into flat text that Blocks classifies
// the same way: text blocks verbatim, math blocks wrapped in $$...$$,
// separated by blank lines. A formula holding $$ is wrapped in \[...\]
// instead, and one starting or ending with $ or ending with a backslash
// gets padded delimiters. Backslash runs that Normalize would shorten are
// lengthened by one.
func Reconstruct(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, blk := range blocks {
		switch b := blk.(type) {
		case TextBlock:
			parts = append(parts, b.Markup)
		case MathBlock:
			parts = append(parts, displayFormula(b.Formula))
		}
	}
	return escapeDelimiterRuns(strings.Join(parts, blockSeparator))
}

func displayFormula(formula string) string {
	pad := closerPad(formula)
	switch {
	case strings.Contains(formula, "$$"):
		// Only \[...\] spans can hold $$, and those never hold \].
		return `\[` + formula + pad + `\]`
	case strings.HasPrefix(formula, "$") || strings.HasSuffix(formula, "$"):
		return "$$ " + formula + " $$"
	default:
		return "$$" + formula + pad + "$$"
	}
}

// closerPad returns the space that keeps a trailing backslash of formula
// from escaping the closing delimiter.
func closerPad(formula string) string {
	if strings.HasSuffix(formula, `\`) {
		return " "
	}
	return ""
}

// escapeDelimiterRuns adds one backslash to every run of two or more
// backslashes before one of [ ] ( ). Normalize maps the result back to
// text.
func escapeDelimiterRuns(text string) string {
	if !strings.Contains(text, `\\`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)

	for i := 0; i < len(text); {
		if text[i] != '\\' {
			b.WriteByte(text[i])
			i++
			continue
		}

		j := i
		for j < len(text) && text[j] == '\\' {
			j++
		}
		run := j - i
		if run >= 2 && j < len(text) && isBracketDelimiter(text[j]) {
			run++
		}
		b.WriteString(strings.Repeat(`\`, run))
		i = j
	}
	return b.String()
}
