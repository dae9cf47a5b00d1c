package pipeline

import (
	"regexp"
	"strings"
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Normalize prepares raw collaborator text for scanning.
//
// Line endings become \n, then each line is processed on its own: a run of
// two or more backslashes directly before one of [ ] ( ) loses exactly one
// backslash. This repairs delimiters that were escaped twice upstream
// (\\[ becomes \[) and leaves single-backslash commands such as \frac alone.
func Normalize(text string) string {
	text = normalizeLineEndings(text)
	if !strings.Contains(text, `\\`) {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = collapseEscapedDelimiters(line)
	}
	return strings.Join(lines, "\n")
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// collapseEscapedDelimiters drops one backslash from every run of two or
// more backslashes that is immediately followed by a bracket delimiter.
func collapseEscapedDelimiters(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	for i := 0; i < len(line); {
		if line[i] != '\\' {
			b.WriteByte(line[i])
			i++
			continue
		}

		j := i
		for j < len(line) && line[j] == '\\' {
			j++
		}
		run := j - i
		if run >= 2 && j < len(line) && isBracketDelimiter(line[j]) {
			run--
		}
		b.WriteString(strings.Repeat(`\`, run))
		i = j
	}

	return b.String()
}

func isBracketDelimiter(c byte) bool {
	return c == '[' || c == ']' || c == '(' || c == ')'
}
