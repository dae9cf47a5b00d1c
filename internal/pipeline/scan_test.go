package pipeline

// Notes:
// - Scan offsets are byte offsets into the normalized text
// - Scan groups candidates by family; Resolve orders and prunes them
// - The property tests run every input through Normalize, Scan and Resolve
//   and check the invariants the later stages rely on

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// TestScan - Candidate Detection per Family
// ---------------------------------------------------------------------------

func TestScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "no formulas",
			input: "nothing to see",
			want:  nil,
		},
		{
			name:  "display dollar",
			input: "$$a$$",
			want:  []Span{{Start: 0, End: 5, Family: FamilyDisplayDollar, Content: "a"}},
		},
		{
			name:  "display dollar across lines",
			input: "$$\nx\n$$",
			want:  []Span{{Start: 0, End: 7, Family: FamilyDisplayDollar, Content: "x"}},
		},
		{
			name:  "display bracket",
			input: `\[b\]`,
			want:  []Span{{Start: 0, End: 5, Family: FamilyDisplayBracket, Content: "b"}},
		},
		{
			name:  "inline dollar",
			input: "x $a$ y",
			want:  []Span{{Start: 2, End: 5, Family: FamilyInlineDollar, Content: "a"}},
		},
		{
			name:  "inline paren",
			input: `\(c\)`,
			want:  []Span{{Start: 0, End: 5, Family: FamilyInlineParen, Content: "c"}},
		},
		{
			name:  "two inline dollars",
			input: "$a$ and $b$",
			want: []Span{
				{Start: 0, End: 3, Family: FamilyInlineDollar, Content: "a"},
				{Start: 8, End: 11, Family: FamilyInlineDollar, Content: "b"},
			},
		},
		{
			name:  "content is trimmed",
			input: "$  x + 1  $",
			want:  []Span{{Start: 0, End: 11, Family: FamilyInlineDollar, Content: "x + 1"}},
		},
		{
			name:  "later family inside display is discarded",
			input: `$$ \(a\) $$`,
			want:  []Span{{Start: 0, End: 11, Family: FamilyDisplayDollar, Content: "a"}},
		},
		{
			name:  "inline dollar never crosses a line",
			input: "$a\nb$",
			want:  nil,
		},
		{
			name:  "inline paren never crosses a line",
			input: "\\(a\nb\\)",
			want:  nil,
		},
		{
			name:  "escaped dollars are literal",
			input: `\$5 and \$6`,
			want:  nil,
		},
		{
			name:  "four dollars hold no formula",
			input: "$$$$",
			want:  nil,
		},
		{
			name:  "whitespace-only display is vacuous but located",
			input: "$$   $$",
			want:  []Span{{Start: 0, End: 7, Family: FamilyDisplayDollar, Content: ""}},
		},
		{
			name:  "unclosed display",
			input: "$$ a + b",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Scan(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Scan(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestUnwrapFormula - Redundant Nested Delimiters
// ---------------------------------------------------------------------------

func TestUnwrapFormula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"x", "x"},
		{"$x$", "x"},
		{`\(x\)`, "x"},
		{`\[ $x$ \]`, "x"},
		{"$$ y $$", "y"},
		{"$a$ + $b$", "$a$ + $b$"},
		{"$", "$"},
		{"$$", ""},
	}

	for _, tt := range tests {
		if got := unwrapFormula(tt.input); got != tt.want {
			t.Errorf("unwrapFormula(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolve - Overlap Resolution
// ---------------------------------------------------------------------------

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []Span
		want  []Span
	}{
		{
			name:  "empty",
			input: nil,
			want:  nil,
		},
		{
			name: "sorted by start",
			input: []Span{
				{Start: 10, End: 12, Family: FamilyDisplayDollar},
				{Start: 0, End: 3, Family: FamilyInlineParen},
			},
			want: []Span{
				{Start: 0, End: 3, Family: FamilyInlineParen},
				{Start: 10, End: 12, Family: FamilyDisplayDollar},
			},
		},
		{
			name: "earlier start wins a partial overlap",
			input: []Span{
				{Start: 5, End: 15, Family: FamilyDisplayDollar},
				{Start: 0, End: 10, Family: FamilyDisplayBracket},
			},
			want: []Span{{Start: 0, End: 10, Family: FamilyDisplayBracket}},
		},
		{
			name: "same start resolves by precedence",
			input: []Span{
				{Start: 0, End: 5, Family: FamilyInlineParen},
				{Start: 0, End: 7, Family: FamilyInlineDollar},
			},
			want: []Span{{Start: 0, End: 7, Family: FamilyInlineDollar}},
		},
		{
			name: "touching spans are disjoint",
			input: []Span{
				{Start: 0, End: 3, Family: FamilyInlineDollar},
				{Start: 3, End: 6, Family: FamilyInlineDollar},
			},
			want: []Span{
				{Start: 0, End: 3, Family: FamilyInlineDollar},
				{Start: 3, End: 6, Family: FamilyInlineDollar},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	input := []Span{
		{Start: 4, End: 8, Family: FamilyInlineDollar},
		{Start: 0, End: 6, Family: FamilyDisplayDollar},
	}
	snapshot := append([]Span(nil), input...)

	Resolve(input)

	if diff := cmp.Diff(snapshot, input); diff != "" {
		t.Errorf("Resolve() modified its input (-before +after):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// TestResolvedSpans_Invariants - Sorted, Disjoint, In Bounds
// ---------------------------------------------------------------------------

// mixedInputs exercise every delimiter family and their interactions.
var mixedInputs = []string{
	"",
	"plain prose only",
	"Solve $x+1=2$ then\n\n$$\\int_0^1 x\\,dx = \\frac{1}{2}$$\n\nDone.",
	"$$   $$",
	`\\[ a=b \\]`,
	`\( $x$ \)`,
	`$$ \(a\) \[b\] $c$ $$`,
	`\[ x $$ y \] $$`,
	"$a$$b$ $$c$$$d$",
	`a \(b\) c \[d\] e $f$ g $$h$$`,
	"costs \\$5 and $x$",
	"line one $a\nline two b$",
	`\(\text{$5}\) and \(y\)`,
	"<div></div>\n$$m$$\n<br>\n$n$",
	"$$a$$$$b$$",
	"\\(a\\)\\(b\\)",
}

func TestResolvedSpans_Invariants(t *testing.T) {
	t.Parallel()

	for _, input := range mixedInputs {
		text := Normalize(input)
		spans := Resolve(Scan(text))

		for i, s := range spans {
			if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
				t.Errorf("input %q: span %d out of bounds: %+v", input, i, s)
			}
			if i > 0 && spans[i-1].End > s.Start {
				t.Errorf("input %q: spans %d and %d overlap or are unordered: %+v %+v",
					input, i-1, i, spans[i-1], s)
			}
		}
	}
}
