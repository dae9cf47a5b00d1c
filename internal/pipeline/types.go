package pipeline

// Family identifies a delimiter dialect. The numeric order is the
// precedence order used for scanning and for breaking offset ties.
type Family int

// Delimiter families, highest precedence first.
const (
	FamilyDisplayDollar  Family = iota + 1 // $$...$$
	FamilyDisplayBracket                   // \[...\]
	FamilyInlineDollar                     // $...$
	FamilyInlineParen                      // \(...\)
)

// String returns the delimiter pair of the family.
func (f Family) String() string {
	switch f {
	case FamilyDisplayDollar:
		return "$$...$$"
	case FamilyDisplayBracket:
		return `\[...\]`
	case FamilyInlineDollar:
		return "$...$"
	case FamilyInlineParen:
		return `\(...\)`
	default:
		return "unknown"
	}
}

// Display reports whether formulas of this family render standalone.
func (f Family) Display() bool {
	return f == FamilyDisplayDollar || f == FamilyDisplayBracket
}

// Span is a located formula candidate in normalized text.
// [Start, End) covers the delimiters; Content is the trimmed inner text.
// A span whose Content is empty is vacuous: it swallows its delimiters
// but produces no formula.
type Span struct {
	Start   int
	End     int
	Family  Family
	Content string
}

// Display reports whether the span is a standalone formula.
func (s Span) Display() bool { return s.Family.Display() }

// Vacuous reports whether the span carries no formula content.
func (s Span) Vacuous() bool { return !HasContent(s.Content) }

// overlaps reports whether two half-open intervals intersect.
func (s Span) overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Segment is a typed run of source text. It is one of PlainText,
// InlineMath or BlockMath.
type Segment interface {
	isSegment()
}

// PlainText is narrative text between formulas, kept verbatim.
type PlainText struct {
	Text string
}

// InlineMath is a formula embedded in a line of prose.
type InlineMath struct {
	Formula string
}

// BlockMath is a formula rendered on its own line.
type BlockMath struct {
	Formula string
}

func (PlainText) isSegment()  {}
func (InlineMath) isSegment() {}
func (BlockMath) isSegment()  {}

// Block is a final render unit. It is either a TextBlock or a MathBlock.
type Block interface {
	isBlock()
}

// TextBlock holds sanitized Markdown/HTML with inline formulas serialized
// in place as $...$.
type TextBlock struct {
	Markup string
}

// MathBlock holds one standalone LaTeX formula, without delimiters.
type MathBlock struct {
	Formula string
}

func (TextBlock) isBlock() {}
func (MathBlock) isBlock() {}
