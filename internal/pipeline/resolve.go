package pipeline

import "sort"

// Resolve selects a non-overlapping subset of candidate spans.
//
// Candidates are ordered by Start, ties broken by family precedence, then
// accepted greedily: a span is kept only if it does not intersect a span
// kept before it. The input slice is not modified; the result is sorted
// by Start and pairwise disjoint.
func Resolve(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(a, b int) bool {
		if ordered[a].Start != ordered[b].Start {
			return ordered[a].Start < ordered[b].Start
		}
		return ordered[a].Family < ordered[b].Family
	})

	resolved := make([]Span, 0, len(ordered))
	for _, s := range ordered {
		// Accepted spans are disjoint and ordered, so the last one has the
		// furthest End.
		if n := len(resolved); n > 0 && resolved[n-1].overlaps(s) {
			continue
		}
		resolved = append(resolved, s)
	}
	return resolved
}
