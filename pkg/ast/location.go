package ast

import "fmt"

// Range is a half-open [Start, End) span of byte offsets into the original
// expression source. A nil *Range means the node was constructed
// programmatically and has no source location.
type Range struct {
	Start int
	End   int
}

// String returns the range in "start..end" form, matching how ranges are
// rendered in diagnostics.
func (r *Range) String() string {
	if r == nil {
		return "?..?"
	}
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// NewRange builds a *Range from a pair of byte offsets.
func NewRange(start, end int) *Range {
	return &Range{Start: start, End: end}
}

// MergeRanges returns the smallest range covering both a and b. If either is
// nil, the other is returned unchanged, so partially-located constructs still
// report whatever location information they have.
func MergeRanges(a, b *Range) *Range {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Range{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

// WithRange pairs a value with its optional source span. It is the single
// located-value wrapper used throughout the AST, so every node and error can
// point back into the expression source.
type WithRange[T any] struct {
	Value T
	Range *Range
}

// Ranged wraps a value with a span covering the [start, end) byte offsets.
func Ranged[T any](value T, start, end int) WithRange[T] {
	return WithRange[T]{Value: value, Range: NewRange(start, end)}
}

// Unranged wraps a value without location information.
func Unranged[T any](value T) WithRange[T] {
	return WithRange[T]{Value: value}
}
