// Package bsearch provides boundary search over ordered, indexable sequences.
package bsearch

// Sequence is an indexable, ordered collection.
type Sequence[T any] interface {
	// Len returns the number of elements.
	Len() int

	// At returns the element at index i (0-based).
	At(i int) T
}

// Slice adapts a Go slice to Sequence.
type Slice[T any] []T

// Len returns the slice length.
func (s Slice[T]) Len() int { return len(s) }

// At returns s[i].
func (s Slice[T]) At(i int) T { return s[i] }

// Range is a half-open index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Whole returns the range covering a sequence of length n.
func Whole(n int) Range {
	return Range{Start: 0, End: n}
}

// Empty reports whether the range contains no indices.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Comparator reports where an element lies relative to the target:
// negative before it, zero at it, positive after it.
type Comparator[T any] func(T) int

// LowerBoundary returns the smallest index i in r for which cmp(seq.At(i)) >= 0.
// The comparator must be monotonic over r: every negative result precedes every
// zero or positive result. When no such index exists, r.End is returned. An empty
// range returns r.Start. cmp is only ever called with indices inside r.
func LowerBoundary[T any](seq Sequence[T], r Range, cmp Comparator[T]) int {
	if r.Empty() {
		return r.Start
	}

	lower := r.Start - 1
	upper := r.End
	for lower+1 != upper {
		mid := lower + (upper-lower)/2
		if cmp(seq.At(mid)) < 0 {
			lower = mid
		} else {
			upper = mid
		}
	}
	return upper
}

// First returns the index of the first element in r for which cmp returns zero.
// It reports false when the boundary falls outside r or the element there does
// not compare equal.
func First[T any](seq Sequence[T], r Range, cmp Comparator[T]) (int, bool) {
	boundary := LowerBoundary(seq, r, cmp)
	if boundary >= r.End || boundary < r.Start {
		return 0, false
	}
	if cmp(seq.At(boundary)) != 0 {
		return 0, false
	}
	return boundary, true
}
