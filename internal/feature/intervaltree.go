package feature

import "sort"

// Span is a half-open coordinate range [Start, End).
type Span struct {
	Start int
	End   int
}

// minLongSpan is the smallest length ever treated as a long span.
const minLongSpan = 1 << 10

// IntervalIndex answers half-open range overlap queries over a fixed set of spans
// using a sorted slice with a prefix max-end array.
// Spans much longer than the median (a whole-sequence region, a long repeat)
// are kept in a separate list and checked one by one, so they cannot defeat
// the max-end pruning of the short spans.
// Spans are indexed once and never modified after build.
type IntervalIndex struct {
	spans  []indexedSpan
	maxEnd []int // maxEnd[i] = max(end) for spans[:i+1]
	long   []indexedSpan
}

type indexedSpan struct {
	start int
	end   int
	id    int
}

// BuildIntervalIndex indexes spans; the id of a span is its position in the slice.
func BuildIntervalIndex(spans []Span) *IntervalIndex {
	if len(spans) == 0 {
		return &IntervalIndex{}
	}

	limit := longSpanLimit(spans)
	x := &IntervalIndex{}
	for i, s := range spans {
		is := indexedSpan{start: s.Start, end: s.End, id: i}
		if s.End-s.Start > limit {
			x.long = append(x.long, is)
			continue
		}
		x.spans = append(x.spans, is)
	}

	sort.SliceStable(x.spans, func(i, j int) bool {
		return x.spans[i].start < x.spans[j].start
	})

	x.maxEnd = make([]int, len(x.spans))
	for i, s := range x.spans {
		x.maxEnd[i] = s.end
		if i > 0 {
			x.maxEnd[i] = max(x.maxEnd[i-1], s.end)
		}
	}
	return x
}

// longSpanLimit returns the length above which a span is kept out of the
// sorted slice: 16 times the median length, at least minLongSpan.
func longSpanLimit(spans []Span) int {
	lengths := make([]int, len(spans))
	for i, s := range spans {
		lengths[i] = s.End - s.Start
	}
	sort.Ints(lengths)
	return max(minLongSpan, 16*lengths[len(lengths)/2])
}

// Len returns the number of indexed spans.
func (x *IntervalIndex) Len() int {
	return len(x.spans) + len(x.long)
}

// Overlapping returns the ids of all spans with End > a and Start < b, in ascending id order.
func (x *IntervalIndex) Overlapping(a, b int) []int {
	if x.Len() == 0 || a >= b {
		return nil
	}

	var ids []int
	for _, s := range x.long {
		if s.end > a && s.start < b {
			ids = append(ids, s.id)
		}
	}

	// Candidates are spans[:hi], the ones starting before b.
	hi := sort.Search(len(x.spans), func(i int) bool {
		return x.spans[i].start >= b
	})
	for i := hi - 1; i >= 0; i-- {
		// Nothing at or before i reaches past a.
		if x.maxEnd[i] <= a {
			break
		}
		if x.spans[i].end > a {
			ids = append(ids, x.spans[i].id)
		}
	}

	sort.Ints(ids)
	return ids
}
