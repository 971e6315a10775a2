package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIntervalIndex_Empty(t *testing.T) {
	idx := BuildIntervalIndex(nil)
	assert.Empty(t, idx.Overlapping(0, 100))
	assert.Equal(t, 0, idx.Len())
}

func TestIntervalIndex_SingleSpan(t *testing.T) {
	idx := BuildIntervalIndex([]Span{{Start: 100, End: 200}})

	assert.Equal(t, []int{0}, idx.Overlapping(150, 160))
	assert.Equal(t, []int{0}, idx.Overlapping(0, 101))
	assert.Empty(t, idx.Overlapping(0, 100), "touching start is not an overlap")
	assert.Empty(t, idx.Overlapping(200, 300), "touching end is not an overlap")
	assert.Empty(t, idx.Overlapping(150, 150), "empty query")
}

func TestIntervalIndex_IDsInInputOrder(t *testing.T) {
	idx := BuildIntervalIndex([]Span{
		{Start: 500, End: 600},
		{Start: 100, End: 300},
		{Start: 150, End: 250},
	})

	assert.Equal(t, []int{0, 1, 2}, idx.Overlapping(0, 1000))
	assert.Equal(t, []int{1, 2}, idx.Overlapping(200, 260))
}

func TestIntervalIndex_LongSpanBeforeShortOnes(t *testing.T) {
	// A long span followed by short ones: pruning must not skip the long one.
	idx := BuildIntervalIndex([]Span{
		{Start: 0, End: 1000},
		{Start: 10, End: 20},
		{Start: 30, End: 40},
	})

	assert.Equal(t, []int{0}, idx.Overlapping(500, 600))
}

func TestIntervalIndex_MatchesLinearScan(t *testing.T) {
	spans := []Span{
		{Start: 1000, End: 5000},
		{Start: 2000, End: 3000},
		{Start: 4000, End: 8000},
		{Start: 6000, End: 7000},
		{Start: 9000, End: 10000},
		{Start: 0, End: 9500},
	}
	idx := BuildIntervalIndex(spans)

	for a := 0; a <= 11000; a += 250 {
		for _, width := range []int{1, 300, 2500} {
			b := a + width
			var linear []int
			for i, s := range spans {
				if s.End > a && s.Start < b {
					linear = append(linear, i)
				}
			}
			assert.Equal(t, linear, idx.Overlapping(a, b), "query [%d,%d)", a, b)
		}
	}
}

func TestIntervalIndex_WholeSequenceSpanKeptApart(t *testing.T) {
	spans := []Span{{Start: 0, End: 4641652}}
	for i := 0; i < 100; i++ {
		spans = append(spans, Span{Start: 1000 + i*2000, End: 1900 + i*2000})
	}
	idx := BuildIntervalIndex(spans)

	assert.Equal(t, 101, idx.Len())
	assert.Len(t, idx.long, 1)
	assert.Equal(t, 199900, idx.maxEnd[len(idx.maxEnd)-1], "max end ignores the long span")

	assert.Equal(t, []int{0, 2}, idx.Overlapping(3500, 3600))
	assert.Equal(t, []int{0}, idx.Overlapping(1900, 3000))
	assert.Equal(t, []int{0}, idx.Overlapping(500000, 600000))
}
