package feature

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
)

// stacked is a placed feature in the stacking tree. Ranges are the closed feature
// coordinates expressed half-open as [Left, Right+1).
type stacked struct {
	uid   uintptr
	start int
	end   int
	z     int
}

func (s stacked) Overlap(b interval.IntRange) bool {
	return b.End > s.start && b.Start < s.end
}
func (s stacked) ID() uintptr { return s.uid }
func (s stacked) Range() interval.IntRange {
	return interval.IntRange{Start: s.start, End: s.end}
}

// AddZOrder assigns each feature the lowest stacking layer not used by an
// overlapping feature placed before it. Features are placed in order of Left.
// It returns the number of layers used.
func AddZOrder(features []*Feature) (int, error) {
	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return features[order[i]].Left() < features[order[j]].Left()
	})

	var tree interval.IntTree
	layers := 0
	for _, idx := range order {
		f := features[idx]
		q := stacked{uid: uintptr(idx), start: f.Left(), end: f.Right() + 1}

		used := make(map[int]bool)
		for _, hit := range tree.Get(q) {
			used[hit.(stacked).z] = true
		}
		z := 0
		for used[z] {
			z++
		}
		q.z = z
		f.Z = z

		if err := tree.Insert(q, false); err != nil {
			return 0, fmt.Errorf("stack feature %d: %w", idx, err)
		}
		layers = max(layers, z+1)
	}
	return layers, nil
}
