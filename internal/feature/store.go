package feature

import (
	"fmt"
	"sort"
)

// Store is an ordered collection of features on a single sequence.
// It is read-only once handed to a browser.
type Store struct {
	seqID    string
	features []*Feature
}

// NewStore creates a new empty store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFrom builds a store from a slice of features.
func NewStoreFrom(features []*Feature) (*Store, error) {
	s := NewStore()
	for _, f := range features {
		if err := s.Add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a feature. All features of a store share one sequence id.
func (s *Store) Add(f *Feature) error {
	if len(s.features) == 0 {
		s.seqID = f.SeqID
	} else if f.SeqID != s.seqID {
		return fmt.Errorf("feature on %q added to store for %q", f.SeqID, s.seqID)
	}
	s.features = append(s.features, f)
	return nil
}

// SeqID returns the sequence id shared by the features, "" when empty.
func (s *Store) SeqID() string {
	return s.seqID
}

// Len returns the number of features.
func (s *Store) Len() int {
	return len(s.features)
}

// Features returns the features in load order.
func (s *Store) Features() []*Feature {
	return s.features
}

// Get returns the i-th feature.
func (s *Store) Get(i int) *Feature {
	return s.features[i]
}

// MaxRight returns the largest right coordinate, 0 for an empty store.
func (s *Store) MaxRight() int {
	m := 0
	for _, f := range s.features {
		if r := f.Right(); r > m {
			m = r
		}
	}
	return m
}

// Overlapping returns features intersecting [left, right) in load order.
func (s *Store) Overlapping(left, right int) []*Feature {
	var result []*Feature
	for _, f := range s.features {
		if f.Overlaps(left, right) {
			result = append(result, f)
		}
	}
	return result
}

// Types returns a sorted list of the feature types in the store.
func (s *Store) Types() []string {
	seen := make(map[string]bool)
	for _, f := range s.features {
		seen[f.Type] = true
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
