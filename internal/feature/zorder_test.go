package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddZOrder_NonOverlapping(t *testing.T) {
	features := []*Feature{
		{Start: 1, End: 100},
		{Start: 200, End: 300},
	}
	layers, err := AddZOrder(features)
	require.NoError(t, err)

	assert.Equal(t, 1, layers)
	assert.Equal(t, 0, features[0].Z)
	assert.Equal(t, 0, features[1].Z)
}

func TestAddZOrder_Overlapping(t *testing.T) {
	features := []*Feature{
		{Start: 1, End: 500},
		{Start: 100, End: 200},
		{Start: 150, End: 400},
		{Start: 450, End: 600},
		{Start: 700, End: 800},
	}
	layers, err := AddZOrder(features)
	require.NoError(t, err)

	assert.Equal(t, 3, layers)
	assert.Equal(t, 0, features[0].Z)
	assert.Equal(t, 1, features[1].Z)
	assert.Equal(t, 2, features[2].Z)
	assert.Equal(t, 1, features[3].Z, "layer 1 is free again after 200")
	assert.Equal(t, 0, features[4].Z)
}

func TestAddZOrder_SharedBaseOverlaps(t *testing.T) {
	features := []*Feature{
		{Start: 1, End: 100},
		{Start: 100, End: 200},
	}
	_, err := AddZOrder(features)
	require.NoError(t, err)
	assert.Equal(t, 1, features[1].Z, "closed coordinates share base 100")
}

func TestAddZOrder_UnsortedInput(t *testing.T) {
	features := []*Feature{
		{Start: 300, End: 400},
		{Start: 1, End: 350},
	}
	_, err := AddZOrder(features)
	require.NoError(t, err)
	assert.Equal(t, 0, features[1].Z, "leftmost feature is placed first")
	assert.Equal(t, 1, features[0].Z)
}
