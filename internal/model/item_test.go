package model

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loadwise/vanpack/internal/space"
)

func sortedComponents(v space.Vector3) []string {
	parts := []string{v.X.String(), v.Y.String(), v.Z.String()}
	sort.Strings(parts)
	return parts
}

func TestOrientationDims_AllStatesArePermutations(t *testing.T) {
	original := space.Vec(1, 2, 3)
	want := sortedComponents(original)

	for r := 0; r < OrientationCount; r++ {
		dims := OrientationDims(original, r)
		assert.Equal(t, want, sortedComponents(dims), "rotation %d", r)
	}
}

func TestOrientationDims_CoversAllAxisAssignments(t *testing.T) {
	original := space.Vec(1, 2, 3)

	xValues := map[string]bool{}
	shapes := map[string]bool{}
	for r := 0; r < OrientationCount; r++ {
		dims := OrientationDims(original, r)
		xValues[dims.X.String()] = true
		shapes[dims.String()] = true
	}
	// Every original dimension appears on the X axis.
	assert.Len(t, xValues, 3)
	// All six distinct shapes of a scalene box are produced.
	assert.Len(t, shapes, 6)
}

func TestOrientationDims_Deterministic(t *testing.T) {
	original := space.Vec(0.4, 0.5, 0.8)
	for r := 0; r < OrientationCount; r++ {
		assert.True(t, OrientationDims(original, r).Equal(OrientationDims(original, r)))
	}
}

func TestItem_SetRotation(t *testing.T) {
	it := NewItemDims("box", 1, 2, 3, 10, 0)
	require.Equal(t, 0, it.Rotation())

	it.SetRotation(5)
	assert.Equal(t, 5, it.Rotation())
	assert.Equal(t, sortedComponents(it.OriginalDimensions()), sortedComponents(it.Dimensions()))

	it.SetRotation(0)
	assert.True(t, it.Dimensions().Equal(it.OriginalDimensions()))
}

func TestNewItem_UniqueIDs(t *testing.T) {
	a := NewItemDims("a", 1, 1, 1, 1, 0)
	b := NewItemDims("b", 1, 1, 1, 1, 0)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.False(t, a.Placed())
}

func TestItem_Volume(t *testing.T) {
	it := NewItemDims("box", 0.5, 0.5, 0.5, 3, 1)
	assert.True(t, it.Volume().Equal(decimal.RequireFromString("0.125")))
}

func TestItem_CloneResetsPlacement(t *testing.T) {
	bin := NewBin(0, NewBinModelDims("van", 2, 2, 2, 100))
	it := NewItemDims("box", 1, 1, 1, 5, 2)
	require.True(t, bin.PutItem(it, space.Vec(0, 0, 0), 3, nil))

	clone := it.Clone()
	assert.Equal(t, it.ID, clone.ID)
	assert.Equal(t, it.Priority, clone.Priority)
	assert.False(t, clone.Placed())
	assert.Equal(t, 0, clone.Rotation())
	assert.True(t, clone.Dimensions().Equal(it.OriginalDimensions()))
}
