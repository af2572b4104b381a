// Package model defines the load-planning domain: parcels, bin models,
// loadable bins, and the pack result types.
package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/space"
)

// OrientationCount is the number of axis-aligned orientations enumerated by
// the placers: 3 choices of which original dimension becomes the X axis,
// times 2 horizontal swaps, times 2 vertical swaps.
const OrientationCount = 12

// OrientationDims returns the dimensions of an item in rotation state r,
// given its original dimensions. States are produced deterministically and
// in a fixed order; r must be in [0, OrientationCount).
func OrientationDims(original space.Vector3, r int) space.Vector3 {
	if r < 0 || r >= OrientationCount {
		panic(fmt.Sprintf("model: rotation state %d out of range", r))
	}
	comps := [3]decimal.Decimal{original.X, original.Y, original.Z}

	xAxis := r / 4
	swap := (r / 2) % 2
	mirror := r % 2

	// The two components not mapped to X, in original order.
	var rest [2]decimal.Decimal
	k := 0
	for i := 0; i < 3; i++ {
		if i != xAxis {
			rest[k] = comps[i]
			k++
		}
	}
	y, z := rest[0], rest[1]
	if swap == 1 {
		y, z = z, y
	}
	if mirror == 1 {
		y, z = z, y
	}
	return space.Vector3{X: comps[xAxis], Y: y, Z: z}
}

// Item is a parcel to load. Its position is meaningful only while placed;
// dimensions always equal one of the 12 orientations of the original
// dimensions.
type Item struct {
	ID       string
	Name     string
	Weight   decimal.Decimal
	Priority int

	original space.Vector3
	dims     space.Vector3
	position space.Vector3
	placed   bool
	rotation int
}

// NewItem creates an unplaced parcel with a short unique ID.
func NewItem(name string, size space.Vector3, weight decimal.Decimal, priority int) *Item {
	return &Item{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Weight:   space.Quantize(weight),
		Priority: priority,
		original: size.Requantize(),
		dims:     size.Requantize(),
	}
}

// NewItemDims creates an unplaced parcel from float64 dimensions.
func NewItemDims(name string, w, h, d, weight float64, priority int) *Item {
	return NewItem(name, space.Vec(w, h, d), decimal.NewFromFloat(weight), priority)
}

// Dimensions returns the current (possibly rotated) dimensions.
func (it *Item) Dimensions() space.Vector3 { return it.dims }

// OriginalDimensions returns the dimensions at construction.
func (it *Item) OriginalDimensions() space.Vector3 { return it.original }

// Position returns the bin-local position of the near-left-bottom corner.
// Only meaningful while Placed is true.
func (it *Item) Position() space.Vector3 { return it.position }

// Placed reports whether the item currently occupies a bin.
func (it *Item) Placed() bool { return it.placed }

// Rotation returns the current rotation state in [0, OrientationCount).
func (it *Item) Rotation() int { return it.rotation }

// Width returns the current X extent.
func (it *Item) Width() decimal.Decimal { return it.dims.X }

// Height returns the current Y extent.
func (it *Item) Height() decimal.Decimal { return it.dims.Y }

// Depth returns the current Z extent.
func (it *Item) Depth() decimal.Decimal { return it.dims.Z }

// Volume returns the volumetric occupation of the item.
func (it *Item) Volume() decimal.Decimal { return it.dims.Product() }

// Bounds returns the box occupied by the item at its current placement.
func (it *Item) Bounds() space.Volume {
	return space.Volume{Position: it.position, Size: it.dims}
}

// SetRotation puts the item into rotation state r.
func (it *Item) SetRotation(r int) {
	it.dims = OrientationDims(it.original, r)
	it.rotation = r
}

// Requantize re-rounds the item's stored scalars to the current precision.
func (it *Item) Requantize() {
	it.original = it.original.Requantize()
	it.dims = it.dims.Requantize()
	it.position = it.position.Requantize()
	it.Weight = space.Quantize(it.Weight)
}

// Clone returns an unplaced copy of the item with the same identity,
// original dimensions, weight, and priority.
func (it *Item) Clone() *Item {
	return &Item{
		ID:       it.ID,
		Name:     it.Name,
		Weight:   it.Weight,
		Priority: it.Priority,
		original: it.original,
		dims:     it.original,
	}
}

func (it *Item) String() string {
	return fmt.Sprintf("%s(%sx%sx%s, weight:%s, pri:%d)",
		it.Name, it.dims.X, it.dims.Y, it.dims.Z, it.Weight, it.Priority)
}

// placementState snapshots the externally observable placement state so a
// failed PutItem can restore it exactly.
type placementState struct {
	position space.Vector3
	dims     space.Vector3
	rotation int
	placed   bool
}

func (it *Item) saveState() placementState {
	return placementState{position: it.position, dims: it.dims, rotation: it.rotation, placed: it.placed}
}

func (it *Item) restoreState(s placementState) {
	it.position = s.position
	it.dims = s.dims
	it.rotation = s.rotation
	it.placed = s.placed
}
