package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/space"
)

// BinModel is an immutable template describing a cargo area.
type BinModel struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Size      space.Vector3   `json:"size"`
	MaxWeight decimal.Decimal `json:"max_weight"`
}

// NewBinModel creates a bin model from a size vector.
func NewBinModel(name string, size space.Vector3, maxWeight decimal.Decimal) BinModel {
	return BinModel{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Size:      size.Requantize(),
		MaxWeight: space.Quantize(maxWeight),
	}
}

// NewBinModelDims creates a bin model from float64 dimensions.
func NewBinModelDims(name string, w, h, d, maxWeight float64) BinModel {
	return NewBinModel(name, space.Vec(w, h, d), decimal.NewFromFloat(maxWeight))
}

// Volume returns the capacity of the cargo area.
func (m BinModel) Volume() decimal.Decimal { return m.Size.Product() }

// Requantize re-rounds the model's scalars to the current precision.
func (m BinModel) Requantize() BinModel {
	m.Size = m.Size.Requantize()
	m.MaxWeight = space.Quantize(m.MaxWeight)
	return m
}

func (m BinModel) String() string {
	return fmt.Sprintf("%s(%sx%sx%s, max_weight:%s)", m.Name, m.Size.X, m.Size.Y, m.Size.Z, m.MaxWeight)
}

// Constraint is a named, weighted predicate over a bin and an item under
// trial. Constraints are evaluated in ascending weight order so cheap tests
// short-circuit expensive ones.
type Constraint interface {
	Name() string
	Weight() int
	Check(b *Bin, it *Item) bool
}

// Bin is a loadable instance of a BinModel. Items holds placed items in
// insertion order; the order is observable and used by the placers.
type Bin struct {
	ID     int
	Model  BinModel
	Items  []*Item
	Weight decimal.Decimal
}

// NewBin creates an empty bin backed by the given model.
func NewBin(id int, m BinModel) *Bin {
	return &Bin{ID: id, Model: m, Weight: decimal.Zero}
}

// Width returns the X extent of the cargo area.
func (b *Bin) Width() decimal.Decimal { return b.Model.Size.X }

// Height returns the Y extent of the cargo area.
func (b *Bin) Height() decimal.Decimal { return b.Model.Size.Y }

// Depth returns the Z extent of the cargo area.
func (b *Bin) Depth() decimal.Decimal { return b.Model.Size.Z }

// MaxWeight returns the weight cap of the cargo area.
func (b *Bin) MaxWeight() decimal.Decimal { return b.Model.MaxWeight }

func (b *Bin) String() string {
	return fmt.Sprintf("Bin %d of model %s: loaded items %d", b.ID, b.Model.Name, len(b.Items))
}

// check assigns the proposed placement to it and runs the constraint chain
// in ascending weight order. The caller owns restoring or committing the
// item's state.
func (b *Bin) check(it *Item, pos space.Vector3, rotation int, constraints []Constraint) bool {
	it.position = pos.Requantize()
	it.SetRotation(rotation)
	it.placed = true
	for _, c := range sortedByWeight(constraints) {
		if !c.Check(b, it) {
			return false
		}
	}
	return true
}

// Fits reports whether the item could be placed at the proposed position and
// rotation without violating any constraint. The item's observable state is
// unchanged on return.
func (b *Bin) Fits(it *Item, pos space.Vector3, rotation int, constraints []Constraint) bool {
	prev := it.saveState()
	ok := b.check(it, pos, rotation, constraints)
	it.restoreState(prev)
	return ok
}

// PutItem places the item at the proposed position and rotation if every
// constraint accepts it. On success the item is appended to the bin and the
// bin weight updated. On failure the item's position and dimensions are
// restored to their values at entry and the bin is unchanged.
func (b *Bin) PutItem(it *Item, pos space.Vector3, rotation int, constraints []Constraint) bool {
	prev := it.saveState()
	if !b.check(it, pos, rotation, constraints) {
		it.restoreState(prev)
		return false
	}
	b.Items = append(b.Items, it)
	b.Weight = space.Quantize(b.Weight.Add(it.Weight))
	return true
}

// RemoveItem removes the item from the bin, returning false if it was not
// there. The item becomes unplaced.
func (b *Bin) RemoveItem(it *Item) bool {
	for i, existing := range b.Items {
		if existing == it {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			b.Weight = space.Quantize(b.Weight.Sub(it.Weight))
			it.placed = false
			it.position = space.Zero()
			return true
		}
	}
	return false
}

// CenterOfGravity returns the weight-weighted mean of the geometric centers
// of the loaded items. An empty bin reports its own geometric center.
func (b *Bin) CenterOfGravity() space.Vector3 {
	if b.Weight.IsZero() || len(b.Items) == 0 {
		return b.Model.Size.Half()
	}
	momentX := decimal.Zero
	momentY := decimal.Zero
	momentZ := decimal.Zero
	for _, it := range b.Items {
		center := it.Bounds().Center()
		momentX = momentX.Add(center.X.Mul(it.Weight))
		momentY = momentY.Add(center.Y.Mul(it.Weight))
		momentZ = momentZ.Add(center.Z.Mul(it.Weight))
	}
	return space.NewVector3(
		momentX.Div(b.Weight),
		momentY.Div(b.Weight),
		momentZ.Div(b.Weight),
	)
}

// sortedByWeight returns the constraints ordered by ascending weight.
// The input slice is not modified; ties keep their given order.
func sortedByWeight(constraints []Constraint) []Constraint {
	if len(constraints) < 2 {
		return constraints
	}
	needsSort := false
	for i := 1; i < len(constraints); i++ {
		if constraints[i].Weight() < constraints[i-1].Weight() {
			needsSort = true
			break
		}
	}
	if !needsSort {
		return constraints
	}
	out := make([]Constraint, len(constraints))
	copy(out, constraints)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Weight() < out[j-1].Weight(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
