package constraint

import (
	"github.com/shopspring/decimal"

	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/space"
)

// Built-in constraint names.
const (
	WeightWithinLimit       = "weight_within_limit"
	FitsInsideBin           = "fits_inside_bin"
	NoOverlap               = "no_overlap"
	IsSupported             = "is_supported"
	MaintainCenterOfGravity = "maintain_center_of_gravity"
)

// DefaultNames returns the five built-in constraint names in evaluation order.
func DefaultNames() []string {
	return []string{WeightWithinLimit, FitsInsideBin, NoOverlap, IsSupported, MaintainCenterOfGravity}
}

func init() {
	Register(New(WeightWithinLimit, 5, checkWeightWithinLimit))
	Register(New(FitsInsideBin, 10, checkFitsInsideBin))
	Register(New(NoOverlap, 15, checkNoOverlap))

	supported := New(IsSupported, 20, checkIsSupported)
	supported.SetParameter("minimum_support", decimal.NewFromFloat(0.75))
	Register(supported)

	cog := New(MaintainCenterOfGravity, 25, checkCenterOfGravity)
	cog.SetParameter("tol_x_percent", decimal.NewFromFloat(0.2))
	cog.SetParameter("tol_z_percent", decimal.NewFromFloat(0.2))
	cog.SetParameter("progressive_tightening", decimal.NewFromFloat(0.7))
	Register(cog)
}

func checkWeightWithinLimit(b *model.Bin, it *model.Item, _ Params) bool {
	return b.Weight.Add(it.Weight).LessThanOrEqual(b.MaxWeight())
}

// checkFitsInsideBin accepts items flush against the walls: the far face may
// coincide with the bin boundary.
func checkFitsInsideBin(b *model.Bin, it *model.Item, _ Params) bool {
	for _, axis := range []space.Axis{space.AxisX, space.AxisY, space.AxisZ} {
		pos := it.Position().Component(axis)
		if pos.IsNegative() {
			return false
		}
		if pos.Add(it.Dimensions().Component(axis)).GreaterThan(b.Model.Size.Component(axis)) {
			return false
		}
	}
	return true
}

func checkNoOverlap(b *model.Bin, it *model.Item, _ Params) bool {
	bounds := it.Bounds()
	for _, existing := range b.Items {
		if existing == it {
			continue
		}
		if space.Intersect(existing.Bounds(), bounds) {
			return false
		}
	}
	return true
}

// checkIsSupported accepts floor placements unconditionally. Above the
// floor, the combined X-Z contact area with the top faces of items whose top
// exactly matches the item's base level must cover at least minimum_support
// of the base area. The exact top-face match is reliable because every
// stored coordinate is quantized.
func checkIsSupported(b *model.Bin, it *model.Item, p Params) bool {
	baseY := it.Position().Y
	if baseY.IsZero() {
		return true
	}
	minSupport := p.Get("minimum_support", decimal.NewFromFloat(0.75))

	bounds := it.Bounds()
	contact := decimal.Zero
	for _, existing := range b.Items {
		if existing == it {
			continue
		}
		top := existing.Position().Y.Add(existing.Height())
		if !top.Equal(baseY) {
			continue
		}
		contact = contact.Add(space.RectOverlap(existing.Bounds(), bounds, space.AxisX, space.AxisZ))
	}
	baseArea := it.Width().Mul(it.Depth())
	return contact.GreaterThanOrEqual(baseArea.Mul(minSupport))
}

// checkCenterOfGravity keeps the hypothetical center of gravity of the
// loaded bin inside a tolerance window around the target point
// (width/2, depth*0.4). The window tightens progressively as the bin
// approaches its weight cap. When the current load already drifts past half
// the window on an axis, placements that widen that axis's deviation are
// rejected regardless of the window (corrective bias).
func checkCenterOfGravity(b *model.Bin, it *model.Item, p Params) bool {
	tolXPercent := p.Get("tol_x_percent", decimal.NewFromFloat(0.2))
	tolZPercent := p.Get("tol_z_percent", decimal.NewFromFloat(0.2))
	tightening := p.Get("progressive_tightening", decimal.NewFromFloat(0.7))

	targetX := b.Width().Div(decimal.NewFromInt(2))
	targetZ := b.Depth().Mul(decimal.NewFromFloat(0.4))

	newWeight := b.Weight.Add(it.Weight)
	loadRatio := decimal.NewFromInt(1)
	if b.MaxWeight().IsPositive() {
		loadRatio = newWeight.Div(b.MaxWeight())
	}
	loadRatio = decimal.Min(decimal.Max(loadRatio, decimal.Zero), decimal.NewFromInt(1))

	factor := decimal.NewFromInt(1).Sub(tightening.Mul(loadRatio))
	tolX := tolXPercent.Mul(b.Width()).Mul(factor)
	tolZ := tolZPercent.Mul(b.Depth()).Mul(factor)

	// Hypothetical CoG after adding the item (incremental weighted update).
	itemCenter := it.Bounds().Center()
	var hypoX, hypoZ decimal.Decimal
	if len(b.Items) == 0 || newWeight.IsZero() {
		hypoX, hypoZ = itemCenter.X, itemCenter.Z
	} else {
		cur := b.CenterOfGravity()
		hypoX = cur.X.Mul(b.Weight).Add(itemCenter.X.Mul(it.Weight)).Div(newWeight)
		hypoZ = cur.Z.Mul(b.Weight).Add(itemCenter.Z.Mul(it.Weight)).Div(newWeight)
	}
	hypoDevX := hypoX.Sub(targetX).Abs()
	hypoDevZ := hypoZ.Sub(targetZ).Abs()

	// Corrective bias only applies once the bin carries load; an empty bin
	// has no deviation to correct.
	if len(b.Items) > 0 && b.Weight.IsPositive() {
		cur := b.CenterOfGravity()
		curDevX := cur.X.Sub(targetX).Abs()
		curDevZ := cur.Z.Sub(targetZ).Abs()
		two := decimal.NewFromInt(2)
		if curDevX.GreaterThan(tolX.Div(two)) && hypoDevX.GreaterThan(curDevX) {
			return false
		}
		if curDevZ.GreaterThan(tolZ.Div(two)) && hypoDevZ.GreaterThan(curDevZ) {
			return false
		}
	}

	return hypoDevX.LessThanOrEqual(tolX) && hypoDevZ.LessThanOrEqual(tolZ)
}
