// Package space provides the geometric primitives for 3D load planning:
// exact-decimal vectors, axis-aligned volumes, and intersection tests.
//
// All scalar values are quantized to a configurable number of fractional
// digits using banker's rounding. The support predicate relies on exact
// equality of Y levels, so raw floating point never enters a comparison.
package space

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Axis identifies one of the three coordinate axes.
// X runs left to right (width), Y floor to ceiling (height),
// Z front to back (depth).
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// DefaultPrecision is the number of fractional digits kept when no other
// precision has been configured.
const DefaultPrecision int32 = 3

var precision = DefaultPrecision

// SetPrecision sets the process-wide number of fractional digits.
// All subsequently quantized values are rounded to this many digits.
func SetPrecision(digits int32) {
	if digits < 0 {
		digits = 0
	}
	precision = digits
}

// Precision returns the currently configured number of fractional digits.
func Precision() int32 {
	return precision
}

// Quantize rounds d to the configured precision using banker's rounding.
func Quantize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(precision)
}

// Dec converts a float64 to a quantized decimal scalar.
func Dec(f float64) decimal.Decimal {
	return Quantize(decimal.NewFromFloat(f))
}

// Vector3 is a point or size in bin-local coordinates.
type Vector3 struct {
	X decimal.Decimal `json:"x"`
	Y decimal.Decimal `json:"y"`
	Z decimal.Decimal `json:"z"`
}

// NewVector3 builds a vector from decimal components, quantizing each.
func NewVector3(x, y, z decimal.Decimal) Vector3 {
	return Vector3{X: Quantize(x), Y: Quantize(y), Z: Quantize(z)}
}

// Vec builds a vector from float64 components, quantizing each.
func Vec(x, y, z float64) Vector3 {
	return NewVector3(decimal.NewFromFloat(x), decimal.NewFromFloat(y), decimal.NewFromFloat(z))
}

// Zero returns the origin vector.
func Zero() Vector3 {
	return Vector3{X: decimal.Zero, Y: decimal.Zero, Z: decimal.Zero}
}

// Component returns the scalar on the given axis.
func (v Vector3) Component(a Axis) decimal.Decimal {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// WithComponent returns a copy of v with the scalar on the given axis replaced.
func (v Vector3) WithComponent(a Axis, val decimal.Decimal) Vector3 {
	switch a {
	case AxisX:
		v.X = Quantize(val)
	case AxisY:
		v.Y = Quantize(val)
	default:
		v.Z = Quantize(val)
	}
	return v
}

// Add returns the component-wise sum of v and o.
func (v Vector3) Add(o Vector3) Vector3 {
	return NewVector3(v.X.Add(o.X), v.Y.Add(o.Y), v.Z.Add(o.Z))
}

// Half returns v with every component halved.
func (v Vector3) Half() Vector3 {
	two := decimal.NewFromInt(2)
	return NewVector3(v.X.Div(two), v.Y.Div(two), v.Z.Div(two))
}

// Product returns X*Y*Z. For a size vector this is the enclosed volume.
func (v Vector3) Product() decimal.Decimal {
	return v.X.Mul(v.Y).Mul(v.Z)
}

// Equal reports whether both vectors have equal components.
func (v Vector3) Equal(o Vector3) bool {
	return v.X.Equal(o.X) && v.Y.Equal(o.Y) && v.Z.Equal(o.Z)
}

// Requantize re-rounds every component to the current precision.
// Used when the precision changes between pack runs.
func (v Vector3) Requantize() Vector3 {
	return NewVector3(v.X, v.Y, v.Z)
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", v.X, v.Y, v.Z)
}

// Volume is an axis-aligned box: a size anchored at a position.
// The position is the near-left-bottom corner.
type Volume struct {
	Position Vector3 `json:"position"`
	Size     Vector3 `json:"size"`
}

// Capacity returns the volumetric occupation of the box.
func (v Volume) Capacity() decimal.Decimal {
	return v.Size.Product()
}

// Center returns the geometric center of the box.
func (v Volume) Center() Vector3 {
	return v.Position.Add(v.Size.Half())
}

// Intersect reports whether two boxes overlap. The test is strict on every
// axis: boxes that merely touch faces do not intersect.
func Intersect(a, b Volume) bool {
	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		p1 := a.Position.Component(axis)
		p2 := b.Position.Component(axis)
		s1 := a.Size.Component(axis)
		s2 := b.Size.Component(axis)
		if !(p1.LessThan(p2.Add(s2)) && p2.LessThan(p1.Add(s1))) {
			return false
		}
	}
	return true
}

// RectOverlap returns the overlap area of the two boxes projected on the
// plane spanned by the given axes. Zero means no overlap (touching edges
// included).
func RectOverlap(a, b Volume, ax1, ax2 Axis) decimal.Decimal {
	o1 := axisOverlap(a, b, ax1)
	o2 := axisOverlap(a, b, ax2)
	return o1.Mul(o2)
}

func axisOverlap(a, b Volume, axis Axis) decimal.Decimal {
	lo := decimal.Max(a.Position.Component(axis), b.Position.Component(axis))
	hi := decimal.Min(
		a.Position.Component(axis).Add(a.Size.Component(axis)),
		b.Position.Component(axis).Add(b.Size.Component(axis)),
	)
	if hi.LessThanOrEqual(lo) {
		return decimal.Zero
	}
	return hi.Sub(lo)
}
