package space

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize_BankersRounding(t *testing.T) {
	SetPrecision(3)
	defer SetPrecision(DefaultPrecision)

	// Ties round to even.
	assert.Equal(t, "2.002", Quantize(decimal.RequireFromString("2.0015")).String())
	assert.Equal(t, "2", Quantize(decimal.RequireFromString("2.0005")).StringFixed(0))
	assert.True(t, Quantize(decimal.RequireFromString("2.0005")).Equal(decimal.RequireFromString("2.000")))
	assert.Equal(t, "1.235", Quantize(decimal.RequireFromString("1.23456")).String())
}

func TestSetPrecision_AffectsVec(t *testing.T) {
	SetPrecision(1)
	defer SetPrecision(DefaultPrecision)

	v := Vec(1.26, 0, 0)
	assert.Equal(t, "1.3", v.X.String())
}

func TestVector3_ComponentAccess(t *testing.T) {
	v := Vec(1, 2, 3)
	assert.True(t, v.Component(AxisX).Equal(decimal.NewFromInt(1)))
	assert.True(t, v.Component(AxisY).Equal(decimal.NewFromInt(2)))
	assert.True(t, v.Component(AxisZ).Equal(decimal.NewFromInt(3)))

	w := v.WithComponent(AxisY, decimal.NewFromInt(9))
	assert.True(t, w.Y.Equal(decimal.NewFromInt(9)))
	// Original is unchanged.
	assert.True(t, v.Y.Equal(decimal.NewFromInt(2)))
}

func TestVector3_AddAndHalf(t *testing.T) {
	v := Vec(1, 2, 3).Add(Vec(0.5, 0.5, 0.5))
	assert.True(t, v.Equal(Vec(1.5, 2.5, 3.5)))

	h := Vec(3, 1, 5).Half()
	assert.True(t, h.Equal(Vec(1.5, 0.5, 2.5)))
}

func TestIntersect_Overlapping(t *testing.T) {
	a := Volume{Position: Vec(0, 0, 0), Size: Vec(2, 2, 2)}
	b := Volume{Position: Vec(1, 1, 1), Size: Vec(2, 2, 2)}
	assert.True(t, Intersect(a, b))
	assert.True(t, Intersect(b, a))
}

func TestIntersect_TouchingFacesDoNotIntersect(t *testing.T) {
	// Strict AABB: two unit cubes sharing a face are not overlapping.
	a := Volume{Position: Vec(0, 0, 0), Size: Vec(1, 1, 1)}
	b := Volume{Position: Vec(1, 0, 0), Size: Vec(1, 1, 1)}
	assert.False(t, Intersect(a, b))
	assert.False(t, Intersect(b, a))
}

func TestIntersect_SeparatedOnOneAxis(t *testing.T) {
	a := Volume{Position: Vec(0, 0, 0), Size: Vec(1, 1, 1)}
	b := Volume{Position: Vec(0.5, 5, 0.5), Size: Vec(1, 1, 1)}
	assert.False(t, Intersect(a, b))
}

func TestRectOverlap_Area(t *testing.T) {
	a := Volume{Position: Vec(0, 0, 0), Size: Vec(1, 1, 1)}
	b := Volume{Position: Vec(0.8, 1, 0), Size: Vec(1, 1, 1)}

	// X overlap is 0.2, Z overlap is 1.0.
	area := RectOverlap(a, b, AxisX, AxisZ)
	require.True(t, area.Equal(decimal.RequireFromString("0.2")), "got %s", area)
}

func TestRectOverlap_TouchingEdgesIsZero(t *testing.T) {
	a := Volume{Position: Vec(0, 0, 0), Size: Vec(1, 1, 1)}
	b := Volume{Position: Vec(1, 0, 0), Size: Vec(1, 1, 1)}
	assert.True(t, RectOverlap(a, b, AxisX, AxisZ).IsZero())
}

func TestVolume_CapacityAndCenter(t *testing.T) {
	v := Volume{Position: Vec(1, 0, 1), Size: Vec(2, 4, 2)}
	assert.True(t, v.Capacity().Equal(decimal.NewFromInt(16)))
	assert.True(t, v.Center().Equal(Vec(2, 2, 2)))
}
