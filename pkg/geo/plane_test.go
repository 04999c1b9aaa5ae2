package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaneOrthogonalization(t *testing.T) {
	// skewed y axis gets re-orthogonalized against x
	p := NewPlane(NewPoint(0, 0, 0), NewVector(1, 0, 0), NewVector(1, 1, 0))
	assert.InDelta(t, 0.0, p.XAxisVec().Dot(p.YAxisVec()), 1e-12)
	assert.InDelta(t, 1.0, p.ZAxisVec().Z(), 1e-12)
	assert.True(t, p.IsRightHand())
}

func TestPlaneEquation(t *testing.T) {
	p := NewPlane(NewPoint(0, 0, 5), NewVector(1, 0, 0), NewVector(0, 1, 0))
	assert.InDelta(t, 0.0, p.A(), 1e-12)
	assert.InDelta(t, 0.0, p.B(), 1e-12)
	assert.InDelta(t, 1.0, p.C(), 1e-12)
	assert.InDelta(t, -5.0, p.D(), 1e-12)
}

func TestPlaneFromPointNormal(t *testing.T) {
	p := PlaneFromPointNormal(NewPoint(1, 1, 1), NewVector(0, 0, 2))
	assert.InDelta(t, 1.0, p.ZAxisVec().Z(), 1e-12)
	assert.InDelta(t, 0.0, p.XAxisVec().Dot(p.ZAxisVec()), 1e-12)
	assert.InDelta(t, 0.0, p.YAxisVec().Dot(p.ZAxisVec()), 1e-12)
}

func TestPlaneFromPoints(t *testing.T) {
	p := PlaneFromPoints([]*Point{
		NewPoint(0, 0, 2),
		NewPoint(1, 0, 2),
		NewPoint(0, 1, 2),
	})
	assert.InDelta(t, 1.0, math.Abs(p.ZAxisVec().Z()), 1e-12)

	// fewer than three points falls back to the default frame
	fallback := PlaneFromPoints([]*Point{NewPoint(0, 0, 0)})
	assert.InDelta(t, 1.0, fallback.ZAxisVec().Z(), 1e-12)
}

func TestPlaneReverse(t *testing.T) {
	p := XYPlane()
	p.Reverse()
	assert.InDelta(t, -1.0, p.ZAxisVec().Z(), 1e-12)
	assert.InDelta(t, 0.0, p.D(), 1e-12)
}

func TestPlaneRotate(t *testing.T) {
	p := XYPlane()
	p.Rotate(math.Pi / 2)
	assert.InDelta(t, 0.0, p.XAxisVec().X(), 1e-12)
	assert.InDelta(t, 1.0, p.XAxisVec().Y(), 1e-12)
	// normal unchanged
	assert.InDelta(t, 1.0, p.ZAxisVec().Z(), 1e-12)
}

func TestPlaneCoplanar(t *testing.T) {
	a := XYPlane()
	b := XYPlane()
	assert.True(t, IsCoplanar(a, b, false))

	flipped := XYPlane()
	flipped.Reverse()
	assert.False(t, IsCoplanar(a, flipped, false))
	assert.True(t, IsCoplanar(a, flipped, true))

	shifted := XYPlane()
	shifted.AddVector(NewVector(0, 0, 1))
	assert.False(t, IsCoplanar(a, shifted, false))
}

func TestPlaneTranslateByNormal(t *testing.T) {
	p := XYPlane()
	moved := p.TranslateByNormal(3.0)
	assert.InDelta(t, 3.0, moved.Origin().Z(), 1e-12)
	assert.InDelta(t, -3.0, moved.D(), 1e-12)
}

func TestPlaneJSONRoundTrip(t *testing.T) {
	p := NewPlane(NewPoint(1, 2, 3), NewVector(0, 1, 0), NewVector(0, 0, 1))
	data, err := JSONDumps(p, true)
	require.NoError(t, err)
	assert.Contains(t, data, `"type": "Plane"`)

	var got Plane
	require.NoError(t, JSONLoads(data, &got))
	assert.Equal(t, p.GUID, got.GUID)
	assert.True(t, p.Origin().Equals(got.Origin()))
	assert.InDelta(t, p.D(), got.D(), 1e-12)
}
