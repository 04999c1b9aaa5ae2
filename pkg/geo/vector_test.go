package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorMagnitudeCached(t *testing.T) {
	v := NewVector(3, 4, 0)
	require.InDelta(t, 5.0, v.Magnitude(), 1e-12)

	// mutating a component invalidates the cache
	v.SetX(0)
	require.InDelta(t, 4.0, v.Magnitude(), 1e-12)
}

func TestVectorNormalize(t *testing.T) {
	v := NewVector(0, 0, 10)
	n := v.Normalize()
	assert.InDelta(t, 1.0, n.Magnitude(), 1e-12)
	assert.InDelta(t, 1.0, n.Z(), 1e-12)

	zero := NewVector(0, 0, 0)
	zero.NormalizeSelf()
	assert.Equal(t, 0.0, zero.Magnitude())
}

func TestVectorCrossAndDot(t *testing.T) {
	x := XAxis()
	y := YAxis()
	z := x.Cross(y)
	assert.InDelta(t, 0.0, z.X(), 1e-12)
	assert.InDelta(t, 0.0, z.Y(), 1e-12)
	assert.InDelta(t, 1.0, z.Z(), 1e-12)
	assert.InDelta(t, 0.0, x.Dot(y), 1e-12)
}

func TestVectorAngle(t *testing.T) {
	a := NewVector(1, 0, 0)
	b := NewVector(0, 1, 0)
	assert.InDelta(t, 90.0, a.Angle(b, false), 1e-9)

	// sign flips when the cross product points down
	assert.InDelta(t, -90.0, b.Angle(a, true), 1e-9)
}

func TestVectorIsParallelTo(t *testing.T) {
	a := NewVector(1, 2, 3)
	same := NewVector(2, 4, 6)
	opposite := NewVector(-1, -2, -3)
	skew := NewVector(1, 0, 0)

	assert.Equal(t, 1, a.IsParallelTo(same))
	assert.Equal(t, -1, a.IsParallelTo(opposite))
	assert.Equal(t, 0, a.IsParallelTo(skew))
}

func TestVectorProjection(t *testing.T) {
	v := NewVector(3, 4, 0)
	onto := NewVector(1, 0, 0)
	proj, projLen, perp, perpLen := v.Projection(onto)
	require.NotNil(t, proj)
	assert.InDelta(t, 3.0, projLen, 1e-12)
	assert.InDelta(t, 3.0, proj.X(), 1e-12)
	assert.InDelta(t, 4.0, perpLen, 1e-12)
	assert.InDelta(t, 4.0, perp.Y(), 1e-12)
}

func TestVectorPerpendicularTo(t *testing.T) {
	axes := []*Vector{
		NewVector(0, 0, 1),
		NewVector(0, 1, 0),
		NewVector(1, 0, 0),
		NewVector(1, 2, 3),
		NewVector(-4, 0.5, 2),
	}
	for _, axis := range axes {
		perp := ZeroVector()
		require.True(t, perp.PerpendicularTo(axis))
		assert.InDelta(t, 0.0, perp.Dot(axis), 1e-12)
		assert.Greater(t, perp.Magnitude(), 0.0)
	}
}

func TestVectorCoordinateDirectionAngles(t *testing.T) {
	v := NewVector(1, 1, math.Sqrt2)
	angles := v.CoordinateDirection3Angles(true)
	assert.InDelta(t, 60.0, angles[0], 1e-9)
	assert.InDelta(t, 60.0, angles[1], 1e-9)
	assert.InDelta(t, 45.0, angles[2], 1e-9)
}

func TestCosineAndSineLaw(t *testing.T) {
	// 3-4-5 right triangle
	c := CosineLaw(3, 4, 90, true)
	assert.InDelta(t, 5.0, c, 1e-9)

	angle := SineLawAngle(5, 90, 3, true)
	assert.InDelta(t, math.Asin(3.0/5.0)*ToDegrees, angle, 1e-9)

	length := SineLawLength(5, 90, angle, true)
	assert.InDelta(t, 3.0, length, 1e-9)
}

func TestVectorJSONRoundTrip(t *testing.T) {
	v := NewVector(1.5, -2.25, 3.125)
	v.Name = "direction"

	data, err := JSONDumps(v, true)
	require.NoError(t, err)
	assert.Contains(t, data, `"type": "Vector"`)

	var got Vector
	require.NoError(t, JSONLoads(data, &got))
	assert.Equal(t, v.GUID, got.GUID)
	assert.Equal(t, "direction", got.Name)
	assert.Equal(t, v.X(), got.X())
	assert.Equal(t, v.Y(), got.Y())
	assert.Equal(t, v.Z(), got.Z())
}
