package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointDefaults(t *testing.T) {
	p := NewPoint(1, 2, 3)
	assert.Equal(t, "my_point", p.Name)
	assert.NotEmpty(t, p.GUID)
	assert.Equal(t, 1.0, p.Width)
	require.NotNil(t, p.PointColor)
	require.NotNil(t, p.Xform)
	assert.True(t, p.Xform.IsIdentity())
}

func TestPointDistance(t *testing.T) {
	a := NewPoint(0, 0, 0)
	b := NewPoint(3, 4, 0)
	assert.InDelta(t, 5.0, a.Distance(b), 1e-12)
	assert.InDelta(t, 0.0, a.Distance(a.Clone()), 1e-12)

	// dominant axis can be any of the three
	c := NewPoint(0, 0, -7)
	assert.InDelta(t, 7.0, a.Distance(c), 1e-12)
}

func TestPointMidPointAndArithmetic(t *testing.T) {
	a := NewPoint(0, 0, 0)
	b := NewPoint(2, 4, 6)
	mid := a.MidPoint(b)
	assert.Equal(t, 1.0, mid.X())
	assert.Equal(t, 2.0, mid.Y())
	assert.Equal(t, 3.0, mid.Z())

	v := b.Sub(a)
	assert.Equal(t, 2.0, v.X())
	moved := a.AddVector(v)
	assert.True(t, moved.Equals(b))
}

func TestPointEqualsIgnoresGUID(t *testing.T) {
	a := NewPoint(1.0000001, 2, 3)
	b := NewPoint(1.0000002, 2, 3)
	// differences below micro scale collapse after rounding
	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(NewPoint(1.001, 2, 3)))

	c := NewPoint(1, 2, 3)
	d := NewPoint(1, 2, 3)
	assert.NotEqual(t, c.GUID, d.GUID)
	assert.True(t, c.Equals(d))

	d.Name = "other"
	assert.False(t, c.Equals(d))
}

func TestPointTransform(t *testing.T) {
	p := NewPoint(1, 0, 0)
	p.Xform = Translation(2, 3, 4)
	p.Transform()
	assert.InDelta(t, 3.0, p.X(), 1e-12)
	assert.InDelta(t, 3.0, p.Y(), 1e-12)
	assert.InDelta(t, 4.0, p.Z(), 1e-12)
	assert.True(t, p.Xform.IsIdentity())
}

func TestCCW(t *testing.T) {
	a := NewPoint(0, 0, 0)
	b := NewPoint(1, 0, 0)
	c := NewPoint(1, 1, 0)
	assert.True(t, CCW(a, b, c))
	assert.False(t, CCW(a, c, b))
}

func TestArea(t *testing.T) {
	square := []*Point{
		NewPoint(0, 0, 0),
		NewPoint(2, 0, 0),
		NewPoint(2, 2, 0),
		NewPoint(0, 2, 0),
	}
	assert.InDelta(t, 4.0, Area(square), 1e-12)
}

func TestCentroidQuad(t *testing.T) {
	quad := []*Point{
		NewPoint(0, 0, 0),
		NewPoint(2, 0, 0),
		NewPoint(2, 2, 0),
		NewPoint(0, 2, 0),
	}
	centroid, err := CentroidQuad(quad)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, centroid.X(), 1e-12)
	assert.InDelta(t, 1.0, centroid.Y(), 1e-12)

	_, err = CentroidQuad(quad[:3])
	require.Error(t, err)
}

func TestPointJSONRoundTrip(t *testing.T) {
	p := NewPoint(-1.5, 0.25, 9)
	p.Name = "anchor"
	p.PointColor = Red()

	data, err := JSONDumps(p, true)
	require.NoError(t, err)
	assert.Contains(t, data, `"type": "Point"`)

	var got Point
	require.NoError(t, JSONLoads(data, &got))
	assert.True(t, p.Equals(&got))
	assert.Equal(t, p.GUID, got.GUID)
}
