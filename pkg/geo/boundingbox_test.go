package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxFromPoints(t *testing.T) {
	points := []*Point{
		NewPoint(0, 0, 0),
		NewPoint(4, 2, 6),
		NewPoint(2, -2, 3),
	}
	box := BoundingBoxFromPoints(points, 0.0)
	assert.InDelta(t, 2.0, box.Center.X(), 1e-12)
	assert.InDelta(t, 0.0, box.Center.Y(), 1e-12)
	assert.InDelta(t, 3.0, box.Center.Z(), 1e-12)
	assert.InDelta(t, 2.0, box.HalfSize.X(), 1e-12)
	assert.InDelta(t, 2.0, box.HalfSize.Y(), 1e-12)
	assert.InDelta(t, 3.0, box.HalfSize.Z(), 1e-12)

	inflated := BoundingBoxFromPoints(points, 0.5)
	assert.InDelta(t, 2.5, inflated.HalfSize.X(), 1e-12)

	assert.InDelta(t, 0.5, BoundingBoxFromPoints(nil, 0).HalfSize.X(), 1e-12)
}

func TestBoundingBoxCorners(t *testing.T) {
	box := DefaultBoundingBox()
	corners := box.Corners()
	for _, c := range corners {
		assert.InDelta(t, 0.5, math.Abs(c.X()), 1e-12)
		assert.InDelta(t, 0.5, math.Abs(c.Y()), 1e-12)
		assert.InDelta(t, 0.5, math.Abs(c.Z()), 1e-12)
	}
	// bottom four first
	for i := 0; i < 4; i++ {
		assert.InDelta(t, -0.5, corners[i].Z(), 1e-12)
	}
}

func TestBoundingBoxCollision(t *testing.T) {
	a := BoundingBoxFromPoint(NewPoint(0, 0, 0), 1.0)
	b := BoundingBoxFromPoint(NewPoint(1.5, 0, 0), 1.0)
	c := BoundingBoxFromPoint(NewPoint(5, 0, 0), 1.0)

	assert.True(t, a.CollidesWith(b))
	assert.True(t, b.CollidesWith(a))
	assert.False(t, a.CollidesWith(c))
}

func TestBoundingBoxRotatedCollision(t *testing.T) {
	a := BoundingBoxFromPoint(NewPoint(0, 0, 0), 1.0)

	// a thin box rotated 45 degrees about z, close enough to overlap
	s, cs := math.Sin(math.Pi/4), math.Cos(math.Pi/4)
	rotated := NewBoundingBox(
		NewPoint(1.8, 0, 0),
		NewVector(cs, s, 0),
		NewVector(-s, cs, 0),
		NewVector(0, 0, 1),
		NewVector(2.0, 0.1, 0.1),
	)
	assert.True(t, a.CollidesWith(rotated))
	assert.True(t, rotated.CollidesWith(a))

	// At 2.2 the thin box's own y axis separates the pair even though
	// the world-axis extents still overlap.
	separated := rotated.Clone()
	separated.Center = NewPoint(2.2, 0, 0)
	assert.False(t, a.CollidesWith(separated))

	far := rotated.Clone()
	far.Center = NewPoint(10, 0, 0)
	assert.False(t, a.CollidesWith(far))
}

func TestBoundingBoxFromLineAndPolyline(t *testing.T) {
	line := NewLine(0, 0, 0, 2, 0, 0)
	box := BoundingBoxFromLine(line, 0.1)
	assert.InDelta(t, 1.0, box.Center.X(), 1e-12)
	assert.InDelta(t, 1.1, box.HalfSize.X(), 1e-12)

	pl := NewPolyline([]*Point{NewPoint(0, 0, 0), NewPoint(0, 4, 0)})
	box = BoundingBoxFromPolyline(pl, 0.0)
	assert.InDelta(t, 2.0, box.HalfSize.Y(), 1e-12)
}

func TestBoundingBoxJSONRoundTrip(t *testing.T) {
	box := BoundingBoxFromPoint(NewPoint(1, 2, 3), 0.5)
	data, err := JSONDumps(box, true)
	require.NoError(t, err)
	assert.Contains(t, data, `"type": "BoundingBox"`)

	var got BoundingBox
	require.NoError(t, JSONLoads(data, &got))
	assert.Equal(t, box.GUID, got.GUID)
	assert.True(t, box.Center.Equals(got.Center))
	assert.InDelta(t, box.HalfSize.X(), got.HalfSize.X(), 1e-12)
}
