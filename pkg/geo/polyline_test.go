package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rect() []*Point {
	return []*Point{
		NewPoint(0, 0, 0),
		NewPoint(4, 0, 0),
		NewPoint(4, 2, 0),
		NewPoint(0, 2, 0),
		NewPoint(0, 0, 0),
	}
}

func TestPolylineLength(t *testing.T) {
	pl := NewPolyline(rect())
	assert.Equal(t, 5, pl.Len())
	assert.Equal(t, 4, pl.SegmentCount())
	assert.InDelta(t, 12.0, pl.Length(), 1e-12)
	assert.True(t, pl.IsClosed())
}

func TestPolylineCenterSkipsClosingPoint(t *testing.T) {
	pl := NewPolyline(rect())
	c := pl.Center()
	assert.InDelta(t, 2.0, c.X(), 1e-12)
	assert.InDelta(t, 1.0, c.Y(), 1e-12)
}

func TestPolylineShift(t *testing.T) {
	pl := NewPolyline([]*Point{
		NewPoint(0, 0, 0),
		NewPoint(1, 0, 0),
		NewPoint(2, 0, 0),
	})
	pl.Shift(1)
	assert.Equal(t, 1.0, pl.Points[0].X())
	pl.Shift(-1)
	assert.Equal(t, 0.0, pl.Points[0].X())
	pl.Shift(3)
	assert.Equal(t, 0.0, pl.Points[0].X())
}

func TestClosestPointToLine(t *testing.T) {
	start := NewPoint(0, 0, 0)
	end := NewPoint(10, 0, 0)

	assert.InDelta(t, 0.5, ClosestPointToLine(NewPoint(5, 3, 0), start, end), 1e-12)
	assert.Less(t, ClosestPointToLine(NewPoint(-2, 0, 0), start, end), 0.0)
	assert.Greater(t, ClosestPointToLine(NewPoint(12, 0, 0), start, end), 1.0)
	// degenerate segment
	assert.Equal(t, 0.0, ClosestPointToLine(NewPoint(1, 1, 1), start, start))
}

func TestLineLineOverlap(t *testing.T) {
	s0, e0 := NewPoint(0, 0, 0), NewPoint(10, 0, 0)
	s1, e1 := NewPoint(4, 1, 0), NewPoint(8, 1, 0)

	a, b, ok := LineLineOverlap(s0, e0, s1, e1)
	require.True(t, ok)
	assert.InDelta(t, 4.0, a.X(), 1e-12)
	assert.InDelta(t, 8.0, b.X(), 1e-12)

	_, _, ok = LineLineOverlap(s0, e0, NewPoint(12, 0, 0), NewPoint(15, 0, 0))
	assert.False(t, ok)
}

func TestPolylineClosestDistanceAndPoint(t *testing.T) {
	pl := NewPolyline([]*Point{
		NewPoint(0, 0, 0),
		NewPoint(10, 0, 0),
		NewPoint(10, 10, 0),
	})
	dist, edge, closest := pl.ClosestDistanceAndPoint(NewPoint(5, -2, 0))
	assert.InDelta(t, 2.0, dist, 1e-12)
	assert.Equal(t, 0, edge)
	assert.InDelta(t, 5.0, closest.X(), 1e-12)

	dist, edge, _ = pl.ClosestDistanceAndPoint(NewPoint(12, 5, 0))
	assert.InDelta(t, 2.0, dist, 1e-12)
	assert.Equal(t, 1, edge)
}

func TestPolylineIsClockwise(t *testing.T) {
	ccw := NewPolyline(rect())
	assert.False(t, ccw.IsClockwise())

	cw := ccw.Clone()
	cw.Flip()
	assert.True(t, cw.IsClockwise())
}

func TestPolylineConvexCorners(t *testing.T) {
	// L shape with one concave corner at (2, 2)
	pl := NewPolyline([]*Point{
		NewPoint(0, 0, 0),
		NewPoint(4, 0, 0),
		NewPoint(4, 4, 0),
		NewPoint(2, 4, 0),
		NewPoint(2, 2, 0),
		NewPoint(0, 2, 0),
		NewPoint(0, 0, 0),
	})
	corners := pl.GetConvexCorners()
	require.Len(t, corners, 6)
	concave := 0
	for _, isConvex := range corners {
		if !isConvex {
			concave++
		}
	}
	assert.Equal(t, 1, concave)
}

func TestTweenTwoPolylines(t *testing.T) {
	a := NewPolyline([]*Point{NewPoint(0, 0, 0), NewPoint(1, 0, 0)})
	b := NewPolyline([]*Point{NewPoint(0, 2, 0), NewPoint(1, 2, 0)})
	mid := TweenTwoPolylines(a, b, 0.5)
	require.Equal(t, 2, mid.Len())
	assert.InDelta(t, 1.0, mid.Points[0].Y(), 1e-12)

	// mismatched point counts fall back to a copy of the first
	c := NewPolyline([]*Point{NewPoint(0, 0, 0)})
	same := TweenTwoPolylines(a, c, 0.5)
	assert.Equal(t, a.Len(), same.Len())
}

func TestPolylineJSONRoundTrip(t *testing.T) {
	pl := NewPolyline(rect())
	pl.Name = "outline"

	data, err := JSONDumps(pl, true)
	require.NoError(t, err)
	assert.Contains(t, data, `"type": "Polyline"`)

	var got Polyline
	require.NoError(t, JSONLoads(data, &got))
	assert.Equal(t, pl.GUID, got.GUID)
	require.Equal(t, pl.Len(), got.Len())
	for i := range pl.Points {
		assert.True(t, pl.Points[i].Equals(got.Points[i]))
	}
}
