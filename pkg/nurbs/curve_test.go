package nurbs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

func quadratic() *Curve {
	return Create(false, 2, []*geo.Point{
		geo.NewPoint(0, 0, 0),
		geo.NewPoint(1, 2, 0),
		geo.NewPoint(2, 0, 0),
	})
}

func TestCreateClamped(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)
	require.True(t, c.IsValid())

	assert.Equal(t, 2, c.Degree())
	assert.Equal(t, 3, c.Order())
	assert.Equal(t, 3, c.CVCount())
	assert.Equal(t, 4, c.KnotCount())
	assert.Equal(t, []float64{0, 0, 1, 1}, c.Knots())

	t0, t1 := c.Domain()
	assert.Equal(t, 0.0, t0)
	assert.Equal(t, 1.0, t1)
}

func TestCreateRejectsShortInput(t *testing.T) {
	points := []*geo.Point{geo.NewPoint(0, 0, 0), geo.NewPoint(1, 0, 0), geo.NewPoint(2, 0, 0)}
	assert.Nil(t, Create(false, 3, points))
	assert.Nil(t, Create(false, 0, points))
	assert.False(t, New().IsValid())
}

func TestPointAtBezierMidpoint(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)

	start := c.PointAtStart()
	assert.InDelta(t, 0.0, start.X(), 1e-12)
	assert.InDelta(t, 0.0, start.Y(), 1e-12)

	end := c.PointAtEnd()
	assert.InDelta(t, 2.0, end.X(), 1e-12)
	assert.InDelta(t, 0.0, end.Y(), 1e-12)

	// For a quadratic Bezier the midpoint is p0/4 + p1/2 + p2/4.
	mid := c.PointAt(0.5)
	assert.InDelta(t, 1.0, mid.X(), 1e-12)
	assert.InDelta(t, 1.0, mid.Y(), 1e-12)
}

func TestCreatePeriodic(t *testing.T) {
	points := []*geo.Point{
		geo.NewPoint(0, 0, 0),
		geo.NewPoint(1, 0, 0),
		geo.NewPoint(1, 1, 0),
		geo.NewPoint(0, 1, 0),
	}
	c := Create(true, 2, points)
	require.NotNil(t, c)
	require.True(t, c.IsValid())

	assert.Equal(t, 6, c.CVCount())
	assert.Equal(t, 7, c.KnotCount())

	t0, t1 := c.Domain()
	assert.Equal(t, 1.0, t0)
	assert.Equal(t, 5.0, t1)
}

func TestWeightsNonRational(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)

	assert.False(t, c.IsRational())
	assert.Equal(t, 1.0, c.Weight(1))
	assert.False(t, c.SetWeight(1, 2.0))
}

func TestControlVertexAccess(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)

	cv := c.GetCV(1)
	require.NotNil(t, cv)
	assert.Equal(t, 1.0, cv.X())
	assert.Equal(t, 2.0, cv.Y())
	assert.Nil(t, c.GetCV(3))

	require.True(t, c.SetCV(1, geo.NewPoint(1, 4, 0)))
	assert.Equal(t, 4.0, c.GetCV(1).Y())

	mid := c.PointAt(0.5)
	assert.InDelta(t, 2.0, mid.Y(), 1e-12)
}

func TestTangentAt(t *testing.T) {
	c := Create(false, 1, []*geo.Point{geo.NewPoint(0, 0, 0), geo.NewPoint(10, 0, 0)})
	require.NotNil(t, c)

	tangent := c.TangentAt(0.5)
	assert.InDelta(t, 1.0, tangent.X(), 1e-6)
	assert.InDelta(t, 0.0, tangent.Y(), 1e-6)
}

func TestIsLinear(t *testing.T) {
	collinear := Create(false, 2, []*geo.Point{
		geo.NewPoint(0, 0, 0),
		geo.NewPoint(1, 1, 0),
		geo.NewPoint(2, 2, 0),
	})
	require.NotNil(t, collinear)
	assert.True(t, collinear.IsLinear(0))

	curved := quadratic()
	assert.False(t, curved.IsLinear(0))
}

func TestReverse(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)

	end := c.PointAtEnd()
	require.True(t, c.Reverse())
	require.True(t, c.IsValid())

	start := c.PointAtStart()
	assert.InDelta(t, end.X(), start.X(), 1e-12)
	assert.InDelta(t, end.Y(), start.Y(), 1e-12)
}

func TestSetDomain(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)

	require.True(t, c.SetDomain(0, 10))
	t0, t1 := c.Domain()
	assert.Equal(t, 0.0, t0)
	assert.Equal(t, 10.0, t1)

	mid := c.PointAt(5.0)
	assert.InDelta(t, 1.0, mid.X(), 1e-12)

	assert.False(t, c.SetDomain(5, 5))
}

func TestDivideByCount(t *testing.T) {
	c := quadratic()
	require.NotNil(t, c)

	points, params := c.DivideByCount(5, true)
	require.Len(t, points, 5)
	require.Len(t, params, 5)
	assert.Equal(t, 0.0, params[0])
	assert.Equal(t, 1.0, params[4])

	interior, interiorParams := c.DivideByCount(3, false)
	require.Len(t, interior, 3)
	assert.InDelta(t, 0.25, interiorParams[0], 1e-12)
	assert.InDelta(t, 0.75, interiorParams[2], 1e-12)
}

func TestSpanVector(t *testing.T) {
	c := Create(false, 2, []*geo.Point{
		geo.NewPoint(0, 0, 0),
		geo.NewPoint(1, 1, 0),
		geo.NewPoint(2, 0, 0),
		geo.NewPoint(3, 1, 0),
	})
	require.NotNil(t, c)

	spans := c.SpanVector()
	assert.Equal(t, []float64{0, 1, 2}, spans)
	assert.Equal(t, 2, c.SpanCount())
}

func TestIntersectPlanePoints(t *testing.T) {
	c := Create(false, 2, []*geo.Point{
		geo.NewPoint(0, 0, -453),
		geo.NewPoint(1500, 0, -147),
		geo.NewPoint(3000, 0, -147),
	})
	require.NotNil(t, c)

	plane := geo.PlaneFromPointNormal(geo.NewPoint(1500, 0, 0), geo.NewVector(1, 0, 0))
	points := c.IntersectPlanePoints(plane, 0)
	require.Len(t, points, 1)
	assert.InDelta(t, 1500.0, points[0].X(), 1e-6)

	missed := geo.PlaneFromPointNormal(geo.NewPoint(5000, 0, 0), geo.NewVector(1, 0, 0))
	assert.Empty(t, c.IntersectPlanePoints(missed, 0))
}
