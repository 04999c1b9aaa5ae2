package intersect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

func TestLineLineCrossing(t *testing.T) {
	l0 := geo.NewLine(-1, 0, 0, 1, 0, 0)
	l1 := geo.NewLine(0, -1, 0, 0, 1, 0)

	p := LineLine(l0, l1, geo.ZeroTolerance)
	require.NotNil(t, p)
	assert.InDelta(t, 0.0, p.X(), 1e-12)
	assert.InDelta(t, 0.0, p.Y(), 1e-12)
	assert.InDelta(t, 0.0, p.Z(), 1e-12)
}

func TestLineLineSharedEndpoint(t *testing.T) {
	l0 := geo.NewLine(0, 0, 0, 1, 0, 0)
	l1 := geo.NewLine(1, 0, 0, 1, 1, 0)

	t0, t1, ok := LineLineParameters(l0, l1, 0.0, true, false)
	require.True(t, ok)
	assert.Equal(t, 1.0, t0)
	assert.Equal(t, 0.0, t1)
}

func TestLineLineParallel(t *testing.T) {
	l0 := geo.NewLine(0, 0, 0, 1, 0, 0)
	l1 := geo.NewLine(0, 1, 0, 1, 1, 0)

	_, _, ok := LineLineParameters(l0, l1, 0.0, true, false)
	assert.False(t, ok)

	t0, t1, ok := LineLineParameters(l0, l1, 0.0, true, true)
	require.True(t, ok)
	assert.GreaterOrEqual(t, t0, 0.0)
	assert.LessOrEqual(t, t0, 1.0)
	assert.GreaterOrEqual(t, t1, 0.0)
	assert.LessOrEqual(t, t1, 1.0)
}

func TestLineLineSkewBeyondTolerance(t *testing.T) {
	l0 := geo.NewLine(-1, 0, 0, 1, 0, 0)
	l1 := geo.NewLine(0, -1, 5, 0, 1, 5)

	assert.Nil(t, LineLine(l0, l1, 0.01))

	p := LineLine(l0, l1, 10.0)
	require.NotNil(t, p)
	assert.InDelta(t, 2.5, p.Z(), 1e-12)
}

func TestLinePlane(t *testing.T) {
	plane := geo.PlaneFromPointNormal(geo.NewPoint(0, 0, 2), geo.NewVector(0, 0, 1))
	line := geo.NewLine(0, 0, 0, 0, 0, 10)

	p := LinePlane(line, plane, true)
	require.NotNil(t, p)
	assert.InDelta(t, 2.0, p.Z(), 1e-12)

	short := geo.NewLine(0, 0, 0, 0, 0, 1)
	assert.Nil(t, LinePlane(short, plane, true))
	extended := LinePlane(short, plane, false)
	require.NotNil(t, extended)
	assert.InDelta(t, 2.0, extended.Z(), 1e-12)

	parallel := geo.NewLine(0, 0, 0, 1, 0, 0)
	assert.Nil(t, LinePlane(parallel, plane, false))
}

func TestPlanePlane(t *testing.T) {
	xy := geo.XYPlane()
	xz := geo.XZPlane()

	line := PlanePlane(xy, xz)
	require.NotNil(t, line)
	// The intersection of the XY and XZ planes is the x axis.
	assert.InDelta(t, 0.0, line.Y0(), 1e-10)
	assert.InDelta(t, 0.0, line.Z0(), 1e-10)
	dir := line.ToVector()
	assert.InDelta(t, 0.0, dir.Y(), 1e-10)
	assert.InDelta(t, 0.0, dir.Z(), 1e-10)

	shifted := geo.PlaneFromPointNormal(geo.NewPoint(0, 0, 3), geo.NewVector(0, 0, 1))
	assert.Nil(t, PlanePlane(xy, shifted))
}

func TestPlanePlanePlane(t *testing.T) {
	p0 := geo.PlaneFromPointNormal(geo.NewPoint(1, 0, 0), geo.NewVector(1, 0, 0))
	p1 := geo.PlaneFromPointNormal(geo.NewPoint(0, 2, 0), geo.NewVector(0, 1, 0))
	p2 := geo.PlaneFromPointNormal(geo.NewPoint(0, 0, 3), geo.NewVector(0, 0, 1))

	p := PlanePlanePlane(p0, p1, p2)
	require.NotNil(t, p)
	assert.InDelta(t, 1.0, p.X(), 1e-10)
	assert.InDelta(t, 2.0, p.Y(), 1e-10)
	assert.InDelta(t, 3.0, p.Z(), 1e-10)

	assert.Nil(t, PlanePlanePlane(p0, p0, p2))
}

func TestRayBox(t *testing.T) {
	box := geo.BoundingBoxFromPoints([]*geo.Point{
		geo.NewPoint(-1, -1, -1),
		geo.NewPoint(1, 1, 1),
	}, 0.0)
	line := geo.NewLine(-5, 0, 0, 1, 0, 0)

	points := RayBox(line, box, 0.0, 1000.0)
	require.Len(t, points, 2)
	assert.InDelta(t, -1.0, points[0].X(), 1e-12)
	assert.InDelta(t, 1.0, points[1].X(), 1e-12)

	miss := geo.NewLine(-5, 10, 0, 5, 10, 0)
	assert.Nil(t, RayBox(miss, box, 0.0, 1000.0))

	behind := geo.NewLine(5, 0, 0, 6, 0, 0)
	assert.Nil(t, RayBox(behind, box, 0.0, 1000.0))
}

func TestRaySphere(t *testing.T) {
	line := geo.NewLine(-5, 0, 0, 1, 0, 0)
	center := geo.NewPoint(0, 0, 0)

	points := RaySphere(line, center, 1.0)
	require.Len(t, points, 2)
	assert.InDelta(t, -1.0, points[0].X(), 1e-9)
	assert.InDelta(t, 1.0, points[1].X(), 1e-9)

	tangent := RaySphere(geo.NewLine(-5, 1, 0, 5, 1, 0), center, 1.0)
	require.Len(t, tangent, 1)
	assert.InDelta(t, 0.0, tangent[0].X(), 1e-6)

	assert.Nil(t, RaySphere(geo.NewLine(-5, 2, 0, 5, 2, 0), center, 1.0))
}

func TestRayTriangle(t *testing.T) {
	v0 := geo.NewPoint(0, 0, 0)
	v1 := geo.NewPoint(2, 0, 0)
	v2 := geo.NewPoint(0, 2, 0)

	hit := RayTriangle(geo.NewLine(0.5, 0.5, 5, 0.5, 0.5, 4), v0, v1, v2, 1e-9)
	require.NotNil(t, hit)
	assert.InDelta(t, 0.5, hit.X(), 1e-12)
	assert.InDelta(t, 0.5, hit.Y(), 1e-12)
	assert.InDelta(t, 0.0, hit.Z(), 1e-12)

	outside := RayTriangle(geo.NewLine(5, 5, 5, 5, 5, 4), v0, v1, v2, 1e-9)
	assert.Nil(t, outside)

	parallel := RayTriangle(geo.NewLine(0, 0, 1, 1, 0, 1), v0, v1, v2, 1e-9)
	assert.Nil(t, parallel)
}

type lineCurve struct {
	start *geo.Point
	end   *geo.Point
}

func (c *lineCurve) Domain() (float64, float64) { return 0.0, 1.0 }

func (c *lineCurve) PointAt(t float64) *geo.Point {
	return geo.NewPoint(
		c.start.X()+(c.end.X()-c.start.X())*t,
		c.start.Y()+(c.end.Y()-c.start.Y())*t,
		c.start.Z()+(c.end.Z()-c.start.Z())*t,
	)
}

func TestCurvePlanePoints(t *testing.T) {
	curve := &lineCurve{start: geo.NewPoint(0, 0, -1), end: geo.NewPoint(0, 0, 1)}
	plane := geo.XYPlane()

	points := CurvePlanePoints(curve, plane, 0)
	require.Len(t, points, 1)
	assert.InDelta(t, 0.0, points[0].Z(), 1e-9)

	above := &lineCurve{start: geo.NewPoint(0, 0, 1), end: geo.NewPoint(0, 0, 2)}
	assert.Empty(t, CurvePlanePoints(above, plane, 0))
}

func TestRayTriangleEpsilonEdge(t *testing.T) {
	v0 := geo.NewPoint(0, 0, 0)
	v1 := geo.NewPoint(1, 0, 0)
	v2 := geo.NewPoint(0, 1, 0)

	// A hit exactly on the hypotenuse is kept within epsilon.
	hit := RayTriangle(geo.NewLine(0.5, 0.5, 1, 0.5, 0.5, 0), v0, v1, v2, 1e-6)
	assert.NotNil(t, hit)

	miss := RayTriangle(geo.NewLine(0.6, 0.6, 1, 0.6, 0.6, 0), v0, v1, v2, 1e-9)
	assert.Nil(t, miss)

	behindT := RayTriangle(geo.NewLine(0.2, 0.2, 1, 0.2, 0.2, 2), v0, v1, v2, 1e-9)
	require.NotNil(t, behindT)
	assert.True(t, math.Abs(behindT.Z()) < 1e-12)
}
