// Package intersect provides intersection routines between lines,
// planes, boxes, spheres, triangles and parametric curves.
package intersect

import (
	"math"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

// Curve is a parametric curve that can be intersected with planes.
type Curve interface {
	Domain() (float64, float64)
	PointAt(t float64) *geo.Point
}

// LineLineParameters returns the parameters of the closest approach of
// two lines, or false when the lines are parallel or farther apart
// than tolerance. With intersectSegments the parameters are clamped to
// [0, 1].
func LineLineParameters(line0, line1 *geo.Line, tolerance float64, intersectSegments, nearParallelAsClosest bool) (float64, float64, bool) {
	p0Start, p0End := line0.Start(), line0.End()
	p1Start, p1End := line1.Start(), line1.End()

	switch {
	case p0Start.Equals(p1Start):
		return 0.0, 0.0, true
	case p0Start.Equals(p1End):
		return 0.0, 1.0, true
	case p0End.Equals(p1Start):
		return 1.0, 0.0, true
	case p0End.Equals(p1End):
		return 1.0, 1.0, true
	}

	a := line0.ToVector()
	b := line1.ToVector()
	c := p1Start.Sub(p0Start)

	aa := a.Dot(a)
	bb := b.Dot(b)
	ab := a.Dot(b)
	ac := a.Dot(c)
	bc := b.Dot(c)

	det := aa*bb - ab*ab

	zeroTol := math.Max(aa, bb) * 2.220446049250313e-16
	if math.Abs(det) < zeroTol {
		if !nearParallelAsClosest {
			return 0, 0, false
		}
		t0 := 0.0
		if aa > 0.0 {
			t0 = ac / aa
		}
		t1 := 0.0
		if bb > 0.0 {
			t1 = (bc + t0*ab) / bb
		}
		if intersectSegments {
			t0 = clamp01(t0)
			t1 = clamp01(t1)
		}
		if tolerance > 0.0 {
			if line0.PointAt(t0).Distance(line1.PointAt(t1)) > tolerance {
				return 0, 0, false
			}
		}
		return t0, t1, true
	}

	invDet := 1.0 / det
	t0 := (bb*ac - ab*bc) * invDet
	t1 := (ab*ac - aa*bc) * invDet

	if intersectSegments {
		t0 = clamp01(t0)
		t1 = clamp01(t1)
	}

	if tolerance > 0.0 {
		if line0.PointAt(t0).Distance(line1.PointAt(t1)) > tolerance {
			return 0, 0, false
		}
	}

	return t0, t1, true
}

// LineLine returns the intersection of two segments, taken as the
// midpoint of the closest approach, or nil when they are farther apart
// than tolerance.
func LineLine(line0, line1 *geo.Line, tolerance float64) *geo.Point {
	t0, t1, ok := LineLineParameters(line0, line1, tolerance, true, false)
	if !ok {
		return nil
	}
	p0 := line0.PointAt(t0)
	p1 := line1.PointAt(t1)
	return geo.NewPoint(
		(p0.X()+p1.X())*0.5,
		(p0.Y()+p1.Y())*0.5,
		(p0.Z()+p1.Z())*0.5,
	)
}

// PlanePlane returns the intersection line of two planes, or nil when
// they are parallel.
func PlanePlane(plane0, plane1 *geo.Plane) *geo.Line {
	d := plane1.ZAxisVec().Cross(plane0.ZAxisVec())

	origin0 := plane0.Origin()
	origin1 := plane1.Origin()
	p := geo.NewPoint(
		(origin0.X()+origin1.X())*0.5,
		(origin0.Y()+origin1.Y())*0.5,
		(origin0.Z()+origin1.Z())*0.5,
	)

	plane2 := geo.PlaneFromPointNormal(p, d.Clone())
	outputP := PlanePlanePlane(plane0, plane1, plane2)
	if outputP == nil {
		return nil
	}

	return geo.NewLine(
		outputP.X(), outputP.Y(), outputP.Z(),
		outputP.X()+d.X(), outputP.Y()+d.Y(), outputP.Z()+d.Z(),
	)
}

func planeValueAt(plane *geo.Plane, point *geo.Point) float64 {
	return plane.A()*point.X() + plane.B()*point.Y() + plane.C()*point.Z() + plane.D()
}

// LinePlane returns the intersection of a line and a plane, or nil
// when the line is parallel to the plane. With isFinite, a hit outside
// the segment is discarded.
func LinePlane(line *geo.Line, plane *geo.Plane, isFinite bool) *geo.Point {
	pt0 := line.Start()
	pt1 := line.End()

	a := planeValueAt(plane, pt0)
	b := planeValueAt(plane, pt1)
	d := a - b

	var t float64
	rc := false
	if d == 0.0 {
		switch {
		case math.Abs(a) < math.Abs(b):
			t = 0.0
		case math.Abs(b) < math.Abs(a):
			t = 1.0
		default:
			t = 0.5
		}
	} else {
		fd := math.Abs(1.0 / d)
		if fd > 1.0 && (math.Abs(a) >= math.MaxFloat64/fd || math.Abs(b) >= math.MaxFloat64/fd) {
			t = 0.5
		} else {
			t = a / (a - b)
			rc = true
		}
	}

	s := 1.0 - t

	coord := func(c0, c1 float64) float64 {
		if c0 == c1 {
			return c0
		}
		return s*c0 + t*c1
	}
	output := geo.NewPoint(
		coord(line.X0(), line.X1()),
		coord(line.Y0(), line.Y1()),
		coord(line.Z0(), line.Z1()),
	)

	if isFinite && (t < 0.0 || t > 1.0) {
		return nil
	}
	if !rc {
		return nil
	}
	return output
}

// PlanePlanePlane returns the intersection point of three planes, or
// nil when their normals are not independent.
func PlanePlanePlane(plane0, plane1, plane2 *geo.Plane) *geo.Point {
	n0 := plane0.ZAxisVec()
	n1 := plane1.ZAxisVec()
	n2 := plane2.ZAxisVec()

	det := n0.Dot(n1.Cross(n2))
	if math.Abs(det) < 1e-10 {
		return nil
	}

	invDet := 1.0 / det
	p := n1.Cross(n2).Mul(-plane0.D()).
		Add(n2.Cross(n0).Mul(-plane1.D())).
		Add(n0.Cross(n1).Mul(-plane2.D())).
		Mul(invDet)

	return geo.NewPoint(p.X(), p.Y(), p.Z())
}

// RayBox returns the entry and exit points of a line against an
// axis-aligned box, clipped to parameters [t0, t1], or nil on a miss.
// The entry point comes first.
func RayBox(line *geo.Line, box *geo.BoundingBox, t0, t1 float64) []*geo.Point {
	origin := line.Start()
	direction := line.ToVector()

	boxMin := box.MinPoint()
	boxMax := box.MaxPoint()

	inv := func(d float64) float64 {
		if d != 0.0 {
			return 1.0 / d
		}
		return math.Inf(1)
	}
	invDirX := inv(direction.X())
	invDirY := inv(direction.Y())
	invDirZ := inv(direction.Z())

	tx1 := (boxMin.X() - origin.X()) * invDirX
	tx2 := (boxMax.X() - origin.X()) * invDirX
	tmin := math.Min(tx1, tx2)
	tmax := math.Max(tx1, tx2)

	ty1 := (boxMin.Y() - origin.Y()) * invDirY
	ty2 := (boxMax.Y() - origin.Y()) * invDirY
	tmin = math.Max(tmin, math.Min(ty1, ty2))
	tmax = math.Min(tmax, math.Max(ty1, ty2))

	tz1 := (boxMin.Z() - origin.Z()) * invDirZ
	tz2 := (boxMax.Z() - origin.Z()) * invDirZ
	tmin = math.Max(tmin, math.Min(tz1, tz2))
	tmax = math.Min(tmax, math.Max(tz1, tz2))

	tmin = math.Max(tmin, t0)
	tmax = math.Min(tmax, t1)

	if tmax < tmin {
		return nil
	}

	entry := geo.NewPoint(
		origin.X()+direction.X()*tmin,
		origin.Y()+direction.Y()*tmin,
		origin.Z()+direction.Z()*tmin,
	)
	exit := geo.NewPoint(
		origin.X()+direction.X()*tmax,
		origin.Y()+direction.Y()*tmax,
		origin.Z()+direction.Z()*tmax,
	)
	return []*geo.Point{entry, exit}
}

// RaySphere returns the intersection points of a line and a sphere,
// sorted from the line start, or nil on a miss. A tangent hit yields a
// single point.
func RaySphere(line *geo.Line, center *geo.Point, radius float64) []*geo.Point {
	origin := line.Start()
	direction := line.ToVector()

	oX := origin.X() - center.X()
	oY := origin.Y() - center.Y()
	oZ := origin.Z() - center.Z()

	a := direction.X()*direction.X() + direction.Y()*direction.Y() + direction.Z()*direction.Z()
	b := 2.0 * (direction.X()*oX + direction.Y()*oY + direction.Z()*oZ)
	c := oX*oX + oY*oY + oZ*oZ - radius*radius

	disc := b*b - 4.0*a*c
	if disc < 0.0 {
		return nil
	}

	distSqrt := math.Sqrt(disc)
	var q float64
	if b < 0.0 {
		q = (-b - distSqrt) / 2.0
	} else {
		q = (-b + distSqrt) / 2.0
	}

	t0 := q / a
	t1 := c / q
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	points := []*geo.Point{geo.NewPoint(
		origin.X()+direction.X()*t0,
		origin.Y()+direction.Y()*t0,
		origin.Z()+direction.Z()*t0,
	)}
	if math.Abs(t1-t0) > 1e-10 {
		points = append(points, geo.NewPoint(
			origin.X()+direction.X()*t1,
			origin.Y()+direction.Y()*t1,
			origin.Z()+direction.Z()*t1,
		))
	}
	return points
}

// RayTriangle intersects a line with a triangle using the
// Moller-Trumbore algorithm and returns the hit point, or nil when the
// line is parallel or the hit falls outside the triangle.
func RayTriangle(line *geo.Line, v0, v1, v2 *geo.Point, epsilon float64) *geo.Point {
	origin := line.Start()
	direction := line.ToVector()

	edge1X := v1.X() - v0.X()
	edge1Y := v1.Y() - v0.Y()
	edge1Z := v1.Z() - v0.Z()

	edge2X := v2.X() - v0.X()
	edge2Y := v2.Y() - v0.Y()
	edge2Z := v2.Z() - v0.Z()

	pvecX := direction.Y()*edge2Z - direction.Z()*edge2Y
	pvecY := direction.Z()*edge2X - direction.X()*edge2Z
	pvecZ := direction.X()*edge2Y - direction.Y()*edge2X

	det := edge1X*pvecX + edge1Y*pvecY + edge1Z*pvecZ
	if det > -epsilon && det < epsilon {
		return nil
	}
	invDet := 1.0 / det

	tvecX := origin.X() - v0.X()
	tvecY := origin.Y() - v0.Y()
	tvecZ := origin.Z() - v0.Z()

	u := (tvecX*pvecX + tvecY*pvecY + tvecZ*pvecZ) * invDet
	if u < -epsilon || u > 1.0+epsilon {
		return nil
	}

	qvecX := tvecY*edge1Z - tvecZ*edge1Y
	qvecY := tvecZ*edge1X - tvecX*edge1Z
	qvecZ := tvecX*edge1Y - tvecY*edge1X

	v := (direction.X()*qvecX + direction.Y()*qvecY + direction.Z()*qvecZ) * invDet
	if v < -epsilon || u+v > 1.0+epsilon {
		return nil
	}

	t := (edge2X*qvecX + edge2Y*qvecY + edge2Z*qvecZ) * invDet

	return geo.NewPoint(
		origin.X()+t*direction.X(),
		origin.Y()+t*direction.Y(),
		origin.Z()+t*direction.Z(),
	)
}

// DefaultCurveSamples is the sample count used by CurvePlanePoints
// when none is given.
const DefaultCurveSamples = 256

// CurvePlanePoints intersects a parametric curve with a plane by
// sampling and bisection refinement. Pass samples <= 0 to use
// DefaultCurveSamples.
func CurvePlanePoints(curve Curve, plane *geo.Plane, samples int) []*geo.Point {
	if samples <= 0 {
		samples = DefaultCurveSamples
	}

	tMin, tMax := curve.Domain()
	if tMax <= tMin {
		return nil
	}

	var points []*geo.Point
	step := (tMax - tMin) / float64(samples)

	prevT := tMin
	prevV := planeValueAt(plane, curve.PointAt(prevT))
	if prevV == 0.0 {
		points = append(points, curve.PointAt(prevT))
	}

	for i := 1; i <= samples; i++ {
		t := tMin + float64(i)*step
		if i == samples {
			t = tMax
		}
		v := planeValueAt(plane, curve.PointAt(t))

		if v == 0.0 {
			points = append(points, curve.PointAt(t))
		} else if prevV*v < 0.0 {
			lo, hi := prevT, t
			loV := prevV
			for iter := 0; iter < 64; iter++ {
				mid := (lo + hi) * 0.5
				midV := planeValueAt(plane, curve.PointAt(mid))
				if midV == 0.0 || hi-lo < geo.ZeroTolerance {
					lo, hi = mid, mid
					break
				}
				if loV*midV < 0.0 {
					hi = mid
				} else {
					lo = mid
					loV = midV
				}
			}
			points = append(points, curve.PointAt((lo+hi)*0.5))
		}

		prevT, prevV = t, v
	}

	return points
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
