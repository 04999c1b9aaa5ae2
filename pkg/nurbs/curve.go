// Package nurbs implements non-uniform rational B-spline curves with
// clamped and periodic uniform knot vectors, evaluated with the
// Cox-de Boor recursion over a compressed knot format.
package nurbs

import (
	"math"
	"sort"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

// Curve is a NURBS curve. The knot vector is stored in compressed
// form with order + cvCount - 2 entries, and control vertex data is a
// flat array with cvStride floats per vertex (homogeneous when
// rational).
type Curve struct {
	dim      int
	isRat    bool
	order    int
	cvCount  int
	cvStride int
	knot     []float64
	cv       []float64
}

// New creates an empty, invalid curve.
func New() *Curve {
	return &Curve{}
}

// Create builds a curve of the given degree through the control
// points, periodic or clamped. Returns nil when the input is
// insufficient for the degree.
func Create(periodic bool, degree int, points []*geo.Point) *Curve {
	order := degree + 1
	if periodic {
		return CreatePeriodicUniform(3, order, points, 1.0)
	}
	return CreateClampedUniform(3, order, points, 1.0)
}

// CreateClampedUniform builds a clamped curve with uniform interior
// knot spacing.
func CreateClampedUniform(dimension, order int, points []*geo.Point, knotDelta float64) *Curve {
	pointCount := len(points)
	if order < 2 || pointCount < order {
		return nil
	}

	c := New()
	if !c.initialize(dimension, false, order, pointCount) {
		return nil
	}

	for i, p := range points {
		c.setCV(i, p)
	}

	knotCount := order + pointCount - 2

	k := 0.0
	for i := order - 2; i < pointCount; i++ {
		c.knot[i] = k
		k += knotDelta
	}

	i0 := order - 2
	for i := 0; i < i0; i++ {
		c.knot[i] = c.knot[i0]
	}
	i0 = pointCount - 1
	for i := i0 + 1; i < knotCount; i++ {
		c.knot[i] = c.knot[i0]
	}

	return c
}

// CreatePeriodicUniform builds a periodic curve by wrapping the first
// order-1 control points, over a fully uniform knot vector.
func CreatePeriodicUniform(dimension, order int, points []*geo.Point, knotDelta float64) *Curve {
	pointCount := len(points)
	if order < 2 || pointCount < order {
		return nil
	}

	c := New()
	cvCount := pointCount + order - 1
	if !c.initialize(dimension, false, order, cvCount) {
		return nil
	}

	for i, p := range points {
		c.setCV(i, p)
	}
	for i := 0; i < order-1; i++ {
		c.setCV(pointCount+i, points[i%pointCount])
	}

	for i := range c.knot {
		c.knot[i] = float64(i) * knotDelta
	}

	return c
}

func (c *Curve) initialize(dimension int, isRational bool, order, cvCount int) bool {
	if dimension < 1 || order < 2 || cvCount < order {
		return false
	}

	c.dim = dimension
	c.isRat = isRational
	c.order = order
	c.cvCount = cvCount
	c.cvStride = dimension
	if isRational {
		c.cvStride = dimension + 1
	}

	c.knot = make([]float64, order+cvCount-2)
	c.cv = make([]float64, cvCount*c.cvStride)

	if isRational {
		for i := 0; i < cvCount; i++ {
			c.cv[i*c.cvStride+dimension] = 1.0
		}
	}
	return true
}

func (c *Curve) setCV(index int, point *geo.Point) {
	if index >= c.cvCount {
		return
	}
	idx := index * c.cvStride
	c.cv[idx] = point.X()
	if c.dim > 1 {
		c.cv[idx+1] = point.Y()
	}
	if c.dim > 2 {
		c.cv[idx+2] = point.Z()
	}
}

// GetCV returns the control vertex at index, or nil when out of range.
func (c *Curve) GetCV(index int) *geo.Point {
	if index < 0 || index >= c.cvCount {
		return nil
	}
	idx := index * c.cvStride
	x := c.cv[idx]
	y, z := 0.0, 0.0
	if c.dim > 1 {
		y = c.cv[idx+1]
	}
	if c.dim > 2 {
		z = c.cv[idx+2]
	}
	return geo.NewPoint(x, y, z)
}

// SetCV replaces the control vertex at index.
func (c *Curve) SetCV(index int, point *geo.Point) bool {
	if index < 0 || index >= c.cvCount {
		return false
	}
	c.setCV(index, point)
	return true
}

// Weight returns the weight at a control vertex, 1.0 for non-rational
// curves.
func (c *Curve) Weight(cvIndex int) float64 {
	if !c.isRat || cvIndex < 0 || cvIndex >= c.cvCount {
		return 1.0
	}
	return c.cv[cvIndex*c.cvStride+c.dim]
}

// SetWeight sets the weight at a control vertex of a rational curve.
func (c *Curve) SetWeight(cvIndex int, weight float64) bool {
	if cvIndex < 0 || cvIndex >= c.cvCount || !c.isRat {
		return false
	}
	c.cv[cvIndex*c.cvStride+c.dim] = weight
	return true
}

// Knot returns the knot value at index.
func (c *Curve) Knot(knotIndex int) (float64, bool) {
	if knotIndex < 0 || knotIndex >= len(c.knot) {
		return 0, false
	}
	return c.knot[knotIndex], true
}

// SetKnot sets the knot value at index.
func (c *Curve) SetKnot(knotIndex int, knotValue float64) bool {
	if knotIndex < 0 || knotIndex >= len(c.knot) {
		return false
	}
	c.knot[knotIndex] = knotValue
	return true
}

// Dimension returns the coordinate dimension.
func (c *Curve) Dimension() int { return c.dim }

// IsRational reports whether the curve carries weights.
func (c *Curve) IsRational() bool { return c.isRat }

// Degree returns the polynomial degree.
func (c *Curve) Degree() int {
	if c.order < 2 {
		return 0
	}
	return c.order - 1
}

// Order returns the curve order, degree + 1.
func (c *Curve) Order() int { return c.order }

// CVCount returns the number of control vertices.
func (c *Curve) CVCount() int { return c.cvCount }

// KnotCount returns the length of the knot vector.
func (c *Curve) KnotCount() int { return len(c.knot) }

// CVSize returns the number of floats per control vertex.
func (c *Curve) CVSize() int { return c.cvStride }

// SpanCount returns the number of non-degenerate spans.
func (c *Curve) SpanCount() int {
	if !c.IsValid() {
		return 0
	}
	spans := c.SpanVector()
	if len(spans) > 1 {
		return len(spans) - 1
	}
	return 0
}

// Knots returns a copy of the knot vector.
func (c *Curve) Knots() []float64 {
	return append([]float64(nil), c.knot...)
}

// CVArray returns the raw control vertex data.
func (c *Curve) CVArray() []float64 { return c.cv }

// IsValid reports whether the curve has a consistent order, control
// net and knot vector with a non-empty domain.
func (c *Curve) IsValid() bool {
	if c.order < 2 || c.cvCount < c.order {
		return false
	}
	if len(c.knot) != c.order+c.cvCount-2 {
		return false
	}
	idx1 := c.order - 2
	idx2 := c.cvCount - 1
	if idx2 < len(c.knot) && c.knot[idx1] >= c.knot[idx2] {
		return false
	}
	return true
}

// Domain returns the parameter interval of the curve.
func (c *Curve) Domain() (float64, float64) {
	if !c.IsValid() {
		return 0.0, 0.0
	}
	return c.knot[c.order-2], c.knot[c.cvCount-1]
}

// SetDomain reparameterizes the knot vector to the interval [t0, t1].
func (c *Curve) SetDomain(t0, t1 float64) bool {
	if !c.IsValid() || t0 >= t1 {
		return false
	}
	oldT0, oldT1 := c.Domain()
	if math.Abs(oldT0-oldT1) < 1e-14 {
		return false
	}
	scale := (t1 - t0) / (oldT1 - oldT0)
	for i := range c.knot {
		c.knot[i] = t0 + (c.knot[i]-oldT0)*scale
	}
	return true
}

// findSpan locates the knot span containing t, relative to the
// compressed knot layout.
func (c *Curve) findSpan(t float64) int {
	offset := c.order - 2
	length := c.cvCount - c.order + 2

	if t <= c.knot[offset] {
		return 0
	}
	if t >= c.knot[offset+length-1] {
		return length - 2
	}

	low, high := 0, length-1
	for high > low+1 {
		mid := (low + high) / 2
		if t < c.knot[offset+mid] {
			high = mid
		} else {
			low = mid
		}
	}
	return low
}

// basisFunctions evaluates the non-zero basis functions at t by the
// Cox-de Boor recursion.
func (c *Curve) basisFunctions(span int, t float64) []float64 {
	basis := make([]float64, c.order)
	left := make([]float64, c.order)
	right := make([]float64, c.order)

	offset := c.order - 2 + span
	basis[0] = 1.0

	for j := 1; j < c.order; j++ {
		left[j] = t - c.knot[offset+1-j]
		right[j] = c.knot[offset+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := basis[r] / (right[r+1] + left[j-r])
			basis[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		basis[j] = saved
	}

	return basis
}

// PointAt evaluates the curve at parameter t. Invalid curves evaluate
// to the origin.
func (c *Curve) PointAt(t float64) *geo.Point {
	if !c.IsValid() {
		return geo.NewPoint(0, 0, 0)
	}

	span := c.findSpan(t)
	basis := c.basisFunctions(span, t)

	var x, y, z, w float64
	for i := 0; i < c.order; i++ {
		cvIdx := span + i
		if cvIdx >= c.cvCount {
			continue
		}
		idx := cvIdx * c.cvStride
		n := basis[i]

		if c.isRat {
			weight := c.cv[idx+c.dim]
			w += n * weight
			x += n * c.cv[idx]
			if c.dim > 1 {
				y += n * c.cv[idx+1]
			}
			if c.dim > 2 {
				z += n * c.cv[idx+2]
			}
		} else {
			x += n * c.cv[idx]
			if c.dim > 1 {
				y += n * c.cv[idx+1]
			}
			if c.dim > 2 {
				z += n * c.cv[idx+2]
			}
			w = 1.0
		}
	}

	if c.isRat && math.Abs(w) > 1e-10 {
		return geo.NewPoint(x/w, y/w, z/w)
	}
	return geo.NewPoint(x, y, z)
}

// PointAtStart evaluates the curve at the start of its domain.
func (c *Curve) PointAtStart() *geo.Point {
	t0, _ := c.Domain()
	return c.PointAt(t0)
}

// PointAtEnd evaluates the curve at the end of its domain.
func (c *Curve) PointAtEnd() *geo.Point {
	_, t1 := c.Domain()
	return c.PointAt(t1)
}

// TangentAt returns the unit tangent at parameter t by central
// differencing.
func (c *Curve) TangentAt(t float64) *geo.Vector {
	if !c.IsValid() {
		return geo.NewVector(0, 0, 0)
	}

	t0, t1 := c.Domain()
	eps := (t1 - t0) * 1e-8

	p1 := c.PointAt(math.Max(t-eps, t0))
	p2 := c.PointAt(math.Min(t+eps, t1))

	tangent := geo.NewVector(
		(p2.X()-p1.X())/(2.0*eps),
		(p2.Y()-p1.Y())/(2.0*eps),
		(p2.Z()-p1.Z())/(2.0*eps),
	)
	return tangent.Normalize()
}

// IsClosed reports whether start and end points coincide.
func (c *Curve) IsClosed() bool {
	if !c.IsValid() {
		return false
	}
	return c.PointAtStart().Distance(c.PointAtEnd()) < geo.ZeroTolerance
}

// IsLinear reports whether all control points are collinear within
// tolerance. Pass tolerance <= 0 for the default.
func (c *Curve) IsLinear(tolerance float64) bool {
	tol := tolerance
	if tol <= 0.0 {
		tol = geo.ZeroTolerance
	}

	if !c.IsValid() || c.cvCount < 2 {
		return false
	}
	if c.cvCount == 2 {
		return true
	}

	p0 := c.GetCV(0)
	p1 := c.GetCV(c.cvCount - 1)

	lineVec := p1.Sub(p0)
	lineLen := lineVec.ComputeLength()
	if lineLen < tol {
		return true
	}

	for i := 1; i < c.cvCount-1; i++ {
		v := c.GetCV(i).Sub(p0)
		if lineVec.Cross(v).ComputeLength() > tol*lineLen {
			return false
		}
	}
	return true
}

// Reverse flips the curve direction in place, keeping the domain.
func (c *Curve) Reverse() bool {
	if !c.IsValid() {
		return false
	}

	for i := 0; i < c.cvCount/2; i++ {
		j := c.cvCount - 1 - i
		for k := 0; k < c.cvStride; k++ {
			c.cv[i*c.cvStride+k], c.cv[j*c.cvStride+k] = c.cv[j*c.cvStride+k], c.cv[i*c.cvStride+k]
		}
	}

	t0, t1 := c.Domain()
	knotCount := len(c.knot)
	for i := 0; i < knotCount/2; i++ {
		j := knotCount - 1 - i
		temp := -(c.knot[i] - t1) + t0
		c.knot[i] = -(c.knot[j] - t1) + t0
		c.knot[j] = temp
	}
	if knotCount%2 == 1 {
		mid := knotCount / 2
		c.knot[mid] = -(c.knot[mid] - t1) + t0
	}

	return true
}

// SpanVector returns the distinct knot values spanning the domain.
func (c *Curve) SpanVector() []float64 {
	if !c.IsValid() {
		return nil
	}

	offset := c.order - 2
	spans := []float64{c.knot[offset]}
	for i := offset + 1; i < c.cvCount; i++ {
		if math.Abs(c.knot[i]-c.knot[i-1]) > geo.ZeroTolerance {
			spans = append(spans, c.knot[i])
		}
	}
	return spans
}

// DivideByCount samples count points along the curve at equal
// parameter spacing and returns the points with their parameters.
// With includeEndpoints the first and last samples land on the curve
// ends.
func (c *Curve) DivideByCount(count int, includeEndpoints bool) ([]*geo.Point, []float64) {
	if !c.IsValid() || count <= 0 {
		return nil, nil
	}

	t0, t1 := c.Domain()
	n := count + 1
	if includeEndpoints {
		n = count - 1
	}
	dt := (t1 - t0) / float64(n)

	points := make([]*geo.Point, 0, count)
	params := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		offset := 1
		if includeEndpoints {
			offset = 0
		}
		t := t0 + float64(i+offset)*dt
		params = append(params, t)
		points = append(points, c.PointAt(t))
	}

	return points, params
}

// IntersectPlane returns the sorted curve parameters where the curve
// crosses or touches the plane, found per span by bisection. Pass
// tolerance <= 0 for the default.
func (c *Curve) IntersectPlane(plane *geo.Plane, tolerance float64) []float64 {
	tol := tolerance
	if tol <= 0.0 {
		tol = geo.ZeroTolerance
	}

	if !c.IsValid() {
		return nil
	}

	origin := plane.Origin()
	normal := plane.ZAxisVec()
	signedDistance := func(p *geo.Point) float64 {
		return p.Sub(origin).Dot(normal)
	}

	_, tEnd := c.Domain()
	spanParams := c.SpanVector()

	var results []float64
	for i := 0; i < len(spanParams)-1; i++ {
		t0 := spanParams[i]
		t1 := spanParams[i+1]
		if math.Abs(t1-t0) < tol {
			continue
		}

		d0 := signedDistance(c.PointAt(t0))
		d1 := signedDistance(c.PointAt(t1))

		if d0*d1 < 0.0 {
			ta, tb := t0, t1
			tm := 0.0
			for iter := 0; iter < 50; iter++ {
				tm = (ta + tb) * 0.5
				dm := signedDistance(c.PointAt(tm))
				if math.Abs(dm) < tol {
					break
				}
				if dm*d0 < 0.0 {
					tb = tm
				} else {
					ta = tm
				}
			}
			results = append(results, tm)
		} else if math.Abs(d0) < tol {
			if len(results) == 0 || math.Abs(results[len(results)-1]-t0) >= tol {
				results = append(results, t0)
			}
		}
	}

	if math.Abs(signedDistance(c.PointAt(tEnd))) < tol {
		if len(results) == 0 || math.Abs(results[len(results)-1]-tEnd) >= tol {
			results = append(results, tEnd)
		}
	}

	sort.Float64s(results)
	deduped := results[:0]
	for _, t := range results {
		if len(deduped) == 0 || math.Abs(t-deduped[len(deduped)-1]) >= tol*2.0 {
			deduped = append(deduped, t)
		}
	}

	return deduped
}

// IntersectPlanePoints returns the intersection points of the curve
// and a plane.
func (c *Curve) IntersectPlanePoints(plane *geo.Plane, tolerance float64) []*geo.Point {
	params := c.IntersectPlane(plane, tolerance)
	points := make([]*geo.Point, 0, len(params))
	for _, t := range params {
		points = append(points, c.PointAt(t))
	}
	return points
}
