package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Polyline is an ordered collection of points with an associated plane
// and display attributes.
type Polyline struct {
	GUID      string
	Name      string
	Points    []*Point
	Plane     *Plane
	Width     float64
	LineColor *Color
	Xform     *Xform
}

// NewPolyline creates a polyline from points. The plane is fitted when
// at least three points are given.
func NewPolyline(points []*Point) *Polyline {
	plane := DefaultPlane()
	if len(points) >= 3 {
		plane = PlaneFromPoints(points)
	}
	return &Polyline{
		GUID:      uuid.New().String(),
		Name:      "my_polyline",
		Points:    points,
		Plane:     plane,
		Width:     1.0,
		LineColor: White(),
		Xform:     Identity(),
	}
}

// EmptyPolyline creates a polyline with no points.
func EmptyPolyline() *Polyline {
	return NewPolyline(nil)
}

// Len returns the number of points.
func (pl *Polyline) Len() int { return len(pl.Points) }

// IsEmpty reports whether the polyline has no points.
func (pl *Polyline) IsEmpty() bool { return len(pl.Points) == 0 }

// SegmentCount returns the number of segments, n-1 for n points.
func (pl *Polyline) SegmentCount() int {
	if len(pl.Points) > 1 {
		return len(pl.Points) - 1
	}
	return 0
}

// Length returns the total polyline length.
func (pl *Polyline) Length() float64 {
	total := 0.0
	for i := 0; i < pl.SegmentCount(); i++ {
		total += pl.Points[i+1].Sub(pl.Points[i]).Magnitude()
	}
	return total
}

// LengthSquared returns the sum of squared segment lengths.
func (pl *Polyline) LengthSquared() float64 {
	total := 0.0
	for i := 0; i < pl.SegmentCount(); i++ {
		total += pl.Points[i+1].Sub(pl.Points[i]).LengthSquared()
	}
	return total
}

// PointAtIndex returns the point at index, or nil when out of range.
func (pl *Polyline) PointAtIndex(index int) *Point {
	if index < 0 || index >= len(pl.Points) {
		return nil
	}
	return pl.Points[index]
}

// AddPoint appends a point, refitting the plane when the third point
// arrives.
func (pl *Polyline) AddPoint(point *Point) {
	pl.Points = append(pl.Points, point)
	if len(pl.Points) == 3 {
		pl.Plane = PlaneFromPoints(pl.Points)
	}
}

// InsertPoint inserts a point at index.
func (pl *Polyline) InsertPoint(index int, point *Point) {
	pl.Points = append(pl.Points, nil)
	copy(pl.Points[index+1:], pl.Points[index:])
	pl.Points[index] = point
	if len(pl.Points) == 3 {
		pl.Plane = PlaneFromPoints(pl.Points)
	}
}

// RemovePoint removes and returns the point at index, or nil when out
// of range.
func (pl *Polyline) RemovePoint(index int) *Point {
	if index < 0 || index >= len(pl.Points) {
		return nil
	}
	point := pl.Points[index]
	pl.Points = append(pl.Points[:index], pl.Points[index+1:]...)
	if len(pl.Points) == 3 {
		pl.Plane = PlaneFromPoints(pl.Points)
	}
	return point
}

// Reverse reverses the point order and the plane in place.
func (pl *Polyline) Reverse() {
	pl.Flip()
	pl.Plane.Reverse()
}

// Reversed returns a copy with reversed point order.
func (pl *Polyline) Reversed() *Polyline {
	c := pl.Clone()
	c.Reverse()
	return c
}

// Flip reverses point order without touching the plane.
func (pl *Polyline) Flip() {
	for i, j := 0, len(pl.Points)-1; i < j; i, j = i+1, j-1 {
		pl.Points[i], pl.Points[j] = pl.Points[j], pl.Points[i]
	}
}

// Shift rotates the point order left by times positions, accepting
// negative counts.
func (pl *Polyline) Shift(times int) {
	n := len(pl.Points)
	if n == 0 {
		return
	}
	shift := ((times % n) + n) % n
	if shift == 0 {
		return
	}
	rotated := make([]*Point, 0, n)
	rotated = append(rotated, pl.Points[shift:]...)
	rotated = append(rotated, pl.Points[:shift]...)
	pl.Points = rotated
}

// Transform applies the stored transform to all points and resets it
// to the identity.
func (pl *Polyline) Transform() {
	xform := pl.Xform.Clone()
	for _, pt := range pl.Points {
		xform.TransformPoint(pt)
	}
	pl.Xform = Identity()
}

// Transformed returns a transformed copy.
func (pl *Polyline) Transformed() *Polyline {
	c := pl.Clone()
	c.Transform()
	return c
}

// MoveBy translates all points by direction in place.
func (pl *Polyline) MoveBy(direction *Vector) {
	for i, pt := range pl.Points {
		pl.Points[i] = pt.AddVector(direction)
	}
}

// AddVector translates the points and the plane origin by v in place.
func (pl *Polyline) AddVector(v *Vector) {
	pl.MoveBy(v)
	pl.Plane = NewPlane(pl.Plane.Origin().AddVector(v), pl.Plane.XAxisVec(), pl.Plane.YAxisVec())
}

// SubVector translates the points and the plane origin by -v in place.
func (pl *Polyline) SubVector(v *Vector) {
	pl.AddVector(v.Neg())
}

// PointAtParameter returns the point at parameter t on a segment,
// keeping equal coordinates exact.
func PointAtParameter(start, end *Point, t float64) *Point {
	s := 1.0 - t
	x := start.X()
	if start.X() != end.X() {
		x = s*start.X() + t*end.X()
	}
	y := start.Y()
	if start.Y() != end.Y() {
		y = s*start.Y() + t*end.Y()
	}
	z := start.Z()
	if start.Z() != end.Z() {
		z = s*start.Z() + t*end.Z()
	}
	return NewPoint(x, y, z)
}

// ClosestPointToLine returns the parameter of the closest point on a
// segment to point.
func ClosestPointToLine(point, lineStart, lineEnd *Point) float64 {
	d := lineEnd.Sub(lineStart)
	dod := d.LengthSquared()
	if dod <= 0.0 {
		return 0.0
	}
	if point.Sub(lineStart).LengthSquared() <= point.Sub(lineEnd).LengthSquared() {
		return point.Sub(lineStart).Dot(d) / dod
	}
	return 1.0 + point.Sub(lineEnd).Dot(d)/dod
}

// LineLineOverlap returns the overlapping interval of two segments
// projected onto the first, or false when they do not overlap.
func LineLineOverlap(line0Start, line0End, line1Start, line1End *Point) (*Point, *Point, bool) {
	t := []float64{
		0.0,
		1.0,
		ClosestPointToLine(line1Start, line0Start, line0End),
		ClosestPointToLine(line1End, line0Start, line0End),
	}
	doOverlap := !((t[2] < 0.0 && t[3] < 0.0) || (t[2] > 1.0 && t[3] > 1.0))
	sort.Float64s(t)
	overlapValid := math.Abs(t[2]-t[1]) > ZeroTolerance
	if doOverlap && overlapValid {
		return PointAtParameter(line0Start, line0End, t[1]), PointAtParameter(line0Start, line0End, t[2]), true
	}
	return nil, nil, false
}

// LineLineAverage returns the segment averaging two segments endpoint
// by endpoint.
func LineLineAverage(line0Start, line0End, line1Start, line1End *Point) (*Point, *Point) {
	start := NewPoint(
		(line0Start.X()+line1Start.X())*0.5,
		(line0Start.Y()+line1Start.Y())*0.5,
		(line0Start.Z()+line1Start.Z())*0.5,
	)
	end := NewPoint(
		(line0End.X()+line1End.X())*0.5,
		(line0End.Y()+line1End.Y())*0.5,
		(line0End.Z()+line1End.Z())*0.5,
	)
	return start, end
}

// LineLineOverlapAverage averages the overlapping intervals of two
// segments, falling back to the plain average when they do not
// overlap.
func LineLineOverlapAverage(line0Start, line0End, line1Start, line1End *Point) (*Point, *Point) {
	aStart, aEnd, okA := LineLineOverlap(line0Start, line0End, line1Start, line1End)
	bStart, bEnd, okB := LineLineOverlap(line1Start, line1End, line0Start, line0End)
	if !okA || !okB {
		return LineLineAverage(line0Start, line0End, line1Start, line1End)
	}

	mid0Start := NewPoint((aStart.X()+bStart.X())*0.5, (aStart.Y()+bStart.Y())*0.5, (aStart.Z()+bStart.Z())*0.5)
	mid0End := NewPoint((aEnd.X()+bEnd.X())*0.5, (aEnd.Y()+bEnd.Y())*0.5, (aEnd.Z()+bEnd.Z())*0.5)
	mid1Start := NewPoint((aStart.X()+bEnd.X())*0.5, (aStart.Y()+bEnd.Y())*0.5, (aStart.Z()+bEnd.Z())*0.5)
	mid1End := NewPoint((aEnd.X()+bStart.X())*0.5, (aEnd.Y()+bStart.Y())*0.5, (aEnd.Z()+bStart.Z())*0.5)

	if mid0End.Sub(mid0Start).LengthSquared() > mid1End.Sub(mid1Start).LengthSquared() {
		return mid0Start, mid0End
	}
	return mid1Start, mid1End
}

// LineFromProjectedPoints projects points onto a base segment and
// returns the spanned interval, or false when the span is degenerate.
func LineFromProjectedPoints(lineStart, lineEnd *Point, points []*Point) (*Point, *Point, bool) {
	if len(points) == 0 {
		return nil, nil, false
	}
	tValues := make([]float64, len(points))
	for i, p := range points {
		tValues[i] = ClosestPointToLine(p, lineStart, lineEnd)
	}
	sort.Float64s(tValues)

	start := PointAtParameter(lineStart, lineEnd, tValues[0])
	end := PointAtParameter(lineStart, lineEnd, tValues[len(tValues)-1])
	if math.Abs(tValues[0]-tValues[len(tValues)-1]) > ZeroTolerance {
		return start, end, true
	}
	return nil, nil, false
}

// GetMiddleLine returns the segment midway between two segments.
func GetMiddleLine(line0Start, line0End, line1Start, line1End *Point) (*Point, *Point) {
	return LineLineAverage(line0Start, line0End, line1Start, line1End)
}

// ExtendLine extends a segment by distance0 at the start and distance1
// at the end.
func ExtendLine(lineStart, lineEnd *Point, distance0, distance1 float64) (*Point, *Point) {
	v := lineEnd.Sub(lineStart)
	v.NormalizeSelf()
	return lineStart.SubVector(v.Mul(distance0)), lineEnd.AddVector(v.Mul(distance1))
}

// ScaleLine moves both segment endpoints inward by a fraction of the
// segment vector.
func ScaleLine(lineStart, lineEnd *Point, distance float64) (*Point, *Point) {
	v := lineEnd.Sub(lineStart)
	return lineStart.AddVector(v.Mul(distance)), lineEnd.SubVector(v.Mul(distance))
}

// ClosestDistanceAndPoint returns the closest distance from point to
// the polyline, the segment index it occurs on, and the closest point.
func (pl *Polyline) ClosestDistanceAndPoint(point *Point) (float64, int, *Point) {
	edgeID := 0
	closestDistance := math.MaxFloat64
	bestT := 0.0

	for i := 0; i < pl.SegmentCount(); i++ {
		t := ClosestPointToLine(point, pl.Points[i], pl.Points[i+1])
		onSegment := PointAtParameter(pl.Points[i], pl.Points[i+1], t)
		distance := point.Distance(onSegment)
		if distance < closestDistance {
			closestDistance = distance
			edgeID = i
			bestT = t
		}
		if closestDistance < ZeroTolerance {
			break
		}
	}

	closest := PointAtParameter(pl.Points[edgeID], pl.Points[edgeID+1], bestT)
	return closestDistance, edgeID, closest
}

// IsClosed reports whether the first and last points coincide.
func (pl *Polyline) IsClosed() bool {
	if len(pl.Points) < 2 {
		return false
	}
	return pl.Points[0].Distance(pl.Points[len(pl.Points)-1]) < ZeroTolerance
}

// Center returns the average of the points, skipping the duplicate
// closing point.
func (pl *Polyline) Center() *Point {
	if len(pl.Points) == 0 {
		return NewPoint(0, 0, 0)
	}
	n := len(pl.Points)
	if pl.IsClosed() && n > 1 {
		n--
	}
	var sumX, sumY, sumZ float64
	for i := 0; i < n; i++ {
		sumX += pl.Points[i].X()
		sumY += pl.Points[i].Y()
		sumZ += pl.Points[i].Z()
	}
	fn := float64(n)
	return NewPoint(sumX/fn, sumY/fn, sumZ/fn)
}

// CenterVec returns the center as a vector.
func (pl *Polyline) CenterVec() *Vector {
	c := pl.Center()
	return NewVector(c.X(), c.Y(), c.Z())
}

// GetAveragePlane returns a frame fitted to the polyline: center
// origin, first-segment x axis, average-normal z axis.
func (pl *Polyline) GetAveragePlane() (*Point, *Vector, *Vector, *Vector) {
	origin := pl.Center()

	xAxis := NewVector(1, 0, 0)
	if len(pl.Points) >= 2 {
		xAxis = pl.Points[1].Sub(pl.Points[0])
		xAxis.NormalizeSelf()
	}

	zAxis := pl.averageNormal()
	yAxis := zAxis.Cross(xAxis)
	yAxis.NormalizeSelf()
	return origin, xAxis, yAxis, zAxis
}

// GetFastPlane returns the first point and a plane through it with the
// average normal.
func (pl *Polyline) GetFastPlane() (*Point, *Plane) {
	origin := NewPoint(0, 0, 0)
	if len(pl.Points) > 0 {
		origin = pl.Points[0].Clone()
	}
	return origin, PlaneFromPointNormal(origin.Clone(), pl.averageNormal())
}

// ExtendSegment extends segment segmentID by distances or proportions
// of the segment vector, keeping closed polylines closed.
func (pl *Polyline) ExtendSegment(segmentID int, dist0, dist1, proportion0, proportion1 float64) {
	if segmentID >= pl.SegmentCount() {
		return
	}

	p0 := pl.Points[segmentID].Clone()
	p1 := pl.Points[segmentID+1].Clone()
	v := p1.Sub(p0)

	if proportion0 != 0.0 || proportion1 != 0.0 {
		p0 = p0.SubVector(v.Mul(proportion0))
		p1 = p1.AddVector(v.Mul(proportion1))
	} else {
		vNorm := v.Normalize()
		p0 = p0.SubVector(vNorm.Mul(dist0))
		p1 = p1.AddVector(vNorm.Mul(dist1))
	}

	pl.Points[segmentID] = p0
	pl.Points[segmentID+1] = p1

	if pl.IsClosed() {
		n := len(pl.Points)
		if segmentID == 0 {
			pl.Points[n-1] = pl.Points[0].Clone()
		} else if segmentID+1 == n-1 {
			pl.Points[0] = pl.Points[n-1].Clone()
		}
	}
}

// ExtendSegmentEqually extends both ends of a segment by the same
// distance or proportion.
func (pl *Polyline) ExtendSegmentEqually(segmentID int, dist, proportion float64) {
	if segmentID >= pl.SegmentCount() {
		return
	}

	start, end := ExtendSegmentEquallyStatic(pl.Points[segmentID], pl.Points[segmentID+1], dist, proportion)
	pl.Points[segmentID] = start
	pl.Points[segmentID+1] = end

	if len(pl.Points) > 2 && pl.IsClosed() {
		n := len(pl.Points)
		if segmentID == 0 {
			pl.Points[n-1] = pl.Points[0].Clone()
		} else if segmentID+1 == n-1 {
			pl.Points[0] = pl.Points[n-1].Clone()
		}
	}
}

// ExtendSegmentEquallyStatic extends a standalone segment equally on
// both ends.
func ExtendSegmentEquallyStatic(segmentStart, segmentEnd *Point, dist, proportion float64) (*Point, *Point) {
	if dist == 0.0 && proportion == 0.0 {
		return segmentStart, segmentEnd
	}
	v := segmentEnd.Sub(segmentStart)
	if proportion != 0.0 {
		return segmentStart.SubVector(v.Mul(proportion)), segmentEnd.AddVector(v.Mul(proportion))
	}
	v.NormalizeSelf()
	return segmentStart.SubVector(v.Mul(dist)), segmentEnd.AddVector(v.Mul(dist))
}

// IsClockwise reports whether the polyline winds clockwise in the XY
// projection.
func (pl *Polyline) IsClockwise() bool {
	if len(pl.Points) < 3 {
		return false
	}
	n := len(pl.Points)
	if pl.IsClosed() {
		n--
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		current := pl.Points[i]
		next := pl.Points[(i+1)%n]
		sum += (next.X() - current.X()) * (next.Y() + current.Y())
	}
	return sum > 0.0
}

// GetConvexCorners reports per corner whether it is convex relative to
// the average normal.
func (pl *Polyline) GetConvexCorners() []bool {
	if len(pl.Points) < 3 {
		return nil
	}

	normal := pl.averageNormal()
	n := len(pl.Points)
	if pl.IsClosed() {
		n--
	}
	corners := make([]bool, 0, n)

	for current := 0; current < n; current++ {
		prev := current - 1
		if current == 0 {
			prev = n - 1
		}
		next := current + 1
		if current == n-1 {
			next = 0
		}

		dir0 := pl.Points[current].Sub(pl.Points[prev])
		dir0.NormalizeSelf()
		dir1 := pl.Points[next].Sub(pl.Points[current])
		dir1.NormalizeSelf()

		cross := dir0.Cross(dir1)
		cross.NormalizeSelf()
		corners = append(corners, cross.Dot(normal) >= 0.0)
	}
	return corners
}

// TweenTwoPolylines interpolates between two polylines with the same
// point count, returning a copy of the first otherwise.
func TweenTwoPolylines(polyline0, polyline1 *Polyline, weight float64) *Polyline {
	if len(polyline0.Points) != len(polyline1.Points) {
		return polyline0.Clone()
	}
	result := EmptyPolyline()
	result.Points = make([]*Point, 0, len(polyline0.Points))
	for i := range polyline0.Points {
		diff := polyline1.Points[i].Sub(polyline0.Points[i])
		result.Points = append(result.Points, polyline0.Points[i].AddVector(diff.Mul(weight)))
	}
	return result
}

func (pl *Polyline) averageNormal() *Vector {
	n := len(pl.Points)
	if n < 3 {
		return NewVector(0, 0, 1)
	}
	if pl.IsClosed() && n > 1 {
		n--
	}

	average := NewVector(0, 0, 0)
	for i := 0; i < n; i++ {
		prev := i - 1
		if i == 0 {
			prev = n - 1
		}
		next := (i + 1) % n

		v1 := pl.Points[prev].Sub(pl.Points[i])
		v2 := pl.Points[i].Sub(pl.Points[next])
		average = average.Add(v1.Cross(v2))
	}
	average.NormalizeSelf()
	return average
}

// Clone returns a deep copy.
func (pl *Polyline) Clone() *Polyline {
	c := *pl
	c.Points = make([]*Point, len(pl.Points))
	for i, p := range pl.Points {
		c.Points[i] = p.Clone()
	}
	c.Plane = pl.Plane.Clone()
	c.LineColor = pl.LineColor.Clone()
	c.Xform = pl.Xform.Clone()
	return &c
}

func (pl *Polyline) String() string {
	return fmt.Sprintf("Polyline(guid=%s, name=%s, points=%d)", pl.GUID, pl.Name, len(pl.Points))
}

type polylineJSON struct {
	Type      string   `json:"type"`
	GUID      string   `json:"guid"`
	Name      string   `json:"name"`
	Points    []*Point `json:"points"`
	Plane     *Plane   `json:"plane"`
	Width     float64  `json:"width"`
	LineColor *Color   `json:"linecolor"`
	Xform     *Xform   `json:"xform,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (pl Polyline) MarshalJSON() ([]byte, error) {
	points := pl.Points
	if points == nil {
		points = []*Point{}
	}
	return json.Marshal(polylineJSON{
		Type:      "Polyline",
		GUID:      pl.GUID,
		Name:      pl.Name,
		Points:    points,
		Plane:     pl.Plane,
		Width:     pl.Width,
		LineColor: pl.LineColor,
		Xform:     pl.Xform,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (pl *Polyline) UnmarshalJSON(data []byte) error {
	var raw polylineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pl.GUID = raw.GUID
	pl.Name = raw.Name
	pl.Points = raw.Points
	pl.Plane = raw.Plane
	if pl.Plane == nil {
		pl.Plane = DefaultPlane()
	}
	pl.Width = raw.Width
	pl.LineColor = raw.LineColor
	if pl.LineColor == nil {
		pl.LineColor = White()
	}
	pl.Xform = raw.Xform
	if pl.Xform == nil {
		pl.Xform = Identity()
	}
	return nil
}
