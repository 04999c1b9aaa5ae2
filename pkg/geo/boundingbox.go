package geo

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

// BoundingBox is an oriented box described by a center, three axes and
// per-axis half sizes.
type BoundingBox struct {
	Center   *Point
	XAxis    *Vector
	YAxis    *Vector
	ZAxis    *Vector
	HalfSize *Vector
	GUID     string
	Name     string
	Xform    *Xform
}

// NewBoundingBox creates an oriented box from a center, axes and half
// sizes.
func NewBoundingBox(center *Point, xAxis, yAxis, zAxis, halfSize *Vector) *BoundingBox {
	return &BoundingBox{
		Center:   center,
		XAxis:    xAxis,
		YAxis:    yAxis,
		ZAxis:    zAxis,
		HalfSize: halfSize,
		GUID:     uuid.New().String(),
		Name:     "my_boundingbox",
		Xform:    Identity(),
	}
}

// DefaultBoundingBox creates the unit axis-aligned box at the origin.
func DefaultBoundingBox() *BoundingBox {
	b := NewBoundingBox(NewPoint(0, 0, 0), NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(0, 0, 1), NewVector(0.5, 0.5, 0.5))
	b.Name = ""
	return b
}

// BoundingBoxFromPlane creates a box centered on a plane frame with
// full extents dx, dy, dz.
func BoundingBoxFromPlane(plane *Plane, dx, dy, dz float64) *BoundingBox {
	b := NewBoundingBox(plane.Origin(), plane.XAxisVec(), plane.YAxisVec(), plane.ZAxisVec(),
		NewVector(dx*0.5, dy*0.5, dz*0.5))
	b.Name = ""
	return b
}

// BoundingBoxFromPoint creates an axis-aligned box around a point.
func BoundingBoxFromPoint(point *Point, inflate float64) *BoundingBox {
	b := NewBoundingBox(point, NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(0, 0, 1),
		NewVector(inflate, inflate, inflate))
	b.Name = ""
	return b
}

// BoundingBoxFromPoints creates the axis-aligned box enclosing points,
// grown by inflate on each side.
func BoundingBoxFromPoints(points []*Point, inflate float64) *BoundingBox {
	if len(points) == 0 {
		return DefaultBoundingBox()
	}

	minX, minY, minZ := math.MaxFloat64, math.MaxFloat64, math.MaxFloat64
	maxX, maxY, maxZ := -math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64
	for _, pt := range points {
		minX = math.Min(minX, pt.X())
		minY = math.Min(minY, pt.Y())
		minZ = math.Min(minZ, pt.Z())
		maxX = math.Max(maxX, pt.X())
		maxY = math.Max(maxY, pt.Y())
		maxZ = math.Max(maxZ, pt.Z())
	}

	center := NewPoint((minX+maxX)*0.5, (minY+maxY)*0.5, (minZ+maxZ)*0.5)
	halfSize := NewVector((maxX-minX)*0.5+inflate, (maxY-minY)*0.5+inflate, (maxZ-minZ)*0.5+inflate)

	b := NewBoundingBox(center, NewVector(1, 0, 0), NewVector(0, 1, 0), NewVector(0, 0, 1), halfSize)
	b.Name = ""
	return b
}

// BoundingBoxFromLine creates the axis-aligned box enclosing a line.
func BoundingBoxFromLine(line *Line, inflate float64) *BoundingBox {
	return BoundingBoxFromPoints([]*Point{line.Start(), line.End()}, inflate)
}

// BoundingBoxFromPolyline creates the axis-aligned box enclosing a
// polyline.
func BoundingBoxFromPolyline(polyline *Polyline, inflate float64) *BoundingBox {
	return BoundingBoxFromPoints(polyline.Points, inflate)
}

// PointAt returns the point offset from the center by x, y, z along
// the box axes.
func (b *BoundingBox) PointAt(x, y, z float64) *Point {
	return NewPoint(
		b.Center.X()+x*b.XAxis.X()+y*b.YAxis.X()+z*b.ZAxis.X(),
		b.Center.Y()+x*b.XAxis.Y()+y*b.YAxis.Y()+z*b.ZAxis.Y(),
		b.Center.Z()+x*b.XAxis.Z()+y*b.YAxis.Z()+z*b.ZAxis.Z(),
	)
}

// MinPoint returns center minus half size, ignoring orientation.
func (b *BoundingBox) MinPoint() *Point {
	return NewPoint(b.Center.X()-b.HalfSize.X(), b.Center.Y()-b.HalfSize.Y(), b.Center.Z()-b.HalfSize.Z())
}

// MaxPoint returns center plus half size, ignoring orientation.
func (b *BoundingBox) MaxPoint() *Point {
	return NewPoint(b.Center.X()+b.HalfSize.X(), b.Center.Y()+b.HalfSize.Y(), b.Center.Z()+b.HalfSize.Z())
}

// Corners returns the eight box corners, bottom rectangle first.
func (b *BoundingBox) Corners() [8]*Point {
	hx, hy, hz := b.HalfSize.X(), b.HalfSize.Y(), b.HalfSize.Z()
	return [8]*Point{
		b.PointAt(hx, hy, -hz),
		b.PointAt(-hx, hy, -hz),
		b.PointAt(-hx, -hy, -hz),
		b.PointAt(hx, -hy, -hz),
		b.PointAt(hx, hy, hz),
		b.PointAt(-hx, hy, hz),
		b.PointAt(-hx, -hy, hz),
		b.PointAt(hx, -hy, hz),
	}
}

// TwoRectangles returns the bottom and top rectangles as closed loops
// of five points each.
func (b *BoundingBox) TwoRectangles() [10]*Point {
	hx, hy, hz := b.HalfSize.X(), b.HalfSize.Y(), b.HalfSize.Z()
	return [10]*Point{
		b.PointAt(hx, hy, -hz),
		b.PointAt(-hx, hy, -hz),
		b.PointAt(-hx, -hy, -hz),
		b.PointAt(hx, -hy, -hz),
		b.PointAt(hx, hy, -hz),
		b.PointAt(hx, hy, hz),
		b.PointAt(-hx, hy, hz),
		b.PointAt(-hx, -hy, hz),
		b.PointAt(hx, -hy, hz),
		b.PointAt(hx, hy, hz),
	}
}

// Inflate grows the half size by amount on every axis in place.
func (b *BoundingBox) Inflate(amount float64) {
	b.HalfSize = NewVector(b.HalfSize.X()+amount, b.HalfSize.Y()+amount, b.HalfSize.Z()+amount)
}

func separatingPlaneExists(relativePosition, axis *Vector, box1, box2 *BoundingBox) bool {
	dotRP := math.Abs(relativePosition.Dot(axis))

	proj1 := math.Abs(box1.XAxis.Mul(box1.HalfSize.X()).Dot(axis)) +
		math.Abs(box1.YAxis.Mul(box1.HalfSize.Y()).Dot(axis)) +
		math.Abs(box1.ZAxis.Mul(box1.HalfSize.Z()).Dot(axis))

	proj2 := math.Abs(box2.XAxis.Mul(box2.HalfSize.X()).Dot(axis)) +
		math.Abs(box2.YAxis.Mul(box2.HalfSize.Y()).Dot(axis)) +
		math.Abs(box2.ZAxis.Mul(box2.HalfSize.Z()).Dot(axis))

	return dotRP > proj1+proj2
}

// CollidesWith reports whether two oriented boxes intersect, testing
// the fifteen separating axes.
func (b *BoundingBox) CollidesWith(other *BoundingBox) bool {
	relativePosition := NewVector(
		other.Center.X()-b.Center.X(),
		other.Center.Y()-b.Center.Y(),
		other.Center.Z()-b.Center.Z(),
	)

	axes := []*Vector{
		b.XAxis, b.YAxis, b.ZAxis,
		other.XAxis, other.YAxis, other.ZAxis,
		b.XAxis.Cross(other.XAxis), b.XAxis.Cross(other.YAxis), b.XAxis.Cross(other.ZAxis),
		b.YAxis.Cross(other.XAxis), b.YAxis.Cross(other.YAxis), b.YAxis.Cross(other.ZAxis),
		b.ZAxis.Cross(other.XAxis), b.ZAxis.Cross(other.YAxis), b.ZAxis.Cross(other.ZAxis),
	}
	for _, axis := range axes {
		if separatingPlaneExists(relativePosition, axis, b, other) {
			return false
		}
	}
	return true
}

// Transform applies the stored transform to the center and axes and
// resets it to the identity.
func (b *BoundingBox) Transform() {
	xform := b.Xform.Clone()
	xform.TransformPoint(b.Center)
	xform.TransformVector(b.XAxis)
	xform.TransformVector(b.YAxis)
	xform.TransformVector(b.ZAxis)
	b.Xform = Identity()
}

// Transformed returns a transformed copy.
func (b *BoundingBox) Transformed() *BoundingBox {
	c := b.Clone()
	c.Transform()
	return c
}

// Clone returns a deep copy.
func (b *BoundingBox) Clone() *BoundingBox {
	c := *b
	c.Center = b.Center.Clone()
	c.XAxis = b.XAxis.Clone()
	c.YAxis = b.YAxis.Clone()
	c.ZAxis = b.ZAxis.Clone()
	c.HalfSize = b.HalfSize.Clone()
	c.Xform = b.Xform.Clone()
	return &c
}

type boundingBoxJSON struct {
	Type     string  `json:"type"`
	Center   *Point  `json:"center"`
	XAxis    *Vector `json:"x_axis"`
	YAxis    *Vector `json:"y_axis"`
	ZAxis    *Vector `json:"z_axis"`
	HalfSize *Vector `json:"half_size"`
	GUID     string  `json:"guid"`
	Name     string  `json:"name"`
	Xform    *Xform  `json:"xform,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal(boundingBoxJSON{
		Type:     "BoundingBox",
		Center:   b.Center,
		XAxis:    b.XAxis,
		YAxis:    b.YAxis,
		ZAxis:    b.ZAxis,
		HalfSize: b.HalfSize,
		GUID:     b.GUID,
		Name:     b.Name,
		Xform:    b.Xform,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw boundingBoxJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Center = raw.Center
	b.XAxis = raw.XAxis
	b.YAxis = raw.YAxis
	b.ZAxis = raw.ZAxis
	b.HalfSize = raw.HalfSize
	b.GUID = raw.GUID
	b.Name = raw.Name
	b.Xform = raw.Xform
	if b.Xform == nil {
		b.Xform = Identity()
	}
	return nil
}
