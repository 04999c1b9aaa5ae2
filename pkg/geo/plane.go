package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Plane is an oriented frame with a cached implicit equation
// a*x + b*y + c*z + d = 0 whose normal is the z axis.
type Plane struct {
	GUID  string
	Name  string
	Xform *Xform

	origin     *Point
	xAxis      *Vector
	yAxis      *Vector
	zAxis      *Vector
	a, b, c, d float64
}

func newPlaneFrame(name string, origin *Point, xAxis, yAxis, zAxis *Vector) *Plane {
	p := &Plane{
		GUID:   uuid.New().String(),
		Name:   name,
		Xform:  Identity(),
		origin: origin,
		xAxis:  xAxis,
		yAxis:  yAxis,
		zAxis:  zAxis,
	}
	p.updateEquation()
	return p
}

func (p *Plane) updateEquation() {
	p.a = p.zAxis.X()
	p.b = p.zAxis.Y()
	p.c = p.zAxis.Z()
	p.d = -(p.a*p.origin.X() + p.b*p.origin.Y() + p.c*p.origin.Z())
}

// NewPlane creates a plane from an origin and two in-plane axes. The y
// axis is re-orthogonalized against the x axis.
func NewPlane(point *Point, xAxis, yAxis *Vector) *Plane {
	x := xAxis.Clone()
	x.NormalizeSelf()
	y := yAxis.Clone()
	y = y.Sub(x.Mul(y.Dot(x)))
	y.NormalizeSelf()
	z := x.Cross(y)
	z.NormalizeSelf()
	return newPlaneFrame("my_plane", point, x, y, z)
}

// PlaneWithName creates a named plane from an origin and two in-plane
// axes.
func PlaneWithName(point *Point, xAxis, yAxis *Vector, name string) *Plane {
	p := NewPlane(point, xAxis, yAxis)
	p.Name = name
	return p
}

// PlaneFromPointNormal creates a plane from an origin and a normal.
func PlaneFromPointNormal(point *Point, normal *Vector) *Plane {
	z := normal.Clone()
	z.NormalizeSelf()
	x := ZeroVector()
	x.PerpendicularTo(z)
	x.NormalizeSelf()
	y := z.Cross(x)
	y.NormalizeSelf()
	return newPlaneFrame("my_plane", point, x, y, z)
}

// PlaneFromPoints creates a plane through the first three points, or
// the default plane when fewer than three are given.
func PlaneFromPoints(points []*Point) *Plane {
	if len(points) < 3 {
		return DefaultPlane()
	}
	v1 := points[1].Sub(points[0])
	v2 := points[2].Sub(points[0])
	z := v1.Cross(v2)
	z.NormalizeSelf()
	x := ZeroVector()
	x.PerpendicularTo(z)
	x.NormalizeSelf()
	y := z.Cross(x)
	y.NormalizeSelf()
	return newPlaneFrame("my_plane", points[0].Clone(), x, y, z)
}

// PlaneFromTwoPoints creates a plane whose x axis runs from point1 to
// point2.
func PlaneFromTwoPoints(point1, point2 *Point) *Plane {
	direction := point2.Sub(point1)
	direction.NormalizeSelf()
	z := ZeroVector()
	z.PerpendicularTo(direction)
	z.NormalizeSelf()
	y := z.Cross(direction)
	y.NormalizeSelf()
	return newPlaneFrame("my_plane", point1.Clone(), direction, y, z)
}

// DefaultPlane creates the world XY plane named "my_plane".
func DefaultPlane() *Plane {
	return newPlaneFrame("my_plane", NewPoint(0, 0, 0), XAxis(), YAxis(), ZAxis())
}

// XYPlane creates the world XY plane.
func XYPlane() *Plane {
	return newPlaneFrame("xy_plane", NewPoint(0, 0, 0), XAxis(), YAxis(), ZAxis())
}

// YZPlane creates the world YZ plane.
func YZPlane() *Plane {
	return newPlaneFrame("yz_plane", NewPoint(0, 0, 0), YAxis(), ZAxis(), XAxis())
}

// XZPlane creates the world XZ plane.
func XZPlane() *Plane {
	return newPlaneFrame("xz_plane", NewPoint(0, 0, 0), XAxis(), NewVector(0, 0, -1), NewVector(0, 1, 0))
}

// Origin returns a copy of the plane origin.
func (p *Plane) Origin() *Point { return p.origin.Clone() }

// XAxisVec returns a copy of the plane x axis.
func (p *Plane) XAxisVec() *Vector { return p.xAxis.Clone() }

// YAxisVec returns a copy of the plane y axis.
func (p *Plane) YAxisVec() *Vector { return p.yAxis.Clone() }

// ZAxisVec returns a copy of the plane normal.
func (p *Plane) ZAxisVec() *Vector { return p.zAxis.Clone() }

func (p *Plane) A() float64 { return p.a }
func (p *Plane) B() float64 { return p.b }
func (p *Plane) C() float64 { return p.c }
func (p *Plane) D() float64 { return p.d }

// Axis returns axis i: 0 for x, 1 for y, anything else for z.
func (p *Plane) Axis(i int) *Vector {
	switch i {
	case 0:
		return p.xAxis
	case 1:
		return p.yAxis
	default:
		return p.zAxis
	}
}

// Reverse swaps the x and y axes and flips the normal in place.
func (p *Plane) Reverse() {
	p.xAxis, p.yAxis = p.yAxis, p.xAxis
	p.zAxis.Reverse()
	p.updateEquation()
}

// Rotate rotates the x and y axes about the normal in place.
func (p *Plane) Rotate(angleRadians float64) {
	c, s := math.Cos(angleRadians), math.Sin(angleRadians)
	newX := p.xAxis.Mul(c).Add(p.yAxis.Mul(s))
	newY := p.yAxis.Mul(c).Sub(p.xAxis.Mul(s))
	p.xAxis = newX
	p.yAxis = newY
	p.updateEquation()
}

// IsRightHand reports whether the frame is right handed.
func (p *Plane) IsRightHand() bool {
	return p.xAxis.Cross(p.yAxis).Dot(p.zAxis) > 0.999
}

// IsSameDirection reports whether the normals of two planes are
// parallel, optionally allowing opposite orientation.
func IsSameDirection(plane0, plane1 *Plane, canBeFlipped bool) bool {
	parallel := plane0.zAxis.IsParallelTo(plane1.zAxis)
	if canBeFlipped {
		return parallel != 0
	}
	return parallel == 1
}

// IsSamePosition reports whether each plane's origin lies on the other
// plane.
func IsSamePosition(plane0, plane1 *Plane) bool {
	dist0 := math.Abs(plane0.a*plane1.origin.X() + plane0.b*plane1.origin.Y() + plane0.c*plane1.origin.Z() + plane0.d)
	dist1 := math.Abs(plane1.a*plane0.origin.X() + plane1.b*plane0.origin.Y() + plane1.c*plane0.origin.Z() + plane1.d)
	return dist0 < ZeroTolerance && dist1 < ZeroTolerance
}

// IsCoplanar reports whether two planes describe the same surface.
func IsCoplanar(plane0, plane1 *Plane, canBeFlipped bool) bool {
	return IsSameDirection(plane0, plane1, canBeFlipped) && IsSamePosition(plane0, plane1)
}

// AddVector translates the plane origin by v in place.
func (p *Plane) AddVector(v *Vector) {
	p.origin = p.origin.AddVector(v)
	p.d = -(p.a*p.origin.X() + p.b*p.origin.Y() + p.c*p.origin.Z())
}

// SubVector translates the plane origin by -v in place.
func (p *Plane) SubVector(v *Vector) {
	p.origin = p.origin.SubVector(v)
	p.d = -(p.a*p.origin.X() + p.b*p.origin.Y() + p.c*p.origin.Z())
}

// TranslateByNormal returns a plane moved along its normal by distance.
func (p *Plane) TranslateByNormal(distance float64) *Plane {
	normal := p.zAxis.Clone()
	normal.NormalizeSelf()
	newOrigin := p.origin.AddVector(normal.Mul(distance))
	return NewPlane(newOrigin, p.xAxis.Clone(), p.yAxis.Clone())
}

// Transform applies the stored transform to the frame and resets it to
// the identity.
func (p *Plane) Transform() {
	xform := p.Xform.Clone()
	xform.TransformPoint(p.origin)
	xform.TransformVector(p.xAxis)
	xform.TransformVector(p.yAxis)
	xform.TransformVector(p.zAxis)
	p.Xform = Identity()
}

// Transformed returns a transformed copy.
func (p *Plane) Transformed() *Plane {
	c := p.Clone()
	c.Transform()
	return c
}

// Clone returns a deep copy.
func (p *Plane) Clone() *Plane {
	c := *p
	c.Xform = p.Xform.Clone()
	c.origin = p.origin.Clone()
	c.xAxis = p.xAxis.Clone()
	c.yAxis = p.yAxis.Clone()
	c.zAxis = p.zAxis.Clone()
	return &c
}

func (p *Plane) String() string {
	return fmt.Sprintf("Plane(origin=%s, x_axis=%s, y_axis=%s, z_axis=%s, guid=%s, name=%s)",
		p.origin, p.xAxis, p.yAxis, p.zAxis, p.GUID, p.Name)
}

type planeJSON struct {
	Type   string  `json:"type"`
	GUID   string  `json:"guid"`
	Name   string  `json:"name"`
	Origin *Point  `json:"origin"`
	XAxis  *Vector `json:"x_axis"`
	YAxis  *Vector `json:"y_axis"`
	ZAxis  *Vector `json:"z_axis"`
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	C      float64 `json:"c"`
	D      float64 `json:"d"`
	Xform  *Xform  `json:"xform,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Plane) MarshalJSON() ([]byte, error) {
	return json.Marshal(planeJSON{
		Type:   "Plane",
		GUID:   p.GUID,
		Name:   p.Name,
		Origin: p.origin,
		XAxis:  p.xAxis,
		YAxis:  p.yAxis,
		ZAxis:  p.zAxis,
		A:      p.a,
		B:      p.b,
		C:      p.c,
		D:      p.d,
		Xform:  p.Xform,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Plane) UnmarshalJSON(data []byte) error {
	var raw planeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.GUID = raw.GUID
	p.Name = raw.Name
	p.origin = raw.Origin
	p.xAxis = raw.XAxis
	p.yAxis = raw.YAxis
	p.zAxis = raw.ZAxis
	p.a, p.b, p.c, p.d = raw.A, raw.B, raw.C, raw.D
	p.Xform = raw.Xform
	if p.Xform == nil {
		p.Xform = Identity()
	}
	return nil
}
