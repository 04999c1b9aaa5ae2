package geo

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Point is a 3D point with display width, color and a pending transform.
type Point struct {
	GUID       string
	Name       string
	Width      float64
	PointColor *Color
	Xform      *Xform

	x, y, z float64
}

// NewPoint creates a Point with the given coordinates.
func NewPoint(x, y, z float64) *Point {
	return &Point{
		GUID:       uuid.New().String(),
		Name:       "my_point",
		Width:      1.0,
		PointColor: White(),
		Xform:      Identity(),
		x:          x,
		y:          y,
		z:          z,
	}
}

// X returns the x coordinate.
func (p *Point) X() float64 { return p.x }

// Y returns the y coordinate.
func (p *Point) Y() float64 { return p.y }

// Z returns the z coordinate.
func (p *Point) Z() float64 { return p.z }

// SetX sets the x coordinate.
func (p *Point) SetX(v float64) { p.x = v }

// SetY sets the y coordinate.
func (p *Point) SetY(v float64) { p.y = v }

// SetZ sets the z coordinate.
func (p *Point) SetZ(v float64) { p.z = v }

// At returns the coordinate at index 0, 1 or 2.
func (p *Point) At(i int) float64 {
	switch i {
	case 0:
		return p.x
	case 1:
		return p.y
	case 2:
		return p.z
	}
	panic("geo: point index out of bounds")
}

// SetAt sets the coordinate at index 0, 1 or 2.
func (p *Point) SetAt(i int, v float64) {
	switch i {
	case 0:
		p.x = v
	case 1:
		p.y = v
	case 2:
		p.z = v
	default:
		panic("geo: point index out of bounds")
	}
}

// Clone returns a copy preserving guid and name.
func (p *Point) Clone() *Point {
	c := *p
	if p.PointColor != nil {
		c.PointColor = p.PointColor.Clone()
	}
	if p.Xform != nil {
		c.Xform = p.Xform.Clone()
	}
	return &c
}

// Transform applies the pending xform to the coordinates and resets it
// to identity.
func (p *Point) Transform() {
	xform := p.Xform.Clone()
	xform.TransformPoint(p)
	p.Xform = Identity()
}

// Transformed returns a transformed copy.
func (p *Point) Transformed() *Point {
	result := p.Clone()
	result.Transform()
	return result
}

// CCW reports whether a, b, c wind counter-clockwise in the XY plane.
func CCW(a, b, c *Point) bool {
	return (c.y-a.y)*(b.x-a.x) > (b.y-a.y)*(c.x-a.x)
}

// MidPoint returns the midpoint between p and other.
func (p *Point) MidPoint(other *Point) *Point {
	return NewPoint((p.x+other.x)/2, (p.y+other.y)/2, (p.z+other.z)/2)
}

// Distance returns the distance to other, scaled by the largest
// component for numerical stability.
func (p *Point) Distance(other *Point) float64 {
	return p.DistanceWithMin(other, 1e-12)
}

// DistanceWithMin is Distance with an explicit minimum on the dominant
// component.
func (p *Point) DistanceWithMin(other *Point, doubleMin float64) float64 {
	dx := math.Abs(p.x - other.x)
	dy := math.Abs(p.y - other.y)
	dz := math.Abs(p.z - other.z)

	// Largest component goes into dx
	if dy >= dx && dy >= dz {
		dx, dy = dy, dx
	} else if dz >= dx && dz >= dy {
		dx, dz = dz, dx
	}

	switch {
	case dx > doubleMin:
		dy /= dx
		dz /= dx
		return dx * math.Sqrt(1+dy*dy+dz*dz)
	case dx > 0 && !math.IsInf(dx, 0) && !math.IsNaN(dx):
		return dx
	default:
		return 0
	}
}

// Area returns the shoelace area of a polygon projected on XY.
func Area(points []*Point) float64 {
	n := len(points)
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].x * points[j].y
		area -= points[j].x * points[i].y
	}
	return math.Abs(area) / 2
}

// CentroidQuad returns the area-weighted centroid of a quadrilateral.
func CentroidQuad(vertices []*Point) (*Point, error) {
	if len(vertices) != 4 {
		return nil, errors.New("polygon must have exactly 4 vertices")
	}

	totalArea := 0.0
	centroidSum := ZeroVector()

	for i := 0; i < 4; i++ {
		p0 := vertices[i]
		p1 := vertices[(i+1)%4]
		p2 := vertices[(i+2)%4]

		triArea := math.Abs(p0.x*(p1.y-p2.y)+p1.x*(p2.y-p0.y)+p2.x*(p0.y-p1.y)) / 2
		totalArea += triArea

		triCentroid := NewVector((p0.x+p1.x+p2.x)/3, (p0.y+p1.y+p2.y)/3, (p0.z+p1.z+p2.z)/3)
		centroidSum = centroidSum.Add(triCentroid.Mul(triArea))
	}

	result := centroidSum.Div(totalArea)
	return NewPoint(result.X(), result.Y(), result.Z()), nil
}

// Sub returns the vector p - other.
func (p *Point) Sub(other *Point) *Vector {
	return NewVector(p.x-other.x, p.y-other.y, p.z-other.z)
}

// AddVector returns p translated by v.
func (p *Point) AddVector(v *Vector) *Point {
	return NewPoint(p.x+v.X(), p.y+v.Y(), p.z+v.Z())
}

// SubVector returns p translated by -v.
func (p *Point) SubVector(v *Vector) *Point {
	return NewPoint(p.x-v.X(), p.y-v.Y(), p.z-v.Z())
}

// Mul returns p scaled by rhs.
func (p *Point) Mul(rhs float64) *Point {
	return NewPoint(p.x*rhs, p.y*rhs, p.z*rhs)
}

// Div returns p divided by rhs.
func (p *Point) Div(rhs float64) *Point {
	return NewPoint(p.x/rhs, p.y/rhs, p.z/rhs)
}

// Equals compares name, Scale-rounded coordinates, width and color.
// GUIDs are intentionally ignored.
func (p *Point) Equals(other *Point) bool {
	return p.Name == other.Name &&
		math.Round(p.x*Scale) == math.Round(other.x*Scale) &&
		math.Round(p.y*Scale) == math.Round(other.y*Scale) &&
		math.Round(p.z*Scale) == math.Round(other.z*Scale) &&
		math.Round(p.Width*Scale) == math.Round(other.Width*Scale) &&
		p.PointColor.Equals(other.PointColor)
}

func (p *Point) String() string {
	prec := TOL.Precision()
	return fmt.Sprintf("Point(x=%s, y=%s, z=%s)",
		TOL.FormatNumber(p.x, prec),
		TOL.FormatNumber(p.y, prec),
		TOL.FormatNumber(p.z, prec))
}

type pointJSON struct {
	Type       string  `json:"type"`
	GUID       string  `json:"guid"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Width      float64 `json:"width"`
	PointColor *Color  `json:"pointcolor"`
	Xform      *Xform  `json:"xform,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(pointJSON{
		Type:       "Point",
		GUID:       p.GUID,
		Name:       p.Name,
		X:          p.x,
		Y:          p.y,
		Z:          p.z,
		Width:      p.Width,
		PointColor: p.PointColor,
		Xform:      p.Xform,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw pointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.GUID = raw.GUID
	p.Name = raw.Name
	p.x, p.y, p.z = raw.X, raw.Y, raw.Z
	p.Width = raw.Width
	p.PointColor = raw.PointColor
	if p.PointColor == nil {
		p.PointColor = White()
	}
	p.Xform = raw.Xform
	if p.Xform == nil {
		p.Xform = Identity()
	}
	return nil
}
