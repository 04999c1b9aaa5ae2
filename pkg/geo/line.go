package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Line is a segment between two endpoints with display attributes.
type Line struct {
	GUID      string
	Name      string
	Width     float64
	LineColor *Color
	Xform     *Xform

	x0, y0, z0 float64
	x1, y1, z1 float64
}

// NewLine creates a line from endpoint coordinates.
func NewLine(x0, y0, z0, x1, y1, z1 float64) *Line {
	return &Line{
		GUID:      uuid.New().String(),
		Name:      "my_line",
		Width:     1.0,
		LineColor: White(),
		Xform:     Identity(),
		x0:        x0,
		y0:        y0,
		z0:        z0,
		x1:        x1,
		y1:        y1,
		z1:        z1,
	}
}

// DefaultLine creates the unit line from the origin along z.
func DefaultLine() *Line { return NewLine(0, 0, 0, 0, 0, 1) }

// LineFromPoints creates a line spanning two points.
func LineFromPoints(p1, p2 *Point) *Line {
	return NewLine(p1.X(), p1.Y(), p1.Z(), p2.X(), p2.Y(), p2.Z())
}

// LineWithName creates a named line from endpoint coordinates.
func LineWithName(name string, x0, y0, z0, x1, y1, z1 float64) *Line {
	l := NewLine(x0, y0, z0, x1, y1, z1)
	l.Name = name
	return l
}

func (l *Line) X0() float64 { return l.x0 }
func (l *Line) Y0() float64 { return l.y0 }
func (l *Line) Z0() float64 { return l.z0 }
func (l *Line) X1() float64 { return l.x1 }
func (l *Line) Y1() float64 { return l.y1 }
func (l *Line) Z1() float64 { return l.z1 }

func (l *Line) SetX0(v float64) { l.x0 = v }
func (l *Line) SetY0(v float64) { l.y0 = v }
func (l *Line) SetZ0(v float64) { l.z0 = v }
func (l *Line) SetX1(v float64) { l.x1 = v }
func (l *Line) SetY1(v float64) { l.y1 = v }
func (l *Line) SetZ1(v float64) { l.z1 = v }

// At returns coordinate i in the order x0, y0, z0, x1, y1, z1.
func (l *Line) At(i int) float64 {
	switch i {
	case 0:
		return l.x0
	case 1:
		return l.y0
	case 2:
		return l.z0
	case 3:
		return l.x1
	case 4:
		return l.y1
	case 5:
		return l.z1
	default:
		panic(fmt.Sprintf("geo: line index out of bounds: %d", i))
	}
}

// SetAt sets coordinate i in the order x0, y0, z0, x1, y1, z1.
func (l *Line) SetAt(i int, v float64) {
	switch i {
	case 0:
		l.x0 = v
	case 1:
		l.y0 = v
	case 2:
		l.z0 = v
	case 3:
		l.x1 = v
	case 4:
		l.y1 = v
	case 5:
		l.z1 = v
	default:
		panic(fmt.Sprintf("geo: line index out of bounds: %d", i))
	}
}

// Length returns the segment length.
func (l *Line) Length() float64 {
	return math.Sqrt(l.SquaredLength())
}

// SquaredLength returns the squared segment length.
func (l *Line) SquaredLength() float64 {
	dx := l.x1 - l.x0
	dy := l.y1 - l.y0
	dz := l.z1 - l.z0
	return dx*dx + dy*dy + dz*dz
}

// ToVector returns the vector from start to end.
func (l *Line) ToVector() *Vector {
	return NewVector(l.x1-l.x0, l.y1-l.y0, l.z1-l.z0)
}

// PointAt returns the point at parameter t, with t=0 at start and t=1
// at end.
func (l *Line) PointAt(t float64) *Point {
	s := 1.0 - t
	return NewPoint(s*l.x0+t*l.x1, s*l.y0+t*l.y1, s*l.z0+t*l.z1)
}

// Start returns the start point.
func (l *Line) Start() *Point { return NewPoint(l.x0, l.y0, l.z0) }

// End returns the end point.
func (l *Line) End() *Point { return NewPoint(l.x1, l.y1, l.z1) }

// AddVector translates both endpoints by v in place.
func (l *Line) AddVector(v *Vector) {
	l.x0 += v.X()
	l.y0 += v.Y()
	l.z0 += v.Z()
	l.x1 += v.X()
	l.y1 += v.Y()
	l.z1 += v.Z()
}

// SubVector translates both endpoints by -v in place.
func (l *Line) SubVector(v *Vector) {
	l.x0 -= v.X()
	l.y0 -= v.Y()
	l.z0 -= v.Z()
	l.x1 -= v.X()
	l.y1 -= v.Y()
	l.z1 -= v.Z()
}

// Scale scales both endpoints about the origin in place.
func (l *Line) Scale(factor float64) {
	l.x0 *= factor
	l.y0 *= factor
	l.z0 *= factor
	l.x1 *= factor
	l.y1 *= factor
	l.z1 *= factor
}

// Divide divides both endpoints by factor in place.
func (l *Line) Divide(factor float64) {
	l.Scale(1.0 / factor)
}

// Transform applies the stored transform to the endpoints and resets it
// to the identity.
func (l *Line) Transform() {
	start := l.Start()
	end := l.End()
	l.Xform.TransformPoint(start)
	l.Xform.TransformPoint(end)
	l.x0, l.y0, l.z0 = start.X(), start.Y(), start.Z()
	l.x1, l.y1, l.z1 = end.X(), end.Y(), end.Z()
	l.Xform = Identity()
}

// Transformed returns a transformed copy.
func (l *Line) Transformed() *Line {
	c := l.Clone()
	c.Transform()
	return c
}

// Clone returns a deep copy.
func (l *Line) Clone() *Line {
	c := *l
	c.LineColor = l.LineColor.Clone()
	c.Xform = l.Xform.Clone()
	return &c
}

func (l *Line) String() string {
	return fmt.Sprintf("Line(%v, %v, %v, %v, %v, %v)", l.x0, l.y0, l.z0, l.x1, l.y1, l.z1)
}

type lineJSON struct {
	Type      string  `json:"type"`
	GUID      string  `json:"guid"`
	Name      string  `json:"name"`
	X0        float64 `json:"x0"`
	Y0        float64 `json:"y0"`
	Z0        float64 `json:"z0"`
	X1        float64 `json:"x1"`
	Y1        float64 `json:"y1"`
	Z1        float64 `json:"z1"`
	Width     float64 `json:"width"`
	LineColor *Color  `json:"linecolor"`
	Xform     *Xform  `json:"xform,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineJSON{
		Type:      "Line",
		GUID:      l.GUID,
		Name:      l.Name,
		X0:        l.x0,
		Y0:        l.y0,
		Z0:        l.z0,
		X1:        l.x1,
		Y1:        l.y1,
		Z1:        l.z1,
		Width:     l.Width,
		LineColor: l.LineColor,
		Xform:     l.Xform,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw lineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.GUID = raw.GUID
	l.Name = raw.Name
	l.x0, l.y0, l.z0 = raw.X0, raw.Y0, raw.Z0
	l.x1, l.y1, l.z1 = raw.X1, raw.Y1, raw.Z1
	l.Width = raw.Width
	l.LineColor = raw.LineColor
	if l.LineColor == nil {
		l.LineColor = White()
	}
	l.Xform = raw.Xform
	if l.Xform == nil {
		l.Xform = Identity()
	}
	return nil
}
