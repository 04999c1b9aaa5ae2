package solid

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
)

// Cylinder is a solid defined by a centerline and radius, carrying a
// 10-sided prism mesh oriented along the line.
type Cylinder struct {
	GUID   string
	Name   string
	Radius float64
	Line   *geo.Line
	Mesh   *mesh.Mesh
	Xform  *geo.Xform
}

// NewCylinder builds a cylinder mesh around the line.
func NewCylinder(line *geo.Line, radius float64) *Cylinder {
	return &Cylinder{
		GUID:   uuid.New().String(),
		Name:   "my_cylinder",
		Radius: radius,
		Line:   line,
		Mesh:   createCylinderMesh(line, radius),
		Xform:  geo.Identity(),
	}
}

func createCylinderMesh(line *geo.Line, radius float64) *mesh.Mesh {
	vertices, triangles := unitCylinderGeometry()
	xform := lineToCylinderTransform(line, radius)

	m := mesh.New()
	appendGeometry(m, vertices, triangles, xform)
	return m
}

func lineToCylinderTransform(line *geo.Line, radius float64) *geo.Xform {
	start := line.Start()
	end := line.End()
	length := line.Length()

	xAxis, yAxis, zAxis := lineFrame(line)

	scale := geo.ScaleXYZ(radius*2.0, radius*2.0, length)
	rotation := geo.XformFromCols(xAxis, yAxis, zAxis)
	translation := geo.Translation(
		(start.X()+end.X())*0.5,
		(start.Y()+end.Y())*0.5,
		(start.Z()+end.Z())*0.5,
	)

	return translation.Mul(rotation.Mul(scale))
}

// Transform applies the centerline's pending transform and resets the
// cylinder transform to the identity.
func (c *Cylinder) Transform() {
	c.Line.Transform()
	c.Xform = geo.Identity()
}

// Transformed returns a transformed copy.
func (c *Cylinder) Transformed() *Cylinder {
	result := c.Clone()
	result.Transform()
	return result
}

// Clone returns a deep copy.
func (c *Cylinder) Clone() *Cylinder {
	return &Cylinder{
		GUID:   c.GUID,
		Name:   c.Name,
		Radius: c.Radius,
		Line:   c.Line.Clone(),
		Mesh:   c.Mesh.Clone(),
		Xform:  c.Xform.Clone(),
	}
}

type cylinderJSON struct {
	Type   string     `json:"type"`
	GUID   string     `json:"guid"`
	Name   string     `json:"name"`
	Radius float64    `json:"radius"`
	Line   *geo.Line  `json:"line"`
	Mesh   *mesh.Mesh `json:"mesh"`
}

// MarshalJSON implements json.Marshaler with a type tag.
func (c Cylinder) MarshalJSON() ([]byte, error) {
	return json.Marshal(cylinderJSON{
		Type:   "Cylinder",
		GUID:   c.GUID,
		Name:   c.Name,
		Radius: c.Radius,
		Line:   c.Line,
		Mesh:   c.Mesh,
	})
}

// UnmarshalJSON implements json.Unmarshaler. A missing mesh is rebuilt
// from the line and radius.
func (c *Cylinder) UnmarshalJSON(data []byte) error {
	var raw cylinderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.GUID = raw.GUID
	c.Name = raw.Name
	c.Radius = raw.Radius
	c.Line = raw.Line
	if c.Line == nil {
		c.Line = geo.DefaultLine()
	}
	c.Mesh = raw.Mesh
	if c.Mesh == nil {
		c.Mesh = createCylinderMesh(c.Line, c.Radius)
	}
	c.Xform = geo.Identity()
	return nil
}
