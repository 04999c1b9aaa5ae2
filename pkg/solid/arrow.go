package solid

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
)

// Arrow is a solid defined by a centerline and radius, carrying a
// 10-sided cylinder body and an 8-sided cone head. The head takes the
// last fifth of the line and is widened to 1.5 times the body radius.
type Arrow struct {
	GUID   string
	Name   string
	Radius float64
	Line   *geo.Line
	Mesh   *mesh.Mesh
	Xform  *geo.Xform
}

// NewArrow builds an arrow mesh along the line.
func NewArrow(line *geo.Line, radius float64) *Arrow {
	return &Arrow{
		GUID:   uuid.New().String(),
		Name:   "my_arrow",
		Radius: radius,
		Line:   line,
		Mesh:   createArrowMesh(line, radius),
		Xform:  geo.Identity(),
	}
}

func createArrowMesh(line *geo.Line, radius float64) *mesh.Mesh {
	start := line.Start()
	lineVec := line.ToVector()
	length := line.Length()

	xAxis, yAxis, zAxis := lineFrame(line)
	rotation := geo.XformFromCols(xAxis, yAxis, zAxis)

	coneLength := length * 0.2
	bodyLength := length * 0.8

	bodyCenter := geo.NewPoint(
		start.X()+lineVec.X()*0.4,
		start.Y()+lineVec.Y()*0.4,
		start.Z()+lineVec.Z()*0.4,
	)
	coneBaseCenter := geo.NewPoint(
		start.X()+lineVec.X()*0.9,
		start.Y()+lineVec.Y()*0.9,
		start.Z()+lineVec.Z()*0.9,
	)

	bodyScale := geo.ScaleXYZ(radius*2.0, radius*2.0, bodyLength)
	bodyTranslation := geo.Translation(bodyCenter.X(), bodyCenter.Y(), bodyCenter.Z())
	bodyXform := bodyTranslation.Mul(rotation.Mul(bodyScale))

	coneScale := geo.ScaleXYZ(radius*3.0, radius*3.0, coneLength)
	coneTranslation := geo.Translation(coneBaseCenter.X(), coneBaseCenter.Y(), coneBaseCenter.Z())
	coneXform := coneTranslation.Mul(rotation.Mul(coneScale))

	m := mesh.New()
	bodyVertices, bodyTriangles := unitCylinderGeometry()
	appendGeometry(m, bodyVertices, bodyTriangles, bodyXform)
	coneVertices, coneTriangles := unitConeGeometry()
	appendGeometry(m, coneVertices, coneTriangles, coneXform)
	return m
}

// Transform applies the centerline's pending transform and resets the
// arrow transform to the identity.
func (a *Arrow) Transform() {
	a.Line.Transform()
	a.Xform = geo.Identity()
}

// Transformed returns a transformed copy.
func (a *Arrow) Transformed() *Arrow {
	result := a.Clone()
	result.Transform()
	return result
}

// Clone returns a deep copy.
func (a *Arrow) Clone() *Arrow {
	return &Arrow{
		GUID:   a.GUID,
		Name:   a.Name,
		Radius: a.Radius,
		Line:   a.Line.Clone(),
		Mesh:   a.Mesh.Clone(),
		Xform:  a.Xform.Clone(),
	}
}

type arrowJSON struct {
	Type   string     `json:"type"`
	GUID   string     `json:"guid"`
	Name   string     `json:"name"`
	Radius float64    `json:"radius"`
	Line   *geo.Line  `json:"line"`
	Mesh   *mesh.Mesh `json:"mesh"`
}

// MarshalJSON implements json.Marshaler with a type tag.
func (a Arrow) MarshalJSON() ([]byte, error) {
	return json.Marshal(arrowJSON{
		Type:   "Arrow",
		GUID:   a.GUID,
		Name:   a.Name,
		Radius: a.Radius,
		Line:   a.Line,
		Mesh:   a.Mesh,
	})
}

// UnmarshalJSON implements json.Unmarshaler. A missing mesh is rebuilt
// from the line and radius.
func (a *Arrow) UnmarshalJSON(data []byte) error {
	var raw arrowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.GUID = raw.GUID
	a.Name = raw.Name
	a.Radius = raw.Radius
	a.Line = raw.Line
	if a.Line == nil {
		a.Line = geo.DefaultLine()
	}
	a.Mesh = raw.Mesh
	if a.Mesh == nil {
		a.Mesh = createArrowMesh(a.Line, a.Radius)
	}
	a.Xform = geo.Identity()
	return nil
}
