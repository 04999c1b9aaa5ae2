package session

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
	"github.com/leapstack-labs/geoscene/pkg/solid"
)

// Objects is a flat registry of every geometry kind a scene can hold.
// Each kind lives in its own slice so the JSON form stays stable across
// implementations.
type Objects struct {
	GUID        string
	Name        string
	Points      []*geo.Point
	Lines       []*geo.Line
	Planes      []*geo.Plane
	BBoxes      []*geo.BoundingBox
	Polylines   []*geo.Polyline
	PointClouds []*geo.PointCloud
	Meshes      []*mesh.Mesh
	Cylinders   []*solid.Cylinder
	Arrows      []*solid.Arrow
}

// NewObjects creates an empty registry named "my_objects".
func NewObjects() *Objects {
	return &Objects{
		GUID: uuid.New().String(),
		Name: "my_objects",
	}
}

// Len reports the total number of stored objects across all kinds.
func (o *Objects) Len() int {
	return len(o.Points) + len(o.Lines) + len(o.Planes) + len(o.BBoxes) +
		len(o.Polylines) + len(o.PointClouds) + len(o.Meshes) +
		len(o.Cylinders) + len(o.Arrows)
}

// Clone returns a deep copy of the registry.
func (o *Objects) Clone() *Objects {
	c := &Objects{GUID: o.GUID, Name: o.Name}
	for _, p := range o.Points {
		c.Points = append(c.Points, p.Clone())
	}
	for _, l := range o.Lines {
		c.Lines = append(c.Lines, l.Clone())
	}
	for _, p := range o.Planes {
		c.Planes = append(c.Planes, p.Clone())
	}
	for _, b := range o.BBoxes {
		c.BBoxes = append(c.BBoxes, b.Clone())
	}
	for _, p := range o.Polylines {
		c.Polylines = append(c.Polylines, p.Clone())
	}
	for _, p := range o.PointClouds {
		c.PointClouds = append(c.PointClouds, p.Clone())
	}
	for _, m := range o.Meshes {
		c.Meshes = append(c.Meshes, m.Clone())
	}
	for _, cy := range o.Cylinders {
		c.Cylinders = append(c.Cylinders, cy.Clone())
	}
	for _, a := range o.Arrows {
		c.Arrows = append(c.Arrows, a.Clone())
	}
	return c
}

// String implements fmt.Stringer.
func (o *Objects) String() string {
	return fmt.Sprintf("Objects(%s, %s, points=%d)", o.Name, o.GUID, len(o.Points))
}

type objectsJSON struct {
	Type        string             `json:"type"`
	GUID        string             `json:"guid"`
	Name        string             `json:"name"`
	Points      []*geo.Point       `json:"points"`
	Lines       []*geo.Line        `json:"lines"`
	Planes      []*geo.Plane       `json:"planes"`
	BBoxes      []*geo.BoundingBox `json:"bboxes"`
	Polylines   []*geo.Polyline    `json:"polylines"`
	PointClouds []*geo.PointCloud  `json:"pointclouds"`
	Meshes      []*mesh.Mesh       `json:"meshes"`
	Cylinders   []*solid.Cylinder  `json:"cylinders"`
	Arrows      []*solid.Arrow     `json:"arrows"`
}

// MarshalJSON implements json.Marshaler.
func (o Objects) MarshalJSON() ([]byte, error) {
	return json.Marshal(objectsJSON{
		Type:        "Objects",
		GUID:        o.GUID,
		Name:        o.Name,
		Points:      o.Points,
		Lines:       o.Lines,
		Planes:      o.Planes,
		BBoxes:      o.BBoxes,
		Polylines:   o.Polylines,
		PointClouds: o.PointClouds,
		Meshes:      o.Meshes,
		Cylinders:   o.Cylinders,
		Arrows:      o.Arrows,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Objects) UnmarshalJSON(data []byte) error {
	var aux objectsJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	o.GUID = aux.GUID
	o.Name = aux.Name
	if o.Name == "" {
		o.Name = "my_objects"
	}
	o.Points = aux.Points
	o.Lines = aux.Lines
	o.Planes = aux.Planes
	o.BBoxes = aux.BBoxes
	o.Polylines = aux.Polylines
	o.PointClouds = aux.PointClouds
	o.Meshes = aux.Meshes
	o.Cylinders = aux.Cylinders
	o.Arrows = aux.Arrows
	return nil
}
