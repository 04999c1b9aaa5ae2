package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
	"github.com/leapstack-labs/geoscene/pkg/solid"
)

func TestNewObjectsDefaults(t *testing.T) {
	o := NewObjects()
	assert.Equal(t, "my_objects", o.Name)
	assert.NotEmpty(t, o.GUID)
	assert.Zero(t, o.Len())
}

func TestObjectsLen(t *testing.T) {
	o := NewObjects()
	o.Points = append(o.Points, geo.NewPoint(1, 2, 3))
	o.Lines = append(o.Lines, geo.NewLine(0, 0, 0, 1, 1, 1))
	o.Meshes = append(o.Meshes, mesh.New())
	assert.Equal(t, 3, o.Len())
}

func TestObjectsJSONRoundTrip(t *testing.T) {
	o := NewObjects()
	o.Points = append(o.Points, geo.NewPoint(1, 2, 3))
	o.Lines = append(o.Lines, geo.NewLine(0, 0, 0, 1, 1, 1))
	o.Planes = append(o.Planes, geo.PlaneFromPointNormal(geo.NewPoint(0, 0, 0), geo.NewVector(0, 0, 1)))
	o.BBoxes = append(o.BBoxes, geo.BoundingBoxFromPoint(geo.NewPoint(0, 0, 0), 1.0))
	o.Polylines = append(o.Polylines, geo.NewPolyline([]*geo.Point{geo.NewPoint(0, 0, 0), geo.NewPoint(1, 0, 0)}))
	o.PointClouds = append(o.PointClouds, geo.NewPointCloud([]*geo.Point{geo.NewPoint(0, 0, 0)}, nil, nil))
	o.Meshes = append(o.Meshes, mesh.New())
	o.Cylinders = append(o.Cylinders, solid.NewCylinder(geo.NewLine(0, 0, 0, 0, 0, 1), 0.5))
	o.Arrows = append(o.Arrows, solid.NewArrow(geo.NewLine(0, 0, 0, 1, 0, 0), 0.1))

	data, err := geo.JSONDumps(o, false)
	require.NoError(t, err)
	assert.True(t, strings.Contains(data, `"type":"Objects"`))

	var loaded Objects
	require.NoError(t, geo.JSONLoads(data, &loaded))
	assert.Equal(t, o.GUID, loaded.GUID)
	assert.Equal(t, o.Name, loaded.Name)
	assert.Equal(t, 9, loaded.Len())
	assert.InDelta(t, 1.0, loaded.Points[0].X(), 1e-12)
}

func TestObjectsClone(t *testing.T) {
	o := NewObjects()
	o.Points = append(o.Points, geo.NewPoint(1, 2, 3))
	o.Cylinders = append(o.Cylinders, solid.NewCylinder(geo.NewLine(0, 0, 0, 0, 0, 1), 0.5))

	c := o.Clone()
	c.Points[0].SetX(9)
	assert.InDelta(t, 1.0, o.Points[0].X(), 1e-12)
	assert.Equal(t, o.Cylinders[0].GUID, c.Cylinders[0].GUID)
	assert.NotSame(t, o.Cylinders[0], c.Cylinders[0])
}

func TestObjectsString(t *testing.T) {
	o := NewObjects()
	o.Points = append(o.Points, geo.NewPoint(0, 0, 0))
	s := o.String()
	assert.True(t, strings.HasPrefix(s, "Objects(my_objects"))
	assert.True(t, strings.Contains(s, "points=1"))
}
