package solid

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

func TestNewCylinder(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 0, 0, 10)
	c := NewCylinder(line, 1.0)

	assert.Equal(t, 1.0, c.Radius)
	assert.Equal(t, 20, c.Mesh.NumberOfVertices())
	assert.Equal(t, 20, c.Mesh.NumberOfFaces())
	assert.NotEmpty(t, c.GUID)
	assert.Equal(t, "my_cylinder", c.Name)
}

func TestCylinderMeshExtent(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 0, 0, 10)
	c := NewCylinder(line, 2.0)

	vertices, _ := c.Mesh.ToVerticesAndFaces()
	for _, v := range vertices {
		r := math.Hypot(v.X(), v.Y())
		assert.InDelta(t, 2.0, r, 1e-4)
		assert.True(t, v.Z() >= -1e-9 && v.Z() <= 10.0+1e-9)
	}
}

func TestCylinderJSONRoundTrip(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 5, 0, 0)
	c := NewCylinder(line, 2.0)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"Cylinder"`)

	var loaded Cylinder
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, 2.0, loaded.Radius)
	assert.Equal(t, 20, loaded.Mesh.NumberOfVertices())
	assert.Equal(t, 20, loaded.Mesh.NumberOfFaces())
}

func TestCylinderJSONFile(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 0, 0, 8)
	c := NewCylinder(line, 1.0)

	path := filepath.Join(t.TempDir(), "cylinder.json")
	require.NoError(t, geo.JSONDump(c, path, true))

	var loaded Cylinder
	require.NoError(t, geo.JSONLoad(path, &loaded))
	assert.Equal(t, 1.0, loaded.Radius)
	assert.Equal(t, 20, loaded.Mesh.NumberOfVertices())
}

func TestNewArrow(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 0, 0, 10)
	a := NewArrow(line, 1.0)

	assert.Equal(t, 1.0, a.Radius)
	assert.Equal(t, 29, a.Mesh.NumberOfVertices())
	assert.Equal(t, 28, a.Mesh.NumberOfFaces())
	assert.NotEmpty(t, a.GUID)
	assert.Equal(t, "my_arrow", a.Name)
}

func TestArrowGeometryPlacement(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 0, 0, 10)
	a := NewArrow(line, 1.0)

	vertices, _ := a.Mesh.ToVerticesAndFaces()

	// The cone apex sits at the line end, the body starts at the line
	// start.
	maxZ := math.Inf(-1)
	minZ := math.Inf(1)
	for _, v := range vertices {
		maxZ = math.Max(maxZ, v.Z())
		minZ = math.Min(minZ, v.Z())
	}
	assert.InDelta(t, 10.0, maxZ, 1e-9)
	assert.InDelta(t, 0.0, minZ, 1e-9)
}

func TestArrowJSONRoundTrip(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 5, 0, 0)
	a := NewArrow(line, 2.0)

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"Arrow"`)

	var loaded Arrow
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, 2.0, loaded.Radius)
	assert.Equal(t, 29, loaded.Mesh.NumberOfVertices())
	assert.Equal(t, 28, loaded.Mesh.NumberOfFaces())
}

func TestArrowUnmarshalRebuildsMissingMesh(t *testing.T) {
	payload := `{"type":"Arrow","guid":"g","name":"n","radius":1.0,"line":null,"mesh":null}`

	var a Arrow
	require.NoError(t, json.Unmarshal([]byte(payload), &a))
	assert.Equal(t, 29, a.Mesh.NumberOfVertices())
	require.NotNil(t, a.Line)
	assert.InDelta(t, 1.0, a.Line.Length(), 1e-12)
}

func TestCylinderClone(t *testing.T) {
	line := geo.NewLine(0, 0, 0, 0, 0, 10)
	c := NewCylinder(line, 1.0)

	clone := c.Clone()
	clone.Radius = 5.0
	clone.Line.SetZ1(20)

	assert.Equal(t, 1.0, c.Radius)
	assert.Equal(t, 10.0, c.Line.Z1())
}
