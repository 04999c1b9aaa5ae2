package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointCloudBasics(t *testing.T) {
	pc := EmptyPointCloud()
	assert.True(t, pc.IsEmpty())

	pc = NewPointCloud(
		[]*Point{NewPoint(0, 0, 0), NewPoint(1, 1, 1)},
		[]*Vector{NewVector(0, 0, 1), NewVector(0, 0, 1)},
		[]*Color{Red(), Blue()},
	)
	assert.Equal(t, 2, pc.Len())
	assert.Equal(t, "my_pointcloud", pc.Name)
}

func TestPointCloudTransform(t *testing.T) {
	pc := NewPointCloud(
		[]*Point{NewPoint(1, 0, 0)},
		[]*Vector{NewVector(1, 0, 0)},
		nil,
	)
	pc.Xform = Translation(0, 5, 0)
	pc.Transform()
	assert.InDelta(t, 5.0, pc.Points[0].Y(), 1e-12)
	// normals ignore translation
	assert.InDelta(t, 0.0, pc.Normals[0].Y(), 1e-12)
	assert.True(t, pc.Xform.IsIdentity())
}

func TestPointCloudJSONFlattens(t *testing.T) {
	pc := NewPointCloud(
		[]*Point{NewPoint(1, 2, 3), NewPoint(4, 5, 6)},
		[]*Vector{NewVector(0, 0, 1), NewVector(0, 1, 0)},
		[]*Color{Red(), Green()},
	)
	data, err := JSONDumps(pc, false)
	require.NoError(t, err)
	assert.Contains(t, data, `"points":[1,2,3,4,5,6]`)

	var got PointCloud
	require.NoError(t, JSONLoads(data, &got))
	require.Equal(t, 2, got.Len())
	assert.True(t, got.Points[1].Equals(NewPoint(4, 5, 6)))
	require.Len(t, got.Colors, 2)
	// alpha is not serialized and restores as opaque
	assert.Equal(t, uint8(255), got.Colors[0].A)
	assert.Equal(t, pc.Colors[0].R, got.Colors[0].R)
}
