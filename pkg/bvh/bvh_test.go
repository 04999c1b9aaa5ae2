package bvh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

func boxAt(x, y, z, half float64) *geo.BoundingBox {
	return geo.BoundingBoxFromPoint(geo.NewPoint(x, y, z), half)
}

func TestExpandBits(t *testing.T) {
	assert.Equal(t, uint32(0), ExpandBits(0))
	assert.Equal(t, uint32(1), ExpandBits(1))
	// 0b11 spreads to 0b1001
	assert.Equal(t, uint32(9), ExpandBits(3))
	// every bit lands in a slot divisible by 3
	assert.Equal(t, uint32(0x09249249), ExpandBits(1023))
}

func TestCalculateMortonCodeOrdering(t *testing.T) {
	worldSize := 100.0
	origin := CalculateMortonCode(-50, -50, -50, worldSize)
	assert.Equal(t, uint32(0), origin)

	far := CalculateMortonCode(50, 50, 50, worldSize)
	assert.Equal(t, uint32(0x3FFFFFFF), far)

	// out-of-range coordinates clamp instead of wrapping
	assert.Equal(t, origin, CalculateMortonCode(-500, -500, -500, worldSize))
	assert.Equal(t, far, CalculateMortonCode(500, 500, 500, worldSize))
}

func TestComputeWorldSize(t *testing.T) {
	assert.Equal(t, DefaultWorldSize, ComputeWorldSize(nil))

	boxes := []*geo.BoundingBox{boxAt(0, 0, 0, 1)}
	// tiny scenes floor at 10
	assert.Equal(t, 10.0, ComputeWorldSize(boxes))

	boxes = append(boxes, boxAt(100, 0, 0, 1))
	assert.InDelta(t, 101.0*2.2, ComputeWorldSize(boxes), 1e-9)
}

func TestBuildSingleBox(t *testing.T) {
	boxes := []*geo.BoundingBox{boxAt(0, 0, 0, 1)}
	b := FromBoxes(boxes, 100)

	hits := b.RayCast(geo.NewPoint(-10, 0, 0), geo.NewVector(1, 0, 0))
	require.Len(t, hits, 1)
	assert.Equal(t, 0, hits[0])
}

func TestFindCollisions(t *testing.T) {
	boxes := []*geo.BoundingBox{
		boxAt(0, 0, 0, 1),
		boxAt(1.5, 0, 0, 1),
		boxAt(10, 0, 0, 1),
		boxAt(10.5, 0, 0, 1),
	}
	b := FromBoxes(boxes, ComputeWorldSize(boxes))

	collisions, checks := b.FindCollisions(0, boxes[0], boxes)
	require.Len(t, collisions, 1)
	assert.Equal(t, 1, collisions[0])
	assert.Greater(t, checks, 0)

	collisions, _ = b.FindCollisions(2, boxes[2], boxes)
	require.Len(t, collisions, 1)
	assert.Equal(t, 3, collisions[0])
}

func TestCheckAllCollisions(t *testing.T) {
	boxes := []*geo.BoundingBox{
		boxAt(0, 0, 0, 1),
		boxAt(1.5, 0, 0, 1),
		boxAt(10, 0, 0, 1),
		boxAt(10.5, 0, 0, 1),
		boxAt(-20, 0, 0, 1),
	}
	b := FromBoxes(boxes, ComputeWorldSize(boxes))

	pairs, indices, checks := b.CheckAllCollisions(boxes)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.Less(t, p[0], p[1])
	}
	assert.ElementsMatch(t, []int{0, 1, 2, 3}, indices)
	assert.Greater(t, checks, 0)
}

func TestCheckAllCollisionsGUIDs(t *testing.T) {
	boxes := []*geo.BoundingBox{
		boxAt(0, 0, 0, 1),
		boxAt(1.5, 0, 0, 1),
		boxAt(50, 0, 0, 1),
	}
	guids := []string{"a", "b", "c"}

	b := New()
	b.BuildWithGUIDs(boxes, guids)

	pairs := b.CheckAllCollisionsGUIDs(boxes)
	require.Len(t, pairs, 1)
	assert.Equal(t, [2]string{"a", "b"}, pairs[0])
}

func TestRayCast(t *testing.T) {
	boxes := []*geo.BoundingBox{
		boxAt(0, 0, 0, 1),
		boxAt(5, 0, 0, 1),
		boxAt(0, 20, 0, 1),
	}
	b := FromBoxes(boxes, ComputeWorldSize(boxes))

	hits := b.RayCast(geo.NewPoint(-10, 0, 0), geo.NewVector(1, 0, 0))
	assert.ElementsMatch(t, []int{0, 1}, hits)

	// boxes behind the origin are ignored
	hits = b.RayCast(geo.NewPoint(10, 0, 0), geo.NewVector(1, 0, 0))
	assert.Empty(t, hits)

	hits = b.RayCast(geo.NewPoint(0, 0, -10), geo.NewVector(0, 0, 1))
	assert.ElementsMatch(t, []int{0}, hits)
}

func TestMergeAABB(t *testing.T) {
	a := boxAt(0, 0, 0, 1)
	c := boxAt(4, 0, 0, 1)
	merged := MergeAABB(a, c)
	assert.InDelta(t, 2.0, merged.Center.X(), 1e-12)
	assert.InDelta(t, 3.0, merged.HalfSize.X(), 1e-12)
	assert.InDelta(t, 1.0, merged.HalfSize.Y(), 1e-12)
}

func TestEmptyBuild(t *testing.T) {
	b := New()
	b.Build(nil)
	assert.Empty(t, b.RayCast(geo.NewPoint(0, 0, 0), geo.NewVector(1, 0, 0)))
	pairs, indices, checks := b.CheckAllCollisions(nil)
	assert.Empty(t, pairs)
	assert.Empty(t, indices)
	assert.Zero(t, checks)
}

func TestBuildManyBoxesGrid(t *testing.T) {
	var boxes []*geo.BoundingBox
	for x := 0; x < 5; x++ {
		for y := 0; y < 5; y++ {
			boxes = append(boxes, boxAt(float64(x)*10, float64(y)*10, 0, 1))
		}
	}
	b := FromBoxes(boxes, ComputeWorldSize(boxes))

	// widely separated grid has no collisions
	pairs, _, _ := b.CheckAllCollisions(boxes)
	assert.Empty(t, pairs)

	// a ray down a grid column touches all five boxes in it
	hits := b.RayCast(geo.NewPoint(20, -100, 0), geo.NewVector(0, 1, 0))
	assert.Len(t, hits, 5)
}
