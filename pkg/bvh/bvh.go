// Package bvh builds linear bounding volume hierarchies over oriented
// bounding boxes and answers collision and ray queries against them.
// Construction follows the LBVH scheme: Morton codes, a radix sort and
// an O(N) topology build, flattened into an index-based arena for
// traversal.
package bvh

import (
	"math"
	"math/bits"

	"github.com/google/uuid"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

// DefaultWorldSize is used when no boxes are available to derive one.
const DefaultWorldSize = 1000.0

// aabb is a lightweight axis-aligned box for arena nodes.
type aabb struct {
	cx, cy, cz float64
	hx, hy, hz float64
}

func aabbFromBox(b *geo.BoundingBox) aabb {
	return aabb{
		cx: b.Center.X(), cy: b.Center.Y(), cz: b.Center.Z(),
		hx: b.HalfSize.X(), hy: b.HalfSize.Y(), hz: b.HalfSize.Z(),
	}
}

func mergeAABB(a, b aabb) aabb {
	minX := math.Min(a.cx-a.hx, b.cx-b.hx)
	minY := math.Min(a.cy-a.hy, b.cy-b.hy)
	minZ := math.Min(a.cz-a.hz, b.cz-b.hz)
	maxX := math.Max(a.cx+a.hx, b.cx+b.hx)
	maxY := math.Max(a.cy+a.hy, b.cy+b.hy)
	maxZ := math.Max(a.cz+a.hz, b.cz+b.hz)
	return aabb{
		cx: (minX + maxX) * 0.5, cy: (minY + maxY) * 0.5, cz: (minZ + maxZ) * 0.5,
		hx: (maxX - minX) * 0.5, hy: (maxY - minY) * 0.5, hz: (maxZ - minZ) * 0.5,
	}
}

func (a aabb) intersects(b aabb) bool {
	return a.cx-a.hx <= b.cx+b.hx && a.cx+a.hx >= b.cx-b.hx &&
		a.cy-a.hy <= b.cy+b.hy && a.cy+a.hy >= b.cy-b.hy &&
		a.cz-a.hz <= b.cz+b.hz && a.cz+a.hz >= b.cz-b.hz
}

// flatNode is an arena node. left and right are -1 on leaves; objectID
// is -1 on internal nodes.
type flatNode struct {
	left     int32
	right    int32
	objectID int32
	box      aabb
}

// BVH is a linear bounding volume hierarchy over a fixed set of boxes.
type BVH struct {
	GUID        string
	Name        string
	WorldSize   float64
	ObjectGUIDs []string

	arena     []flatNode
	arenaRoot int32
}

// New creates an empty hierarchy with the default world size.
func New() *BVH {
	return &BVH{
		GUID:      uuid.New().String(),
		Name:      "my_bvh",
		WorldSize: DefaultWorldSize,
		arenaRoot: -1,
	}
}

// FromBoxes builds a hierarchy over boxes using an explicit world size.
func FromBoxes(boundingBoxes []*geo.BoundingBox, worldSize float64) *BVH {
	b := New()
	b.WorldSize = worldSize
	b.Build(boundingBoxes)
	return b
}

// ComputeWorldSize derives a world size from the extents of the boxes:
// 2.2x the maximum absolute coordinate, floored at 10.
func ComputeWorldSize(boundingBoxes []*geo.BoundingBox) float64 {
	if len(boundingBoxes) == 0 {
		return DefaultWorldSize
	}
	maxExtent := 0.0
	for _, bbox := range boundingBoxes {
		xExtent := math.Max(math.Abs(bbox.Center.X()+bbox.HalfSize.X()), math.Abs(bbox.Center.X()-bbox.HalfSize.X()))
		yExtent := math.Max(math.Abs(bbox.Center.Y()+bbox.HalfSize.Y()), math.Abs(bbox.Center.Y()-bbox.HalfSize.Y()))
		zExtent := math.Max(math.Abs(bbox.Center.Z()+bbox.HalfSize.Z()), math.Abs(bbox.Center.Z()-bbox.HalfSize.Z()))
		maxExtent = math.Max(maxExtent, math.Max(xExtent, math.Max(yExtent, zExtent)))
	}
	return math.Max(maxExtent*2.2, 10.0)
}

// BuildWithGUIDs builds the hierarchy and records a parallel guid per
// box so collision pairs can be reported by guid. The world size is
// derived from the boxes.
func (b *BVH) BuildWithGUIDs(boundingBoxes []*geo.BoundingBox, guids []string) {
	if len(boundingBoxes) == 0 {
		b.ObjectGUIDs = nil
		b.arena = nil
		b.arenaRoot = -1
		return
	}
	b.ObjectGUIDs = append([]string(nil), guids...)
	b.WorldSize = ComputeWorldSize(boundingBoxes)
	b.Build(boundingBoxes)
}

type objectInfo struct {
	id         int
	mortonCode uint32
}

// Build constructs the hierarchy over the boxes using the current
// world size.
func (b *BVH) Build(boundingBoxes []*geo.BoundingBox) {
	if len(boundingBoxes) == 0 {
		b.arena = nil
		b.arenaRoot = -1
		return
	}

	objects := make([]objectInfo, len(boundingBoxes))
	for i, bbox := range boundingBoxes {
		objects[i] = objectInfo{
			id:         i,
			mortonCode: CalculateMortonCode(bbox.Center.X(), bbox.Center.Y(), bbox.Center.Z(), b.WorldSize),
		}
	}

	// radix sort the 30-bit Morton codes, three 10-bit passes
	const radix = 1024
	tmp := make([]objectInfo, len(objects))
	for pass := 0; pass < 3; pass++ {
		shift := uint(pass * 10)
		var count [radix]int
		for _, e := range objects {
			count[(e.mortonCode>>shift)&(radix-1)]++
		}
		sum := 0
		for i := range count {
			count[i], sum = sum, sum+count[i]
		}
		for _, e := range objects {
			bucket := (e.mortonCode >> shift) & (radix - 1)
			tmp[count[bucket]] = e
			count[bucket]++
		}
		objects, tmp = tmp, objects
	}

	n := len(objects)
	if n == 1 {
		id := objects[0].id
		b.arena = []flatNode{{
			left:     -1,
			right:    -1,
			objectID: int32(id),
			box:      aabbFromBox(boundingBoxes[id]),
		}}
		b.arenaRoot = 0
		return
	}

	codes := make([]uint32, n)
	for i, o := range objects {
		codes[i] = o.mortonCode
	}

	commonPrefix := func(i, j int32) int32 {
		if j < 0 || j >= int32(n) {
			return -1
		}
		ci, cj := codes[i], codes[j]
		if ci != cj {
			return int32(bits.LeadingZeros32(ci ^ cj))
		}
		// identical codes fall back to index bits
		return 32 + int32(bits.LeadingZeros32(uint32(i)^uint32(j)))
	}

	determineRange := func(i int32) (int32, int32) {
		d := int32(-1)
		if commonPrefix(i, i+1)-commonPrefix(i, i-1) > 0 {
			d = 1
		}
		deltaMin := commonPrefix(i, i-d)
		l := int32(1)
		for commonPrefix(i, i+l*d) > deltaMin {
			l <<= 1
		}
		var bound int32
		for t := l >> 1; t > 0; t >>= 1 {
			if commonPrefix(i, i+(bound+t)*d) > deltaMin {
				bound += t
			}
		}
		j := i + bound*d
		if i < j {
			return i, j
		}
		return j, i
	}

	findSplit := func(first, last int32) int32 {
		common := commonPrefix(first, last)
		split := first
		step := last - first
		for {
			step = (step + 1) >> 1
			if newSplit := split + step; newSplit < last {
				if commonPrefix(first, newSplit) > common {
					split = newSplit
				}
			}
			if step <= 1 {
				break
			}
		}
		return split
	}

	type tempNode struct {
		left, right int32
		leftIsLeaf  bool
		rightIsLeaf bool
		objectID    int32
		box         aabb
		boxComputed bool
	}

	leaves := make([]tempNode, n)
	for i, obj := range objects {
		leaves[i] = tempNode{
			left: -1, right: -1,
			objectID: int32(obj.id),
			box:      aabbFromBox(boundingBoxes[obj.id]),
		}
	}

	internals := make([]tempNode, n-1)
	for i := range internals {
		internals[i] = tempNode{left: -1, right: -1, objectID: -1}
	}

	hasParent := make([]bool, n-1)
	for i := int32(0); i < int32(n-1); i++ {
		first, last := determineRange(i)
		split := findSplit(first, last)
		if split == first {
			internals[i].left = split
			internals[i].leftIsLeaf = true
		} else {
			internals[i].left = split
			hasParent[split] = true
		}
		if split+1 == last {
			internals[i].right = split + 1
			internals[i].rightIsLeaf = true
		} else {
			internals[i].right = split + 1
			hasParent[split+1] = true
		}
	}

	rootIdx := int32(0)
	for idx, hp := range hasParent {
		if !hp {
			rootIdx = int32(idx)
			break
		}
	}

	var computeInternal func(idx int32) aabb
	computeInternal = func(idx int32) aabb {
		node := &internals[idx]
		if node.boxComputed {
			return node.box
		}
		var a, bb aabb
		if node.leftIsLeaf {
			a = leaves[node.left].box
		} else {
			a = computeInternal(node.left)
		}
		if node.rightIsLeaf {
			bb = leaves[node.right].box
		} else {
			bb = computeInternal(node.right)
		}
		node.box = mergeAABB(a, bb)
		node.boxComputed = true
		return node.box
	}
	computeInternal(rootIdx)

	b.arena = make([]flatNode, 0, n+(n-1))

	var buildArena func(idx int32, isLeaf bool) int32
	buildArena = func(idx int32, isLeaf bool) int32 {
		if isLeaf {
			slot := int32(len(b.arena))
			b.arena = append(b.arena, flatNode{
				left: -1, right: -1,
				objectID: leaves[idx].objectID,
				box:      leaves[idx].box,
			})
			return slot
		}
		slot := int32(len(b.arena))
		b.arena = append(b.arena, flatNode{
			left: -1, right: -1,
			objectID: -1,
			box:      internals[idx].box,
		})
		leftIdx := buildArena(internals[idx].left, internals[idx].leftIsLeaf)
		rightIdx := buildArena(internals[idx].right, internals[idx].rightIsLeaf)
		b.arena[slot].left = leftIdx
		b.arena[slot].right = rightIdx
		return slot
	}
	b.arenaRoot = buildArena(rootIdx, false)
}

// MergeAABB merges two boxes into their axis-aligned union.
func MergeAABB(aabb1, aabb2 *geo.BoundingBox) *geo.BoundingBox {
	minX := math.Min(aabb1.Center.X()-aabb1.HalfSize.X(), aabb2.Center.X()-aabb2.HalfSize.X())
	minY := math.Min(aabb1.Center.Y()-aabb1.HalfSize.Y(), aabb2.Center.Y()-aabb2.HalfSize.Y())
	minZ := math.Min(aabb1.Center.Z()-aabb1.HalfSize.Z(), aabb2.Center.Z()-aabb2.HalfSize.Z())
	maxX := math.Max(aabb1.Center.X()+aabb1.HalfSize.X(), aabb2.Center.X()+aabb2.HalfSize.X())
	maxY := math.Max(aabb1.Center.Y()+aabb1.HalfSize.Y(), aabb2.Center.Y()+aabb2.HalfSize.Y())
	maxZ := math.Max(aabb1.Center.Z()+aabb1.HalfSize.Z(), aabb2.Center.Z()+aabb2.HalfSize.Z())

	center := geo.NewPoint((minX+maxX)/2.0, (minY+maxY)/2.0, (minZ+maxZ)/2.0)
	halfSize := geo.NewVector((maxX-minX)/2.0, (maxY-minY)/2.0, (maxZ-minZ)/2.0)
	return geo.NewBoundingBox(center, geo.NewVector(1, 0, 0), geo.NewVector(0, 1, 0), geo.NewVector(0, 0, 1), halfSize)
}

// AABBIntersect reports axis-aligned overlap of two boxes, ignoring
// orientation.
func AABBIntersect(aabb1, aabb2 *geo.BoundingBox) bool {
	return aabbFromBox(aabb1).intersects(aabbFromBox(aabb2))
}

// FindCollisions returns the object indices whose boxes overlap the
// query box, excluding objectID itself, along with the number of nodes
// visited.
func (b *BVH) FindCollisions(objectID int, queryBox *geo.BoundingBox, boundingBoxes []*geo.BoundingBox) ([]int, int) {
	var collisions []int
	checkCount := 0

	if b.arenaRoot < 0 || len(b.arena) == 0 {
		return collisions, checkCount
	}

	queryAABB := aabbFromBox(queryBox)
	stack := make([]int32, 0, 64)
	stack = append(stack, b.arenaRoot)

	for len(stack) > 0 {
		nodeIdx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		checkCount++

		node := &b.arena[nodeIdx]
		if !queryAABB.intersects(node.box) {
			continue
		}

		if node.objectID >= 0 {
			id := int(node.objectID)
			if id != objectID && id < len(boundingBoxes) && AABBIntersect(queryBox, boundingBoxes[id]) {
				collisions = append(collisions, id)
			}
			continue
		}

		if node.left >= 0 {
			stack = append(stack, node.left)
		}
		if node.right >= 0 {
			stack = append(stack, node.right)
		}
	}

	return collisions, checkCount
}

// CheckAllCollisions finds every overlapping pair by simultaneous
// traversal. It returns the index pairs with i < j, the sorted indices
// that participate in any collision, and the number of overlapping
// node pairs visited.
func (b *BVH) CheckAllCollisions(boundingBoxes []*geo.BoundingBox) ([][2]int, []int, int) {
	var allCollisions [][2]int
	totalChecks := 0

	if b.arenaRoot < 0 || len(b.arena) == 0 {
		return allCollisions, nil, totalChecks
	}

	visited := make([]bool, len(boundingBoxes))

	type pair struct{ a, b int32 }
	stack := make([]pair, 0, 256)
	stack = append(stack, pair{b.arenaRoot, b.arenaRoot})

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		a := &b.arena[top.a]
		bb := &b.arena[top.b]

		if !a.box.intersects(bb.box) {
			continue
		}
		totalChecks++

		aLeaf := a.objectID >= 0
		bLeaf := bb.objectID >= 0

		if aLeaf && bLeaf {
			i, j := int(a.objectID), int(bb.objectID)
			if i < j && j < len(visited) {
				allCollisions = append(allCollisions, [2]int{i, j})
				visited[i] = true
				visited[j] = true
			}
			continue
		}

		if top.a == top.b {
			// same node: expand unique child pairs only
			if a.left >= 0 {
				stack = append(stack, pair{a.left, a.left})
				if a.right >= 0 {
					stack = append(stack, pair{a.left, a.right})
					stack = append(stack, pair{a.right, a.right})
				}
			}
			continue
		}

		switch {
		case !aLeaf && !bLeaf:
			if a.left >= 0 && bb.left >= 0 {
				stack = append(stack, pair{a.left, bb.left})
			}
			if a.left >= 0 && bb.right >= 0 {
				stack = append(stack, pair{a.left, bb.right})
			}
			if a.right >= 0 && bb.left >= 0 {
				stack = append(stack, pair{a.right, bb.left})
			}
			if a.right >= 0 && bb.right >= 0 {
				stack = append(stack, pair{a.right, bb.right})
			}
		case aLeaf:
			if bb.left >= 0 {
				stack = append(stack, pair{top.a, bb.left})
			}
			if bb.right >= 0 {
				stack = append(stack, pair{top.a, bb.right})
			}
		default:
			if a.left >= 0 {
				stack = append(stack, pair{a.left, top.b})
			}
			if a.right >= 0 {
				stack = append(stack, pair{a.right, top.b})
			}
		}
	}

	var collidingIndices []int
	for idx, v := range visited {
		if v {
			collidingIndices = append(collidingIndices, idx)
		}
	}

	return allCollisions, collidingIndices, totalChecks
}

// CheckAllCollisionsGUIDs reports colliding pairs as guid pairs using
// the guids recorded by BuildWithGUIDs.
func (b *BVH) CheckAllCollisionsGUIDs(boundingBoxes []*geo.BoundingBox) [][2]string {
	collisionPairs, _, _ := b.CheckAllCollisions(boundingBoxes)
	var out [][2]string
	for _, p := range collisionPairs {
		if p[0] < len(b.ObjectGUIDs) && p[1] < len(b.ObjectGUIDs) {
			out = append(out, [2]string{b.ObjectGUIDs[p[0]], b.ObjectGUIDs[p[1]]})
		}
	}
	return out
}

func rayAABBIntersect(origin *geo.Point, direction *geo.Vector, box aabb) (float64, float64, bool) {
	invX, invY, invZ := math.Inf(1), math.Inf(1), math.Inf(1)
	if direction.X() != 0.0 {
		invX = 1.0 / direction.X()
	}
	if direction.Y() != 0.0 {
		invY = 1.0 / direction.Y()
	}
	if direction.Z() != 0.0 {
		invZ = 1.0 / direction.Z()
	}

	tx1 := (box.cx - box.hx - origin.X()) * invX
	tx2 := (box.cx + box.hx - origin.X()) * invX
	tmin := math.Min(tx1, tx2)
	tmax := math.Max(tx1, tx2)

	ty1 := (box.cy - box.hy - origin.Y()) * invY
	ty2 := (box.cy + box.hy - origin.Y()) * invY
	tmin = math.Max(tmin, math.Min(ty1, ty2))
	tmax = math.Min(tmax, math.Max(ty1, ty2))

	tz1 := (box.cz - box.hz - origin.Z()) * invZ
	tz2 := (box.cz + box.hz - origin.Z()) * invZ
	tmin = math.Max(tmin, math.Min(tz1, tz2))
	tmax = math.Min(tmax, math.Max(tz1, tz2))

	return tmin, tmax, tmax >= tmin
}

// RayCast collects the leaf object indices whose boxes the ray could
// hit and reports whether any candidate was found.
func (b *BVH) RayCast(origin *geo.Point, direction *geo.Vector) []int {
	if b.arenaRoot < 0 || len(b.arena) == 0 {
		return nil
	}

	if _, tmax, ok := rayAABBIntersect(origin, direction, b.arena[b.arenaRoot].box); !ok || tmax < 0.0 {
		return nil
	}

	var candidates []int
	stack := make([]int32, 0, 64)
	stack = append(stack, b.arenaRoot)

	for len(stack) > 0 {
		nodeIdx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := &b.arena[nodeIdx]

		if _, tmax, ok := rayAABBIntersect(origin, direction, node.box); !ok || tmax < 0.0 {
			continue
		}

		if node.objectID >= 0 {
			candidates = append(candidates, int(node.objectID))
			continue
		}

		if node.left >= 0 {
			stack = append(stack, node.left)
		}
		if node.right >= 0 {
			stack = append(stack, node.right)
		}
	}

	return candidates
}

// ExpandBits spreads the low 10 bits of v so two zero bits separate
// each input bit.
func ExpandBits(v uint32) uint32 {
	v = (v * 0x00010001) & 0xFF0000FF
	v = (v * 0x00000101) & 0x0F00F00F
	v = (v * 0x00000011) & 0xC30C30C3
	v = (v * 0x00000005) & 0x49249249
	return v
}

// CalculateMortonCode maps a point in [-worldSize/2, worldSize/2] to a
// 30-bit Morton code.
func CalculateMortonCode(x, y, z, worldSize float64) uint32 {
	nx := clamp01((x + worldSize/2.0) / worldSize)
	ny := clamp01((y + worldSize/2.0) / worldSize)
	nz := clamp01((z + worldSize/2.0) / worldSize)

	ix := minU32(uint32(nx*1023.0), 1023)
	iy := minU32(uint32(ny*1023.0), 1023)
	iz := minU32(uint32(nz*1023.0), 1023)

	return ExpandBits(ix) | ExpandBits(iy)<<1 | ExpandBits(iz)<<2
}

func clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
