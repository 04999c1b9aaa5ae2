// Package session holds the scene container: a registry of geometry
// objects with a tree hierarchy, a relationship graph and BVH-backed
// collision detection and ray casting.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/leapstack-labs/geoscene/internal/graph"
	"github.com/leapstack-labs/geoscene/internal/tree"
	"github.com/leapstack-labs/geoscene/pkg/bvh"
	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/intersect"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
	"github.com/leapstack-labs/geoscene/pkg/solid"
)

// rayFar bounds the finite segment a ray is cast along.
const rayFar = 1e6

// Config configures a new Session.
type Config struct {
	Name   string
	Logger *slog.Logger
}

// RayHit is a single ray-cast result: the object hit, the hit point
// and its distance from the ray origin.
type RayHit struct {
	GUID     string
	Point    *geo.Point
	Distance float64
}

// Session is a scene container. Objects are registered by guid; the
// tree organises them hierarchically and the graph records pairwise
// relationships. Spatial queries run against cached bounding volumes.
type Session struct {
	GUID    string
	Name    string
	Objects *Objects
	Tree    *tree.Tree
	Graph   *graph.Graph

	logger *slog.Logger
	lookup map[string]any

	collisionBVH *bvh.BVH

	cachedRayBVH  *bvh.BVH
	cachedGUIDs   []string
	cachedBoxes   []*geo.BoundingBox
	bvhCacheDirty bool
}

// New creates an empty session. The tree gets a root node carrying the
// session name so geometry nodes can hang off it.
func New(cfg Config) *Session {
	name := cfg.Name
	if name == "" {
		name = "my_session"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t := tree.New(name + "_tree")
	t.Add(tree.NewNode(name), nil)

	return &Session{
		GUID:          uuid.New().String(),
		Name:          name,
		Objects:       NewObjects(),
		Tree:          t,
		Graph:         graph.New(name + "_graph"),
		logger:        logger,
		lookup:        map[string]any{},
		collisionBVH:  bvh.New(),
		bvhCacheDirty: true,
	}
}

// String implements fmt.Stringer.
func (s *Session) String() string {
	return fmt.Sprintf("Session(%s, %s, points=%d, vertices=%d, edges=%d)",
		s.Name, s.GUID, len(s.Objects.Points), s.Graph.VertexCount, s.Graph.EdgeCount)
}

// Object returns the registered geometry for a guid.
func (s *Session) Object(guid string) (any, bool) {
	g, ok := s.lookup[guid]
	return g, ok
}

// ObjectCount reports how many objects are registered.
func (s *Session) ObjectCount() int {
	return len(s.lookup)
}

func (s *Session) register(guid, name, kind string, geometry any) *tree.Node {
	s.lookup[guid] = geometry
	s.cacheGeometryAABB(guid, geometry)
	s.Graph.AddNode(guid, kind+"_"+name)
	s.logger.Debug("object added", "kind", kind, "guid", guid, "name", name)
	return tree.NewNode(guid)
}

// AddPoint registers a point and returns a tree node named by its guid.
func (s *Session) AddPoint(p *geo.Point) *tree.Node {
	s.Objects.Points = append(s.Objects.Points, p)
	return s.register(p.GUID, p.Name, "point", p)
}

// AddLine registers a line.
func (s *Session) AddLine(l *geo.Line) *tree.Node {
	s.Objects.Lines = append(s.Objects.Lines, l)
	return s.register(l.GUID, l.Name, "line", l)
}

// AddPlane registers a plane.
func (s *Session) AddPlane(p *geo.Plane) *tree.Node {
	s.Objects.Planes = append(s.Objects.Planes, p)
	return s.register(p.GUID, p.Name, "plane", p)
}

// AddBBox registers a bounding box.
func (s *Session) AddBBox(b *geo.BoundingBox) *tree.Node {
	s.Objects.BBoxes = append(s.Objects.BBoxes, b)
	return s.register(b.GUID, b.Name, "bbox", b)
}

// AddPolyline registers a polyline.
func (s *Session) AddPolyline(pl *geo.Polyline) *tree.Node {
	s.Objects.Polylines = append(s.Objects.Polylines, pl)
	return s.register(pl.GUID, pl.Name, "polyline", pl)
}

// AddPointCloud registers a point cloud.
func (s *Session) AddPointCloud(pc *geo.PointCloud) *tree.Node {
	s.Objects.PointClouds = append(s.Objects.PointClouds, pc)
	return s.register(pc.GUID, pc.Name, "pointcloud", pc)
}

// AddMesh registers a mesh.
func (s *Session) AddMesh(m *mesh.Mesh) *tree.Node {
	s.Objects.Meshes = append(s.Objects.Meshes, m)
	return s.register(m.GUID, m.Name, "mesh", m)
}

// AddCylinder registers a cylinder.
func (s *Session) AddCylinder(c *solid.Cylinder) *tree.Node {
	s.Objects.Cylinders = append(s.Objects.Cylinders, c)
	return s.register(c.GUID, c.Name, "cylinder", c)
}

// AddArrow registers an arrow.
func (s *Session) AddArrow(a *solid.Arrow) *tree.Node {
	s.Objects.Arrows = append(s.Objects.Arrows, a)
	return s.register(a.GUID, a.Name, "arrow", a)
}

// Add attaches a tree node. A nil parent attaches to the root.
func (s *Session) Add(node, parent *tree.Node) {
	if parent == nil {
		parent = s.Tree.Root()
	}
	s.Tree.Add(node, parent)
}

// AddEdge adds a labelled relationship edge between two objects.
func (s *Session) AddEdge(fromGUID, toGUID, attribute string) {
	s.Graph.AddEdge(fromGUID, toGUID, attribute)
}

// AddHierarchy reparents child under parent in the tree. Object tree
// nodes carry the object guid as their name, so the lookup goes
// through names rather than node guids.
func (s *Session) AddHierarchy(parentGUID, childGUID string) bool {
	return s.Tree.AddChildByName(parentGUID, childGUID)
}

// Children returns the child guids of an object in the tree.
func (s *Session) Children(guid string) []string {
	return s.Tree.ChildrenNames(guid)
}

// AddRelationship adds a typed graph edge between two objects.
func (s *Session) AddRelationship(fromGUID, toGUID, relationshipType string) {
	s.Graph.AddEdge(fromGUID, toGUID, relationshipType)
}

// Neighbours returns the guids connected to an object in the graph.
func (s *Session) Neighbours(guid string) []string {
	return s.Graph.Neighbors(guid)
}

// RemoveObject removes an object everywhere it is referenced: the
// registry, the lookup, the tree and the graph. Reports whether the
// guid was known.
func (s *Session) RemoveObject(guid string) bool {
	if _, ok := s.lookup[guid]; !ok {
		return false
	}

	s.Objects.Points = removeByGUID(s.Objects.Points, guid, func(p *geo.Point) string { return p.GUID })
	s.Objects.Lines = removeByGUID(s.Objects.Lines, guid, func(l *geo.Line) string { return l.GUID })
	s.Objects.Planes = removeByGUID(s.Objects.Planes, guid, func(p *geo.Plane) string { return p.GUID })
	s.Objects.BBoxes = removeByGUID(s.Objects.BBoxes, guid, func(b *geo.BoundingBox) string { return b.GUID })
	s.Objects.Polylines = removeByGUID(s.Objects.Polylines, guid, func(p *geo.Polyline) string { return p.GUID })
	s.Objects.PointClouds = removeByGUID(s.Objects.PointClouds, guid, func(p *geo.PointCloud) string { return p.GUID })
	s.Objects.Meshes = removeByGUID(s.Objects.Meshes, guid, func(m *mesh.Mesh) string { return m.GUID })
	s.Objects.Cylinders = removeByGUID(s.Objects.Cylinders, guid, func(c *solid.Cylinder) string { return c.GUID })
	s.Objects.Arrows = removeByGUID(s.Objects.Arrows, guid, func(a *solid.Arrow) string { return a.GUID })

	delete(s.lookup, guid)
	s.invalidateBVHCache()

	if node := s.Tree.NodeByName(guid); node != nil {
		s.Tree.Remove(node)
	}
	if s.Graph.HasNode(guid) {
		s.Graph.RemoveNode(guid)
	}
	s.logger.Debug("object removed", "guid", guid)
	return true
}

func removeByGUID[T any](items []T, guid string, key func(T) string) []T {
	out := items[:0]
	for _, item := range items {
		if key(item) != guid {
			out = append(out, item)
		}
	}
	return out
}

// sortedGUIDs returns the lookup keys in lexical order so spatial
// queries and collision reports are deterministic.
func (s *Session) sortedGUIDs() []string {
	guids := make([]string, 0, len(s.lookup))
	for guid := range s.lookup {
		guids = append(guids, guid)
	}
	sort.Strings(guids)
	return guids
}

// computeBoundingBox derives an axis-aligned box for any geometry
// kind, inflated by the approximation tolerance.
func computeBoundingBox(geometry any) *geo.BoundingBox {
	inflate := geo.TOL.Approximation()
	switch g := geometry.(type) {
	case *geo.Point:
		return geo.BoundingBoxFromPoint(g, inflate)
	case *geo.Line:
		return geo.BoundingBoxFromPoints([]*geo.Point{g.Start(), g.End()}, inflate)
	case *geo.Polyline:
		return geo.BoundingBoxFromPoints(g.Points, inflate)
	case *geo.PointCloud:
		return geo.BoundingBoxFromPoints(g.Points, inflate)
	case *mesh.Mesh:
		points := make([]*geo.Point, 0, len(g.Vertex))
		for _, v := range g.Vertex {
			points = append(points, geo.NewPoint(v.X, v.Y, v.Z))
		}
		if len(points) == 0 {
			return geo.BoundingBoxFromPoint(geo.NewPoint(0, 0, 0), inflate)
		}
		return geo.BoundingBoxFromPoints(points, inflate)
	case *geo.BoundingBox:
		inflated := g.Clone()
		inflated.Inflate(inflate)
		return inflated
	case *geo.Plane:
		// Planes are unbounded; a small box around the origin keeps
		// them findable without swallowing the whole world.
		return geo.BoundingBoxFromPoint(g.Origin(), inflate*10.0)
	case *solid.Cylinder:
		box := geo.BoundingBoxFromPoints([]*geo.Point{g.Line.Start(), g.Line.End()}, inflate)
		box.Inflate(g.Radius)
		return box
	case *solid.Arrow:
		box := geo.BoundingBoxFromPoints([]*geo.Point{g.Line.Start(), g.Line.End()}, inflate)
		box.Inflate(g.Radius)
		return box
	default:
		return geo.BoundingBoxFromPoint(geo.NewPoint(0, 0, 0), inflate)
	}
}

// Collisions rebuilds the collision BVH over every registered object
// and reports all colliding pairs by guid. Each pair is also recorded
// in the graph as a "bvh_collision" edge.
func (s *Session) Collisions() [][2]string {
	guids := s.sortedGUIDs()
	if len(guids) == 0 {
		return nil
	}

	boxes := make([]*geo.BoundingBox, len(guids))
	for i, guid := range guids {
		boxes[i] = computeBoundingBox(s.lookup[guid])
	}

	s.collisionBVH.BuildWithGUIDs(boxes, guids)
	pairs := s.collisionBVH.CheckAllCollisionsGUIDs(boxes)

	for _, pair := range pairs {
		s.Graph.AddEdge(pair[0], pair[1], "bvh_collision")
	}
	s.logger.Debug("collision check", "objects", len(guids), "pairs", len(pairs))
	return pairs
}

func (s *Session) cacheGeometryAABB(guid string, geometry any) {
	s.cachedBoxes = append(s.cachedBoxes, computeBoundingBox(geometry))
	s.cachedGUIDs = append(s.cachedGUIDs, guid)
	s.bvhCacheDirty = true
}

func (s *Session) invalidateBVHCache() {
	s.bvhCacheDirty = true
}

func (s *Session) rebuildRayBVHCache() {
	if len(s.cachedBoxes) != len(s.lookup) {
		s.cachedBoxes = s.cachedBoxes[:0]
		s.cachedGUIDs = s.cachedGUIDs[:0]
		for _, guid := range s.sortedGUIDs() {
			s.cachedBoxes = append(s.cachedBoxes, computeBoundingBox(s.lookup[guid]))
			s.cachedGUIDs = append(s.cachedGUIDs, guid)
		}
	}
	if len(s.cachedBoxes) > 0 {
		worldSize := bvh.ComputeWorldSize(s.cachedBoxes)
		s.cachedRayBVH = bvh.FromBoxes(s.cachedBoxes, worldSize)
	} else {
		s.cachedRayBVH = nil
	}
}

// RayCast casts a ray from origin along direction against every
// registered object and returns the closest hits. Hits further than
// tolerance from the closest one are dropped; ties within tolerance
// are all reported, sorted by distance.
func (s *Session) RayCast(origin *geo.Point, direction *geo.Vector, tolerance float64) []RayHit {
	dirLen := direction.ComputeLength()
	if dirLen <= 0 {
		return nil
	}
	dirUnit := geo.NewVector(direction.X()/dirLen, direction.Y()/dirLen, direction.Z()/dirLen)

	rayEnd := geo.NewPoint(
		origin.X()+dirUnit.X()*rayFar,
		origin.Y()+dirUnit.Y()*rayFar,
		origin.Z()+dirUnit.Z()*rayFar,
	)
	rayLine := geo.LineFromPoints(origin, rayEnd)

	if s.bvhCacheDirty || s.cachedRayBVH == nil {
		s.rebuildRayBVHCache()
		s.bvhCacheDirty = false
	}
	if s.cachedRayBVH == nil {
		return nil
	}

	candidates := s.cachedRayBVH.RayCast(origin, dirUnit)

	var hitsAll []RayHit
	for _, idx := range candidates {
		if idx >= len(s.cachedGUIDs) {
			continue
		}
		guid := s.cachedGUIDs[idx]
		geometry, ok := s.lookup[guid]
		if !ok {
			continue
		}

		var hitPoint *geo.Point
		switch g := geometry.(type) {
		case *geo.BoundingBox:
			if pts := intersect.RayBox(rayLine, g, 0, rayFar); len(pts) > 0 {
				hitPoint = pts[0]
			}
		case *geo.Plane:
			hitPoint = intersect.LinePlane(rayLine, g, true)
		case *geo.Line:
			hitPoint = intersect.LineLine(rayLine, g, geo.TOL.Approximation())
		case *geo.Polyline:
			hitPoint = closestPolylineHit(rayLine, g, origin, dirUnit)
		case *mesh.Mesh:
			hitPoint = g.RayCastBVH(rayLine, 1e-6)
		case *solid.Cylinder:
			hitPoint = intersect.LineLine(rayLine, g.Line, geo.TOL.Approximation())
		case *solid.Arrow:
			hitPoint = intersect.LineLine(rayLine, g.Line, geo.TOL.Approximation())
		case *geo.Point:
			hitPoint = pointOnRay(g, origin, dirUnit, tolerance)
		case *geo.PointCloud:
			// Clouds participate in broad-phase only.
		}

		if hitPoint == nil {
			continue
		}
		toHit := hitPoint.Sub(origin)
		forward := toHit.Dot(dirUnit)
		if forward < 0 {
			continue
		}
		hitsAll = append(hitsAll, RayHit{
			GUID:     guid,
			Point:    hitPoint,
			Distance: toHit.ComputeLength(),
		})
	}

	if len(hitsAll) == 0 {
		return nil
	}

	minDist := math.Inf(1)
	for _, h := range hitsAll {
		if h.Distance < minDist {
			minDist = h.Distance
		}
	}
	hits := hitsAll[:0]
	for _, h := range hitsAll {
		if math.Abs(h.Distance-minDist) <= tolerance {
			hits = append(hits, h)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].GUID < hits[j].GUID
	})
	s.logger.Debug("ray cast", "candidates", len(candidates), "hits", len(hits))
	return hits
}

// closestPolylineHit intersects the ray with each polyline segment and
// keeps the closest forward hit.
func closestPolylineHit(rayLine *geo.Line, pl *geo.Polyline, origin *geo.Point, dirUnit *geo.Vector) *geo.Point {
	if len(pl.Points) < 2 {
		return nil
	}
	bestT := math.Inf(1)
	var best *geo.Point
	for i := 0; i < len(pl.Points)-1; i++ {
		segment := geo.LineFromPoints(pl.Points[i], pl.Points[i+1])
		p := intersect.LineLine(rayLine, segment, geo.TOL.Approximation())
		if p == nil {
			continue
		}
		t := p.Sub(origin).Dot(dirUnit)
		if t >= 0 && t < bestT {
			bestT = t
			best = p
		}
	}
	return best
}

// pointOnRay reports the projection of p onto the ray when its
// perpendicular distance is within tolerance.
func pointOnRay(p, origin *geo.Point, dirUnit *geo.Vector, tolerance float64) *geo.Point {
	v := p.Sub(origin)
	if v.Cross(dirUnit).ComputeLength() > tolerance {
		return nil
	}
	t := v.Dot(dirUnit)
	if t < 0 {
		return nil
	}
	return geo.NewPoint(
		origin.X()+dirUnit.X()*t,
		origin.Y()+dirUnit.Y()*t,
		origin.Z()+dirUnit.Z()*t,
	)
}

// Geometry returns a deep copy of the registry with the tree hierarchy
// baked in: each object's transform is the composition of its ancestor
// transforms and its own, applied to the coordinates.
func (s *Session) Geometry() *Objects {
	transformed := s.Objects.Clone()

	lookup := map[string]any{}
	for _, p := range transformed.Points {
		lookup[p.GUID] = p
	}
	for _, l := range transformed.Lines {
		lookup[l.GUID] = l
	}
	for _, p := range transformed.Planes {
		lookup[p.GUID] = p
	}
	for _, b := range transformed.BBoxes {
		lookup[b.GUID] = b
	}
	for _, p := range transformed.Polylines {
		lookup[p.GUID] = p
	}
	for _, p := range transformed.PointClouds {
		lookup[p.GUID] = p
	}
	for _, m := range transformed.Meshes {
		lookup[m.GUID] = m
	}
	for _, c := range transformed.Cylinders {
		lookup[c.GUID] = c
	}
	for _, a := range transformed.Arrows {
		lookup[a.GUID] = a
	}

	if root := s.Tree.Root(); root != nil {
		composeXforms(root, geo.Identity(), lookup)
	}

	for _, p := range transformed.Points {
		p.Transform()
	}
	for _, l := range transformed.Lines {
		l.Transform()
	}
	for _, p := range transformed.Planes {
		p.Transform()
	}
	for _, b := range transformed.BBoxes {
		b.Transform()
	}
	for _, p := range transformed.Polylines {
		p.Transform()
	}
	for _, p := range transformed.PointClouds {
		p.Transform()
	}
	for _, m := range transformed.Meshes {
		m.Transform()
	}
	for _, c := range transformed.Cylinders {
		c.Transform()
	}
	for _, a := range transformed.Arrows {
		a.Transform()
	}
	return transformed
}

// composeXforms walks the tree, accumulating parent transforms into
// each object named by a node. Tree nodes carry object guids as names.
func composeXforms(node *tree.Node, parentXform *geo.Xform, lookup map[string]any) {
	current := parentXform
	if geometry, ok := lookup[node.Name]; ok {
		combined := parentXform.Mul(objectXform(geometry))
		setObjectXform(geometry, combined)
		current = combined
	}
	for _, child := range node.Children() {
		composeXforms(child, current, lookup)
	}
}

func objectXform(geometry any) *geo.Xform {
	switch g := geometry.(type) {
	case *geo.Point:
		return g.Xform
	case *geo.Line:
		return g.Xform
	case *geo.Plane:
		return g.Xform
	case *geo.BoundingBox:
		return g.Xform
	case *geo.Polyline:
		return g.Xform
	case *geo.PointCloud:
		return g.Xform
	case *mesh.Mesh:
		return g.Xform
	case *solid.Cylinder:
		return g.Xform
	case *solid.Arrow:
		return g.Xform
	}
	return geo.Identity()
}

func setObjectXform(geometry any, xform *geo.Xform) {
	switch g := geometry.(type) {
	case *geo.Point:
		g.Xform = xform
	case *geo.Line:
		g.Xform = xform
	case *geo.Plane:
		g.Xform = xform
	case *geo.BoundingBox:
		g.Xform = xform
	case *geo.Polyline:
		g.Xform = xform
	case *geo.PointCloud:
		g.Xform = xform
	case *mesh.Mesh:
		g.Xform = xform
	case *solid.Cylinder:
		g.Xform = xform
	case *solid.Arrow:
		g.Xform = xform
	}
}

type sessionJSON struct {
	Type    string       `json:"type"`
	GUID    string       `json:"guid"`
	Name    string       `json:"name"`
	Objects *Objects     `json:"objects"`
	Tree    *tree.Tree   `json:"tree"`
	Graph   *graph.Graph `json:"graph"`
}

// MarshalJSON implements json.Marshaler.
func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		Type:    "Session",
		GUID:    s.GUID,
		Name:    s.Name,
		Objects: s.Objects,
		Tree:    s.Tree,
		Graph:   s.Graph,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The lookup table and BVH
// caches are rebuilt from the decoded registry.
func (s *Session) UnmarshalJSON(data []byte) error {
	var aux sessionJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.GUID = aux.GUID
	s.Name = aux.Name
	if s.Name == "" {
		s.Name = "my_session"
	}
	s.Objects = aux.Objects
	if s.Objects == nil {
		s.Objects = NewObjects()
	}
	s.Tree = aux.Tree
	if s.Tree == nil {
		s.Tree = tree.New(s.Name + "_tree")
		s.Tree.Add(tree.NewNode(s.Name), nil)
	}
	s.Graph = aux.Graph
	if s.Graph == nil {
		s.Graph = graph.New(s.Name + "_graph")
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.lookup = map[string]any{}
	for _, p := range s.Objects.Points {
		s.lookup[p.GUID] = p
	}
	for _, l := range s.Objects.Lines {
		s.lookup[l.GUID] = l
	}
	for _, p := range s.Objects.Planes {
		s.lookup[p.GUID] = p
	}
	for _, b := range s.Objects.BBoxes {
		s.lookup[b.GUID] = b
	}
	for _, p := range s.Objects.Polylines {
		s.lookup[p.GUID] = p
	}
	for _, p := range s.Objects.PointClouds {
		s.lookup[p.GUID] = p
	}
	for _, m := range s.Objects.Meshes {
		s.lookup[m.GUID] = m
	}
	for _, c := range s.Objects.Cylinders {
		s.lookup[c.GUID] = c
	}
	for _, a := range s.Objects.Arrows {
		s.lookup[a.GUID] = a
	}

	s.collisionBVH = bvh.New()
	s.cachedRayBVH = nil
	s.cachedGUIDs = nil
	s.cachedBoxes = nil
	s.bvhCacheDirty = true
	return nil
}
