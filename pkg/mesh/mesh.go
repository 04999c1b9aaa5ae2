// Package mesh implements a halfedge mesh for polygonal surfaces, with
// normals, attribute storage, OBJ interop and BVH-accelerated ray
// casting over the triangulated faces.
package mesh

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/leapstack-labs/geoscene/pkg/bvh"
	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/intersect"
)

// NormalWeighting selects the weighting scheme for vertex normals.
type NormalWeighting int

const (
	WeightArea NormalWeighting = iota
	WeightAngle
	WeightUniform
)

// VertexData holds a vertex position and its named attributes.
type VertexData struct {
	X          float64            `json:"x"`
	Y          float64            `json:"y"`
	Z          float64            `json:"z"`
	Attributes map[string]float64 `json:"attributes"`
}

// NewVertexData creates vertex data at a position with no attributes.
func NewVertexData(point *geo.Point) *VertexData {
	return &VertexData{
		X:          point.X(),
		Y:          point.Y(),
		Z:          point.Z(),
		Attributes: map[string]float64{},
	}
}

// Position returns the vertex position as a point.
func (v *VertexData) Position() *geo.Point {
	return geo.NewPoint(v.X, v.Y, v.Z)
}

// SetPosition updates the vertex position.
func (v *VertexData) SetPosition(point *geo.Point) {
	v.X, v.Y, v.Z = point.X(), point.Y(), point.Z()
}

// Color returns the r, g, b attributes, defaulting to mid grey.
func (v *VertexData) Color() [3]float64 {
	get := func(key string) float64 {
		if val, ok := v.Attributes[key]; ok {
			return val
		}
		return 0.5
	}
	return [3]float64{get("r"), get("g"), get("b")}
}

// SetColor stores r, g, b attributes.
func (v *VertexData) SetColor(r, g, b float64) {
	v.Attributes["r"] = r
	v.Attributes["g"] = g
	v.Attributes["b"] = b
}

// Normal returns the stored normal attributes, if all three are set.
func (v *VertexData) Normal() ([3]float64, bool) {
	nx, okX := v.Attributes["nx"]
	ny, okY := v.Attributes["ny"]
	nz, okZ := v.Attributes["nz"]
	if !okX || !okY || !okZ {
		return [3]float64{}, false
	}
	return [3]float64{nx, ny, nz}, true
}

// SetNormal stores normal attributes.
func (v *VertexData) SetNormal(nx, ny, nz float64) {
	v.Attributes["nx"] = nx
	v.Attributes["ny"] = ny
	v.Attributes["nz"] = nz
}

// EdgeKey identifies an undirected edge by its endpoint vertex keys.
type EdgeKey struct {
	U int
	V int
}

// Mesh is a halfedge mesh. Halfedge maps u -> v -> face key, with -1
// marking a boundary halfedge.
type Mesh struct {
	GUID string
	Name string

	Halfedge map[int]map[int]int
	Vertex   map[int]*VertexData
	Face     map[int][]int
	FaceData map[int]map[string]float64
	EdgeData map[EdgeKey]map[string]float64

	DefaultVertexAttributes map[string]float64
	DefaultFaceAttributes   map[string]float64
	DefaultEdgeAttributes   map[string]float64

	PointColors []*geo.Color
	FaceColors  []*geo.Color
	LineColors  []*geo.Color
	Widths      []float64
	Xform       *geo.Xform

	maxVertex int
	maxFace   int

	triBVH      *bvh.BVH
	triTris     [][3]int
	triVertices []*geo.Point
}

// NoFace marks a boundary halfedge.
const NoFace = -1

// New creates an empty mesh.
func New() *Mesh {
	return &Mesh{
		GUID:     uuid.New().String(),
		Name:     "my_mesh",
		Halfedge: map[int]map[int]int{},
		Vertex:   map[int]*VertexData{},
		Face:     map[int][]int{},
		FaceData: map[int]map[string]float64{},
		EdgeData: map[EdgeKey]map[string]float64{},
		DefaultVertexAttributes: map[string]float64{
			"x": 0.0, "y": 0.0, "z": 0.0,
		},
		DefaultFaceAttributes: map[string]float64{},
		DefaultEdgeAttributes: map[string]float64{},
		Xform:                 geo.Identity(),
	}
}

// IsEmpty reports whether the mesh has no vertices and no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertex) == 0 && len(m.Face) == 0
}

// Clear removes all mesh data.
func (m *Mesh) Clear() {
	m.Halfedge = map[int]map[int]int{}
	m.Vertex = map[int]*VertexData{}
	m.Face = map[int][]int{}
	m.FaceData = map[int]map[string]float64{}
	m.EdgeData = map[EdgeKey]map[string]float64{}
	m.maxVertex = 0
	m.maxFace = 0
	m.PointColors = nil
	m.FaceColors = nil
	m.LineColors = nil
	m.Widths = nil
	m.invalidateTriangleBVH()
}

// NumberOfVertices returns the vertex count.
func (m *Mesh) NumberOfVertices() int { return len(m.Vertex) }

// NumberOfFaces returns the face count.
func (m *Mesh) NumberOfFaces() int { return len(m.Face) }

// NumberOfEdges returns the undirected edge count.
func (m *Mesh) NumberOfEdges() int {
	seen := map[EdgeKey]struct{}{}
	for u, neighbors := range m.Halfedge {
		for v := range neighbors {
			key := EdgeKey{U: u, V: v}
			if v < u {
				key = EdgeKey{U: v, V: u}
			}
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

// Euler returns the Euler characteristic V - E + F.
func (m *Mesh) Euler() int {
	return m.NumberOfVertices() - m.NumberOfEdges() + m.NumberOfFaces()
}

// AddVertex adds a vertex at position and returns its key. Pass a
// negative key to auto-assign one.
func (m *Mesh) AddVertex(position *geo.Point, key int) int {
	vertexKey := key
	if vertexKey < 0 {
		m.maxVertex++
		vertexKey = m.maxVertex
	}
	if vertexKey >= m.maxVertex {
		m.maxVertex = vertexKey + 1
	}

	m.Vertex[vertexKey] = NewVertexData(position)
	if _, ok := m.Halfedge[vertexKey]; !ok {
		m.Halfedge[vertexKey] = map[int]int{}
	}
	m.PointColors = append(m.PointColors, geo.White())
	m.invalidateTriangleBVH()
	return vertexKey
}

// AddFace adds a face over existing vertex keys and returns its key,
// or -1 when the face is degenerate. Pass a negative fkey to
// auto-assign one.
func (m *Mesh) AddFace(vertices []int, fkey int) int {
	if len(vertices) < 3 {
		return -1
	}
	unique := map[int]struct{}{}
	for _, v := range vertices {
		if _, ok := m.Vertex[v]; !ok {
			return -1
		}
		if _, dup := unique[v]; dup {
			return -1
		}
		unique[v] = struct{}{}
	}

	faceKey := fkey
	if faceKey < 0 {
		m.maxFace++
		faceKey = m.maxFace
	}
	if faceKey >= m.maxFace {
		m.maxFace = faceKey + 1
	}

	m.Face[faceKey] = append([]int(nil), vertices...)
	m.FaceColors = append(m.FaceColors, geo.White())
	m.invalidateTriangleBVH()

	for i := range vertices {
		u := vertices[i]
		v := vertices[(i+1)%len(vertices)]

		if _, ok := m.Halfedge[u]; !ok {
			m.Halfedge[u] = map[int]int{}
		}
		if _, ok := m.Halfedge[v]; !ok {
			m.Halfedge[v] = map[int]int{}
		}

		_, exists := m.Halfedge[v][u]
		m.Halfedge[u][v] = faceKey
		if !exists {
			m.Halfedge[v][u] = NoFace
			m.LineColors = append(m.LineColors, geo.White())
			m.Widths = append(m.Widths, 1.0)
		}
	}

	return faceKey
}

// VertexPosition returns the position of a vertex, or nil for unknown
// keys.
func (m *Mesh) VertexPosition(vertexKey int) *geo.Point {
	if v, ok := m.Vertex[vertexKey]; ok {
		return v.Position()
	}
	return nil
}

// FaceVertices returns the vertex keys of a face in order.
func (m *Mesh) FaceVertices(faceKey int) []int {
	return m.Face[faceKey]
}

// VertexNeighbors returns the neighboring vertex keys, sorted.
func (m *Mesh) VertexNeighbors(vertexKey int) []int {
	neighbors := m.Halfedge[vertexKey]
	out := make([]int, 0, len(neighbors))
	for v := range neighbors {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// VertexFaces returns the keys of faces touching a vertex, sorted.
func (m *Mesh) VertexFaces(vertexKey int) []int {
	var faces []int
	for faceKey, faceVertices := range m.Face {
		for _, v := range faceVertices {
			if v == vertexKey {
				faces = append(faces, faceKey)
				break
			}
		}
	}
	sort.Ints(faces)
	return faces
}

// IsVertexOnBoundary reports whether any halfedge at the vertex has no
// face.
func (m *Mesh) IsVertexOnBoundary(vertexKey int) bool {
	for _, face := range m.Halfedge[vertexKey] {
		if face == NoFace {
			return true
		}
	}
	for _, neighbors := range m.Halfedge {
		if face, ok := neighbors[vertexKey]; ok && face == NoFace {
			return true
		}
	}
	return false
}

// FaceNormal returns the unit normal of a face, or nil when the face
// is degenerate.
func (m *Mesh) FaceNormal(faceKey int) *geo.Vector {
	vertices, ok := m.Face[faceKey]
	if !ok || len(vertices) < 3 {
		return nil
	}

	p0 := m.VertexPosition(vertices[0])
	p1 := m.VertexPosition(vertices[1])
	p2 := m.VertexPosition(vertices[2])
	if p0 == nil || p1 == nil || p2 == nil {
		return nil
	}

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Magnitude()
	if length <= geo.ZeroTolerance {
		return nil
	}
	return normal.Div(length)
}

// VertexNormal returns the area-weighted vertex normal.
func (m *Mesh) VertexNormal(vertexKey int) *geo.Vector {
	return m.VertexNormalWeighted(vertexKey, WeightArea)
}

// VertexNormalWeighted returns the vertex normal under the chosen
// weighting, or nil when the vertex has no faces.
func (m *Mesh) VertexNormalWeighted(vertexKey int, weighting NormalWeighting) *geo.Vector {
	faces := m.VertexFaces(vertexKey)
	if len(faces) == 0 {
		return nil
	}

	acc := geo.NewVector(0, 0, 0)
	for _, faceKey := range faces {
		normal := m.FaceNormal(faceKey)
		if normal == nil {
			continue
		}
		weight := 1.0
		switch weighting {
		case WeightArea:
			weight = m.FaceArea(faceKey)
			if weight == 0.0 {
				weight = 1.0
			}
		case WeightAngle:
			if a, ok := m.VertexAngleInFace(vertexKey, faceKey); ok {
				weight = a
			}
		}
		acc = acc.Add(normal.Mul(weight))
	}

	length := acc.Magnitude()
	if length <= geo.ZeroTolerance {
		return nil
	}
	return acc.Div(length)
}

// FaceArea returns the area of a face by fan triangulation.
func (m *Mesh) FaceArea(faceKey int) float64 {
	vertices, ok := m.Face[faceKey]
	if !ok || len(vertices) < 3 {
		return 0.0
	}

	area := 0.0
	p0 := m.VertexPosition(vertices[0])
	for i := 1; i < len(vertices)-1; i++ {
		p1 := m.VertexPosition(vertices[i])
		p2 := m.VertexPosition(vertices[i+1])
		area += p1.Sub(p0).Cross(p2.Sub(p0)).Magnitude() * 0.5
	}
	return area
}

// VertexAngleInFace returns the interior angle at a vertex of a face
// in radians.
func (m *Mesh) VertexAngleInFace(vertexKey, faceKey int) (float64, bool) {
	vertices, ok := m.Face[faceKey]
	if !ok {
		return 0, false
	}
	idx := -1
	for i, v := range vertices {
		if v == vertexKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false
	}

	n := len(vertices)
	center := m.VertexPosition(vertexKey)
	prev := m.VertexPosition(vertices[(idx+n-1)%n])
	next := m.VertexPosition(vertices[(idx+1)%n])

	u := prev.Sub(center)
	v := next.Sub(center)
	uLen, vLen := u.Magnitude(), v.Magnitude()
	if uLen < geo.ZeroTolerance || vLen < geo.ZeroTolerance {
		return 0.0, true
	}

	cosAngle := u.Dot(v) / (uLen * vLen)
	cosAngle = math.Max(-1.0, math.Min(1.0, cosAngle))
	return math.Acos(cosAngle), true
}

// FaceNormals returns all face normals keyed by face.
func (m *Mesh) FaceNormals() map[int]*geo.Vector {
	normals := map[int]*geo.Vector{}
	for faceKey := range m.Face {
		if normal := m.FaceNormal(faceKey); normal != nil {
			normals[faceKey] = normal
		}
	}
	return normals
}

// VertexNormals returns all area-weighted vertex normals.
func (m *Mesh) VertexNormals() map[int]*geo.Vector {
	return m.VertexNormalsWeighted(WeightArea)
}

// VertexNormalsWeighted returns all vertex normals under the chosen
// weighting.
func (m *Mesh) VertexNormalsWeighted(weighting NormalWeighting) map[int]*geo.Vector {
	normals := map[int]*geo.Vector{}
	for vertexKey := range m.Vertex {
		if normal := m.VertexNormalWeighted(vertexKey, weighting); normal != nil {
			normals[vertexKey] = normal
		}
	}
	return normals
}

// VertexIndex maps vertex keys to dense indices in sorted key order.
func (m *Mesh) VertexIndex() map[int]int {
	keys := make([]int, 0, len(m.Vertex))
	for key := range m.Vertex {
		keys = append(keys, key)
	}
	sort.Ints(keys)

	index := make(map[int]int, len(keys))
	for i, key := range keys {
		index[key] = i
	}
	return index
}

// ToVerticesAndFaces returns the mesh as dense vertex and face lists,
// faces in sorted key order.
func (m *Mesh) ToVerticesAndFaces() ([]*geo.Point, [][]int) {
	vertexIndex := m.VertexIndex()
	vertices := make([]*geo.Point, len(m.Vertex))
	for key, data := range m.Vertex {
		vertices[vertexIndex[key]] = data.Position()
	}

	faceKeys := make([]int, 0, len(m.Face))
	for key := range m.Face {
		faceKeys = append(faceKeys, key)
	}
	sort.Ints(faceKeys)

	faces := make([][]int, 0, len(faceKeys))
	for _, faceKey := range faceKeys {
		faceVertices := m.Face[faceKey]
		remapped := make([]int, len(faceVertices))
		for i, v := range faceVertices {
			remapped[i] = vertexIndex[v]
		}
		faces = append(faces, remapped)
	}

	return vertices, faces
}

// FromPolygons welds polygon soup into a mesh. A positive precision
// welds vertices within that distance; zero welds exact coordinates
// only.
func FromPolygons(polygons [][]*geo.Point, precision float64) *Mesh {
	m := New()
	useEps := precision > 0.0
	mapEps := map[[3]int64]int{}
	mapExact := map[[3]uint64]int{}

	getVKey := func(p *geo.Point) int {
		if useEps {
			key := [3]int64{
				int64(math.Round(p.X() / precision)),
				int64(math.Round(p.Y() / precision)),
				int64(math.Round(p.Z() / precision)),
			}
			if vk, ok := mapEps[key]; ok {
				return vk
			}
			vk := m.AddVertex(p.Clone(), -1)
			mapEps[key] = vk
			return vk
		}
		key := [3]uint64{
			math.Float64bits(p.X()),
			math.Float64bits(p.Y()),
			math.Float64bits(p.Z()),
		}
		if vk, ok := mapExact[key]; ok {
			return vk
		}
		vk := m.AddVertex(p.Clone(), -1)
		mapExact[key] = vk
		return vk
	}

	for _, poly := range polygons {
		if len(poly) < 3 {
			continue
		}
		vkeys := make([]int, 0, len(poly))
		for _, p := range poly {
			vkeys = append(vkeys, getVKey(p))
		}
		m.AddFace(vkeys, -1)
	}

	return m
}

func (m *Mesh) invalidateTriangleBVH() {
	m.triBVH = nil
	m.triTris = nil
	m.triVertices = nil
}

func (m *Mesh) ensureTriangleBVH() {
	if m.triBVH != nil && len(m.triTris) > 0 && len(m.triVertices) > 0 {
		return
	}

	vertices, faces := m.ToVerticesAndFaces()
	var tris [][3]int
	var triBoxes []*geo.BoundingBox

	for _, face := range faces {
		if len(face) < 3 {
			continue
		}
		v0 := face[0]
		for i := 1; i < len(face)-1; i++ {
			tri := [3]int{v0, face[i], face[i+1]}
			tris = append(tris, tri)
			pts := []*geo.Point{vertices[tri[0]], vertices[tri[1]], vertices[tri[2]]}
			triBoxes = append(triBoxes, geo.BoundingBoxFromPoints(pts, 0.0))
		}
	}

	m.triVertices = vertices
	if len(tris) == 0 {
		m.triBVH = nil
		m.triTris = nil
		return
	}

	m.triTris = tris
	m.triBVH = bvh.FromBoxes(triBoxes, bvh.ComputeWorldSize(triBoxes))
}

// RayCastBVH intersects a ray with the triangulated mesh and returns
// the closest hit point, or nil on a miss.
func (m *Mesh) RayCastBVH(ray *geo.Line, epsilon float64) *geo.Point {
	m.ensureTriangleBVH()
	if m.triBVH == nil {
		return nil
	}

	origin := ray.Start()
	dir := ray.ToVector()
	length := dir.ComputeLength()
	if length <= geo.ZeroTolerance {
		return nil
	}
	dirUnit := dir.Div(length)

	candidates := m.triBVH.RayCast(origin, dirUnit)
	if len(candidates) == 0 {
		return nil
	}

	bestT := math.Inf(1)
	var best *geo.Point
	for _, idx := range candidates {
		if idx >= len(m.triTris) {
			continue
		}
		tri := m.triTris[idx]
		p := intersect.RayTriangle(ray, m.triVertices[tri[0]], m.triVertices[tri[1]], m.triVertices[tri[2]], epsilon)
		if p == nil {
			continue
		}
		t := (p.X()-origin.X())*dirUnit.X() + (p.Y()-origin.Y())*dirUnit.Y() + (p.Z()-origin.Z())*dirUnit.Z()
		if t >= 0.0 && t < bestT {
			bestT = t
			best = p
		}
	}
	return best
}

// SetVertexColor sets a vertex display color by dense index.
func (m *Mesh) SetVertexColor(index int, color *geo.Color) {
	if index >= 0 && index < len(m.PointColors) {
		m.PointColors[index] = color
	}
}

// SetFaceColor sets a face display color by dense index.
func (m *Mesh) SetFaceColor(index int, color *geo.Color) {
	if index >= 0 && index < len(m.FaceColors) {
		m.FaceColors[index] = color
	}
}

// SetEdgeColor sets an edge display color by dense index.
func (m *Mesh) SetEdgeColor(index int, color *geo.Color) {
	if index >= 0 && index < len(m.LineColors) {
		m.LineColors[index] = color
	}
}

// SetEdgeWidth sets an edge display width by dense index.
func (m *Mesh) SetEdgeWidth(index int, width float64) {
	if index >= 0 && index < len(m.Widths) {
		m.Widths[index] = width
	}
}

// Transform applies the stored transform to all vertices and resets it
// to the identity.
func (m *Mesh) Transform() {
	xform := m.Xform.Clone()
	for _, v := range m.Vertex {
		pt := geo.NewPoint(v.X, v.Y, v.Z)
		xform.TransformPoint(pt)
		v.X, v.Y, v.Z = pt.X(), pt.Y(), pt.Z()
	}
	m.Xform = geo.Identity()
	m.invalidateTriangleBVH()
}

// Transformed returns a transformed copy.
func (m *Mesh) Transformed() *Mesh {
	c := m.Clone()
	c.Transform()
	return c
}

// Clone returns a deep copy. Cached triangulation data is not copied.
func (m *Mesh) Clone() *Mesh {
	c := New()
	c.GUID = m.GUID
	c.Name = m.Name
	c.maxVertex = m.maxVertex
	c.maxFace = m.maxFace
	c.Xform = m.Xform.Clone()

	for u, neighbors := range m.Halfedge {
		inner := make(map[int]int, len(neighbors))
		for v, f := range neighbors {
			inner[v] = f
		}
		c.Halfedge[u] = inner
	}
	for key, data := range m.Vertex {
		attrs := make(map[string]float64, len(data.Attributes))
		for k, val := range data.Attributes {
			attrs[k] = val
		}
		c.Vertex[key] = &VertexData{X: data.X, Y: data.Y, Z: data.Z, Attributes: attrs}
	}
	for key, vertices := range m.Face {
		c.Face[key] = append([]int(nil), vertices...)
	}
	for key, attrs := range m.FaceData {
		inner := make(map[string]float64, len(attrs))
		for k, v := range attrs {
			inner[k] = v
		}
		c.FaceData[key] = inner
	}
	for key, attrs := range m.EdgeData {
		inner := make(map[string]float64, len(attrs))
		for k, v := range attrs {
			inner[k] = v
		}
		c.EdgeData[key] = inner
	}

	c.PointColors = cloneColors(m.PointColors)
	c.FaceColors = cloneColors(m.FaceColors)
	c.LineColors = cloneColors(m.LineColors)
	c.Widths = append([]float64(nil), m.Widths...)
	return c
}

func cloneColors(colors []*geo.Color) []*geo.Color {
	if colors == nil {
		return nil
	}
	out := make([]*geo.Color, len(colors))
	for i, c := range colors {
		out[i] = c.Clone()
	}
	return out
}

type meshJSON struct {
	Type                    string                     `json:"type"`
	GUID                    string                     `json:"guid"`
	Name                    string                     `json:"name"`
	Vertex                  map[int]*VertexData        `json:"vertex"`
	Face                    map[int][]int              `json:"face"`
	FaceData                map[int]map[string]float64 `json:"facedata"`
	DefaultVertexAttributes map[string]float64         `json:"default_vertex_attributes"`
	DefaultFaceAttributes   map[string]float64         `json:"default_face_attributes"`
	DefaultEdgeAttributes   map[string]float64         `json:"default_edge_attributes"`
	MaxVertex               int                        `json:"max_vertex"`
	MaxFace                 int                        `json:"max_face"`
	PointColors             []uint8                    `json:"pointcolors"`
	FaceColors              []uint8                    `json:"facecolors"`
	LineColors              []uint8                    `json:"linecolors"`
	Widths                  []float64                  `json:"widths"`
}

func flattenColors(colors []*geo.Color) []uint8 {
	out := make([]uint8, 0, len(colors)*3)
	for _, c := range colors {
		out = append(out, c.R, c.G, c.B)
	}
	return out
}

func unflattenColors(flat []uint8) []*geo.Color {
	out := make([]*geo.Color, 0, len(flat)/3)
	for i := 0; i+2 < len(flat); i += 3 {
		out = append(out, geo.NewColor(flat[i], flat[i+1], flat[i+2], 255))
	}
	return out
}

// MarshalJSON implements json.Marshaler. Halfedge connectivity and the
// triangle cache are rebuilt on load rather than serialized.
func (m Mesh) MarshalJSON() ([]byte, error) {
	return json.Marshal(meshJSON{
		Type:                    "Mesh",
		GUID:                    m.GUID,
		Name:                    m.Name,
		Vertex:                  m.Vertex,
		Face:                    m.Face,
		FaceData:                m.FaceData,
		DefaultVertexAttributes: m.DefaultVertexAttributes,
		DefaultFaceAttributes:   m.DefaultFaceAttributes,
		DefaultEdgeAttributes:   m.DefaultEdgeAttributes,
		MaxVertex:               m.maxVertex,
		MaxFace:                 m.maxFace,
		PointColors:             flattenColors(m.PointColors),
		FaceColors:              flattenColors(m.FaceColors),
		LineColors:              flattenColors(m.LineColors),
		Widths:                  m.Widths,
	})
}

// UnmarshalJSON implements json.Unmarshaler, rebuilding halfedge
// connectivity from the face lists.
func (m *Mesh) UnmarshalJSON(data []byte) error {
	var raw meshJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = *New()
	m.GUID = raw.GUID
	m.Name = raw.Name
	if raw.Vertex != nil {
		m.Vertex = raw.Vertex
	}
	if raw.FaceData != nil {
		m.FaceData = raw.FaceData
	}
	if raw.DefaultVertexAttributes != nil {
		m.DefaultVertexAttributes = raw.DefaultVertexAttributes
	}
	if raw.DefaultFaceAttributes != nil {
		m.DefaultFaceAttributes = raw.DefaultFaceAttributes
	}
	if raw.DefaultEdgeAttributes != nil {
		m.DefaultEdgeAttributes = raw.DefaultEdgeAttributes
	}

	for key := range m.Vertex {
		m.Halfedge[key] = map[int]int{}
	}
	faceKeys := make([]int, 0, len(raw.Face))
	for key := range raw.Face {
		faceKeys = append(faceKeys, key)
	}
	sort.Ints(faceKeys)
	for _, key := range faceKeys {
		m.AddFace(raw.Face[key], key)
	}

	m.maxVertex = raw.MaxVertex
	m.maxFace = raw.MaxFace
	m.PointColors = unflattenColors(raw.PointColors)
	if len(raw.FaceColors) > 0 {
		m.FaceColors = unflattenColors(raw.FaceColors)
	}
	if len(raw.LineColors) > 0 {
		m.LineColors = unflattenColors(raw.LineColors)
	}
	if len(raw.Widths) > 0 {
		m.Widths = raw.Widths
	}
	return nil
}
