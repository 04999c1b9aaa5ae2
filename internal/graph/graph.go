package graph

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Graph is an undirected graph keyed by vertex name. Each edge is
// stored under both endpoints.
type Graph struct {
	GUID        string
	Name        string
	VertexCount int
	EdgeCount   int

	vertices map[string]*Vertex
	edges    map[string]map[string]*Edge
}

// New creates an empty graph with the given name.
func New(name string) *Graph {
	return &Graph{
		GUID:     uuid.New().String(),
		Name:     name,
		vertices: map[string]*Vertex{},
		edges:    map[string]map[string]*Edge{},
	}
}

func (g *Graph) String() string {
	return fmt.Sprintf("Graph(%s, %s, vertices=%d, edges=%d)", g.Name, g.GUID, g.VertexCount, g.EdgeCount)
}

// HasNode reports whether the vertex exists.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.vertices[key]
	return ok
}

// AddNode adds a vertex and returns its name. Adding an existing key
// is a no-op.
func (g *Graph) AddNode(key, attribute string) string {
	if g.HasNode(key) {
		return g.vertices[key].Name
	}

	vertex := NewVertex(key, attribute)
	vertex.Index = len(g.vertices)
	g.vertices[key] = vertex
	g.VertexCount = len(g.vertices)
	return vertex.Name
}

// AddEdge connects u and v, creating missing vertices on the fly.
func (g *Graph) AddEdge(u, v, attribute string) (string, string) {
	if !g.HasNode(u) {
		g.AddNode(u, "")
	}
	if !g.HasNode(v) {
		g.AddNode(v, "")
	}

	if g.HasEdge(u, v) {
		return u, v
	}

	edge := NewEdge("my_edge", u, v, attribute)
	edge.Index = g.EdgeCount

	if g.edges[u] == nil {
		g.edges[u] = map[string]*Edge{}
	}
	if g.edges[v] == nil {
		g.edges[v] = map[string]*Edge{}
	}
	g.edges[u][v] = edge
	g.edges[v][u] = edge

	g.EdgeCount++
	return u, v
}

// HasEdge reports whether u and v are connected.
func (g *Graph) HasEdge(u, v string) bool {
	neighbors, ok := g.edges[u]
	if !ok {
		return false
	}
	_, ok = neighbors[v]
	return ok
}

// NumberOfVertices returns the vertex count.
func (g *Graph) NumberOfVertices() int {
	return len(g.vertices)
}

// NumberOfEdges returns the undirected edge count.
func (g *Graph) NumberOfEdges() int {
	seen := map[[2]string]struct{}{}
	for u, neighbors := range g.edges {
		for v := range neighbors {
			key := [2]string{u, v}
			if v < u {
				key = [2]string{v, u}
			}
			seen[key] = struct{}{}
		}
	}
	return len(seen)
}

// Vertices returns all vertices sorted by index.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Edges returns each undirected edge once as an ordered name pair,
// sorted by edge index.
func (g *Graph) Edges() [][2]string {
	edges := g.uniqueEdges()
	out := make([][2]string, 0, len(edges))
	for _, e := range edges {
		pair := [2]string{e.V0, e.V1}
		if pair[1] < pair[0] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		out = append(out, pair)
	}
	return out
}

func (g *Graph) uniqueEdges() []*Edge {
	seen := map[[2]string]struct{}{}
	var out []*Edge
	for u, neighbors := range g.edges {
		for v, e := range neighbors {
			key := [2]string{u, v}
			if v < u {
				key = [2]string{v, u}
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Neighbors returns the neighbor names of a vertex, sorted.
func (g *Graph) Neighbors(node string) []string {
	neighbors := g.edges[node]
	out := make([]string, 0, len(neighbors))
	for v := range neighbors {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// RemoveNode deletes a vertex and all of its edges.
func (g *Graph) RemoveNode(key string) {
	if !g.HasNode(key) {
		return
	}

	if neighbors, ok := g.edges[key]; ok {
		delete(g.edges, key)
		for neighborKey := range neighbors {
			delete(g.edges[neighborKey], key)
		}
	}

	delete(g.vertices, key)
	g.VertexCount = len(g.vertices)
	g.EdgeCount = g.NumberOfEdges()
}

// RemoveEdge deletes the edge between u and v.
func (g *Graph) RemoveEdge(u, v string) {
	removed := false
	if neighbors, ok := g.edges[u]; ok {
		if _, exists := neighbors[v]; exists {
			delete(neighbors, v)
			removed = true
		}
	}
	if neighbors, ok := g.edges[v]; ok {
		delete(neighbors, u)
	}
	if removed {
		g.EdgeCount = g.NumberOfEdges()
	}
}

// Clear removes all vertices and edges.
func (g *Graph) Clear() {
	g.vertices = map[string]*Vertex{}
	g.edges = map[string]map[string]*Edge{}
	g.VertexCount = 0
	g.EdgeCount = 0
}

// NodeAttribute reads the vertex attribute. The second return is
// false for unknown vertices.
func (g *Graph) NodeAttribute(node string) (string, bool) {
	v, ok := g.vertices[node]
	if !ok {
		return "", false
	}
	return v.Attribute, true
}

// SetNodeAttribute writes the vertex attribute.
func (g *Graph) SetNodeAttribute(node, value string) bool {
	v, ok := g.vertices[node]
	if !ok {
		return false
	}
	v.Attribute = value
	return true
}

// EdgeAttribute reads the edge attribute.
func (g *Graph) EdgeAttribute(u, v string) (string, bool) {
	if !g.HasEdge(u, v) {
		return "", false
	}
	return g.edges[u][v].Attribute, true
}

// SetEdgeAttribute writes the edge attribute. The edge is shared
// between both endpoint entries so one write covers both.
func (g *Graph) SetEdgeAttribute(u, v, value string) bool {
	if !g.HasEdge(u, v) {
		return false
	}
	g.edges[u][v].Attribute = value
	return true
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New(g.Name)
	c.GUID = g.GUID
	c.VertexCount = g.VertexCount
	c.EdgeCount = g.EdgeCount
	for key, v := range g.vertices {
		c.vertices[key] = v.Clone()
	}
	for _, e := range g.uniqueEdges() {
		clone := e.Clone()
		if c.edges[e.V0] == nil {
			c.edges[e.V0] = map[string]*Edge{}
		}
		if c.edges[e.V1] == nil {
			c.edges[e.V1] = map[string]*Edge{}
		}
		c.edges[e.V0][e.V1] = clone
		c.edges[e.V1][e.V0] = clone
	}
	return c
}

type graphJSON struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	GUID        string    `json:"guid"`
	Vertices    []*Vertex `json:"vertices"`
	Edges       []*Edge   `json:"edges"`
	VertexCount int       `json:"vertex_count"`
	EdgeCount   int       `json:"edge_count"`
}

// MarshalJSON implements json.Marshaler. Vertices and edges are
// flattened to index-sorted arrays.
func (g Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(graphJSON{
		Type:        "Graph",
		Name:        g.Name,
		GUID:        g.GUID,
		Vertices:    g.Vertices(),
		Edges:       g.uniqueEdges(),
		VertexCount: g.VertexCount,
		EdgeCount:   g.EdgeCount,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var raw graphJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	name := raw.Name
	if name == "" {
		name = "my_graph"
	}
	*g = *New(name)
	g.GUID = raw.GUID
	g.VertexCount = raw.VertexCount
	g.EdgeCount = raw.EdgeCount

	for _, v := range raw.Vertices {
		g.vertices[v.Name] = v
	}
	for _, e := range raw.Edges {
		if g.edges[e.V0] == nil {
			g.edges[e.V0] = map[string]*Edge{}
		}
		if g.edges[e.V1] == nil {
			g.edges[e.V1] = map[string]*Edge{}
		}
		g.edges[e.V0][e.V1] = e
		g.edges[e.V1][e.V0] = e
	}

	return nil
}
