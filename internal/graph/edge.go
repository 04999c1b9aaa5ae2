package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Edge is an undirected graph edge between the vertices named V0 and
// V1.
type Edge struct {
	GUID      string `json:"guid"`
	Name      string `json:"name"`
	V0        string `json:"v0"`
	V1        string `json:"v1"`
	Attribute string `json:"attribute"`
	Index     int    `json:"index"`
}

// NewEdge creates an edge with a fresh GUID.
func NewEdge(name, v0, v1, attribute string) *Edge {
	return &Edge{
		GUID:      uuid.New().String(),
		Name:      name,
		V0:        v0,
		V1:        v1,
		Attribute: attribute,
		Index:     -1,
	}
}

func (e *Edge) String() string {
	return fmt.Sprintf("Edge(%s, %s, %s -> %s, attr=%s, index=%d)", e.Name, e.GUID, e.V0, e.V1, e.Attribute, e.Index)
}

// Vertices returns both endpoint names.
func (e *Edge) Vertices() (string, string) {
	return e.V0, e.V1
}

// Connects reports whether the edge touches the vertex.
func (e *Edge) Connects(vertexID string) bool {
	return e.V0 == vertexID || e.V1 == vertexID
}

// OtherVertex returns the endpoint opposite the given vertex.
func (e *Edge) OtherVertex(vertexID string) string {
	if e.V0 == vertexID {
		return e.V1
	}
	return e.V0
}

// Clone returns a copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	return &c
}
