// Package graph implements a string-keyed undirected graph with
// attribute strings on vertices and edges.
package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Vertex is a graph vertex. Index is assigned by the graph in
// insertion order.
type Vertex struct {
	GUID      string `json:"guid"`
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	Index     int    `json:"index"`
}

// NewVertex creates a vertex with a fresh GUID.
func NewVertex(name, attribute string) *Vertex {
	return &Vertex{
		GUID:      uuid.New().String(),
		Name:      name,
		Attribute: attribute,
		Index:     -1,
	}
}

func (v *Vertex) String() string {
	return fmt.Sprintf("Vertex(%s, %s, attr=%s, index=%d)", v.Name, v.GUID, v.Attribute, v.Index)
}

// Clone returns a copy of the vertex.
func (v *Vertex) Clone() *Vertex {
	c := *v
	return &c
}
