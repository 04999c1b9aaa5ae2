package mesh

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/leapstack-labs/geoscene/pkg/geo"
)

// WriteOBJ writes the mesh to a Wavefront OBJ file with 1-based face
// indices.
func WriteOBJ(m *Mesh, filepath string) error {
	vertices, faces := m.ToVerticesAndFaces()

	var b strings.Builder
	for _, p := range vertices {
		fmt.Fprintf(&b, "v %v %v %v\n", p.X(), p.Y(), p.Z())
	}
	for _, f := range faces {
		if len(f) < 3 {
			continue
		}
		indices := make([]string, len(f))
		for i, idx := range f {
			indices[i] = strconv.Itoa(idx + 1)
		}
		fmt.Fprintf(&b, "f %s\n", strings.Join(indices, " "))
	}

	return os.WriteFile(filepath, []byte(b.String()), 0o644)
}

// ReadOBJ loads a Wavefront OBJ file into a mesh. Texture and normal
// references in face tokens are ignored, and negative indices count
// back from the vertices read so far.
func ReadOBJ(filepath string) (*Mesh, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var verts [][3]float64
	var faces [][]int

	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "v "):
			parts := strings.Fields(line)[1:]
			coord := func(i int) float64 {
				if i >= len(parts) {
					return 0.0
				}
				v, err := strconv.ParseFloat(parts[i], 64)
				if err != nil {
					return 0.0
				}
				return v
			}
			verts = append(verts, [3]float64{coord(0), coord(1), coord(2)})
		case strings.HasPrefix(line, "f "):
			var face []int
			for _, tok := range strings.Fields(line)[1:] {
				first := strings.SplitN(tok, "/", 2)[0]
				if first == "" {
					continue
				}
				idx, err := strconv.ParseInt(first, 10, 64)
				if err != nil || idx == 0 {
					continue
				}
				var vidx int
				if idx > 0 {
					vidx = int(idx - 1)
				} else {
					vidx = len(verts) + int(idx)
				}
				face = append(face, vidx)
			}
			if len(face) >= 3 {
				faces = append(faces, face)
			}
		}
	}

	m := New()
	vkeys := make([]int, 0, len(verts))
	for _, v := range verts {
		vkeys = append(vkeys, m.AddVertex(geo.NewPoint(v[0], v[1], v[2]), -1))
	}
	for _, f := range faces {
		vlist := make([]int, len(f))
		for i, idx := range f {
			if idx < 0 || idx >= len(vkeys) {
				vlist = nil
				break
			}
			vlist[i] = vkeys[idx]
		}
		if vlist != nil {
			m.AddFace(vlist, -1)
		}
	}

	return m, nil
}
