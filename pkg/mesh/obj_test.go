package mesh

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndReadOBJ(t *testing.T) {
	m, _ := quadMesh()
	path := filepath.Join(t.TempDir(), "quad.obj")

	require.NoError(t, WriteOBJ(m, path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "v 0 0 0\n")
	assert.Contains(t, string(content), "f 1 2 3 4\n")

	loaded, err := ReadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.NumberOfVertices())
	assert.Equal(t, 1, loaded.NumberOfFaces())
	assert.Equal(t, 4, loaded.NumberOfEdges())
}

func TestReadOBJTolerantParsing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tris.obj")
	content := `# comment line

v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
f 1/1/1 2/2/2 3/3/3
f -4 -3 -1
f 1 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := ReadOBJ(path)
	require.NoError(t, err)
	assert.Equal(t, 4, m.NumberOfVertices())
	// The two-vertex face is dropped, the slash and negative forms load.
	assert.Equal(t, 2, m.NumberOfFaces())

	p := m.VertexPosition(7)
	require.NotNil(t, p)
	assert.Equal(t, 1.0, p.Z())
}

func TestReadOBJMissingFile(t *testing.T) {
	_, err := ReadOBJ(filepath.Join(t.TempDir(), "absent.obj"))
	assert.Error(t, err)
}
