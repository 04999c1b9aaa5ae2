package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/geoscene/internal/cli/config"
	"github.com/leapstack-labs/geoscene/internal/session"
	"github.com/leapstack-labs/geoscene/pkg/geo"
	"github.com/leapstack-labs/geoscene/pkg/mesh"
)

// execute runs a command with the given args and returns its combined
// output.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	config.ResetConfig()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// writeTestSession dumps a small session with a point, a line, and two
// overlapping boxes to a JSON file.
func writeTestSession(t *testing.T) (string, *session.Session) {
	t.Helper()

	s := session.New(session.Config{Name: "scene"})
	s.Add(s.AddPoint(geo.NewPoint(5, 0, 0)), nil)
	s.Add(s.AddLine(geo.LineFromPoints(
		geo.NewPoint(10, -1, 0), geo.NewPoint(10, 1, 0))), nil)
	s.Add(s.AddBBox(geo.BoundingBoxFromPoint(geo.NewPoint(0, 0, 0), 1.0)), nil)
	s.Add(s.AddBBox(geo.BoundingBoxFromPoint(geo.NewPoint(0.5, 0, 0), 1.0)), nil)

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, geo.JSONDump(s, path, false))
	return path, s
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, NewInitCommand(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "initialized")
	assert.FileExists(t, filepath.Join(dir, "geoscene.yaml"))
	assert.DirExists(t, filepath.Join(dir, ".geoscene"))

	// Refuses to overwrite without --force.
	_, err = execute(t, NewInitCommand(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(t, NewInitCommand(), dir, "--force")
	require.NoError(t, err)
}

func TestStatsCommandJSON(t *testing.T) {
	path, s := writeTestSession(t)
	t.Setenv("GEOSCENE_OUTPUT", "json")

	out, err := execute(t, NewStatsCommand(), path)
	require.NoError(t, err)

	var stats sessionStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, s.GUID, stats.GUID)
	assert.Equal(t, "scene", stats.Name)
	assert.Equal(t, 4, stats.Objects)
	assert.Equal(t, 4, stats.Vertices)
	// root + four object nodes
	assert.Equal(t, 5, stats.Nodes)
}

func TestStatsCommandMarkdown(t *testing.T) {
	path, _ := writeTestSession(t)

	out, err := execute(t, NewStatsCommand(), path)
	require.NoError(t, err)

	// Non-TTY buffers render as markdown in auto mode.
	assert.Contains(t, out, "# Session scene")
	assert.Contains(t, out, "- **point**: 1")
	assert.Contains(t, out, "- **bbox**: 2")
}

func TestStatsCommandMissingFile(t *testing.T) {
	_, err := execute(t, NewStatsCommand(), filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestRaycastCommandJSON(t *testing.T) {
	path, s := writeTestSession(t)
	t.Setenv("GEOSCENE_OUTPUT", "json")

	out, err := execute(t, NewRaycastCommand(), path,
		"--origin", "5,0,-10", "--direction", "0,0,1")
	require.NoError(t, err)

	var hits []session.RayHit
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, s.Objects.Points[0].GUID, hits[0].GUID)
	assert.InDelta(t, 10.0, hits[0].Distance, 1e-9)
}

func TestRaycastCommandInvalidFlags(t *testing.T) {
	path, _ := writeTestSession(t)

	_, err := execute(t, NewRaycastCommand(), path, "--origin", "1,2")
	require.Error(t, err)

	_, err = execute(t, NewRaycastCommand(), path, "--direction", "0,0,0")
	require.Error(t, err)
}

func TestCollideCommandJSON(t *testing.T) {
	path, _ := writeTestSession(t)
	t.Setenv("GEOSCENE_OUTPUT", "json")

	out, err := execute(t, NewCollideCommand(), path)
	require.NoError(t, err)

	var reports []collisionReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, "scene", reports[0].Name)
	require.Len(t, reports[0].Pairs, 1)
}

func TestCollideCommandMultipleFiles(t *testing.T) {
	path1, _ := writeTestSession(t)
	path2, _ := writeTestSession(t)
	t.Setenv("GEOSCENE_OUTPUT", "json")

	out, err := execute(t, NewCollideCommand(), path1, path2, "--workers", "2")
	require.NoError(t, err)

	var reports []collisionReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Len(t, reports, 2)
	assert.Equal(t, path1, reports[0].File)
	assert.Equal(t, path2, reports[1].File)
}

func TestConvertCommandRoundTrip(t *testing.T) {
	dir := t.TempDir()

	m := mesh.FromPolygons([][]*geo.Point{{
		geo.NewPoint(0, 0, 0),
		geo.NewPoint(1, 0, 0),
		geo.NewPoint(0, 1, 0),
	}}, 0)
	jsonPath := filepath.Join(dir, "tri.json")
	require.NoError(t, geo.JSONDump(m, jsonPath, false))

	objPath := filepath.Join(dir, "tri.obj")
	out, err := execute(t, NewConvertCommand(), jsonPath, objPath)
	require.NoError(t, err)
	assert.Contains(t, out, "3 vertices")
	assert.FileExists(t, objPath)

	backPath := filepath.Join(dir, "back.json")
	_, err = execute(t, NewConvertCommand(), objPath, backPath)
	require.NoError(t, err)

	back := mesh.New()
	require.NoError(t, geo.JSONLoad(backPath, back))
	assert.Equal(t, 3, back.NumberOfVertices())
	assert.Equal(t, 1, back.NumberOfFaces())
}

func TestConvertCommandUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "mesh.stl")
	require.NoError(t, os.WriteFile(in, []byte("solid"), 0o644))

	_, err := execute(t, NewConvertCommand(), in, filepath.Join(dir, "out.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported input format")
}

func TestStoreCommands(t *testing.T) {
	path, s := writeTestSession(t)
	t.Setenv("GEOSCENE_STATE_PATH", filepath.Join(t.TempDir(), "state.db"))
	t.Setenv("GEOSCENE_OUTPUT", "json")

	out, err := execute(t, NewStoreCommand(), "save", path)
	require.NoError(t, err)
	assert.Contains(t, out, s.GUID)

	out, err = execute(t, NewStoreCommand(), "list")
	require.NoError(t, err)
	assert.Contains(t, out, s.GUID)
	assert.Contains(t, out, `"scene"`)

	loadOut := filepath.Join(t.TempDir(), "loaded.json")
	_, err = execute(t, NewStoreCommand(), "load", s.GUID, "--out", loadOut)
	require.NoError(t, err)

	loaded, err := loadSession(loadOut)
	require.NoError(t, err)
	assert.Equal(t, s.GUID, loaded.GUID)
	assert.Equal(t, 4, loaded.ObjectCount())

	_, err = execute(t, NewStoreCommand(), "rm", s.GUID)
	require.NoError(t, err)

	_, err = execute(t, NewStoreCommand(), "load", s.GUID)
	require.Error(t, err)
}
