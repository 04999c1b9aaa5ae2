package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineLength(t *testing.T) {
	l := NewLine(0, 0, 0, 3, 4, 0)
	assert.InDelta(t, 5.0, l.Length(), 1e-12)
	assert.InDelta(t, 25.0, l.SquaredLength(), 1e-12)
}

func TestLinePointAt(t *testing.T) {
	l := NewLine(0, 0, 0, 10, 0, 0)
	assert.InDelta(t, 5.0, l.PointAt(0.5).X(), 1e-12)
	assert.True(t, l.PointAt(0).Equals(l.Start()))
	assert.True(t, l.PointAt(1).Equals(l.End()))
}

func TestLineTranslateAndScale(t *testing.T) {
	l := NewLine(0, 0, 0, 1, 0, 0)
	l.AddVector(NewVector(0, 2, 0))
	assert.Equal(t, 2.0, l.Y0())
	assert.Equal(t, 2.0, l.Y1())

	l.Scale(2)
	assert.Equal(t, 2.0, l.X1())
	assert.Equal(t, 4.0, l.Y0())

	l.Divide(2)
	assert.Equal(t, 1.0, l.X1())
}

func TestLineTransform(t *testing.T) {
	l := NewLine(0, 0, 0, 1, 0, 0)
	l.Xform = Translation(0, 0, 5)
	moved := l.Transformed()
	assert.InDelta(t, 5.0, moved.Z0(), 1e-12)
	assert.InDelta(t, 5.0, moved.Z1(), 1e-12)
	assert.True(t, moved.Xform.IsIdentity())
	// the original keeps its pending transform
	assert.Equal(t, 0.0, l.Z0())
	assert.False(t, l.Xform.IsIdentity())
}

func TestLineJSONRoundTrip(t *testing.T) {
	l := LineWithName("axis", 0, 0, 0, 0, 0, 10)
	data, err := JSONDumps(l, true)
	require.NoError(t, err)
	assert.Contains(t, data, `"type": "Line"`)

	var got Line
	require.NoError(t, JSONLoads(data, &got))
	assert.Equal(t, "axis", got.Name)
	assert.Equal(t, l.GUID, got.GUID)
	assert.Equal(t, 10.0, got.Z1())
}
