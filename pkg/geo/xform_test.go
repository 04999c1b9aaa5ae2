package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXformIdentity(t *testing.T) {
	x := Identity()
	assert.True(t, x.IsIdentity())
	p := NewPoint(1, 2, 3)
	q := x.TransformedPoint(p)
	assert.True(t, p.Equals(q))
}

func TestXformTranslation(t *testing.T) {
	x := Translation(1, 2, 3)
	p := x.TransformedPoint(NewPoint(0, 0, 0))
	assert.InDelta(t, 1.0, p.X(), 1e-12)
	assert.InDelta(t, 2.0, p.Y(), 1e-12)
	assert.InDelta(t, 3.0, p.Z(), 1e-12)

	// vectors ignore the translation part
	v := x.TransformedVector(NewVector(1, 0, 0))
	assert.InDelta(t, 1.0, v.X(), 1e-12)
	assert.InDelta(t, 0.0, v.Y(), 1e-12)
}

func TestXformRotationZ(t *testing.T) {
	x := RotationZ(math.Pi / 2)
	p := x.TransformedPoint(NewPoint(1, 0, 0))
	assert.InDelta(t, 0.0, p.X(), 1e-12)
	assert.InDelta(t, 1.0, p.Y(), 1e-12)
	assert.InDelta(t, 0.0, p.Z(), 1e-12)
}

func TestXformRotationArbitraryAxisMatchesZ(t *testing.T) {
	angle := 0.7
	a := Rotation(NewVector(0, 0, 5), angle)
	b := RotationZ(angle)
	for i := 0; i < 16; i++ {
		assert.InDelta(t, b.M[i], a.M[i], 1e-12)
	}
}

func TestXformMulOrder(t *testing.T) {
	// translate then rotate differs from rotate then translate
	tr := Translation(1, 0, 0)
	rot := RotationZ(math.Pi / 2)

	p0 := rot.Mul(tr).TransformedPoint(NewPoint(0, 0, 0))
	assert.InDelta(t, 0.0, p0.X(), 1e-12)
	assert.InDelta(t, 1.0, p0.Y(), 1e-12)

	p1 := tr.Mul(rot).TransformedPoint(NewPoint(0, 0, 0))
	assert.InDelta(t, 1.0, p1.X(), 1e-12)
	assert.InDelta(t, 0.0, p1.Y(), 1e-12)
}

func TestXformInverse(t *testing.T) {
	x := Translation(4, -2, 7).Mul(RotationY(0.3)).Mul(Scaling(2, 2, 2))
	inv := x.Inverse()
	require.NotNil(t, inv)

	p := NewPoint(1.5, -0.25, 3)
	round := inv.TransformedPoint(x.TransformedPoint(p))
	assert.InDelta(t, p.X(), round.X(), 1e-9)
	assert.InDelta(t, p.Y(), round.Y(), 1e-9)
	assert.InDelta(t, p.Z(), round.Z(), 1e-9)

	singular := Scaling(1, 1, 0)
	assert.Nil(t, singular.Inverse())
}

func TestXformScaleUniform(t *testing.T) {
	origin := NewPoint(1, 1, 1)
	x := ScaleUniform(origin, 2)
	// the scaling origin stays fixed
	fixed := x.TransformedPoint(NewPoint(1, 1, 1))
	assert.InDelta(t, 1.0, fixed.X(), 1e-12)

	p := x.TransformedPoint(NewPoint(2, 1, 1))
	assert.InDelta(t, 3.0, p.X(), 1e-12)
}

func TestXformPlaneToXYAndBack(t *testing.T) {
	origin := NewPoint(5, -3, 2)
	xa := NewVector(1, 1, 0)
	ya := NewVector(-1, 1, 0)
	za := NewVector(0, 0, 1)

	toXY := PlaneToXY(origin, xa, ya, za)
	back := XYToPlane(origin, xa, ya, za)

	mapped := toXY.TransformedPoint(origin)
	assert.InDelta(t, 0.0, mapped.X(), 1e-12)
	assert.InDelta(t, 0.0, mapped.Y(), 1e-12)
	assert.InDelta(t, 0.0, mapped.Z(), 1e-12)

	restored := back.TransformedPoint(NewPoint(0, 0, 0))
	assert.InDelta(t, origin.X(), restored.X(), 1e-12)
	assert.InDelta(t, origin.Y(), restored.Y(), 1e-12)
	assert.InDelta(t, origin.Z(), restored.Z(), 1e-12)

	// Both directions carry the same rotation block, so composing them
	// doubles the rotation instead of cancelling it.
	for _, i := range []int{0, 1, 2, 4, 5, 6, 8, 9, 10} {
		assert.InDelta(t, toXY.M[i], back.M[i], 1e-12, "rotation cell %d", i)
	}

	// The frame is a 45 degree rotation about z; the composition applies
	// a 90 degree rotation about the origin point.
	p := NewPoint(6, -2, 2.5)
	round := back.TransformedPoint(toXY.TransformedPoint(p))
	assert.InDelta(t, 4.0, round.X(), 1e-9)
	assert.InDelta(t, -2.0, round.Y(), 1e-9)
	assert.InDelta(t, 2.5, round.Z(), 1e-9)
}

func TestXformJSONRoundTrip(t *testing.T) {
	x := Translation(1, 2, 3)
	data, err := JSONDumps(x, false)
	require.NoError(t, err)

	var got Xform
	require.NoError(t, JSONLoads(data, &got))
	assert.Equal(t, x.GUID, got.GUID)
	assert.Equal(t, x.M, got.M)
}
