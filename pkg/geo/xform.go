package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// Xform is a 4x4 transformation matrix stored column-major:
// element (row, col) lives at m[col*4+row].
type Xform struct {
	GUID string
	Name string
	M    [16]float64
}

// NewXform creates an identity transform.
func NewXform() *Xform { return Identity() }

// XformFromMatrix creates a transform from a flattened column-major
// matrix.
func XformFromMatrix(m [16]float64) *Xform {
	return &Xform{
		GUID: uuid.New().String(),
		Name: "my_xform",
		M:    m,
	}
}

// Identity creates the identity transform.
func Identity() *Xform {
	x := XformFromMatrix([16]float64{})
	x.M[0] = 1
	x.M[5] = 1
	x.M[10] = 1
	x.M[15] = 1
	return x
}

// XformFromCols creates a transform whose rotation columns are the
// given vectors.
func XformFromCols(colX, colY, colZ *Vector) *Xform {
	x := Identity()
	x.M[0], x.M[1], x.M[2] = colX.X(), colX.Y(), colX.Z()
	x.M[4], x.M[5], x.M[6] = colY.X(), colY.Y(), colY.Z()
	x.M[8], x.M[9], x.M[10] = colZ.X(), colZ.Y(), colZ.Z()
	return x
}

// Translation creates a translation transform.
func Translation(x, y, z float64) *Xform {
	t := Identity()
	t.M[12], t.M[13], t.M[14] = x, y, z
	return t
}

// Scaling creates a scaling transform about the origin.
func Scaling(x, y, z float64) *Xform {
	s := Identity()
	s.M[0], s.M[5], s.M[10] = x, y, z
	return s
}

// ScaleXYZ is Scaling under its interop name.
func ScaleXYZ(x, y, z float64) *Xform { return Scaling(x, y, z) }

// RotationX creates a rotation about the x axis.
func RotationX(angleRadians float64) *Xform {
	x := Identity()
	c, s := math.Cos(angleRadians), math.Sin(angleRadians)
	x.M[5], x.M[6], x.M[9], x.M[10] = c, s, -s, c
	return x
}

// RotationY creates a rotation about the y axis.
func RotationY(angleRadians float64) *Xform {
	x := Identity()
	c, s := math.Cos(angleRadians), math.Sin(angleRadians)
	x.M[0], x.M[2], x.M[8], x.M[10] = c, -s, s, c
	return x
}

// RotationZ creates a rotation about the z axis.
func RotationZ(angleRadians float64) *Xform {
	x := Identity()
	c, s := math.Cos(angleRadians), math.Sin(angleRadians)
	x.M[0], x.M[1], x.M[4], x.M[5] = c, s, -s, c
	return x
}

// Rotation creates a rotation about an arbitrary axis, normalizing it
// first.
func Rotation(axis *Vector, angleRadians float64) *Xform {
	a := axis.Normalize()
	x := Identity()
	c, s := math.Cos(angleRadians), math.Sin(angleRadians)
	oc := 1 - c

	xx, xy, xz := a.X()*a.X(), a.X()*a.Y(), a.X()*a.Z()
	yy, yz, zz := a.Y()*a.Y(), a.Y()*a.Z(), a.Z()*a.Z()

	x.M[0] = c + xx*oc
	x.M[1] = xy*oc + a.Z()*s
	x.M[2] = xz*oc - a.Y()*s

	x.M[4] = xy*oc - a.Z()*s
	x.M[5] = c + yy*oc
	x.M[6] = yz*oc + a.X()*s

	x.M[8] = xz*oc + a.Y()*s
	x.M[9] = yz*oc - a.X()*s
	x.M[10] = c + zz*oc
	return x
}

// AxisRotation creates a rotation about an axis assumed unit length.
func AxisRotation(angle float64, axis *Vector) *Xform {
	c, s := math.Cos(angle), math.Sin(angle)
	ux, uy, uz := axis.X(), axis.Y(), axis.Z()
	t := 1 - c

	x := Identity()
	x.M[0] = t*ux*ux + c
	x.M[4] = t*ux*uy - uz*s
	x.M[8] = t*ux*uz + uy*s

	x.M[1] = t*ux*uy + uz*s
	x.M[5] = t*uy*uy + c
	x.M[9] = t*uy*uz - ux*s

	x.M[2] = t*ux*uz - uy*s
	x.M[6] = t*uy*uz + ux*s
	x.M[10] = t*uz*uz + c
	return x
}

// LookAtRH creates a right-handed view transform.
func LookAtRH(eye, target *Point, up *Vector) *Xform {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up.Normalize()).Normalize()
	u := s.Cross(f)

	x := Identity()
	x.M[0], x.M[4], x.M[8] = s.X(), s.Y(), s.Z()
	x.M[1], x.M[5], x.M[9] = u.X(), u.Y(), u.Z()
	x.M[2], x.M[6], x.M[10] = -f.X(), -f.Y(), -f.Z()

	eyeVec := NewVector(eye.X(), eye.Y(), eye.Z())
	x.M[12] = -s.Dot(eyeVec)
	x.M[13] = -u.Dot(eyeVec)
	x.M[14] = f.Dot(eyeVec)
	return x
}

// ChangeBasis creates a basis transform from normalized axes placed at
// origin.
func ChangeBasis(origin *Point, xAxis, yAxis, zAxis *Vector) *Xform {
	xa, ya, za := xAxis.Normalize(), yAxis.Normalize(), zAxis.Normalize()

	x := Identity()
	x.M[0], x.M[1], x.M[2] = xa.X(), xa.Y(), xa.Z()
	x.M[4], x.M[5], x.M[6] = ya.X(), ya.Y(), ya.Z()
	x.M[8], x.M[9], x.M[10] = za.X(), za.Y(), za.Z()
	x.M[12], x.M[13], x.M[14] = origin.X(), origin.Y(), origin.Z()
	return x
}

// At returns element (row, col).
func (x *Xform) At(row, col int) float64 {
	if row < 0 || row > 3 || col < 0 || col > 3 {
		panic(fmt.Sprintf("geo: xform index out of bounds: (%d, %d)", row, col))
	}
	return x.M[col*4+row]
}

// Set sets element (row, col).
func (x *Xform) Set(row, col int, v float64) {
	if row < 0 || row > 3 || col < 0 || col > 3 {
		panic(fmt.Sprintf("geo: xform index out of bounds: (%d, %d)", row, col))
	}
	x.M[col*4+row] = v
}

// Inverse returns the inverse transform, or nil when the rotation block
// is singular.
func (x *Xform) Inverse() *Xform {
	a00, a01, a02 := x.At(0, 0), x.At(0, 1), x.At(0, 2)
	a10, a11, a12 := x.At(1, 0), x.At(1, 1), x.At(1, 2)
	a20, a21, a22 := x.At(2, 0), x.At(2, 1), x.At(2, 2)

	det := a00*(a11*a22-a12*a21) - a01*(a10*a22-a12*a20) + a02*(a10*a21-a11*a20)
	if math.Abs(det) < 1e-12 {
		return nil
	}
	invDet := 1.0 / det

	m00 := (a11*a22 - a12*a21) * invDet
	m01 := (a02*a21 - a01*a22) * invDet
	m02 := (a01*a12 - a02*a11) * invDet
	m10 := (a12*a20 - a10*a22) * invDet
	m11 := (a00*a22 - a02*a20) * invDet
	m12 := (a02*a10 - a00*a12) * invDet
	m20 := (a10*a21 - a11*a20) * invDet
	m21 := (a01*a20 - a00*a21) * invDet
	m22 := (a00*a11 - a01*a10) * invDet

	tx, ty, tz := x.At(0, 3), x.At(1, 3), x.At(2, 3)

	res := Identity()
	res.Set(0, 0, m00)
	res.Set(0, 1, m01)
	res.Set(0, 2, m02)
	res.Set(1, 0, m10)
	res.Set(1, 1, m11)
	res.Set(1, 2, m12)
	res.Set(2, 0, m20)
	res.Set(2, 1, m21)
	res.Set(2, 2, m22)
	res.Set(0, 3, -(m00*tx + m01*ty + m02*tz))
	res.Set(1, 3, -(m10*tx + m11*ty + m12*tz))
	res.Set(2, 3, -(m20*tx + m21*ty + m22*tz))
	return res
}

// TransformedPoint returns point transformed, including the perspective
// divide when |w| exceeds 1e-10.
func (x *Xform) TransformedPoint(point *Point) *Point {
	m := &x.M
	w := m[3]*point.X() + m[7]*point.Y() + m[11]*point.Z() + m[15]
	wInv := 1.0
	if math.Abs(w) > 1e-10 {
		wInv = 1.0 / w
	}
	return NewPoint(
		(m[0]*point.X()+m[4]*point.Y()+m[8]*point.Z()+m[12])*wInv,
		(m[1]*point.X()+m[5]*point.Y()+m[9]*point.Z()+m[13])*wInv,
		(m[2]*point.X()+m[6]*point.Y()+m[10]*point.Z()+m[14])*wInv,
	)
}

// TransformedVector returns vector transformed by the rotation block.
func (x *Xform) TransformedVector(v *Vector) *Vector {
	m := &x.M
	return NewVector(
		m[0]*v.X()+m[4]*v.Y()+m[8]*v.Z(),
		m[1]*v.X()+m[5]*v.Y()+m[9]*v.Z(),
		m[2]*v.X()+m[6]*v.Y()+m[10]*v.Z(),
	)
}

// TransformPoint transforms point in place.
func (x *Xform) TransformPoint(point *Point) {
	m := &x.M
	px, py, pz := point.x, point.y, point.z
	w := m[3]*px + m[7]*py + m[11]*pz + m[15]
	wInv := 1.0
	if math.Abs(w) > 1e-10 {
		wInv = 1.0 / w
	}
	point.x = (m[0]*px + m[4]*py + m[8]*pz + m[12]) * wInv
	point.y = (m[1]*px + m[5]*py + m[9]*pz + m[13]) * wInv
	point.z = (m[2]*px + m[6]*py + m[10]*pz + m[14]) * wInv
}

// TransformVector transforms a vector in place.
func (x *Xform) TransformVector(v *Vector) {
	m := &x.M
	vx, vy, vz := v.x, v.y, v.z
	v.x = m[0]*vx + m[4]*vy + m[8]*vz
	v.y = m[1]*vx + m[5]*vy + m[9]*vz
	v.z = m[2]*vx + m[6]*vy + m[10]*vz
	v.hasLength = false
}

// XCol returns the first rotation column.
func (x *Xform) XCol() *Vector { return NewVector(x.M[0], x.M[1], x.M[2]) }

// YCol returns the second rotation column.
func (x *Xform) YCol() *Vector { return NewVector(x.M[4], x.M[5], x.M[6]) }

// ZCol returns the third rotation column.
func (x *Xform) ZCol() *Vector { return NewVector(x.M[8], x.M[9], x.M[10]) }

// IsIdentity reports whether the matrix is the identity within 1e-10.
func (x *Xform) IsIdentity() bool {
	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(x.M[i]-identity.M[i]) > 1e-10 {
			return false
		}
	}
	return true
}

// ChangeBasisAlt computes a change of basis between two frames by
// Gauss-Jordan elimination on a 3x6 system, allowing non-orthogonal
// axes. Singular frames fall back to the identity.
func ChangeBasisAlt(origin1 *Point, xAxis1, yAxis1, zAxis1 *Vector, origin0 *Point, xAxis0, yAxis0, zAxis0 *Vector) *Xform {
	a := xAxis1.Dot(yAxis1)
	b := xAxis1.Dot(zAxis1)
	c := yAxis1.Dot(zAxis1)

	r := [3][6]float64{
		{xAxis1.Dot(xAxis1), a, b, xAxis1.Dot(xAxis0), xAxis1.Dot(yAxis0), xAxis1.Dot(zAxis0)},
		{a, yAxis1.Dot(yAxis1), c, yAxis1.Dot(xAxis0), yAxis1.Dot(yAxis0), yAxis1.Dot(zAxis0)},
		{b, c, zAxis1.Dot(zAxis1), zAxis1.Dot(xAxis0), zAxis1.Dot(yAxis0), zAxis1.Dot(zAxis0)},
	}

	i0 := 0
	if r[1][1] > r[0][0] {
		i0 = 1
	}
	if r[2][2] > r[i0][i0] {
		i0 = 2
	}
	i1 := (i0 + 1) % 3
	i2 := (i1 + 1) % 3

	if r[i0][i0] == 0 {
		return Identity()
	}

	d := 1.0 / r[i0][i0]
	for j := 0; j < 6; j++ {
		r[i0][j] *= d
	}
	r[i0][i0] = 1

	if r[i1][i0] != 0 {
		d = -r[i1][i0]
		for j := 0; j < 6; j++ {
			r[i1][j] += d * r[i0][j]
		}
		r[i1][i0] = 0
	}
	if r[i2][i0] != 0 {
		d = -r[i2][i0]
		for j := 0; j < 6; j++ {
			r[i2][j] += d * r[i0][j]
		}
		r[i2][i0] = 0
	}

	if math.Abs(r[i1][i1]) < math.Abs(r[i2][i2]) {
		i1, i2 = i2, i1
	}
	if r[i1][i1] == 0 {
		return Identity()
	}

	d = 1.0 / r[i1][i1]
	for j := 0; j < 6; j++ {
		r[i1][j] *= d
	}
	r[i1][i1] = 1

	if r[i0][i1] != 0 {
		d = -r[i0][i1]
		for j := 0; j < 6; j++ {
			r[i0][j] += d * r[i1][j]
		}
		r[i0][i1] = 0
	}
	if r[i2][i1] != 0 {
		d = -r[i2][i1]
		for j := 0; j < 6; j++ {
			r[i2][j] += d * r[i1][j]
		}
		r[i2][i1] = 0
	}

	if r[i2][i2] == 0 {
		return Identity()
	}

	d = 1.0 / r[i2][i2]
	for j := 0; j < 6; j++ {
		r[i2][j] *= d
	}
	r[i2][i2] = 1

	if r[i0][i2] != 0 {
		d = -r[i0][i2]
		for j := 0; j < 6; j++ {
			r[i0][j] += d * r[i2][j]
		}
		r[i0][i2] = 0
	}
	if r[i1][i2] != 0 {
		d = -r[i1][i2]
		for j := 0; j < 6; j++ {
			r[i1][j] += d * r[i2][j]
		}
		r[i1][i2] = 0
	}

	m := Identity()
	m.M[0], m.M[4], m.M[8] = r[0][3], r[0][4], r[0][5]
	m.M[1], m.M[5], m.M[9] = r[1][3], r[1][4], r[1][5]
	m.M[2], m.M[6], m.M[10] = r[2][3], r[2][4], r[2][5]

	t0 := Translation(-origin1.X(), -origin1.Y(), -origin1.Z())
	t2 := Translation(origin0.X(), origin0.Y(), origin0.Z())
	return t2.Mul(m.Mul(t0))
}

// PlaneToPlane creates a transform mapping frame 0 onto frame 1.
func PlaneToPlane(origin0 *Point, xAxis0, yAxis0, zAxis0 *Vector, origin1 *Point, xAxis1, yAxis1, zAxis1 *Vector) *Xform {
	x0, y0, z0 := xAxis0.Normalize(), yAxis0.Normalize(), zAxis0.Normalize()
	x1, y1, z1 := xAxis1.Normalize(), yAxis1.Normalize(), zAxis1.Normalize()

	t0 := Translation(-origin0.X(), -origin0.Y(), -origin0.Z())

	f0 := Identity()
	f0.M[0], f0.M[1], f0.M[2] = x0.X(), x0.Y(), x0.Z()
	f0.M[4], f0.M[5], f0.M[6] = y0.X(), y0.Y(), y0.Z()
	f0.M[8], f0.M[9], f0.M[10] = z0.X(), z0.Y(), z0.Z()

	f1 := Identity()
	f1.M[0], f1.M[4], f1.M[8] = x1.X(), x1.Y(), x1.Z()
	f1.M[1], f1.M[5], f1.M[9] = y1.X(), y1.Y(), y1.Z()
	f1.M[2], f1.M[6], f1.M[10] = z1.X(), z1.Y(), z1.Z()

	r := f1.Mul(f0)
	t1 := Translation(origin1.X(), origin1.Y(), origin1.Z())
	return t1.Mul(r.Mul(t0))
}

// PlaneToXY creates a transform mapping a frame onto the world XY plane.
func PlaneToXY(origin *Point, xAxis, yAxis, zAxis *Vector) *Xform {
	x, y, z := xAxis.Normalize(), yAxis.Normalize(), zAxis.Normalize()

	t := Translation(-origin.X(), -origin.Y(), -origin.Z())
	f := Identity()
	f.M[0], f.M[1], f.M[2] = x.X(), x.Y(), x.Z()
	f.M[4], f.M[5], f.M[6] = y.X(), y.Y(), y.Z()
	f.M[8], f.M[9], f.M[10] = z.X(), z.Y(), z.Z()
	return f.Mul(t)
}

// XYToPlane creates a transform mapping the world XY plane onto a frame.
func XYToPlane(origin *Point, xAxis, yAxis, zAxis *Vector) *Xform {
	x, y, z := xAxis.Normalize(), yAxis.Normalize(), zAxis.Normalize()

	f := Identity()
	f.M[0], f.M[4], f.M[8] = x.X(), y.X(), z.X()
	f.M[1], f.M[5], f.M[9] = x.Y(), y.Y(), z.Y()
	f.M[2], f.M[6], f.M[10] = x.Z(), y.Z(), z.Z()

	t := Translation(origin.X(), origin.Y(), origin.Z())
	return t.Mul(f)
}

// ScaleUniform creates a uniform scaling about origin.
func ScaleUniform(origin *Point, scale float64) *Xform {
	t0 := Translation(-origin.X(), -origin.Y(), -origin.Z())
	t1 := Scaling(scale, scale, scale)
	t2 := Translation(origin.X(), origin.Y(), origin.Z())
	return t2.Mul(t1.Mul(t0))
}

// ScaleNonUniform creates a per-axis scaling about origin.
func ScaleNonUniform(origin *Point, scaleX, scaleY, scaleZ float64) *Xform {
	t0 := Translation(-origin.X(), -origin.Y(), -origin.Z())
	t1 := ScaleXYZ(scaleX, scaleY, scaleZ)
	t2 := Translation(origin.X(), origin.Y(), origin.Z())
	return t2.Mul(t1.Mul(t0))
}

// Mul returns x * rhs.
func (x *Xform) Mul(rhs *Xform) *Xform {
	result := Identity()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += x.At(i, k) * rhs.At(k, j)
			}
			result.Set(i, j, sum)
		}
	}
	return result
}

// Clone returns a copy preserving guid and name.
func (x *Xform) Clone() *Xform {
	c := *x
	return &c
}

func (x *Xform) String() string {
	var sb strings.Builder
	sb.WriteString("Transform Matrix:\n")
	fmt.Fprintf(&sb, "[%.4f, %.4f, %.4f, %.4f]\n", x.M[0], x.M[4], x.M[8], x.M[12])
	fmt.Fprintf(&sb, "[%.4f, %.4f, %.4f, %.4f]\n", x.M[1], x.M[5], x.M[9], x.M[13])
	fmt.Fprintf(&sb, "[%.4f, %.4f, %.4f, %.4f]\n", x.M[2], x.M[6], x.M[10], x.M[14])
	fmt.Fprintf(&sb, "[%.4f, %.4f, %.4f, %.4f]", x.M[3], x.M[7], x.M[11], x.M[15])
	return sb.String()
}

type xformJSON struct {
	Type string      `json:"type"`
	GUID string      `json:"guid"`
	Name string      `json:"name"`
	M    [16]float64 `json:"m"`
}

// MarshalJSON implements json.Marshaler.
func (x Xform) MarshalJSON() ([]byte, error) {
	return json.Marshal(xformJSON{
		Type: "Xform",
		GUID: x.GUID,
		Name: x.Name,
		M:    x.M,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (x *Xform) UnmarshalJSON(data []byte) error {
	var raw xformJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	x.GUID = raw.GUID
	x.Name = raw.Name
	x.M = raw.M
	return nil
}
