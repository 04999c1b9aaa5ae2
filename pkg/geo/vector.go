package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Vector is a 3D vector with identity fields and a cached length.
// Coordinate setters invalidate the cache.
type Vector struct {
	GUID string
	Name string

	x, y, z   float64
	length    float64
	hasLength bool
}

// NewVector creates a Vector with the given coordinates.
func NewVector(x, y, z float64) *Vector {
	return &Vector{
		GUID: uuid.New().String(),
		Name: "my_vector",
		x:    x,
		y:    y,
		z:    z,
	}
}

// ZeroVector creates a zero vector.
func ZeroVector() *Vector { return NewVector(0, 0, 0) }

// XAxis creates the unit vector (1, 0, 0).
func XAxis() *Vector { return NewVector(1, 0, 0) }

// YAxis creates the unit vector (0, 1, 0).
func YAxis() *Vector { return NewVector(0, 1, 0) }

// ZAxis creates the unit vector (0, 0, 1).
func ZAxis() *Vector { return NewVector(0, 0, 1) }

// VectorFromStartAndEnd creates the vector end - start.
func VectorFromStartAndEnd(start, end *Vector) *Vector {
	return NewVector(end.x-start.x, end.y-start.y, end.z-start.z)
}

// X returns the x coordinate.
func (v *Vector) X() float64 { return v.x }

// Y returns the y coordinate.
func (v *Vector) Y() float64 { return v.y }

// Z returns the z coordinate.
func (v *Vector) Z() float64 { return v.z }

// SetX sets the x coordinate and invalidates the cached length.
func (v *Vector) SetX(x float64) { v.x = x; v.hasLength = false }

// SetY sets the y coordinate and invalidates the cached length.
func (v *Vector) SetY(y float64) { v.y = y; v.hasLength = false }

// SetZ sets the z coordinate and invalidates the cached length.
func (v *Vector) SetZ(z float64) { v.z = z; v.hasLength = false }

// At returns the coordinate at index 0, 1 or 2.
func (v *Vector) At(i int) float64 {
	switch i {
	case 0:
		return v.x
	case 1:
		return v.y
	case 2:
		return v.z
	}
	panic("geo: vector index out of bounds")
}

// ComputeLength computes the vector magnitude without caching.
func (v *Vector) ComputeLength() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
}

// Magnitude returns the cached magnitude, recomputing it only after a
// coordinate change.
func (v *Vector) Magnitude() float64 {
	if !v.hasLength {
		v.length = v.ComputeLength()
		v.hasLength = true
	}
	return v.length
}

// LengthSquared returns the squared length, avoiding the sqrt.
func (v *Vector) LengthSquared() float64 {
	return v.x*v.x + v.y*v.y + v.z*v.z
}

// NormalizeSelf normalizes the vector in place. Vectors shorter than
// the zero tolerance are left unchanged.
func (v *Vector) NormalizeSelf() {
	length := v.Magnitude()
	if length > ZeroTolerance {
		v.x /= length
		v.y /= length
		v.z /= length
		v.hasLength = false
	}
}

// Normalize returns a normalized copy.
func (v *Vector) Normalize() *Vector {
	result := v.Clone()
	result.NormalizeSelf()
	return result
}

// Reverse flips the vector direction in place. The cached length stays
// valid.
func (v *Vector) Reverse() {
	v.x = -v.x
	v.y = -v.y
	v.z = -v.z
}

// Scale multiplies the vector by factor in place.
func (v *Vector) Scale(factor float64) {
	v.x *= factor
	v.y *= factor
	v.z *= factor
	v.hasLength = false
}

// ScaleUp scales by the global Scale factor.
func (v *Vector) ScaleUp() { v.Scale(Scale) }

// ScaleDown scales by the inverse of the global Scale factor.
func (v *Vector) ScaleDown() { v.Scale(1.0 / Scale) }

// Dot returns the dot product with other.
func (v *Vector) Dot(other *Vector) float64 {
	return v.x*other.x + v.y*other.y + v.z*other.z
}

// Cross returns the cross product with other.
func (v *Vector) Cross(other *Vector) *Vector {
	return NewVector(
		v.y*other.z-v.z*other.y,
		v.z*other.x-v.x*other.z,
		v.x*other.y-v.y*other.x,
	)
}

// Angle returns the angle to other in degrees. With signByCross the
// sign follows the z component of the cross product.
func (v *Vector) Angle(other *Vector, signByCross bool) float64 {
	dotp := v.Dot(other)
	lenProduct := v.ComputeLength() * other.ComputeLength()
	if lenProduct < ZeroTolerance {
		return 0
	}

	cosAngle := clamp(dotp/lenProduct, -1, 1)
	angle := math.Acos(cosAngle) * ToDegrees

	if signByCross {
		if cp := v.Cross(other); cp.z < 0 {
			angle = -angle
		}
	}
	return angle
}

// Projection projects v onto onto and returns the projection vector,
// the scalar projection, the perpendicular component and its length.
func (v *Vector) Projection(onto *Vector) (*Vector, float64, *Vector, float64) {
	return v.ProjectionWith(onto, ZeroTolerance)
}

// ProjectionWith is Projection with an explicit tolerance on the squared
// length of onto.
func (v *Vector) ProjectionWith(onto *Vector, tolerance float64) (*Vector, float64, *Vector, float64) {
	ontoLenSq := onto.LengthSquared()
	if ontoLenSq < tolerance {
		return ZeroVector(), 0, ZeroVector(), 0
	}

	ontoLen := math.Sqrt(ontoLenSq)
	ontoUnit := NewVector(onto.x/ontoLen, onto.y/ontoLen, onto.z/ontoLen)

	projectedLen := v.Dot(ontoUnit)
	projection := NewVector(
		ontoUnit.x*projectedLen,
		ontoUnit.y*projectedLen,
		ontoUnit.z*projectedLen,
	)

	perp := NewVector(v.x-projection.x, v.y-projection.y, v.z-projection.z)
	return projection, projectedLen, perp, perp.ComputeLength()
}

// IsParallelTo reports 1 for parallel, -1 for antiparallel and 0 for
// neither, using the angular tolerance in degrees.
func (v *Vector) IsParallelTo(other *Vector) int {
	lenProduct := v.ComputeLength() * other.ComputeLength()
	if lenProduct <= 0 {
		return 0
	}

	cosAngle := v.Dot(other) / lenProduct
	cosTolerance := math.Cos(AngleToleranceDeg * ToRadians)

	switch {
	case cosAngle >= cosTolerance:
		return 1
	case cosAngle <= -cosTolerance:
		return -1
	default:
		return 0
	}
}

// LeveledTo returns a copy of the unit vector scaled so its vertical
// rise equals verticalHeight. The angle to the z axis is measured in
// degrees and fed to cos unchanged, replicating the statics sheet this
// routine was transcribed from.
func (v *Vector) LeveledTo(verticalHeight float64) *Vector {
	result := v.Clone()
	result.NormalizeSelf()

	if verticalHeight != 0 {
		angle := result.Angle(ZAxis(), true)
		inclinedOffset := verticalHeight / math.Cos(angle)
		result.Scale(inclinedOffset)
	}
	return result
}

// PerpendicularTo sets v to a vector perpendicular to other, choosing
// the component pair by magnitude ordering. Returns false when other is
// degenerate along the chosen pair.
func (v *Vector) PerpendicularTo(other *Vector) bool {
	var i, j, k int
	var a, b float64

	ax, ay, az := math.Abs(other.x), math.Abs(other.y), math.Abs(other.z)
	switch {
	case ay > ax && az > ay:
		i, j, k = 2, 1, 0
		a, b = other.z, -other.y
	case ay > ax && az >= ax:
		i, j, k = 1, 2, 0
		a, b = other.y, -other.z
	case ay > ax:
		i, j, k = 1, 0, 2
		a, b = other.y, -other.x
	case az > ax:
		i, j, k = 2, 0, 1
		a, b = other.z, -other.x
	case az > ay:
		i, j, k = 0, 2, 1
		a, b = other.x, -other.z
	default:
		i, j, k = 0, 1, 2
		a, b = other.x, -other.y
	}

	var coords [3]float64
	coords[i] = b
	coords[j] = a
	coords[k] = 0

	v.x, v.y, v.z = coords[0], coords[1], coords[2]
	v.hasLength = false
	return a != 0
}

// Add returns v + other.
func (v *Vector) Add(other *Vector) *Vector {
	return NewVector(v.x+other.x, v.y+other.y, v.z+other.z)
}

// Sub returns v - other.
func (v *Vector) Sub(other *Vector) *Vector {
	return NewVector(v.x-other.x, v.y-other.y, v.z-other.z)
}

// Mul returns v scaled by scalar.
func (v *Vector) Mul(scalar float64) *Vector {
	return NewVector(v.x*scalar, v.y*scalar, v.z*scalar)
}

// Div returns v divided by scalar.
func (v *Vector) Div(scalar float64) *Vector {
	return NewVector(v.x/scalar, v.y/scalar, v.z/scalar)
}

// Neg returns the negated vector.
func (v *Vector) Neg() *Vector {
	return NewVector(-v.x, -v.y, -v.z)
}

// Clone returns a copy preserving guid and name.
func (v *Vector) Clone() *Vector {
	c := *v
	return &c
}

// CosineLaw computes the third triangle edge from two edges and the
// angle between them.
func CosineLaw(edgeA, edgeB, angleBetween float64, degrees bool) float64 {
	angle := angleBetween
	if degrees {
		angle *= ToRadians
	}
	return math.Sqrt(edgeA*edgeA + edgeB*edgeB - 2*edgeA*edgeB*math.Cos(angle))
}

// SineLawAngle computes the angle opposite edgeB given edgeA and its
// opposite angle.
func SineLawAngle(edgeA, angleA, edgeB float64, degrees bool) float64 {
	a := angleA
	if degrees {
		a *= ToRadians
	}
	angleB := math.Asin(edgeB * math.Sin(a) / edgeA)
	if degrees {
		return angleB * ToDegrees
	}
	return angleB
}

// SineLawLength computes the edge opposite angleB given edgeA and its
// opposite angle.
func SineLawLength(edgeA, angleA, angleB float64, degrees bool) float64 {
	a, b := angleA, angleB
	if degrees {
		a *= ToRadians
		b *= ToRadians
	}
	return edgeA * math.Sin(b) / math.Sin(a)
}

// AngleBetweenVectorXYComponents returns atan2(y, x) in degrees.
func AngleBetweenVectorXYComponents(v *Vector) float64 {
	return math.Atan2(v.y, v.x) * ToDegrees
}

// SumOfVectors sums a collection of vectors.
func SumOfVectors(vectors []*Vector) *Vector {
	result := ZeroVector()
	for _, v := range vectors {
		result.x += v.x
		result.y += v.y
		result.z += v.z
	}
	return result
}

// CoordinateDirection3Angles returns the direction angles alpha, beta,
// gamma against the coordinate axes.
func (v *Vector) CoordinateDirection3Angles(degrees bool) [3]float64 {
	length := v.ComputeLength()
	if length < ZeroTolerance {
		return [3]float64{}
	}

	alpha := math.Acos(v.x / length)
	beta := math.Acos(v.y / length)
	gamma := math.Acos(v.z / length)

	if degrees {
		return [3]float64{alpha * ToDegrees, beta * ToDegrees, gamma * ToDegrees}
	}
	return [3]float64{alpha, beta, gamma}
}

// CoordinateDirection2Angles returns the azimuth phi and polar theta
// angles of the vector.
func (v *Vector) CoordinateDirection2Angles(degrees bool) [2]float64 {
	lengthXY := math.Sqrt(v.x*v.x + v.y*v.y)
	length := v.ComputeLength()
	if length < ZeroTolerance {
		return [2]float64{}
	}

	phi := math.Atan2(v.y, v.x)
	theta := math.Atan2(lengthXY, v.z)

	if degrees {
		return [2]float64{phi * ToDegrees, theta * ToDegrees}
	}
	return [2]float64{phi, theta}
}

func (v *Vector) String() string {
	return fmt.Sprintf("Vector(%v, %v, %v, %s, %s)", v.x, v.y, v.z, v.GUID, v.Name)
}

type vectorJSON struct {
	Type string  `json:"type"`
	GUID string  `json:"guid"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// MarshalJSON implements json.Marshaler.
func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal(vectorJSON{
		Type: "Vector",
		GUID: v.GUID,
		Name: v.Name,
		X:    v.x,
		Y:    v.y,
		Z:    v.z,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw vectorJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.GUID = raw.GUID
	v.Name = raw.Name
	v.x, v.y, v.z = raw.X, raw.Y, raw.Z
	v.hasLength = false
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
