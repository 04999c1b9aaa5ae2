package geo

import (
	"encoding/json"
	"math"

	"github.com/google/uuid"
)

// Quaternion represents a rotation as a scalar part and a vector part.
type Quaternion struct {
	GUID string
	Name string
	S    float64
	V    *Vector
}

// NewQuaternion creates a quaternion from a scalar part and a vector
// part.
func NewQuaternion(s float64, v *Vector) *Quaternion {
	return &Quaternion{
		GUID: uuid.New().String(),
		Name: "my_quaternion",
		S:    s,
		V:    v,
	}
}

// QuaternionFromSV creates a quaternion from scalar and component
// values.
func QuaternionFromSV(s, x, y, z float64) *Quaternion {
	return NewQuaternion(s, NewVector(x, y, z))
}

// IdentityQuaternion creates the identity rotation.
func IdentityQuaternion() *Quaternion {
	return NewQuaternion(1.0, NewVector(0, 0, 0))
}

// QuaternionFromAxisAngle creates a rotation of angle radians about
// axis, normalizing the axis first.
func QuaternionFromAxisAngle(axis *Vector, angle float64) *Quaternion {
	a := axis.Normalize()
	half := angle * 0.5
	return NewQuaternion(math.Cos(half), a.Mul(math.Sin(half)))
}

// RotateVector rotates v by the quaternion.
func (q *Quaternion) RotateVector(v *Vector) *Vector {
	uv := q.V.Cross(v)
	uuv := q.V.Cross(uv)
	return v.Add(uv.Mul(q.S).Add(uuv).Mul(2.0))
}

// Magnitude returns the quaternion norm.
func (q *Quaternion) Magnitude() float64 {
	return math.Sqrt(q.S*q.S + q.V.X()*q.V.X() + q.V.Y()*q.V.Y() + q.V.Z()*q.V.Z())
}

// Normalize returns a unit quaternion, or the identity when the norm is
// below 1e-10.
func (q *Quaternion) Normalize() *Quaternion {
	mag := q.Magnitude()
	if mag > 1e-10 {
		return &Quaternion{
			GUID: q.GUID,
			Name: q.Name,
			S:    q.S / mag,
			V:    q.V.Div(mag),
		}
	}
	return IdentityQuaternion()
}

// Conjugate returns the conjugate quaternion.
func (q *Quaternion) Conjugate() *Quaternion {
	return &Quaternion{
		GUID: q.GUID,
		Name: q.Name,
		S:    q.S,
		V:    q.V.Mul(-1.0),
	}
}

// Mul returns the Hamilton product q * rhs.
func (q *Quaternion) Mul(rhs *Quaternion) *Quaternion {
	s := q.S*rhs.S - q.V.Dot(rhs.V)
	v := rhs.V.Mul(q.S).Add(q.V.Mul(rhs.S)).Add(q.V.Cross(rhs.V))
	return NewQuaternion(s, v)
}

// Clone returns a copy preserving guid and name.
func (q *Quaternion) Clone() *Quaternion {
	return &Quaternion{GUID: q.GUID, Name: q.Name, S: q.S, V: q.V.Clone()}
}

type quaternionJSON struct {
	Type string  `json:"type"`
	GUID string  `json:"guid"`
	Name string  `json:"name"`
	S    float64 `json:"s"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Z    float64 `json:"z"`
}

// MarshalJSON flattens the vector part into x, y, z fields.
func (q Quaternion) MarshalJSON() ([]byte, error) {
	return json.Marshal(quaternionJSON{
		Type: "Quaternion",
		GUID: q.GUID,
		Name: q.Name,
		S:    q.S,
		X:    q.V.X(),
		Y:    q.V.Y(),
		Z:    q.V.Z(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quaternion) UnmarshalJSON(data []byte) error {
	var raw quaternionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.GUID = raw.GUID
	q.Name = raw.Name
	q.S = raw.S
	q.V = NewVector(raw.X, raw.Y, raw.Z)
	return nil
}
