// Package geo provides 3D geometry primitives: vectors, points, lines,
// planes, polylines, point clouds, oriented bounding boxes, quaternions
// and 4x4 transforms, together with tolerance-aware comparisons and a
// "type"-tagged JSON interop format shared by every object.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mathematical constants.
const (
	ToDegrees = 180.0 / math.Pi
	ToRadians = math.Pi / 180.0
)

// Scale factor used for coordinate hashing and equality.
const Scale = 1e6

// Default tolerance values.
const (
	Absolute            = 1e-9
	Relative            = 1e-6
	Angular             = 1e-6
	Approximation       = 1e-3
	Precision           = 3
	LinearDeflection    = 1e-3
	AngularDeflection   = 1e-1
	AngleToleranceDeg   = 0.11
	ZeroTolerance       = 1e-12
)

// Tolerance holds tolerance settings for geometric operations.
// Unset fields fall back to the package defaults.
type Tolerance struct {
	Unit string `json:"unit"`

	absolute          *float64
	relative          *float64
	angular           *float64
	approximation     *float64
	precision         *int
	linearDeflection  *float64
	angularDeflection *float64
}

// NewTolerance creates a Tolerance for the given unit with all values
// at their defaults.
func NewTolerance(unit string) *Tolerance {
	return &Tolerance{Unit: unit}
}

// TOL is the package-wide default tolerance.
var TOL = NewTolerance("M")

// Reset clears all overrides back to the defaults.
func (t *Tolerance) Reset() {
	t.absolute = nil
	t.relative = nil
	t.angular = nil
	t.approximation = nil
	t.precision = nil
	t.linearDeflection = nil
	t.angularDeflection = nil
}

// Absolute returns the absolute tolerance.
func (t *Tolerance) Absolute() float64 {
	if t.absolute != nil {
		return *t.absolute
	}
	return Absolute
}

// SetAbsolute overrides the absolute tolerance.
func (t *Tolerance) SetAbsolute(v float64) { t.absolute = &v }

// Relative returns the relative tolerance.
func (t *Tolerance) Relative() float64 {
	if t.relative != nil {
		return *t.relative
	}
	return Relative
}

// SetRelative overrides the relative tolerance.
func (t *Tolerance) SetRelative(v float64) { t.relative = &v }

// Angular returns the angular tolerance.
func (t *Tolerance) Angular() float64 {
	if t.angular != nil {
		return *t.angular
	}
	return Angular
}

// SetAngular overrides the angular tolerance.
func (t *Tolerance) SetAngular(v float64) { t.angular = &v }

// Approximation returns the approximation tolerance.
func (t *Tolerance) Approximation() float64 {
	if t.approximation != nil {
		return *t.approximation
	}
	return Approximation
}

// SetApproximation overrides the approximation tolerance.
func (t *Tolerance) SetApproximation(v float64) { t.approximation = &v }

// Precision returns the display precision in decimal places.
func (t *Tolerance) Precision() int {
	if t.precision != nil {
		return *t.precision
	}
	return Precision
}

// SetPrecision overrides the display precision.
func (t *Tolerance) SetPrecision(v int) { t.precision = &v }

// LinearDeflection returns the linear deflection tolerance.
func (t *Tolerance) LinearDeflection() float64 {
	if t.linearDeflection != nil {
		return *t.linearDeflection
	}
	return LinearDeflection
}

// SetLinearDeflection overrides the linear deflection tolerance.
func (t *Tolerance) SetLinearDeflection(v float64) { t.linearDeflection = &v }

// AngularDeflection returns the angular deflection tolerance.
func (t *Tolerance) AngularDeflection() float64 {
	if t.angularDeflection != nil {
		return *t.angularDeflection
	}
	return AngularDeflection
}

// SetAngularDeflection overrides the angular deflection tolerance.
func (t *Tolerance) SetAngularDeflection(v float64) { t.angularDeflection = &v }

// ToleranceFor returns the combined tolerance rtol*|trueValue| + atol.
func (t *Tolerance) ToleranceFor(trueValue, rtol, atol float64) float64 {
	return rtol*math.Abs(trueValue) + atol
}

// Compare reports whether a and b are equal within rtol and atol,
// with b treated as the true value.
func (t *Tolerance) Compare(a, b, rtol, atol float64) bool {
	return math.Abs(a-b) <= t.ToleranceFor(b, rtol, atol)
}

// IsZero reports whether a is zero within tol (absolute default).
func (t *Tolerance) IsZero(a, tol float64) bool {
	return math.Abs(a) <= tol
}

// IsZeroDefault reports whether a is zero within the absolute tolerance.
func (t *Tolerance) IsZeroDefault(a float64) bool {
	return t.IsZero(a, t.Absolute())
}

// IsPositive reports whether a is positive beyond tol.
func (t *Tolerance) IsPositive(a, tol float64) bool {
	return a > tol
}

// IsNegative reports whether a is negative beyond tol.
func (t *Tolerance) IsNegative(a, tol float64) bool {
	return a < -tol
}

// IsBetween reports whether value lies in [minVal, maxVal] padded by atol.
func (t *Tolerance) IsBetween(value, minVal, maxVal, atol float64) bool {
	return minVal-atol <= value && value <= maxVal+atol
}

// IsClose reports whether a and b are close using the default rtol/atol.
func (t *Tolerance) IsClose(a, b float64) bool {
	return t.Compare(a, b, t.Relative(), t.Absolute())
}

// IsAllClose reports whether every paired element of a and b is close.
func (t *Tolerance) IsAllClose(a, b []float64) bool {
	for i := range a {
		if i >= len(b) || !t.Compare(a[i], b[i], t.Relative(), t.Absolute()) {
			return false
		}
	}
	return true
}

// IsAngleZero reports whether angle a is zero within the angular tolerance.
func (t *Tolerance) IsAngleZero(a float64) bool {
	return math.Abs(a) <= t.Angular()
}

// IsAnglesClose reports whether angles a and b agree within the angular
// tolerance.
func (t *Tolerance) IsAnglesClose(a, b float64) bool {
	return math.Abs(a-b) <= t.Angular()
}

// GeometricKey returns a hashable string key for xyz at the given
// precision. Precision -1 truncates to integers; precisions below -1
// round to the nearest power of ten; otherwise fixed decimals are used
// and negative zero normalizes to zero.
func (t *Tolerance) GeometricKey(x, y, z float64, precision int) string {
	if precision == -1 {
		return fmt.Sprintf("%d,%d,%d", int64(x), int64(y), int64(z))
	}
	if precision < -1 {
		factor := math.Pow(10, float64(-precision-1))
		return fmt.Sprintf("%d,%d,%d",
			int64(math.Round(x/factor)*factor),
			int64(math.Round(y/factor)*factor),
			int64(math.Round(z/factor)*factor))
	}
	return strings.Join([]string{
		fixNegZero(x, precision),
		fixNegZero(y, precision),
		fixNegZero(z, precision),
	}, ",")
}

// GeometricKeyXY is GeometricKey restricted to the XY plane.
func (t *Tolerance) GeometricKeyXY(x, y float64, precision int) string {
	if precision == -1 {
		return fmt.Sprintf("%d,%d", int64(x), int64(y))
	}
	if precision < -1 {
		factor := math.Pow(10, float64(-precision-1))
		return fmt.Sprintf("%d,%d",
			int64(math.Round(x/factor)*factor),
			int64(math.Round(y/factor)*factor))
	}
	return fixNegZero(x, precision) + "," + fixNegZero(y, precision)
}

// FormatNumber formats a number at the given precision. Negative
// precision rounds to whole numbers: -1 to the nearest integer, below
// that by the matching power of ten. Unlike GeometricKey it does not
// normalize negative zero.
func (t *Tolerance) FormatNumber(number float64, precision int) string {
	if precision == -1 {
		return strconv.FormatInt(int64(math.Round(number)), 10)
	}
	if precision < -1 {
		factor := math.Pow(10, float64(-precision-1))
		return strconv.FormatInt(int64(math.Round(number/factor)*factor), 10)
	}
	return strconv.FormatFloat(number, 'f', precision, 64)
}

// PrecisionFromTolerance derives a decimal precision from a tolerance
// value, e.g. 1e-3 yields 3. Tolerances of 1.0 and above yield 0.
func (t *Tolerance) PrecisionFromTolerance(tol float64) int {
	if tol < 1.0 {
		s := strconv.FormatFloat(tol, 'e', -1, 64)
		if i := strings.Index(s, "e-"); i >= 0 {
			if exp, err := strconv.Atoi(s[i+2:]); err == nil {
				return exp
			}
		}
	}
	return 0
}

func fixNegZero(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if s == "-"+strconv.FormatFloat(0, 'f', precision, 64) {
		return strconv.FormatFloat(0, 'f', precision, 64)
	}
	return s
}
