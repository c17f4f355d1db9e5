package group

import (
	"io"
)

// Scalar represents an element of the scalar field associated with a
// cryptographic group. Scalars are integers modulo the group order and
// are used as exponents in scalar multiplication.
//
// All arithmetic methods use a mutable receiver pattern: they modify
// the receiver, store the result in it, and return it. Mixing scalars
// from different groups panics.
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Zero sets the receiver to zero, overwriting its previous value.
	Zero()
	// Bytes returns the canonical fixed-length encoding of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from its canonical encoding and returns it.
	// Returns an error if the data has the wrong length or is not reduced.
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point represents an element of a prime-order cryptographic group,
// typically a point on an elliptic curve.
//
// Like [Scalar], all arithmetic methods use a mutable receiver pattern.
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the canonical fixed-length encoding of the point.
	Bytes() []byte
	// SetBytes sets the receiver from its canonical encoding and returns it.
	// Returns an error if the data is not a valid element of the
	// prime-order subgroup.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group is a factory for the scalars and points of one curve, together
// with the curve's base point and encoding sizes.
//
// Example usage:
//
//	g := ed25519.New()
//	scalar, _ := g.RandomScalar(rand.Reader)
//	point := g.NewPoint().ScalarMult(scalar, g.Generator())
type Group interface {
	// Name returns a short, stable identifier for the curve.
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// ScalarFromUint64 returns the scalar with integer value v.
	ScalarFromUint64(v uint64) Scalar
	// RandomScalar returns a uniformly random scalar read from r.
	RandomScalar(r io.Reader) (Scalar, error)
	// HashToScalar hashes the input data to a scalar.
	HashToScalar(data ...[]byte) (Scalar, error)
	// ScalarLen is the length of [Scalar.Bytes].
	ScalarLen() int
	// PointLen is the length of [Point.Bytes].
	PointLen() int
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
}

// BaseMult returns s*G for the group's generator G.
func BaseMult(g Group, s Scalar) Point {
	return g.NewPoint().ScalarMult(s, g.Generator())
}
