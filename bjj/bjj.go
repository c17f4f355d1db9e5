package bjj

import (
	"errors"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/tkg/group"
)

const (
	scalarLen = 32
	pointLen  = 32
)

// curveOrder is the Baby Jubjub subgroup order.
// This is distinct from the BN254 scalar field order (Fr).
var curveOrder *big.Int

func init() {
	curve := twistededwards.GetEdwardsCurve()
	curveOrder = new(big.Int).Set(&curve.Order)
}

var (
	errScalarEncoding = errors.New("bjj: invalid scalar encoding")
	errPointEncoding  = errors.New("bjj: invalid point encoding")
	errSmallOrder     = errors.New("bjj: point not in prime-order subgroup")
)

// Scalar represents an element of the Baby Jubjub scalar field.
// It implements [group.Scalar] using big.Int with modular arithmetic
// over the curve's subgroup order.
type Scalar struct {
	inner *big.Int
}

func newScalar() *Scalar {
	return &Scalar{inner: new(big.Int)}
}

// reduce ensures the scalar is in the range [0, curveOrder).
func (s *Scalar) reduce() {
	s.inner.Mod(s.inner, curveOrder)
}

// Add sets s to a + b (mod curveOrder) and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Sub sets s to a - b (mod curveOrder) and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Sub(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Mul sets s to a * b (mod curveOrder) and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul(a.(*Scalar).inner, b.(*Scalar).inner)
	s.reduce()
	return s
}

// Negate sets s to -a (mod curveOrder) and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Neg(a.(*Scalar).inner)
	s.reduce()
	return s
}

// Invert sets s to a^(-1) (mod curveOrder) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	aScalar := a.(*Scalar)
	if aScalar.IsZero() {
		return nil, errors.New("bjj: cannot invert zero scalar")
	}
	s.inner.ModInverse(aScalar.inner, curveOrder)
	return s, nil
}

// Set copies the value of a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(a.(*Scalar).inner)
	return s
}

// Zero overwrites the limbs backing s and sets it to zero.
func (s *Scalar) Zero() {
	words := s.inner.Bits()
	for i := range words {
		words[i] = 0
	}
	s.inner.SetInt64(0)
}

// Bytes returns the scalar as a 32-byte big-endian representation.
func (s *Scalar) Bytes() []byte {
	out := make([]byte, scalarLen)
	s.inner.FillBytes(out)
	return out
}

// SetBytes sets s from a 32-byte big-endian encoding. Values not below
// the curve order are rejected.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarLen {
		return nil, errScalarEncoding
	}
	v := new(big.Int).SetBytes(data)
	if v.Cmp(curveOrder) >= 0 {
		return nil, errScalarEncoding
	}
	s.inner.Set(v)
	return s, nil
}

// Equal reports whether s and b represent the same scalar value.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Cmp(b.(*Scalar).inner) == 0
}

// IsZero reports whether s is the zero scalar.
func (s *Scalar) IsZero() bool {
	return s.inner.Sign() == 0
}

// Point represents a point on the Baby Jubjub curve.
// It implements [group.Point] by wrapping gnark-crypto's PointAffine.
//
// The identity element is (0, 1).
type Point struct {
	inner twistededwards.PointAffine
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB twistededwards.PointAffine
	negB.Neg(&b.(*Point).inner)
	p.inner.Add(&a.(*Point).inner, &negB)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*Point).inner, s.(*Scalar).inner)
	return p
}

// Set copies the value of a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed point encoding.
func (p *Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes sets p from a compressed point encoding and returns p.
// Points outside the prime-order subgroup are rejected.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, errPointEncoding
	}
	var decoded twistededwards.PointAffine
	if err := decoded.Unmarshal(data); err != nil {
		return nil, errPointEncoding
	}
	if !decoded.IsOnCurve() {
		return nil, errPointEncoding
	}
	var check twistededwards.PointAffine
	check.ScalarMultiplication(&decoded, curveOrder)
	if !check.IsZero() {
		return nil, errSmallOrder
	}
	p.inner.Set(&decoded)
	return p, nil
}

// Equal reports whether p and b represent the same curve point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner)
}

// IsIdentity reports whether p is the identity element (0, 1).
func (p *Point) IsIdentity() bool {
	return p.inner.IsZero()
}

// BJJ implements [group.Group] for the Baby Jubjub curve.
//
// BJJ is a zero-sized type. Create an instance with New, &BJJ{} or new(BJJ).
type BJJ struct{}

// New returns the Baby Jubjub group.
func New() *BJJ {
	return &BJJ{}
}

// Name returns "babyjubjub".
func (g *BJJ) Name() string {
	return "babyjubjub"
}

// NewScalar returns a new scalar initialized to zero.
func (g *BJJ) NewScalar() group.Scalar {
	return newScalar()
}

// NewPoint returns a new point initialized to the identity element (0, 1).
func (g *BJJ) NewPoint() group.Point {
	var p Point
	p.inner.X.SetZero()
	p.inner.Y.SetOne()
	return &p
}

// Generator returns the standard base point for the Baby Jubjub curve.
func (g *BJJ) Generator() group.Point {
	var p Point
	p.inner = twistededwards.GetEdwardsCurve().Base
	return &p
}

// ScalarFromUint64 returns v reduced modulo the curve order.
func (g *BJJ) ScalarFromUint64(v uint64) group.Scalar {
	s := newScalar()
	s.inner.SetUint64(v)
	s.reduce()
	return s
}

// RandomScalar reads 64 bytes from r and reduces them modulo the curve
// order, which keeps the bias negligible.
func (g *BJJ) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := newScalar()
	s.inner.SetBytes(buf[:])
	s.reduce()
	for i := range buf {
		buf[i] = 0
	}
	return s, nil
}

// HashToScalar hashes the provided data with Blake2b-512 and reduces the
// digest modulo the curve order.
func (g *BJJ) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		h.Write(d)
	}
	s := newScalar()
	s.inner.SetBytes(h.Sum(nil))
	s.reduce()
	return s, nil
}

// ScalarLen returns 32.
func (g *BJJ) ScalarLen() int {
	return scalarLen
}

// PointLen returns 32.
func (g *BJJ) PointLen() int {
	return pointLen
}

// Order returns the order of the Baby Jubjub curve's prime-order subgroup
// as a big-endian byte slice.
func (g *BJJ) Order() []byte {
	return curveOrder.Bytes()
}
