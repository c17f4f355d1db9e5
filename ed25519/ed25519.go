package ed25519

import (
	"bytes"
	"errors"
	"io"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/tkg/group"
)

const (
	scalarLen = 32
	pointLen  = 32
)

// order is l = 2^252 + 27742317777372353535851937790883648493, big-endian.
var order = []byte{
	0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x14, 0xde, 0xf9, 0xde, 0xa2, 0xf7, 0x9c, 0xd6,
	0x58, 0x12, 0x63, 0x1a, 0x5c, 0xf5, 0xd3, 0xed,
}

var (
	errScalarEncoding = errors.New("ed25519: invalid scalar encoding")
	errPointEncoding  = errors.New("ed25519: invalid point encoding")
	errTorsion        = errors.New("ed25519: point has a torsion component")
)

// Scalar wraps an edwards25519 scalar modulo l. Encodings are 32 bytes,
// little-endian, as in RFC 8032.
type Scalar struct {
	inner edwards25519.Scalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.inner.Subtract(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Multiply(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.Negate(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errors.New("ed25519: cannot invert zero scalar")
	}
	s.inner.Invert(&a.(*Scalar).inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// Zero sets s to zero.
func (s *Scalar) Zero() {
	s.inner = edwards25519.Scalar{}
}

// Bytes returns the canonical 32-byte little-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.inner.Bytes()
}

// SetBytes decodes a canonical 32-byte little-endian scalar.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if _, err := s.inner.SetCanonicalBytes(data); err != nil {
		return nil, errScalarEncoding
	}
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equal(&b.(*Scalar).inner) == 1
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.Equal(edwards25519.NewScalar()) == 1
}

// Point wraps an edwards25519 group element.
type Point struct {
	inner edwards25519.Point
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	p.inner.Subtract(&a.(*Point).inner, &b.(*Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	p.inner.Negate(&a.(*Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMult(&s.(*Scalar).inner, &q.(*Point).inner)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 32-byte compressed encoding of p.
func (p *Point) Bytes() []byte {
	return p.inner.Bytes()
}

// SetBytes decodes a canonical compressed point. Encodings with y >= p and
// points with a torsion component are rejected, so every accepted point lies
// in the prime-order subgroup and has exactly one encoding.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	var decoded edwards25519.Point
	if _, err := decoded.SetBytes(data); err != nil {
		return nil, errPointEncoding
	}
	if !bytes.Equal(decoded.Bytes(), data) {
		return nil, errPointEncoding
	}
	if !torsionFree(&decoded) {
		return nil, errTorsion
	}
	p.inner.Set(&decoded)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*Point).inner) == 1
}

// IsIdentity reports whether p is the identity element.
func (p *Point) IsIdentity() bool {
	return p.inner.Equal(edwards25519.NewIdentityPoint()) == 1
}

// torsionFree reports whether l*P is the identity. ScalarMult works on the
// integer representative of its scalar, so (l-1)*P + P computes l*P on the
// full curve.
func torsionFree(P *edwards25519.Point) bool {
	var one [32]byte
	one[0] = 1
	minusOne, _ := edwards25519.NewScalar().SetCanonicalBytes(one[:])
	minusOne.Negate(minusOne)

	check := new(edwards25519.Point).ScalarMult(minusOne, P)
	check.Add(check, P)
	return check.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Ed25519 implements [group.Group] for the prime-order subgroup of
// edwards25519.
type Ed25519 struct{}

// New returns the edwards25519 group.
func New() *Ed25519 {
	return &Ed25519{}
}

// Name returns "edwards25519".
func (g *Ed25519) Name() string {
	return "edwards25519"
}

// NewScalar returns a new zero scalar.
func (g *Ed25519) NewScalar() group.Scalar {
	return &Scalar{}
}

// NewPoint returns a new identity point.
func (g *Ed25519) NewPoint() group.Point {
	p := &Point{}
	p.inner.Set(edwards25519.NewIdentityPoint())
	return p
}

// Generator returns the standard base point B.
func (g *Ed25519) Generator() group.Point {
	p := &Point{}
	p.inner.Set(edwards25519.NewGeneratorPoint())
	return p
}

// ScalarFromUint64 returns the scalar with value v.
func (g *Ed25519) ScalarFromUint64(v uint64) group.Scalar {
	var buf [scalarLen]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	s := &Scalar{}
	// v < 2^64 < l, so the encoding is always canonical.
	if _, err := s.inner.SetCanonicalBytes(buf[:]); err != nil {
		panic(err)
	}
	return s
}

// RandomScalar reads 64 bytes from r and reduces them modulo l.
func (g *Ed25519) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := &Scalar{}
	_, err := s.inner.SetUniformBytes(buf[:])
	for i := range buf {
		buf[i] = 0
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// HashToScalar hashes data with Blake2b-512 and reduces the digest
// modulo l.
func (g *Ed25519) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		h.Write(d)
	}
	s := &Scalar{}
	if _, err := s.inner.SetUniformBytes(h.Sum(nil)); err != nil {
		return nil, err
	}
	return s, nil
}

// ScalarLen returns 32.
func (g *Ed25519) ScalarLen() int {
	return scalarLen
}

// PointLen returns 32.
func (g *Ed25519) PointLen() int {
	return pointLen
}

// Order returns l as a big-endian byte slice.
func (g *Ed25519) Order() []byte {
	out := make([]byte, len(order))
	copy(out, order)
	return out
}
