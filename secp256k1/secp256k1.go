package secp256k1

import (
	"errors"
	"io"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/tkg/group"
)

const (
	scalarLen = 32
	// pointLen is the SEC1 compressed encoding length. The identity, which
	// SEC1 cannot compress, is encoded as 33 zero bytes.
	pointLen = 33
)

var (
	errScalarEncoding = errors.New("secp256k1: invalid scalar encoding")
	errPointEncoding  = errors.New("secp256k1: invalid point encoding")
)

// Scalar wraps a constant-time scalar modulo the secp256k1 group order.
// Encodings are 32 bytes, big-endian.
type Scalar struct {
	inner secp256k1.ModNScalar
}

// Add sets s to a + b and returns s.
func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.inner.Add2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Sub sets s to a - b and returns s.
func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	var negB secp256k1.ModNScalar
	negB.NegateVal(&b.(*Scalar).inner)
	s.inner.Add2(&a.(*Scalar).inner, &negB)
	return s
}

// Mul sets s to a * b and returns s.
func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.inner.Mul2(&a.(*Scalar).inner, &b.(*Scalar).inner)
	return s
}

// Negate sets s to -a and returns s.
func (s *Scalar) Negate(a group.Scalar) group.Scalar {
	s.inner.NegateVal(&a.(*Scalar).inner)
	return s
}

// Invert sets s to a^(-1) and returns s.
func (s *Scalar) Invert(a group.Scalar) (group.Scalar, error) {
	if a.IsZero() {
		return nil, errors.New("secp256k1: cannot invert zero scalar")
	}
	s.inner.InverseValNonConst(&a.(*Scalar).inner)
	return s, nil
}

// Set copies a into s and returns s.
func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.inner.Set(&a.(*Scalar).inner)
	return s
}

// Zero sets s to zero.
func (s *Scalar) Zero() {
	s.inner.Zero()
}

// Bytes returns the 32-byte big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	b := s.inner.Bytes()
	return b[:]
}

// SetBytes decodes a 32-byte big-endian scalar, rejecting values not
// below the group order.
func (s *Scalar) SetBytes(data []byte) (group.Scalar, error) {
	if len(data) != scalarLen {
		return nil, errScalarEncoding
	}
	var v secp256k1.ModNScalar
	if overflow := v.SetByteSlice(data); overflow {
		return nil, errScalarEncoding
	}
	s.inner.Set(&v)
	return s, nil
}

// Equal reports whether s and b are the same scalar.
func (s *Scalar) Equal(b group.Scalar) bool {
	return s.inner.Equals(&b.(*Scalar).inner)
}

// IsZero reports whether s is zero.
func (s *Scalar) IsZero() bool {
	return s.inner.IsZero()
}

// Point wraps a secp256k1 point in Jacobian coordinates.
type Point struct {
	inner secp256k1.JacobianPoint
}

func isInfinity(p *secp256k1.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

func (p *Point) setInfinity() {
	p.inner.X.SetInt(0)
	p.inner.Y.SetInt(0)
	p.inner.Z.SetInt(0)
}

// affine returns a normalized affine copy of p, or false for the identity.
func (p *Point) affine() (secp256k1.JacobianPoint, bool) {
	var a secp256k1.JacobianPoint
	if isInfinity(&p.inner) {
		return a, false
	}
	a.Set(&p.inner)
	a.ToAffine()
	return a, true
}

// Add sets p to a + b and returns p.
func (p *Point) Add(a, b group.Point) group.Point {
	var r secp256k1.JacobianPoint
	secp256k1.AddNonConst(&a.(*Point).inner, &b.(*Point).inner, &r)
	p.inner.Set(&r)
	return p
}

// Sub sets p to a - b and returns p.
func (p *Point) Sub(a, b group.Point) group.Point {
	var negB Point
	negB.Negate(b)
	return p.Add(a, &negB)
}

// Negate sets p to -a and returns p.
func (p *Point) Negate(a group.Point) group.Point {
	aff, ok := a.(*Point).affine()
	if !ok {
		p.setInfinity()
		return p
	}
	aff.Y.Negate(1).Normalize()
	p.inner.Set(&aff)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	if s.IsZero() || q.IsIdentity() {
		p.setInfinity()
		return p
	}
	var r secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&s.(*Scalar).inner, &q.(*Point).inner, &r)
	p.inner.Set(&r)
	return p
}

// Set copies a into p and returns p.
func (p *Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*Point).inner)
	return p
}

// Bytes returns the 33-byte SEC1 compressed encoding of p.
func (p *Point) Bytes() []byte {
	aff, ok := p.affine()
	if !ok {
		return make([]byte, pointLen)
	}
	return secp256k1.NewPublicKey(&aff.X, &aff.Y).SerializeCompressed()
}

// SetBytes decodes a 33-byte SEC1 compressed point, or the all-zero
// identity encoding.
func (p *Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != pointLen {
		return nil, errPointEncoding
	}
	if isZeroBytes(data) {
		p.setInfinity()
		return p, nil
	}
	pub, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, errPointEncoding
	}
	pub.AsJacobian(&p.inner)
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *Point) Equal(b group.Point) bool {
	pa, pok := p.affine()
	ba, bok := b.(*Point).affine()
	if !pok || !bok {
		return pok == bok
	}
	return pa.X.Equals(&ba.X) && pa.Y.Equals(&ba.Y)
}

// IsIdentity reports whether p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return isInfinity(&p.inner)
}

// PublicKey converts p into a decred public key. It returns nil for the
// identity.
func (p *Point) PublicKey() *secp256k1.PublicKey {
	aff, ok := p.affine()
	if !ok {
		return nil
	}
	return secp256k1.NewPublicKey(&aff.X, &aff.Y)
}

func isZeroBytes(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// Secp256k1 implements [group.Group] for secp256k1.
type Secp256k1 struct{}

// New returns the secp256k1 group.
func New() *Secp256k1 {
	return &Secp256k1{}
}

// Name returns "secp256k1".
func (g *Secp256k1) Name() string {
	return "secp256k1"
}

// NewScalar returns a new zero scalar.
func (g *Secp256k1) NewScalar() group.Scalar {
	return &Scalar{}
}

// NewPoint returns the point at infinity.
func (g *Secp256k1) NewPoint() group.Point {
	p := &Point{}
	p.setInfinity()
	return p
}

// Generator returns the standard base point G.
func (g *Secp256k1) Generator() group.Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	p := &Point{}
	secp256k1.ScalarBaseMultNonConst(&one, &p.inner)
	return p
}

// ScalarFromUint64 returns the scalar with value v.
func (g *Secp256k1) ScalarFromUint64(v uint64) group.Scalar {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(v >> (8 * i))
	}
	s := &Scalar{}
	s.inner.SetByteSlice(buf[:])
	return s
}

// RandomScalar samples a uniform scalar by rejection: 32-byte draws that
// overflow the group order are discarded.
func (g *Secp256k1) RandomScalar(r io.Reader) (group.Scalar, error) {
	var buf [scalarLen]byte
	defer func() {
		for i := range buf {
			buf[i] = 0
		}
	}()
	s := &Scalar{}
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		if overflow := s.inner.SetByteSlice(buf[:]); !overflow {
			return s, nil
		}
	}
}

// HashToScalar hashes data with Blake2b-512 and reduces the digest modulo
// the group order.
func (g *Secp256k1) HashToScalar(data ...[]byte) (group.Scalar, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		h.Write(d)
	}
	wide := new(big.Int).SetBytes(h.Sum(nil))
	wide.Mod(wide, secp256k1.S256().N)

	var buf [scalarLen]byte
	wide.FillBytes(buf[:])
	s := &Scalar{}
	s.inner.SetBytes(&buf)
	return s, nil
}

// ScalarLen returns 32.
func (g *Secp256k1) ScalarLen() int {
	return scalarLen
}

// PointLen returns 33.
func (g *Secp256k1) PointLen() int {
	return pointLen
}

// Order returns the group order n as a big-endian byte slice.
func (g *Secp256k1) Order() []byte {
	return secp256k1.S256().N.Bytes()
}
