// Package grouptest provides a conformance suite for [group.Group]
// implementations.
package grouptest

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/group"
)

// nonZero draws random scalars until one is non-zero.
func nonZero(t *testing.T, g group.Group) group.Scalar {
	t.Helper()
	for {
		s, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		if !s.IsZero() {
			return s
		}
	}
}

// Run exercises the algebraic laws and encodings every group used by the
// ceremony must satisfy.
func Run(t *testing.T, g group.Group) {
	t.Run("Scalar", func(t *testing.T) { testScalar(t, g) })
	t.Run("Point", func(t *testing.T) { testPoint(t, g) })
	t.Run("Encoding", func(t *testing.T) { testEncoding(t, g) })
}

func testScalar(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		a := nonZero(t, g)
		b := nonZero(t, g)

		sum := g.NewScalar().Add(a, b)
		diff := g.NewScalar().Sub(sum, b)
		require.True(t, diff.Equal(a), "(a+b)-b != a")
	})

	t.Run("MulInvert", func(t *testing.T) {
		a := nonZero(t, g)
		aInv, err := g.NewScalar().Invert(a)
		require.NoError(t, err)

		product := g.NewScalar().Mul(a, aInv)
		require.True(t, product.Equal(g.ScalarFromUint64(1)), "a*a^-1 != 1")
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		_, err := g.NewScalar().Invert(g.NewScalar())
		require.Error(t, err)
	})

	t.Run("Negate", func(t *testing.T) {
		a := nonZero(t, g)
		negA := g.NewScalar().Negate(a)
		require.True(t, g.NewScalar().Add(a, negA).IsZero())
		require.False(t, a.Equal(negA))
	})

	t.Run("FromUint64", func(t *testing.T) {
		two := g.ScalarFromUint64(2)
		three := g.ScalarFromUint64(3)
		require.True(t, g.NewScalar().Add(two, three).Equal(g.ScalarFromUint64(5)))
		require.True(t, g.NewScalar().Mul(two, three).Equal(g.ScalarFromUint64(6)))
		require.True(t, g.ScalarFromUint64(0).IsZero())
	})

	t.Run("Zero", func(t *testing.T) {
		a := nonZero(t, g)
		a.Zero()
		require.True(t, a.IsZero())
		require.True(t, g.NewScalar().IsZero())
	})

	t.Run("HashToScalar", func(t *testing.T) {
		h1, err := g.HashToScalar([]byte("a"), []byte("b"))
		require.NoError(t, err)
		h2, err := g.HashToScalar([]byte("a"), []byte("b"))
		require.NoError(t, err)
		h3, err := g.HashToScalar([]byte("ab"), []byte("c"))
		require.NoError(t, err)
		require.True(t, h1.Equal(h2))
		require.False(t, h1.Equal(h3))
	})
}

func testPoint(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		P := group.BaseMult(g, nonZero(t, g))
		Q := group.BaseMult(g, nonZero(t, g))

		sum := g.NewPoint().Add(P, Q)
		diff := g.NewPoint().Sub(sum, Q)
		require.True(t, diff.Equal(P), "(P+Q)-Q != P")
	})

	t.Run("Negate", func(t *testing.T) {
		P := group.BaseMult(g, nonZero(t, g))
		negP := g.NewPoint().Negate(P)
		require.True(t, g.NewPoint().Add(P, negP).IsIdentity(), "P + (-P) != identity")
	})

	t.Run("Distributive", func(t *testing.T) {
		a := nonZero(t, g)
		b := nonZero(t, g)
		lhs := group.BaseMult(g, g.NewScalar().Add(a, b))
		rhs := g.NewPoint().Add(group.BaseMult(g, a), group.BaseMult(g, b))
		require.True(t, lhs.Equal(rhs), "(a+b)G != aG + bG")

		ab := group.BaseMult(g, g.NewScalar().Mul(a, b))
		nested := g.NewPoint().ScalarMult(a, group.BaseMult(g, b))
		require.True(t, ab.Equal(nested), "(ab)G != a(bG)")
	})

	t.Run("IsIdentity", func(t *testing.T) {
		require.True(t, g.NewPoint().IsIdentity())
		require.False(t, g.Generator().IsIdentity())
		require.True(t, group.BaseMult(g, g.NewScalar()).IsIdentity())
	})

	t.Run("IdentityAddition", func(t *testing.T) {
		P := group.BaseMult(g, nonZero(t, g))
		require.True(t, g.NewPoint().Add(P, g.NewPoint()).Equal(P))
		require.True(t, g.NewPoint().Add(g.NewPoint(), P).Equal(P))
	})
}

func testEncoding(t *testing.T, g group.Group) {
	t.Run("ScalarRoundtrip", func(t *testing.T) {
		a := nonZero(t, g)
		enc := a.Bytes()
		require.Len(t, enc, g.ScalarLen())

		restored, err := g.NewScalar().SetBytes(enc)
		require.NoError(t, err)
		require.True(t, restored.Equal(a))
	})

	t.Run("ScalarWrongLength", func(t *testing.T) {
		_, err := g.NewScalar().SetBytes(make([]byte, g.ScalarLen()-1))
		require.Error(t, err)
		_, err = g.NewScalar().SetBytes(make([]byte, g.ScalarLen()+1))
		require.Error(t, err)
	})

	t.Run("ScalarNonCanonical", func(t *testing.T) {
		enc := bytes.Repeat([]byte{0xff}, g.ScalarLen())
		_, err := g.NewScalar().SetBytes(enc)
		require.Error(t, err)
	})

	t.Run("PointRoundtrip", func(t *testing.T) {
		P := group.BaseMult(g, nonZero(t, g))
		enc := P.Bytes()
		require.Len(t, enc, g.PointLen())

		restored, err := g.NewPoint().SetBytes(enc)
		require.NoError(t, err)
		require.True(t, restored.Equal(P))
	})

	t.Run("IdentityRoundtrip", func(t *testing.T) {
		enc := g.NewPoint().Bytes()
		require.Len(t, enc, g.PointLen())

		restored, err := g.NewPoint().SetBytes(enc)
		require.NoError(t, err)
		require.True(t, restored.IsIdentity())
	})

	t.Run("PointWrongLength", func(t *testing.T) {
		enc := g.Generator().Bytes()
		_, err := g.NewPoint().SetBytes(enc[1:])
		require.Error(t, err)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a := nonZero(t, g)
		require.Equal(t, group.BaseMult(g, a).Bytes(), group.BaseMult(g, a).Bytes())
	})
}
