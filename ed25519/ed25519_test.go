package ed25519

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/group/grouptest"
)

func TestConformance(t *testing.T) {
	grouptest.Run(t, New())
}

func TestOrder(t *testing.T) {
	l, ok := new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
	require.True(t, ok)
	require.Equal(t, l.Bytes(), New().Order())
}

func TestGeneratorEncoding(t *testing.T) {
	// RFC 8032 base point.
	require.Equal(t,
		"5866666666666666666666666666666666666666666666666666666666666666",
		hex.EncodeToString(New().Generator().Bytes()))
}

func TestRejectsTorsion(t *testing.T) {
	// A point of order 8 (from the edwards25519 small-order list).
	enc, err := hex.DecodeString("c7176a703d4dd84fba3c0b760d10670f2a2053fa2c39ccc64ec7fd7792ac037a")
	require.NoError(t, err)
	_, err = New().NewPoint().SetBytes(enc)
	require.Error(t, err)
}

func TestRejectsNonCanonicalPoint(t *testing.T) {
	// y = 1 + p, an alias of the identity.
	enc := make([]byte, 32)
	enc[0] = 0xee
	for i := 1; i < 31; i++ {
		enc[i] = 0xff
	}
	enc[31] = 0x7f
	_, err := New().NewPoint().SetBytes(enc)
	require.Error(t, err)

	// Identity with the sign bit of x set.
	neg := New().NewPoint().Bytes()
	neg[31] |= 0x80
	_, err = New().NewPoint().SetBytes(neg)
	require.Error(t, err)

	p, err := New().NewPoint().SetBytes(New().NewPoint().Bytes())
	require.NoError(t, err)
	require.True(t, p.IsIdentity())
}

func TestScalarFromUint64LittleEndian(t *testing.T) {
	s := New().ScalarFromUint64(0x0102)
	enc := s.Bytes()
	require.Equal(t, byte(0x02), enc[0])
	require.Equal(t, byte(0x01), enc[1])
}
