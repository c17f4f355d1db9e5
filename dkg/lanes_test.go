package dkg

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/ed25519"
	"github.com/f3rmion/tkg/group"
	"github.com/f3rmion/tkg/secp256k1"
)

func TestLanesCommitments(t *testing.T) {
	lanes := Lanes{ed25519.New(), secp256k1.New()}
	const threshold = 3

	dealers := make([]*Dealer, len(lanes))
	for i, g := range lanes {
		d, err := NewDealer(g, threshold, 2, rand.Reader, testContext)
		require.NoError(t, err)
		dealers[i] = d
	}

	enc := lanes.EncodeCommitments(dealers)
	require.Len(t, enc, lanes.CommitmentsLen(threshold))
	require.Equal(t, 3*32+32+32+3*33+33+32, len(enc))

	decoded, err := lanes.DecodeCommitments(threshold, enc)
	require.NoError(t, err)
	require.Len(t, decoded, len(lanes))
	for i, g := range lanes {
		for k, c := range decoded[i].Commitments {
			require.True(t, c.Equal(dealers[i].Commitments()[k]))
		}
		require.True(t, VerifyProof(g, testContext, 2, decoded[i].Commitments, decoded[i].Proof))
	}

	_, err = lanes.DecodeCommitments(threshold, enc[:len(enc)-1])
	require.Error(t, err)
	_, err = lanes.DecodeCommitments(threshold+1, enc)
	require.Error(t, err)

	corrupt := append([]byte(nil), enc...)
	corrupt[3*32+32+32] = 0x07 // first secp256k1 commitment prefix
	_, err = lanes.DecodeCommitments(threshold, corrupt)
	require.Error(t, err)
}

func TestLanesShares(t *testing.T) {
	lanes := Lanes{ed25519.New(), secp256k1.New()}
	shares := make([]group.Scalar, len(lanes))
	for i, g := range lanes {
		s, err := g.RandomScalar(rand.Reader)
		require.NoError(t, err)
		shares[i] = s
	}

	enc := lanes.EncodeShares(shares)
	require.Len(t, enc, lanes.SharesLen())

	decoded, err := lanes.DecodeShares(enc)
	require.NoError(t, err)
	for i := range lanes {
		require.True(t, decoded[i].Equal(shares[i]))
	}

	_, err = lanes.DecodeShares(enc[1:])
	require.Error(t, err)

	overflow := append([]byte(nil), enc...)
	for i := 32; i < 64; i++ {
		overflow[i] = 0xff
	}
	_, err = lanes.DecodeShares(overflow)
	require.Error(t, err)
}
