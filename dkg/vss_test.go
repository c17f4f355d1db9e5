package dkg

import (
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/bjj"
	"github.com/f3rmion/tkg/ed25519"
	"github.com/f3rmion/tkg/group"
	"github.com/f3rmion/tkg/secp256k1"
)

var testContext = []byte("test ceremony")

func groups() []group.Group {
	return []group.Group{ed25519.New(), secp256k1.New(), bjj.New()}
}

func TestDKG(t *testing.T) {
	for _, g := range groups() {
		for _, tc := range []struct{ threshold, total uint16 }{{1, 1}, {2, 3}, {3, 5}} {
			t.Run(fmt.Sprintf("%s/%d-of-%d", g.Name(), tc.threshold, tc.total), func(t *testing.T) {
				runDKG(t, g, tc.threshold, tc.total)
			})
		}
	}
}

func runDKG(t *testing.T, g group.Group, threshold, total uint16) {
	dealers := make([]*Dealer, total)
	commitments := make(map[Participant][]group.Point, total)
	for i := range dealers {
		p := Participant(i + 1)
		d, err := NewDealer(g, threshold, p, rand.Reader, testContext)
		require.NoError(t, err)
		require.Len(t, d.Commitments(), int(threshold))
		require.True(t, VerifyProof(g, testContext, p, d.Commitments(), d.Proof()))
		dealers[i] = d
		commitments[p] = d.Commitments()
	}

	secrets := make(map[Participant]group.Scalar, total)
	for j := range dealers {
		recipient := Participant(j + 1)
		var received []group.Scalar
		for _, d := range dealers {
			share, err := d.Share(recipient)
			require.NoError(t, err)
			require.True(t, VerifyShare(g, d.Commitments(), recipient, share),
				"share from %d to %d failed verification", d.Index(), recipient)
			received = append(received, share)
		}
		secrets[recipient] = CombineShares(g, received...)
	}

	groupKey := GroupKey(g, commitments)
	require.False(t, groupKey.IsIdentity())

	for p, s := range secrets {
		require.True(t, group.BaseMult(g, s).Equal(VerificationShare(g, commitments, p)))
	}

	// Any threshold-sized subset interpolates to the group key.
	signers := make([]Participant, threshold)
	for i := range signers {
		signers[i] = Participant(int(total) - i)
	}
	joint := g.NewScalar()
	for _, i := range signers {
		term := g.NewScalar().Mul(lagrange(t, g, i, signers), secrets[i])
		joint = g.NewScalar().Add(joint, term)
	}
	require.True(t, group.BaseMult(g, joint).Equal(groupKey))
}

// lagrange returns the Lagrange coefficient of i at zero over set.
func lagrange(t *testing.T, g group.Group, i Participant, set []Participant) group.Scalar {
	num := g.ScalarFromUint64(1)
	den := g.ScalarFromUint64(1)
	xi := g.ScalarFromUint64(uint64(i))
	for _, j := range set {
		if j == i {
			continue
		}
		xj := g.ScalarFromUint64(uint64(j))
		num = g.NewScalar().Mul(num, xj)
		den = g.NewScalar().Mul(den, g.NewScalar().Sub(xj, xi))
	}
	inv, err := g.NewScalar().Invert(den)
	require.NoError(t, err)
	return g.NewScalar().Mul(num, inv)
}

func TestVerifyShareRejectsTampering(t *testing.T) {
	for _, g := range groups() {
		t.Run(g.Name(), func(t *testing.T) {
			d, err := NewDealer(g, 2, 1, rand.Reader, testContext)
			require.NoError(t, err)

			share, err := d.Share(2)
			require.NoError(t, err)
			require.True(t, VerifyShare(g, d.Commitments(), 2, share))

			tampered := g.NewScalar().Add(share, g.ScalarFromUint64(1))
			require.False(t, VerifyShare(g, d.Commitments(), 2, tampered))
			require.False(t, VerifyShare(g, d.Commitments(), 3, share))
			require.False(t, VerifyShare(g, nil, 2, share))
		})
	}
}

func TestVerifyProofBinding(t *testing.T) {
	g := ed25519.New()
	d, err := NewDealer(g, 2, 1, rand.Reader, testContext)
	require.NoError(t, err)

	require.True(t, VerifyProof(g, testContext, 1, d.Commitments(), d.Proof()))
	require.False(t, VerifyProof(g, []byte("other ceremony"), 1, d.Commitments(), d.Proof()))
	require.False(t, VerifyProof(g, testContext, 2, d.Commitments(), d.Proof()))
	require.False(t, VerifyProof(g, testContext, 1, d.Commitments(), nil))

	other, err := NewDealer(g, 2, 1, rand.Reader, testContext)
	require.NoError(t, err)
	require.False(t, VerifyProof(g, testContext, 1, other.Commitments(), d.Proof()))
}

func TestDealerWipe(t *testing.T) {
	g := secp256k1.New()
	d, err := NewDealer(g, 3, 1, rand.Reader, testContext)
	require.NoError(t, err)

	coeffs := d.coefficients
	d.Wipe()
	for _, c := range coeffs {
		require.True(t, c.IsZero())
	}
	_, err = d.Share(2)
	require.Error(t, err)
	require.Len(t, d.Commitments(), 3)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestNewDealerRNGFailure(t *testing.T) {
	_, err := NewDealer(ed25519.New(), 2, 1, failingReader{}, testContext)
	require.Error(t, err)

	_, err = NewDealer(ed25519.New(), 0, 1, rand.Reader, testContext)
	require.ErrorIs(t, err, ErrInvalidParameters)
}
