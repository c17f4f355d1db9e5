package dkg

import (
	"io"

	"github.com/pkg/errors"

	"github.com/f3rmion/tkg/group"
)

const proofTag = "tkg/dkg/pok/v1"

// Proof is a Schnorr proof of knowledge of a dealer's constant term a_0,
// bound to the ceremony context and the dealer's index.
type Proof struct {
	R group.Point
	Z group.Scalar
}

func challenge(g group.Group, context []byte, sender Participant, c0, r group.Point) (group.Scalar, error) {
	return g.HashToScalar([]byte(proofTag), context, sender.Bytes(), c0.Bytes(), r.Bytes())
}

// prove computes R = k*G, c = H(context, sender, C_0, R), z = k + c*a_0.
func prove(g group.Group, rng io.Reader, context []byte, sender Participant, a0 group.Scalar, c0 group.Point) (*Proof, error) {
	k, err := g.RandomScalar(rng)
	if err != nil {
		return nil, errors.Wrap(err, "sampling proof nonce")
	}
	defer k.Zero()

	r := group.BaseMult(g, k)
	c, err := challenge(g, context, sender, c0, r)
	if err != nil {
		return nil, err
	}
	ca0 := g.NewScalar().Mul(c, a0)
	defer ca0.Zero()
	z := g.NewScalar().Add(k, ca0)
	return &Proof{R: r, Z: z}, nil
}

// VerifyProof checks z*G == R + c*C_0 for the sender's commitments.
func VerifyProof(g group.Group, context []byte, sender Participant, commitments []group.Point, proof *Proof) bool {
	if proof == nil || len(commitments) == 0 {
		return false
	}
	c, err := challenge(g, context, sender, commitments[0], proof.R)
	if err != nil {
		return false
	}
	lhs := group.BaseMult(g, proof.Z)
	rhs := g.NewPoint().ScalarMult(c, commitments[0])
	rhs = g.NewPoint().Add(proof.R, rhs)
	return lhs.Equal(rhs)
}
