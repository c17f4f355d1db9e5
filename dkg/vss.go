package dkg

import (
	"io"

	"github.com/pkg/errors"

	"github.com/f3rmion/tkg/group"
)

var errWiped = errors.New("dealer secrets already wiped")

// Dealer holds one virtual share's secret polynomial on one curve.
type Dealer struct {
	group        group.Group
	index        Participant
	coefficients []group.Scalar // our secret polynomial
	commitments  []group.Point  // C_k = a_k * G
	proof        *Proof
}

// NewDealer samples a random polynomial of degree threshold-1, commits to
// each coefficient and proves knowledge of the constant term. context
// binds the proof to one ceremony.
func NewDealer(g group.Group, threshold uint16, index Participant, rng io.Reader, context []byte) (*Dealer, error) {
	if threshold == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "threshold must be at least 1")
	}

	coeffs := make([]group.Scalar, threshold)
	for i := range coeffs {
		c, err := g.RandomScalar(rng)
		if err != nil {
			Wipe(coeffs[:i]...)
			return nil, errors.Wrap(err, "sampling polynomial")
		}
		coeffs[i] = c
	}

	commits := make([]group.Point, threshold)
	for i, c := range coeffs {
		commits[i] = group.BaseMult(g, c)
	}

	proof, err := prove(g, rng, context, index, coeffs[0], commits[0])
	if err != nil {
		Wipe(coeffs...)
		return nil, err
	}

	return &Dealer{
		group:        g,
		index:        index,
		coefficients: coeffs,
		commitments:  commits,
		proof:        proof,
	}, nil
}

// Index returns the participant this dealer deals for.
func (d *Dealer) Index() Participant {
	return d.index
}

// Commitments returns the public commitments to the polynomial.
func (d *Dealer) Commitments() []group.Point {
	return d.commitments
}

// Proof returns the proof of knowledge of the constant term.
func (d *Dealer) Proof() *Proof {
	return d.proof
}

// Share evaluates the secret polynomial at the recipient's index.
func (d *Dealer) Share(recipient Participant) (group.Scalar, error) {
	if d.coefficients == nil {
		return nil, errWiped
	}
	return EvalPolynomial(d.group, d.coefficients, d.group.ScalarFromUint64(uint64(recipient))), nil
}

// Wipe zeroes the secret polynomial. The dealer can no longer produce
// shares afterwards; commitments stay available.
func (d *Dealer) Wipe() {
	Wipe(d.coefficients...)
	d.coefficients = nil
}

// Wipe zeroes every non-nil scalar.
func Wipe(scalars ...group.Scalar) {
	for _, s := range scalars {
		if s != nil {
			s.Zero()
		}
	}
}

// EvalPolynomial evaluates coeffs at x using Horner's rule. The result is
// accumulated in a single scalar, which the caller owns and must wipe.
func EvalPolynomial(g group.Group, coeffs []group.Scalar, x group.Scalar) group.Scalar {
	result := g.NewScalar().Set(coeffs[len(coeffs)-1])
	for i := len(coeffs) - 2; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, coeffs[i])
	}
	return result
}

// EvalCommitments returns sum(C_k * x^k), the public image of the
// committed polynomial at x.
func EvalCommitments(g group.Group, commitments []group.Point, x Participant) group.Point {
	xs := g.ScalarFromUint64(uint64(x))
	result := g.NewPoint()
	xPower := g.ScalarFromUint64(1)
	for _, c := range commitments {
		term := g.NewPoint().ScalarMult(xPower, c)
		result = g.NewPoint().Add(result, term)
		xPower = g.NewScalar().Mul(xPower, xs)
	}
	return result
}

// VerifyShare checks share * G == sum(C_k * recipient^k).
func VerifyShare(g group.Group, commitments []group.Point, recipient Participant, share group.Scalar) bool {
	if len(commitments) == 0 {
		return false
	}
	lhs := group.BaseMult(g, share)
	return lhs.Equal(EvalCommitments(g, commitments, recipient))
}

// CombineShares sums the shares addressed to one participant into its
// secret share of the group key. No partial sum outlives the result.
func CombineShares(g group.Group, shares ...group.Scalar) group.Scalar {
	sum := g.NewScalar()
	for _, s := range shares {
		sum.Add(sum, s)
	}
	return sum
}

// GroupKey sums the constant-term commitments of every dealer.
func GroupKey(g group.Group, commitments map[Participant][]group.Point) group.Point {
	key := g.NewPoint()
	for _, c := range commitments {
		key = g.NewPoint().Add(key, c[0])
	}
	return key
}

// VerificationShare returns the public image of participant p's combined
// secret share: the sum over all dealers of their committed polynomial at p.
func VerificationShare(g group.Group, commitments map[Participant][]group.Point, p Participant) group.Point {
	share := g.NewPoint()
	for _, c := range commitments {
		share = g.NewPoint().Add(share, EvalCommitments(g, c, p))
	}
	return share
}
