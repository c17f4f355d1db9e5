package dkg

import (
	"github.com/pkg/errors"

	"github.com/f3rmion/tkg/group"
)

// Lanes lists the curves a ceremony runs the VSS math on, in wire order.
// Every virtual share deals independently on each lane.
type Lanes []group.Group

// LaneCommitments is one dealer's public output on one lane.
type LaneCommitments struct {
	Commitments []group.Point
	Proof       *Proof
}

// CommitmentsLen is the exact length of one encoded commitment set:
// per lane, threshold points followed by the proof (R, z).
func (l Lanes) CommitmentsLen(threshold uint16) int {
	n := 0
	for _, g := range l {
		n += int(threshold)*g.PointLen() + g.PointLen() + g.ScalarLen()
	}
	return n
}

// SharesLen is the exact length of one encoded share: one scalar per lane.
func (l Lanes) SharesLen() int {
	n := 0
	for _, g := range l {
		n += g.ScalarLen()
	}
	return n
}

// EncodeCommitments serializes one dealer per lane.
func (l Lanes) EncodeCommitments(dealers []*Dealer) []byte {
	var out []byte
	for i := range l {
		for _, c := range dealers[i].Commitments() {
			out = append(out, c.Bytes()...)
		}
		out = append(out, dealers[i].Proof().R.Bytes()...)
		out = append(out, dealers[i].Proof().Z.Bytes()...)
	}
	return out
}

// DecodeCommitments parses an encoded commitment set. The input must have
// exactly CommitmentsLen(threshold) bytes and every element must decode
// canonically.
func (l Lanes) DecodeCommitments(threshold uint16, data []byte) ([]LaneCommitments, error) {
	if len(data) != l.CommitmentsLen(threshold) {
		return nil, errors.Errorf("commitments are %d bytes, expected %d", len(data), l.CommitmentsLen(threshold))
	}
	out := make([]LaneCommitments, len(l))
	for i, g := range l {
		commits := make([]group.Point, threshold)
		for k := range commits {
			p, err := g.NewPoint().SetBytes(data[:g.PointLen()])
			if err != nil {
				return nil, errors.Wrapf(err, "%s commitment %d", g.Name(), k)
			}
			commits[k] = p
			data = data[g.PointLen():]
		}
		r, err := g.NewPoint().SetBytes(data[:g.PointLen()])
		if err != nil {
			return nil, errors.Wrapf(err, "%s proof nonce", g.Name())
		}
		data = data[g.PointLen():]
		z, err := g.NewScalar().SetBytes(data[:g.ScalarLen()])
		if err != nil {
			return nil, errors.Wrapf(err, "%s proof response", g.Name())
		}
		data = data[g.ScalarLen():]
		out[i] = LaneCommitments{Commitments: commits, Proof: &Proof{R: r, Z: z}}
	}
	return out, nil
}

// EncodeShares serializes one share per lane.
func (l Lanes) EncodeShares(shares []group.Scalar) []byte {
	out := make([]byte, 0, l.SharesLen())
	for i := range l {
		out = append(out, shares[i].Bytes()...)
	}
	return out
}

// DecodeShares parses one encoded share per lane.
func (l Lanes) DecodeShares(data []byte) ([]group.Scalar, error) {
	if len(data) != l.SharesLen() {
		return nil, errors.Errorf("share is %d bytes, expected %d", len(data), l.SharesLen())
	}
	out := make([]group.Scalar, len(l))
	for i, g := range l {
		s, err := g.NewScalar().SetBytes(data[:g.ScalarLen()])
		if err != nil {
			Wipe(out[:i]...)
			return nil, errors.Wrapf(err, "%s share", g.Name())
		}
		out[i] = s
		data = data[g.ScalarLen():]
	}
	return out, nil
}
