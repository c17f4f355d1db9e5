package dkg

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Participant is a 1-indexed participant identifier, unique within one
// ceremony.
type Participant uint16

// Bytes returns the 2-byte big-endian encoding used in transcripts.
func (p Participant) Bytes() []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(p))
	return b[:]
}

// ThresholdParams describes a t-of-n sharing and the local participant's
// position in it.
type ThresholdParams struct {
	Threshold uint16      `json:"t"`
	Total     uint16      `json:"n"`
	Index     Participant `json:"i"`
}

// NewThresholdParams validates and returns (t, n, i). It fails with
// ErrInvalidParameters unless 1 <= t <= n and 1 <= i <= n.
func NewThresholdParams(t, n uint16, i Participant) (ThresholdParams, error) {
	p := ThresholdParams{Threshold: t, Total: n, Index: i}
	if err := p.Validate(); err != nil {
		return ThresholdParams{}, err
	}
	return p, nil
}

// Validate rechecks the invariants of params decoded from the wire.
func (p ThresholdParams) Validate() error {
	if p.Threshold == 0 || p.Total == 0 || p.Index == 0 {
		return errors.Wrapf(ErrInvalidParameters, "zero value in (t=%d, n=%d, i=%d)", p.Threshold, p.Total, p.Index)
	}
	if p.Threshold > p.Total {
		return errors.Wrapf(ErrInvalidParameters, "threshold %d exceeds total %d", p.Threshold, p.Total)
	}
	if uint16(p.Index) > p.Total {
		return errors.Wrapf(ErrInvalidParameters, "index %d exceeds total %d", p.Index, p.Total)
	}
	return nil
}

// Locals returns the participants hosted by a validator holding count
// shares starting at p.Index. Every one of them must be within 1..n.
func (p ThresholdParams) Locals(count uint16) ([]Participant, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "share count must be at least 1")
	}
	last := uint32(p.Index) + uint32(count) - 1
	if last > uint32(p.Total) {
		return nil, errors.Wrapf(ErrInvalidParameters, "shares %d..%d exceed total %d", p.Index, last, p.Total)
	}
	locals := make([]Participant, count)
	for k := range locals {
		locals[k] = p.Index + Participant(k)
	}
	return locals, nil
}

// Remotes returns every participant in 1..n that is not in locals, in
// ascending order.
func (p ThresholdParams) Remotes(locals []Participant) []Participant {
	local := make(map[Participant]struct{}, len(locals))
	for _, l := range locals {
		local[l] = struct{}{}
	}
	remotes := make([]Participant, 0, int(p.Total)-len(locals))
	for i := uint32(1); i <= uint32(p.Total); i++ {
		if _, ok := local[Participant(i)]; !ok {
			remotes = append(remotes, Participant(i))
		}
	}
	return remotes
}

// CheckParticipants verifies that got is keyed by exactly the participants
// in want. A missing entry is ErrIncompleteParticipantSet; an entry from
// anyone else is ErrMalformedCommitments blamed on that sender.
func CheckParticipants[V any](want []Participant, got map[Participant]V) error {
	expected := make(map[Participant]struct{}, len(want))
	for _, p := range want {
		expected[p] = struct{}{}
		if _, ok := got[p]; !ok {
			return errors.Wrapf(ErrIncompleteParticipantSet, "missing participant %d", p)
		}
	}
	for p := range got {
		if _, ok := expected[p]; !ok {
			return malformed(p, "unexpected sender")
		}
	}
	return nil
}
