package dkg

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidParameters rejects a (t, n, i) triple or share count before
	// any ceremony state exists.
	ErrInvalidParameters = errors.New("invalid threshold parameters")
	// ErrMalformedCommitments is fatal to the attempt: a commitment set
	// could not be decoded, came from an unexpected sender, or carried an
	// invalid proof of knowledge.
	ErrMalformedCommitments = errors.New("malformed commitments")
	// ErrIncompleteParticipantSet is fatal to the attempt: a phase message
	// did not cover every expected participant.
	ErrIncompleteParticipantSet = errors.New("incomplete participant set")
	// ErrInvalidShare is fatal to the attempt: a share failed the VSS
	// check against its sender's commitments.
	ErrInvalidShare = errors.New("invalid share")
)

// ParticipantError attributes a ceremony failure to the participant that
// caused it. It unwraps to one of the sentinel errors above.
type ParticipantError struct {
	Participant Participant
	Err         error
	Reason      string
}

func (e *ParticipantError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("participant %d: %v", e.Participant, e.Err)
	}
	return fmt.Sprintf("participant %d: %v: %s", e.Participant, e.Err, e.Reason)
}

func (e *ParticipantError) Unwrap() error {
	return e.Err
}

// InvalidShareReason returns the error raised when p sent a share that does
// not match its commitments. An empty reason is omitted from the message.
func InvalidShareReason(p Participant, reason string) error {
	return &ParticipantError{Participant: p, Err: ErrInvalidShare, Reason: reason}
}

func malformed(p Participant, reason string) error {
	return &ParticipantError{Participant: p, Err: ErrMalformedCommitments, Reason: reason}
}

// Culprit extracts the participant blamed by err, if any.
func Culprit(err error) (Participant, bool) {
	var pe *ParticipantError
	if errors.As(err, &pe) {
		return pe.Participant, true
	}
	return 0, false
}

// MalformedCommitments returns the error raised when p's commitments could
// not be accepted.
func MalformedCommitments(p Participant, reason string) error {
	return malformed(p, reason)
}
