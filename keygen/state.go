package keygen

// State is the phase of one ceremony attempt.
type State int

const (
	// StateIdle is reported for attempts the manager has no record of.
	StateIdle State = iota
	StateAwaitingCommitments
	StateAwaitingShares
	StateDerived
	StateConfirmed
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCommitments:
		return "awaiting_commitments"
	case StateAwaitingShares:
		return "awaiting_shares"
	case StateDerived:
		return "derived"
	case StateConfirmed:
		return "confirmed"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// phase names used in logs and metrics.
const (
	phaseGenerateKey = "generate_key"
	phaseCommitments = "commitments"
	phaseShares      = "shares"
	phaseConfirm     = "confirm"
)
