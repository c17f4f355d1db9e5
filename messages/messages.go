// Package messages defines the contracts exchanged between the coordinator
// and the key generation processor. Delivery is owned by an external queue;
// the structs carry JSON tags for it.
package messages

import (
	"fmt"
	"time"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/dkg"
)

// Session identifies one validator-set epoch. It is monotonic.
type Session uint32

// KeyGenID scopes one ceremony instance. Attempt increments on retry;
// (Session, Attempt) is the idempotency key of every ceremony message.
type KeyGenID struct {
	Session Session `json:"session"`
	Attempt uint32  `json:"attempt"`
}

func (id KeyGenID) String() string {
	return fmt.Sprintf("%d/%d", id.Session, id.Attempt)
}

// SubstrateContext anchors a confirmation to the coordinating chain.
type SubstrateContext struct {
	Time                 time.Time `json:"time"`
	LatestFinalizedBlock [32]byte  `json:"latest_finalized_block"`
}

// CoordinatorMessage is a message sent from the coordinator to the
// processor.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// ProcessorMessage is a message sent from the processor to the
// coordinator.
type ProcessorMessage interface {
	processorMessage()
}

// GenerateKey starts a ceremony. Shares is the number of consecutive
// participant indices, starting at Params.Index, the validator holds.
type GenerateKey struct {
	ID     KeyGenID            `json:"id"`
	Params dkg.ThresholdParams `json:"params"`
	Shares uint16              `json:"shares"`
}

// Commitments relays every other participant's commitments.
type Commitments struct {
	ID          KeyGenID                   `json:"id"`
	Commitments map[dkg.Participant][]byte `json:"commitments"`
}

// Shares relays the shares addressed to this validator: one map per local
// share, keyed by sender.
type Shares struct {
	ID     KeyGenID                     `json:"id"`
	Shares []map[dkg.Participant][]byte `json:"shares"`
}

// ConfirmKeyPair binds a generated key pair to substrate context. It is
// keyed by session, not attempt.
type ConfirmKeyPair struct {
	Context SubstrateContext `json:"context"`
	Session Session          `json:"session"`
	KeyPair derive.KeyPair   `json:"key_pair"`
}

func (GenerateKey) coordinatorMessage()    {}
func (Commitments) coordinatorMessage()    {}
func (Shares) coordinatorMessage()         {}
func (ConfirmKeyPair) coordinatorMessage() {}

// ProcessorCommitments carries one commitment set per local share.
type ProcessorCommitments struct {
	ID          KeyGenID `json:"id"`
	Commitments [][]byte `json:"commitments"`
}

// ProcessorShares carries one map per local share, keyed by recipient.
// The relay must deliver each entry only to its recipient.
type ProcessorShares struct {
	ID     KeyGenID                     `json:"id"`
	Shares []map[dkg.Participant][]byte `json:"shares"`
}

// GeneratedKeyPair reports the keys derived by a completed ceremony.
type GeneratedKeyPair struct {
	ID           KeyGenID                     `json:"id"`
	SubstrateKey [derive.SubstrateKeyLen]byte `json:"substrate_key"`
	NetworkKey   []byte                       `json:"network_key"`
}

// KeyPair returns the generated keys as a pair.
func (m GeneratedKeyPair) KeyPair() derive.KeyPair {
	return derive.KeyPair{SubstrateKey: m.SubstrateKey, NetworkKey: m.NetworkKey}
}

func (ProcessorCommitments) processorMessage() {}
func (ProcessorShares) processorMessage()      {}
func (GeneratedKeyPair) processorMessage()     {}
