package keygen

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/messages"
)

// validator is one processor hosting shares consecutive participants.
type validator struct {
	m      *Manager
	params dkg.ThresholdParams
	shares uint16
}

func (v validator) locals() []dkg.Participant {
	locals, err := v.params.Locals(v.shares)
	if err != nil {
		panic(err)
	}
	return locals
}

// cluster relays ceremony messages between validators in process, the way
// the coordinator would.
type cluster struct {
	t          *testing.T
	network    derive.Network
	validators []validator
}

func newCluster(t *testing.T, network derive.Network, threshold uint16, weights ...uint16) *cluster {
	t.Helper()
	var total uint16
	for _, w := range weights {
		total += w
	}
	c := &cluster{t: t, network: network}
	next := dkg.Participant(1)
	for _, w := range weights {
		params, err := dkg.NewThresholdParams(threshold, total, next)
		require.NoError(t, err)
		c.validators = append(c.validators, validator{m: NewManager(Config{}), params: params, shares: w})
		next += dkg.Participant(w)
	}
	return c
}

// generateKey starts attempt id everywhere and returns every participant's
// commitments.
func (c *cluster) generateKey(id messages.KeyGenID) map[dkg.Participant][]byte {
	c.t.Helper()
	all := make(map[dkg.Participant][]byte)
	for _, v := range c.validators {
		out, err := v.m.Handle(c.network, messages.GenerateKey{ID: id, Params: v.params, Shares: v.shares})
		require.NoError(c.t, err)
		msg, ok := out.(messages.ProcessorCommitments)
		require.True(c.t, ok, "got %T", out)
		require.Equal(c.t, id, msg.ID)
		require.Len(c.t, msg.Commitments, int(v.shares))
		for k, b := range msg.Commitments {
			all[v.params.Index+dkg.Participant(k)] = b
		}
	}
	return all
}

// commitmentsFor drops v's own entries from all.
func commitmentsFor(v validator, all map[dkg.Participant][]byte) map[dkg.Participant][]byte {
	out := make(map[dkg.Participant][]byte, len(all))
	for p, b := range all {
		out[p] = b
	}
	for _, l := range v.locals() {
		delete(out, l)
	}
	return out
}

// commit relays commitments and returns the dealt shares keyed by recipient,
// then sender.
func (c *cluster) commit(id messages.KeyGenID, all map[dkg.Participant][]byte) map[dkg.Participant]map[dkg.Participant][]byte {
	c.t.Helper()
	byRecipient := make(map[dkg.Participant]map[dkg.Participant][]byte)
	for _, v := range c.validators {
		out, err := v.m.Handle(c.network, messages.Commitments{ID: id, Commitments: commitmentsFor(v, all)})
		require.NoError(c.t, err)
		msg, ok := out.(messages.ProcessorShares)
		require.True(c.t, ok, "got %T", out)
		require.Len(c.t, msg.Shares, int(v.shares))
		for k, shares := range msg.Shares {
			sender := v.params.Index + dkg.Participant(k)
			for recipient, b := range shares {
				if byRecipient[recipient] == nil {
					byRecipient[recipient] = make(map[dkg.Participant][]byte)
				}
				byRecipient[recipient][sender] = b
			}
		}
	}
	return byRecipient
}

func sharesFor(v validator, byRecipient map[dkg.Participant]map[dkg.Participant][]byte) []map[dkg.Participant][]byte {
	var out []map[dkg.Participant][]byte
	for _, l := range v.locals() {
		out = append(out, byRecipient[l])
	}
	return out
}

// share delivers shares point to point and returns each validator's key
// pair.
func (c *cluster) share(id messages.KeyGenID, byRecipient map[dkg.Participant]map[dkg.Participant][]byte) []derive.KeyPair {
	c.t.Helper()
	var pairs []derive.KeyPair
	for _, v := range c.validators {
		out, err := v.m.Handle(c.network, messages.Shares{ID: id, Shares: sharesFor(v, byRecipient)})
		require.NoError(c.t, err)
		msg, ok := out.(messages.GeneratedKeyPair)
		require.True(c.t, ok, "got %T", out)
		require.Equal(c.t, id, msg.ID)
		pairs = append(pairs, msg.KeyPair())
	}
	return pairs
}

// run drives attempt id to completion and returns the agreed key pair.
func (c *cluster) run(id messages.KeyGenID) derive.KeyPair {
	c.t.Helper()
	pairs := c.share(id, c.commit(id, c.generateKey(id)))
	for _, kp := range pairs[1:] {
		require.True(c.t, kp.Equal(pairs[0]), "validators derived different key pairs")
	}
	return pairs[0]
}

func (c *cluster) confirm(session messages.Session, kp derive.KeyPair) {
	c.t.Helper()
	for _, v := range c.validators {
		out, err := v.m.Handle(c.network, confirmKeyPair(session, kp))
		require.NoError(c.t, err)
		require.Nil(c.t, out)
	}
}

func (c *cluster) requireState(id messages.KeyGenID, want State) {
	c.t.Helper()
	for _, v := range c.validators {
		require.Equal(c.t, want, v.m.State(c.network, id), "participant %d", v.params.Index)
	}
}

func confirmKeyPair(session messages.Session, kp derive.KeyPair) messages.ConfirmKeyPair {
	return messages.ConfirmKeyPair{
		Context: messages.SubstrateContext{
			Time:                 time.Unix(1700000000, 0).UTC(),
			LatestFinalizedBlock: [32]byte{0xb1, 0x0c},
		},
		Session: session,
		KeyPair: kp,
	}
}

func flipBit(b []byte, at int) []byte {
	out := append([]byte(nil), b...)
	out[at] ^= 1
	return out
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}
