package keygen

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/group"
	"github.com/f3rmion/tkg/messages"
)

const contextTag = "tkg/keygen/v1"

// ceremony is one (network, session, attempt). It is advanced strictly
// phase by phase; all its secrets are scoped to it.
type ceremony struct {
	network derive.Network
	id      messages.KeyGenID
	params  dkg.ThresholdParams
	lanes   dkg.Lanes
	locals  []dkg.Participant
	remotes []dkg.Participant
	context []byte
	state   State

	// dealers[k][lane] deals for locals[k].
	dealers [][]*dkg.Dealer
	// commitments[lane] holds every participant's commitments.
	commitments []map[dkg.Participant][]group.Point
	keyPair     derive.KeyPair
}

// ceremonyContext binds proofs of knowledge to one attempt of one
// network's ceremony with one parameter set.
func ceremonyContext(network derive.Network, id messages.KeyGenID, params dkg.ThresholdParams) []byte {
	out := []byte(contextTag)
	out = binary.BigEndian.AppendUint16(out, uint16(len(network)))
	out = append(out, string(network)...)
	out = binary.BigEndian.AppendUint32(out, uint32(id.Session))
	out = binary.BigEndian.AppendUint32(out, id.Attempt)
	out = binary.BigEndian.AppendUint16(out, params.Threshold)
	out = binary.BigEndian.AppendUint16(out, params.Total)
	return out
}

// newCeremony validates the request and creates the ceremony in
// StateIdle. Errors here leave no state behind.
func newCeremony(network derive.Network, msg messages.GenerateKey) (*ceremony, error) {
	lanes, err := network.Lanes()
	if err != nil {
		return nil, err
	}
	locals, err := msg.Params.Locals(msg.Shares)
	if err != nil {
		return nil, err
	}
	commitments := make([]map[dkg.Participant][]group.Point, len(lanes))
	for i := range commitments {
		commitments[i] = make(map[dkg.Participant][]group.Point, msg.Params.Total)
	}
	return &ceremony{
		network:     network,
		id:          msg.ID,
		params:      msg.Params,
		lanes:       lanes,
		locals:      locals,
		remotes:     msg.Params.Remotes(locals),
		context:     ceremonyContext(network, msg.ID, msg.Params),
		state:       StateIdle,
		commitments: commitments,
	}, nil
}

// generate samples one polynomial per local share and lane and returns
// the commitments to broadcast.
func (c *ceremony) generate(rng io.Reader) (*messages.ProcessorCommitments, error) {
	c.dealers = make([][]*dkg.Dealer, len(c.locals))
	out := make([][]byte, len(c.locals))
	for k, local := range c.locals {
		c.dealers[k] = make([]*dkg.Dealer, len(c.lanes))
		for lane, g := range c.lanes {
			d, err := dkg.NewDealer(g, c.params.Threshold, local, rng, c.context)
			if err != nil {
				return nil, c.abort(errors.WithMessagef(err, "%s lane of participant %d", g.Name(), local))
			}
			c.dealers[k][lane] = d
			c.commitments[lane][local] = d.Commitments()
		}
		out[k] = c.lanes.EncodeCommitments(c.dealers[k])
	}
	c.state = StateAwaitingCommitments
	return &messages.ProcessorCommitments{ID: c.id, Commitments: out}, nil
}

// handleCommitments verifies every remote commitment set and deals shares
// to the remote participants.
func (c *ceremony) handleCommitments(msg messages.Commitments) (*messages.ProcessorShares, error) {
	if err := dkg.CheckParticipants(c.remotes, msg.Commitments); err != nil {
		return nil, c.abort(err)
	}

	for _, p := range c.remotes {
		decoded, err := c.lanes.DecodeCommitments(c.params.Threshold, msg.Commitments[p])
		if err != nil {
			return nil, c.abort(dkg.MalformedCommitments(p, err.Error()))
		}
		for lane, g := range c.lanes {
			if !dkg.VerifyProof(g, c.context, p, decoded[lane].Commitments, decoded[lane].Proof) {
				return nil, c.abort(dkg.MalformedCommitments(p, fmt.Sprintf("invalid %s proof of knowledge", g.Name())))
			}
			c.commitments[lane][p] = decoded[lane].Commitments
		}
	}

	out := make([]map[dkg.Participant][]byte, len(c.locals))
	for k := range c.locals {
		out[k] = make(map[dkg.Participant][]byte, len(c.remotes))
		for _, p := range c.remotes {
			shares, err := c.shareFrom(k, p)
			if err != nil {
				return nil, c.abort(err)
			}
			out[k][p] = c.lanes.EncodeShares(shares)
			dkg.Wipe(shares...)
		}
	}
	c.state = StateAwaitingShares
	return &messages.ProcessorShares{ID: c.id, Shares: out}, nil
}

// shareFrom evaluates local share k's polynomials at recipient, one scalar
// per lane.
func (c *ceremony) shareFrom(k int, recipient dkg.Participant) ([]group.Scalar, error) {
	shares := make([]group.Scalar, len(c.lanes))
	for lane, d := range c.dealers[k] {
		s, err := d.Share(recipient)
		if err != nil {
			dkg.Wipe(shares...)
			return nil, err
		}
		shares[lane] = s
	}
	return shares, nil
}

// handleShares verifies the received shares, combines them with the local
// evaluations and derives the key pair.
func (c *ceremony) handleShares(msg messages.Shares) (*messages.GeneratedKeyPair, error) {
	if len(msg.Shares) != len(c.locals) {
		return nil, c.abort(errors.Wrapf(dkg.ErrIncompleteParticipantSet,
			"got shares for %d local participants, expected %d", len(msg.Shares), len(c.locals)))
	}
	for k := range c.locals {
		if err := dkg.CheckParticipants(c.remotes, msg.Shares[k]); err != nil {
			return nil, c.abort(err)
		}
	}

	material := &derive.Material{
		Substrate: c.lane(0),
		Network:   c.lane(1),
	}
	defer material.Wipe()
	secrets := []map[dkg.Participant]group.Scalar{material.Substrate.Secrets, material.Network.Secrets}

	for k, local := range c.locals {
		// received[lane] collects every share addressed to local.
		received := make([][]group.Scalar, len(c.lanes))
		wipeReceived := func() {
			for _, r := range received {
				dkg.Wipe(r...)
			}
		}

		for _, p := range c.remotes {
			shares, err := c.lanes.DecodeShares(msg.Shares[k][p])
			if err != nil {
				wipeReceived()
				return nil, c.abort(dkg.InvalidShareReason(p, err.Error()))
			}
			for lane, g := range c.lanes {
				if !dkg.VerifyShare(g, c.commitments[lane][p], local, shares[lane]) {
					dkg.Wipe(shares...)
					wipeReceived()
					return nil, c.abort(dkg.InvalidShareReason(p, fmt.Sprintf("%s share for participant %d", g.Name(), local)))
				}
				received[lane] = append(received[lane], shares[lane])
			}
		}

		for j := range c.locals {
			shares, err := c.shareFrom(j, local)
			if err != nil {
				wipeReceived()
				return nil, c.abort(err)
			}
			for lane := range c.lanes {
				received[lane] = append(received[lane], shares[lane])
			}
		}

		for lane, g := range c.lanes {
			secrets[lane][local] = dkg.CombineShares(g, received[lane]...)
		}
		wipeReceived()
	}

	keyPair, err := derive.Derive(c.network, material)
	if err != nil {
		return nil, c.abort(err)
	}
	c.wipeDealers()
	c.keyPair = keyPair
	c.state = StateDerived
	return &messages.GeneratedKeyPair{
		ID:           c.id,
		SubstrateKey: keyPair.SubstrateKey,
		NetworkKey:   keyPair.NetworkKey,
	}, nil
}

func (c *ceremony) lane(i int) derive.Lane {
	return derive.Lane{
		Group:       c.lanes[i],
		Commitments: c.commitments[i],
		Secrets:     make(map[dkg.Participant]group.Scalar, len(c.locals)),
	}
}

func (c *ceremony) wipeDealers() {
	for _, ds := range c.dealers {
		for _, d := range ds {
			if d != nil {
				d.Wipe()
			}
		}
	}
	c.dealers = nil
}

// abort erases every secret and public intermediate and returns err.
func (c *ceremony) abort(err error) error {
	c.wipeDealers()
	c.commitments = nil
	c.state = StateAborted
	return err
}

// discard drops everything but the outcome once the session is settled.
func (c *ceremony) discard() {
	c.wipeDealers()
	c.commitments = nil
}
