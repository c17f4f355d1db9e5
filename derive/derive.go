package derive

import (
	"bytes"
	"sort"

	"github.com/pkg/errors"

	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/group"
)

// SubstrateKeyLen is the fixed length of a substrate key.
const SubstrateKeyLen = 32

// ErrDegenerateKey is fatal to the attempt: the derived secret share was
// zero, did not match the commitments, or the group key was the identity.
var ErrDegenerateKey = errors.New("degenerate key material")

// KeyPair is the output of a ceremony: one group public key on the
// coordinating chain's curve and one on the external network's curve.
type KeyPair struct {
	SubstrateKey [SubstrateKeyLen]byte `json:"substrate_key"`
	NetworkKey   []byte                `json:"network_key"`
}

// Equal reports whether both keys match byte for byte.
func (k KeyPair) Equal(o KeyPair) bool {
	return k.SubstrateKey == o.SubstrateKey && bytes.Equal(k.NetworkKey, o.NetworkKey)
}

// Lane is the local key material on one curve.
type Lane struct {
	Group group.Group
	// Commitments holds every participant's polynomial commitments,
	// including the local ones.
	Commitments map[dkg.Participant][]group.Point
	// Secrets holds the combined secret share of each local participant.
	Secrets map[dkg.Participant]group.Scalar
}

// Material is everything Derive needs. It owns the only copies of the
// combined secret shares; Wipe is its single erasure point.
type Material struct {
	Substrate Lane
	Network   Lane
}

// Wipe zeroes every secret share in m.
func (m *Material) Wipe() {
	for _, l := range []*Lane{&m.Substrate, &m.Network} {
		for p, s := range l.Secrets {
			dkg.Wipe(s)
			delete(l.Secrets, p)
		}
	}
}

// Derive computes the key pair for network from m. It is deterministic:
// the same material always yields byte-identical keys. Derive does not
// wipe m; the caller does so once, after Derive returns.
func Derive(network Network, m *Material) (KeyPair, error) {
	expected, err := network.Group()
	if err != nil {
		return KeyPair{}, err
	}
	if m.Network.Group == nil || m.Network.Group.Name() != expected.Name() {
		return KeyPair{}, errors.Errorf("network lane is not on the %s curve", expected.Name())
	}

	substrate, err := substrateKey(&m.Substrate)
	if err != nil {
		return KeyPair{}, errors.WithMessage(err, "substrate key")
	}
	networkKey, err := networkKey(&m.Network)
	if err != nil {
		return KeyPair{}, errors.WithMessagef(err, "%s key", network)
	}
	return KeyPair{SubstrateKey: substrate, NetworkKey: networkKey}, nil
}

func substrateKey(l *Lane) ([SubstrateKeyLen]byte, error) {
	var out [SubstrateKeyLen]byte
	if l.Group == nil || l.Group.Name() != SubstrateGroup().Name() {
		return out, errors.New("substrate lane is not on edwards25519")
	}
	key, err := laneKey(l)
	if err != nil {
		return out, err
	}
	copy(out[:], key.Bytes())
	return out, nil
}

func networkKey(l *Lane) ([]byte, error) {
	key, err := laneKey(l)
	if err != nil {
		return nil, err
	}
	return key.Bytes(), nil
}

// laneKey checks the local secret shares against the commitments and
// returns the group key.
func laneKey(l *Lane) (group.Point, error) {
	if len(l.Secrets) == 0 {
		return nil, errors.Wrap(ErrDegenerateKey, "no local secret share")
	}
	if len(l.Commitments) == 0 {
		return nil, errors.Wrap(ErrDegenerateKey, "no commitments")
	}

	locals := make([]dkg.Participant, 0, len(l.Secrets))
	for p := range l.Secrets {
		locals = append(locals, p)
	}
	sort.Slice(locals, func(i, j int) bool { return locals[i] < locals[j] })

	for _, p := range locals {
		s := l.Secrets[p]
		if s == nil || s.IsZero() {
			return nil, errors.Wrapf(ErrDegenerateKey, "zero secret share for participant %d", p)
		}
		public := group.BaseMult(l.Group, s)
		if !public.Equal(dkg.VerificationShare(l.Group, l.Commitments, p)) {
			return nil, errors.Wrapf(ErrDegenerateKey, "secret share for participant %d does not match commitments", p)
		}
	}

	key := dkg.GroupKey(l.Group, l.Commitments)
	if key.IsIdentity() {
		return nil, errors.Wrap(ErrDegenerateKey, "group key is the identity")
	}
	return key, nil
}
