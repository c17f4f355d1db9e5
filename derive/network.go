package derive

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/f3rmion/tkg/bjj"
	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/ed25519"
	"github.com/f3rmion/tkg/group"
	"github.com/f3rmion/tkg/secp256k1"
)

// Network identifies the external blockchain a key is generated for.
type Network string

const (
	Bitcoin  Network = "bitcoin"
	Ethereum Network = "ethereum"
	Monero   Network = "monero"
	Iden3    Network = "iden3"
)

// ErrUnknownNetwork is returned for a network with no registered curve.
var ErrUnknownNetwork = errors.New("unknown network")

var networkGroups = map[Network]func() group.Group{
	Bitcoin:  func() group.Group { return secp256k1.New() },
	Ethereum: func() group.Group { return secp256k1.New() },
	Monero:   func() group.Group { return ed25519.New() },
	Iden3:    func() group.Group { return bjj.New() },
}

// Networks lists the supported networks in lexical order.
func Networks() []Network {
	out := make([]Network, 0, len(networkGroups))
	for n := range networkGroups {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Group returns the native curve of n.
func (n Network) Group() (group.Group, error) {
	newGroup, ok := networkGroups[n]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownNetwork, "%q", string(n))
	}
	return newGroup(), nil
}

// SubstrateGroup is the curve of every substrate key. Substrate keys are
// RFC 8032 compressed edwards25519 points, not Ristretto255 encodings.
func SubstrateGroup() group.Group {
	return ed25519.New()
}

// Lanes returns the curves a ceremony for n deals on: the substrate curve
// first, then the network's curve.
func (n Network) Lanes() (dkg.Lanes, error) {
	g, err := n.Group()
	if err != nil {
		return nil, err
	}
	return dkg.Lanes{SubstrateGroup(), g}, nil
}

// EthereumAddress renders a secp256k1 network key as an Ethereum account
// address. The identity has no address.
func EthereumAddress(networkKey []byte) (common.Address, error) {
	p, err := secp256k1.New().NewPoint().SetBytes(networkKey)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "decoding network key")
	}
	pub := p.(*secp256k1.Point).PublicKey()
	if pub == nil {
		return common.Address{}, errors.Wrap(ErrDegenerateKey, "network key is the identity")
	}
	return crypto.PubkeyToAddress(*pub.ToECDSA()), nil
}
