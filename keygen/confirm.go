package keygen

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/messages"
)

const confirmationTag = "tkg/keygen/confirm/v1"

// Confirmation is the canonical key pair of one (network, session).
type Confirmation struct {
	Network derive.Network
	Session messages.Session
	// Attempt is the attempt that produced KeyPair.
	Attempt uint32
	KeyPair derive.KeyPair
	Context messages.SubstrateContext
	// Digest commits to all of the above except Attempt.
	Digest [32]byte
}

func confirmationDigest(network derive.Network, msg messages.ConfirmKeyPair) [32]byte {
	buf := []byte(confirmationTag)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(network)))
	buf = append(buf, string(network)...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(msg.Session))
	buf = binary.BigEndian.AppendUint64(buf, uint64(msg.Context.Time.Unix()))
	buf = binary.BigEndian.AppendUint32(buf, uint32(msg.Context.Time.Nanosecond()))
	buf = append(buf, msg.Context.LatestFinalizedBlock[:]...)
	buf = append(buf, msg.KeyPair.SubstrateKey[:]...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(msg.KeyPair.NetworkKey)))
	buf = append(buf, msg.KeyPair.NetworkKey...)
	return blake2b.Sum256(buf)
}

// confirm records the first confirmation of a session. Replays of the same
// key pair are no-ops; a different key pair halts the network.
func (m *Manager) confirm(network derive.Network, msg messages.ConfirmKeyPair) error {
	log := m.log.With(
		zap.String("network", string(network)),
		zap.Uint32("session", uint32(msg.Session)),
	)
	sk := sessionKey{network: network, session: msg.Session}

	if prior, ok := m.confirmed[sk]; ok {
		if prior.KeyPair.Equal(msg.KeyPair) {
			m.stale(log, network, phaseConfirm, "already confirmed")
			return nil
		}
		err := errors.Wrapf(ErrConsistencyViolation,
			"session %d of %s confirmed with substrate key %x, now %x",
			msg.Session, network, prior.KeyPair.SubstrateKey, msg.KeyPair.SubstrateKey)
		m.halted[network] = err
		m.metrics.halts.WithLabelValues(string(network)).Inc()
		log.Error("halting network", zap.Error(err))
		return err
	}

	var match *ceremonyKey
	keys := m.attempts(network, msg.Session)
	for i, k := range keys {
		c := m.ceremonies[k]
		if c.state == StateDerived && c.keyPair.Equal(msg.KeyPair) {
			match = &keys[i]
			break
		}
	}
	if match == nil {
		log.Warn("confirmation names an unknown key pair",
			zap.Binary("substrate_key", msg.KeyPair.SubstrateKey[:]),
			zap.Binary("network_key", msg.KeyPair.NetworkKey))
		return errors.Wrapf(ErrUnknownKeyPair, "session %d of %s", msg.Session, network)
	}

	for _, k := range keys {
		c := m.ceremonies[k]
		if k == *match {
			c.discard()
			c.state = StateConfirmed
			continue
		}
		c.abort(nil)
		delete(m.ceremonies, k)
	}

	m.confirmed[sk] = &Confirmation{
		Network: network,
		Session: msg.Session,
		Attempt: match.id.Attempt,
		KeyPair: msg.KeyPair,
		Context: msg.Context,
		Digest:  confirmationDigest(network, msg),
	}
	m.metrics.ceremonies.WithLabelValues(string(network), "confirmed").Inc()
	log.Info("confirmed key pair", zap.Uint32("attempt", match.id.Attempt))
	return nil
}

// Confirmation returns the canonical key pair of a session, if confirmed.
func (m *Manager) Confirmation(network derive.Network, session messages.Session) (Confirmation, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.confirmed[sessionKey{network: network, session: session}]
	if !ok {
		return Confirmation{}, false
	}
	return *c, true
}
