package keygen

import (
	"io"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/messages"
)

type ceremonyKey struct {
	network derive.Network
	id      messages.KeyGenID
}

type sessionKey struct {
	network derive.Network
	session messages.Session
}

// Manager owns every ceremony of one processor, keyed by
// (network, session, attempt), and the confirmed key pair of each
// (network, session).
type Manager struct {
	mu      sync.Mutex
	log     *zap.Logger
	rng     io.Reader
	metrics *metrics

	ceremonies map[ceremonyKey]*ceremony
	confirmed  map[sessionKey]*Confirmation
	halted     map[derive.Network]error
}

// NewManager returns an empty Manager.
func NewManager(cfg Config) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		log:        cfg.Logger,
		rng:        cfg.Rand,
		metrics:    newMetrics(cfg.Registerer),
		ceremonies: make(map[ceremonyKey]*ceremony),
		confirmed:  make(map[sessionKey]*Confirmation),
		halted:     make(map[derive.Network]error),
	}
}

// Handle advances the ceremony msg addresses and returns the message to
// send back, if any.
//
// Duplicate, stale and out-of-order phase messages are logged and ignored:
// Handle returns (nil, nil) and the ceremony is unchanged. Validation
// failures abort the attempt and are returned; the coordinator must start
// a new attempt.
func (m *Manager) Handle(network derive.Network, msg messages.CoordinatorMessage) (messages.ProcessorMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if reason, ok := m.halted[network]; ok {
		return nil, errors.Wrapf(ErrNetworkHalted, "%s: %v", network, reason)
	}

	switch msg := msg.(type) {
	case messages.GenerateKey:
		out, err := m.generateKey(network, msg)
		if out == nil {
			return nil, err
		}
		return *out, err
	case messages.Commitments:
		out, err := m.commitments(network, msg)
		if out == nil {
			return nil, err
		}
		return *out, err
	case messages.Shares:
		out, err := m.shares(network, msg)
		if out == nil {
			return nil, err
		}
		return *out, err
	case messages.ConfirmKeyPair:
		return nil, m.confirm(network, msg)
	default:
		return nil, errors.Wrapf(ErrUnsupportedMessage, "%T", msg)
	}
}

func (m *Manager) logger(network derive.Network, id messages.KeyGenID) *zap.Logger {
	return m.log.With(
		zap.String("network", string(network)),
		zap.Uint32("session", uint32(id.Session)),
		zap.Uint32("attempt", id.Attempt),
	)
}

func (m *Manager) stale(log *zap.Logger, network derive.Network, phase, reason string) {
	m.metrics.stale.WithLabelValues(string(network), phase).Inc()
	log.Warn("ignoring phase message", zap.String("phase", phase), zap.String("reason", reason))
}

func (m *Manager) aborted(log *zap.Logger, network derive.Network, phase string, err error) {
	m.metrics.ceremonies.WithLabelValues(string(network), "aborted").Inc()
	fields := []zap.Field{zap.String("phase", phase), zap.Error(err)}
	if culprit, ok := dkg.Culprit(err); ok {
		fields = append(fields, zap.Uint16("culprit", uint16(culprit)))
	}
	log.Error("ceremony aborted", fields...)
}

func (m *Manager) generateKey(network derive.Network, msg messages.GenerateKey) (*messages.ProcessorCommitments, error) {
	log := m.logger(network, msg.ID)
	key := ceremonyKey{network: network, id: msg.ID}

	if _, ok := m.confirmed[sessionKey{network: network, session: msg.ID.Session}]; ok {
		m.stale(log, network, phaseGenerateKey, "session already confirmed")
		return nil, nil
	}
	if c, ok := m.ceremonies[key]; ok {
		m.stale(log, network, phaseGenerateKey, "ceremony exists in state "+c.state.String())
		return nil, nil
	}

	c, err := newCeremony(network, msg)
	if err != nil {
		log.Warn("rejecting key generation request", zap.Error(err))
		return nil, err
	}
	out, err := c.generate(m.rng)
	m.ceremonies[key] = c
	if err != nil {
		m.aborted(log, network, phaseGenerateKey, err)
		return nil, err
	}
	log.Info("generated commitments",
		zap.Uint16("t", msg.Params.Threshold),
		zap.Uint16("n", msg.Params.Total),
		zap.Uint16("i", uint16(msg.Params.Index)),
		zap.Uint16("shares", msg.Shares))
	return out, nil
}

func (m *Manager) commitments(network derive.Network, msg messages.Commitments) (*messages.ProcessorShares, error) {
	log := m.logger(network, msg.ID)
	c, ok := m.ceremonies[ceremonyKey{network: network, id: msg.ID}]
	if !ok {
		m.stale(log, network, phaseCommitments, "unknown ceremony")
		return nil, nil
	}
	if c.state != StateAwaitingCommitments {
		m.stale(log, network, phaseCommitments, "ceremony in state "+c.state.String())
		return nil, nil
	}

	out, err := c.handleCommitments(msg)
	if err != nil {
		m.aborted(log, network, phaseCommitments, err)
		return nil, err
	}
	log.Info("verified commitments, dealt shares", zap.Int("participants", len(msg.Commitments)))
	return out, nil
}

func (m *Manager) shares(network derive.Network, msg messages.Shares) (*messages.GeneratedKeyPair, error) {
	log := m.logger(network, msg.ID)
	c, ok := m.ceremonies[ceremonyKey{network: network, id: msg.ID}]
	if !ok {
		m.stale(log, network, phaseShares, "unknown ceremony")
		return nil, nil
	}
	if c.state != StateAwaitingShares {
		m.stale(log, network, phaseShares, "ceremony in state "+c.state.String())
		return nil, nil
	}

	out, err := c.handleShares(msg)
	if err != nil {
		m.aborted(log, network, phaseShares, err)
		return nil, err
	}
	m.metrics.ceremonies.WithLabelValues(string(network), "derived").Inc()
	log.Info("derived key pair",
		zap.Binary("substrate_key", out.SubstrateKey[:]),
		zap.Binary("network_key", out.NetworkKey))
	return out, nil
}

// attempts returns the ceremonies of one session, ordered by attempt.
func (m *Manager) attempts(network derive.Network, session messages.Session) []ceremonyKey {
	var keys []ceremonyKey
	for k := range m.ceremonies {
		if k.network == network && k.id.Session == session {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].id.Attempt < keys[j].id.Attempt })
	return keys
}

// State reports the phase of one attempt.
func (m *Manager) State(network derive.Network, id messages.KeyGenID) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.ceremonies[ceremonyKey{network: network, id: id}]; ok {
		return c.state
	}
	return StateIdle
}

// KeyPair returns the key pair of a derived or confirmed attempt.
func (m *Manager) KeyPair(network derive.Network, id messages.KeyGenID) (derive.KeyPair, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.ceremonies[ceremonyKey{network: network, id: id}]
	if !ok || (c.state != StateDerived && c.state != StateConfirmed) {
		return derive.KeyPair{}, false
	}
	return c.keyPair, true
}

// Halted returns the reason network was halted, or nil.
func (m *Manager) Halted(network derive.Network) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.halted[network]
}

// Resume clears a halt after manual intervention. Confirmations recorded
// before the halt are kept.
func (m *Manager) Resume(network derive.Network) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.halted[network]; ok {
		delete(m.halted, network)
		m.log.Warn("network resumed", zap.String("network", string(network)))
	}
}
