package keygen

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/dkg"
	"github.com/f3rmion/tkg/messages"
)

func TestConfirmKeyPair(t *testing.T) {
	c := newCluster(t, derive.Monero, 2, 1, 1, 1)
	id := messages.KeyGenID{Session: 12, Attempt: 3}
	kp := c.run(id)

	c.confirm(id.Session, kp)
	c.requireState(id, StateConfirmed)

	var digest [32]byte
	for i, v := range c.validators {
		conf, ok := v.m.Confirmation(c.network, id.Session)
		require.True(t, ok)
		require.Equal(t, c.network, conf.Network)
		require.Equal(t, id.Session, conf.Session)
		require.Equal(t, id.Attempt, conf.Attempt)
		require.True(t, conf.KeyPair.Equal(kp))
		require.NotEqual(t, [32]byte{}, conf.Digest)
		if i == 0 {
			digest = conf.Digest
		}
		require.Equal(t, digest, conf.Digest)

		got, ok := v.m.KeyPair(c.network, id)
		require.True(t, ok)
		require.True(t, got.Equal(kp))
	}

	// Replays are no-ops.
	c.confirm(id.Session, kp)
	for _, v := range c.validators {
		require.NoError(t, v.m.Halted(c.network))
		require.Equal(t, 1.0, testutil.ToFloat64(v.m.metrics.ceremonies.WithLabelValues(string(c.network), "confirmed")))
		require.Equal(t, 1.0, testutil.ToFloat64(v.m.metrics.stale.WithLabelValues(string(c.network), phaseConfirm)))
	}
}

func TestConfirmMismatchHaltsNetwork(t *testing.T) {
	c := newCluster(t, derive.Ethereum, 1, 1)
	v := c.validators[0]
	id := messages.KeyGenID{Session: 1}
	kp := c.run(id)
	c.confirm(id.Session, kp)

	forged := kp
	forged.SubstrateKey[0] ^= 1
	out, err := v.m.Handle(c.network, confirmKeyPair(id.Session, forged))
	require.Nil(t, out)
	require.ErrorIs(t, err, ErrConsistencyViolation)
	require.ErrorIs(t, v.m.Halted(c.network), ErrConsistencyViolation)
	require.Equal(t, 1.0, testutil.ToFloat64(v.m.metrics.halts.WithLabelValues(string(c.network))))

	next := messages.GenerateKey{ID: messages.KeyGenID{Session: 2}, Params: v.params, Shares: v.shares}
	_, err = v.m.Handle(c.network, next)
	require.ErrorIs(t, err, ErrNetworkHalted)
	_, err = v.m.Handle(c.network, confirmKeyPair(id.Session, kp))
	require.ErrorIs(t, err, ErrNetworkHalted)
	require.Equal(t, StateIdle, v.m.State(c.network, next.ID))

	// Other networks keep running.
	out, err = v.m.Handle(derive.Bitcoin, next)
	require.NoError(t, err)
	require.IsType(t, messages.ProcessorCommitments{}, out)

	v.m.Resume(c.network)
	require.NoError(t, v.m.Halted(c.network))

	conf, ok := v.m.Confirmation(c.network, id.Session)
	require.True(t, ok)
	require.True(t, conf.KeyPair.Equal(kp))
	out, err = v.m.Handle(c.network, confirmKeyPair(id.Session, kp))
	require.NoError(t, err)
	require.Nil(t, out)

	out, err = v.m.Handle(c.network, next)
	require.NoError(t, err)
	require.IsType(t, messages.ProcessorCommitments{}, out)
}

func TestConfirmUnknownKeyPair(t *testing.T) {
	c := newCluster(t, derive.Bitcoin, 2, 1, 1)
	v := c.validators[0]
	id := messages.KeyGenID{Session: 6}

	var unknown derive.KeyPair
	unknown.SubstrateKey[0] = 1
	unknown.NetworkKey = []byte{2}

	_, err := v.m.Handle(c.network, confirmKeyPair(id.Session, unknown))
	require.ErrorIs(t, err, ErrUnknownKeyPair)

	c.commit(id, c.generateKey(id))
	_, err = v.m.Handle(c.network, confirmKeyPair(id.Session, unknown))
	require.ErrorIs(t, err, ErrUnknownKeyPair)
	require.NoError(t, v.m.Halted(c.network))
	require.Equal(t, StateAwaitingShares, v.m.State(c.network, id))
	_, ok := v.m.Confirmation(c.network, id.Session)
	require.False(t, ok)
}

func TestConfirmIgnoresAbortedAttempts(t *testing.T) {
	c := newCluster(t, derive.Iden3, 2, 1, 1)
	v := c.validators[0]
	aborted := messages.KeyGenID{Session: 8, Attempt: 0}
	good := messages.KeyGenID{Session: 8, Attempt: 1}

	c.generateKey(aborted)
	_, err := v.m.Handle(c.network, messages.Commitments{ID: aborted, Commitments: map[dkg.Participant][]byte{}})
	require.ErrorIs(t, err, dkg.ErrIncompleteParticipantSet)

	kp := c.run(good)
	c.confirm(good.Session, kp)
	require.Equal(t, StateIdle, v.m.State(c.network, aborted))
	require.Equal(t, StateConfirmed, v.m.State(c.network, good))
}

func TestConfirmationDigest(t *testing.T) {
	kp := derive.KeyPair{SubstrateKey: [32]byte{1}, NetworkKey: []byte{2, 3}}
	base := confirmKeyPair(1, kp)
	digest := confirmationDigest(derive.Bitcoin, base)
	require.Equal(t, digest, confirmationDigest(derive.Bitcoin, base))

	later := base
	later.Context.Time = base.Context.Time.Add(time.Second)
	block := base
	block.Context.LatestFinalizedBlock[31] = 1
	session := base
	session.Session = 2
	key := base
	key.KeyPair.NetworkKey = []byte{2, 4}

	for _, msg := range []messages.ConfirmKeyPair{later, block, session, key} {
		require.NotEqual(t, digest, confirmationDigest(derive.Bitcoin, msg))
	}
	require.NotEqual(t, digest, confirmationDigest(derive.Ethereum, base))
}

func TestConfirmationDigestTimeRange(t *testing.T) {
	kp := derive.KeyPair{SubstrateKey: [32]byte{1}, NetworkKey: []byte{2, 3}}
	at := func(ts time.Time) [32]byte {
		msg := confirmKeyPair(1, kp)
		msg.Context.Time = ts
		return confirmationDigest(derive.Bitcoin, msg)
	}

	// 2^64 nanoseconds apart, which wraps to the same int64 nanosecond count.
	require.NotEqual(t, at(time.Unix(0, 0)), at(time.Unix(18446744073, 709551616)))
	require.NotEqual(t,
		at(time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)),
		at(time.Date(2300, 1, 1, 0, 0, 0, 0, time.UTC)))

	base := time.Date(2300, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NotEqual(t, at(base), at(base.Add(time.Nanosecond)))
	require.Equal(t, at(base), at(base.In(time.FixedZone("UTC+2", 2*60*60))))
}
