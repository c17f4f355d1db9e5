package messages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/f3rmion/tkg/dkg"
)

func TestKeyGenIDString(t *testing.T) {
	require.Equal(t, "3/1", KeyGenID{Session: 3, Attempt: 1}.String())
}

func TestParticipantKeyedJSON(t *testing.T) {
	msg := Commitments{
		ID:          KeyGenID{Session: 1},
		Commitments: map[dkg.Participant][]byte{2: {0xaa}, 10: {0xbb}},
	}
	enc, err := json.Marshal(msg)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":{"session":1,"attempt":0},"commitments":{"2":"qg==","10":"uw=="}}`, string(enc))

	var decoded Commitments
	require.NoError(t, json.Unmarshal(enc, &decoded))
	require.Equal(t, msg, decoded)
}

func TestGeneratedKeyPair(t *testing.T) {
	msg := GeneratedKeyPair{NetworkKey: []byte{1, 2}}
	msg.SubstrateKey[0] = 7
	kp := msg.KeyPair()
	require.Equal(t, byte(7), kp.SubstrateKey[0])
	require.Equal(t, []byte{1, 2}, kp.NetworkKey)
}
