package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/f3rmion/tkg/derive"
	"github.com/f3rmion/tkg/messages"
)

func TestParseWeights(t *testing.T) {
	weights, err := parseWeights(nil, 3)
	require.NoError(t, err)
	require.Equal(t, []uint16{1, 1, 1}, weights)

	weights, err = parseWeights([]int{2, 1, 1}, 4)
	require.NoError(t, err)
	require.Equal(t, []uint16{2, 1, 1}, weights)

	_, err = parseWeights([]int{2, 1}, 4)
	require.Error(t, err)
	_, err = parseWeights([]int{0, 4}, 4)
	require.Error(t, err)

	_, err = parseWeights(nil, 0)
	require.Error(t, err)
	_, err = parseWeights(nil, math.MaxUint16+1)
	require.Error(t, err)
	_, err = parseWeights([]int{math.MaxUint16 + 1}, math.MaxUint16+1)
	require.Error(t, err)

	weights, err = parseWeights([]int{math.MaxUint16}, math.MaxUint16)
	require.NoError(t, err)
	require.Equal(t, []uint16{math.MaxUint16}, weights)
}

func TestSimulationRejectsEmptyOrOversizedSets(t *testing.T) {
	_, err := newSimulation(zaptest.NewLogger(t), derive.Bitcoin, 1, nil)
	require.Error(t, err)

	_, err = newSimulation(zaptest.NewLogger(t), derive.Bitcoin, 1, []uint16{math.MaxUint16, 1})
	require.Error(t, err)
}

func TestSimulation(t *testing.T) {
	sim, err := newSimulation(zaptest.NewLogger(t), derive.Bitcoin, 3, []uint16{2, 1, 1})
	require.NoError(t, err)

	kp, err := sim.run(messages.KeyGenID{Session: 1})
	require.NoError(t, err)
	require.Len(t, kp.NetworkKey, 33)

	conf, err := sim.confirm(1, kp)
	require.NoError(t, err)
	require.True(t, conf.KeyPair.Equal(kp))

	_, err = newSimulation(zaptest.NewLogger(t), derive.Bitcoin, 5, []uint16{1, 1})
	require.Error(t, err)
}
