package keygen

import (
	"github.com/pkg/errors"
)

var (
	// ErrConsistencyViolation means a session was confirmed with a key pair
	// different from its first confirmation. The network is halted.
	ErrConsistencyViolation = errors.New("confirmation inconsistent with prior confirmation")
	// ErrUnknownKeyPair means a confirmation named a key pair no derived
	// attempt of the session produced.
	ErrUnknownKeyPair = errors.New("confirmation for a key pair this processor did not generate")
	// ErrNetworkHalted is returned for every message to a halted network
	// until it is resumed.
	ErrNetworkHalted = errors.New("network halted pending manual intervention")
	// ErrUnsupportedMessage is returned for message types the manager does
	// not handle.
	ErrUnsupportedMessage = errors.New("unsupported coordinator message")
)
