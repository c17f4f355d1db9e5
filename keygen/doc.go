// Package keygen runs the processor side of threshold key generation for
// bridge validators.
//
// A Manager receives coordinator messages for any number of networks and
// ceremonies and answers each with at most one processor message. Every
// ceremony is keyed by (network, session, attempt) and moves through
//
//	idle -> awaiting_commitments -> awaiting_shares -> derived -> confirmed
//
// or to aborted on the first validation failure. A validator may host
// several consecutive participant indices; each runs its own polynomial on
// both the substrate curve and the network's curve.
//
// Once the coordinator confirms a key pair for a session, it is the only
// key pair that session will ever have. A later confirmation naming a
// different pair halts the network until Resume is called.
package keygen
