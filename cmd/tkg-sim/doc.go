// Package main (cmd/tkg-sim) runs a complete key generation ceremony between
// validators hosted in one process, then confirms the result.
//
// Each validator gets its own keygen.Manager; the command plays the
// coordinator, relaying commitments to everyone and shares point to point.
// The derived keys and the confirmation digest are printed on success.
//
// Example, a 3-of-4 ceremony where the first validator holds two indices:
//
//	tkg-sim --network=bitcoin --threshold=3 --participants=4 --shares=2,1,1
package main
