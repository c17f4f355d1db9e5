// Package group defines abstract interfaces for the prime-order groups
// used by the key generation ceremony.
//
// This package provides three core interfaces that abstract over the
// mathematical operations needed for Feldman verifiable secret sharing:
//
//   - [Scalar]: Elements of the scalar field (integers modulo the group order)
//   - [Point]: Elements of the group (points on an elliptic curve)
//   - [Group]: Factory and utility methods for creating scalars and points
//
// # Design
//
// The interfaces use a mutable receiver pattern. Operations like Add, Mul,
// and ScalarMult set the receiver to the result and return it, allowing
// method chaining while minimizing allocations:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// Encodings are fixed-length per group ([Group.ScalarLen],
// [Group.PointLen]) so that ceremony messages can be parsed without
// framing.
//
// # Implementations
//
//   - ed25519: edwards25519 (substrate keys, Ed25519-style networks)
//   - secp256k1: secp256k1 (Bitcoin, Ethereum)
//   - bjj: Baby Jubjub (iden3)
//
// # Security Considerations
//
// Implementations must ensure:
//
//   - Scalar arithmetic is performed modulo the group order
//   - Random scalars are generated from cryptographically secure sources
//   - SetBytes rejects non-canonical scalars and points outside the
//     prime-order subgroup, since every encoding it sees comes from a
//     potentially malicious peer
package group
