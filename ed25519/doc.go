// Package ed25519 provides the prime-order subgroup of edwards25519 as a
// [group.Group], backed by filippo.io/edwards25519.
//
// It serves two roles in the key generation ceremony: the substrate lane
// (every ceremony derives its 32-byte substrate key on this curve) and the
// network lane for networks whose native keys are Ed25519-style points,
// such as Monero.
//
// # Curve Parameters
//
// edwards25519 is the twisted Edwards curve
//
//	-x^2 + y^2 = 1 + d*x^2*y^2
//
// with d = -121665/121666 over the prime field of order p = 2^255 - 19.
// The curve has cofactor 8 and a prime-order subgroup of size
//
//	l = 2^252 + 27742317777372353535851937790883648493
//
// Scalars are 32-byte little-endian integers below l. Points use the RFC
// 8032 compressed form: the little-endian y coordinate with the sign of x
// in the top bit.
//
// # Usage
//
// Create the group and deal a polynomial on it:
//
//	g := ed25519.New()
//	d, err := dkg.NewDealer(g, threshold, index, rand.Reader, context)
//
// The Ed25519 type implements [group.Group] and can be used anywhere a
// Group is required.
//
// # Security
//
// Decoding is strict. Scalars at or above l are rejected, point encodings
// with y >= p or a set sign bit on x = 0 are rejected, and points with a
// torsion component are rejected, so every decoded value has exactly one
// encoding and lies in the prime-order subgroup. Scalars can be erased with
// Zero once they are no longer needed.
package ed25519
