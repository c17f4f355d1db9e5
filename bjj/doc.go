// Package bjj provides a Baby Jubjub elliptic curve implementation of the
// [group.Group] interface.
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254 (also known as alt_bn128). It is the native key curve of iden3
// identities, which is what the key generation ceremony uses it for.
//
// This package wraps the Baby Jubjub implementation from gnark-crypto.
//
// # Curve Parameters
//
// Baby Jubjub is defined by the equation:
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2
//
// where a = 168700 and d = 168696 over the BN254 scalar field.
//
// The curve has cofactor 8 and a prime-order subgroup of size:
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// # Security
//
// Decoded points are checked to lie in the prime-order subgroup, and
// scalars must be canonical (below the subgroup order).
package bjj
