// Package secp256k1 provides secp256k1 as a [group.Group], backed by the
// decred implementation.
//
// It is the network lane for Bitcoin and Ethereum, whose signers use
// secp256k1 keys natively.
//
// # Curve Parameters
//
// secp256k1 is the short Weierstrass curve
//
//	y^2 = x^3 + 7
//
// over the prime field of order p = 2^256 - 2^32 - 977. The curve has
// cofactor 1; the group of points has prime order
//
//	n = 115792089237316195423570985008687907852837564279074904382605163141518161494337
//
// Scalars are 32-byte big-endian integers below n. Points encode as 33-byte
// SEC1 compressed keys. The point at infinity has no SEC1 compressed form
// and is encoded as 33 zero bytes; it only appears in commitments to zero
// coefficients.
//
// # Usage
//
// Create the group and deal a polynomial on it:
//
//	g := secp256k1.New()
//	d, err := dkg.NewDealer(g, threshold, index, rand.Reader, context)
//
// A non-identity [Point] converts to a decred public key with
// [Point.PublicKey], from which Bitcoin and Ethereum encodings follow.
//
// # Security
//
// This implementation relies on decred's constant-time field and scalar
// arithmetic. Scalars at or above n are rejected on decoding, as are
// encodings of points not on the curve. With cofactor 1 every decoded point
// lies in the prime-order group. Scalars can be erased with Zero once they
// are no longer needed.
package secp256k1
