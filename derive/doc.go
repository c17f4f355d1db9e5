// Package derive turns the output of the verifiable secret sharing into a
// [KeyPair]: a 32-byte substrate key on edwards25519 and a network key on
// the external network's native curve.
//
// Each ceremony deals on two lanes, one per curve. For each lane the local
// combined secret shares are checked to be non-zero and consistent with
// the published commitments, and the group key (the sum of every dealer's
// constant-term commitment) is encoded. Both lanes are derived before the
// caller wipes the [Material].
//
// Network keys use the native compressed point encoding of each curve:
//
//	bitcoin, ethereum  33-byte SEC1 compressed secp256k1 point
//	monero             32-byte compressed edwards25519 point
//	iden3              32-byte compressed Baby Jubjub point
package derive
