// Package dkg implements the verifiable secret sharing at the core of the
// key generation ceremony: threshold parameter validation, Feldman
// commitments, proofs of knowledge, share evaluation and verification.
//
// # Protocol
//
// For a t-of-n ceremony each participant, once per curve ("lane"):
//
//  1. Samples a random polynomial f of degree t-1 with [NewDealer], and
//     publishes the commitments C_k = a_k*G with a proof of knowledge of a_0.
//  2. After receiving every other participant's commitments and checking
//     their proofs with [VerifyProof], sends f(j) privately to each
//     participant j via [Dealer.Share].
//  3. Checks every received share with [VerifyShare], then sums them with
//     its own evaluation into its secret share using [CombineShares].
//
// The group public key is the sum of every dealer's C_0 ([GroupKey]); it is
// identical for all honest participants and no participant ever learns the
// corresponding private key.
//
// Weighted validators host several consecutive participant indices; each
// index deals independently (see [ThresholdParams.Locals]).
//
// # Errors
//
// Failures that can be attributed to a sender are returned as
// [*ParticipantError], which unwraps to [ErrMalformedCommitments] or
// [ErrInvalidShare]; use [Culprit] to recover the sender.
package dkg
