// Package cacbc implements the CBC padding-oracle decryption and ciphertext
// forgery engine: byte-at-a-time plaintext recovery from a decryption
// oracle, and the inverse direction, forging a ciphertext that decrypts to
// chosen plaintext.
package cacbc

// PaddingOracle is a black-box distinguisher between valid and invalid
// PKCS#7 padding. It reports whether iv‖payload decrypts (under some fixed,
// unknown key) to plaintext ending in valid PKCS#7 padding. prevResponse
// threads caller-owned session state (an HTTP cookie, a socket) between
// calls; it is returned unchanged by the oracle on the first call (nil in,
// nil out is fine for stateless oracles) and passed back in on every
// subsequent call within the same attack.
//
// Calls are issued strictly in sequence; the engine never calls a
// PaddingOracle concurrently with itself.
type PaddingOracle func(payload, iv []byte, prevResponse any) (ok bool, nextResponse any, err error)
