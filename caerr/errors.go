// Package caerr defines the typed error kinds shared by the CBC and RSA
// attack engines, so callers can distinguish hard-invariant violations from
// search-negative results via errors.Is, instead of matching error strings.
package caerr

import "errors"

var (
	// ErrInvalidArgument signals an out-of-range size, a non-block-multiple
	// length, or otherwise inconsistent input lengths.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidKey signals a contradictory (n, p, q) or a d not coprime to
	// (p-1)(q-1).
	ErrInvalidKey = errors.New("invalid key")

	// ErrOracleExhausted signals that a padding oracle returned false for
	// all 256 guesses at one position, with no fallback available.
	ErrOracleExhausted = errors.New("oracle exhausted: no accepting guess found")

	// ErrBadPadding signals that the is_correct path found a padding length
	// outside [1, blockSize].
	ErrBadPadding = errors.New("bad padding length")

	// ErrAttackFailed signals that a search-based attack completed without
	// finding a solution (Wiener non-match, Håstad non-exact root,
	// Bleichenbacher range exhausted, ...). Callers combining multiple
	// attacks should treat this as an absent result, not a hard failure.
	ErrAttackFailed = errors.New("attack failed to find a solution")

	// ErrOracleError wraps a structurally invalid oracle response or an
	// error the oracle itself raised.
	ErrOracleError = errors.New("oracle error")
)
