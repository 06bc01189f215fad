package cacbc

import (
	"bytes"
	"fmt"

	"github.com/pwnedkeys/cryptoattacks/cabytes"
	"github.com/pwnedkeys/cryptoattacks/caerr"
)

// ForgeOptions configures a Forge call. The zero value forges a ciphertext
// from a synthetic 'A'-filled original ciphertext and no known-plaintext
// shortcut.
type ForgeOptions struct {
	// OriginalCiphertext, if non-nil, supplies the ciphertext whose last
	// data block is reused as the forged ciphertext's final block. Its
	// length plus len(IV) must equal len(newPlaintext) + blockSize.
	OriginalCiphertext []byte

	// IV, if non-nil, is prepended ahead of OriginalCiphertext instead of
	// treating OriginalCiphertext's own first block as the IV.
	IV []byte

	// OriginalPlaintext, if non-nil, is a known already-padded plaintext
	// for the final block of OriginalCiphertext. It is consumed once, to
	// speed up the first block of the forge, and then discarded.
	OriginalPlaintext []byte
}

// Forge produces a ciphertext of length len(newPlaintext)+blockSize that
// decrypts to newPlaintext under the same (unknown) key the oracle serves,
// by repeatedly mounting single-block padding-oracle decryptions against a
// working copy of the ciphertext and patching the preceding block so it
// decrypts to the desired plaintext block.
func Forge(newPlaintext []byte, blockSize int, oracle PaddingOracle, opts ForgeOptions) ([]byte, error) {
	if len(newPlaintext) == 0 || len(newPlaintext)%blockSize != 0 {
		return nil, fmt.Errorf(
			"%w: new plaintext length %d is not a positive multiple of block size %d",
			caerr.ErrInvalidArgument, len(newPlaintext), blockSize,
		)
	}

	origCipher := opts.OriginalCiphertext
	if origCipher == nil {
		origCipher = bytes.Repeat([]byte{'A'}, len(newPlaintext)+blockSize)
	}

	ivLen := 0
	if opts.IV != nil {
		ivLen = len(opts.IV)
	}
	if len(origCipher)+ivLen != len(newPlaintext)+blockSize {
		return nil, fmt.Errorf(
			"%w: len(original ciphertext)+len(iv) must equal len(new plaintext)+block size",
			caerr.ErrInvalidArgument,
		)
	}

	forged := make([]byte, len(newPlaintext)+blockSize)
	if opts.IV != nil {
		copy(forged, opts.IV)
		copy(forged[len(opts.IV):], origCipher)
	} else {
		copy(forged, origCipher)
	}

	n := len(newPlaintext) / blockSize
	knownPlaintext := opts.OriginalPlaintext

	for i := n; i >= 1; i-- {
		window := forged[:(i+1)*blockSize]

		intermediate, err := Decrypt(window, blockSize, oracle, Options{
			Amount:         1,
			KnownPlaintext: knownPlaintext,
			IsCorrect:      i == n && opts.OriginalCiphertext != nil,
		})
		if err != nil {
			return nil, fmt.Errorf("forging block %d: %w", i, err)
		}
		knownPlaintext = nil // consumed once

		var (
			prevStart = (i - 1) * blockSize
			prevEnd   = prevStart + blockSize
		)
		patched, err := cabytes.Blocks(forged[prevStart:prevEnd], intermediate)
		if err != nil {
			return nil, err
		}
		patched, err = cabytes.Blocks(patched, newPlaintext[prevStart:prevEnd])
		if err != nil {
			return nil, err
		}

		copy(forged[prevStart:prevEnd], patched)
	}

	return forged, nil
}
