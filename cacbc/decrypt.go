package cacbc

import (
	"fmt"

	"github.com/pwnedkeys/cryptoattacks/cabytes"
	"github.com/pwnedkeys/cryptoattacks/caerr"
)

// Options configures a Decrypt call. The zero value decrypts every data
// block of ciphertext, treating its first block as an unrecoverable IV and
// assuming no prior knowledge of the plaintext.
type Options struct {
	// IV, if non-nil, is prepended to ciphertext's blocks and is never
	// itself decrypted. If nil, ciphertext's own first block plays that
	// role.
	IV []byte

	// IsCorrect asserts that ciphertext is known to decrypt to plaintext
	// with valid PKCS#7 padding. The engine uses this to discover the real
	// padding length from the first block it processes instead of forging
	// one from scratch.
	IsCorrect bool

	// Amount, if > 0, limits decryption to the last Amount data blocks
	// instead of all of them.
	Amount int

	// KnownPlaintext is an already-padded suffix of the eventual
	// plaintext. The engine skips oracle queries for the full blocks and
	// trailing bytes it covers.
	KnownPlaintext []byte

	// OnByte, if non-nil, is called after each plaintext byte is
	// recovered, with the 1-indexed data block number and the byte's
	// position within it. It exists purely for progress reporting; the
	// engine never inspects its return value.
	OnByte func(block, pos int, b byte)
}

// Decrypt recovers the plaintext of ciphertext (or the portion selected by
// opts.Amount) by mounting a byte-at-a-time CBC padding-oracle attack
// against oracle, working backward from the last block and, within each
// block, from its last byte.
func Decrypt(ciphertext []byte, blockSize int, oracle PaddingOracle, opts Options) ([]byte, error) {
	if blockSize <= 0 || blockSize%8 != 0 {
		return nil, fmt.Errorf("%w: block size %d is not a positive multiple of 8", caerr.ErrInvalidArgument, blockSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf(
			"%w: ciphertext length %d is not a positive multiple of block size %d",
			caerr.ErrInvalidArgument, len(ciphertext), blockSize,
		)
	}

	chunks, err := cabytes.Chunks(ciphertext, blockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: chunking ciphertext: %s", caerr.ErrInvalidArgument, err)
	}

	var blocks [][]byte
	if opts.IV != nil {
		if len(opts.IV) != blockSize {
			return nil, fmt.Errorf(
				"%w: iv length %d does not match block size %d",
				caerr.ErrInvalidArgument, len(opts.IV), blockSize,
			)
		}
		blocks = append([][]byte{opts.IV}, chunks...)
	} else {
		if len(chunks) < 2 {
			return nil, fmt.Errorf(
				"%w: ciphertext must contain an iv block and at least one data block",
				caerr.ErrInvalidArgument,
			)
		}
		blocks = chunks
	}

	nData := len(blocks) - 1

	amount := opts.Amount
	if amount == 0 {
		amount = nData
	}
	if amount < 0 || amount > nData {
		return nil, fmt.Errorf(
			"%w: amount %d exceeds the number of data blocks %d",
			caerr.ErrInvalidArgument, amount, nData,
		)
	}
	firstBlock := nData - amount + 1

	skipFull := len(opts.KnownPlaintext) / blockSize
	partial := len(opts.KnownPlaintext) % blockSize

	plainBlocks := make([][]byte, nData+1) // 1-indexed; index 0 unused

	known := opts.KnownPlaintext
	for i := nData; i > nData-skipFull && i >= firstBlock; i-- {
		start := len(known) - blockSize
		plainBlocks[i] = known[start:]
		known = known[:start]
	}

	lastBlock := nData - skipFull
	if lastBlock < firstBlock {
		lastBlock = firstBlock - 1 // everything in range is already known
	}

	isCorrectPending := opts.IsCorrect
	for i := lastBlock; i >= firstBlock; i-- {
		var knownTail []byte
		if i == lastBlock && partial > 0 {
			knownTail = known[len(known)-partial:]
		}

		plainBlk, err := decryptBlock(blocks[i-1], blocks[i], blockSize, oracle, &isCorrectPending, knownTail, onByteForBlock(opts.OnByte, i))
		if err != nil {
			return nil, err
		}
		plainBlocks[i] = plainBlk

		// is_correct, if it ever applies, applies only to the very first
		// block processed (the real last block of the original
		// ciphertext); every subsequent block is forged from scratch.
		isCorrectPending = false
	}

	var out []byte
	for i := firstBlock; i <= nData; i++ {
		out = append(out, plainBlocks[i]...)
	}

	return out, nil
}

// onByteForBlock binds a block index to an Options.OnByte callback, or
// returns a no-op if the caller didn't supply one.
func onByteForBlock(onByte func(block, pos int, b byte), block int) func(pos int, b byte) {
	if onByte == nil {
		return func(int, byte) {}
	}
	return func(pos int, b byte) { onByte(block, pos, b) }
}

// decryptBlock recovers a single data block's plaintext by tampering with a
// working copy of prev (the preceding ciphertext block or IV), one byte at
// a time from the end of the block to the start.
func decryptBlock(
	prev, cur []byte,
	blockSize int,
	oracle PaddingOracle,
	isCorrect *bool,
	knownTail []byte,
	onByte func(pos int, b byte),
) ([]byte, error) {
	var (
		plainBlk = make([]byte, blockSize)
		working  = append([]byte(nil), prev...)
		prevResp any
	)

	// Bytes already known from a supplied plaintext suffix need no oracle
	// queries; just record them and prepare working so the next (unknown)
	// position targets the correct padding length.
	for i := 0; i < len(knownTail); i++ {
		idx := blockSize - 1 - i
		knownByte := knownTail[len(knownTail)-1-i]
		padding := byte(len(knownTail) + 1)

		plainBlk[idx] = knownByte
		working[idx] = prev[idx] ^ knownByte ^ padding
	}

	for pos := blockSize - 1 - len(knownTail); pos >= 0; {
		padding := byte(blockSize - pos)

		atFirstCorrectPos := isCorrect != nil && *isCorrect && pos == blockSize-1
		atUncheckedLastPos := pos == blockSize-1 && !atFirstCorrectPos

		found := false
		var guess byte

		for g := 0; g < 256; g++ {
			if atFirstCorrectPos && byte(g) == prev[pos] {
				// Replays the original, already-known-valid ciphertext; it
				// teaches us nothing new.
				continue
			}

			working[pos] = byte(g)

			ok, next, err := oracle(cur, working, prevResp)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", caerr.ErrOracleError, err)
			}
			prevResp = next

			if !ok {
				continue
			}

			if atUncheckedLastPos {
				// False-positive check: the accepted byte might only look
				// valid because the real plaintext block already ended in
				// \x02\x02, \x03\x03\x03, etc., not \x01. Flip the next byte
				// to the left; genuine \x01 padding never examines that
				// byte, so the query still succeeds. Reject (keep
				// searching) if flipping it broke the padding instead.
				altWorking := append([]byte(nil), working...)
				altWorking[pos-1] ^= 0xFF

				altOK, altNext, altErr := oracle(cur, altWorking, prevResp)
				if altErr != nil {
					return nil, fmt.Errorf("%w: %s", caerr.ErrOracleError, altErr)
				}
				prevResp = altNext

				if !altOK {
					continue // false positive, keep searching
				}
			}

			found = true
			guess = byte(g)
			break
		}

		if !found {
			if atFirstCorrectPos {
				// No byte other than the original produced valid padding:
				// fall back to assuming padding 0x01.
				plainBlk[pos] = 1
				working[pos] = prev[pos] ^ 1 ^ 2
				onByte(pos, 1)
				pos--
				*isCorrect = false
				continue
			}
			return nil, caerr.ErrOracleExhausted
		}

		if atFirstCorrectPos {
			k := int(guess ^ prev[pos] ^ padding)
			if k < 1 || k > blockSize {
				return nil, fmt.Errorf("%w: discovered padding length %d", caerr.ErrBadPadding, k)
			}

			for j := 0; j < k; j++ {
				idx := blockSize - 1 - j
				plainBlk[idx] = byte(k)
				working[idx] = prev[idx] ^ byte(k) ^ byte(k+1)
				onByte(idx, byte(k))
			}

			pos = pos - k + 1 - 1
			*isCorrect = false
			continue
		}

		d := guess ^ prev[pos] ^ padding
		plainBlk[pos] = d
		// Retarget every recovered byte of the block at the next padding
		// length, not just the one found here.
		for j := pos; j < blockSize; j++ {
			working[j] = prev[j] ^ plainBlk[j] ^ (padding + 1)
		}
		onByte(pos, d)
		pos--
	}

	return plainBlk, nil
}
