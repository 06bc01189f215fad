// Package cabytes provides the byte substrate shared by the CBC and RSA
// attack engines: fixed-block chunking, big-endian integer conversion, and
// variadic XOR with cyclic/broadcast extension of short operands.
package cabytes

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
)

// Chunks splits data into blocks of the given size. The last block may be
// shorter than size if len(data) is not a multiple of it.
// Chunks does not modify the input slice.
func Chunks(data []byte, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be greater than 0", caerr.ErrInvalidArgument)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: data is empty", caerr.ErrInvalidArgument)
	}

	nChunks := (len(data) + size - 1) / size
	chunks := make([][]byte, 0, nChunks)
	for i := 0; i < len(data); i += size {
		end := i + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[i:end])
	}

	return chunks, nil
}

// XOR XORs together two or more byte strings. Operands shorter than the
// longest one are cyclically extended to its length; in particular, a
// single-byte operand acts as a mask broadcast across the other operand's
// length. XOR does not modify its inputs.
func XOR(operands ...[]byte) ([]byte, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%w: xor needs at least two operands", caerr.ErrInvalidArgument)
	}

	longest := 0
	for _, op := range operands {
		if len(op) == 0 {
			return nil, fmt.Errorf("%w: xor operand is empty", caerr.ErrInvalidArgument)
		}
		if len(op) > longest {
			longest = len(op)
		}
	}

	out := make([]byte, longest)
	copy(out, operands[0])
	for i := 1; i < longest; i++ {
		if i >= len(operands[0]) {
			out[i] = operands[0][i%len(operands[0])]
		}
	}

	for _, op := range operands[1:] {
		for i := range out {
			out[i] ^= op[i%len(op)]
		}
	}

	return out, nil
}

// Blocks XORs two byte slices of equal length, byte by byte. It is a strict
// (non-cyclic) special case of XOR, kept for call sites that want a hard
// length-mismatch error instead of silent cyclic extension.
// Blocks does not modify the input slices.
func Blocks(b1, b2 []byte) ([]byte, error) {
	if len(b1) != len(b2) {
		return nil, fmt.Errorf(
			"%w: input blocks are of different lengths: %d and %d",
			caerr.ErrInvalidArgument, len(b1), len(b2),
		)
	}

	xored := make([]byte, len(b1))
	for i := range xored {
		xored[i] = b1[i] ^ b2[i]
	}

	return xored, nil
}

// B2I interprets a byte string as a big-endian unsigned integer.
func B2I(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// I2B encodes a nonnegative integer as a big-endian byte string. If size is
// given (size > 0), the result is left-padded with 0x00 to size/8 bytes; it
// is an error for the integer to not fit in that width.
func I2B(x *big.Int, size ...int) ([]byte, error) {
	if x.Sign() < 0 {
		return nil, fmt.Errorf("%w: cannot encode a negative integer", caerr.ErrInvalidArgument)
	}

	raw := x.Bytes()
	if len(size) == 0 || size[0] == 0 {
		if len(raw) == 0 {
			return []byte{0}, nil
		}
		return raw, nil
	}

	width := size[0] / 8
	if len(raw) > width {
		return nil, fmt.Errorf(
			"%w: integer does not fit in %d bytes", caerr.ErrInvalidArgument, width,
		)
	}

	out := make([]byte, width)
	copy(out[width-len(raw):], raw)
	return out, nil
}

// Random returns a slice of cryptographically random bytes whose length is
// chosen uniformly at random in [min, max].
func Random(min, max uint) ([]byte, error) {
	if min > max {
		return nil, fmt.Errorf("%w: min is greater than max: %d > %d", caerr.ErrInvalidArgument, min, max)
	}

	rangeMax := new(big.Int).SetUint64(uint64(max - min + 1))
	nBig, err := rand.Int(rand.Reader, rangeMax)
	if err != nil {
		return nil, fmt.Errorf("generating random slice length: %w", err)
	}

	n := min + uint(nBig.Uint64())
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("filling buffer with random bytes: %w", err)
	}

	return buf, nil
}
