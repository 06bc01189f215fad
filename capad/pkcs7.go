// Package capad implements PKCS#7 padding: apply, validate, and strip.
// Validate returns a boolean verdict as a first-class value, so the CBC
// oracle engine can consume it directly instead of only a success/error
// outcome.
package capad

import "fmt"

// Apply pads data to a multiple of size by appending k copies of byte value
// k, where k is chosen in [1, size] (always at least one byte of padding,
// even when len(data) is already a multiple of size). A size of 256 or more
// is treated as 255, since a padding byte cannot hold a larger count.
// Apply does not modify the input slice.
func Apply(data []byte, size int) []byte {
	if size >= 256 {
		// can't fit numbers >= 256 in one byte of padding.
		size = 255
	}

	pad := size - len(data)%size
	padded := make([]byte, len(data)+pad)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(pad)
	}

	return padded
}

// Validate reports whether data ends in valid PKCS#7 padding for a block of
// the given size, and if so returns the padding length k (1 <= k <= size).
// It does not require len(data) to itself be a multiple of size; it only
// inspects the trailing bytes, which is what the CBC oracle engine needs
// since it validates one decrypted block at a time.
func Validate(data []byte, size int) (k int, ok bool) {
	if len(data) == 0 {
		return 0, false
	}

	k = int(data[len(data)-1])
	if k < 1 || k > size || k > len(data) {
		return 0, false
	}

	for i := len(data) - k; i < len(data); i++ {
		if data[i] != byte(k) {
			return 0, false
		}
	}

	return k, true
}

// Strip removes PKCS#7 padding from data, returning an error if the padding
// is malformed.
// Strip does not modify the input slice.
func Strip(data []byte, size int) ([]byte, error) {
	k, ok := Validate(data, size)
	if !ok {
		return nil, fmt.Errorf("invalid PKCS#7 padding")
	}

	return data[:len(data)-k], nil
}
