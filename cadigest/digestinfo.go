// Package cadigest holds the ASN.1 DigestInfo prefixes used to assemble and
// recognize PKCS#1 v1.5 signature blocks, the DigestInfo helper the
// Bleichenbacher attacks build on, and a full-block assembler.
package cadigest

import (
	"encoding/hex"
	"fmt"

	"github.com/pwnedkeys/cryptoattacks/caerr"
)

// HashID names a hash algorithm recognized for PKCS#1 v1.5 DigestInfo
// construction.
type HashID string

const (
	MD5    HashID = "md5"
	SHA1   HashID = "sha1"
	SHA256 HashID = "sha256"
	SHA384 HashID = "sha384"
	SHA512 HashID = "sha512"
)

// prefixHex holds the bit-exact ASN.1 DigestInfo prefix, preceding the raw
// hash bytes, for each supported hash algorithm.
var prefixHex = map[HashID]string{
	MD5:    "3020300c06082a864886f70d020505000410",
	SHA1:   "3021300906052b0e03021a05000414",
	SHA256: "3031300d060960864801650304020105000420",
	SHA384: "3041300d060960864801650304020205000430",
	SHA512: "3051300d060960864801650304020305000440",
}

// ASN1Prefix returns the DigestInfo prefix bytes (everything before the raw
// hash digest) for id.
func ASN1Prefix(id HashID) ([]byte, error) {
	hx, ok := prefixHex[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown hash id %q", caerr.ErrInvalidArgument, id)
	}
	b, err := hex.DecodeString(hx)
	if err != nil {
		// unreachable for the fixed table above, but fail loudly rather
		// than silently returning garbage if it's ever edited wrong.
		return nil, fmt.Errorf("decoding digestinfo prefix for %s: %w", id, err)
	}
	return b, nil
}

// DigestInfo returns ASN1Prefix(id) ‖ hash, the full DigestInfo encoding of a
// precomputed hash value.
func DigestInfo(id HashID, hash []byte) ([]byte, error) {
	prefix, err := ASN1Prefix(id)
	if err != nil {
		return nil, err
	}
	return append(prefix, hash...), nil
}

// PKCS1v15Block assembles a full PKCS#1 v1.5 signature block of the given
// byte size: 00 01 FF..FF 00 DigestInfo(id, hash).
func PKCS1v15Block(id HashID, hash []byte, size int) ([]byte, error) {
	digestInfo, err := DigestInfo(id, hash)
	if err != nil {
		return nil, err
	}

	// 00 01 and the 00 separator before DigestInfo; the FF run may be empty.
	const overhead = 3
	if size < len(digestInfo)+overhead {
		return nil, fmt.Errorf("%w: size %d too small for a %s block", caerr.ErrInvalidArgument, size, id)
	}

	block := make([]byte, size)
	block[0] = 0x00
	block[1] = 0x01
	for i := 2; i < size-len(digestInfo)-1; i++ {
		block[i] = 0xFF
	}
	block[size-len(digestInfo)-1] = 0x00
	copy(block[size-len(digestInfo):], digestInfo)

	return block, nil
}
