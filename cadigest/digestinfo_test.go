package cadigest

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestASN1PrefixSHA1Matches(t *testing.T) {
	got, err := ASN1Prefix(SHA1)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	want, _ := hex.DecodeString("3021300906052b0e03021a05000414")
	if !bytes.Equal(got, want) {
		t.Errorf("want %x\ngot %x", want, got)
	}
}

func TestASN1PrefixUnknownHash(t *testing.T) {
	if _, err := ASN1Prefix("sha3"); err == nil {
		t.Fatal("want an error for an unrecognized hash id")
	}
}

func TestPKCS1v15BlockShape(t *testing.T) {
	hash := bytes.Repeat([]byte{0xAB}, 20) // sha1-sized digest
	const size = 128                       // 1024-bit key

	block, err := PKCS1v15Block(SHA1, hash, size)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(block) != size {
		t.Fatalf("want %d bytes, got %d", size, len(block))
	}
	if block[0] != 0x00 || block[1] != 0x01 {
		t.Fatalf("want block to start 00 01, got %02x %02x", block[0], block[1])
	}

	prefix, _ := ASN1Prefix(SHA1)
	digestInfo := append(prefix, hash...)
	if !bytes.HasSuffix(block, digestInfo) {
		t.Error("want block to end with the digestinfo and hash")
	}

	sepIdx := size - len(digestInfo) - 1
	if block[sepIdx] != 0x00 {
		t.Errorf("want 0x00 separator at index %d, got 0x%02x", sepIdx, block[sepIdx])
	}
	for _, b := range block[2:sepIdx] {
		if b != 0xFF {
			t.Error("want all padding bytes to be 0xFF")
			break
		}
	}
}

func TestPKCS1v15BlockTooSmall(t *testing.T) {
	hash := bytes.Repeat([]byte{0xAB}, 64) // sha512-sized digest
	if _, err := PKCS1v15Block(SHA512, hash, 16); err == nil {
		t.Fatal("want an error when size is too small to hold the block")
	}
}
