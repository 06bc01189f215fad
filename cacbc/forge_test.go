package cacbc

import (
	"bytes"
	"testing"
)

func TestForge(t *testing.T) {
	key := []byte("YELLOW SUBMARINE")

	oracle, err := NewLocalOracle(key)
	if err != nil {
		t.Fatalf("building oracle: %s", err)
	}

	newPlainText := []byte("I am an admin now")
	newPlainText = append(newPlainText, bytes.Repeat([]byte{byte(16 - len(newPlainText)%16)}, 16-len(newPlainText)%16)...)

	forged, err := Forge(newPlainText, 16, oracle, ForgeOptions{})
	if err != nil {
		t.Fatalf("forge: %s", err)
	}

	iv := forged[:16]
	cipherText := forged[16:]

	block, err := decryptCBCForTest(key, iv, cipherText)
	if err != nil {
		t.Fatalf("decrypting forged ciphertext: %s", err)
	}

	if !bytes.Equal(block, newPlainText) {
		t.Errorf("want: %q\ngot: %q", newPlainText, block)
	}
}
