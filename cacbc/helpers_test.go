package cacbc

import (
	"crypto/aes"
	"crypto/cipher"
)

// decryptCBCForTest performs a raw AES-CBC decryption with no padding
// validation, so tests can check a forged ciphertext's plaintext exactly,
// padding bytes included.
func decryptCBCForTest(key, iv, cipherText []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(cipherText))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, cipherText)

	return plain, nil
}
