package cacbc

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/pwnedkeys/cryptoattacks/capad"
)

// NewLocalOracle wraps an AES key in a PaddingOracle that decrypts iv‖payload
// with AES-CBC and reports whether the result ends in valid PKCS#7 padding.
// It is meant for tests and local demos: a stand-in for a real network
// padding oracle, never for production use, since it leaks no less and no
// more than a real padding oracle would.
func NewLocalOracle(key []byte) (PaddingOracle, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("instantiating AES cipher: %w", err)
	}

	return func(payload, iv []byte, prevResponse any) (bool, any, error) {
		if len(iv) != block.BlockSize() || len(payload)%block.BlockSize() != 0 {
			return false, prevResponse, nil
		}

		plain := make([]byte, len(payload))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, payload)

		_, ok := capad.Validate(plain, block.BlockSize())
		return ok, prevResponse, nil
	}, nil
}

// EncryptCBC encrypts plainText (after PKCS#7-padding it to the cipher's
// block size) under key and iv. It is the encryption half of NewLocalOracle,
// used to build ciphertexts to attack in tests and demos.
func EncryptCBC(key, iv, plainText []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("instantiating AES cipher: %w", err)
	}

	padded := capad.Apply(plainText, block.BlockSize())

	cipherText := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(cipherText, padded)

	return cipherText, nil
}
