package rsaattacks

import (
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// ParityOracle returns the least significant bit of the plaintext a
// ciphertext decrypts to under some fixed private key.
type ParityOracle func(ciphertext *big.Int) (bit int, err error)

// ParityDecrypt recovers the plaintext of every ciphertext-only text pair on
// k using an LSB parity oracle, via the classic halving-interval attack:
// multiplying the ciphertext by Enc(2) doubles the plaintext mod n, and the
// oracle's bit tells which half of the remaining interval the (doubled,
// reduced) plaintext fell into.
func ParityDecrypt(k *rsakey.Key, oracle ParityOracle) (*big.Int, error) {
	if oracle == nil {
		return nil, fmt.Errorf("%w: parity decryption requires an oracle", caerr.ErrInvalidArgument)
	}

	var (
		encTwo = k.Encrypt(big.NewInt(2))
		one    = big.NewInt(1)
		two    = big.NewInt(2)
	)

	var recovered *big.Int
	for i := range k.Texts {
		tp := &k.Texts[i]
		if !tp.HasCipher() || tp.HasPlain() {
			continue
		}

		c := new(big.Int).Set(tp.Cipher)
		num := big.NewInt(0)
		den := big.NewInt(1)
		lo := big.NewInt(0)
		hi := new(big.Int).Set(k.N)

		for {
			diff := new(big.Int).Sub(hi, lo)
			if diff.Cmp(one) <= 0 {
				break
			}

			c.Mul(c, encTwo)
			c.Mod(c, k.N)
			num.Mul(num, two)
			den.Mul(den, two)

			bit, err := oracle(c)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", caerr.ErrOracleError, err)
			}
			if bit == 1 {
				num.Add(num, one)
			}

			lo = new(big.Int).Div(new(big.Int).Mul(k.N, num), den)
			hi = new(big.Int).Div(new(big.Int).Mul(k.N, new(big.Int).Add(num, one)), den)
		}

		tp.Plain = new(big.Int).Set(hi)
		recovered = tp.Plain
	}

	if recovered == nil {
		return nil, fmt.Errorf("%w: no ciphertext-only text pair to decrypt", caerr.ErrInvalidArgument)
	}

	return recovered, nil
}
