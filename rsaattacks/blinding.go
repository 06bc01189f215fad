package rsaattacks

import (
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// RawOracle is a raw RSA signing or decryption oracle: it returns x^d mod n
// for a fixed, unknown d. The same blinding math serves both roles: a
// signing oracle over a blinded message and a decryption oracle over a
// blinded ciphertext are algebraically identical.
type RawOracle func(x *big.Int) (*big.Int, error)

// Blind recovers, for every text pair on k that carries exactly one of
// Cipher/Plain, the missing field by blinding the known value with a random
// factor, sending the blinded value through oracle, and unblinding the
// result. This defeats an oracle that otherwise refuses to sign or decrypt
// the same value twice.
func Blind(k *rsakey.Key, oracle RawOracle) error {
	if oracle == nil {
		return fmt.Errorf("%w: blinding requires a signing or decryption oracle", caerr.ErrInvalidArgument)
	}

	var (
		two     = big.NewInt(2)
		hundred = big.NewInt(100)
	)

	for i := range k.Texts {
		tp := &k.Texts[i]

		var (
			target      *big.Int
			assignPlain bool
		)
		switch {
		case tp.HasCipher() && !tp.HasPlain():
			target, assignPlain = tp.Cipher, true
		case tp.HasPlain() && !tp.HasCipher():
			target, assignPlain = tp.Plain, false
		default:
			continue
		}

		r, err := camath.RandomInt(two, hundred)
		if err != nil {
			return fmt.Errorf("blinding: %w", err)
		}

		rPrime := k.Encrypt(r)
		blinded := new(big.Int).Mul(target, rPrime)
		blinded.Mod(blinded, k.N)

		y, err := oracle(blinded)
		if err != nil {
			return fmt.Errorf("%w: %s", caerr.ErrOracleError, err)
		}

		rInv, err := camath.InvMod(r, k.N)
		if err != nil {
			return fmt.Errorf("blinding: %w", err)
		}

		result := new(big.Int).Mul(y, rInv)
		result.Mod(result, k.N)

		if assignPlain {
			tp.Plain = result
		} else {
			tp.Cipher = result
		}
	}

	return nil
}
