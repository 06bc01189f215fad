package rsaattacks

import (
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// PaddingFunc maps a message integer and the key's size in bits (Key.Size) to the padded
// integer that was actually signed (e.g. a PKCS#1 v1.5 block). A nil
// PaddingFunc means the message itself was signed unpadded.
type PaddingFunc func(message *big.Int, size int) *big.Int

// Faulty recovers a private key from a Boneh–DeMillo–Lipton faulty-CRT
// signature: a single RSA-CRT signature corrupted in one of its two
// half-computations leaks a factor of the modulus via a gcd.
//
// It first looks, across every key, for a text pair carrying both a message
// and a (possibly faulty) signature: p = gcd(s^e - m, n). Failing that, it
// falls back to pairing up every two signatures on the same modulus
// (assumed to be over the same message): p = gcd(s - s', n). The first
// nontrivial factor found yields the derived private key.
func Faulty(keys []*rsakey.Key, pad PaddingFunc) (*rsakey.Key, error) {
	one := big.NewInt(1)

	for _, k := range keys {
		for _, tp := range k.Texts {
			if !tp.HasCipher() || !tp.HasPlain() {
				continue
			}

			m := tp.Plain
			if pad != nil {
				m = pad(tp.Plain, k.Size)
			}

			sExp := camath.PowMod(tp.Cipher, k.E, k.N)
			diff := new(big.Int).Sub(sExp, m)

			p := camath.GCD(diff, k.N)
			if p.Cmp(one) > 0 && p.Cmp(k.N) < 0 {
				return derivePrivate(k, p)
			}
		}
	}

	type keyedSig struct {
		key *rsakey.Key
		s   *big.Int
	}
	var sigs []keyedSig
	for _, k := range keys {
		for _, tp := range k.Texts {
			if tp.HasCipher() {
				sigs = append(sigs, keyedSig{k, tp.Cipher})
			}
		}
	}

	for i := 0; i < len(sigs); i++ {
		for j := i + 1; j < len(sigs); j++ {
			if sigs[i].key != sigs[j].key {
				continue
			}

			diff := new(big.Int).Sub(sigs[i].s, sigs[j].s)
			p := camath.GCD(diff, sigs[i].key.N)
			if p.Sign() != 0 && p.Cmp(one) > 0 && p.Cmp(sigs[i].key.N) < 0 {
				return derivePrivate(sigs[i].key, p)
			}
		}
	}

	return nil, fmt.Errorf("%w: faulty-crt found no nontrivial factor", caerr.ErrAttackFailed)
}
