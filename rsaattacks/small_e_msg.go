package rsaattacks

import (
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// defaultMaxTimes bounds how many multiples of n are tried when no caller
// override is given.
const defaultMaxTimes = 100

// SmallEMsg recovers plaintexts on a key with a small public exponent by
// searching, for each ciphertext-only text pair, for a k in [0, maxTimes)
// such that c+k*n is a perfect e-th power. maxTimes <= 0 uses
// defaultMaxTimes. It mutates the matching text pairs' Plain field in place
// and returns every plaintext it recovered.
func SmallEMsg(k *rsakey.Key, maxTimes int) []*big.Int {
	if maxTimes <= 0 {
		maxTimes = defaultMaxTimes
	}

	e := int(k.E.Int64())

	var recovered []*big.Int
	for i := range k.Texts {
		tp := &k.Texts[i]
		if !tp.HasCipher() || tp.HasPlain() {
			continue
		}

		candidate := new(big.Int).Set(tp.Cipher)
		for times := 0; times < maxTimes; times++ {
			if m, exact := camath.IRoot(candidate, e); exact {
				tp.Plain = m
				recovered = append(recovered, m)
				break
			}
			candidate.Add(candidate, k.N)
		}
	}

	return recovered
}
