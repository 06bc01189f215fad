package rsaattacks

import (
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// CommonPrimes checks every unordered pair of keys for a shared prime
// factor (gcd(n_i, n_j) != 1) and, for each pair found, derives the private
// key for both moduli. It returns every derived private key, or
// AttackFailed if no pair shares a factor.
func CommonPrimes(keys []*rsakey.Key) ([]*rsakey.Key, error) {
	one := big.NewInt(1)

	var derived []*rsakey.Key
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			p := camath.GCD(keys[i].N, keys[j].N)
			if p.Cmp(one) == 0 {
				continue
			}

			for _, src := range []*rsakey.Key{keys[i], keys[j]} {
				priv, err := derivePrivate(src, p)
				if err != nil {
					continue
				}
				derived = append(derived, priv)
			}
		}
	}

	if len(derived) == 0 {
		return nil, fmt.Errorf("%w: no pair of moduli shares a prime factor", caerr.ErrAttackFailed)
	}

	return derived, nil
}
