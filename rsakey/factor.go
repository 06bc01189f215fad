package rsakey

import (
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/camath"
)

// maxFactorAttempts bounds the number of random bases tried before
// FactorsFromD gives up. A single base fails to split n only when it
// belongs to the rare subgroup where every square root of 1 it touches is
// trivial; in practice one or two bases suffice.
const maxFactorAttempts = 64

// FactorsFromD recovers the prime factors of n given only the public
// exponent e and the private exponent d, using the standard ed-1
// factorization method (Boneh, "Twenty Years of Attacks on the RSA
// Cryptosystem", §2): k = ed-1 is a multiple of the group order, so writing
// k = 2^t*r with r odd and repeatedly squaring a random base's r-th power
// eventually exposes a nontrivial square root of 1 mod n, which splits n via
// a gcd.
func FactorsFromD(n, e, d *big.Int) (p, q *big.Int, err error) {
	k := new(big.Int).Mul(e, d)
	k.Sub(k, big.NewInt(1))

	t, r := camath.PowerOfTwo(k)
	if t == 0 {
		return nil, nil, fmt.Errorf("%w: ed-1 is odd, cannot factor", caerr.ErrAttackFailed)
	}

	one := big.NewInt(1)
	nMinus1 := new(big.Int).Sub(n, one)

	for attempt := 0; attempt < maxFactorAttempts; attempt++ {
		g, err := camath.RandomInt(big.NewInt(2), nMinus1)
		if err != nil {
			return nil, nil, fmt.Errorf("sampling candidate base: %w", err)
		}

		y := camath.PowMod(g, r, n)
		for i := 0; i < t; i++ {
			x := new(big.Int).Set(y)
			y = new(big.Int).Exp(y, big.NewInt(2), n)

			if y.Cmp(one) == 0 && x.Cmp(one) != 0 && x.Cmp(nMinus1) != 0 {
				xMinus1 := new(big.Int).Sub(x, one)
				factor := camath.GCD(xMinus1, n)
				if factor.Cmp(one) != 0 && factor.Cmp(n) != 0 {
					other := new(big.Int).Div(n, factor)
					if factor.Cmp(other) <= 0 {
						return factor, other, nil
					}
					return other, factor, nil
				}
			}
		}
	}

	return nil, nil, fmt.Errorf("%w: factors-from-d exhausted %d random bases", caerr.ErrAttackFailed, maxFactorAttempts)
}
