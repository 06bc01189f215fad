package rsaattacks

import (
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// Wiener recovers the private key of a public key with a small private
// exponent (d < n^(1/4)/3) by walking the convergents of the continued
// fraction expansion of e/n, per Wiener's attack. It returns AttackFailed if
// no convergent yields a valid factorization.
func Wiener(k *rsakey.Key) (*rsakey.Key, error) {
	var (
		one  = big.NewInt(1)
		two  = big.NewInt(2)
		four = big.NewInt(4)
	)

	cf := camath.ContinuedFraction(k.E, k.N)
	for _, conv := range camath.Convergents(cf) {
		kCand, dCand := conv[0], conv[1]
		if kCand.Sign() == 0 {
			continue
		}

		// phi = (e*d - 1) / k, only valid when k divides e*d - 1 exactly.
		edMinus1 := new(big.Int).Mul(k.E, dCand)
		edMinus1.Sub(edMinus1, one)

		rem := new(big.Int).Mod(edMinus1, kCand)
		if rem.Sign() != 0 {
			continue
		}
		phi := new(big.Int).Div(edMinus1, kCand)

		// p, q are the roots of x^2 - b*x + n = 0 where b = n - phi + 1.
		b := new(big.Int).Sub(k.N, phi)
		b.Add(b, one)

		disc := new(big.Int).Mul(b, b)
		disc.Sub(disc, new(big.Int).Mul(four, k.N))
		if disc.Sign() <= 0 {
			continue
		}

		sqrtDisc, exact := camath.IRoot(disc, 2)
		if !exact || new(big.Int).Mod(sqrtDisc, two).Sign() != 0 {
			continue
		}

		p := new(big.Int).Add(b, sqrtDisc)
		p.Div(p, two)
		q := new(big.Int).Sub(b, sqrtDisc)
		q.Div(q, two)

		if new(big.Int).Mul(p, q).Cmp(k.N) != 0 {
			continue
		}

		priv, err := rsakey.New(k.N, k.E, nil, p, q)
		if err != nil {
			continue
		}
		priv.Identifier = k.DerivedIdentifier()
		priv.Texts = k.CopyTexts()

		return priv, nil
	}

	return nil, fmt.Errorf("%w: wiener found no matching convergent", caerr.ErrAttackFailed)
}
