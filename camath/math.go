// Package camath is the arbitrary-precision math substrate the RSA attack
// catalog is built on: modular exponentiation/inverse, gcd, CRT, integer
// nth/square roots, continued fractions and convergents, and the 2-adic
// valuation used by factors-from-d.
//
// Everything here is a thin, well-tested wrapper over math/big. No
// third-party arbitrary-precision library appears anywhere in the retrieval
// pack (see DESIGN.md), so this is the one package in the module that is
// deliberately stdlib-only.
package camath

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/caerr"
)

// PowMod returns a^b mod m.
func PowMod(a, b, m *big.Int) *big.Int {
	return new(big.Int).Exp(a, b, m)
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// InvMod returns a^-1 mod m. It fails if a and m are not coprime.
func InvMod(a, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(a, m)
	if inv == nil {
		return nil, fmt.Errorf("%w: %s has no inverse mod %s", caerr.ErrInvalidArgument, a, m)
	}
	return inv, nil
}

// CRT reconstructs the unique residue mod the product of moduli, given
// pairwise-coprime moduli and their corresponding residues.
func CRT(residues, moduli []*big.Int) (*big.Int, error) {
	if len(residues) != len(moduli) {
		return nil, fmt.Errorf("%w: residues and moduli must have the same length", caerr.ErrInvalidArgument)
	}
	if len(residues) == 0 {
		return nil, fmt.Errorf("%w: crt needs at least one residue", caerr.ErrInvalidArgument)
	}

	var (
		x = new(big.Int).Set(residues[0])
		n = new(big.Int).Set(moduli[0])
	)
	for i := 1; i < len(residues); i++ {
		ni := moduli[i]
		// Solve x + n*t ≡ residues[i] (mod ni) for t.
		invN, err := InvMod(new(big.Int).Mod(n, ni), ni)
		if err != nil {
			return nil, fmt.Errorf("crt: moduli are not pairwise coprime: %w", err)
		}

		diff := new(big.Int).Sub(residues[i], x)
		diff.Mod(diff, ni)

		t := new(big.Int).Mul(diff, invN)
		t.Mod(t, ni)

		x.Add(x, new(big.Int).Mul(n, t))
		n.Mul(n, ni)
		x.Mod(x, n)
	}

	return x, nil
}

// IRoot returns the floor of the nth root of x, together with a flag
// reporting whether that root is exact (root^n == x).
func IRoot(x *big.Int, n int) (*big.Int, bool) {
	if x.Sign() < 0 || n <= 0 {
		return new(big.Int), false
	}
	if x.Sign() == 0 {
		return new(big.Int), true
	}

	root := nthRoot(x, n)
	check := new(big.Int).Exp(root, big.NewInt(int64(n)), nil)
	return root, check.Cmp(x) == 0
}

// nthRoot computes floor(x^(1/n)) via Newton's method on integers.
func nthRoot(x *big.Int, n int) *big.Int {
	if n == 1 {
		return new(big.Int).Set(x)
	}

	var (
		big1  = big.NewInt(1)
		bigN  = big.NewInt(int64(n))
		bigN1 = big.NewInt(int64(n - 1))
		guess = new(big.Int).Lsh(big1, uint(x.BitLen()/n+1))
	)

	for {
		// next = ((n-1)*guess + x/guess^(n-1)) / n
		powed := new(big.Int).Exp(guess, bigN1, nil)
		quotient := new(big.Int).Div(x, powed)

		next := new(big.Int).Mul(guess, bigN1)
		next.Add(next, quotient)
		next.Div(next, bigN)

		if next.Cmp(guess) >= 0 {
			break
		}
		guess = next
	}

	// Newton's method can undershoot by one on the way down; nudge up if so.
	for new(big.Int).Exp(new(big.Int).Add(guess, big1), bigN, nil).Cmp(x) <= 0 {
		guess.Add(guess, big1)
	}
	for new(big.Int).Exp(guess, bigN, nil).Cmp(x) > 0 {
		guess.Sub(guess, big1)
	}

	return guess
}

// ISqrt returns the floor of the integer square root of x.
func ISqrt(x *big.Int) *big.Int {
	return new(big.Int).Sqrt(x)
}

// ContinuedFraction returns the finite continued-fraction expansion of the
// rational a/b: [a0; a1, a2, ...] such that a/b = a0 + 1/(a1 + 1/(a2 + ...)).
func ContinuedFraction(a, b *big.Int) []*big.Int {
	var (
		cf   []*big.Int
		x, y = new(big.Int).Set(a), new(big.Int).Set(b)
		zero = big.NewInt(0)
		q    = new(big.Int)
		r    = new(big.Int)
	)
	for y.Cmp(zero) != 0 {
		q.DivMod(x, y, r)
		cf = append(cf, new(big.Int).Set(q))
		x, y = y, r
		r = new(big.Int)
	}

	return cf
}

// Convergents returns the sequence of convergents (h_k, k_k) of a continued
// fraction expansion.
func Convergents(cf []*big.Int) [][2]*big.Int {
	var (
		convergents    [][2]*big.Int
		hPrev2, hPrev1 = big.NewInt(0), big.NewInt(1)
		kPrev2, kPrev1 = big.NewInt(1), big.NewInt(0)
	)
	for _, a := range cf {
		h := new(big.Int).Mul(a, hPrev1)
		h.Add(h, hPrev2)

		k := new(big.Int).Mul(a, kPrev1)
		k.Add(k, kPrev2)

		convergents = append(convergents, [2]*big.Int{h, k})

		hPrev2, hPrev1 = hPrev1, h
		kPrev2, kPrev1 = kPrev1, k
	}

	return convergents
}

// PowerOfTwo returns the largest v such that 2^v divides x (x's 2-adic
// valuation), along with x/2^v (the odd part of x).
func PowerOfTwo(x *big.Int) (v int, odd *big.Int) {
	odd = new(big.Int).Set(x)
	two := big.NewInt(2)
	zero := big.NewInt(0)
	for new(big.Int).Mod(odd, two).Cmp(zero) == 0 && odd.Cmp(zero) != 0 {
		odd.Div(odd, two)
		v++
	}
	return v, odd
}

// RandomInt returns a cryptographically random integer uniformly distributed
// in [lo, hi].
func RandomInt(lo, hi *big.Int) (*big.Int, error) {
	if lo.Cmp(hi) > 0 {
		return nil, fmt.Errorf("%w: lo is greater than hi", caerr.ErrInvalidArgument)
	}

	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return nil, fmt.Errorf("generating random integer: %w", err)
	}

	return n.Add(n, lo), nil
}
