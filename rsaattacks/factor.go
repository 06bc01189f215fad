// Package rsaattacks is the RSA attack catalog: key recovery from partial
// information, Håstad broadcast, Wiener small-d, common-prime gcd,
// Boneh–DeMillo–Lipton faulty-CRT, parity-oracle decryption, blinding, and
// Bleichenbacher low-exponent signature forgery. Apart from FactorsFromD,
// which works on bare integers, every attack takes one or more rsakey.Key
// values. Wiener, CommonPrimes and Faulty return derived private keys;
// SmallEMsg, Hastad, ParityDecrypt and Blind write recovered values into the
// keys' Texts; the Bleichenbacher forgeries return a signature.
package rsaattacks

import (
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// FactorsFromD recovers the prime factors of n given the public and private
// exponents. It is a thin re-export of rsakey.FactorsFromD, kept here because
// key construction from d alone and the standalone factoring attack are the
// same algorithm.
func FactorsFromD(n, e, d *big.Int) (p, q *big.Int, err error) {
	return rsakey.FactorsFromD(n, e, d)
}

// derivePrivate builds the private key recovered by splitting n via the
// factor p, carrying over the source key's identifier (with the standard
// "-private" suffix) and known texts.
func derivePrivate(src *rsakey.Key, p *big.Int) (*rsakey.Key, error) {
	q := new(big.Int).Div(src.N, p)

	priv, err := rsakey.New(src.N, src.E, nil, p, q)
	if err != nil {
		return nil, err
	}
	priv.Identifier = src.DerivedIdentifier()
	priv.Texts = src.CopyTexts()

	return priv, nil
}
