// Package rsakey implements the RSA key model the attack catalog in
// rsaattacks operates on: a modulus, public exponent, optional private
// material, and an ordered list of known (ciphertext, plaintext) pairs.
// Grounded on the udisondev/la2go rsa.go reference (field naming N/E/D/P/Q,
// CRT-aware private material). Keys and text pairs copy rather than alias
// their backing slices, matching this module's value-like handling of byte
// data elsewhere.
package rsakey

import (
	"fmt"
	"math/big"
	"sync/atomic"

	"github.com/pwnedkeys/cryptoattacks/caerr"
)

// TextPair is a partial association between a ciphertext and the plaintext
// it decrypts to. At least one of Cipher or Plain must be non-nil.
type TextPair struct {
	Cipher *big.Int
	Plain  *big.Int
}

// HasCipher reports whether the pair carries a ciphertext.
func (tp TextPair) HasCipher() bool { return tp.Cipher != nil }

// HasPlain reports whether the pair carries a plaintext.
func (tp TextPair) HasPlain() bool { return tp.Plain != nil }

func (tp TextPair) copy() TextPair {
	out := TextPair{}
	if tp.Cipher != nil {
		out.Cipher = new(big.Int).Set(tp.Cipher)
	}
	if tp.Plain != nil {
		out.Plain = new(big.Int).Set(tp.Plain)
	}
	return out
}

// Key models an RSA key: a modulus, public exponent, optional private
// material (D, P, Q — present iff the key is private), the byte-width used
// for fixed-size encoding of values mod N, an opaque identifier, and the
// list of known text pairs accumulated by attacks run against it.
type Key struct {
	N *big.Int
	E *big.Int
	D *big.Int
	P *big.Int
	Q *big.Int

	// Size is the smallest multiple of 8 that is >= ceil(log2(N)), i.e. the
	// width in bits (a whole number of bytes, Size/8) used to fixed-width
	// encode values mod N.
	Size int

	Identifier string

	Texts []TextPair
}

var idCounter atomic.Uint64

func nextIdentifier() string {
	return fmt.Sprintf("key-%d", idCounter.Add(1))
}

// New constructs a key from a modulus and public exponent, with any subset
// of the private material (d, p, q) the caller already knows. Per the
// construction invariants:
//   - if p or q is given, the other is derived as n/given and d is derived
//     as e^-1 mod (p-1)(q-1);
//   - if only d is given, (p, q) are recovered by factoring via FactorsFromD;
//   - if none are given, the key is public-only.
func New(n, e, d, p, q *big.Int) (*Key, error) {
	if n == nil || n.Cmp(big.NewInt(1)) <= 0 {
		return nil, fmt.Errorf("%w: modulus must be > 1", caerr.ErrInvalidKey)
	}
	if e == nil || e.Sign() <= 0 {
		return nil, fmt.Errorf("%w: public exponent must be positive", caerr.ErrInvalidKey)
	}

	k := &Key{
		N:          new(big.Int).Set(n),
		E:          new(big.Int).Set(e),
		Size:       byteSize(n),
		Identifier: nextIdentifier(),
	}

	switch {
	case p != nil || q != nil:
		if err := k.deriveFromFactor(p, q); err != nil {
			return nil, err
		}
	case d != nil:
		k.D = new(big.Int).Set(d)
		factoredP, factoredQ, err := FactorsFromD(k.N, k.E, k.D)
		if err != nil {
			return nil, fmt.Errorf("deriving p, q from d: %w", err)
		}
		k.P, k.Q = factoredP, factoredQ
	}

	return k, nil
}

// deriveFromFactor fills in P, Q, D given that at least one of p, q is
// known.
func (k *Key) deriveFromFactor(p, q *big.Int) error {
	switch {
	case p != nil && q != nil:
		k.P, k.Q = new(big.Int).Set(p), new(big.Int).Set(q)
	case p != nil:
		k.P = new(big.Int).Set(p)
		k.Q = new(big.Int).Div(k.N, p)
	case q != nil:
		k.Q = new(big.Int).Set(q)
		k.P = new(big.Int).Div(k.N, q)
	}

	if new(big.Int).Mul(k.P, k.Q).Cmp(k.N) != 0 {
		return fmt.Errorf("%w: p*q does not equal n", caerr.ErrInvalidKey)
	}

	phi := eulerPhi(k.P, k.Q)
	d := new(big.Int).ModInverse(k.E, phi)
	if d == nil {
		return fmt.Errorf("%w: e is not invertible mod (p-1)(q-1)", caerr.ErrInvalidKey)
	}
	k.D = d

	return nil
}

func eulerPhi(p, q *big.Int) *big.Int {
	p1 := new(big.Int).Sub(p, big.NewInt(1))
	q1 := new(big.Int).Sub(q, big.NewInt(1))
	return new(big.Int).Mul(p1, q1)
}

// byteSize returns the smallest multiple of 8 >= ceil(log2(n)).
func byteSize(n *big.Int) int {
	bits := n.BitLen()
	return ((bits + 7) / 8) * 8
}

// HasPrivate reports whether the key carries private material.
func (k *Key) HasPrivate() bool {
	return k.D != nil || k.P != nil || k.Q != nil
}

// Copy returns a deep copy of k, including a deep copy of its text list.
func (k *Key) Copy() *Key {
	out := &Key{
		N:          new(big.Int).Set(k.N),
		E:          new(big.Int).Set(k.E),
		Size:       k.Size,
		Identifier: k.Identifier,
	}
	if k.D != nil {
		out.D = new(big.Int).Set(k.D)
	}
	if k.P != nil {
		out.P = new(big.Int).Set(k.P)
	}
	if k.Q != nil {
		out.Q = new(big.Int).Set(k.Q)
	}
	out.Texts = make([]TextPair, len(k.Texts))
	for i, tp := range k.Texts {
		out.Texts[i] = tp.copy()
	}

	return out
}

// PublicKey returns a deep copy of k with all private material stripped.
func (k *Key) PublicKey() *Key {
	pub := k.Copy()
	pub.D, pub.P, pub.Q = nil, nil, nil
	return pub
}

// DerivedIdentifier returns the identifier a private key recovered from k by
// an attack should carry: k's identifier with a "-private" suffix.
func (k *Key) DerivedIdentifier() string {
	return k.Identifier + "-private"
}

// AddText appends a text pair to k's known texts.
func (k *Key) AddText(tp TextPair) {
	k.Texts = append(k.Texts, tp)
}

// CopyTexts returns a deep copy of k's text list, for attacks that build a
// derived key and must carry the source's known texts along with it.
func (k *Key) CopyTexts() []TextPair {
	out := make([]TextPair, len(k.Texts))
	for i, tp := range k.Texts {
		out[i] = tp.copy()
	}
	return out
}

// Encrypt computes m^e mod n.
func (k *Key) Encrypt(m *big.Int) *big.Int {
	return new(big.Int).Exp(m, k.E, k.N)
}

// Decrypt computes c^d mod n. It requires the key to carry private
// material.
func (k *Key) Decrypt(c *big.Int) (*big.Int, error) {
	if k.D == nil {
		return nil, fmt.Errorf("%w: key %s has no private exponent", caerr.ErrInvalidKey, k.Identifier)
	}
	return new(big.Int).Exp(c, k.D, k.N), nil
}
