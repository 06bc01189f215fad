package rsaattacks

import (
	"math/big"
	"testing"

	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

func TestWienerRecoversSmallD(t *testing.T) {
	// p, q chosen large enough that d=17 satisfies d < n^(1/4)/3.
	p := big.NewInt(4001)
	q := big.NewInt(4003)
	n := new(big.Int).Mul(p, q)

	one := big.NewInt(1)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

	d := big.NewInt(17)
	e := new(big.Int).ModInverse(d, phi)
	if e == nil {
		t.Fatal("test setup: d is not invertible mod phi(n), pick different primes")
	}

	full, err := rsakey.New(n, e, nil, p, q)
	if err != nil {
		t.Fatalf("unexpected error constructing the reference key: %s", err)
	}
	if full.D.Cmp(d) != 0 {
		t.Fatalf("test setup: derived d=%s, want %s", full.D, d)
	}

	pub, err := rsakey.New(n, e, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error constructing the public key: %s", err)
	}

	priv, err := Wiener(pub)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if priv.D.Cmp(d) != 0 {
		t.Errorf("want d=%s, got %s", d, priv.D)
	}
}

func TestWienerFailsOnLargeD(t *testing.T) {
	// A key with a cryptographically ordinary (not artificially small) d
	// must not produce a false positive.
	p := big.NewInt(9973)
	q := big.NewInt(9967)

	k, err := rsakey.New(new(big.Int).Mul(p, q), big.NewInt(17), nil, p, q)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	pub := k.PublicKey()

	if _, err := Wiener(pub); err == nil {
		t.Fatal("want an error when d is not small enough for wiener's bound")
	}
}
