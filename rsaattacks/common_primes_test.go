package rsaattacks

import (
	"math/big"
	"testing"

	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

func TestCommonPrimesRecoversBothKeys(t *testing.T) {
	const sharedPrime = 1009

	n1 := big.NewInt(sharedPrime * 1013)
	n2 := big.NewInt(sharedPrime * 1019)
	e := big.NewInt(17)

	k1, err := rsakey.New(n1, e, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	k2, err := rsakey.New(n2, e, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	k1.AddText(rsakey.TextPair{Cipher: big.NewInt(42)})

	derived, err := CommonPrimes([]*rsakey.Key{k1, k2})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(derived) != 2 {
		t.Fatalf("want 2 derived private keys, got %d", len(derived))
	}

	shared := big.NewInt(sharedPrime)
	for _, priv := range derived {
		if !priv.HasPrivate() {
			t.Error("want a private key")
		}
		if priv.P.Cmp(shared) != 0 && priv.Q.Cmp(shared) != 0 {
			t.Errorf("want one of p, q to equal the shared prime %d, got p=%s q=%s", sharedPrime, priv.P, priv.Q)
		}
	}

	if derived[0].Identifier != k1.DerivedIdentifier() {
		t.Errorf("want identifier %s, got %s", k1.DerivedIdentifier(), derived[0].Identifier)
	}
	if len(derived[0].Texts) != 1 {
		t.Errorf("want the derived key to carry the source's known texts, got %d", len(derived[0].Texts))
	}
}

func TestCommonPrimesFailsWithoutSharedFactor(t *testing.T) {
	k1, _ := rsakey.New(big.NewInt(1009*1013), big.NewInt(17), nil, nil, nil)
	k2, _ := rsakey.New(big.NewInt(1021*1031), big.NewInt(17), nil, nil, nil)

	if _, err := CommonPrimes([]*rsakey.Key{k1, k2}); err == nil {
		t.Fatal("want an error when no pair of moduli shares a factor")
	}
}
