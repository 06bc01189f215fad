package rsakey

import (
	"math/big"
	"testing"
)

// A small (toy-sized) RSA key, large enough that gcd-based factoring isn't
// free but small enough to keep the test fast: p=61, q=53, n=3233, e=17,
// d=2753 (the textbook RSA example).
var (
	testP = big.NewInt(61)
	testQ = big.NewInt(53)
	testN = big.NewInt(3233)
	testE = big.NewInt(17)
	testD = big.NewInt(2753)
)

func TestNewFromFactors(t *testing.T) {
	k, err := New(testN, testE, nil, testP, testQ)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if k.D.Cmp(testD) != 0 {
		t.Errorf("want d=%s, got %s", testD, k.D)
	}
	if !k.HasPrivate() {
		t.Error("want a private key")
	}
}

func TestNewFromSingleFactor(t *testing.T) {
	k, err := New(testN, testE, nil, testP, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if k.Q.Cmp(testQ) != 0 {
		t.Errorf("want q=%s, got %s", testQ, k.Q)
	}
}

func TestNewFromD(t *testing.T) {
	k, err := New(testN, testE, testD, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	gotProduct := new(big.Int).Mul(k.P, k.Q)
	if gotProduct.Cmp(testN) != 0 {
		t.Errorf("want p*q=%s, got %s", testN, gotProduct)
	}
}

func TestNewPublicOnly(t *testing.T) {
	k, err := New(testN, testE, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if k.HasPrivate() {
		t.Error("want no private material")
	}
	if _, err := k.Decrypt(big.NewInt(42)); err == nil {
		t.Error("want an error decrypting with a public-only key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	k, err := New(testN, testE, nil, testP, testQ)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	m := big.NewInt(65)
	c := k.Encrypt(m)

	recovered, err := k.Decrypt(c)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if recovered.Cmp(m) != 0 {
		t.Errorf("want %s, got %s", m, recovered)
	}
}

func TestCopyAndPublicKeyAreIndependent(t *testing.T) {
	k, err := New(testN, testE, nil, testP, testQ)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	k.AddText(TextPair{Cipher: big.NewInt(1), Plain: big.NewInt(2)})

	cp := k.Copy()
	cp.Texts[0].Cipher.SetInt64(999)
	if k.Texts[0].Cipher.Cmp(big.NewInt(1)) != 0 {
		t.Error("mutating the copy's text list leaked back into the original")
	}

	pub := k.PublicKey()
	if pub.HasPrivate() {
		t.Error("want PublicKey to strip private material")
	}
	if k.D == nil {
		t.Error("PublicKey must not mutate the receiver")
	}

	if pub.DerivedIdentifier() != pub.Identifier+"-private" {
		t.Errorf("unexpected derived identifier: %s", pub.DerivedIdentifier())
	}
}

func TestNewRejectsMismatchedFactors(t *testing.T) {
	if _, err := New(testN, testE, nil, big.NewInt(7), big.NewInt(11)); err == nil {
		t.Fatal("want an error for factors whose product doesn't equal n")
	}
}
