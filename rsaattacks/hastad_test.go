package rsaattacks

import (
	"math/big"
	"testing"

	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// newModulus returns a modulus guaranteed pairwise-coprime with the other
// two produced by this helper for different offsets: offsets 0, 2, 4 from a
// fixed odd base differ by 2 or 4, so any common divisor of two of them
// would have to divide 2 or 4 — impossible, since the base (and hence every
// modulus) is odd.
func newModulus(offset int64) *big.Int {
	base, _ := new(big.Int).SetString("123456789123456791", 10)
	return new(big.Int).Add(base, big.NewInt(offset))
}

func TestHastadRecoversBroadcastPlaintext(t *testing.T) {
	e := big.NewInt(3)
	m := big.NewInt(1234567)

	var keys []*rsakey.Key
	for _, offset := range []int64{0, 2, 4} {
		n := newModulus(offset)
		k, err := rsakey.New(n, e, nil, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		k.AddText(rsakey.TextPair{Cipher: k.Encrypt(m)})
		keys = append(keys, k)
	}

	recovered, err := Hastad(keys)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if recovered.Cmp(m) != 0 {
		t.Errorf("want %s, got %s", m, recovered)
	}

	for _, k := range keys {
		if k.Texts[0].Plain == nil || k.Texts[0].Plain.Cmp(m) != 0 {
			t.Errorf("want key %s's text pair updated with the recovered plaintext", k.Identifier)
		}
	}
}

func TestHastadFallsBackToSmallEMsg(t *testing.T) {
	// A single key, ciphertext well under n, falls back to small_e_msg
	// since there's only one unique (modulus, ciphertext) pair and e=3.
	e := big.NewInt(3)
	k, err := rsakey.New(newModulus(0), e, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	m := big.NewInt(99)
	k.AddText(rsakey.TextPair{Cipher: k.Encrypt(m)})

	recovered, err := Hastad([]*rsakey.Key{k})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if recovered.Cmp(m) != 0 {
		t.Errorf("want %s, got %s", m, recovered)
	}
}

func TestHastadRejectsMismatchedExponents(t *testing.T) {
	k1, _ := rsakey.New(newModulus(0), big.NewInt(3), nil, nil, nil)
	k2, _ := rsakey.New(newModulus(2), big.NewInt(5), nil, nil, nil)

	if _, err := Hastad([]*rsakey.Key{k1, k2}); err == nil {
		t.Fatal("want an error when keys don't share a public exponent")
	}
}
