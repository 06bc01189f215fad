package rsaattacks

import (
	"math/big"
	"testing"

	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

func TestParityDecryptRecoversPlaintext(t *testing.T) {
	p, q := big.NewInt(61), big.NewInt(53)
	n := new(big.Int).Mul(p, q)
	e := big.NewInt(17)

	full, err := rsakey.New(n, e, nil, p, q)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	oracle := func(c *big.Int) (int, error) {
		pt, err := full.Decrypt(c)
		if err != nil {
			return 0, err
		}
		return int(pt.Bit(0)), nil
	}

	m := big.NewInt(1234)
	pub := full.PublicKey()
	pub.AddText(rsakey.TextPair{Cipher: pub.Encrypt(m)})

	recovered, err := ParityDecrypt(pub, oracle)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if recovered.Cmp(m) != 0 {
		t.Errorf("want %s, got %s", m, recovered)
	}
}

func TestParityDecryptRequiresOracle(t *testing.T) {
	k, _ := rsakey.New(big.NewInt(3233), big.NewInt(17), nil, nil, nil)
	k.AddText(rsakey.TextPair{Cipher: big.NewInt(1)})

	if _, err := ParityDecrypt(k, nil); err == nil {
		t.Fatal("want an error when no oracle is given")
	}
}
