package rsaattacks

import (
	"math/big"
	"testing"

	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

func TestSmallEMsgRecoversUnpaddedCube(t *testing.T) {
	p := big.NewInt(281)
	q := big.NewInt(311)
	n := new(big.Int).Mul(p, q)
	e := big.NewInt(3)

	k, err := rsakey.New(n, e, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	m := big.NewInt(42)
	c := k.Encrypt(m)
	k.AddText(rsakey.TextPair{Cipher: c})

	recovered := SmallEMsg(k, 0)
	if len(recovered) != 1 {
		t.Fatalf("want 1 recovered plaintext, got %d", len(recovered))
	}
	if recovered[0].Cmp(m) != 0 {
		t.Errorf("want %s, got %s", m, recovered[0])
	}
	if k.Texts[0].Plain.Cmp(m) != 0 {
		t.Errorf("want the text pair's Plain field updated to %s, got %s", m, k.Texts[0].Plain)
	}
}

func TestSmallEMsgLeavesUnrecoverableAlone(t *testing.T) {
	// m^3 here exceeds n by enough that no small k within maxTimes recovers
	// it; small_e_msg must report nothing rather than a wrong answer.
	p := big.NewInt(281)
	q := big.NewInt(311)
	n := new(big.Int).Mul(p, q)
	e := big.NewInt(3)

	k, err := rsakey.New(n, e, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	c := new(big.Int).Mod(big.NewInt(123456789), n)
	k.AddText(rsakey.TextPair{Cipher: c})

	recovered := SmallEMsg(k, 2)
	if len(recovered) != 0 {
		t.Errorf("want no recovered plaintexts within a tiny search window, got %v", recovered)
	}
}
