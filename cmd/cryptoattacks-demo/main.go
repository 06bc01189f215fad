// Command cryptoattacks-demo wires both engines end to end against local,
// in-process oracles: a CBC padding oracle built from a random AES key, and
// an RSA key constructed from small hardcoded primes. It exists to give the
// library a runnable smoke test outside of `go test`, in the spirit of the
// teacher's single-file challenge programs.
package main

import (
	"fmt"
	"log"
	"math/big"

	"github.com/pwnedkeys/cryptoattacks/cabytes"
	"github.com/pwnedkeys/cryptoattacks/cacbc"
	"github.com/pwnedkeys/cryptoattacks/capad"
	"github.com/pwnedkeys/cryptoattacks/rsaattacks"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

func main() {
	if err := runCBCDemo(); err != nil {
		log.Fatalf("cbc demo: %s", err)
	}
	if err := runRSADemo(); err != nil {
		log.Fatalf("rsa demo: %s", err)
	}
}

func runCBCDemo() error {
	const blockSize = 16

	key, err := cabytes.Random(32, 32)
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}
	iv, err := cabytes.Random(uint(blockSize), uint(blockSize))
	if err != nil {
		return fmt.Errorf("generating iv: %w", err)
	}

	plainText := []byte("YELLOW SUBMARINEYELLOW SUBMARINE")
	cipherText, err := cacbc.EncryptCBC(key, iv, plainText)
	if err != nil {
		return fmt.Errorf("encrypting demo plaintext: %w", err)
	}

	oracle, err := cacbc.NewLocalOracle(key)
	if err != nil {
		return fmt.Errorf("building local oracle: %w", err)
	}

	recovered, err := cacbc.Decrypt(cipherText, blockSize, oracle, cacbc.Options{
		IV:        iv,
		IsCorrect: true,
	})
	if err != nil {
		return fmt.Errorf("decrypting via padding oracle: %w", err)
	}

	stripped, err := capad.Strip(recovered, blockSize)
	if err != nil {
		return fmt.Errorf("stripping recovered padding: %w", err)
	}
	log.Printf("cbc padding oracle recovered: %q", stripped)

	forged, err := cacbc.Forge([]byte("ATTACKER CONTROLLED PLAINTEXT!!!"), blockSize, oracle, cacbc.ForgeOptions{})
	if err != nil {
		return fmt.Errorf("forging ciphertext: %w", err)
	}
	log.Printf("forged ciphertext decrypting to chosen plaintext: %x", forged)

	return nil
}

func runRSADemo() error {
	p := big.NewInt(61)
	q := big.NewInt(53)
	n := new(big.Int).Mul(p, q)
	e := big.NewInt(17)

	full, err := rsakey.New(n, e, nil, p, q)
	if err != nil {
		return fmt.Errorf("constructing demo rsa key: %w", err)
	}

	_, foundP, foundQ, err := demoFactorsFromD(full)
	if err != nil {
		return err
	}
	log.Printf("factor-from-d recovered p=%s q=%s (original p=%s q=%s)", foundP, foundQ, p, q)

	// small_e_msg needs a small public exponent: use e=3 over the same
	// modulus (public-only, since 3 divides (p-1)(q-1) here).
	m := big.NewInt(42)
	pub, err := rsakey.New(n, big.NewInt(3), nil, nil, nil)
	if err != nil {
		return fmt.Errorf("constructing small-exponent demo key: %w", err)
	}
	pub.AddText(rsakey.TextPair{Cipher: pub.Encrypt(m)})

	plaintexts := rsaattacks.SmallEMsg(pub, 0)
	if len(plaintexts) == 0 {
		return fmt.Errorf("small_e_msg: no plaintext recovered")
	}
	log.Printf("small_e_msg recovered m=%s", plaintexts[0])

	return nil
}

func demoFactorsFromD(full *rsakey.Key) (n, p, q *big.Int, err error) {
	p, q, err = rsaattacks.FactorsFromD(full.N, full.E, full.D)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("factors_from_d: %w", err)
	}
	return full.N, p, q, nil
}
