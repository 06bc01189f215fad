package rsaattacks

import (
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// Hastad recovers a plaintext broadcast to e or more keys sharing the same
// small public exponent e, each carrying a ciphertext of the same message.
// Duplicate moduli and duplicate ciphertexts are dropped before counting; if
// fewer than e unique (modulus, ciphertext) pairs remain, it falls back to
// trying SmallEMsg on each key before giving up. On success through the CRT
// path it writes the recovered plaintext back into every ciphertext-bearing
// text pair; on the SmallEMsg fallback only the pairs SmallEMsg itself
// solved are updated.
func Hastad(keys []*rsakey.Key) (*big.Int, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: hastad needs at least one key", caerr.ErrInvalidArgument)
	}

	e := keys[0].E
	for _, k := range keys[1:] {
		if k.E.Cmp(e) != 0 {
			return nil, fmt.Errorf("%w: all keys must share the same public exponent", caerr.ErrInvalidArgument)
		}
	}
	eInt := int(e.Int64())

	type ncPair struct {
		n, c *big.Int
	}

	seenN := map[string]bool{}
	seenC := map[string]bool{}
	var pairs []ncPair
	for _, k := range keys {
		nKey := k.N.String()
		if seenN[nKey] {
			continue
		}
		for _, tp := range k.Texts {
			if !tp.HasCipher() {
				continue
			}
			cKey := tp.Cipher.String()
			if seenC[cKey] {
				continue
			}
			seenN[nKey] = true
			seenC[cKey] = true
			pairs = append(pairs, ncPair{k.N, tp.Cipher})
			break
		}
	}

	if len(pairs) < eInt {
		var (
			mu        sync.Mutex
			recovered *big.Int
		)

		var errG errgroup.Group
		for _, k := range keys {
			k := k
			errG.Go(func() error {
				if found := SmallEMsg(k, 0); len(found) > 0 {
					mu.Lock()
					if recovered == nil {
						recovered = found[0]
					}
					mu.Unlock()
				}
				return nil
			})
		}
		_ = errG.Wait()

		if recovered != nil {
			return recovered, nil
		}
		return nil, fmt.Errorf(
			"%w: fewer than %d unique (modulus, ciphertext) pairs and small_e_msg found nothing",
			caerr.ErrAttackFailed, eInt,
		)
	}
	pairs = pairs[:eInt]

	moduli := make([]*big.Int, eInt)
	residues := make([]*big.Int, eInt)
	for i, p := range pairs {
		moduli[i] = p.n
		residues[i] = p.c
	}

	c, err := camath.CRT(residues, moduli)
	if err != nil {
		return nil, fmt.Errorf("hastad: %w", err)
	}

	m, exact := camath.IRoot(c, eInt)
	if !exact {
		return nil, fmt.Errorf("%w: crt reconstruction is not a perfect e-th power", caerr.ErrAttackFailed)
	}

	for _, k := range keys {
		for i := range k.Texts {
			if k.Texts[i].HasCipher() {
				k.Texts[i].Plain = new(big.Int).Set(m)
			}
		}
	}

	return m, nil
}
