package attack

import (
	"fmt"

	"knivets.com/blockattack/block"
	"knivets.com/blockattack/cbc"
	"knivets.com/blockattack/oracle"
	"knivets.com/blockattack/pkcs7"
)

type paddingBreaker struct {
	oracle    oracle.PaddingChecker
	budget    *budget
	blockSize int
}

func (x *paddingBreaker) check(prev, target []byte) (bool, error) {
	if err := x.budget.spend(); err != nil {
		return false, err
	}
	return x.oracle.CheckPadding(prev, target), nil
}

// breakBlock recovers the plaintext of target, whose predecessor in the
// chain is prev. Each position p, last to first, is solved by finding a
// forged predecessor byte that makes the block end in bs-p bytes of value
// bs-p; that byte XOR the pad value is the decrypted-but-unchained byte.
func (x *paddingBreaker) breakBlock(index int, prev, target []byte) ([]byte, error) {
	bs := x.blockSize
	inter := make([]byte, bs)
	trial := make([]byte, bs)

	for p := bs - 1; p >= 0; p-- {
		pad := byte(bs - p)
		copy(trial, prev)
		for k := p + 1; k < bs; k++ {
			trial[k] = inter[k] ^ pad
		}

		found := false
		for c := 0; c <= 0xff; c++ {
			trial[p] = byte(c)
			ok, err := x.check(trial, target)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if p == bs-1 && p > 0 {
				// The block may have ended in \x02\x02 or longer rather
				// than \x01. Disturbing the byte before rules that out.
				trial[p-1] ^= 0xff
				ok, err = x.check(trial, target)
				trial[p-1] ^= 0xff
				if err != nil {
					return nil, err
				}
				if !ok {
					continue
				}
			}
			inter[p] = byte(c) ^ pad
			found = true
			break
		}
		if !found {
			return nil, &PositionError{Block: index, Byte: p, Err: ErrInconsistentRecovery}
		}
	}
	return block.XOR(inter, prev), nil
}

// RecoverCBCPlaintext decrypts ciphertext, encrypted under iv, using only
// the padding verdicts of o. The recovered plaintext is returned unpadded.
func RecoverCBCPlaintext(o oracle.PaddingChecker, iv, ciphertext []byte, opts ...Option) ([]byte, error) {
	bs := len(iv)
	if bs == 0 || bs > 0xff {
		return nil, fmt.Errorf("%w: %d", cbc.ErrInvalidIVLength, bs)
	}
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", cbc.ErrCiphertextLength, len(ciphertext))
	}

	x := &paddingBreaker{oracle: o, budget: newBudget(opts), blockSize: bs}
	plaintext := make([]byte, 0, len(ciphertext))
	prev := iv
	for i, c := range block.Split(ciphertext, bs) {
		p, err := x.breakBlock(i, prev, c)
		if err != nil {
			return nil, err
		}
		plaintext = append(plaintext, p...)
		prev = c
	}

	res, err := pkcs7.Unpad(plaintext, bs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInconsistentRecovery, err)
	}
	return res, nil
}
