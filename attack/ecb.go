package attack

import (
	"bytes"
	"fmt"

	"knivets.com/blockattack/block"
	"knivets.com/blockattack/oracle"
)

// maxBlockSize bounds the block size search; PKCS#7 cannot describe
// anything larger.
const maxBlockSize = 255

// fillers are two distinct input bytes. A block is only taken to be
// attacker input if its ciphertext changes when the filler does.
var fillers = []byte{'A', 'B'}

// ecbBreaker holds state for attacking an ECB encryption oracle.
type ecbBreaker struct {
	oracle oracle.Encrypter
	budget *budget

	blockSize int
	fixedLen  int // prefix plus secret
	prefixLen int
	align     int // input bytes that complete the prefix's last block
	start     int // first block wholly under attacker control
}

func (x *ecbBreaker) encrypt(input []byte) ([]byte, error) {
	if err := x.budget.spend(); err != nil {
		return nil, err
	}
	return x.oracle.Encrypt(input), nil
}

// DetectBlockSize feeds o growing inputs until the ciphertext grows and
// returns the size of the jump.
func DetectBlockSize(o oracle.Encrypter) (int, error) {
	x := &ecbBreaker{oracle: o, budget: &budget{}}
	if err := x.detectBlockSize(); err != nil {
		return 0, err
	}
	return x.blockSize, nil
}

func (x *ecbBreaker) detectBlockSize() error {
	base, err := x.encrypt(nil)
	if err != nil {
		return err
	}
	for n := 1; n <= maxBlockSize+1; n++ {
		ct, err := x.encrypt(bytes.Repeat(fillers[:1], n))
		if err != nil {
			return err
		}
		if len(ct) > len(base) {
			x.blockSize = len(ct) - len(base)
			// The input that tipped the length over filled the last
			// block exactly.
			x.fixedLen = len(base) - n
			return nil
		}
	}
	return fmt.Errorf("%w: ciphertext length never changed", ErrNotECB)
}

// detectPrefix finds how many bytes the oracle puts in front of the input.
// It sends 2*bs+a bytes of each filler for growing a until both replies hold
// the same pair of equal adjacent blocks and that pair differs between the
// two fillers. Prefix and secret blocks sit at the same offsets in both
// replies and never change, and a block mixing input with either of them
// cannot equal a pure filler block under both fillers. The first hit is
// therefore the first two blocks made only of input.
func (x *ecbBreaker) detectPrefix() error {
	bs := x.blockSize
	for a := 0; a < bs; a++ {
		n := 2*bs + a
		ct1, err := x.encrypt(bytes.Repeat(fillers[:1], n))
		if err != nil {
			return err
		}
		ct2, err := x.encrypt(bytes.Repeat(fillers[1:2], n))
		if err != nil {
			return err
		}
		i := controlledRepeat(ct1, ct2, bs)
		if i < 0 {
			continue
		}
		x.align = a
		x.start = i
		x.prefixLen = i*bs - a
		if x.prefixLen < 0 || x.prefixLen > x.fixedLen {
			return fmt.Errorf("%w: prefix length %d out of range", ErrNotECB, x.prefixLen)
		}
		return nil
	}
	return fmt.Errorf("%w: no repeated input blocks", ErrNotECB)
}

// controlledRepeat returns the first index i at which blocks i and i+1 are
// equal in both ct1 and ct2 but differ between them.
func controlledRepeat(ct1, ct2 []byte, bs int) int {
	if len(ct1) != len(ct2) {
		return -1
	}
	for i := 0; (i+2)*bs <= len(ct1); i++ {
		b1, b2 := block.Get(ct1, bs, i), block.Get(ct2, bs, i)
		if bytes.Equal(b1, b2) {
			continue
		}
		if bytes.Equal(b1, block.Get(ct1, bs, i+1)) && bytes.Equal(b2, block.Get(ct2, bs, i+1)) {
			return i
		}
	}
	return -1
}

// breakSecret recovers the secret one byte at a time. For byte j the
// input is shortened so that j is the last byte of a block, whose
// ciphertext is then matched against all 256 completions of the
// preceding bs-1 known bytes.
func (x *ecbBreaker) breakSecret() ([]byte, error) {
	bs := x.blockSize
	secretLen := x.fixedLen - x.prefixLen
	f := fillers[0]
	known := bytes.Repeat([]byte{f}, bs-1)
	pad := bytes.Repeat([]byte{f}, x.align)

	secret := make([]byte, 0, secretLen)
	for j := 0; j < secretLen; j++ {
		input := append(append([]byte{}, pad...), bytes.Repeat([]byte{f}, bs-1-j%bs)...)
		ct, err := x.encrypt(input)
		if err != nil {
			return nil, err
		}
		want := block.Get(ct, bs, x.start+j/bs)
		if want == nil {
			return nil, &PositionError{Block: j / bs, Byte: j % bs, Err: ErrInconsistentRecovery}
		}

		window := known[len(known)-(bs-1):]
		guess := make([]byte, 0, x.align+bs)
		guess = append(guess, pad...)
		guess = append(guess, window...)
		guess = append(guess, 0)

		found := false
		for c := 0; c <= 0xff; c++ {
			guess[len(guess)-1] = byte(c)
			ct, err := x.encrypt(guess)
			if err != nil {
				return nil, err
			}
			if bytes.Equal(block.Get(ct, bs, x.start), want) {
				secret = append(secret, byte(c))
				known = append(known, byte(c))
				found = true
				break
			}
		}
		if !found {
			return nil, &PositionError{Block: j / bs, Byte: j % bs, Err: ErrNotECB}
		}
	}
	return secret, nil
}

// RecoverECBSecret recovers the bytes an ECB oracle appends to its input.
// A fixed prefix in front of the input is detected and skipped.
func RecoverECBSecret(o oracle.Encrypter, opts ...Option) ([]byte, error) {
	x := &ecbBreaker{oracle: o, budget: newBudget(opts)}
	if err := x.detectBlockSize(); err != nil {
		return nil, err
	}
	if err := x.detectPrefix(); err != nil {
		return nil, err
	}
	return x.breakSecret()
}

// DetectMode tells ECB from CBC by encrypting three identical blocks and
// looking for a repeat, which allows for up to one block of junk around
// the input.
func DetectMode(o oracle.Encrypter, blockSize int) oracle.Mode {
	ct := o.Encrypt(bytes.Repeat(fillers[:1], 3*blockSize))
	if block.HasRepeatedBlocks(ct, blockSize) {
		return oracle.ModeECB
	}
	return oracle.ModeCBC
}
