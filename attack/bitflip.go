package attack

import (
	"errors"
	"fmt"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/block"
)

var ErrForgeRange = errors.New("attack: forge target out of range")

// Forge returns a copy of a CBC ciphertext in which block blockIndex
// decrypts to its original plaintext XOR delta. Block blockIndex-1 is
// sacrificed and decrypts to garbage.
func Forge(ciphertext []byte, blockIndex int, delta []byte) ([]byte, error) {
	bs := aesblock.BlockSize
	if len(delta) > bs {
		return nil, fmt.Errorf("%w: delta of %d bytes", ErrForgeRange, len(delta))
	}
	if blockIndex < 1 || (blockIndex+1)*bs > len(ciphertext) {
		return nil, fmt.Errorf("%w: block %d of %d-byte ciphertext", ErrForgeRange, blockIndex, len(ciphertext))
	}
	res := append([]byte{}, ciphertext...)
	block.XORInto(res[(blockIndex-1)*bs:blockIndex*bs], delta)
	return res, nil
}

// ForgeIV returns a copy of iv that shifts the first plaintext block by
// delta without damaging any other block.
func ForgeIV(iv, delta []byte) ([]byte, error) {
	if len(delta) > len(iv) {
		return nil, fmt.Errorf("%w: delta of %d bytes", ErrForgeRange, len(delta))
	}
	res := append([]byte{}, iv...)
	block.XORInto(res, delta)
	return res, nil
}

// Delta returns the XOR mask turning known into want, aligned at offset
// within a block of size len(known).
func Delta(known []byte, offset int, want []byte) ([]byte, error) {
	if offset < 0 || offset+len(want) > len(known) {
		return nil, fmt.Errorf("%w: %d bytes at offset %d", ErrForgeRange, len(want), offset)
	}
	res := make([]byte, len(known))
	copy(res[offset:], block.XOR(known[offset:offset+len(want)], want))
	return res, nil
}
