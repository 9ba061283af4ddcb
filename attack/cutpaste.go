package attack

import (
	"bytes"
	"fmt"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/block"
	"knivets.com/blockattack/oracle"
	"knivets.com/blockattack/pkcs7"
)

// ForgeRole splices two ECB ciphertexts from o into one whose plaintext
// ends with role as the last field value. head is the number of bytes o
// puts in front of its input and middle the number between the input and
// the field value that role replaces. role must be shorter than a block
// and survive o's input filtering.
func ForgeRole(o oracle.Encrypter, head, middle int, role string, opts ...Option) ([]byte, error) {
	bs := aesblock.BlockSize
	if len(role) >= bs {
		return nil, fmt.Errorf("%w: role of %d bytes", ErrForgeRange, len(role))
	}
	if head < 0 || middle < 0 {
		return nil, fmt.Errorf("%w: offsets %d, %d", ErrForgeRange, head, middle)
	}
	b := newBudget(opts)
	encrypt := func(input []byte) ([]byte, error) {
		if err := b.spend(); err != nil {
			return nil, err
		}
		return o.Encrypt(input), nil
	}

	// A block holding only the padded role, aligned after the head.
	fill := (bs - head%bs) % bs
	ct, err := encrypt(append(bytes.Repeat(fillers[:1], fill), pkcs7.Pad([]byte(role), bs)...))
	if err != nil {
		return nil, err
	}
	roleBlock := block.Get(ct, bs, (head+fill)/bs)
	if roleBlock == nil {
		return nil, fmt.Errorf("%w: no role block in %d-byte ciphertext", ErrInconsistentRecovery, len(ct))
	}

	// An input which pushes the old field value to the start of a block.
	n := (bs - (head+middle)%bs) % bs
	ct, err = encrypt(bytes.Repeat(fillers[:1], n))
	if err != nil {
		return nil, err
	}
	keep := (head + n + middle) / bs * bs
	if keep > len(ct) {
		return nil, fmt.Errorf("%w: %d-byte ciphertext too short", ErrInconsistentRecovery, len(ct))
	}
	return append(ct[:keep:keep], roleBlock...), nil
}
