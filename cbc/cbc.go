// Package cbc implements cipher block chaining mode on top of a bare
// block cipher.
package cbc

import (
	"crypto/cipher"
	"errors"
	"fmt"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/block"
	"knivets.com/blockattack/pkcs7"
)

var (
	ErrInvalidIVLength  = errors.New("cbc: IV length must equal block size")
	ErrCiphertextLength = errors.New("cbc: ciphertext is not a whole number of blocks")
)

type encrypter struct {
	b    cipher.Block
	prev []byte
}

type decrypter struct {
	b    cipher.Block
	prev []byte
}

// NewCBCEncrypter returns a BlockMode which encrypts in CBC mode. The
// length of iv must equal the block size; later calls to CryptBlocks
// continue the chain.
func NewCBCEncrypter(b cipher.Block, iv []byte) cipher.BlockMode {
	if len(iv) != b.BlockSize() {
		panic("cbc: IV length must equal block size")
	}
	return &encrypter{b: b, prev: append([]byte{}, iv...)}
}

// NewCBCDecrypter returns a BlockMode which decrypts in CBC mode.
func NewCBCDecrypter(b cipher.Block, iv []byte) cipher.BlockMode {
	if len(iv) != b.BlockSize() {
		panic("cbc: IV length must equal block size")
	}
	return &decrypter{b: b, prev: append([]byte{}, iv...)}
}

func (x *encrypter) BlockSize() int { return x.b.BlockSize() }

func (x *encrypter) CryptBlocks(dst, src []byte) {
	bs := x.b.BlockSize()
	checkSizes(dst, src, bs)
	for len(src) > 0 {
		in := block.XOR(src[:bs], x.prev)
		x.b.Encrypt(dst[:bs], in)
		copy(x.prev, dst[:bs])
		src = src[bs:]
		dst = dst[bs:]
	}
}

func (x *decrypter) BlockSize() int { return x.b.BlockSize() }

func (x *decrypter) CryptBlocks(dst, src []byte) {
	bs := x.b.BlockSize()
	checkSizes(dst, src, bs)
	// dst may alias src, so the chaining block is saved before it is
	// overwritten.
	in := make([]byte, bs)
	for len(src) > 0 {
		copy(in, src[:bs])
		x.b.Decrypt(dst[:bs], in)
		block.XORInto(dst[:bs], x.prev)
		copy(x.prev, in)
		src = src[bs:]
		dst = dst[bs:]
	}
}

func checkSizes(dst, src []byte, bs int) {
	if len(src)%bs != 0 {
		panic("cbc: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("cbc: output smaller than input")
	}
}

// Encrypt pads plaintext and encrypts it under key and iv.
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return EncryptWith(b, iv, plaintext)
}

// EncryptWith pads plaintext and encrypts it with b and iv.
func EncryptWith(b cipher.Block, iv, plaintext []byte) ([]byte, error) {
	if len(iv) != b.BlockSize() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIVLength, len(iv))
	}
	buf := pkcs7.Pad(plaintext, b.BlockSize())
	NewCBCEncrypter(b, iv).CryptBlocks(buf, buf)
	return buf, nil
}

// Decrypt decrypts ciphertext under key and iv and removes the padding.
// Padding failures are returned unchanged from pkcs7.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return DecryptWith(b, iv, ciphertext)
}

// DecryptWith decrypts ciphertext with b and iv and removes the padding.
func DecryptWith(b cipher.Block, iv, ciphertext []byte) ([]byte, error) {
	buf, err := DecryptRaw(b, iv, ciphertext)
	if err != nil {
		return nil, err
	}
	return pkcs7.Unpad(buf, b.BlockSize())
}

// DecryptRaw decrypts ciphertext with b and iv and leaves the padding in place.
func DecryptRaw(b cipher.Block, iv, ciphertext []byte) ([]byte, error) {
	bs := b.BlockSize()
	if len(iv) != bs {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIVLength, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCiphertextLength, len(ciphertext))
	}
	buf := make([]byte, len(ciphertext))
	NewCBCDecrypter(b, iv).CryptBlocks(buf, ciphertext)
	return buf, nil
}
