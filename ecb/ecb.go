// Package ecb implements electronic codebook mode.
package ecb

import (
	"crypto/cipher"
	"errors"
	"fmt"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/pkcs7"
)

var ErrCiphertextLength = errors.New("ecb: ciphertext is not a whole number of blocks")

type ecb struct {
	b     cipher.Block
	crypt func(dst, src []byte)
}

// NewECBEncrypter returns a BlockMode which encrypts each block independently.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, crypt: b.Encrypt}
}

// NewECBDecrypter returns a BlockMode which decrypts each block independently.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, crypt: b.Decrypt}
}

func (x *ecb) BlockSize() int { return x.b.BlockSize() }

func (x *ecb) CryptBlocks(dst, src []byte) {
	bs := x.b.BlockSize()
	if len(src)%bs != 0 {
		panic("ecb: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("ecb: output smaller than input")
	}
	for len(src) > 0 {
		x.crypt(dst[:bs], src[:bs])
		src = src[bs:]
		dst = dst[bs:]
	}
}

// Encrypt pads plaintext and encrypts it under key.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return EncryptWith(b, plaintext), nil
}

// EncryptWith pads plaintext and encrypts it with b.
func EncryptWith(b cipher.Block, plaintext []byte) []byte {
	buf := pkcs7.Pad(plaintext, b.BlockSize())
	NewECBEncrypter(b).CryptBlocks(buf, buf)
	return buf
}

// Decrypt decrypts ciphertext under key and removes the padding.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return DecryptWith(b, ciphertext)
}

// DecryptWith decrypts ciphertext with b and removes the padding.
func DecryptWith(b cipher.Block, ciphertext []byte) ([]byte, error) {
	bs := b.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCiphertextLength, len(ciphertext))
	}
	buf := make([]byte, len(ciphertext))
	NewECBDecrypter(b).CryptBlocks(buf, ciphertext)
	return pkcs7.Unpad(buf, bs)
}
