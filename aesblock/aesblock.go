// Package aesblock adapts crypto/aes to the single-block interface the
// mode layer and oracles are built on.
package aesblock

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	BlockSize = aes.BlockSize
	KeySize   = 16
)

var (
	ErrInvalidKeyLength   = errors.New("aesblock: invalid key length")
	ErrInvalidBlockLength = errors.New("aesblock: invalid block length")
)

// New returns an AES-128 block cipher for key.
func New(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKeyLength, len(key))
	}
	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyLength, err)
	}
	return b, nil
}

// EncryptBlock encrypts exactly one block under key.
func EncryptBlock(key, src []byte) ([]byte, error) {
	return crypt(key, src, cipher.Block.Encrypt)
}

// DecryptBlock decrypts exactly one block under key.
func DecryptBlock(key, src []byte) ([]byte, error) {
	return crypt(key, src, cipher.Block.Decrypt)
}

func crypt(key, src []byte, fn func(cipher.Block, []byte, []byte)) ([]byte, error) {
	if len(src) != BlockSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockLength, len(src))
	}
	b, err := New(key)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, BlockSize)
	fn(b, dst, src)
	return dst, nil
}

// RandomBytes returns n bytes from crypto/rand.
func RandomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("aesblock: %v", err))
	}
	return buf
}

// RandomInt returns a uniform integer in [0, n). It panics if n <= 0.
func RandomInt(n int) int {
	res, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("aesblock: %v", err))
	}
	return int(res.Int64())
}

// RandomKey returns a fresh AES-128 key.
func RandomKey() []byte {
	return RandomBytes(KeySize)
}
