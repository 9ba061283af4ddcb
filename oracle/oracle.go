// Package oracle provides black-box encryption and padding oracles. Each
// oracle owns its key and secret; callers only see the query methods.
package oracle

import (
	"crypto/cipher"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/cbc"
	"knivets.com/blockattack/ecb"
)

// Encrypter encrypts attacker-chosen input together with whatever the
// oracle adds to it.
type Encrypter interface {
	Encrypt(input []byte) []byte
}

// PaddingChecker reports whether a CBC ciphertext decrypts to correctly
// padded plaintext, and nothing more.
type PaddingChecker interface {
	CheckPadding(iv, ciphertext []byte) bool
}

// ECB encrypts prefix ++ input ++ suffix in ECB mode under a fixed key.
type ECB struct {
	b      cipher.Block
	prefix []byte
	suffix []byte
}

// NewECBSuffix returns an oracle which appends suffix to every input.
func NewECBSuffix(key, suffix []byte) (*ECB, error) {
	return NewECBPrefixSuffix(key, nil, suffix)
}

// NewECBPrefixSuffix returns an oracle which also prepends a fixed prefix.
func NewECBPrefixSuffix(key, prefix, suffix []byte) (*ECB, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return &ECB{
		b:      b,
		prefix: append([]byte{}, prefix...),
		suffix: append([]byte{}, suffix...),
	}, nil
}

func (o *ECB) Encrypt(input []byte) []byte {
	buf := make([]byte, 0, len(o.prefix)+len(input)+len(o.suffix))
	buf = append(buf, o.prefix...)
	buf = append(buf, input...)
	buf = append(buf, o.suffix...)
	return ecb.EncryptWith(o.b, buf)
}

// CBCPadding encrypts under a fixed key with a fresh IV per message and
// answers padding queries.
type CBCPadding struct {
	b cipher.Block
}

func NewCBCPadding(key []byte) (*CBCPadding, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return &CBCPadding{b: b}, nil
}

// Encrypt returns a random IV and the CBC encryption of plaintext under it.
func (o *CBCPadding) Encrypt(plaintext []byte) (iv, ciphertext []byte) {
	iv = aesblock.RandomBytes(o.b.BlockSize())
	ciphertext, err := cbc.EncryptWith(o.b, iv, plaintext)
	if err != nil {
		panic(err)
	}
	return iv, ciphertext
}

func (o *CBCPadding) CheckPadding(iv, ciphertext []byte) bool {
	_, err := cbc.DecryptWith(o.b, iv, ciphertext)
	return err == nil
}
