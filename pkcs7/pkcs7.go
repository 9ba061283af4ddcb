// Package pkcs7 implements PKCS#7 padding.
package pkcs7

import (
	"bytes"
	"errors"
)

var (
	ErrInvalidLength = errors.New("pkcs7: invalid padding length")
	ErrInvalidBytes  = errors.New("pkcs7: invalid padding bytes")
)

// Pad returns a copy of data padded to a multiple of blockSize. Aligned
// input gets a whole block of padding.
func Pad(data []byte, blockSize int) []byte {
	if blockSize < 1 || blockSize > 0xff {
		panic("pkcs7: invalid block size")
	}
	n := blockSize - len(data)%blockSize
	res := make([]byte, len(data), len(data)+n)
	copy(res, data)
	return append(res, bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad returns a copy of data with its padding removed.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidLength
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidLength
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidBytes
		}
	}
	return append([]byte{}, data[:len(data)-n]...), nil
}

// Valid reports whether data ends in well-formed padding.
func Valid(data []byte, blockSize int) bool {
	_, err := Unpad(data, blockSize)
	return err == nil
}
