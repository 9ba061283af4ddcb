package oracle

import (
	"crypto/cipher"
	"fmt"
	"strings"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/cbc"
)

const (
	UserDataPrefix = "comment1=cooking%20MCs;userdata="
	UserDataSuffix = ";comment2=%20like%20a%20pound%20of%20bacon"
)

var quoter = strings.NewReplacer(";", "%3B", "=", "%3D")

// UserData wraps caller-supplied data in a fixed comment string and
// encrypts it in CBC mode under a fixed key and IV.
type UserData struct {
	b  cipher.Block
	iv []byte
}

func NewUserData(key, iv []byte) (*UserData, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != b.BlockSize() {
		return nil, fmt.Errorf("%w: %d", cbc.ErrInvalidIVLength, len(iv))
	}
	return &UserData{b: b, iv: append([]byte{}, iv...)}, nil
}

// Encrypt quotes out ';' and '=' in data before encrypting.
func (o *UserData) Encrypt(data []byte) []byte {
	pt := UserDataPrefix + quoter.Replace(string(data)) + UserDataSuffix
	res, err := cbc.EncryptWith(o.b, o.iv, []byte(pt))
	if err != nil {
		panic(err)
	}
	return res
}

// IsAdmin decrypts ciphertext and reports whether it holds an
// "admin=true" field.
func (o *UserData) IsAdmin(ciphertext []byte) bool {
	pt, err := cbc.DecryptWith(o.b, o.iv, ciphertext)
	if err != nil {
		return false
	}
	for _, field := range strings.Split(string(pt), ";") {
		if field == "admin=true" {
			return true
		}
	}
	return false
}
