package oracle

import (
	"crypto/cipher"
	"errors"
	"fmt"
	"strings"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/ecb"
)

// Layout of an encoded profile around the caller's email address.
const (
	ProfileHead   = "email="
	ProfileMiddle = "&uid=10&role="
	ProfileRole   = "user"
)

var ErrMalformedProfile = errors.New("oracle: malformed profile")

// KV is one key=value field of an encoded profile.
type KV struct {
	Key, Val string
}

var metaStripper = strings.NewReplacer("&", "", "=", "")

// ProfileFor encodes a user profile for email. '&' and '=' are removed
// from the address so it cannot add fields.
func ProfileFor(email string) string {
	return ProfileHead + metaStripper.Replace(email) + ProfileMiddle + ProfileRole
}

// ParseKV decodes a string of the form k1=v1&k2=v2.
func ParseKV(s string) ([]KV, error) {
	var res []KV
	for _, pair := range strings.Split(s, "&") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: field %q", ErrMalformedProfile, pair)
		}
		res = append(res, KV{Key: k, Val: v})
	}
	return res, nil
}

// Profile encrypts encoded profiles in ECB mode under a fixed key. The
// email address is the only input the caller controls.
type Profile struct {
	b cipher.Block
}

func NewProfile(key []byte) (*Profile, error) {
	b, err := aesblock.New(key)
	if err != nil {
		return nil, err
	}
	return &Profile{b: b}, nil
}

// Encrypt returns the encrypted profile for the email address in input.
func (o *Profile) Encrypt(input []byte) []byte {
	return ecb.EncryptWith(o.b, []byte(ProfileFor(string(input))))
}

// Decrypt decrypts and parses an encrypted profile.
func (o *Profile) Decrypt(ciphertext []byte) ([]KV, error) {
	pt, err := ecb.DecryptWith(o.b, ciphertext)
	if err != nil {
		return nil, err
	}
	return ParseKV(string(pt))
}

// Role returns the value of the last role field of an encrypted profile.
func (o *Profile) Role(ciphertext []byte) (string, error) {
	fields, err := o.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	role, found := "", false
	for _, f := range fields {
		if f.Key == "role" {
			role, found = f.Val, true
		}
	}
	if !found {
		return "", fmt.Errorf("%w: no role", ErrMalformedProfile)
	}
	return role, nil
}
