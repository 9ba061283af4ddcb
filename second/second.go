// Package second runs the set 2 challenges against the mode layer and the
// attacks, checking each result against ground truth.
package second

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/attack"
	"knivets.com/blockattack/cbc"
	"knivets.com/blockattack/oracle"
	"knivets.com/blockattack/pkcs7"
)

var ErrMismatch = errors.New("result does not match expected value")

// Ninth checks PKCS#7 padding against the published vector.
func Ninth() ([]byte, error) {
	res := pkcs7.Pad([]byte("YELLOW SUBMARINE"), 20)
	if want := []byte("YELLOW SUBMARINE\x04\x04\x04\x04"); !bytes.Equal(res, want) {
		return nil, fmt.Errorf("%w: %q", ErrMismatch, res)
	}
	return res, nil
}

// tenthFirstLine opens the plaintext of the challenge 10 ciphertext.
const tenthFirstLine = "I'm back and I'm ringin' the bell \n"

// Tenth decrypts ciphertext in CBC mode under YELLOW SUBMARINE and a zero
// IV, checks the result against crypto/cipher and the known first line,
// and re-encrypts it to the same ciphertext.
func Tenth(ciphertext []byte) ([]byte, error) {
	key := []byte("YELLOW SUBMARINE")
	iv := make([]byte, aes.BlockSize)
	pt, err := cbc.Decrypt(key, iv, ciphertext)
	if err != nil {
		return nil, err
	}

	b, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	want := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(b, iv).CryptBlocks(want, ciphertext)
	if !bytes.Equal(pkcs7.Pad(pt, aes.BlockSize), want) {
		return nil, fmt.Errorf("%w: plaintext differs from crypto/cipher", ErrMismatch)
	}
	if !bytes.HasPrefix(pt, []byte(tenthFirstLine)) {
		return nil, fmt.Errorf("%w: plaintext starts %.40q", ErrMismatch, pt)
	}

	ct, err := cbc.Encrypt(key, iv, pt)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(ct, ciphertext) {
		return nil, fmt.Errorf("%w: round trip", ErrMismatch)
	}
	return pt, nil
}

// Eleventh guesses the mode of a randomly ECB or CBC oracle rounds times.
func Eleventh(rounds int) ([]byte, error) {
	var o oracle.ModeGuess
	counts := map[oracle.Mode]int{}
	for i := 0; i < rounds; i++ {
		got := attack.DetectMode(&o, aesblock.BlockSize)
		if got != o.Mode() {
			return nil, fmt.Errorf("%w: round %d guessed %v, oracle used %v", ErrMismatch, i, got, o.Mode())
		}
		counts[got]++
	}
	return []byte(fmt.Sprintf("%d ECB, %d CBC", counts[oracle.ModeECB], counts[oracle.ModeCBC])), nil
}

// Twelfth recovers secret from an ECB oracle that appends it to the input.
func Twelfth(secret []byte, opts ...attack.Option) ([]byte, error) {
	o, err := oracle.NewECBSuffix(aesblock.RandomKey(), secret)
	if err != nil {
		return nil, err
	}
	return recoverECB(o, secret, opts)
}

// Thirteenth forges an admin profile by pasting an ECB block holding
// "admin" over the role of an ordinary profile.
func Thirteenth(opts ...attack.Option) ([]byte, error) {
	o, err := oracle.NewProfile(aesblock.RandomKey())
	if err != nil {
		return nil, err
	}
	forged, err := attack.ForgeRole(o, len(oracle.ProfileHead), len(oracle.ProfileMiddle), "admin", opts...)
	if err != nil {
		return nil, err
	}
	role, err := o.Role(forged)
	if err != nil {
		return nil, err
	}
	if role != "admin" {
		return nil, fmt.Errorf("%w: forged role %q", ErrMismatch, role)
	}
	return []byte("role=" + role), nil
}

// Fourteenth is Twelfth with up to maxPrefix random bytes in front of the
// input.
func Fourteenth(secret []byte, maxPrefix int, opts ...attack.Option) ([]byte, error) {
	n := 0
	if maxPrefix > 0 {
		n = aesblock.RandomInt(maxPrefix + 1)
	}
	o, err := oracle.NewECBPrefixSuffix(aesblock.RandomKey(), aesblock.RandomBytes(n), secret)
	if err != nil {
		return nil, err
	}
	return recoverECB(o, secret, opts)
}

func recoverECB(o oracle.Encrypter, secret []byte, opts []attack.Option) ([]byte, error) {
	res, err := attack.RecoverECBSecret(o, opts...)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(res, secret) {
		return nil, fmt.Errorf("%w: recovered %q", ErrMismatch, res)
	}
	return res, nil
}

// Fifteenth checks padding validation on the published vectors.
func Fifteenth() ([]byte, error) {
	cases := []struct {
		in   string
		want error
	}{
		{"ICE ICE BABY\x04\x04\x04\x04", nil},
		{"ICE ICE BABY\x05\x05\x05\x05", pkcs7.ErrInvalidBytes},
		{"ICE ICE BABY\x01\x02\x03\x04", pkcs7.ErrInvalidBytes},
	}
	var res []byte
	for _, c := range cases {
		out, err := pkcs7.Unpad([]byte(c.in), aes.BlockSize)
		if !errors.Is(err, c.want) {
			return nil, fmt.Errorf("%w: Unpad(%q) error %v", ErrMismatch, c.in, err)
		}
		if err == nil {
			res = out
		}
	}
	return res, nil
}

// Sixteenth forges an admin=true field into the user data oracle by
// flipping bits in the block before it.
func Sixteenth() ([]byte, error) {
	o, err := oracle.NewUserData(aesblock.RandomKey(), aesblock.RandomBytes(aesblock.BlockSize))
	if err != nil {
		return nil, err
	}
	bs := aesblock.BlockSize
	// Pad the prefix out to a block boundary, then supply one block to
	// sacrifice and one to rewrite.
	skip := (bs - len(oracle.UserDataPrefix)%bs) % bs
	target := (len(oracle.UserDataPrefix)+skip)/bs + 1
	input := bytes.Repeat([]byte("A"), skip+2*bs)
	ct := o.Encrypt(input)

	delta, err := attack.Delta(input[skip+bs:], 0, []byte(";admin=true;"))
	if err != nil {
		return nil, err
	}
	forged, err := attack.Forge(ct, target, delta)
	if err != nil {
		return nil, err
	}
	if !o.IsAdmin(forged) {
		return nil, fmt.Errorf("%w: forged block %d is not admin", ErrMismatch, target)
	}
	return []byte("admin=true"), nil
}
