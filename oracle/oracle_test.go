package oracle

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/block"
	"knivets.com/blockattack/cbc"
	"knivets.com/blockattack/ecb"
)

func TestECBSuffix(t *testing.T) {
	key := aesblock.RandomKey()
	secret := []byte("attack at dawn")
	o, err := NewECBSuffix(key, secret)
	if err != nil {
		t.Fatal(err)
	}
	secret[0] = 'X'

	ct := o.Encrypt([]byte("hello "))
	pt, err := ecb.Decrypt(key, ct)
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != "hello attack at dawn" {
		t.Errorf("decrypted %q", pt)
	}
	if !bytes.Equal(ct, o.Encrypt([]byte("hello "))) {
		t.Error("oracle is not deterministic")
	}
}

func TestECBPrefixSuffix(t *testing.T) {
	key := aesblock.RandomKey()
	o, err := NewECBPrefixSuffix(key, []byte("pre-"), []byte("-post"))
	if err != nil {
		t.Fatal(err)
	}
	pt, err := ecb.Decrypt(key, o.Encrypt([]byte("mid")))
	if err != nil {
		t.Fatal(err)
	}
	if string(pt) != "pre-mid-post" {
		t.Errorf("decrypted %q", pt)
	}
}

func TestBadKey(t *testing.T) {
	if _, err := NewECBSuffix([]byte("short"), nil); !errors.Is(err, aesblock.ErrInvalidKeyLength) {
		t.Errorf("NewECBSuffix error = %v", err)
	}
	if _, err := NewCBCPadding(nil); !errors.Is(err, aesblock.ErrInvalidKeyLength) {
		t.Errorf("NewCBCPadding error = %v", err)
	}
	if _, err := NewUserData(aesblock.RandomKey(), []byte("iv")); !errors.Is(err, cbc.ErrInvalidIVLength) {
		t.Errorf("NewUserData error = %v", err)
	}
}

func TestCheckPadding(t *testing.T) {
	o, err := NewCBCPadding(aesblock.RandomKey())
	if err != nil {
		t.Fatal(err)
	}
	iv, ct := o.Encrypt([]byte("a message that spans a few blocks of text"))
	if !o.CheckPadding(iv, ct) {
		t.Fatal("valid ciphertext rejected")
	}
	if o.CheckPadding(iv[:8], ct) {
		t.Error("short IV accepted")
	}
	if o.CheckPadding(iv, ct[:len(ct)-1]) {
		t.Error("partial block accepted")
	}

	iv2, _ := o.Encrypt([]byte("a message that spans a few blocks of text"))
	if bytes.Equal(iv, iv2) {
		t.Error("IV reused across messages")
	}
}

func TestCheckPaddingSensitivity(t *testing.T) {
	o, err := NewCBCPadding(aesblock.RandomKey())
	if err != nil {
		t.Fatal(err)
	}
	const trials = 200
	valid := 0
	for i := 0; i < trials; i++ {
		iv, ct := o.Encrypt(aesblock.RandomBytes(40))
		last := ct[len(ct)-aesblock.BlockSize:]
		pos := aesblock.RandomInt(aesblock.BlockSize)
		last[pos] ^= byte(1 + aesblock.RandomInt(255))
		if o.CheckPadding(iv, ct) {
			valid++
		}
	}
	// Each mutation leaves valid padding with probability about 1/256.
	if valid > 10 {
		t.Errorf("%d of %d mutated ciphertexts still passed", valid, trials)
	}
}

func TestModeGuess(t *testing.T) {
	var o ModeGuess
	seen := map[Mode]bool{}
	for i := 0; i < 64; i++ {
		ct := o.Encrypt(bytes.Repeat([]byte("A"), 48))
		repeated := block.HasRepeatedBlocks(ct, aesblock.BlockSize)
		if repeated != (o.Mode() == ModeECB) {
			t.Errorf("mode %v but repeated blocks = %v", o.Mode(), repeated)
		}
		seen[o.Mode()] = true
	}
	if !seen[ModeECB] || !seen[ModeCBC] {
		t.Errorf("64 rounds only used %v", seen)
	}
}

func TestUserDataQuoting(t *testing.T) {
	key, iv := aesblock.RandomKey(), aesblock.RandomBytes(aesblock.BlockSize)
	o, err := NewUserData(key, iv)
	if err != nil {
		t.Fatal(err)
	}
	ct := o.Encrypt([]byte(";admin=true;"))
	if o.IsAdmin(ct) {
		t.Error("quoting let admin=true through")
	}
	pt, err := cbc.Decrypt(key, iv, ct)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(pt), "%3Badmin%3Dtrue%3B") {
		t.Errorf("plaintext %q", pt)
	}
	if !strings.HasPrefix(string(pt), UserDataPrefix) || !strings.HasSuffix(string(pt), UserDataSuffix) {
		t.Errorf("plaintext %q not wrapped", pt)
	}
}

func TestModeString(t *testing.T) {
	if ModeECB.String() != "ECB" || ModeCBC.String() != "CBC" || Mode(7).String() != "unknown" {
		t.Error("unexpected Mode strings")
	}
}
