package attack

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/cbc"
	"knivets.com/blockattack/oracle"
)

const rollin = "Um9sbGluJyBpbiBteSA1LjAKV2l0aCBteSByYWctdG9wIGRvd24gc28gbXkg" +
	"aGFpciBjYW4gYmxvdwpUaGUgZ2lybGllcyBvbiBzdGFuZGJ5IHdhdmluZyBq" +
	"dXN0IHRvIHNheSBoaQpEaWQgeW91IHN0b3A/IE5vLCBJIGp1c3QgZHJvdmUg" +
	"YnkK"

func rollinSecret(t *testing.T) []byte {
	t.Helper()
	secret, err := base64.StdEncoding.DecodeString(rollin)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret) != 138 {
		t.Fatalf("secret is %d bytes", len(secret))
	}
	return secret
}

// counting wraps an Encrypter and counts queries.
type counting struct {
	oracle.Encrypter
	n int
}

func (c *counting) Encrypt(input []byte) []byte {
	c.n++
	return c.Encrypter.Encrypt(input)
}

// cbcEncrypter is a CBC oracle with a fixed IV, used where ECB is expected.
type cbcEncrypter struct {
	key, iv, suffix []byte
}

func (c cbcEncrypter) Encrypt(input []byte) []byte {
	res, err := cbc.Encrypt(c.key, c.iv, append(append([]byte{}, input...), c.suffix...))
	if err != nil {
		panic(err)
	}
	return res
}

func TestRecoverECBSecret(t *testing.T) {
	secret := rollinSecret(t)
	o, err := oracle.NewECBSuffix(aesblock.RandomKey(), secret)
	if err != nil {
		t.Fatal(err)
	}
	got, err := RecoverECBSecret(o)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, secret) {
		t.Errorf("recovered %q\nwant %q", got, secret)
	}
}

func TestRecoverECBSecretWithPrefix(t *testing.T) {
	secrets := [][]byte{
		[]byte("AAAA secret that begins with the filler byte"),
		// Runs of one byte repeat blocks inside the secret itself.
		bytes.Repeat([]byte("z"), 47),
		bytes.Repeat([]byte("A"), 48),
		append(bytes.Repeat([]byte("B"), 40), "tail"...),
	}
	for _, secret := range secrets {
		for _, n := range []int{0, 1, 5, 15, 16, 17, 20, 31, 40} {
			prefix := aesblock.RandomBytes(n)
			if n > 0 {
				// A prefix ending in a filler byte must not confuse alignment.
				prefix[n-1] = 'B'
			}
			o, err := oracle.NewECBPrefixSuffix(aesblock.RandomKey(), prefix, secret)
			if err != nil {
				t.Fatal(err)
			}
			got, err := RecoverECBSecret(o)
			if err != nil {
				t.Fatalf("prefix %d, secret %.8q: %v", n, secret, err)
			}
			if !bytes.Equal(got, secret) {
				t.Errorf("prefix %d: recovered %q, want %q", n, got, secret)
			}
		}
	}
}

func TestControlledRepeat(t *testing.T) {
	a, b, c, d := bytes.Repeat([]byte{1}, 4), bytes.Repeat([]byte{2}, 4), bytes.Repeat([]byte{3}, 4), bytes.Repeat([]byte{4}, 4)
	join := func(blocks ...[]byte) []byte { return bytes.Join(blocks, nil) }
	cases := []struct {
		name     string
		ct1, ct2 []byte
		want     int
	}{
		{"input pair", join(c, a, a, d), join(c, b, b, d), 1},
		{"fixed pair only", join(c, c, a), join(c, c, b), -1},
		{"fixed pair before input", join(d, d, a, a), join(d, d, b, b), 2},
		{"equal under one filler", join(a, a, c), join(b, d, c), -1},
		{"length differs", join(a, a), join(b, b, c), -1},
	}
	for _, tc := range cases {
		if got := controlledRepeat(tc.ct1, tc.ct2, 4); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestRecoverECBSecretEdgeLengths(t *testing.T) {
	for _, n := range []int{0, 1, 15, 16, 17, 32} {
		secret := aesblock.RandomBytes(n)
		o, err := oracle.NewECBSuffix(aesblock.RandomKey(), secret)
		if err != nil {
			t.Fatal(err)
		}
		got, err := RecoverECBSecret(o)
		if err != nil {
			t.Fatalf("%d-byte secret: %v", n, err)
		}
		if !bytes.Equal(got, secret) {
			t.Errorf("%d-byte secret: recovered %x, want %x", n, got, secret)
		}
	}
}

func TestRecoverECBSecretNotECB(t *testing.T) {
	o := cbcEncrypter{aesblock.RandomKey(), aesblock.RandomBytes(16), []byte("hidden")}
	_, err := RecoverECBSecret(o)
	if !errors.Is(err, ErrNotECB) {
		t.Errorf("error = %v, want ErrNotECB", err)
	}
}

func TestRecoverECBSecretBudget(t *testing.T) {
	o, err := oracle.NewECBSuffix(aesblock.RandomKey(), rollinSecret(t))
	if err != nil {
		t.Fatal(err)
	}
	c := &counting{Encrypter: o}
	_, err = RecoverECBSecret(c, MaxQueries(500))
	if !errors.Is(err, ErrQueryBudgetExceeded) {
		t.Errorf("error = %v, want ErrQueryBudgetExceeded", err)
	}
	if c.n != 500 {
		t.Errorf("oracle saw %d queries, want 500", c.n)
	}
}

func TestDetectBlockSize(t *testing.T) {
	o, err := oracle.NewECBSuffix(aesblock.RandomKey(), []byte("xyz"))
	if err != nil {
		t.Fatal(err)
	}
	bs, err := DetectBlockSize(o)
	if err != nil {
		t.Fatal(err)
	}
	if bs != aesblock.BlockSize {
		t.Errorf("block size %d", bs)
	}
}

func TestDetectMode(t *testing.T) {
	var o oracle.ModeGuess
	for i := 0; i < 50; i++ {
		if got := DetectMode(&o, aesblock.BlockSize); got != o.Mode() {
			t.Fatalf("round %d: detected %v, oracle used %v", i, got, o.Mode())
		}
	}
}
