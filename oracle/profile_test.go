package oracle

import (
	"errors"
	"reflect"
	"testing"

	"knivets.com/blockattack/aesblock"
)

func TestProfileFor(t *testing.T) {
	cases := []struct {
		email, want string
	}{
		{"foo@bar.com", "email=foo@bar.com&uid=10&role=user"},
		{"foo@bar.com&role=admin", "email=foo@bar.comroleadmin&uid=10&role=user"},
		{"", "email=&uid=10&role=user"},
	}
	for _, c := range cases {
		if got := ProfileFor(c.email); got != c.want {
			t.Errorf("ProfileFor(%q) = %q, want %q", c.email, got, c.want)
		}
	}
}

func TestParseKV(t *testing.T) {
	got, err := ParseKV("foo=bar&baz=qux&zap=zazzle")
	if err != nil {
		t.Fatal(err)
	}
	want := []KV{{"foo", "bar"}, {"baz", "qux"}, {"zap", "zazzle"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseKV = %v, want %v", got, want)
	}
	for _, s := range []string{"", "foo", "foo=bar&", "=bar"} {
		if _, err := ParseKV(s); !errors.Is(err, ErrMalformedProfile) {
			t.Errorf("ParseKV(%q) error = %v, want ErrMalformedProfile", s, err)
		}
	}
}

func TestProfileRole(t *testing.T) {
	o, err := NewProfile(aesblock.RandomKey())
	if err != nil {
		t.Fatal(err)
	}
	ct := o.Encrypt([]byte("foo@bar.com&role=admin"))
	role, err := o.Role(ct)
	if err != nil {
		t.Fatal(err)
	}
	if role != ProfileRole {
		t.Errorf("role %q, want %q", role, ProfileRole)
	}
	fields, err := o.Decrypt(ct)
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != 3 || fields[0].Val != "foo@bar.comroleadmin" {
		t.Errorf("fields %v", fields)
	}
	if _, err := o.Role(ct[:len(ct)-1]); err == nil {
		t.Error("truncated ciphertext accepted")
	}
	if _, err := NewProfile(make([]byte, 5)); !errors.Is(err, aesblock.ErrInvalidKeyLength) {
		t.Errorf("short key error = %v", err)
	}
}
