// Package third runs the CBC padding oracle challenge.
package third

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"

	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/attack"
	"knivets.com/blockattack/oracle"
	"knivets.com/blockattack/second"
)

// Seventeenth picks one of the base64 lines at random, encrypts it under a
// padding oracle and recovers it from the oracle's padding verdicts alone.
func Seventeenth(lines []string, opts ...attack.Option) ([]byte, error) {
	if len(lines) == 0 {
		return nil, errors.New("no plaintext lines")
	}
	line := lines[aesblock.RandomInt(len(lines))]
	pt, err := base64.StdEncoding.DecodeString(line)
	if err != nil {
		return nil, err
	}

	o, err := oracle.NewCBCPadding(aesblock.RandomKey())
	if err != nil {
		return nil, err
	}
	iv, ct := o.Encrypt(pt)
	res, err := attack.RecoverCBCPlaintext(o, iv, ct, opts...)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(res, pt) {
		return nil, fmt.Errorf("%w: recovered %q", second.ErrMismatch, res)
	}
	return res, nil
}
