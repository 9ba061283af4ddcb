package oracle

import (
	"knivets.com/blockattack/aesblock"
	"knivets.com/blockattack/cbc"
	"knivets.com/blockattack/ecb"
)

type Mode int

const (
	ModeECB Mode = iota
	ModeCBC
)

func (m Mode) String() string {
	switch m {
	case ModeECB:
		return "ECB"
	case ModeCBC:
		return "CBC"
	}
	return "unknown"
}

// ModeGuess encrypts every input under a fresh key, surrounded by 5-10
// random bytes on each side, in either ECB or CBC mode picked at random.
type ModeGuess struct {
	last Mode
}

func (o *ModeGuess) Encrypt(input []byte) []byte {
	key := aesblock.RandomKey()
	buf := aesblock.RandomBytes(5 + aesblock.RandomInt(6))
	buf = append(buf, input...)
	buf = append(buf, aesblock.RandomBytes(5+aesblock.RandomInt(6))...)

	var (
		res []byte
		err error
	)
	if aesblock.RandomInt(2) == 0 {
		o.last = ModeECB
		res, err = ecb.Encrypt(key, buf)
	} else {
		o.last = ModeCBC
		res, err = cbc.Encrypt(key, aesblock.RandomBytes(aesblock.BlockSize), buf)
	}
	if err != nil {
		panic(err)
	}
	return res
}

// Mode returns the mode used by the most recent Encrypt call.
func (o *ModeGuess) Mode() Mode {
	return o.last
}
