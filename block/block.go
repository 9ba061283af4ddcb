// Package block holds byte and block helpers shared by the mode layer,
// the oracles and the attacks.
package block

import "fmt"

// XOR returns a^b. Both buffers must be the same length.
func XOR(a, b []byte) []byte {
	if len(a) != len(b) {
		panic(fmt.Sprintf("block: XOR of %d and %d bytes", len(a), len(b)))
	}
	res := make([]byte, len(a))
	for i := range a {
		res[i] = a[i] ^ b[i]
	}
	return res
}

// XORInto sets dst[i] = dst[i] ^ src[i] for every byte of src.
func XORInto(dst, src []byte) {
	for i := range src {
		dst[i] ^= src[i]
	}
}

// Split divides data into size-byte chunks. The last chunk is short when
// len(data) is not a multiple of size. Chunks alias data.
func Split(data []byte, size int) [][]byte {
	var res [][]byte
	for len(data) > size {
		res = append(res, data[:size:size])
		data = data[size:]
	}
	if len(data) > 0 {
		res = append(res, data)
	}
	return res
}

// Repeat returns n copies of b.
func Repeat(b byte, n int) []byte {
	res := make([]byte, n)
	for i := range res {
		res[i] = b
	}
	return res
}

// Get returns block i of data, or nil when data is too short.
func Get(data []byte, size, i int) []byte {
	start, end := i*size, (i+1)*size
	if i < 0 || end > len(data) {
		return nil
	}
	return data[start:end]
}

// CountDuplicates returns how many blocks of data repeat an earlier block.
func CountDuplicates(data []byte, size int) int {
	seen := map[string]bool{}
	count := 0
	for _, chunk := range Split(data, size) {
		if seen[string(chunk)] {
			count++
		}
		seen[string(chunk)] = true
	}
	return count
}

// HasRepeatedBlocks reports whether any block of data appears twice, the
// signature of ECB mode.
func HasRepeatedBlocks(data []byte, size int) bool {
	return CountDuplicates(data, size) > 0
}

// FirstRepeat returns the index of the first block equal to its successor,
// or -1.
func FirstRepeat(data []byte, size int) int {
	for i := 0; (i+2)*size <= len(data); i++ {
		if string(Get(data, size, i)) == string(Get(data, size, i+1)) {
			return i
		}
	}
	return -1
}
