// Package sha3 implements the original (pre-NIST) Keccak-1600 sponge as
// used by CryptoNight: a one-shot absorber that leaves the full 1600-bit
// state available to the caller, plus the raw permutation.
package sha3 // import "github.com/monerokit/cryptonight/internal/sha3"

import "encoding/binary"

// rate for a 200-byte (full state) output, as fixed by CNS008.
const rate = 136

// Keccak1600State absorbs data into a fresh Keccak state and leaves the
// resulting 200 bytes in st, as 25 little-endian words.
//
// The padding is the original Keccak 0x01 scheme, not the NIST SHA-3 0x06
// domain byte.
func Keccak1600State(st *[25]uint64, data []byte) {
	for i := range st {
		st[i] = 0
	}

	for len(data) >= rate {
		for i := 0; i < rate/8; i++ {
			st[i] ^= binary.LittleEndian.Uint64(data[i*8:])
		}
		keccakf(st)
		data = data[rate:]
	}

	var last [rate]byte
	copy(last[:], data)
	last[len(data)] = 0x01
	last[rate-1] |= 0x80
	for i := 0; i < rate/8; i++ {
		st[i] ^= binary.LittleEndian.Uint64(last[i*8:])
	}
	keccakf(st)
}

// Keccak1600Permute applies one Keccak-f[1600] permutation to st.
func Keccak1600Permute(st *[25]uint64) {
	keccakf(st)
}
