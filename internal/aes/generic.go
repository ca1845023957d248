package aes // import "github.com/monerokit/cryptonight/internal/aes"

// The generic implementation works on the byte view of each block. A block
// is two little-endian uint64 words; AES state byte 4c+r is row r of
// column c, and round-key word c holds column c with row 0 in the low byte.

func xtime(b byte) byte {
	return b<<1 ^ b>>7*0x1b
}

func cnExpandKey(key []uint64, rkeys *[40]uint32) {
	var w [40][4]byte
	for i := 0; i < 8; i++ {
		k := key[i/2] >> (uint(i%2) * 32)
		w[i] = [4]byte{byte(k), byte(k >> 8), byte(k >> 16), byte(k >> 24)}
	}
	for i := 8; i < 40; i++ {
		t := w[i-1]
		switch {
		case i%8 == 0:
			t = [4]byte{sbox[t[1]] ^ rcon[i/8], sbox[t[2]], sbox[t[3]], sbox[t[0]]}
		case i%8 == 4:
			t = [4]byte{sbox[t[0]], sbox[t[1]], sbox[t[2]], sbox[t[3]]}
		}
		for j := 0; j < 4; j++ {
			w[i][j] = w[i-8][j] ^ t[j]
		}
	}
	for i := range rkeys {
		rkeys[i] = uint32(w[i][0]) | uint32(w[i][1])<<8 | uint32(w[i][2])<<16 | uint32(w[i][3])<<24
	}
}

// round applies SubBytes, ShiftRows, MixColumns and AddRoundKey to s.
func round(s *[16]byte, rk []uint32) {
	var t [16]byte
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			t[4*c+r] = sbox[s[4*((c+r)&3)+r]]
		}
	}
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := t[4*c], t[4*c+1], t[4*c+2], t[4*c+3]
		k := rk[c]
		s[4*c+0] = xtime(a0) ^ xtime(a1) ^ a1 ^ a2 ^ a3 ^ byte(k)
		s[4*c+1] = a0 ^ xtime(a1) ^ xtime(a2) ^ a2 ^ a3 ^ byte(k>>8)
		s[4*c+2] = a0 ^ a1 ^ xtime(a2) ^ xtime(a3) ^ a3 ^ byte(k>>16)
		s[4*c+3] = xtime(a0) ^ a0 ^ a1 ^ a2 ^ xtime(a3) ^ byte(k>>24)
	}
}

func load(s *[16]byte, src []uint64) {
	lo, hi := src[0], src[1]
	for i := 0; i < 8; i++ {
		s[i] = byte(lo >> (8 * uint(i)))
		s[8+i] = byte(hi >> (8 * uint(i)))
	}
}

func store(dst []uint64, s *[16]byte) {
	var lo, hi uint64
	for i := 7; i >= 0; i-- {
		lo = lo<<8 | uint64(s[i])
		hi = hi<<8 | uint64(s[8+i])
	}
	dst[0], dst[1] = lo, hi
}

func cnRounds(dst, src []uint64, rkeys *[40]uint32) {
	var s [16]byte
	load(&s, src)
	for r := 0; r < 10; r++ {
		round(&s, rkeys[r*4:r*4+4])
	}
	store(dst, &s)
}

func cnSingleRound(dst, src []uint64, rkey *[4]uint32) {
	var s [16]byte
	load(&s, src)
	round(&s, rkey[:])
	store(dst, &s)
}
