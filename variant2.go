package cryptonight // import "github.com/monerokit/cryptonight"

import "math"

// shuffleAdd is the variant 2 shuffle modification: the three 16-byte
// scratchpad chunks around addr are rotated and refreshed with sums of a
// and the two halves of b. All three pre-images are captured before any
// write. For variant 4 they are additionally folded into out.
//
// addr is a 64-bit word index, 16-byte aligned (even).
func shuffleAdd(scratchpad *[scratchpadWords]uint64, addr uint64, out *[2]uint64, a *[2]uint64, b *[4]uint64, variant int) {
	chunk1, chunk2, chunk3 := addr^0x2, addr^0x4, addr^0x6

	c10, c11 := scratchpad[chunk1], scratchpad[chunk1+1]
	c20, c21 := scratchpad[chunk2], scratchpad[chunk2+1]
	c30, c31 := scratchpad[chunk3], scratchpad[chunk3+1]

	scratchpad[chunk1] = c30 + b[2]
	scratchpad[chunk1+1] = c31 + b[3]
	scratchpad[chunk3] = c20 + a[0]
	scratchpad[chunk3+1] = c21 + a[1]
	scratchpad[chunk2] = c10 + b[0]
	scratchpad[chunk2+1] = c11 + b[1]

	if variant >= 4 {
		out[0] ^= c10 ^ c20 ^ c30
		out[1] ^= c11 ^ c21 ^ c31
	}
}

// variant2IntegerMath folds the division/sqrt chain into c2 and advances
// it from c1. divisionResult and sqrtResult persist across iterations.
func variant2IntegerMath(c2, c1 *[2]uint64, divisionResult, sqrtResult *uint64) {
	c2[0] ^= *divisionResult ^ *sqrtResult<<32

	dividend := c1[1]
	divisor := uint64(uint32(c1[0])+uint32(*sqrtResult<<1) | 0x80000001)
	*divisionResult = uint64(uint32(dividend/divisor)) + (dividend%divisor)<<32

	*sqrtResult = v2Sqrt(c1[0] + *divisionResult)
}

// v2Sqrt computes the integer part of sqrt(2^64 + input) * 2 - 2^33, i.e.
// the variant 2 square root. The double rounding is corrected with an
// exact integer fix-up, so the result is bit-exact on every platform.
func v2Sqrt(input uint64) uint64 {
	r := uint64(math.Sqrt(float64(input)+18446744073709551616.0)*2 - 8589934592.0)

	s := r >> 1
	lsb := r & 1
	r2 := s*(s+lsb) + r<<32
	if r2+lsb > input {
		r--
	}
	if r2+1<<32 < input-s {
		r++
	}
	return r
}

// v2SqrtInteger is v2Sqrt computed without floating point. The pipeline
// uses the FP version; this one exists to pin its behavior down.
func v2SqrtInteger(input uint64) uint64 {
	// floor(sqrt(4 * (2^64 + input))), a 67-bit radicand
	r := isqrt128(4+input>>62, input<<2) - 8589934592

	s := r >> 1
	lsb := r & 1
	r2 := s*(s+lsb) + r<<32
	if r2+lsb > input {
		r--
	}
	if r2+1<<32 < input-s {
		r++
	}
	return r
}

// isqrt128 returns the integer square root of the 128-bit value hi:lo.
// The root must fit in 63 bits, which holds for every radicand the
// variant 2 math can produce.
func isqrt128(hi, lo uint64) uint64 {
	var root, rem uint64
	for i := 0; i < 64; i++ {
		rem = rem<<2 | hi>>62
		hi = hi<<2 | lo>>62
		lo <<= 2
		root <<= 1
		if t := root<<1 | 1; rem >= t {
			rem -= t
			root |= 1
		}
	}
	return root
}
