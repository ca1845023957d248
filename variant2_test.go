package cryptonight

import (
	"math"
	"math/rand"
	"testing"
)

func TestV2SqrtMatchesInteger(t *testing.T) {
	edge := []uint64{
		0, 1, 2, 3,
		1<<32 - 1, 1 << 32, 1<<32 + 1,
		1<<48 - 1, 1 << 48,
		1<<63 - 1, 1 << 63,
		math.MaxUint64 - 1, math.MaxUint64,
	}
	for _, in := range edge {
		if fp, integer := v2Sqrt(in), v2SqrtInteger(in); fp != integer {
			t.Errorf("v2Sqrt(%#x) = %d, integer path gives %d", in, fp, integer)
		}
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100000; i++ {
		in := rng.Uint64()
		if fp, integer := v2Sqrt(in), v2SqrtInteger(in); fp != integer {
			t.Fatalf("v2Sqrt(%#x) = %d, integer path gives %d", in, fp, integer)
		}
	}
}

// The fix-up must leave the result exact: r+2^33 is the integer part of
// 2*sqrt(2^64+n), so its square stays at or below the radicand and the
// next value's square goes above it.
func TestV2SqrtExact(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 10000; i++ {
		in := rng.Uint64()
		r := v2Sqrt(in)

		s := r >> 1
		lsb := r & 1
		r2 := s*(s+lsb) + r<<32
		if r2+lsb > in {
			t.Fatalf("v2Sqrt(%#x) = %d: too large", in, r)
		}
		if r2+1<<32 < in-s {
			t.Fatalf("v2Sqrt(%#x) = %d: too small", in, r)
		}
	}
}

func TestShuffleAdd(t *testing.T) {
	scratchpad := new([scratchpadWords]uint64)
	for i := uint64(0); i < 16; i++ {
		scratchpad[i] = i * 0x0101010101010101
	}

	a := &[2]uint64{1, 2}
	b := &[4]uint64{3, 4, 5, 6}
	out := &[2]uint64{7, 8}
	outV2 := *out

	const addr = 8 // block 4: chunks live at blocks 5, 6, 7
	c1 := [2]uint64{scratchpad[10], scratchpad[11]}
	c2 := [2]uint64{scratchpad[12], scratchpad[13]}
	c3 := [2]uint64{scratchpad[14], scratchpad[15]}

	shuffleAdd(scratchpad, addr, out, a, b, 2)

	if scratchpad[10] != c3[0]+b[2] || scratchpad[11] != c3[1]+b[3] {
		t.Error("chunk1 not refreshed from chunk3 + b[16..32]")
	}
	if scratchpad[14] != c2[0]+a[0] || scratchpad[15] != c2[1]+a[1] {
		t.Error("chunk3 not refreshed from chunk2 + a")
	}
	if scratchpad[12] != c1[0]+b[0] || scratchpad[13] != c1[1]+b[1] {
		t.Error("chunk2 not refreshed from chunk1 + b[0..16]")
	}
	if *out != outV2 {
		t.Error("variant 2 must leave out untouched")
	}

	// variant 4 folds the three pre-images into out
	for i := uint64(0); i < 16; i++ {
		scratchpad[i] = i * 0x0101010101010101
	}
	shuffleAdd(scratchpad, addr, out, a, b, 4)
	if out[0] != outV2[0]^c1[0]^c2[0]^c3[0] || out[1] != outV2[1]^c1[1]^c2[1]^c3[1] {
		t.Error("variant 4 out fold is wrong")
	}
}

func TestVariant2IntegerMathDivisorNeverEven(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	var division, sqrt uint64
	for i := 0; i < 1000; i++ {
		c1 := &[2]uint64{rng.Uint64(), rng.Uint64()}
		c2 := &[2]uint64{rng.Uint64(), rng.Uint64()}
		sqrtBefore := sqrt
		variant2IntegerMath(c2, c1, &division, &sqrt)

		divisor := uint64(uint32(c1[0])+uint32(sqrtBefore<<1) | 0x80000001)
		if divisor&1 == 0 || divisor < 0x80000001 {
			t.Fatalf("divisor %#x escapes the forced-bit mask", divisor)
		}
	}
}
