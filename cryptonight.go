// Package cryptonight implements the CryptoNight hash function and its
// variants 0 through 4 (variant 4 is also known as CryptoNight-R).
//
// ref: https://cryptonote.org/cns/cns008.txt
package cryptonight // import "github.com/monerokit/cryptonight"

import (
	"encoding/binary"
	"hash"
	"math/bits"

	"github.com/aead/skein"
	"github.com/dchest/blake256"

	"github.com/monerokit/cryptonight/groestl"
	"github.com/monerokit/cryptonight/internal/aes"
	"github.com/monerokit/cryptonight/internal/sha3"
	"github.com/monerokit/cryptonight/jh"
)

const (
	// scratchpadWords is the 2 MiB scratchpad size in 64-bit words.
	scratchpadWords = 2 * 1024 * 1024 / 8

	iterations = 524288 // ITER / 2
)

// Cache can reuse the memory chunks for potential multiple Sum calls. A
// Cache instance occupies a little over 2 MiB in memory, almost all of it
// the scratchpad.
//
// cache.Sum is not concurrent safe. A Cache allows at most one Sum running
// at a time. To hash concurrently, either create one Cache per worker
// (recommended for mining apps), or manage instances with a sync.Pool
// (recommended for mining pools):
//
//	cachePool := sync.Pool{
//		New: func() interface{} {
//			return new(cryptonight.Cache)
//		},
//	}
//
//	// ...
//	blob := <-share // received from some miner
//	if len(blob) < 43 { // input for variant 1 must be at least 43 bytes.
//		// reject share...
//		return
//	}
//	cache := cachePool.Get().(*cryptonight.Cache)
//	sum := cache.Sum(blob, 1)
//	// cache is not used after Sum returns; put it back promptly.
//	cachePool.Put(cache)
//	diff := cryptonight.Difficulty(sum)
//	// accept share...
//
// The zero value for Cache is ready to use. A Cache should be allocated
// with new; its scratchpad is far too large for a typical stack frame.
type Cache struct {
	finalState [25]uint64              // state of Keccak-1600
	scratchpad [scratchpadWords]uint64 // 2 MiB scratchpad for the memory-hard loop
}

// Sum calculates a CryptoNight digest for variants 0 through 3. The return
// value is exactly 32 bytes long.
//
// Sum panics if variant is 1 and data has fewer than 43 bytes, and if
// variant is outside 0..4. Variant 4 is accepted with an implied block
// height of 0; use SumV4 to supply a height.
func (cache *Cache) Sum(data []byte, variant int) []byte {
	return cache.sum(data, variant, 0)
}

// SumV4 calculates a CryptoNight variant 4 (CryptoNight-R) digest of data
// for the given block height. The return value is exactly 32 bytes long.
func (cache *Cache) SumV4(data []byte, height uint64) []byte {
	return cache.sum(data, 4, height)
}

func (cache *Cache) sum(data []byte, variant int, height uint64) []byte {
	if variant < 0 || variant > 4 {
		panic("cryptonight: unknown variant")
	}
	if variant == 1 && len(data) < 43 {
		panic("cryptonight: variant 1 requires at least 43 bytes of input")
	}

	// as per CNS008 sec.3 Scratchpad Initialization
	sha3.Keccak1600State(&cache.finalState, data)

	// variant 1 tweak seed
	var tweak uint64
	if variant == 1 {
		tweak = cache.finalState[24] ^ binary.LittleEndian.Uint64(data[35:43])
	}

	// variant 2/3 division and square root chain
	var divisionResult, sqrtResult uint64

	// a is 16 bytes, b is 32 bytes; the second half of b stays zero for
	// variants below 2.
	a, b := new([2]uint64), new([4]uint64)
	c1, c2 := new([2]uint64), new([2]uint64)
	var a1, d [2]uint64

	if variant >= 2 {
		b[2] = cache.finalState[8] ^ cache.finalState[10]
		b[3] = cache.finalState[9] ^ cache.finalState[11]
		divisionResult = cache.finalState[12]
		sqrtResult = cache.finalState[13]
	}

	// variant 4 register file and random program
	var r [9]uint32
	var code [numInstructionsMax + 1]v4Instruction
	if variant >= 4 {
		r[0] = uint32(cache.finalState[12])
		r[1] = uint32(cache.finalState[12] >> 32)
		r[2] = uint32(cache.finalState[13])
		r[3] = uint32(cache.finalState[13] >> 32)
		code = v4RandomMathInit(height)
	}

	// scratchpad init
	rkeys := new([40]uint32)
	aes.CnExpandKey(cache.finalState[:4], rkeys)
	blocks := make([]uint64, 16)
	copy(blocks, cache.finalState[8:24])

	for i := 0; i < scratchpadWords; i += 16 {
		for j := 0; j < 16; j += 2 {
			aes.CnRounds(blocks[j:], blocks[j:], rkeys)
		}
		copy(cache.scratchpad[i:], blocks)
	}

	// as per CNS008 sec.4 Memory-Hard Loop
	a[0] = cache.finalState[0] ^ cache.finalState[4]
	a[1] = cache.finalState[1] ^ cache.finalState[5]
	b[0] = cache.finalState[2] ^ cache.finalState[6]
	b[1] = cache.finalState[3] ^ cache.finalState[7]

	var rk [4]uint32
	var addr uint64

	for i := 0; i < iterations; i++ {
		// first access: one AES round keyed with a
		addr = (a[0] & 0x1ffff0) >> 3
		rk[0], rk[1] = uint32(a[0]), uint32(a[0]>>32)
		rk[2], rk[3] = uint32(a[1]), uint32(a[1]>>32)
		aes.CnSingleRound(c1[:], cache.scratchpad[addr:], &rk)
		if variant >= 2 {
			shuffleAdd(&cache.scratchpad, addr, c1, a, b, variant)
		}
		cache.scratchpad[addr] = b[0] ^ c1[0]
		cache.scratchpad[addr+1] = b[1] ^ c1[1]
		if variant == 1 {
			t := uint8(cache.scratchpad[addr+1] >> 24)
			index := (t>>3&6 | t&1) << 1
			cache.scratchpad[addr+1] ^= uint64(0x75310>>index&0x30) << 24
		}

		// second access: 64x64 multiply and add
		addr = (c1[0] & 0x1ffff0) >> 3
		c2[0] = cache.scratchpad[addr]
		c2[1] = cache.scratchpad[addr+1]
		a1[0], a1[1] = a[0], a[1]

		if variant == 2 || variant == 3 {
			variant2IntegerMath(c2, c1, &divisionResult, &sqrtResult)
		}
		if variant >= 4 {
			variant4RandomMath(&a1, c2, &r, b, &code)
		}

		d[0], d[1] = bits.Mul64(c1[0], c2[0])
		if variant == 2 || variant == 3 {
			cache.scratchpad[addr^2] ^= d[0]
			cache.scratchpad[addr^2+1] ^= d[1]
			d[0] ^= cache.scratchpad[addr^4]
			d[1] ^= cache.scratchpad[addr^4+1]
		}
		if variant >= 2 {
			shuffleAdd(&cache.scratchpad, addr, c1, a, b, variant)
		}

		a1[0] += d[0]
		a1[1] += d[1]
		// swap a1 with c2, then fold c2 back into a1
		a1[0], c2[0] = a1[0]^c2[0], a1[0]
		a1[1], c2[1] = a1[1]^c2[1], a1[1]
		if variant == 1 {
			c2[1] ^= tweak
		}
		cache.scratchpad[addr] = c2[0]
		cache.scratchpad[addr+1] = c2[1]

		if variant >= 2 {
			b[2], b[3] = b[0], b[1]
		}
		b[0], b[1] = c1[0], c1[1]
		a[0], a[1] = a1[0], a1[1]
	}

	// as per CNS008 sec.5 Result Calculation
	aes.CnExpandKey(cache.finalState[4:8], rkeys)
	copy(blocks, cache.finalState[8:24])

	for i := 0; i < scratchpadWords; i += 16 {
		for j := 0; j < 16; j += 2 {
			blocks[j] ^= cache.scratchpad[i+j]
			blocks[j+1] ^= cache.scratchpad[i+j+1]
			aes.CnRounds(blocks[j:], blocks[j:], rkeys)
		}
	}
	copy(cache.finalState[8:24], blocks)

	sha3.Keccak1600Permute(&cache.finalState)

	var state [200]byte
	for i, v := range cache.finalState {
		binary.LittleEndian.PutUint64(state[i*8:], v)
	}

	var h hash.Hash
	switch state[0] & 0x03 {
	case 0x00:
		h = blake256.New()
	case 0x01:
		h = groestl.New256()
	case 0x02:
		h = jh.New256()
	default:
		h = skein.New256(nil)
	}
	h.Write(state[:])

	return h.Sum(nil)
}

// Sum calculates a CryptoNight digest for variants 0 through 3. The return
// value is exactly 32 bytes long.
//
// Sum panics if variant is 1 and data has fewer than 43 bytes, and if
// variant is outside 0..4.
//
// Sum is not recommended for a large scale of calls since CryptoNight is a
// memory-hard algorithm. In such a scenario, consider reusing Cache
// instances instead.
func Sum(data []byte, variant int) []byte {
	return new(Cache).Sum(data, variant)
}

// SumV4 calculates a CryptoNight variant 4 (CryptoNight-R) digest of data
// for the given block height. The return value is exactly 32 bytes long.
//
// Like Sum, SumV4 allocates a fresh 2 MiB working set per call; reuse a
// Cache for repeated hashing.
func SumV4(data []byte, height uint64) []byte {
	return new(Cache).SumV4(data, height)
}
