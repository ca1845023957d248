// Package aes implements the non-standard AES variants used by CryptoNight.
package aes // import "github.com/monerokit/cryptonight/internal/aes"

// CnExpandKey expands exactly 10 round keys from a 32-byte key.
//
// The schedule is the AES-256 key expansion, truncated after the first 10
// round keys. Blocks and keys are passed as little-endian 64-bit words.
//
// Note that this is CryptoNight specific.
// This is non-standard AES!
func CnExpandKey(key []uint64, rkeys *[40]uint32) {
	cnExpandKey(key, rkeys)
}

// CnRounds = (SubBytes, ShiftRows, MixColumns, AddRoundKey) * 10.
//
// dst and src must be at least 16 bytes long and may alias.
// There is no initial whitening and no special final round.
//
// Note that this is CryptoNight specific.
// This is non-standard AES!
func CnRounds(dst, src []uint64, rkeys *[40]uint32) {
	cnRounds(dst, src, rkeys)
}

// CnSingleRound performs exactly one AES round, i.e.
// one (SubBytes, ShiftRows, MixColumns, AddRoundKey).
//
// dst and src must be at least 16 bytes long and may alias.
//
// Note that this is CryptoNight specific.
// CnSingleRound * 10 might not be equivalent to one CnRounds.
func CnSingleRound(dst, src []uint64, rkey *[4]uint32) {
	cnSingleRound(dst, src, rkey)
}
