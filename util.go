package cryptonight // import "github.com/monerokit/cryptonight"

import "math/big"

var maxTarget = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// hashValue interprets a 32-byte digest as a little-endian 256-bit integer.
func hashValue(digest []byte) *big.Int {
	buf := make([]byte, 32)
	for i, v := range digest[:32] {
		buf[31-i] = v
	}
	return new(big.Int).SetBytes(buf)
}

// Difficulty returns the difficulty of the given digest, i.e. the largest
// difficulty the digest still satisfies. digest must be 32 bytes long.
//
// An all-zero digest has no finite difficulty; Difficulty returns 0 for it.
func Difficulty(digest []byte) uint64 {
	v := hashValue(digest)
	if v.Sign() == 0 {
		return 0
	}
	return new(big.Int).Div(maxTarget, v).Uint64()
}

// CheckHash reports whether the digest satisfies the given difficulty,
// i.e. whether its value times the difficulty does not overflow 256 bits.
// digest must be 32 bytes long.
func CheckHash(digest []byte, difficulty uint64) bool {
	v := hashValue(digest)
	v.Mul(v, new(big.Int).SetUint64(difficulty))
	return v.Cmp(maxTarget) <= 0
}
