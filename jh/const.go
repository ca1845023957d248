package jh // import "github.com/monerokit/cryptonight/jh"

import "encoding/hex"

var sboxes = [2][16]byte{
	{9, 0, 4, 11, 13, 12, 3, 15, 1, 10, 2, 6, 7, 5, 8, 14},
	{3, 12, 6, 13, 5, 7, 1, 9, 15, 2, 0, 4, 11, 10, 14, 8},
}

// roundConstantZero is the initial 256-bit round constant of E8, stored as
// 64 4-bit elements.
var roundConstantZero = func() (rc [64]byte) {
	b, err := hex.DecodeString("6a09e667f3bcc908b2fb1366ea957d3e3adec17512775099da2f590b0667322a")
	if err != nil {
		panic(err)
	}
	for i, v := range b {
		rc[2*i] = v >> 4
		rc[2*i+1] = v & 0xf
	}
	return
}()
