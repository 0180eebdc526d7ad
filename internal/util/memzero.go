package util

import "math/big"

// Zero overwrites b in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroBigInt overwrites the words backing n, up to their capacity, and sets n to 0.
// SetInt64 alone only truncates the slice and leaves the old words in memory.
func ZeroBigInt(n *big.Int) {
	if n == nil {
		return
	}

	words := n.Bits()
	words = words[:cap(words)]
	for i := range words {
		words[i] = 0
	}

	n.SetInt64(0)
}
