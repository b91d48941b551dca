package validator

import (
	"crypto/sha256"
	"math"
	"math/big"

	"shimmer-hq/shimmer/pkg/shimmer/message"
)

var (
	bigFour = big.NewInt(4)
	bigByte = big.NewInt(256)
)

// ComputeParity returns both checksums for a message. Both are nil when the
// vector is absent or holds a non-finite value.
func ComputeParity(container string, vec message.Vector) message.ParityPair {
	sum, ok := paritySum(vec)
	if !ok {
		return message.ParityPair{}
	}
	t9 := parityT9(sum)
	p2b := parity2B(container, sum)
	return message.ParityPair{T9: &t9, P2B: &p2b}
}

// paritySum accumulates round(10*axis) for axes 0-3 and round(100*axis) for
// confidence. Halves round to even. The sum is exact for any finite input.
func paritySum(vec message.Vector) (*big.Int, bool) {
	if !vec.Present() {
		return nil, false
	}

	sum := new(big.Int)
	for i, n := range vec.Numbers {
		if !n.Finite() {
			return nil, false
		}
		scale := 10.0
		if i == message.ConfidenceAxis {
			scale = 100
		}
		scaled := scale * n.Value
		if math.IsInf(scaled, 0) {
			return nil, false
		}
		r, _ := big.NewFloat(math.RoundToEven(scaled)).Int(nil)
		sum.Add(sum, r)
	}
	return sum, true
}

// parityT9 is the sum mod 4, never negative.
func parityT9(sum *big.Int) int {
	return int(new(big.Int).Mod(sum, bigFour).Int64())
}

// parity2B mixes the first SHA-256 byte of the container with the low byte
// of the sum. The hash is a stable byte source, not a security measure.
func parity2B(container string, sum *big.Int) int {
	h := sha256.Sum256([]byte(container))
	low := byte(new(big.Int).Mod(sum, bigByte).Int64())
	return int((h[0] ^ low) % 4)
}
