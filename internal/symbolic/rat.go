package symbolic

import (
	"math"
	"math/big"
	"strconv"
)

// RatFromFloat converts f using its shortest decimal representation.
// Non-finite inputs map to zero.
func RatFromFloat(f float64) *big.Rat {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return new(big.Rat)
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
	if !ok {
		return new(big.Rat).SetFloat64(f)
	}
	return r
}

// RatString prints integers without a denominator and fractions as a/b.
func RatString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

// RatFloat is the nearest float64 to r.
func RatFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}
