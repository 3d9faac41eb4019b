package crypto

import (
	"crypto/rand"
	"math/big"
)

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

const float64Precision = 1 << 53

// RandFloat64 returns a uniform random value in [0, 1).
func RandFloat64() float64 {
	r, err := rand.Int(rand.Reader, big.NewInt(float64Precision))
	if err != nil {
		panic(err)
	}

	return float64(r.Int64()) / float64Precision
}

// Source is a random source over [0, 1) backed by crypto/rand.
type Source struct{}

func (Source) Float64() float64 {
	return RandFloat64()
}
