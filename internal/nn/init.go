package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
func Xavier(rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape) *tensor.Array {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	data := make([]float32, shape.NumElements())
	for i := range data {
		//nolint:gosec // weight initialization is not security-critical
		data[i] = float32((rng.Float64()*2.0 - 1.0) * bound)
	}
	return tensor.MustFromSlice(data, shape)
}

// Randn returns values drawn from N(0, 1).
func Randn(rng *rand.Rand, shape tensor.Shape) *tensor.Array {
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = float32(rng.NormFloat64())
	}
	return tensor.MustFromSlice(data, shape)
}
