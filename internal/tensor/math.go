package tensor

import (
	"fmt"
	"math"
)

// broadcastStrides returns strides for reading src as if it had shape out.
// Broadcast dimensions (missing or size 1) get stride 0.
func broadcastStrides(src, out Shape) []int {
	strides := make([]int, len(out))
	srcStrides := src.ComputeStrides()
	lead := len(out) - len(src)
	for i := range out {
		j := i - lead
		if j < 0 || src[j] == 1 {
			continue
		}
		strides[i] = srcStrides[j]
	}
	return strides
}

// binary applies f elementwise with NumPy broadcasting.
func binary(name string, a, b *Array, f func(x, y float32) float32) *Array {
	if a.shape.Equal(b.shape) {
		out := make([]float32, len(a.data))
		for i := range out {
			out[i] = f(a.data[i], b.data[i])
		}
		return fromOwned(out, a.shape.Clone())
	}

	shape, _, err := BroadcastShapes(a.shape, b.shape)
	if err != nil {
		panic(fmt.Sprintf("tensor: %s: %v", name, err))
	}
	aStrides := broadcastStrides(a.shape, shape)
	bStrides := broadcastStrides(b.shape, shape)
	outStrides := shape.ComputeStrides()

	out := make([]float32, shape.NumElements())
	for i := range out {
		ai, bi, rem := 0, 0, i
		for d := range shape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			ai += coord * aStrides[d]
			bi += coord * bStrides[d]
		}
		out[i] = f(a.data[ai], b.data[bi])
	}
	return fromOwned(out, shape)
}

// Add returns a + b with broadcasting.
func Add(a, b *Array) *Array {
	return binary("Add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub returns a - b with broadcasting.
func Sub(a, b *Array) *Array {
	return binary("Sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul returns a * b with broadcasting.
func Mul(a, b *Array) *Array {
	return binary("Mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div returns a / b with broadcasting.
func Div(a, b *Array) *Array {
	return binary("Div", a, b, func(x, y float32) float32 { return x / y })
}

// Map applies f to every element.
func Map(a *Array, f func(float32) float32) *Array {
	out := make([]float32, len(a.data))
	for i, v := range a.data {
		out[i] = f(v)
	}
	return fromOwned(out, a.shape.Clone())
}

// Neg returns -a.
func Neg(a *Array) *Array {
	return Map(a, func(v float32) float32 { return -v })
}

// Scale returns a * s.
func Scale(a *Array, s float32) *Array {
	return Map(a, func(v float32) float32 { return v * s })
}

// AddScalar returns a + s.
func AddScalar(a *Array, s float32) *Array {
	return Map(a, func(v float32) float32 { return v + s })
}

// Pow returns a raised to the power p elementwise.
func Pow(a *Array, p float32) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Pow(float64(v), float64(p))) })
}

// Exp returns e^a elementwise.
func Exp(a *Array) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log returns the natural logarithm elementwise.
func Log(a *Array) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Sin returns sin(a) elementwise.
func Sin(a *Array) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Sin(float64(v))) })
}

// Cos returns cos(a) elementwise.
func Cos(a *Array) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Cos(float64(v))) })
}

// Sqrt returns the square root elementwise.
func Sqrt(a *Array) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// Abs returns |a| elementwise.
func Abs(a *Array) *Array {
	return Map(a, func(v float32) float32 { return float32(math.Abs(float64(v))) })
}

// Sign returns -1, 0 or 1 per element.
func Sign(a *Array) *Array {
	return Map(a, func(v float32) float32 {
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return 0
		}
	})
}
