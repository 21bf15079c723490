package tensor

import (
	"fmt"
	"math"
	"sort"
)

// normalizeAxes validates axes against rank and returns them sorted and unique.
func normalizeAxes(name string, axes []int, rank int) []int {
	seen := make(map[int]bool, len(axes))
	out := make([]int, 0, len(axes))
	for _, ax := range axes {
		if ax < 0 {
			ax += rank
		}
		if ax < 0 || ax >= rank {
			panic(fmt.Sprintf("tensor: %s: axis %d out of range for rank %d", name, ax, rank))
		}
		if !seen[ax] {
			seen[ax] = true
			out = append(out, ax)
		}
	}
	sort.Ints(out)
	return out
}

// reduceShape returns the keep-dims shape and the final shape after reducing axes.
func reduceShape(shape Shape, axes []int, keepDims bool) (kept, final Shape) {
	kept = shape.Clone()
	reduced := make(map[int]bool, len(axes))
	for _, ax := range axes {
		kept[ax] = 1
		reduced[ax] = true
	}
	if keepDims {
		return kept, kept.Clone()
	}
	final = make(Shape, 0, len(shape)-len(axes))
	for i, d := range shape {
		if !reduced[i] {
			final = append(final, d)
		}
	}
	return kept, final
}

// reduce folds the elements along axes with f, starting from init.
func reduce(name string, a *Array, axes []int, keepDims bool, init float32, f func(acc, v float32) float32) *Array {
	axes = normalizeAxes(name, axes, len(a.shape))
	kept, final := reduceShape(a.shape, axes, keepDims)

	out := make([]float32, kept.NumElements())
	for i := range out {
		out[i] = init
	}
	if len(axes) == 0 {
		copy(out, a.data)
		return fromOwned(out, final)
	}

	inStrides := a.shape.ComputeStrides()
	outStrides := kept.ComputeStrides()
	for i, v := range a.data {
		oi, rem := 0, i
		for d := range a.shape {
			coord := rem / inStrides[d]
			rem %= inStrides[d]
			if kept[d] != 1 {
				oi += coord * outStrides[d]
			}
		}
		out[oi] = f(out[oi], v)
	}
	return fromOwned(out, final)
}

// SumAxes sums a over the given axes. When keepDims is false the reduced
// axes are removed from the result shape.
func SumAxes(a *Array, axes []int, keepDims bool) *Array {
	return reduce("SumAxes", a, axes, keepDims, 0, func(acc, v float32) float32 { return acc + v })
}

// MaxAxes takes the maximum of a over the given axes.
func MaxAxes(a *Array, axes []int, keepDims bool) *Array {
	return reduce("MaxAxes", a, axes, keepDims, float32(math.Inf(-1)), func(acc, v float32) float32 {
		if v > acc {
			return v
		}
		return acc
	})
}

// SumAll sums every element into a scalar.
func SumAll(a *Array) *Array {
	var s float32
	for _, v := range a.data {
		s += v
	}
	return Scalar(s)
}

// SumTo reduces a to shape by summing broadcast axes, then reshapes.
// It is the inverse of BroadcastTo for gradients.
func SumTo(a *Array, shape Shape) *Array {
	if a.shape.Equal(shape) {
		return a
	}
	axes := SumAxesToDesire(a.shape, shape)
	return Reshape(SumAxes(a, axes, false), shape)
}

// BroadcastTo expands a to shape following broadcasting rules.
func BroadcastTo(a *Array, shape Shape) *Array {
	if a.shape.Equal(shape) {
		return a
	}
	out, _, err := BroadcastShapes(a.shape, shape)
	if err != nil || !out.Equal(shape) {
		panic(fmt.Sprintf("tensor: BroadcastTo: cannot broadcast %v to %v", a.shape, shape))
	}
	return binary("BroadcastTo", a, Zeros(shape), func(x, _ float32) float32 { return x })
}
