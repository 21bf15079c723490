// Package tensor provides the n-dimensional array values carried by graph nodes.
//
// An Array is an immutable, row-major float32 buffer with a Shape. Every
// operation returns a new Array; nothing mutates an existing one, which is what
// lets graph nodes share values freely between goroutines.
package tensor

import (
	"fmt"
	"math"
	"strings"
)

// Array is an immutable n-dimensional float32 array.
type Array struct {
	shape Shape
	data  []float32
}

// FromSlice creates an Array from data laid out in row-major order.
// The slice is copied.
func FromSlice(data []float32, shape Shape) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return &Array{shape: shape.Clone(), data: buf}, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float32, shape Shape) *Array {
	a, err := FromSlice(data, shape)
	if err != nil {
		panic(fmt.Sprintf("tensor: %v", err))
	}
	return a
}

// Scalar creates a rank-0 Array.
func Scalar(v float32) *Array {
	return &Array{shape: Shape{}, data: []float32{v}}
}

// Full creates an Array of the given shape filled with v.
func Full(shape Shape, v float32) *Array {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: invalid shape: %v", err))
	}
	data := make([]float32, shape.NumElements())
	if v != 0 {
		for i := range data {
			data[i] = v
		}
	}
	return &Array{shape: shape.Clone(), data: data}
}

// Zeros creates an Array of zeros.
func Zeros(shape Shape) *Array { return Full(shape, 0) }

// Ones creates an Array of ones.
func Ones(shape Shape) *Array { return Full(shape, 1) }

// ZerosLike returns zeros shaped like a.
func ZerosLike(a *Array) *Array { return Zeros(a.shape) }

// OnesLike returns ones shaped like a.
func OnesLike(a *Array) *Array { return Ones(a.shape) }

// fromOwned wraps data without copying. Callers must not retain data.
func fromOwned(data []float32, shape Shape) *Array {
	return &Array{shape: shape, data: data}
}

// Shape returns a copy of the array's shape.
func (a *Array) Shape() Shape {
	return a.shape.Clone()
}

// Rank returns the number of dimensions.
func (a *Array) Rank() int {
	return len(a.shape)
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.data)
}

// Data returns a copy of the underlying elements in row-major order.
func (a *Array) Data() []float32 {
	out := make([]float32, len(a.data))
	copy(out, a.data)
	return out
}

// At returns the element at the given multi-dimensional index.
func (a *Array) At(idx ...int) float32 {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("tensor: At: got %d indices for rank %d", len(idx), len(a.shape)))
	}
	strides := a.shape.ComputeStrides()
	flat := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("tensor: At: index %d out of range for dim %d (size %d)", x, i, a.shape[i]))
		}
		flat += x * strides[i]
	}
	return a.data[flat]
}

// Item returns the single element of a one-element array.
func (a *Array) Item() float32 {
	if len(a.data) != 1 {
		panic(fmt.Sprintf("tensor: Item: array of shape %v has %d elements", a.shape, len(a.data)))
	}
	return a.data[0]
}

// Equal reports whether a and b have identical shapes and elements.
func (a *Array) Equal(b *Array) bool {
	return a.AllClose(b, 0)
}

// AllClose reports whether a and b have the same shape and every pair of
// elements differs by at most tol.
func (a *Array) AllClose(b *Array, tol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if math.Abs(float64(a.data[i])-float64(b.data[i])) > tol {
			return false
		}
	}
	return true
}

// String renders the array as nested brackets.
func (a *Array) String() string {
	if len(a.shape) == 0 {
		return fmt.Sprint(a.data[0])
	}
	var sb strings.Builder
	a.format(&sb, 0, 0)
	return sb.String()
}

func (a *Array) format(sb *strings.Builder, dim, offset int) {
	stride := 1
	for _, d := range a.shape[dim+1:] {
		stride *= d
	}
	sb.WriteByte('[')
	for i := 0; i < a.shape[dim]; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if dim == len(a.shape)-1 {
			fmt.Fprint(sb, a.data[offset+i])
		} else {
			a.format(sb, dim+1, offset+i*stride)
		}
	}
	sb.WriteByte(']')
}
