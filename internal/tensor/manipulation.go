package tensor

import "fmt"

// Reshape returns a with a new shape holding the same number of elements.
// The data is shared; Arrays are immutable so this is safe.
func Reshape(a *Array, shape Shape) *Array {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor: Reshape: %v", err))
	}
	if shape.NumElements() != len(a.data) {
		panic(fmt.Sprintf("tensor: Reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			a.shape, len(a.data), shape, shape.NumElements()))
	}
	return &Array{shape: shape.Clone(), data: a.data}
}

// Transpose permutes the axes of a. With no axes the order is reversed.
func Transpose(a *Array, axes ...int) *Array {
	ndim := len(a.shape)
	if len(axes) == 0 {
		axes = ReverseAxes(ndim)
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("tensor: Transpose: got %d axes for rank %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("tensor: Transpose: invalid permutation %v", axes))
		}
		seen[ax] = true
	}

	outShape := make(Shape, ndim)
	for i, ax := range axes {
		outShape[i] = a.shape[ax]
	}
	inStrides := a.shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	out := make([]float32, len(a.data))
	for i := range out {
		src, rem := 0, i
		for d := range outShape {
			coord := rem / outStrides[d]
			rem %= outStrides[d]
			src += coord * inStrides[axes[d]]
		}
		out[i] = a.data[src]
	}
	return fromOwned(out, outShape)
}

// ReverseAxes returns [n-1, ..., 1, 0].
func ReverseAxes(n int) []int {
	axes := make([]int, n)
	for i := range axes {
		axes[i] = n - 1 - i
	}
	return axes
}

// InversePermutation returns the permutation that undoes axes.
func InversePermutation(axes []int) []int {
	inv := make([]int, len(axes))
	for i, ax := range axes {
		inv[ax] = i
	}
	return inv
}

// Concat joins arrays along axis 0. All arrays must agree on the trailing
// axes.
func Concat(arrays ...*Array) *Array {
	if len(arrays) == 0 {
		panic("tensor: Concat: no arrays")
	}
	first := arrays[0].shape
	if len(first) == 0 {
		panic("tensor: Concat: cannot concatenate scalars")
	}
	rows := 0
	for _, a := range arrays {
		if len(a.shape) != len(first) || !a.shape[1:].Equal(first[1:]) {
			panic(fmt.Sprintf("tensor: Concat: shape %v does not match %v", a.shape, first))
		}
		rows += a.shape[0]
	}
	out := make([]float32, 0, rows*first[1:].NumElements())
	for _, a := range arrays {
		out = append(out, a.data...)
	}
	shape := first.Clone()
	shape[0] = rows
	return fromOwned(out, shape)
}

// Split cuts a along axis 0 into pieces with the given leading sizes, which
// must add up to a's leading size.
func Split(a *Array, sizes []int) []*Array {
	if len(a.shape) == 0 {
		panic("tensor: Split: cannot split a scalar")
	}
	total := 0
	for _, s := range sizes {
		if s < 0 {
			panic(fmt.Sprintf("tensor: Split: negative size in %v", sizes))
		}
		total += s
	}
	if total != a.shape[0] {
		panic(fmt.Sprintf("tensor: Split: sizes %v do not add up to %d", sizes, a.shape[0]))
	}
	row := a.shape[1:].NumElements()
	out := make([]*Array, len(sizes))
	off := 0
	for i, s := range sizes {
		shape := a.shape.Clone()
		shape[0] = s
		data := make([]float32, s*row)
		copy(data, a.data[off:off+s*row])
		out[i] = fromOwned(data, shape)
		off += s * row
	}
	return out
}

// SliceRows returns rows [start, stop) of a along axis 0.
func SliceRows(a *Array, start, stop int) *Array {
	if len(a.shape) == 0 {
		panic("tensor: SliceRows: cannot slice a scalar")
	}
	if start < 0 || stop < start || stop > a.shape[0] {
		panic(fmt.Sprintf("tensor: SliceRows: range [%d, %d) out of bounds for %d rows", start, stop, a.shape[0]))
	}
	row := a.shape[1:].NumElements()
	shape := a.shape.Clone()
	shape[0] = stop - start
	data := make([]float32, (stop-start)*row)
	copy(data, a.data[start*row:stop*row])
	return fromOwned(data, shape)
}

// PadRows surrounds a with before and after rows of zeros along axis 0.
func PadRows(a *Array, before, after int) *Array {
	if len(a.shape) == 0 {
		panic("tensor: PadRows: cannot pad a scalar")
	}
	if before < 0 || after < 0 {
		panic(fmt.Sprintf("tensor: PadRows: negative padding %d, %d", before, after))
	}
	row := a.shape[1:].NumElements()
	shape := a.shape.Clone()
	shape[0] += before + after
	data := make([]float32, shape[0]*row)
	copy(data[before*row:], a.data)
	return fromOwned(data, shape)
}
