package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sum reduces its input by summation over Axes. Nil Axes reduce every axis.
//
// Backward: the gradient is reshaped to the kept-dims shape and broadcast
// back over the reduced axes.
type Sum struct {
	Axes     []int
	KeepDims bool
}

// Name implements autodiff.Namer.
func (Sum) Name() string { return "sum" }

func (s Sum) axes(rank int) []int {
	if s.Axes != nil {
		return s.Axes
	}
	all := make([]int, rank)
	for i := range all {
		all[i] = i
	}
	return all
}

// Forward computes the sum over the selected axes.
func (s Sum) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("sum", xs, 1)
	x := xs[0].Value()
	return one(tensor.SumAxes(x, s.axes(x.Rank()), s.KeepDims))
}

// Backward broadcasts g back to the input shape.
func (s Sum) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	shape := xs[0].Shape()
	kept := shape.Clone()
	for _, ax := range s.axes(len(shape)) {
		if ax < 0 {
			ax += len(shape)
		}
		kept[ax] = 1
	}
	g := gys[0]
	if !g.Shape().Equal(kept) {
		g = t.Apply(Reshape{Shape: kept}, g)
	}
	return []*autodiff.Node{t.Apply(BroadcastTo{Shape: shape}, g)}
}

// SumTo sums its input down to Shape, undoing a broadcast.
type SumTo struct {
	Shape tensor.Shape
}

// Name implements autodiff.Namer.
func (SumTo) Name() string { return "sum_to" }

// Forward reduces x to Shape.
func (s SumTo) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("sum_to", xs, 1)
	return one(tensor.SumTo(xs[0].Value(), s.Shape))
}

// Backward broadcasts g back to the input shape.
func (s SumTo) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(BroadcastTo{Shape: xs[0].Shape()}, gys[0])}
}

// BroadcastTo expands its input to Shape.
type BroadcastTo struct {
	Shape tensor.Shape
}

// Name implements autodiff.Namer.
func (BroadcastTo) Name() string { return "broadcast_to" }

// Forward broadcasts x to Shape.
func (b BroadcastTo) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("broadcast_to", xs, 1)
	return one(tensor.BroadcastTo(xs[0].Value(), b.Shape))
}

// Backward sums g back to the input shape.
func (b BroadcastTo) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{reduceTo(t, gys[0], xs[0].Shape())}
}

// Reshape changes the shape of its input without touching the data.
type Reshape struct {
	Shape tensor.Shape
}

// Name implements autodiff.Namer.
func (Reshape) Name() string { return "reshape" }

// Forward reshapes x.
func (r Reshape) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("reshape", xs, 1)
	return one(tensor.Reshape(xs[0].Value(), r.Shape))
}

// Backward reshapes g to the input shape.
func (r Reshape) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Reshape{Shape: xs[0].Shape()}, gys[0])}
}

// Transpose permutes the axes of its input. Empty Axes reverse them.
type Transpose struct {
	Axes []int
}

// Name implements autodiff.Namer.
func (Transpose) Name() string { return "transpose" }

// Forward permutes x.
func (p Transpose) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("transpose", xs, 1)
	return one(tensor.Transpose(xs[0].Value(), p.Axes...))
}

// Backward applies the inverse permutation to g.
func (p Transpose) Backward(t *autodiff.Tracer, _, _, gys []*autodiff.Node) []*autodiff.Node {
	if len(p.Axes) == 0 {
		return []*autodiff.Node{t.Apply(Transpose{}, gys[0])}
	}
	return []*autodiff.Node{t.Apply(Transpose{Axes: tensor.InversePermutation(p.Axes)}, gys[0])}
}

// swapLast returns the permutation exchanging the last two of rank axes.
func swapLast(rank int) []int {
	axes := make([]int, rank)
	for i := range axes {
		axes[i] = i
	}
	axes[rank-1], axes[rank-2] = axes[rank-2], axes[rank-1]
	return axes
}

// matT transposes the last two axes of x.
func matT(t *autodiff.Tracer, x *autodiff.Node) *autodiff.Node {
	return t.Apply(Transpose{Axes: swapLast(x.Rank())}, x)
}
