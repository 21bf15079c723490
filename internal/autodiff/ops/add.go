package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Add sums any number of inputs elementwise with broadcasting.
//
// Backward: every input receives the output gradient, summed over the axes
// along which it was broadcast.
type Add struct{}

// Name implements autodiff.Namer.
func (Add) Name() string { return "add" }

// Forward computes x₀ + x₁ + ... + xₙ.
func (Add) Forward(xs []*autodiff.Node) []*tensor.Array {
	if len(xs) == 0 {
		arity("add", xs, 1)
	}
	y := xs[0].Value()
	for _, x := range xs[1:] {
		y = tensor.Add(y, x.Value())
	}
	return one(y)
}

// Backward returns the output gradient for every input, fitted to its shape.
func (Add) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	gxs := make([]*autodiff.Node, len(xs))
	for i, x := range xs {
		gxs[i] = reduceTo(t, gys[0], x.Shape())
	}
	return gxs
}
