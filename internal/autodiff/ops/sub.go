package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sub computes a - b with broadcasting.
//
// Backward: grad_a = g, grad_b = -g, each reduced to its input's shape.
type Sub struct{}

// Name implements autodiff.Namer.
func (Sub) Name() string { return "sub" }

// Forward computes a - b.
func (Sub) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("sub", xs, 2)
	return one(tensor.Sub(xs[0].Value(), xs[1].Value()))
}

// Backward computes input gradients for subtraction.
func (Sub) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	gy := gys[0]
	return []*autodiff.Node{
		reduceTo(t, gy, xs[0].Shape()),
		reduceTo(t, t.Apply(Neg{}, gy), xs[1].Shape()),
	}
}
