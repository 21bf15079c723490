package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Mul computes a * b elementwise with broadcasting.
//
// Backward pass:
//   - d(a*b)/da = b, so grad_a = g * b
//   - d(a*b)/db = a, so grad_b = g * a
type Mul struct{}

// Name implements autodiff.Namer.
func (Mul) Name() string { return "mul" }

// Forward computes a * b.
func (Mul) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("mul", xs, 2)
	return one(tensor.Mul(xs[0].Value(), xs[1].Value()))
}

// Backward computes input gradients for multiplication.
func (Mul) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	a, b := xs[0], xs[1]
	gy := gys[0]
	return []*autodiff.Node{
		reduceTo(t, t.Apply(Mul{}, gy, b), a.Shape()),
		reduceTo(t, t.Apply(Mul{}, gy, a), b.Shape()),
	}
}
