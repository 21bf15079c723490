package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Div computes a / b elementwise with broadcasting.
//
// Backward pass:
//   - grad_a = g / b
//   - grad_b = -g * a / b²
type Div struct{}

// Name implements autodiff.Namer.
func (Div) Name() string { return "div" }

// Forward computes a / b.
func (Div) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("div", xs, 2)
	return one(tensor.Div(xs[0].Value(), xs[1].Value()))
}

// Backward computes input gradients for division.
func (Div) Backward(t *autodiff.Tracer, xs, ys, gys []*autodiff.Node) []*autodiff.Node {
	b := xs[1]
	gy := gys[0]
	ga := t.Apply(Div{}, gy, b)
	// -g * (a/b) / b reuses the forward output y = a/b.
	gb := t.Apply(Neg{}, t.Apply(Div{}, t.Apply(Mul{}, gy, ys[0]), b))
	return []*autodiff.Node{
		reduceTo(t, ga, xs[0].Shape()),
		reduceTo(t, gb, b.Shape()),
	}
}
