package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sin computes sin(x) elementwise.
type Sin struct{}

// Name implements autodiff.Namer.
func (Sin) Name() string { return "sin" }

// Forward computes sin(x).
func (Sin) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("sin", xs, 1)
	return one(tensor.Sin(xs[0].Value()))
}

// Backward returns g * cos(x).
func (Sin) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Mul{}, gys[0], t.Apply(Cos{}, xs[0]))}
}

// Cos computes cos(x) elementwise.
type Cos struct{}

// Name implements autodiff.Namer.
func (Cos) Name() string { return "cos" }

// Forward computes cos(x).
func (Cos) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("cos", xs, 1)
	return one(tensor.Cos(xs[0].Value()))
}

// Backward returns -g * sin(x).
func (Cos) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Neg{}, t.Apply(Mul{}, gys[0], t.Apply(Sin{}, xs[0])))}
}
