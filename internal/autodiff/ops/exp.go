package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Exp computes e^x elementwise.
//
// Backward: d(e^x)/dx = e^x, so the forward output is reused.
type Exp struct{}

// Name implements autodiff.Namer.
func (Exp) Name() string { return "exp" }

// Forward computes e^x.
func (Exp) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("exp", xs, 1)
	return one(tensor.Exp(xs[0].Value()))
}

// Backward returns g * e^x.
func (Exp) Backward(t *autodiff.Tracer, _, ys, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Mul{}, gys[0], ys[0])}
}

// Log computes the natural logarithm elementwise.
type Log struct{}

// Name implements autodiff.Namer.
func (Log) Name() string { return "log" }

// Forward computes ln(x).
func (Log) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("log", xs, 1)
	return one(tensor.Log(xs[0].Value()))
}

// Backward returns g / x.
func (Log) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Div{}, gys[0], xs[0])}
}

// Pow raises its input to a constant power.
//
// Backward: d(x^p)/dx = p * x^(p-1).
type Pow struct {
	P float32
}

// Name implements autodiff.Namer.
func (Pow) Name() string { return "pow" }

// Forward computes x^P.
func (p Pow) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("pow", xs, 1)
	return one(tensor.Pow(xs[0].Value(), p.P))
}

// Backward returns g * P * x^(P-1).
func (p Pow) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	d := t.Apply(Scale{Factor: p.P}, t.Apply(Pow{P: p.P - 1}, xs[0]))
	return []*autodiff.Node{t.Apply(Mul{}, gys[0], d)}
}
