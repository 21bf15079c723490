package ops

import (
	"math"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// ReLU computes max(0, x).
//
// Backward: d(ReLU(x))/dx = 1 if x > 0, else 0. The mask is a constant, so
// second derivatives through ReLU are zero almost everywhere.
type ReLU struct{}

// Name implements autodiff.Namer.
func (ReLU) Name() string { return "relu" }

// Forward computes max(0, x).
func (ReLU) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("relu", xs, 1)
	return one(tensor.Map(xs[0].Value(), func(v float32) float32 { return max(v, 0) }))
}

// Backward returns g masked by x > 0.
func (ReLU) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	mask := tensor.Map(xs[0].Value(), func(v float32) float32 {
		if v > 0 {
			return 1
		}
		return 0
	})
	return []*autodiff.Node{t.Apply(Mul{}, gys[0], constant(mask))}
}

// Tanh computes the hyperbolic tangent.
//
// Backward: d(tanh(x))/dx = 1 - tanh²(x).
type Tanh struct{}

// Name implements autodiff.Namer.
func (Tanh) Name() string { return "tanh" }

// Forward computes tanh(x).
func (Tanh) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("tanh", xs, 1)
	return one(tensor.Map(xs[0].Value(), func(v float32) float32 {
		return float32(math.Tanh(float64(v)))
	}))
}

// Backward returns g * (1 - y²).
func (Tanh) Backward(t *autodiff.Tracer, _, ys, gys []*autodiff.Node) []*autodiff.Node {
	y := ys[0]
	d := t.Apply(Sub{}, constant(tensor.OnesLike(y.Value())), t.Apply(Mul{}, y, y))
	return []*autodiff.Node{t.Apply(Mul{}, gys[0], d)}
}

// Sigmoid computes 1 / (1 + e^-x).
//
// Backward: d(σ(x))/dx = σ(x) * (1 - σ(x)).
type Sigmoid struct{}

// Name implements autodiff.Namer.
func (Sigmoid) Name() string { return "sigmoid" }

// Forward computes σ(x).
func (Sigmoid) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("sigmoid", xs, 1)
	return one(tensor.Map(xs[0].Value(), func(v float32) float32 {
		return float32(1 / (1 + math.Exp(-float64(v))))
	}))
}

// Backward returns g * y * (1 - y).
func (Sigmoid) Backward(t *autodiff.Tracer, _, ys, gys []*autodiff.Node) []*autodiff.Node {
	y := ys[0]
	d := t.Apply(Mul{}, y, t.Apply(Sub{}, constant(tensor.OnesLike(y.Value())), y))
	return []*autodiff.Node{t.Apply(Mul{}, gys[0], d)}
}
