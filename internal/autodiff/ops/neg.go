package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Neg computes -x.
type Neg struct{}

// Name implements autodiff.Namer.
func (Neg) Name() string { return "neg" }

// Forward computes -x.
func (Neg) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("neg", xs, 1)
	return one(tensor.Neg(xs[0].Value()))
}

// Backward returns -g.
func (Neg) Backward(t *autodiff.Tracer, _, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Neg{}, gys[0])}
}

// Scale multiplies its input by a constant factor.
type Scale struct {
	Factor float32
}

// Name implements autodiff.Namer.
func (Scale) Name() string { return "scale" }

// Forward computes x * Factor.
func (s Scale) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("scale", xs, 1)
	return one(tensor.Scale(xs[0].Value(), s.Factor))
}

// Backward returns g * Factor.
func (s Scale) Backward(t *autodiff.Tracer, _, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(s, gys[0])}
}
