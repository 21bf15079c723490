package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      Param
	bias        Param
}

// NewLinear creates a Linear layer whose parameters, named name+".weight"
// and name+".bias", are both trained by rule.
func NewLinear[S any](name string, inFeatures, outFeatures int, rule optim.Rule[S], rng *rand.Rand) *Linear {
	w := Xavier(rng, inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures})
	b := tensor.Zeros(tensor.Shape{outFeatures})
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter(name+".weight", w, rule),
		bias:        NewParameter(name+".bias", b, rule),
	}
}

// Forward computes x @ W.T + b.
func (l *Linear) Forward(t *autodiff.Tracer, input *autodiff.Node) *autodiff.Node {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(fmt.Sprintf("nn: Linear: expected input [batch, %d], got %v", l.inFeatures, shape))
	}
	wt := t.Apply(ops.Transpose{}, l.weight.Node())
	return t.Apply(ops.Add{}, t.Apply(ops.MatMul{}, input, wt), l.bias.Node())
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []Param {
	return []Param{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() Param {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() Param {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}
