// Package nn implements neural network building blocks on top of the
// autodiff graph.
//
// This package provides:
//   - Module interface: base interface for all NN components
//   - Parameter: a trainable value registered with autodiff.Optimize
//   - Linear: fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Loss functions: MSE, CrossEntropy
//   - Sequential: container for stacking layers
//
// Design inspired by PyTorch's nn.Module.
package nn

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear("l1", 4, 8, rule, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear("l2", 8, 1, rule, rng),
//	)
type Module interface {
	// Forward computes the module output through t.
	Forward(t *autodiff.Tracer, input *autodiff.Node) *autodiff.Node

	// Parameters returns all trainable parameters of this module, or nil
	// for modules without any (e.g., activation functions).
	Parameters() []Param
}

// Param is the rule-independent view of a Parameter.
type Param interface {
	Name() string
	Node() *autodiff.Node
	Value() *tensor.Array
	SetValue(v *tensor.Array)
	Steps() int
	Optimizee() *autodiff.Optimizee
}
