package nn

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
type ReLU struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies max(0, x).
func (r *ReLU) Forward(t *autodiff.Tracer, input *autodiff.Node) *autodiff.Node {
	return t.Apply(ops.ReLU{}, input)
}

// Parameters returns nil (ReLU has no trainable parameters).
func (r *ReLU) Parameters() []Param {
	return nil
}

// Sigmoid is a sigmoid activation module: f(x) = 1 / (1 + e^-x).
type Sigmoid struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies the sigmoid.
func (s *Sigmoid) Forward(t *autodiff.Tracer, input *autodiff.Node) *autodiff.Node {
	return t.Apply(ops.Sigmoid{}, input)
}

// Parameters returns nil.
func (s *Sigmoid) Parameters() []Param {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
type Tanh struct{}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh.
func (h *Tanh) Forward(t *autodiff.Tracer, input *autodiff.Node) *autodiff.Node {
	return t.Apply(ops.Tanh{}, input)
}

// Parameters returns nil.
func (h *Tanh) Parameters() []Param {
	return nil
}
