package optim

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// SGD is plain gradient descent:
//
//	param = param - lr * gradient
type SGD struct {
	lr float32
}

// SGDConfig holds configuration for SGD and MomentumSGD.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01)
	Momentum float32 // Momentum factor for MomentumSGD (default: 0.9, range: [0, 1))
}

// NewSGD creates an SGD rule.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{lr: config.LR}
}

// LR returns the configured learning rate.
func (s *SGD) LR() float32 {
	return s.lr
}

// NewState implements Rule.
func (s *SGD) NewState(tensor.Shape) NoState {
	return NoState{}
}

// Update implements Rule.
func (s *SGD) Update(value *tensor.Array, _ NoState, grad *tensor.Array, lr float32) *tensor.Array {
	return tensor.Sub(value, tensor.Scale(grad, rate(lr, s.lr)))
}

// MomentumSGD is gradient descent with a velocity buffer:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Momentum helps accelerate SGD in relevant directions and dampens
// oscillations.
type MomentumSGD struct {
	lr       float32
	momentum float32
}

// Velocity is the MomentumSGD state of one parameter.
type Velocity struct {
	V *tensor.Array
}

// NewMomentumSGD creates a MomentumSGD rule.
func NewMomentumSGD(config SGDConfig) *MomentumSGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum == 0 {
		config.Momentum = 0.9
	}
	return &MomentumSGD{lr: config.LR, momentum: config.Momentum}
}

// LR returns the configured learning rate.
func (s *MomentumSGD) LR() float32 {
	return s.lr
}

// NewState implements Rule.
func (s *MomentumSGD) NewState(shape tensor.Shape) *Velocity {
	return &Velocity{V: tensor.Zeros(shape)}
}

// Update implements Rule.
func (s *MomentumSGD) Update(value *tensor.Array, state *Velocity, grad *tensor.Array, lr float32) *tensor.Array {
	state.V = tensor.Add(tensor.Scale(state.V, s.momentum), grad)
	return tensor.Sub(value, tensor.Scale(state.V, rate(lr, s.lr)))
}

// Fixed never changes the parameter. Frozen parameters still take part in
// the forward pass and receive gradients.
type Fixed struct{}

// NewState implements Rule.
func (Fixed) NewState(tensor.Shape) NoState {
	return NoState{}
}

// Update implements Rule.
func (Fixed) Update(value *tensor.Array, _ NoState, _ *tensor.Array, _ float32) *tensor.Array {
	return value
}
