// Package optim implements parameter update rules.
//
// This package provides:
//   - Rule interface: how one parameter value moves given its gradient
//   - SGD and MomentumSGD: (momentum) gradient descent
//   - Adam and AdamW: adaptive moment estimation, with decoupled weight decay
//   - Fixed: a frozen parameter
//   - WithRegularization: L1/L2 penalty added to any rule's gradient
//
// Rules are stateless values; per-parameter state (velocities, moments) is
// created by NewState and owned by the parameter. Design inspired by
// PyTorch's torch.optim.
//
// Example usage:
//
//	w := nn.NewParameter("w", init, optim.NewAdam(optim.AdamConfig{LR: 0.01}))
//	for range steps {
//	    loss := computeLoss(w.Node())
//	    autodiff.Optimize(loss, 0)
//	}
package optim

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Rule updates a parameter value from its gradient.
//
// S is the per-parameter state type. Update returns the new value and may
// mutate state; it must not retain grad. An lr of zero or less selects the
// rule's configured learning rate.
type Rule[S any] interface {
	// NewState returns fresh state for a parameter of the given shape.
	NewState(shape tensor.Shape) S

	// Update computes the next value of a parameter.
	Update(value *tensor.Array, state S, grad *tensor.Array, lr float32) *tensor.Array
}

// NoState is the state of rules that keep none.
type NoState struct{}

// Config is the base configuration for all rules.
type Config struct {
	LR float32 // Learning rate
}

// rate picks the per-call learning rate or the configured fallback.
func rate(lr, configured float32) float32 {
	if lr > 0 {
		return lr
	}
	return configured
}
