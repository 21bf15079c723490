package optim

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Penalty selects the regularization term.
type Penalty int

// Supported penalties.
const (
	L2 Penalty = iota // gradient += coef * w
	L1                // gradient += coef * sign(w)
)

// String returns "l1" or "l2".
func (p Penalty) String() string {
	switch p {
	case L1:
		return "l1"
	case L2:
		return "l2"
	default:
		return fmt.Sprintf("Penalty(%d)", int(p))
	}
}

// Regularized wraps a rule and adds a penalty gradient before each update.
type Regularized[S any] struct {
	inner   Rule[S]
	penalty Penalty
	coef    float32
}

// WithRegularization adds a penalty of strength coef to rule.
func WithRegularization[S any](rule Rule[S], penalty Penalty, coef float32) *Regularized[S] {
	return &Regularized[S]{inner: rule, penalty: penalty, coef: coef}
}

// NewState implements Rule.
func (r *Regularized[S]) NewState(shape tensor.Shape) S {
	return r.inner.NewState(shape)
}

// Update implements Rule.
func (r *Regularized[S]) Update(value *tensor.Array, state S, grad *tensor.Array, lr float32) *tensor.Array {
	var term *tensor.Array
	switch r.penalty {
	case L1:
		term = tensor.Sign(value)
	default:
		term = value
	}
	return r.inner.Update(value, state, tensor.Add(grad, tensor.Scale(term, r.coef)), lr)
}
