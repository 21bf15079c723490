package nn

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// MSELoss computes Mean Squared Error loss.
//
// Loss = mean((predictions - targets)²)
//
// MSE is commonly used for regression tasks where the goal is to predict
// continuous values.
type MSELoss struct{}

// NewMSELoss creates a new MSE loss function.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the scalar MSE loss.
func (m *MSELoss) Forward(t *autodiff.Tracer, predictions, targets *autodiff.Node) *autodiff.Node {
	if !predictions.Shape().Equal(targets.Shape()) {
		panic(fmt.Sprintf("nn: MSELoss: predictions %v and targets %v must have the same shape",
			predictions.Shape(), targets.Shape()))
	}
	return ops.MeanSquaredError(t, predictions, targets)
}

// CrossEntropyLoss computes softmax cross-entropy over class logits.
//
// Loss = mean(-log_softmax(logits)[targets])
type CrossEntropyLoss struct{}

// NewCrossEntropyLoss creates a new cross-entropy loss function.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{}
}

// Forward computes the scalar loss of logits [batch, classes] against one
// class index per row.
func (c *CrossEntropyLoss) Forward(t *autodiff.Tracer, logits *autodiff.Node, targets []int) *autodiff.Node {
	return t.Apply(ops.SoftmaxCrossEntropy{Targets: targets}, logits)
}
