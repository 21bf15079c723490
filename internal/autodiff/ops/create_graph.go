package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// CreateGraph emits Value as a traced root even under a non-recording
// tracer. It takes no inputs and contributes no gradients; it exists so that
// a value computed outside the graph still participates in graph walks.
type CreateGraph struct {
	Value *tensor.Array
}

// Name implements autodiff.Namer.
func (CreateGraph) Name() string { return "create_graph" }

// ForceTrace implements autodiff.ForceTracer.
func (CreateGraph) ForceTrace() bool { return true }

// Forward returns Value.
func (c CreateGraph) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("create_graph", xs, 0)
	return one(c.Value)
}

// Backward returns no gradients.
func (CreateGraph) Backward(_ *autodiff.Tracer, _, _, _ []*autodiff.Node) []*autodiff.Node {
	return nil
}
