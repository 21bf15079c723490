// Package ops implements differentiable functions for the autodiff engine.
//
// Every operator is a value implementing autodiff.Function: Forward computes
// the output arrays eagerly, Backward builds the input gradients through the
// tracer it is given. Because backward passes are composed from these same
// operators, every gradient is differentiable again.
//
// Supported operations:
//   - Add: n-ary sum with broadcasting (d/dxᵢ = 1, reduced to xᵢ's shape)
//   - Sub, Mul, Div, Neg, Scale, Pow: elementwise arithmetic
//   - Exp, Log, Sin, Cos: elementwise functions
//   - Sum, SumTo, BroadcastTo, Reshape, Transpose: shape operations
//   - MatMul: (batched) matrix product (dA = g@Bᵀ, dB = Aᵀ@g)
//   - Softmax, SoftmaxCrossEntropy, MeanSquaredError: activations and losses
//   - CreateGraph: force-traced bridge splicing an external value into a graph
//
// Usage:
//
//	a, b := autodiff.Scalar(3), autodiff.Scalar(2)
//	y := autodiff.Apply(ops.Add{}, autodiff.Apply(ops.Mul{}, a, b), autodiff.Scalar(1))
package ops

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// reduceTo sums gx down to shape when broadcasting widened it in forward.
func reduceTo(t *autodiff.Tracer, gx *autodiff.Node, shape tensor.Shape) *autodiff.Node {
	if gx.Shape().Equal(shape) {
		return gx
	}
	return t.Apply(SumTo{Shape: shape}, gx)
}

// values unwraps the arrays of xs.
func values(xs []*autodiff.Node) []*tensor.Array {
	out := make([]*tensor.Array, len(xs))
	for i, x := range xs {
		out[i] = x.Value()
	}
	return out
}

// one wraps a single output array.
func one(a *tensor.Array) []*tensor.Array {
	return []*tensor.Array{a}
}

// arity panics unless fn received exactly n inputs.
func arity(name string, xs []*autodiff.Node, n int) {
	if len(xs) != n {
		panic(fmt.Sprintf("ops: %s expects %d inputs, got %d", name, n, len(xs)))
	}
}

// constant wraps a as an untraced leaf.
func constant(a *tensor.Array) *autodiff.Node {
	return autodiff.NewNode(a)
}
