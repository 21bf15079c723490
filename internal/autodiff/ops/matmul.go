package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// MatMul computes the matrix product over the last two axes. Leading axes are
// batch axes; a rank-2 operand is shared across the other operand's batches.
//
// Backward pass:
//   - grad_A = g @ Bᵀ
//   - grad_B = Aᵀ @ g
//
// A shared operand receives the sum of its per-batch gradients.
type MatMul struct{}

// Name implements autodiff.Namer.
func (MatMul) Name() string { return "matmul" }

// Forward computes A @ B.
func (MatMul) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("matmul", xs, 2)
	return one(tensor.MatMul(xs[0].Value(), xs[1].Value()))
}

// Backward computes input gradients for the matrix product.
func (MatMul) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	a, b := xs[0], xs[1]
	gy := gys[0]
	ga := t.Apply(MatMul{}, gy, matT(t, b))
	gb := t.Apply(MatMul{}, matT(t, a), gy)
	return []*autodiff.Node{
		reduceTo(t, ga, a.Shape()),
		reduceTo(t, gb, b.Shape()),
	}
}
