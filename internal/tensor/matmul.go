package tensor

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/parallel"
)

// MatMul multiplies the last two axes of a [..., m, k] and b [..., k, n].
//
// Leading batch axes must match, except that a rank-2 operand is shared across
// every batch of the other. Rows are computed in parallel.
func MatMul(a, b *Array) *Array {
	if a.Rank() < 2 || b.Rank() < 2 {
		panic(fmt.Sprintf("tensor: MatMul: operands must have rank >= 2, got %v and %v", a.shape, b.shape))
	}
	m, k := a.shape[a.Rank()-2], a.shape[a.Rank()-1]
	k2, n := b.shape[b.Rank()-2], b.shape[b.Rank()-1]
	if k != k2 {
		panic(fmt.Sprintf("tensor: MatMul: inner dimensions differ: %v @ %v", a.shape, b.shape))
	}

	aBatch, bBatch := a.shape[:a.Rank()-2], b.shape[:b.Rank()-2]
	var batch Shape
	switch {
	case len(aBatch) == 0:
		batch = bBatch
	case len(bBatch) == 0, aBatch.Equal(bBatch):
		batch = aBatch
	default:
		panic(fmt.Sprintf("tensor: MatMul: batch dimensions differ: %v @ %v", a.shape, b.shape))
	}
	numBatch := batch.NumElements()
	aStep, bStep := m*k, k*n
	if len(aBatch) == 0 {
		aStep = 0
	}
	if len(bBatch) == 0 {
		bStep = 0
	}

	out := make([]float32, numBatch*m*n)
	parallel.For(numBatch*m, func(r int) {
		bi, i := r/m, r%m
		aRow := a.data[bi*aStep+i*k : bi*aStep+(i+1)*k]
		bMat := b.data[bi*bStep : bi*bStep+k*n]
		dst := out[(bi*m+i)*n : (bi*m+i+1)*n]
		for p, av := range aRow {
			if av == 0 {
				continue
			}
			row := bMat[p*n : (p+1)*n]
			for j, bv := range row {
				dst[j] += av * bv
			}
		}
	}, parallel.DefaultConfig())

	shape := append(batch.Clone(), m, n)
	return fromOwned(out, shape)
}
