package ops

import (
	"fmt"
	"math"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Softmax normalizes its input along the last axis.
//
// Forward (for each row):
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Backward:
//
//	∂L/∂x = y * (g - Σ_i g_i * y_i)
type Softmax struct{}

// Name implements autodiff.Namer.
func (Softmax) Name() string { return "softmax" }

// Forward computes the max-shifted softmax along the last axis.
func (Softmax) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("softmax", xs, 1)
	x := xs[0].Value()
	if x.Rank() == 0 {
		panic("ops: softmax needs at least one axis")
	}
	shifted := tensor.Sub(x, tensor.MaxAxes(x, []int{-1}, true))
	e := tensor.Exp(shifted)
	return one(tensor.Div(e, tensor.SumAxes(e, []int{-1}, true)))
}

// Backward computes y * (g - sum(g * y)) along the last axis.
func (Softmax) Backward(t *autodiff.Tracer, _, ys, gys []*autodiff.Node) []*autodiff.Node {
	y, gy := ys[0], gys[0]
	dot := t.Apply(Sum{Axes: []int{-1}, KeepDims: true}, t.Apply(Mul{}, gy, y))
	return []*autodiff.Node{t.Apply(Mul{}, y, t.Apply(Sub{}, gy, dot))}
}

// SoftmaxCrossEntropy is the mean negative log-likelihood of Targets under
// softmax(logits). Logits have shape [batch, classes] and Targets holds one
// class index per row.
//
// Forward:
//
//	L = mean_b(-log_softmax(logits[b])[targets[b]])
//
// Backward:
//
//	∂L/∂logits = g * (softmax(logits) - onehot(targets)) / batch
type SoftmaxCrossEntropy struct {
	Targets []int
}

// Name implements autodiff.Namer.
func (SoftmaxCrossEntropy) Name() string { return "softmax_cross_entropy" }

func (s SoftmaxCrossEntropy) check(x *tensor.Array) (batch, classes int) {
	shape := x.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("ops: softmax_cross_entropy expects [batch, classes] logits, got %v", shape))
	}
	batch, classes = shape[0], shape[1]
	if len(s.Targets) != batch {
		panic(fmt.Sprintf("ops: softmax_cross_entropy: %d targets for batch of %d", len(s.Targets), batch))
	}
	for _, c := range s.Targets {
		if c < 0 || c >= classes {
			panic(fmt.Sprintf("ops: softmax_cross_entropy: target %d out of range for %d classes", c, classes))
		}
	}
	return batch, classes
}

// Forward computes the loss with the log-sum-exp trick.
func (s SoftmaxCrossEntropy) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("softmax_cross_entropy", xs, 1)
	x := xs[0].Value()
	batch, _ := s.check(x)

	var loss float64
	for b, c := range s.Targets {
		m := math.Inf(-1)
		for j := range x.Shape()[1] {
			m = max(m, float64(x.At(b, j)))
		}
		var sum float64
		for j := range x.Shape()[1] {
			sum += math.Exp(float64(x.At(b, j)) - m)
		}
		loss -= float64(x.At(b, c)) - m - math.Log(sum)
	}
	return one(tensor.Scalar(float32(loss / float64(batch))))
}

// Backward computes (softmax(x) - onehot) / batch scaled by g.
func (s SoftmaxCrossEntropy) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	x := xs[0]
	batch, classes := s.check(x.Value())
	hot := make([]float32, batch*classes)
	for b, c := range s.Targets {
		hot[b*classes+c] = 1
	}
	onehot := constant(tensor.MustFromSlice(hot, tensor.Shape{batch, classes}))

	p := t.Apply(Softmax{}, x)
	d := t.Apply(Scale{Factor: 1 / float32(batch)}, t.Apply(Sub{}, p, onehot))
	return []*autodiff.Node{t.Apply(Mul{}, d, gys[0])}
}

// MeanSquaredError returns mean((pred - target)²) as a scalar node built
// from recorded primitives.
func MeanSquaredError(t *autodiff.Tracer, pred, target *autodiff.Node) *autodiff.Node {
	d := t.Apply(Sub{}, pred, target)
	sq := t.Apply(Sum{}, t.Apply(Mul{}, d, d))
	return t.Apply(Scale{Factor: 1 / float32(d.Value().Len())}, sq)
}

// Mean returns the mean of every element of x.
func Mean(t *autodiff.Tracer, x *autodiff.Node) *autodiff.Node {
	return t.Apply(Scale{Factor: 1 / float32(x.Value().Len())}, t.Apply(Sum{}, x))
}
