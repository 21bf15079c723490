package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Split divides its input along axis 0 into pieces of the given Sizes. It
// is a multi-output operator: output i holds rows of piece i.
//
// Callers must keep every output alive for as long as any of them takes part
// in a backward pass; a released sibling makes the pass panic. While all
// outputs are alive, one that received no gradient contributes zeros.
//
// Backward: the output gradients are concatenated back along axis 0.
type Split struct {
	Sizes []int
}

// Name implements autodiff.Namer.
func (Split) Name() string { return "split" }

// Forward splits x into len(Sizes) arrays.
func (s Split) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("split", xs, 1)
	return tensor.Split(xs[0].Value(), s.Sizes)
}

// Backward concatenates gys.
func (s Split) Backward(t *autodiff.Tracer, _, _, gys []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{t.Apply(Concat{}, gys...)}
}

// Concat joins its inputs along axis 0.
//
// Backward: each input receives its own Slice of g, so no two input
// gradients share a call.
type Concat struct{}

// Name implements autodiff.Namer.
func (Concat) Name() string { return "concat" }

// Forward concatenates xs.
func (Concat) Forward(xs []*autodiff.Node) []*tensor.Array {
	return one(tensor.Concat(values(xs)...))
}

// Backward slices g per input.
func (Concat) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	gxs := make([]*autodiff.Node, len(xs))
	start := 0
	for i, x := range xs {
		stop := start + x.Shape()[0]
		gxs[i] = t.Apply(Slice{Start: start, Stop: stop}, gys[0])
		start = stop
	}
	return gxs
}

// Slice keeps rows [Start, Stop) of its input along axis 0.
//
// Backward: g is padded with zero rows back to the input's length.
type Slice struct {
	Start, Stop int
}

// Name implements autodiff.Namer.
func (Slice) Name() string { return "slice" }

// Forward slices x.
func (s Slice) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("slice", xs, 1)
	return one(tensor.SliceRows(xs[0].Value(), s.Start, s.Stop))
}

// Backward pads g.
func (s Slice) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	rows := xs[0].Shape()[0]
	return []*autodiff.Node{t.Apply(Pad{Before: s.Start, After: rows - s.Stop}, gys[0])}
}

// Pad surrounds its input with Before and After zero rows along axis 0.
//
// Backward: the rows of the original input are sliced back out of g.
type Pad struct {
	Before, After int
}

// Name implements autodiff.Namer.
func (Pad) Name() string { return "pad" }

// Forward pads x.
func (p Pad) Forward(xs []*autodiff.Node) []*tensor.Array {
	arity("pad", xs, 1)
	return one(tensor.PadRows(xs[0].Value(), p.Before, p.After))
}

// Backward slices g.
func (p Pad) Backward(t *autodiff.Tracer, xs, _, gys []*autodiff.Node) []*autodiff.Node {
	rows := xs[0].Shape()[0]
	return []*autodiff.Node{t.Apply(Slice{Start: p.Before, Stop: p.Before + rows}, gys[0])}
}
