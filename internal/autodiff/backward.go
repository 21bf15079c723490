package autodiff

import (
	"fmt"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Gradients returns the gradient of the sum of ys with respect to each of xs.
// It runs through Traced; see Tracer.Gradients.
func Gradients(ys, xs []*Node, createGraph bool) []*Node {
	return Traced.Gradients(ys, xs, createGraph)
}

// Gradients computes d(sum ys)/dx for every x in xs by reverse-mode
// differentiation over the graph reachable from ys.
//
// Each y is seeded with ones of its shape. With createGraph the seeds, every
// backward rule and every accumulation are recorded, so the returned
// gradients can be differentiated again. Without it every gradient produced
// along the way is unchained at once and all returned gradients are leaves.
//
// Gradients are not stored on the nodes. Intermediate gradients are dropped
// as soon as the call that produced their node has been processed.
//
// It panics if some x is not reachable from ys, if the graph has a cycle, or
// if a backward rule returns the wrong number of gradients.
func (t *Tracer) Gradients(ys, xs []*Node, createGraph bool) []*Node {
	seeds := make([]*Node, len(ys))
	for i, y := range ys {
		seeds[i] = t.ones(y, createGraph)
	}

	grads := t.propagate(ys, seeds, xs, createGraph)

	result := make([]*Node, len(xs))
	for i, x := range xs {
		g, ok := grads[x]
		if !ok {
			panic(fmt.Sprintf("autodiff: gradient not found for %s: node is not reachable from the outputs", x.label()))
		}
		result[i] = g
	}
	return result
}

// Backward seeds n's gradient and stores into every reachable source node
// (a leaf, a lifted root or a parameter) the gradient of n with respect to it.
//
// A gradient already set on n is used as the seed; otherwise n is seeded with
// ones of its shape and that seed is stored on n.
func (n *Node) Backward(createGraph bool) {
	Traced.backwardInto(n, createGraph)
}

func (t *Tracer) backwardInto(n *Node, createGraph bool) {
	seed := n.Grad()
	if seed == nil {
		seed = t.ones(n, createGraph)
		n.SetGrad(seed)
	}

	var targets []*Node
	for _, x := range CollectVariables(n) {
		if x != n && x.isSource() {
			targets = append(targets, x)
		}
	}

	grads := t.propagate([]*Node{n}, []*Node{seed}, targets, createGraph)
	for _, x := range targets {
		if g, ok := grads[x]; ok {
			x.SetGrad(g)
		}
	}
}

// ones builds the seed gradient for y.
func (t *Tracer) ones(y *Node, createGraph bool) *Node {
	if createGraph {
		return t.withRecording(true).Backprop(tensor.OnesLike(y.value))
	}
	return NewNode(tensor.OnesLike(y.value))
}

// propagate runs the backward pass from ys with the given seeds and returns
// the accumulated gradient map, which retains entries only for xs.
func (t *Tracer) propagate(ys, seeds, xs []*Node, createGraph bool) map[*Node]*Node {
	bt := t.withRecording(createGraph)

	grads := make(map[*Node]*Node, len(ys))
	for i, y := range ys {
		grads[y] = seeds[i]
	}
	targets := make(map[*Node]bool, len(xs))
	for _, x := range xs {
		targets[x] = true
	}

	calls := SortForBackward(CollectFunctionCalls(ys...))
	t.logger.Debug("backward pass",
		"calls", len(calls),
		"outputs", len(ys),
		"targets", len(xs),
		"create_graph", createGraph,
	)

	for _, fc := range calls {
		outs := fc.Outputs()
		gys := make([]*Node, len(outs))
		for i, y := range outs {
			if g, ok := grads[y]; ok {
				gys[i] = g
			} else {
				gys[i] = NewNode(tensor.ZerosLike(y.value))
			}
		}

		gxs := fc.backward.Backward(bt, fc.inputs, outs, gys)
		if len(gxs) != len(fc.inputs) {
			panic(fmt.Sprintf("autodiff: backward of %s has %d inputs, but %d gradients returned",
				fc.name, len(fc.inputs), len(gxs)))
		}

		if !createGraph {
			for _, gx := range gxs {
				if gx != nil {
					gx.Unchain()
				}
			}
		}

		for i, x := range fc.inputs {
			if gxs[i] != nil {
				accumulate(bt, grads, x, gxs[i])
			}
		}

		for _, y := range outs {
			if !targets[y] {
				delete(grads, y)
			}
		}
	}

	return grads
}

// accumulate adds gx into the gradient recorded for x.
func accumulate(t *Tracer, grads map[*Node]*Node, x, gx *Node) {
	existing, ok := grads[x]
	if !ok {
		grads[x] = gx
		return
	}
	grads[x] = t.Apply(addGrads{}, existing, gx)
}

// addGrads sums two gradients of the same shape.
type addGrads struct{}

func (addGrads) Name() string { return "add" }

func (addGrads) Forward(xs []*Node) []*tensor.Array {
	return []*tensor.Array{tensor.Add(xs[0].value, xs[1].value)}
}

func (addGrads) Backward(_ *Tracer, _, _, gys []*Node) []*Node {
	return []*Node{gys[0], gys[0]}
}
