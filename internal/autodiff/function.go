package autodiff

import (
	"fmt"
	"weak"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Backward computes input gradients for one recorded call.
//
// xs are the call's inputs, ys its outputs and gys the gradients flowing into
// each output, matched by position. The result must hold exactly one gradient
// per input. Implementations build the gradients through t, so when the engine
// runs in create-graph mode the backward pass is itself differentiable.
type Backward interface {
	Backward(t *Tracer, xs, ys, gys []*Node) []*Node
}

// Function is a differentiable operator.
//
// Forward computes output values eagerly from the input nodes. Tracer.Call is
// the only way a Function should be invoked; it wraps the outputs as nodes and
// records the call for backpropagation.
type Function interface {
	Backward
	Forward(xs []*Node) []*tensor.Array
}

// ForceTracer is implemented by functions whose backward must be recorded
// even when the tracer is not recording, such as bridges that splice an
// externally built subgraph into the current one.
type ForceTracer interface {
	ForceTrace() bool
}

// OptimizeeProvider is implemented by backward rules that mark their output
// as a trainable parameter.
type OptimizeeProvider interface {
	Optimizee() *Optimizee
}

// Namer gives a function a diagnostic name. Functions without one are named
// after their Go type.
type Namer interface {
	Name() string
}

// BackwardFunc adapts a closure to the Backward interface.
type BackwardFunc func(t *Tracer, xs, ys, gys []*Node) []*Node

// Backward calls f.
func (f BackwardFunc) Backward(t *Tracer, xs, ys, gys []*Node) []*Node {
	return f(t, xs, ys, gys)
}

// FunctionCall is the edge recorded for one invocation of a function.
//
// It holds its inputs strongly and its outputs weakly. The only strong path
// to a FunctionCall is through the creator field of its outputs, so the edge
// and everything it retains is released together with its last live output.
type FunctionCall struct {
	name     string
	backward Backward
	inputs   []*Node
	outputs  []weak.Pointer[Node]
}

func newFunctionCall(name string, bw Backward, xs, ys []*Node) *FunctionCall {
	inputs := make([]*Node, len(xs))
	copy(inputs, xs)
	outputs := make([]weak.Pointer[Node], len(ys))
	for i, y := range ys {
		outputs[i] = weak.Make(y)
	}
	return &FunctionCall{
		name:     name,
		backward: bw,
		inputs:   inputs,
		outputs:  outputs,
	}
}

// Name returns the function name recorded with the call.
func (fc *FunctionCall) Name() string {
	return fc.name
}

// Inputs returns the call's input nodes in order.
func (fc *FunctionCall) Inputs() []*Node {
	out := make([]*Node, len(fc.inputs))
	copy(out, fc.inputs)
	return out
}

// NumOutputs returns how many outputs the call produced.
func (fc *FunctionCall) NumOutputs() int {
	return len(fc.outputs)
}

// Outputs resolves the call's output nodes in order.
//
// It panics if an output has already been released while the call is still
// reachable: callers of a multi-output function must keep every output alive
// for as long as any of them takes part in a backward pass.
func (fc *FunctionCall) Outputs() []*Node {
	ys := make([]*Node, len(fc.outputs))
	for i, wp := range fc.outputs {
		y := wp.Value()
		if y == nil {
			panic(fmt.Sprintf("autodiff: output %d of %s was released while its call is still reachable", i, fc.name))
		}
		ys[i] = y
	}
	return ys
}

// Optimizee returns the parameter this call is tagged with, or nil.
func (fc *FunctionCall) Optimizee() *Optimizee {
	if p, ok := fc.backward.(OptimizeeProvider); ok {
		return p.Optimizee()
	}
	return nil
}

// functionName returns fn's diagnostic name.
func functionName(fn any) string {
	if n, ok := fn.(Namer); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", fn)
}

// isForceTrace reports whether fn must always be recorded.
func isForceTrace(fn any) bool {
	ft, ok := fn.(ForceTracer)
	return ok && ft.ForceTrace()
}
