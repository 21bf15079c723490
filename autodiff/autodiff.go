// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over a
// dynamic computational graph.
//
// Values are Nodes. Calling a Function through a Tracer computes its outputs
// eagerly and, while the tracer records, links each output to the call that
// produced it. Gradients walks those links backward; with createGraph the
// gradients are themselves differentiable.
//
// Example:
//
//	import (
//	    "github.com/born-ml/gradgraph/autodiff"
//	    "github.com/born-ml/gradgraph/ops"
//	)
//
//	func main() {
//	    a, b := autodiff.Scalar(3), autodiff.Scalar(2)
//	    y := autodiff.Apply(ops.Add{}, autodiff.Apply(ops.Mul{}, a, b), autodiff.Scalar(1))
//	    grads := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{a, b}, false)
//	    // grads[0] == 2, grads[1] == 3
//	}
package autodiff

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Node is a value in the graph. Identity is the pointer.
type Node = autodiff.Node

// FunctionCall is the recorded edge for one function invocation.
type FunctionCall = autodiff.FunctionCall

// Function is a differentiable operator.
type Function = autodiff.Function

// Backward computes input gradients for one recorded call.
type Backward = autodiff.Backward

// BackwardFunc adapts a closure to Backward.
type BackwardFunc = autodiff.BackwardFunc

// ForceTracer marks functions recorded even when tracing is off.
type ForceTracer = autodiff.ForceTracer

// Tracer decides whether calls are recorded.
type Tracer = autodiff.Tracer

// Option configures a Tracer.
type Option = autodiff.Option

// Optimizee is a trainable parameter handle found by Optimize.
type Optimizee = autodiff.Optimizee

// Trainable is the state behind an Optimizee.
type Trainable = autodiff.Trainable

// Ready-made tracers.
var (
	Traced   = autodiff.Traced
	Untraced = autodiff.Untraced
)

// NewNode wraps value as a leaf.
func NewNode(value *tensor.Array) *Node {
	return autodiff.NewNode(value)
}

// Scalar creates a rank-0 leaf.
func Scalar(v float32) *Node {
	return autodiff.Scalar(v)
}

// NewTracer creates a Tracer.
//
// Example:
//
//	t := autodiff.NewTracer(autodiff.WithLogger(logger))
func NewTracer(opts ...Option) *Tracer {
	return autodiff.NewTracer(opts...)
}

// WithRecording sets whether a tracer records calls.
func WithRecording(on bool) Option {
	return autodiff.WithRecording(on)
}

// WithLogger sets a tracer's logger.
var WithLogger = autodiff.WithLogger

// Call runs fn through Traced.
func Call(fn Function, xs ...*Node) []*Node {
	return autodiff.Call(fn, xs...)
}

// Apply runs a single-output fn through Traced.
func Apply(fn Function, xs ...*Node) *Node {
	return autodiff.Apply(fn, xs...)
}

// Gradients returns d(sum ys)/dx for every x in xs.
func Gradients(ys, xs []*Node, createGraph bool) []*Node {
	return autodiff.Gradients(ys, xs, createGraph)
}

// NewOptimizee wraps t as a parameter handle.
func NewOptimizee(t Trainable) *Optimizee {
	return autodiff.NewOptimizee(t)
}

// Optimize updates every parameter reachable from loss once.
func Optimize(loss *Node, lr float32) {
	autodiff.Optimize(loss, lr)
}

// CollectFunctionCalls returns every call reachable backward from roots.
func CollectFunctionCalls(roots ...*Node) []*FunctionCall {
	return autodiff.CollectFunctionCalls(roots...)
}

// CollectVariables returns the distinct inputs of every reachable call.
func CollectVariables(roots ...*Node) []*Node {
	return autodiff.CollectVariables(roots...)
}
