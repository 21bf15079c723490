// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides the differentiable operators of gradgraph.
//
// Every operator is a value implementing autodiff.Function and is invoked
// through a Tracer or the package-level autodiff.Apply.
package ops

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
)

// Arithmetic.
type (
	Add   = ops.Add
	Sub   = ops.Sub
	Mul   = ops.Mul
	Div   = ops.Div
	Neg   = ops.Neg
	Scale = ops.Scale
	Pow   = ops.Pow
)

// Elementwise functions and activations.
type (
	Exp     = ops.Exp
	Log     = ops.Log
	Sin     = ops.Sin
	Cos     = ops.Cos
	ReLU    = ops.ReLU
	Tanh    = ops.Tanh
	Sigmoid = ops.Sigmoid
)

// Shape operations.
type (
	Sum         = ops.Sum
	SumTo       = ops.SumTo
	BroadcastTo = ops.BroadcastTo
	Reshape     = ops.Reshape
	Transpose   = ops.Transpose
	MatMul      = ops.MatMul
	Split       = ops.Split
	Concat      = ops.Concat
	Slice       = ops.Slice
	Pad         = ops.Pad
)

// Normalization, losses and graph bridges.
type (
	Softmax             = ops.Softmax
	SoftmaxCrossEntropy = ops.SoftmaxCrossEntropy
	CreateGraph         = ops.CreateGraph
)

// MeanSquaredError returns mean((pred - target)²).
func MeanSquaredError(t *autodiff.Tracer, pred, target *autodiff.Node) *autodiff.Node {
	return ops.MeanSquaredError(t, pred, target)
}

// Mean returns the mean of every element of x.
func Mean(t *autodiff.Tracer, x *autodiff.Node) *autodiff.Node {
	return ops.Mean(t, x)
}
