// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the immutable float32 n-dimensional arrays that
// gradgraph nodes hold.
//
// Example:
//
//	a := tensor.MustFromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	b := tensor.MatMul(a, tensor.Transpose(a))
package tensor

import (
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Array is an immutable row-major float32 array.
type Array = tensor.Array

// Shape describes array dimensions.
type Shape = tensor.Shape

// Constructors.
var (
	FromSlice     = tensor.FromSlice
	MustFromSlice = tensor.MustFromSlice
	Scalar        = tensor.Scalar
	Full          = tensor.Full
	Zeros         = tensor.Zeros
	Ones          = tensor.Ones
	ZerosLike     = tensor.ZerosLike
	OnesLike      = tensor.OnesLike
)

// Elementwise operations with broadcasting.
var (
	Add   = tensor.Add
	Sub   = tensor.Sub
	Mul   = tensor.Mul
	Div   = tensor.Div
	Neg   = tensor.Neg
	Scale = tensor.Scale
	Pow   = tensor.Pow
	Exp   = tensor.Exp
	Log   = tensor.Log
	Sin   = tensor.Sin
	Cos   = tensor.Cos
	Sqrt  = tensor.Sqrt
	Map   = tensor.Map
)

// Shape operations and reductions.
var (
	SumAxes         = tensor.SumAxes
	SumAll          = tensor.SumAll
	SumTo           = tensor.SumTo
	BroadcastTo     = tensor.BroadcastTo
	BroadcastShapes = tensor.BroadcastShapes
	Reshape         = tensor.Reshape
	Transpose       = tensor.Transpose
	MatMul          = tensor.MatMul
	Concat          = tensor.Concat
	Split           = tensor.Split
	SliceRows       = tensor.SliceRows
	PadRows         = tensor.PadRows
)
