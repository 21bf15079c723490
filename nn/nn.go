// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks for gradgraph.
//
// Example:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	model := nn.NewSequential(
//	    nn.NewLinear("hidden", 4, 16, optim.NewAdam(optim.AdamConfig{}), rng),
//	    nn.NewTanh(),
//	    nn.NewLinear("out", 16, 1, optim.NewAdam(optim.AdamConfig{}), rng),
//	)
//	loss := nn.NewMSELoss().Forward(autodiff.Traced, model.Forward(autodiff.Traced, x), y)
//	autodiff.Optimize(loss, 0)
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Module is the base interface for all neural network components.
type Module = nn.Module

// Param is the rule-independent view of a parameter.
type Param = nn.Param

// Parameter is a trainable value with its own update rule.
type Parameter[S any] = nn.Parameter[S]

// Layers, activations, containers and losses.
type (
	Linear           = nn.Linear
	ReLU             = nn.ReLU
	Sigmoid          = nn.Sigmoid
	Tanh             = nn.Tanh
	Sequential       = nn.Sequential
	MSELoss          = nn.MSELoss
	CrossEntropyLoss = nn.CrossEntropyLoss
)

// NewParameter creates a parameter holding value and trained by rule.
func NewParameter[S any](name string, value *tensor.Array, rule optim.Rule[S]) *Parameter[S] {
	return nn.NewParameter(name, value, rule)
}

// NewLinear creates a fully connected layer.
func NewLinear[S any](name string, in, out int, rule optim.Rule[S], rng *rand.Rand) *Linear {
	return nn.NewLinear(name, in, out, rule, rng)
}

// Constructors without type parameters.
var (
	NewSequential       = nn.NewSequential
	NewReLU             = nn.NewReLU
	NewSigmoid          = nn.NewSigmoid
	NewTanh             = nn.NewTanh
	NewMSELoss          = nn.NewMSELoss
	NewCrossEntropyLoss = nn.NewCrossEntropyLoss
	StateDict           = nn.StateDict
	LoadStateDict       = nn.LoadStateDict
	Xavier              = nn.Xavier
	Randn               = nn.Randn
)
