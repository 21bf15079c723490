// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides parameter update rules for gradgraph.
//
// Example:
//
//	rule := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//	w := nn.NewParameter("w", init, rule)
package optim

import (
	"github.com/born-ml/gradgraph/internal/optim"
)

// Rule updates a parameter value from its gradient.
type Rule[S any] = optim.Rule[S]

// Rule implementations, configurations and state types.
type (
	SGD         = optim.SGD
	MomentumSGD = optim.MomentumSGD
	Adam        = optim.Adam
	Fixed       = optim.Fixed
	SGDConfig   = optim.SGDConfig
	AdamConfig  = optim.AdamConfig
	NoState     = optim.NoState
	Velocity    = optim.Velocity
	Moments     = optim.Moments
	Penalty     = optim.Penalty
)

// Penalties for WithRegularization.
const (
	L1 = optim.L1
	L2 = optim.L2
)

// NewSGD creates plain gradient descent.
func NewSGD(config SGDConfig) *SGD { return optim.NewSGD(config) }

// NewMomentumSGD creates gradient descent with momentum.
func NewMomentumSGD(config SGDConfig) *MomentumSGD { return optim.NewMomentumSGD(config) }

// NewAdam creates Adam.
func NewAdam(config AdamConfig) *Adam { return optim.NewAdam(config) }

// NewAdamW creates Adam with decoupled weight decay.
func NewAdamW(config AdamConfig) *Adam { return optim.NewAdamW(config) }

// WithRegularization adds an L1 or L2 penalty to rule.
func WithRegularization[S any](rule Rule[S], penalty Penalty, coef float32) Rule[S] {
	return optim.WithRegularization(rule, penalty, coef)
}
