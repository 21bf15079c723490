package nn

import (
	"fmt"
	"sync"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Parameter is a trainable value with its own update rule and rule state.
//
// Every call to Node returns a fresh graph root tagged with the parameter,
// so autodiff.Optimize finds it and applies one update per step no matter
// how many times the parameter is used.
//
// Example:
//
//	w := nn.NewParameter("w", tensor.Zeros(tensor.Shape{3}), optim.NewSGD(optim.SGDConfig{LR: 0.1}))
//	loss := buildLoss(w.Node())
//	autodiff.Optimize(loss, 0)
type Parameter[S any] struct {
	name string
	opt  *autodiff.Optimizee
	st   *paramState[S]
}

// paramState is the Trainable behind a Parameter.
type paramState[S any] struct {
	mu    sync.Mutex
	value *tensor.Array
	rule  optim.Rule[S]
	state S
	steps int
}

// NewParameter creates a parameter holding value and trained by rule.
func NewParameter[S any](name string, value *tensor.Array, rule optim.Rule[S]) *Parameter[S] {
	st := &paramState[S]{
		value: value,
		rule:  rule,
		state: rule.NewState(value.Shape()),
	}
	return &Parameter[S]{
		name: name,
		opt:  autodiff.NewOptimizee(st),
		st:   st,
	}
}

func (s *paramState[S]) Value() *tensor.Array {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

func (s *paramState[S]) Update(grad *tensor.Array, lr float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !grad.Shape().Equal(s.value.Shape()) {
		panic(fmt.Sprintf("nn: gradient shape %v does not match parameter shape %v", grad.Shape(), s.value.Shape()))
	}
	s.value = s.rule.Update(s.value, s.state, grad, lr)
	s.steps++
}

// Name returns the parameter name.
func (p *Parameter[S]) Name() string {
	return p.name
}

// Node returns a graph root holding the current value.
func (p *Parameter[S]) Node() *autodiff.Node {
	return p.opt.Get().Named(p.name)
}

// Value returns the current value.
func (p *Parameter[S]) Value() *tensor.Array {
	return p.st.Value()
}

// SetValue replaces the value, e.g. when loading a checkpoint. The rule
// state is kept.
func (p *Parameter[S]) SetValue(v *tensor.Array) {
	p.st.mu.Lock()
	defer p.st.mu.Unlock()
	if !v.Shape().Equal(p.st.value.Shape()) {
		panic(fmt.Sprintf("nn: %s: cannot set value of shape %v, want %v", p.name, v.Shape(), p.st.value.Shape()))
	}
	p.st.value = v
}

// Steps returns how many updates have been applied.
func (p *Parameter[S]) Steps() int {
	p.st.mu.Lock()
	defer p.st.mu.Unlock()
	return p.st.steps
}

// State returns the rule state, such as Adam moments.
func (p *Parameter[S]) State() S {
	p.st.mu.Lock()
	defer p.st.mu.Unlock()
	return p.st.state
}

// Optimizee returns the handle autodiff.Optimize updates.
func (p *Parameter[S]) Optimizee() *autodiff.Optimizee {
	return p.opt
}
