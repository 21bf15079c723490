package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear("hidden", 2, 8, rule, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear("out", 8, 1, rule, rng),
//	)
//
//	output := model.Forward(autodiff.Traced, input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(t *autodiff.Tracer, input *autodiff.Node) *autodiff.Node {
	output := input
	for _, module := range s.modules {
		output = module.Forward(t, output)
	}
	return output
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []Param {
	var params []Param
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("nn: Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// StateDict returns the current value of every parameter, keyed by
// parameter name.
func (s *Sequential) StateDict() map[string]*tensor.Array {
	return StateDict(s)
}

// StateDict returns the values of m's parameters keyed by name.
func StateDict(m Module) map[string]*tensor.Array {
	state := make(map[string]*tensor.Array)
	for _, p := range m.Parameters() {
		state[p.Name()] = p.Value()
	}
	return state
}

// LoadStateDict sets parameter values from state. Every parameter of m must
// be present with a matching shape.
func LoadStateDict(m Module, state map[string]*tensor.Array) error {
	var missing []string
	for _, p := range m.Parameters() {
		v, ok := state[p.Name()]
		if !ok {
			missing = append(missing, p.Name())
			continue
		}
		if !v.Shape().Equal(p.Value().Shape()) {
			return fmt.Errorf("nn: parameter %s: shape %v, want %v", p.Name(), v.Shape(), p.Value().Shape())
		}
		p.SetValue(v)
	}
	if len(missing) > 0 {
		return fmt.Errorf("nn: missing parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}
