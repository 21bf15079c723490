package autodiff

import (
	"sync"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Trainable is the state behind a trainable parameter: a current value and
// an update rule applied to it.
type Trainable interface {
	Value() *tensor.Array
	Update(grad *tensor.Array, lr float32)
}

// Optimizee is a shareable handle to a Trainable. Nodes obtained from Get
// are recognized by Optimize as this parameter.
type Optimizee struct {
	mu    sync.Mutex
	inner Trainable
}

// NewOptimizee wraps t.
func NewOptimizee(t Trainable) *Optimizee {
	return &Optimizee{inner: t}
}

// Value returns the parameter's current value.
func (o *Optimizee) Value() *tensor.Array {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inner.Value()
}

// Trainable returns the wrapped state.
func (o *Optimizee) Trainable() Trainable {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inner
}

// Get returns a node holding the current value, created by an input-less
// call tagged with o. The call is recorded regardless of tracing mode.
func (o *Optimizee) Get() *Node {
	y := NewNode(o.Value())
	Traced.Chain(nil, []*Node{y}, "optimizee", true, optimizeeCreator{o})
	return y
}

// Update applies grad to the parameter with learning rate lr.
func (o *Optimizee) Update(grad *Node, lr float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.inner.Update(grad.value, lr)
}

type optimizeeCreator struct {
	o *Optimizee
}

func (c optimizeeCreator) Backward(_ *Tracer, _, _, _ []*Node) []*Node {
	return nil
}

func (c optimizeeCreator) Optimizee() *Optimizee {
	return c.o
}

// Optimize updates every parameter reachable from loss. It runs through
// Traced; see Tracer.Optimize.
func Optimize(loss *Node, lr float32) {
	Traced.Optimize(loss, lr)
}

// Optimize discovers the parameters reachable backward from loss, computes
// all their gradients in a single pass and updates each parameter once.
//
// A parameter that appears several times in the graph, as one node used
// repeatedly or as several nodes from separate Get calls, receives the sum
// of its gradients in one Update.
func (t *Tracer) Optimize(loss *Node, lr float32) {
	var (
		params []*Optimizee
		nodes  []*Node
		owner  []int
	)
	index := make(map[*Optimizee]int)
	for _, fc := range CollectFunctionCalls(loss) {
		o := fc.Optimizee()
		if o == nil {
			continue
		}
		i, ok := index[o]
		if !ok {
			i = len(params)
			index[o] = i
			params = append(params, o)
		}
		nodes = append(nodes, fc.Outputs()[0])
		owner = append(owner, i)
	}
	if len(params) == 0 {
		t.logger.Debug("optimize: no parameters reachable from loss")
		return
	}

	grads := t.Gradients([]*Node{loss}, nodes, false)

	sums := make([]*Node, len(params))
	for k, g := range grads {
		i := owner[k]
		if sums[i] == nil {
			sums[i] = g
			continue
		}
		sums[i] = NewNode(tensor.Add(sums[i].value, g.value))
	}

	t.logger.Debug("optimize step", "params", len(params), "nodes", len(nodes), "lr", lr)
	for i, o := range params {
		o.Update(sums[i], lr)
	}
}

// NaiveSGD takes one plain gradient-descent step on every variable reachable
// from loss and returns the updated values as new leaves, in the order of
// CollectVariables. Inputs that do not need a gradient still get one; use
// Optimize for real training.
func NaiveSGD(loss *Node, lr float32) []*Node {
	vars := CollectVariables(loss)
	grads := Gradients([]*Node{loss}, vars, false)
	out := make([]*Node, len(vars))
	for i, v := range vars {
		step := tensor.Scale(grads[i].value, -lr)
		out[i] = NewNode(tensor.Add(v.value, step)).Named(v.Name())
	}
	return out
}
