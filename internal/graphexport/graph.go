// Package graphexport renders computational graphs for inspection.
//
// A Snapshot is taken through the autodiff read interface only (creators,
// call inputs and outputs, node names and shapes) and can be written as
// Graphviz DOT or encoded as a protobuf Struct.
package graphexport

import (
	"github.com/born-ml/gradgraph/internal/autodiff"
)

// Graph is an immutable snapshot of the graph reachable from some roots.
type Graph struct {
	Nodes []Node
	Calls []Call
}

// Node describes one value in the graph.
type Node struct {
	ID    int
	Name  string
	Shape []int
	Leaf  bool
	Root  bool
}

// Call describes one recorded function call.
type Call struct {
	ID        int
	Name      string
	Inputs    []int
	Outputs   []int
	Parameter bool
}

// Snapshot walks the graph backward from roots. Nodes and calls are
// numbered in discovery order.
func Snapshot(roots ...*autodiff.Node) *Graph {
	g := &Graph{}
	ids := make(map[*autodiff.Node]int)
	id := func(n *autodiff.Node) int {
		if i, ok := ids[n]; ok {
			return i
		}
		i := len(g.Nodes)
		ids[n] = i
		g.Nodes = append(g.Nodes, Node{
			ID:    i,
			Name:  n.Name(),
			Shape: n.Shape(),
			Leaf:  n.IsLeaf(),
		})
		return i
	}

	for _, r := range roots {
		g.Nodes[id(r)].Root = true
	}
	for i, fc := range autodiff.CollectFunctionCalls(roots...) {
		c := Call{
			ID:        i,
			Name:      fc.Name(),
			Parameter: fc.Optimizee() != nil,
		}
		for _, x := range fc.Inputs() {
			c.Inputs = append(c.Inputs, id(x))
		}
		for _, y := range fc.Outputs() {
			c.Outputs = append(c.Outputs, id(y))
		}
		g.Calls = append(g.Calls, c)
	}
	return g
}

// Parameters returns the number of parameter calls in g.
func (g *Graph) Parameters() int {
	n := 0
	for _, c := range g.Calls {
		if c.Parameter {
			n++
		}
	}
	return n
}
