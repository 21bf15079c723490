// Package autodiff implements reverse-mode automatic differentiation over a
// dynamically built graph of nodes.
//
// Architecture:
//   - Node: shared handle to an immutable array value plus an optional creator
//   - FunctionCall: the edge recorded for one function invocation; it owns its
//     inputs and refers to its outputs through weak pointers, so the graph is
//     released as soon as its outputs are
//   - Tracer: explicit recording mode threaded through every call
//   - Gradients: collects the reachable calls, sorts them topologically and
//     accumulates gradients by node identity
//   - Optimizee/Optimize: parameters tagged on their creator call, discovered
//     from a loss and updated once per step
//
// Backward rules build their gradients with the Tracer they are handed, so a
// backward pass run with createGraph is itself a graph and can be
// differentiated again.
//
// Usage:
//
//	x := autodiff.Scalar(3).Named("x")
//	y := autodiff.Apply(ops.Mul{}, x, x) // y = x²
//
//	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, true)[0]
//	fmt.Println(g.Item()) // dy/dx = 2x = 6
//
//	gg := autodiff.Gradients([]*autodiff.Node{g}, []*autodiff.Node{x}, false)[0]
//	fmt.Println(gg.Item()) // d²y/dx² = 2
package autodiff
