package autodiff

import (
	"fmt"
	"slices"
)

// CollectFunctionCalls returns every call reachable backward from roots.
//
// The walk follows each visited node's creator and, from each call, both its
// inputs and all of its outputs, deduplicating nodes and calls by identity.
// Calls appear in discovery order.
func CollectFunctionCalls(roots ...*Node) []*FunctionCall {
	var calls []*FunctionCall
	seenCalls := make(map[*FunctionCall]bool)
	visited := make(map[*Node]bool)

	stack := slices.Clone(roots)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[n] {
			continue
		}
		visited[n] = true

		fc := n.Creator()
		if fc == nil {
			continue
		}
		stack = append(stack, fc.inputs...)
		stack = append(stack, fc.Outputs()...)
		if !seenCalls[fc] {
			seenCalls[fc] = true
			calls = append(calls, fc)
		}
	}
	return calls
}

// CollectVariables returns the distinct input nodes of every call reachable
// from roots, in discovery order.
func CollectVariables(roots ...*Node) []*Node {
	var vars []*Node
	seen := make(map[*Node]bool)
	for _, fc := range CollectFunctionCalls(roots...) {
		for _, x := range fc.inputs {
			if !seen[x] {
				seen[x] = true
				vars = append(vars, x)
			}
		}
	}
	return vars
}

// SortForBackward orders calls so that every call comes before the calls
// producing its inputs, the order in which a backward pass must visit them.
//
// Calls are peeled in layers from the leaf side: a call is ready once each of
// its inputs is available, meaning it has no creator among calls, or it is an
// output of a call already peeled. The layers are then reversed. If no call is
// ready while some remain, the graph has a cycle and SortForBackward panics.
func SortForBackward(calls []*FunctionCall) []*FunctionCall {
	inSet := make(map[*FunctionCall]bool, len(calls))
	for _, fc := range calls {
		inSet[fc] = true
	}

	available := make(map[*Node]bool)
	for _, fc := range calls {
		for _, x := range fc.inputs {
			if c := x.Creator(); c == nil || !inSet[c] {
				available[x] = true
			}
		}
	}

	sorted := make([]*FunctionCall, 0, len(calls))
	remaining := calls
	for len(remaining) > 0 {
		var ready, blocked []*FunctionCall
		for _, fc := range remaining {
			if allAvailable(fc.inputs, available) {
				ready = append(ready, fc)
			} else {
				blocked = append(blocked, fc)
			}
		}
		if len(ready) == 0 {
			panic(fmt.Sprintf("autodiff: cycle detected: %d calls can never become ready (first: %s)",
				len(blocked), blocked[0].name))
		}
		for _, fc := range ready {
			for _, y := range fc.Outputs() {
				available[y] = true
			}
		}
		sorted = append(sorted, ready...)
		remaining = blocked
	}

	slices.Reverse(sorted)
	return sorted
}

func allAvailable(xs []*Node, available map[*Node]bool) bool {
	for _, x := range xs {
		if !available[x] {
			return false
		}
	}
	return true
}
