package autodiff

import (
	"fmt"
	"sync"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Node is a shared handle to a computed array value.
//
// Identity is the allocation: two nodes are the same node only if they are
// the same *Node, never because their values are equal. The value is fixed at
// construction; grad, name and creator are guarded by mu, which is only ever
// held for a single read or read-modify-write.
//
// A node owns its creator edge; the edge refers back to the node weakly.
type Node struct {
	value *tensor.Array

	mu      sync.Mutex
	grad    *Node
	name    string
	creator *FunctionCall
}

// NewNode wraps value as a leaf node with no creator.
func NewNode(value *tensor.Array) *Node {
	if value == nil {
		panic("autodiff: NewNode: nil value")
	}
	return &Node{value: value}
}

// Scalar is a shorthand for NewNode(tensor.Scalar(v)).
func Scalar(v float32) *Node {
	return NewNode(tensor.Scalar(v))
}

// Named labels n and returns it, for chaining at construction:
//
//	w := autodiff.NewNode(init).Named("w")
func (n *Node) Named(name string) *Node {
	n.SetName(name)
	return n
}

// Value returns the node's array.
func (n *Node) Value() *tensor.Array {
	return n.value
}

// Shape returns the shape of the node's value.
func (n *Node) Shape() tensor.Shape {
	return n.value.Shape()
}

// Rank returns the number of dimensions of the node's value.
func (n *Node) Rank() int {
	return n.value.Rank()
}

// Item returns the single element of a one-element node.
func (n *Node) Item() float32 {
	return n.value.Item()
}

// Name returns the diagnostic name (may be empty).
func (n *Node) Name() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.name
}

// SetName sets the diagnostic name.
func (n *Node) SetName(name string) {
	n.mu.Lock()
	n.name = name
	n.mu.Unlock()
}

// Grad returns the stored gradient, or nil if none was set.
func (n *Node) Grad() *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.grad
}

// SetGrad overwrites the stored gradient.
func (n *Node) SetGrad(grad *Node) {
	n.mu.Lock()
	n.grad = grad
	n.mu.Unlock()
}

// ZeroGrad clears the stored gradient.
func (n *Node) ZeroGrad() {
	n.SetGrad(nil)
}

// Creator returns the edge that produced n, or nil for a leaf.
func (n *Node) Creator() *FunctionCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.creator
}

// IsLeaf reports whether n has no creator.
func (n *Node) IsLeaf() bool {
	return n.Creator() == nil
}

// Unchain detaches n from its creator, turning it into a leaf. Gradients stop
// flowing through n and the upstream graph is released once nothing else
// holds it.
func (n *Node) Unchain() {
	n.setCreator(nil)
}

func (n *Node) setCreator(fc *FunctionCall) {
	n.mu.Lock()
	n.creator = fc
	n.mu.Unlock()
}

// isSource reports whether n is where gradients are collected by
// Node.Backward: a leaf, or a node whose creator takes no inputs (a lifted
// root or a parameter).
func (n *Node) isSource() bool {
	c := n.Creator()
	return c == nil || len(c.inputs) == 0
}

// label names n for panics and logs.
func (n *Node) label() string {
	if name := n.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("<unnamed %v>", n.value.Shape())
}

// String renders the node as "name shape".
func (n *Node) String() string {
	return fmt.Sprintf("%s %v", n.label(), n.value.Shape())
}
