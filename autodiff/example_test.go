package autodiff_test

import (
	"fmt"

	"github.com/born-ml/gradgraph/autodiff"
	"github.com/born-ml/gradgraph/ops"
)

func Example() {
	a, b := autodiff.Scalar(3), autodiff.Scalar(2)
	y := autodiff.Apply(ops.Add{}, autodiff.Apply(ops.Mul{}, a, b), autodiff.Scalar(1))

	grads := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{a, b}, false)
	fmt.Println(y.Value(), grads[0].Value(), grads[1].Value())
	// Output: 7 2 3
}

func Example_secondDerivative() {
	x := autodiff.Scalar(2)
	y := autodiff.Apply(ops.Pow{P: 3}, x)

	dy := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, true)[0]
	d2y := autodiff.Gradients([]*autodiff.Node{dy}, []*autodiff.Node{x}, false)[0]
	fmt.Println(dy.Value(), d2y.Value())
	// Output: 12 12
}
