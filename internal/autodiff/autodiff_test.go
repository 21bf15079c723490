package autodiff_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/tensor"
)

func vec(data ...float32) *autodiff.Node {
	return autodiff.NewNode(tensor.MustFromSlice(data, tensor.Shape{len(data)}))
}

// panicMessage runs f and returns what it panicked with, formatted.
func panicMessage(f func()) (msg string) {
	defer func() {
		if r := recover(); r != nil {
			msg = fmt.Sprint(r)
		}
	}()
	f()
	return ""
}

func TestGradients_MulAdd(t *testing.T) {
	a := autodiff.Scalar(3).Named("a")
	b := autodiff.Scalar(2).Named("b")
	c := autodiff.Scalar(1).Named("c")

	y := autodiff.Apply(ops.Add{}, autodiff.Apply(ops.Mul{}, a, b), c)
	assert.InDelta(t, 7.0, y.Item(), 1e-6)

	grads := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{a, b}, false)
	require.Len(t, grads, 2)
	assert.InDelta(t, 2.0, grads[0].Item(), 1e-6)
	assert.InDelta(t, 3.0, grads[1].Item(), 1e-6)
}

func TestGradients_SharedInputAccumulates(t *testing.T) {
	x := autodiff.Scalar(3)
	y := autodiff.Apply(ops.Add{}, x, x)
	assert.InDelta(t, 6.0, y.Item(), 1e-6)

	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)[0]
	assert.InDelta(t, 2.0, g.Item(), 1e-6)
}

func TestGradients_DiamondThroughIntermediates(t *testing.T) {
	// y = (x*2) + (x*x) at x = 3 → dy/dx = 2 + 2x = 8
	x := autodiff.Scalar(3)
	left := autodiff.Apply(ops.Scale{Factor: 2}, x)
	right := autodiff.Apply(ops.Mul{}, x, x)
	y := autodiff.Apply(ops.Add{}, left, right)

	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)[0]
	assert.InDelta(t, 8.0, g.Item(), 1e-5)
}

func TestGradients_MultipleOutputsAreSummed(t *testing.T) {
	x := autodiff.Scalar(2)
	y1 := autodiff.Apply(ops.Mul{}, x, x)
	y2 := autodiff.Apply(ops.Scale{Factor: 5}, x)

	g := autodiff.Gradients([]*autodiff.Node{y1, y2}, []*autodiff.Node{x}, false)[0]
	assert.InDelta(t, 9.0, g.Item(), 1e-5)
}

func TestGradients_IntermediateTarget(t *testing.T) {
	x := autodiff.Scalar(3)
	h := autodiff.Apply(ops.Mul{}, x, x)
	y := autodiff.Apply(ops.Scale{Factor: 4}, h)

	grads := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{h, x}, false)
	assert.InDelta(t, 4.0, grads[0].Item(), 1e-6)
	assert.InDelta(t, 24.0, grads[1].Item(), 1e-5)
}

func TestGradients_WithoutCreateGraphReturnsLeaves(t *testing.T) {
	x := autodiff.Scalar(0.5)
	y := autodiff.Apply(ops.Sin{}, autodiff.Apply(ops.Mul{}, x, x))

	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)[0]
	assert.True(t, g.IsLeaf())
	assert.Empty(t, autodiff.CollectFunctionCalls(g))
}

func TestGradients_CreateGraphIsDifferentiable(t *testing.T) {
	x := autodiff.Scalar(2)
	y := autodiff.Apply(ops.Pow{P: 3}, x)

	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, true)[0]
	assert.InDelta(t, 12.0, g.Item(), 1e-5)
	assert.False(t, g.IsLeaf())

	gg := autodiff.Gradients([]*autodiff.Node{g}, []*autodiff.Node{x}, false)[0]
	assert.InDelta(t, 12.0, gg.Item(), 1e-4)
}

func TestGradients_SecondDerivativeOfSin(t *testing.T) {
	for _, v := range []float32{-1.2, 0, 0.5, 2} {
		x := autodiff.Scalar(v)
		y := autodiff.Apply(ops.Sin{}, x)

		g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, true)[0]
		gg := autodiff.Gradients([]*autodiff.Node{g}, []*autodiff.Node{x}, true)[0]
		ggg := autodiff.Gradients([]*autodiff.Node{gg}, []*autodiff.Node{x}, false)[0]

		assert.InDelta(t, tensor.Cos(x.Value()).Item(), g.Item(), 1e-5)
		assert.InDelta(t, -tensor.Sin(x.Value()).Item(), gg.Item(), 1e-5)
		assert.InDelta(t, -tensor.Cos(x.Value()).Item(), ggg.Item(), 1e-5)
	}
}

func TestGradients_UnreachableTargetPanics(t *testing.T) {
	x := autodiff.Scalar(1).Named("x")
	stray := autodiff.Scalar(2).Named("stray")
	y := autodiff.Apply(ops.Neg{}, x)

	msg := panicMessage(func() {
		autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{stray}, false)
	})
	assert.Contains(t, msg, "gradient not found for stray")
}

type wrongArity struct{}

func (wrongArity) Name() string { return "wrong_arity" }

func (wrongArity) Forward(xs []*autodiff.Node) []*tensor.Array {
	return []*tensor.Array{xs[0].Value()}
}

func (wrongArity) Backward(_ *autodiff.Tracer, _, _, _ []*autodiff.Node) []*autodiff.Node {
	return []*autodiff.Node{}
}

func TestGradients_ArityMismatchPanics(t *testing.T) {
	x := autodiff.Scalar(1)
	y := autodiff.Apply(wrongArity{}, x)

	msg := panicMessage(func() {
		autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)
	})
	assert.Contains(t, msg, "backward of wrong_arity has 1 inputs, but 0 gradients returned")
}

func TestGradients_MultiOutputPositional(t *testing.T) {
	x := vec(1, 2, 3, 4)
	parts := autodiff.Call(ops.Split{Sizes: []int{1, 3}}, x)
	require.Len(t, parts, 2)
	assert.Equal(t, []float32{1}, parts[0].Value().Data())
	assert.Equal(t, []float32{2, 3, 4}, parts[1].Value().Data())

	y := autodiff.Apply(ops.Add{},
		autodiff.Apply(ops.Sum{}, autodiff.Apply(ops.Scale{Factor: 10}, parts[0])),
		autodiff.Apply(ops.Sum{}, parts[1]),
	)
	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)[0]
	assert.Equal(t, []float32{10, 1, 1, 1}, g.Value().Data())
}

func TestGradients_UnusedOutputContributesZero(t *testing.T) {
	x := vec(1, 2, 3)
	parts := autodiff.Call(ops.Split{Sizes: []int{2, 1}}, x)
	y := autodiff.Apply(ops.Sum{}, parts[1])

	g := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)[0]
	assert.Equal(t, []float32{0, 0, 1}, g.Value().Data())
	runtime.KeepAlive(parts)
}

func TestSortForBackward_ConsumersBeforeProducers(t *testing.T) {
	x := vec(1, 2)
	a := autodiff.Apply(ops.Exp{}, x)
	b := autodiff.Apply(ops.Mul{}, a, x)
	c := autodiff.Apply(ops.Add{}, a, b, autodiff.Apply(ops.Neg{}, b))
	y := autodiff.Apply(ops.Sum{}, c)

	calls := autodiff.SortForBackward(autodiff.CollectFunctionCalls(y))
	require.Len(t, calls, 5)

	pos := make(map[*autodiff.FunctionCall]int, len(calls))
	for i, fc := range calls {
		pos[fc] = i
	}
	for _, fc := range calls {
		for _, in := range fc.Inputs() {
			producer := in.Creator()
			if producer == nil {
				continue
			}
			assert.Less(t, pos[fc], pos[producer],
				"%s consumes the output of %s and must be processed first", fc.Name(), producer.Name())
		}
	}
	assert.Equal(t, "sum", calls[0].Name())
}

func TestCollectVariables(t *testing.T) {
	a := autodiff.Scalar(1).Named("a")
	b := autodiff.Scalar(2).Named("b")
	m := autodiff.Apply(ops.Mul{}, a, b).Named("m")
	y := autodiff.Apply(ops.Add{}, m, a)

	vars := autodiff.CollectVariables(y)
	assert.ElementsMatch(t, []*autodiff.Node{a, b, m}, vars)
}

func TestTracer_NoGradProducesLeaves(t *testing.T) {
	a, b := autodiff.Scalar(2), autodiff.Scalar(4)

	y := autodiff.Traced.NoGrad().Apply(ops.Mul{}, a, b)
	assert.InDelta(t, 8.0, y.Item(), 1e-6)
	assert.True(t, y.IsLeaf())

	z := autodiff.Untraced.Apply(ops.Add{}, a, b)
	assert.True(t, z.IsLeaf())
	assert.False(t, autodiff.Untraced.IsRecording())
	assert.True(t, autodiff.NewTracer().IsRecording())
}

func TestTracer_ForceTraceRecordsAnyway(t *testing.T) {
	v := tensor.MustFromSlice([]float32{1, 2}, tensor.Shape{2})

	y := autodiff.Untraced.Apply(ops.CreateGraph{Value: v})
	require.False(t, y.IsLeaf())
	assert.Equal(t, "create_graph", y.Creator().Name())
	assert.Empty(t, y.Creator().Inputs())
	assert.True(t, y.Value().Equal(v))
}

func TestTracer_CallRecordsCreator(t *testing.T) {
	a, b := autodiff.Scalar(1), autodiff.Scalar(2)
	y := autodiff.Apply(ops.Mul{}, a, b)

	fc := y.Creator()
	require.NotNil(t, fc)
	assert.Equal(t, "mul", fc.Name())
	assert.Equal(t, []*autodiff.Node{a, b}, fc.Inputs())
	assert.Equal(t, 1, fc.NumOutputs())
	assert.Same(t, y, fc.Outputs()[0])
	assert.Nil(t, fc.Optimizee())
}

func TestTracer_ApplyRejectsMultipleOutputs(t *testing.T) {
	x := vec(1, 2)
	assert.Panics(t, func() {
		autodiff.Apply(ops.Split{Sizes: []int{1, 1}}, x)
	})
}

func TestNode_Unchain(t *testing.T) {
	x := autodiff.Scalar(3)
	h := autodiff.Apply(ops.Mul{}, x, x)
	y := autodiff.Apply(ops.Neg{}, h)

	h.Unchain()
	assert.True(t, h.IsLeaf())
	assert.ElementsMatch(t, []*autodiff.Node{h}, autodiff.CollectVariables(y))
	assert.Panics(t, func() {
		autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{x}, false)
	})
}

func TestNode_Backward(t *testing.T) {
	x := autodiff.Scalar(3).Named("x")
	w := autodiff.Scalar(-2).Named("w")
	h := autodiff.Apply(ops.Mul{}, x, w)
	y := autodiff.Apply(ops.Mul{}, h, x)

	y.Backward(false)

	require.NotNil(t, y.Grad())
	assert.InDelta(t, 1.0, y.Grad().Item(), 1e-6)
	assert.InDelta(t, -12.0, x.Grad().Item(), 1e-5)
	assert.InDelta(t, 9.0, w.Grad().Item(), 1e-5)
	assert.Nil(t, h.Grad())

	x.ZeroGrad()
	assert.Nil(t, x.Grad())
}

func TestNode_Backward_UsesExistingSeed(t *testing.T) {
	x := autodiff.Scalar(3)
	y := autodiff.Apply(ops.Mul{}, x, x)
	y.SetGrad(autodiff.Scalar(0.5))

	y.Backward(false)
	assert.InDelta(t, 3.0, x.Grad().Item(), 1e-6)
}

func TestNode_Identity(t *testing.T) {
	a := autodiff.Scalar(1)
	b := autodiff.Scalar(1)
	assert.True(t, a.Value().Equal(b.Value()))
	assert.NotSame(t, a, b)

	y := autodiff.Apply(ops.Add{}, a, b)
	grads := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{a, b}, false)
	assert.InDelta(t, 1.0, grads[0].Item(), 1e-6)
	assert.InDelta(t, 1.0, grads[1].Item(), 1e-6)
}

func TestNode_String(t *testing.T) {
	n := autodiff.NewNode(tensor.Zeros(tensor.Shape{2, 3}))
	assert.Equal(t, "<unnamed [2 3]> [2 3]", n.String())
	assert.Equal(t, "w [2 3]", n.Named("w").String())
	assert.Panics(t, func() { autodiff.NewNode(nil) })
}

func TestConcurrentGraphConstruction(t *testing.T) {
	w := vec(1, 2, 3).Named("w")

	var g errgroup.Group
	results := make([][]float32, 16)
	for i := range results {
		g.Go(func() error {
			k := autodiff.Scalar(float32(i))
			y := autodiff.Apply(ops.Sum{}, autodiff.Apply(ops.Mul{}, w, k))
			grad := autodiff.Gradients([]*autodiff.Node{y}, []*autodiff.Node{w}, false)[0]
			results[i] = grad.Value().Data()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for i, r := range results {
		f := float32(i)
		assert.Equal(t, []float32{f, f, f}, r)
	}
	assert.True(t, w.IsLeaf())
}

func TestNaiveSGD(t *testing.T) {
	a := vec(1, 2).Named("a")
	b := vec(3, 4).Named("b")
	loss := autodiff.Apply(ops.Sum{}, autodiff.Apply(ops.Mul{}, a, b))

	updated := autodiff.NaiveSGD(loss, 0.1)
	byName := make(map[string]*autodiff.Node)
	for _, n := range updated {
		assert.True(t, n.IsLeaf())
		byName[n.Name()] = n
	}

	require.Contains(t, byName, "a")
	require.Contains(t, byName, "b")
	assert.InDeltaSlice(t, []float32{0.7, 1.6}, byName["a"].Value().Data(), 1e-6)
	assert.InDeltaSlice(t, []float32{2.9, 3.8}, byName["b"].Value().Data(), 1e-6)
}

type counter struct {
	value   *tensor.Array
	updates int
	lastLR  float32
}

func (c *counter) Value() *tensor.Array { return c.value }

func (c *counter) Update(grad *tensor.Array, lr float32) {
	c.updates++
	c.lastLR = lr
	c.value = tensor.Sub(c.value, tensor.Scale(grad, lr))
}

func TestOptimize_OneUpdatePerOptimizee(t *testing.T) {
	c := &counter{value: tensor.MustFromSlice([]float32{2}, tensor.Shape{1})}
	o := autodiff.NewOptimizee(c)

	// loss = w1 * w2 with both nodes taken from the same parameter: d/dw = 2w = 4.
	loss := autodiff.Apply(ops.Sum{}, autodiff.Apply(ops.Mul{}, o.Get(), o.Get()))
	autodiff.Optimize(loss, 0.5)

	assert.Equal(t, 1, c.updates)
	assert.Equal(t, float32(0.5), c.lastLR)
	assert.Equal(t, []float32{0}, o.Value().Data())
	assert.Same(t, c, o.Trainable())
}

func TestOptimize_NoParametersIsNoop(t *testing.T) {
	loss := autodiff.Apply(ops.Sum{}, vec(1, 2))
	assert.NotPanics(t, func() { autodiff.Optimize(loss, 0.1) })
}
