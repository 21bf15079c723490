package nn_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

func sgd(lr float32) *optim.SGD {
	return optim.NewSGD(optim.SGDConfig{LR: lr})
}

func TestParameter(t *testing.T) {
	v := tensor.MustFromSlice([]float32{1, 2, 3}, tensor.Shape{3})
	p := nn.NewParameter("test_param", v, sgd(0.1))

	assert.Equal(t, "test_param", p.Name())
	assert.Same(t, v, p.Value())
	assert.Equal(t, 0, p.Steps())

	n := p.Node()
	assert.Equal(t, "test_param", n.Name())
	require.NotNil(t, n.Creator())
	assert.Same(t, p.Optimizee(), n.Creator().Optimizee())
	assert.NotSame(t, n, p.Node())
}

func TestParameter_OptimizeStep(t *testing.T) {
	p := nn.NewParameter("w", tensor.MustFromSlice([]float32{1, -2}, tensor.Shape{2}), sgd(0.25))

	// loss = sum(w²), gradient 2w
	w := p.Node()
	loss := autodiff.Apply(ops.Sum{}, autodiff.Apply(ops.Mul{}, w, w))
	autodiff.Optimize(loss, 0)

	assert.Equal(t, 1, p.Steps())
	assert.True(t, p.Value().AllClose(tensor.MustFromSlice([]float32{0.5, -1}, tensor.Shape{2}), 1e-6))
}

func TestParameter_WeightTyingSingleUpdate(t *testing.T) {
	p := nn.NewParameter("tied", tensor.Scalar(3), sgd(0.1))

	// Two separate roots of the same parameter: loss = a*b = w², d/dw = 2w = 6.
	a, b := p.Node(), p.Node()
	loss := autodiff.Apply(ops.Mul{}, a, b)
	autodiff.Optimize(loss, 0)

	assert.Equal(t, 1, p.Steps())
	assert.InDelta(t, 3-0.1*6, p.Value().Item(), 1e-6)
}

func TestParameter_SetValue(t *testing.T) {
	p := nn.NewParameter("w", tensor.Zeros(tensor.Shape{2}), optim.Fixed{})
	p.SetValue(tensor.Ones(tensor.Shape{2}))
	assert.Equal(t, []float32{1, 1}, p.Value().Data())
	assert.Panics(t, func() { p.SetValue(tensor.Ones(tensor.Shape{3})) })
}

func TestLinear(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	layer := nn.NewLinear("fc", 3, 2, sgd(0.1), rng)

	assert.Equal(t, 3, layer.InFeatures())
	assert.Equal(t, 2, layer.OutFeatures())
	assert.Equal(t, tensor.Shape{2, 3}, layer.Weight().Value().Shape())
	assert.Equal(t, []float32{0, 0}, layer.Bias().Value().Data())
	require.Len(t, layer.Parameters(), 2)
	assert.Equal(t, "fc.weight", layer.Parameters()[0].Name())

	layer.Weight().SetValue(tensor.MustFromSlice([]float32{1, 0, 0, 0, 1, 1}, tensor.Shape{2, 3}))
	layer.Bias().SetValue(tensor.MustFromSlice([]float32{10, 20}, tensor.Shape{2}))

	x := autodiff.NewNode(tensor.MustFromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
	y := layer.Forward(autodiff.Traced, x)
	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.Equal(t, []float32{11, 25, 14, 31}, y.Value().Data())

	assert.Panics(t, func() {
		layer.Forward(autodiff.Traced, autodiff.NewNode(tensor.Zeros(tensor.Shape{2, 4})))
	})
}

func TestXavierBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	w := nn.Xavier(rng, 6, 2, tensor.Shape{2, 6})
	for _, v := range w.Data() {
		assert.LessOrEqual(t, v, float32(0.867))
		assert.GreaterOrEqual(t, v, float32(-0.867))
	}
}

func TestSequential_FitsLinearFunction(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	model := nn.NewSequential(nn.NewLinear("out", 2, 1, optim.NewAdam(optim.AdamConfig{LR: 0.05}), rng))

	// y = 2*x0 - 3*x1 + 1
	x := autodiff.NewNode(tensor.MustFromSlice([]float32{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
		-1, 2,
		2, -1,
	}, tensor.Shape{6, 2}))
	y := autodiff.NewNode(tensor.MustFromSlice([]float32{1, 3, -2, 0, -7, 8}, tensor.Shape{6, 1}))

	mse := nn.NewMSELoss()
	first := mse.Forward(autodiff.Traced, model.Forward(autodiff.Traced, x), y).Item()

	var last float32
	for range 400 {
		loss := mse.Forward(autodiff.Traced, model.Forward(autodiff.Traced, x), y)
		last = loss.Item()
		autodiff.Optimize(loss, 0)
	}
	assert.Less(t, last, first)
	assert.Less(t, last, float32(0.1))

	for _, p := range model.Parameters() {
		assert.Equal(t, 400, p.Steps(), p.Name())
	}
}

func TestSequential_Modules(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	model := nn.NewSequential(nn.NewLinear("a", 2, 3, sgd(0.1), rng), nn.NewReLU())
	model.Add(nn.NewTanh())
	model.Add(nn.NewSigmoid())

	assert.Equal(t, 4, model.Len())
	assert.Len(t, model.Parameters(), 2)
	assert.Nil(t, model.Module(1).Parameters())
	assert.Panics(t, func() { model.Module(4) })

	out := model.Forward(autodiff.Traced, autodiff.NewNode(tensor.Ones(tensor.Shape{5, 2})))
	assert.Equal(t, tensor.Shape{5, 3}, out.Shape())
	for _, v := range out.Value().Data() {
		assert.GreaterOrEqual(t, v, float32(0.5))
		assert.Less(t, v, float32(1))
	}
}

func TestStateDictRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	src := nn.NewSequential(nn.NewLinear("l", 2, 2, sgd(0.1), rng))
	dst := nn.NewSequential(nn.NewLinear("l", 2, 2, sgd(0.1), rng))

	state := src.StateDict()
	assert.Len(t, state, 2)
	require.NoError(t, nn.LoadStateDict(dst, state))
	assert.True(t, dst.StateDict()["l.weight"].Equal(state["l.weight"]))

	delete(state, "l.bias")
	assert.ErrorContains(t, nn.LoadStateDict(dst, state), "missing parameters: l.bias")

	state["l.bias"] = tensor.Zeros(tensor.Shape{3})
	assert.ErrorContains(t, nn.LoadStateDict(dst, state), "shape")
}

func TestCrossEntropyLoss(t *testing.T) {
	logits := autodiff.NewNode(tensor.MustFromSlice([]float32{5, 0, 0, 5}, tensor.Shape{2, 2}))
	loss := nn.NewCrossEntropyLoss().Forward(autodiff.Traced, logits, []int{0, 1})
	assert.Less(t, loss.Item(), float32(0.01))

	assert.Panics(t, func() {
		nn.NewMSELoss().Forward(autodiff.Traced, logits, autodiff.NewNode(tensor.Zeros(tensor.Shape{2})))
	})
}
