package optim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

func arr(data ...float32) *tensor.Array {
	return tensor.MustFromSlice(data, tensor.Shape{len(data)})
}

func TestSGD_SimpleUpdate(t *testing.T) {
	s := optim.NewSGD(optim.SGDConfig{LR: 0.1})
	got := s.Update(arr(1, 2, 3), s.NewState(tensor.Shape{3}), arr(0.5, 1, -1), 0)
	assert.True(t, got.AllClose(arr(0.95, 1.9, 3.1), 1e-6))

	// A positive lr overrides the configured one.
	got = s.Update(arr(1), optim.NoState{}, arr(1), 0.5)
	assert.InDelta(t, 0.5, got.At(0), 1e-6)
}

func TestSGD_Defaults(t *testing.T) {
	assert.InDelta(t, 0.01, optim.NewSGD(optim.SGDConfig{}).LR(), 1e-9)
	assert.InDelta(t, 0.01, optim.NewMomentumSGD(optim.SGDConfig{}).LR(), 1e-9)
	assert.InDelta(t, 0.001, optim.NewAdam(optim.AdamConfig{}).LR(), 1e-9)
}

func TestMomentumSGD(t *testing.T) {
	s := optim.NewMomentumSGD(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	st := s.NewState(tensor.Shape{1})
	require.NotNil(t, st.V)

	// Step 1: v = 1, w = 1 - 0.1 = 0.9
	w := s.Update(arr(1), st, arr(1), 0)
	assert.InDelta(t, 0.9, w.At(0), 1e-6)
	assert.InDelta(t, 1.0, st.V.At(0), 1e-6)

	// Step 2: v = 0.9 + 1 = 1.9, w = 0.9 - 0.19 = 0.71
	w = s.Update(w, st, arr(1), 0)
	assert.InDelta(t, 0.71, w.At(0), 1e-6)
}

func TestAdam_FirstStepMagnitude(t *testing.T) {
	a := optim.NewAdam(optim.AdamConfig{LR: 0.1})
	st := a.NewState(tensor.Shape{2})

	// After bias correction the first step is lr * sign(grad).
	w := a.Update(arr(1, 1), st, arr(5, -0.01), 0)
	assert.InDelta(t, 0.9, w.At(0), 1e-4)
	assert.InDelta(t, 1.1, w.At(1), 1e-3)
	assert.Equal(t, 1, st.T)
}

func TestAdamW_DecaysWeights(t *testing.T) {
	a := optim.NewAdamW(optim.AdamConfig{LR: 0.1, WeightDecay: 0.5})
	st := a.NewState(tensor.Shape{1})

	// Zero gradient: only the decay moves the weight, by lr*wd = 5%.
	w := a.Update(arr(2), st, arr(0), 0)
	assert.InDelta(t, 1.9, w.At(0), 1e-5)
}

func TestFixed(t *testing.T) {
	v := arr(1, 2)
	assert.Same(t, v, optim.Fixed{}.Update(v, optim.NoState{}, arr(100, 100), 1))
}

func TestWithRegularization(t *testing.T) {
	base := optim.NewSGD(optim.SGDConfig{LR: 1})

	l2 := optim.WithRegularization(base, optim.L2, 0.1)
	w := l2.Update(arr(2, -4), l2.NewState(tensor.Shape{2}), arr(0, 0), 0)
	assert.True(t, w.AllClose(arr(1.8, -3.6), 1e-6))

	l1 := optim.WithRegularization(base, optim.L1, 0.1)
	w = l1.Update(arr(2, -4), l1.NewState(tensor.Shape{2}), arr(0, 0), 0)
	assert.True(t, w.AllClose(arr(1.9, -3.9), 1e-6))

	assert.Equal(t, "l1", optim.L1.String())
	assert.Equal(t, "l2", optim.L2.String())
}

// minimize runs Optimize on loss = sum((w - target)²) and returns the final
// loss and parameter.
func minimize[S any](t *testing.T, rule optim.Rule[S], steps int) (float32, *nn.Parameter[S]) {
	t.Helper()
	target := autodiff.NewNode(arr(3, -1, 0.5))
	p := nn.NewParameter("w", tensor.Zeros(tensor.Shape{3}), rule)

	var loss float32
	for range steps {
		d := autodiff.Apply(ops.Sub{}, p.Node(), target)
		l := autodiff.Apply(ops.Sum{}, autodiff.Apply(ops.Mul{}, d, d))
		loss = l.Item()
		autodiff.Optimize(l, 0)
	}
	return loss, p
}

func TestConvergence_SimpleQuadratic(t *testing.T) {
	const initial = 9 + 1 + 0.25

	t.Run("sgd", func(t *testing.T) {
		loss, p := minimize(t, optim.NewSGD(optim.SGDConfig{LR: 0.1}), 100)
		assert.Less(t, loss, float32(1e-4))
		assert.Equal(t, 100, p.Steps())
	})
	t.Run("momentum", func(t *testing.T) {
		loss, _ := minimize(t, optim.NewMomentumSGD(optim.SGDConfig{LR: 0.05, Momentum: 0.5}), 200)
		assert.Less(t, loss, float32(1e-4))
	})
	t.Run("adam", func(t *testing.T) {
		loss, _ := minimize(t, optim.NewAdam(optim.AdamConfig{LR: 0.1}), 300)
		assert.Less(t, loss, float32(initial/100))
	})
	t.Run("adamw", func(t *testing.T) {
		loss, _ := minimize(t, optim.NewAdamW(optim.AdamConfig{LR: 0.1, WeightDecay: 0.001}), 300)
		assert.Less(t, loss, float32(initial/100))
	})
	t.Run("fixed", func(t *testing.T) {
		loss, p := minimize(t, optim.Fixed{}, 5)
		assert.InDelta(t, initial, loss, 1e-6)
		assert.Equal(t, 5, p.Steps())
	})
}

func TestOptimize_LearningRateOverride(t *testing.T) {
	p := nn.NewParameter("w", arr(1), optim.NewSGD(optim.SGDConfig{LR: 100}))
	w := p.Node()
	autodiff.Optimize(autodiff.Apply(ops.Sum{}, w), 0.5)
	assert.InDelta(t, 0.5, p.Value().At(0), 1e-6)
}
