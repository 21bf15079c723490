package optim

import (
	"math"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) rule.
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	lr          float32
	beta1       float32
	beta2       float32
	eps         float32
	weightDecay float32
}

// AdamConfig holds configuration for Adam and AdamW.
type AdamConfig struct {
	LR          float32    // Learning rate (default: 0.001)
	Betas       [2]float32 // Coefficients for computing running averages (default: [0.9, 0.999])
	Eps         float32    // Term for numerical stability (default: 1e-8)
	WeightDecay float32    // Decoupled weight decay, AdamW only (default: 0.01)
}

// Moments is the Adam state of one parameter.
type Moments struct {
	M *tensor.Array // First moment estimate
	V *tensor.Array // Second moment estimate
	T int           // Timestep for bias correction
}

func (c AdamConfig) withDefaults() AdamConfig {
	if c.LR == 0 {
		c.LR = 0.001
	}
	if c.Betas[0] == 0 {
		c.Betas[0] = 0.9
	}
	if c.Betas[1] == 0 {
		c.Betas[1] = 0.999
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	return c
}

// NewAdam creates an Adam rule.
//
// Default hyperparameters:
//   - LR: 0.001
//   - Beta1: 0.9
//   - Beta2: 0.999
//   - Eps: 1e-8
func NewAdam(config AdamConfig) *Adam {
	config = config.withDefaults()
	return &Adam{
		lr:    config.LR,
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		eps:   config.Eps,
	}
}

// NewAdamW creates Adam with decoupled weight decay (Loshchilov & Hutter,
// 2019): before the Adam step the parameter shrinks by lr * weight_decay.
func NewAdamW(config AdamConfig) *Adam {
	if config.WeightDecay == 0 {
		config.WeightDecay = 0.01
	}
	a := NewAdam(config)
	a.weightDecay = config.WeightDecay
	return a
}

// LR returns the configured learning rate.
func (a *Adam) LR() float32 {
	return a.lr
}

// NewState implements Rule.
func (a *Adam) NewState(shape tensor.Shape) *Moments {
	return &Moments{M: tensor.Zeros(shape), V: tensor.Zeros(shape)}
}

// Update implements Rule.
func (a *Adam) Update(value *tensor.Array, state *Moments, grad *tensor.Array, lr float32) *tensor.Array {
	lr = rate(lr, a.lr)
	state.T++

	state.M = tensor.Add(tensor.Scale(state.M, a.beta1), tensor.Scale(grad, 1-a.beta1))
	state.V = tensor.Add(tensor.Scale(state.V, a.beta2), tensor.Scale(tensor.Mul(grad, grad), 1-a.beta2))

	c1 := 1 - float32(math.Pow(float64(a.beta1), float64(state.T)))
	c2 := 1 - float32(math.Pow(float64(a.beta2), float64(state.T)))
	mHat := tensor.Scale(state.M, 1/c1)
	vHat := tensor.Scale(state.V, 1/c2)
	step := tensor.Div(mHat, tensor.AddScalar(tensor.Sqrt(vHat), a.eps))

	if a.weightDecay != 0 {
		value = tensor.Scale(value, 1-lr*a.weightDecay)
	}
	return tensor.Sub(value, tensor.Scale(step, lr))
}
