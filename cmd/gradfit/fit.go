package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/config"
	"github.com/born-ml/gradgraph/internal/graphexport"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// dataset is a synthetic regression problem y = X·w + b + noise.
type dataset struct {
	x     *tensor.Array // [samples, features]
	y     *tensor.Array // [samples, 1]
	trueW []float32
	trueB float32
}

func newDataset(rng *rand.Rand, samples, features int, noise float64) *dataset {
	d := &dataset{trueW: make([]float32, features), trueB: float32(rng.NormFloat64())}
	for i := range d.trueW {
		d.trueW[i] = float32(rng.NormFloat64() * 2)
	}
	x := nn.Randn(rng, tensor.Shape{samples, features})
	ys := make([]float32, samples)
	for i := range ys {
		v := d.trueB + float32(rng.NormFloat64()*noise)
		for j, w := range d.trueW {
			v += x.At(i, j) * w
		}
		ys[i] = v
	}
	d.x = x
	d.y = tensor.MustFromSlice(ys, tensor.Shape{samples, 1})
	return d
}

// result summarizes a training run.
type result struct {
	Steps     int
	FirstLoss float32
	FinalLoss float32
	Weights   []float32
	Bias      float32
	TrueW     []float32
	TrueB     float32
}

func (r *result) print(w io.Writer) {
	fmt.Fprintf(w, "steps:      %d\n", r.Steps)
	fmt.Fprintf(w, "loss:       %.6f -> %.6f\n", r.FirstLoss, r.FinalLoss)
	fmt.Fprintf(w, "weights:    %v\n", r.Weights)
	fmt.Fprintf(w, "true:       %v\n", r.TrueW)
	fmt.Fprintf(w, "bias:       %.4f (true %.4f)\n", r.Bias, r.TrueB)
}

// newModel builds the single linear layer trained by the configured rule.
func newModel(o config.Optimizer, lr float32, features int, rng *rand.Rand) (*nn.Linear, error) {
	switch o.Name {
	case "sgd":
		return nn.NewLinear("linear", features, 1, regularize(optim.NewSGD(optim.SGDConfig{LR: lr}), o), rng), nil
	case "momentum":
		rule := optim.NewMomentumSGD(optim.SGDConfig{LR: lr, Momentum: float32(o.Momentum)})
		return nn.NewLinear("linear", features, 1, regularize(rule, o), rng), nil
	case "adam", "adamw":
		ac := optim.AdamConfig{
			LR:          lr,
			Betas:       [2]float32{float32(o.Beta1), float32(o.Beta2)},
			Eps:         float32(o.Eps),
			WeightDecay: float32(o.WeightDecay),
		}
		rule := optim.NewAdam(ac)
		if o.Name == "adamw" {
			rule = optim.NewAdamW(ac)
		}
		return nn.NewLinear("linear", features, 1, regularize(rule, o), rng), nil
	case "fixed":
		return nn.NewLinear("linear", features, 1, optim.Rule[optim.NoState](optim.Fixed{}), rng), nil
	default:
		return nil, fmt.Errorf("unknown optimizer %q", o.Name)
	}
}

func regularize[S any](rule optim.Rule[S], o config.Optimizer) optim.Rule[S] {
	switch o.Regularization {
	case "l1":
		return optim.WithRegularization(rule, optim.L1, float32(o.RegularizationCoef))
	case "l2":
		return optim.WithRegularization(rule, optim.L2, float32(o.RegularizationCoef))
	default:
		return rule
	}
}

// fit trains a linear model on a synthetic dataset.
func fit(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*result, error) {
	//nolint:gosec // reproducible synthetic data, not security-critical
	rng := rand.New(rand.NewPCG(uint64(cfg.Training.Seed), uint64(cfg.Training.Seed)^0x9e3779b97f4a7c15))
	data := newDataset(rng, cfg.Samples, cfg.Features, cfg.Training.Noise)

	model, err := newModel(cfg.Optimizer, float32(cfg.Training.LearningRate), cfg.Features, rng)
	if err != nil {
		return nil, err
	}

	tracer := autodiff.NewTracer(autodiff.WithLogger(logger))
	mse := nn.NewMSELoss()
	x := autodiff.NewNode(data.x).Named("x")
	y := autodiff.NewNode(data.y).Named("y")

	logger.Info("training started",
		"samples", cfg.Samples,
		"features", cfg.Features,
		"optimizer", cfg.Optimizer.Name,
		"steps", cfg.Training.Steps,
		"learning_rate", cfg.Training.LearningRate,
	)

	res := &result{TrueW: data.trueW, TrueB: data.trueB}
	var loss *autodiff.Node
	for step := range cfg.Training.Steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("training interrupted at step %d: %w", step, err)
		}
		loss = mse.Forward(tracer, model.Forward(tracer, x), y).Named("loss")
		if step == 0 {
			res.FirstLoss = loss.Item()
		}
		res.FinalLoss = loss.Item()
		if cfg.Training.LogEvery > 0 && step%cfg.Training.LogEvery == 0 {
			logger.Info("step", "step", step, "loss", loss.Item())
		}
		tracer.Optimize(loss, 0)
		res.Steps = step + 1
	}

	res.Weights = model.Weight().Value().Data()
	res.Bias = model.Bias().Value().Item()
	logger.Info("training finished", "steps", res.Steps, "loss", res.FinalLoss)

	if err := export(cfg.Export, graphexport.Snapshot(loss), logger); err != nil {
		return nil, err
	}
	return res, nil
}

// export writes the configured graph dumps.
func export(e config.Export, g *graphexport.Graph, logger *slog.Logger) error {
	if e.DOT != "" {
		f, err := os.Create(e.DOT)
		if err != nil {
			return fmt.Errorf("create dot file: %w", err)
		}
		werr := graphexport.WriteDOT(f, g)
		if cerr := f.Close(); werr == nil {
			werr = cerr
		}
		if werr != nil {
			return werr
		}
		logger.Info("graph written", "format", "dot", "path", e.DOT)
	}
	if e.Proto != "" {
		if err := writeFile(e.Proto, g, graphexport.MarshalProto); err != nil {
			return err
		}
		logger.Info("graph written", "format", "proto", "path", e.Proto)
	}
	if e.JSON != "" {
		if err := writeFile(e.JSON, g, graphexport.MarshalJSON); err != nil {
			return err
		}
		logger.Info("graph written", "format", "json", "path", e.JSON)
	}
	return nil
}

func writeFile(path string, g *graphexport.Graph, encode func(*graphexport.Graph) ([]byte, error)) error {
	data, err := encode(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
