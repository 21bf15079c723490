// Package config loads training configuration from HCL files.
//
// A file sets the dataset size at the top level and groups everything else
// in blocks. Block attributes may refer to the dataset size through the
// variables samples and features:
//
//	samples  = 128
//	features = 3
//
//	training {
//	  steps         = 300
//	  learning_rate = 8 / samples
//	  seed          = 7
//	}
//
//	optimizer "adam" {
//	  beta1 = 0.9
//	}
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//
//	export {
//	  dot = "graph.dot"
//	}
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Optimizer names accepted in an optimizer block label.
var Optimizers = []string{"sgd", "momentum", "adam", "adamw", "fixed"}

// Config is a validated training configuration.
type Config struct {
	Samples   int
	Features  int
	Training  Training
	Optimizer Optimizer
	Log       Log
	Export    Export
}

// Training controls the fitting loop and the synthetic dataset.
type Training struct {
	Steps        int
	LearningRate float64
	Seed         int64
	Noise        float64
	LogEvery     int
}

// Optimizer selects and tunes the update rule.
type Optimizer struct {
	Name               string
	Momentum           float64
	Beta1              float64
	Beta2              float64
	Eps                float64
	WeightDecay        float64
	Regularization     string
	RegularizationCoef float64
}

// Log configures the process logger.
type Log struct {
	Level  string
	Format string
}

// Export names optional graph dump files. Empty paths are skipped.
type Export struct {
	DOT   string
	Proto string
	JSON  string
}

// hclHeader holds the top-level attributes, decoded before the blocks so
// that the blocks can refer to them.
type hclHeader struct {
	Samples  int      `hcl:"samples,optional"`
	Features int      `hcl:"features,optional"`
	Remain   hcl.Body `hcl:",remain"`
}

type hclBody struct {
	Training  *hclTraining  `hcl:"training,block"`
	Optimizer *hclOptimizer `hcl:"optimizer,block"`
	Log       *hclLog       `hcl:"log,block"`
	Export    *hclExport    `hcl:"export,block"`
}

type hclTraining struct {
	Steps        int     `hcl:"steps,optional"`
	LearningRate float64 `hcl:"learning_rate,optional"`
	Seed         int64   `hcl:"seed,optional"`
	Noise        float64 `hcl:"noise,optional"`
	LogEvery     int     `hcl:"log_every,optional"`
}

type hclOptimizer struct {
	Name               string  `hcl:"name,label"`
	Momentum           float64 `hcl:"momentum,optional"`
	Beta1              float64 `hcl:"beta1,optional"`
	Beta2              float64 `hcl:"beta2,optional"`
	Eps                float64 `hcl:"eps,optional"`
	WeightDecay        float64 `hcl:"weight_decay,optional"`
	Regularization     string  `hcl:"regularization,optional"`
	RegularizationCoef float64 `hcl:"regularization_coef,optional"`
}

type hclLog struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

type hclExport struct {
	DOT   string `hcl:"dot,optional"`
	Proto string `hcl:"proto,optional"`
	JSON  string `hcl:"json,optional"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Samples:  64,
		Features: 3,
		Training: Training{
			Steps:        200,
			LearningRate: 0.05,
			Seed:         1,
			Noise:        0.01,
			LogEvery:     20,
		},
		Optimizer: Optimizer{Name: "adam"},
		Log:       Log{Level: "info", Format: "text"},
	}
}

// Load reads and validates the HCL file at path. Unset values keep their
// defaults.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decode(file, path)
}

// Parse decodes and validates HCL source; filename is used in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Config, error) {
	cfg := Default()

	var header hclHeader
	if diags := gohcl.DecodeBody(file.Body, nil, &header); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if header.Samples != 0 {
		cfg.Samples = header.Samples
	}
	if header.Features != 0 {
		cfg.Features = header.Features
	}

	var body hclBody
	if diags := gohcl.DecodeBody(header.Remain, evalContext(cfg), &body); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	body.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// evalContext exposes the dataset size to block expressions.
func evalContext(cfg *Config) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"samples":  cty.NumberIntVal(int64(cfg.Samples)),
			"features": cty.NumberIntVal(int64(cfg.Features)),
		},
	}
}

func (b *hclBody) apply(cfg *Config) {
	if t := b.Training; t != nil {
		setIf(&cfg.Training.Steps, t.Steps)
		setIf(&cfg.Training.LearningRate, t.LearningRate)
		setIf(&cfg.Training.Seed, t.Seed)
		setIf(&cfg.Training.Noise, t.Noise)
		setIf(&cfg.Training.LogEvery, t.LogEvery)
	}
	if o := b.Optimizer; o != nil {
		cfg.Optimizer = Optimizer{
			Name:               o.Name,
			Momentum:           o.Momentum,
			Beta1:              o.Beta1,
			Beta2:              o.Beta2,
			Eps:                o.Eps,
			WeightDecay:        o.WeightDecay,
			Regularization:     o.Regularization,
			RegularizationCoef: o.RegularizationCoef,
		}
	}
	if l := b.Log; l != nil {
		setIf(&cfg.Log.Level, l.Level)
		setIf(&cfg.Log.Format, l.Format)
	}
	if e := b.Export; e != nil {
		cfg.Export = Export{DOT: e.DOT, Proto: e.Proto, JSON: e.JSON}
	}
}

func setIf[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Samples <= 0 {
		errs = append(errs, fmt.Errorf("samples must be positive, got %d", c.Samples))
	}
	if c.Features <= 0 {
		errs = append(errs, fmt.Errorf("features must be positive, got %d", c.Features))
	}
	if c.Training.Steps <= 0 {
		errs = append(errs, fmt.Errorf("training.steps must be positive, got %d", c.Training.Steps))
	}
	if c.Training.LearningRate <= 0 {
		errs = append(errs, fmt.Errorf("training.learning_rate must be positive, got %g", c.Training.LearningRate))
	}
	if c.Training.Noise < 0 {
		errs = append(errs, fmt.Errorf("training.noise must not be negative, got %g", c.Training.Noise))
	}
	if !slices.Contains(Optimizers, c.Optimizer.Name) {
		errs = append(errs, fmt.Errorf("unknown optimizer %q, want one of %v", c.Optimizer.Name, Optimizers))
	}
	if m := c.Optimizer.Momentum; m < 0 || m >= 1 {
		errs = append(errs, fmt.Errorf("optimizer.momentum must be in [0, 1), got %g", m))
	}
	switch c.Optimizer.Regularization {
	case "", "l1", "l2":
	default:
		errs = append(errs, fmt.Errorf("optimizer.regularization must be \"l1\" or \"l2\", got %q", c.Optimizer.Regularization))
	}
	if c.Optimizer.RegularizationCoef < 0 {
		errs = append(errs, errors.New("optimizer.regularization_coef must not be negative"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}
	return errors.Join(errs...)
}
