package autodiff

import (
	"fmt"
	"log/slog"

	"github.com/born-ml/gradgraph/internal/tensor"
)

// Tracer decides whether function calls are recorded into the graph.
//
// It is an explicit mode value passed to every graph-building call in place
// of a process-wide switch. A Tracer is immutable after construction and safe
// for concurrent use.
//
// Example:
//
//	t := autodiff.NewTracer()
//	y := t.Apply(ops.Mul{}, a, b)    // recorded
//	z := t.NoGrad().Apply(ops.Exp{}, y) // z is a leaf
type Tracer struct {
	recording bool
	logger    *slog.Logger
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithRecording sets whether calls are recorded. Default true.
func WithRecording(on bool) Option {
	return func(t *Tracer) {
		t.recording = on
	}
}

// WithLogger sets the logger used by backward passes and Optimize.
// Default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTracer creates a Tracer. Without options it records and does not log.
func NewTracer(opts ...Option) *Tracer {
	t := &Tracer{
		recording: true,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Traced and Untraced are ready-made tracers without logging.
var (
	Traced   = NewTracer()
	Untraced = NewTracer(WithRecording(false))
)

// IsRecording reports whether calls made through t are recorded.
func (t *Tracer) IsRecording() bool {
	return t.recording
}

// Logger returns the tracer's logger.
func (t *Tracer) Logger() *slog.Logger {
	return t.logger
}

// NoGrad returns a non-recording tracer sharing t's logger.
func (t *Tracer) NoGrad() *Tracer {
	return t.withRecording(false)
}

func (t *Tracer) withRecording(on bool) *Tracer {
	if t.recording == on {
		return t
	}
	return &Tracer{recording: on, logger: t.logger}
}

// Call runs fn forward on xs and returns its outputs as new nodes. If t is
// recording, or fn implements ForceTracer, the call is recorded as the
// creator of every output.
func (t *Tracer) Call(fn Function, xs ...*Node) []*Node {
	values := fn.Forward(xs)
	ys := make([]*Node, len(values))
	for i, v := range values {
		ys[i] = NewNode(v)
	}
	t.Chain(xs, ys, functionName(fn), isForceTrace(fn), fn)
	return ys
}

// Apply is Call for functions with exactly one output.
func (t *Tracer) Apply(fn Function, xs ...*Node) *Node {
	ys := t.Call(fn, xs...)
	if len(ys) != 1 {
		panic(fmt.Sprintf("autodiff: Apply: %s returned %d outputs, want 1", functionName(fn), len(ys)))
	}
	return ys[0]
}

// Chain records a call with inputs xs, outputs ys and backward rule bw, and
// makes it the creator of every output. It does nothing when t is not
// recording unless force is set.
//
// Outputs are locked one at a time for the assignment only.
func (t *Tracer) Chain(xs, ys []*Node, name string, force bool, bw Backward) {
	if !t.recording && !force {
		return
	}
	fc := newFunctionCall(name, bw, xs, ys)
	for _, y := range ys {
		y.setCreator(fc)
	}
}

// Backprop wraps value as a node marked with an input-less call. The node
// takes part in graph walks like any traced node while contributing nothing
// to gradient computation.
func (t *Tracer) Backprop(value *tensor.Array) *Node {
	y := NewNode(value)
	t.Chain(nil, []*Node{y}, "backprop", true, BackwardFunc(noGradients))
	return y
}

func noGradients(_ *Tracer, _, _, _ []*Node) []*Node {
	return nil
}

// Call runs fn through Traced.
func Call(fn Function, xs ...*Node) []*Node {
	return Traced.Call(fn, xs...)
}

// Apply runs a single-output fn through Traced.
func Apply(fn Function, xs ...*Node) *Node {
	return Traced.Apply(fn, xs...)
}

// Backprop lifts value into a traceable root node.
func Backprop(value *tensor.Array) *Node {
	return Traced.Backprop(value)
}
