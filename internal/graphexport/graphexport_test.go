package graphexport_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/autodiff/ops"
	"github.com/born-ml/gradgraph/internal/graphexport"
	"github.com/born-ml/gradgraph/internal/nn"
	"github.com/born-ml/gradgraph/internal/optim"
	"github.com/born-ml/gradgraph/internal/tensor"
)

// buildGraph returns y = w*x + c with w a parameter.
func buildGraph() *autodiff.Node {
	w := nn.NewParameter("w", tensor.Scalar(2), optim.Fixed{})
	x := autodiff.Scalar(3).Named("x")
	c := autodiff.Scalar(1).Named("c")
	return autodiff.Apply(ops.Add{}, autodiff.Apply(ops.Mul{}, w.Node(), x), c).Named("y")
}

func TestSnapshot(t *testing.T) {
	y := buildGraph()
	g := graphexport.Snapshot(y)

	require.Len(t, g.Calls, 3)
	require.Len(t, g.Nodes, 5)
	assert.Equal(t, 1, g.Parameters())

	assert.Equal(t, "y", g.Nodes[0].Name)
	assert.True(t, g.Nodes[0].Root)
	assert.False(t, g.Nodes[0].Leaf)

	names := make(map[string]graphexport.Node)
	for _, n := range g.Nodes {
		names[n.Name] = n
	}
	assert.True(t, names["x"].Leaf)
	assert.True(t, names["c"].Leaf)
	assert.False(t, names["w"].Leaf)

	add := g.Calls[0]
	assert.Equal(t, "add", add.Name)
	assert.Equal(t, []int{0}, add.Outputs)
	assert.Len(t, add.Inputs, 2)

	var calls []string
	for _, c := range g.Calls {
		calls = append(calls, c.Name)
	}
	assert.ElementsMatch(t, []string{"add", "mul", "optimizee"}, calls)
}

func TestWriteDOT(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, graphexport.WriteDOT(&buf, graphexport.Snapshot(buildGraph())))

	out := buf.String()
	assert.Contains(t, out, "digraph gradgraph {")
	assert.Contains(t, out, `label="y\n[]", peripheries=2`)
	assert.NotContains(t, out, `\\n`)
	assert.Contains(t, out, `label="optimizee", style=filled`)
	assert.Contains(t, out, "v0")
	assert.Contains(t, out, "-> v0;")
}

func TestWriteDOT_EscapesLabels(t *testing.T) {
	x := autodiff.NewNode(tensor.Zeros(tensor.Shape{2})).Named(`a"b\c`)
	y := autodiff.Apply(ops.Neg{}, x).Named("y")

	var buf bytes.Buffer
	require.NoError(t, graphexport.WriteDOT(&buf, graphexport.Snapshot(y)))
	assert.Contains(t, buf.String(), `label="a\"b\\c\n[2]"`)
}

func TestProtoRoundTrip(t *testing.T) {
	x := autodiff.NewNode(tensor.Zeros(tensor.Shape{2, 3})).Named("x")
	parts := autodiff.Call(ops.Split{Sizes: []int{1, 1}}, x)
	y := autodiff.Apply(ops.Add{}, parts[0], parts[1])

	g := graphexport.Snapshot(y)
	data, err := graphexport.MarshalProto(g)
	require.NoError(t, err)

	back, err := graphexport.UnmarshalProto(data)
	require.NoError(t, err)
	if diff := cmp.Diff(g, back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = graphexport.UnmarshalProto([]byte{0xff, 0xff})
	assert.Error(t, err)
}

func TestMarshalJSON(t *testing.T) {
	data, err := graphexport.MarshalJSON(graphexport.Snapshot(buildGraph()))
	require.NoError(t, err)

	var decoded struct {
		Nodes []map[string]any `json:"nodes"`
		Calls []map[string]any `json:"calls"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded.Nodes, 5)
	assert.Len(t, decoded.Calls, 3)
}
