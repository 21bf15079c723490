package graphexport

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStruct encodes g as a protobuf Struct:
//
//	{"nodes": [{"id", "name", "shape", "leaf", "root"}...],
//	 "calls": [{"id", "name", "inputs", "outputs", "parameter"}...]}
func ToStruct(g *Graph) (*structpb.Struct, error) {
	nodes := make([]any, len(g.Nodes))
	for i, n := range g.Nodes {
		nodes[i] = map[string]any{
			"id":    n.ID,
			"name":  n.Name,
			"shape": ints(n.Shape),
			"leaf":  n.Leaf,
			"root":  n.Root,
		}
	}
	calls := make([]any, len(g.Calls))
	for i, c := range g.Calls {
		calls[i] = map[string]any{
			"id":        c.ID,
			"name":      c.Name,
			"inputs":    ints(c.Inputs),
			"outputs":   ints(c.Outputs),
			"parameter": c.Parameter,
		}
	}
	s, err := structpb.NewStruct(map[string]any{
		"nodes": nodes,
		"calls": calls,
	})
	if err != nil {
		return nil, fmt.Errorf("graphexport: encode struct: %w", err)
	}
	return s, nil
}

// FromStruct decodes a Struct produced by ToStruct.
func FromStruct(s *structpb.Struct) (*Graph, error) {
	m := s.AsMap()
	g := &Graph{}

	nodes, _ := m["nodes"].([]any)
	for _, raw := range nodes {
		f, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("graphexport: node entry is %T", raw)
		}
		g.Nodes = append(g.Nodes, Node{
			ID:    toInt(f["id"]),
			Name:  toString(f["name"]),
			Shape: toInts(f["shape"]),
			Leaf:  f["leaf"] == true,
			Root:  f["root"] == true,
		})
	}
	calls, _ := m["calls"].([]any)
	for _, raw := range calls {
		f, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("graphexport: call entry is %T", raw)
		}
		g.Calls = append(g.Calls, Call{
			ID:        toInt(f["id"]),
			Name:      toString(f["name"]),
			Inputs:    toInts(f["inputs"]),
			Outputs:   toInts(f["outputs"]),
			Parameter: f["parameter"] == true,
		})
	}
	return g, nil
}

// MarshalProto encodes g in protobuf wire format.
func MarshalProto(g *Graph) ([]byte, error) {
	s, err := ToStruct(g)
	if err != nil {
		return nil, err
	}
	data, err := proto.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("graphexport: marshal: %w", err)
	}
	return data, nil
}

// UnmarshalProto decodes bytes written by MarshalProto.
func UnmarshalProto(data []byte) (*Graph, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("graphexport: unmarshal: %w", err)
	}
	return FromStruct(&s)
}

// MarshalJSON encodes g as protobuf JSON.
func MarshalJSON(g *Graph) ([]byte, error) {
	s, err := ToStruct(g)
	if err != nil {
		return nil, err
	}
	data, err := protojson.MarshalOptions{Indent: "  "}.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("graphexport: marshal json: %w", err)
	}
	return data, nil
}

func ints(xs []int) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func toInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toInts(v any) []int {
	list, _ := v.([]any)
	if len(list) == 0 {
		return nil
	}
	out := make([]int, len(list))
	for i, x := range list {
		out[i] = toInt(x)
	}
	return out
}
