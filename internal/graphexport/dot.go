package graphexport

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escape makes s safe inside a double-quoted DOT string. Only quotes and
// backslashes are escaped; DOT gives other escapes their own meaning.
func escape(s string) string {
	return labelEscaper.Replace(s)
}

func quote(s string) string {
	return `"` + escape(s) + `"`
}

// WriteDOT writes g in Graphviz DOT format. Values are drawn as boxes and
// calls as ellipses; parameters are shaded.
func WriteDOT(w io.Writer, g *Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph gradgraph {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	for _, n := range g.Nodes {
		name := n.Name
		if name == "" {
			name = fmt.Sprintf("n%d", n.ID)
		}
		style := ""
		if n.Root {
			style = ", peripheries=2"
		}
		fmt.Fprintf(bw, "  v%d [shape=box, label=\"%s\\n%v\"%s];\n", n.ID, escape(name), n.Shape, style)
	}
	for _, c := range g.Calls {
		style := ""
		if c.Parameter {
			style = ", style=filled, fillcolor=lightgrey"
		}
		fmt.Fprintf(bw, "  f%d [shape=ellipse, label=%s%s];\n", c.ID, quote(c.Name), style)
		for _, in := range c.Inputs {
			fmt.Fprintf(bw, "  v%d -> f%d;\n", in, c.ID)
		}
		for _, out := range c.Outputs {
			fmt.Fprintf(bw, "  f%d -> v%d;\n", c.ID, out)
		}
	}
	fmt.Fprintln(bw, "}")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("graphexport: write dot: %w", err)
	}
	return nil
}
