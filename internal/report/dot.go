package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/mabhi256/evinspect/internal/graph"
)

var dotShapes = map[graph.NodeKind]string{
	graph.NodeScene:     "doublecircle",
	graph.NodeComponent: "box",
	graph.NodeListener:  "ellipse",
}

// WriteDOT writes g as a Graphviz digraph. Event names become edge labels
// and tooltips carry the listener details.
func WriteDOT(w io.Writer, g *graph.Graph, title string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "digraph %s {\n", strconv.Quote(title))
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, `  node [fontname="Helvetica"];`)

	for _, n := range g.Nodes {
		fmt.Fprintf(bw, "  %s [label=%s, tooltip=%s, shape=%s];\n",
			strconv.Quote(n.ID),
			strconv.Quote(graph.Label(n)),
			strconv.Quote(graph.Tooltip(n)),
			dotShapes[n.Kind])
	}
	for _, e := range g.Edges {
		if e.Label == "" {
			fmt.Fprintf(bw, "  %s -> %s;\n", strconv.Quote(e.From), strconv.Quote(e.To))
			continue
		}
		fmt.Fprintf(bw, "  %s -> %s [label=%s];\n",
			strconv.Quote(e.From), strconv.Quote(e.To), strconv.Quote(e.Label))
	}
	fmt.Fprintln(bw, "}")

	return bw.Flush()
}
