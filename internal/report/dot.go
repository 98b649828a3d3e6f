package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fmac99/threat-intel-poc/internal/graph"
)

type nodeStyle struct {
	color string
	shape string
}

var assetStyles = map[string]nodeStyle{
	"server":         {color: "#e1f5fe", shape: "box3d"},     // Light Blue
	"printer":        {color: "#e8f5e9", shape: "note"},      // Light Green
	"network_device": {color: "#fff3e0", shape: "component"}, // Light Orange
	"threat":         {color: "#ffebee", shape: "octagon"},   // Light Red
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

func attrString(attrs *graph.Attributes, name string) string {
	v, err := attrs.Get(name)
	if err != nil {
		return ""
	}
	return v.String()
}

// dotWriter keeps the first write error and skips every write after it.
type dotWriter struct {
	w   io.Writer
	err error
}

func (d *dotWriter) printf(format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, args...)
}

// ExportDOT writes the graph in Graphviz DOT format to the writer
func ExportDOT(w io.Writer, g *graph.Graph) error {
	props := g.Properties()
	kind, arrow := "graph", "--"
	if props.Directed {
		kind, arrow = "digraph", "->"
	}

	out := &dotWriter{w: w}
	out.printf("%s ThreatGraph {\n", kind)

	// Default styles
	out.printf("  rankdir=LR;\n")
	out.printf("  node [shape=box, style=filled, fontname=\"Arial\"];\n")
	out.printf("  edge [fontname=\"Arial\", fontsize=10];\n")

	for _, key := range g.Nodes() {
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return err
		}
		style, ok := assetStyles[attrString(attrs, "asset_type")]
		if !ok {
			style = nodeStyle{color: "white", shape: "box"}
		}

		label := ""
		if props.Labeled {
			label = key
		}
		out.printf("  \"%s\" [label=\"%s\", fillcolor=\"%s\", shape=\"%s\"];\n",
			escape(key), escape(label), style.color, style.shape)
	}

	for _, e := range g.Edges() {
		attrs, err := g.EdgeAttributes(e.Source, e.Target)
		if err != nil {
			return err
		}

		var parts []string
		if name := attrString(attrs, "name"); name != "" {
			parts = append(parts, name)
		}
		if risk := attrString(attrs, "risk_score"); risk != "" {
			parts = append(parts, "Risk: "+risk)
		}
		if props.Weighted {
			parts = append(parts, "w="+attrString(attrs, graph.WeightAttr))
		}
		out.printf("  \"%s\" %s \"%s\" [label=\"%s\"];\n",
			escape(e.Source), arrow, escape(e.Target), escape(strings.Join(parts, " | ")))
	}

	out.printf("}\n")
	return out.err
}
