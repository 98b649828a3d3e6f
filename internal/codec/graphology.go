package codec

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/fmac99/threat-intel-poc/internal/graph"
)

type graphologyOptions struct {
	Type           string `json:"type"`
	Multi          bool   `json:"multi"`
	AllowSelfLoops bool   `json:"allowSelfLoops"`
}

type graphologyNode struct {
	Key        string         `json:"key"`
	Attributes graph.AttrList `json:"attributes"`
}

type graphologyEdge struct {
	Key        string         `json:"key"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Attributes graph.AttrList `json:"attributes"`
}

type serializedGraph struct {
	Attributes graph.AttrList    `json:"attributes"`
	Options    graphologyOptions `json:"options"`
	Nodes      []graphologyNode  `json:"nodes"`
	Edges      []graphologyEdge  `json:"edges"`
}

// EncodeGraphology writes g as a graphology serialized graph. Labeled
// graphs get a "label" node attribute equal to the key unless one is set.
func EncodeGraphology(w io.Writer, g *graph.Graph) error {
	props := g.Properties()
	out := serializedGraph{
		Attributes: graph.AttrList{},
		Options:    graphologyOptions{Type: "undirected", AllowSelfLoops: true},
		Nodes:      make([]graphologyNode, 0, g.NodeCount()),
		Edges:      make([]graphologyEdge, 0, g.EdgeCount()),
	}
	if props.Directed {
		out.Options.Type = "directed"
	}

	for _, key := range g.Nodes() {
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return err
		}
		if props.Labeled && !attrs.Has("label") {
			attrs.Set("label", graph.StringValue(key))
		}
		out.Nodes = append(out.Nodes, graphologyNode{Key: key, Attributes: attrs.All()})
	}

	for i, e := range g.Edges() {
		attrs, err := g.EdgeAttributes(e.Source, e.Target)
		if err != nil {
			return err
		}
		out.Edges = append(out.Edges, graphologyEdge{
			Key:        strconv.Itoa(i + 1),
			Source:     e.Source,
			Target:     e.Target,
			Attributes: attrs.All(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
