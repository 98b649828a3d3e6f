package graph

import "fmt"

// Record is the portable snapshot of a graph. Codecs in internal/codec
// read and write it; the graph itself does no I/O.
type Record struct {
	Properties Properties   `json:"properties" yaml:"properties"`
	Nodes      []NodeRecord `json:"nodes" yaml:"nodes"`
	Edges      []EdgeRecord `json:"edges" yaml:"edges"`
}

type NodeRecord struct {
	ID    string   `json:"id" yaml:"id"`
	Attrs AttrList `json:"attrs" yaml:"attrs"`
}

type EdgeRecord struct {
	Source string   `json:"source" yaml:"source"`
	Target string   `json:"target" yaml:"target"`
	Attrs  AttrList `json:"attrs" yaml:"attrs"`
}

// ToRecord snapshots the graph. Nodes and edges keep insertion order.
func (g *Graph) ToRecord() *Record {
	rec := &Record{
		Properties: g.props,
		Nodes:      make([]NodeRecord, 0, len(g.nodeOrder)),
		Edges:      make([]EdgeRecord, 0, len(g.edgeOrder)),
	}
	for _, key := range g.nodeOrder {
		rec.Nodes = append(rec.Nodes, NodeRecord{ID: key, Attrs: g.nodes[key].attrs.All()})
	}
	for _, k := range g.edgeOrder {
		e := g.edges[k]
		rec.Edges = append(rec.Edges, EdgeRecord{
			Source: e.ref.Source,
			Target: e.ref.Target,
			Attrs:  e.attrs.All(),
		})
	}
	return rec
}

// FromRecord replaces the whole graph, properties included, with the
// contents of rec. The graph is left untouched if rec is malformed.
//
// Any string is a valid key, the empty string included, so a typed Record
// can only be malformed through edges to undefined ids. Missing fields in a
// serialized document are caught by the decoders in internal/codec.
func (g *Graph) FromRecord(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("%w: nil record", ErrMalformedRecord)
	}

	fresh := New(rec.Properties)
	for _, n := range rec.Nodes {
		fresh.AddNode(n.ID, n.Attrs...)
	}
	for i, e := range rec.Edges {
		for _, id := range []string{e.Source, e.Target} {
			if !fresh.HasNode(id) {
				return fmt.Errorf("%w: edge %d references unknown node %q", ErrMalformedRecord, i, id)
			}
		}
		if err := fresh.AddEdge(e.Source, e.Target, e.Attrs...); err != nil {
			return fmt.Errorf("%w: edge %d: %v", ErrMalformedRecord, i, err)
		}
	}

	*g = *fresh
	return nil
}

// NewFromRecord builds a graph from rec.
func NewFromRecord(rec *Record) (*Graph, error) {
	g := New(DefaultProperties())
	if err := g.FromRecord(rec); err != nil {
		return nil, err
	}
	return g, nil
}
