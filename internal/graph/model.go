package graph

import (
	"fmt"
	"slices"
)

// Properties is the configuration a graph is created with. It never changes
// for the lifetime of the graph.
type Properties struct {
	Directed bool `json:"directed" yaml:"directed"`
	Weighted bool `json:"weighted" yaml:"weighted"`
	Labeled  bool `json:"labeled" yaml:"labeled"`
}

// DefaultProperties is an undirected, unweighted, labeled graph.
func DefaultProperties() Properties {
	return Properties{Labeled: true}
}

// WeightAttr is injected with DefaultWeight on weighted graphs.
const (
	WeightAttr    = "weight"
	DefaultWeight = 1.0
)

// EdgeRef names an edge by its endpoints as they were given to AddEdge.
type EdgeRef struct {
	Source string
	Target string
}

func (r EdgeRef) String() string {
	return fmt.Sprintf("%s -> %s", r.Source, r.Target)
}

type node struct {
	key   string
	attrs *Attributes
}

type edge struct {
	ref   EdgeRef
	attrs *Attributes
}

// edgeKey is (source, target) for directed graphs and the sorted pair for
// undirected ones.
type edgeKey struct {
	a, b string
}

// Graph is an attributed graph. Node keys are unique strings, the empty
// string included; at most one edge
// exists per endpoint pair. Graph does no locking: callers must not mutate
// it concurrently with any other call.
type Graph struct {
	props Properties

	nodes     map[string]*node
	nodeOrder []string

	edges     map[edgeKey]*edge
	edgeOrder []edgeKey

	// out holds successors for directed graphs and all neighbors otherwise.
	out map[string][]string
	// in is only maintained for directed graphs.
	in map[string][]string
}

func New(props Properties) *Graph {
	return &Graph{
		props: props,
		nodes: make(map[string]*node),
		edges: make(map[edgeKey]*edge),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
	}
}

func (g *Graph) Properties() Properties { return g.props }

func (g *Graph) key(source, target string) edgeKey {
	if g.props.Directed || source <= target {
		return edgeKey{source, target}
	}
	return edgeKey{target, source}
}

// AddNode creates the node or merges attrs into an existing one. Existing
// attributes not named in attrs are kept.
func (g *Graph) AddNode(key string, attrs ...Attr) {
	if n, ok := g.nodes[key]; ok {
		n.attrs.Merge(attrs)
		return
	}
	g.nodes[key] = &node{key: key, attrs: NewAttributes(attrs...)}
	g.nodeOrder = append(g.nodeOrder, key)
}

// AddEdge connects two existing nodes. Both endpoints must already exist.
// Adding an edge that is already present merges attrs into it. On weighted
// graphs a missing weight attribute becomes DefaultWeight.
func (g *Graph) AddEdge(source, target string, attrs ...Attr) error {
	for _, k := range []string{source, target} {
		if _, ok := g.nodes[k]; !ok {
			return fmt.Errorf("add edge %s -> %s: %w: %q", source, target, ErrUnknownNode, k)
		}
	}

	if g.props.Weighted && !slices.ContainsFunc(attrs, func(a Attr) bool { return a.Name == WeightAttr }) {
		attrs = append(attrs[:len(attrs):len(attrs)], Number(WeightAttr, DefaultWeight))
	}

	k := g.key(source, target)
	if e, ok := g.edges[k]; ok {
		e.attrs.Merge(attrs)
		return nil
	}

	g.edges[k] = &edge{ref: EdgeRef{Source: source, Target: target}, attrs: NewAttributes(attrs...)}
	g.edgeOrder = append(g.edgeOrder, k)

	g.out[source] = append(g.out[source], target)
	if g.props.Directed {
		g.in[target] = append(g.in[target], source)
	} else if source != target {
		g.out[target] = append(g.out[target], source)
	}
	return nil
}

// RemoveNode deletes the node and every edge incident to it.
func (g *Graph) RemoveNode(key string) error {
	if _, ok := g.nodes[key]; !ok {
		return fmt.Errorf("remove node: %w: %q", ErrUnknownNode, key)
	}

	var incident []edgeKey
	for _, k := range g.edgeOrder {
		if k.a == key || k.b == key {
			incident = append(incident, k)
		}
	}
	for _, k := range incident {
		g.unlink(k)
	}

	delete(g.nodes, key)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(k string) bool { return k == key })
	delete(g.out, key)
	delete(g.in, key)
	return nil
}

func (g *Graph) RemoveEdge(source, target string) error {
	k := g.key(source, target)
	if _, ok := g.edges[k]; !ok {
		return fmt.Errorf("remove edge: %w: %s -> %s", ErrUnknownEdge, source, target)
	}
	g.unlink(k)
	return nil
}

func (g *Graph) unlink(k edgeKey) {
	e := g.edges[k]
	delete(g.edges, k)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(o edgeKey) bool { return o == k })

	src, dst := e.ref.Source, e.ref.Target
	g.out[src] = without(g.out[src], dst)
	if g.props.Directed {
		g.in[dst] = without(g.in[dst], src)
	} else if src != dst {
		g.out[dst] = without(g.out[dst], src)
	}
}

func without(keys []string, drop string) []string {
	if i := slices.Index(keys, drop); i >= 0 {
		return slices.Delete(keys, i, i+1)
	}
	return keys
}

// Neighbors returns the adjacent node keys in the order the edges were
// added. For directed graphs only successors are returned.
func (g *Graph) Neighbors(key string) ([]string, error) {
	if _, ok := g.nodes[key]; !ok {
		return nil, fmt.Errorf("neighbors: %w: %q", ErrUnknownNode, key)
	}
	return slices.Clone(g.out[key]), nil
}

// Predecessors returns the nodes with an edge into key. On undirected graphs
// it is the same as Neighbors.
func (g *Graph) Predecessors(key string) ([]string, error) {
	if _, ok := g.nodes[key]; !ok {
		return nil, fmt.Errorf("predecessors: %w: %q", ErrUnknownNode, key)
	}
	if !g.props.Directed {
		return slices.Clone(g.out[key]), nil
	}
	return slices.Clone(g.in[key]), nil
}

// NodeAttributes returns a copy of the node's attributes.
func (g *Graph) NodeAttributes(key string) (*Attributes, error) {
	n, ok := g.nodes[key]
	if !ok {
		return nil, fmt.Errorf("node attributes: %w: %q", ErrUnknownNode, key)
	}
	return n.attrs.Clone(), nil
}

// EdgeAttributes returns a copy of the edge's attributes.
func (g *Graph) EdgeAttributes(source, target string) (*Attributes, error) {
	e, ok := g.edges[g.key(source, target)]
	if !ok {
		return nil, fmt.Errorf("edge attributes: %w: %s -> %s", ErrUnknownEdge, source, target)
	}
	return e.attrs.Clone(), nil
}

func (g *Graph) HasNode(key string) bool {
	_, ok := g.nodes[key]
	return ok
}

func (g *Graph) HasEdge(source, target string) bool {
	_, ok := g.edges[g.key(source, target)]
	return ok
}

func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

func (g *Graph) EdgeCount() int { return len(g.edgeOrder) }

// Nodes returns the node keys in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodeOrder)
}

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []EdgeRef {
	out := make([]EdgeRef, 0, len(g.edgeOrder))
	for _, k := range g.edgeOrder {
		out = append(out, g.edges[k].ref)
	}
	return out
}

// Equal reports whether a and b have the same properties, nodes, edges and
// attributes. Insertion order is ignored.
func Equal(a, b *Graph) bool {
	if a.props != b.props || len(a.nodes) != len(b.nodes) || len(a.edges) != len(b.edges) {
		return false
	}
	for k, n := range a.nodes {
		o, ok := b.nodes[k]
		if !ok || !n.attrs.Equal(o.attrs) {
			return false
		}
	}
	for k, e := range a.edges {
		o, ok := b.edges[k]
		if !ok || !e.attrs.Equal(o.attrs) {
			return false
		}
	}
	return true
}
