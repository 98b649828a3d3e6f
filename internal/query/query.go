// Package query selects nodes and edges with CEL predicates over their
// attributes.
//
// A predicate sees four variables:
//
//	id      node key ("" for edges)
//	source  edge source ("" for nodes)
//	target  edge target ("" for nodes)
//	attrs   map of attribute name to value
//
// Example: `attrs.name == "threatens" && attrs.risk_score >= 7.5`.
package query

import (
	"errors"
	"fmt"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/google/cel-go/cel"
)

// ErrNotBoolean is returned by Compile for expressions that do not yield a
// bool.
var ErrNotBoolean = errors.New("predicate must evaluate to bool")

func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("id", cel.StringType),
		cel.Variable("source", cel.StringType),
		cel.Variable("target", cel.StringType),
		cel.Variable("attrs", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
}

// Predicate is a compiled CEL expression.
type Predicate struct {
	expr string
	prg  cel.Program
}

func Compile(expr string) (*Predicate, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, iss.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("%w: %q has type %s", ErrNotBoolean, expr, t)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

func (p *Predicate) String() string { return p.expr }

// match evaluates the predicate. Evaluation errors, such as a lookup of an
// attribute the entity does not have, count as no match.
func (p *Predicate) match(id, source, target string, attrs *graph.Attributes) bool {
	vars := map[string]any{
		"id":     id,
		"source": source,
		"target": target,
		"attrs":  toMap(attrs),
	}
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}

// MatchNode reports whether the node's attributes satisfy p.
func (p *Predicate) MatchNode(key string, attrs *graph.Attributes) bool {
	return p.match(key, "", "", attrs)
}

// MatchEdge reports whether the edge's attributes satisfy p.
func (p *Predicate) MatchEdge(ref graph.EdgeRef, attrs *graph.Attributes) bool {
	return p.match("", ref.Source, ref.Target, attrs)
}

func toMap(attrs *graph.Attributes) map[string]any {
	all := attrs.All()
	m := make(map[string]any, len(all))
	for _, a := range all {
		m[a.Name] = a.Value.Any()
	}
	return m
}

// SelectNodes returns the keys of matching nodes in graph order.
func SelectNodes(g *graph.Graph, p *Predicate) ([]string, error) {
	var out []string
	for _, key := range g.Nodes() {
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return nil, err
		}
		if p.MatchNode(key, attrs) {
			out = append(out, key)
		}
	}
	return out, nil
}

// SelectEdges returns the matching edges in graph order.
func SelectEdges(g *graph.Graph, p *Predicate) ([]graph.EdgeRef, error) {
	var out []graph.EdgeRef
	for _, ref := range g.Edges() {
		attrs, err := g.EdgeAttributes(ref.Source, ref.Target)
		if err != nil {
			return nil, err
		}
		if p.MatchEdge(ref, attrs) {
			out = append(out, ref)
		}
	}
	return out, nil
}

// Subgraph copies the nodes matching nodePred and the edges matching
// edgePred whose endpoints both survive. A nil predicate matches everything.
// When only edgePred is given, nodes are limited to the endpoints of the
// kept edges.
func Subgraph(g *graph.Graph, nodePred, edgePred *Predicate) (*graph.Graph, error) {
	out := graph.New(g.Properties())

	keep := make(map[string]bool)
	for _, key := range g.Nodes() {
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return nil, err
		}
		if nodePred == nil || nodePred.MatchNode(key, attrs) {
			keep[key] = true
		}
	}

	var edges []graph.EdgeRef
	for _, ref := range g.Edges() {
		if !keep[ref.Source] || !keep[ref.Target] {
			continue
		}
		attrs, err := g.EdgeAttributes(ref.Source, ref.Target)
		if err != nil {
			return nil, err
		}
		if edgePred == nil || edgePred.MatchEdge(ref, attrs) {
			edges = append(edges, ref)
		}
	}

	endpointsOnly := nodePred == nil && edgePred != nil
	used := make(map[string]bool)
	for _, ref := range edges {
		used[ref.Source] = true
		used[ref.Target] = true
	}

	for _, key := range g.Nodes() {
		if !keep[key] || (endpointsOnly && !used[key]) {
			continue
		}
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return nil, err
		}
		out.AddNode(key, attrs.All()...)
	}
	for _, ref := range edges {
		attrs, err := g.EdgeAttributes(ref.Source, ref.Target)
		if err != nil {
			return nil, err
		}
		if err := out.AddEdge(ref.Source, ref.Target, attrs.All()...); err != nil {
			return nil, err
		}
	}
	return out, nil
}
