package report

import (
	"encoding/csv"
	"io"

	"github.com/fmac99/threat-intel-poc/internal/graph"
)

const unknownType = "unknown"

// Row is one property of one node or edge, as shown in the property tables.
type Row struct {
	Name     string // node key, or "u -> v" for edges
	Type     string // asset_type for nodes, name for edges
	Property string
	Value    string
}

var (
	NodeHeader = []string{"Node Name", "Node Type", "Property_Name", "Property_Value"}
	EdgeHeader = []string{"Edge Name", "Edge Type", "Property_Name", "Property_Value"}
)

func rows(name string, attrs *graph.Attributes, typeAttr string) []Row {
	typ := attrString(attrs, typeAttr)
	if typ == "" {
		typ = unknownType
	}
	var out []Row
	for _, a := range attrs.All() {
		out = append(out, Row{Name: name, Type: typ, Property: a.Name, Value: a.Value.String()})
	}
	return out
}

// NodeRows lists every node attribute, nodes in graph order.
func NodeRows(g *graph.Graph) ([]Row, error) {
	var out []Row
	for _, key := range g.Nodes() {
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return nil, err
		}
		out = append(out, rows(key, attrs, "asset_type")...)
	}
	return out, nil
}

// EdgeRows lists every edge attribute, edges in graph order.
func EdgeRows(g *graph.Graph) ([]Row, error) {
	var out []Row
	for _, e := range g.Edges() {
		attrs, err := g.EdgeAttributes(e.Source, e.Target)
		if err != nil {
			return nil, err
		}
		out = append(out, rows(e.String(), attrs, "name")...)
	}
	return out, nil
}

// WriteCSV writes header and rows.
func WriteCSV(w io.Writer, header []string, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Name, r.Type, r.Property, r.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTables writes the node table, a blank line, then the edge table.
func WriteTables(w io.Writer, g *graph.Graph) error {
	nodes, err := NodeRows(g)
	if err != nil {
		return err
	}
	edges, err := EdgeRows(g)
	if err != nil {
		return err
	}
	if err := WriteCSV(w, NodeHeader, nodes); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	return WriteCSV(w, EdgeHeader, edges)
}
