package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(props graph.Properties) *graph.Graph {
	g := graph.New(props)
	g.AddNode("Server1", graph.String("asset_type", "server"))
	g.AddNode("Switch1", graph.String("asset_type", "network_device"))
	g.AddNode("Threat1", graph.String("asset_type", "threat"))
	g.AddNode("Loose")
	_ = g.AddEdge("Switch1", "Server1", graph.String("name", "connects"))
	_ = g.AddEdge("Threat1", "Server1", graph.String("name", "threatens"), graph.Number("risk_score", 9.12))
	_ = g.AddEdge("Threat1", "Switch1", graph.String("name", "threatens"), graph.Number("risk_score", 4))
	return g
}

func TestExportDOT_Directed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportDOT(&buf, sample(graph.Properties{Directed: true, Labeled: true})))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph ThreatGraph {"))
	assert.Contains(t, out, `"Threat1" [label="Threat1", fillcolor="#ffebee", shape="octagon"];`)
	assert.Contains(t, out, `"Loose" [label="Loose", fillcolor="white", shape="box"];`)
	assert.Contains(t, out, `"Threat1" -> "Server1" [label="threatens | Risk: 9.12"];`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

// limitWriter fails once more than n bytes have been written.
type limitWriter struct {
	n   int
	buf bytes.Buffer
}

var errWriterFull = errors.New("writer full")

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.n {
		return 0, errWriterFull
	}
	return w.buf.Write(p)
}

func TestExportDOT_WriteError(t *testing.T) {
	g := sample(graph.Properties{Directed: true, Labeled: true})

	var full bytes.Buffer
	require.NoError(t, ExportDOT(&full, g))
	lines := strings.SplitAfter(full.String(), "\n")

	// fail inside the style, node and edge sections in turn
	for _, cut := range []int{2, 5, len(lines) - 3} {
		prefix := strings.Join(lines[:cut], "")
		w := &limitWriter{n: len(prefix)}
		err := ExportDOT(w, g)
		assert.ErrorIs(t, err, errWriterFull, "cut after %d lines", cut)
		assert.Equal(t, prefix, w.buf.String())
	}
}

func TestExportDOT_UndirectedUnlabeledWeighted(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportDOT(&buf, sample(graph.Properties{Weighted: true})))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "graph ThreatGraph {"))
	assert.Contains(t, out, `"Server1" [label="", fillcolor="#e1f5fe", shape="box3d"];`)
	assert.Contains(t, out, `"Switch1" -- "Server1" [label="connects | w=1"];`)
	assert.NotContains(t, out, "->")
}

func TestRows(t *testing.T) {
	g := sample(graph.Properties{Directed: true})
	g.AddNode("Server1", graph.Bool("patched", false))

	nodes, err := NodeRows(g)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Name: "Server1", Type: "server", Property: "asset_type", Value: "server"},
		{Name: "Server1", Type: "server", Property: "patched", Value: "false"},
		{Name: "Switch1", Type: "network_device", Property: "asset_type", Value: "network_device"},
		{Name: "Threat1", Type: "threat", Property: "asset_type", Value: "threat"},
	}, nodes)

	edges, err := EdgeRows(g)
	require.NoError(t, err)
	require.Len(t, edges, 5)
	assert.Equal(t, Row{Name: "Threat1 -> Server1", Type: "threatens", Property: "risk_score", Value: "9.12"}, edges[2])
}

func TestWriteTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, sample(graph.Properties{Directed: true})))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "Node Name,Node Type,Property_Name,Property_Value", lines[0])
	assert.Contains(t, lines, "Edge Name,Edge Type,Property_Name,Property_Value")
	assert.Contains(t, lines, "Switch1 -> Server1,connects,name,connects")
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(sample(graph.Properties{Directed: true}))
	require.NoError(t, err)

	assert.Equal(t, 4, s.Nodes)
	assert.Equal(t, 3, s.Edges)
	assert.Equal(t, []Count{{"network_device", 1}, {"server", 1}, {"threat", 1}, {"unknown", 1}}, s.NodeTypes)
	assert.Equal(t, []Count{{"threatens", 2}, {"connects", 1}}, s.Relations)
	require.NotNil(t, s.TopRisk)
	assert.Equal(t, graph.EdgeRef{Source: "Threat1", Target: "Server1"}, *s.TopRisk)
	assert.Equal(t, 9.12, s.TopRiskValue)

	var buf bytes.Buffer
	PrintSummary(&buf, s)
	assert.Contains(t, buf.String(), "Threat1 -> Server1")
}

func TestSummarize_NoRisk(t *testing.T) {
	s, err := Summarize(graph.New(graph.DefaultProperties()))
	require.NoError(t, err)
	assert.Nil(t, s.TopRisk)
	assert.Empty(t, s.NodeTypes)
}
