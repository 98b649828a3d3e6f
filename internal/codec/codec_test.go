package codec

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *graph.Graph {
	g := graph.New(graph.Properties{Directed: true, Weighted: true, Labeled: true})
	g.AddNode("Server1", graph.String("asset_type", "server"), graph.Bool("internet_facing", true))
	g.AddNode("Switch1", graph.String("asset_type", "network_device"))
	g.AddNode("Threat1", graph.String("asset_type", "threat"), graph.String("note", "42"))
	_ = g.AddEdge("Switch1", "Server1", graph.String("name", "connects"))
	_ = g.AddEdge("Threat1", "Server1", graph.String("name", "threatens"), graph.Number("risk_score", 8.17))
	return g
}

func TestJSON_RoundTrip(t *testing.T) {
	g := sample()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatJSON, g))

	back, err := Decode(&buf, FormatJSON)
	require.NoError(t, err)
	assert.True(t, graph.Equal(g, back))
	assert.Equal(t, g.ToRecord(), back.ToRecord())
}

func TestJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSON(&buf, sample().ToRecord()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, map[string]any{"directed": true, "weighted": true, "labeled": true}, doc["properties"])

	edges := doc["edges"].([]any)
	require.Len(t, edges, 2)
	assert.Equal(t, map[string]any{
		"source": "Threat1",
		"target": "Server1",
		"attrs":  map[string]any{"name": "threatens", "risk_score": 8.17, "weight": 1.0},
	}, edges[1])
}

func TestYAML_RoundTrip(t *testing.T) {
	g := sample()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, g))
	assert.Contains(t, buf.String(), "directed: true")

	back, err := Decode(&buf, FormatYAML)
	require.NoError(t, err)
	assert.True(t, graph.Equal(g, back))
	assert.Equal(t, g.ToRecord(), back.ToRecord())
}

func TestDecodeJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "syntax", doc: `{"properties":`},
		{name: "missing properties", doc: `{"nodes":[],"edges":[]}`},
		{name: "missing edges", doc: `{"properties":{"directed":false,"weighted":false,"labeled":true},"nodes":[]}`},
		{name: "missing flag", doc: `{"properties":{"directed":false,"weighted":false},"nodes":[],"edges":[]}`},
		{name: "node without id", doc: `{"properties":{"directed":false,"weighted":false,"labeled":true},"nodes":[{"attrs":{}}],"edges":[]}`},
		{name: "edge without target", doc: `{"properties":{"directed":false,"weighted":false,"labeled":true},"nodes":[{"id":"a"}],"edges":[{"source":"a"}]}`},
		{name: "nested attr", doc: `{"properties":{"directed":false,"weighted":false,"labeled":true},"nodes":[{"id":"a","attrs":{"x":{"y":1}}}],"edges":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, graph.ErrMalformedRecord)
		})
	}
}

func TestRoundTrip_EmptyKey(t *testing.T) {
	g := graph.New(graph.Properties{Directed: true})
	g.AddNode("", graph.String("asset_type", "server"))
	g.AddNode("a")
	require.NoError(t, g.AddEdge("", "a", graph.String("name", "connects")))

	for _, format := range []Format{FormatJSON, FormatYAML} {
		var buf bytes.Buffer
		require.NoError(t, Encode(&buf, format, g), format)
		back, err := Decode(&buf, format)
		require.NoError(t, err, format)
		assert.True(t, graph.Equal(g, back), format)
	}
}

func TestEncode_NonFiniteNumber(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		g := graph.New(graph.DefaultProperties())
		g.AddNode("a", graph.Number("x", f))

		for _, format := range []Format{FormatJSON, FormatYAML, FormatGraphology} {
			var buf bytes.Buffer
			assert.Error(t, Encode(&buf, format, g), "%s %v", format, f)
		}
	}
}

func TestDecodeYAML_NonFiniteNumber(t *testing.T) {
	doc := "properties:\n  directed: false\n  weighted: false\n  labeled: true\nnodes:\n  - id: a\n    attrs:\n      x: .inf\nedges: []\n"
	_, err := Decode(strings.NewReader(doc), FormatYAML)
	assert.ErrorIs(t, err, graph.ErrMalformedRecord)
}

func TestDecode_UnknownEndpoint(t *testing.T) {
	doc := `{"properties":{"directed":true,"weighted":false,"labeled":true},
		"nodes":[{"id":"a","attrs":{}}],
		"edges":[{"source":"a","target":"ghost","attrs":{}}]}`

	_, err := Decode(strings.NewReader(doc), FormatJSON)
	assert.ErrorIs(t, err, graph.ErrMalformedRecord)
}

func TestDecodeYAML_Malformed(t *testing.T) {
	doc := "properties:\n  directed: true\n  weighted: false\n  labeled: true\nnodes:\n  - attrs: {}\nedges: []\n"

	_, err := DecodeYAML(strings.NewReader(doc))
	assert.ErrorIs(t, err, graph.ErrMalformedRecord)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	g := sample()

	for _, name := range []string{"graph.json", "graph.yaml", "graph.yml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, g))

		back, err := Load(path)
		require.NoError(t, err, name)
		assert.True(t, graph.Equal(g, back), name)
	}

	assert.Error(t, Save(filepath.Join(dir, "graph.txt"), g))
	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestEncodeGraphology(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatGraphology, sample()))

	var doc struct {
		Options struct {
			Type  string `json:"type"`
			Multi bool   `json:"multi"`
		} `json:"options"`
		Nodes []struct {
			Key        string         `json:"key"`
			Attributes map[string]any `json:"attributes"`
		} `json:"nodes"`
		Edges []struct {
			Key    string `json:"key"`
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "directed", doc.Options.Type)
	assert.False(t, doc.Options.Multi)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, "Server1", doc.Nodes[0].Attributes["label"])
	require.Len(t, doc.Edges, 2)
	assert.Equal(t, "1", doc.Edges[0].Key)
	assert.Equal(t, "Switch1", doc.Edges[0].Source)
}

func TestFormatForPath(t *testing.T) {
	f, err := FormatForPath("out/GRAPH.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatForPath("graph")
	assert.Error(t, err)
}
