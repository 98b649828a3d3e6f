package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fmac99/threat-intel-poc/internal/graph"
)

// ANSI 颜色代码
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

type Count struct {
	Name  string
	Count int
}

// Summary aggregates a graph by asset type and relation.
type Summary struct {
	Properties   graph.Properties
	Nodes        int
	Edges        int
	NodeTypes    []Count
	Relations    []Count
	TopRisk      *graph.EdgeRef // edge with the highest risk_score, nil if none
	TopRiskValue float64
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Name: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func Summarize(g *graph.Graph) (*Summary, error) {
	s := &Summary{Properties: g.Properties(), Nodes: g.NodeCount(), Edges: g.EdgeCount()}

	types := make(map[string]int)
	for _, key := range g.Nodes() {
		attrs, err := g.NodeAttributes(key)
		if err != nil {
			return nil, err
		}
		t := attrString(attrs, "asset_type")
		if t == "" {
			t = unknownType
		}
		types[t]++
	}

	rels := make(map[string]int)
	for _, e := range g.Edges() {
		attrs, err := g.EdgeAttributes(e.Source, e.Target)
		if err != nil {
			return nil, err
		}
		name := attrString(attrs, "name")
		if name == "" {
			name = unknownType
		}
		rels[name]++

		if v, err := attrs.Get("risk_score"); err == nil && v.Kind() == graph.KindNumber {
			if s.TopRisk == nil || v.AsNumber() > s.TopRiskValue {
				ref := e
				s.TopRisk = &ref
				s.TopRiskValue = v.AsNumber()
			}
		}
	}

	s.NodeTypes = sortedCounts(types)
	s.Relations = sortedCounts(rels)
	return s, nil
}

// PrintSummary 美化输出图谱统计
func PrintSummary(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "%s图谱统计%s\n", ColorBold, ColorReset)
	fmt.Fprintf(w, "  %s属性:%s directed=%t weighted=%t labeled=%t\n",
		ColorDim, ColorReset, s.Properties.Directed, s.Properties.Weighted, s.Properties.Labeled)
	fmt.Fprintf(w, "  %s节点:%s %s%d%s\n", ColorDim, ColorReset, ColorCyan, s.Nodes, ColorReset)
	for _, c := range s.NodeTypes {
		fmt.Fprintf(w, "    - %-16s %d\n", c.Name, c.Count)
	}
	fmt.Fprintf(w, "  %s关系:%s %s%d%s\n", ColorDim, ColorReset, ColorCyan, s.Edges, ColorReset)
	for _, c := range s.Relations {
		fmt.Fprintf(w, "    - %-16s %d\n", c.Name, c.Count)
	}
	if s.TopRisk != nil {
		color := ColorYellow
		if s.TopRiskValue >= 7 {
			color = ColorRed
		}
		fmt.Fprintf(w, "  %s最高风险:%s %s %s(%.2f)%s\n",
			ColorDim, ColorReset, s.TopRisk.String(), color, s.TopRiskValue, ColorReset)
	}
}
