package main

import (
	"github.com/fmac99/threat-intel-poc/internal/codec"
	"github.com/fmac99/threat-intel-poc/internal/query"
	"github.com/spf13/cobra"
)

func newFilterCmd() *cobra.Command {
	var (
		nodeExpr string
		edgeExpr string
		out      string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "filter <file>",
		Short: "按 CEL 表达式过滤节点与关系",
		Example: `  threatgraph filter threat_graph.json --edges 'attrs.name == "threatens" && attrs.risk_score >= 7.0'
  threatgraph filter threat_graph.json --nodes 'attrs.asset_type != "printer"' -f dot -o no_printers.dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var nodePred, edgePred *query.Predicate
			var err error
			if nodeExpr != "" {
				if nodePred, err = query.Compile(nodeExpr); err != nil {
					return err
				}
			}
			if edgeExpr != "" {
				if edgePred, err = query.Compile(edgeExpr); err != nil {
					return err
				}
			}

			g, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			sub, err := query.Subgraph(g, nodePred, edgePred)
			if err != nil {
				return err
			}

			log.Debugf("过滤结果: %d/%d 个节点, %d/%d 条边",
				sub.NodeCount(), g.NodeCount(), sub.EdgeCount(), g.EdgeCount())
			return writeGraph(out, format, sub)
		},
	}

	cmd.Flags().StringVar(&nodeExpr, "nodes", "", "节点过滤表达式 (变量: id, attrs)")
	cmd.Flags().StringVar(&edgeExpr, "edges", "", "关系过滤表达式 (变量: source, target, attrs)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "输出文件 (- 表示标准输出)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "输出格式: json|yaml|graphology|dot|csv")
	return cmd
}
