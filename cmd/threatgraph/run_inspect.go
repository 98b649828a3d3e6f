package main

import (
	"fmt"

	"github.com/fmac99/threat-intel-poc/internal/codec"
	"github.com/fmac99/threat-intel-poc/internal/report"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var nodeKey string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "查看已保存图谱的统计信息或指定节点",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := codec.Load(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if nodeKey == "" {
				s, err := report.Summarize(g)
				if err != nil {
					return err
				}
				report.PrintSummary(w, s)
				return nil
			}

			attrs, err := g.NodeAttributes(nodeKey)
			if err != nil {
				return err
			}
			neighbors, err := g.Neighbors(nodeKey)
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s节点 %s%s\n", report.ColorBold, nodeKey, report.ColorReset)
			for _, a := range attrs.All() {
				fmt.Fprintf(w, "  %s = %s\n", a.Name, a.Value)
			}
			fmt.Fprintf(w, "%s相邻节点 (%d)%s\n", report.ColorBold, len(neighbors), report.ColorReset)
			for _, n := range neighbors {
				edgeAttrs, err := g.EdgeAttributes(nodeKey, n)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  -> %s", n)
				for _, a := range edgeAttrs.All() {
					fmt.Fprintf(w, " %s=%s", a.Name, a.Value)
				}
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&nodeKey, "node", "n", "", "只显示该节点的属性与相邻节点")
	return cmd
}
