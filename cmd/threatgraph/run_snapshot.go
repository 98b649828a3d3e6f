package main

import (
	"context"
	"time"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/fmac99/threat-intel-poc/internal/scenario"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var (
		out     string
		format  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "采集本机及其网络连接，生成资产图谱快照",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			log.Info("正在生成系统资产图谱快照...")

			builder := &scenario.HostSnapshotBuilder{
				Properties: graph.Properties{Directed: true, Labeled: true},
				Logger:     log.Desugar(),
			}
			g, err := scenario.SafeBuild(ctx, builder, log.Desugar())
			if err != nil {
				return err
			}
			return writeGraph(out, format, g)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "host_snapshot.json", "输出文件 (- 表示标准输出)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "输出格式: json|yaml|graphology|dot|csv")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "采集超时时间")
	return cmd
}
