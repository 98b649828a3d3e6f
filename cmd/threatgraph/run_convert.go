package main

import (
	"github.com/fmac99/threat-intel-poc/internal/codec"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "将已保存的图谱转换为其他格式",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := codec.Load(args[0])
			if err != nil {
				return err
			}
			return writeGraph(out, format, g)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "输出文件 (- 表示标准输出)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "输出格式: json|yaml|graphology|dot|csv")
	return cmd
}
