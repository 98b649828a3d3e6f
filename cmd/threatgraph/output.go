package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmac99/threat-intel-poc/internal/codec"
	"github.com/fmac99/threat-intel-poc/internal/config"
	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/fmac99/threat-intel-poc/internal/report"
)

// encodeGraph 按格式写出图谱
func encodeGraph(w io.Writer, format string, g *graph.Graph) error {
	switch format {
	case config.FormatJSON:
		return codec.Encode(w, codec.FormatJSON, g)
	case config.FormatYAML:
		return codec.Encode(w, codec.FormatYAML, g)
	case config.FormatGraphology:
		return codec.Encode(w, codec.FormatGraphology, g)
	case config.FormatDOT:
		return report.ExportDOT(w, g)
	case config.FormatCSV:
		return report.WriteTables(w, g)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// formatFromPath guesses the output format from the file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.FormatYAML
	case ".dot", ".gv":
		return config.FormatDOT
	case ".csv":
		return config.FormatCSV
	default:
		return config.FormatJSON
	}
}

// writeGraph writes g to path, or stdout when path is "-".
func writeGraph(path, format string, g *graph.Graph) error {
	if format == "" {
		format = formatFromPath(path)
	}

	var buf bytes.Buffer
	if err := encodeGraph(&buf, format, g); err != nil {
		return fmt.Errorf("写出图谱失败: %w", err)
	}

	if path == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("无法创建输出文件: %w", err)
	}
	log.Infof("图谱已生成: %s (%s, %d 个节点, %d 条边)", path, format, g.NodeCount(), g.EdgeCount())
	if format == config.FormatDOT {
		log.Info("请使用 Graphviz 打开该文件，或访问 http://www.webgraphviz.com/ 进行查看。")
	}
	return nil
}
