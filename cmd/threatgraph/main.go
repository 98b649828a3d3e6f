package main

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	log *zap.SugaredLogger

	// Command line flags
	configPath string
	debugMode  bool
)

func init() {
	logger, _ := zap.NewProduction()
	log = logger.Sugar()
}

var rootCmd = &cobra.Command{
	Use:   "threatgraph",
	Short: "threatgraph - 资产与威胁关系图谱工具",
	Long: `threatgraph 将资产 (服务器、打印机、网络设备) 与威胁之间的关系建模为属性图，
支持生成随机场景、采集本机快照、查询过滤以及导出为 JSON / YAML / graphology / DOT / CSV。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "场景配置文件 (默认 config/scenario.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "输出调试日志")

	rootCmd.AddCommand(
		newScenarioCmd(),
		newSnapshotCmd(),
		newInspectCmd(),
		newFilterCmd(),
		newConvertCmd(),
	)
}

// setupLogger 根据 --debug 重新创建日志器，并为本次运行打上 run_id
func setupLogger() error {
	var (
		logger *zap.Logger
		err    error
	)
	if debugMode {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return err
	}
	log = logger.Sugar().With("run_id", uuid.NewString())
	return nil
}

func main() {
	// Ensure proper cleanup on exit
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("程序发生 panic: %v", r)
			os.Exit(1)
		}
		log.Sync()
	}()

	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		log.Sync()
		os.Exit(1)
	}
}
