package main

import (
	"context"

	"github.com/fmac99/threat-intel-poc/internal/config"
	"github.com/fmac99/threat-intel-poc/internal/report"
	"github.com/fmac99/threat-intel-poc/internal/scenario"
	"github.com/spf13/cobra"
)

type scenarioFlags struct {
	seed     uint64
	counts   scenario.Counts
	directed bool
	weighted bool
	labeled  bool
	out      string
	format   string
}

func newScenarioCmd() *cobra.Command {
	var f scenarioFlags

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "生成随机资产/威胁场景图谱",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, &f)
		},
	}

	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "随机种子 (相同种子生成相同图谱)")
	cmd.Flags().IntVar(&f.counts.Servers, "servers", 0, "服务器数量")
	cmd.Flags().IntVar(&f.counts.Printers, "printers", 0, "打印机数量")
	cmd.Flags().IntVar(&f.counts.Devices, "devices", 0, "网络设备数量")
	cmd.Flags().IntVar(&f.counts.Threats, "threats", 0, "威胁数量")
	cmd.Flags().BoolVar(&f.directed, "directed", true, "有向图")
	cmd.Flags().BoolVar(&f.weighted, "weighted", false, "带权图 (缺省权重 1.0)")
	cmd.Flags().BoolVar(&f.labeled, "labeled", true, "导出时显示节点标签")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "输出文件 (- 表示标准输出)")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "输出格式: json|yaml|graphology|dot|csv")
	return cmd
}

// applyScenarioFlags 命令行参数只在显式指定时覆盖配置文件
func applyScenarioFlags(cmd *cobra.Command, f *scenarioFlags, cfg *config.ScenarioConfig) {
	flags := cmd.Flags()
	sc := &cfg.Scenario

	if flags.Changed("seed") {
		sc.Seed = f.seed
	}

	countsChanged := false
	for _, c := range []struct {
		flag     string
		src, dst *int
	}{
		{"servers", &f.counts.Servers, &sc.Counts.Servers},
		{"printers", &f.counts.Printers, &sc.Counts.Printers},
		{"devices", &f.counts.Devices, &sc.Counts.Devices},
		{"threats", &f.counts.Threats, &sc.Counts.Threats},
	} {
		if flags.Changed(c.flag) {
			*c.dst = *c.src
			countsChanged = true
		}
	}
	if countsChanged {
		sc.Inventory = scenario.Inventory{}
	}

	if flags.Changed("directed") {
		sc.Properties.Directed = f.directed
	}
	if flags.Changed("weighted") {
		sc.Properties.Weighted = f.weighted
	}
	if flags.Changed("labeled") {
		sc.Properties.Labeled = f.labeled
	}
	if flags.Changed("out") {
		cfg.Output.Path = f.out
		if !flags.Changed("format") {
			cfg.Output.Format = formatFromPath(f.out)
		}
	}
	if flags.Changed("format") {
		cfg.Output.Format = f.format
	}
}

// loadScenarioConfig 加载场景配置；显式指定的配置文件不存在时给出警告
func loadScenarioConfig() (*config.ScenarioConfig, error) {
	cfg, err := config.LoadScenarioConfig(configPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" && cfg.Source != configPath {
		log.Warnf("配置文件 %s 不存在，使用内置默认配置", configPath)
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, f *scenarioFlags) error {
	cfg, err := loadScenarioConfig()
	if err != nil {
		return err
	}
	applyScenarioFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.Infof("正在生成资产/威胁场景图谱 (seed=%d)...", cfg.Scenario.Seed)

	builder := &scenario.AssetThreatBuilder{
		Properties: cfg.Scenario.Properties,
		Inventory:  cfg.Inventory(),
		Rand:       scenario.NewRand(cfg.Scenario.Seed),
	}
	g, err := scenario.SafeBuild(context.Background(), builder, log.Desugar())
	if err != nil {
		return err
	}

	if s, err := report.Summarize(g); err == nil {
		report.PrintSummary(cmd.ErrOrStderr(), s)
	}
	return writeGraph(cfg.Output.Path, cfg.Output.Format, g)
}
