package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fmac99/threat-intel-poc/internal/embedded"
	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/fmac99/threat-intel-poc/internal/scenario"
	"gopkg.in/yaml.v3"
)

const defaultScenarioFile = "scenario.yaml"

// Output formats accepted by the CLI.
const (
	FormatJSON       = "json"
	FormatYAML       = "yaml"
	FormatGraphology = "graphology"
	FormatDOT        = "dot"
	FormatCSV        = "csv"
)

var formats = map[string]bool{
	FormatJSON: true, FormatYAML: true, FormatGraphology: true, FormatDOT: true, FormatCSV: true,
}

// ========== Scenario Config ==========

type ScenarioConfig struct {
	Scenario struct {
		Seed       uint64             `yaml:"seed"`
		Properties graph.Properties   `yaml:"properties"`
		Counts     scenario.Counts    `yaml:"counts"`
		Inventory  scenario.Inventory `yaml:"inventory"`
	} `yaml:"scenario"`

	Output OutputConfig `yaml:"output"`

	// Source is the file the config was read from, or EmbeddedSource.
	Source string `yaml:"-"`
}

// EmbeddedSource marks a config read from the built-in default.
const EmbeddedSource = "embedded"

type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
}

// Inventory returns the explicit inventory when one is configured and the
// generated one otherwise.
func (c *ScenarioConfig) Inventory() scenario.Inventory {
	if !c.Scenario.Inventory.Empty() {
		return c.Scenario.Inventory
	}
	return c.Scenario.Counts.Inventory()
}

func (c *ScenarioConfig) Validate() error {
	if err := c.Scenario.Counts.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

func (o OutputConfig) Validate() error {
	if !formats[o.Format] {
		return fmt.Errorf("unsupported output format %q", o.Format)
	}
	return nil
}

// ========== Loader Functions ==========

// loadConfigData returns the config bytes and where they came from.
func loadConfigData(configPath, defaultName string) ([]byte, string, error) {
	// 1. 尝试从文件系统加载
	if configPath == "" {
		configPath = filepath.Join("config", defaultName)
	}

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		return data, configPath, err
	}

	// 2. 回退到内嵌配置
	// 注意: embed总是使用正斜杠
	data, err := embedded.Content.ReadFile("config/" + defaultName)
	return data, EmbeddedSource, err
}

// LoadScenarioConfig reads configPath, or config/scenario.yaml when empty,
// falling back to the embedded default when the file does not exist.
// Fields the file leaves out keep the embedded defaults.
func LoadScenarioConfig(configPath string) (*ScenarioConfig, error) {
	defaults, err := embedded.Content.ReadFile("config/" + defaultScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read default scenario config: %w", err)
	}

	var cfg ScenarioConfig
	if err := yaml.Unmarshal(defaults, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse default scenario config: %w", err)
	}

	data, source, err := loadConfigData(configPath, defaultScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scenario config: %w", err)
	}
	cfg.Source = source

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario config: %w", err)
	}
	return &cfg, nil
}
