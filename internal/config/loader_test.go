package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fmac99/threat-intel-poc/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenarioConfig_EmbeddedDefault(t *testing.T) {
	cfg, err := LoadScenarioConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), cfg.Scenario.Seed)
	assert.True(t, cfg.Scenario.Properties.Directed)
	assert.True(t, cfg.Scenario.Properties.Labeled)
	assert.Equal(t, scenario.DefaultCounts(), cfg.Scenario.Counts)
	assert.Equal(t, OutputConfig{Path: "threat_graph.json", Format: FormatJSON}, cfg.Output)
	assert.Equal(t, EmbeddedSource, cfg.Source)
}

func TestLoadScenarioConfig_Source(t *testing.T) {
	path := writeFile(t, "scenario:\n  seed: 7\n")

	cfg, err := LoadScenarioConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)
	assert.Equal(t, uint64(7), cfg.Scenario.Seed)
}

func TestLoadScenarioConfig_PartialOverride(t *testing.T) {
	path := writeFile(t, `
scenario:
  seed: 7
  counts:
    threats: 5
output:
  format: dot
`)
	cfg, err := LoadScenarioConfig(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(7), cfg.Scenario.Seed)
	assert.Equal(t, 5, cfg.Scenario.Counts.Threats)
	assert.Equal(t, 6, cfg.Scenario.Counts.Servers)
	assert.Equal(t, FormatDOT, cfg.Output.Format)
	assert.Equal(t, "threat_graph.json", cfg.Output.Path)
}

func TestLoadScenarioConfig_Inventory(t *testing.T) {
	path := writeFile(t, `
scenario:
  inventory:
    servers: [db, web]
    threats: [apt29]
`)
	cfg, err := LoadScenarioConfig(path)
	require.NoError(t, err)

	inv := cfg.Inventory()
	assert.Equal(t, []string{"db", "web"}, inv.Servers)
	assert.Equal(t, []string{"apt29"}, inv.Threats)
	assert.Empty(t, inv.Devices)
}

func TestLoadScenarioConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "negative count", body: "scenario:\n  counts:\n    servers: -1\n"},
		{name: "bad format", body: "output:\n  format: png\n"},
		{name: "bad yaml", body: "scenario: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenarioConfig(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}
