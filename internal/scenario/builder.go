// Package scenario populates graphs with asset/threat topologies.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/fmac99/threat-intel-poc/internal/graph"
)

type AssetType string

const (
	AssetServer        AssetType = "server"
	AssetPrinter       AssetType = "printer"
	AssetNetworkDevice AssetType = "network_device"
	AssetThreat        AssetType = "threat"
)

// Attribute names and relation labels written by the builders.
const (
	AttrAssetType = "asset_type"
	AttrName      = "name"
	AttrRiskScore = "risk_score"

	RelConnects  = "connects"
	RelThreatens = "threatens"
)

const (
	minRisk = 1.0
	maxRisk = 10.0
)

var (
	// ErrEmptyPool is returned when a relation policy has no candidates to
	// draw from, e.g. network devices without any server.
	ErrEmptyPool = errors.New("empty candidate pool")

	// ErrInvalidInventory covers negative counts, empty keys and keys that
	// appear more than once.
	ErrInvalidInventory = errors.New("invalid inventory")
)

// Counts sizes a generated inventory.
type Counts struct {
	Servers  int `yaml:"servers"`
	Printers int `yaml:"printers"`
	Devices  int `yaml:"devices"`
	Threats  int `yaml:"threats"`
}

// DefaultCounts matches the dashboard scenario: six servers, one printer,
// three switches and three threats.
func DefaultCounts() Counts {
	return Counts{Servers: 6, Printers: 1, Devices: 3, Threats: 3}
}

func (c Counts) Validate() error {
	if c.Servers < 0 || c.Printers < 0 || c.Devices < 0 || c.Threats < 0 {
		return fmt.Errorf("%w: negative count in %+v", ErrInvalidInventory, c)
	}
	return nil
}

// Inventory names every entity as "{Type}{index}", starting at 1.
func (c Counts) Inventory() Inventory {
	return Inventory{
		Servers:  keys("Server", c.Servers),
		Printers: keys("Printer", c.Printers),
		Devices:  keys("Switch", c.Devices),
		Threats:  keys("Threat", c.Threats),
	}
}

func keys(prefix string, n int) []string {
	out := make([]string, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

// Inventory is a fixed list of entity keys per asset type.
type Inventory struct {
	Servers  []string `yaml:"servers"`
	Printers []string `yaml:"printers"`
	Devices  []string `yaml:"devices"`
	Threats  []string `yaml:"threats"`
}

func (inv Inventory) Empty() bool {
	return len(inv.Servers)+len(inv.Printers)+len(inv.Devices)+len(inv.Threats) == 0
}

// Assets returns every non-threat key: servers, printers, then devices.
func (inv Inventory) Assets() []string {
	out := make([]string, 0, len(inv.Servers)+len(inv.Printers)+len(inv.Devices))
	out = append(out, inv.Servers...)
	out = append(out, inv.Printers...)
	return append(out, inv.Devices...)
}

func (inv Inventory) Validate() error {
	seen := make(map[string]bool)
	for _, k := range append(inv.Assets(), inv.Threats...) {
		if k == "" {
			return fmt.Errorf("%w: empty key", ErrInvalidInventory)
		}
		if seen[k] {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidInventory, k)
		}
		seen[k] = true
	}
	if len(inv.Devices) > 0 && len(inv.Servers) == 0 {
		return fmt.Errorf("%w: %d network devices but no servers to connect", ErrEmptyPool, len(inv.Devices))
	}
	if len(inv.Threats) > 0 && len(inv.Assets()) == 0 {
		return fmt.Errorf("%w: %d threats but no assets to threaten", ErrEmptyPool, len(inv.Threats))
	}
	return nil
}

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Build populates a new graph from inv. The result depends only on props,
// inv and the state of rng.
func Build(props graph.Properties, inv Inventory, rng *rand.Rand) (*graph.Graph, error) {
	if rng == nil {
		return nil, errors.New("scenario: nil random source")
	}
	if err := inv.Validate(); err != nil {
		return nil, err
	}

	g := graph.New(props)
	add := func(ks []string, t AssetType) {
		for _, k := range ks {
			g.AddNode(k, graph.String(AttrAssetType, string(t)))
		}
	}
	add(inv.Servers, AssetServer)
	add(inv.Printers, AssetPrinter)
	add(inv.Devices, AssetNetworkDevice)
	add(inv.Threats, AssetThreat)

	for _, d := range inv.Devices {
		for _, s := range sample(rng, inv.Servers) {
			if err := g.AddEdge(d, s, graph.String(AttrName, RelConnects)); err != nil {
				return nil, err
			}
		}
	}

	assets := inv.Assets()
	for _, t := range inv.Threats {
		for _, a := range sample(rng, assets) {
			err := g.AddEdge(t, a,
				graph.String(AttrName, RelThreatens),
				graph.Number(AttrRiskScore, riskScore(rng)),
			)
			if err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// BuildFromCounts is Build over c.Inventory().
func BuildFromCounts(props graph.Properties, c Counts, rng *rand.Rand) (*graph.Graph, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return Build(props, c.Inventory(), rng)
}

// sample draws between 1 and len(pool) distinct elements of pool.
func sample(rng *rand.Rand, pool []string) []string {
	k := 1 + rng.IntN(len(pool))
	picked := append([]string(nil), pool...)
	for i := 0; i < k; i++ {
		j := i + rng.IntN(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k]
}

func riskScore(rng *rand.Rand) float64 {
	v := minRisk + rng.Float64()*(maxRisk-minRisk)
	return math.Round(v*100) / 100
}

// AssetThreatBuilder is the Builder form of Build.
type AssetThreatBuilder struct {
	Properties graph.Properties
	Inventory  Inventory
	Rand       *rand.Rand
}

func (b *AssetThreatBuilder) Name() string { return "AssetThreatScenario" }

func (b *AssetThreatBuilder) Build(ctx context.Context) (*graph.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Build(b.Properties, b.Inventory, b.Rand)
}
