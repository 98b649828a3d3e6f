package scenario

import (
	"context"
	"testing"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

type panicBuilder struct{}

func (panicBuilder) Name() string { return "Panics" }

func (panicBuilder) Build(context.Context) (*graph.Graph, error) {
	panic("boom")
}

func TestSafeBuild_RecoversPanic(t *testing.T) {
	g, err := SafeBuild(context.Background(), panicBuilder{}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Panics")
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, g)
}

func TestSafeBuild_LogsStack(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	_, err := SafeBuild(context.Background(), panicBuilder{}, zap.New(core))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "goroutine")

	entries := logs.FilterMessage("builder panic").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Panics", fields["builder"])
	assert.Contains(t, fields["stack"], "runtime/debug.Stack")
}

func TestSafeBuild_WrapsError(t *testing.T) {
	b := &AssetThreatBuilder{Properties: directed, Inventory: Inventory{Devices: []string{"sw"}}, Rand: NewRand(1)}

	_, err := SafeBuild(context.Background(), b, nil)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSafeBuild_Success(t *testing.T) {
	b := &AssetThreatBuilder{Properties: directed, Inventory: DefaultCounts().Inventory(), Rand: NewRand(5)}

	g, err := SafeBuild(context.Background(), b, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 13, g.NodeCount())
}
