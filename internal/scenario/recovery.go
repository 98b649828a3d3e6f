package scenario

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"go.uber.org/zap"
)

// Builder produces a populated graph.
type Builder interface {
	Name() string
	Build(ctx context.Context) (*graph.Graph, error)
}

// SafeBuild runs b and turns a panic into an error naming the builder and
// the panic value. The stack trace is logged at error level, not returned.
func SafeBuild(ctx context.Context, b Builder, logger *zap.Logger) (g *graph.Graph, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	defer func() {
		if r := recover(); r != nil {
			stack := string(debug.Stack())
			logger.Error("builder panic",
				zap.String("builder", b.Name()),
				zap.Any("panic", r),
				zap.String("stack", stack),
			)
			g = nil
			err = fmt.Errorf("builder %s panicked: %v", b.Name(), r)
		}
	}()

	g, err = b.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("builder %s: %w", b.Name(), err)
	}
	logger.Debug("graph built",
		zap.String("builder", b.Name()),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()),
	)
	return g, nil
}
