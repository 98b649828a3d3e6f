package scenario

import (
	"context"
	"fmt"
	"net"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"github.com/shirou/gopsutil/v3/host"
	psnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"
)

const statusEstablished = "ESTABLISHED"

// HostSnapshotBuilder captures the local host and its established TCP peers
// as an asset graph.
type HostSnapshotBuilder struct {
	Properties graph.Properties
	Logger     *zap.Logger
}

func (b *HostSnapshotBuilder) Name() string { return "HostSnapshot" }

func (b *HostSnapshotBuilder) Build(ctx context.Context) (*graph.Graph, error) {
	logger := b.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	conns, err := psnet.ConnectionsWithContext(ctx, "tcp")
	if err != nil {
		// 没有连接信息时仍然输出主机节点
		logger.Warn("failed to list tcp connections", zap.Error(err))
		conns = nil
	}

	return SnapshotGraph(b.Properties, info, conns), nil
}

// HostKey is the node key used for the local host.
func HostKey(info *host.InfoStat) string {
	name := "localhost"
	if info != nil && info.Hostname != "" {
		name = info.Hostname
	}
	return "HOST_" + name
}

// SnapshotGraph turns host info and a connection table into a graph. Only
// established connections to non-loopback peers become edges.
func SnapshotGraph(props graph.Properties, info *host.InfoStat, conns []psnet.ConnectionStat) *graph.Graph {
	g := graph.New(props)

	hostKey := HostKey(info)
	attrs := []graph.Attr{graph.String(AttrAssetType, string(AssetServer))}
	if info != nil {
		attrs = append(attrs,
			graph.String("hostname", info.Hostname),
			graph.String("os", info.OS),
			graph.String("platform", info.Platform),
			graph.String("kernel_version", info.KernelVersion),
		)
	}
	g.AddNode(hostKey, attrs...)

	for _, c := range conns {
		if c.Status != statusEstablished || c.Raddr.Port == 0 {
			continue
		}
		if ip := net.ParseIP(c.Raddr.IP); ip == nil || ip.IsLoopback() {
			continue
		}

		peer := net.JoinHostPort(c.Raddr.IP, fmt.Sprint(c.Raddr.Port))
		peerKey := "NET_" + peer
		g.AddNode(peerKey,
			graph.String(AttrAssetType, string(AssetNetworkDevice)),
			graph.String("ip", c.Raddr.IP),
			graph.Number("port", float64(c.Raddr.Port)),
		)
		// endpoints were just added, AddEdge cannot fail here
		_ = g.AddEdge(hostKey, peerKey,
			graph.String(AttrName, RelConnects),
			graph.Number("pid", float64(c.Pid)),
			graph.Number("local_port", float64(c.Laddr.Port)),
		)
	}
	return g
}
