// Network I/O collector: cumulative per-interface counters.
// Uses gopsutil for cross-platform network metrics.
package collector

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v3/net"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// NetworkCollector collects per-interface I/O counters since boot.
type NetworkCollector struct{}

// NewNetworkCollector creates a new network collector.
func NewNetworkCollector() *NetworkCollector {
	return &NetworkCollector{}
}

// Name returns the collector identifier.
func (c *NetworkCollector) Name() string { return "network" }

// Collect gathers counters for every interface, sorted by interface name.
func (c *NetworkCollector) Collect(ctx context.Context) (interface{}, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}

	results := make([]models.NetworkInfo, 0, len(counters))
	for _, n := range counters {
		results = append(results, models.NetworkInfo{
			Interface: n.Name,
			BytesRecv: n.BytesRecv,
			BytesSent: n.BytesSent,
			ErrIn:     n.Errin,
			ErrOut:    n.Errout,
			DropIn:    n.Dropin,
			DropOut:   n.Dropout,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Interface < results[j].Interface
	})
	return results, nil
}

// IsAvailable returns true; network metrics are available on all platforms.
func (c *NetworkCollector) IsAvailable() bool { return true }
