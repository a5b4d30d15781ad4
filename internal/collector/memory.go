// RAM and swap collector.
// Uses gopsutil for cross-platform memory metrics.
package collector

import (
	"context"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// MemoryCollector collects RAM and swap usage.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Name returns the collector identifier.
func (c *MemoryCollector) Name() string { return "memory" }

// Collect gathers memory usage. Swap figures are left at zero when the
// platform does not report them.
func (c *MemoryCollector) Collect(ctx context.Context) (interface{}, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, err
	}
	result := models.MemoryInfo{
		Total:     v.Total,
		Used:      v.Used,
		Available: v.Available,
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		result.SwapTotal = swap.Total
		result.SwapUsed = swap.Used
	}
	return result, nil
}

// IsAvailable returns true; memory metrics are available on all platforms.
func (c *MemoryCollector) IsAvailable() bool { return true }
