// CPU collector: processor model, core counts and utilization.
// Uses gopsutil for cross-platform CPU metrics.
package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// CPUCollector collects CPU details and usage.
type CPUCollector struct {
	sample time.Duration
}

// NewCPUCollector creates a CPU collector measuring utilization over sample.
func NewCPUCollector(sample time.Duration) *CPUCollector {
	return &CPUCollector{sample: sample}
}

// Name returns the collector identifier.
func (c *CPUCollector) Name() string { return "cpu" }

// Collect gathers CPU details. The overall measurement blocks for the
// sample duration to compute an accurate percentage.
func (c *CPUCollector) Collect(ctx context.Context) (interface{}, error) {
	overall, err := cpu.PercentWithContext(ctx, c.sample, false)
	if err != nil {
		return nil, err
	}

	var result models.CPUInfo
	if len(overall) > 0 {
		result.Overall = overall[0]
	}

	// The remaining figures are best effort.
	if cores, err := cpu.PercentWithContext(ctx, 0, true); err == nil {
		result.Cores = cores
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		result.LogicalCores = n
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		result.PhysicalCores = n
	}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		result.Model = infos[0].ModelName
	}

	return result, nil
}

// IsAvailable returns true; CPU metrics are available on all platforms.
func (c *CPUCollector) IsAvailable() bool { return true }
