// Host collector: machine identity, OS release, boot time and uptime.
// Uses gopsutil host info instead of shelling out per platform.
package collector

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// HostCollector collects host and OS information.
type HostCollector struct{}

// NewHostCollector creates a new host collector.
func NewHostCollector() *HostCollector {
	return &HostCollector{}
}

// Name returns the collector identifier.
func (c *HostCollector) Name() string { return "host" }

// Collect gathers host details.
func (c *HostCollector) Collect(ctx context.Context) (interface{}, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, err
	}
	return hostInfo(info), nil
}

func hostInfo(info *host.InfoStat) models.HostInfo {
	return models.HostInfo{
		Hostname:        info.Hostname,
		OS:              info.OS,
		Platform:        info.Platform,
		PlatformVersion: info.PlatformVersion,
		KernelVersion:   info.KernelVersion,
		KernelArch:      info.KernelArch,
		Virtualization:  info.VirtualizationSystem,
		BootTime:        time.Unix(int64(info.BootTime), 0).UTC(),
		UptimeSeconds:   info.Uptime,
	}
}

// IsAvailable returns true; host info is available on all platforms.
func (c *HostCollector) IsAvailable() bool { return true }
