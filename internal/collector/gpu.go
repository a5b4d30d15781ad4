// Graphics card collector.
// Uses ghw, which reads PCI data on Linux and WMI on Windows.
package collector

import (
	"context"
	"fmt"
	"strings"

	"github.com/jaypipes/ghw"
	"github.com/jaypipes/ghw/pkg/gpu"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// GPUCollector lists the graphics cards of the host.
type GPUCollector struct{}

// NewGPUCollector creates a new GPU collector.
func NewGPUCollector() *GPUCollector {
	return &GPUCollector{}
}

// Name returns the collector identifier.
func (c *GPUCollector) Name() string { return "gpu" }

// Collect returns one entry per card. A host without cards yields an empty
// list, not an error.
func (c *GPUCollector) Collect(ctx context.Context) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := ghw.GPU()
	if err != nil {
		return nil, err
	}
	gpus := make([]models.GPUInfo, 0, len(info.GraphicsCards))
	for _, card := range info.GraphicsCards {
		gpus = append(gpus, gpuInfo(card))
	}
	return gpus, nil
}

func gpuInfo(card *gpu.GraphicsCard) models.GPUInfo {
	var parts []string
	if d := card.DeviceInfo; d != nil {
		if d.Vendor != nil {
			parts = append(parts, d.Vendor.Name)
		}
		if d.Product != nil {
			parts = append(parts, d.Product.Name)
		}
	}
	name := strings.TrimSpace(strings.Join(parts, " "))
	if name == "" {
		name = fmt.Sprintf("GPU %d", card.Index)
	}
	return models.GPUInfo{Index: card.Index, Name: name, Address: card.Address}
}

// IsAvailable returns true; platforms ghw cannot read fail at collect time.
func (c *GPUCollector) IsAvailable() bool { return true }
