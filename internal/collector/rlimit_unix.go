//go:build linux || darwin

// Resource limit collector: soft and hard limits of the reporting process.
// Uses golang.org/x/sys/unix; open-file limits are a frequent support issue.
package collector

import (
	"context"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

var rlimitResources = []struct {
	name     string
	resource int
}{
	{"nofile", unix.RLIMIT_NOFILE},
	{"nproc", unix.RLIMIT_NPROC},
	{"stack", unix.RLIMIT_STACK},
	{"core", unix.RLIMIT_CORE},
	{"data", unix.RLIMIT_DATA},
	{"as", unix.RLIMIT_AS},
}

// RLimitCollector collects process resource limits.
type RLimitCollector struct{}

// NewRLimitCollector creates a new resource limit collector.
func NewRLimitCollector() *RLimitCollector {
	return &RLimitCollector{}
}

// Name returns the collector identifier.
func (c *RLimitCollector) Name() string { return "rlimits" }

// Collect reads every known limit. Limits the kernel refuses to report are
// omitted.
func (c *RLimitCollector) Collect(ctx context.Context) (interface{}, error) {
	results := make([]models.RLimit, 0, len(rlimitResources))
	for _, r := range rlimitResources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var lim unix.Rlimit
		if err := unix.Getrlimit(r.resource, &lim); err != nil {
			continue
		}
		results = append(results, models.RLimit{
			Resource: r.name,
			Soft:     formatLimit(lim.Cur),
			Hard:     formatLimit(lim.Max),
		})
	}
	return results, nil
}

// formatLimit renders RLIM_INFINITY, which is all ones on linux and
// MaxInt64 on darwin, as "unlimited".
func formatLimit(v uint64) string {
	if v == ^uint64(0) || v == 1<<63-1 {
		return "unlimited"
	}
	return strconv.FormatUint(v, 10)
}

// IsAvailable returns true on platforms with getrlimit.
func (c *RLimitCollector) IsAvailable() bool { return true }
