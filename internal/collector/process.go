// Process collector: the most CPU-intensive processes on the host.
// Uses gopsutil for cross-platform process listing.
package collector

import (
	"context"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// normalizedStatuses maps raw gopsutil status strings to a consistent set of
// display values used across all platforms.
var normalizedStatuses = map[string]string{
	"running":               "running",
	"sleeping":              "sleeping",
	"idle":                  "idle",
	"stopped":               "stopped",
	"stop":                  "stopped",
	"zombie":                "zombie",
	"wait":                  "sleeping",
	"lock":                  "sleeping",
	"blocked":               "sleeping",
	"sleep":                 "sleeping",
	"disk-sleep":            "sleeping",
	"tracing-stop":          "stopped",
	"dead":                  "zombie",
	"wake-kill":             "sleeping",
	"waking":                "running",
	"parked":                "idle",
	"idle-interrupt":        "idle",
	"suspended":             "stopped",
	"uninterruptible-sleep": "sleeping",
}

// normalizeStatus maps a raw gopsutil status string to a consistent display
// value. If the status is empty or unrecognised, it infers a value from the
// process's CPU usage: CPU > 0 → "running", otherwise "idle".
func normalizeStatus(raw string, cpuPct float64) string {
	if raw != "" {
		key := strings.ToLower(strings.TrimSpace(raw))
		if mapped, ok := normalizedStatuses[key]; ok {
			return mapped
		}
		// Unknown but non-empty; return as-is lowercased.
		return key
	}

	// Empty status (common on Windows); infer from CPU activity.
	if cpuPct > 0 {
		return "running"
	}
	return "idle"
}

// ProcessCollector collects the top N processes by CPU usage.
type ProcessCollector struct {
	topN int
}

// NewProcessCollector creates a process collector returning the top N
// processes sorted by CPU usage descending. topN <= 0 keeps every process.
func NewProcessCollector(topN int) *ProcessCollector {
	return &ProcessCollector{topN: topN}
}

// Name returns the collector identifier.
func (c *ProcessCollector) Name() string { return "processes" }

// Collect gathers per-process usage. Individual process errors are skipped
// so one inaccessible process does not fail the whole listing.
func (c *ProcessCollector) Collect(ctx context.Context) (interface{}, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]models.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, _ := p.NameWithContext(ctx)
		ppid, _ := p.PpidWithContext(ctx)
		user, _ := p.UsernameWithContext(ctx)
		cpuPct, _ := p.CPUPercentWithContext(ctx)
		memPct, _ := p.MemoryPercentWithContext(ctx)
		threads, _ := p.NumThreadsWithContext(ctx)
		status, _ := p.StatusWithContext(ctx)

		var rss uint64
		if mi, err := p.MemoryInfoWithContext(ctx); err == nil && mi != nil {
			rss = mi.RSS
		}

		rawStatus := ""
		if len(status) > 0 {
			rawStatus = status[0]
		}

		infos = append(infos, models.ProcessInfo{
			PID:     p.Pid,
			PPID:    ppid,
			Name:    name,
			User:    user,
			CPU:     cpuPct,
			Memory:  float64(memPct),
			RSS:     rss,
			Threads: threads,
			Status:  normalizeStatus(rawStatus, cpuPct),
		})
	}

	return topProcesses(infos, c.topN), nil
}

// topProcesses sorts by CPU descending, breaking ties by PID, and keeps n.
func topProcesses(infos []models.ProcessInfo, n int) []models.ProcessInfo {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].CPU != infos[j].CPU {
			return infos[i].CPU > infos[j].CPU
		}
		return infos[i].PID < infos[j].PID
	})
	if n > 0 && len(infos) > n {
		infos = infos[:n]
	}
	return infos
}

// IsAvailable returns true; process listing is available on all platforms.
func (c *ProcessCollector) IsAvailable() bool { return true }
