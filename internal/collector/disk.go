// Disk collector: usage of local mounts and of the filesystems holding the
// server's own directories. Uses gopsutil for cross-platform disk metrics.
package collector

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// lowSpacePercent flags a watched directory whose filesystem is this full.
const lowSpacePercent = 90.0

// memoryFS lists kernel and memory-backed filesystems. Their usage says
// nothing about the disks the server writes to.
var memoryFS = map[string]bool{
	"autofs":   true,
	"cgroup":   true,
	"cgroup2":  true,
	"devfs":    true,
	"devtmpfs": true,
	"nullfs":   true,
	"overlay":  true,
	"proc":     true,
	"ramfs":    true,
	"squashfs": true,
	"sysfs":    true,
	"tmpfs":    true,
}

// remoteFS lists network filesystems, reported by the host serving them.
var remoteFS = map[string]bool{
	"9p":        true,
	"afs":       true,
	"ceph":      true,
	"cifs":      true,
	"davfs2":    true,
	"glusterfs": true,
	"lustre":    true,
	"nfs":       true,
	"nfs4":      true,
	"smb3":      true,
	"smbfs":     true,
}

// WatchedPath is a server directory whose filesystem usage is reported
// under Role, e.g. "store_dir".
type WatchedPath struct {
	Role string
	Path string
}

// DiskCollector collects usage per local mount point and for each watched
// directory.
type DiskCollector struct {
	logger  *zap.Logger
	watched []WatchedPath

	partitions func(ctx context.Context, all bool) ([]disk.PartitionStat, error)
	usage      func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDiskCollector creates a disk collector reporting on the given
// directories in addition to the local mounts.
func NewDiskCollector(logger *zap.Logger, watched ...WatchedPath) *DiskCollector {
	return &DiskCollector{
		logger:     logger,
		watched:    watched,
		partitions: disk.PartitionsWithContext,
		usage:      disk.UsageWithContext,
	}
}

// Name returns the collector identifier.
func (c *DiskCollector) Name() string { return "disk" }

// Collect gathers usage for local partitions, sorted by mount point, then
// for every watched directory in registration order. Inaccessible
// partitions are skipped; a watched directory that cannot be read keeps
// its entry with the error recorded.
func (c *DiskCollector) Collect(ctx context.Context) (interface{}, error) {
	partitions, err := c.partitions(ctx, false)
	if err != nil {
		return nil, err
	}

	report := models.DiskReport{Mounts: make([]models.DiskInfo, 0, len(partitions))}
	fstypes := make(map[string]string, len(partitions))
	for _, p := range partitions {
		fstypes[p.Mountpoint] = p.Fstype
		if !localMount(p.Fstype, p.Mountpoint) {
			continue
		}

		usage, err := c.usage(ctx, p.Mountpoint)
		if err != nil {
			c.logger.Debug("Skipping inaccessible partition",
				zap.String("mount", p.Mountpoint),
				zap.Error(err))
			continue
		}
		if usage.Total == 0 {
			continue
		}
		report.Mounts = append(report.Mounts, models.DiskInfo{
			Mount:       p.Mountpoint,
			Fs:          p.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}
	sort.Slice(report.Mounts, func(i, j int) bool {
		return report.Mounts[i].Mount < report.Mounts[j].Mount
	})

	for _, w := range c.watched {
		report.Paths = append(report.Paths, c.pathUsage(ctx, w, fstypes))
	}
	return report, nil
}

// pathUsage reports the filesystem holding w.Path. fstypes maps every known
// mount point to its filesystem type.
func (c *DiskCollector) pathUsage(ctx context.Context, w WatchedPath, fstypes map[string]string) models.PathUsage {
	pu := models.PathUsage{Role: w.Role, Path: w.Path}
	usage, err := c.usage(ctx, w.Path)
	if err != nil {
		pu.Error = err.Error()
		return pu
	}

	mounts := make([]string, 0, len(fstypes))
	for m := range fstypes {
		mounts = append(mounts, m)
	}
	pu.Mount = mountFor(w.Path, mounts)
	pu.Fs = fstypes[pu.Mount]
	if pu.Fs == "" {
		pu.Fs = usage.Fstype
	}
	pu.Total = usage.Total
	pu.Used = usage.Used
	pu.Free = usage.Free
	pu.UsedPercent = usage.UsedPercent
	pu.LowSpace = usage.UsedPercent >= lowSpacePercent
	if pu.LowSpace {
		c.logger.Warn("Low disk space",
			zap.String("role", w.Role),
			zap.String("path", w.Path),
			zap.Float64("used_percent", usage.UsedPercent))
	}
	return pu
}

// mountFor returns the longest mount point containing path, or "" when
// none does.
func mountFor(path string, mounts []string) string {
	p := filepath.Clean(path)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}

	best := ""
	for _, m := range mounts {
		if within(p, filepath.Clean(m)) && len(m) > len(best) {
			best = m
		}
	}
	return best
}

func within(path, mount string) bool {
	if path == mount {
		return true
	}
	if !strings.HasSuffix(mount, string(filepath.Separator)) {
		mount += string(filepath.Separator)
	}
	return strings.HasPrefix(path, mount)
}

// localMount reports whether a partition is local storage worth reporting.
// FUSE mounts and macOS system volumes are skipped along with the memory
// and remote filesystems.
func localMount(fstype, mount string) bool {
	if memoryFS[fstype] || remoteFS[fstype] || strings.HasPrefix(fstype, "fuse.") {
		return false
	}
	return !strings.HasPrefix(mount, "/System/Volumes/") && !strings.HasPrefix(mount, "/private/var/vm")
}

// IsAvailable returns true; disk metrics are available on all platforms.
func (c *DiskCollector) IsAvailable() bool { return true }
