package collector

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

// fakeDisks returns a collector over a fixed partition table. usage maps a
// path to its statfs result; unknown paths fail.
func fakeDisks(logger *zap.Logger, usage map[string]*disk.UsageStat, watched ...WatchedPath) *DiskCollector {
	c := NewDiskCollector(logger, watched...)
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return []disk.PartitionStat{
			{Mountpoint: "/srv", Fstype: "xfs"},
			{Mountpoint: "/", Fstype: "ext4"},
			{Mountpoint: "/run", Fstype: "tmpfs"},
			{Mountpoint: "/mnt/backup", Fstype: "nfs4"},
			{Mountpoint: "/boot/efi", Fstype: "vfat"},
		}, nil
	}
	c.usage = func(_ context.Context, path string) (*disk.UsageStat, error) {
		u, ok := usage[path]
		if !ok {
			return nil, &os.PathError{Op: "statfs", Path: path, Err: os.ErrNotExist}
		}
		return u, nil
	}
	return c
}

func TestDiskCollector_MountsAndWatchedPaths(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	usage := map[string]*disk.UsageStat{
		"/":                {Total: 100, Used: 40, Free: 60, UsedPercent: 40},
		"/srv":             {Total: 1000, Used: 950, Free: 50, UsedPercent: 95},
		"/run":             {Total: 10, Used: 1, Free: 9, UsedPercent: 10},
		"/srv/server/data": {Total: 1000, Used: 950, Free: 50, UsedPercent: 95, Fstype: "xfs"},
		"/var/log/server":  {Total: 100, Used: 40, Free: 60, UsedPercent: 40, Fstype: "ext4"},
	}
	c := fakeDisks(zap.New(core), usage,
		WatchedPath{Role: "store_dir", Path: "/srv/server/data"},
		WatchedPath{Role: "log_dir", Path: "/var/log/server"},
		WatchedPath{Role: "destination", Path: "/missing/reports"},
	)

	v, err := c.Collect(context.Background())
	require.NoError(t, err)
	report := v.(models.DiskReport)

	assert.Equal(t, []models.DiskInfo{
		{Mount: "/", Fs: "ext4", Total: 100, Used: 40, Free: 60, UsedPercent: 40},
		{Mount: "/srv", Fs: "xfs", Total: 1000, Used: 950, Free: 50, UsedPercent: 95},
	}, report.Mounts, "tmpfs, nfs and unreadable mounts are left out")

	require.Len(t, report.Paths, 3)
	assert.Equal(t, models.PathUsage{
		Role: "store_dir", Path: "/srv/server/data", Mount: "/srv", Fs: "xfs",
		Total: 1000, Used: 950, Free: 50, UsedPercent: 95, LowSpace: true,
	}, report.Paths[0])
	assert.Equal(t, models.PathUsage{
		Role: "log_dir", Path: "/var/log/server", Mount: "/", Fs: "ext4",
		Total: 100, Used: 40, Free: 60, UsedPercent: 40,
	}, report.Paths[1])
	assert.Equal(t, "destination", report.Paths[2].Role)
	assert.Contains(t, report.Paths[2].Error, "/missing/reports")
	assert.Zero(t, report.Paths[2].Total)

	warnings := logs.FilterMessage("Low disk space").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "store_dir", warnings[0].ContextMap()["role"])
}

func TestDiskCollector_PartitionError(t *testing.T) {
	c := NewDiskCollector(zap.NewNop())
	c.partitions = func(context.Context, bool) ([]disk.PartitionStat, error) {
		return nil, errors.New("no mtab")
	}

	_, err := c.Collect(context.Background())
	assert.EqualError(t, err, "no mtab")
}

func TestMountFor(t *testing.T) {
	mounts := []string{"/", "/srv", "/srv/server", "/srvx"}
	tests := []struct {
		path string
		want string
	}{
		{"/srv/server/data", "/srv/server"},
		{"/srv/server", "/srv/server"},
		{"/srv/other", "/srv"},
		{"/srvx/a", "/srvx"},
		{"/srv-2/a", "/"},
		{"/srv/server/../x", "/srv"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, mountFor(tt.path, mounts))
		})
	}

	assert.Empty(t, mountFor("/data", []string{"/srv"}))
}

func TestMountFor_RelativePath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	assert.Equal(t, wd, mountFor("data", []string{"/", wd, filepath.Join(wd, "other")}))
}

func TestLocalMount(t *testing.T) {
	assert.True(t, localMount("ext4", "/"))
	assert.True(t, localMount("fuseblk", "/mnt/usb"))
	assert.False(t, localMount("tmpfs", "/run"))
	assert.False(t, localMount("nfs4", "/mnt/share"))
	assert.False(t, localMount("fuse.sshfs", "/mnt/remote"))
	assert.False(t, localMount("apfs", "/System/Volumes/Data"))
}
