// Package retention prunes old diagnostics bundles from the report
// directory. Bundle names embed a UTC timestamp, so lexical order is
// chronological order.
package retention

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Policy bounds what a report directory may hold. Zero values disable the
// corresponding limit.
type Policy struct {
	Keep       int
	MaxTotalMB int
}

// Pruner removes the oldest bundles matching prefix and ".zip" until the
// directory satisfies its policy.
type Pruner struct {
	fs     afero.Fs
	dir    string
	prefix string
	policy Policy
	logger *zap.Logger
}

// New creates a pruner for bundles named prefix*.zip in dir.
func New(fs afero.Fs, dir, prefix string, policy Policy, logger *zap.Logger) *Pruner {
	return &Pruner{
		fs:     fs,
		dir:    dir,
		prefix: prefix,
		policy: policy,
		logger: logger,
	}
}

type bundle struct {
	path string
	size int64
}

// Bundles lists the bundles in dir, oldest first.
func (p *Pruner) Bundles() ([]string, error) {
	bundles, err := p.list()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(bundles))
	for i, b := range bundles {
		paths[i] = b.path
	}
	return paths, nil
}

// Prune removes the oldest bundles until both limits hold and returns the
// removed paths. The newest bundle is never removed. Files that cannot be
// removed are logged and skipped.
func (p *Pruner) Prune() ([]string, error) {
	bundles, err := p.list()
	if err != nil {
		return nil, err
	}

	var total int64
	for _, b := range bundles {
		total += b.size
	}
	limit := int64(p.policy.MaxTotalMB) * 1024 * 1024

	var removed []string
	for len(bundles) > 1 && p.exceeded(len(bundles), total, limit) {
		oldest := bundles[0]
		bundles = bundles[1:]
		total -= oldest.size

		if err := p.fs.Remove(oldest.path); err != nil {
			p.logger.Warn("Failed to remove old bundle",
				zap.String("file", oldest.path),
				zap.Error(err))
			continue
		}
		p.logger.Debug("Removed old bundle", zap.String("file", oldest.path))
		removed = append(removed, oldest.path)
	}
	return removed, nil
}

func (p *Pruner) exceeded(count int, total, limit int64) bool {
	if p.policy.Keep > 0 && count > p.policy.Keep {
		return true
	}
	return limit > 0 && total > limit
}

func (p *Pruner) list() ([]bundle, error) {
	entries, err := afero.ReadDir(p.fs, p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var bundles []bundle
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, p.prefix) || filepath.Ext(name) != ".zip" {
			continue
		}
		bundles = append(bundles, bundle{path: filepath.Join(p.dir, name), size: e.Size()})
	}
	sort.Slice(bundles, func(i, j int) bool { return bundles[i].path < bundles[j].path })
	return bundles, nil
}
