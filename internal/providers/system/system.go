// Package system provides host probes, the process table and the process
// environment to the diagnostics reporter.
package system

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/collector"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/redact"
	"github.com/Guliveer/vitalis/diagnostics/internal/source"
)

// Classifiers served by this provider.
const (
	System    = "system"
	Processes = "ps"
	Env       = "env"
)

// cpuSample is how long the CPU collector measures utilization.
const cpuSample = time.Second

// Provider runs the collectors at dump time, each bounded by the
// configured collect timeout.
type Provider struct {
	registry  *collector.Registry
	processes collector.Collector
	timeout   time.Duration
	redactor  *redact.Redactor
	environ   func() []string
	logger    *zap.Logger
}

// New creates an uninitialized system provider.
func New() *Provider { return &Provider{environ: os.Environ} }

// Name returns the provider identifier.
func (p *Provider) Name() string { return "system" }

// Init registers the host collectors and reads the collect timeout and redaction keys.
func (p *Provider) Init(ic diagnostics.InitContext) error {
	if ic.Config == nil {
		return fmt.Errorf("no configuration loaded")
	}
	p.logger = ic.Logger.Named("system")
	p.timeout = ic.Config.Report.CollectTimeout.Duration
	p.redactor = redact.New(ic.Config.Report.RedactKeys...)

	p.registry = collector.NewRegistry(p.logger)
	p.registry.Register(collector.NewHostCollector())
	p.registry.Register(collector.NewCPUCollector(cpuSample))
	p.registry.Register(collector.NewMemoryCollector())
	p.registry.Register(collector.NewDiskCollector(p.logger, watchedPaths(ic)...))
	p.registry.Register(collector.NewNetworkCollector())
	p.registry.Register(collector.NewGPUCollector())
	p.registry.Register(collector.NewRLimitCollector())
	p.processes = collector.NewProcessCollector(ic.Config.Report.TopProcesses)
	return nil
}

// FilterClassifiers returns the classifiers this provider serves.
func (p *Provider) FilterClassifiers() []string {
	return []string{System, Processes, Env}
}

// DiagnosticsSources returns the collector, process and environment sources the requested set matches.
func (p *Provider) DiagnosticsSources(requested classifier.Set) []diagnostics.Source {
	var sources []diagnostics.Source
	if requested.Matches(System) {
		for _, c := range p.registry.Collectors() {
			sources = append(sources, source.JSON("system/"+c.Name()+".json", p.collect(c)))
		}
	}
	if requested.Matches(Processes) {
		sources = append(sources, source.JSON("ps.json", p.collect(p.processes)))
	}
	if requested.Matches(Env) {
		sources = append(sources, source.Text("env.txt", p.environment))
	}
	return sources
}

// watchedPaths lists the server directories whose filesystems the disk
// collector reports on. Unset directories are left out.
func watchedPaths(ic diagnostics.InitContext) []collector.WatchedPath {
	cfg := ic.Config
	storeDir := ic.StoreDir
	if storeDir == "" {
		storeDir = cfg.Resolve(cfg.Server.StoreDir)
	}

	candidates := []collector.WatchedPath{
		{Role: "store_dir", Path: storeDir},
		{Role: "log_dir", Path: cfg.Resolve(cfg.Server.LogDir)},
		{Role: "destination", Path: cfg.Report.Destination},
	}
	watched := make([]collector.WatchedPath, 0, len(candidates))
	for _, w := range candidates {
		if w.Path != "" {
			watched = append(watched, w)
		}
	}
	return watched
}

// collect defers running c until the source is written.
func (p *Provider) collect(c collector.Collector) func() (any, error) {
	return func() (any, error) {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		start := time.Now()
		v, err := c.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("collector %s: %w", c.Name(), err)
		}
		p.logger.Debug("Collected", zap.String("collector", c.Name()), zap.Duration("took", time.Since(start)))
		return v, nil
	}
}

// environment renders the sorted process environment with secrets masked.
func (p *Provider) environment() (string, error) {
	env := p.environ()
	lines := make([]string, 0, len(env))
	for _, kv := range env {
		key, _, found := strings.Cut(kv, "=")
		if found && p.redactor.Sensitive(key) {
			kv = key + "=" + redact.Placeholder
		}
		lines = append(lines, kv)
	}
	sort.Strings(lines)

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
