// Package logs provides the server log files to the diagnostics reporter.
package logs

import (
	"errors"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/source"
)

// Classifier selects the log files.
const Classifier = "logs"

// Provider offers every regular file below the log directory, rotated
// files included.
type Provider struct {
	fs     afero.Fs
	dir    string
	logger *zap.Logger
}

// New creates an uninitialized logs provider.
func New() *Provider { return &Provider{} }

// Name returns the provider identifier.
func (p *Provider) Name() string { return "logs" }

// Init resolves the server log directory. It fails when none is configured.
func (p *Provider) Init(ic diagnostics.InitContext) error {
	if ic.Config == nil || ic.Config.Server.LogDir == "" {
		return errors.New("no log directory configured")
	}
	p.fs = ic.FS
	p.dir = ic.Config.Resolve(ic.Config.Server.LogDir)
	p.logger = ic.Logger.Named("logs")
	return nil
}

// FilterClassifiers returns the classifiers this provider serves.
func (p *Provider) FilterClassifiers() []string { return []string{Classifier} }

// DiagnosticsSources returns a file source for every regular file under the log directory.
func (p *Provider) DiagnosticsSources(requested classifier.Set) []diagnostics.Source {
	if !requested.Matches(Classifier) {
		return nil
	}

	var sources []diagnostics.Source
	err := afero.Walk(p.fs, p.dir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(p.dir, file)
		if err != nil {
			return err
		}
		sources = append(sources, source.File(p.fs, path.Join("logs", filepath.ToSlash(rel)), file))
		return nil
	})
	if err != nil {
		p.logger.Warn("Listing log directory failed", zap.String("dir", p.dir), zap.Error(err))
		return append(sources, source.Failed("logs", err))
	}

	p.logger.Debug("Found log files", zap.String("dir", p.dir), zap.Int("count", len(sources)))
	return sources
}
