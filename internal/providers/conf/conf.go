// Package conf provides the server configuration files, with secrets
// masked, and the reporter's own effective configuration.
package conf

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/config"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/redact"
	"github.com/Guliveer/vitalis/diagnostics/internal/source"
)

// Classifier selects the configuration files.
const Classifier = "config"

// Provider offers each configured server config file and the effective
// reporter configuration.
type Provider struct {
	fs       afero.Fs
	cfg      *config.Config
	files    []string
	redactor *redact.Redactor
}

// New creates an uninitialized config provider.
func New() *Provider { return &Provider{} }

// Name returns the provider identifier.
func (p *Provider) Name() string { return "config" }

// Init resolves the configured server config files against the server home.
func (p *Provider) Init(ic diagnostics.InitContext) error {
	if ic.Config == nil {
		return fmt.Errorf("no configuration loaded")
	}
	p.fs = ic.FS
	p.cfg = ic.Config
	p.redactor = redact.New(ic.Config.Report.RedactKeys...)
	p.files = p.files[:0]
	for _, f := range ic.Config.Server.ConfigFiles {
		p.files = append(p.files, ic.Config.Resolve(f))
	}
	return nil
}

// FilterClassifiers returns the classifiers this provider serves.
func (p *Provider) FilterClassifiers() []string { return []string{Classifier} }

// DiagnosticsSources returns one redacted copy per config file plus the effective configuration.
func (p *Provider) DiagnosticsSources(requested classifier.Set) []diagnostics.Source {
	if !requested.Matches(Classifier) {
		return nil
	}

	sources := make([]diagnostics.Source, 0, len(p.files)+1)
	for _, f := range p.files {
		sources = append(sources, &configFile{
			fs:       p.fs,
			path:     f,
			dest:     path.Join("config", filepath.Base(f)),
			redactor: p.redactor,
		})
	}
	sources = append(sources, source.YAML("config/effective.yaml", func() (any, error) {
		return p.cfg, nil
	}))
	return sources
}

// configFile copies one config file with sensitive values masked.
type configFile struct {
	fs       afero.Fs
	path     string
	dest     string
	redactor *redact.Redactor
}

func (c *configFile) DestinationPath() string { return c.dest }

func (c *configFile) AddToArchive(w io.Writer, _ diagnostics.Progress) error {
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}

	out, err := redactDocument(c.redactor, strings.ToLower(filepath.Ext(c.path)), data)
	if err != nil {
		return fmt.Errorf("redacting %s: %w", c.path, err)
	}
	_, err = w.Write(out)
	return err
}

// redactDocument masks data according to its file extension. Structured
// formats are decoded and re-encoded; everything else is masked line by line.
func redactDocument(r *redact.Redactor, ext string, data []byte) ([]byte, error) {
	switch ext {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return yaml.Marshal(r.Value(doc))
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return toml.Marshal(r.Value(doc))
	default:
		return []byte(r.Lines(string(data))), nil
	}
}
