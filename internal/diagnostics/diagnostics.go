// Package diagnostics collects report sources from registered providers and
// writes them into a single bundle archive.
//
// Providers and sources are trusted to be free of side effects when queried:
// a Reporter may be dumped many times and asks its providers for sources on
// every dump.
package diagnostics

import (
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/config"
)

// Progress receives dump lifecycle callbacks, in order, on the dumping
// goroutine.
type Progress interface {
	// SetTotalSteps is called once per dump before any step starts.
	SetTotalSteps(n int)

	// Started marks the beginning of step (1-based) writing target.
	Started(step int, target string)

	// PercentChanged reports progress within the current step.
	PercentChanged(percent int)

	// Info carries a free-form note from the current step.
	Info(msg string)

	// Error reports that the current step failed and was skipped.
	Error(msg string, err error)

	// Finished marks the current step as written.
	Finished()
}

// Source is a single unit of diagnostic content.
type Source interface {
	// DestinationPath is the relative path of the entry inside the archive.
	DestinationPath() string

	// AddToArchive writes the content to w. Partial writes are discarded
	// when an error is returned.
	AddToArchive(w io.Writer, progress Progress) error
}

// InitContext is handed to every provider before it is registered.
type InitContext struct {
	FS       afero.Fs
	Config   *config.Config
	StoreDir string
	Logger   *zap.Logger
}

// OfflineProvider supplies sources for a set of classifiers. It is queried
// once per dump and must not assume it is queried only once.
type OfflineProvider interface {
	// Name identifies the provider in logs.
	Name() string

	// Init prepares the provider. Providers failing Init are not registered.
	Init(ic InitContext) error

	// FilterClassifiers lists the classifiers this provider can serve.
	FilterClassifiers() []string

	// DiagnosticsSources returns the sources matching requested, in the
	// order they should be written.
	DiagnosticsSources(requested classifier.Set) []Source
}

// Discovery enumerates available provider implementations.
type Discovery interface {
	Providers() []OfflineProvider
}

// ProviderFactory creates a fresh, uninitialized provider.
type ProviderFactory func() OfflineProvider

// Catalog is an explicit Discovery backed by registered factories.
type Catalog struct {
	factories []ProviderFactory
}

// NewCatalog creates a catalog holding factories.
func NewCatalog(factories ...ProviderFactory) *Catalog {
	c := &Catalog{}
	c.Add(factories...)
	return c
}

// Add appends factories.
func (c *Catalog) Add(factories ...ProviderFactory) {
	c.factories = append(c.factories, factories...)
}

// Providers returns a new instance from every factory, in insertion order.
func (c *Catalog) Providers() []OfflineProvider {
	out := make([]OfflineProvider, 0, len(c.factories))
	for _, f := range c.factories {
		out = append(out, f())
	}
	return out
}
