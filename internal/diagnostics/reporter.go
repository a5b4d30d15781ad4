package diagnostics

import (
	"fmt"
	"path"

	"go.uber.org/zap"

	"github.com/Guliveer/vitalis/diagnostics/internal/archive"
	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
)

// stepFailed is the message passed to Progress.Error for a skipped source.
const stepFailed = "Step failed"

// Reporter holds registered providers and ad-hoc sources and dumps them into
// a bundle. Registration is not synchronized; register everything before the
// first Dump.
type Reporter struct {
	providers  []OfflineProvider
	additional map[string][]Source
	order      []string
	logger     *zap.Logger
}

// NewReporter creates an empty reporter.
func NewReporter(logger *zap.Logger) *Reporter {
	return &Reporter{
		additional: make(map[string][]Source),
		logger:     logger.Named("reporter"),
	}
}

// RegisterOfflineProvider appends p. Registering the same provider twice
// makes its sources appear twice in later dumps.
func (r *Reporter) RegisterOfflineProvider(p OfflineProvider) {
	r.providers = append(r.providers, p)
	r.logger.Debug("Registered provider",
		zap.String("name", p.Name()),
		zap.Strings("classifiers", p.FilterClassifiers()))
}

// RegisterSource adds src to the bucket for label.
func (r *Reporter) RegisterSource(label string, src Source) {
	if _, ok := r.additional[label]; !ok {
		r.order = append(r.order, label)
	}
	r.additional[label] = append(r.additional[label], src)
	r.logger.Debug("Registered source",
		zap.String("classifier", label),
		zap.String("path", src.DestinationPath()))
}

// RegisterAllProviders initializes and registers every provider d yields.
// Providers whose Init fails are logged and skipped.
func (r *Reporter) RegisterAllProviders(d Discovery, ic InitContext) {
	for _, p := range d.Providers() {
		if err := p.Init(ic); err != nil {
			r.logger.Warn("Provider initialization failed, skipping",
				zap.String("name", p.Name()),
				zap.Error(err))
			continue
		}
		r.RegisterOfflineProvider(p)
	}
}

// AvailableClassifiers returns the sorted union of every provider's
// classifiers and every ad-hoc source classifier, as registered right now.
func (r *Reporter) AvailableClassifiers() []string {
	var idx classifier.Index
	for _, p := range r.providers {
		idx.Add(p.FilterClassifiers()...)
	}
	idx.Add(r.order...)
	return idx.Sorted()
}

// Sources returns the working list for requested: provider sources in
// registration order, then matching ad-hoc buckets in the order their
// classifiers were first registered.
func (r *Reporter) Sources(requested classifier.Set) []Source {
	var sources []Source
	for _, p := range r.providers {
		sources = append(sources, p.DiagnosticsSources(requested)...)
	}
	for _, label := range r.order {
		if requested.Matches(label) {
			sources = append(sources, r.additional[label]...)
		}
	}
	return sources
}

// Dump writes every source matching requested into a new archive at
// destination. A failing source is reported through progress and skipped;
// only failing to create or finalize the archive makes Dump return an error.
func (r *Reporter) Dump(requested classifier.Set, destination string, progress Progress) error {
	sources := r.Sources(requested)

	w, err := archive.Create(destination)
	if err != nil {
		return err
	}
	// A panic escaping the loop must not leave a half-written bundle behind.
	finalized := false
	defer func() {
		if !finalized {
			_ = w.Abort()
		}
	}()

	r.logger.Info("Writing diagnostics report",
		zap.String("destination", destination),
		zap.String("classifiers", requested.String()),
		zap.Int("sources", len(sources)))

	progress.SetTotalSteps(len(sources))
	failed := 0
	for i, src := range sources {
		step := i + 1
		if err := r.writeSource(w, step, src, progress); err != nil {
			failed++
			r.logger.Debug("Diagnostics source failed",
				zap.Int("step", step),
				zap.String("path", src.DestinationPath()),
				zap.Error(err))
			progress.Error(stepFailed, err)
			continue
		}
		progress.Finished()
	}

	finalized = true
	if err := w.Close(); err != nil {
		return err
	}

	r.logger.Info("Diagnostics report complete",
		zap.String("destination", destination),
		zap.Int("written", len(sources)-failed),
		zap.Int("failed", failed))
	return nil
}

// writeSource runs one step. Started is always reported before the source
// is asked to write, including when the destination path is unusable.
func (r *Reporter) writeSource(w *archive.Writer, step int, src Source, progress Progress) error {
	raw := src.DestinationPath()
	name, err := archive.CleanPath(raw)
	if err != nil {
		progress.Started(step, raw)
		return err
	}
	if dir := path.Dir(name); dir != "." {
		if err := w.MkdirAll(dir); err != nil {
			progress.Started(step, name)
			return err
		}
	}

	progress.Started(step, name)

	entry, err := w.Create(name)
	if err != nil {
		return err
	}
	if err := addToArchive(src, entry, progress); err != nil {
		if derr := entry.Discard(); derr != nil {
			r.logger.Debug("Discarding entry failed", zap.String("path", name), zap.Error(derr))
		}
		return err
	}
	return entry.Commit()
}

// addToArchive converts a panicking source into an ordinary step error.
func addToArchive(src Source, entry *archive.Entry, progress Progress) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("source %s panicked: %v", src.DestinationPath(), p)
		}
	}()
	return src.AddToArchive(entry, progress)
}
