package main

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/source"
)

const manifestClassifier = "manifest"

// manifest identifies a bundle.
type manifest struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Hostname    string    `json:"hostname,omitempty"`
	Classifiers []string  `json:"classifiers"`
}

// newManifestSource describes the bundle being written. The id is drawn
// once so repeated writes of the same source agree.
func newManifestSource(requested classifier.Set, createdAt time.Time) diagnostics.Source {
	m := manifest{
		ID:          uuid.NewString(),
		Version:     version,
		CreatedAt:   createdAt,
		Classifiers: requested.Labels(),
	}
	if requested.IsAll() {
		m.Classifiers = append([]string{classifier.AllLabel}, m.Classifiers...)
	}
	return source.JSON("manifest.json", func() (any, error) {
		out := m
		out.Hostname, _ = os.Hostname()
		return out, nil
	})
}
