// Package collector defines the Collector interface and the system probes
// whose results are written into the diagnostics bundle.
package collector

import "context"

// Collector is the interface that all system collectors must implement.
// Each collector gathers one kind of system information.
type Collector interface {
	// Name returns the unique identifier for this collector. It is also the
	// base name of the collector's document in the bundle.
	Name() string

	// Collect gathers the data and returns it.
	// The context allows for cancellation and timeout control.
	Collect(ctx context.Context) (interface{}, error)

	// IsAvailable checks if this collector can run on the current platform.
	// Collectors that return false will not be registered.
	IsAvailable() bool
}
