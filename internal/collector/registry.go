package collector

import (
	"go.uber.org/zap"
)

// Registry holds the collectors available on this platform, in
// registration order.
type Registry struct {
	collectors []Collector
	logger     *zap.Logger
}

// NewRegistry creates a new collector registry with the given logger.
func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		collectors: make([]Collector, 0),
		logger:     logger,
	}
}

// Register adds a collector if it's available on the current platform.
// Unavailable collectors are logged and skipped.
func (r *Registry) Register(c Collector) {
	if c.IsAvailable() {
		r.collectors = append(r.collectors, c)
		r.logger.Debug("Registered collector", zap.String("name", c.Name()))
	} else {
		r.logger.Debug("Collector not available, skipping", zap.String("name", c.Name()))
	}
}

// Lookup returns the registered collector called name.
func (r *Registry) Lookup(name string) (Collector, bool) {
	for _, c := range r.collectors {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// Collectors returns a copy of all registered collectors.
func (r *Registry) Collectors() []Collector {
	result := make([]Collector, len(r.collectors))
	copy(result, r.collectors)
	return result
}
