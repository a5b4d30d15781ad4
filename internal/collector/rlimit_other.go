//go:build !linux && !darwin

package collector

import (
	"context"
	"errors"
)

// RLimitCollector is unavailable on this platform.
type RLimitCollector struct{}

// NewRLimitCollector creates a resource limit collector.
func NewRLimitCollector() *RLimitCollector {
	return &RLimitCollector{}
}

// Name returns the collector identifier.
func (c *RLimitCollector) Name() string { return "rlimits" }

// Collect always fails; the registry never calls it since IsAvailable is false.
func (c *RLimitCollector) Collect(context.Context) (interface{}, error) {
	return nil, errors.New("resource limits are not supported on this platform")
}

// IsAvailable returns false.
func (c *RLimitCollector) IsAvailable() bool { return false }
