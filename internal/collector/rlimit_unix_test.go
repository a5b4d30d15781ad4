//go:build linux || darwin

package collector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitalis/diagnostics/internal/models"
)

func TestFormatLimit(t *testing.T) {
	assert.Equal(t, "unlimited", formatLimit(^uint64(0)))
	assert.Equal(t, "unlimited", formatLimit(1<<63-1))
	assert.Equal(t, "1024", formatLimit(1024))
}

func TestRLimitCollector_ReportsNofile(t *testing.T) {
	c := NewRLimitCollector()
	require.True(t, c.IsAvailable())

	v, err := c.Collect(context.Background())
	require.NoError(t, err)

	limits, ok := v.([]models.RLimit)
	require.True(t, ok)
	var names []string
	for _, l := range limits {
		names = append(names, l.Resource)
	}
	assert.Contains(t, names, "nofile")
}

func TestRLimitCollector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRLimitCollector().Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
