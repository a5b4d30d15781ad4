package providers

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Guliveer/vitalis/diagnostics/internal/config"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
)

func TestBuiltin_Providers(t *testing.T) {
	var names []string
	for _, p := range Builtin().Providers() {
		names = append(names, p.Name())
	}
	assert.Equal(t, []string{"logs", "config", "system", "tree"}, names)
}

func TestBuiltin_RegistersClassifiers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Home = ""
	cfg.Server.StoreDir = "/srv/data"
	cfg.Server.LogDir = "/srv/logs"

	r := diagnostics.NewReporter(zaptest.NewLogger(t))
	r.RegisterAllProviders(Builtin(), diagnostics.InitContext{
		FS:       afero.NewMemMapFs(),
		Config:   cfg,
		StoreDir: cfg.Server.StoreDir,
		Logger:   zaptest.NewLogger(t),
	})

	got := r.AvailableClassifiers()
	require.NotEmpty(t, got)
	for _, c := range []string{"logs", "config", "system", "ps", "env", "tree"} {
		assert.Contains(t, got, c)
	}
}
