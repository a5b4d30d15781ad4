package tree

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Guliveer/vitalis/diagnostics/internal/classifier"
	"github.com/Guliveer/vitalis/diagnostics/internal/config"
	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/progress"
)

func TestProvider_RendersTree(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/data/meta", []byte("abc"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/srv/data/index/segment-0", make([]byte, 2048), 0o644))

	p := New()
	require.NoError(t, p.Init(diagnostics.InitContext{FS: fs, StoreDir: "/srv/data", Logger: zaptest.NewLogger(t)}))

	sources := p.DiagnosticsSources(classifier.ParseSet("tree"))
	require.Len(t, sources, 1)
	assert.Equal(t, "tree.txt", sources[0].DestinationPath())

	var buf bytes.Buffer
	require.NoError(t, sources[0].AddToArchive(&buf, progress.Nop()))
	assert.Equal(t, "/srv/data\n"+
		"  index/\n"+
		"    segment-0 (2.0 KiB)\n"+
		"  meta (3 B)\n"+
		"\n2 files, 2.0 KiB\n", buf.String())
}

func TestProvider_MissingStoreFailsAtWriteTime(t *testing.T) {
	p := New()
	require.NoError(t, p.Init(diagnostics.InitContext{FS: afero.NewMemMapFs(), StoreDir: "/srv/absent", Logger: zaptest.NewLogger(t)}))

	sources := p.DiagnosticsSources(classifier.ParseSet("all"))
	require.Len(t, sources, 1)
	assert.Error(t, sources[0].AddToArchive(&bytes.Buffer{}, progress.Nop()))
}

func TestProvider_InitFallsBackToConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Home = ""
	cfg.Server.StoreDir = "/srv/data"

	p := New()
	require.NoError(t, p.Init(diagnostics.InitContext{FS: afero.NewMemMapFs(), Config: cfg, Logger: zaptest.NewLogger(t)}))
	assert.Equal(t, "/srv/data", p.root)

	assert.Error(t, New().Init(diagnostics.InitContext{FS: afero.NewMemMapFs(), Logger: zaptest.NewLogger(t)}))
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.n))
	}
}
