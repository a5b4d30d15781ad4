package source

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
	"github.com/Guliveer/vitalis/diagnostics/internal/progress"
)

type percents struct {
	diagnostics.Progress
	seen []int
}

func (p *percents) PercentChanged(pct int) { p.seen = append(p.seen, pct) }

func TestFile_CopiesContentAndReportsPercent(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := strings.Repeat("x", 64*1024)
	require.NoError(t, afero.WriteFile(fs, "/logs/debug.log", []byte(content), 0o644))

	src := File(fs, "logs/debug.log", "/logs/debug.log")
	assert.Equal(t, "logs/debug.log", src.DestinationPath())

	var buf bytes.Buffer
	p := &percents{Progress: progress.Nop()}
	require.NoError(t, src.AddToArchive(&buf, p))

	assert.Equal(t, content, buf.String())
	require.NotEmpty(t, p.seen)
	assert.Equal(t, 100, p.seen[len(p.seen)-1])
	for i := 1; i < len(p.seen); i++ {
		assert.GreaterOrEqual(t, p.seen[i], p.seen[i-1])
	}
}

func TestFile_Missing(t *testing.T) {
	src := File(afero.NewMemMapFs(), "x.log", "/nope/x.log")
	err := src.AddToArchive(&bytes.Buffer{}, progress.Nop())
	assert.Error(t, err)
}

func TestFile_Directory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0o755))
	err := File(fs, "data", "/data").AddToArchive(&bytes.Buffer{}, progress.Nop())
	assert.ErrorContains(t, err, "is a directory")
}

func TestRotatingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"debug.log",
		"debug.log.1",
		"debug.log.2",
		"debug-2024-01-02T03-04-05.000.log",
		"debugger.log",
		"query.log",
		"debug-20260101T000000Z.zip",
	} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/logs", name), []byte(name), 0o644))
	}
	require.NoError(t, fs.MkdirAll("/logs/debug.log.d", 0o755))

	sources := RotatingFiles(fs, "logs", "/logs/debug.log")

	var dests []string
	for _, s := range sources {
		dests = append(dests, s.DestinationPath())
	}
	assert.Equal(t, []string{
		"logs/debug-2024-01-02T03-04-05.000.log",
		"logs/debug.log",
		"logs/debug.log.1",
		"logs/debug.log.2",
	}, dests)

	var buf bytes.Buffer
	require.NoError(t, sources[2].AddToArchive(&buf, progress.Nop()))
	assert.Equal(t, "debug.log.1", buf.String())
}

func TestRotatingFiles_SkipsSiblingsWithOtherExtensions(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, name := range []string{
		"diagreport.log",
		"diagreport-2026-01-02T03-04-05.000.log",
		"diagreport-20260101T000000Z.zip",
		"diagreport-20260102T000000Z.zip",
	} {
		require.NoError(t, afero.WriteFile(fs, filepath.Join("/reports", name), []byte(name), 0o644))
	}

	var dests []string
	for _, s := range RotatingFiles(fs, "logs/diagreport", "/reports/diagreport.log") {
		dests = append(dests, s.DestinationPath())
	}
	assert.Equal(t, []string{
		"logs/diagreport/diagreport-2026-01-02T03-04-05.000.log",
		"logs/diagreport/diagreport.log",
	}, dests)
}

func TestRotatingFiles_MissingDirectory(t *testing.T) {
	sources := RotatingFiles(afero.NewMemMapFs(), "logs", "/absent/debug.log")
	require.Len(t, sources, 1)
	assert.Equal(t, "logs/debug.log", sources[0].DestinationPath())
	assert.Error(t, sources[0].AddToArchive(&bytes.Buffer{}, progress.Nop()))
}

func TestText(t *testing.T) {
	calls := 0
	src := Text("env.txt", func() (string, error) {
		calls++
		return "A=1\n", nil
	})

	var buf bytes.Buffer
	require.NoError(t, src.AddToArchive(&buf, progress.Nop()))
	assert.Equal(t, "A=1\n", buf.String())
	assert.Equal(t, 1, calls)

	failing := Text("x.txt", func() (string, error) { return "", errors.New("no env") })
	assert.EqualError(t, failing.AddToArchive(&buf, progress.Nop()), "no env")
}

func TestJSONAndYAML(t *testing.T) {
	value := map[string]any{"name": "store", "size": 42}

	var jbuf bytes.Buffer
	require.NoError(t, JSON("a.json", func() (any, error) { return value, nil }).AddToArchive(&jbuf, progress.Nop()))
	assert.JSONEq(t, `{"name":"store","size":42}`, jbuf.String())

	var ybuf bytes.Buffer
	require.NoError(t, YAML("a.yaml", func() (any, error) { return value, nil }).AddToArchive(&ybuf, progress.Nop()))
	assert.YAMLEq(t, "name: store\nsize: 42\n", ybuf.String())
}

func TestFailed(t *testing.T) {
	cause := errors.New("log dir unreadable")
	src := Failed("logs", cause)
	assert.Equal(t, "logs", src.DestinationPath())
	assert.ErrorIs(t, src.AddToArchive(&bytes.Buffer{}, progress.Nop()), cause)
}
