// Package source provides stock diagnostics sources: file copies, rotated
// log sets and computed documents.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/Guliveer/vitalis/diagnostics/internal/diagnostics"
)

// fileSource copies one file from fs.
type fileSource struct {
	fs   afero.Fs
	dest string
	path string
}

// File copies the file at path into the archive at dest.
func File(fs afero.Fs, dest, path string) diagnostics.Source {
	return &fileSource{fs: fs, dest: dest, path: path}
}

func (s *fileSource) DestinationPath() string { return s.dest }

// AddToArchive streams the file, reporting the percentage copied.
func (s *fileSource) AddToArchive(w io.Writer, progress diagnostics.Progress) error {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s.path)
	}

	pw := &percentWriter{w: w, size: info.Size(), progress: progress}
	if _, err := io.Copy(pw, f); err != nil {
		return fmt.Errorf("copying %s: %w", s.path, err)
	}
	progress.PercentChanged(100)
	return nil
}

// percentWriter reports how much of a known size has been written.
type percentWriter struct {
	w        io.Writer
	size     int64
	written  int64
	last     int
	progress diagnostics.Progress
}

func (p *percentWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	if p.size > 0 {
		pct := int(p.written * 100 / p.size)
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.progress.PercentChanged(pct)
		}
	}
	return n, err
}

// RotatingFiles returns a File source for path and for each of its rotated
// siblings, sorted by name. Siblings share the directory and either extend
// the file name ("debug.log.1") or its stem with the same extension
// ("debug-2024-01-02T03-04-05.000.log").
func RotatingFiles(fs afero.Fs, destDir, filePath string) []diagnostics.Source {
	dir := filepath.Dir(filePath)
	base := filepath.Base(filePath)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return []diagnostics.Source{Failed(path.Join(destDir, base), fmt.Errorf("listing %s: %w", dir, err))}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == base || strings.HasPrefix(name, base+".") || rotatedBackup(name, stem, ext) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	sources := make([]diagnostics.Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, File(fs, path.Join(destDir, name), filepath.Join(dir, name)))
	}
	return sources
}

// rotatedBackup reports whether name is a timestamped backup of stem+ext.
func rotatedBackup(name, stem, ext string) bool {
	return strings.HasPrefix(name, stem+"-") && filepath.Ext(name) == ext
}

// textSource writes computed text.
type textSource struct {
	dest string
	fn   func() (string, error)
}

// Text writes the string returned by fn. fn runs at dump time.
func Text(dest string, fn func() (string, error)) diagnostics.Source {
	return &textSource{dest: dest, fn: fn}
}

func (s *textSource) DestinationPath() string { return s.dest }

func (s *textSource) AddToArchive(w io.Writer, _ diagnostics.Progress) error {
	text, err := s.fn()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// documentSource encodes a computed value.
type documentSource struct {
	dest   string
	fn     func() (any, error)
	encode func(io.Writer, any) error
}

// JSON writes the value returned by fn as indented JSON.
func JSON(dest string, fn func() (any, error)) diagnostics.Source {
	return &documentSource{dest: dest, fn: fn, encode: encodeJSON}
}

// YAML writes the value returned by fn as YAML.
func YAML(dest string, fn func() (any, error)) diagnostics.Source {
	return &documentSource{dest: dest, fn: fn, encode: encodeYAML}
}

func (s *documentSource) DestinationPath() string { return s.dest }

func (s *documentSource) AddToArchive(w io.Writer, _ diagnostics.Progress) error {
	v, err := s.fn()
	if err != nil {
		return err
	}
	return s.encode(w, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// failedSource always fails with err.
type failedSource struct {
	dest string
	err  error
}

// Failed stands in for content a provider could not enumerate, so the
// failure is reported when the bundle is written.
func Failed(dest string, err error) diagnostics.Source {
	return &failedSource{dest: dest, err: err}
}

func (s *failedSource) DestinationPath() string { return s.dest }

func (s *failedSource) AddToArchive(io.Writer, diagnostics.Progress) error { return s.err }
