// Package archive writes the diagnostics bundle: a deflate-compressed zip
// container that is installed at its destination only once finalized.
// Entries are staged in a spool file and committed whole, so a writer that
// fails halfway leaves no trace in the container.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"go.uber.org/multierr"
)

// ErrInvalidPath is returned for in-archive paths that are empty, absolute
// or escape the archive root.
var ErrInvalidPath = errors.New("invalid archive path")

// ErrClosed is returned when the writer is used after Close or Abort.
var ErrClosed = errors.New("archive is closed")

// pendingFile is the destination file while it is being written.
type pendingFile interface {
	io.Writer
	commit() error
	abort() error
}

// Writer builds one zip container at a fixed destination.
type Writer struct {
	dest    string
	out     pendingFile
	zw      *zip.Writer
	dirs    map[string]bool
	entries []string
	open    *Entry
	closed  bool
	now     func() time.Time
}

// Create prepares a new archive at destination, creating missing parent
// directories. Nothing is visible at destination until Close succeeds; an
// existing file there is replaced.
func Create(destination string) (*Writer, error) {
	if destination == "" {
		return nil, fmt.Errorf("creating archive: empty destination")
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o750); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	if info, err := os.Stat(destination); err == nil && info.IsDir() {
		return nil, fmt.Errorf("creating archive: %s is a directory", destination)
	}

	out, err := newPendingFile(destination)
	if err != nil {
		return nil, fmt.Errorf("creating archive: %w", err)
	}

	return &Writer{
		dest: destination,
		out:  out,
		zw:   zip.NewWriter(out),
		dirs: make(map[string]bool),
		now:  time.Now,
	}, nil
}

// Destination returns the path the archive is installed at.
func (w *Writer) Destination() string { return w.dest }

// Entries returns the committed file entries in write order.
func (w *Writer) Entries() []string {
	out := make([]string, len(w.entries))
	copy(out, w.entries)
	return out
}

// CleanPath normalizes an in-archive path to slash form.
func CleanPath(name string) (string, error) {
	slashed := filepath.ToSlash(name)
	if slashed == "" || path.IsAbs(slashed) || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	cleaned := path.Clean(slashed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return cleaned, nil
}

// MkdirAll adds directory entries for dir and every missing ancestor.
func (w *Writer) MkdirAll(dir string) error {
	if w.closed {
		return ErrClosed
	}
	cleaned, err := CleanPath(dir)
	if err != nil {
		return err
	}

	parts := strings.Split(cleaned, "/")
	for i := range parts {
		prefix := strings.Join(parts[:i+1], "/")
		if w.dirs[prefix] {
			continue
		}
		hdr := &zip.FileHeader{
			Name:     prefix + "/",
			Method:   zip.Store,
			Modified: w.now(),
		}
		hdr.SetMode(fs.ModeDir | 0o755)
		if _, err := w.zw.CreateHeader(hdr); err != nil {
			return fmt.Errorf("creating directory entry %s: %w", prefix, err)
		}
		w.dirs[prefix] = true
	}
	return nil
}

// Create opens a staged entry at name. Only one entry may be open at a time;
// it must be committed or discarded before the next one is created.
func (w *Writer) Create(name string) (*Entry, error) {
	if w.closed {
		return nil, ErrClosed
	}
	if w.open != nil {
		return nil, fmt.Errorf("entry %s is still open", w.open.name)
	}
	cleaned, err := CleanPath(name)
	if err != nil {
		return nil, err
	}

	spool, err := os.CreateTemp("", "diag-entry-*")
	if err != nil {
		return nil, fmt.Errorf("staging entry %s: %w", cleaned, err)
	}

	e := &Entry{w: w, name: cleaned, spool: spool}
	w.open = e
	return e, nil
}

// Close writes the zip central directory and installs the archive at its
// destination. Close is a no-op on a closed writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.open != nil {
		err = multierr.Append(err, w.open.Discard())
	}
	if zerr := w.zw.Close(); zerr != nil {
		err = multierr.Append(err, fmt.Errorf("finalizing archive: %w", zerr))
		return multierr.Append(err, w.out.abort())
	}
	if cerr := w.out.commit(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("installing archive at %s: %w", w.dest, cerr))
		return multierr.Append(err, w.out.abort())
	}
	return err
}

// Abort drops the archive; nothing is written to the destination.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var err error
	if w.open != nil {
		err = multierr.Append(err, w.open.Discard())
	}
	return multierr.Append(err, w.out.abort())
}
