package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"go.uber.org/multierr"
)

// Entry is the write target for one file inside the archive.
type Entry struct {
	w       *Writer
	name    string
	spool   *os.File
	written int64
	done    bool
}

// Name returns the cleaned in-archive path.
func (e *Entry) Name() string { return e.name }

// Size returns the number of bytes staged so far.
func (e *Entry) Size() int64 { return e.written }

// Write stages p.
func (e *Entry) Write(p []byte) (int, error) {
	if e.done {
		return 0, ErrClosed
	}
	n, err := e.spool.Write(p)
	e.written += int64(n)
	return n, err
}

// Commit compresses the staged bytes into the archive.
func (e *Entry) Commit() (err error) {
	if e.done {
		return ErrClosed
	}
	defer func() {
		err = multierr.Append(err, e.release())
	}()

	if _, err := e.spool.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewinding entry %s: %w", e.name, err)
	}

	hdr := &zip.FileHeader{
		Name:     e.name,
		Method:   zip.Deflate,
		Modified: e.w.now(),
	}
	hdr.SetMode(0o644)

	dst, err := e.w.zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("creating entry %s: %w", e.name, err)
	}
	if _, err := io.Copy(dst, e.spool); err != nil {
		return fmt.Errorf("writing entry %s: %w", e.name, err)
	}

	e.w.entries = append(e.w.entries, e.name)
	return nil
}

// Discard drops the staged bytes. Discarding twice is harmless.
func (e *Entry) Discard() error {
	if e.done {
		return nil
	}
	return e.release()
}

func (e *Entry) release() error {
	e.done = true
	if e.w.open == e {
		e.w.open = nil
	}
	name := e.spool.Name()
	return multierr.Combine(e.spool.Close(), os.Remove(name))
}
