//go:build windows

package archive

import (
	"os"

	"go.uber.org/multierr"
)

// renameio does not support Windows; the destination is written in place.
type directPending struct {
	*os.File
}

func newPendingFile(dest string) (pendingFile, error) {
	f, err := os.Create(dest)
	if err != nil {
		return nil, err
	}
	return directPending{f}, nil
}

func (p directPending) commit() error { return p.Close() }

func (p directPending) abort() error {
	return multierr.Combine(p.Close(), os.Remove(p.Name()))
}
