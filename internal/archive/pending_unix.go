//go:build !windows

package archive

import (
	"path/filepath"

	"github.com/google/renameio/v2"
)

// renamePending writes next to the destination and renames over it on commit.
type renamePending struct {
	*renameio.PendingFile
}

func newPendingFile(dest string) (pendingFile, error) {
	f, err := renameio.NewPendingFile(dest,
		renameio.WithTempDir(filepath.Dir(dest)),
		renameio.WithPermissions(0o640))
	if err != nil {
		return nil, err
	}
	return renamePending{f}, nil
}

func (p renamePending) commit() error { return p.CloseAtomicallyReplace() }

func (p renamePending) abort() error { return p.Cleanup() }
