//go:build !windows

package fsenv

import (
	"io"

	"github.com/hupe1980/fsenv/internal/fs"
)

// seekTo repositions the handle's cursor to the absolute offset off.
func seekTo(f fs.File, off int64) error {
	_, err := f.Seek(off, io.SeekStart)
	return err
}
