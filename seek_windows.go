//go:build windows

package fsenv

import (
	"io"

	"golang.org/x/sys/windows"

	"github.com/hupe1980/fsenv/internal/fs"
)

// seekTo repositions the handle's cursor to the absolute offset off.
//
// SetFilePointer takes the offset as two 32-bit halves that the kernel
// recombines into one signed 64-bit distance, so full 64-bit offsets are
// supported through the split.
func seekTo(f fs.File, off int64) error {
	type fder interface{ Fd() uintptr }

	ff, ok := f.(fder)
	if !ok {
		_, err := f.Seek(off, io.SeekStart)
		return err
	}

	lo, hi := splitOffset(off)
	distanceLow := int32(lo)
	distanceHigh := int32(hi)
	_, err := windows.SetFilePointer(windows.Handle(ff.Fd()), distanceLow, &distanceHigh, windows.FILE_BEGIN)
	return err
}
