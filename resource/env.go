package resource

import (
	"context"

	"github.com/hupe1980/fsenv"
)

// Throttle wraps env so every file it produces draws read and append
// bytes from the controller's I/O budget, and background work scheduled
// through it runs under the worker semaphore. All other operations pass
// through unchanged.
func Throttle(env fsenv.Env, rc *Controller) fsenv.Env {
	return &throttledEnv{Env: env, rc: rc}
}

type throttledEnv struct {
	fsenv.Env

	rc *Controller
}

func (e *throttledEnv) NewSequentialFile(fname string) (fsenv.SequentialFile, error) {
	sf, err := e.Env.NewSequentialFile(fname)
	if err != nil {
		return nil, err
	}
	return &throttledSequentialFile{SequentialFile: sf, rc: e.rc}, nil
}

func (e *throttledEnv) NewRandomAccessFile(fname string) (fsenv.RandomAccessFile, error) {
	rf, err := e.Env.NewRandomAccessFile(fname)
	if err != nil {
		return nil, err
	}
	return &throttledRandomAccessFile{RandomAccessFile: rf, rc: e.rc}, nil
}

func (e *throttledEnv) NewWritableFile(fname string) (fsenv.WritableFile, error) {
	wf, err := e.Env.NewWritableFile(fname)
	if err != nil {
		return nil, err
	}
	return &throttledWritableFile{WritableFile: wf, rc: e.rc}, nil
}

func (e *throttledEnv) NewAppendableFile(fname string) (fsenv.WritableFile, error) {
	wf, err := e.Env.NewAppendableFile(fname)
	if err != nil {
		return nil, err
	}
	return &throttledWritableFile{WritableFile: wf, rc: e.rc}, nil
}

func (e *throttledEnv) Schedule(fn func()) {
	e.rc.Go(fn)
}

// throttledSequentialFile reserves budget for the whole buffer before
// reading; short reads pay for at most one buffer's worth extra.
type throttledSequentialFile struct {
	fsenv.SequentialFile

	rc *Controller
}

func (f *throttledSequentialFile) Read(p []byte) (int, error) {
	if err := f.rc.AcquireIO(context.Background(), len(p)); err != nil {
		return 0, err
	}
	return f.SequentialFile.Read(p)
}

type throttledRandomAccessFile struct {
	fsenv.RandomAccessFile

	rc *Controller
}

func (f *throttledRandomAccessFile) ReadAt(p []byte, off int64) (int, error) {
	if err := f.rc.AcquireIO(context.Background(), len(p)); err != nil {
		return 0, err
	}
	return f.RandomAccessFile.ReadAt(p, off)
}

type throttledWritableFile struct {
	fsenv.WritableFile

	rc *Controller
}

func (f *throttledWritableFile) Append(p []byte) error {
	if err := f.rc.AcquireIO(context.Background(), len(p)); err != nil {
		return err
	}
	return f.WritableFile.Append(p)
}
