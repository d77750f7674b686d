//go:build windows

package vfs

import (
	"errors"
	"io"
	"os"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("vfs: file is locked by another process")

// fileLock keeps a handle open for the duration of the patch.
type fileLock struct {
	f *os.File
}

// lockFile opens the named file and holds it open.
// LockFileEx would block our own writes to the locked range, so Windows
// only gets the open handle.
func lockFile(name string) (io.Closer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &fileLock{f: f}, nil
}

func (l *fileLock) Close() error {
	return l.f.Close()
}
