//go:build !windows

package vfs

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("vfs: file is locked by another process")

// fileLock holds a flock(2) on an open descriptor.
type fileLock struct {
	f *os.File
}

// lockFile takes a non-blocking exclusive flock on the named file.
func lockFile(name string) (io.Closer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	err = unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err != nil {
		_ = f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, name)
		}
		return nil, err
	}

	return &fileLock{f: f}, nil
}

func (l *fileLock) Close() error {
	// Closing the descriptor drops the lock even if LOCK_UN fails.
	_ = unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
	return l.f.Close()
}
