// Package vfs provides the file abstraction magiccrc patches through.
//
// This allows magiccrc to:
// - Patch real OS files in place or copy-then-patch
// - Patch in-memory buffers through the same File interface
// - Inject read, write and seek failures in tests
package vfs

import (
	"errors"
	"io"
	"os"
)

// ErrNotExist is returned by SameFile when neither path exists.
var ErrNotExist = errors.New("vfs: neither file exists")

// FS is the filesystem interface used by the command surface.
type FS interface {
	// Create creates a new read-write file, truncating an existing one.
	Create(name string) (File, error)

	// Open opens an existing file for reading.
	Open(name string) (File, error)

	// OpenReadWrite opens an existing file for reading and writing
	// without truncating it.
	OpenReadWrite(name string) (File, error)

	// Remove deletes a file.
	Remove(name string) error

	// Stat returns file info.
	Stat(name string) (os.FileInfo, error)

	// Exists returns true if the file exists.
	Exists(name string) bool

	// Lock acquires an exclusive advisory lock on an existing file.
	// The returned Closer releases it.
	Lock(name string) (io.Closer, error)
}

// File is a seekable, readable and writable byte stream.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// Sync flushes the file contents to stable storage.
	Sync() error

	// Size returns the current length.
	Size() (int64, error)
}

// osFS implements FS using the OS filesystem.
type osFS struct{}

// Default returns the default OS filesystem.
func Default() FS {
	return &osFS{}
}

func (fs *osFS) Create(name string) (File, error) {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

func (fs *osFS) Open(name string) (File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

func (fs *osFS) OpenReadWrite(name string) (File, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &osFile{f: f}, nil
}

func (fs *osFS) Remove(name string) error {
	return os.Remove(name)
}

func (fs *osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (fs *osFS) Lock(name string) (io.Closer, error) {
	return lockFile(name)
}

// osFile wraps os.File for the File interface.
type osFile struct {
	f *os.File
}

func (of *osFile) Read(p []byte) (int, error) {
	return of.f.Read(p)
}

func (of *osFile) Write(p []byte) (int, error) {
	return of.f.Write(p)
}

func (of *osFile) Seek(offset int64, whence int) (int64, error) {
	return of.f.Seek(offset, whence)
}

func (of *osFile) Close() error {
	return of.f.Close()
}

func (of *osFile) Sync() error {
	return of.f.Sync()
}

func (of *osFile) Size() (int64, error) {
	info, err := of.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// CopyFile copies src to dst through fs, replacing dst, and syncs the copy.
func CopyFile(fs FS, src, dst string) (int64, error) {
	in, err := fs.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() { _ = in.Close() }()

	out, err := fs.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		_ = out.Close()
		return n, err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return n, err
	}
	return n, out.Close()
}

// SameFile reports whether two paths name the same underlying file.
//
// Identical strings are always the same file. If exactly one path exists
// they differ. If neither exists, ErrNotExist is returned.
func SameFile(fs FS, a, b string) (bool, error) {
	if a == b {
		return true, nil
	}

	ia, errA := fs.Stat(a)
	ib, errB := fs.Stat(b)
	switch {
	case errA != nil && errB != nil:
		if os.IsNotExist(errA) && os.IsNotExist(errB) {
			return false, ErrNotExist
		}
		if !os.IsNotExist(errA) {
			return false, errA
		}
		return false, errB
	case errA != nil:
		if os.IsNotExist(errA) {
			return false, nil
		}
		return false, errA
	case errB != nil:
		if os.IsNotExist(errB) {
			return false, nil
		}
		return false, errB
	}
	return os.SameFile(ia, ib), nil
}
