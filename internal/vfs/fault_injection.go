package vfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var (
	// ErrInjectedReadError is returned when a read error is injected.
	ErrInjectedReadError = errors.New("vfs: injected read error")

	// ErrInjectedWriteError is returned when a write error is injected.
	ErrInjectedWriteError = errors.New("vfs: injected write error")

	// ErrInjectedSeekError is returned when a seek error is injected.
	ErrInjectedSeekError = errors.New("vfs: injected seek error")

	// ErrInjectedSyncError is returned when a sync error is injected.
	ErrInjectedSyncError = errors.New("vfs: injected sync error")
)

// faultPlan describes which operations on a file fail.
type faultPlan struct {
	readError  bool
	seekError  bool
	syncError  bool
	writeError bool
	// writesBeforeError is the number of Write calls allowed to succeed
	// before writeError takes effect.
	writesBeforeError int
}

// FaultFile wraps a File and fails selected operations on demand.
type FaultFile struct {
	base File

	mu     sync.Mutex
	plan   faultPlan
	writes int
}

// NewFaultFile wraps f with no faults armed.
func NewFaultFile(f File) *FaultFile {
	return &FaultFile{base: f}
}

// InjectReadError makes every subsequent Read fail.
func (f *FaultFile) InjectReadError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plan.readError = true
}

// InjectWriteError lets the next `after` writes through and fails every
// write after that.
func (f *FaultFile) InjectWriteError(after int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plan.writeError = true
	f.plan.writesBeforeError = after
	f.writes = 0
}

// InjectSeekError makes every subsequent Seek fail.
func (f *FaultFile) InjectSeekError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plan.seekError = true
}

// InjectSyncError makes every subsequent Sync fail.
func (f *FaultFile) InjectSyncError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plan.syncError = true
}

// ClearErrors disarms all faults.
func (f *FaultFile) ClearErrors() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plan = faultPlan{}
	f.writes = 0
}

func (f *FaultFile) Read(p []byte) (int, error) {
	f.mu.Lock()
	fail := f.plan.readError
	f.mu.Unlock()
	if fail {
		return 0, ErrInjectedReadError
	}
	return f.base.Read(p)
}

func (f *FaultFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	fail := f.plan.writeError && f.writes >= f.plan.writesBeforeError
	f.writes++
	f.mu.Unlock()
	if fail {
		return 0, ErrInjectedWriteError
	}
	return f.base.Write(p)
}

func (f *FaultFile) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	fail := f.plan.seekError
	f.mu.Unlock()
	if fail {
		return 0, ErrInjectedSeekError
	}
	return f.base.Seek(offset, whence)
}

func (f *FaultFile) Close() error {
	return f.base.Close()
}

func (f *FaultFile) Sync() error {
	f.mu.Lock()
	fail := f.plan.syncError
	f.mu.Unlock()
	if fail {
		return ErrInjectedSyncError
	}
	return f.base.Sync()
}

func (f *FaultFile) Size() (int64, error) {
	return f.base.Size()
}

// FaultInjectionFS wraps an FS and arms faults on files opened by path.
type FaultInjectionFS struct {
	base FS

	mu    sync.Mutex
	plans map[string]faultPlan
}

// NewFaultInjectionFS creates a new fault-injecting filesystem wrapper.
func NewFaultInjectionFS(base FS) *FaultInjectionFS {
	return &FaultInjectionFS{
		base:  base,
		plans: make(map[string]faultPlan),
	}
}

func (fs *FaultInjectionFS) update(path string, fn func(p *faultPlan)) {
	key := absPath(path)
	fs.mu.Lock()
	defer fs.mu.Unlock()
	p := fs.plans[key]
	fn(&p)
	fs.plans[key] = p
}

// InjectReadError makes reads fail on files opened at path from now on.
func (fs *FaultInjectionFS) InjectReadError(path string) {
	fs.update(path, func(p *faultPlan) { p.readError = true })
}

// InjectWriteError lets `after` writes through on each file opened at path,
// then fails. Create and OpenReadWrite themselves fail when after < 0.
func (fs *FaultInjectionFS) InjectWriteError(path string, after int) {
	fs.update(path, func(p *faultPlan) {
		p.writeError = true
		p.writesBeforeError = after
	})
}

// InjectSeekError makes seeks fail on files opened at path from now on.
func (fs *FaultInjectionFS) InjectSeekError(path string) {
	fs.update(path, func(p *faultPlan) { p.seekError = true })
}

// InjectSyncError makes syncs fail on files opened at path from now on.
func (fs *FaultInjectionFS) InjectSyncError(path string) {
	fs.update(path, func(p *faultPlan) { p.syncError = true })
}

// ClearErrors clears all error injection.
func (fs *FaultInjectionFS) ClearErrors() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.plans = make(map[string]faultPlan)
}

func (fs *FaultInjectionFS) wrap(name string, f File, err error) (File, error) {
	if err != nil {
		return nil, err
	}
	fs.mu.Lock()
	plan := fs.plans[absPath(name)]
	fs.mu.Unlock()
	return &FaultFile{base: f, plan: plan}, nil
}

func (fs *FaultInjectionFS) openForWrite(name string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	p := fs.plans[absPath(name)]
	if p.writeError && p.writesBeforeError < 0 {
		return ErrInjectedWriteError
	}
	return nil
}

// Create creates a new file with fault injection.
func (fs *FaultInjectionFS) Create(name string) (File, error) {
	if err := fs.openForWrite(name); err != nil {
		return nil, err
	}
	f, err := fs.base.Create(name)
	return fs.wrap(name, f, err)
}

// Open opens a file for reading with fault injection.
func (fs *FaultInjectionFS) Open(name string) (File, error) {
	f, err := fs.base.Open(name)
	return fs.wrap(name, f, err)
}

// OpenReadWrite opens a file for reading and writing with fault injection.
func (fs *FaultInjectionFS) OpenReadWrite(name string) (File, error) {
	if err := fs.openForWrite(name); err != nil {
		return nil, err
	}
	f, err := fs.base.OpenReadWrite(name)
	return fs.wrap(name, f, err)
}

// Remove removes a file.
func (fs *FaultInjectionFS) Remove(name string) error {
	return fs.base.Remove(name)
}

// Stat returns file info.
func (fs *FaultInjectionFS) Stat(name string) (os.FileInfo, error) {
	return fs.base.Stat(name)
}

// Exists returns true if the file exists.
func (fs *FaultInjectionFS) Exists(name string) bool {
	return fs.base.Exists(name)
}

// Lock acquires an exclusive lock.
func (fs *FaultInjectionFS) Lock(name string) (io.Closer, error) {
	return fs.base.Lock(name)
}

func absPath(name string) string {
	if p, err := filepath.Abs(name); err == nil {
		return p
	}
	return name
}
