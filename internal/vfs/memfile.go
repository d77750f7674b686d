package vfs

import (
	"errors"
	"io"
)

var (
	// ErrClosed is returned by operations on a closed MemFile.
	ErrClosed = errors.New("vfs: file already closed")

	// ErrNegativeOffset is returned when a seek would land before the start.
	ErrNegativeOffset = errors.New("vfs: negative position")
)

// MemFile is an in-memory File. Writes past the end grow the buffer;
// seeking past the end and writing leaves a zero-filled gap.
// It is not safe for concurrent use.
type MemFile struct {
	data   []byte
	pos    int64
	closed bool
}

// NewMemFile returns a MemFile positioned at the start of data.
// The MemFile takes ownership of data.
func NewMemFile(data []byte) *MemFile {
	return &MemFile{data: data}
}

// Bytes returns the current contents. The slice aliases the MemFile's
// buffer until the next write.
func (m *MemFile) Bytes() []byte {
	return m.data
}

func (m *MemFile) Read(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *MemFile) Write(p []byte) (int, error) {
	if m.closed {
		return 0, ErrClosed
	}
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		if end > int64(cap(m.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(m.data))))
			copy(grown, m.data)
			m.data = grown
		} else {
			old := int64(len(m.data))
			m.data = m.data[:end]
			if m.pos > old {
				clear(m.data[old:m.pos])
			}
		}
	}
	n := copy(m.data[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

func (m *MemFile) Seek(offset int64, whence int) (int64, error) {
	if m.closed {
		return 0, ErrClosed
	}
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.data)) + offset
	default:
		return 0, errors.New("vfs: invalid whence")
	}
	if abs < 0 {
		return 0, ErrNegativeOffset
	}
	m.pos = abs
	return abs, nil
}

// Close marks the file closed. The contents stay readable through Bytes.
func (m *MemFile) Close() error {
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	return nil
}

// Sync is a no-op.
func (m *MemFile) Sync() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MemFile) Size() (int64, error) {
	return int64(len(m.data)), nil
}
