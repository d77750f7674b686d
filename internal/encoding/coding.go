// Package encoding provides the binary primitives used by the undo backup
// header.
//
// Fixed-width integers are little-endian. Varints use 7-bit groups with the
// high bit as a continuation flag, least significant group first.
package encoding

import (
	"encoding/binary"
	"errors"
)

// MaxVarint64Length is the maximum number of bytes a varint64 can occupy.
const MaxVarint64Length = 10

var (
	// ErrVarintOverflow is returned when a varint exceeds the maximum value.
	ErrVarintOverflow = errors.New("encoding: varint overflow")

	// ErrVarintTermination is returned when varint doesn't terminate properly.
	ErrVarintTermination = errors.New("encoding: varint not terminated")
)

// -----------------------------------------------------------------------------
// Fixed-width encoding (little-endian)
// -----------------------------------------------------------------------------

// AppendFixed32 appends a little-endian uint32 to dst and returns the extended slice.
func AppendFixed32(dst []byte, value uint32) []byte {
	return binary.LittleEndian.AppendUint32(dst, value)
}

// AppendFixed64 appends a little-endian uint64 to dst and returns the extended slice.
func AppendFixed64(dst []byte, value uint64) []byte {
	return binary.LittleEndian.AppendUint64(dst, value)
}

// -----------------------------------------------------------------------------
// Variable-length encoding
// -----------------------------------------------------------------------------

// AppendVarint64 appends a uint64 as a varint to dst and returns the extended slice.
func AppendVarint64(dst []byte, value uint64) []byte {
	const B = 128
	for value >= B {
		dst = append(dst, byte(value&(B-1))|B)
		value >>= 7
	}
	return append(dst, byte(value))
}

// decodeVarint64 returns the varint64 at the start of src and the number of
// bytes it occupies, or (0, 0, err).
func decodeVarint64(src []byte) (value uint64, bytesRead int, err error) {
	var result uint64
	for shift := uint(0); shift < 64; shift += 7 {
		if bytesRead >= len(src) {
			return 0, 0, ErrVarintTermination
		}
		b := src[bytesRead]
		bytesRead++
		if b < 128 {
			if shift == 63 && b > 1 {
				return 0, 0, ErrVarintOverflow
			}
			result |= uint64(b) << shift
			return result, bytesRead, nil
		}
		result |= uint64(b&0x7f) << shift
	}
	return 0, 0, ErrVarintOverflow
}

// -----------------------------------------------------------------------------
// Slice-based decoding
// -----------------------------------------------------------------------------

// Slice is a read cursor over a byte slice.
type Slice struct {
	data []byte
	pos  int
}

// NewSlice creates a new Slice from a byte slice.
func NewSlice(data []byte) *Slice {
	return &Slice{data: data, pos: 0}
}

// Remaining returns the number of bytes remaining.
func (s *Slice) Remaining() int {
	return len(s.data) - s.pos
}

// Data returns the remaining data.
func (s *Slice) Data() []byte {
	return s.data[s.pos:]
}

// GetByte reads a single byte.
func (s *Slice) GetByte() (byte, bool) {
	if s.Remaining() < 1 {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// GetFixed32 reads a fixed 32-bit value.
func (s *Slice) GetFixed32() (uint32, bool) {
	if s.Remaining() < 4 {
		return 0, false
	}
	v := binary.LittleEndian.Uint32(s.data[s.pos:])
	s.pos += 4
	return v, true
}

// GetFixed64 reads a fixed 64-bit value.
func (s *Slice) GetFixed64() (uint64, bool) {
	if s.Remaining() < 8 {
		return 0, false
	}
	v := binary.LittleEndian.Uint64(s.data[s.pos:])
	s.pos += 8
	return v, true
}

// GetVarint64 reads a varint64.
func (s *Slice) GetVarint64() (uint64, bool) {
	v, n, err := decodeVarint64(s.data[s.pos:])
	if err != nil {
		return 0, false
	}
	s.pos += n
	return v, true
}

// GetBytes reads exactly n bytes.
func (s *Slice) GetBytes(n int) ([]byte, bool) {
	if n < 0 || s.Remaining() < n {
		return nil, false
	}
	v := s.data[s.pos : s.pos+n]
	s.pos += n
	return v, true
}
