// Package compression provides the codecs used to store undo backups.
//
// Each backup carries a 1-byte Type ahead of its payload, so the values below
// are part of the on-disk format and must not be renumbered.
package compression

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type represents a compression algorithm.
type Type uint8

const (
	// NoCompression stores data as is.
	NoCompression Type = 0x0

	// SnappyCompression uses Google Snappy compression.
	SnappyCompression Type = 0x1

	// ZlibCompression uses zlib (RFC 1950) compression.
	ZlibCompression Type = 0x2

	// LZ4Compression uses the LZ4 frame format at the fast level.
	LZ4Compression Type = 0x3

	// LZ4HCCompression uses the LZ4 frame format at level 9.
	LZ4HCCompression Type = 0x4

	// ZstdCompression uses Zstandard compression.
	ZstdCompression Type = 0x5
)

// Default is the codec used when none is named.
const Default = ZstdCompression

var (
	// ErrUnknownType is returned for a Type or name with no codec.
	ErrUnknownType = errors.New("compression: unknown type")

	// ErrCorrupt is returned when a payload cannot be decompressed.
	ErrCorrupt = errors.New("compression: corrupt payload")
)

var names = map[Type]string{
	NoCompression:     "none",
	SnappyCompression: "snappy",
	ZlibCompression:   "zlib",
	LZ4Compression:    "lz4",
	LZ4HCCompression:  "lz4hc",
	ZstdCompression:   "zstd",
}

// Types returns every supported type in numeric order.
func Types() []Type {
	return []Type{NoCompression, SnappyCompression, ZlibCompression, LZ4Compression, LZ4HCCompression, ZstdCompression}
}

// String returns the name accepted by ParseType.
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// IsSupported returns true if the compression type is supported.
func (t Type) IsSupported() bool {
	_, ok := names[t]
	return ok
}

// ParseType maps a codec name (case-insensitive) to its Type.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range Types() {
		if names[t] == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, name)
}

// Compress compresses data using the specified compression type.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case NoCompression:
		return data, nil

	case SnappyCompression:
		return snappy.Encode(nil, data), nil

	case ZlibCompression:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("zlib write: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("zlib close: %w", err)
		}
		return buf.Bytes(), nil

	case LZ4Compression:
		return compressLZ4(data, lz4.Fast)

	case LZ4HCCompression:
		return compressLZ4(data, lz4.Level9)

	case ZstdCompression:
		return compressZstd(data, zstd.SpeedDefault)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
}

func compressLZ4(data []byte, level lz4.CompressionLevel) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(level)); err != nil {
		return nil, fmt.Errorf("lz4 apply level: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}
	return buf.Bytes(), nil
}

func compressZstd(data []byte, level zstd.EncoderLevel) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer func() { _ = encoder.Close() }()
	return encoder.EncodeAll(data, nil), nil
}

// Decompress decompresses data using the specified compression type.
// Malformed input yields an error wrapping ErrCorrupt.
func Decompress(t Type, data []byte) ([]byte, error) {
	var (
		out []byte
		err error
	)
	switch t {
	case NoCompression:
		return data, nil

	case SnappyCompression:
		out, err = snappy.Decode(nil, data)

	case ZlibCompression:
		out, err = decompressZlib(data)

	case LZ4Compression, LZ4HCCompression:
		out, err = io.ReadAll(lz4.NewReader(bytes.NewReader(data)))

	case ZstdCompression:
		out, err = decompressZstd(data)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, t, err)
	}
	return out, nil
}

func decompressZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decoder: %w", err)
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}
