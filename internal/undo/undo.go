// Package undo saves a file's pre-patch contents and restores them.
//
// Backup layout:
//
//	magic       8 bytes  "MCRCUNDO"
//	version     1 byte
//	codec       1 byte   compression.Type
//	length      varint64 original length
//	crc         fixed32  CRC-32 of the original
//	fingerprint fixed64  XXH3 of the original
//	payload     rest     original bytes compressed with codec
package undo

import (
	"errors"
	"fmt"
	"io"

	"github.com/aalhour/magiccrc/internal/checksum"
	"github.com/aalhour/magiccrc/internal/compression"
	"github.com/aalhour/magiccrc/internal/encoding"
	"github.com/aalhour/magiccrc/internal/logging"
	"github.com/aalhour/magiccrc/internal/testutil"
	"github.com/aalhour/magiccrc/internal/vfs"
)

const (
	// Magic opens every backup.
	Magic = "MCRCUNDO"

	// Version is the only layout this package writes and reads.
	Version byte = 1

	// Suffix is appended to a file name to form its backup path.
	Suffix = ".undo"
)

// ErrCorrupt is returned when a backup cannot be parsed or its payload does
// not match the recorded length, CRC or fingerprint.
var ErrCorrupt = errors.New("undo: corrupt backup")

// Header describes the original contents held by a backup.
type Header struct {
	Codec       compression.Type
	Length      uint64
	CRC         uint32
	Fingerprint uint64
}

// Path returns the backup path for name.
func Path(name string) string {
	return name + Suffix
}

// Encode builds a backup of data.
func Encode(data []byte, codec compression.Type) ([]byte, *Header, error) {
	payload, err := compression.Compress(codec, data)
	if err != nil {
		return nil, nil, err
	}

	h := &Header{
		Codec:       codec,
		Length:      uint64(len(data)),
		CRC:         checksum.Value(data),
		Fingerprint: checksum.Fingerprint(data),
	}

	buf := make([]byte, 0, len(Magic)+2+encoding.MaxVarint64Length+4+8+len(payload))
	buf = append(buf, Magic...)
	buf = append(buf, Version, byte(codec))
	buf = encoding.AppendVarint64(buf, h.Length)
	buf = encoding.AppendFixed32(buf, h.CRC)
	buf = encoding.AppendFixed64(buf, h.Fingerprint)
	buf = append(buf, payload...)
	return buf, h, nil
}

// Decode parses a backup and returns the original bytes.
func Decode(blob []byte) ([]byte, *Header, error) {
	s := encoding.NewSlice(blob)

	magic, ok := s.GetBytes(len(Magic))
	if !ok || string(magic) != Magic {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	version, ok := s.GetByte()
	if !ok {
		return nil, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if version != Version {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}
	codec, ok := s.GetByte()
	if !ok {
		return nil, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}

	h := &Header{Codec: compression.Type(codec)}
	if !h.Codec.IsSupported() {
		return nil, nil, fmt.Errorf("%w: unknown codec %d", ErrCorrupt, codec)
	}
	if h.Length, ok = s.GetVarint64(); !ok {
		return nil, nil, fmt.Errorf("%w: bad length", ErrCorrupt)
	}
	if h.CRC, ok = s.GetFixed32(); !ok {
		return nil, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}
	if h.Fingerprint, ok = s.GetFixed64(); !ok {
		return nil, nil, fmt.Errorf("%w: truncated header", ErrCorrupt)
	}

	data, err := compression.Decompress(h.Codec, s.Data())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if uint64(len(data)) != h.Length {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes, header says %d", ErrCorrupt, len(data), h.Length)
	}
	if crc := checksum.Value(data); crc != h.CRC {
		return nil, nil, fmt.Errorf("%w: payload crc 0x%08x, header says 0x%08x", ErrCorrupt, crc, h.CRC)
	}
	if fp := checksum.Fingerprint(data); fp != h.Fingerprint {
		return nil, nil, fmt.Errorf("%w: payload fingerprint mismatch", ErrCorrupt)
	}
	return data, h, nil
}

// Save writes a backup of src to dst, replacing dst. A failed Save removes
// whatever it wrote to dst.
func Save(fs vfs.FS, src, dst string, codec compression.Type, logger logging.Logger) (*Header, error) {
	logger = logging.OrDefault(logger)

	data, err := readAll(fs, src)
	if err != nil {
		return nil, err
	}
	blob, h, err := Encode(data, codec)
	if err != nil {
		return nil, err
	}
	if err := writeAll(fs, dst, blob); err != nil {
		_ = fs.Remove(dst)
		return nil, err
	}
	testutil.MaybeKill(testutil.KPBackupSync1)

	logger.Infof("%ssaved %s to %s (%s, %d -> %d bytes, crc 0x%08x)",
		logging.NSUndo, src, dst, codec, len(data), len(blob), h.CRC)
	return h, nil
}

// Restore writes the original contents held by backup to dst, replacing dst.
// dst is left untouched when the backup is corrupt.
func Restore(fs vfs.FS, backup, dst string, logger logging.Logger) (*Header, error) {
	logger = logging.OrDefault(logger)

	blob, err := readAll(fs, backup)
	if err != nil {
		return nil, err
	}
	data, h, err := Decode(blob)
	if err != nil {
		logger.Errorf("%s%s: %v", logging.NSUndo, backup, err)
		return nil, err
	}
	if err := writeAll(fs, dst, data); err != nil {
		return nil, err
	}

	logger.Infof("%srestored %d bytes to %s (crc 0x%08x)", logging.NSUndo, len(data), dst, h.CRC)
	return h, nil
}

func readAll(fs vfs.FS, name string) ([]byte, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func writeAll(fs vfs.FS, name string, data []byte) error {
	f, err := fs.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
