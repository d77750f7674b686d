package magiccrc

// patch.go implements magic-delta derivation and the 4-byte patch.
//
// With L the stream length and o the patch offset, flipping the region's bits
// by the polynomial p changes the CRC register by p * x^(8*(L-o)) mod G: the
// region itself contributes 32 bits and every following byte shifts it by
// eight more. Solving for p gives
//
//	p = reverse(crc ^ desired) * (x^(8*(L-o)))^-1  mod G
//
// and the register's reflected bit order means byte i of the region takes
// bits 8i..8i+7 of reverse(p).

import (
	"fmt"
	"io"
	"reflect"

	"github.com/aalhour/magiccrc/internal/checksum"
	"github.com/aalhour/magiccrc/internal/gf2"
	"github.com/aalhour/magiccrc/internal/logging"
	"github.com/aalhour/magiccrc/internal/testutil"
	"github.com/aalhour/magiccrc/internal/vfs"
)

// Stream is a randomly addressable byte sequence owned by the caller.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
}

// Result describes an applied patch.
type Result struct {
	// Offset is the resolved start of the patched region.
	Offset int64
	// Length is the stream length after the patch.
	Length int64
	// Appended is true when the region was created by Append.
	Appended bool
	// OldCRC is the checksum before patching (after any append).
	OldCRC uint32
	// NewCRC is the checksum the stream now has.
	NewCRC uint32
	// Magic is the GF(2)-domain delta.
	Magic uint32
	// Before and After hold the region's bytes around the patch.
	Before, After [PatchSize]byte
}

// Patcher derives and applies CRC-32 patches.
type Patcher struct {
	logger Logger
	verify bool
}

// NewPatcher creates a Patcher.
func NewPatcher(opts Options) *Patcher {
	l := opts.Logger
	if logging.IsNil(l) {
		l = logging.Discard
	}
	return &Patcher{logger: l, verify: opts.Verify}
}

var defaultPatcher = NewPatcher(DefaultOptions())

// ComputeChecksum returns the CRC-32 of r from its current position to EOF.
// It leaves r at EOF and never writes.
func ComputeChecksum(r io.Reader) (uint32, error) {
	if isNilStream(r) {
		return 0, ErrNilStream
	}
	crc, _, err := checksum.Stream(r)
	if err != nil {
		return 0, ioError("read", err)
	}
	return crc, nil
}

// ComputeMagicDelta returns the GF(2)-domain delta that forces the CRC-32 of
// s to desired when applied at offset. With offset == Append the stream is
// first extended by four zero bytes; otherwise s is not modified.
//
// The returned value is not the byte patch; see ApplyPatch.
func ComputeMagicDelta(s Stream, desired uint32, offset int64) (uint32, error) {
	return defaultPatcher.MagicDelta(s, desired, offset)
}

// ApplyPatch rewrites the four bytes at offset (or four appended bytes when
// offset == Append) so that the CRC-32 of s becomes desired.
func ApplyPatch(s Stream, desired uint32, offset int64) error {
	_, err := defaultPatcher.Patch(s, desired, offset)
	return err
}

// PatchBytes returns data with its CRC-32 forced to desired. data itself is
// modified in place when offset != Append; with Append the result may or may
// not share its backing array.
func PatchBytes(data []byte, desired uint32, offset int64) ([]byte, error) {
	m := vfs.NewMemFile(data)
	if _, err := defaultPatcher.Patch(m, desired, offset); err != nil {
		return nil, err
	}
	return m.Bytes(), nil
}

// isNilStream reports whether s is nil or an interface holding a nil
// pointer, such as a (*os.File)(nil).
func isNilStream(s any) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// derivation is the state shared between delta derivation and patching.
type derivation struct {
	offset   int64
	length   int64
	appended bool
	oldCRC   uint32
	magic    uint32
}

// MagicDelta is ComputeMagicDelta with this Patcher's logger.
func (p *Patcher) MagicDelta(s Stream, desired uint32, offset int64) (uint32, error) {
	d, err := p.derive(s, desired, offset)
	if err != nil {
		return 0, err
	}
	return d.magic, nil
}

func (p *Patcher) derive(s Stream, desired uint32, offset int64) (*derivation, error) {
	if isNilStream(s) {
		return nil, ErrNilStream
	}

	length, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioError("seek end", err)
	}
	if length == 0 {
		return nil, ErrEmptyStream
	}
	if offset != Append && (offset < 0 || offset > length-PatchSize) {
		return nil, offsetError(offset, length)
	}

	d := &derivation{offset: offset, length: length}
	if offset == Append {
		// The cursor is already at the end.
		var zeros [PatchSize]byte
		if _, err := s.Write(zeros[:]); err != nil {
			return nil, ioError("append", err)
		}
		d.offset = length
		d.length = length + PatchSize
		d.appended = true
		p.logger.Debugf("%sappended %d zero bytes at offset %d", logging.NSPatch, PatchSize, d.offset)
		testutil.MaybeKill(testutil.KPPatchAppend1)
	}

	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return nil, ioError("seek start", err)
	}
	crc, n, err := checksum.Stream(s)
	if err != nil {
		return nil, ioError("read", err)
	}
	if n != d.length {
		return nil, ioError("read", fmt.Errorf("read %d bytes, stream length is %d: %w", n, d.length, io.ErrUnexpectedEOF))
	}
	d.oldCRC = crc

	raw := gf2.Poly(checksum.Reverse32(crc ^ desired))
	tailBits := uint64(d.length-d.offset) * 8
	inv, err := gf2.ReciprocalMod(gf2.PowMod(gf2.X, tailBits))
	if err != nil {
		p.logger.Fatalf("%sno inverse of x^%d mod G: %v", logging.NSPatch, tailBits, err)
		return nil, fmt.Errorf("%w: %w", ErrArithmetic, err)
	}
	d.magic = uint32(gf2.MultiplyMod(inv, raw))

	p.logger.Debugf("%slength=%d offset=%d crc=0x%08x desired=0x%08x magic=0x%08x",
		logging.NSPatch, d.length, d.offset, crc, desired, d.magic)
	return d, nil
}

// Patch forces the CRC-32 of s to desired and reports what it changed.
func (p *Patcher) Patch(s Stream, desired uint32, offset int64) (*Result, error) {
	d, err := p.derive(s, desired, offset)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Offset:   d.offset,
		Length:   d.length,
		Appended: d.appended,
		OldCRC:   d.oldCRC,
		Magic:    d.magic,
	}

	var fingerprint uint64
	if p.verify {
		fingerprint, err = checksum.FingerprintExcluding(s, d.offset, PatchSize)
		if err != nil {
			return nil, ioError("fingerprint", err)
		}
	}

	if _, err := s.Seek(d.offset, io.SeekStart); err != nil {
		return nil, ioError("seek region", err)
	}
	if _, err := io.ReadFull(s, res.Before[:]); err != nil {
		return nil, ioError("read region", err)
	}

	rev := checksum.Reverse32(d.magic)
	for i := range PatchSize {
		res.After[i] = res.Before[i] ^ byte(rev>>(8*i))
	}

	// All four bytes go out in a single write.
	if _, err := s.Seek(d.offset, io.SeekStart); err != nil {
		return nil, ioError("seek region", err)
	}
	testutil.MaybeKill(testutil.KPPatchWrite0)
	if _, err := s.Write(res.After[:]); err != nil {
		return nil, ioError("write region", err)
	}
	testutil.MaybeKill(testutil.KPPatchWrite1)
	res.NewCRC = desired

	if p.verify {
		if err := p.check(s, d, desired, fingerprint); err != nil {
			return nil, err
		}
	}

	p.logger.Infof("%scrc 0x%08x -> 0x%08x at offset %d (% x -> % x)",
		logging.NSPatch, d.oldCRC, desired, d.offset, res.Before, res.After)
	return res, nil
}

// check re-reads s and confirms the patch did what it promised.
func (p *Patcher) check(s Stream, d *derivation, desired uint32, fingerprint uint64) error {
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return ioError("seek start", err)
	}
	crc, _, err := checksum.Stream(s)
	if err != nil {
		return ioError("read", err)
	}
	if crc != desired {
		p.logger.Errorf("%scrc is 0x%08x after patch, want 0x%08x", logging.NSVerify, crc, desired)
		return fmt.Errorf("%w: crc is 0x%08x, want 0x%08x", ErrVerification, crc, desired)
	}

	after, err := checksum.FingerprintExcluding(s, d.offset, PatchSize)
	if err != nil {
		return ioError("fingerprint", err)
	}
	if after != fingerprint {
		p.logger.Errorf("%sbytes outside [%d, %d) changed", logging.NSVerify, d.offset, d.offset+PatchSize)
		return fmt.Errorf("%w: bytes outside [%d, %d) changed", ErrVerification, d.offset, d.offset+PatchSize)
	}

	p.logger.Debugf("%scrc 0x%08x confirmed, region [%d, %d) is the only change",
		logging.NSVerify, crc, d.offset, d.offset+PatchSize)
	return nil
}
