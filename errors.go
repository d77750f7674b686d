package magiccrc

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrPrecondition reports arguments that can never succeed: a nil or
	// empty stream, or an offset outside [0, length-4].
	ErrPrecondition = errors.New("magiccrc: precondition violated")

	// ErrArithmetic reports a GF(2) domain failure (no modular inverse).
	// It indicates a broken invariant rather than bad input.
	ErrArithmetic = errors.New("magiccrc: arithmetic domain failure")

	// ErrIO reports a failed read, write or seek on the stream. The stream
	// may have been extended or partially modified and should be
	// re-verified or discarded.
	ErrIO = errors.New("magiccrc: i/o failure")

	// ErrVerification reports that a post-patch self check failed.
	ErrVerification = errors.New("magiccrc: verification failed")
)

// Precondition failures.
var (
	// ErrNilStream is returned when the stream is nil.
	ErrNilStream = fmt.Errorf("%w: nil stream", ErrPrecondition)

	// ErrEmptyStream is returned when the stream has no bytes.
	ErrEmptyStream = fmt.Errorf("%w: empty stream", ErrPrecondition)

	// ErrOffsetOutOfRange is returned when the offset is neither Append nor
	// inside [0, length-4].
	ErrOffsetOutOfRange = fmt.Errorf("%w: offset out of range", ErrPrecondition)
)

func ioError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}

func offsetError(offset, length int64) error {
	if length < PatchSize {
		return fmt.Errorf("%w: stream of %d bytes is shorter than the %d-byte patch region; use Append",
			ErrOffsetOutOfRange, length, PatchSize)
	}
	return fmt.Errorf("%w: %d not in [0, %d]", ErrOffsetOutOfRange, offset, length-PatchSize)
}
