package magiccrc

// options.go implements Patcher configuration.

import (
	"github.com/aalhour/magiccrc/internal/logging"
)

// Logger is an alias for the logging.Logger interface.
// This allows users to pass their own logger implementation.
type Logger = logging.Logger

const (
	// Append is the offset that asks for four zero bytes to be appended to
	// the stream and patched. It is never a literal position.
	Append int64 = -1

	// DefaultCRC is the checksum forced when the caller does not pick one.
	DefaultCRC uint32 = 0xFFFFFFFF

	// PatchSize is the number of bytes rewritten by a patch.
	PatchSize = 4
)

// Options configures a Patcher.
type Options struct {
	// Logger receives progress at DEBUG/INFO and broken invariants at
	// FATAL. nil discards everything.
	Logger Logger

	// Verify re-reads the stream after patching and checks that its CRC-32
	// equals the desired value and that no byte outside the patched region
	// changed. Costs two extra passes over the stream.
	Verify bool
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		Logger: nil, // Will use logging.Discard
		Verify: false,
	}
}
