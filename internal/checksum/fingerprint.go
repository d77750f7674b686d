package checksum

import (
	"fmt"
	"io"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns the XXH3-64 hash of data.
func Fingerprint(data []byte) uint64 {
	return xxh3.Hash(data)
}

// FingerprintExcluding hashes every byte of rs except the n bytes starting at
// start. Two calls that exclude the same region return the same value if and
// only if (with overwhelming probability) nothing outside that region moved.
//
// rs is rewound to the start first and left at EOF.
func FingerprintExcluding(rs io.ReadSeeker, start, n int64) (uint64, error) {
	if start < 0 || n < 0 {
		return 0, fmt.Errorf("checksum: invalid excluded region [%d, %d+%d)", start, start, n)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	h := xxh3.New()
	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(h, io.LimitReader(rs, start), buf); err != nil {
		return 0, err
	}
	if _, err := rs.Seek(start+n, io.SeekStart); err != nil {
		return 0, err
	}
	if _, err := io.CopyBuffer(h, rs, buf); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
