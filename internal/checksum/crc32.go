// Package checksum provides the CRC-32 engine used by the patcher and the
// region fingerprints used to check that a patch stayed local.
//
// The CRC is CRC-32/IEEE 802.3, the checksum used by zip, gzip and Ethernet:
//   - register initialised to 0xFFFFFFFF
//   - input bits processed least significant first (reflected)
//   - reflected generator 0xEDB88320
//   - final register complemented
package checksum

import (
	"hash/crc32"
	"io"
	"math/bits"
)

// ieeeTable is built once and never mutated.
var ieeeTable = crc32.MakeTable(crc32.IEEE)

// copyBufferSize is the read size used when checksumming streams.
const copyBufferSize = 64 << 10

// Value computes the CRC-32 of data.
func Value(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

// Extend computes the CRC-32 of concat(A, data) where initCRC is the CRC-32 of A.
func Extend(initCRC uint32, data []byte) uint32 {
	return crc32.Update(initCRC, ieeeTable, data)
}

// Stream computes the CRC-32 of everything r yields from its current
// position to EOF, returning the checksum and the number of bytes consumed.
// It does not seek; callers that want the whole stream rewind first.
func Stream(r io.Reader) (uint32, int64, error) {
	h := crc32.New(ieeeTable)
	n, err := io.CopyBuffer(h, r, make([]byte, copyBufferSize))
	if err != nil {
		return 0, n, err
	}
	return h.Sum32(), n, nil
}

// Reverse32 reverses the bit order of x.
// The CRC register is reflected relative to the natural polynomial order, so
// values cross between the two domains through this function.
func Reverse32(x uint32) uint32 {
	return bits.Reverse32(x)
}
