/*
Package magiccrc forces the CRC-32 of a byte stream to any chosen value by
rewriting exactly four bytes of it.

The checksum is CRC-32/IEEE 802.3, the one used by zip, gzip, PNG and
Ethernet. Given a stream, a desired checksum and the offset of a 4-byte
region, ComputeMagicDelta derives a correction in GF(2)[x] modulo the CRC-32
generator and ApplyPatch XORs its bit-reversed form into the region. Passing
Append as the offset first extends the stream with four zero bytes and
patches those instead, so existing content is left untouched.

# Usage

	f, _ := os.OpenFile("firmware.bin", os.O_RDWR, 0)
	defer f.Close()
	if err := magiccrc.ApplyPatch(f, 0xDEADBEEF, magiccrc.Append); err != nil {
		// errors.Is(err, magiccrc.ErrPrecondition|ErrArithmetic|ErrIO)
	}

For logging, post-patch verification and a detailed Result, use a Patcher:

	p := magiccrc.NewPatcher(magiccrc.Options{Logger: logger, Verify: true})
	res, err := p.Patch(f, 0xDEADBEEF, 0)

# Concurrency

A Patcher holds no per-call state and may be shared. The stream passed to
any operation must not be used concurrently while the operation runs.

# Offsets

The core accepts Append or an absolute offset in [0, length-4]. Offsets
counted back from the end of a file are resolved by the command surface in
cmd/magiccrc.
*/
package magiccrc
