package magiccrc_test

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aalhour/magiccrc"
	"github.com/aalhour/magiccrc/internal/vfs"
)

func ExampleApplyPatch() {
	dir, err := os.MkdirTemp("", "magiccrc-example-*")
	if err != nil {
		panic(err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	path := filepath.Join(dir, "payload.bin")
	if err := os.WriteFile(path, []byte("The quick brown fox jumps over the lazy dog"), 0o644); err != nil {
		panic(err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		panic(err)
	}
	defer func() { _ = f.Close() }()

	if err := magiccrc.ApplyPatch(f, 0xDEADBEEF, magiccrc.Append); err != nil {
		panic(err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		panic(err)
	}
	crc, err := magiccrc.ComputeChecksum(f)
	if err != nil {
		panic(err)
	}
	info, err := f.Stat()
	if err != nil {
		panic(err)
	}

	fmt.Printf("crc=0x%08x size=%d\n", crc, info.Size())
	// Output:
	// crc=0xdeadbeef size=47
}

func ExamplePatchBytes() {
	data := []byte("0000hello, world")

	out, err := magiccrc.PatchBytes(data, 0x00000000, 0)
	if err != nil {
		panic(err)
	}

	crc, _ := magiccrc.ComputeChecksum(bytes.NewReader(out))
	fmt.Printf("crc=0x%08x tail=%q\n", crc, out[4:])
	// Output:
	// crc=0x00000000 tail="hello, world"
}

func ExamplePatcher_Patch() {
	p := magiccrc.NewPatcher(magiccrc.Options{Verify: true})

	data := make([]byte, 100)
	res, err := p.Patch(vfs.NewMemFile(data), magiccrc.DefaultCRC, magiccrc.Append)
	if err != nil {
		panic(err)
	}

	fmt.Printf("offset=%d length=%d appended=%v crc=0x%08x\n", res.Offset, res.Length, res.Appended, res.NewCRC)
	// Output:
	// offset=100 length=104 appended=true crc=0xffffffff
}
