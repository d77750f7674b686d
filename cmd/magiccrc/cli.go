package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aalhour/magiccrc"
	"github.com/aalhour/magiccrc/internal/compression"
	"github.com/aalhour/magiccrc/internal/logging"
	"github.com/aalhour/magiccrc/internal/undo"
	"github.com/aalhour/magiccrc/internal/vfs"
)

var (
	errBadCRC       = errors.New("not a valid CRC-32 value")
	errOffsetLarge  = errors.New("offset too large")
	errOffsetSmall  = errors.New("offset too small")
	errOffsetNearly = errors.New("negative offsets must be -4 or less")
)

type cli struct {
	fs     vfs.FS
	stdout io.Writer
	stderr io.Writer
	logger logging.Logger
}

// parseCRC accepts 1 to 8 hex digits with an optional 0x prefix.
func parseCRC(s string) (uint32, error) {
	digits := s
	if len(digits) >= 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}
	if len(digits) == 0 || len(digits) > 8 {
		return 0, fmt.Errorf("%w: '%s'", errBadCRC, s)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: '%s'", errBadCRC, s)
	}
	return uint32(v), nil
}

// resolveOffset turns a command-line offset into one the patcher accepts.
// magiccrc.Append passes through; -4 and below count back from the end.
func resolveOffset(offset, length int64) (int64, error) {
	switch {
	case offset == magiccrc.Append:
		return magiccrc.Append, nil
	case offset > length-magiccrc.PatchSize:
		return 0, fmt.Errorf("%w: maximum is %d (file size - 4)", errOffsetLarge, length-magiccrc.PatchSize)
	case offset > -magiccrc.PatchSize && offset < 0:
		return 0, fmt.Errorf("%w: given %d", errOffsetNearly, offset)
	case offset < -length:
		return 0, fmt.Errorf("%w: minimum is %d (0 - file size)", errOffsetSmall, -length)
	case offset < 0:
		return length + offset, nil
	}
	return offset, nil
}

func (c *cli) patch(cfg *config, input, output string) int {
	crc, err := parseCRC(cfg.CRC)
	if err != nil {
		fmt.Fprintf(c.stderr, "Invalid -crc: %v\n", err)
		return exitParams
	}

	var codec compression.Type
	if cfg.Backup != "" {
		if codec, err = compression.ParseType(cfg.Backup); err != nil {
			fmt.Fprintf(c.stderr, "Invalid backup codec: %v\n", err)
			return exitParams
		}
	}

	info, err := c.fs.Stat(input)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(c.stderr, "Input file not found")
			return exitNotFound
		}
		fmt.Fprintf(c.stderr, "Unable to read input file. Details: %v\n", err)
		return exitIO
	}

	same := true
	if output != "" {
		if same, err = vfs.SameFile(c.fs, input, output); err != nil {
			fmt.Fprintf(c.stderr, "Unable to compare input and output: %v\n", err)
			return exitIO
		}
	}

	offset, err := resolveOffset(cfg.Offset, info.Size())
	if err != nil {
		fmt.Fprintf(c.stderr, "%s\n", capitalize(err.Error()))
		return exitInvalidSize
	}
	c.logger.Debugf("%soffset %d resolved to %d for %d bytes", logging.NSCLI, cfg.Offset, offset, info.Size())

	target := input
	if same {
		lock, err := c.fs.Lock(input)
		if err != nil {
			fmt.Fprintf(c.stderr, "Unable to lock input file. Details: %v\n", err)
			return exitIO
		}
		defer func() { _ = lock.Close() }()

		if cfg.Backup != "" {
			if _, err := undo.Save(c.fs, input, undo.Path(input), codec, c.logger); err != nil {
				fmt.Fprintf(c.stderr, "Unable to write backup. Details: %v\n", err)
				return exitIO
			}
		}
	} else {
		if cfg.Backup != "" {
			c.logger.Warnf("%s-backup ignored, %s is not modified", logging.NSCLI, input)
		}
		fmt.Fprintln(c.stderr, "Copying file...")
		if _, err := vfs.CopyFile(c.fs, input, output); err != nil {
			fmt.Fprintf(c.stderr, "Unable to copy input file. Details: %v\n", err)
			return exitIO
		}
		target = output
	}

	f, err := c.fs.OpenReadWrite(target)
	if err != nil {
		fmt.Fprintf(c.stderr, "Unable to open %s. Details: %v\n", target, err)
		return exitIO
	}
	defer func() { _ = f.Close() }()

	fmt.Fprintf(c.stderr, "Updating CRC to 0x%08X\n", crc)
	p := magiccrc.NewPatcher(magiccrc.Options{Logger: c.logger, Verify: cfg.Verify})
	if _, err := p.Patch(f, crc, offset); err != nil {
		fmt.Fprintf(c.stderr, "Unable to update CRC. Details: %v\n", err)
		return exitCode(err)
	}
	if err := f.Sync(); err != nil {
		fmt.Fprintf(c.stderr, "Unable to flush %s. Details: %v\n", target, err)
		return exitIO
	}
	fmt.Fprintln(c.stderr, "Done")
	return exitOK
}

func (c *cli) status(input string) int {
	f, err := c.fs.Open(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(c.stderr, "Input file not found")
			return exitNotFound
		}
		fmt.Fprintf(c.stderr, "Unable to read input file. Details: %v\n", err)
		return exitIO
	}
	defer func() { _ = f.Close() }()

	crc, err := magiccrc.ComputeChecksum(f)
	if err != nil {
		fmt.Fprintf(c.stderr, "Unable to read input file. Details: %v\n", err)
		return exitIO
	}
	size, err := f.Size()
	if err != nil {
		fmt.Fprintf(c.stderr, "Unable to read input file. Details: %v\n", err)
		return exitIO
	}
	fmt.Fprintf(c.stdout, "0x%08X %d %s\n", crc, size, input)
	return exitOK
}

func (c *cli) restore(backup, output string) int {
	if output == "" {
		if !strings.HasSuffix(backup, undo.Suffix) || len(backup) == len(undo.Suffix) {
			fmt.Fprintf(c.stderr, "No output given and %s does not end in %s\n", backup, undo.Suffix)
			return exitParams
		}
		output = strings.TrimSuffix(backup, undo.Suffix)
	}

	if !c.fs.Exists(backup) {
		fmt.Fprintln(c.stderr, "Backup file not found")
		return exitNotFound
	}

	if _, err := undo.Restore(c.fs, backup, output, c.logger); err != nil {
		fmt.Fprintf(c.stderr, "Unable to restore %s. Details: %v\n", output, err)
		return exitCode(err)
	}
	fmt.Fprintln(c.stderr, "Done")
	return exitOK
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
