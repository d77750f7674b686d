// Command magiccrc forces the CRC-32 of a file to a chosen value by rewriting
// four bytes of it.
//
// Usage:
//
//	magiccrc [-crc HEX] [-offset N] [-backup CODEC] [-verify] [-v] [-config FILE] <input> [output]
//	magiccrc -status <input>
//	magiccrc -restore BACKUP [output]
//
// Without -offset four bytes are appended. With an output that is not the
// input, the input is copied there first and left untouched.
//
// Every flag can also come from the file named by -config, one flag=value
// per line; flags on the command line win.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nadoo/conflag"

	"github.com/aalhour/magiccrc"
	"github.com/aalhour/magiccrc/internal/compression"
	"github.com/aalhour/magiccrc/internal/logging"
	"github.com/aalhour/magiccrc/internal/undo"
	"github.com/aalhour/magiccrc/internal/vfs"
)

// Exit codes.
const (
	exitOK           = 0
	exitNoArgs       = 1
	exitParams       = 2
	exitInvalidSize  = 3
	exitNotFound     = 4
	exitIO           = 5
	exitArithmetic   = 6
	exitVerification = 7
)

type config struct {
	CRC     string
	Offset  int64
	Backup  string
	Restore string
	Status  bool
	Verify  bool
	Verbose bool
}

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes one invocation and returns the exit code. Only -status writes
// to stdout; progress and errors go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 || isHelp(args[1:]) {
		usage(stderr)
		return exitNoArgs
	}

	cfg, flags, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "ERROR: %s\n", err)
		return exitParams
	}

	level := logging.LevelInfo
	if cfg.Verbose {
		level = logging.LevelDebug
	}
	c := &cli{
		fs:     vfs.Default(),
		stdout: stdout,
		stderr: stderr,
		logger: logging.NewLogger(stderr, level),
	}

	switch {
	case cfg.Restore != "":
		if len(flags) > 1 {
			fmt.Fprintf(stderr, "Unexpected argument: '%s'\n", flags[1])
			return exitParams
		}
		return c.restore(cfg.Restore, firstOr(flags, ""))
	case cfg.Status:
		if len(flags) != 1 {
			fmt.Fprintln(stderr, "-status takes exactly one input file")
			return exitParams
		}
		return c.status(flags[0])
	}

	switch len(flags) {
	case 0:
		fmt.Fprintln(stderr, "No input file given")
		return exitParams
	case 1, 2:
	default:
		fmt.Fprintf(stderr, "Unexpected argument: '%s'\n", flags[2])
		return exitParams
	}
	return c.patch(cfg, flags[0], firstOr(flags[1:], ""))
}

func parseArgs(args []string, stderr io.Writer) (*config, []string, error) {
	cfg := &config{}

	f := conflag.New(args...)
	f.Init(args[0], flag.ContinueOnError)
	f.SetOutput(stderr)
	f.StringVar(&cfg.CRC, "crc", "FFFFFFFF", "new CRC-32 as hex, the 0x prefix is optional")
	f.Int64Var(&cfg.Offset, "offset", magiccrc.Append, "offset of the 4 bytes to change; negative values count from the end, -1 appends")
	f.StringVar(&cfg.Backup, "backup", "", "save the input to <input>.undo before patching it in place, compressed with this codec ("+codecNames()+")")
	f.StringVar(&cfg.Restore, "restore", "", "restore a .undo backup to output (default: the backup name without .undo)")
	f.BoolVar(&cfg.Status, "status", false, "print the CRC-32 and length of the input and exit")
	f.BoolVar(&cfg.Verify, "verify", false, "re-read the file after patching and check the result")
	f.BoolVar(&cfg.Verbose, "v", false, "verbose output")
	f.Usage = func() { usage(stderr) }

	if err := f.Parse(); err != nil {
		return nil, nil, err
	}
	return cfg, f.Args(), nil
}

func isHelp(args []string) bool {
	for _, a := range args {
		switch strings.ToLower(a) {
		case "-h", "-help", "--help", "-?", "/?":
			return true
		}
	}
	return false
}

func usage(w io.Writer) {
	fmt.Fprint(w, `magiccrc [-crc HEX] [-offset N] [-backup CODEC] [-verify] [-v] [-config FILE] <input> [output]
magiccrc -status <input>
magiccrc -restore BACKUP [output]

Forces the CRC-32 of a file to a chosen value by changing 4 bytes.

  -crc HEX        New CRC-32 as hex. Default FFFFFFFF. The prefix 0x is optional.
  -offset N       Offset of the 4 bytes to change. Positive numbers count from
                  the start, -4 and below from the end. Default -1 appends 4
                  new bytes to the file.
  -backup CODEC   Before patching in place, save the file to <input>.undo
                  (`+codecNames()+`).
  -verify         Re-read the file afterwards and check the new CRC-32.
  -status         Print the current CRC-32 and length and exit.
  -restore FILE   Write the original contents held by a .undo backup.
  -config FILE    Read flags from FILE, one flag=value per line.
  -v              Verbose output.
  input           File whose CRC-32 is to change.
  output          Where to write the patched copy. Defaults to the input.
`)
}

func codecNames() string {
	var names []string
	for _, t := range compression.Types() {
		names = append(names, t.String())
	}
	return strings.Join(names, ", ")
}

func firstOr(s []string, def string) string {
	if len(s) == 0 {
		return def
	}
	return s[0]
}

// exitCode maps a magiccrc error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, magiccrc.ErrPrecondition):
		return exitInvalidSize
	case errors.Is(err, magiccrc.ErrArithmetic):
		return exitArithmetic
	case errors.Is(err, magiccrc.ErrVerification), errors.Is(err, undo.ErrCorrupt):
		return exitVerification
	case errors.Is(err, os.ErrNotExist):
		return exitNotFound
	default:
		return exitIO
	}
}
