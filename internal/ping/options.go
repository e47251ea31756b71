package ping

import (
	"flag"
	"fmt"
	"os"

	"github.com/tredeske/uping/uerr"
)

// Options holds the immutable configuration of a session, parsed once from
// the command line.  Bounds are taken from the original ft_ping's
// parse_int_range, not merely copied from the flag package's defaults.
type Options struct {
	Verbose bool
	Count   int // -1 == unbounded
	Size    int // payload size in bytes, before header adjust
	Preload int
	Timeout int // seconds
	TTL     int

	Dest string
}

const (
	minCount, maxCount     = 1, int(^uint(0) >> 1) // INT_MAX analogue
	minSize, maxSize       = 0, 65507
	minPreload, maxPreload = 1, 3
	minTimeout, maxTimeout = 1, 2_099_999
	minTTL, maxTTL         = 1, 255

	DefaultSize    = 56
	DefaultTimeout = 4
	DefaultTTL     = 64
)

// ParseOptions parses argv (excluding argv[0]) into Options, applying the
// same bounds the reference implementation enforces.  On a parse or
// validation failure, usage is printed to stderr and ok is false; the
// caller should exit 1.
func ParseOptions(prog string, argv []string) (opts Options, ok bool) {
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { Usage(os.Stderr, prog) }

	verbose := fs.Bool("v", false, "verbose output")
	count := fs.Int("c", -1, "stop after N probes")
	size := fs.Int("s", DefaultSize, "payload size in bytes")
	preload := fs.Int("l", 0, "burst N packets at session start")
	timeout := fs.Int("W", DefaultTimeout, "per-probe timeout in seconds")
	ttl := fs.Int("t", DefaultTTL, "outgoing TTL / hop limit")
	help := fs.Bool("h", false, "print usage")

	if err := fs.Parse(argv); err != nil {
		return
	}
	if *help {
		Usage(os.Stdout, prog)
		os.Exit(0)
	}

	if 0 == fs.NArg() {
		fmt.Fprintf(os.Stderr, "%s: missing destination host operand\n", prog)
		fs.Usage()
		return
	}

	opts = Options{
		Verbose: *verbose,
		Count:   *count,
		Size:    *size,
		Preload: *preload,
		Timeout: *timeout,
		TTL:     *ttl,
		Dest:    fs.Arg(0),
	}

	if -1 != opts.Count {
		if err := rangeCheck("count", opts.Count, minCount, maxCount); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
			return
		}
	}
	if err := rangeCheck("packet size", opts.Size, minSize, maxSize); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
		return
	}
	if 0 != opts.Preload {
		if err := rangeCheck("preload", opts.Preload, minPreload, maxPreload); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
			return
		}
	}
	if err := rangeCheck("timeout", opts.Timeout, minTimeout, maxTimeout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
		return
	}
	if err := rangeCheck("ttl", opts.TTL, minTTL, maxTTL); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
		return
	}
	ok = true
	return
}

// rangeCheck mirrors parse_int_range's "must be %ld-%ld" phrasing.
func rangeCheck(name string, v, min, max int) (err error) {
	if v < min || v > max {
		err = uerr.Chainf(
			fmt.Errorf("invalid %s: %d (must be %d-%d)", name, v, min, max),
			"option validation")
	}
	return
}

// TotalSize is the wire size of one echo request: payload plus the 8 byte
// echo header.  Kept distinct from Size throughout, per the resolved Open
// Question in spec.md §9 ("payload size" and "total size" as two named
// quantities, never merged in place).
func (o Options) TotalSize() int { return o.Size + 8 }

func Usage(w *os.File, prog string) {
	fmt.Fprintf(w, `Usage: %s [options] <destination>

  -v          verbose output
  -c N        stop after N probes (1..%d)
  -s N        payload size in bytes (%d..%d)
  -l N        burst N packets at session start (%d..%d)
  -W N        per-probe timeout in seconds (%d..%d)
  -t N        outgoing TTL / hop limit (%d..%d)
  -h          print this help and exit
`, prog, maxCount, minSize, maxSize, minPreload, maxPreload,
		minTimeout, maxTimeout, minTTL, maxTTL)
}
