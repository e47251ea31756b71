// Command uping is a user-space ICMP/ICMPv6 echo probe: it sends a paced
// series of Echo Requests to a host and reports loss and round-trip
// latency, interoperating on the wire with standard ping peers.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tredeske/uping/internal/ping"
)

func main() {
	prog := filepath.Base(os.Args[0])

	opts, ok := ping.ParseOptions(prog, os.Args[1:])
	if !ok {
		os.Exit(1)
	}

	target, err := ping.ResolveTarget(opts.Dest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
		os.Exit(1)
	}

	sess := ping.NewSession(opts, target)
	if err = sess.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
		os.Exit(1)
	}

	sess.PrintOpening()
	os.Exit(sess.Run())
}
