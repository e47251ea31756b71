package ping

import (
	"fmt"
	"io"
)

// Report prints the human-readable ping protocol output specified in
// spec.md §6.  This is a wire-format contract: it is written directly with
// fmt.Fprintf, never through ulog, which is reserved for operator
// diagnostics (see SPEC_FULL.md §10).
type Report struct {
	w       io.Writer
	verbose bool
}

func NewReport(w io.Writer, verbose bool) *Report {
	return &Report{w: w, verbose: verbose}
}

// Opening prints the PING banner line.  v6 selects the ICMPv6 format,
// which (per the reference implementation) omits the total-with-headers
// figure the v4 form carries.
func (r *Report) Opening(host, textAddr string, dataSize, totalSize int, v6 bool) {
	if v6 {
		fmt.Fprintf(r.w, "PING %s (%s) %d data bytes\n", host, textAddr, dataSize)
	} else {
		fmt.Fprintf(r.w, "PING %s (%s) %d(%d) bytes of data.\n",
			host, textAddr, dataSize, totalSize)
	}
}

// Reply prints one successful-reply line.  hasTime is false when the
// payload was too short to carry a timestamp (spec.md §4.6, §8 boundary
// behavior for -s 0); in that case the time field is omitted entirely.
func (r *Report) Reply(size int, textAddr string, seq int, ident int, ttl uint8, hasTime bool, rttMs float64) {
	switch {
	case r.verbose && hasTime:
		fmt.Fprintf(r.w, "%d bytes from %s: icmp_seq=%d ident=%d ttl=%d time=%.3f ms\n",
			size, textAddr, seq, ident, ttl, rttMs)
	case r.verbose && !hasTime:
		fmt.Fprintf(r.w, "%d bytes from %s: icmp_seq=%d ident=%d ttl=%d\n",
			size, textAddr, seq, ident, ttl)
	case hasTime:
		fmt.Fprintf(r.w, "%d bytes from %s: icmp_seq=%d ttl=%d time=%.3f ms\n",
			size, textAddr, seq, ttl, rttMs)
	default:
		fmt.Fprintf(r.w, "%d bytes from %s: icmp_seq=%d ttl=%d\n",
			size, textAddr, seq, ttl)
	}
}

// Error reasons, matching the reference implementation's wording exactly.
const (
	ReasonTTLExceeded        = "Time to live exceeded"
	ReasonDestUnreachable    = "Destination unreachable"
)

// Error prints a one-line error notification correlated by sequence.
func (r *Report) Error(textAddr string, seq int, reason string) {
	fmt.Fprintf(r.w, "From %s: icmp_seq=%d %s\n", textAddr, seq, reason)
}

// Signal prints the interrupt acknowledgement line (§8 scenario 6).
func (r *Report) Signal(signum int) {
	fmt.Fprintf(r.w, "Received signal %d, exiting...\n", signum)
}

// Summary prints the final statistics block: transmitted/loss/time, then
// (if any replies came back) the rtt line, then (if any errors occurred) a
// standalone errors line - in that order, matching the reference
// implementation's print_stats exactly.  stats is zero-valued when no
// replies were ever received, in which case the rtt line is omitted.
func (r *Report) Summary(host string, sent, received, errs int, elapsed float64, stats RttStats) {
	fmt.Fprintf(r.w, "--- %s ping statistics ---\n", host)

	loss := 0.0
	if 0 != sent {
		loss = float64(sent-received) / float64(sent) * 100
	}
	fmt.Fprintf(r.w, "%d packets transmitted, %d received, %.0f%% packet loss, time %.0fms\n",
		sent, received, loss, elapsed)
	if 0 < stats.Count {
		fmt.Fprintf(r.w, "rtt min/avg/max/mdev = %.3f/%.3f/%.3f/%.3f ms\n",
			stats.Min, stats.Avg(), stats.Max, stats.Mdev())
	}
	if 0 < errs {
		fmt.Fprintf(r.w, "+%d errors.\n", errs)
	}
}
