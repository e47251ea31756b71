package ping

import (
	"net"
	"os"
	"syscall"
	"time"

	"github.com/tredeske/uping/uerr"
	"github.com/tredeske/uping/unet"
	"github.com/tredeske/uping/usync"
)

// session states, per spec.md §4.7's state machine
type sessionState int

const (
	stateInit sessionState = iota
	stateRunning
	stateReporting
	stateExited
)

// SessionState is the single per-process instance owning every entity in
// spec.md §3: options, the resolved target, both raw sockets, the
// in-flight table, the RTT accumulator, and the pacing clock.
//
// The signal handler reads this session through a package level pointer
// (session.active), set once at Init and cleared at teardown - see
// SPEC_FULL.md §10's note on uexit vs. the reactor's own self-pipe signal
// handling.
type SessionState struct {
	Opts   Options
	Target ResolvedTarget

	v4Sock *unet.Socket
	v6Sock *unet.Socket

	Table InFlightTable
	Rtt   RttStats
	Pace  *PacingClock

	report *Report

	ident   uint16
	nextSeq int
	sent    int
	received int
	errors  int

	startedAt time.Time
	state     sessionState

	poller     unet.Poller
	sigCh      chan os.Signal
	sigFired   usync.AtomicBool32
	sigNum     int32
	alarmFired usync.AtomicBool32
	alarmTimer *time.Timer
	// stoppedBySignal distinguishes "loop exited because a signal arrived"
	// from "loop exited because the alarm fired or transmission finished" -
	// the two causes carry different exit codes (spec.md §4.7/§6).
	stoppedBySignal bool

	drainedThisIteration bool
	rxBuf                [2048]byte
	cmsgBuf              [128]byte
}

// active is the process wide pointer the self-pipe's control callback (and,
// in principle, any async-signal-safe teardown path) reaches the running
// session through - see spec.md §9's "global signal state" design note.
var active *SessionState

// NewSession builds a session from already-validated Options and an already
// resolved target. It does not open sockets; call Init for that.
func NewSession(opts Options, target ResolvedTarget) *SessionState {
	s := &SessionState{
		Opts:   opts,
		Target: target,
		Pace:   NewPacingClock(opts.Preload),
		ident:  uint16(os.Getpid() & 0xffff),
		report: NewReport(os.Stdout, opts.Verbose),
	}
	s.nextSeq = 1
	return s
}

// Init opens both raw sockets (non-blocking), sets outgoing TTL/hop limit,
// enables v6 ancillary hop limit delivery, arms the termination alarm, and
// installs signal handling - spec.md §4.7's Init + Alarm + Signals.
func (s *SessionState) Init() (err error) {
	s.v4Sock, err = openRawSocket(syscall.AF_INET, syscall.IPPROTO_ICMP, s.Opts.TTL, false)
	if err != nil {
		return uerr.Chainf(err, "opening raw ipv4 socket")
	}
	s.v6Sock, err = openRawSocket(syscall.AF_INET6, syscall.IPPROTO_ICMPV6, s.Opts.TTL, true)
	if err != nil {
		return uerr.Chainf(err, "opening raw ipv6 socket")
	}

	if err = s.poller.Open(); err != nil {
		return uerr.Chainf(err, "opening poller")
	}
	if err = s.poller.AddControlPipe(onControl); err != nil {
		return uerr.Chainf(err, "adding control pipe")
	}
	if err = s.poller.Add(&unet.Polled{Sock: s.v4Sock, OnInput: s.onV4Readable}); err != nil {
		return uerr.Chainf(err, "polling v4 socket")
	}
	if err = s.poller.Add(&unet.Polled{Sock: s.v6Sock, OnInput: s.onV6Readable}); err != nil {
		return uerr.Chainf(err, "polling v6 socket")
	}

	active = s
	s.installSignals()
	s.armAlarm()

	s.state = stateRunning
	s.startedAt = time.Now()
	return nil
}

// openRawSocket builds one member of the SocketPair.
func openRawSocket(family, proto, ttl int, v6 bool) (sock *unet.Socket, err error) {
	sock = unet.NewSocket()
	sock.NearAddr = unet.AsSockaddr(zeroIpFor(family), 0)
	sock.Construct(syscall.SOCK_RAW, proto)
	if v6 {
		sock.SetOptInt(syscall.IPPROTO_IPV6, syscall.IPV6_UNICAST_HOPS, ttl)
		sock.SetOptInt(syscall.IPPROTO_IPV6, syscall.IPV6_RECVHOPLIMIT, 1)
	} else {
		sock.SetOptInt(syscall.IPPROTO_IP, syscall.IP_TTL, ttl)
	}
	sock.Then(func(sk *unet.Socket) error {
		fd, ok := sk.Fd.Get()
		if !ok {
			return ErrNoFd
		}
		return syscall.SetNonblock(fd, true)
	})
	_, err = sock.Done()
	return
}

const ErrNoFd = uerr.Const("socket fd not available")

// installSignals wires SIGINT/SIGTERM/SIGQUIT to the reactor's self-pipe:
// the handler goroutine only records which signal arrived and nudges the
// poller's control pipe; all actual teardown happens back on the single
// reactor thread - per spec.md §9's design note and §4.7's Signals clause.
// SIGPIPE and job-control stop signals are ignored outright (notifySignals).
// The goroutine reaches the running session through the process-wide
// `active` pointer rather than closing over a particular *SessionState, the
// same way a real signal handler can only ever see global state.
func (s *SessionState) installSignals() {
	s.sigCh = make(chan os.Signal, 4)
	notifySignals(s.sigCh)
	go func() {
		for sig := range s.sigCh {
			if nil == active {
				continue
			}
			active.sigNum = int32(signalNumber(sig))
			active.sigFired.Set()
			active.poller.NudgeControl()
		}
	}()
}

// armAlarm arms the single-shot termination timer described in spec.md
// §4.7: max(0, count - preload) + timeout seconds after start, only when
// count is bounded.
func (s *SessionState) armAlarm() {
	if -1 == s.Opts.Count {
		return
	}
	remaining := s.Opts.Count - s.Opts.Preload
	if remaining < 0 {
		remaining = 0
	}
	d := time.Duration(remaining+s.Opts.Timeout) * time.Second
	s.alarmTimer = time.AfterFunc(d, func() {
		s.alarmFired.Set()
		s.poller.NudgeControl()
	})
}

// onControl runs on the reactor thread when the self-pipe wakes it. It is a
// package level function, not a method, because the signal path only ever
// has a process-wide reference to the running session to work from (spec.md
// §9's "global signal state" design note) - it reaches the session through
// `active` rather than a captured receiver. It never touches the sockets or
// table directly beyond what the loop itself does on exit, keeping the
// actual teardown single threaded.
func onControl() (ok bool, err error) {
	s := active
	if nil == s {
		return false, nil
	}
	if s.sigFired.IsSet() {
		s.report.Signal(int(s.sigNum))
		s.stoppedBySignal = true
		return false, nil
	}
	if s.alarmFired.IsSet() {
		return false, nil
	}
	return true, nil
}

// Teardown drains the table, closes both sockets, releases the alarm and
// signal plumbing, and prints the final summary - spec.md §4.7's Teardown.
// Exit status follows spec.md §6/§4.7: a signal (interrupt/terminate/quit)
// always exits 0, regardless of how many replies came back; an alarm firing
// or transmission simply running out follows the usual 0-if-any-reply rule.
func (s *SessionState) Teardown() (exitCode int) {
	s.state = stateReporting
	if nil != s.alarmTimer {
		s.alarmTimer.Stop()
	}
	if nil != s.sigCh {
		signalStop(s.sigCh)
		close(s.sigCh)
	}
	elapsed := float64(time.Since(s.startedAt)) / float64(time.Millisecond)
	s.report.Summary(s.Target.Text, s.sent, s.received, s.errors, elapsed, s.Rtt)

	s.Table.Drain()
	if nil != s.v4Sock {
		s.v4Sock.Close()
	}
	if nil != s.v6Sock {
		s.v6Sock.Close()
	}
	s.poller.Close()
	active = nil
	s.state = stateExited

	if s.stoppedBySignal {
		return 0
	}
	if 0 == s.received {
		return 1
	}
	return 0
}

// PrintOpening writes the PING banner, per spec.md §6.
func (s *SessionState) PrintOpening() {
	s.report.Opening(s.Target.Text, s.Target.TextAddr(),
		s.Opts.Size, s.Opts.TotalSize()+20, s.Target.V6)
}

// zeroIpFor returns the wildcard address for the given socket family, used
// to let Socket.Construct determine which family to open.
func zeroIpFor(family int) net.IP {
	if syscall.AF_INET6 == family {
		return net.IPv6zero
	}
	return net.IPv4zero
}
