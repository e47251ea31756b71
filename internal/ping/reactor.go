package ping

import (
	"syscall"
	"time"
	"unsafe"

	"github.com/tredeske/uping/ulog"
	"github.com/tredeske/uping/unet"
)

// Run drives the reactor loop described in spec.md §4.5 to completion and
// returns the process exit code (teardown already performed).
//
// Each iteration is one of {emit-and-poll, poll-only, timeout-only}. The
// loop condition is ¬transmission_complete ∨ table non-empty.
func (s *SessionState) Run() (exitCode int) {
	for !s.Pace.Complete() || 0 < s.Table.Len() {
		now := time.Now()

		if s.Pace.ShouldSend(s.Opts.Count, s.nextSeq, now) {
			s.emit(now)
		}
		if -1 != s.Opts.Count && s.nextSeq > s.Opts.Count {
			s.Pace.SetComplete()
		}

		t := s.Pace.PollTimeout(time.Now())
		s.drainedThisIteration = false

		// Poller.Poll reports EINTR as (true, nil), so an interrupted poll
		// just goes round this loop again (spec.md §7); any error it does
		// surface is a genuine poll failure.
		ok, err := s.poller.Poll(int(t / time.Millisecond))
		if err != nil {
			ulog.Warnf("poll: %s", err)
			break // still emit report, per spec.md §7
		}
		if !ok {
			// either a signal or the alarm fired; onControl already printed
			// whatever needed printing for a signal. Either way: stop.
			break
		}
		if !s.drainedThisIteration {
			s.expire(time.Now())
		}
	}
	return s.Teardown()
}

// wireSeq maps the monotonically increasing probe index (s.nextSeq, which
// keeps counting past 65535 so -c bookkeeping and pacing stay correct) into
// the [1,65535] range an ICMP sequence number actually occupies on the wire.
// Sequence 0 must never be issued: spec.md §4.1/§8 requires wraparound to go
// straight from 65535 to 1.
func wireSeq(probeIndex int) uint16 {
	return uint16(((probeIndex-1)%65535)+1)
}

// emit builds and sends the next probe, per spec.md §4.5 step 1. The
// ordering guarantee (insert into table strictly before sendto) is
// maintained here.
func (s *SessionState) emit(now time.Time) {
	seq := wireSeq(s.nextSeq)
	buf := make([]byte, s.Opts.TotalSize())
	unet.BuildEchoRequest(buf, s.Target.V6, s.ident, seq, now)

	s.Table.Insert(seq, buf, now)

	var err error
	if s.Target.V6 {
		err = s.v6Sock.SendTo(buf, 0, s.Target.Sockaddr)
	} else {
		err = s.v4Sock.SendTo(buf, 0, s.Target.Sockaddr)
	}
	if err != nil {
		ulog.Warnf("sendto %s: %s", s.Target.TextAddr(), err)
		s.Table.Remove(seq) // never left the socket; don't count it as in flight
		return
	}
	s.Pace.RecordSend(now)
	s.sent++
	s.nextSeq++
}

// expire drops every in-flight entry that has outlived the per-probe
// timeout, counting each as a loss (spec.md §4.5 step 6, §4.2's expire).
func (s *SessionState) expire(now time.Time) {
	timeout := time.Duration(s.Opts.Timeout) * time.Second
	s.Table.Expire(now, timeout)
}

// onV4Readable and onV6Readable are the Poller callbacks for each raw
// socket. Only the first one to see readable data in a given reactor
// iteration actually drains a datagram - spec.md §4.5 step 5 ("drain
// exactly one datagram from the first readable descriptor, to avoid
// starving pacing").
func (s *SessionState) onV4Readable(p *unet.Polled) (ok bool, err error) {
	if s.drainedThisIteration {
		return true, nil
	}
	s.drainedThisIteration = true
	s.receiveV4()
	return true, nil
}

func (s *SessionState) onV6Readable(p *unet.Polled) (ok bool, err error) {
	if s.drainedThisIteration {
		return true, nil
	}
	s.drainedThisIteration = true
	s.receiveV6()
	return true, nil
}

// receiveV4 reads one v4 datagram via recvfrom and hands it to the shared
// dispatch logic. Spec.md §4.6.
func (s *SessionState) receiveV4() {
	n, _, err := s.v4Sock.RecvFrom(s.rxBuf[:], syscall.MSG_DONTWAIT)
	if err != nil {
		s.handleRecvErr(err)
		return
	}
	d, derr := unet.DecodeV4(s.rxBuf[:n])
	if derr != nil {
		return // malformed/mismatched datagram: silently drop, §4.6 step 5
	}
	s.dispatch(d)
}

// receiveV6 reads one v6 datagram via recvmsg, also retrieving the true hop
// limit from ancillary data (spec.md §9, §12's supplemented re-architecture).
func (s *SessionState) receiveV6() {
	iov := syscall.Iovec{Base: &s.rxBuf[0]}
	iov.SetLen(len(s.rxBuf))
	msg := syscall.Msghdr{
		Iov:     &iov,
		Iovlen:  1,
		Control: &s.cmsgBuf[0],
	}
	msg.SetControllen(len(s.cmsgBuf))

	n, err := s.v6Sock.RecvMsg(&msg, syscall.MSG_DONTWAIT)
	if err != nil {
		s.handleRecvErr(err)
		return
	}
	hopLimit := uint8(64) // fallback per spec.md §9 if ancillary data absent
	if 0 < msg.Controllen {
		if hl, hlErr := unet.CmsghdrAsHopLimit(
			(*[128]byte)(unsafe.Pointer(msg.Control))[:msg.Controllen:msg.Controllen]); nil == hlErr {
			hopLimit = hl
		}
	}
	d, derr := unet.DecodeV6(s.rxBuf[:n], hopLimit)
	if derr != nil {
		return
	}
	s.dispatch(d)
}

// handleRecvErr implements spec.md §7's recvfrom disposition: transient
// errors are benign, permanent ones get logged and the loop continues.
func (s *SessionState) handleRecvErr(err error) {
	if syscall.EAGAIN == err || syscall.EWOULDBLOCK == err {
		return
	}
	ulog.Warnf("recvfrom: %s", err)
}

// dispatch is the shared portion of the receive path (spec.md §4.6 steps
// 2-5), operating on a family-agnostic Decoded view.
func (s *SessionState) dispatch(d unet.Decoded) {
	switch d.Kind {
	case unet.KindReply:
		s.handleReply(d)
	case unet.KindError:
		s.handleError(d)
	default:
		// unrecognized: silently drop
	}
}

func (s *SessionState) handleReply(d unet.Decoded) {
	if d.Id != s.ident {
		return // not ours
	}
	if _, ok := s.Table.Find(d.Seq); !ok {
		return // duplicate or stray
	}
	now := time.Now()
	rtt, hasTime := d.RTT(now)
	rttMs := float64(rtt) / float64(time.Millisecond)
	if hasTime {
		s.Rtt.Add(rttMs)
	}
	s.report.Reply(len(d.Payload)+unet.EchoHdrLen, s.Target.TextAddr(),
		int(d.Seq), int(s.ident), d.TTL, hasTime, rttMs)
	s.Table.Remove(d.Seq)
	s.received++
}

func (s *SessionState) handleError(d unet.Decoded) {
	if d.InnerId != s.ident {
		return // embedded echo identifier does not match session, §4.1
	}
	_, ok := s.Table.Find(d.InnerSeq)
	if !ok {
		return
	}
	reason := ReasonDestUnreachable
	isV6TimeExceeded := unet.ICMPV6_TIME_EXCEED == int(d.Type)
	isV4TimeExceeded := unet.ICMP_TIME_EXCEEDED == int(d.Type)
	if isV4TimeExceeded || isV6TimeExceeded {
		reason = ReasonTTLExceeded
	}
	s.report.Error(s.Target.TextAddr(), int(d.InnerSeq), reason)
	s.Table.Remove(d.InnerSeq)
	s.errors++
}
