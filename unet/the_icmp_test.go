package unet

import (
	"encoding/binary"
	"testing"
	"time"
)

func TestBuildEchoRequestChecksumV4(t *testing.T) {
	buf := make([]byte, 64)
	BuildEchoRequest(buf, false, 0x1234, 7, time.Now())

	if ICMP_ECHO != int(buf[0]) {
		t.Fatalf("expected type %d, got %d", ICMP_ECHO, buf[0])
	}
	if 0x1234 != binary.BigEndian.Uint16(buf[4:6]) {
		t.Fatalf("identifier not encoded correctly")
	}
	if 7 != binary.BigEndian.Uint16(buf[6:8]) {
		t.Fatalf("sequence not encoded correctly")
	}
	// recomputing the checksum over the full buffer (checksum field included)
	// must fold to zero - the defining property of the one's complement sum.
	if 0 != InternetChecksum(buf) {
		t.Fatalf("checksum did not verify: recomputed %#x", InternetChecksum(buf))
	}
}

func TestBuildEchoRequestLeavesV6ChecksumZero(t *testing.T) {
	buf := make([]byte, 64)
	BuildEchoRequest(buf, true, 0x1234, 7, time.Now())

	if ICMPV6_ECHO_REQUEST != int(buf[0]) {
		t.Fatalf("expected type %d, got %d", ICMPV6_ECHO_REQUEST, buf[0])
	}
	if 0 != binary.BigEndian.Uint16(buf[2:4]) {
		t.Fatalf("v6 checksum should be left zero for the kernel to fill in")
	}
}

func TestDecodeV4EchoReply(t *testing.T) {
	buf := make([]byte, 20+EchoHdrLen+16)
	buf[0] = 0x45 // version 4, ihl 5 (20 bytes)
	buf[8] = 55   // ttl
	icmp := buf[20:]
	icmp[0] = ICMP_ECHOREPLY
	binary.BigEndian.PutUint16(icmp[4:6], 0xabcd)
	binary.BigEndian.PutUint16(icmp[6:8], 42)
	sentAt := time.Now().Add(-10 * time.Millisecond)
	payload := icmp[EchoHdrLen:]
	sec := uint64(sentAt.Unix())
	usec := uint64(sentAt.Nanosecond() / 1000)
	binary.LittleEndian.PutUint64(payload[0:8], sec)
	binary.LittleEndian.PutUint64(payload[8:16], usec)

	d, err := DecodeV4(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %s", err)
	}
	if KindReply != d.Kind {
		t.Fatalf("expected KindReply, got %v", d.Kind)
	}
	if 55 != d.TTL {
		t.Fatalf("expected ttl 55, got %d", d.TTL)
	}
	if 0xabcd != d.Id || 42 != d.Seq {
		t.Fatalf("unexpected id/seq: %#v", d)
	}
	rtt, ok := d.RTT(time.Now())
	if !ok {
		t.Fatalf("expected an rtt")
	}
	if rtt <= 0 {
		t.Fatalf("expected a positive rtt, got %v", rtt)
	}
}

func TestDecodeV4DestUnreachableCorrelatesInnerEcho(t *testing.T) {
	const innerIhl = 20
	buf := make([]byte, 20+EchoHdrLen+innerIhl+EchoHdrLen)
	buf[0] = 0x45
	buf[8] = 64
	icmp := buf[20:]
	icmp[0] = ICMP_DEST_UNREACH
	embedded := icmp[EchoHdrLen:]
	embedded[0] = 0x45 // embedded original IP header
	inner := embedded[innerIhl:]
	inner[0] = ICMP_ECHO
	binary.BigEndian.PutUint16(inner[4:6], 0x55aa)
	binary.BigEndian.PutUint16(inner[6:8], 99)

	d, err := DecodeV4(buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %s", err)
	}
	if KindError != d.Kind {
		t.Fatalf("expected KindError, got %v", d.Kind)
	}
	if 0x55aa != d.InnerId || 99 != d.InnerSeq {
		t.Fatalf("unexpected inner id/seq: %#v", d)
	}
}

func TestDecodeV6EchoReply(t *testing.T) {
	buf := make([]byte, EchoHdrLen+8)
	buf[0] = ICMPV6_ECHO_REPLY
	binary.BigEndian.PutUint16(buf[4:6], 0x2222)
	binary.BigEndian.PutUint16(buf[6:8], 5)

	d, err := DecodeV6(buf, 58)
	if err != nil {
		t.Fatalf("unexpected decode error: %s", err)
	}
	if KindReply != d.Kind {
		t.Fatalf("expected KindReply, got %v", d.Kind)
	}
	if 58 != d.TTL {
		t.Fatalf("expected hop limit 58, got %d", d.TTL)
	}
	if 0x2222 != d.Id || 5 != d.Seq {
		t.Fatalf("unexpected id/seq: %#v", d)
	}
}

func TestDecodeV6TimeExceededCorrelatesInnerEcho(t *testing.T) {
	buf := make([]byte, EchoHdrLen+40+EchoHdrLen)
	buf[0] = ICMPV6_TIME_EXCEED
	inner := buf[EchoHdrLen+40:]
	inner[0] = ICMPV6_ECHO_REQUEST
	binary.BigEndian.PutUint16(inner[4:6], 0x3333)
	binary.BigEndian.PutUint16(inner[6:8], 17)

	d, err := DecodeV6(buf, 64)
	if err != nil {
		t.Fatalf("unexpected decode error: %s", err)
	}
	if KindError != d.Kind {
		t.Fatalf("expected KindError, got %v", d.Kind)
	}
	if 0x3333 != d.InnerId || 17 != d.InnerSeq {
		t.Fatalf("unexpected inner id/seq: %#v", d)
	}
}

func TestDecodeTooShortIsRejected(t *testing.T) {
	if _, err := DecodeV4(make([]byte, 10)); err == nil {
		t.Fatalf("expected error decoding an undersized v4 datagram")
	}
	if _, err := DecodeV6(make([]byte, 2), 64); err == nil {
		t.Fatalf("expected error decoding an undersized v6 datagram")
	}
}
