package unet

import (
	"syscall"
	"testing"
	"unsafe"
)

// TestCmsghdrHopLimit exercises CmsghdrAsHopLimit over a real v6 UDP
// loopback round trip: a socket with IPV6_RECVHOPLIMIT enabled should get
// the unicast hop limit back as ancillary data on recvmsg.
func TestCmsghdrHopLimit(t *testing.T) {

	const port = 33558
	const ttl = 37

	dst := Socket{}
	err := dst.
		ResolveNearAddr("::1", port).
		ConstructUdp().
		SetOptReusePort().
		SetOptInt(syscall.IPPROTO_IPV6, syscall.IPV6_RECVHOPLIMIT, 1).
		Bind().
		Error
	if err != nil {
		t.Fatalf("Unable to bind: %s", err)
	}
	defer dst.Close()

	src := Socket{}
	err = src.
		ResolveFarAddr("::1", port).
		ConstructUdp().
		SetOptInt(syscall.IPPROTO_IPV6, syscall.IPV6_UNICAST_HOPS, ttl).
		Connect().
		Error
	if err != nil {
		t.Fatalf("Unable to connect: %s", err)
	}
	defer src.Close()

	err = src.Send([]byte(t.Name()), 0)
	if err != nil {
		t.Fatalf("Unable to send: %s", err)
	}

	dataB := [64]byte{}
	cmsgB := [64]byte{}
	iov := syscall.Iovec{Base: &dataB[0]}
	iov.SetLen(len(dataB))
	msg := syscall.Msghdr{
		Iov:     &iov,
		Iovlen:  1,
		Control: &cmsgB[0],
	}
	msg.SetControllen(len(cmsgB))

	nread, err := dst.RecvMsg(&msg, 0)
	if err != nil {
		t.Fatalf("Unable to recv: %s", err)
	} else if string(dataB[:nread]) != t.Name() {
		t.Fatalf("Got back '%s' instead of '%s'", dataB[:nread], t.Name())
	} else if 0 == msg.Controllen {
		t.Fatalf("Did not get back any ancillary data")
	}

	hopLimit, err := CmsghdrAsHopLimit(
		(*[64]byte)(unsafe.Pointer(msg.Control))[:msg.Controllen:msg.Controllen])
	if err != nil {
		t.Fatalf("Unable to decode hop limit cmsghdr: %s", err)
	} else if ttl != int(hopLimit) {
		t.Fatalf("hop limit should be %d but is %d", ttl, hopLimit)
	}
}
