package ping

import (
	"fmt"
	"net"
	"syscall"

	"github.com/tredeske/uping/unet"
)

// ResolvedTarget is the immutable result of resolving a CLI destination
// argument, per spec.md §3.
type ResolvedTarget struct {
	Text     string // original text as given on the command line
	V6       bool
	IP       net.IP
	Sockaddr syscall.Sockaddr
}

// TextAddr is the destination's textual address, as printed in the opening
// and reply lines.
func (t ResolvedTarget) TextAddr() string { return t.IP.String() }

// ResolveTarget resolves host (a hostname or literal v4/v6 address) via the
// resolver collaborator (spec.md §1), yielding family + binary address +
// textual form.
func ResolveTarget(host string) (t ResolvedTarget, err error) {
	ip, err := unet.ResolveIp(host)
	if err != nil {
		err = fmt.Errorf("%s: Name or service not known", host)
		return
	}
	t.Text = host
	t.IP = ip
	t.V6 = nil == ip.To4()
	t.Sockaddr = unet.AsSockaddr(ip, 0)
	return
}
