package ping

import (
	"os"
	"os/signal"
	"syscall"
)

// notifySignals wires the signals spec.md §4.7 calls out: interrupt,
// terminate, and quit cause termination. Pipe, child-stop, and tty-stop are
// explicitly ignored - SIGTSTP's default disposition is to suspend the
// process, so without this a job-control Ctrl-Z would stop uping instead of
// being ignored as required.
func notifySignals(ch chan<- os.Signal) {
	signal.Ignore(syscall.SIGPIPE, syscall.SIGCHLD, syscall.SIGTSTP)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
}

func signalStop(ch chan<- os.Signal) {
	signal.Stop(ch)
}

func signalNumber(sig os.Signal) int {
	if n, ok := sig.(syscall.Signal); ok {
		return int(n)
	}
	return 0
}
