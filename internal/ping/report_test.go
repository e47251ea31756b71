package ping

import (
	"bytes"
	"testing"
)

func TestReportOpening(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&buf, false)

	r.Opening("example.com", "93.184.216.34", 56, 84, false)
	want := "PING example.com (93.184.216.34) 56(84) bytes of data.\n"
	if want != buf.String() {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	r.Opening("example.com", "2606:2800:220:1:248:1893:25c8:1946", 56, 84, true)
	want = "PING example.com (2606:2800:220:1:248:1893:25c8:1946) 56 data bytes\n"
	if want != buf.String() {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestReportReplyVariants(t *testing.T) {
	for _, testCase := range []struct {
		name    string
		verbose bool
		hasTime bool
		want    string
	}{
		{
			name:    "verbose-with-time",
			verbose: true,
			hasTime: true,
			want:    "64 bytes from 1.2.3.4: icmp_seq=1 ident=99 ttl=63 time=1.500 ms\n",
		}, {
			name:    "verbose-without-time",
			verbose: true,
			hasTime: false,
			want:    "64 bytes from 1.2.3.4: icmp_seq=1 ident=99 ttl=63\n",
		}, {
			name:    "plain-with-time",
			verbose: false,
			hasTime: true,
			want:    "64 bytes from 1.2.3.4: icmp_seq=1 ttl=63 time=1.500 ms\n",
		}, {
			name:    "plain-without-time",
			verbose: false,
			hasTime: false,
			want:    "64 bytes from 1.2.3.4: icmp_seq=1 ttl=63\n",
		},
	} {
		var buf bytes.Buffer
		r := NewReport(&buf, testCase.verbose)
		r.Reply(64, "1.2.3.4", 1, 99, 63, testCase.hasTime, 1.5)
		if testCase.want != buf.String() {
			t.Fatalf("%s: got %q, want %q", testCase.name, buf.String(), testCase.want)
		}
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&buf, false)
	r.Error("1.2.3.4", 7, ReasonTTLExceeded)
	want := "From 1.2.3.4: icmp_seq=7 Time to live exceeded\n"
	if want != buf.String() {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestReportSummaryNoErrorsNoRtt(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&buf, false)
	r.Summary("example.com", 4, 4, 0, 3021, RttStats{})
	want := "--- example.com ping statistics ---\n" +
		"4 packets transmitted, 4 received, 0% packet loss, time 3021ms\n"
	if want != buf.String() {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestReportSummaryWithErrorsAndRtt(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&buf, false)

	var stats RttStats
	stats.Add(10)
	stats.Add(30)

	r.Summary("example.com", 4, 2, 1, 3021, stats)
	want := "--- example.com ping statistics ---\n" +
		"4 packets transmitted, 2 received, 50% packet loss, time 3021ms\n" +
		"rtt min/avg/max/mdev = 10.000/20.000/30.000/10.000 ms\n" +
		"+1 errors.\n"
	if want != buf.String() {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestReportSignal(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&buf, false)
	r.Signal(2)
	want := "Received signal 2, exiting...\n"
	if want != buf.String() {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
