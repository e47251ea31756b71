package ping

import "testing"

func TestParseOptionsDefaults(t *testing.T) {
	opts, ok := ParseOptions("uping", []string{"example.com"})
	if !ok {
		t.Fatalf("expected default options to parse")
	}
	if "example.com" != opts.Dest {
		t.Fatalf("unexpected dest: %s", opts.Dest)
	}
	if -1 != opts.Count {
		t.Fatalf("expected unbounded count by default, got %d", opts.Count)
	}
	if DefaultSize != opts.Size {
		t.Fatalf("expected default size %d, got %d", DefaultSize, opts.Size)
	}
	if DefaultTimeout != opts.Timeout {
		t.Fatalf("expected default timeout %d, got %d", DefaultTimeout, opts.Timeout)
	}
	if DefaultTTL != opts.TTL {
		t.Fatalf("expected default ttl %d, got %d", DefaultTTL, opts.TTL)
	}
	if opts.Verbose {
		t.Fatalf("expected verbose off by default")
	}
}

func TestParseOptionsFlags(t *testing.T) {
	opts, ok := ParseOptions("uping",
		[]string{"-v", "-c", "5", "-s", "100", "-l", "2", "-W", "10", "-t", "32", "host"})
	if !ok {
		t.Fatalf("expected options to parse")
	}
	if !opts.Verbose {
		t.Fatalf("expected verbose on")
	}
	if 5 != opts.Count {
		t.Fatalf("expected count 5, got %d", opts.Count)
	}
	if 100 != opts.Size {
		t.Fatalf("expected size 100, got %d", opts.Size)
	}
	if 2 != opts.Preload {
		t.Fatalf("expected preload 2, got %d", opts.Preload)
	}
	if 10 != opts.Timeout {
		t.Fatalf("expected timeout 10, got %d", opts.Timeout)
	}
	if 32 != opts.TTL {
		t.Fatalf("expected ttl 32, got %d", opts.TTL)
	}
	if "host" != opts.Dest {
		t.Fatalf("unexpected dest: %s", opts.Dest)
	}
}

func TestParseOptionsMissingDest(t *testing.T) {
	if _, ok := ParseOptions("uping", nil); ok {
		t.Fatalf("expected failure when no destination given")
	}
}

func TestParseOptionsOutOfRange(t *testing.T) {
	for _, testCase := range []struct {
		name string
		argv []string
	}{
		{"size-too-large", []string{"-s", "70000", "host"}},
		{"preload-too-large", []string{"-l", "4", "host"}},
		{"ttl-zero", []string{"-t", "0", "host"}},
		{"timeout-too-large", []string{"-W", "9999999", "host"}},
	} {
		if _, ok := ParseOptions("uping", testCase.argv); ok {
			t.Fatalf("%s: expected out-of-range option to be rejected", testCase.name)
		}
	}
}

func TestOptionsTotalSize(t *testing.T) {
	opts := Options{Size: 56}
	if 64 != opts.TotalSize() {
		t.Fatalf("expected total size 64, got %d", opts.TotalSize())
	}
}
