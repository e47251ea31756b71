package ping

import "testing"

func TestWireSeqWrapsAfter65535(t *testing.T) {
	if 1 != wireSeq(1) {
		t.Fatalf("expected wireSeq(1) == 1, got %d", wireSeq(1))
	}
	if 65535 != wireSeq(65535) {
		t.Fatalf("expected wireSeq(65535) == 65535, got %d", wireSeq(65535))
	}
	if 1 != wireSeq(65536) {
		t.Fatalf("expected wireSeq(65536) to wrap to 1, got %d", wireSeq(65536))
	}
	if 2 != wireSeq(65537) {
		t.Fatalf("expected wireSeq(65537) == 2, got %d", wireSeq(65537))
	}
	for probeIndex := 1; probeIndex <= 200000; probeIndex += 37 {
		if 0 == wireSeq(probeIndex) {
			t.Fatalf("wireSeq(%d) produced sequence 0, which must never be issued",
				probeIndex)
		}
	}
}
