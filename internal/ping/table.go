package ping

import "time"

// ProbeEntry is one in-flight probe: its sequence, the exact bytes handed
// to the kernel, and when it was sent.
type ProbeEntry struct {
	Seq      uint16
	Bytes    []byte
	SentAt   time.Time
	next     *ProbeEntry
	prev     *ProbeEntry
}

// InFlightTable is a doubly linked list of ProbeEntry keyed by sequence.
// Insert is head-first and O(1); find/expire are linear scans, which is
// acceptable because the table is bounded by the outstanding-probe window
// (typically at most ceil(timeout) seconds worth of probes - see spec.md
// §4.2 and §9's note on linked-vs-indexed tables).
type InFlightTable struct {
	head  *ProbeEntry
	count int
}

// Len returns the number of entries currently in the table.
func (t *InFlightTable) Len() int { return t.count }

// Insert links a new entry at the head.  It returns false without
// modifying the table if seq is already present.
func (t *InFlightTable) Insert(seq uint16, bytes []byte, now time.Time) bool {
	if nil != t.find(seq) {
		return false
	}
	e := &ProbeEntry{Seq: seq, Bytes: bytes, SentAt: now}
	e.next = t.head
	if nil != t.head {
		t.head.prev = e
	}
	t.head = e
	t.count++
	return true
}

func (t *InFlightTable) find(seq uint16) *ProbeEntry {
	for e := t.head; nil != e; e = e.next {
		if e.Seq == seq {
			return e
		}
	}
	return nil
}

// Find looks up seq, returning the entry and whether it was present.
func (t *InFlightTable) Find(seq uint16) (entry ProbeEntry, ok bool) {
	e := t.find(seq)
	if nil == e {
		return
	}
	return *e, true
}

// Remove unlinks and releases the entry for seq.  Silent if absent.
func (t *InFlightTable) Remove(seq uint16) {
	e := t.find(seq)
	if nil == e {
		return
	}
	t.unlink(e)
}

func (t *InFlightTable) unlink(e *ProbeEntry) {
	if nil != e.prev {
		e.prev.next = e.next
	} else {
		t.head = e.next
	}
	if nil != e.next {
		e.next.prev = e.prev
	}
	e.next, e.prev = nil, nil
	t.count--
}

// Expire removes every entry whose age is at least timeout, in one
// traversal, returning the sequences removed so the caller can count them
// as losses.
func (t *InFlightTable) Expire(now time.Time, timeout time.Duration) (expired []uint16) {
	e := t.head
	for nil != e {
		next := e.next
		if now.Sub(e.SentAt) >= timeout {
			expired = append(expired, e.Seq)
			t.unlink(e)
		}
		e = next
	}
	return
}

// Drain removes every entry, releasing its memory.  Used on teardown.
func (t *InFlightTable) Drain() {
	t.head = nil
	t.count = 0
}
