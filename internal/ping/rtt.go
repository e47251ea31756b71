package ping

import "sort"

// RttStats accumulates RTT samples (in milliseconds) across a session,
// per spec.md §4.3.  The ordered sample list only exists to make mdev easy
// to compute at report time; it is never consulted mid-session.
type RttStats struct {
	Count   int
	Sum     float64
	Min     float64
	Max     float64
	samples []float64 // kept ascending, per spec.md §3's RttStats invariant
}

// Add records one RTT sample in milliseconds, inserting it into the
// ascending sample list.
func (s *RttStats) Add(rttMs float64) {
	if 0 == s.Count || rttMs < s.Min {
		s.Min = rttMs
	}
	if rttMs > s.Max {
		s.Max = rttMs
	}
	s.Sum += rttMs
	s.Count++

	i := sort.SearchFloat64s(s.samples, rttMs)
	s.samples = append(s.samples, 0)
	copy(s.samples[i+1:], s.samples[i:])
	s.samples[i] = rttMs
}

// Avg returns the mean RTT, or 0 if no samples were recorded.
func (s *RttStats) Avg() float64 {
	if 0 == s.Count {
		return 0
	}
	return s.Sum / float64(s.Count)
}

// Mdev returns the mean deviation Σ|xᵢ − avg| / count, or 0 if no samples
// were recorded.  This is the straightforward formula the spec's resolved
// Open Question calls for - no fancier statistic is computed.
func (s *RttStats) Mdev() float64 {
	if 0 == s.Count {
		return 0
	}
	avg := s.Avg()
	var sumAbsDev float64
	for _, x := range s.samples {
		d := x - avg
		if d < 0 {
			d = -d
		}
		sumAbsDev += d
	}
	return sumAbsDev / float64(s.Count)
}

// Sorted returns a copy of the accumulated samples, ascending.  Exposed
// mainly so tests can assert the ordered-list invariant in spec.md §3
// without poking at unexported state.
func (s *RttStats) Sorted() []float64 {
	out := make([]float64, len(s.samples))
	copy(out, s.samples)
	return out
}
