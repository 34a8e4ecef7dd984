package circuit

// failureSampler tracks the outcomes of the last size requests in a ring,
// and the number of failures among them.
type failureSampler struct {
	outcomes []bool
	next     int
	filled   bool
	failures int
}

func newFailureSampler(size int) *failureSampler {
	if size <= 0 {
		size = 1
	}

	return &failureSampler{outcomes: make([]bool, size)}
}

func (s *failureSampler) add(failed bool) {
	if s.filled && s.outcomes[s.next] {
		s.failures--
	}

	s.outcomes[s.next] = failed
	if failed {
		s.failures++
	}

	s.next++
	if s.next == len(s.outcomes) {
		s.next = 0
		s.filled = true
	}
}
