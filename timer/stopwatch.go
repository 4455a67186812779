package timer

import "time"

// Stopwatch counts elapsed seconds up to the maximum, where it stops itself.
type Stopwatch struct {
	t ticker
}

// NewStopwatch returns a stopwatch at zero.
func NewStopwatch(opts Options) *Stopwatch {
	return &Stopwatch{t: ticker{opts: opts.withDefaults()}}
}

// Start resumes counting. It does nothing when already running or at the cap.
func (s *Stopwatch) Start() State {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	limit := int(s.t.opts.Max / time.Second)
	if s.t.running() || s.t.seconds >= limit {
		return s.t.state()
	}
	s.t.start(func() (State, bool) {
		s.t.seconds++
		return s.t.state(), s.t.seconds < limit
	})
	return s.t.state()
}

// Stop pauses counting.
func (s *Stopwatch) Stop() State {
	s.t.halt()
	return s.State()
}

// Reset stops and zeroes the stopwatch.
func (s *Stopwatch) Reset() State {
	s.t.halt()
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	s.t.seconds = 0
	return s.t.state()
}

// State returns the elapsed time.
func (s *Stopwatch) State() State {
	s.t.mu.Lock()
	defer s.t.mu.Unlock()
	return s.t.state()
}
