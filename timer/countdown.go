package timer

import "time"

// Countdown counts down to zero, then stops itself and calls OnDone.
type Countdown struct {
	t ticker
}

// NewCountdown returns an idle countdown with no time set.
func NewCountdown(opts Options) *Countdown {
	return &Countdown{t: ticker{opts: opts.withDefaults()}}
}

// Set stops the countdown and loads minutes:seconds, clamped to the maximum.
func (c *Countdown) Set(minutes, seconds int) (State, error) {
	if minutes < 0 || seconds < 0 {
		return c.State(), ErrNegative
	}
	c.t.halt()

	total := minutes*60 + seconds
	if limit := int(c.t.opts.Max / time.Second); total > limit {
		total = limit
	}
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	c.t.seconds = total
	return c.t.state(), nil
}

// Start begins counting down. It fails when no time is left and does nothing
// when already running.
func (c *Countdown) Start() (State, error) {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	if c.t.running() {
		return c.t.state(), nil
	}
	if c.t.seconds <= 0 {
		return c.t.state(), ErrNotSet
	}
	c.t.start(func() (State, bool) {
		c.t.seconds--
		return c.t.state(), c.t.seconds > 0
	})
	return c.t.state(), nil
}

// Stop pauses the countdown, keeping the remaining time.
func (c *Countdown) Stop() State {
	c.t.halt()
	return c.State()
}

// State returns the remaining time.
func (c *Countdown) State() State {
	c.t.mu.Lock()
	defer c.t.mu.Unlock()
	return c.t.state()
}
