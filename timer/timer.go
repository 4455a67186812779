// Package timer implements the classroom countdown and stopwatch. Both count
// whole seconds on their own goroutine and report through callbacks.
package timer

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Default limits.
const (
	DefaultMax      = 60 * time.Minute
	DefaultInterval = time.Second
)

var (
	ErrNegative = errors.New("time cannot be negative")
	ErrNotSet   = errors.New("set a time first")
)

// Format renders seconds as MM:SS. Minutes are not wrapped at 60.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// State is a point-in-time view of a timer.
type State struct {
	Seconds int    `json:"seconds"`
	Running bool   `json:"running"`
	Display string `json:"display"`
}

// Options configure a timer. Zero values select the defaults.
type Options struct {
	Max      time.Duration
	Interval time.Duration
	OnTick   func(State)
	OnDone   func(State)
}

func (o Options) withDefaults() Options {
	if o.Max <= 0 {
		o.Max = DefaultMax
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	return o
}

// ticker runs step every interval until step returns false or stop is called.
type ticker struct {
	mu      sync.Mutex
	opts    Options
	seconds int
	stop    chan struct{}
	done    chan struct{}
	// calling is the done channel of the loop whose callbacks are running.
	calling chan struct{}
}

func (t *ticker) running() bool {
	return t.stop != nil
}

func (t *ticker) state() State {
	return State{Seconds: t.seconds, Running: t.running(), Display: Format(t.seconds)}
}

// start launches the loop. The caller holds t.mu.
func (t *ticker) start(step func() (State, bool)) {
	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	go func() {
		defer close(done)
		tk := time.NewTicker(t.opts.Interval)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				t.mu.Lock()
				if t.stop != stop {
					t.mu.Unlock()
					return
				}
				st, more := step()
				if !more {
					t.stop, t.done = nil, nil
					st.Running = false
				}
				t.calling = done
				t.mu.Unlock()

				t.notify(st, more)

				t.mu.Lock()
				if t.calling == done {
					t.calling = nil
				}
				t.mu.Unlock()
				if !more {
					return
				}
			}
		}
	}()
}

func (t *ticker) notify(st State, more bool) {
	if t.opts.OnTick != nil {
		t.opts.OnTick(st)
	}
	if !more && t.opts.OnDone != nil {
		t.opts.OnDone(st)
	}
}

// halt stops the loop and waits for it to exit. It is a no-op when idle.
// Called from OnTick or OnDone it does not wait, since the loop exits as soon
// as the callback returns.
func (t *ticker) halt() {
	t.mu.Lock()
	stop, done := t.stop, t.done
	inCallback := done != nil && t.calling == done
	t.stop, t.done = nil, nil
	t.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	if !inCallback {
		<-done
	}
}
