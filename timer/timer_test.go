package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		5:    "00:05",
		65:   "01:05",
		600:  "10:00",
		3600: "60:00",
		-3:   "00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, Format(in), "Format(%d)", in)
	}
}

type events struct {
	mu    sync.Mutex
	ticks []State
	done  []State
}

func (e *events) options(interval time.Duration) Options {
	return Options{
		Interval: interval,
		OnTick: func(s State) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.ticks = append(e.ticks, s)
		},
		OnDone: func(s State) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.done = append(e.done, s)
		},
	}
}

func (e *events) doneCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.done)
}

func TestCountdownSet(t *testing.T) {
	c := NewCountdown(Options{})

	_, err := c.Set(-1, 0)
	assert.ErrorIs(t, err, ErrNegative)
	_, err = c.Set(0, -5)
	assert.ErrorIs(t, err, ErrNegative)

	st, err := c.Set(2, 5)
	require.NoError(t, err)
	assert.Equal(t, State{Seconds: 125, Display: "02:05"}, st)

	st, err = c.Set(90, 0)
	require.NoError(t, err)
	assert.Equal(t, 3600, st.Seconds)
}

func TestCountdownStartRequiresTime(t *testing.T) {
	c := NewCountdown(Options{})
	_, err := c.Start()
	assert.ErrorIs(t, err, ErrNotSet)
	assert.False(t, c.State().Running)
}

func TestCountdownRunsToZero(t *testing.T) {
	ev := &events{}
	c := NewCountdown(ev.options(10 * time.Millisecond))
	_, err := c.Set(0, 3)
	require.NoError(t, err)

	st, err := c.Start()
	require.NoError(t, err)
	assert.True(t, st.Running)

	st, err = c.Start()
	require.NoError(t, err)
	assert.True(t, st.Running)

	require.Eventually(t, func() bool { return ev.doneCount() == 1 }, time.Second, time.Millisecond)

	final := c.State()
	assert.Equal(t, 0, final.Seconds)
	assert.False(t, final.Running)

	ev.mu.Lock()
	defer ev.mu.Unlock()
	require.Len(t, ev.ticks, 3)
	assert.Equal(t, []int{2, 1, 0}, []int{ev.ticks[0].Seconds, ev.ticks[1].Seconds, ev.ticks[2].Seconds})
	assert.Equal(t, "00:00", ev.done[0].Display)
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	c := NewCountdown(Options{Interval: time.Hour})
	_, err := c.Set(1, 0)
	require.NoError(t, err)
	_, err = c.Start()
	require.NoError(t, err)

	st := c.Stop()
	assert.False(t, st.Running)
	assert.Equal(t, 60, st.Seconds)
	assert.Equal(t, st, c.Stop())
}

func TestStopwatch(t *testing.T) {
	ev := &events{}
	opts := ev.options(time.Millisecond)
	opts.Max = 5 * time.Second
	s := NewStopwatch(opts)

	assert.True(t, s.Start().Running)
	assert.True(t, s.Start().Running)

	require.Eventually(t, func() bool { return ev.doneCount() == 1 }, time.Second, time.Millisecond)
	st := s.State()
	assert.Equal(t, 5, st.Seconds)
	assert.False(t, st.Running)

	assert.False(t, s.Start().Running)

	st = s.Reset()
	assert.Equal(t, State{Seconds: 0, Display: "00:00"}, st)
	assert.Equal(t, st, s.Stop())
}

func TestStopwatchStopKeepsElapsed(t *testing.T) {
	s := NewStopwatch(Options{Interval: time.Millisecond})
	s.Start()
	require.Eventually(t, func() bool { return s.State().Seconds >= 2 }, time.Second, time.Millisecond)

	st := s.Stop()
	assert.False(t, st.Running)
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, st.Seconds, s.State().Seconds)
}

func TestStopFromTickCallback(t *testing.T) {
	stopped := make(chan State, 1)
	var sw *Stopwatch
	sw = NewStopwatch(Options{
		Interval: time.Millisecond,
		OnTick: func(st State) {
			if st.Seconds == 2 {
				stopped <- sw.Stop()
			}
		},
	})
	sw.Start()

	select {
	case st := <-stopped:
		assert.False(t, st.Running)
		assert.Equal(t, 2, st.Seconds)
	case <-time.After(2 * time.Second):
		t.Fatal("Stop called from OnTick did not return")
	}
	assert.Equal(t, 2, sw.State().Seconds)
}

func TestCountdownRestartFromDoneCallback(t *testing.T) {
	restarted := make(chan error, 1)
	var cd *Countdown
	cd = NewCountdown(Options{
		Interval: time.Millisecond,
		OnDone: func(State) {
			_, err := cd.Set(0, 30)
			restarted <- err
		},
	})
	_, err := cd.Set(0, 1)
	require.NoError(t, err)
	_, err = cd.Start()
	require.NoError(t, err)

	select {
	case err := <-restarted:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Set called from OnDone did not return")
	}
	assert.Equal(t, 30, cd.State().Seconds)
	assert.False(t, cd.State().Running)
}
