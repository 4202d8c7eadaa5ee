package search

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeTimer — управляемый из теста таймер: срабатывает только по Fire.
type fakeTimer struct {
	mu      sync.Mutex
	ch      chan time.Time
	stopped bool
}

func (t *fakeTimer) C() <-chan time.Time { return t.ch }

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	was := t.stopped
	t.stopped = true
	return !was
}

func (t *fakeTimer) Fire() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.ch <- time.Now()
}

type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) NewTimer(_ time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) timer(i int) *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.timers[i]
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

func recvValue(t *testing.T, ch <-chan string) string {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published value")
		return ""
	}
}

func expectNoValue(t *testing.T, ch <-chan string) {
	t.Helper()

	select {
	case v := <-ch:
		t.Fatalf("unexpected published value: %q", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDebouncer_PublishesAfterWindow(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	published := make(chan string, 4)
	d := NewDebouncer(clock, DefaultDelay, func(v string) { published <- v })

	d.Set("water")
	require.True(t, d.Pending())
	expectNoValue(t, published)

	clock.timer(0).Fire()
	require.Equal(t, "water", recvValue(t, published))
	require.False(t, d.Pending())
}

func TestDebouncer_LastValueWins(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	published := make(chan string, 4)
	d := NewDebouncer(clock, DefaultDelay, func(v string) { published <- v })

	d.Set("w")
	d.Set("wa")
	d.Set("wat")
	require.Equal(t, 3, clock.count())

	clock.timer(2).Fire()
	require.Equal(t, "wat", recvValue(t, published))

	// Отменённые таймеры публикаций не порождают.
	expectNoValue(t, published)
}

func TestDebouncer_Flush(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	published := make(chan string, 4)
	d := NewDebouncer(clock, DefaultDelay, func(v string) { published <- v })

	d.Set("instant")
	d.Flush()
	require.Equal(t, "instant", recvValue(t, published))
	require.False(t, d.Pending())

	// Flush без отложенного значения — no-op.
	d.Flush()
	expectNoValue(t, published)
}

func TestDebouncer_Stop(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	published := make(chan string, 4)
	d := NewDebouncer(clock, DefaultDelay, func(v string) { published <- v })

	d.Set("doomed")
	d.Stop()
	require.False(t, d.Pending())
	expectNoValue(t, published)
}

func TestDebouncer_NewWindowAfterPublish(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{}
	published := make(chan string, 4)
	d := NewDebouncer(clock, DefaultDelay, func(v string) { published <- v })

	d.Set("first")
	clock.timer(0).Fire()
	require.Equal(t, "first", recvValue(t, published))

	d.Set("second")
	clock.timer(1).Fire()
	require.Equal(t, "second", recvValue(t, published))
}

func TestDebouncer_SystemClockDefaults(t *testing.T) {
	t.Parallel()

	published := make(chan string, 1)
	d := NewDebouncer(nil, 5*time.Millisecond, func(v string) { published <- v })

	d.Set("real")
	require.Equal(t, "real", recvValue(t, published))
}
