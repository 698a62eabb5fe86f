package notify

import (
	"sync"
	"testing"
	"time"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	wasActive := !t.stopped && !t.fired
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and fires due timers in order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func TestPushAutoDismissAfterTTL(t *testing.T) {
	clock := newFakeClock()
	q := NewQueue(clock, 0)

	n := q.Push("Meal analyzed successfully!", KindSuccess)
	if q.Len() != 1 {
		t.Fatalf("expected 1 visible, got %d", q.Len())
	}
	clock.Advance(4999 * time.Millisecond)
	if q.Len() != 1 {
		t.Fatalf("expected notification to survive until 5s")
	}
	clock.Advance(time.Millisecond)
	if q.Len() != 0 {
		t.Fatalf("expected notification %s dismissed after 5s", n.ID)
	}
}

func TestIndependentTimers(t *testing.T) {
	clock := newFakeClock()
	q := NewQueue(clock, 5*time.Second)

	first := q.Push("first", KindInfo)
	clock.Advance(2 * time.Second)
	second := q.Push("second", KindError)

	list := q.List()
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected both visible in push order, got %+v", list)
	}

	clock.Advance(3 * time.Second)
	list = q.List()
	if len(list) != 1 || list[0].ID != second.ID {
		t.Fatalf("expected only second visible, got %+v", list)
	}

	clock.Advance(2 * time.Second)
	if q.Len() != 0 {
		t.Fatalf("expected empty queue")
	}
}

func TestManualDismissLeavesOthers(t *testing.T) {
	clock := newFakeClock()
	q := NewQueue(clock, 0)

	a := q.Push("a", KindInfo)
	b := q.Push("b", KindInfo)
	if !q.Dismiss(a.ID) {
		t.Fatalf("expected dismiss to succeed")
	}
	if q.Dismiss(a.ID) {
		t.Fatalf("expected second dismiss to report false")
	}
	list := q.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected only b visible, got %+v", list)
	}
	clock.Advance(DefaultTTL)
	if q.Len() != 0 {
		t.Fatalf("expected b to expire on its own timer")
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	clock := newFakeClock()
	q := NewQueue(clock, 0)

	var got []EventType
	cancel := q.Subscribe(func(ev Event) { got = append(got, ev.Type) })
	n := q.Push("hello", KindInfo)
	q.Dismiss(n.ID)
	cancel()
	q.Push("ignored", KindInfo)

	want := []EventType{EventPushed, EventDismissed}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"success": KindSuccess,
		"error":   KindError,
		"info":    KindInfo,
		"warning": KindInfo,
		"":        KindInfo,
	}
	for raw, want := range tests {
		if got := ParseKind(raw); got != want {
			t.Fatalf("ParseKind(%q) = %q, want %q", raw, got, want)
		}
	}
}
