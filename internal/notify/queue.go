package notify

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long a notification stays visible without user action.
const DefaultTTL = 5 * time.Second

type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// ParseKind falls back to info for unknown values.
func ParseKind(raw string) Kind {
	switch Kind(raw) {
	case KindSuccess, KindError:
		return Kind(raw)
	default:
		return KindInfo
	}
}

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	seq       uint64
}

type EventType string

const (
	EventPushed    EventType = "pushed"
	EventDismissed EventType = "dismissed"
)

// Event is delivered to subscribers on every push and dismissal.
type Event struct {
	Type         EventType    `json:"type"`
	Notification Notification `json:"notification"`
}

// Timer is the subset of *time.Timer the queue needs.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so expiry can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type entry struct {
	n     Notification
	timer Timer
}

// Queue holds the currently visible notifications. Each one carries its own
// timer; dismissing one never touches the others.
type Queue struct {
	mu     sync.Mutex
	clock  Clock
	ttl    time.Duration
	seq    uint64
	items  map[string]*entry
	subs   map[int]func(Event)
	nextID int
}

// NewQueue returns an empty queue. A nil clock uses SystemClock and a
// non-positive ttl uses DefaultTTL.
func NewQueue(clock Clock, ttl time.Duration) *Queue {
	if clock == nil {
		clock = SystemClock
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		clock: clock,
		ttl:   ttl,
		items: make(map[string]*entry),
		subs:  make(map[int]func(Event)),
	}
}

// Push makes a notification visible and schedules its expiry.
func (q *Queue) Push(message string, kind Kind) Notification {
	now := q.clock.Now()

	q.mu.Lock()
	q.seq++
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      ParseKind(string(kind)),
		CreatedAt: now,
		ExpiresAt: now.Add(q.ttl),
		seq:       q.seq,
	}
	e := &entry{n: n}
	q.items[n.ID] = e
	q.mu.Unlock()

	// Scheduled outside the lock so a clock that fires synchronously can
	// re-enter Dismiss.
	timer := q.clock.AfterFunc(q.ttl, func() { q.Dismiss(n.ID) })
	q.mu.Lock()
	if _, ok := q.items[n.ID]; ok {
		e.timer = timer
	}
	q.mu.Unlock()

	q.publish(Event{Type: EventPushed, Notification: n})
	return n
}

func (q *Queue) Info(message string) Notification    { return q.Push(message, KindInfo) }
func (q *Queue) Success(message string) Notification { return q.Push(message, KindSuccess) }
func (q *Queue) Error(message string) Notification   { return q.Push(message, KindError) }

// Dismiss removes exactly one notification. It reports false when the id is
// unknown or already gone.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	e, ok := q.items[id]
	var timer Timer
	if ok {
		delete(q.items, id)
		timer = e.timer
	}
	q.mu.Unlock()
	if !ok {
		return false
	}
	if timer != nil {
		timer.Stop()
	}
	q.publish(Event{Type: EventDismissed, Notification: e.n})
	return true
}

// List returns the visible notifications, oldest first.
func (q *Queue) List() []Notification {
	q.mu.Lock()
	out := make([]Notification, 0, len(q.items))
	for _, e := range q.items {
		out = append(out, e.n)
	}
	q.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Subscribe registers fn for every future event and returns a cancel func.
// fn runs on the goroutine that caused the event and must not block.
func (q *Queue) Subscribe(fn func(Event)) func() {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.subs[id] = fn
	q.mu.Unlock()
	return func() {
		q.mu.Lock()
		delete(q.subs, id)
		q.mu.Unlock()
	}
}

func (q *Queue) publish(ev Event) {
	q.mu.Lock()
	subs := make([]func(Event), 0, len(q.subs))
	for _, fn := range q.subs {
		subs = append(subs, fn)
	}
	q.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}
