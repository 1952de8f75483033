// Package notify holds the transient toast messages shown to a shopper.
package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

type Toast struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"createdAt"`
	// Exiting toasts are logically dismissed and only wait for removal.
	Exiting bool `json:"exiting"`
}

// Notifier is what services depend on to surface a message.
type Notifier interface {
	Push(text string, severity Severity) int64
}

type Options struct {
	Capacity   int
	VisibleFor time.Duration
	ExitDelay  time.Duration
	Scheduler  Scheduler
	Now        func() time.Time
}

const (
	DefaultCapacity   = 3
	DefaultVisibleFor = 3 * time.Second
	DefaultExitDelay  = 300 * time.Millisecond
)

var _ Notifier = (*Queue)(nil)

// Queue is a bounded FIFO of toasts. Every toast dismisses itself after
// VisibleFor and is physically removed ExitDelay after being dismissed.
type Queue struct {
	mu     sync.Mutex
	nextID int64
	toasts []Toast
	timers map[int64]Timer

	capacity   int
	visibleFor time.Duration
	exitDelay  time.Duration
	sched      Scheduler
	now        func() time.Time
}

func NewQueue(opts Options) *Queue {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.VisibleFor <= 0 {
		opts.VisibleFor = DefaultVisibleFor
	}
	if opts.ExitDelay < 0 {
		opts.ExitDelay = 0
	}
	if opts.Scheduler == nil {
		opts.Scheduler = RealScheduler{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Queue{
		timers:     make(map[int64]Timer),
		capacity:   opts.Capacity,
		visibleFor: opts.VisibleFor,
		exitDelay:  opts.ExitDelay,
		sched:      opts.Scheduler,
		now:        opts.Now,
	}
}

// Push appends a toast and evicts the oldest entries beyond capacity.
func (q *Queue) Push(text string, severity Severity) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextID++
	id := q.nextID
	q.toasts = append(q.toasts, Toast{
		ID:        id,
		Text:      text,
		Severity:  severity,
		CreatedAt: q.now(),
	})

	for len(q.toasts) > q.capacity {
		q.stopTimer(q.toasts[0].ID)
		q.toasts = q.toasts[1:]
	}

	q.timers[id] = q.sched.AfterFunc(q.visibleFor, func() { q.Dismiss(id) })
	return id
}

// Dismiss flags the toast as exiting and schedules its removal. It reports
// whether anything changed; unknown or already exiting ids are a no-op.
func (q *Queue) Dismiss(id int64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	idx := q.indexOf(id)
	if idx < 0 || q.toasts[idx].Exiting {
		return false
	}

	q.toasts[idx].Exiting = true
	q.stopTimer(id)
	q.timers[id] = q.sched.AfterFunc(q.exitDelay, func() { q.remove(id) })
	return true
}

// Active returns the toasts that are still visible, oldest first.
func (q *Queue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, 0, len(q.toasts))
	for _, t := range q.toasts {
		if !t.Exiting {
			out = append(out, t)
		}
	}
	return out
}

// All includes exiting toasts.
func (q *Queue) All() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	for id := range q.timers {
		q.stopTimer(id)
	}
	q.toasts = nil
}

func (q *Queue) remove(id int64) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.timers, id)
	if idx := q.indexOf(id); idx >= 0 {
		q.toasts = append(q.toasts[:idx], q.toasts[idx+1:]...)
	}
}

func (q *Queue) indexOf(id int64) int {
	for i := range q.toasts {
		if q.toasts[i].ID == id {
			return i
		}
	}
	return -1
}

func (q *Queue) stopTimer(id int64) {
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
}
