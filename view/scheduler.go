package view

import (
	"context"
	"sync"
	"time"
)

// Scheduler defers view work. Callbacks must run on the goroutine that owns
// the view.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func())

	// NextFrame runs fn at the next frame boundary.
	NextFrame(fn func())
}

// immediate runs every callback synchronously. It is the default when no
// scheduler is given; parameter changes are then drawn at once.
type immediate struct{}

func (immediate) AfterFunc(_ time.Duration, fn func()) { fn() }
func (immediate) NextFrame(fn func())                  { fn() }

// DefaultFrameInterval is the frame clock used by NewLoop when no interval
// is given.
const DefaultFrameInterval = 16 * time.Millisecond

// Loop is a single-goroutine Scheduler. Timer callbacks, frame callbacks and
// posted functions all run on the goroutine that calls Run.
type Loop struct {
	interval time.Duration
	tasks    chan func()
	done     chan struct{}
	stop     sync.Once

	mu     sync.Mutex
	frames []func()
}

// NewLoop creates a loop whose frame clock ticks every interval. A
// non-positive interval selects DefaultFrameInterval.
func NewLoop(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &Loop{
		interval: interval,
		tasks:    make(chan func(), 256),
		done:     make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine. After Run has returned, fn
// is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.done:
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { l.Post(fn) })
}

// NextFrame implements Scheduler.
func (l *Loop) NextFrame(fn func()) {
	l.mu.Lock()
	l.frames = append(l.frames, fn)
	l.mu.Unlock()
}

// Run processes posted work and frame callbacks until ctx is done. It
// returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	defer l.stop.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		case <-ticker.C:
			l.mu.Lock()
			frames := l.frames
			l.frames = nil
			l.mu.Unlock()
			for _, fn := range frames {
				fn()
			}
		}
	}
}

// Manual is a Scheduler that only runs callbacks when Flush is called.
// Delays are ignored; callbacks run in the order they were scheduled.
type Manual struct {
	queue []func()
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(_ time.Duration, fn func()) { m.queue = append(m.queue, fn) }

// NextFrame implements Scheduler.
func (m *Manual) NextFrame(fn func()) { m.queue = append(m.queue, fn) }

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int { return len(m.queue) }

// Flush runs queued callbacks, including ones queued while flushing, until
// none remain. It returns the number of callbacks run.
func (m *Manual) Flush() int {
	n := 0
	for len(m.queue) > 0 {
		fn := m.queue[0]
		m.queue = m.queue[1:]
		fn()
		n++
	}
	return n
}
