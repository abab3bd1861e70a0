package picker

import (
	"context"
	"sync"
)

// Loop is a single-goroutine event loop. Functions posted to it run one at a
// time, in posting order.
type Loop struct {
	queue   chan func()
	stopped chan struct{}

	// mu orders Post against shutdown: once closed is set, nothing new can
	// enter the queue, so the final drain sees every accepted function.
	mu     sync.RWMutex
	closed bool
}

var _ Scheduler = (*Loop)(nil)

// NewLoop creates a loop; call Run to start draining it.
func NewLoop() *Loop {
	return &Loop{
		queue:   make(chan func(), 64),
		stopped: make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled. Functions accepted before the
// loop stopped still run before Run returns.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

func (l *Loop) shutdown() {
	close(l.stopped)

	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	for {
		select {
		case fn := <-l.queue:
			fn()
		default:
			return
		}
	}
}

// Post queues fn. It reports false, without running fn, once the loop has
// stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish. It returns false when
// the loop stopped first.
func (l *Loop) Call(fn func()) bool {
	done := make(chan struct{})
	if !l.Post(func() {
		fn()
		close(done)
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-l.stopped:
		return false
	}
}
