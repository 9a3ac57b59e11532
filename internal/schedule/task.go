// Package schedule provides cancellable scheduled-task handles on top of a clockwork clock.
package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a handle to a periodic or single-shot callback.
// Cancel is idempotent and never blocks, so it is safe to call from inside
// the callback or while holding a lock the callback also takes.
type Task struct {
	once  sync.Once
	stop  chan struct{}
	timer clockwork.Timer
}

// Every runs fn every d until the task is cancelled.
func Every(clock clockwork.Clock, d time.Duration, fn func()) *Task {
	t := &Task{stop: make(chan struct{})}
	ticker := clock.NewTicker(d)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.Chan():
				select {
				case <-t.stop:
					return
				default:
				}
				fn()
			}
		}
	}()

	return t
}

// After runs fn once after d unless the task is cancelled first.
func After(clock clockwork.Clock, d time.Duration, fn func()) *Task {
	t := &Task{stop: make(chan struct{})}
	t.timer = clock.AfterFunc(d, func() {
		select {
		case <-t.stop:
			return
		default:
		}
		fn()
	})
	return t
}

// Cancel stops the task. Calling it on a nil task is a no-op.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		close(t.stop)
		if t.timer != nil {
			t.timer.Stop()
		}
	})
}

// Cancelled reports whether Cancel has been called.
func (t *Task) Cancelled() bool {
	if t == nil {
		return true
	}
	select {
	case <-t.stop:
		return true
	default:
		return false
	}
}
