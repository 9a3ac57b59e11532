package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not run")
	}
}

func expectSilence(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
		t.Fatal("callback ran after cancel")
	case <-time.After(50 * time.Millisecond):
	}
}

func blockUntil(t *testing.T, fc *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fc.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("waiting for %d waiters: %v", n, err)
	}
}

func TestEvery(t *testing.T) {
	fc := clockwork.NewFakeClock()
	ticks := make(chan struct{}, 4)

	task := Every(fc, time.Second, func() { ticks <- struct{}{} })
	blockUntil(t, fc, 1)

	fc.Advance(time.Second)
	waitSignal(t, ticks)
	fc.Advance(time.Second)
	waitSignal(t, ticks)

	task.Cancel()
	task.Cancel()
	if !task.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}

	fc.Advance(time.Second)
	expectSilence(t, ticks)
}

func TestAfter(t *testing.T) {
	fc := clockwork.NewFakeClock()
	fired := make(chan struct{}, 2)

	task := After(fc, 30*time.Minute, func() { fired <- struct{}{} })
	blockUntil(t, fc, 1)

	fc.Advance(29 * time.Minute)
	expectSilence(t, fired)

	fc.Advance(time.Minute)
	waitSignal(t, fired)

	task.Cancel()
}

func TestAfter_CancelBeforeDeadline(t *testing.T) {
	fc := clockwork.NewFakeClock()
	fired := make(chan struct{}, 1)

	task := After(fc, time.Minute, func() { fired <- struct{}{} })
	blockUntil(t, fc, 1)
	task.Cancel()
	if !task.Cancelled() {
		t.Error("Cancelled() = false after Cancel")
	}

	fc.Advance(time.Hour)
	expectSilence(t, fired)
}

func TestNilTask(t *testing.T) {
	var task *Task
	task.Cancel()
	if !task.Cancelled() {
		t.Error("nil task should report cancelled")
	}
}
