package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

type chatNotifier struct {
	mu        sync.Mutex
	expired   map[int64]int
	submitted map[int64]int
}

func newChatNotifier() *chatNotifier {
	return &chatNotifier{expired: make(map[int64]int), submitted: make(map[int64]int)}
}

func (n *chatNotifier) NotifySessionExpired(chatID int64, _ entities.Identity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired[chatID]++
}

func (n *chatNotifier) NotifyExamSubmitted(chatID int64, _ entities.ResultRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted[chatID]++
}

func (n *chatNotifier) expiredFor(chatID int64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.expired[chatID]
}

func newTestRegistry(t *testing.T, kv storage.KV, fc clockwork.Clock) *Registry {
	t.Helper()
	r := NewRegistry(kv, &fakeGenerator{questions: sampleQuestions()}, fc, zap.NewNop(), ProfileOptions{
		ExamDuration:      DefaultExamDuration,
		InactivityTimeout: DefaultInactivityTimeout,
	})
	t.Cleanup(r.Close)
	return r
}

func TestRegistry_ProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	r := newTestRegistry(t, kv, clockwork.NewFakeClock())

	a, err := r.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get(1): %v", err)
	}
	b, err := r.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get(2): %v", err)
	}
	again, _ := r.Get(ctx, 1)
	if again != a {
		t.Fatal("Get returned a new profile for a known chat")
	}

	if err := a.Guard.Register(ctx, "budi", "0811", "rahasia"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := b.Guard.Register(ctx, "budi", "0811", "lain"); err != nil {
		t.Errorf("accounts leaked between chats: %v", err)
	}
	if _, err := b.Guard.Login(ctx, "budi", "rahasia"); err == nil {
		t.Error("chat 2 logged in with chat 1 credentials")
	}

	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistry_RestoresIdentity(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	fc := clockwork.NewFakeClock()

	first := newTestRegistry(t, kv, fc)
	p, err := first.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := p.Guard.Register(ctx, "siti", "0822", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := p.Guard.Login(ctx, "siti", "pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	first.Close()

	second := newTestRegistry(t, kv, fc)
	restored, err := second.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := restored.Guard.CurrentIdentity(); got == nil || got.Username != "siti" {
		t.Fatalf("restored identity = %+v, want siti", got)
	}
}

func TestRegistry_ForwardsNotifications(t *testing.T) {
	ctx := context.Background()
	fc := clockwork.NewFakeClock()
	r := newTestRegistry(t, storage.NewMemoryKV(), fc)
	n := newChatNotifier()
	r.SetNotifier(n)

	p, _ := r.Get(ctx, 7)
	_ = p.Guard.Register(ctx, "budi", "0811", "rahasia")
	if _, err := p.Guard.Login(ctx, "budi", "rahasia"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	fc.Advance(DefaultInactivityTimeout)
	eventually(t, "expiry notification", func() bool { return n.expiredFor(7) == 1 })
}

func TestRegistry_EvictIdle(t *testing.T) {
	ctx := context.Background()
	fc := clockwork.NewFakeClock()
	r := newTestRegistry(t, storage.NewMemoryKV(), fc)

	idle, _ := r.Get(ctx, 1)
	active, _ := r.Get(ctx, 2)
	authed, _ := r.Get(ctx, 3)
	_ = authed.Guard.Register(ctx, "budi", "0811", "rahasia")
	if _, err := authed.Guard.Login(ctx, "budi", "rahasia"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// The guard stays alive while the profile itself is never touched.
	for i := 0; i < 5; i++ {
		fc.Advance(26 * time.Minute)
		authed.Guard.Touch()
		if i == 3 {
			active.Touch()
		}
	}
	if !authed.Guard.Authenticated() {
		t.Fatal("session expired during setup")
	}

	janitor := NewJanitor(r, fc, "", 2*time.Hour, zap.NewNop())
	if n := janitor.Sweep(); n != 1 {
		t.Fatalf("Sweep() evicted %d, want 1", n)
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}

	fresh, _ := r.Get(ctx, 1)
	if fresh == idle {
		t.Error("evicted profile still served")
	}
	if again, _ := r.Get(ctx, 3); again != authed {
		t.Error("authenticated profile was evicted")
	}
}

func TestJanitor_StartStops(t *testing.T) {
	r := newTestRegistry(t, storage.NewMemoryKV(), clockwork.NewFakeClock())
	janitor := NewJanitor(r, clockwork.NewFakeClock(), "@every 1h", time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- janitor.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitor_InvalidSchedule(t *testing.T) {
	r := newTestRegistry(t, storage.NewMemoryKV(), clockwork.NewFakeClock())
	janitor := NewJanitor(r, clockwork.NewFakeClock(), "every so often", time.Hour, zap.NewNop())

	if err := janitor.Start(context.Background()); err == nil {
		t.Fatal("Start accepted an invalid schedule")
	}
}
