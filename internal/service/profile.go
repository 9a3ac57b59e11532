package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/repository"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

// ProfileOptions configures the sessions created by a Registry.
type ProfileOptions struct {
	ExamDuration      time.Duration
	InactivityTimeout time.Duration
}

// Profile is everything one chat owns: its accounts, identity, history,
// session guard and exam session, all on a storage namespace of its own.
type Profile struct {
	ChatID  int64
	Guard   *SessionGuard
	Exam    *ExamController
	History *repository.HistoryRepository

	mu       sync.Mutex
	lastSeen time.Time
	clock    clockwork.Clock
	notifier Notifier
}

// Touch records activity in the chat.
func (p *Profile) Touch() {
	p.mu.Lock()
	p.lastSeen = p.clock.Now()
	p.mu.Unlock()

	p.Guard.Touch()
}

// LastSeen returns the time of the latest activity.
func (p *Profile) LastSeen() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Close stops every timer of the profile.
func (p *Profile) Close() {
	p.Exam.Reset()
	p.Guard.Close()
}

// SessionExpired implements SessionNotifier.
func (p *Profile) SessionExpired(identity entities.Identity) {
	if n := p.currentNotifier(); n != nil {
		n.NotifySessionExpired(p.ChatID, identity)
	}
}

// ExamAutoSubmitted implements ExamNotifier.
func (p *Profile) ExamAutoSubmitted(record entities.ResultRecord) {
	if n := p.currentNotifier(); n != nil {
		n.NotifyExamSubmitted(p.ChatID, record)
	}
}

func (p *Profile) currentNotifier() Notifier {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notifier
}

func (p *Profile) setNotifier(n Notifier) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifier = n
}

// Registry lazily creates one Profile per chat.
type Registry struct {
	mu        sync.Mutex
	profiles  map[int64]*Profile
	kv        storage.KV
	generator QuestionGenerator
	clock     clockwork.Clock
	logger    *zap.Logger
	opts      ProfileOptions
	notifier  Notifier
}

// NewRegistry creates a new Registry storing profiles in kv.
func NewRegistry(
	kv storage.KV,
	generator QuestionGenerator,
	clock clockwork.Clock,
	logger *zap.Logger,
	opts ProfileOptions,
) *Registry {
	return &Registry{
		profiles:  make(map[int64]*Profile),
		kv:        kv,
		generator: generator,
		clock:     clock,
		logger:    logger,
		opts:      opts,
	}
}

// SetNotifier sets the receiver of asynchronous events for every profile.
func (r *Registry) SetNotifier(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifier = n
	for _, p := range r.profiles {
		p.setNotifier(n)
	}
}

// Get returns the profile of chatID, creating it and restoring its persisted
// identity on first use.
func (r *Registry) Get(ctx context.Context, chatID int64) (*Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.profiles[chatID]; ok {
		return p, nil
	}

	p := r.newProfile(chatID)
	if err := p.Guard.Restore(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("restore session of chat %d: %w", chatID, err)
	}

	r.profiles[chatID] = p
	return p, nil
}

func (r *Registry) newProfile(chatID int64) *Profile {
	logger := r.logger.With(zap.Int64("chat_id", chatID))
	kv := storage.Namespace(r.kv, fmt.Sprintf("chat:%d:", chatID))

	accounts := repository.NewAccountRepository(kv, logger)
	identities := repository.NewIdentityRepository(kv, logger)
	history := repository.NewHistoryRepository(kv, logger)

	guard := NewSessionGuard(accounts, identities, r.clock, logger, r.opts.InactivityTimeout)
	exam := NewExamController(r.generator, guard, history, r.clock, logger, r.opts.ExamDuration)

	p := &Profile{
		ChatID:   chatID,
		Guard:    guard,
		Exam:     exam,
		History:  history,
		lastSeen: r.clock.Now(),
		clock:    r.clock,
		notifier: r.notifier,
	}

	guard.SetSessionCloser(exam)
	guard.SetNotifier(p)
	exam.SetNotifier(p)

	return p
}

// Len returns the number of live profiles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

// EvictIdle drops unauthenticated profiles not seen for longer than idleAfter
// and returns their chat IDs. Authenticated profiles are kept.
func (r *Registry) EvictIdle(now time.Time, idleAfter time.Duration) []int64 {
	r.mu.Lock()
	var evicted []*Profile
	for id, p := range r.profiles {
		if p.Guard.Authenticated() || now.Sub(p.LastSeen()) <= idleAfter {
			continue
		}
		evicted = append(evicted, p)
		delete(r.profiles, id)
	}
	r.mu.Unlock()

	ids := make([]int64, 0, len(evicted))
	for _, p := range evicted {
		p.Close()
		ids = append(ids, p.ChatID)
	}
	return ids
}

// Close stops the timers of every profile.
func (r *Registry) Close() {
	r.mu.Lock()
	profiles := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	r.profiles = make(map[int64]*Profile)
	r.mu.Unlock()

	for _, p := range profiles {
		p.Close()
	}
}
