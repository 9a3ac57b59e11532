package service

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/schedule"
)

// DefaultInactivityTimeout is how long a session survives without activity.
const DefaultInactivityTimeout = 30 * time.Minute

// SessionGuard tracks the authenticated identity and logs it out after a
// period without activity. It never holds its lock while calling the
// session closer or the notifier.
type SessionGuard struct {
	mu         sync.Mutex
	accounts   AccountRepository
	identities IdentityRepository
	clock      clockwork.Clock
	timeout    time.Duration
	logger     *zap.Logger
	closer     SessionCloser
	notifier   SessionNotifier

	current      *entities.Identity
	deadline     *schedule.Task
	epoch        uint64
	lastActivity time.Time
}

// NewSessionGuard creates an unauthenticated guard.
func NewSessionGuard(
	accounts AccountRepository,
	identities IdentityRepository,
	clock clockwork.Clock,
	logger *zap.Logger,
	timeout time.Duration,
) *SessionGuard {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}

	return &SessionGuard{
		accounts:     accounts,
		identities:   identities,
		clock:        clock,
		timeout:      timeout,
		logger:       logger,
		lastActivity: clock.Now(),
	}
}

// SetSessionCloser registers the exam session discarded on logout and expiry.
func (g *SessionGuard) SetSessionCloser(c SessionCloser) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closer = c
}

// SetNotifier registers the receiver of forced logouts.
func (g *SessionGuard) SetNotifier(n SessionNotifier) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notifier = n
}

// Restore loads the persisted identity, if any, and arms the deadline.
func (g *SessionGuard) Restore(ctx context.Context) error {
	identity, err := g.identities.Load(ctx)
	if err != nil {
		return err
	}
	if identity == nil {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.current = identity
	g.epoch++
	g.lastActivity = g.clock.Now()
	g.armLocked()

	g.logger.Info("session restored", zap.String("username", identity.Username))
	return nil
}

// CurrentIdentity returns a copy of the authenticated identity, or nil.
func (g *SessionGuard) CurrentIdentity() *entities.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.current == nil {
		return nil
	}
	identity := *g.current
	return &identity
}

// Authenticated reports whether an identity is set.
func (g *SessionGuard) Authenticated() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current != nil
}

// LastActivity returns the time of the latest activity signal.
func (g *SessionGuard) LastActivity() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastActivity
}

// Register adds a new account. It does not log in.
func (g *SessionGuard) Register(ctx context.Context, username, phone, password string) error {
	if err := g.accounts.Register(ctx, entities.NewIdentity(username, phone, password)); err != nil {
		return err
	}

	g.logger.Info("account registered", zap.String("username", username))
	return nil
}

// Login authenticates with an exact username and password match.
// On failure the current identity is left as it was.
func (g *SessionGuard) Login(ctx context.Context, username, password string) (*entities.Identity, error) {
	identity, err := g.accounts.FindByCredentials(ctx, username, password)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	switched := g.current != nil && g.current.Username != identity.Username
	closer := g.closer
	g.mu.Unlock()

	if switched && closer != nil {
		closer.Reset()
	}

	g.mu.Lock()
	g.current = identity
	g.epoch++
	g.lastActivity = g.clock.Now()
	g.armLocked()
	g.mu.Unlock()

	if err := g.identities.Save(ctx, identity); err != nil {
		g.logger.Error("failed to persist session", zap.String("username", username), zap.Error(err))
	}

	g.logger.Info("user logged in", zap.String("username", username))

	out := *identity
	return &out, nil
}

// RecoverCredential returns the account registered with phone, password included.
func (g *SessionGuard) RecoverCredential(ctx context.Context, phone string) (*entities.Identity, error) {
	return g.accounts.FindByPhone(ctx, phone)
}

// Logout discards the exam session, clears the identity and stops the deadline.
// History is kept.
func (g *SessionGuard) Logout(ctx context.Context) error {
	g.mu.Lock()
	closer := g.closer
	g.mu.Unlock()

	if closer != nil {
		closer.Reset()
	}

	g.mu.Lock()
	var username string
	if g.current != nil {
		username = g.current.Username
	}
	g.current = nil
	g.epoch++
	g.deadline.Cancel()
	g.deadline = nil
	g.mu.Unlock()

	if err := g.identities.Clear(ctx); err != nil {
		return err
	}

	if username != "" {
		g.logger.Info("user logged out", zap.String("username", username))
	}
	return nil
}

// Touch is the activity signal: it pushes the deadline back by the full timeout.
// The deadline is replaced under a new epoch, so an expiry that already fired
// and is waiting for the lock does nothing.
func (g *SessionGuard) Touch() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.lastActivity = g.clock.Now()
	if g.current == nil {
		return
	}
	g.epoch++
	g.armLocked()
}

// Close stops the deadline without logging out. It is used when the guard is dropped.
func (g *SessionGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.epoch++
	g.deadline.Cancel()
	g.deadline = nil
}

func (g *SessionGuard) armLocked() {
	g.deadline.Cancel()
	epoch := g.epoch
	g.deadline = schedule.After(g.clock, g.timeout, func() {
		g.expire(epoch)
	})
}

func (g *SessionGuard) expire(epoch uint64) {
	g.mu.Lock()
	if g.epoch != epoch || g.current == nil {
		g.mu.Unlock()
		return
	}
	closer := g.closer
	g.mu.Unlock()

	if closer != nil {
		closer.Reset()
	}

	g.mu.Lock()
	if g.epoch != epoch || g.current == nil {
		g.mu.Unlock()
		return
	}
	identity := *g.current
	g.current = nil
	g.epoch++
	g.deadline = nil
	notifier := g.notifier
	g.mu.Unlock()

	if err := g.identities.Clear(context.Background()); err != nil {
		g.logger.Error("failed to clear expired session", zap.String("username", identity.Username), zap.Error(err))
	}

	g.logger.Info("session expired", zap.String("username", identity.Username))
	if notifier != nil {
		notifier.SessionExpired(identity)
	}
}
