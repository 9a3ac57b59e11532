package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

// Authentication errors. All of them are recoverable and shown to the user.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrDuplicatePhone     = errors.New("phone already registered")
	ErrPhoneNotFound      = errors.New("phone not registered")
	ErrIncompleteIdentity = errors.New("username, phone and password are required")
)

// IsAuthError reports whether err belongs to the authentication error family.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrDuplicatePhone) ||
		errors.Is(err, ErrPhoneNotFound) ||
		errors.Is(err, ErrIncompleteIdentity)
}

// AccountRepository is the local account store: a persisted list of identities.
type AccountRepository struct {
	mu       sync.Mutex
	kv       storage.KV
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAccountRepository creates a new AccountRepository on top of kv.
func NewAccountRepository(kv storage.KV, logger *zap.Logger) *AccountRepository {
	return &AccountRepository{
		kv:       kv,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns every registered identity.
func (r *AccountRepository) List(ctx context.Context) ([]entities.Identity, error) {
	users, _, err := loadJSON[[]entities.Identity](ctx, r.kv, KeyAccounts, r.logger)
	return users, err
}

// Register appends a new identity. Username and phone must both be unused.
func (r *AccountRepository) Register(ctx context.Context, identity *entities.Identity) error {
	if err := r.validate.Struct(identity); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteIdentity, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.List(ctx)
	if err != nil {
		return err
	}

	for _, u := range users {
		if u.Username == identity.Username {
			return ErrDuplicateUsername
		}
	}
	for _, u := range users {
		if u.Phone == identity.Phone {
			return ErrDuplicatePhone
		}
	}

	users = append(users, *identity)
	if err := saveJSON(ctx, r.kv, KeyAccounts, users); err != nil {
		return fmt.Errorf("register %s: %w", identity.Username, err)
	}

	return nil
}

// FindByCredentials returns the identity matching both username and password exactly.
func (r *AccountRepository) FindByCredentials(ctx context.Context, username, password string) (*entities.Identity, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Username == username && u.Password == password {
			return &u, nil
		}
	}

	return nil, ErrInvalidCredentials
}

// FindByPhone returns the identity registered with phone.
func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*entities.Identity, error) {
	users, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Phone == phone {
			return &u, nil
		}
	}

	return nil, ErrPhoneNotFound
}
