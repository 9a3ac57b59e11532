package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

// IdentityRepository persists the currently authenticated identity so it survives restarts.
type IdentityRepository struct {
	kv     storage.KV
	logger *zap.Logger
}

// NewIdentityRepository creates a new IdentityRepository on top of kv.
func NewIdentityRepository(kv storage.KV, logger *zap.Logger) *IdentityRepository {
	return &IdentityRepository{kv: kv, logger: logger}
}

// Load returns the persisted identity, or nil if there is none.
func (r *IdentityRepository) Load(ctx context.Context) (*entities.Identity, error) {
	identity, ok, err := loadJSON[entities.Identity](ctx, r.kv, KeySession, r.logger)
	if err != nil || !ok || identity.Username == "" {
		return nil, err
	}
	return &identity, nil
}

// Save persists identity as the current one.
func (r *IdentityRepository) Save(ctx context.Context, identity *entities.Identity) error {
	return saveJSON(ctx, r.kv, KeySession, identity)
}

// Clear removes the persisted identity.
func (r *IdentityRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeySession)
}
