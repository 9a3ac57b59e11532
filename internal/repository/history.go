package repository

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

// HistoryRepository is the append-only log of scored attempts, newest first.
type HistoryRepository struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *zap.Logger
}

// NewHistoryRepository creates a new HistoryRepository on top of kv.
func NewHistoryRepository(kv storage.KV, logger *zap.Logger) *HistoryRepository {
	return &HistoryRepository{kv: kv, logger: logger}
}

// List returns all records, most recent first.
func (r *HistoryRepository) List(ctx context.Context) ([]entities.ResultRecord, error) {
	records, _, err := loadJSON[[]entities.ResultRecord](ctx, r.kv, KeyHistory, r.logger)
	return records, err
}

// Prepend stores record in front of the existing history.
func (r *HistoryRepository) Prepend(ctx context.Context, record entities.ResultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.List(ctx)
	if err != nil {
		return err
	}

	next := make([]entities.ResultRecord, 0, len(records)+1)
	next = append(next, record)
	next = append(next, records...)

	return saveJSON(ctx, r.kv, KeyHistory, next)
}
