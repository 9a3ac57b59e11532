package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/storage"
)

// Storage keys, shared with the web client this bot replaces.
const (
	KeyAccounts = "edugen_registered_users"
	KeySession  = "edugen_user_session"
	KeyHistory  = "edugen_exam_history"
)

// loadJSON reads key and decodes it into T. A value that fails to decode is
// deleted and read as the zero value; only transport errors are returned.
func loadJSON[T any](ctx context.Context, kv storage.KV, key string, logger *zap.Logger) (T, bool, error) {
	var zero T

	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return zero, false, nil
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		logger.Warn("discarding corrupt stored value",
			zap.String("key", key),
			zap.Error(err),
		)
		if err := kv.Delete(ctx, key); err != nil {
			return zero, false, fmt.Errorf("reset %s: %w", key, err)
		}
		return zero, false, nil
	}

	return v, true, nil
}

func saveJSON(ctx context.Context, kv storage.KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
