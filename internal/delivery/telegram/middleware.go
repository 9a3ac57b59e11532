package telegram

import (
	"context"

	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		text, show := userMessage(err)
		if isExpected(err) {
			h.logger.Debug("handle rejected",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		} else {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
		}

		if show {
			h.sendError(chatID, text)
		}
		return nil
	}
}

// requireAuth runs fn only when the profile has an authenticated identity.
func (h *Handler) requireAuth(p *service.Profile, fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !p.Guard.Authenticated() {
			return service.ErrNotAuthenticated
		}
		return fn(ctx, chatID)
	}
}
