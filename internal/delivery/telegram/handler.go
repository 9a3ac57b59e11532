package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

const generationTimeout = 2 * time.Minute

// Bot is the part of the Telegram API the handler uses. *tgbotapi.BotAPI implements it.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// ProfileRegistry resolves the profile of a chat.
type ProfileRegistry interface {
	Get(ctx context.Context, chatID int64) (*service.Profile, error)
}

type Handler struct {
	bot      Bot
	logger   *zap.Logger
	registry ProfileRegistry
	async    func(func())
}

func NewHandler(bot Bot, logger *zap.Logger, registry ProfileRegistry) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		registry: registry,
		async:    func(f func()) { go f() },
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		cb := update.CallbackQuery
		if cb.Message == nil {
			h.logger.Debug("callback without message", zap.String("data", cb.Data))
			return
		}

		h.logger.Debug("callback received",
			zap.Int64("chat_id", cb.Message.Chat.ID),
			zap.String("data", cb.Data),
		)

		p, ok := h.profile(ctx, cb.Message.Chat.ID)
		if !ok {
			h.answerCallback(cb.ID, msgInternalError)
			return
		}
		p.Touch()
		h.handleCallback(ctx, p, cb)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("command", update.Message.Command()),
	)

	p, ok := h.profile(ctx, chatID)
	if !ok {
		h.sendError(chatID, msgInternalError)
		return
	}
	p.Touch()

	if !update.Message.IsCommand() {
		_ = h.withErrorHandling(h.handleStart(p))(ctx, chatID)
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart(p)
	case "help":
		fn = h.handleHelp()
	case "register":
		fn = h.handleRegister(p, args)
	case "login":
		fn = h.handleLogin(p, args)
	case "recover":
		fn = h.handleRecover(p, args)
	case "logout":
		fn = h.requireAuth(p, h.handleLogout(p))
	case "topics":
		fn = h.requireAuth(p, h.handleTopics(p))
	case "generate":
		fn = h.requireAuth(p, h.handleGenerate(p, 0))
	case "exam":
		fn = h.requireAuth(p, h.handleExam(p))
	case "submit":
		fn = h.requireAuth(p, h.handleSubmit(p))
	case "result":
		fn = h.requireAuth(p, h.handleResult(p))
	case "review":
		fn = h.requireAuth(p, h.handleReview(p, args))
	case "retry":
		fn = h.requireAuth(p, h.handleRetry(p))
	case "history":
		fn = h.requireAuth(p, h.handleHistory(p))
	default:
		h.sendError(chatID, msgUnknownCommand)
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) profile(ctx context.Context, chatID int64) (*service.Profile, bool) {
	p, err := h.registry.Get(ctx, chatID)
	if err != nil {
		h.logger.Error("failed to load profile",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return nil, false
	}
	return p, true
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (h *Handler) answerCallback(id, text string) {
	if _, err := h.bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		h.logger.Warn("failed to answer callback", zap.Error(err))
	}
}
