package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

// handleStart greets the user, naming the logged in account if there is one.
func (h *Handler) handleStart(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		var username string
		if id := p.Guard.CurrentIdentity(); id != nil {
			username = id.Username
		}
		return h.send(newMessage(chatID, welcomeText(username)))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, helpText))
	}
}

// handleRegister expects "<username> <phone> <password>".
func (h *Handler) handleRegister(p *service.Profile, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) == 0 || len(fields) > 3 {
			return h.send(newPlainMessage(chatID, msgRegisterUsage))
		}
		for len(fields) < 3 {
			fields = append(fields, "")
		}

		if err := p.Guard.Register(ctx, fields[0], fields[1], fields[2]); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, msgRegistered))
	}
}

// handleLogin expects "<username> <password>".
func (h *Handler) handleLogin(p *service.Profile, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) != 2 {
			return h.send(newPlainMessage(chatID, msgLoginUsage))
		}

		identity, err := p.Guard.Login(ctx, fields[0], fields[1])
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, welcomeText(identity.Username)))
	}
}

// handleRecover reveals the account registered with the given phone number.
func (h *Handler) handleRecover(p *service.Profile, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		phone := strings.TrimSpace(args)
		if phone == "" {
			return h.send(newPlainMessage(chatID, msgRecoverUsage))
		}

		identity, err := p.Guard.RecoverCredential(ctx, phone)
		if err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, recoveryText(identity.Username, identity.Password)))
	}
}

func (h *Handler) handleLogout(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := p.Guard.Logout(ctx); err != nil {
			return err
		}
		return h.send(newPlainMessage(chatID, msgLoggedOut))
	}
}

// handleTopics shows the topic picker of a configuring session.
func (h *Handler) handleTopics(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s := p.Exam.Snapshot()
		if s.State != entities.ExamConfiguring {
			return service.ErrInvalidState
		}

		msg := newMessage(chatID, renderTopics(s.Selection))
		msg.ReplyMarkup = buildTopicsKeyboard(s.Selection)
		return h.send(msg)
	}
}

// handleGenerate starts generation in the background. The progress message,
// or the message with messageID when it is non-zero, is replaced by the first
// question once the batch arrives.
func (h *Handler) handleGenerate(p *service.Profile, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch p.Exam.State() {
		case entities.ExamConfiguring:
		case entities.ExamGenerating:
			return h.send(newPlainMessage(chatID, msgExamInProgress))
		default:
			return service.ErrInvalidState
		}

		id := messageID
		if id == 0 {
			sent, err := h.bot.Send(newPlainMessage(chatID, msgGenerating))
			if err != nil {
				return err
			}
			id = sent.MessageID
		} else {
			_ = h.send(tgbotapi.NewEditMessageText(chatID, id, msgGenerating))
		}

		h.async(func() {
			h.generate(ctx, p, chatID, id)
		})
		return nil
	}
}

func (h *Handler) generate(ctx context.Context, p *service.Profile, chatID int64, messageID int) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	err := p.Exam.ConfirmGenerate(ctx)
	switch {
	case err == nil:
		s := p.Exam.Snapshot()
		h.edit(chatID, messageID, renderQuestion(s), buildQuestionKeyboard(s))

	case errors.Is(err, service.ErrInvalidState):
		// Another generation won the race for this session.
		_ = h.send(tgbotapi.NewEditMessageText(chatID, messageID, msgExamInProgress))

	case errors.Is(err, service.ErrSessionAbandoned):
		h.logger.Debug("generation result dropped",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)

	default:
		text, _ := userMessage(err)
		sel := p.Exam.Selection()
		h.edit(chatID, messageID, md(text)+"\n\n"+renderTopics(sel), buildTopicsKeyboard(sel))
	}
}

// handleExam shows the current step of the session.
func (h *Handler) handleExam(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s := p.Exam.Snapshot()

		switch s.State {
		case entities.ExamAnswering:
			msg := newMessage(chatID, renderQuestion(s))
			msg.ReplyMarkup = buildQuestionKeyboard(s)
			return h.send(msg)
		case entities.ExamGenerating:
			return h.send(newPlainMessage(chatID, msgGenerating))
		case entities.ExamScored:
			return h.handleResult(p)(ctx, chatID)
		default:
			return h.send(newPlainMessage(chatID, msgNoExam))
		}
	}
}

func (h *Handler) handleSubmit(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := p.Exam.Submit(ctx); err != nil {
			return err
		}
		return h.handleResult(p)(ctx, chatID)
	}
}

func (h *Handler) handleResult(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		record, res, err := p.Exam.Result()
		if errors.Is(err, service.ErrInvalidState) {
			return h.send(newPlainMessage(chatID, msgNoResult))
		}
		if err != nil {
			return err
		}

		msg := newMessage(chatID, renderResult(record, res))
		msg.ReplyMarkup = buildResultKeyboard(p.Exam.Attempt())
		return h.send(msg)
	}
}

// handleReview shows the review page of the 1-based question number in args,
// or the first one.
func (h *Handler) handleReview(p *service.Profile, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		items, err := p.Exam.Review()
		if errors.Is(err, service.ErrInvalidState) {
			return h.send(newPlainMessage(chatID, msgNoResult))
		}
		if err != nil {
			return err
		}

		index := 0
		if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n >= 1 && n <= len(items) {
			index = n - 1
		}

		msg := newMessage(chatID, renderReviewItem(items[index], len(items)))
		msg.ReplyMarkup = buildReviewKeyboard(p.Exam.Attempt(), index, len(items))
		return h.send(msg)
	}
}

// handleRetry returns a scored session to the topic picker.
func (h *Handler) handleRetry(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := p.Exam.Retry(); err != nil {
			return err
		}
		return h.handleTopics(p)(ctx, chatID)
	}
}

func (h *Handler) handleHistory(p *service.Profile) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		records, err := p.History.List(ctx)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, renderHistory(records)))
	}
}

func (h *Handler) edit(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := newEdit(chatID, messageID, text)
	edit.ReplyMarkup = &kb
	_ = h.send(edit)
}
