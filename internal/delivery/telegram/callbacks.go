package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

var errMalformedCallback = errors.New("malformed callback data")

// view is what a callback replaces its message with.
type view struct {
	text string
	kb   tgbotapi.InlineKeyboardMarkup
}

func (h *Handler) handleCallback(ctx context.Context, p *service.Profile, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	if data.Action == actionNoop {
		h.answerCallback(cb.ID, "")
		return
	}
	if !p.Guard.Authenticated() {
		h.answerCallback(cb.ID, msgLoginRequired)
		return
	}

	var (
		v   *view
		err error
	)

	switch data.Action {
	case actionTopic:
		v, err = h.topicCallback(p, data)
	case actionGenerate:
		err = h.handleGenerate(p, cb.Message.MessageID)(ctx, chatID)
	case actionAnswer:
		v, err = h.answerOptionCallback(p, data)
	case actionCategory:
		v, err = h.categoryCallback(p, data)
	case actionNav:
		v, err = h.navCallback(p, data)
	case actionSubmit:
		v, err = h.submitCallback(ctx, p, data)
	case actionResult:
		v, err = h.resultCallback(p, data)
	case actionReview:
		v, err = h.reviewCallback(p, data)
	case actionRetry:
		v, err = h.retryCallback(p, data)
	case actionHistory:
		err = h.handleHistory(p)(ctx, chatID)
	default:
		err = errMalformedCallback
	}

	if err != nil {
		h.answerCallback(cb.ID, h.callbackError(chatID, cb.Data, err))
		return
	}

	if v != nil {
		h.edit(chatID, cb.Message.MessageID, v.text, v.kb)
	}
	h.answerCallback(cb.ID, "")
}

// callbackError logs err and returns the toast text shown for it.
func (h *Handler) callbackError(chatID int64, data string, err error) string {
	fields := []zap.Field{
		zap.Int64("chat_id", chatID),
		zap.String("data", data),
		zap.Error(err),
	}

	switch {
	case errors.Is(err, errMalformedCallback):
		h.logger.Warn("invalid callback", fields...)
		return ""
	case errors.Is(err, service.ErrStaleInteraction):
		h.logger.Debug("stale callback", fields...)
		return msgStaleInteraction
	case errors.Is(err, service.ErrShapeMismatch),
		errors.Is(err, service.ErrUnanswerable),
		errors.Is(err, service.ErrQuestionIndex):
		h.logger.Debug("answer ignored", fields...)
		return msgAnswerIgnored
	}

	if isExpected(err) {
		h.logger.Debug("callback rejected", fields...)
	} else {
		h.logger.Error("callback error", fields...)
	}

	text, _ := userMessage(err)
	return text
}

func (h *Handler) topicCallback(p *service.Profile, data callbackData) (*view, error) {
	v, ok := data.ints(2)
	if !ok || v[0] >= len(entities.Subjects) {
		return nil, errMalformedCallback
	}

	subject := entities.Subjects[v[0]]
	catalog, err := entities.Topics(subject)
	if err != nil || v[1] >= len(catalog) {
		return nil, errMalformedCallback
	}

	if err := p.Exam.ToggleTopic(subject, catalog[v[1]]); err != nil {
		return nil, err
	}

	sel := p.Exam.Selection()
	return &view{text: renderTopics(sel), kb: buildTopicsKeyboard(sel)}, nil
}

func (h *Handler) answerOptionCallback(p *service.Profile, data callbackData) (*view, error) {
	attempt, rest, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}
	v, ok := rest.ints(2)
	if !ok {
		return nil, errMalformedCallback
	}

	if err := p.Exam.ChooseOption(attempt, v[0], v[1]); err != nil {
		return nil, err
	}
	return questionView(p), nil
}

func (h *Handler) categoryCallback(p *service.Profile, data callbackData) (*view, error) {
	attempt, rest, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}
	v, ok := rest.ints(3)
	if !ok {
		return nil, errMalformedCallback
	}

	if attempt != p.Exam.Attempt() {
		return nil, service.ErrStaleInteraction
	}
	questions := p.Exam.Questions()
	if v[0] >= len(questions) {
		return nil, service.ErrQuestionIndex
	}
	labels := questions[v[0]].CategoryLabels()
	if v[2] >= len(labels) {
		return nil, service.ErrShapeMismatch
	}

	if err := p.Exam.AssignCategory(attempt, v[0], v[1], labels[v[2]]); err != nil {
		return nil, err
	}
	return questionView(p), nil
}

func (h *Handler) navCallback(p *service.Profile, data callbackData) (*view, error) {
	attempt, rest, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}
	v, ok := rest.ints(1)
	if !ok {
		return nil, errMalformedCallback
	}

	if err := p.Exam.Goto(attempt, v[0]); err != nil {
		return nil, err
	}
	return questionView(p), nil
}

func (h *Handler) submitCallback(ctx context.Context, p *service.Profile, data callbackData) (*view, error) {
	attempt, _, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}

	if _, err := p.Exam.SubmitAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return resultView(p, attempt)
}

func (h *Handler) resultCallback(p *service.Profile, data callbackData) (*view, error) {
	attempt, _, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}
	if attempt != p.Exam.Attempt() {
		return nil, service.ErrStaleInteraction
	}
	return resultView(p, attempt)
}

func (h *Handler) reviewCallback(p *service.Profile, data callbackData) (*view, error) {
	attempt, rest, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}
	v, ok := rest.ints(1)
	if !ok {
		return nil, errMalformedCallback
	}
	if attempt != p.Exam.Attempt() {
		return nil, service.ErrStaleInteraction
	}

	items, err := p.Exam.Review()
	if err != nil {
		return nil, err
	}
	if v[0] >= len(items) {
		return nil, service.ErrQuestionIndex
	}

	return &view{
		text: renderReviewItem(items[v[0]], len(items)),
		kb:   buildReviewKeyboard(attempt, v[0], len(items)),
	}, nil
}

func (h *Handler) retryCallback(p *service.Profile, data callbackData) (*view, error) {
	attempt, _, ok := data.attempt()
	if !ok {
		return nil, errMalformedCallback
	}
	if attempt != p.Exam.Attempt() {
		return nil, service.ErrStaleInteraction
	}

	if err := p.Exam.Retry(); err != nil {
		return nil, err
	}

	sel := p.Exam.Selection()
	return &view{text: renderTopics(sel), kb: buildTopicsKeyboard(sel)}, nil
}

func questionView(p *service.Profile) *view {
	s := p.Exam.Snapshot()
	return &view{text: renderQuestion(s), kb: buildQuestionKeyboard(s)}
}

func resultView(p *service.Profile, attempt uint64) (*view, error) {
	record, res, err := p.Exam.Result()
	if err != nil {
		return nil, err
	}
	return &view{text: renderResult(record, res), kb: buildResultKeyboard(attempt)}, nil
}
