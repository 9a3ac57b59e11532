package telegram

import (
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

// Notifier pushes session events that happen without user input.
type Notifier struct {
	bot     Bot
	logger  *zap.Logger
	timeout time.Duration
}

// NewNotifier creates a Notifier. timeout is the inactivity timeout quoted in
// the expiry message.
func NewNotifier(bot Bot, logger *zap.Logger, timeout time.Duration) *Notifier {
	return &Notifier{
		bot:     bot,
		logger:  logger,
		timeout: timeout,
	}
}

func (n *Notifier) NotifySessionExpired(chatID int64, identity entities.Identity) {
	msg := newPlainMessage(chatID, sessionExpiredText(n.timeout))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("failed to notify session expiry",
			zap.Int64("chat_id", chatID),
			zap.String("username", identity.Username),
			zap.Error(err),
		)
	}
}

func (n *Notifier) NotifyExamSubmitted(chatID int64, record entities.ResultRecord) {
	msg := newMessage(chatID, renderSubmitted(record))
	if _, err := n.bot.Send(msg); err != nil {
		n.logger.Error("failed to notify exam submission",
			zap.Int64("chat_id", chatID),
			zap.String("username", record.Username),
			zap.Error(err),
		)
	}
}
