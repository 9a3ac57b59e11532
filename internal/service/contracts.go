package service

import (
	"context"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

// QuestionGenerator produces a question batch for a topic selection.
type QuestionGenerator interface {
	Generate(ctx context.Context, selection entities.TopicSelection) ([]entities.Question, error)
}

// ContentClient is the remote generative service. It returns the raw JSON text of the reply.
type ContentClient interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// IdentityProvider exposes the currently authenticated identity, or nil.
type IdentityProvider interface {
	CurrentIdentity() *entities.Identity
}

// AccountRepository manages registered identities.
type AccountRepository interface {
	Register(ctx context.Context, identity *entities.Identity) error
	FindByCredentials(ctx context.Context, username, password string) (*entities.Identity, error)
	FindByPhone(ctx context.Context, phone string) (*entities.Identity, error)
}

// IdentityRepository persists the current identity across restarts.
type IdentityRepository interface {
	Load(ctx context.Context) (*entities.Identity, error)
	Save(ctx context.Context, identity *entities.Identity) error
	Clear(ctx context.Context) error
}

// HistoryRepository stores scored attempts, newest first.
type HistoryRepository interface {
	List(ctx context.Context) ([]entities.ResultRecord, error)
	Prepend(ctx context.Context, record entities.ResultRecord) error
}

// SessionCloser discards a live exam session.
type SessionCloser interface {
	Reset()
}

// SessionNotifier is told when the inactivity deadline forces a logout.
type SessionNotifier interface {
	SessionExpired(identity entities.Identity)
}

// ExamNotifier is told when the countdown reaches zero and submits the exam.
type ExamNotifier interface {
	ExamAutoSubmitted(record entities.ResultRecord)
}

// Notifier delivers asynchronous events to a chat.
type Notifier interface {
	NotifySessionExpired(chatID int64, identity entities.Identity)
	NotifyExamSubmitted(chatID int64, record entities.ResultRecord)
}
