package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

type fakeGenerator struct {
	mu        sync.Mutex
	questions []entities.Question
	err       error
	calls     int
	started   chan struct{}
	release   chan struct{}
}

func (g *fakeGenerator) Generate(ctx context.Context, _ entities.TopicSelection) ([]entities.Question, error) {
	g.mu.Lock()
	g.calls++
	started, release := g.started, g.release
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return append([]entities.Question(nil), g.questions...), nil
}

type fakeIdentities struct {
	mu       sync.Mutex
	identity *entities.Identity
}

func (f *fakeIdentities) CurrentIdentity() *entities.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.identity == nil {
		return nil
	}
	id := *f.identity
	return &id
}

func (f *fakeIdentities) set(identity *entities.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = identity
}

type recordingNotifier struct {
	mu        sync.Mutex
	expired   []entities.Identity
	submitted []entities.ResultRecord
}

func (n *recordingNotifier) SessionExpired(identity entities.Identity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expired = append(n.expired, identity)
}

func (n *recordingNotifier) ExamAutoSubmitted(record entities.ResultRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.submitted = append(n.submitted, record)
}

func (n *recordingNotifier) counts() (expired, submitted int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.expired), len(n.submitted)
}

// sampleQuestions returns one question of every type plus a broken one.
func sampleQuestions() []entities.Question {
	return []entities.Question{
		{
			ID:             "q1",
			Subject:        entities.SubjectMathematics,
			Topic:          "Aljabar Dasar",
			Type:           entities.QuestionTypeSingleChoice,
			CognitiveLevel: entities.CognitiveL1,
			Text:           "2x = 6, x = ?",
			Options:        []string{"1", "3", "6", "12"},
			CorrectAnswer:  entities.SingleChoiceAnswer("3"),
		},
		{
			ID:             "q2",
			Subject:        entities.SubjectMathematics,
			Topic:          "Aljabar Dasar",
			Type:           entities.QuestionTypeMultiChoice,
			CognitiveLevel: entities.CognitiveL2,
			Text:           "Pilih bilangan genap",
			Options:        []string{"A", "B", "C", "D"},
			CorrectAnswer:  entities.NewMultiChoiceAnswer("A", "C"),
		},
		{
			ID:             "q3",
			Subject:        entities.SubjectLanguageArts,
			Topic:          "Puisi & Majas",
			Type:           entities.QuestionTypeCategorization,
			CognitiveLevel: entities.CognitiveL3,
			Text:           "Tentukan benar atau salah",
			Categories: []entities.CategoryStatement{
				{Statement: "Puisi memiliki rima", Category: "Benar"},
				{Statement: "Majas selalu bermakna harfiah", Category: "Salah"},
			},
			CorrectAnswer: entities.CategorizationAnswer{0: "Benar", 1: "Salah"},
		},
		{
			ID:             "q4",
			Subject:        entities.SubjectLanguageArts,
			Topic:          "Puisi & Majas",
			Type:           entities.QuestionTypeSingleChoice,
			CognitiveLevel: entities.CognitiveL2,
			Text:           "Soal tanpa opsi",
			CorrectAnswer:  entities.SingleChoiceAnswer("A"),
		},
	}
}

// fullBatch returns n single choice questions split evenly between the subjects.
func fullBatch(n int) []entities.Question {
	out := make([]entities.Question, n)
	for i := range out {
		subject, topic := entities.SubjectMathematics, "Aljabar Dasar"
		if i >= n/2 {
			subject, topic = entities.SubjectLanguageArts, "Puisi & Majas"
		}
		out[i] = entities.Question{
			ID:             fmt.Sprintf("q%d", i+1),
			Subject:        subject,
			Topic:          topic,
			Type:           entities.QuestionTypeSingleChoice,
			CognitiveLevel: entities.CognitiveLevels[i%3],
			Text:           fmt.Sprintf("Soal %d", i+1),
			Options:        []string{"A", "B", "C", "D"},
			CorrectAnswer:  entities.SingleChoiceAnswer("A"),
		}
	}
	return out
}

func blockUntil(t *testing.T, fc *clockwork.FakeClock, n int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := fc.BlockUntilContext(ctx, n); err != nil {
		t.Fatalf("waiting for %d waiters: %v", n, err)
	}
}

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
