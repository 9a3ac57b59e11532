package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

// GeneratorAdapter asks the remote content service for a question batch and
// turns its reply into entities.Question values. It never retries.
type GeneratorAdapter struct {
	client ContentClient
	count  int
	logger *zap.Logger
}

// NewGeneratorAdapter creates a new GeneratorAdapter requesting count questions per batch.
func NewGeneratorAdapter(client ContentClient, count int, logger *zap.Logger) *GeneratorAdapter {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	return &GeneratorAdapter{client: client, count: count, logger: logger}
}

// Generate implements QuestionGenerator.
func (g *GeneratorAdapter) Generate(ctx context.Context, selection entities.TopicSelection) ([]entities.Question, error) {
	raw, err := g.client.GenerateJSON(ctx, BuildPrompt(selection, g.count))
	if err != nil {
		return nil, &GenerationError{Stage: "request", Err: err}
	}

	questions, dropped, err := DecodeQuestions(raw)
	if err != nil {
		return nil, &GenerationError{Stage: "parse", Err: err}
	}
	if dropped > 0 {
		g.logger.Warn("dropped malformed generated questions", zap.Int("dropped", dropped))
	}

	g.logger.Debug("questions generated",
		zap.Int("questions", len(questions)),
		zap.Int("requested", g.count),
	)
	return questions, nil
}

type rawQuestion struct {
	ID             string                       `json:"id"`
	Subject        string                       `json:"subject"`
	Topic          string                       `json:"topic"`
	Type           string                       `json:"type"`
	CognitiveLevel string                       `json:"cognitiveLevel"`
	Text           string                       `json:"text"`
	Passage        string                       `json:"passage"`
	Options        []string                     `json:"options"`
	Categories     []entities.CategoryStatement `json:"categories"`
	CorrectAnswer  json.RawMessage              `json:"correctAnswer"`
	Explanation    string                       `json:"explanation"`
}

// DecodeQuestions parses a generated batch. Items lacking text, a known subject
// or a cognitive level are dropped and counted; a batch left empty is an error.
func DecodeQuestions(raw string) ([]entities.Question, int, error) {
	var items []rawQuestion
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &items); err != nil {
		return nil, 0, fmt.Errorf("decode batch: %w", err)
	}

	questions := make([]entities.Question, 0, len(items))
	seen := make(map[string]bool, len(items))
	dropped := 0

	for _, item := range items {
		q, ok := item.toQuestion()
		if !ok {
			dropped++
			continue
		}
		if q.ID == "" || seen[q.ID] {
			q.ID = uuid.NewString()
		}
		seen[q.ID] = true
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, dropped, ErrEmptyBatch
	}
	return questions, dropped, nil
}

func (r rawQuestion) toQuestion() (entities.Question, bool) {
	text := strings.TrimSpace(r.Text)
	subject, okSubject := entities.ParseSubject(r.Subject)
	level, okLevel := entities.ParseCognitiveLevel(r.CognitiveLevel)
	if text == "" || !okSubject || !okLevel {
		return entities.Question{}, false
	}

	q := entities.Question{
		ID:             strings.TrimSpace(r.ID),
		Subject:        subject,
		Topic:          strings.TrimSpace(r.Topic),
		CognitiveLevel: level,
		Text:           text,
		Passage:        r.Passage,
		Options:        trimOptions(r.Options),
		Categories:     trimCategories(r.Categories),
		Explanation:    r.Explanation,
	}

	answer := decodeCorrectAnswer(r.CorrectAnswer)

	qtype, ok := entities.ParseQuestionType(r.Type)
	if !ok {
		qtype = inferType(answer, r)
	}
	q.Type = qtype
	q.CorrectAnswer = trimAnswer(coerceAnswer(qtype, answer, q.Categories))

	return q, true
}

// trimOptions trims every option and drops blank ones, so that options, the
// correct answer and user picks are all compared in the same trimmed form.
func trimOptions(options []string) []string {
	if options == nil {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func trimCategories(categories []entities.CategoryStatement) []entities.CategoryStatement {
	if categories == nil {
		return nil
	}
	out := make([]entities.CategoryStatement, len(categories))
	for i, c := range categories {
		out[i] = entities.CategoryStatement{
			Statement: strings.TrimSpace(c.Statement),
			Category:  strings.TrimSpace(c.Category),
		}
	}
	return out
}

func trimAnswer(answer entities.Answer) entities.Answer {
	switch a := answer.(type) {
	case entities.SingleChoiceAnswer:
		return entities.SingleChoiceAnswer(strings.TrimSpace(string(a)))
	case entities.MultiChoiceAnswer:
		set := make([]string, len(a))
		for i, o := range a {
			set[i] = strings.TrimSpace(o)
		}
		return entities.NewMultiChoiceAnswer(set...)
	case entities.CategorizationAnswer:
		out := make(entities.CategorizationAnswer, len(a))
		for k, v := range a {
			out[k] = strings.TrimSpace(v)
		}
		return out
	default:
		return answer
	}
}

// decodeCorrectAnswer turns the wire value into an answer. A string holding an
// encoded array or object is decoded; if that fails the string is kept as a
// single choice answer.
func decodeCorrectAnswer(raw json.RawMessage) entities.Answer {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			if a, err := decodeStructured([]byte(trimmed)); err == nil {
				return a
			}
		}
		return entities.SingleChoiceAnswer(trimmed)
	}

	a, err := decodeStructured(raw)
	if err != nil {
		return nil
	}
	return a
}

func decodeStructured(data []byte) (entities.Answer, error) {
	var set []string
	if err := json.Unmarshal(data, &set); err == nil {
		return entities.NewMultiChoiceAnswer(set...), nil
	}

	var mapping entities.CategorizationAnswer
	if err := json.Unmarshal(data, &mapping); err == nil {
		return mapping, nil
	}

	return nil, errors.New("not a string array or statement mapping")
}

func inferType(answer entities.Answer, r rawQuestion) entities.QuestionType {
	switch {
	case answer != nil && answer.Type() == entities.QuestionTypeCategorization, answer == nil && len(r.Categories) > 0:
		return entities.QuestionTypeCategorization
	case answer != nil && answer.Type() == entities.QuestionTypeMultiChoice:
		return entities.QuestionTypeMultiChoice
	default:
		return entities.QuestionTypeSingleChoice
	}
}

// coerceAnswer fixes answers whose shape disagrees with the declared type where
// the intent is unambiguous. Anything else is left as is and makes the question
// unanswerable.
func coerceAnswer(qtype entities.QuestionType, answer entities.Answer, categories []entities.CategoryStatement) entities.Answer {
	switch qtype {
	case entities.QuestionTypeSingleChoice:
		if set, ok := answer.(entities.MultiChoiceAnswer); ok && len(set) == 1 {
			return entities.SingleChoiceAnswer(set[0])
		}
	case entities.QuestionTypeCategorization:
		if _, ok := answer.(entities.CategorizationAnswer); !ok {
			if ref := referenceMapping(categories); ref != nil {
				return ref
			}
		}
	}
	return answer
}

func referenceMapping(categories []entities.CategoryStatement) entities.CategorizationAnswer {
	if len(categories) == 0 {
		return nil
	}
	m := make(entities.CategorizationAnswer, len(categories))
	for i, c := range categories {
		if strings.TrimSpace(c.Category) == "" {
			return nil
		}
		m[i] = c.Category
	}
	return m
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
