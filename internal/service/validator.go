package service

import (
	"strings"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

// AnswerValidator checks an answer against the shape and content of its question.
type AnswerValidator struct{}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{}
}

// Normalize validates answer for q and returns it in canonical form.
// A nil result means the answer is empty and should be cleared.
func (v *AnswerValidator) Normalize(q *entities.Question, answer entities.Answer) (entities.Answer, error) {
	if !q.Answerable() {
		return nil, ErrUnanswerable
	}
	if answer == nil {
		return nil, nil
	}
	if answer.Type() != q.Type {
		return nil, ErrShapeMismatch
	}

	switch a := answer.(type) {
	case entities.SingleChoiceAnswer:
		opt := strings.TrimSpace(string(a))
		if opt == "" {
			return nil, nil
		}
		if !q.HasOption(opt) {
			return nil, ErrShapeMismatch
		}
		return entities.SingleChoiceAnswer(opt), nil

	case entities.MultiChoiceAnswer:
		set := entities.NewMultiChoiceAnswer(a...)
		for _, opt := range set {
			if !q.HasOption(opt) {
				return nil, ErrShapeMismatch
			}
		}
		if len(set) == 0 {
			return nil, nil
		}
		return set, nil

	case entities.CategorizationAnswer:
		out := make(entities.CategorizationAnswer, len(a))
		for idx, label := range a {
			if idx < 0 || idx >= len(q.Categories) || !q.HasCategoryLabel(label) {
				return nil, ErrShapeMismatch
			}
			out[idx] = label
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil

	default:
		return nil, ErrShapeMismatch
	}
}
