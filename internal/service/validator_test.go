package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

func TestAnswerValidator_Normalize(t *testing.T) {
	questions := sampleQuestions()
	v := NewAnswerValidator()

	tests := []struct {
		name    string
		q       int
		answer  entities.Answer
		want    entities.Answer
		wantErr error
	}{
		{name: "single trims", q: 0, answer: entities.SingleChoiceAnswer(" 3 "), want: entities.SingleChoiceAnswer("3")},
		{name: "single unknown option", q: 0, answer: entities.SingleChoiceAnswer("7"), wantErr: ErrShapeMismatch},
		{name: "single empty clears", q: 0, answer: entities.SingleChoiceAnswer("  ")},
		{name: "nil clears", q: 0},
		{name: "single given a set", q: 0, answer: entities.NewMultiChoiceAnswer("3"), wantErr: ErrShapeMismatch},
		{name: "multi dedups and sorts", q: 1, answer: entities.MultiChoiceAnswer{"C", "A", "C"}, want: entities.MultiChoiceAnswer{"A", "C"}},
		{name: "multi unknown option", q: 1, answer: entities.MultiChoiceAnswer{"A", "Z"}, wantErr: ErrShapeMismatch},
		{name: "multi empty clears", q: 1, answer: entities.MultiChoiceAnswer{}},
		{name: "categorization partial", q: 2, answer: entities.CategorizationAnswer{1: "Salah"}, want: entities.CategorizationAnswer{1: "Salah"}},
		{name: "categorization bad statement", q: 2, answer: entities.CategorizationAnswer{5: "Benar"}, wantErr: ErrShapeMismatch},
		{name: "categorization bad label", q: 2, answer: entities.CategorizationAnswer{0: "Mungkin"}, wantErr: ErrShapeMismatch},
		{name: "unanswerable", q: 3, answer: entities.SingleChoiceAnswer("A"), wantErr: ErrUnanswerable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Normalize(&questions[tt.q], tt.answer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Normalize() error = %v, want %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
