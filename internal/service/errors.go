package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState     = errors.New("operation not allowed in current exam state")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrShapeMismatch    = errors.New("answer shape does not match question type")
	ErrUnanswerable     = errors.New("question cannot be answered")
	ErrQuestionIndex    = errors.New("question index out of range")
	ErrNoQuestions      = errors.New("no questions to score")
	ErrSessionAbandoned = errors.New("exam session abandoned during generation")
	ErrGenerationFailed = errors.New("question generation failed")
	ErrEmptyBatch       = errors.New("generator returned no usable questions")
	ErrStaleInteraction = errors.New("interaction belongs to an earlier attempt")
)

// GenerationError is returned when the remote generator call or its reply fails.
// It matches both ErrGenerationFailed and the underlying cause.
type GenerationError struct {
	Stage string // "request" or "parse"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate questions (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGenerationFailed, e.Err}
}
