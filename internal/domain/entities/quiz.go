package entities

import "time"

// ExamState is the state of an exam session.
type ExamState string

const (
	ExamConfiguring ExamState = "configuring"
	ExamGenerating  ExamState = "generating"
	ExamAnswering   ExamState = "answering"
	ExamScored      ExamState = "scored"
)

// GuestUsername is recorded when an attempt is scored without an identity.
const GuestUsername = "Guest"

// ResultRecord is the immutable summary of one scored attempt.
type ResultRecord struct {
	Username       string    `json:"username"`
	Score          int       `json:"score"` // 0..100
	TotalQuestions int       `json:"totalQuestions"`
	CorrectCount   int       `json:"correctCount"`
	Timestamp      time.Time `json:"date"`
	Topics         []string  `json:"topics"`
}

// ReviewItem is one question of a scored session annotated with its verdict.
type ReviewItem struct {
	Index    int
	Question Question
	Answer   Answer // nil when unanswered
	Correct  bool
}
