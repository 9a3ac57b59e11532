package service

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/schedule"
)

// DefaultExamDuration is the fixed time allowed for one attempt.
const DefaultExamDuration = 60 * time.Minute

// ExamSnapshot is a consistent copy of the controller state for rendering.
type ExamSnapshot struct {
	State     entities.ExamState
	Attempt   uint64
	Selection entities.TopicSelection
	Questions []entities.Question
	Answers   map[int]entities.Answer
	Remaining int // seconds
	Cursor    int
	Answered  int
	Record    *entities.ResultRecord
}

// ExamController drives one exam session through
// configuring, generating, answering and scored.
type ExamController struct {
	mu         sync.Mutex
	generator  QuestionGenerator
	identities IdentityProvider
	history    HistoryRepository
	validator  *AnswerValidator
	clock      clockwork.Clock
	logger     *zap.Logger
	notifier   ExamNotifier
	duration   time.Duration

	state     entities.ExamState
	selection entities.TopicSelection
	questions []entities.Question
	answers   map[int]entities.Answer
	remaining int
	cursor    int
	attempt   uint64
	countdown *schedule.Task
	record    *entities.ResultRecord
}

// NewExamController creates a controller in the configuring state with the default topic selection.
func NewExamController(
	generator QuestionGenerator,
	identities IdentityProvider,
	history HistoryRepository,
	clock clockwork.Clock,
	logger *zap.Logger,
	duration time.Duration,
) *ExamController {
	if duration <= 0 {
		duration = DefaultExamDuration
	}

	return &ExamController{
		generator:  generator,
		identities: identities,
		history:    history,
		validator:  NewAnswerValidator(),
		clock:      clock,
		logger:     logger,
		duration:   duration,
		state:      entities.ExamConfiguring,
		selection:  entities.DefaultTopicSelection(),
		answers:    make(map[int]entities.Answer),
	}
}

// SetNotifier registers the receiver of automatic submissions.
func (c *ExamController) SetNotifier(n ExamNotifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// State returns the current exam state.
func (c *ExamController) State() entities.ExamState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Attempt returns the number of the current attempt. It changes on every
// generation and every reset.
func (c *ExamController) Attempt() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempt
}

// RemainingSeconds returns the countdown value.
func (c *ExamController) RemainingSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// AnsweredCount returns how many questions carry a non-empty answer.
func (c *ExamController) AnsweredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.answeredLocked()
}

// Questions returns a copy of the current question set.
func (c *ExamController) Questions() []entities.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]entities.Question(nil), c.questions...)
}

// Selection returns a copy of the topic selection.
func (c *ExamController) Selection() entities.TopicSelection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.Clone()
}

// Snapshot returns a copy of everything needed to render the session.
func (c *ExamController) Snapshot() ExamSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	answers := make(map[int]entities.Answer, len(c.answers))
	for k, v := range c.answers {
		answers[k] = v
	}

	s := ExamSnapshot{
		State:     c.state,
		Attempt:   c.attempt,
		Selection: c.selection.Clone(),
		Questions: append([]entities.Question(nil), c.questions...),
		Answers:   answers,
		Remaining: c.remaining,
		Cursor:    c.cursor,
		Answered:  c.answeredLocked(),
	}
	if c.record != nil {
		r := *c.record
		s.Record = &r
	}
	return s
}

// ToggleTopic flips topic in the selection of subject.
// A subject is never left without a selected topic.
func (c *ExamController) ToggleTopic(subject entities.Subject, topic string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != entities.ExamConfiguring {
		return ErrInvalidState
	}

	next, err := c.selection.Toggle(subject, topic)
	if err != nil {
		return err
	}
	c.selection = next
	return nil
}

// ConfirmGenerate requests a question batch for the current selection and
// starts the countdown. The lock is released while the generator runs; if the
// session is reset meanwhile the result is discarded with ErrSessionAbandoned.
func (c *ExamController) ConfirmGenerate(ctx context.Context) error {
	c.mu.Lock()
	if c.state != entities.ExamConfiguring {
		c.mu.Unlock()
		return ErrInvalidState
	}
	if c.identities != nil && c.identities.CurrentIdentity() == nil {
		c.mu.Unlock()
		return ErrNotAuthenticated
	}

	c.state = entities.ExamGenerating
	c.attempt++
	attempt := c.attempt
	selection := c.selection.Clone()
	c.mu.Unlock()

	c.logger.Info("generating exam",
		zap.Uint64("attempt", attempt),
		zap.Strings("topics", selection.Flatten()),
	)

	questions, err := c.generator.Generate(ctx, selection)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.attempt != attempt || c.state != entities.ExamGenerating {
		c.logger.Info("discarding generation result of abandoned session", zap.Uint64("attempt", attempt))
		return ErrSessionAbandoned
	}
	if err != nil {
		c.state = entities.ExamConfiguring
		c.logger.Error("failed to generate exam", zap.Uint64("attempt", attempt), zap.Error(err))
		return err
	}
	if len(questions) == 0 {
		c.state = entities.ExamConfiguring
		return &GenerationError{Stage: "parse", Err: ErrEmptyBatch}
	}

	c.questions = questions
	c.answers = make(map[int]entities.Answer)
	c.remaining = int(c.duration / time.Second)
	c.cursor = 0
	c.record = nil
	c.startCountdownLocked(attempt)
	c.state = entities.ExamAnswering

	c.logger.Info("exam started",
		zap.Uint64("attempt", attempt),
		zap.Int("questions", len(questions)),
		zap.Int("remaining_seconds", c.remaining),
	)
	return nil
}

// startCountdownLocked replaces any running countdown with a new one bound to attempt.
func (c *ExamController) startCountdownLocked(attempt uint64) {
	c.countdown.Cancel()
	c.countdown = schedule.Every(c.clock, time.Second, func() {
		c.tick(attempt)
	})
}

func (c *ExamController) tick(attempt uint64) {
	c.mu.Lock()
	if c.attempt != attempt || c.state != entities.ExamAnswering {
		c.mu.Unlock()
		return
	}

	c.remaining--
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}

	c.remaining = 0
	record, err := c.submitLocked(context.Background())
	notifier := c.notifier
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("failed to auto-submit exam", zap.Uint64("attempt", attempt), zap.Error(err))
		return
	}

	c.logger.Info("exam auto-submitted", zap.Uint64("attempt", attempt), zap.Int("score", record.Score))
	if notifier != nil {
		notifier.ExamAutoSubmitted(record)
	}
}

// SetAnswer validates answer against question index and stores it.
// An empty answer clears the stored one.
func (c *ExamController) SetAnswer(index int, answer entities.Answer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setAnswerLocked(index, answer)
}

func (c *ExamController) setAnswerLocked(index int, answer entities.Answer) error {
	if c.state != entities.ExamAnswering {
		return ErrInvalidState
	}
	if index < 0 || index >= len(c.questions) {
		return ErrQuestionIndex
	}

	normalized, err := c.validator.Normalize(&c.questions[index], answer)
	if err != nil {
		c.logger.Debug("ignoring answer",
			zap.Int("question_index", index),
			zap.Error(err),
		)
		return err
	}

	if normalized == nil {
		delete(c.answers, index)
		return nil
	}
	c.answers[index] = normalized
	return nil
}

// ChooseOption answers a choice question of attempt: it sets the option of a
// single choice question and toggles it in a multi choice question.
func (c *ExamController) ChooseOption(attempt uint64, index, option int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt {
		return ErrStaleInteraction
	}
	if c.state != entities.ExamAnswering {
		return ErrInvalidState
	}
	if index < 0 || index >= len(c.questions) {
		return ErrQuestionIndex
	}

	q := &c.questions[index]
	if option < 0 || option >= len(q.Options) {
		return ErrShapeMismatch
	}
	opt := q.Options[option]

	switch q.Type {
	case entities.QuestionTypeSingleChoice:
		return c.setAnswerLocked(index, entities.SingleChoiceAnswer(opt))
	case entities.QuestionTypeMultiChoice:
		current, _ := c.answers[index].(entities.MultiChoiceAnswer)
		return c.setAnswerLocked(index, current.Toggle(opt))
	default:
		return ErrShapeMismatch
	}
}

// AssignCategory assigns label to statement of a categorization question of attempt.
func (c *ExamController) AssignCategory(attempt uint64, index, statement int, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt {
		return ErrStaleInteraction
	}
	if c.state != entities.ExamAnswering {
		return ErrInvalidState
	}
	if index < 0 || index >= len(c.questions) {
		return ErrQuestionIndex
	}
	if c.questions[index].Type != entities.QuestionTypeCategorization {
		return ErrShapeMismatch
	}

	current, _ := c.answers[index].(entities.CategorizationAnswer)
	return c.setAnswerLocked(index, current.With(statement, label))
}

// Goto moves the question cursor of attempt.
func (c *ExamController) Goto(attempt uint64, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt {
		return ErrStaleInteraction
	}
	if c.state != entities.ExamAnswering && c.state != entities.ExamScored {
		return ErrInvalidState
	}
	if index < 0 || index >= len(c.questions) {
		return ErrQuestionIndex
	}
	c.cursor = index
	return nil
}

// Submit scores the running attempt. Calling it again after scoring returns
// the stored record and appends nothing.
func (c *ExamController) Submit(ctx context.Context) (entities.ResultRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(ctx)
}

// SubmitAttempt is Submit for an interaction bound to attempt.
func (c *ExamController) SubmitAttempt(ctx context.Context, attempt uint64) (entities.ResultRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if attempt != c.attempt {
		return entities.ResultRecord{}, ErrStaleInteraction
	}
	return c.submitLocked(ctx)
}

func (c *ExamController) submitLocked(ctx context.Context) (entities.ResultRecord, error) {
	if c.state == entities.ExamScored && c.record != nil {
		return *c.record, nil
	}
	if c.state != entities.ExamAnswering {
		return entities.ResultRecord{}, ErrInvalidState
	}

	c.countdown.Cancel()
	c.countdown = nil

	res, err := Score(c.questions, c.answers)
	if err != nil {
		return entities.ResultRecord{}, err
	}

	record := entities.ResultRecord{
		Username:       c.usernameLocked(),
		Score:          res.PercentScore,
		TotalQuestions: res.TotalQuestions,
		CorrectCount:   res.CorrectCount,
		Timestamp:      c.clock.Now(),
		Topics:         c.selection.Flatten(),
	}

	c.state = entities.ExamScored
	c.record = &record
	c.cursor = 0

	if err := c.history.Prepend(ctx, record); err != nil {
		c.logger.Error("failed to save exam result",
			zap.String("username", record.Username),
			zap.Error(err),
		)
	}

	c.logger.Info("exam scored",
		zap.String("username", record.Username),
		zap.Int("score", record.Score),
		zap.Int("correct", record.CorrectCount),
		zap.Int("total", record.TotalQuestions),
	)
	return record, nil
}

func (c *ExamController) usernameLocked() string {
	if c.identities == nil {
		return entities.GuestUsername
	}
	if id := c.identities.CurrentIdentity(); id != nil && id.Username != "" {
		return id.Username
	}
	return entities.GuestUsername
}

// Result re-scores the scored attempt. The record is rebuilt from the stored
// username and timestamp, so it equals the one returned by Submit.
func (c *ExamController) Result() (entities.ResultRecord, ScoreResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != entities.ExamScored || c.record == nil {
		return entities.ResultRecord{}, ScoreResult{}, ErrInvalidState
	}

	res, err := Score(c.questions, c.answers)
	if err != nil {
		return entities.ResultRecord{}, ScoreResult{}, err
	}

	record := entities.ResultRecord{
		Username:       c.record.Username,
		Score:          res.PercentScore,
		TotalQuestions: res.TotalQuestions,
		CorrectCount:   res.CorrectCount,
		Timestamp:      c.record.Timestamp,
		Topics:         append([]string(nil), c.record.Topics...),
	}
	return record, res, nil
}

// Review returns every question of the scored attempt with the stored answer and its verdict.
func (c *ExamController) Review() ([]entities.ReviewItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != entities.ExamScored {
		return nil, ErrInvalidState
	}

	res, err := Score(c.questions, c.answers)
	if err != nil {
		return nil, err
	}

	items := make([]entities.ReviewItem, len(c.questions))
	for i, q := range c.questions {
		items[i] = entities.ReviewItem{
			Index:    i,
			Question: q,
			Answer:   c.answers[i],
			Correct:  res.Verdicts[i],
		}
	}
	return items, nil
}

// Retry leaves a scored attempt and returns to configuring with the same topic selection.
func (c *ExamController) Retry() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != entities.ExamScored {
		return ErrInvalidState
	}
	c.clearLocked()
	return nil
}

// Reset discards the session from any state: it stops the countdown,
// invalidates in-flight generation and returns to configuring.
func (c *ExamController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != entities.ExamConfiguring {
		c.logger.Info("exam session discarded", zap.String("state", string(c.state)))
	}
	c.clearLocked()
}

func (c *ExamController) clearLocked() {
	c.countdown.Cancel()
	c.countdown = nil
	c.attempt++
	c.state = entities.ExamConfiguring
	c.questions = nil
	c.answers = make(map[int]entities.Answer)
	c.remaining = 0
	c.cursor = 0
	c.record = nil
}

func (c *ExamController) answeredLocked() int {
	n := 0
	for _, a := range c.answers {
		if entities.IsAnswered(a) {
			n++
		}
	}
	return n
}
