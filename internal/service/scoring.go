package service

import (
	"math"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

// Tally counts correct answers within a group of questions.
type Tally struct {
	Correct int
	Total   int
}

// Percent returns the rounded share of correct answers, or 0 for an empty tally.
func (t Tally) Percent() int {
	if t.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(t.Correct) / float64(t.Total)))
}

// Breakdown groups verdicts by subject, topic and cognitive level.
type Breakdown struct {
	BySubject        map[entities.Subject]Tally
	ByTopic          map[string]Tally
	TopicOrder       []string // topics in order of first appearance
	ByCognitiveLevel map[entities.CognitiveLevel]Tally
}

// ScoreResult is the outcome of grading a question set.
type ScoreResult struct {
	CorrectCount   int
	TotalQuestions int
	PercentScore   int
	Verdicts       []bool // per question index
	Breakdown      Breakdown
}

// Score grades answers, keyed by question index, against questions.
// Missing answers and unanswerable questions count as incorrect.
func Score(questions []entities.Question, answers map[int]entities.Answer) (ScoreResult, error) {
	if len(questions) == 0 {
		return ScoreResult{}, ErrNoQuestions
	}

	res := ScoreResult{
		TotalQuestions: len(questions),
		Verdicts:       make([]bool, len(questions)),
		Breakdown: Breakdown{
			BySubject:        make(map[entities.Subject]Tally),
			ByTopic:          make(map[string]Tally),
			ByCognitiveLevel: make(map[entities.CognitiveLevel]Tally, len(entities.CognitiveLevels)),
		},
	}
	for _, lvl := range entities.CognitiveLevels {
		res.Breakdown.ByCognitiveLevel[lvl] = Tally{}
	}

	for i := range questions {
		q := &questions[i]
		ok := q.IsCorrect(answers[i])
		res.Verdicts[i] = ok
		if ok {
			res.CorrectCount++
		}

		res.Breakdown.BySubject[q.Subject] = add(res.Breakdown.BySubject[q.Subject], ok)

		if _, seen := res.Breakdown.ByTopic[q.Topic]; !seen {
			res.Breakdown.TopicOrder = append(res.Breakdown.TopicOrder, q.Topic)
		}
		res.Breakdown.ByTopic[q.Topic] = add(res.Breakdown.ByTopic[q.Topic], ok)

		if q.CognitiveLevel != "" {
			res.Breakdown.ByCognitiveLevel[q.CognitiveLevel] = add(res.Breakdown.ByCognitiveLevel[q.CognitiveLevel], ok)
		}
	}

	res.PercentScore = Tally{Correct: res.CorrectCount, Total: res.TotalQuestions}.Percent()
	return res, nil
}

func add(t Tally, correct bool) Tally {
	t.Total++
	if correct {
		t.Correct++
	}
	return t
}
