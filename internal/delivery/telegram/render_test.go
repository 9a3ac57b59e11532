package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{3600, "60:00"},
		{59, "00:59"},
		{61, "01:01"},
		{0, "00:00"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		if got := formatClock(tt.seconds); got != tt.want {
			t.Errorf("formatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestAnswerTextCategorization(t *testing.T) {
	q := testQuestions()[1]

	got := answerText(&q, entities.CategorizationAnswer{1: "Benar"})
	want := "Puisi memiliki rima → -\nMajas selalu bermakna harfiah → Benar"
	if got != want {
		t.Errorf("answerText = %q, want %q", got, want)
	}

	if got := answerText(&q, nil); got != "-" {
		t.Errorf("answerText(nil) = %q", got)
	}
}

func TestRenderQuestionMarksSelection(t *testing.T) {
	s := service.ExamSnapshot{
		State:     entities.ExamAnswering,
		Questions: testQuestions(),
		Answers:   map[int]entities.Answer{0: entities.SingleChoiceAnswer("3")},
		Remaining: 3599,
		Answered:  1,
	}

	text := renderQuestion(s)
	if !strings.Contains(text, "✅ B") {
		t.Errorf("selected option not marked:\n%s", text)
	}
	if !strings.Contains(text, "59:59") || !strings.Contains(text, "Terjawab 1/2") {
		t.Errorf("missing timer or progress:\n%s", text)
	}

	kb := buildQuestionKeyboard(s)
	if got := kb.InlineKeyboard[0][1].Text; got != "✅ B" {
		t.Errorf("second option button = %q", got)
	}
}

func TestRenderHistory(t *testing.T) {
	if got := renderHistory(nil); got != md(msgNoHistory) {
		t.Errorf("empty history = %q", got)
	}

	ts := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	text := renderHistory([]entities.ResultRecord{
		{Username: "budi", Score: 80, CorrectCount: 24, TotalQuestions: 30, Timestamp: ts, Topics: []string{"Aljabar Dasar"}},
	})
	if !strings.Contains(text, "Skor 80") || !strings.Contains(text, "01 Mar 2026 09:30") {
		t.Errorf("history text = %q", text)
	}
}

func TestDecodeCallbackAttempt(t *testing.T) {
	data := decodeCallback(buildCategoryCallback(12, 3, 1, 0))
	if data.Action != actionCategory {
		t.Fatalf("action = %q", data.Action)
	}

	attempt, rest, ok := data.attempt()
	if !ok || attempt != 12 {
		t.Fatalf("attempt = %d, %v", attempt, ok)
	}
	v, ok := rest.ints(3)
	if !ok || v[0] != 3 || v[1] != 1 || v[2] != 0 {
		t.Errorf("params = %v, %v", v, ok)
	}

	if _, _, ok := decodeCallback("ans:x:1:2").attempt(); ok {
		t.Error("non-numeric attempt accepted")
	}
}

func TestRenderResultLeadsWithComposition(t *testing.T) {
	questions := testQuestions()
	res, err := service.Score(questions, map[int]entities.Answer{0: entities.SingleChoiceAnswer("3")})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	record := entities.ResultRecord{Username: "budi", Score: res.PercentScore, CorrectCount: res.CorrectCount, TotalQuestions: res.TotalQuestions}

	text := renderResult(record, res)
	for _, want := range []string{
		"Matematika: 1 soal, benar 1 \\(100%\\)",
		"Bahasa Indonesia: 1 soal, benar 0 \\(0%\\)",
		"L2 \\(Penerapan\\): 0 soal, benar 0",
		"Puisi & Majas: 1 soal, benar 0",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("result text lacks %q:\n%s", want, text)
		}
	}
}
