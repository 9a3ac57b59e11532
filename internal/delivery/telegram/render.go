package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
	"github.com/aliskhannn/tka-exam-bot/internal/service"
)

const (
	historyLimit = 20
	dateLayout   = "02 Jan 2006 15:04"
)

// formatClock renders seconds as mm:ss.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func optionLabel(i int) string {
	return string(rune('A' + i))
}

// renderTopics renders the topic picker.
func renderTopics(sel entities.TopicSelection) string {
	var sb strings.Builder

	sb.WriteString(bold("Pilih Topik Ujian"))
	sb.WriteString("\n\n")
	for _, subject := range entities.Subjects {
		sb.WriteString(bold(string(subject)))
		sb.WriteString("\n")
		sb.WriteString(md(strings.Join(sel.For(subject), ", ")))
		sb.WriteString("\n\n")
	}
	sb.WriteString(md("Ketuk topik untuk memilih atau membatalkan, lalu tekan Mulai Ujian."))

	return sb.String()
}

// renderQuestion renders the question at the cursor of an answering session.
func renderQuestion(s service.ExamSnapshot) string {
	if s.Cursor < 0 || s.Cursor >= len(s.Questions) {
		return md(msgNoExam)
	}
	q := s.Questions[s.Cursor]
	answer := s.Answers[s.Cursor]

	var sb strings.Builder

	sb.WriteString(bold(fmt.Sprintf("Soal %d/%d", s.Cursor+1, len(s.Questions))))
	sb.WriteString(md(fmt.Sprintf(" · %s · %s", q.Subject, q.Topic)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("%s · %s", q.CognitiveLevel, q.Type)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("⏱ %s · Terjawab %d/%d", formatClock(s.Remaining), s.Answered, len(s.Questions))))
	sb.WriteString("\n\n")

	if q.Passage != "" {
		sb.WriteString(italic(q.Passage))
		sb.WriteString("\n\n")
	}
	sb.WriteString(md(q.Text))
	sb.WriteString("\n\n")

	if !q.Answerable() {
		sb.WriteString(italic("Soal ini tidak dapat dijawab dan akan dihitung salah."))
		return sb.String()
	}

	switch q.Type {
	case entities.QuestionTypeSingleChoice, entities.QuestionTypeMultiChoice:
		if q.Type == entities.QuestionTypeMultiChoice {
			sb.WriteString(italic("Pilih semua jawaban yang benar."))
			sb.WriteString("\n")
		}
		for i, opt := range q.Options {
			mark := "▫️"
			if optionSelected(answer, opt) {
				mark = "✅"
			}
			sb.WriteString(md(fmt.Sprintf("%s %s. %s", mark, optionLabel(i), opt)))
			sb.WriteString("\n")
		}

	case entities.QuestionTypeCategorization:
		chosen, _ := answer.(entities.CategorizationAnswer)
		for i, c := range q.Categories {
			label := "?"
			if l, ok := chosen[i]; ok {
				label = l
			}
			sb.WriteString(md(fmt.Sprintf("%d. %s → %s", i+1, c.Statement, label)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func optionSelected(answer entities.Answer, opt string) bool {
	switch a := answer.(type) {
	case entities.SingleChoiceAnswer:
		return string(a) == opt
	case entities.MultiChoiceAnswer:
		return a.Contains(opt)
	default:
		return false
	}
}

// renderResult renders the score and the exam composition per subject,
// cognitive level and topic, each with its correct count.
func renderResult(record entities.ResultRecord, res service.ScoreResult) string {
	var sb strings.Builder

	sb.WriteString(bold("Hasil Ujian"))
	sb.WriteString("\n\n")
	sb.WriteString(md(fmt.Sprintf("Nama: %s", record.Username)))
	sb.WriteString("\n")
	sb.WriteString(bold(fmt.Sprintf("Skor: %d", record.Score)))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("Benar %d dari %d soal", record.CorrectCount, record.TotalQuestions)))
	sb.WriteString("\n\n")

	sb.WriteString(bold("Per Mata Pelajaran"))
	sb.WriteString("\n")
	for _, subject := range entities.Subjects {
		t, ok := res.Breakdown.BySubject[subject]
		if !ok {
			continue
		}
		sb.WriteString(md(fmt.Sprintf("%s: %d soal, benar %d (%d%%)", subject, t.Total, t.Correct, t.Percent())))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(bold("Per Level Kognitif"))
	sb.WriteString("\n")
	for _, lvl := range entities.CognitiveLevels {
		t := res.Breakdown.ByCognitiveLevel[lvl]
		sb.WriteString(md(fmt.Sprintf("%s: %d soal, benar %d", lvl, t.Total, t.Correct)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString(bold("Per Topik"))
	sb.WriteString("\n")
	for _, topic := range res.Breakdown.TopicOrder {
		t := res.Breakdown.ByTopic[topic]
		sb.WriteString(md(fmt.Sprintf("%s: %d soal, benar %d", topic, t.Total, t.Correct)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderSubmitted renders the short notice pushed after an automatic submit.
func renderSubmitted(record entities.ResultRecord) string {
	return md(fmt.Sprintf("%s\nSkor: %d (benar %d dari %d). Ketik /result untuk detail.",
		msgAutoSubmitted, record.Score, record.CorrectCount, record.TotalQuestions))
}

// renderReviewItem renders one question of a scored session with its verdict.
func renderReviewItem(item entities.ReviewItem, total int) string {
	q := item.Question
	var sb strings.Builder

	verdict := "❌ Salah"
	if item.Correct {
		verdict = "✅ Benar"
	}
	sb.WriteString(bold(fmt.Sprintf("Pembahasan %d/%d", item.Index+1, total)))
	sb.WriteString(md(" · " + verdict))
	sb.WriteString("\n")
	sb.WriteString(md(fmt.Sprintf("%s · %s · %s", q.Subject, q.Topic, q.CognitiveLevel)))
	sb.WriteString("\n\n")

	if q.Passage != "" {
		sb.WriteString(italic(q.Passage))
		sb.WriteString("\n\n")
	}
	sb.WriteString(md(q.Text))
	sb.WriteString("\n\n")

	for i, opt := range q.Options {
		sb.WriteString(md(fmt.Sprintf("%s. %s", optionLabel(i), opt)))
		sb.WriteString("\n")
	}
	if len(q.Options) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString(bold("Jawaban Anda:"))
	sb.WriteString("\n")
	sb.WriteString(md(answerText(&q, item.Answer)))
	sb.WriteString("\n")
	sb.WriteString(bold("Kunci Jawaban:"))
	sb.WriteString("\n")
	sb.WriteString(md(answerText(&q, q.CorrectAnswer)))

	if q.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(bold("Penjelasan:"))
		sb.WriteString("\n")
		sb.WriteString(md(q.Explanation))
	}

	return sb.String()
}

// answerText renders an answer in the shape of q: a string, a comma-joined
// set, or one "statement → label" line per statement.
func answerText(q *entities.Question, answer entities.Answer) string {
	if !entities.IsAnswered(answer) {
		return "-"
	}

	mapping, ok := answer.(entities.CategorizationAnswer)
	if !ok {
		return entities.FormatAnswer(answer)
	}

	lines := make([]string, 0, len(q.Categories))
	for i, c := range q.Categories {
		label, ok := mapping[i]
		if !ok {
			label = "-"
		}
		lines = append(lines, fmt.Sprintf("%s → %s", c.Statement, label))
	}
	if len(lines) == 0 {
		return entities.FormatAnswer(answer)
	}
	return strings.Join(lines, "\n")
}

// renderHistory renders past attempts, most recent first.
func renderHistory(records []entities.ResultRecord) string {
	if len(records) == 0 {
		return md(msgNoHistory)
	}

	var sb strings.Builder
	sb.WriteString(bold("Riwayat Ujian"))
	sb.WriteString("\n\n")

	for i, r := range records {
		if i == historyLimit {
			sb.WriteString(md(fmt.Sprintf("…dan %d ujian lainnya", len(records)-historyLimit)))
			break
		}
		sb.WriteString(bold(fmt.Sprintf("%d. Skor %d", i+1, r.Score)))
		sb.WriteString(md(fmt.Sprintf(" · %d/%d · %s · %s", r.CorrectCount, r.TotalQuestions, r.Username, r.Timestamp.Format(dateLayout))))
		sb.WriteString("\n")
		if len(r.Topics) > 0 {
			sb.WriteString(md(strings.Join(r.Topics, ", ")))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}
