package service

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/tka-exam-bot/internal/domain/entities"
)

// DefaultQuestionCount is the item-count target of one exam.
const DefaultQuestionCount = 30

// BuildPrompt renders the generation request for selection. The count is split
// evenly across the two subjects, literacy taking the odd item if there is one.
func BuildPrompt(selection entities.TopicSelection, count int) string {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	math := count / 2
	literacy := count - math

	var b strings.Builder
	b.WriteString("Anda adalah Pakar Asesmen Nasional Kemendikdasmen RI.\n")
	fmt.Fprintf(&b, "Susunlah %d butir soal Tes Kemampuan Akademik (TKA) SD standar ANBK secara cepat.\n\n", count)

	b.WriteString("KISI-KISI:\n")
	fmt.Fprintf(&b, "1. LITERASI (%d Soal): Fokus pada interpretasi teks fiksi/informasi. Subjek: %q. Topik: %s.\n",
		literacy, entities.SubjectLanguageArts, strings.Join(selection.Indonesian, ", "))
	fmt.Fprintf(&b, "2. NUMERASI (%d Soal): Fokus pada penalaran konteks nyata. Subjek: %q. Topik: %s.\n\n",
		math, entities.SubjectMathematics, strings.Join(selection.Math, ", "))

	b.WriteString("LEVEL KOGNITIF:\n")
	fmt.Fprintf(&b, "- %s: 30%%\n", entities.CognitiveL1)
	fmt.Fprintf(&b, "- %s: 40%%\n", entities.CognitiveL2)
	fmt.Fprintf(&b, "- %s: 30%%\n\n", entities.CognitiveL3)

	b.WriteString("PENTING:\n")
	fmt.Fprintf(&b, "- Gunakan variasi %q, %q, dan %q.\n",
		entities.QuestionTypeSingleChoice, entities.QuestionTypeMultiChoice, entities.QuestionTypeCategorization)
	b.WriteString("- Untuk Pilihan Ganda, 'correctAnswer' adalah teks opsi yang benar, persis seperti di 'options'.\n")
	b.WriteString("- Untuk Pilihan Ganda Kompleks (MCMA), 'correctAnswer' adalah stringified JSON Array, misalnya [\"A\", \"C\"].\n")
	b.WriteString("- Untuk Kategori, isi 'categories' dan jadikan 'correctAnswer' stringified JSON Object, misalnya {\"0\": \"Benar\", \"1\": \"Salah\"}.\n")

	return b.String()
}
