package entities

import "testing"

func TestQuestionAnswerable(t *testing.T) {
	single := Question{
		Type:          QuestionTypeSingleChoice,
		Options:       []string{"1", "3"},
		CorrectAnswer: SingleChoiceAnswer("3"),
	}
	if !single.Answerable() || !single.IsCorrect(SingleChoiceAnswer("3")) {
		t.Error("single choice question should be answerable and accept 3")
	}

	noOptions := single
	noOptions.Options = nil
	if noOptions.Answerable() || noOptions.IsCorrect(SingleChoiceAnswer("3")) {
		t.Error("question without options must not be answerable")
	}

	wrongShape := single
	wrongShape.CorrectAnswer = NewMultiChoiceAnswer("3")
	if wrongShape.Answerable() {
		t.Error("question with a mismatched correct answer must not be answerable")
	}
}

func TestCategoryLabels(t *testing.T) {
	q := Question{
		Type: QuestionTypeCategorization,
		Categories: []CategoryStatement{
			{Statement: "a", Category: "Fakta"},
			{Statement: "b", Category: "Opini"},
			{Statement: "c", Category: "Fakta"},
		},
	}

	got := q.CategoryLabels()
	want := []string{"Fakta", "Opini", "Benar", "Salah"}
	if len(got) != len(want) {
		t.Fatalf("CategoryLabels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CategoryLabels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if s, ok := ParseSubject("NUMERASI"); !ok || s != SubjectMathematics {
		t.Errorf("ParseSubject(NUMERASI) = %q, %v", s, ok)
	}
	if s, ok := ParseSubject("Literasi Bahasa"); !ok || s != SubjectLanguageArts {
		t.Errorf("ParseSubject(Literasi Bahasa) = %q, %v", s, ok)
	}
	if typ, ok := ParseQuestionType("Pilihan Ganda Kompleks (Kategori)"); !ok || typ != QuestionTypeCategorization {
		t.Errorf("ParseQuestionType = %q, %v", typ, ok)
	}
	if typ, ok := ParseQuestionType("Pilihan Ganda Kompleks (MCMA)"); !ok || typ != QuestionTypeMultiChoice {
		t.Errorf("ParseQuestionType = %q, %v", typ, ok)
	}
	if lvl, ok := ParseCognitiveLevel("l2 (penerapan)"); !ok || lvl != CognitiveL2 {
		t.Errorf("ParseCognitiveLevel = %q, %v", lvl, ok)
	}
	if _, ok := ParseCognitiveLevel("L4"); ok {
		t.Error("ParseCognitiveLevel accepted L4")
	}
}
