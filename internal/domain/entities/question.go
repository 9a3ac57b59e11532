package entities

import "strings"

// Subject is the exam subject a question belongs to.
type Subject string

const (
	SubjectMathematics  Subject = "Matematika"
	SubjectLanguageArts Subject = "Bahasa Indonesia"
)

// QuestionType determines the shape of both the correct answer and the user's answer.
type QuestionType string

const (
	QuestionTypeSingleChoice   QuestionType = "Pilihan Ganda"
	QuestionTypeMultiChoice    QuestionType = "Pilihan Ganda Kompleks (MCMA)"
	QuestionTypeCategorization QuestionType = "Pilihan Ganda Kompleks (Kategori)"
)

// CognitiveLevel is the skill tier tag of a question.
type CognitiveLevel string

const (
	CognitiveL1 CognitiveLevel = "L1 (Pemahaman)"
	CognitiveL2 CognitiveLevel = "L2 (Penerapan)"
	CognitiveL3 CognitiveLevel = "L3 (Penalaran)"
)

// CognitiveLevels lists every cognitive level in display order.
var CognitiveLevels = []CognitiveLevel{CognitiveL1, CognitiveL2, CognitiveL3}

// DefaultCategoryLabels are offered for categorization statements
// when the question itself carries no reference categories.
var DefaultCategoryLabels = []string{"Benar", "Salah"}

// ParseSubject maps a loosely formatted subject name to a Subject.
func ParseSubject(s string) (Subject, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "matematika"), strings.Contains(v, "math"), strings.Contains(v, "numerasi"):
		return SubjectMathematics, true
	case strings.Contains(v, "indonesia"), strings.Contains(v, "bahasa"), strings.Contains(v, "literasi"):
		return SubjectLanguageArts, true
	default:
		return "", false
	}
}

// ParseQuestionType maps a loosely formatted type name to a QuestionType.
func ParseQuestionType(s string) (QuestionType, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return "", false
	case strings.Contains(v, "kategori"), strings.Contains(v, "benar/salah"), strings.Contains(v, "categor"):
		return QuestionTypeCategorization, true
	case strings.Contains(v, "mcma"), strings.Contains(v, "kompleks"), strings.Contains(v, "multi"):
		return QuestionTypeMultiChoice, true
	case strings.Contains(v, "pilihan ganda"), strings.Contains(v, "single"), strings.Contains(v, "choice"):
		return QuestionTypeSingleChoice, true
	default:
		return "", false
	}
}

// ParseCognitiveLevel maps "L1", "l2 (Penerapan)" and similar to a CognitiveLevel.
func ParseCognitiveLevel(s string) (CognitiveLevel, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(v, "L1"):
		return CognitiveL1, true
	case strings.HasPrefix(v, "L2"):
		return CognitiveL2, true
	case strings.HasPrefix(v, "L3"):
		return CognitiveL3, true
	default:
		return "", false
	}
}

// CategoryStatement is one statement of a categorization question
// together with its reference category.
type CategoryStatement struct {
	Statement string `json:"statement"`
	Category  string `json:"category"`
}

// Question is one immutable exam item.
type Question struct {
	ID             string              `json:"id"`
	Subject        Subject             `json:"subject"`
	Topic          string              `json:"topic"`
	Type           QuestionType        `json:"type"`
	CognitiveLevel CognitiveLevel      `json:"cognitiveLevel"`
	Text           string              `json:"text"`
	Passage        string              `json:"passage,omitempty"`     // optional stimulus text
	Options        []string            `json:"options,omitempty"`     // single and multi choice only
	Categories     []CategoryStatement `json:"categories,omitempty"`  // categorization only
	CorrectAnswer  Answer              `json:"-"`                     // shape must match Type
	Explanation    string              `json:"explanation,omitempty"` // shown in review
}

// HasOption reports whether opt is one of the question's options.
func (q *Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

// CategoryLabels returns the labels a statement can be assigned to.
func (q *Question) CategoryLabels() []string {
	var labels []string
	seen := make(map[string]bool)
	for _, c := range q.Categories {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		labels = append(labels, c.Category)
	}
	for _, l := range DefaultCategoryLabels {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	return labels
}

// HasCategoryLabel reports whether label is assignable to a statement.
func (q *Question) HasCategoryLabel(label string) bool {
	for _, l := range q.CategoryLabels() {
		if l == label {
			return true
		}
	}
	return false
}

// Answerable reports whether the question can be answered at all: it carries
// the options or statements its type needs and a correct answer of the right shape.
func (q *Question) Answerable() bool {
	if q.CorrectAnswer == nil || q.CorrectAnswer.Type() != q.Type {
		return false
	}

	switch q.Type {
	case QuestionTypeSingleChoice, QuestionTypeMultiChoice:
		return len(q.Options) > 0
	case QuestionTypeCategorization:
		return len(q.Categories) > 0
	default:
		return false
	}
}

// IsCorrect reports whether a matches the question's correct answer.
// Unanswerable questions are never answered correctly.
func (q *Question) IsCorrect(a Answer) bool {
	if !q.Answerable() || a == nil {
		return false
	}
	return q.CorrectAnswer.Equal(a)
}
