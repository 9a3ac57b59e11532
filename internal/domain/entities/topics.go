package entities

import "errors"

var (
	ErrUnknownSubject = errors.New("unknown subject")
	ErrUnknownTopic   = errors.New("unknown topic")
)

// MathTopics is the numeracy topic catalog.
var MathTopics = []string{
	"Bilangan & Operasi",
	"Aljabar Dasar",
	"Geometri Bangun Datar",
	"Geometri Bangun Ruang",
	"Pengukuran & Satuan",
	"Data & Statistik",
	"KPK & FPB",
	"Pecahan & Desimal",
	"Perbandingan & Skala",
}

// LanguageTopics is the literacy topic catalog.
var LanguageTopics = []string{
	"Teks Fiksi (Sastra)",
	"Teks Informasi (Faktual)",
	"Ide Pokok & Pendukung",
	"Simpulan & Interpretasi",
	"Ejaan & Tata Bahasa",
	"Kosakata & Sinonim",
	"Puisi & Majas",
	"Struktur Kalimat",
}

// Subjects lists the subjects in display order.
var Subjects = []Subject{SubjectMathematics, SubjectLanguageArts}

// Topics returns the catalog of a subject.
func Topics(subject Subject) ([]string, error) {
	switch subject {
	case SubjectMathematics:
		return MathTopics, nil
	case SubjectLanguageArts:
		return LanguageTopics, nil
	default:
		return nil, ErrUnknownSubject
	}
}

// TopicSelection is the per-subject set of topics chosen before generation.
type TopicSelection struct {
	Math       []string `json:"math"`
	Indonesian []string `json:"indonesian"`
}

// DefaultTopicSelection returns the initial selection.
func DefaultTopicSelection() TopicSelection {
	return TopicSelection{
		Math:       []string{"Bilangan & Operasi", "Geometri Bangun Datar"},
		Indonesian: []string{"Teks Fiksi (Sastra)", "Teks Informasi (Faktual)"},
	}
}

// For returns the selected topics of a subject.
func (s TopicSelection) For(subject Subject) []string {
	switch subject {
	case SubjectMathematics:
		return s.Math
	case SubjectLanguageArts:
		return s.Indonesian
	default:
		return nil
	}
}

// Has reports whether topic is selected for subject.
func (s TopicSelection) Has(subject Subject, topic string) bool {
	for _, t := range s.For(subject) {
		if t == topic {
			return true
		}
	}
	return false
}

// Toggle flips topic for subject. If that would leave the subject without
// any topic, the subject is reset to contain only the toggled topic.
func (s TopicSelection) Toggle(subject Subject, topic string) (TopicSelection, error) {
	catalog, err := Topics(subject)
	if err != nil {
		return s, err
	}
	if !contains(catalog, topic) {
		return s, ErrUnknownTopic
	}

	current := s.For(subject)
	var updated []string
	if contains(current, topic) {
		for _, t := range current {
			if t != topic {
				updated = append(updated, t)
			}
		}
	} else {
		updated = append(append([]string(nil), current...), topic)
	}
	if len(updated) == 0 {
		updated = []string{topic}
	}

	next := s.Clone()
	switch subject {
	case SubjectMathematics:
		next.Math = updated
	case SubjectLanguageArts:
		next.Indonesian = updated
	}
	return next, nil
}

// Flatten returns math topics followed by language topics.
func (s TopicSelection) Flatten() []string {
	out := make([]string, 0, len(s.Math)+len(s.Indonesian))
	out = append(out, s.Math...)
	out = append(out, s.Indonesian...)
	return out
}

// Clone returns a deep copy.
func (s TopicSelection) Clone() TopicSelection {
	return TopicSelection{
		Math:       append([]string(nil), s.Math...),
		Indonesian: append([]string(nil), s.Indonesian...),
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
