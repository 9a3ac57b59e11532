package entities

import (
	"errors"
	"testing"
)

func TestTopicSelectionToggle(t *testing.T) {
	sel := DefaultTopicSelection()

	next, err := sel.Toggle(SubjectMathematics, "Aljabar Dasar")
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !next.Has(SubjectMathematics, "Aljabar Dasar") {
		t.Error("Aljabar Dasar not selected")
	}
	if sel.Has(SubjectMathematics, "Aljabar Dasar") {
		t.Error("Toggle modified the receiver")
	}

	next, _ = next.Toggle(SubjectMathematics, "Bilangan & Operasi")
	next, _ = next.Toggle(SubjectMathematics, "Geometri Bangun Datar")
	next, _ = next.Toggle(SubjectMathematics, "Aljabar Dasar")

	got := next.For(SubjectMathematics)
	if len(got) != 1 || got[0] != "Aljabar Dasar" {
		t.Errorf("removing the last topic left %v, want [Aljabar Dasar]", got)
	}
}

func TestTopicSelectionToggleErrors(t *testing.T) {
	sel := DefaultTopicSelection()

	if _, err := sel.Toggle(SubjectMathematics, "Puisi & Majas"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("foreign topic err = %v, want ErrUnknownTopic", err)
	}
	if _, err := sel.Toggle(Subject("IPA"), "Aljabar Dasar"); !errors.Is(err, ErrUnknownSubject) {
		t.Errorf("unknown subject err = %v, want ErrUnknownSubject", err)
	}
}

func TestTopicSelectionFlatten(t *testing.T) {
	sel := TopicSelection{Math: []string{"KPK & FPB"}, Indonesian: []string{"Puisi & Majas"}}

	got := sel.Flatten()
	if len(got) != 2 || got[0] != "KPK & FPB" || got[1] != "Puisi & Majas" {
		t.Errorf("Flatten = %v", got)
	}
}
