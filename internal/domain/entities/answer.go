package entities

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Answer is either a user's answer or a question's correct answer.
// The concrete type is one of SingleChoiceAnswer, MultiChoiceAnswer or
// CategorizationAnswer and always reports the QuestionType it belongs to.
type Answer interface {
	Type() QuestionType
	// Answered reports whether the answer is non-empty for its shape.
	Answered() bool
	// Equal is shape-aware strict equality.
	Equal(other Answer) bool
	isAnswer()
}

// SingleChoiceAnswer is the selected option of a single choice question.
type SingleChoiceAnswer string

func (SingleChoiceAnswer) Type() QuestionType { return QuestionTypeSingleChoice }

func (a SingleChoiceAnswer) Answered() bool { return strings.TrimSpace(string(a)) != "" }

func (a SingleChoiceAnswer) Equal(other Answer) bool {
	o, ok := other.(SingleChoiceAnswer)
	return ok && a == o
}

func (SingleChoiceAnswer) isAnswer() {}

// MultiChoiceAnswer is a set of selected options. Build it with
// NewMultiChoiceAnswer so that values are deduplicated and sorted.
type MultiChoiceAnswer []string

// NewMultiChoiceAnswer returns the set of the given options.
func NewMultiChoiceAnswer(options ...string) MultiChoiceAnswer {
	seen := make(map[string]bool, len(options))
	set := make(MultiChoiceAnswer, 0, len(options))
	for _, o := range options {
		if seen[o] {
			continue
		}
		seen[o] = true
		set = append(set, o)
	}
	sort.Strings(set)
	return set
}

func (MultiChoiceAnswer) Type() QuestionType { return QuestionTypeMultiChoice }

func (a MultiChoiceAnswer) Answered() bool { return len(a) > 0 }

func (a MultiChoiceAnswer) Equal(other Answer) bool {
	o, ok := other.(MultiChoiceAnswer)
	if !ok {
		return false
	}
	x, y := NewMultiChoiceAnswer(a...), NewMultiChoiceAnswer(o...)
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Contains reports whether opt is in the set.
func (a MultiChoiceAnswer) Contains(opt string) bool {
	for _, o := range a {
		if o == opt {
			return true
		}
	}
	return false
}

// Toggle returns a new set with opt added, or removed if it was present.
func (a MultiChoiceAnswer) Toggle(opt string) MultiChoiceAnswer {
	if a.Contains(opt) {
		rest := make([]string, 0, len(a))
		for _, o := range a {
			if o != opt {
				rest = append(rest, o)
			}
		}
		return NewMultiChoiceAnswer(rest...)
	}
	return NewMultiChoiceAnswer(append(append([]string(nil), a...), opt)...)
}

func (MultiChoiceAnswer) isAnswer() {}

// CategorizationAnswer maps a statement index to the chosen category label.
// Partial mappings are allowed.
type CategorizationAnswer map[int]string

func (CategorizationAnswer) Type() QuestionType { return QuestionTypeCategorization }

func (a CategorizationAnswer) Answered() bool { return len(a) > 0 }

func (a CategorizationAnswer) Equal(other Answer) bool {
	o, ok := other.(CategorizationAnswer)
	if !ok || len(a) != len(o) {
		return false
	}
	for k, v := range a {
		ov, ok := o[k]
		if !ok || ov != v {
			return false
		}
	}
	return true
}

// With returns a copy of the mapping with statement set to label.
func (a CategorizationAnswer) With(statement int, label string) CategorizationAnswer {
	next := make(CategorizationAnswer, len(a)+1)
	for k, v := range a {
		next[k] = v
	}
	next[statement] = label
	return next
}

// MarshalJSON encodes the mapping with string keys, as {"0": "Benar"}.
func (a CategorizationAnswer) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(a))
	for k, v := range a {
		m[strconv.Itoa(k)] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes {"0": "Benar"}; every key must be a non-negative integer.
func (a *CategorizationAnswer) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	out := make(CategorizationAnswer, len(m))
	for k, v := range m {
		idx, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid statement index %q", k)
		}
		out[idx] = v
	}
	*a = out
	return nil
}

func (CategorizationAnswer) isAnswer() {}

// IsAnswered reports whether a is a non-nil, non-empty answer.
func IsAnswered(a Answer) bool {
	return a != nil && a.Answered()
}

// FormatAnswer renders an answer for display.
func FormatAnswer(a Answer) string {
	switch v := a.(type) {
	case nil:
		return "-"
	case SingleChoiceAnswer:
		if !v.Answered() {
			return "-"
		}
		return string(v)
	case MultiChoiceAnswer:
		if !v.Answered() {
			return "-"
		}
		return strings.Join(v, ", ")
	case CategorizationAnswer:
		if !v.Answered() {
			return "-"
		}
		keys := make([]int, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%d: %s", k+1, v[k]))
		}
		return strings.Join(parts, "; ")
	default:
		return "-"
	}
}
