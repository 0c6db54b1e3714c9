package domain

import "sort"

// Answer is a tagged value; only the field matching Kind is meaningful.
// Choice carries radio selections and free-text input, Selections carries
// the checkbox set (no duplicates, order irrelevant).
type Answer struct {
	Kind       QuestionType `json:"kind"`
	Choice     string       `json:"choice,omitempty"`
	Selections []string     `json:"selections,omitempty"`
}

// ChoiceAnswer builds a radio answer.
func ChoiceAnswer(option string) Answer {
	return Answer{Kind: QuestionRadio, Choice: option}
}

// TextAnswer builds a free-text answer.
func TextAnswer(text string) Answer {
	return Answer{Kind: QuestionInput, Choice: text}
}

// SelectionAnswer builds a checkbox answer from the given options,
// dropping duplicates.
func SelectionAnswer(options ...string) Answer {
	a := Answer{Kind: QuestionCheckbox}
	for _, opt := range options {
		a = a.WithToggled(opt)
	}
	return a
}

// EmptyAnswer is the "unanswered" sentinel for a question type: an empty
// string for radio/input, an empty set for checkbox.
func EmptyAnswer(kind QuestionType) Answer {
	return Answer{Kind: kind}
}

// IsEmpty reports whether the answer equals its kind's unanswered sentinel.
func (a Answer) IsEmpty() bool {
	if a.Kind == QuestionCheckbox {
		return len(a.Selections) == 0
	}
	return a.Choice == ""
}

// Has reports checkbox set membership.
func (a Answer) Has(option string) bool {
	for _, sel := range a.Selections {
		if sel == option {
			return true
		}
	}
	return false
}

// WithToggled returns a copy with the option's membership flipped: inserted
// if absent, removed if present. Only meaningful for checkbox answers.
func (a Answer) WithToggled(option string) Answer {
	out := Answer{Kind: a.Kind}
	removed := false
	for _, sel := range a.Selections {
		if sel == option {
			removed = true
			continue
		}
		out.Selections = append(out.Selections, sel)
	}
	if !removed {
		out.Selections = append(out.Selections, option)
	}
	return out
}

// SortedSelections returns the checkbox set in a stable order for display.
func (a Answer) SortedSelections() []string {
	out := make([]string, len(a.Selections))
	copy(out, a.Selections)
	sort.Strings(out)
	return out
}
