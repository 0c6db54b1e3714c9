package app

import (
	"testing"
	"time"

	"quiz-attempt-service/internal/domain"
)

func TestScoreCheckboxSetEquality(t *testing.T) {
	quiz := threeQuestionQuiz()

	// Insertion order must not matter.
	answers := map[string]domain.Answer{
		"q2": domain.SelectionAnswer("B", "A"),
	}
	summary := scoreAttempt(quiz, answers, time.Now())
	if !summary.Results[1].Correct || summary.Results[1].EarnedMarks != 3 {
		t.Fatalf("expected {B,A} to match {A,B}, got %+v", summary.Results[1])
	}

	// Extras fail.
	answers["q2"] = domain.SelectionAnswer("A", "B", "C")
	summary = scoreAttempt(quiz, answers, time.Now())
	if summary.Results[1].Correct {
		t.Fatalf("expected extra selection to fail, got %+v", summary.Results[1])
	}

	// Omissions fail.
	answers["q2"] = domain.SelectionAnswer("A")
	summary = scoreAttempt(quiz, answers, time.Now())
	if summary.Results[1].Correct {
		t.Fatalf("expected missing selection to fail, got %+v", summary.Results[1])
	}
}

func TestScoreInputNormalization(t *testing.T) {
	quiz := threeQuestionQuiz()

	answers := map[string]domain.Answer{
		"q3": domain.TextAnswer("  pArIs "),
	}
	summary := scoreAttempt(quiz, answers, time.Now())
	if !summary.Results[2].Correct {
		t.Fatalf("expected trimmed case-insensitive match, got %+v", summary.Results[2])
	}

	// Internal whitespace stays significant.
	answers["q3"] = domain.TextAnswer("Pa ris")
	summary = scoreAttempt(quiz, answers, time.Now())
	if summary.Results[2].Correct {
		t.Fatalf("expected internal whitespace to fail, got %+v", summary.Results[2])
	}
}

func TestScoreRadioExactMatch(t *testing.T) {
	quiz := threeQuestionQuiz()

	answers := map[string]domain.Answer{
		"q1": domain.ChoiceAnswer("yes"), // case differs, radio is exact
	}
	summary := scoreAttempt(quiz, answers, time.Now())
	if summary.Results[0].Correct {
		t.Fatalf("radio comparison must be exact, got %+v", summary.Results[0])
	}

	answers["q1"] = domain.ChoiceAnswer("Yes")
	summary = scoreAttempt(quiz, answers, time.Now())
	if !summary.Results[0].Correct || summary.Results[0].EarnedMarks != 2 {
		t.Fatalf("expected exact radio match, got %+v", summary.Results[0])
	}
}

func TestScoreUnansweredIsZero(t *testing.T) {
	quiz := threeQuestionQuiz()

	summary := scoreAttempt(quiz, map[string]domain.Answer{}, time.Now())
	if summary.TotalScore != 0 {
		t.Fatalf("expected untouched attempt to score 0, got %d", summary.TotalScore)
	}
	if summary.TotalMarks != 6 {
		t.Fatalf("expected total marks 6 regardless of attempt, got %d", summary.TotalMarks)
	}
	for _, result := range summary.Results {
		if result.Correct || result.EarnedMarks != 0 {
			t.Fatalf("expected zero marks, got %+v", result)
		}
		if !result.UserAnswer.IsEmpty() {
			t.Fatalf("expected empty sentinel answer, got %+v", result.UserAnswer)
		}
	}
}

func TestScoreAggregatesAndOrdering(t *testing.T) {
	quiz := threeQuestionQuiz()

	// Answer q1 correctly, toggle q2 to {B,A}, skip q3: 5 of 6.
	answers := map[string]domain.Answer{
		"q1": domain.ChoiceAnswer("Yes"),
		"q2": domain.SelectionAnswer("B", "A"),
	}
	summary := scoreAttempt(quiz, answers, time.Now())

	if summary.TotalScore != 5 || summary.TotalMarks != 6 {
		t.Fatalf("expected 5/6, got %d/%d", summary.TotalScore, summary.TotalMarks)
	}

	sum := 0
	for i, result := range summary.Results {
		if result.QuestionID != quiz.Questions[i].ID {
			t.Fatalf("results must keep question-store order, got %s at %d", result.QuestionID, i)
		}
		sum += result.EarnedMarks
	}
	if sum != summary.TotalScore {
		t.Fatalf("total score %d != sum of earned marks %d", summary.TotalScore, sum)
	}
	if summary.Results[2].Correct || summary.Results[2].EarnedMarks != 0 {
		t.Fatalf("expected skipped q3 incorrect 0/1, got %+v", summary.Results[2])
	}
}

func TestScoreDefaultsZeroMarkToOne(t *testing.T) {
	quiz := domain.Quiz{
		ID: "quiz-unmarked",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionRadio, Options: []string{"A", "B"}, CorrectAnswer: []string{"A"}},
		},
	}
	summary := scoreAttempt(quiz, map[string]domain.Answer{"q1": domain.ChoiceAnswer("A")}, time.Now())
	if summary.TotalScore != 1 || summary.TotalMarks != 1 {
		t.Fatalf("expected mark default of 1, got %d/%d", summary.TotalScore, summary.TotalMarks)
	}
}

func TestScoreEmptyCheckboxKey(t *testing.T) {
	// Not expected from authoring, but set equality must hold generally:
	// empty answer vs empty key is correct.
	quiz := domain.Quiz{
		ID: "quiz-degenerate",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionCheckbox, Mark: 1, Options: []string{"A"}, CorrectAnswer: nil},
		},
	}
	summary := scoreAttempt(quiz, map[string]domain.Answer{}, time.Now())
	if !summary.Results[0].Correct {
		t.Fatalf("empty set vs empty key must be correct, got %+v", summary.Results[0])
	}
}
