package app

import (
	"strings"
	"time"

	"quiz-attempt-service/internal/domain"
)

// scoreAttempt grades the full answer map against the question store. Pure
// function of its inputs; results keep question-store order and TotalMarks
// covers every question regardless of what was attempted.
func scoreAttempt(quiz domain.Quiz, answers map[string]domain.Answer, completedAt time.Time) domain.ResultSummary {
	summary := domain.ResultSummary{
		QuizID:      quiz.ID,
		Results:     make([]domain.QuestionResult, 0, len(quiz.Questions)),
		CompletedAt: completedAt,
	}

	for _, question := range quiz.Questions {
		answer, ok := answers[question.ID]
		if !ok {
			answer = domain.EmptyAnswer(question.Type)
		}

		correct := answerCorrect(question, answer)
		marks := questionMarks(question)
		earned := 0
		if correct {
			earned = marks
		}

		summary.Results = append(summary.Results, domain.QuestionResult{
			QuestionID:    question.ID,
			UserAnswer:    answer,
			CorrectAnswer: question.CorrectAnswer,
			Correct:       correct,
			EarnedMarks:   earned,
			MaxMarks:      marks,
		})
		summary.TotalScore += earned
		summary.TotalMarks += marks
	}
	return summary
}

func answerCorrect(question domain.Question, answer domain.Answer) bool {
	switch question.Type {
	case domain.QuestionCheckbox:
		return setEqual(answer.Selections, question.CorrectAnswer)
	case domain.QuestionInput:
		return inputEqual(answer.Choice, firstKey(question.CorrectAnswer))
	default:
		return answer.Choice == firstKey(question.CorrectAnswer)
	}
}

// inputEqual compares free text ignoring case and leading/trailing
// whitespace; internal whitespace stays significant.
func inputEqual(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}

// setEqual compares two option lists as sets: order and duplicates are
// irrelevant, extras and omissions both fail.
func setEqual(got, want []string) bool {
	gotSet := toSet(got)
	wantSet := toSet(want)
	if len(gotSet) != len(wantSet) {
		return false
	}
	for option := range gotSet {
		if _, ok := wantSet[option]; !ok {
			return false
		}
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func firstKey(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func questionMarks(question domain.Question) int {
	if question.Mark > 0 {
		return question.Mark
	}
	return 1
}
