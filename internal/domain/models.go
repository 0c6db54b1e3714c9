package domain

import "time"

// QuestionType selects the answer shape and scoring rule for a question.
type QuestionType string

const (
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionInput    QuestionType = "input"
)

// Question models a single timed question. CorrectAnswer holds one element
// for radio/input questions and the full expected set for checkbox questions.
type Question struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Type             QuestionType `json:"type"`
	Mark             int          `json:"mark"` // defaults to 1 if zero
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	Options          []string     `json:"options,omitempty"`
	CorrectAnswer    []string     `json:"correctAnswer"`
}

// Quiz is an ordered, immutable collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// QuestionView is the client-facing projection of a question. It never
// carries the answer key.
type QuestionView struct {
	ID               string       `json:"id"`
	Title            string       `json:"title"`
	Type             QuestionType `json:"type"`
	Mark             int          `json:"mark"`
	TimeLimitSeconds int          `json:"timeLimitSeconds"`
	Options          []string     `json:"options,omitempty"`
}

// View strips the answer key from a question.
func (q Question) View() QuestionView {
	return QuestionView{
		ID:               q.ID,
		Title:            q.Title,
		Type:             q.Type,
		Mark:             q.Mark,
		TimeLimitSeconds: q.TimeLimitSeconds,
		Options:          q.Options,
	}
}

// AttemptStatus is the attempt lifecycle flag. Transitions are forward-only:
// not_started -> in_progress -> completed, with restart allowed from completed.
type AttemptStatus string

const (
	StatusNotStarted AttemptStatus = "not_started"
	StatusInProgress AttemptStatus = "in_progress"
	StatusCompleted  AttemptStatus = "completed"
)

// QuestionResult is the scored outcome for one question.
type QuestionResult struct {
	QuestionID    string   `json:"questionId"`
	UserAnswer    Answer   `json:"userAnswer"`
	CorrectAnswer []string `json:"correctAnswer"`
	Correct       bool     `json:"correct"`
	EarnedMarks   int      `json:"earnedMarks"`
	MaxMarks      int      `json:"maxMarks"`
}

// ResultSummary aggregates per-question results in question-store order.
type ResultSummary struct {
	QuizID      string           `json:"quizId"`
	Results     []QuestionResult `json:"results"`
	TotalScore  int              `json:"totalScore"`
	TotalMarks  int              `json:"totalMarks"`
	CompletedAt time.Time        `json:"completedAt"`
}

// AttemptSnapshot is a point-in-time view of an attempt for subscribers.
type AttemptSnapshot struct {
	QuizID           string        `json:"quizId"`
	Status           AttemptStatus `json:"status"`
	QuestionIndex    int           `json:"questionIndex"`
	QuestionCount    int           `json:"questionCount"`
	RemainingSeconds int           `json:"remainingSeconds"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}
