package memory

import (
	"context"
	"testing"
	"time"

	"quiz-attempt-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		QuizLoader: NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestStaticLoaderUnknownQuiz(t *testing.T) {
	loader := NewStaticQuizLoader(map[string]domain.Quiz{})
	if _, err := loader.LoadQuiz(context.Background(), "nope"); err != domain.ErrQuizNotFound {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID: "quiz-1",
		Questions: []domain.Question{
			{
				ID:               "q1",
				Title:            "Is the sky blue?",
				Type:             domain.QuestionRadio,
				Mark:             2,
				TimeLimitSeconds: 30,
				Options:          []string{"Yes", "No"},
				CorrectAnswer:    []string{"Yes"},
			},
			{
				ID:               "q2",
				Title:            "Capital of France?",
				Type:             domain.QuestionInput,
				Mark:             1,
				TimeLimitSeconds: 20,
				CorrectAnswer:    []string{"Paris"},
			},
		},
	}
}
