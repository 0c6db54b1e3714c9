package app

import (
	"context"
	"sync"
	"time"

	"quiz-attempt-service/internal/domain"
)

// Attempt is the in-memory state machine for one quiz attempt: lifecycle
// status, current question index, accumulated answers and the per-question
// countdown. All mutation goes through the single mutex; the countdown
// goroutine competes for it like any other caller.
type Attempt struct {
	quiz domain.Quiz
	now  func() time.Time
	tick time.Duration

	mu          sync.Mutex
	status      domain.AttemptStatus
	current     int
	remaining   int
	answers     map[string]domain.Answer
	summary     *domain.ResultSummary
	epoch       int
	cancelTimer context.CancelFunc
	subscribers map[chan domain.AttemptSnapshot]struct{}
}

// NewAttempt builds an attempt over an immutable question store.
func NewAttempt(quiz domain.Quiz) *Attempt {
	return newAttempt(quiz, time.Now, time.Second)
}

// NewAttemptWithTick is test-only for deterministic countdowns.
func NewAttemptWithTick(quiz domain.Quiz, tick time.Duration, now func() time.Time) *Attempt {
	return newAttempt(quiz, now, tick)
}

func newAttempt(quiz domain.Quiz, now func() time.Time, tick time.Duration) *Attempt {
	return &Attempt{
		quiz:        quiz,
		now:         now,
		tick:        tick,
		status:      domain.StatusNotStarted,
		answers:     make(map[string]domain.Answer),
		subscribers: make(map[chan domain.AttemptSnapshot]struct{}),
	}
}

// Start begins a fresh run. Valid from not_started and completed (restart);
// restarting discards all previous answers and the old summary.
func (a *Attempt) Start() (domain.AttemptSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status == domain.StatusInProgress {
		return domain.AttemptSnapshot{}, domain.ErrAttemptInProgress
	}

	a.status = domain.StatusInProgress
	a.current = 0
	a.answers = make(map[string]domain.Answer)
	a.summary = nil

	if len(a.quiz.Questions) == 0 {
		a.finishLocked()
		return a.snapshotLocked(), nil
	}
	a.armCountdownLocked()
	return a.broadcastLocked(), nil
}

// Advance moves past the current question; past the last question it
// finalizes the attempt and returns the scored summary. Countdown expiry
// takes the identical path internally.
func (a *Attempt) Advance() (domain.AttemptSnapshot, *domain.ResultSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != domain.StatusInProgress {
		return domain.AttemptSnapshot{}, nil, domain.ErrAttemptNotStarted
	}
	a.advanceLocked()

	snap := a.snapshotLocked()
	if a.summary != nil {
		summary := *a.summary
		return snap, &summary, nil
	}
	return snap, nil, nil
}

// RecordAnswer stores a value for a question. Radio and input answers
// overwrite; checkbox answers toggle membership of value within the set.
// Values are not checked against Options; an off-list value simply scores
// as incorrect later.
func (a *Attempt) RecordAnswer(questionID, value string) (domain.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != domain.StatusInProgress {
		return domain.Answer{}, domain.ErrAttemptNotStarted
	}
	question, ok := a.questionByID(questionID)
	if !ok {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}

	var next domain.Answer
	switch question.Type {
	case domain.QuestionCheckbox:
		current, ok := a.answers[questionID]
		if !ok {
			current = domain.EmptyAnswer(domain.QuestionCheckbox)
		}
		next = current.WithToggled(value)
	case domain.QuestionInput:
		next = domain.TextAnswer(value)
	default:
		next = domain.ChoiceAnswer(value)
	}
	a.answers[questionID] = next
	return next, nil
}

// Answer returns the stored value for a question, or the question type's
// unanswered sentinel when nothing was recorded.
func (a *Attempt) Answer(questionID string) (domain.Answer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	question, ok := a.questionByID(questionID)
	if !ok {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}
	if answer, ok := a.answers[questionID]; ok {
		return answer, nil
	}
	return domain.EmptyAnswer(question.Type), nil
}

// CurrentQuestion returns the client-facing view of the question under the
// countdown. Only valid while in progress.
func (a *Attempt) CurrentQuestion() (domain.QuestionView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.status != domain.StatusInProgress {
		return domain.QuestionView{}, domain.ErrAttemptNotStarted
	}
	return a.quiz.Questions[a.current].View(), nil
}

// Results returns the summary computed at completion.
func (a *Attempt) Results() (domain.ResultSummary, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.summary == nil {
		return domain.ResultSummary{}, domain.ErrAttemptNotCompleted
	}
	return *a.summary, nil
}

// Status reports the lifecycle flag.
func (a *Attempt) Status() domain.AttemptStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Snapshot returns the current point-in-time view.
func (a *Attempt) Snapshot() domain.AttemptSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// Subscribe returns a channel receiving snapshot updates (ticks, navigation,
// completion). The caller must invoke the returned cancel function to avoid leaks.
func (a *Attempt) Subscribe() (<-chan domain.AttemptSnapshot, func()) {
	ch := make(chan domain.AttemptSnapshot, 8)

	a.mu.Lock()
	a.subscribers[ch] = struct{}{}
	initial := a.snapshotLocked()
	a.mu.Unlock()

	ch <- initial

	cancel := func() {
		a.mu.Lock()
		if _, ok := a.subscribers[ch]; ok {
			delete(a.subscribers, ch)
			close(ch)
		}
		a.mu.Unlock()
	}
	return ch, cancel
}

// Close cancels any pending countdown and closes all subscriber channels.
func (a *Attempt) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.disarmLocked()
	for ch := range a.subscribers {
		delete(a.subscribers, ch)
		close(ch)
	}
}

func (a *Attempt) advanceLocked() {
	if a.current >= len(a.quiz.Questions)-1 {
		a.finishLocked()
		return
	}
	a.current++
	a.armCountdownLocked()
	a.broadcastLocked()
}

// finishLocked scores the attempt exactly once; repeat calls are no-ops so
// the summary can never be recomputed or corrupted.
func (a *Attempt) finishLocked() {
	if a.summary != nil {
		return
	}
	summary := scoreAttempt(a.quiz, a.answers, a.now())
	a.summary = &summary
	a.status = domain.StatusCompleted
	a.disarmLocked()
	a.broadcastLocked()
}

// armCountdownLocked tears down the previous timer and binds a fresh one to
// the current question. The epoch captured here is the ownership token: a
// tick or expiry carrying an older epoch finds the mismatch and stops.
func (a *Attempt) armCountdownLocked() {
	a.disarmLocked()
	a.remaining = a.quiz.Questions[a.current].TimeLimitSeconds
	a.epoch++
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelTimer = cancel
	go a.runCountdown(ctx, a.epoch)
}

func (a *Attempt) disarmLocked() {
	a.epoch++
	if a.cancelTimer != nil {
		a.cancelTimer()
		a.cancelTimer = nil
	}
}

func (a *Attempt) runCountdown(ctx context.Context, epoch int) {
	ticker := time.NewTicker(a.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired, live := a.countdownTick(epoch)
			if !live {
				return
			}
			if expired {
				a.expire(epoch)
				return
			}
		}
	}
}

// countdownTick burns one second off the current question's clock. A stale
// epoch or a finished attempt kills the ticker.
func (a *Attempt) countdownTick(epoch int) (expired, live bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if epoch != a.epoch || a.status != domain.StatusInProgress {
		return false, false
	}
	if a.remaining > 0 {
		a.remaining--
	}
	a.broadcastLocked()
	return a.remaining == 0, true
}

// expire advances past the timed-out question, identical to a manual
// Advance. The epoch recheck makes a timer firing into a newer state a no-op
// rather than a double advance.
func (a *Attempt) expire(epoch int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if epoch != a.epoch || a.status != domain.StatusInProgress {
		return
	}
	a.advanceLocked()
}

func (a *Attempt) questionByID(questionID string) (domain.Question, bool) {
	for i := range a.quiz.Questions {
		if a.quiz.Questions[i].ID == questionID {
			return a.quiz.Questions[i], true
		}
	}
	return domain.Question{}, false
}

func (a *Attempt) broadcastLocked() domain.AttemptSnapshot {
	snap := a.snapshotLocked()
	for ch := range a.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the oldest pending snapshot so a slow reader never
			// blocks the countdown.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (a *Attempt) snapshotLocked() domain.AttemptSnapshot {
	return domain.AttemptSnapshot{
		QuizID:           a.quiz.ID,
		Status:           a.status,
		QuestionIndex:    a.current,
		QuestionCount:    len(a.quiz.Questions),
		RemainingSeconds: a.remaining,
		UpdatedAt:        a.now(),
	}
}
