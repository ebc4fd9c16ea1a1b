package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Grader scores a question set against an answer map in quiz order.
// Satisfied by grading.NewGrader().
type Grader interface {
	GradeAll(questions []Question, answers map[string]string) (float64, []GradedAnswer)
}

// Recorder receives best-effort domain events (attempt_started,
// attempt_submitted). Implementations must not block the attempt flow.
type Recorder interface {
	Record(ctx context.Context, typ, key string, payload any)
}

// Service is the attempt state machine: it gates starts through the
// availability rules, owns the in-progress bookkeeping, and hands completed
// answer sets to the grader on submit. Every operation takes the acting
// student's identity explicitly; nothing is read from ambient state.
type Service struct {
	store  Store
	grader Grader
	events Recorder
}

func NewService(store Store, grader Grader, events Recorder) *Service {
	return &Service{store: store, grader: grader, events: events}
}

// Start creates a new in-progress attempt at quizID for studentID. The
// availability gate runs first; a second in-progress attempt for the same
// pair is refused by the store.
func (s *Service) Start(ctx context.Context, quizID, studentID, accessCode string, now time.Time) (Attempt, error) {
	q, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return Attempt{}, err
	}
	prior, err := s.store.CountSubmitted(ctx, quizID, studentID)
	if err != nil {
		return Attempt{}, err
	}
	if err := CanAttempt(q, now, prior, accessCode); err != nil {
		return Attempt{}, err
	}

	a := Attempt{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		StudentID: studentID,
		Status:    StatusInProgress,
		StartedAt: now,
		Answers:   map[string]string{},
	}
	if q.TimeLimitMinutes > 0 {
		deadline := now.Add(time.Duration(q.TimeLimitMinutes) * time.Minute)
		a.Deadline = &deadline
	}
	if err := s.store.CreateAttempt(ctx, a); err != nil {
		return Attempt{}, err
	}
	s.record(ctx, "attempt_started", a.ID, map[string]string{"quiz_id": quizID, "student_id": studentID})
	return a, nil
}

// SaveAnswers merges the given answers into the attempt's draft. Only the
// owning student may write, only while in progress, and only for question
// ids that belong to the quiz.
func (s *Service) SaveAnswers(ctx context.Context, attemptID, studentID string, answers map[string]string) (Attempt, error) {
	a, err := s.ownedAttempt(ctx, attemptID, studentID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status != StatusInProgress {
		return Attempt{}, ErrInvalidState
	}
	q, err := s.store.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return Attempt{}, err
	}
	for id := range answers {
		if _, ok := q.QuestionByID(id); !ok {
			return Attempt{}, ErrUnknownQuestion
		}
	}
	if err := s.store.SaveAnswers(ctx, attemptID, answers); err != nil {
		return Attempt{}, err
	}
	return s.store.GetAttempt(ctx, attemptID)
}

// Submit grades whatever answers are recorded and moves the attempt to its
// terminal submitted state. A repeat call returns ErrAlreadySubmitted without
// touching the stored result; a persistence failure leaves the attempt in
// progress so the student can retry without losing answers.
//
// Time-limit enforcement is caller-driven: when now passes the attempt's
// Deadline the client (or its refresh tick) calls Submit with the answers
// recorded so far. Ticks arriving after submission are no-ops by the same
// ErrAlreadySubmitted rule.
func (s *Service) Submit(ctx context.Context, attemptID, studentID string, now time.Time) (Attempt, error) {
	a, err := s.ownedAttempt(ctx, attemptID, studentID)
	if err != nil {
		return Attempt{}, err
	}
	if a.Status == StatusSubmitted {
		return Attempt{}, ErrAlreadySubmitted
	}
	q, err := s.store.GetQuiz(ctx, a.QuizID)
	if err != nil {
		return Attempt{}, err
	}

	score, graded := s.grader.GradeAll(q.Questions, a.Answers)
	a.Score = &score
	a.Graded = graded
	a.SubmittedAt = &now
	a.Status = StatusSubmitted

	if err := s.store.FinalizeSubmission(ctx, a); err != nil {
		return Attempt{}, err
	}
	s.record(ctx, "attempt_submitted", a.ID, map[string]any{"quiz_id": a.QuizID, "score": score})
	return a, nil
}

// Latest returns the student's most recent attempt at the quiz.
func (s *Service) Latest(ctx context.Context, quizID, studentID string) (Attempt, error) {
	return s.store.LatestAttempt(ctx, quizID, studentID)
}

// Get fetches an attempt, enforcing that students only see their own.
func (s *Service) Get(ctx context.Context, attemptID, viewerID string, viewerCanSeeAll bool) (Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if !viewerCanSeeAll && a.StudentID != viewerID {
		return Attempt{}, ErrNotOwner
	}
	return a, nil
}

func (s *Service) ownedAttempt(ctx context.Context, attemptID, studentID string) (Attempt, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return Attempt{}, err
	}
	if a.StudentID != studentID {
		return Attempt{}, ErrNotOwner
	}
	return a, nil
}

func (s *Service) record(ctx context.Context, typ, key string, payload any) {
	if s.events != nil {
		s.events.Record(ctx, typ, key, payload)
	}
}
