package quiz

import "context"

// ListOpts filters the quiz list view.
type ListOpts struct {
	CourseID      string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// AttemptListOpts filters attempt listings for dashboards and "my attempts".
type AttemptListOpts struct {
	QuizID    string
	StudentID string
	Status    string // optional: in_progress|submitted
	Limit     int
	Offset    int
}

// Store is the persistence collaborator the attempt subsystem consumes.
// Implementations must enforce the at-most-one-in-progress-attempt invariant
// per (quiz, student) at creation time; the state machine cannot observe
// concurrent creates.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	// GetQuiz returns the full quiz, answer keys included. Callers serving
	// students are responsible for applying StudentView.
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error)

	CreateAttempt(ctx context.Context, a Attempt) error
	GetAttempt(ctx context.Context, id string) (Attempt, error)
	// LatestAttempt returns the most recently started attempt for the pair,
	// or ErrAttemptNotFound when there is none.
	LatestAttempt(ctx context.Context, quizID, studentID string) (Attempt, error)
	// CountSubmitted counts the student's submitted attempts at the quiz.
	CountSubmitted(ctx context.Context, quizID, studentID string) (int, error)
	SaveAnswers(ctx context.Context, attemptID string, answers map[string]string) error
	// FinalizeSubmission persists the graded, terminal state of an attempt.
	FinalizeSubmission(ctx context.Context, a Attempt) error
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)
}
