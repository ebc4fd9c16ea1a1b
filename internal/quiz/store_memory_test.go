package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

func seedStore(t *testing.T) quiz.Store {
	t.Helper()
	store := quiz.NewInMemoryStore()
	if err := store.PutQuiz(context.Background(), testQuiz()); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	return store
}

func attemptAt(id, student string, started time.Time, status quiz.AttemptStatus) quiz.Attempt {
	return quiz.Attempt{
		ID:        id,
		QuizID:    "quiz-1",
		StudentID: student,
		Status:    status,
		StartedAt: started,
		Answers:   map[string]string{},
	}
}

func TestCreateAttemptRequiresQuiz(t *testing.T) {
	store := seedStore(t)
	a := attemptAt("a1", "alice", testNow, quiz.StatusInProgress)
	a.QuizID = "missing"
	if err := store.CreateAttempt(context.Background(), a); !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestCreateAttemptSingleOpenPerPair(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	if err := store.CreateAttempt(ctx, attemptAt("a1", "alice", testNow, quiz.StatusInProgress)); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := store.CreateAttempt(ctx, attemptAt("a2", "alice", testNow.Add(time.Minute), quiz.StatusInProgress))
	if !errors.Is(err, quiz.ErrAttemptInProgress) {
		t.Fatalf("expected ErrAttemptInProgress, got %v", err)
	}
	// Other students keep their own slot.
	if err := store.CreateAttempt(ctx, attemptAt("a3", "bob", testNow, quiz.StatusInProgress)); err != nil {
		t.Fatalf("other student: %v", err)
	}
}

func TestGetAttemptReturnsIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	if err := store.CreateAttempt(ctx, attemptAt("a1", "alice", testNow, quiz.StatusInProgress)); err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := store.GetAttempt(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	a.Answers["q1"] = "tampered"

	again, err := store.GetAttempt(ctx, "a1")
	if err != nil {
		t.Fatalf("get again: %v", err)
	}
	if len(again.Answers) != 0 {
		t.Fatalf("mutating a returned attempt leaked into the store: %v", again.Answers)
	}
}

func TestFinalizeSubmissionIsTerminal(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	if err := store.CreateAttempt(ctx, attemptAt("a1", "alice", testNow, quiz.StatusInProgress)); err != nil {
		t.Fatalf("create: %v", err)
	}

	done := attemptAt("a1", "alice", testNow, quiz.StatusSubmitted)
	score := 10.0
	at := testNow.Add(time.Minute)
	done.Score = &score
	done.SubmittedAt = &at
	if err := store.FinalizeSubmission(ctx, done); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := store.FinalizeSubmission(ctx, done); !errors.Is(err, quiz.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if err := store.SaveAnswers(ctx, "a1", map[string]string{"q1": "c1"}); !errors.Is(err, quiz.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	n, err := store.CountSubmitted(ctx, "quiz-1", "alice")
	if err != nil || n != 1 {
		t.Fatalf("count submitted = %d, %v", n, err)
	}
}

func TestListAttemptsFilterSortPaginate(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	for i, tc := range []struct {
		id      string
		student string
		offset  time.Duration
		status  quiz.AttemptStatus
	}{
		{"a1", "alice", 0, quiz.StatusSubmitted},
		{"a2", "alice", time.Hour, quiz.StatusInProgress},
		{"a3", "bob", 30 * time.Minute, quiz.StatusSubmitted},
	} {
		a := attemptAt(tc.id, tc.student, testNow.Add(tc.offset), quiz.StatusInProgress)
		if err := store.CreateAttempt(ctx, a); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if tc.status == quiz.StatusSubmitted {
			score := 5.0
			at := a.StartedAt.Add(time.Minute)
			a.Status = quiz.StatusSubmitted
			a.Score = &score
			a.SubmittedAt = &at
			if err := store.FinalizeSubmission(ctx, a); err != nil {
				t.Fatalf("finalize %d: %v", i, err)
			}
		}
	}

	all, err := store.ListAttempts(ctx, quiz.AttemptListOpts{QuizID: "quiz-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("list = %d attempts, want 3", len(all))
	}
	// Newest first.
	if all[0].ID != "a2" || all[1].ID != "a3" || all[2].ID != "a1" {
		t.Fatalf("order: %s %s %s", all[0].ID, all[1].ID, all[2].ID)
	}

	mine, err := store.ListAttempts(ctx, quiz.AttemptListOpts{QuizID: "quiz-1", StudentID: "alice"})
	if err != nil || len(mine) != 2 {
		t.Fatalf("student filter = %d, %v", len(mine), err)
	}

	open, err := store.ListAttempts(ctx, quiz.AttemptListOpts{Status: string(quiz.StatusInProgress)})
	if err != nil || len(open) != 1 || open[0].ID != "a2" {
		t.Fatalf("status filter: %+v, %v", open, err)
	}

	page, err := store.ListAttempts(ctx, quiz.AttemptListOpts{QuizID: "quiz-1", Limit: 1, Offset: 1})
	if err != nil || len(page) != 1 || page[0].ID != "a3" {
		t.Fatalf("pagination: %+v, %v", page, err)
	}
}

func TestDeleteQuiz(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	if err := store.DeleteQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetQuiz(ctx, "quiz-1"); !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
	if err := store.DeleteQuiz(ctx, "quiz-1"); !errors.Is(err, quiz.ErrQuizNotFound) {
		t.Fatalf("double delete: %v", err)
	}
}
