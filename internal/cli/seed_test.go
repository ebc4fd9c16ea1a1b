package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

const fixtureYAML = `
quizzes:
  - course_id: cs101
    title: Seeded Quiz
    published: true
    time_limit_minutes: 20
    questions:
      - type: multiple_choice
        prompt: Pick one
        points: 10
        choices:
          - {id: a, text: first}
          - {id: b, text: second}
        correct_choice_ids: [b]
      - type: fill_in_blank
        prompt: Capital of France
        points: 5
        accepted_answers: [Paris]
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestSeedFromFile(t *testing.T) {
	store := quiz.NewInMemoryStore()
	n, err := seedFromFile(context.Background(), store, writeFixture(t, fixtureYAML))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != 1 {
		t.Fatalf("seeded %d, want 1", n)
	}

	list, err := store.ListQuizzes(context.Background(), quiz.ListOpts{CourseID: "cs101"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Seeded Quiz" || list[0].TotalPoints != 15 {
		t.Fatalf("stored summary: %+v", list)
	}

	q, err := store.GetQuiz(context.Background(), list[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Question and quiz ids are filled in when the fixture omits them.
	if q.ID == "" || q.Questions[0].ID == "" {
		t.Fatalf("missing generated ids: %+v", q)
	}
	if q.MaxAttempts != 1 || q.ShowCorrect != quiz.ShowImmediately {
		t.Fatalf("defaults not applied: %+v", q)
	}
}

func TestSeedFromFileRejectsInvalidQuiz(t *testing.T) {
	bad := strings.Replace(fixtureYAML, "correct_choice_ids: [b]", "correct_choice_ids: [zzz]", 1)
	store := quiz.NewInMemoryStore()
	if _, err := seedFromFile(context.Background(), store, writeFixture(t, bad)); err == nil {
		t.Fatal("expected validation error for unknown correct choice id")
	}
}

func TestSeedFromFileMissingFile(t *testing.T) {
	store := quiz.NewInMemoryStore()
	if _, err := seedFromFile(context.Background(), store, filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
