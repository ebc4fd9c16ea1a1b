package quiz

import (
	"context"
	"sort"
	"sync"
)

// memoryStore keeps quizzes and attempts in process. Used by tests and as
// the backing store when no database is configured.
type memoryStore struct {
	mu       sync.RWMutex
	quizzes  map[string]Quiz
	attempts map[string]Attempt
}

func NewInMemoryStore() Store {
	return &memoryStore{
		quizzes:  map[string]Quiz{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrQuizNotFound
	}
	return q, nil
}

func (m *memoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrQuizNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, opts ListOpts) ([]QuizSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]QuizSummary, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		if opts.CourseID != "" && q.CourseID != opts.CourseID {
			continue
		}
		if opts.PublishedOnly && !q.Published {
			continue
		}
		out = append(out, q.Summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return paginate(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) CreateAttempt(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[a.QuizID]; !ok {
		return ErrQuizNotFound
	}
	for _, existing := range m.attempts {
		if existing.QuizID == a.QuizID && existing.StudentID == a.StudentID && existing.Status == StatusInProgress {
			return ErrAttemptInProgress
		}
	}
	m.attempts[a.ID] = cloneAttempt(a)
	return nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return cloneAttempt(a), nil
}

func (m *memoryStore) LatestAttempt(_ context.Context, quizID, studentID string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Attempt
	for id := range m.attempts {
		a := m.attempts[id]
		if a.QuizID != quizID || a.StudentID != studentID {
			continue
		}
		if latest == nil || a.StartedAt.After(latest.StartedAt) {
			latest = &a
		}
	}
	if latest == nil {
		return Attempt{}, ErrAttemptNotFound
	}
	return cloneAttempt(*latest), nil
}

func (m *memoryStore) CountSubmitted(_ context.Context, quizID, studentID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.attempts {
		if a.QuizID == quizID && a.StudentID == studentID && a.Status == StatusSubmitted {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) SaveAnswers(_ context.Context, attemptID string, answers map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.attempts[attemptID]
	if !ok {
		return ErrAttemptNotFound
	}
	if a.Status != StatusInProgress {
		return ErrInvalidState
	}
	if a.Answers == nil {
		a.Answers = map[string]string{}
	}
	for k, v := range answers {
		a.Answers[k] = v
	}
	m.attempts[attemptID] = a
	return nil
}

func (m *memoryStore) FinalizeSubmission(_ context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.attempts[a.ID]
	if !ok {
		return ErrAttemptNotFound
	}
	if prev.Status == StatusSubmitted {
		return ErrAlreadySubmitted
	}
	m.attempts[a.ID] = cloneAttempt(a)
	return nil
}

func (m *memoryStore) ListAttempts(_ context.Context, opts AttemptListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Attempt, 0)
	for _, a := range m.attempts {
		if opts.QuizID != "" && a.QuizID != opts.QuizID {
			continue
		}
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		if opts.Status != "" && string(a.Status) != opts.Status {
			continue
		}
		out = append(out, cloneAttempt(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return paginate(out, opts.Limit, opts.Offset), nil
}

func cloneAttempt(a Attempt) Attempt {
	out := a
	out.Answers = make(map[string]string, len(a.Answers))
	for k, v := range a.Answers {
		out.Answers[k] = v
	}
	out.Graded = append([]GradedAnswer(nil), a.Graded...)
	return out
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return []T{}
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
