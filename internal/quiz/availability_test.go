package quiz

import (
	"testing"
	"time"
)

func TestCanAttemptOrdering(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	base := Quiz{
		ID:          "quiz-1",
		Published:   true,
		MaxAttempts: 1,
	}

	tests := []struct {
		name       string
		mutate     func(*Quiz)
		prior      int
		accessCode string
		want       DenialReason // "" means allowed
	}{
		{name: "allowed", mutate: func(q *Quiz) {}},
		{
			name:   "unpublished wins over expired window",
			mutate: func(q *Quiz) { q.Published = false; q.UntilAt = &past },
			want:   DeniedNotPublished,
		},
		{
			name:   "not yet available",
			mutate: func(q *Quiz) { q.AvailableAt = &future },
			want:   DeniedNotYetAvailable,
		},
		{
			name:   "closed",
			mutate: func(q *Quiz) { q.UntilAt = &past },
			want:   DeniedClosed,
		},
		{
			name:   "available window open",
			mutate: func(q *Quiz) { q.AvailableAt = &past; q.UntilAt = &future },
		},
		{
			name:   "bad access code",
			mutate: func(q *Quiz) { q.AccessCode = "sesame" },
			want:   DeniedBadAccessCode,
		},
		{
			name:       "correct access code",
			mutate:     func(q *Quiz) { q.AccessCode = "sesame" },
			accessCode: "sesame",
		},
		{
			name:   "single attempt already used",
			mutate: func(q *Quiz) {},
			prior:  1,
			want:   DeniedAttemptLimitReached,
		},
		{
			name:   "multiple attempts below limit",
			mutate: func(q *Quiz) { q.MultipleAttempts = true; q.MaxAttempts = 3 },
			prior:  2,
		},
		{
			name:   "multiple attempts at limit",
			mutate: func(q *Quiz) { q.MultipleAttempts = true; q.MaxAttempts = 3 },
			prior:  3,
			want:   DeniedAttemptLimitReached,
		},
		{
			name:   "date check precedes access code",
			mutate: func(q *Quiz) { q.AccessCode = "sesame"; q.AvailableAt = &future },
			want:   DeniedNotYetAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := base
			tt.mutate(&q)
			err := CanAttempt(q, now, tt.prior, tt.accessCode)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("expected allowed, got %v", err)
				}
				return
			}
			d, ok := AsDenial(err)
			if !ok {
				t.Fatalf("expected denial, got %v", err)
			}
			if d.Reason != tt.want {
				t.Fatalf("expected reason %s, got %s", tt.want, d.Reason)
			}
		})
	}
}

func TestCanAttemptBoundaryInstants(t *testing.T) {
	open := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	close := open.Add(2 * time.Hour)
	q := Quiz{Published: true, AvailableAt: &open, UntilAt: &close, MaxAttempts: 1}

	// The window is inclusive at both ends.
	if err := CanAttempt(q, open, 0, ""); err != nil {
		t.Fatalf("start of window should be allowed: %v", err)
	}
	if err := CanAttempt(q, close, 0, ""); err != nil {
		t.Fatalf("end of window should be allowed: %v", err)
	}
}
