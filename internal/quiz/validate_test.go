package quiz

import "testing"

func validMCQ() Question {
	return Question{
		ID:     "q1",
		Type:   TypeMultipleChoice,
		Prompt: "Pick one",
		Points: 10,
		Choices: []Choice{
			{ID: "c1", Text: "A"},
			{ID: "c2", Text: "B"},
		},
		CorrectChoiceIDs: []string{"c2"},
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr bool
	}{
		{name: "valid", mutate: func(q *Question) {}},
		{name: "zero points", mutate: func(q *Question) { q.Points = 0 }, wantErr: true},
		{name: "negative points", mutate: func(q *Question) { q.Points = -1 }, wantErr: true},
		{name: "single choice", mutate: func(q *Question) { q.Choices = q.Choices[:1] }, wantErr: true},
		{name: "empty choice text", mutate: func(q *Question) { q.Choices[0].Text = "  " }, wantErr: true},
		{name: "no correct choice", mutate: func(q *Question) { q.CorrectChoiceIDs = nil }, wantErr: true},
		{name: "correct id not a choice", mutate: func(q *Question) { q.CorrectChoiceIDs = []string{"zz"} }, wantErr: true},
		{
			name: "duplicate choice texts are fine, ids must differ",
			mutate: func(q *Question) {
				q.Choices = []Choice{{ID: "c1", Text: "same"}, {ID: "c2", Text: "same"}}
				q.CorrectChoiceIDs = []string{"c1"}
			},
		},
		{
			name: "duplicate choice ids",
			mutate: func(q *Question) {
				q.Choices = []Choice{{ID: "c1", Text: "A"}, {ID: "c1", Text: "B"}}
			},
			wantErr: true,
		},
		{
			name: "true/false wants True or False",
			mutate: func(q *Question) {
				*q = Question{ID: "q2", Type: TypeTrueFalse, Prompt: "?", Points: 5, CorrectAnswer: "yes"}
			},
			wantErr: true,
		},
		{
			name: "fill in blank wants an accepted answer",
			mutate: func(q *Question) {
				*q = Question{ID: "q3", Type: TypeFillInBlank, Prompt: "?", Points: 5}
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			mutate: func(q *Question) {
				*q = Question{ID: "q4", Type: "essay", Prompt: "?", Points: 5}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validMCQ()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestQuizValidateDuplicateQuestionIDs(t *testing.T) {
	q := Quiz{
		Title:       "Q",
		MaxAttempts: 1,
		ShowCorrect: ShowImmediately,
		Questions:   []Question{validMCQ(), validMCQ()},
	}
	if err := q.Validate(); err == nil {
		t.Fatal("expected duplicate question id error")
	}
}

func TestTotalPointsDerived(t *testing.T) {
	q := Quiz{Questions: []Question{
		{Points: 10}, {Points: 5}, {Points: 2.5},
	}}
	if got := q.TotalPoints(); got != 17.5 {
		t.Fatalf("expected 17.5, got %v", got)
	}
	// Changing the question set changes the derived total.
	q.Questions = q.Questions[:1]
	if got := q.TotalPoints(); got != 10 {
		t.Fatalf("expected 10 after trimming questions, got %v", got)
	}
}

func TestStudentViewStripsKeys(t *testing.T) {
	q := Quiz{
		Title:      "Q",
		AccessCode: "sesame",
		Questions: []Question{
			validMCQ(),
			{ID: "q2", Type: TypeTrueFalse, Prompt: "?", Points: 5, CorrectAnswer: "True"},
			{ID: "q3", Type: TypeFillInBlank, Prompt: "?", Points: 5, AcceptedAnswers: []string{"Paris"}},
		},
	}
	sv := q.StudentView()
	if sv.AccessCode != "" {
		t.Fatal("access code leaked")
	}
	for i, qu := range sv.Questions {
		if len(qu.CorrectChoiceIDs) > 0 || qu.CorrectAnswer != "" || len(qu.AcceptedAnswers) > 0 {
			t.Fatalf("question %d still carries its key", i)
		}
	}
	if len(sv.Questions[0].Choices) != 2 {
		t.Fatal("choices must survive for rendering")
	}
	// original untouched
	if q.Questions[0].CorrectChoiceIDs == nil {
		t.Fatal("StudentView mutated the source quiz")
	}
}
