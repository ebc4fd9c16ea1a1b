// Package results shapes a graded attempt into a display-ready report,
// honoring the quiz's show-correct-answers policy.
package results

import (
	"time"

	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

// QuestionResult is one row of the per-question breakdown.
type QuestionResult struct {
	QuestionID     string   `json:"question_id"`
	Title          string   `json:"title,omitempty"`
	Prompt         string   `json:"prompt"`
	Submitted      string   `json:"submitted"`
	CorrectAnswers []string `json:"correct_answers"`
	IsCorrect      bool     `json:"is_correct"`
	PointsEarned   float64  `json:"points_earned"`
	MaxPoints      float64  `json:"max_points"`
}

// Report is the score summary for one submitted attempt.
type Report struct {
	QuizID      string           `json:"quiz_id"`
	AttemptID   string           `json:"attempt_id"`
	Score       float64          `json:"score"`
	TotalPoints float64          `json:"total_points"`
	Percentage  float64          `json:"percentage"`
	LetterGrade string           `json:"letter_grade"`
	Breakdown   []QuestionResult `json:"breakdown,omitempty"`
}

// Project builds the report for a submitted attempt. now decides whether an
// after_due_date policy has matured; with no due date set, after_due_date
// behaves like immediately.
func Project(q quiz.Quiz, a quiz.Attempt, now time.Time) (Report, error) {
	if a.Status != quiz.StatusSubmitted || a.Score == nil {
		return Report{}, quiz.ErrInvalidState
	}

	total := q.TotalPoints()
	pct := 0.0
	if total > 0 {
		pct = 100 * *a.Score / total
	}

	r := Report{
		QuizID:      q.ID,
		AttemptID:   a.ID,
		Score:       *a.Score,
		TotalPoints: total,
		Percentage:  pct,
		LetterGrade: LetterGrade(pct),
	}
	if showBreakdown(q, now) {
		r.Breakdown = breakdown(q, a)
	}
	return r, nil
}

// LetterGrade maps a percentage to a letter on inclusive lower bounds.
func LetterGrade(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}

func showBreakdown(q quiz.Quiz, now time.Time) bool {
	switch q.ShowCorrect {
	case quiz.ShowNever:
		return false
	case quiz.ShowAfterDueDate:
		return q.UntilAt == nil || now.After(*q.UntilAt)
	default:
		return true
	}
}

func breakdown(q quiz.Quiz, a quiz.Attempt) []QuestionResult {
	byID := make(map[string]quiz.GradedAnswer, len(a.Graded))
	for _, g := range a.Graded {
		byID[g.QuestionID] = g
	}
	out := make([]QuestionResult, 0, len(q.Questions))
	for _, qu := range q.Questions {
		g := byID[qu.ID]
		out = append(out, QuestionResult{
			QuestionID:     qu.ID,
			Title:          qu.Title,
			Prompt:         qu.Prompt,
			Submitted:      a.Answers[qu.ID],
			CorrectAnswers: correctValues(qu),
			IsCorrect:      g.IsCorrect,
			PointsEarned:   g.PointsEarned,
			MaxPoints:      qu.Points,
		})
	}
	return out
}

// correctValues renders the key in display form: choice texts for multiple
// choice, the literal answer otherwise.
func correctValues(qu quiz.Question) []string {
	switch qu.Type {
	case quiz.TypeMultipleChoice:
		texts := make(map[string]string, len(qu.Choices))
		for _, c := range qu.Choices {
			texts[c.ID] = c.Text
		}
		out := make([]string, 0, len(qu.CorrectChoiceIDs))
		for _, id := range qu.CorrectChoiceIDs {
			out = append(out, texts[id])
		}
		return out
	case quiz.TypeTrueFalse:
		return []string{qu.CorrectAnswer}
	case quiz.TypeFillInBlank:
		return append([]string(nil), qu.AcceptedAnswers...)
	}
	return nil
}
