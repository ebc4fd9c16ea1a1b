// Package grading scores completed answer sets against a quiz's question
// set. Grading is pure and total: identical inputs always yield identical
// output, and no well-formed or malformed question ever makes it fail. A
// question with an empty answer key is simply unanswerable (always graded
// incorrect).
package grading

import (
	"strings"

	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

// Result is the outcome of grading a single question response.
type Result struct {
	IsCorrect    bool
	PointsEarned float64
	MaxPoints    float64
}

// Strategy grades a single question. response is the raw submitted value:
// a choice id for multiple choice, "True"/"False" for true/false, free text
// for fill-in-blank.
type Strategy interface {
	Grade(q quiz.Question, response string) Result
}

// Grader routes by question type to the matching Strategy.
type Grader interface {
	Grade(q quiz.Question, response string) Result
	GradeAll(questions []quiz.Question, answers map[string]string) (float64, []quiz.GradedAnswer)
}

type defaultGrader struct {
	strategies map[quiz.QuestionType]Strategy
}

// NewGrader installs the built-in strategies.
func NewGrader() Grader {
	return &defaultGrader{
		strategies: map[quiz.QuestionType]Strategy{
			quiz.TypeMultipleChoice: multipleChoiceStrategy{},
			quiz.TypeTrueFalse:      trueFalseStrategy{},
			quiz.TypeFillInBlank:    fillInBlankStrategy{},
		},
	}
}

func (g *defaultGrader) Grade(q quiz.Question, response string) Result {
	s, ok := g.strategies[q.Type]
	if !ok {
		// Unknown type: unanswerable, never an error.
		return Result{MaxPoints: q.Points}
	}
	return s.Grade(q, response)
}

// GradeAll grades every question in quiz order. A question id absent from
// answers grades as incorrect with zero points; the total is the sum of
// points earned regardless of how complete the answer set is.
func (g *defaultGrader) GradeAll(questions []quiz.Question, answers map[string]string) (float64, []quiz.GradedAnswer) {
	score := 0.0
	graded := make([]quiz.GradedAnswer, 0, len(questions))
	for _, q := range questions {
		res := Result{MaxPoints: q.Points}
		if resp, ok := answers[q.ID]; ok {
			res = g.Grade(q, resp)
		}
		score += res.PointsEarned
		graded = append(graded, quiz.GradedAnswer{
			QuestionID:   q.ID,
			IsCorrect:    res.IsCorrect,
			PointsEarned: res.PointsEarned,
		})
	}
	return score, graded
}

type multipleChoiceStrategy struct{}

// Multiple choice compares the submitted choice id against the correct-id
// set. Keying by id keeps duplicate-text choices unambiguous.
func (multipleChoiceStrategy) Grade(q quiz.Question, response string) Result {
	res := Result{MaxPoints: q.Points}
	for _, id := range q.CorrectChoiceIDs {
		if response == id {
			res.IsCorrect = true
			res.PointsEarned = q.Points
			return res
		}
	}
	return res
}

type trueFalseStrategy struct{}

func (trueFalseStrategy) Grade(q quiz.Question, response string) Result {
	res := Result{MaxPoints: q.Points}
	if q.CorrectAnswer != "" && response == q.CorrectAnswer {
		res.IsCorrect = true
		res.PointsEarned = q.Points
	}
	return res
}

type fillInBlankStrategy struct{}

func (fillInBlankStrategy) Grade(q quiz.Question, response string) Result {
	res := Result{MaxPoints: q.Points}
	got := normalize(response)
	for _, accepted := range q.AcceptedAnswers {
		if normalize(accepted) == got {
			res.IsCorrect = true
			res.PointsEarned = q.Points
			return res
		}
	}
	return res
}

// normalize makes fill-in-blank matching trim- and case-insensitive.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
