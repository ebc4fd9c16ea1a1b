package quiz

import (
	"fmt"
	"strings"
)

// ValidationError reports a malformed quiz or question at authoring time.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

// Validate checks the cross-field invariants the authoring surface must hold.
// Malformed quizzes never reach grading; grading itself stays total either
// way.
func (q Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return invalid("title", "required")
	}
	if q.AvailableAt != nil && q.UntilAt != nil && q.UntilAt.Before(*q.AvailableAt) {
		return invalid("until_at", "precedes available_at")
	}
	if q.MultipleAttempts && q.MaxAttempts < 1 {
		return invalid("max_attempts", "must be at least 1 when multiple attempts are allowed")
	}
	if q.TimeLimitMinutes < 0 {
		return invalid("time_limit_minutes", "must not be negative")
	}
	switch q.ShowCorrect {
	case ShowImmediately, ShowAfterDueDate, ShowNever:
	default:
		return invalid("show_correct_answers", fmt.Sprintf("unknown policy %q", q.ShowCorrect))
	}
	seen := make(map[string]struct{}, len(q.Questions))
	for i, qu := range q.Questions {
		if _, dup := seen[qu.ID]; dup {
			return invalid(fmt.Sprintf("questions[%d].id", i), "duplicate question id")
		}
		seen[qu.ID] = struct{}{}
		if err := qu.Validate(); err != nil {
			return fmt.Errorf("questions[%d]: %w", i, err)
		}
	}
	return nil
}

// Validate checks a single question's invariants per its type.
func (qu Question) Validate() error {
	if qu.Points <= 0 {
		return invalid("points", "must be positive")
	}
	switch qu.Type {
	case TypeMultipleChoice:
		if len(qu.Choices) < 2 {
			return invalid("choices", "need at least two")
		}
		ids := make(map[string]struct{}, len(qu.Choices))
		for i, c := range qu.Choices {
			if strings.TrimSpace(c.Text) == "" {
				return invalid(fmt.Sprintf("choices[%d]", i), "empty text")
			}
			if c.ID == "" {
				return invalid(fmt.Sprintf("choices[%d]", i), "missing id")
			}
			if _, dup := ids[c.ID]; dup {
				return invalid(fmt.Sprintf("choices[%d]", i), "duplicate id")
			}
			ids[c.ID] = struct{}{}
		}
		if len(qu.CorrectChoiceIDs) == 0 {
			return invalid("correct_choice_ids", "need at least one")
		}
		for _, id := range qu.CorrectChoiceIDs {
			if _, ok := ids[id]; !ok {
				return invalid("correct_choice_ids", fmt.Sprintf("%q is not a choice id", id))
			}
		}
	case TypeTrueFalse:
		if qu.CorrectAnswer != "True" && qu.CorrectAnswer != "False" {
			return invalid("correct_answer", `must be "True" or "False"`)
		}
	case TypeFillInBlank:
		if len(qu.AcceptedAnswers) == 0 {
			return invalid("accepted_answers", "need at least one")
		}
		for i, a := range qu.AcceptedAnswers {
			if strings.TrimSpace(a) == "" {
				return invalid(fmt.Sprintf("accepted_answers[%d]", i), "empty")
			}
		}
	default:
		return invalid("type", fmt.Sprintf("unknown question type %q", qu.Type))
	}
	return nil
}
