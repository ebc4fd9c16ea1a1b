package quiz

import "time"

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeFillInBlank    QuestionType = "fill_in_blank"
)

// ShowCorrectAnswers controls when students may see answer keys in results.
type ShowCorrectAnswers string

const (
	ShowImmediately  ShowCorrectAnswers = "immediately"
	ShowAfterDueDate ShowCorrectAnswers = "after_due_date"
	ShowNever        ShowCorrectAnswers = "never"
)

// Choice is one selectable option of a multiple-choice question. Choices are
// identified by generated id, never by display text, so two choices with the
// same text remain distinct answer slots.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a tagged variant over the three supported types. Type decides
// which of the key fields is meaningful: CorrectChoiceIDs for multiple
// choice, CorrectAnswer ("True"/"False") for true/false, AcceptedAnswers for
// fill-in-blank.
type Question struct {
	ID     string       `json:"id"`
	Type   QuestionType `json:"type"`
	Title  string       `json:"title,omitempty"`
	Prompt string       `json:"prompt"`
	Points float64      `json:"points"`

	Choices          []Choice `json:"choices,omitempty"`
	CorrectChoiceIDs []string `json:"correct_choice_ids,omitempty"`
	CorrectAnswer    string   `json:"correct_answer,omitempty"`
	AcceptedAnswers  []string `json:"accepted_answers,omitempty"`
}

type Quiz struct {
	ID          string `json:"id"`
	CourseID    string `json:"course_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Published        bool               `json:"published"`
	AccessCode       string             `json:"access_code,omitempty"`
	AvailableAt      *time.Time         `json:"available_at,omitempty"`
	UntilAt          *time.Time         `json:"until_at,omitempty"`
	TimeLimitMinutes int                `json:"time_limit_minutes,omitempty"`
	MultipleAttempts bool               `json:"multiple_attempts"`
	MaxAttempts      int                `json:"max_attempts"`
	ShowCorrect      ShowCorrectAnswers `json:"show_correct_answers"`

	Questions []Question `json:"questions"`

	// Settings carries presentation-only flags from authoring clients
	// (shuffle_answers, one_question_at_a_time, ...). Stored and echoed back,
	// no behavior attached to them here.
	Settings map[string]any `json:"settings,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// TotalPoints is derived from the question set and never stored on its own.
func (q Quiz) TotalPoints() float64 {
	var sum float64
	for _, qu := range q.Questions {
		sum += qu.Points
	}
	return sum
}

type AttemptStatus string

const (
	StatusInProgress AttemptStatus = "in_progress"
	StatusSubmitted  AttemptStatus = "submitted"
)

// GradedAnswer is the grading outcome for a single question, in quiz order.
type GradedAnswer struct {
	QuestionID   string  `json:"question_id"`
	IsCorrect    bool    `json:"is_correct"`
	PointsEarned float64 `json:"points_earned"`
}

// Attempt is one student's run through a quiz. Status is submitted exactly
// when SubmittedAt and Score are both set; submission is terminal.
type Attempt struct {
	ID        string        `json:"id"`
	QuizID    string        `json:"quiz_id"`
	StudentID string        `json:"student_id"`
	Status    AttemptStatus `json:"status"`

	StartedAt time.Time  `json:"started_at"`
	Deadline  *time.Time `json:"deadline,omitempty"` // StartedAt + time limit, when the quiz has one

	Answers map[string]string `json:"answers"` // questionID -> submitted value (choice id, "True"/"False", or free text)

	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	Score       *float64       `json:"score,omitempty"`
	Graded      []GradedAnswer `json:"graded_answers,omitempty"`
}

// QuizSummary is the list-view shape (no questions, no keys).
type QuizSummary struct {
	ID            string     `json:"id"`
	CourseID      string     `json:"course_id"`
	Title         string     `json:"title"`
	Published     bool       `json:"published"`
	AvailableAt   *time.Time `json:"available_at,omitempty"`
	UntilAt       *time.Time `json:"until_at,omitempty"`
	QuestionCount int        `json:"question_count"`
	TotalPoints   float64    `json:"total_points"`
}

// StudentView strips answer keys so a quiz can be served to a student taking
// it. The attempt flow submits choice ids, so choices themselves stay.
func (q Quiz) StudentView() Quiz {
	out := q
	out.AccessCode = ""
	out.Questions = make([]Question, len(q.Questions))
	for i, qu := range q.Questions {
		qu.CorrectChoiceIDs = nil
		qu.CorrectAnswer = ""
		qu.AcceptedAnswers = nil
		out.Questions[i] = qu
	}
	return out
}

// QuestionByID returns the quiz question with the given id.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for _, qu := range q.Questions {
		if qu.ID == id {
			return qu, true
		}
	}
	return Question{}, false
}

func (q Quiz) Summary() QuizSummary {
	return QuizSummary{
		ID:            q.ID,
		CourseID:      q.CourseID,
		Title:         q.Title,
		Published:     q.Published,
		AvailableAt:   q.AvailableAt,
		UntilAt:       q.UntilAt,
		QuestionCount: len(q.Questions),
		TotalPoints:   q.TotalPoints(),
	}
}
