package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kambaz-lms/quiz-service/internal/quiz"
	"github.com/kambaz-lms/quiz-service/internal/rbac"
)

var validate = validator.New()

type choicePayload struct {
	ID   string `json:"id"`
	Text string `json:"text" validate:"required"`
}

type questionPayload struct {
	ID               string          `json:"id"`
	Type             string          `json:"type" validate:"required,oneof=multiple_choice true_false fill_in_blank"`
	Title            string          `json:"title"`
	Prompt           string          `json:"prompt" validate:"required"`
	Points           float64         `json:"points" validate:"required,gt=0"`
	Choices          []choicePayload `json:"choices" validate:"omitempty,min=2,dive"`
	CorrectChoiceIDs []string        `json:"correct_choice_ids"`
	CorrectAnswer    string          `json:"correct_answer" validate:"omitempty,oneof=True False"`
	AcceptedAnswers  []string        `json:"accepted_answers"`
}

type quizPayload struct {
	CourseID         string            `json:"course_id" validate:"required"`
	Title            string            `json:"title" validate:"required"`
	Description      string            `json:"description"`
	Published        bool              `json:"published"`
	AccessCode       string            `json:"access_code"`
	AvailableAt      *time.Time        `json:"available_at"`
	UntilAt          *time.Time        `json:"until_at"`
	TimeLimitMinutes int               `json:"time_limit_minutes" validate:"gte=0"`
	MultipleAttempts bool              `json:"multiple_attempts"`
	MaxAttempts      int               `json:"max_attempts" validate:"gte=0,lte=10"`
	ShowCorrect      string            `json:"show_correct_answers" validate:"omitempty,oneof=immediately after_due_date never"`
	Questions        []questionPayload `json:"questions" validate:"dive"`
	Settings         map[string]any    `json:"settings"`
}

// toQuiz converts the authoring payload, generating ids where the client
// left them blank. Duplicate-text choices stay distinct because correctness
// is tracked by choice id, never by text.
func (p quizPayload) toQuiz(id string) quiz.Quiz {
	q := quiz.Quiz{
		ID:               id,
		CourseID:         p.CourseID,
		Title:            p.Title,
		Description:      p.Description,
		Published:        p.Published,
		AccessCode:       p.AccessCode,
		AvailableAt:      p.AvailableAt,
		UntilAt:          p.UntilAt,
		TimeLimitMinutes: p.TimeLimitMinutes,
		MultipleAttempts: p.MultipleAttempts,
		MaxAttempts:      p.MaxAttempts,
		ShowCorrect:      quiz.ShowCorrectAnswers(p.ShowCorrect),
		Settings:         p.Settings,
	}
	if q.ShowCorrect == "" {
		q.ShowCorrect = quiz.ShowImmediately
	}
	if !q.MultipleAttempts {
		q.MaxAttempts = 1
	} else if q.MaxAttempts == 0 {
		q.MaxAttempts = 1
	}
	for _, qp := range p.Questions {
		qu := quiz.Question{
			ID:               qp.ID,
			Type:             quiz.QuestionType(qp.Type),
			Title:            qp.Title,
			Prompt:           qp.Prompt,
			Points:           qp.Points,
			CorrectChoiceIDs: qp.CorrectChoiceIDs,
			CorrectAnswer:    qp.CorrectAnswer,
			AcceptedAnswers:  qp.AcceptedAnswers,
		}
		if qu.ID == "" {
			qu.ID = uuid.NewString()
		}
		for _, cp := range qp.Choices {
			c := quiz.Choice{ID: cp.ID, Text: cp.Text}
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			qu.Choices = append(qu.Choices, c)
		}
		q.Questions = append(q.Questions, qu)
	}
	return q
}

func decodeQuizPayload(w http.ResponseWriter, r *http.Request) (quizPayload, bool) {
	var p quizPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return p, false
	}
	if err := validate.Struct(p); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return p, false
	}
	return p, true
}

// POST /quizzes
func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := decodeQuizPayload(w, r)
		if !ok {
			return
		}
		q := p.toQuiz(uuid.NewString())
		if err := q.Validate(); err != nil {
			writeDomainError(w, err)
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /quizzes/{quizID}
func UpdateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		if _, err := store.GetQuiz(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}
		p, ok := decodeQuizPayload(w, r)
		if !ok {
			return
		}
		q := p.toQuiz(id)
		if err := q.Validate(); err != nil {
			writeDomainError(w, err)
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /quizzes/{quizID}
func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
			writeDomainError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /quizzes/{quizID}
// Viewers without quiz:view-keys get the student-safe shape.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		role := rbac.RoleFromContext(r.Context())
		if !rbac.Can(role, "quiz:view-keys") {
			q = q.StudentView()
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// GET /quizzes?course_id=...&limit=50&offset=0
// Students only see published quizzes.
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		list, err := store.ListQuizzes(r.Context(), quiz.ListOpts{
			CourseID:      r.URL.Query().Get("course_id"),
			PublishedOnly: !rbac.Can(role, "quiz:view-keys"),
			Limit:         parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:        parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
