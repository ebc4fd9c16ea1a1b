package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/kambaz-lms/quiz-service/internal/auth/middleware"
	"github.com/kambaz-lms/quiz-service/internal/quiz"
	"github.com/kambaz-lms/quiz-service/internal/rbac"
	"github.com/kambaz-lms/quiz-service/internal/results"
)

// POST /quizzes/{quizID}/attempts  { "access_code": "..." }
func StartAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AccessCode string `json:"access_code"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "bad json")
				return
			}
		}
		student := authmw.SubjectFromContext(r.Context())
		a, err := svc.Start(r.Context(), chi.URLParam(r, "quizID"), student, req.AccessCode, time.Now())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

// PUT /attempts/{attemptID}/answers  { "<questionID>": "<value>", ... }
func SaveAnswersHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var answers map[string]string
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		student := authmw.SubjectFromContext(r.Context())
		a, err := svc.SaveAnswers(r.Context(), chi.URLParam(r, "attemptID"), student, answers)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// POST /attempts/{attemptID}/submit
// Grading runs server-side; clients polling an expired deadline call this
// with whatever answers were last saved.
func SubmitAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student := authmw.SubjectFromContext(r.Context())
		a, err := svc.Submit(r.Context(), chi.URLParam(r, "attemptID"), student, time.Now())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /quizzes/{quizID}/attempts/latest
func LatestAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		student := authmw.SubjectFromContext(r.Context())
		a, err := svc.Latest(r.Context(), chi.URLParam(r, "quizID"), student)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /attempts/{attemptID}
func GetAttemptHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		a, err := svc.Get(r.Context(), chi.URLParam(r, "attemptID"), sub, rbac.Can(role, "attempt:view-all"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /attempts/{attemptID}/report
func AttemptReportHandler(svc *quiz.Service, store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		a, err := svc.Get(r.Context(), chi.URLParam(r, "attemptID"), sub, rbac.Can(role, "attempt:view-all"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		q, err := store.GetQuiz(r.Context(), a.QuizID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		rep, err := results.Project(q, a, time.Now())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}
