package http

import (
	"net/http"
	"strings"

	authmw "github.com/kambaz-lms/quiz-service/internal/auth/middleware"
	"github.com/kambaz-lms/quiz-service/internal/quiz"
	"github.com/kambaz-lms/quiz-service/internal/rbac"
)

// GET /attempts?quiz_id=...&student_id=...&status=...&limit=50&offset=0
// Callers without attempt:view-all are forced onto their own attempts.
func ListAttemptsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := authmw.SubjectFromContext(r.Context())
		if role == "" {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}

		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		if !rbac.Can(role, "attempt:view-all") {
			studentID = sub
		}

		list, err := store.ListAttempts(r.Context(), quiz.AttemptListOpts{
			QuizID:    strings.TrimSpace(r.URL.Query().Get("quiz_id")),
			StudentID: studentID,
			Status:    strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:    parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
