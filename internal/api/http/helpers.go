package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps core errors onto HTTP statuses. Availability denials
// are expected outcomes, not faults: they come back as 403 with a machine
// readable reason for the client to branch on.
func writeDomainError(w http.ResponseWriter, err error) {
	if d, ok := quiz.AsDenial(err); ok {
		body := map[string]string{"error": d.Error(), "reason": string(d.Reason)}
		if d.At != nil {
			body["at"] = d.At.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		writeJSON(w, http.StatusForbidden, body)
		return
	}
	var verr *quiz.ValidationError
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound), errors.Is(err, quiz.ErrAttemptNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, quiz.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, quiz.ErrAlreadySubmitted),
		errors.Is(err, quiz.ErrInvalidState),
		errors.Is(err, quiz.ErrAttemptInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, quiz.ErrUnknownQuestion), errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
