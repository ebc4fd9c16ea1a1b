package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authmw "github.com/kambaz-lms/quiz-service/internal/auth/middleware"
	"github.com/kambaz-lms/quiz-service/internal/quiz"
	"github.com/kambaz-lms/quiz-service/internal/rbac"
)

// RouterDeps carries everything the HTTP surface needs. DB may be nil when
// running purely in memory (login and user management are then unavailable).
type RouterDeps struct {
	Store       quiz.Store
	Service     *quiz.Service
	Auth        *authmw.AuthService
	DB          *sql.DB
	CORSOrigins []string
}

// NewRouter wires the full API: public auth + health, then the JWT-protected
// quiz and attempt surface behind RBAC.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	if deps.DB != nil {
		r.Post("/auth/login", authmw.LoginHandler(deps.Auth, deps.DB))
	}

	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(deps.Auth))

		// Faculty: authoring
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", CreateQuizHandler(deps.Store))
		pr.With(rbac.Require("quiz:update")).
			Put("/quizzes/{quizID}", UpdateQuizHandler(deps.Store))
		pr.With(rbac.Require("quiz:delete")).
			Delete("/quizzes/{quizID}", DeleteQuizHandler(deps.Store))

		// Any authenticated viewer (students get the key-stripped shape)
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", ListQuizzesHandler(deps.Store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", GetQuizHandler(deps.Store))

		// Student flow
		pr.With(rbac.Require("attempt:create")).
			Post("/quizzes/{quizID}/attempts", StartAttemptHandler(deps.Service))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/quizzes/{quizID}/attempts/latest", LatestAttemptHandler(deps.Service))
		pr.With(rbac.Require("attempt:save")).
			Put("/attempts/{attemptID}/answers", SaveAnswersHandler(deps.Service))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", SubmitAttemptHandler(deps.Service))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}", GetAttemptHandler(deps.Service))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts/{attemptID}/report", AttemptReportHandler(deps.Service, deps.Store))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", ListAttemptsHandler(deps.Store))

		// Roster management
		if deps.DB != nil {
			pr.With(rbac.Require("users:bulk_upsert")).
				Post("/users/bulk", BulkUpsertUsersHandler(deps.DB))
			pr.With(rbac.Require("users:list")).
				Get("/users", ListUsersHandler(deps.DB))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	return r
}
