package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	api "github.com/kambaz-lms/quiz-service/internal/api/http"
	authmw "github.com/kambaz-lms/quiz-service/internal/auth/middleware"
	"github.com/kambaz-lms/quiz-service/internal/config"
	"github.com/kambaz-lms/quiz-service/internal/db"
	"github.com/kambaz-lms/quiz-service/internal/eventlog"
	"github.com/kambaz-lms/quiz-service/internal/grading"
	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), config.FromEnv())
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	store := quiz.NewSQLStore(dbh, cfg.DBDriver)
	svc := quiz.NewService(store, grading.NewGrader(), eventlog.New(dbh))

	if cfg.SeedFile != "" {
		n, err := seedFromFile(ctx, store, cfg.SeedFile)
		if err != nil {
			return err
		}
		log.Printf("seeded %d quizzes from %s", n, cfg.SeedFile)
	}

	router := api.NewRouter(api.RouterDeps{
		Store:       store,
		Service:     svc,
		Auth:        authmw.NewAuthService(cfg.AuthSecret),
		DB:          dbh,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
