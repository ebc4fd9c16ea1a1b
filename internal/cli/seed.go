package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kambaz-lms/quiz-service/internal/config"
	"github.com/kambaz-lms/quiz-service/internal/db"
	"github.com/kambaz-lms/quiz-service/internal/quiz"
)

func newSeedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load quizzes from a YAML fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
			if err != nil {
				return err
			}
			defer dbh.Close()
			n, err := seedFromFile(ctx, quiz.NewSQLStore(dbh, cfg.DBDriver), file)
			if err != nil {
				return err
			}
			log.Printf("seeded %d quizzes from %s", n, file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "fixtures.yaml", "YAML file with quizzes to load")
	return cmd
}

type seedChoice struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

type seedQuestion struct {
	ID               string       `yaml:"id"`
	Type             string       `yaml:"type"`
	Title            string       `yaml:"title"`
	Prompt           string       `yaml:"prompt"`
	Points           float64      `yaml:"points"`
	Choices          []seedChoice `yaml:"choices"`
	CorrectChoiceIDs []string     `yaml:"correct_choice_ids"`
	CorrectAnswer    string       `yaml:"correct_answer"`
	AcceptedAnswers  []string     `yaml:"accepted_answers"`
}

type seedQuiz struct {
	ID               string         `yaml:"id"`
	CourseID         string         `yaml:"course_id"`
	Title            string         `yaml:"title"`
	Description      string         `yaml:"description"`
	Published        bool           `yaml:"published"`
	AccessCode       string         `yaml:"access_code"`
	AvailableAt      *time.Time     `yaml:"available_at"`
	UntilAt          *time.Time     `yaml:"until_at"`
	TimeLimitMinutes int            `yaml:"time_limit_minutes"`
	MultipleAttempts bool           `yaml:"multiple_attempts"`
	MaxAttempts      int            `yaml:"max_attempts"`
	ShowCorrect      string         `yaml:"show_correct_answers"`
	Questions        []seedQuestion `yaml:"questions"`
}

type seedFile struct {
	Quizzes []seedQuiz `yaml:"quizzes"`
}

// seedFromFile loads quizzes from a YAML fixture into the store. Fixtures go
// through the same domain validation as API authoring.
func seedFromFile(ctx context.Context, store quiz.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	n := 0
	for _, sq := range f.Quizzes {
		q := sq.toQuiz()
		if err := q.Validate(); err != nil {
			return n, fmt.Errorf("quiz %q: %w", q.Title, err)
		}
		if err := store.PutQuiz(ctx, q); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (sq seedQuiz) toQuiz() quiz.Quiz {
	q := quiz.Quiz{
		ID:               sq.ID,
		CourseID:         sq.CourseID,
		Title:            sq.Title,
		Description:      sq.Description,
		Published:        sq.Published,
		AccessCode:       sq.AccessCode,
		AvailableAt:      sq.AvailableAt,
		UntilAt:          sq.UntilAt,
		TimeLimitMinutes: sq.TimeLimitMinutes,
		MultipleAttempts: sq.MultipleAttempts,
		MaxAttempts:      sq.MaxAttempts,
		ShowCorrect:      quiz.ShowCorrectAnswers(sq.ShowCorrect),
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.ShowCorrect == "" {
		q.ShowCorrect = quiz.ShowImmediately
	}
	if q.MaxAttempts == 0 {
		q.MaxAttempts = 1
	}
	for _, sqq := range sq.Questions {
		qu := quiz.Question{
			ID:               sqq.ID,
			Type:             quiz.QuestionType(sqq.Type),
			Title:            sqq.Title,
			Prompt:           sqq.Prompt,
			Points:           sqq.Points,
			CorrectChoiceIDs: sqq.CorrectChoiceIDs,
			CorrectAnswer:    sqq.CorrectAnswer,
			AcceptedAnswers:  sqq.AcceptedAnswers,
		}
		if qu.ID == "" {
			qu.ID = uuid.NewString()
		}
		for _, sc := range sqq.Choices {
			c := quiz.Choice{ID: sc.ID, Text: sc.Text}
			if c.ID == "" {
				c.ID = uuid.NewString()
			}
			qu.Choices = append(qu.Choices, c)
		}
		q.Questions = append(q.Questions, qu)
	}
	return q
}
