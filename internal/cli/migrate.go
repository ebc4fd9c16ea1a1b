package cli

import (
	"context"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/kambaz-lms/quiz-service/internal/config"
	"github.com/kambaz-lms/quiz-service/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
			if err != nil {
				return err
			}
			defer dbh.Close()
			log.Printf("schema ready (db=%s)", cfg.DBDriver)
			return nil
		},
	}
}
