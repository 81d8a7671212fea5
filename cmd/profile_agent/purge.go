package main

import (
	"context"
	"fmt"

	"github.com/jonathan/profile-extractor/internal/config"
	"github.com/jonathan/profile-extractor/internal/db"
	"github.com/spf13/cobra"
)

var purgeDatabase string

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete expired job state from Postgres",
	Long:  "Remove job state rows whose TTL has passed. The server does this on JANITOR_SCHEDULE; this runs it once.",
	RunE:  runPurge,
}

func init() {
	purgeCmd.Flags().StringVar(&purgeDatabase, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL)")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, _ []string) error {
	databaseURL := purgeDatabase
	if databaseURL == "" {
		env, err := config.Load()
		if err != nil {
			return err
		}
		databaseURL = env.DatabaseURL
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	removed, err := db.NewKV(database).Purge(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired job state rows\n", removed)
	return err
}
