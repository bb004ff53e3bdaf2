package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mmynk/housesplit/internal/config"
	"github.com/mmynk/housesplit/internal/storage/sqlite"
)

func migrateCmd() *cobra.Command {
	var dbPath string

	c := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				dbPath = config.Load().DBPath
			}
			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("create database directory: %w", err)
			}
			if err := sqlite.RunMigrations(dbPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", dbPath)
			return nil
		},
	}

	c.Flags().StringVar(&dbPath, "db", "", "SQLite database path (defaults to DB_PATH)")
	return c
}
