package main

import (
	"database/sql"
	"fmt"
	"mentorship-service/internal/app/config"
	"mentorship-service/internal/app/drivers/database"
	"mentorship-service/internal/app/drivers/logger"
	"mentorship-service/internal/migration"
	"os"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const dialect = "postgres"

var (
	// Version sets the default build version
	Version = "develop"

	limit int
)

func main() {
	internalConfig := config.NewInternalConfig()
	log := logger.NewLogrusLogger(internalConfig.App.Env)

	rootCmd := &cobra.Command{
		Use:     "migration",
		Short:   "Apply the mentorship-service postgres schema",
		Version: Version,
	}
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "n", 0, "maximum number of migrations to apply (0 means all)")

	rootCmd.AddCommand(upCmd(log))
	rootCmd.AddCommand(downCmd(log))
	rootCmd.AddCommand(statusCmd(log))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func source() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migration.Files,
		Root:       ".",
	}
}

func openDB() *sql.DB {
	return database.NewPostgresDB(config.NewDriverConfig())
}

func upCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openDB()
			defer db.Close()

			n, err := migrate.ExecMax(db, dialect, source(), migrate.Up, limit)
			if err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.WithField("applied", n).Info("Migrations applied")
			return nil
		},
	}
}

func downCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openDB()
			defer db.Close()

			steps := limit
			if steps == 0 {
				steps = 1
			}
			n, err := migrate.ExecMax(db, dialect, source(), migrate.Down, steps)
			if err != nil {
				return fmt.Errorf("failed to roll back migrations: %w", err)
			}
			log.WithField("rolled_back", n).Info("Migrations rolled back")
			return nil
		},
	}
}

func statusCmd(log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List known migrations and whether they are applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openDB()
			defer db.Close()

			migrations, err := source().FindMigrations()
			if err != nil {
				return fmt.Errorf("failed to read migrations: %w", err)
			}
			records, err := migrate.GetMigrationRecords(db, dialect)
			if err != nil {
				return fmt.Errorf("failed to read migration records: %w", err)
			}

			applied := make(map[string]bool, len(records))
			for _, record := range records {
				applied[record.Id] = true
			}
			for _, m := range migrations {
				log.WithFields(logrus.Fields{
					"id":      m.Id,
					"applied": applied[m.Id],
				}).Info("Migration")
			}
			return nil
		},
	}
}
