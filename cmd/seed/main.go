package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/logging"
	"portfolio-backend/internal/seed"
	"portfolio-backend/internal/validation"
)

var (
	resetFlag bool
	fileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load portfolio projects and experience into MongoDB",
	Long: `Seed writes the bundled portfolio content, or a YAML file with the same
layout, to the configured database.

Examples:
  seed
  seed --reset
  seed --file ./content.yaml`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().BoolVar(&resetFlag, "reset", false, "delete all contacts, projects and experiences first")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "YAML seed file (defaults to the bundled content)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	data, err := loadData(fileFlag)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	store, err := db.Open(ctx, db.Options{
		URI:                    cfg.MongoURI,
		Database:               cfg.MongoDB,
		ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("mongo open: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("mongo close failed", slog.String("error", err.Error()))
		}
	}()

	if err := store.Ping(ctx); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	if err := db.EnsureIndexes(ctx, store.Cols); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	res, err := seed.NewSeeder(store.Cols, validation.New(), logger).Run(ctx, data, resetFlag, cfg.Timezone)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "projects: %d inserted, %d updated\n", res.Projects.Inserted, res.Projects.Updated)
	fmt.Fprintf(cmd.OutOrStdout(), "experiences: %d inserted, %d updated\n", res.Experiences.Inserted, res.Experiences.Updated)
	return nil
}

func loadData(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return seed.Load(f)
}
