package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyzone/internal/config"
	"github.com/abhisek/studyzone/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "studyzone",
	Short:        "English quiz practice for students",
	Long:         "Ms. Tammy's Study Zone: a terminal app for multiple-choice English quizzes, flyer gap-fills and practice sets.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default ./config or $XDG_CONFIG_HOME/studyzone)")
	rootCmd.PersistentFlags().String("db", "", "Database DSN or SQLite file (overrides STUDYZONE_DB_DSN)")
	rootCmd.PersistentFlags().String("bank", "", "Question bank file, CSV or JSON (overrides STUDYZONE_BANK_PATH)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration with the root flags layered on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: path, Flags: cmd.Flags()})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the configured attempt-history database.
func openStore(cfg *config.Config) (*store.Store, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.OpenDriver(cfg.DB.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}
