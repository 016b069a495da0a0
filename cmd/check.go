package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/ui/feedback"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and load every question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		b := loadBanks(cfg, zap.NewNop())
		out := cmd.OutOrStdout()

		report := func(label, path string, n int, unit string, err error) {
			if err != nil {
				fmt.Fprintf(out, "✗ %-9s %s\n    %s\n", label, path, feedback.FromError(err).Text)
				return
			}
			fmt.Fprintf(out, "✓ %-9s %s (%d %s)\n", label, path, n, unit)
		}
		report("quiz", cfg.BankPath, len(b.Quiz.Records), "questions", b.Quiz.Err)
		report("flyer", cfg.FlyerPath, len(b.Flyer.Passages), "passages", b.Flyer.Err)
		report("practice", cfg.PracticePath, len(b.Practice.Records), "questions", b.Practice.Err)

		if b.Quiz.Err != nil {
			return fmt.Errorf("quiz bank: %w", b.Quiz.Err)
		}
		return nil
	},
}
