package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <student-id>",
	Short: "Discard a student's saved progress on every bank",
	Long:  "Discard the unfinished-quiz snapshots of a student so every screen starts from question 1. Finished attempts stay in the history.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		snaps := st.SnapshotRepo()
		for _, name := range []string{cfg.BankPath, cfg.FlyerPath, practicePrefix + cfg.PracticePath} {
			if err := snaps.Clear(cmd.Context(), args[0], name); err != nil {
				return fmt.Errorf("clear progress on %s: %w", name, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved progress for %s cleared.\n", args[0])
		return nil
	},
}
