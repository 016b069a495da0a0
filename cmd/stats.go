package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show finished attempts and accuracy by error type",
	RunE: func(cmd *cobra.Command, args []string) error {
		student, _ := cmd.Flags().GetString("student")
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		events := st.EventRepo()
		quizzes, err := events.RecentQuizzes(ctx, student, limit)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(quizzes) == 0 {
			fmt.Fprintln(out, "No finished quizzes yet.")
			return nil
		}

		fmt.Fprintln(out, "Recent Attempts")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		fmt.Fprintf(out, "%-16s  %-12s  %-24s  %-8s  %8s  %5s  %6s\n",
			"Time", "Student", "Bank", "Mode", "Correct", "Score", "Secs")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, q := range quizzes {
			fmt.Fprintf(out, "%-16s  %-12s  %-24s  %-8s  %8s  %4d%%  %6d\n",
				q.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(q.StudentID, 12),
				truncate(filepath.Base(q.Bank), 24),
				q.Mode,
				fmt.Sprintf("%d/%d", q.Correct, q.Total),
				q.Percent,
				q.DurationSecs,
			)
		}

		cats, err := events.CategoryAccuracy(ctx, student)
		if err != nil {
			return fmt.Errorf("query accuracy: %w", err)
		}
		if len(cats) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Accuracy by Error Type")
		fmt.Fprintln(out, strings.Repeat("─", 50))
		for _, c := range cats {
			fmt.Fprintf(out, "%-24s  %5d/%-5d  %5.0f%%\n",
				truncate(displayCategory(c.Category), 24), c.Correct, c.Attempts, c.Accuracy()*100)
		}
		return nil
	},
}

func displayCategory(c string) string {
	if c == "" {
		return "(uncategorized)"
	}
	return c
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func init() {
	statsCmd.Flags().StringP("student", "s", "", "Only show this student ID")
	statsCmd.Flags().IntP("limit", "n", 20, "Number of attempts to show")
}
