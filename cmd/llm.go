package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyzone/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the explanation provider and its usage",
}

var llmCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Show which provider and model explanations would use",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		llmCfg, ok := llm.Discover(cfg.LLM)
		if !ok {
			fmt.Fprintln(out, "Explanations are off. Set llm.provider or a provider API key to turn them on.")
			return nil
		}
		if err := llmCfg.Validate(); err != nil {
			return fmt.Errorf("llm config: %w", err)
		}
		fmt.Fprintf(out, "Provider:  %s\n", llmCfg.Provider)
		fmt.Fprintf(out, "Model:     %s\n", llmCfg.Model())
		fmt.Fprintf(out, "Timeout:   %s\n", cfg.LLMTimeout())
		fmt.Fprintf(out, "Retries:   %d\n", llmCfg.Retry.MaxAttempts)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
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

		u, err := st.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if u.Requests == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "Requests:  %d (%d failed)\n", u.Requests, u.Failures)
		fmt.Fprintf(out, "Tokens:    %d in / %d out\n", u.InputTokens, u.OutputTokens)

		llmCfg, _ := llm.Discover(cfg.LLM)
		model := llmCfg.Model()
		if cost := llm.LookupCost(model); cost != nil {
			fmt.Fprintf(out, "Cost:      %s (priced as %s)\n", formatCost(cost.Cost(u.InputTokens, u.OutputTokens)), model)
		} else if model != "" {
			fmt.Fprintf(out, "Cost:      pricing unavailable for %s\n", model)
		}
		return nil
	},
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmCheckCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
