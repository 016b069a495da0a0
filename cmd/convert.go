package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/studyzone/internal/bank"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in.csv> <out.json>",
	Short: "Convert a CSV question sheet into a JSON bank",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer in.Close()

		out, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		n, err := bank.Convert(in, out)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("convert %s: %w", args[0], err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Converted %d questions to %s\n", n, args[1])
		return nil
	},
}
