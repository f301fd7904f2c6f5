package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Run an analysis and print global statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.runAnalysis()
			if err != nil {
				return err
			}
			stats := result.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "contexts:  %d\n", stats.ContextCount)
			fmt.Fprintf(cmd.OutOrStdout(), "variables: %d\n", stats.VariableCount)
			fmt.Fprintf(cmd.OutOrStdout(), "objects:   %d\n", stats.ObjectCount)
			total := 0
			for cat, n := range stats.UnknownCounts {
				if n > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "unknown[%s]: %d\n", cat, n)
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unknowns:  %d\n", total)
			return nil
		},
	}
}
