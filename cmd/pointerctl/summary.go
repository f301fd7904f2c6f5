package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCommand(a *app) *cobra.Command {
	var modulePath string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Emit an analysed module's exportable summary as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.runAnalysis()
			if err != nil {
				return err
			}
			if modulePath == "" {
				modulePath = a.modulePath
			}
			sum, err := result.ExportSummary(modulePath)
			if err != nil {
				return err
			}
			data, err := sum.Marshal()
			if err != nil {
				return fmt.Errorf("pointerctl: marshaling summary for %q: %w", modulePath, err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&modulePath, "for", "", "module path to summarize (defaults to --module)")
	return cmd
}
