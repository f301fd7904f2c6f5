package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

// queryFlags holds the query subcommand's own flags. Every lookup is
// against domain.Empty: contexts aren't flag-representable, so the
// CLI only ever queries the 0-cfa projection of a run (§6's query
// interface accepts an arbitrary Context; this thin surface does not
// expose that generality).
type queryFlags struct {
	kind  string
	scope string
	name  string
	file  string
	line  int
	col   int
	seqNo int
}

func newQueryCommand(a *app) *cobra.Command {
	f := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query points-to sets or resolved callees against a completed analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.runAnalysis()
			if err != nil {
				return err
			}
			switch f.kind {
			case "points-to":
				objs := result.PointsTo(f.scope, f.name, domain.Empty)
				for _, o := range objs {
					fmt.Fprintln(cmd.OutOrStdout(), o)
				}
			case "callees":
				site := constraint.CallSite{Pos: ir.Site{File: f.file, Line: f.line, Column: f.col}, SeqNo: f.seqNo}
				edges := result.ResolvedCallees(f.scope, domain.Empty, site)
				for _, e := range edges {
					fmt.Fprintln(cmd.OutOrStdout(), e)
				}
			default:
				return fmt.Errorf("pointerctl: unknown query kind %q (want points-to or callees)", f.kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&f.kind, "kind", "points-to", "query kind: points-to or callees")
	cmd.Flags().StringVar(&f.scope, "scope", "", "owning scope (module or function qualified name)")
	cmd.Flags().StringVar(&f.name, "name", "", "variable name (points-to)")
	cmd.Flags().StringVar(&f.file, "file", "", "call site file (callees)")
	cmd.Flags().IntVar(&f.line, "line", 0, "call site line (callees)")
	cmd.Flags().IntVar(&f.col, "column", 0, "call site column (callees)")
	cmd.Flags().IntVar(&f.seqNo, "seq", 0, "call site sequence number, for synthetic calls sharing a position (callees)")
	return cmd
}
