package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the solve history schema in PostgreSQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, done, err := a.historyStore(ctx)
			if err != nil {
				return err
			}
			defer done()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migration complete.")
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent solve runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, done, err := a.historyStore(ctx)
			if err != nil {
				return err
			}
			defer done()

			runs, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Recent runs:")
			if len(runs) == 0 {
				fmt.Fprintln(out, "  (none)")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "  %s  %s  status=%s  class=%s  u=%s\n",
					r.ID, r.CreatedAt.Format(time.RFC3339), r.Status, r.Classification, r.Weight)
				fmt.Fprintf(out, "      f = %s, 0 = %s, tol = %s\n", r.Objective, r.Constraint, r.Tolerance)
				if r.Error != "" {
					fmt.Fprintf(out, "      error: %s\n", r.Error)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}
