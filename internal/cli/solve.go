package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/penalty"
)

func (a *app) solveCmd() *cobra.Command {
	var (
		req    penalty.SolveRequest
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve one problem and print the iteration report",
		Example: `  penalty solve --objective "x**2 - y**2 + z**2" --constraint "x - 1" --tolerance 0.01
  penalty solve -f "-x**2 - y**2 - z**2" -g "x + y + z - 3" -t 1/100 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cleanup, err := a.newService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			resp, err := svc.Solve(ctx, req)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if encErr := enc.Encode(resp); encErr != nil {
					return encErr
				}
				return err
			}
			fmt.Fprint(out, resp.Report)
			return err
		},
	}
	cmd.Flags().StringVarP(&req.Objective, "objective", "f", "", "objective function f(x, y, z)")
	cmd.Flags().StringVarP(&req.Constraint, "constraint", "g", "", "constraint g(x, y, z), read as g = 0")
	cmd.Flags().StringVarP(&req.Tolerance, "tolerance", "t", "", "tolerance on u*g^2, e.g. 0.01 or 1/100")
	cmd.Flags().IntVar(&req.MaxRounds, "max-rounds", 0, "maximum penalty rounds (default $PENALTY_MAX_ROUNDS)")
	cmd.Flags().BoolVar(&req.StopOnSaddle, "stop-on-saddle", false, "stop after the first round when f has a saddle")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	_ = cmd.MarkFlagRequired("objective")
	_ = cmd.MarkFlagRequired("constraint")
	_ = cmd.MarkFlagRequired("tolerance")
	return cmd
}
