package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/penalty"
)

const banner = `The following application uses the penalty method to approximate a nonlinear program
The program takes in a second degree objective function in terms of variables x,y,z
It also takes in a single constraint of the form g(x,y,z)-b which is assumed to equal 0
Finally, it takes a tolerance level for the approximation
--------------------------------------------------------------
It prints out a calculated extreme point within a specified tolerance
It also prints out whether the point is a max or a min
`

func (a *app) promptCmd() *cobra.Command {
	var stopOnSaddle bool
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Read the problem interactively and print progress round by round",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())
			fmt.Fprint(out, banner)

			var answers [3]string
			for i, q := range []string{"Input Objective Function: ", "Input Constraint: 0=", "Input tolerance: "} {
				fmt.Fprint(out, q)
				line, err := in.ReadString('\n')
				if err != nil && (err != io.EOF || line == "") {
					return fmt.Errorf("read input: %w", err)
				}
				answers[i] = strings.TrimSpace(line)
			}

			p, err := penalty.NewProblem(answers[0], answers[1], answers[2],
				penalty.WithMaxRounds(a.cfg.MaxRounds),
				penalty.WithStopOnSaddle(stopOnSaddle),
				penalty.WithLogger(a.logger),
				penalty.WithObserver(penalty.ConsoleObserver{W: out}))
			if err != nil {
				return err
			}
			if _, err := p.Solve(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, "DONE")
			return nil
		},
	}
	cmd.Flags().BoolVar(&stopOnSaddle, "stop-on-saddle", true, "stop after the first round when f has a saddle")
	return cmd
}
