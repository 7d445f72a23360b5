package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pensioncalc/corpus-engine/internal/calculation"
	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/spf13/cobra"
)

func newStrategiesCmd() *cobra.Command {
	var step int
	cmd := &cobra.Command{
		Use:   "strategies [strategy...]",
		Short: "Print the asset allocation glide path of each investment strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			strategies := domain.Strategies()
			if len(args) > 0 {
				strategies = strategies[:0:0]
				for _, name := range args {
					s, err := domain.ParseStrategy(name)
					if err != nil {
						return err
					}
					strategies = append(strategies, s)
				}
			}
			if step < 1 {
				return fmt.Errorf("--step must be at least 1")
			}

			schedule := calculation.InvestmentAllocationSchedule{}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			for _, s := range strategies {
				path, err := schedule.Path(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t\t\t\t\n", s)
				fmt.Fprintln(w, "age\tgrowth\tmedium\tsafe\t")
				for age := calculation.MinAllocationAge; age <= calculation.MaxAllocationAge; age += step {
					weights := path[age]
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\n", age, weights.Growth, weights.Medium, weights.Safe)
				}
				fmt.Fprintln(w, "\t\t\t\t")
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&step, "step", 5, "Age interval between rows")
	return cmd
}
