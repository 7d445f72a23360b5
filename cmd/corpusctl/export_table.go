package main

import (
	"fmt"
	"os"

	"github.com/pensioncalc/corpus-engine/internal/calculation"
	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type exportTableOptions struct {
	fitment   []string
	allowance string
	raise     string
	out       string
}

func newExportTableCmd(global *globalOptions) *cobra.Command {
	opts := &exportTableOptions{}
	cmd := &cobra.Command{
		Use:   "export-table",
		Short: "Write a derived pay scale table as CSV",
		Long: "Derive the pay scale of one or more future pay commissions from the base pay matrix and write it as CSV.\n" +
			"Give the fitment factors directly (--fitment 2.57 --fitment 2.0 chains two commissions), or derive a single\n" +
			"factor from the allowance in force before the revision and the real raise (--allowance 58 --raise 15).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExportTable(cmd, global, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.fitment, "fitment", nil, "Fitment factor of each successive commission")
	cmd.Flags().StringVar(&opts.allowance, "allowance", "", "Dearness allowance percent before the revision")
	cmd.Flags().StringVar(&opts.raise, "raise", "15", "Real raise percent used with --allowance")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func (o *exportTableOptions) factors() ([]decimal.Decimal, error) {
	if len(o.fitment) > 0 && o.allowance != "" {
		return nil, fmt.Errorf("use either --fitment or --allowance, not both")
	}
	if o.allowance != "" {
		allowance, err := decimal.NewFromString(o.allowance)
		if err != nil {
			return nil, fmt.Errorf("invalid --allowance: %w", err)
		}
		raise, err := decimal.NewFromString(o.raise)
		if err != nil {
			return nil, fmt.Errorf("invalid --raise: %w", err)
		}
		return []decimal.Decimal{calculation.FitmentFactor(allowance, raise)}, nil
	}
	if len(o.fitment) == 0 {
		return nil, fmt.Errorf("one of --fitment or --allowance is required")
	}
	factors := make([]decimal.Decimal, len(o.fitment))
	for i, s := range o.fitment {
		ff, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --fitment %q: %w", s, err)
		}
		factors[i] = ff
	}
	return factors, nil
}

func runExportTable(cmd *cobra.Command, global *globalOptions, opts *exportTableOptions) error {
	factors, err := opts.factors()
	if err != nil {
		return err
	}
	logger := global.logger(cmd.ErrOrStderr())

	manager := calculation.NewReferenceDataManager(global.dataDir)
	manager.Logger = logger
	data, err := manager.LoadAllData()
	if err != nil {
		return err
	}

	factory := calculation.NewPayCommissionFactory()
	factory.Logger = logger
	table := data.BaseTable
	for _, ff := range factors {
		if table, err = factory.Derive(table, ff); err != nil {
			return err
		}
	}

	if opts.out == "" {
		if err := calculation.WritePayScaleTable(cmd.OutOrStdout(), table); err != nil {
			return fmt.Errorf("writing %s: %w", table.ID(), err)
		}
		return nil
	}
	if err := writeTableFile(opts.out, table); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s written to %s\n", table.ID(), opts.out)
	return nil
}

// writeTableFile writes table as CSV to path and reports the close error.
func writeTableFile(path string, table *domain.PayScaleTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := calculation.WritePayScaleTable(f, table); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", table.ID(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}
