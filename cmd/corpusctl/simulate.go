package main

import (
	"fmt"
	"os"

	"github.com/pensioncalc/corpus-engine/internal/calculation"
	"github.com/pensioncalc/corpus-engine/internal/config"
	"github.com/pensioncalc/corpus-engine/internal/domain"
	"github.com/pensioncalc/corpus-engine/internal/output"
	"github.com/spf13/cobra"
)

type simulateOptions struct {
	format     string
	outputDir  string
	strategies []string
	schemes    []string
}

func newSimulateCmd(global *globalOptions) *cobra.Command {
	opts := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate <config.yaml>",
		Short: "Run every scheme and strategy in a configuration and print the comparison",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd, global, opts, args[0])
		},
	}

	defaultFormat := os.Getenv(envFormat)
	if defaultFormat == "" {
		defaultFormat = "console"
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", defaultFormat, "Report format (console, console-verbose, csv, csv-detailed, html, json, all)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	cmd.Flags().StringSliceVar(&opts.strategies, "strategy", nil, "Override the configured investment strategies")
	cmd.Flags().StringSliceVar(&opts.schemes, "scheme", nil, "Override the configured pension schemes")
	return cmd
}

func runSimulate(cmd *cobra.Command, global *globalOptions, opts *simulateOptions, path string) error {
	logger := global.logger(cmd.ErrOrStderr())

	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return err
	}
	if err := applyOverrides(cfg, opts); err != nil {
		return err
	}

	manager := calculation.NewReferenceDataManagerFromSettings(cfg.Data)
	if global.dataDir != "" {
		manager.DataPath = global.dataDir
	}
	manager.Logger = logger
	data, err := manager.LoadAllData()
	if err != nil {
		return err
	}

	engine := calculation.NewCalculationEngine(data)
	engine.SetLogger(logger)
	results, err := engine.RunComparison(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if opts.outputDir == "" {
		if output.NormalizeFormatName(opts.format) == "all" {
			return fmt.Errorf("format \"all\" requires --output-dir")
		}
		return output.Render(cmd.OutOrStdout(), results, opts.format)
	}
	paths, err := output.GenerateReport(results, opts.format, opts.outputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", p)
	}
	return nil
}

func applyOverrides(cfg *domain.Configuration, opts *simulateOptions) error {
	if len(opts.strategies) > 0 {
		cfg.Investment.Strategies = cfg.Investment.Strategies[:0]
		for _, name := range opts.strategies {
			s, err := domain.ParseStrategy(name)
			if err != nil {
				return err
			}
			cfg.Investment.Strategies = append(cfg.Investment.Strategies, s)
		}
	}
	if len(opts.schemes) > 0 {
		configured := make(map[domain.Scheme]domain.SchemeSettings, len(cfg.Schemes))
		for _, s := range cfg.Schemes {
			configured[s.Scheme] = s
		}
		cfg.Schemes = nil
		for _, name := range opts.schemes {
			scheme, err := domain.ParseScheme(name)
			if err != nil {
				return err
			}
			settings, ok := configured[scheme]
			if !ok {
				settings = domain.SchemeSettings{Scheme: scheme}
			}
			cfg.Schemes = append(cfg.Schemes, settings)
		}
	}
	return nil
}
