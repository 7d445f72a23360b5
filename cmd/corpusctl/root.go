package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/pensioncalc/corpus-engine/internal/calculation"
	"github.com/spf13/cobra"
)

const (
	envDataDir = "CORPUSCTL_DATA_DIR"
	envFormat  = "CORPUSCTL_FORMAT"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	debug   bool
	dataDir string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "corpusctl",
		Short: "NPS / UPS pension corpus simulator",
		Long: "corpusctl projects a central government employee's career under the pay matrix, " +
			"the dearness allowance and the contributions it drives, and compares the retirement " +
			"corpus and pension under the Unified and National Pension Schemes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.dataDir, "data-dir", os.Getenv(envDataDir), "Directory with pay scale and allowance CSV files (default: embedded data)")

	root.AddCommand(
		newSimulateCmd(opts),
		newExampleCmd(),
		newExportTableCmd(opts),
		newStrategiesCmd(),
	)
	return root
}

// logger builds the slog-backed calculation logger writing to w.
func (o *globalOptions) logger(w io.Writer) calculation.Logger {
	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	return calculation.NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
