package main

import (
	"fmt"

	"github.com/pensioncalc/corpus-engine/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [file]",
		Short: "Write an example configuration (stdout when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			cfg := parser.CreateExampleConfiguration()
			if len(args) == 1 {
				if err := parser.SaveConfiguration(cfg, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
				return nil
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
