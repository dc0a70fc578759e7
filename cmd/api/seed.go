package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"portfolio/internal/bootstrap"
	"portfolio/internal/seed"
	"portfolio/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load content from a YAML file into empty collections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		data, err := seed.Load(f)
		if err != nil {
			return err
		}

		rt, err := bootstrap.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer rt.Close()

		result, err := seed.Apply(cmd.Context(), service.NewServices(rt.Backends, cfg, logger), data, logger)
		if err != nil {
			return err
		}
		for name, n := range result {
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %d created\n", name, n)
		}
		return nil
	},
}
