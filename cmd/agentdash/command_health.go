package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func newHealthCommand(wiring commandWiring) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Print daemon health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, cancel := context.WithTimeout(parent, commandTimeout)
			defer cancel()
			c, err := wiring.newClient()
			if err != nil {
				return err
			}
			health, err := c.Health(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status: %s\n", health.Status)
			fmt.Fprintf(out, "instance: %s\n", health.InstanceID)
			if health.Version != "" {
				fmt.Fprintf(out, "version: %s\n", health.Version)
			}
			for _, name := range slices.Sorted(maps.Keys(health.Checks)) {
				fmt.Fprintf(out, "check %s: %s\n", name, health.Checks[name])
			}
			if !health.OK() {
				return fmt.Errorf("daemon is %s", health.Status)
			}
			return nil
		},
	}
}
