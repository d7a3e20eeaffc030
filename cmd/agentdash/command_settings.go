package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"agentdash/internal/client"
)

func newSettingsCommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and write system settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List public settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
					settings, err := c.ListSettings(ctx)
					if err != nil {
						return err
					}
					printSettings(cmd.OutOrStdout(), settings)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set <key> <json>",
			Short: "Upsert a setting (requires the admin token)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				value := json.RawMessage(args[1])
				if !json.Valid(value) {
					return fmt.Errorf("value for %s is not valid JSON: %s", args[0], args[1])
				}
				return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
					settings, err := c.UpdateSettings(ctx, []client.SettingEntry{{Key: args[0], Value: value}})
					if err != nil {
						return err
					}
					printSettings(cmd.OutOrStdout(), settings)
					return nil
				})
			},
		},
	)
	return cmd
}
