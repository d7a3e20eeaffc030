package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agentdash/internal/client"
)

func newThreadsCommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List and manage agent threads",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List threads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
				threads, err := c.ListThreads(ctx, page, limit)
				if err != nil {
					return err
				}
				printThreads(cmd.OutOrStdout(), threads)
				return nil
			})
		},
	}
	list.Flags().Int("page", 1, "page number")
	list.Flags().Int("limit", defaultListLimit, "threads per page")

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a thread and print its id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			icon, _ := cmd.Flags().GetString("icon")
			return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
				thread, err := c.CreateThread(ctx, client.CreateThreadRequest{
					Name:     strings.TrimSpace(args[0]),
					IconName: strings.TrimSpace(icon),
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), thread.ThreadID)
				return nil
			})
		},
	}
	create.Flags().String("icon", "", "icon name (bot, code, search, chat, brain, tool, file, globe)")

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a thread and its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
				if err := c.DeleteThread(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, create, remove)
	return cmd
}

// withClient builds a client, makes sure the daemon is up and runs fn under a
// bounded context.
func withClient(parent context.Context, wiring commandWiring, fn func(ctx context.Context, c commandClient) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()
	c, err := wiring.newClient()
	if err != nil {
		return err
	}
	if err := c.EnsureDaemon(ctx); err != nil {
		return err
	}
	return fn(ctx, c)
}
