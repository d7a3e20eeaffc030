package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"agentdash/internal/client"
)

func newFeedbackCommand(wiring commandWiring) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Rate conversations and list ratings",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List feedback, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, _ := cmd.Flags().GetString("thread")
			messageID, _ := cmd.Flags().GetString("message")
			limit, _ := cmd.Flags().GetInt("limit")
			return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
				rows, err := c.ListFeedback(ctx, client.FeedbackQuery{ThreadID: threadID, MessageID: messageID, Limit: limit})
				if err != nil {
					return err
				}
				printFeedback(cmd.OutOrStdout(), rows)
				return nil
			})
		},
	}
	list.Flags().String("thread", "", "only feedback on this thread")
	list.Flags().String("message", "", "only feedback on this message")
	list.Flags().Int("limit", defaultListLimit, "maximum rows")

	rate := &cobra.Command{
		Use:   "rate <rating>",
		Short: "Rate a thread or message from 0 to 5",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("rating must be a number: %s", args[0])
			}
			threadID, _ := cmd.Flags().GetString("thread")
			messageID, _ := cmd.Flags().GetString("message")
			if threadID == "" && messageID == "" {
				return fmt.Errorf("--thread or --message is required")
			}
			text, _ := cmd.Flags().GetString("text")
			req := client.SubmitFeedbackRequest{
				Rating:       rating,
				FeedbackText: text,
				ThreadID:     threadID,
				MessageID:    messageID,
			}
			if cmd.Flags().Changed("help-improve") {
				helpImprove, _ := cmd.Flags().GetBool("help-improve")
				req.HelpImprove = &helpImprove
			}
			return withClient(cmd.Context(), wiring, func(ctx context.Context, c commandClient) error {
				saved, err := c.SubmitFeedback(ctx, req)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), saved.FeedbackID)
				return nil
			})
		},
	}
	rate.Flags().String("thread", "", "thread to rate")
	rate.Flags().String("message", "", "message to rate")
	rate.Flags().String("text", "", "optional comment")
	rate.Flags().Bool("help-improve", true, "allow the rating to be used for improvements")

	cmd.AddCommand(list, rate)
	return cmd
}
