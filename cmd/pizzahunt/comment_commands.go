package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pizzahunt/internal/api"
)

func newCommentCommand(ctx *commandContext) *cobra.Command {
	commentCmd := &cobra.Command{
		Use:   "comment",
		Short: "Add or remove comments on a pizza",
	}
	commentCmd.AddCommand(newCommentAddCommand(ctx))
	commentCmd.AddCommand(newCommentRemoveCommand(ctx))
	return commentCmd
}

func newCommentAddCommand(ctx *commandContext) *cobra.Command {
	var req api.CommentRequest
	cmd := &cobra.Command{
		Use:   "add <pizza-id>",
		Short: "Comment on a pizza",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			pizza, err := client.AddComment(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment added; %s now has %d comment(s)\n", pizza.PizzaName, len(pizza.Comments))
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.WrittenBy, "by", "b", "", "Comment author")
	cmd.Flags().StringVarP(&req.CommentBody, "body", "m", "", "Comment text")
	return cmd
}

func newCommentRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <pizza-id> <comment-id>",
		Short: "Delete a comment and detach it from its pizza",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			pizza, err := client.RemoveComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Comment removed; %s now has %d comment(s)\n", pizza.PizzaName, len(pizza.Comments))
			return nil
		},
	}
}

func newReplyCommand(ctx *commandContext) *cobra.Command {
	replyCmd := &cobra.Command{
		Use:   "reply",
		Short: "Add or remove replies on a comment",
	}
	replyCmd.AddCommand(newReplyAddCommand(ctx))
	replyCmd.AddCommand(newReplyRemoveCommand(ctx))
	return replyCmd
}

func newReplyAddCommand(ctx *commandContext) *cobra.Command {
	var req api.ReplyRequest
	cmd := &cobra.Command{
		Use:   "add <pizza-id> <comment-id>",
		Short: "Reply to a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			comment, err := client.AddReply(cmd.Context(), args[0], args[1], req)
			if err != nil {
				return err
			}
			if len(comment.Replies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Reply added")
				return nil
			}
			reply := comment.Replies[len(comment.Replies)-1]
			fmt.Fprintf(cmd.OutOrStdout(), "Reply %s added; comment has %d reply(ies)\n", reply.ReplyID, comment.ReplyCount)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.WrittenBy, "by", "b", "", "Reply author")
	cmd.Flags().StringVarP(&req.ReplyBody, "body", "m", "", "Reply text")
	return cmd
}

func newReplyRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <pizza-id> <comment-id> <reply-id>",
		Short: "Remove a reply from a comment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			comment, err := client.RemoveReply(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reply removed; comment has %d reply(ies)\n", comment.ReplyCount)
			return nil
		},
	}
}
