/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/errs"
	"conferencehall/internal/usecase/cfp"
)

func newReviewsCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Rate proposals and inspect review aggregates",
	}
	cmd.PersistentFlags().String("user", "", "Acting user id")
	cmd.PersistentFlags().String("event", "", "Event slug")

	cmd.AddCommand(
		newReviewsRateCmd(svc),
		newReviewsShowCmd(svc),
		newReviewsLeaderboardCmd(svc),
	)
	return cmd
}

func newReviewsRateCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Rate a submitted proposal, replacing your previous rating",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			input := cfp.RatingInput{
				Feeling: stringFlag(cmd, "feeling"),
				Comment: stringFlag(cmd, "comment"),
			}
			if cmd.Flags().Changed("note") {
				note, _ := cmd.Flags().GetInt("note")
				input.Note = &note
			}

			result, err := svc.RateProposal(ctx, user, stringFlag(cmd, "event"), stringFlag(cmd, "proposal"), input)
			if err != nil {
				return errs.Wrap(err, "rate proposal")
			}
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"rated proposal: %s feeling=%s note=%s average=%s\n",
				result.Review.ProposalID,
				result.Review.Feeling,
				formatNote(result.Review.Note),
				formatAverage(result.AvgRateForSort),
			); err != nil {
				return errs.Wrap(err, "write rate output")
			}
			return nil
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	cmd.Flags().String("feeling", "NEUTRAL", "POSITIVE|NEUTRAL|NEGATIVE|NO_OPINION")
	cmd.Flags().Int("note", 0, "Note from 0 to 5")
	cmd.Flags().String("comment", "", "Review comment")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func newReviewsShowCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the review panel of a proposal",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			pr, err := svc.GetProposalReviews(ctx, user, stringFlag(cmd, "event"), stringFlag(cmd, "proposal"))
			if err != nil {
				return errs.Wrap(err, "get proposal reviews")
			}
			return renderProposalReviews(cmd.OutOrStdout(), pr)
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func newReviewsLeaderboardCmd(svc *cfp.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show per-reviewer activity for an event",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			stats, err := svc.ReviewerLeaderboard(ctx, user, stringFlag(cmd, "event"))
			if err != nil {
				return errs.Wrap(err, "reviewer leaderboard")
			}
			return renderLeaderboard(cmd.OutOrStdout(), stats)
		}),
	}
}

func init() {
	rootCmd.AddCommand(newReviewsCmd(nil))
}
