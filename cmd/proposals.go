/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"conferencehall/internal/bootstrap/logging"
	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/domain/search"
	"conferencehall/internal/errs"
	"conferencehall/internal/usecase/cfp"
)

func newProposalsCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposals",
		Short: "Draft, submit, search and deliberate proposals",
	}
	cmd.PersistentFlags().String("user", "", "Acting user id")
	cmd.PersistentFlags().String("event", "", "Event slug")

	cmd.AddCommand(
		newProposalsDraftCmd(svc),
		newProposalsEditCmd(svc),
		newProposalsSubmitCmd(svc),
		newProposalsDeleteCmd(svc),
		newProposalsShowCmd(svc),
		newProposalsSearchCmd(svc),
		newProposalsDeliberateCmd(svc),
		newProposalsPublishCmd(svc),
		newProposalsConfirmCmd(svc),
	)
	return cmd
}

func addProposalInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Proposal title")
	cmd.Flags().String("abstract", "", "Proposal abstract")
	cmd.Flags().String("references", "", "Speaker references")
	cmd.Flags().String("level", "", "BEGINNER|INTERMEDIATE|ADVANCED")
	cmd.Flags().StringSlice("language", nil, "Talk language, repeatable")
	cmd.Flags().StringSlice("format", nil, "Format id, repeatable")
	cmd.Flags().StringSlice("category", nil, "Category id, repeatable")
	cmd.Flags().String("speaker-name", "", "Display name on the speaker list")
	cmd.Flags().String("speaker-company", "", "Company on the speaker list")
	_ = cmd.MarkFlagRequired("title")
}

func proposalInputFromFlags(cmd *cobra.Command) cfp.ProposalInput {
	languages, _ := cmd.Flags().GetStringSlice("language")
	formats, _ := cmd.Flags().GetStringSlice("format")
	categories, _ := cmd.Flags().GetStringSlice("category")
	return cfp.ProposalInput{
		Title:          stringFlag(cmd, "title"),
		Abstract:       stringFlag(cmd, "abstract"),
		References:     stringFlag(cmd, "references"),
		Level:          stringFlag(cmd, "level"),
		Languages:      languages,
		FormatIDs:      formats,
		CategoryIDs:    categories,
		SpeakerName:    stringFlag(cmd, "speaker-name"),
		SpeakerCompany: stringFlag(cmd, "speaker-company"),
	}
}

func newProposalsDraftCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Create a draft proposal while the CFP is open",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			p, err := svc.CreateDraft(ctx, user, stringFlag(cmd, "event"), proposalInputFromFlags(cmd))
			if err != nil {
				return errs.Wrap(err, "create draft")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created draft: %s\n", p.ID); err != nil {
				return errs.Wrap(err, "write draft output")
			}
			return nil
		}),
	}
	addProposalInputFlags(cmd)
	return cmd
}

func newProposalsEditCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace the content of one of your proposals",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			p, err := svc.EditProposal(ctx, user, stringFlag(cmd, "proposal"), proposalInputFromFlags(cmd))
			if err != nil {
				return errs.Wrap(err, "edit proposal")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "updated proposal: %s\n", p.ID); err != nil {
				return errs.Wrap(err, "write edit output")
			}
			return nil
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	_ = cmd.MarkFlagRequired("proposal")
	addProposalInputFlags(cmd)
	return cmd
}

func newProposalsSubmitCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a draft and assign its proposal number",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			p, err := svc.SubmitProposal(ctx, user, stringFlag(cmd, "event"), stringFlag(cmd, "proposal"))
			if err != nil {
				return errs.Wrap(err, "submit proposal")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "submitted proposal: %s number=%s\n", p.ID, formatNumber(p.Number)); err != nil {
				return errs.Wrap(err, "write submit output")
			}
			return nil
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func newProposalsDeleteCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete one of your proposals",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			proposalID := stringFlag(cmd, "proposal")
			if err := svc.DeleteProposal(ctx, user, proposalID); err != nil {
				return errs.Wrap(err, "delete proposal")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted proposal: %s\n", proposalID); err != nil {
				return errs.Wrap(err, "write delete output")
			}
			return nil
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func newProposalsShowCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one of your proposals with its speaker status",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			sp, err := svc.GetSpeakerProposal(ctx, user, stringFlag(cmd, "proposal"))
			if err != nil {
				return errs.Wrap(err, "get proposal")
			}
			return renderSpeakerProposal(cmd.OutOrStdout(), sp)
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func newProposalsSearchCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search submitted proposals of an event as an organizer",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			page, _ := cmd.Flags().GetInt("page")
			result, err := svc.SearchProposals(ctx, user, stringFlag(cmd, "event"), searchFiltersFromFlags(cmd), page)
			if err != nil {
				return errs.Wrap(err, "search proposals")
			}
			return renderSearchResult(cmd.OutOrStdout(), result)
		}),
	}
	cmd.Flags().String("query", "", "Match titles, and speaker names when the event shows speakers")
	cmd.Flags().StringSlice("status", nil, "pending|accepted|rejected|not-answered|confirmed|declined, repeatable")
	cmd.Flags().StringSlice("format", nil, "Format id, repeatable")
	cmd.Flags().StringSlice("category", nil, "Category id, repeatable")
	cmd.Flags().String("ratings", "", "rated-by-me|not-rated-by-me")
	cmd.Flags().String("email-accepted", "", "sent|not-sent")
	cmd.Flags().String("email-rejected", "", "sent|not-sent")
	cmd.Flags().String("sort", string(search.SortNewest), "newest|oldest|highest|lowest")
	cmd.Flags().Int("page", 1, "Page number, clamped to the last page")
	return cmd
}

func searchFiltersFromFlags(cmd *cobra.Command) search.Filters {
	statuses, _ := cmd.Flags().GetStringSlice("status")
	formats, _ := cmd.Flags().GetStringSlice("format")
	categories, _ := cmd.Flags().GetStringSlice("category")

	filters := search.Filters{
		Query:               stringFlag(cmd, "query"),
		FormatIDs:           formats,
		CategoryIDs:         categories,
		Ratings:             search.RatingFilter(stringFlag(cmd, "ratings")),
		EmailAcceptedStatus: search.CampaignFilter(stringFlag(cmd, "email-accepted")),
		EmailRejectedStatus: search.CampaignFilter(stringFlag(cmd, "email-rejected")),
		Sort:                search.Sort(stringFlag(cmd, "sort")),
	}
	for _, status := range statuses {
		filters.Statuses = append(filters.Statuses, proposal.OrganizerStatus(status))
	}
	return filters
}

func newProposalsDeliberateCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deliberate",
		Short: "Set the deliberation status of proposals as an organizer",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			ids, _ := cmd.Flags().GetStringSlice("proposal")
			status := stringFlag(cmd, "status")
			changed, err := svc.Deliberate(ctx, user, stringFlag(cmd, "event"), ids, status)
			if err != nil {
				return errs.Wrap(err, "deliberate proposals")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "deliberated proposals: status=%s changed=%d\n", status, changed); err != nil {
				return errs.Wrap(err, "write deliberate output")
			}
			return nil
		}),
	}
	cmd.Flags().StringSlice("proposal", nil, "Proposal id, repeatable")
	cmd.Flags().String("status", "", "PENDING|ACCEPTED|REJECTED")
	_ = cmd.MarkFlagRequired("proposal")
	_ = cmd.MarkFlagRequired("status")
	return cmd
}

func newProposalsPublishCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the deliberation result of a proposal",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			p, err := svc.Publish(ctx, user, stringFlag(cmd, "event"), stringFlag(cmd, "proposal"))
			if err != nil {
				return errs.Wrap(err, "publish proposal")
			}
			status := proposal.DeriveOrganizerStatus(p)
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "published proposal: %s status=%s\n", p.ID, status); err != nil {
				return errs.Wrap(err, "write publish output")
			}
			return nil
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func newProposalsConfirmCmd(svc *cfp.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm or decline an accepted proposal as its speaker",
		RunE: runWithService(svc, func(cmd *cobra.Command, svc *cfp.Service) error {
			ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
			user, err := userFlag(cmd)
			if err != nil {
				return err
			}

			decline, _ := cmd.Flags().GetBool("decline")
			sp, err := svc.Confirm(ctx, user, stringFlag(cmd, "proposal"), !decline)
			if err != nil {
				return errs.Wrap(err, "confirm proposal")
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "proposal %s: %s\n", sp.Proposal.ID, statusBadge(string(sp.Status))); err != nil {
				return errs.Wrap(err, "write confirm output")
			}
			return nil
		}),
	}
	cmd.Flags().String("proposal", "", "Proposal id")
	cmd.Flags().Bool("decline", false, "Decline instead of confirming")
	_ = cmd.MarkFlagRequired("proposal")
	return cmd
}

func init() {
	rootCmd.AddCommand(newProposalsCmd(nil))
}
