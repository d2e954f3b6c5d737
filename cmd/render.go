package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/domain/review"
	"conferencehall/internal/errs"
	"conferencehall/internal/usecase/cfp"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	statusColors = map[string]lipgloss.Color{
		string(proposal.OrganizerPending):            lipgloss.Color("245"),
		string(proposal.OrganizerAccepted):           lipgloss.Color("35"),
		string(proposal.OrganizerRejected):           lipgloss.Color("160"),
		string(proposal.OrganizerNotAnswered):        lipgloss.Color("214"),
		string(proposal.OrganizerConfirmed):          lipgloss.Color("42"),
		string(proposal.OrganizerDeclined):           lipgloss.Color("124"),
		string(proposal.SpeakerDraft):                lipgloss.Color("245"),
		string(proposal.SpeakerSubmitted):            lipgloss.Color("63"),
		string(proposal.SpeakerAcceptedByOrganizers): lipgloss.Color("35"),
		string(proposal.SpeakerRejectedByOrganizers): lipgloss.Color("160"),
		string(proposal.SpeakerConfirmedBySpeaker):   lipgloss.Color("42"),
		string(proposal.SpeakerDeclinedBySpeaker):    lipgloss.Color("124"),
	}
)

func statusBadge(status string) string {
	color, ok := statusColors[status]
	if !ok {
		color = lipgloss.Color("241")
	}
	return lipgloss.NewStyle().Foreground(color).Render(status)
}

func renderSpeakerProposal(w io.Writer, sp cfp.SpeakerProposal) error {
	p := sp.Proposal
	if _, err := fmt.Fprintln(w, titleStyle.Render(p.Title)); err != nil {
		return errs.Wrap(err, "write proposal title")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"id", p.ID},
		{"number", formatNumber(p.Number)},
		{"status", statusBadge(string(sp.Status))},
		{"level", string(p.Level)},
		{"languages", strings.Join(p.Languages, ",")},
		{"formats", strings.Join(p.FormatIDs, ",")},
		{"categories", strings.Join(p.CategoryIDs, ",")},
		{"speakers", strings.Join(speakerNames(p.Speakers), ", ")},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1]); err != nil {
			return errs.Wrap(err, "write proposal field")
		}
	}
	if err := tw.Flush(); err != nil {
		return errs.Wrap(err, "flush proposal output")
	}
	return nil
}

func renderSearchResult(w io.Writer, result cfp.SearchResult) error {
	stats := result.Statistics
	header := fmt.Sprintf("%d proposals, %d reviewed by you, page %d/%d",
		stats.Total, stats.Reviewed, result.Pagination.Current, result.Pagination.Total)
	if _, err := fmt.Fprintln(w, titleStyle.Render(header)); err != nil {
		return errs.Wrap(err, "write search header")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "#\ttitle\tstatus\tavg\t+/-\tyou\tspeakers"); err != nil {
		return errs.Wrap(err, "write search columns")
	}
	for _, item := range result.Results {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			formatNumber(item.Number),
			item.Title,
			statusBadge(string(item.Status)),
			formatSummaryAverage(item.Summary),
			formatSummaryFeelings(item.Summary),
			formatUserRating(item.You),
			formatSpeakers(item.Speakers),
		); err != nil {
			return errs.Wrap(err, "write search row")
		}
	}
	if err := tw.Flush(); err != nil {
		return errs.Wrap(err, "flush search output")
	}

	counts := make([]string, 0, len(proposal.OrganizerStatuses))
	for _, status := range proposal.OrganizerStatuses {
		counts = append(counts, fmt.Sprintf("%s=%d", status, stats.ByStatus[status]))
	}
	if _, err := fmt.Fprintln(w, dimStyle.Render(strings.Join(counts, " "))); err != nil {
		return errs.Wrap(err, "write search statistics")
	}
	return nil
}

func renderProposalReviews(w io.Writer, pr cfp.ProposalReviews) error {
	if pr.Summary != nil {
		line := fmt.Sprintf("average %s, %s", formatSummaryAverage(pr.Summary), formatSummaryFeelings(pr.Summary))
		if _, err := fmt.Fprintln(w, titleStyle.Render(line)); err != nil {
			return errs.Wrap(err, "write review summary")
		}
	} else {
		if _, err := fmt.Fprintln(w, dimStyle.Render("ratings are hidden for this event")); err != nil {
			return errs.Wrap(err, "write review summary")
		}
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if len(pr.Reviews) > 0 {
		if _, err := fmt.Fprintln(tw, "reviewer\tfeeling\tnote\tcomment"); err != nil {
			return errs.Wrap(err, "write review columns")
		}
	}
	for _, r := range pr.Reviews {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ReviewerID, r.Feeling, formatNote(r.Note), formatComment(r.Comment)); err != nil {
			return errs.Wrap(err, "write review row")
		}
	}
	if _, err := fmt.Fprintf(tw, "you\t%s\n", formatUserRating(pr.You)); err != nil {
		return errs.Wrap(err, "write own rating")
	}
	if err := tw.Flush(); err != nil {
		return errs.Wrap(err, "flush review output")
	}
	return nil
}

func renderLeaderboard(w io.Writer, stats []review.ReviewerStats) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "reviewer\treviews\taverage\tpositive\tnegative\tprogress"); err != nil {
		return errs.Wrap(err, "write leaderboard columns")
	}
	for _, s := range stats {
		if _, err := fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%.0f%%\n",
			s.ReviewerID,
			s.ReviewsCount,
			formatAverage(s.AverageNote),
			s.PositiveCount,
			s.NegativeCount,
			s.Progress*100,
		); err != nil {
			return errs.Wrap(err, "write leaderboard row")
		}
	}
	if err := tw.Flush(); err != nil {
		return errs.Wrap(err, "flush leaderboard output")
	}
	return nil
}

func formatNumber(n *int64) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(*n, 10)
}

func formatAverage(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return strconv.FormatFloat(*avg, 'f', 1, 64)
}

func formatNote(note *int) string {
	if note == nil {
		return "-"
	}
	return strconv.Itoa(*note)
}

func formatComment(comment *string) string {
	if comment == nil {
		return ""
	}
	return *comment
}

func formatSummaryAverage(s *review.Summary) string {
	if s == nil {
		return "-"
	}
	return formatAverage(s.Average)
}

func formatSummaryFeelings(s *review.Summary) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("+%d/-%d", s.Positives, s.Negatives)
}

func formatUserRating(r review.UserRating) string {
	if r.Feeling == nil {
		return "-"
	}
	if r.Note == nil {
		return string(*r.Feeling)
	}
	return fmt.Sprintf("%s %d", *r.Feeling, *r.Note)
}

func formatSpeakers(names []string) string {
	if names == nil {
		return dimStyle.Render("hidden")
	}
	return strings.Join(names, ", ")
}

func speakerNames(speakers []proposal.Speaker) []string {
	names := make([]string, 0, len(speakers))
	for _, s := range speakers {
		names = append(names, s.Name)
	}
	return names
}
