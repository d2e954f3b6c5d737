package repository

import (
	"strings"

	"gorm.io/gorm"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/domain/search"
	"conferencehall/internal/ports"
)

type predicate struct {
	clause string
	args   []any
}

// proposalSearchPlan holds the WHERE predicates shared by the count,
// statistics, and page queries, plus the page ordering.
type proposalSearchPlan struct {
	predicates []predicate
	order      string
}

const (
	speakerNameMatchSQL = `EXISTS (SELECT 1 FROM proposal_speakers ps JOIN event_speakers es ON es.id = ps.speaker_id
WHERE ps.proposal_id = proposals.id AND es.search_name LIKE ? ESCAPE '!')`
	formatMatchSQL   = `EXISTS (SELECT 1 FROM proposal_formats pf WHERE pf.proposal_id = proposals.id AND pf.format_id IN ?)`
	categoryMatchSQL = `EXISTS (SELECT 1 FROM proposal_categories pc WHERE pc.proposal_id = proposals.id AND pc.category_id IN ?)`
	ratedByUserSQL   = `EXISTS (SELECT 1 FROM reviews r WHERE r.proposal_id = proposals.id AND r.user_id = ?)`
)

func buildProposalSearchPlan(q ports.ProposalSearchQuery) proposalSearchPlan {
	f := q.Filters
	plan := proposalSearchPlan{
		predicates: []predicate{
			{clause: "proposals.event_id = ?", args: []any{q.EventID}},
			{clause: "proposals.is_draft = ?", args: []any{false}},
		},
		order: orderClause(f.Sort),
	}

	if f.Query != "" {
		pattern := likePattern(f.Query)
		if q.SearchSpeakers {
			plan.add("(proposals.search_title LIKE ? ESCAPE '!' OR "+speakerNameMatchSQL+")", pattern, pattern)
		} else {
			plan.add("proposals.search_title LIKE ? ESCAPE '!'", pattern)
		}
	}

	if len(f.Statuses) > 0 {
		clauses := make([]string, 0, len(f.Statuses))
		for _, status := range f.Statuses {
			clauses = append(clauses, "("+organizerStatusSQL(status)+")")
		}
		plan.add("(" + strings.Join(clauses, " OR ") + ")")
	}

	if len(f.FormatIDs) > 0 {
		plan.add(formatMatchSQL, f.FormatIDs)
	}
	if len(f.CategoryIDs) > 0 {
		plan.add(categoryMatchSQL, f.CategoryIDs)
	}

	switch f.Ratings {
	case search.RatingRatedByMe:
		plan.add(ratedByUserSQL, q.CallerID)
	case search.RatingNotRatedBy:
		plan.add("NOT "+ratedByUserSQL, q.CallerID)
	}

	if clause := campaignSQL(proposal.DeliberationAccepted, f.EmailAcceptedStatus); clause != "" {
		plan.add(clause)
	}
	if clause := campaignSQL(proposal.DeliberationRejected, f.EmailRejectedStatus); clause != "" {
		plan.add(clause)
	}

	return plan
}

func (p *proposalSearchPlan) add(clause string, args ...any) {
	p.predicates = append(p.predicates, predicate{clause: clause, args: args})
}

func (p proposalSearchPlan) apply(db *gorm.DB) *gorm.DB {
	for _, pred := range p.predicates {
		db = db.Where(pred.clause, pred.args...)
	}
	return db
}

// organizerStatusSQL mirrors proposal.DeriveOrganizerStatus as a predicate.
// Values are closed enums, so they are inlined.
func organizerStatusSQL(status proposal.OrganizerStatus) string {
	const unanswered = "proposals.confirmation_status NOT IN ('CONFIRMED', 'DECLINED')"
	switch status {
	case proposal.OrganizerConfirmed:
		return "proposals.confirmation_status = 'CONFIRMED'"
	case proposal.OrganizerDeclined:
		return "proposals.confirmation_status = 'DECLINED'"
	case proposal.OrganizerNotAnswered:
		return unanswered + " AND proposals.deliberation_status = 'ACCEPTED' AND proposals.publication_status = 'PUBLISHED'"
	case proposal.OrganizerAccepted:
		return unanswered + " AND proposals.deliberation_status = 'ACCEPTED' AND proposals.publication_status <> 'PUBLISHED'"
	case proposal.OrganizerRejected:
		return unanswered + " AND proposals.deliberation_status = 'REJECTED'"
	default:
		return unanswered + " AND proposals.deliberation_status NOT IN ('ACCEPTED', 'REJECTED')"
	}
}

func campaignSQL(decision proposal.DeliberationStatus, filter search.CampaignFilter) string {
	switch filter {
	case search.CampaignSent:
		return "proposals.deliberation_status = '" + string(decision) + "' AND proposals.publication_status = 'PUBLISHED'"
	case search.CampaignNotSent:
		return "proposals.deliberation_status = '" + string(decision) + "' AND proposals.publication_status <> 'PUBLISHED'"
	}
	return ""
}

// Every ordering ends on the primary key so equal sort values keep a fixed
// order across page requests.
func orderClause(sort search.Sort) string {
	switch sort {
	case search.SortOldest:
		return "proposals.created_at ASC, proposals.id ASC"
	case search.SortHighest:
		return "proposals.avg_rate_for_sort IS NULL ASC, proposals.avg_rate_for_sort DESC, proposals.created_at DESC, proposals.id ASC"
	case search.SortLowest:
		return "proposals.avg_rate_for_sort IS NULL ASC, proposals.avg_rate_for_sort ASC, proposals.created_at DESC, proposals.id ASC"
	default:
		return "proposals.created_at DESC, proposals.id ASC"
	}
}
