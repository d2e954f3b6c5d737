package search

import (
	"fmt"
	"sort"
	"strings"

	"conferencehall/internal/domain/proposal"
	"conferencehall/internal/errs"
)

type RatingFilter string

const (
	RatingAny        RatingFilter = ""
	RatingRatedByMe  RatingFilter = "rated-by-me"
	RatingNotRatedBy RatingFilter = "not-rated-by-me"
)

// CampaignFilter narrows on whether the result email campaign was sent,
// which is whether the decision is published.
type CampaignFilter string

const (
	CampaignAny     CampaignFilter = ""
	CampaignSent    CampaignFilter = "sent"
	CampaignNotSent CampaignFilter = "not-sent"
)

type Sort string

const (
	SortNewest  Sort = "newest"
	SortOldest  Sort = "oldest"
	SortHighest Sort = "highest"
	SortLowest  Sort = "lowest"
)

var ErrInvalidFilter = fmt.Errorf("%w: invalid search filter", errs.ErrInvalidArgument)

// Filters is the user-supplied filter set. Fields compose with AND; values
// inside one multi-select field compose with OR.
type Filters struct {
	Query               string
	Statuses            []proposal.OrganizerStatus
	FormatIDs           []string
	CategoryIDs         []string
	Ratings             RatingFilter
	EmailAcceptedStatus CampaignFilter
	EmailRejectedStatus CampaignFilter
	Sort                Sort
}

// Normalize trims and deduplicates values and validates the closed enums.
func (f Filters) Normalize() (Filters, error) {
	out := Filters{
		Query:       strings.TrimSpace(f.Query),
		FormatIDs:   dedupe(f.FormatIDs),
		CategoryIDs: dedupe(f.CategoryIDs),
		Sort:        f.Sort,
	}

	seen := make(map[proposal.OrganizerStatus]struct{}, len(f.Statuses))
	for _, raw := range f.Statuses {
		status, ok := proposal.ParseOrganizerStatus(strings.TrimSpace(string(raw)))
		if !ok {
			return Filters{}, fmt.Errorf("%w: status %q", ErrInvalidFilter, raw)
		}
		if _, dup := seen[status]; dup {
			continue
		}
		seen[status] = struct{}{}
		out.Statuses = append(out.Statuses, status)
	}
	sort.Slice(out.Statuses, func(i, j int) bool { return out.Statuses[i] < out.Statuses[j] })

	switch f.Ratings {
	case RatingAny, RatingRatedByMe, RatingNotRatedBy:
		out.Ratings = f.Ratings
	default:
		return Filters{}, fmt.Errorf("%w: ratings %q", ErrInvalidFilter, f.Ratings)
	}

	for _, pair := range []struct {
		in  CampaignFilter
		out *CampaignFilter
	}{
		{f.EmailAcceptedStatus, &out.EmailAcceptedStatus},
		{f.EmailRejectedStatus, &out.EmailRejectedStatus},
	} {
		switch pair.in {
		case CampaignAny, CampaignSent, CampaignNotSent:
			*pair.out = pair.in
		default:
			return Filters{}, fmt.Errorf("%w: email status %q", ErrInvalidFilter, pair.in)
		}
	}

	switch f.Sort {
	case "":
		out.Sort = SortNewest
	case SortNewest, SortOldest, SortHighest, SortLowest:
	default:
		return Filters{}, fmt.Errorf("%w: sort %q", ErrInvalidFilter, f.Sort)
	}

	return out, nil
}

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, raw := range in {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
