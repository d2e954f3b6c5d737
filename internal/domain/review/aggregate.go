package review

import "sort"

// Summary is the aggregate rating of one proposal.
type Summary struct {
	Positives int
	Negatives int
	Average   *float64
}

// UserRating is one reviewer's rating; all fields are nil when they have not rated.
type UserRating struct {
	Note    *int
	Feeling *Feeling
	Comment *string
}

// Summarize counts positive and negative feelings and averages the notes of
// every review that is not NO_OPINION. Average is nil when nothing qualifies.
func Summarize(reviews []Review) Summary {
	var summary Summary
	total, count := 0, 0
	for _, r := range reviews {
		switch r.Feeling {
		case FeelingPositive:
			summary.Positives++
		case FeelingNegative:
			summary.Negatives++
		}
		if r.counts() {
			total += *r.Note
			count++
		}
	}
	summary.Average = mean(total, count)
	return summary
}

// AverageForSort is the cached sort key stored on the proposal.
func AverageForSort(reviews []Review) *float64 {
	return Summarize(reviews).Average
}

// OfUser returns userID's rating among reviews.
func OfUser(reviews []Review, userID string) UserRating {
	for _, r := range reviews {
		if r.ReviewerID != userID {
			continue
		}
		feeling := r.Feeling
		return UserRating{Note: r.Note, Feeling: &feeling, Comment: r.Comment}
	}
	return UserRating{}
}

// GroupByProposal indexes reviews by proposal id.
func GroupByProposal(reviews []Review) map[string][]Review {
	out := make(map[string][]Review)
	for _, r := range reviews {
		out[r.ProposalID] = append(out[r.ProposalID], r)
	}
	return out
}

// ReviewerStats is one leaderboard row.
type ReviewerStats struct {
	ReviewerID    string
	ReviewsCount  int
	AverageNote   *float64
	PositiveCount int
	NegativeCount int
	// Progress is ReviewsCount over the event's proposal count, 0 when the event has none.
	Progress float64
}

// Leaderboard computes per-reviewer stats, most reviews first, ties by
// reviewer id ascending.
func Leaderboard(byReviewer map[string][]Review, totalProposals int) []ReviewerStats {
	rows := make([]ReviewerStats, 0, len(byReviewer))
	for reviewerID, reviews := range byReviewer {
		summary := Summarize(reviews)
		row := ReviewerStats{
			ReviewerID:    reviewerID,
			ReviewsCount:  len(reviews),
			AverageNote:   summary.Average,
			PositiveCount: summary.Positives,
			NegativeCount: summary.Negatives,
		}
		if totalProposals > 0 {
			row.Progress = float64(row.ReviewsCount) / float64(totalProposals)
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ReviewsCount != rows[j].ReviewsCount {
			return rows[i].ReviewsCount > rows[j].ReviewsCount
		}
		return rows[i].ReviewerID < rows[j].ReviewerID
	})
	return rows
}

// GroupByReviewer indexes reviews by reviewer id.
func GroupByReviewer(reviews []Review) map[string][]Review {
	out := make(map[string][]Review)
	for _, r := range reviews {
		out[r.ReviewerID] = append(out[r.ReviewerID], r)
	}
	return out
}

func mean(total int, count int) *float64 {
	if count == 0 {
		return nil
	}
	avg := float64(total) / float64(count)
	return &avg
}
