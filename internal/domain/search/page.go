package search

import "conferencehall/internal/domain/proposal"

// DefaultPageSize is the number of proposals per search page.
const DefaultPageSize = 25

// Pagination describes the page returned and how many exist.
type Pagination struct {
	Current int
	Total   int
}

// Paginate computes the page count for total rows and clamps the requested
// page into [1, max(pages, 1)]. The returned offset is what the query skips.
func Paginate(page int, total int64, pageSize int) (Pagination, int) {
	if pageSize <= 0 {
		pageSize = 1
	}

	pages := int((total + int64(pageSize) - 1) / int64(pageSize))
	current := page
	if current > pages {
		current = pages
	}
	if current < 1 {
		current = 1
	}

	return Pagination{Current: current, Total: pages}, (current - 1) * pageSize
}

// Statistics summarizes the filtered set.
type Statistics struct {
	Total    int64
	Reviewed int64
	ByStatus map[proposal.OrganizerStatus]int64
}

// NewStatistics returns statistics with every organizer status present.
func NewStatistics() Statistics {
	byStatus := make(map[proposal.OrganizerStatus]int64, len(proposal.OrganizerStatuses))
	for _, status := range proposal.OrganizerStatuses {
		byStatus[status] = 0
	}
	return Statistics{ByStatus: byStatus}
}
