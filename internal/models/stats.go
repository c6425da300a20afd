package models

// Stats aggregates counts by type and derived status plus the completion
// rate, defined as completed / (total - cancelled) * 100 and 0 when no
// activity is completable.
type Stats struct {
	Total          int            `json:"total"`
	ByType         map[string]int `json:"byType"`
	ByStatus       map[string]int `json:"byStatus"`
	CompletionRate float64        `json:"completionRate"`
}

// ComputeStats aggregates the given activities. When both startDate and
// endDate are set the activities are first filtered to the inclusive range
// on the Date field (lexicographic comparison, so callers must use ISO
// YYYY-MM-DD values).
func ComputeStats(activities []Activity, startDate, endDate string) Stats {
	stats := Stats{
		ByType: map[string]int{
			TypeWorkshop:   0,
			TypeMentoring:  0,
			TypeNetworking: 0,
		},
		ByStatus: map[string]int{
			StatusUpcoming:  0,
			StatusCompleted: 0,
			StatusCancelled: 0,
		},
	}

	var completable, completed int
	for _, a := range activities {
		if startDate != "" && endDate != "" {
			if a.Date < startDate || a.Date > endDate {
				continue
			}
		}

		stats.Total++
		stats.ByType[a.Type]++
		stats.ByStatus[a.Status()]++

		if !a.Cancelled {
			completable++
			if a.Completed {
				completed++
			}
		}
	}

	if completable > 0 {
		stats.CompletionRate = float64(completed) / float64(completable) * 100
	}

	return stats
}
