package store

import (
	"sort"

	"duetrack/internal/models"
)

// StatusFilter selects a completion slice of the cache.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterPending   StatusFilter = "pending"
	FilterCompleted StatusFilter = "completed"
)

// Filter returns the deadlines matching the given status. Pending and
// completed partition the input: together they cover it with no overlap.
func Filter(deadlines []models.Deadline, filter StatusFilter) []models.Deadline {
	if filter == FilterAll {
		out := make([]models.Deadline, len(deadlines))
		copy(out, deadlines)
		return out
	}
	var out []models.Deadline
	for _, d := range deadlines {
		switch filter {
		case FilterPending:
			if !d.Completed {
				out = append(out, d)
			}
		case FilterCompleted:
			if d.Completed {
				out = append(out, d)
			}
		}
	}
	return out
}

// SortByDate returns a copy sorted by due date, earliest first. The sort is
// stable, so same-date entries keep their cache order.
func SortByDate(deadlines []models.Deadline) []models.Deadline {
	out := make([]models.Deadline, len(deadlines))
	copy(out, deadlines)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
