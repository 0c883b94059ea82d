// Package classifier partitions a task snapshot by completion, deadline,
// flag and priority. It is pure: the same tasks and time give the same
// partition.
package classifier

import (
	"time"

	"github.com/dmitrijs2005/nudger/internal/models"
)

// HighPriorityThreshold is the lowest priority counted as high.
const HighPriorityThreshold = models.PriorityMedium

// Partition groups tasks. Overdue, FlaggedActive and HighPriority are
// subsets of Incomplete. Every slice is non-nil and keeps input order.
type Partition struct {
	Incomplete    []models.Task
	Completed     []models.Task
	Overdue       []models.Task
	FlaggedActive []models.Task
	HighPriority  []models.Task
}

// Counts is the numeric summary of a Partition.
type Counts struct {
	Total         int
	Completed     int
	Incomplete    int
	Overdue       int
	FlaggedActive int
	HighPriority  int
}

// IsOverdue reports whether t missed its deadline at now. The deadline is
// always measured from CreatedAt. Completed tasks and tasks without a
// deadline are never overdue.
func IsOverdue(t models.Task, now time.Time) bool {
	if t.Completed || t.Deadline.Hours() == 0 {
		return false
	}
	return now.After(t.CreatedAt.Add(t.Deadline.Window()))
}

// Classify partitions tasks as of now. Every task lands in exactly one of
// Incomplete and Completed; Overdue, FlaggedActive and HighPriority are
// subsets of Incomplete. Input order is preserved in every slice.
func Classify(tasks []models.Task, now time.Time) Partition {
	p := Partition{
		Incomplete:    make([]models.Task, 0),
		Completed:     make([]models.Task, 0),
		Overdue:       make([]models.Task, 0),
		FlaggedActive: make([]models.Task, 0),
		HighPriority:  make([]models.Task, 0),
	}

	for _, t := range tasks {
		if t.Completed {
			p.Completed = append(p.Completed, t)
			continue
		}
		p.Incomplete = append(p.Incomplete, t)
		if IsOverdue(t, now) {
			p.Overdue = append(p.Overdue, t)
		}
		if t.Flagged {
			p.FlaggedActive = append(p.FlaggedActive, t)
		}
		if t.Priority >= HighPriorityThreshold {
			p.HighPriority = append(p.HighPriority, t)
		}
	}
	return p
}

// Counts returns the size of each partition slice.
func (p Partition) Counts() Counts {
	return Counts{
		Total:         len(p.Incomplete) + len(p.Completed),
		Completed:     len(p.Completed),
		Incomplete:    len(p.Incomplete),
		Overdue:       len(p.Overdue),
		FlaggedActive: len(p.FlaggedActive),
		HighPriority:  len(p.HighPriority),
	}
}

// CompletionPercent is completed over total as a percentage; 0 for an
// empty snapshot.
func (c Counts) CompletionPercent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.Total) * 100
}
