package classifier

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func task(id int64, mutate func(*models.Task)) models.Task {
	t := models.Task{ID: id, OwnerID: "u1", Title: fmt.Sprintf("t%d", id), Deadline: models.DeadlineNone, CreatedAt: now}
	if mutate != nil {
		mutate(&t)
	}
	return t
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestClassify_Empty(t *testing.T) {
	p := Classify(nil, now)

	assert.NotNil(t, p.Incomplete)
	assert.Empty(t, p.Incomplete)
	assert.Empty(t, p.Completed)
	assert.Empty(t, p.Overdue)
	assert.Empty(t, p.FlaggedActive)
	assert.Empty(t, p.HighPriority)

	c := p.Counts()
	assert.Equal(t, Counts{}, c)
	assert.Equal(t, 0.0, c.CompletionPercent())
	assert.Equal(t, "0.0", fmt.Sprintf("%.1f", c.CompletionPercent()))
}

func TestIsOverdue_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		deadline models.DeadlineClass
		age      time.Duration
		done     bool
		want     bool
	}{
		{"no deadline never overdue", models.DeadlineNone, 1000 * time.Hour, false, false},
		{"24h exactly at boundary", models.DeadlineWithin24h, 24 * time.Hour, false, false},
		{"24h just past", models.DeadlineWithin24h, 24*time.Hour + time.Millisecond, false, true},
		{"week not yet", models.DeadlineWithinWeek, 167 * time.Hour, false, false},
		{"week past", models.DeadlineWithinWeek, 169 * time.Hour, false, true},
		{"completed never overdue", models.DeadlineWithin24h, 48 * time.Hour, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := task(1, func(x *models.Task) {
				x.Deadline = tt.deadline
				x.CreatedAt = now.Add(-tt.age)
				x.Completed = tt.done
			})
			assert.Equal(t, tt.want, IsOverdue(tk, now))
		})
	}
}

func TestClassify_Buckets(t *testing.T) {
	tasks := []models.Task{
		task(1, func(x *models.Task) { x.Completed = true; x.Priority = 3; x.Flagged = true }),
		task(2, func(x *models.Task) { x.Flagged = true }),
		task(3, func(x *models.Task) { x.Priority = 2 }),
		task(4, func(x *models.Task) { x.Priority = 1 }),
		task(5, func(x *models.Task) { x.Deadline = models.DeadlineWithin24h; x.CreatedAt = now.Add(-25 * time.Hour) }),
	}

	p := Classify(tasks, now)

	assert.Equal(t, []int64{2, 3, 4, 5}, ids(p.Incomplete))
	assert.Equal(t, []int64{1}, ids(p.Completed))
	assert.Equal(t, []int64{5}, ids(p.Overdue))
	assert.Equal(t, []int64{2}, ids(p.FlaggedActive))
	assert.Equal(t, []int64{3}, ids(p.HighPriority))

	c := p.Counts()
	assert.Equal(t, Counts{Total: 5, Completed: 1, Incomplete: 4, Overdue: 1, FlaggedActive: 1, HighPriority: 1}, c)
	assert.InDelta(t, 20.0, c.CompletionPercent(), 1e-9)
}

// overdue ⊆ incomplete and overdue ∩ completed = ∅ for random snapshots.
func TestClassify_OverdueSubsetProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	deadlines := []models.DeadlineClass{models.DeadlineNone, models.DeadlineWithin24h, models.DeadlineWithinWeek}

	for round := 0; round < 200; round++ {
		n := rng.IntN(20)
		tasks := make([]models.Task, 0, n)
		for i := 0; i < n; i++ {
			tasks = append(tasks, task(int64(i), func(x *models.Task) {
				x.Completed = rng.IntN(2) == 0
				x.Flagged = rng.IntN(2) == 0
				x.Priority = rng.IntN(4)
				x.Deadline = deadlines[rng.IntN(len(deadlines))]
				x.CreatedAt = now.Add(-time.Duration(rng.IntN(400)) * time.Hour)
			}))
		}

		p := Classify(tasks, now)
		incomplete := map[int64]bool{}
		for _, tk := range p.Incomplete {
			incomplete[tk.ID] = true
		}
		completed := map[int64]bool{}
		for _, tk := range p.Completed {
			completed[tk.ID] = true
		}

		for _, tk := range p.Overdue {
			require.True(t, incomplete[tk.ID], "overdue task %d not incomplete", tk.ID)
			require.False(t, completed[tk.ID], "overdue task %d also completed", tk.ID)
		}
		require.Equal(t, n, len(p.Incomplete)+len(p.Completed))
	}
}
