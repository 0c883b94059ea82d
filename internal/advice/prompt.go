package advice

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/nudger/internal/classifier"
	"github.com/dmitrijs2005/nudger/internal/models"
)

// RecentCompletedLimit caps the "recently completed" section.
const RecentCompletedLimit = 3

const promptTimeLayout = "2006-01-02 15:04"

// statusLabel picks the single tag of an incomplete task. Precedence is
// flagged, overdue, high priority, pending.
func statusLabel(t models.Task, now time.Time) string {
	switch {
	case t.Flagged:
		return "in progress"
	case classifier.IsOverdue(t, now):
		return "overdue"
	case t.Priority >= classifier.HighPriorityThreshold:
		return "high priority"
	default:
		return "pending"
	}
}

func triggerText(k models.TriggerKind) string {
	if k == models.TriggerAutoOnCreate {
		return "automatic after task creation"
	}
	return "manual request"
}

// recentCompleted returns up to RecentCompletedLimit completed tasks, most
// recently completed first. Tasks without a completion time rank by
// creation time; ids break remaining ties.
func recentCompleted(completed []models.Task) []models.Task {
	out := append([]models.Task(nil), completed...)
	at := func(t models.Task) time.Time {
		if t.CompletedAt != nil {
			return *t.CompletedAt
		}
		return t.CreatedAt
	}
	sort.SliceStable(out, func(i, j int) bool {
		ai, aj := at(out[i]), at(out[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > RecentCompletedLimit {
		out = out[:RecentCompletedLimit]
	}
	return out
}

// RenderPrompt builds the diagnostic report for a snapshot. The output
// depends only on its arguments.
func RenderPrompt(goals models.Goals, p classifier.Partition, spec *PersonaSpec, trigger models.TriggerKind, now time.Time) string {
	c := p.Counts()
	var b strings.Builder

	b.WriteString("=== AI PERSONA PROMPT ===\n")
	fmt.Fprintf(&b, "Persona: %s\n", spec.DisplayName)
	fmt.Fprintf(&b, "Profile: %s\n", spec.Description)
	fmt.Fprintf(&b, "Generated at: %s\n", now.Format(promptTimeLayout))
	fmt.Fprintf(&b, "Trigger: %s\n", triggerText(trigger))

	b.WriteString("\n=== USER GOALS ===\n")
	fmt.Fprintf(&b, "Short-term goal: \"%s\"\n", goals.ShortTerm)
	fmt.Fprintf(&b, "Long-term goal: \"%s\"\n", goals.LongTerm)

	b.WriteString("\n=== CURRENT SUMMARY ===\n")
	fmt.Fprintf(&b, "Total tasks: %d\n", c.Total)
	fmt.Fprintf(&b, "Completed: %d (%.1f%%)\n", c.Completed, c.CompletionPercent())
	fmt.Fprintf(&b, "Incomplete: %d\n", c.Incomplete)
	fmt.Fprintf(&b, "Overdue: %d\n", c.Overdue)
	fmt.Fprintf(&b, "In progress (flagged): %d\n", c.FlaggedActive)
	fmt.Fprintf(&b, "High priority: %d\n", c.HighPriority)

	b.WriteString("\n=== INCOMPLETE TASKS ===\n")
	if len(p.Incomplete) == 0 {
		b.WriteString("No incomplete tasks.\n")
	}
	for i, t := range p.Incomplete {
		fmt.Fprintf(&b, "%d. %s [%s] (priority: %s, deadline: %s)\n",
			i+1, t.Title, statusLabel(t, now), models.PriorityText(t.Priority), t.Deadline.DisplayName())
	}

	b.WriteString("\n=== RECENTLY COMPLETED ===\n")
	recent := recentCompleted(p.Completed)
	if len(recent) == 0 {
		b.WriteString("No recently completed tasks.\n")
	}
	for _, t := range recent {
		fmt.Fprintf(&b, "- %s\n", t.Title)
	}

	b.WriteString("\n=== PERSONA GUIDELINES ===\n")
	fmt.Fprintf(&b, "- Respond in the tone of %s\n", spec.DisplayName)
	b.WriteString("- Personalize the advice using the goals and the current situation\n")
	if trigger == models.TriggerAutoOnCreate {
		b.WriteString("- Encourage or advise on the newly added task\n")
	} else {
		b.WriteString("- Motivate the user about the current situation\n")
	}
	b.WriteString("- Include concrete, actionable suggestions")

	return b.String()
}
