package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/nudger/internal/classifier"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/models"
)

func parseID(cmd string, args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: usage: %s <id>", common.ErrValidation, cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a task id", common.ErrValidation, args[0])
	}
	return id, nil
}

// parsePriority accepts 0-3 or a priority name. An empty answer keeps def.
func parsePriority(s string, def int) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	for p := models.PriorityNone; p <= models.PriorityHigh; p++ {
		if s == strconv.Itoa(p) || s == models.PriorityText(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown priority %q", common.ErrValidation, s)
}

// parseDeadline accepts none, 24h, day or week. An empty answer keeps def.
func parseDeadline(s string, def models.DeadlineClass) (models.DeadlineClass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return def, nil
	case "none":
		return models.DeadlineNone, nil
	}
	if d := models.ParseDeadline(s); d != models.DeadlineNone {
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown deadline %q", common.ErrValidation, s)
}

func (a *App) askTask(t models.Task) (models.Task, error) {
	title, err := a.ask(withDefault("Task title", t.Title))
	if err != nil {
		return t, err
	}
	t.Title = orKeep(title, t.Title)

	answer, err := a.ask(fmt.Sprintf("Priority: none, low, medium, high (Enter for %s)", models.PriorityText(t.Priority)))
	if err != nil {
		return t, err
	}
	if t.Priority, err = parsePriority(answer, t.Priority); err != nil {
		return t, err
	}

	answer, err = a.ask(fmt.Sprintf("Deadline: none, 24h, week (Enter for %s)", t.Deadline.DisplayName()))
	if err != nil {
		return t, err
	}
	if t.Deadline, err = parseDeadline(answer, t.Deadline); err != nil {
		return t, err
	}
	return t, nil
}

// Add creates a task and shows the automatic nudge, if one was produced.
func (a *App) Add(ctx context.Context) error {
	draft, err := a.askTask(models.Task{Deadline: models.DeadlineNone})
	if err != nil {
		return err
	}
	task, msg, err := a.assistant.CreateTask(ctx, draft)
	if err != nil {
		return err
	}
	printlnFn(success(fmt.Sprintf("Task %d added.", task.ID)))
	if msg != nil {
		a.printAdvice(*msg)
	}
	return nil
}

func (a *App) formatTask(t models.Task) string {
	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %d  %s  (%s, %s)", box, t.ID, t.Title, models.PriorityText(t.Priority), t.Deadline.DisplayName())
	if t.Completed {
		return faint(line)
	}
	if t.Flagged {
		line += " " + warning("flagged")
	}
	if classifier.IsOverdue(t, a.now()) {
		line += " " + failure("overdue")
	}
	return line
}

func (a *App) List(ctx context.Context) error {
	list, err := a.assistant.Tasks(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		printlnFn("No tasks yet. Use 'add'.")
		return nil
	}
	for _, t := range list {
		printlnFn(a.formatTask(t))
	}
	return nil
}

func (a *App) setCompleted(ctx context.Context, cmd string, args []string, completed bool) error {
	id, err := parseID(cmd, args)
	if err != nil {
		return err
	}
	if err := a.assistant.SetCompleted(ctx, id, completed); err != nil {
		return err
	}
	if completed {
		printlnFn(success(fmt.Sprintf("Task %d done.", id)))
	} else {
		printlnFn(success(fmt.Sprintf("Task %d reopened.", id)))
	}
	return nil
}

func (a *App) Done(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, "done", args, true)
}

func (a *App) Undo(ctx context.Context, args []string) error {
	return a.setCompleted(ctx, "undo", args, false)
}

// Flag toggles the flag of a task.
func (a *App) Flag(ctx context.Context, args []string) error {
	id, err := parseID("flag", args)
	if err != nil {
		return err
	}
	t, err := a.assistant.Task(ctx, id)
	if err != nil {
		return err
	}
	if err := a.assistant.SetFlagged(ctx, id, !t.Flagged); err != nil {
		return err
	}
	if t.Flagged {
		printlnFn(success(fmt.Sprintf("Task %d unflagged.", id)))
	} else {
		printlnFn(success(fmt.Sprintf("Task %d flagged.", id)))
	}
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID("edit", args)
	if err != nil {
		return err
	}
	t, err := a.assistant.Task(ctx, id)
	if err != nil {
		return err
	}
	edited, err := a.askTask(*t)
	if err != nil {
		return err
	}
	if err := a.assistant.UpdateTask(ctx, edited); err != nil {
		return err
	}
	printlnFn(success(fmt.Sprintf("Task %d updated.", id)))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	id, err := parseID("rm", args)
	if err != nil {
		return err
	}
	if err := a.assistant.DeleteTask(ctx, id); err != nil {
		return err
	}
	printlnFn(success(fmt.Sprintf("Task %d deleted.", id)))
	return nil
}
