package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/nudger/internal/classifier"
	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/filex"
	"github.com/dmitrijs2005/nudger/internal/models"
	"github.com/dmitrijs2005/nudger/internal/report"
	"github.com/dmitrijs2005/nudger/internal/repositories/messages"
)

const historyTimeLayout = "2006-01-02 15:04"

// exportDir receives exports written without an explicit path.
const exportDir = "exports"

func (a *App) printAdvice(m models.AdviceMessage) {
	printlnFn(accent(a.personaName(m.Persona)+":"), m.Response)
}

func (a *App) Nudge(ctx context.Context) error {
	msg, err := a.assistant.Nudge(ctx)
	if err != nil {
		return err
	}
	a.printAdvice(*msg)
	return nil
}

// parseFilter reads "auto", "manual" or a persona name.
func parseFilter(args []string) (messages.Filter, error) {
	var f messages.Filter
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case "auto":
			f.Trigger = models.TriggerAutoOnCreate
		case "manual":
			f.Trigger = models.TriggerManual
		default:
			p, ok := models.ParsePersona(arg)
			if !ok {
				return f, fmt.Errorf("%w: usage: history [auto|manual] [persona]", common.ErrValidation)
			}
			f.Persona = p
		}
	}
	return f, nil
}

func (a *App) History(ctx context.Context, args []string) error {
	f, err := parseFilter(args)
	if err != nil {
		return err
	}
	msgs, err := a.assistant.History(ctx, f)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		printlnFn("No advice yet. Try 'nudge'.")
		return nil
	}
	for _, m := range msgs {
		printlnFn(faint(fmt.Sprintf("%s · %s · %s", m.CreatedAt.Local().Format(historyTimeLayout), a.personaName(m.Persona), m.Trigger)))
		printlnFn("  " + m.Response)
	}
	return nil
}

func (a *App) ClearHistory(ctx context.Context) error {
	n, err := a.assistant.ClearHistory(ctx)
	if err != nil {
		return err
	}
	printlnFn(success(fmt.Sprintf("Deleted %d messages.", n)))
	return nil
}

// Export writes the history to a file: export [md|html] [path]. Without a
// path the file goes to a timestamped name under exportDir.
func (a *App) Export(ctx context.Context, args []string) error {
	format := report.FormatMarkdown
	if len(args) > 0 {
		f, err := report.ParseFormat(args[0])
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		format = f
	}

	data, err := a.assistant.ExportHistory(ctx, format)
	if err != nil {
		return err
	}

	var path string
	if len(args) > 1 {
		path = args[1]
	} else {
		dir, err := filex.EnsureSubDir(exportDir)
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "history-"+a.now().Format("20060102-150405")+"."+string(format))
	}
	if err := filex.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	printlnFn(success("History written to " + path + "."))
	return nil
}

// Status prints who is signed in, the current flow and a task summary.
func (a *App) Status(ctx context.Context) error {
	id := a.ledger.CurrentIdentity()
	switch {
	case id == nil:
		printlnFn("Not signed in.")
	case id.IsAnonymous:
		printlnFn("Signed in as guest.")
	default:
		printlnFn("Signed in as " + id.Email + ".")
	}
	printlnFn("Flow: " + a.state().String())

	if id == nil {
		return nil
	}
	if p, err := a.assistant.Profile(ctx); err == nil {
		printlnFn(fmt.Sprintf("Persona: %s. Goals: %q / %q", a.personaName(p.Persona), p.Goals.ShortTerm, p.Goals.LongTerm))
	}

	list, err := a.assistant.Tasks(ctx)
	if err != nil {
		return err
	}
	c := classifier.Classify(list, a.now()).Counts()
	printlnFn(fmt.Sprintf("Tasks: %d total, %d completed (%.1f%%), %d overdue, %d flagged, %d high priority",
		c.Total, c.Completed, c.CompletionPercent(), c.Overdue, c.FlaggedActive, c.HighPriority))
	return nil
}
