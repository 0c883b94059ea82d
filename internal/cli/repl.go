package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dmitrijs2005/nudger/internal/session"
)

// execIface is the command surface the REPL drives. *App satisfies it;
// tests use a recording stub.
type execIface interface {
	state() session.State

	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	Guest(ctx context.Context) error
	SignOut(ctx context.Context) error
	DeleteAccount(ctx context.Context) error

	Onboard(ctx context.Context) error
	Goals(ctx context.Context) error
	Persona(ctx context.Context, args []string) error

	Add(ctx context.Context) error
	List(ctx context.Context) error
	Done(ctx context.Context, args []string) error
	Undo(ctx context.Context, args []string) error
	Flag(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error

	Nudge(ctx context.Context) error
	History(ctx context.Context, args []string) error
	ClearHistory(ctx context.Context) error
	Export(ctx context.Context, args []string) error
	Status(ctx context.Context) error
}

// readyCommands need a signed-in, onboarded user.
var readyCommands = map[string]bool{
	"goals": true, "persona": true,
	"add": true, "l": true, "list": true, "done": true, "undo": true,
	"flag": true, "edit": true, "rm": true,
	"nudge": true, "history": true, "clearhistory": true, "export": true,
}

func helpText(s session.State) string {
	switch s {
	case session.Ready:
		return "Available commands: add, (l)ist, done, undo, flag, edit, rm, nudge, history, clearhistory, export, " +
			"goals, persona, status, signout, deleteaccount, exit"
	case session.NeedsOnboarding:
		return "Available commands: onboard, status, signout, deleteaccount, exit"
	default:
		return "Available commands: signup, signin, guest, status, exit"
	}
}

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or on "exit"/"quit". Command errors are reported to
// the user and never end the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn("nudger " + statusFn() + "> ")
		line, readErr := reader.ReadString('\n')
		if readErr != nil && (!errors.Is(readErr, io.EOF) || line == "") {
			printlnFn()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		var err error

		if readyCommands[cmd] && a.state() != session.Ready {
			printlnFn(warning(flowHint(a.state())))
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText(a.state()))

		case "signup":
			err = a.SignUp(ctx)
		case "signin":
			err = a.SignIn(ctx)
		case "guest":
			err = a.Guest(ctx)
		case "signout":
			err = a.SignOut(ctx)
		case "deleteaccount":
			err = a.DeleteAccount(ctx)

		case "onboard":
			err = a.Onboard(ctx)
		case "goals":
			err = a.Goals(ctx)
		case "persona":
			err = a.Persona(ctx, args)

		case "add":
			err = a.Add(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "done":
			err = a.Done(ctx, args)
		case "undo":
			err = a.Undo(ctx, args)
		case "flag":
			err = a.Flag(ctx, args)
		case "edit":
			err = a.Edit(ctx, args)
		case "rm":
			err = a.Remove(ctx, args)

		case "nudge":
			err = a.Nudge(ctx)
		case "history":
			err = a.History(ctx, args)
		case "clearhistory":
			err = a.ClearHistory(ctx)
		case "export":
			err = a.Export(ctx, args)
		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn(failure(describe(err)))
		}
	}
}
