package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/session"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	flow  session.State
	err   error
	calls []string
}

func (f *fakeExec) state() session.State { return f.flow }

func (f *fakeExec) record(name string, args ...string) error {
	if len(args) > 0 {
		name += " " + strings.Join(args, " ")
	}
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) SignUp(context.Context) error {
	f.flow = session.NeedsOnboarding
	return f.record("signup")
}
func (f *fakeExec) SignIn(context.Context) error {
	f.flow = session.Ready
	return f.record("signin")
}
func (f *fakeExec) Guest(context.Context) error { return f.record("guest") }
func (f *fakeExec) SignOut(context.Context) error {
	f.flow = session.NeedsSignIn
	return f.record("signout")
}
func (f *fakeExec) DeleteAccount(context.Context) error { return f.record("deleteaccount") }
func (f *fakeExec) Onboard(context.Context) error {
	f.flow = session.Ready
	return f.record("onboard")
}
func (f *fakeExec) Goals(context.Context) error { return f.record("goals") }
func (f *fakeExec) Persona(_ context.Context, a []string) error { return f.record("persona", a...) }
func (f *fakeExec) Add(context.Context) error { return f.record("add") }
func (f *fakeExec) List(context.Context) error { return f.record("list") }
func (f *fakeExec) Done(_ context.Context, a []string) error { return f.record("done", a...) }
func (f *fakeExec) Undo(_ context.Context, a []string) error { return f.record("undo", a...) }
func (f *fakeExec) Flag(_ context.Context, a []string) error { return f.record("flag", a...) }
func (f *fakeExec) Edit(_ context.Context, a []string) error { return f.record("edit", a...) }
func (f *fakeExec) Remove(_ context.Context, a []string) error { return f.record("rm", a...) }
func (f *fakeExec) Nudge(context.Context) error { return f.record("nudge") }
func (f *fakeExec) History(_ context.Context, a []string) error { return f.record("history", a...) }
func (f *fakeExec) ClearHistory(context.Context) error { return f.record("clearhistory") }
func (f *fakeExec) Export(_ context.Context, a []string) error { return f.record("export", a...) }
func (f *fakeExec) Status(context.Context) error { return f.record("status") }

// captureOutput swaps the print seams for a buffer and disables colors.
func captureOutput(t *testing.T) *strings.Builder {
	t.Helper()
	var buf strings.Builder

	origPrintln, origPrint, origNoColor := printlnFn, printFn, color.NoColor
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	printFn = func(a ...any) (int, error) { return fmt.Fprint(&buf, a...) }
	color.NoColor = true
	t.Cleanup(func() {
		printlnFn, printFn, color.NoColor = origPrintln, origPrint, origNoColor
	})
	return &buf
}

func repl(a execIface, lines ...string) {
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), a, func() string { return "(status)" }, in)
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	captureOutput(t)

	exec := &fakeExec{flow: session.NeedsSignUp}
	repl(exec,
		"signup",
		"onboard",
		"add",
		"l",
		"done 17",
		"undo 17",
		"flag 17",
		"edit 17",
		"rm 17",
		"nudge",
		"history auto",
		"clearhistory",
		"export html out.html",
		"persona ColdPrincess",
		"goals",
		"status",
		"signout",
		"exit",
	)

	assert.Equal(t, []string{
		"signup", "onboard", "add", "list",
		"done 17", "undo 17", "flag 17", "edit 17", "rm 17",
		"nudge", "history auto", "clearhistory", "export html out.html",
		"persona ColdPrincess", "goals", "status", "signout",
	}, exec.calls)
}

func TestRunREPL_GatesCommandsUntilReady(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{flow: session.NeedsOnboarding}
	repl(exec, "add", "nudge", "status", "quit")

	assert.Equal(t, []string{"status"}, exec.calls)
	assert.Contains(t, out.String(), flowHint(session.NeedsOnboarding))
	assert.Contains(t, out.String(), "Bye!")
}

func TestRunREPL_HelpFollowsFlow(t *testing.T) {
	for _, s := range []session.State{session.NeedsSignUp, session.NeedsOnboarding, session.Ready} {
		t.Run(s.String(), func(t *testing.T) {
			out := captureOutput(t)
			repl(&fakeExec{flow: s}, "help", "exit")
			assert.Contains(t, out.String(), helpText(s))
		})
	}
	assert.Contains(t, helpText(session.Ready), "nudge")
	assert.NotContains(t, helpText(session.NeedsSignIn), "nudge")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	out := captureOutput(t)

	exec := &fakeExec{flow: session.NeedsSignIn, err: fmt.Errorf("signing in: %w", common.ErrInvalidCredential)}
	repl(exec, "signin", "bogus", "", "guest")

	assert.Equal(t, []string{"signin", "guest"}, exec.calls)
	assert.Contains(t, out.String(), "Wrong email or password.")
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, out.String(), "nudger (status)> ")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "That email is already registered. Use 'signin'.", describe(common.ErrAlreadyExists))
	assert.Contains(t, describe(common.ErrNotAuthenticated), "not signed in")
	assert.Equal(t, "Error: boom", describe(errors.New("boom")))
}
