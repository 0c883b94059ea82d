package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/session"
	"github.com/fatih/color"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

var (
	success = color.New(color.FgGreen).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	accent  = color.New(color.FgCyan, color.Bold).SprintFunc()
	faint   = color.New(color.Faint).SprintFunc()
)

func flowHint(s session.State) string {
	switch s {
	case session.NeedsSignUp:
		return "Welcome! Create an account with 'signup' or look around with 'guest'."
	case session.NeedsSignIn:
		return "Welcome back! Sign in with 'signin'."
	case session.NeedsOnboarding:
		return "Tell me what you are working towards: run 'onboard'."
	case session.Ready:
		return "All set. 'add' a task or ask for a 'nudge'."
	default:
		return "Loading..."
	}
}

// describe turns a command error into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return "You are not signed in. Use 'signin', 'signup' or 'guest'."
	case errors.Is(err, common.ErrInvalidCredential):
		return "Wrong email or password."
	case errors.Is(err, common.ErrAlreadyExists):
		return "That email is already registered. Use 'signin'."
	default:
		return "Error: " + err.Error()
	}
}
