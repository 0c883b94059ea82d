package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/nudger/internal/common"
	"github.com/dmitrijs2005/nudger/internal/cryptox"
)

func (a *App) credentials() (string, []byte, error) {
	email, err := a.ask("Enter email")
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// SignUp registers a new account and signs it in.
func (a *App) SignUp(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := a.ledger.SignUp(ctx, email, password); err != nil {
		return err
	}
	printlnFn(success("Account created. Signed in as " + strings.ToLower(strings.TrimSpace(email)) + "."))
	a.resolve(ctx)
	return nil
}

func (a *App) SignIn(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer cryptox.Wipe(password)

	if err := a.ledger.SignIn(ctx, email, password); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no account for %q, use 'signup': %w", email, err)
		}
		return err
	}
	printlnFn(success("Signed in."))
	a.resolve(ctx)
	return nil
}

// Guest starts an anonymous session. Its data is not restored on the next
// launch.
func (a *App) Guest(ctx context.Context) error {
	a.ledger.CreateGuest(ctx)
	printlnFn(success("Continuing as guest."))
	a.resolve(ctx)
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	if _, ok := a.ledger.CurrentUserID(); !ok {
		return common.ErrNotAuthenticated
	}
	a.ledger.SignOut(ctx)
	printlnFn(success("Signed out."))
	a.resolve(ctx)
	return nil
}

// DeleteAccount asks for confirmation, then drops the profile and the live
// identity. Tasks and history stay keyed by the user id.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := a.ask("Type 'yes' to delete your profile and sign out")
	if err != nil {
		return err
	}
	if answer != "yes" {
		printlnFn("Cancelled.")
		return nil
	}
	if err := a.assistant.DeleteAccount(ctx); err != nil {
		return err
	}
	printlnFn(success("Account deleted."))
	a.resolve(ctx)
	return nil
}
