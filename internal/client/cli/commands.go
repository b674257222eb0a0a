package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountkeeper/internal/client/client"
)

// getSimpleText and getPassword are indirections for tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// Signup creates an account. A delivery failure is reported but not fatal:
// the account exists and "resend" can be used later.
func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	resp, err := a.api.Signup(ctx, email, password)
	if err != nil {
		if errors.Is(err, client.ErrDeliveryFailed) {
			if resp != nil && resp.ID != "" {
				fmt.Fprintf(a.out, "Account %s created.\n", resp.ID)
			}
			fmt.Fprintf(a.out, "The verification email could not be sent. Try: resend %s\n", email)
			return nil
		}
		return err
	}

	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	resp, err := a.api.Login(ctx, email, password)
	if err != nil {
		a.current = nil
		return err
	}

	a.current = resp
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) Verify(ctx context.Context, token string) error {
	resp, err := a.api.Verify(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

func (a *App) Resend(ctx context.Context, email string) error {
	resp, err := a.api.ResendVerification(ctx, email)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Message)
	return nil
}

// WhoAmI refreshes the logged-in account from the server.
func (a *App) WhoAmI(ctx context.Context) error {
	if a.current == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	resp, err := a.api.Validate(ctx, a.current.ID)
	if err != nil {
		return err
	}
	a.current.EmailValidated = resp.EmailValidated

	fmt.Fprintf(a.out, "%s (id %s), email validated: %t\n", resp.Email, resp.ID, resp.EmailValidated)
	return nil
}
