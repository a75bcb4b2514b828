package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cygnuslabs/cygnusone/internal/client/api"
	"github.com/cygnuslabs/cygnusone/internal/client/feed"
	"github.com/cygnuslabs/cygnusone/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. On success the shell
// switches to the articles screen and loads the first page. The password
// byte slice is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}

	a.setScreen(screenArticles)
	printlnFn(fmt.Sprintf("Welcome, %s!", user.Name))

	if err := a.feed.Initialize(ctx); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return nil
	}
	a.printArticles(0)
	return nil
}

// Register prompts for an email and password and creates an account. A
// successful registration is also a login.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.auth.Register(ctx, email, string(password))
	if err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}

	a.setScreen(screenArticles)
	printlnFn(fmt.Sprintf("Account created. Welcome, %s!", user.Name))

	if err := a.feed.Initialize(ctx); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return nil
	}
	a.printArticles(0)
	return nil
}

// Logout ends the session and returns to the login screen. Remote failures
// are absorbed by the session manager; only a local clear failure keeps the
// user logged in.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		printlnFn(errorStyle.Render(userMessage(err)))
		return err
	}
	a.setScreen(screenLogin)
	printlnFn("Logged out.")
	return nil
}

// userMessage translates classified errors into messages fit for the
// terminal. Unclassified errors pass through unchanged.
func userMessage(err error) string {
	var serverErr *api.ServerError
	var connErr *api.ConnectionError

	switch {
	case errors.Is(err, api.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, api.ErrDuplicateAccount):
		return "An account with this email already exists."
	case errors.Is(err, api.ErrMalformedInput):
		return "The server rejected the request as malformed."
	case errors.Is(err, api.ErrParse):
		return "The server returned an unexpected response."
	case errors.Is(err, feed.ErrBusy):
		return "Still loading, try again in a moment."
	case errors.As(err, &connErr):
		return "Cannot reach the server. Check your connection."
	case errors.As(err, &serverErr):
		return fmt.Sprintf("Server error (HTTP %d). Try again later.", serverErr.Status)
	default:
		return err.Error()
	}
}
