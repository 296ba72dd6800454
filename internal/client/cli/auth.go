package cli

import (
	"context"
	"errors"
	"os"

	"github.com/avasiljevs/healthsync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for credentials and creates an account. A fresh account
// ends up logged in with the default household seeded.
func (c *CLI) Register(ctx context.Context) error {
	username, err := getSimpleText(c.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Repeat the password", os.Stdout)
	if err != nil {
		return err
	}

	if err := c.core.SignUp(ctx, username, password, confirm); err != nil {
		printAuthError(err)
		return err
	}
	printlnFn("Account created. You are logged in.")
	return nil
}

// Login prompts for credentials, authenticates and pulls the household
// data for this account.
func (c *CLI) Login(ctx context.Context) error {
	username, err := getSimpleText(c.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Password", os.Stdout)
	if err != nil {
		return err
	}

	if err := c.core.Login(ctx, username, password); err != nil {
		printAuthError(err)
		return err
	}
	printlnFn("Logged in.")
	return nil
}

// Logout clears the session and local data. Edits not yet synced are lost,
// which the user is warned about beforehand.
func (c *CLI) Logout(ctx context.Context) error {
	answer, err := getSimpleText(c.reader, "Unsynced changes will be lost. Log out? (y/n)", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "y" && answer != "yes" {
		return nil
	}
	if err := c.core.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}

func printAuthError(err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		printlnFn(err.Error())
	case errors.Is(err, common.ErrUnauthorized):
		printlnFn("Invalid username or password.")
	case errors.Is(err, common.ErrNetworkUnavailable):
		printlnFn("Server unreachable. Try again when online.")
	default:
		printlnFn("Error:", err.Error())
	}
}
