package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/jobassist/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Register prompts for email, name and password and creates an account.
// A successful registration also logs the user in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter your name", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.api.Register(ctx, email, string(password), name)
	if err != nil {
		return err
	}

	a.setEmail(resp.Email)
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.setEmail(resp.Email)
	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout ends the session. The local state is cleared even if the server
// call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.api.Logout(ctx)
	a.setEmail("")
	return err
}
