package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/MrJJimenez/ionctl/internal/env"
)

type LoginCmd struct {
	Email    string `arg:"" optional:"" help:"Account email."`
	Password string `help:"Account password." env:"IONCTL_PASSWORD"`
}

type LogoutCmd struct{}

func (l *LoginCmd) Run(ctx context.Context, e *env.Environment) error {
	if e.Session.IsLoggedIn() && !e.Flags.Confirm {
		again, err := e.Prompt.Confirm(ctx, "You are already logged in as "+e.Session.Email()+". Log in again?", false)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}

	email := strings.TrimSpace(l.Email)
	if email == "" {
		var err error
		if email, err = e.Prompt.Input(ctx, "Email:"); err != nil {
			return err
		}
	}
	password := l.Password
	if password == "" {
		var err error
		if password, err = e.Prompt.Password(ctx, "Password:"); err != nil {
			return err
		}
	}
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	task := e.Tasks.Next("Logging in")
	if err := e.Session.Login(ctx, email, password); err != nil {
		task.Fail()
		return err
	}
	task.Succeed()
	e.Log.Okf("You are logged in as %s", e.Log.Bold(e.Session.Email()))
	return nil
}

func (l *LogoutCmd) Run(e *env.Environment) error {
	if !e.Session.IsLoggedIn() {
		e.Log.Infof("You are not logged in.")
		return nil
	}
	if err := e.Session.Logout(); err != nil {
		return err
	}
	e.Log.Okf("You are logged out.")
	return nil
}
