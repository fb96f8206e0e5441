// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// login.go - login and logout commands.
//
// Examples:
//   ticketdesk login                        Prompt for email and password
//   ticketdesk login -e ana@example.com     Prompt for the password only
//   echo "$PW" | ticketdesk login -e ana@example.com
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/pages"
	"github.com/jeranaias/ticketdesk-tui/internal/validate"
)

// HandleLogin stores a session for the given credentials. The error text
// shown for a rejected login matches the console's login page.
func HandleLogin(args Args, s *IO) error {
	email := strings.TrimSpace(args.Email)
	if email == "" && len(args.Raw) > 0 {
		email = strings.TrimSpace(args.Raw[0])
	}
	if email == "" {
		fmt.Fprint(s.Err, "Email: ")
		line, err := s.readLine()
		if err != nil {
			return NewCommandError("login", "read email", "no input", err)
		}
		email = strings.TrimSpace(line)
	}

	password, err := readPassword(s)
	if err != nil {
		return NewCommandError("login", "read password", "no input", err)
	}

	if err := validate.Login(email, password); err != nil {
		return &ValidationError{Field: "credentials", Reason: err.Error()}
	}

	env, err := newEnv("login", args, s)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := context.WithTimeout(context.Background(), env.cfg.API.Timeout())
	defer cancel()

	cred, err := env.services.Auth.Login(ctx, email, password)
	if err != nil {
		env.logger.Warn("login failed", zap.Int("status", api.StatusCode(err)), zap.Error(err))
		return &loginError{message: pages.LoginErrorMessage(err), err: err}
	}
	env.logger.Info("logged in", zap.String("email", cred.Email))

	fmt.Fprintf(s.Out, "%s %s\n", RenderStatus("ok"), pages.MsgLoginSuccess)
	fmt.Fprintf(s.Out, "%s%s\n", RenderLabel("User"), cred.DisplayName())
	if exp, ok := cred.ExpiresAt(); ok {
		fmt.Fprintf(s.Out, "%s%s\n", RenderLabel("Expires"), exp.Local().Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(s.Out, "%s%s\n", RenderLabel("Session"), env.store.Path())
	return nil
}

// HandleLogout forgets the stored session.
func HandleLogout(args Args, s *IO) error {
	env, err := newEnv("logout", args, s)
	if err != nil {
		return err
	}
	defer env.Close()

	if !env.store.Authenticated() {
		fmt.Fprintln(s.Out, RenderConditional(DimStyle, "Not logged in"))
		return nil
	}
	if err := env.services.Auth.Logout(); err != nil {
		return NewCommandError("logout", "clear session", env.store.Path(), err)
	}
	env.logger.Info("logged out")
	fmt.Fprintf(s.Out, "%s You have logged out\n", RenderStatus("ok"))
	return nil
}

// readPassword reads without echo from a terminal, or one line otherwise.
func readPassword(s *IO) (string, error) {
	if s.ReadPassword != nil {
		fmt.Fprint(s.Err, "Password: ")
		pw, err := s.ReadPassword()
		fmt.Fprintln(s.Err)
		return pw, err
	}
	if f, ok := s.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(s.Err, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(s.Err)
		return string(b), err
	}
	return s.readLine()
}

// loginError carries the operator-facing message for a failed login.
type loginError struct {
	message string
	err     error
}

func (e *loginError) Error() string { return e.message }

func (e *loginError) Unwrap() error { return e.err }
