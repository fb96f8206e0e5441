// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - status and version commands.
//
// Command: status
// Aliases: s
//
// Examples:
//   ticketdesk status                 Show status
//   ticketdesk s --json               Status in JSON format
//
// Status Sections:
//   Config:   file in use, API URL
//   Session:  stored user, when it was saved, token expiry
//   API:      whether the server answers, and whether it accepts the session
package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
)

// HandleStatus shows configuration, session and API status. When a session
// is stored it is checked against the API; a rejected token is cleared the
// same way the console would clear it.
func HandleStatus(args Args, s *IO) error {
	env, err := newEnv("status", args, s)
	if err != nil {
		return err
	}
	defer env.Close()

	data := collectStatus(env)
	if args.JSON {
		return NewJSONResponse("status", data).Write(s.Out)
	}
	printStatus(s, data)
	return nil
}

func collectStatus(env *cmdEnv) StatusData {
	data := StatusData{
		ConfigFile: env.configFile,
		API:        StatusAPIInfo{BaseURL: env.cfg.API.BaseURL},
		Session:    StatusSessionInfo{File: env.store.Path()},
	}

	if cred, ok := env.store.Credential(); ok {
		data.Session.LoggedIn = true
		data.Session.User = cred.DisplayName()
		data.Session.Email = cred.Email
		if !cred.SavedAt.IsZero() {
			saved := cred.SavedAt
			data.Session.SavedAt = &saved
		}
		if exp, ok := cred.ExpiresAt(); ok {
			data.Session.ExpiresAt = &exp
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), env.cfg.API.Timeout())
	defer cancel()
	err := probe(ctx, env, data.Session.LoggedIn)
	switch {
	case err == nil:
		data.API.Reachable = true
	case errors.Is(err, api.ErrSessionInvalidated):
		data.API.Reachable = true
		data.Session.LoggedIn = false
		data.Session.Rejected = true
	case api.StatusCode(err) != 0:
		// Any HTTP answer means the server is up.
		data.API.Reachable = true
	default:
		data.API.Error = describeError(err)
	}
	env.logger.Info("status checked",
		zap.Bool("reachable", data.API.Reachable),
		zap.Bool("logged_in", data.Session.LoggedIn),
	)
	return data
}

// probe asks the API for the clients list with the stored session, or for
// the login endpoint without one.
func probe(ctx context.Context, env *cmdEnv, loggedIn bool) error {
	if loggedIn {
		_, err := env.services.Clients.List(ctx)
		return err
	}
	return env.gateway.Get(ctx, env.cfg.API.LoginPath, nil)
}

func printStatus(s *IO, data StatusData) {
	out := s.Out
	fmt.Fprintln(out, RenderConditional(TitleStyle, "ticketdesk status"))

	fmt.Fprintln(out, RenderConditional(SectionStyle, "Config"))
	configFile := data.ConfigFile
	if configFile == "" {
		configFile = "(defaults)"
	}
	fmt.Fprintf(out, "  %s%s\n", RenderLabel("File"), configFile)
	fmt.Fprintf(out, "  %s%s\n", RenderLabel("API"), data.API.BaseURL)

	fmt.Fprintln(out, RenderConditional(SectionStyle, "Session"))
	fmt.Fprintf(out, "  %s%s\n", RenderLabel("File"), data.Session.File)
	switch {
	case data.Session.Rejected:
		fmt.Fprintf(out, "  %s%s rejected by the server, cleared\n", RenderLabel("State"), RenderStatus("warn"))
	case data.Session.LoggedIn:
		fmt.Fprintf(out, "  %s%s %s\n", RenderLabel("State"), RenderStatus("ok"), data.Session.User)
		if data.Session.SavedAt != nil {
			fmt.Fprintf(out, "  %s%s\n", RenderLabel("Since"), data.Session.SavedAt.Local().Format("2006-01-02 15:04"))
		}
		if data.Session.ExpiresAt != nil {
			fmt.Fprintf(out, "  %s%s\n", RenderLabel("Expires"), formatExpiry(*data.Session.ExpiresAt, time.Now()))
		}
	default:
		fmt.Fprintf(out, "  %s%s\n", RenderLabel("State"), RenderConditional(DimStyle, "not logged in"))
	}

	fmt.Fprintln(out, RenderConditional(SectionStyle, "API"))
	if data.API.Reachable {
		fmt.Fprintf(out, "  %s%s reachable\n", RenderLabel("Server"), RenderStatus("ok"))
	} else {
		fmt.Fprintf(out, "  %s%s %s\n", RenderLabel("Server"), RenderStatus("error"), data.API.Error)
	}
}

// formatExpiry renders an expiry time with the time left, or "expired".
func formatExpiry(exp, now time.Time) string {
	stamp := exp.Local().Format("2006-01-02 15:04")
	left := exp.Sub(now)
	if left <= 0 {
		return stamp + " (expired)"
	}
	return fmt.Sprintf("%s (in %s)", stamp, formatDuration(left))
}

// formatDuration formats a duration as "2d 3h", "3h 5m" or "5m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	}
	return "<1m"
}

// =============================================================================
// VERSION
// =============================================================================

// HandleVersion prints build information.
func HandleVersion(args Args, s *IO) error {
	data := VersionData{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if args.JSON {
		return NewJSONResponse("version", data).Write(s.Out)
	}
	fmt.Fprintf(s.Out, "ticketdesk %s\n", data.Version)
	fmt.Fprintf(s.Out, "  %s%s\n", RenderLabel("Commit"), data.GitCommit)
	fmt.Fprintf(s.Out, "  %s%s\n", RenderLabel("Built"), data.BuildDate)
	fmt.Fprintf(s.Out, "  %s%s %s\n", RenderLabel("Go"), data.GoVersion, data.Platform)
	return nil
}
