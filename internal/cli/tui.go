// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - starts the interactive console.
package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ticketdesk-tui/internal/clock"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/app"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/pages"
	"github.com/jeranaias/ticketdesk-tui/internal/ui/styles"
)

// HandleTUI runs the console until the operator quits.
func HandleTUI(args Args, s *IO) error {
	if err := RequiresTTY("start the console"); err != nil {
		return err
	}

	env, err := newEnv("tui", args, s)
	if err != nil {
		return err
	}
	defer env.Close()

	m := app.New(consoleDeps(env), pages.Route(env.cfg.UI.StartPage))
	defer m.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := m.Forward(ctx, env.cfg.Session.Watch); err != nil {
			env.logger.Warn("session watch stopped", zap.Error(err))
		}
	}()

	env.logger.Info("console started",
		zap.String("api", env.cfg.API.BaseURL),
		zap.String("start_page", env.cfg.UI.StartPage),
		zap.Bool("logged_in", env.store.Authenticated()),
	)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	env.logger.Info("console stopped")
	return nil
}

// consoleDeps builds the page dependencies from the command environment.
func consoleDeps(env *cmdEnv) pages.Deps {
	return pages.Deps{
		Services:      env.services,
		Store:         env.store,
		Clock:         clock.Real(),
		Logger:        env.logger,
		Theme:         styles.NewTheme(env.cfg.UI.Theme),
		NotifyDelay:   env.cfg.UI.NotificationDelay(),
		LoginRedirect: env.cfg.UI.LoginRedirect(),
		Timeout:       env.cfg.API.Timeout(),
	}
}
