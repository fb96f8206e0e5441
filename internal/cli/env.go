// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Config, logging, session and API wiring shared by commands.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/ticketdesk-tui/internal/api"
	"github.com/jeranaias/ticketdesk-tui/internal/config"
	"github.com/jeranaias/ticketdesk-tui/internal/logging"
	"github.com/jeranaias/ticketdesk-tui/internal/session"
)

const actionLoadConfig = "load config"

// cmdEnv is everything a command needs to talk to the API.
type cmdEnv struct {
	cfg        *config.Config
	configFile string
	logger     *zap.Logger
	store      *session.Store
	gateway    *api.Gateway
	services   *api.Services

	closeLog func() error
}

// Close flushes the log file.
func (r *cmdEnv) Close() {
	if r.closeLog != nil {
		_ = r.closeLog()
	}
}

// loadConfig reads the config file named by --config, or the default
// locations, then applies flag overrides. A broken default config file is
// reported as a warning and the defaults are used.
func loadConfig(command string, args Args, s *IO) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		file string
		err  error
	)
	if args.ConfigPath != "" {
		file = config.ExpandPath(args.ConfigPath)
		cfg, err = config.LoadFromPath(file)
		if err != nil {
			return nil, "", NewCommandError(command, actionLoadConfig, file, err)
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, "", NewCommandError(command, actionLoadConfig, "defaults", err)
		}
		if err != nil {
			fmt.Fprintf(s.Err, "%s %v (using defaults)\n", RenderConditional(WarningStyle, "[WARN]"), err)
		} else if path, perr := config.ConfigPathTOML(); perr == nil && fileExists(path) {
			file = path
		} else if path, perr := config.ConfigPathJSON(); perr == nil && fileExists(path) {
			file = path
		}
	}

	if err := applyFlags(cfg, args); err != nil {
		return nil, "", NewCommandError(command, actionLoadConfig, "flags", err)
	}
	return cfg, file, nil
}

// applyFlags copies command-line overrides into cfg and revalidates.
func applyFlags(cfg *config.Config, args Args) error {
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
	}
	if args.Page != "" {
		cfg.UI.StartPage = strings.ToLower(args.Page)
	}
	if args.Theme != "" {
		cfg.UI.Theme = strings.ToLower(args.Theme)
	}
	cfg.SetDefaults()
	return cfg.Validate()
}

// newEnv loads the configuration and builds the logger, session store,
// gateway and services.
func newEnv(command string, args Args, s *IO) (*cmdEnv, error) {
	cfg, file, err := loadConfig(command, args, s)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{
		File:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(s.Err, "%s logging disabled: %v\n", RenderConditional(WarningStyle, "[WARN]"), err)
		logger, closeLog = logging.Nop(), nil
	}
	logger = logger.With(zap.String("command", command))

	store, err := session.NewStore(cfg.Session.File)
	if err != nil {
		if closeLog != nil {
			_ = closeLog()
		}
		return nil, NewCommandError(command, "open session", cfg.Session.File, err)
	}

	gw := api.NewGateway(cfg.API.BaseURL, store,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithLoginPath(cfg.API.LoginPath),
		api.WithRateLimit(cfg.API.RequestsPerSecond, cfg.API.Burst),
		api.WithLogger(logger.With(zap.String("component", "gateway"))),
	)

	return &cmdEnv{
		cfg:        cfg,
		configFile: file,
		logger:     logger,
		store:      store,
		gateway:    gw,
		services:   api.NewServices(gw),
		closeLog:   closeLog,
	}, nil
}

// describeError turns an API error into one line for the terminal.
func describeError(err error) string {
	switch {
	case errors.Is(err, api.ErrUnreachable):
		return "cannot reach the server"
	case errors.Is(err, api.ErrSessionInvalidated):
		return "the server rejected the stored session"
	}
	if msg := api.ServerMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
