// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - config command.
//
// Examples:
//   ticketdesk config                          Show the effective configuration
//   ticketdesk config get api.base_url         Print one value
//   ticketdesk config set ui.theme light       Change one value in the file
//   ticketdesk config keys                     List settable keys
//   ticketdesk config path                     Print the config file path
package cli

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ticketdesk-tui/internal/config"
)

var configSubcommands = []string{"show", "get", "set", "keys", "path"}

// HandleConfig shows or edits the configuration file.
func HandleConfig(args Args, s *IO) error {
	sub := "show"
	rest := args.Raw
	if len(rest) > 0 {
		sub = strings.ToLower(rest[0])
		rest = rest[1:]
	}

	switch sub {
	case "show":
		cfg, _, err := loadConfig("config", args, s)
		if err != nil {
			return err
		}
		if args.JSON {
			return NewJSONResponse("config", cfg).Write(s.Out)
		}
		_, err = fmt.Fprint(s.Out, cfg.String())
		return err

	case "get":
		if len(rest) != 1 {
			return &ValidationError{Field: "arguments", Reason: "config get takes one key", Example: "ticketdesk config get api.base_url"}
		}
		cfg, _, err := loadConfig("config", args, s)
		if err != nil {
			return err
		}
		v, err := cfg.Get(rest[0])
		if err != nil {
			return &ValidationError{Field: "key", Value: rest[0], Reason: err.Error()}
		}
		_, err = fmt.Fprintln(s.Out, v)
		return err

	case "set":
		if len(rest) != 2 {
			return &ValidationError{Field: "arguments", Reason: "config set takes a key and a value", Example: "ticketdesk config set ui.theme light"}
		}
		return setConfigValue(args, s, rest[0], rest[1])

	case "keys":
		for _, k := range config.Keys() {
			fmt.Fprintln(s.Out, k)
		}
		return nil

	case "path":
		path, err := configFilePath(args)
		if err != nil {
			return NewCommandError("config", "locate file", "home directory", err)
		}
		_, err = fmt.Fprintln(s.Out, path)
		return err
	}

	err := &ValidationError{Field: "subcommand", Value: sub, Reason: "unknown config subcommand"}
	if c := closest(sub, configSubcommands); c != "" {
		err.Example = "ticketdesk config " + c
	}
	return err
}

// setConfigValue changes one key in the config file. Environment and flag
// overrides are not written back.
func setConfigValue(args Args, s *IO, key, value string) error {
	path, err := configFilePath(args)
	if err != nil {
		return NewCommandError("config", "locate file", "home directory", err)
	}

	cfg := config.Default()
	if fileExists(path) {
		load := config.LoadTOML
		if strings.HasSuffix(path, ".json") {
			load = config.LoadJSON
		}
		if err := load(cfg, path); err != nil {
			return NewCommandError("config", actionLoadConfig, path, err)
		}
	}

	if err := cfg.Set(key, value); err != nil {
		return &ValidationError{Field: "key", Value: key, Reason: err.Error()}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return NewCommandError("config", actionLoadConfig, key, err)
	}

	save := config.SaveTOML
	if strings.HasSuffix(path, ".json") {
		save = config.SaveJSON
	}
	if err := save(cfg, path); err != nil {
		return NewCommandError("config", "save", path, err)
	}
	fmt.Fprintf(s.Out, "%s %s = %s\n", RenderStatus("ok"), key, value)
	return nil
}

// configFilePath is --config, or the existing default file, preferring
// TOML.
func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return config.ExpandPath(args.ConfigPath), nil
	}
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if fileExists(tomlPath) {
		return tomlPath, nil
	}
	if jsonPath, err := config.ConfigPathJSON(); err == nil && fileExists(jsonPath) {
		return jsonPath, nil
	}
	return tomlPath, nil
}
