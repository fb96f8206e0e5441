// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for ticketdesk.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdLogin:
		return "login"
	case CmdLogout:
		return "logout"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// commandNames maps typed names and aliases to commands.
var commandNames = map[string]Command{
	"tui":     CmdTUI,
	"login":   CmdLogin,
	"logout":  CmdLogout,
	"status":  CmdStatus,
	"s":       CmdStatus,
	"config":  CmdConfig,
	"version": CmdVersion,
	"help":    CmdHelp,
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string
	APIURL     string
	Theme      string
	JSON       bool

	// tui
	Page string

	// login
	Email string

	// Raw args left after the command name
	Raw []string
}

const usageText = `ticketdesk - terminal console for the ticketing API

Usage:
  ticketdesk [flags]               Start the console (default)
  ticketdesk login [--email E]     Log in without opening the console
  ticketdesk logout                Forget the stored session
  ticketdesk status, s             Show configuration, session and API status
  ticketdesk config [show]         Show the effective configuration
  ticketdesk config get KEY        Print one setting
  ticketdesk config set KEY VALUE  Change one setting in the config file
  ticketdesk config keys|path      List settings, or print the file path
  ticketdesk version               Show version information
  ticketdesk help                  Show this help

Flags:
  -c, --config PATH     Config file (default ~/.ticketdesk/config.toml)
      --api-url URL     API base URL, overrides api.base_url
  -p, --page NAME       Page after login: dashboard, clients, technicians, tickets
      --theme MODE      auto, dark or light
  -e, --email EMAIL     Email for login
      --json            JSON output for status, config and version
  -h, --help            Show this help
  -v, --version         Show version information

Login reads the password from the terminal without echo, or from the first
line of standard input when it is not a terminal.

Console keys:
  1-4        Dashboard, clients, technicians, tickets
  x, C-x     Dismiss the notification
  o          Log out
  ?          Toggle help
  C-c        Quit

Environment:
  TICKETDESK_API_URL, TICKETDESK_TIMEOUT, TICKETDESK_THEME,
  TICKETDESK_SESSION_FILE, TICKETDESK_LOG_FILE, TICKETDESK_LOG_LEVEL
`

// newFlagSet builds the flag set shared by every command.
func newFlagSet(args *Args, help, version *bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet("ticketdesk", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&args.ConfigPath, "config", "c", "", "config file")
	fs.StringVar(&args.APIURL, "api-url", "", "API base URL")
	fs.StringVarP(&args.Page, "page", "p", "", "page shown after login")
	fs.StringVar(&args.Theme, "theme", "", "auto, dark or light")
	fs.StringVarP(&args.Email, "email", "e", "", "email for login")
	fs.BoolVar(&args.JSON, "json", false, "JSON output")
	fs.BoolVarP(help, "help", "h", false, "show help")
	fs.BoolVarP(version, "version", "v", false, "show version")
	return fs
}

// Parse parses argv (without the program name) into a command and its
// arguments. Flags may appear before or after the command.
func Parse(argv []string) (Command, Args, error) {
	var (
		args    Args
		help    bool
		version bool
	)
	fs := newFlagSet(&args, &help, &version)
	if err := fs.Parse(argv); err != nil {
		return CmdHelp, args, &ValidationError{Field: "flags", Reason: err.Error()}
	}

	rest := fs.Args()
	cmd := CmdTUI
	if len(rest) > 0 {
		name := strings.ToLower(rest[0])
		c, ok := commandNames[name]
		if !ok {
			err := &ValidationError{Field: "command", Value: rest[0], Reason: "unknown command"}
			if s := SuggestCommand(name); s != "" {
				err.Example = "ticketdesk " + s
			}
			return CmdHelp, args, err
		}
		cmd = c
		rest = rest[1:]
	}
	args.Raw = rest

	switch {
	case help:
		cmd = CmdHelp
	case version:
		cmd = CmdVersion
	}
	return cmd, args, nil
}

// =============================================================================
// EXECUTION
// =============================================================================

// IO is where commands read input and write output.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
	// ReadPassword reads a secret without echo. Nil reads a line from In
	// when In is not a terminal.
	ReadPassword func() (string, error)

	lines *bufio.Reader
}

// StdIO returns the process streams.
func StdIO() *IO {
	return &IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// readLine reads one line from In without the line break.
func (s *IO) readLine() (string, error) {
	if s.lines == nil {
		s.lines = bufio.NewReader(s.In)
	}
	line, err := s.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Run parses argv, runs the command with the process streams and returns
// the exit code.
func Run(argv []string) int {
	return Execute(argv, StdIO())
}

// Execute parses argv and runs the command with streams s.
func Execute(argv []string, s *IO) int {
	cmd, args, err := Parse(argv)
	if err != nil {
		DisplayError(s.Err, err)
		fmt.Fprintln(s.Err, "Run 'ticketdesk help' for usage.")
		return GetExitCode(err)
	}
	if err := dispatch(cmd, args, s); err != nil {
		if args.JSON && (cmd == CmdStatus || cmd == CmdConfig || cmd == CmdVersion) {
			_ = NewJSONErrorResponse(cmd.String(), err).Write(s.Out)
		} else {
			DisplayError(s.Err, err)
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}

func dispatch(cmd Command, args Args, s *IO) error {
	switch cmd {
	case CmdTUI:
		return HandleTUI(args, s)
	case CmdLogin:
		return HandleLogin(args, s)
	case CmdLogout:
		return HandleLogout(args, s)
	case CmdStatus:
		return HandleStatus(args, s)
	case CmdConfig:
		return HandleConfig(args, s)
	case CmdVersion:
		return HandleVersion(args, s)
	default:
		_, err := io.WriteString(s.Out, usageText)
		return err
	}
}
